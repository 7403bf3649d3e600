package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/quillframe/contexta/internal/core/domain"
)

// assemblyCompleted is sent when an assembly finishes.
type assemblyCompleted struct {
	assembled *domain.AssembledContext
	err       error
}

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *Styles

	// input is the query input field.
	input textinput.Model

	// viewport scrolls the assembled context.
	viewport viewport.Model

	// assembled is the last assembled context.
	assembled *domain.AssembledContext

	// focusInput is true while the query input has focus.
	focusInput bool

	// assembling is true while an assembly is in flight.
	assembling bool

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	ti := textinput.New()
	ti.Placeholder = "What do you want to measure?"
	ti.Focus()
	ti.CharLimit = 200

	return &App{
		ports:      ports,
		ctx:        context.Background(),
		styles:     DefaultStyles(),
		input:      ti,
		viewport:   viewport.New(80, 20),
		focusInput: true,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tea.SetWindowTitle("contexta"),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.setDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case assemblyCompleted:
		a.handleAssemblyCompleted(msg)
		return a, nil
	}

	return a.forward(msg)
}

// handleKeyMsg processes keyboard input.
func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return a, tea.Quit
	}

	if msg.Type == tea.KeyEsc {
		if a.focusInput {
			return a, tea.Quit
		}
		// Back to the query input.
		a.focusInput = true
		a.input.Focus()
		return a, nil
	}

	if msg.Type == tea.KeyEnter && a.focusInput {
		query := a.input.Value()
		if query == "" || a.assembling {
			return a, nil
		}
		a.assembling = true
		a.err = nil
		a.focusInput = false
		a.input.Blur()
		return a, a.performAssembly(query)
	}

	if !a.focusInput {
		switch msg.String() {
		case "q":
			return a, tea.Quit
		case "n":
			// New query: clear input and focus it.
			a.focusInput = true
			a.input.Focus()
			a.input.SetValue("")
			return a, nil
		}
	}

	return a.forward(msg)
}

// forward routes a message to the focused component.
func (a *App) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if a.focusInput {
		a.input, cmd = a.input.Update(msg)
	} else {
		a.viewport, cmd = a.viewport.Update(msg)
	}
	return a, cmd
}

// performAssembly assembles a context for the query.
func (a *App) performAssembly(query string) tea.Cmd {
	return func() tea.Msg {
		assembled, err := a.ports.Assembly.Assemble(a.ctx, domain.ContentQuery{
			Query: query,
		})
		return assemblyCompleted{assembled: assembled, err: err}
	}
}

// handleAssemblyCompleted renders the assembled context into the viewport.
func (a *App) handleAssemblyCompleted(msg assemblyCompleted) {
	a.assembling = false

	if msg.err != nil {
		a.err = msg.err
		a.focusInput = true
		a.input.Focus()
		return
	}

	a.err = nil
	a.assembled = msg.assembled
	a.viewport.SetContent(a.ports.Assembly.Format(msg.assembled))
	a.viewport.GotoTop()
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)

	sections = append(sections, a.styles.Title.Render("Contexta"), "")
	sections = append(sections, a.styles.InputField.Render(a.input.View()), "")

	if a.err != nil {
		sections = append(sections, a.styles.Error.Render("Error: "+a.err.Error()), "")
	}

	if a.assembling {
		sections = append(sections, a.styles.Muted.Render("Assembling..."))
	} else if a.assembled != nil {
		sections = append(sections, a.viewport.View())
	}

	sections = append(sections, "", a.styles.StatusBar.Render(a.statusLine()))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// statusLine renders the key hints for the current mode.
func (a *App) statusLine() string {
	if a.focusInput {
		return "enter: assemble • esc: quit"
	}
	return "↑/↓: scroll • n: new query • esc: back • q: quit"
}

// setDimensions sizes the components to the terminal.
func (a *App) setDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	a.input.Width = width - 8
	a.viewport.Width = width
	// Reserve space for header, input, and status line.
	a.viewport.Height = max(height-10, 3)
}

// Query returns the current query text.
func (a *App) Query() string {
	return a.input.Value()
}

// Assembled returns the last assembled context.
func (a *App) Assembled() *domain.AssembledContext {
	return a.assembled
}

// Err returns the current error, if any.
func (a *App) Err() error {
	return a.err
}

// InputFocused returns whether the query input has focus.
func (a *App) InputFocused() bool {
	return a.focusInput
}

// Ready returns whether the app is ready to render.
func (a *App) Ready() bool {
	return a.ready
}
