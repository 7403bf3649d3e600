package tui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	assert.Equal(t, lipgloss.Color("#7C3AED"), theme.Primary)
	assert.NotEmpty(t, theme.Error)
}

func TestNewStyles_NilThemeUsesDefault(t *testing.T) {
	styles := NewStyles(nil)

	require.NotNil(t, styles)
	assert.Equal(t, DefaultTheme().Primary, styles.Theme().Primary)
}

func TestDefaultStyles_TitleIsBold(t *testing.T) {
	styles := DefaultStyles()

	assert.True(t, styles.Title.GetBold())
}
