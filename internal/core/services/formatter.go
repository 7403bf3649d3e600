package services

import (
	"fmt"
	"strings"

	"github.com/quillframe/contexta/internal/core/domain"
)

// Format renders an assembled context as one ordered text block:
// summary, ranked chunks, recommended goals, suggested indicators,
// implementation guidance. The output is deterministic for identical
// input, suitable for diff-based testing.
func (s *AssemblyService) Format(assembled *domain.AssembledContext) string {
	if assembled == nil {
		return ""
	}

	var b strings.Builder

	b.WriteString("== Context Summary ==\n")
	b.WriteString(assembled.ContextSummary)
	b.WriteString("\n")

	b.WriteString("\n== Content ==\n")
	if len(assembled.Chunks) == 0 {
		b.WriteString("(no content chunks)\n")
	}
	for i, c := range assembled.Chunks {
		fmt.Fprintf(&b, "%d. %s [%s] (relevance %.2f)\n", i+1, c.Name, c.ContentType, c.RelevanceScore)
		if c.Explanation != "" {
			fmt.Fprintf(&b, "   %s\n", c.Explanation)
		}
		if c.Body != "" {
			fmt.Fprintf(&b, "   %s\n", c.Body)
		}
	}

	if len(assembled.Recommendations.TopGoals) > 0 {
		b.WriteString("\n== Recommended Goals ==\n")
		for _, g := range assembled.Recommendations.TopGoals {
			fmt.Fprintf(&b, "- %s: %s\n", g.Name, g.Description)
		}
	}

	if len(assembled.Recommendations.SuggestedIndicators) > 0 {
		b.WriteString("\n== Suggested Indicators ==\n")
		for _, ind := range assembled.Recommendations.SuggestedIndicators {
			if ind.Unit != "" {
				fmt.Fprintf(&b, "- %s (%s): %s\n", ind.Name, ind.Unit, ind.Description)
			} else {
				fmt.Fprintf(&b, "- %s: %s\n", ind.Name, ind.Description)
			}
		}
	}

	if len(assembled.Recommendations.ImplementationGuidance) > 0 {
		b.WriteString("\n== Implementation Guidance ==\n")
		for i, step := range assembled.Recommendations.ImplementationGuidance {
			fmt.Fprintf(&b, "%d. %s\n", i+1, step)
		}
	}

	return b.String()
}
