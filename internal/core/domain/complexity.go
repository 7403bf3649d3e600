package domain

const unknownDescription = "Unknown"

// Complexity classifies content by the sophistication of its audience.
// It is an ordered enum: Basic < Intermediate < Advanced. The ordinal is
// used only for filtering and prioritisation, never for arithmetic.
type Complexity string

// Available complexity levels.
const (
	// ComplexityBasic targets newcomers to impact measurement.
	ComplexityBasic Complexity = "basic"

	// ComplexityIntermediate targets practitioners with some experience.
	ComplexityIntermediate Complexity = "intermediate"

	// ComplexityAdvanced targets measurement specialists.
	ComplexityAdvanced Complexity = "advanced"
)

// DefaultComplexity is applied when a query does not specify a level.
const DefaultComplexity = ComplexityIntermediate

// IsValid returns true if the complexity level is recognised.
func (c Complexity) IsValid() bool {
	switch c {
	case ComplexityBasic, ComplexityIntermediate, ComplexityAdvanced:
		return true
	default:
		return false
	}
}

// Rank returns the ordinal position of the level (basic=0, advanced=2).
// Unknown levels rank as intermediate.
func (c Complexity) Rank() int {
	switch c {
	case ComplexityBasic:
		return 0
	case ComplexityAdvanced:
		return 2
	default:
		return 1
	}
}

// Matches returns true if content at this level suits a reader at the
// given level. Content at or below the reader's level matches.
func (c Complexity) Matches(reader Complexity) bool {
	return c.Rank() <= reader.Rank()
}

// String returns the string representation.
func (c Complexity) String() string {
	return string(c)
}

// Description returns a human-readable description of the level.
func (c Complexity) Description() string {
	switch c {
	case ComplexityBasic:
		return "Basic (getting started)"
	case ComplexityIntermediate:
		return "Intermediate (established practice)"
	case ComplexityAdvanced:
		return "Advanced (specialist depth)"
	default:
		return unknownDescription
	}
}

// ParseComplexity converts a string into a Complexity level.
// Unrecognised or empty input falls back to DefaultComplexity.
func ParseComplexity(s string) Complexity {
	c := Complexity(s)
	if c.IsValid() {
		return c
	}
	return DefaultComplexity
}
