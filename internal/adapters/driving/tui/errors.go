package tui

import "errors"

// ErrMissingAssemblyService is returned when the assembly service is not provided.
var ErrMissingAssemblyService = errors.New("tui: assembly service is required")
