// Package mcp provides an MCP (Model Context Protocol) server adapter
// for Contexta. It lets AI assistants assemble impact-measurement
// contexts and browse the content taxonomy.
package mcp

import "errors"

// ErrMissingAssemblyService is returned when the assembly service is not provided.
var ErrMissingAssemblyService = errors.New("mcp: assembly service is required")
