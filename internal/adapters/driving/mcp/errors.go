// Package mcp provides an MCP (Model Context Protocol) server adapter for memoir.
// It lets AI assistants ask questions about stored memoirs and browse their sections.
package mcp

import "errors"

// ErrMissingMemoirService is returned when the memoir service is not provided.
var ErrMissingMemoirService = errors.New("mcp: memoir service is required")

// errAskUnavailable is returned by ask_memoir when no ask service is wired.
var errAskUnavailable = errors.New("ask is unavailable: configure an LLM provider with 'memoir settings llm'")
