package tui

import "errors"

// ErrMissingMemoirService is returned when the memoir service is not provided.
var ErrMissingMemoirService = errors.New("tui: memoir service is required")

// ErrMissingAskService is returned when the ask service is not provided.
var ErrMissingAskService = errors.New("tui: ask service is required")
