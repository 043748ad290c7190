// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/memoir-cli/internal/core/domain"
)

// MemoirsLoaded carries the memoir list for the picker.
type MemoirsLoaded struct {
	Memoirs []domain.MemoirStats
	Err     error
}

// MemoirSelected is sent when the user picks a memoir to chat with.
type MemoirSelected struct {
	Memoir domain.Memoir
}

// AnswerReceived carries the pipeline result for one question.
type AnswerReceived struct {
	Question string
	Answer   domain.Answer
	Err      error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ErrorOccurred is sent when an error needs to be displayed.
type ErrorOccurred struct {
	Err error
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewPicker lists memoirs to choose from.
	ViewPicker ViewType = iota
	// ViewChat is the question and answer session.
	ViewChat
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewPicker:
		return "picker"
	case ViewChat:
		return "chat"
	default:
		return "unknown"
	}
}
