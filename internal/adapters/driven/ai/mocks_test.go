package ai

import (
	"context"
	"sync"

	"github.com/custodia-labs/memoir-cli/internal/core/ports/driven"
)

// fakeLLM records requests and replays scripted replies.
type fakeLLM struct {
	mu       sync.Mutex
	requests []driven.CompletionRequest
	replies  []string
	errs     []error
	calls    int
}

func (f *fakeLLM) Complete(ctx context.Context, req driven.CompletionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.calls
	f.calls++
	f.requests = append(f.requests, req)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.replies) {
		return f.replies[i], nil
	}
	if len(f.replies) > 0 {
		return f.replies[len(f.replies)-1], nil
	}
	return "", nil
}

func (f *fakeLLM) ModelName() string              { return "fake" }
func (f *fakeLLM) Ping(_ context.Context) error { return nil }
func (f *fakeLLM) Close() error                   { return nil }

func (f *fakeLLM) last() driven.CompletionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

// fakeModeration returns a fixed result.
type fakeModeration struct {
	result driven.ModerationResult
	err    error
	text   string
}

func (f *fakeModeration) Moderate(_ context.Context, text string) (driven.ModerationResult, error) {
	f.text = text
	return f.result, f.err
}

func (f *fakeModeration) Close() error { return nil }

// stubPrompts serves fixed templates.
type stubPrompts map[string]string

func (s stubPrompts) Load(name string) (string, error) {
	if p, ok := s[name]; ok {
		return p, nil
	}
	p, _ := driven.DefaultPrompt(name)
	return p, nil
}

func (s stubPrompts) Reload() {}
