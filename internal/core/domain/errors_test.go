package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsafeInput", ErrUnsafeInput},
		{"ErrNoKeywordsExtracted", ErrNoKeywordsExtracted},
		{"ErrNoValidQueryTerms", ErrNoValidQueryTerms},
		{"ErrIndexQuery", ErrIndexQuery},
		{"ErrService", ErrService},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
		{"ErrModerationUnavailable", ErrModerationUnavailable},
		{"ErrIngestInProgress", ErrIngestInProgress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrNotFound(t *testing.T) {
	assert.Equal(t, "not found", ErrNotFound.Error())
	assert.True(t, errors.Is(fmt.Errorf("memoir: %w", ErrNotFound), ErrNotFound))
	assert.False(t, errors.Is(ErrNotFound, ErrInvalidInput))
}

func TestServiceErrorKind_Transient(t *testing.T) {
	tests := []struct {
		kind      ServiceErrorKind
		transient bool
	}{
		{ServiceUnavailable, true},
		{ServiceRateLimited, true},
		{ServiceInvalidRequest, false},
		{ServiceAuth, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.transient, tt.kind.Transient())
		})
	}
}

func TestServiceError_MatchesErrService(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("extract keywords: %w", NewServiceError("complete", ServiceUnavailable, cause))

	assert.True(t, errors.Is(err, ErrService))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrNotFound))

	var svcErr *ServiceError
	assert.True(t, errors.As(err, &svcErr))
	assert.Equal(t, "complete", svcErr.Op)
	assert.True(t, svcErr.Transient())
}

func TestServiceError_Error(t *testing.T) {
	err := NewServiceError("moderate", ServiceAuth, errors.New("bad key"))
	assert.Equal(t, "moderate: auth: bad key", err.Error())

	err.StatusCode = 401
	assert.Equal(t, "moderate: auth (status 401): bad key", err.Error())
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(NewServiceError("complete", ServiceRateLimited, errors.New("429"))))
	assert.False(t, IsTransient(NewServiceError("complete", ServiceInvalidRequest, errors.New("400"))))
	assert.False(t, IsTransient(errors.New("plain")))
	assert.False(t, IsTransient(nil))
}
