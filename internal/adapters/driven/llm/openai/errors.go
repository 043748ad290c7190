package openai

import (
	"context"
	"errors"
	"net/http"

	openaisdk "github.com/openai/openai-go"

	"github.com/custodia-labs/memoir-cli/internal/core/domain"
)

// mapError converts a client failure into a *domain.ServiceError.
// Caller cancellation is returned unchanged so it is never retried.
func mapError(op string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	var apiErr *openaisdk.Error
	if errors.As(err, &apiErr) {
		svcErr := domain.NewServiceError(op, kindForStatus(apiErr.StatusCode), err)
		svcErr.StatusCode = apiErr.StatusCode
		return svcErr
	}

	// Network failures and deadlines.
	return domain.NewServiceError(op, domain.ServiceUnavailable, err)
}

func kindForStatus(status int) domain.ServiceErrorKind {
	switch {
	case status == http.StatusTooManyRequests:
		return domain.ServiceRateLimited
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return domain.ServiceAuth
	case status == http.StatusRequestTimeout || status >= http.StatusInternalServerError:
		return domain.ServiceUnavailable
	default:
		return domain.ServiceInvalidRequest
	}
}
