package driving

import (
	"context"

	"github.com/custodia-labs/memoir-cli/internal/core/domain"
)

// AskService answers questions about a stored memoir.
type AskService interface {
	// Ask runs the answer pipeline for one question. The returned Answer is
	// always populated; the error is non-nil only when the memoir is missing,
	// a remote service failed or the context ended.
	Ask(ctx context.Context, q domain.Question) (domain.Answer, error)
}
