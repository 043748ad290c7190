package driving

import "context"

// AnnotateOptions controls question annotation.
type AnnotateOptions struct {
	// Count is the number of questions per chunk (default 2).
	Count int

	// Overwrite regenerates chunks that already have questions.
	Overwrite bool

	// Progress is called after each chunk when set.
	Progress func(done, total int)
}

// AnnotateResult reports an annotation run.
type AnnotateResult struct {
	Annotated int
	Skipped   int
}

// AnnotationService derives annotations for stored chunks.
type AnnotationService interface {
	// Annotate generates questions answerable from each chunk and stores
	// them as the "questions" annotation.
	Annotate(ctx context.Context, memoirID string, opts AnnotateOptions) (*AnnotateResult, error)
}
