package domain

// Verdict is the safety gate's decision about a question.
type Verdict string

// Safety verdicts.
const (
	VerdictSafe   Verdict = "safe"
	VerdictUnsafe Verdict = "unsafe"
)

// Classification is the output of a safety classifier.
type Classification struct {
	// Verdict is Safe or Unsafe.
	Verdict Verdict

	// Category is the reported hazard category for unsafe input, if any.
	Category string
}

// IsSafe reports whether the question may continue through the pipeline.
func (c Classification) IsSafe() bool {
	return c.Verdict != VerdictUnsafe
}

// Outcome is the terminal state reached by the retrieval pipeline.
type Outcome string

// Pipeline outcomes.
const (
	// OutcomeAnswered means the top-ranked chunk was used as context.
	OutcomeAnswered Outcome = "answered"

	// OutcomeFallback means no chunk matched and the whole memoir was used.
	OutcomeFallback Outcome = "fallback"

	// OutcomeRejected means the safety gate refused the question.
	OutcomeRejected Outcome = "rejected"

	// OutcomeNoKeywords means keyword extraction returned nothing.
	OutcomeNoKeywords Outcome = "no_keywords"

	// OutcomeNoValidTerms means sanitisation left no query terms.
	OutcomeNoValidTerms Outcome = "no_valid_terms"

	// OutcomeServiceFailure means a remote dependency failed.
	OutcomeServiceFailure Outcome = "service_failure"

	// OutcomeNotFound means the memoir does not exist.
	OutcomeNotFound Outcome = "not_found"
)

// Succeeded reports whether an answer was generated from memoir context.
func (o Outcome) Succeeded() bool {
	return o == OutcomeAnswered || o == OutcomeFallback
}

// Description returns a human-readable description of the outcome.
func (o Outcome) Description() string {
	switch o {
	case OutcomeAnswered:
		return "Answered from best matching section"
	case OutcomeFallback:
		return "Answered from full memoir (no matching section)"
	case OutcomeRejected:
		return "Rejected by safety check"
	case OutcomeNoKeywords:
		return "No keywords extracted"
	case OutcomeNoValidTerms:
		return "No valid query terms"
	case OutcomeServiceFailure:
		return "Service failure"
	case OutcomeNotFound:
		return "Memoir not found"
	default:
		return "Unknown"
	}
}

// Answer is the result of asking one question about a memoir.
type Answer struct {
	// Outcome is the terminal pipeline state.
	Outcome Outcome

	// Text is the user-facing answer or guidance message.
	Text string

	// Category is the safety category for rejected questions.
	Category string

	// Keywords is the raw extractor output.
	Keywords string

	// Terms are the sanitised query terms.
	Terms []string

	// ContextChunkIDs lists the chunks handed to the synthesiser, in order.
	ContextChunkIDs []string
}

// Question is a single query against a memoir.
type Question struct {
	// MemoirID identifies the memoir to search.
	MemoirID string

	// Text is the raw question.
	Text string

	// Seed makes remote generation reproducible when the provider supports it.
	Seed *int64
}

// NotAddressedText is the answer given when the memoir has nothing to
// say about a question.
const NotAddressedText = "The memoir does not address this."

// Err returns the taxonomy error for guidance outcomes, or nil when the
// question was answered.
func (a Answer) Err() error {
	switch a.Outcome {
	case OutcomeRejected:
		return ErrUnsafeInput
	case OutcomeNoKeywords:
		return ErrNoKeywordsExtracted
	case OutcomeNoValidTerms:
		return ErrNoValidQueryTerms
	case OutcomeServiceFailure:
		return ErrService
	case OutcomeNotFound:
		return ErrNotFound
	default:
		return nil
	}
}
