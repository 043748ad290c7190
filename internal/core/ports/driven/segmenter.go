package driven

// Segmenter splits raw memoir text into ordered chunk contents.
// Implementations are pure and deterministic; empty text yields nothing.
type Segmenter interface {
	Segment(text string) []string
}
