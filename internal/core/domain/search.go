package domain

// DefaultQueryLimit is the number of ranked chunks requested from the index.
const DefaultQueryLimit = 10

// RankedChunk is a single hit from the full-text index.
type RankedChunk struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Ordinal is the chunk's position in its memoir; it breaks score ties.
	Ordinal int

	// Content is the chunk text.
	Content string

	// Score is the relevance score; higher is more relevant.
	Score float64
}

// Less reports whether r ranks before other: higher score first,
// then the earlier chunk.
func (r RankedChunk) Less(other RankedChunk) bool {
	if r.Score != other.Score {
		return r.Score > other.Score
	}
	return r.Ordinal < other.Ordinal
}

// SearchOptions configures an index query.
type SearchOptions struct {
	// Limit is the maximum number of results (default DefaultQueryLimit).
	Limit int
}

// EffectiveLimit returns the limit or the default when unset.
func (o SearchOptions) EffectiveLimit() int {
	if o.Limit <= 0 {
		return DefaultQueryLimit
	}
	return o.Limit
}
