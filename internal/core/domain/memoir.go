package domain

import (
	"strings"
	"time"
)

// Well-known chunk annotation keys.
const (
	// AnnotationQuestions holds questions generated from the chunk content.
	AnnotationQuestions = "questions"

	// AnnotationImagePrompt holds a prompt describing an illustration of the chunk.
	AnnotationImagePrompt = "image_prompt"
)

// FallbackSeparator joins chunk contents when the whole memoir is used as context.
const FallbackSeparator = "\n\n"

// Memoir is one logical document composed of ordered chunks.
// It is created once at ingestion and never changes afterwards.
type Memoir struct {
	// ID is the stable unique identifier.
	ID string

	// Title is the human-readable title.
	Title string

	// Author is the memoir's author, used in answer prompts.
	Author string

	// CreatedAt is when the memoir was ingested.
	CreatedAt time.Time
}

// Chunk is a contiguous segment of a memoir.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// MemoirID links to the parent Memoir.
	MemoirID string

	// Ordinal is the position within the memoir, starting at zero.
	// Chunks ordered by ordinal reconstruct the document order.
	Ordinal int

	// Content is the non-empty text of this chunk.
	Content string

	// ImageRef optionally points at an illustration for the chunk.
	ImageRef string

	// Annotations hold derived text such as generated questions.
	// They never affect ordinal or content.
	Annotations map[string]string
}

// ConcatChunks joins chunk contents in the order given.
func ConcatChunks(chunks []Chunk) string {
	parts := make([]string, len(chunks))
	for i := range chunks {
		parts[i] = chunks[i].Content
	}
	return strings.Join(parts, FallbackSeparator)
}

// MemoirStats summarises a memoir for listings.
type MemoirStats struct {
	Memoir     Memoir
	ChunkCount int
	TotalChars int
}
