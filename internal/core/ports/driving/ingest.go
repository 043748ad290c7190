package driving

import "context"

// IngestRequest describes one memoir text to segment and store.
type IngestRequest struct {
	// Title and Author identify the memoir.
	Title  string
	Author string

	// Text is the raw memoir text. It is ignored when Source is set.
	Text string

	// Source is the content of a memoir file. It is converted to text by
	// the normaliser matching Filename. An empty Title defaults to the
	// title found in the file.
	Source   []byte
	Filename string

	// Append adds the chunks to the earliest memoir with the same title and
	// author instead of creating a new memoir. A memoir is created when none
	// exists.
	Append bool

	// NoWait fails with domain.ErrIngestInProgress instead of waiting when
	// another ingestion holds the memoir.
	NoWait bool
}

// IngestResult reports what an ingestion stored.
type IngestResult struct {
	MemoirID string
	ChunkIDs []string

	// Created is false when chunks were appended to an existing memoir.
	Created bool

	// Format names the normaliser used for Source, if any.
	Format string
}

// IngestService segments memoir text and stores it with its index.
type IngestService interface {
	// Ingest segments the text and stores the chunks atomically.
	// Ingestions of the same memoir are serialised.
	Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error)
}
