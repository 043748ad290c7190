package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/memoir-cli/internal/core/domain"
	"github.com/custodia-labs/memoir-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memoir-cli/internal/core/ports/driving"
	"github.com/custodia-labs/memoir-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService segments memoir text and stores it with its index.
type IngestService struct {
	store       driven.MemoirStore
	segmenter   driven.Segmenter
	normalisers driven.NormaliserRegistry
	locks       *keyedMutex
}

// NewIngestService creates a new ingest service.
func NewIngestService(store driven.MemoirStore, segmenter driven.Segmenter) *IngestService {
	return &IngestService{
		store:     store,
		segmenter: segmenter,
		locks:     newKeyedMutex(),
	}
}

// WithNormalisers sets the registry used to convert source files.
// Without one, sources are read as plain text.
func (s *IngestService) WithNormalisers(registry driven.NormaliserRegistry) *IngestService {
	s.normalisers = registry
	return s
}

// Ingest segments the text and stores the chunks. A memoir created by this
// call is removed again when its chunks cannot be stored.
func (s *IngestService) Ingest(ctx context.Context, req driving.IngestRequest) (*driving.IngestResult, error) {
	logger.Section("Ingest")

	text, format, err := s.sourceText(ctx, &req)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	author := strings.TrimSpace(req.Author)
	if title == "" || author == "" {
		return nil, fmt.Errorf("%w: title and author are required", domain.ErrInvalidInput)
	}

	contents := s.segmenter.Segment(text)
	if len(contents) == 0 {
		return nil, fmt.Errorf("%w: memoir text is empty", domain.ErrInvalidInput)
	}
	logger.Debug("Segmented %q into %d chunks", title, len(contents))

	if req.Append {
		unlock, err := s.locks.lock(ctx, "title:"+title+"\x00"+author, req.NoWait)
		if err != nil {
			return nil, err
		}
		defer unlock()
	}

	result := &driving.IngestResult{Format: format}
	if req.Append {
		id, err := s.store.FindMemoir(ctx, title, author)
		switch {
		case err == nil:
			result.MemoirID = id
			logger.Debug("Appending to existing memoir %s", id)
		case errors.Is(err, domain.ErrNotFound):
		default:
			return nil, fmt.Errorf("finding memoir: %w", err)
		}
	}

	if result.MemoirID == "" {
		id, err := s.store.CreateMemoir(ctx, title, author)
		if err != nil {
			return nil, fmt.Errorf("creating memoir: %w", err)
		}
		result.MemoirID = id
		result.Created = true
		logger.Debug("Created memoir %s", id)
	}

	ids, err := s.appendLocked(ctx, result.MemoirID, contents, req.NoWait)
	if err != nil {
		if result.Created {
			s.discard(result.MemoirID)
		}
		return nil, err
	}
	result.ChunkIDs = ids

	logger.Info("Stored %d chunks for memoir %s", len(ids), result.MemoirID)
	return result, nil
}

// sourceText returns the memoir text for req, converting Source when set.
// It fills an empty title from the source.
func (s *IngestService) sourceText(ctx context.Context, req *driving.IngestRequest) (string, string, error) {
	if req.Source == nil {
		return req.Text, "", nil
	}
	if s.normalisers == nil {
		return string(req.Source), "", nil
	}

	src, err := s.normalisers.Normalise(ctx, req.Filename, req.Source)
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", req.Filename, err)
	}
	logger.Debug("Converted %q as %s", req.Filename, src.Format)
	if strings.TrimSpace(req.Title) == "" {
		req.Title = src.Title
	}
	return src.Text, src.Format, nil
}

func (s *IngestService) appendLocked(ctx context.Context, memoirID string, contents []string, noWait bool) ([]string, error) {
	unlock, err := s.locks.lock(ctx, "memoir:"+memoirID, noWait)
	if err != nil {
		return nil, err
	}
	defer unlock()

	ids, err := s.store.AppendChunks(ctx, memoirID, contents)
	if err != nil {
		return nil, fmt.Errorf("storing chunks: %w", err)
	}
	return ids, nil
}

// discard removes a memoir whose first ingestion failed.
func (s *IngestService) discard(memoirID string) {
	if err := s.store.DeleteMemoir(context.Background(), memoirID); err != nil {
		logger.Warn("Failed to remove incomplete memoir %s: %v", memoirID, err)
	}
}
