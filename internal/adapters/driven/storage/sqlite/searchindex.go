package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/custodia-labs/memoir-cli/internal/core/domain"
	"github.com/custodia-labs/memoir-cli/internal/core/ports/driven"
)

// SearchIndex implements driven.SearchIndex over the chunks_fts table.
type SearchIndex struct {
	store *Store
}

var _ driven.SearchIndex = (*SearchIndex)(nil)

// Query ranks the memoir's chunks with FTS5 bm25. SQLite reports bm25 as a
// negative number where lower is better, so the returned score is negated.
func (i *SearchIndex) Query(
	ctx context.Context,
	memoirID string,
	terms []string,
	opts domain.SearchOptions,
) ([]domain.RankedChunk, error) {
	match := matchExpression(terms)
	if match == "" {
		return nil, fmt.Errorf("%w: empty term set", domain.ErrInvalidInput)
	}

	rows, err := i.store.db.QueryContext(ctx, `
		SELECT c.id, c.ordinal, c.content, bm25(chunks_fts) AS rank
		FROM chunks_fts
		JOIN chunks c ON c.id = chunks_fts.chunk_id
		WHERE chunks_fts MATCH ? AND chunks_fts.memoir_id = ?
		ORDER BY rank ASC, c.ordinal ASC
		LIMIT ?
	`, match, memoirID, opts.EffectiveLimit())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIndexQuery, err)
	}
	defer rows.Close()

	var hits []domain.RankedChunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var hit domain.RankedChunk
		var rank float64
		if err := rows.Scan(&hit.ChunkID, &hit.Ordinal, &hit.Content, &rank); err != nil {
			return nil, fmt.Errorf("%w: scanning hit: %w", domain.ErrIndexQuery, err)
		}
		hit.Score = -rank
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIndexQuery, err)
	}

	return hits, nil
}

// IndexChunks adds postings for already stored chunks.
func (i *SearchIndex) IndexChunks(ctx context.Context, memoirID string, chunks []domain.Chunk) error {
	return i.store.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return indexChunks(ctx, tx, memoirID, chunks)
	})
}

// Rebuild drops the memoir's postings and regenerates them from its chunks.
func (i *SearchIndex) Rebuild(ctx context.Context, memoirID string) error {
	return i.store.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := memoirExists(ctx, tx, memoirID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM chunks_fts WHERE memoir_id = ?", memoirID); err != nil {
			return fmt.Errorf("clearing postings: %w", err)
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO chunks_fts (content, chunk_id, memoir_id)
			SELECT content, id, memoir_id FROM chunks WHERE memoir_id = ?
			ORDER BY ordinal
		`, memoirID)
		if err != nil {
			return fmt.Errorf("rebuilding postings: %w", err)
		}
		return nil
	})
}

// indexChunks writes postings inside the caller's transaction.
func indexChunks(ctx context.Context, tx *sql.Tx, memoirID string, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks_fts (content, chunk_id, memoir_id)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing index statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		if chunk.MemoirID != "" && chunk.MemoirID != memoirID {
			return fmt.Errorf("%w: chunk %s belongs to memoir %s", domain.ErrInvalidInput, chunk.ID, chunk.MemoirID)
		}
		if _, err := stmt.ExecContext(ctx, chunk.Content, chunk.ID, memoirID); err != nil {
			return fmt.Errorf("indexing chunk %s: %w", chunk.ID, err)
		}
	}
	return nil
}

// matchExpression ORs the terms as quoted FTS5 strings so operators and
// column filters in user text are inert.
func matchExpression(terms []string) string {
	quoted := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		quoted = append(quoted, `"`+strings.ReplaceAll(term, `"`, `""`)+`"`)
	}
	return strings.Join(quoted, " OR ")
}
