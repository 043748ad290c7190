package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/memoir-cli/internal/core/domain"
	"github.com/custodia-labs/memoir-cli/internal/core/ports/driven"
)

// MemoirStore implements driven.MemoirStore.
type MemoirStore struct {
	store *Store
}

var _ driven.MemoirStore = (*MemoirStore)(nil)

// CreateMemoir stores a new memoir and returns its ID.
func (s *MemoirStore) CreateMemoir(ctx context.Context, title, author string) (string, error) {
	id := uuid.New().String()
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO memoirs (id, title, author, created_at)
		VALUES (?, ?, ?, ?)
	`, id, title, author, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("creating memoir: %w", err)
	}
	return id, nil
}

// AppendChunks stores contents as the memoir's next chunks and indexes them
// in the same transaction.
func (s *MemoirStore) AppendChunks(ctx context.Context, memoirID string, contents []string) ([]string, error) {
	for i, content := range contents {
		if content == "" {
			return nil, fmt.Errorf("%w: chunk %d is empty", domain.ErrInvalidInput, i)
		}
	}

	var ids []string
	err := s.store.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := memoirExists(ctx, tx, memoirID); err != nil {
			return err
		}
		if len(contents) == 0 {
			return nil
		}

		var next int
		row := tx.QueryRowContext(ctx,
			"SELECT COALESCE(MAX(ordinal) + 1, 0) FROM chunks WHERE memoir_id = ?", memoirID)
		if err := row.Scan(&next); err != nil {
			return fmt.Errorf("reading next ordinal: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO chunks (id, memoir_id, ordinal, content, created_at)
			VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing statement: %w", err)
		}
		defer stmt.Close()

		now := time.Now().UTC()
		chunks := make([]domain.Chunk, len(contents))
		for i, content := range contents {
			chunks[i] = domain.Chunk{
				ID:       uuid.New().String(),
				MemoirID: memoirID,
				Ordinal:  next + i,
				Content:  content,
			}
			if _, err := stmt.ExecContext(ctx, chunks[i].ID, memoirID, chunks[i].Ordinal, content, now); err != nil {
				return fmt.Errorf("inserting chunk %d: %w", chunks[i].Ordinal, err)
			}
		}

		if err := indexChunks(ctx, tx, memoirID, chunks); err != nil {
			return err
		}

		ids = make([]string, len(chunks))
		for i := range chunks {
			ids[i] = chunks[i].ID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// GetChunks returns the memoir's chunks ordered by ordinal, with annotations.
func (s *MemoirStore) GetChunks(ctx context.Context, memoirID string) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, memoir_id, ordinal, content, image_ref
		FROM chunks WHERE memoir_id = ?
		ORDER BY ordinal
	`, memoirID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.Chunk
		var imageRef sql.NullString
		if err := rows.Scan(&chunk.ID, &chunk.MemoirID, &chunk.Ordinal, &chunk.Content, &imageRef); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunk.ImageRef = imageRef.String
		chunks = append(chunks, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	if len(chunks) == 0 {
		if err := memoirExists(ctx, s.store.db, memoirID); err != nil {
			return nil, err
		}
		return chunks, nil
	}

	if err := s.loadAnnotations(ctx, memoirID, chunks); err != nil {
		return nil, err
	}
	return chunks, nil
}

func (s *MemoirStore) loadAnnotations(ctx context.Context, memoirID string, chunks []domain.Chunk) error {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT a.chunk_id, a.key, a.value
		FROM chunk_annotations a JOIN chunks c ON c.id = a.chunk_id
		WHERE c.memoir_id = ?
	`, memoirID)
	if err != nil {
		return fmt.Errorf("querying annotations: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*domain.Chunk, len(chunks))
	for i := range chunks {
		byID[chunks[i].ID] = &chunks[i]
	}

	for rows.Next() {
		var chunkID, key, value string
		if err := rows.Scan(&chunkID, &key, &value); err != nil {
			return fmt.Errorf("scanning annotation: %w", err)
		}
		chunk, ok := byID[chunkID]
		if !ok {
			continue
		}
		if chunk.Annotations == nil {
			chunk.Annotations = make(map[string]string)
		}
		chunk.Annotations[key] = value
	}
	return rows.Err()
}

// FindMemoir returns the earliest memoir with this title and author.
func (s *MemoirStore) FindMemoir(ctx context.Context, title, author string) (string, error) {
	var id string
	err := s.store.db.QueryRowContext(ctx, `
		SELECT id FROM memoirs
		WHERE title = ? AND author = ?
		ORDER BY created_at, rowid
		LIMIT 1
	`, title, author).Scan(&id)
	if err != nil {
		if isNoRows(err) {
			return "", fmt.Errorf("memoir %q by %q: %w", title, author, domain.ErrNotFound)
		}
		return "", fmt.Errorf("finding memoir: %w", err)
	}
	return id, nil
}

// GetMemoir retrieves a memoir by ID.
func (s *MemoirStore) GetMemoir(ctx context.Context, id string) (*domain.Memoir, error) {
	var m domain.Memoir
	var createdAt sql.NullTime
	err := s.store.db.QueryRowContext(ctx, `
		SELECT id, title, author, created_at FROM memoirs WHERE id = ?
	`, id).Scan(&m.ID, &m.Title, &m.Author, &createdAt)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning memoir: %w", err)
	}
	if createdAt.Valid {
		m.CreatedAt = createdAt.Time
	}
	return &m, nil
}

// ListMemoirs returns every memoir in creation order with chunk statistics.
func (s *MemoirStore) ListMemoirs(ctx context.Context) ([]domain.MemoirStats, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT m.id, m.title, m.author, m.created_at,
			COUNT(c.id), COALESCE(SUM(length(c.content)), 0)
		FROM memoirs m LEFT JOIN chunks c ON c.memoir_id = m.id
		GROUP BY m.id
		ORDER BY m.created_at, m.rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("querying memoirs: %w", err)
	}
	defer rows.Close()

	var stats []domain.MemoirStats //nolint:prealloc // size unknown from query
	for rows.Next() {
		var st domain.MemoirStats
		var createdAt sql.NullTime
		if err := rows.Scan(&st.Memoir.ID, &st.Memoir.Title, &st.Memoir.Author, &createdAt,
			&st.ChunkCount, &st.TotalChars); err != nil {
			return nil, fmt.Errorf("scanning memoir: %w", err)
		}
		if createdAt.Valid {
			st.Memoir.CreatedAt = createdAt.Time
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating memoirs: %w", err)
	}
	return stats, nil
}

// DeleteMemoir removes a memoir, its chunks, annotations and postings.
func (s *MemoirStore) DeleteMemoir(ctx context.Context, id string) error {
	return s.store.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM chunks_fts WHERE memoir_id = ?", id); err != nil {
			return fmt.Errorf("deleting postings: %w", err)
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM memoirs WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("deleting memoir: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// SetChunkAnnotation stores or replaces an annotation on a chunk.
func (s *MemoirStore) SetChunkAnnotation(ctx context.Context, chunkID, key, value string) error {
	return s.store.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var one int
		if err := tx.QueryRowContext(ctx, "SELECT 1 FROM chunks WHERE id = ?", chunkID).Scan(&one); err != nil {
			if isNoRows(err) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("finding chunk: %w", err)
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO chunk_annotations (chunk_id, key, value)
			VALUES (?, ?, ?)
			ON CONFLICT(chunk_id, key) DO UPDATE SET value = excluded.value
		`, chunkID, key, value)
		if err != nil {
			return fmt.Errorf("saving annotation: %w", err)
		}
		return nil
	})
}

// SetChunkImage sets or clears a chunk's image reference.
func (s *MemoirStore) SetChunkImage(ctx context.Context, chunkID, imageRef string) error {
	res, err := s.store.db.ExecContext(ctx,
		"UPDATE chunks SET image_ref = ? WHERE id = ?", nullString(imageRef), chunkID)
	if err != nil {
		return fmt.Errorf("updating chunk image: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func memoirExists(ctx context.Context, q queryer, memoirID string) error {
	var one int
	if err := q.QueryRowContext(ctx, "SELECT 1 FROM memoirs WHERE id = ?", memoirID).Scan(&one); err != nil {
		if isNoRows(err) {
			return fmt.Errorf("memoir %s: %w", memoirID, domain.ErrNotFound)
		}
		return fmt.Errorf("finding memoir: %w", err)
	}
	return nil
}
