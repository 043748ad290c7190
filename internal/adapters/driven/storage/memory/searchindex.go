package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/custodia-labs/memoir-cli/internal/core/domain"
	"github.com/custodia-labs/memoir-cli/internal/core/ports/driven"
)

// Okapi BM25 parameters.
const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

// Ensure SearchIndex implements the interface.
var _ driven.SearchIndex = (*SearchIndex)(nil)

// SearchIndex ranks a Store's chunks with Okapi BM25. Statistics are kept
// per memoir, so scores never depend on other memoirs.
type SearchIndex struct {
	store *Store
}

// postings is the inverted index for one memoir.
type postings struct {
	docs     map[string]*indexedChunk
	df       map[string]int
	totalLen int
}

type indexedChunk struct {
	ordinal int
	content string
	length  int
	tf      map[string]int
}

func newPostings() *postings {
	return &postings{
		docs: make(map[string]*indexedChunk),
		df:   make(map[string]int),
	}
}

func (p *postings) add(chunk domain.Chunk) {
	p.remove(chunk.ID)

	tokens := tokenize(chunk.Content)
	doc := &indexedChunk{
		ordinal: chunk.Ordinal,
		content: chunk.Content,
		length:  len(tokens),
		tf:      make(map[string]int),
	}
	for _, tok := range tokens {
		doc.tf[tok]++
	}
	for tok := range doc.tf {
		p.df[tok]++
	}
	p.docs[chunk.ID] = doc
	p.totalLen += doc.length
}

func (p *postings) remove(chunkID string) {
	doc, ok := p.docs[chunkID]
	if !ok {
		return
	}
	for tok := range doc.tf {
		p.df[tok]--
		if p.df[tok] == 0 {
			delete(p.df, tok)
		}
	}
	p.totalLen -= doc.length
	delete(p.docs, chunkID)
}

func (p *postings) score(tokens []string) []domain.RankedChunk {
	n := float64(len(p.docs))
	if n == 0 {
		return nil
	}
	avgLen := float64(p.totalLen) / n
	if avgLen == 0 {
		avgLen = 1
	}

	var hits []domain.RankedChunk
	for id, doc := range p.docs {
		var score float64
		matched := false
		for _, tok := range tokens {
			tf := float64(doc.tf[tok])
			if tf == 0 {
				continue
			}
			matched = true
			df := float64(p.df[tok])
			idf := math.Log((n-df+0.5)/(df+0.5) + 1)
			norm := bm25K1 * (1 - bm25B + bm25B*float64(doc.length)/avgLen)
			score += idf * tf * (bm25K1 + 1) / (tf + norm)
		}
		if matched {
			hits = append(hits, domain.RankedChunk{
				ChunkID: id,
				Ordinal: doc.ordinal,
				Content: doc.content,
				Score:   score,
			})
		}
	}
	return hits
}

// Query returns the memoir's chunks containing any term, best first.
func (i *SearchIndex) Query(
	ctx context.Context,
	memoirID string,
	terms []string,
	opts domain.SearchOptions,
) ([]domain.RankedChunk, error) {
	tokens := queryTokens(terms)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: empty term set", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	i.store.mu.RLock()
	idx, ok := i.store.indexes[memoirID]
	var hits []domain.RankedChunk
	if ok {
		hits = idx.score(tokens)
	}
	i.store.mu.RUnlock()

	sort.Slice(hits, func(a, b int) bool { return hits[a].Less(hits[b]) })
	if limit := opts.EffectiveLimit(); len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// IndexChunks adds or replaces postings for the given chunks.
func (i *SearchIndex) IndexChunks(ctx context.Context, memoirID string, chunks []domain.Chunk) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, chunk := range chunks {
		if chunk.MemoirID != "" && chunk.MemoirID != memoirID {
			return fmt.Errorf("%w: chunk %s belongs to memoir %s", domain.ErrInvalidInput, chunk.ID, chunk.MemoirID)
		}
	}

	i.store.mu.Lock()
	defer i.store.mu.Unlock()

	idx, ok := i.store.indexes[memoirID]
	if !ok {
		return fmt.Errorf("memoir %s: %w", memoirID, domain.ErrNotFound)
	}
	for _, chunk := range chunks {
		idx.add(chunk)
	}
	return nil
}

// Rebuild regenerates the memoir's postings from its stored chunks.
func (i *SearchIndex) Rebuild(ctx context.Context, memoirID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	i.store.mu.Lock()
	defer i.store.mu.Unlock()

	if _, ok := i.store.memoirs[memoirID]; !ok {
		return fmt.Errorf("memoir %s: %w", memoirID, domain.ErrNotFound)
	}
	idx := newPostings()
	for _, chunk := range i.store.chunks[memoirID] {
		idx.add(chunk)
	}
	i.store.indexes[memoirID] = idx
	return nil
}

// tokenize lowercases text and splits it on anything that is not a letter
// or digit.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

func queryTokens(terms []string) []string {
	seen := make(map[string]bool)
	var tokens []string
	for _, term := range terms {
		for _, tok := range tokenize(term) {
			if !seen[tok] {
				seen[tok] = true
				tokens = append(tokens, tok)
			}
		}
	}
	return tokens
}
