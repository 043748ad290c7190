package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/memoir-cli/internal/core/domain"
)

// AskInput is the input schema for the ask_memoir tool.
type AskInput struct {
	MemoirID string `json:"memoir_id" jsonschema:"the memoir to ask about (see list_memoirs)"`
	Question string `json:"question" jsonschema:"the question in natural language"`
	Seed     *int64 `json:"seed,omitempty" jsonschema:"optional seed for reproducible answers"`
}

// AskOutput is the output schema for the ask_memoir tool.
type AskOutput struct {
	Answer   string   `json:"answer"`
	Outcome  string   `json:"outcome"`
	Category string   `json:"category,omitempty"`
	Terms    []string `json:"terms,omitempty"`
	ChunkIDs []string `json:"chunk_ids,omitempty"`
}

// SearchInput is the input schema for the search_memoir tool.
type SearchInput struct {
	MemoirID string `json:"memoir_id" jsonschema:"the memoir to search"`
	Query    string `json:"query" jsonschema:"words to match against the memoir's sections"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// SearchOutput is the output schema for the search_memoir tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single ranked section.
type SearchResultOutput struct {
	ChunkID string  `json:"chunk_id"`
	Ordinal int     `json:"ordinal"`
	Score   float64 `json:"score"`
	Content string  `json:"content"`
}

// ListInput is the (empty) input schema for the list_memoirs tool.
type ListInput struct{}

// ListOutput is the output schema for the list_memoirs tool.
type ListOutput struct {
	Memoirs []MemoirOutput `json:"memoirs"`
}

// MemoirOutput summarises one memoir.
type MemoirOutput struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Sections int    `json:"sections"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_memoir",
		Description: "Answer a question about a memoir from its best matching section",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_memoir",
		Description: "Rank a memoir's sections against a keyword query",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_memoirs",
		Description: "List stored memoirs",
	}, s.handleList)
}

// handleAsk handles the ask_memoir tool invocation. Guidance outcomes such
// as a refused question are returned as answers, not errors.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if s.ports.Ask == nil {
		return nil, AskOutput{}, errAskUnavailable
	}

	answer, err := s.ports.Ask.Ask(ctx, domain.Question{
		MemoirID: input.MemoirID,
		Text:     input.Question,
		Seed:     input.Seed,
	})
	if err != nil && (errors.Is(err, domain.ErrNotFound) || ctx.Err() != nil) {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:   answer.Text,
		Outcome:  string(answer.Outcome),
		Category: answer.Category,
		Terms:    answer.Terms,
		ChunkIDs: answer.ContextChunkIDs,
	}
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, output, nil
	}
	return nil, output, nil
}

// handleSearch handles the search_memoir tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	opts := domain.SearchOptions{Limit: input.Limit}
	results, err := s.ports.Memoir.Search(ctx, input.MemoirID, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = SearchResultOutput{
			ChunkID: results[i].ChunkID,
			Ordinal: results[i].Ordinal,
			Score:   results[i].Score,
			Content: results[i].Content,
		}
	}

	return nil, output, nil
}

// handleList handles the list_memoirs tool invocation.
func (s *Server) handleList(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListInput,
) (*mcp.CallToolResult, ListOutput, error) {
	stats, err := s.ports.Memoir.List(ctx)
	if err != nil {
		return nil, ListOutput{}, err
	}

	output := ListOutput{Memoirs: make([]MemoirOutput, len(stats))}
	for i := range stats {
		output.Memoirs[i] = MemoirOutput{
			ID:       stats[i].Memoir.ID,
			Title:    stats[i].Memoir.Title,
			Author:   stats[i].Memoir.Author,
			Sections: stats[i].ChunkCount,
		}
	}
	return nil, output, nil
}
