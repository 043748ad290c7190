package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/memoir-cli/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for memoir resources.
	uriScheme = "memoir://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing memoirs.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "memoirs",
		Name:        "memoirs",
		Description: "List of all stored memoirs",
		MIMEType:    "application/json",
	}, s.handleMemoirsResource)

	// Template for a memoir's sections.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "memoirs/{memoirId}/chunks",
		Name:        "memoir-chunks",
		Description: "Sections of a memoir in document order",
		MIMEType:    "application/json",
	}, s.handleChunksResource)
}

// handleMemoirsResource returns every stored memoir.
func (s *Server) handleMemoirsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	stats, err := s.ports.Memoir.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing memoirs: %w", err)
	}

	type memoirInfo struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Author   string `json:"author"`
		Sections int    `json:"sections"`
		URI      string `json:"uri"`
	}

	infos := make([]memoirInfo, len(stats))
	for i := range stats {
		m := stats[i].Memoir
		infos[i] = memoirInfo{
			ID:       m.ID,
			Title:    m.Title,
			Author:   m.Author,
			Sections: stats[i].ChunkCount,
			URI:      chunksURI(m.ID),
		}
	}

	return jsonResult(req.Params.URI, infos)
}

// handleChunksResource returns the sections of one memoir.
func (s *Server) handleChunksResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	memoirID := extractMemoirID(req.Params.URI)
	if memoirID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	chunks, err := s.ports.Memoir.Chunks(ctx, memoirID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting chunks: %w", err)
	}

	type chunkInfo struct {
		ID          string            `json:"id"`
		Ordinal     int               `json:"ordinal"`
		Content     string            `json:"content"`
		ImageRef    string            `json:"image_ref,omitempty"`
		Annotations map[string]string `json:"annotations,omitempty"`
	}

	infos := make([]chunkInfo, len(chunks))
	for i := range chunks {
		infos[i] = chunkInfo{
			ID:          chunks[i].ID,
			Ordinal:     chunks[i].Ordinal,
			Content:     chunks[i].Content,
			ImageRef:    chunks[i].ImageRef,
			Annotations: chunks[i].Annotations,
		}
	}

	return jsonResult(req.Params.URI, infos)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func chunksURI(memoirID string) string {
	return uriScheme + "memoirs/" + memoirID + "/chunks"
}

// extractMemoirID extracts the memoir ID from a URI like memoir://memoirs/{memoirId}/chunks.
func extractMemoirID(uri string) string {
	const prefix = uriScheme + "memoirs/"
	const suffix = "/chunks"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}
