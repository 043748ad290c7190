package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	openaisdk "github.com/openai/openai-go"

	"github.com/custodia-labs/memoir-cli/internal/core/domain"
	"github.com/custodia-labs/memoir-cli/internal/core/ports/driven"
)

// Ensure ModerationService implements the interface.
var _ driven.ModerationService = (*ModerationService)(nil)

// DefaultModerationModel is the OpenAI moderation model.
const DefaultModerationModel = "omni-moderation-latest"

// ModerationConfig holds configuration for the moderation service.
type ModerationConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// ModerationService classifies text with the moderations endpoint.
type ModerationService struct {
	client openaisdk.Client
	model  string
}

// NewModerationService creates a new moderation service.
func NewModerationService(cfg ModerationConfig) (*ModerationService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required for moderation")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModerationModel
	}

	return &ModerationService{
		client: openaisdk.NewClient(clientOptions(cfg.APIKey, cfg.BaseURL, DefaultLLMTimeout)...),
		model:  cfg.Model,
	}, nil
}

// Moderate returns whether the text was flagged and which categories fired.
func (s *ModerationService) Moderate(ctx context.Context, text string) (driven.ModerationResult, error) {
	resp, err := s.client.Moderations.New(ctx, openaisdk.ModerationNewParams{
		Input: openaisdk.ModerationNewParamsInputUnion{OfString: openaisdk.String(text)},
		Model: openaisdk.ModerationModel(s.model),
	})
	if err != nil {
		return driven.ModerationResult{}, mapError("moderate", err)
	}
	if len(resp.Results) == 0 {
		return driven.ModerationResult{}, domain.NewServiceError("moderate", domain.ServiceInvalidRequest,
			errors.New("no moderation results returned"))
	}

	result := resp.Results[0]
	categories, err := flaggedCategories(result.Categories)
	if err != nil {
		return driven.ModerationResult{}, domain.NewServiceError("moderate", domain.ServiceInvalidRequest, err)
	}

	return driven.ModerationResult{
		Flagged:    result.Flagged,
		Categories: categories,
	}, nil
}

// flaggedCategories lists the category names set to true, sorted.
func flaggedCategories(categories openaisdk.ModerationCategories) ([]string, error) {
	data, err := json.Marshal(categories)
	if err != nil {
		return nil, fmt.Errorf("marshal categories: %w", err)
	}

	var flags map[string]bool
	if err := json.Unmarshal(data, &flags); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}

	var names []string
	for name, set := range flags {
		if set {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Close releases resources.
func (s *ModerationService) Close() error {
	return nil
}
