package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/memoir-cli/internal/core/domain"
	"github.com/custodia-labs/memoir-cli/internal/core/ports/driven"
)

// Ensure GuardClassifier implements the interfaces.
var (
	_ driven.SafetyClassifier = (*GuardClassifier)(nil)
	_ driven.PromptStoreAware = (*GuardClassifier)(nil)
)

// guardCategories names the Llama Guard 3 hazard codes.
var guardCategories = map[string]string{
	"S1":  "Violent Crimes",
	"S2":  "Non-Violent Crimes",
	"S3":  "Sex-Related Crimes",
	"S4":  "Child Sexual Exploitation",
	"S5":  "Defamation",
	"S6":  "Specialized Advice",
	"S7":  "Privacy",
	"S8":  "Intellectual Property",
	"S9":  "Indiscriminate Weapons",
	"S10": "Hate",
	"S11": "Suicide & Self-Harm",
	"S12": "Sexual Content",
	"S13": "Elections",
	"S14": "Code Interpreter Abuse",
}

// GuardClassifier asks a guard model whether a question is safe.
// The model must answer "safe", or "unsafe" followed by category codes.
type GuardClassifier struct {
	promptSource
	llm   driven.LLMService
	model string
}

// NewGuardClassifier creates a guard classifier using model through llm.
func NewGuardClassifier(llm driven.LLMService, model string) *GuardClassifier {
	return &GuardClassifier{llm: llm, model: model}
}

// Classify labels the question.
func (c *GuardClassifier) Classify(ctx context.Context, question string) (domain.Classification, error) {
	reply, err := c.llm.Complete(ctx, driven.CompletionRequest{
		User:  c.render(driven.PromptGuard, question),
		Model: c.model,
	})
	if err != nil {
		return domain.Classification{}, fmt.Errorf("classify: %w", err)
	}
	return ParseGuardVerdict(reply)
}

// ParseGuardVerdict reads a guard model reply. The first line carries the
// verdict; an unsafe verdict may list category codes on the same or the
// next line.
func ParseGuardVerdict(reply string) (domain.Classification, error) {
	lines := strings.Split(strings.TrimSpace(reply), "\n")
	first := strings.ToLower(strings.Trim(strings.TrimSpace(lines[0]), ".:*'\""))

	switch {
	case first == "safe":
		return domain.Classification{Verdict: domain.VerdictSafe}, nil
	case strings.HasPrefix(first, "unsafe"):
		codes := strings.TrimSpace(strings.TrimPrefix(first, "unsafe"))
		if codes == "" && len(lines) > 1 {
			codes = lines[1]
		}
		return domain.Classification{
			Verdict:  domain.VerdictUnsafe,
			Category: describeGuardCategories(codes),
		}, nil
	default:
		return domain.Classification{}, domain.NewServiceError("classify", domain.ServiceInvalidRequest,
			errors.New("unrecognised guard verdict: "+truncate(reply, 80)))
	}
}

// describeGuardCategories turns "s1,S10" into "S1 Violent Crimes, S10 Hate".
func describeGuardCategories(codes string) string {
	var parts []string
	for _, code := range strings.FieldsFunc(codes, func(r rune) bool { return r == ',' || r == ' ' }) {
		code = strings.ToUpper(strings.TrimSpace(code))
		if name, ok := guardCategories[code]; ok {
			parts = append(parts, code+" "+name)
		} else if code != "" {
			parts = append(parts, code)
		}
	}
	return strings.Join(parts, ", ")
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
