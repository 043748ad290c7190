package ai

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/memoir-cli/internal/core/ports/driven"
)

// promptSource resolves prompt templates, preferring a user store.
type promptSource struct {
	store driven.PromptStore
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the built-in defaults are used.
func (p *promptSource) SetPromptStore(store driven.PromptStore) {
	p.store = store
}

// render loads the named template and fills its placeholders.
// Templates edited to drop their placeholders are used verbatim.
func (p *promptSource) render(name string, args ...any) string {
	tmpl, _ := driven.DefaultPrompt(name)
	if p.store != nil {
		if custom, err := p.store.Load(name); err == nil && custom != "" {
			tmpl = custom
		}
	}
	if len(args) == 0 || !strings.Contains(tmpl, "%") {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}
