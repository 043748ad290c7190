// Package picker provides the memoir selection view for the TUI.
package picker

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/memoir-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/memoir-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/memoir-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/memoir-cli/internal/core/domain"
	"github.com/custodia-labs/memoir-cli/internal/core/ports/driving"
)

// View lists stored memoirs and opens the selected one.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	service driving.MemoirService
	ctx     context.Context

	memoirs  []domain.MemoirStats
	selected int
	loading  bool
	err      error
	width    int
	height   int
}

// NewView creates a new picker view.
func NewView(s *styles.Styles, km *keymap.KeyMap, service driving.MemoirService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:  s,
		keymap:  km,
		service: service,
		ctx:     context.Background(),
		loading: true,
		width:   80,
		height:  24,
	}
}

// WithContext sets the context for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the memoir list.
func (v *View) Init() tea.Cmd {
	return v.load()
}

func (v *View) load() tea.Cmd {
	return func() tea.Msg {
		memoirs, err := v.service.List(v.ctx)
		return messages.MemoirsLoaded{Memoirs: memoirs, Err: err}
	}
}

// Update handles messages for the picker.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.MemoirsLoaded:
		v.loading = false
		v.err = msg.Err
		v.memoirs = msg.Memoirs
		if v.selected >= len(v.memoirs) {
			v.selected = 0
		}
		return v, nil

	case tea.KeyMsg:
		switch {
		case keymap.Matches(msg.String(), v.keymap.Up):
			if v.selected > 0 {
				v.selected--
			}
		case keymap.Matches(msg.String(), v.keymap.Down):
			if v.selected < len(v.memoirs)-1 {
				v.selected++
			}
		case keymap.Matches(msg.String(), v.keymap.Select):
			if len(v.memoirs) == 0 {
				return v, nil
			}
			memoir := v.memoirs[v.selected].Memoir
			return v, func() tea.Msg {
				return messages.MemoirSelected{Memoir: memoir}
			}
		case msg.String() == "q":
			return v, tea.Quit
		case msg.String() == "r":
			v.loading = true
			return v, v.load()
		}
	}

	return v, nil
}

// View renders the picker.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Memoirs"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case len(v.memoirs) == 0:
		b.WriteString(v.styles.Muted.Render("No memoirs yet. Run 'memoir ingest' first."))
	default:
		for i := range v.memoirs {
			m := v.memoirs[i]
			line := fmt.Sprintf("%s by %s", m.Memoir.Title, m.Memoir.Author)
			detail := v.styles.Muted.Render(fmt.Sprintf(" (%d sections)", m.ChunkCount))
			if i == v.selected {
				b.WriteString("> " + v.styles.Selected.Render(line) + detail)
			} else {
				b.WriteString("  " + v.styles.Normal.Render(line) + detail)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("[j/k] Navigate  [Enter] Open  [r] Reload  [q] Quit"))

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}
