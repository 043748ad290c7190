// Package chat provides the question and answer view for the TUI.
package chat

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/memoir-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/memoir-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/memoir-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/memoir-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/memoir-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/memoir-cli/internal/core/domain"
	"github.com/custodia-labs/memoir-cli/internal/core/ports/driving"
)

// Turn is one question with its answer.
type Turn struct {
	Question string
	Answer   domain.Answer
	Err      error
	Pending  bool
}

// View is a session of questions against one memoir.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QuestionInput
	statusbar *status.Bar

	askService driving.AskService
	ctx        context.Context

	memoir domain.Memoir
	turns  []Turn
	width  int
	height int
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, km *keymap.KeyMap, askService driving.AskService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQuestionInput(s),
		statusbar:  status.NewBar(s, km.ChatHelp()),
		askService: askService,
		ctx:        context.Background(),
		width:      80,
		height:     24,
	}
}

// WithContext sets the context for questions.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Open starts a fresh session for memoir.
func (v *View) Open(memoir domain.Memoir) tea.Cmd {
	v.memoir = memoir
	v.turns = nil
	v.input.Reset()
	v.statusbar.Clear()
	return v.input.Focus()
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKey(msg)

	case messages.AnswerReceived:
		v.handleAnswer(msg)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if keymap.Matches(msg.String(), v.keymap.Back) {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewPicker}
		}
	}

	if keymap.Matches(msg.String(), v.keymap.Ask) {
		question := strings.TrimSpace(v.input.Value())
		if question == "" || v.Busy() {
			return v, nil
		}
		v.input.Reset()
		v.turns = append(v.turns, Turn{Question: question, Pending: true})
		v.statusbar.SetState(status.StateAsking)
		return v, v.ask(question)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) ask(question string) tea.Cmd {
	q := domain.Question{MemoirID: v.memoir.ID, Text: question}
	return func() tea.Msg {
		answer, err := v.askService.Ask(v.ctx, q)
		return messages.AnswerReceived{Question: question, Answer: answer, Err: err}
	}
}

func (v *View) handleAnswer(msg messages.AnswerReceived) {
	for i := len(v.turns) - 1; i >= 0; i-- {
		if v.turns[i].Pending && v.turns[i].Question == msg.Question {
			v.turns[i] = Turn{Question: msg.Question, Answer: msg.Answer, Err: msg.Err}
			break
		}
	}

	switch {
	case msg.Err != nil && msg.Answer.Text == "":
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
	case msg.Err != nil && errors.Is(msg.Err, domain.ErrService):
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Answer.Outcome.Description())
	default:
		v.statusbar.SetState(status.StateAnswered)
		v.statusbar.SetMessage(msg.Answer.Outcome.Description())
	}
}

// Busy reports whether a question is awaiting its answer.
func (v *View) Busy() bool {
	return len(v.turns) > 0 && v.turns[len(v.turns)-1].Pending
}

// Turns returns the session transcript.
func (v *View) Turns() []Turn {
	return v.turns
}

// View renders the transcript, input and status bar.
func (v *View) View() string {
	header := v.styles.Title.Render(v.memoir.Title)
	if v.memoir.Author != "" {
		header += v.styles.Muted.Render(" by " + v.memoir.Author)
	}

	transcript := v.renderTranscript()
	footer := lipgloss.JoinVertical(lipgloss.Left, v.input.View(), v.statusbar.View())

	// Keep the newest turns visible above the input.
	avail := v.height - lipgloss.Height(header) - lipgloss.Height(footer) - 2
	if avail > 0 {
		lines := strings.Split(transcript, "\n")
		if len(lines) > avail {
			lines = lines[len(lines)-avail:]
		}
		transcript = strings.Join(lines, "\n")
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, "", transcript, footer)
}

func (v *View) renderTranscript() string {
	if len(v.turns) == 0 {
		return v.styles.Muted.Render("Ask a question about this memoir.")
	}

	wrap := lipgloss.NewStyle().Width(max(v.width-4, 20))
	var b strings.Builder
	for i, t := range v.turns {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(v.styles.Question.Render("> " + t.Question))
		b.WriteString("\n")

		switch {
		case t.Pending:
			b.WriteString(v.styles.Muted.Render("  ..."))
		case t.Answer.Text == "" && t.Err != nil:
			b.WriteString(v.styles.Error.Render("  " + t.Err.Error()))
		case t.Answer.Outcome.Succeeded():
			b.WriteString(v.styles.Answer.Render(wrap.Render(t.Answer.Text)))
		default:
			b.WriteString(v.styles.Guidance.Render(wrap.Render(t.Answer.Text)))
		}
	}
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
}
