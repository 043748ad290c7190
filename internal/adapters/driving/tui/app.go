package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/memoir-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/memoir-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/memoir-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/memoir-cli/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/memoir-cli/internal/adapters/driving/tui/views/picker"
	"github.com/custodia-labs/memoir-cli/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports *Ports
	ctx   context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	pickerView *picker.View
	chatView   *chat.View

	// initial opens the chat view directly, skipping the picker.
	initial *domain.Memoir

	currentView messages.ViewType
	err         error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		pickerView:  picker.NewView(s, km, ports.Memoir),
		chatView:    chat.NewView(s, km, ports.Ask),
		currentView: messages.ViewPicker,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.pickerView.WithContext(ctx)
	a.chatView.WithContext(ctx)
	return a
}

// WithMemoir opens the chat view for memoir on start.
func (a *App) WithMemoir(memoir domain.Memoir) *App {
	a.initial = &memoir
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.SetWindowTitle("memoir")}
	if a.initial != nil {
		a.currentView = messages.ViewChat
		cmds = append(cmds, a.chatView.Open(*a.initial))
	} else {
		cmds = append(cmds, a.pickerView.Init())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if keymap.Matches(msg.String(), a.keymap.Quit) {
			return a, tea.Quit
		}

	case messages.MemoirsLoaded:
		a.pickerView, cmd = a.pickerView.Update(msg)
		return a, cmd

	case messages.MemoirSelected:
		a.currentView = messages.ViewChat
		return a, a.chatView.Open(msg.Memoir)

	case messages.AnswerReceived:
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		if msg.View == messages.ViewPicker {
			return a, a.pickerView.Init()
		}
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil
	}

	switch a.currentView {
	case messages.ViewPicker:
		a.pickerView, cmd = a.pickerView.Update(msg)
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	}
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewChat:
		body = a.chatView.View()
	default:
		body = a.pickerView.View()
	}

	if a.err != nil {
		body += "\n" + a.styles.Error.Render("Error: "+a.err.Error())
	}
	return body
}

// SetDimensions sets the terminal dimensions and marks the app ready.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.pickerView.SetDimensions(width, height)
	a.chatView.SetDimensions(width, height)
}

// CurrentView returns the active view.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error reported to the app.
func (a *App) Err() error {
	return a.err
}

// Run starts the TUI program in the alternate screen.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}
