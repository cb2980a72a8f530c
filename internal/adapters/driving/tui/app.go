package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/clinirag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/clinirag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/clinirag/internal/adapters/driving/tui/views/chat"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// chatView is the conversation view.
	chatView *chat.View

	// reloads delivers names of prompt templates changed on disk.
	reloads <-chan string

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	return &App{
		ports:    ports,
		ctx:      context.Background(),
		styles:   s,
		chatView: chat.NewView(s, nil, ports.Query, ports.Sessions),
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.WithContext(ctx)
	return a
}

// WithPromptReloads shows a notice each time a prompt name arrives on ch.
func (a *App) WithPromptReloads(ch <-chan string) *App {
	a.reloads = ch
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("clinirag"),
		a.chatView.Init(),
		a.waitForReload(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

	case messages.Quit:
		return a, tea.Quit

	case messages.PromptReloaded:
		a.chatView, cmd = a.chatView.Update(msg)
		return a, tea.Batch(cmd, a.waitForReload())
	}

	a.chatView, cmd = a.chatView.Update(msg)
	return a, cmd
}

// waitForReload blocks on the reload channel inside a command.
func (a *App) waitForReload() tea.Cmd {
	if a.reloads == nil {
		return nil
	}
	ch := a.reloads
	return func() tea.Msg {
		name, ok := <-ch
		if !ok {
			return nil
		}
		return messages.PromptReloaded{Name: name}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	return a.chatView.View()
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.chatView.SetDimensions(width, height)
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// Context returns the app context.
func (a *App) Context() context.Context {
	return a.ctx
}

// ChatView returns the conversation view.
func (a *App) ChatView() *chat.View {
	return a.chatView
}
