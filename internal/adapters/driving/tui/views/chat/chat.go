// Package chat provides the conversational view of the TUI.
package chat

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/clinirag/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/clinirag/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/clinirag/internal/adapters/driving/tui/components/transcript"
	"github.com/custodia-labs/clinirag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/clinirag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/clinirag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/clinirag/internal/core/ports/driving"
)

// ErrNoQueryService is reported when a question is sent without a query service.
var ErrNoQueryService = errors.New("query service not available")

// View is the chat view: transcript, question input and status bar.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	input      *input.QuestionInput
	transcript *transcript.Transcript
	statusbar  *status.Bar

	query     driving.QueryService
	sessions  driving.SessionService
	sessionID string
	ctx       context.Context

	width    int
	height   int
	ready    bool
	pending  bool
	showHelp bool
}

// NewView creates a chat view bound to a fresh session.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	query driving.QueryService,
	sessions driving.SessionService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQuestionInput(s),
		transcript: transcript.New(s),
		statusbar:  status.NewBar(s, km),
		query:      query,
		sessions:   sessions,
		ctx:        context.Background(),
		width:      80,
		height:     24,
	}
	if sessions != nil {
		v.sessionID = sessions.NewSession()
	}
	return v
}

// WithContext sets the context used for questions.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerReceived:
		v.handleAnswer(msg)
		return v, nil

	case messages.PromptReloaded:
		if !v.pending {
			v.statusbar.SetState(status.StateReady)
		}
		v.statusbar.SetMessage(fmt.Sprintf("Prompt %s reloaded", msg.Name))
		return v, nil

	case messages.ErrorOccurred:
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	switch {
	case keymap.Matches(key, v.keymap.Quit):
		return v, tea.Quit

	case keymap.Matches(key, v.keymap.Help):
		v.showHelp = !v.showHelp
		if v.showHelp {
			v.statusbar.SetState(status.StateHelp)
		} else {
			v.statusbar.SetState(status.StateReady)
		}
		return v, nil

	case keymap.Matches(key, v.keymap.Reset):
		if v.pending {
			return v, nil
		}
		return v, v.resetSession()

	case keymap.Matches(key, v.keymap.ScrollUp), keymap.Matches(key, v.keymap.ScrollDown):
		var cmd tea.Cmd
		v.transcript, cmd = v.transcript.Update(msg)
		return v, cmd

	case keymap.Matches(key, v.keymap.Send):
		return v, v.submit()
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// submit sends the current question. One question is in flight at a time.
func (v *View) submit() tea.Cmd {
	if v.pending {
		return nil
	}
	question := v.input.Question()
	if question == "" {
		return nil
	}
	if v.query == nil || v.sessions == nil {
		return func() tea.Msg {
			return messages.ErrorOccurred{Err: ErrNoQueryService}
		}
	}

	v.input.Reset()
	v.transcript.Add(question)
	v.pending = true
	v.statusbar.SetState(status.StateThinking)
	v.statusbar.SetMessage("")

	ctx := v.ctx
	conv := v.sessions.Session(v.sessionID)
	return func() tea.Msg {
		resp, err := v.query.Ask(ctx, conv, question)
		return messages.AnswerReceived{Question: question, Response: resp, Err: err}
	}
}

// handleAnswer records a completed question.
func (v *View) handleAnswer(msg messages.AnswerReceived) {
	v.pending = false
	v.transcript.Resolve(msg.Response, msg.Err)

	if msg.Err != nil {
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}

	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage("")
	v.statusbar.SetTurnCount(v.sessions.Session(v.sessionID).Len())
}

// resetSession discards the conversation and starts a new one.
func (v *View) resetSession() tea.Cmd {
	if v.sessions == nil {
		return nil
	}
	old := v.sessionID
	v.sessions.Reset(old)
	v.sessionID = v.sessions.NewSession()
	v.transcript.Clear()
	v.statusbar.Clear()
	v.statusbar.SetMessage("New session started")

	return func() tea.Msg {
		return messages.SessionReset{SessionID: old}
	}
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		v.styles.Title.Render("clinirag"),
		v.styles.Muted.Render("  assistant en santé mentale"),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		v.transcript.View(),
		"",
		v.input.View(),
		v.statusbar.View(),
	)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	// Header, spacing, bordered input and status bar take 8 lines
	v.transcript.SetDimensions(width, height-8)
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Pending returns whether a question is awaiting its answer.
func (v *View) Pending() bool {
	return v.pending
}

// SessionID returns the current session identifier.
func (v *View) SessionID() string {
	return v.sessionID
}

// Transcript returns the transcript component.
func (v *View) Transcript() *transcript.Transcript {
	return v.transcript
}

// Status returns the status bar component.
func (v *View) Status() *status.Bar {
	return v.statusbar
}

// Input returns the question input component.
func (v *View) Input() *input.QuestionInput {
	return v.input
}
