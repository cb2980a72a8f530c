// Package transcript renders the scrolling question/answer history.
package transcript

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/clinirag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/clinirag/internal/core/domain"
)

// Entry is one exchange as displayed.
type Entry struct {
	Question string
	Answer   string
	Sources  []domain.SourceRef
	Err      error

	// Pending is true while the answer is being generated.
	Pending bool
}

// Transcript is a scrollable list of exchanges.
type Transcript struct {
	styles   *styles.Styles
	viewport viewport.Model
	entries  []Entry
	width    int
	height   int
}

// New creates an empty transcript.
func New(s *styles.Styles) *Transcript {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Transcript{
		styles:   s,
		viewport: viewport.New(80, 16),
		width:    80,
		height:   16,
	}
}

// Update forwards scrolling input to the viewport.
func (t *Transcript) Update(msg tea.Msg) (*Transcript, tea.Cmd) {
	var cmd tea.Cmd
	t.viewport, cmd = t.viewport.Update(msg)
	return t, cmd
}

// View renders the visible part of the transcript.
func (t *Transcript) View() string {
	if len(t.entries) == 0 {
		return t.styles.Muted.Render("Posez une question pour commencer.")
	}
	return t.viewport.View()
}

// Add appends a pending exchange for question.
func (t *Transcript) Add(question string) {
	t.entries = append(t.entries, Entry{Question: question, Pending: true})
	t.refresh()
}

// Resolve completes the most recent pending exchange.
func (t *Transcript) Resolve(resp *domain.QueryResponse, err error) {
	for i := len(t.entries) - 1; i >= 0; i-- {
		if !t.entries[i].Pending {
			continue
		}
		e := &t.entries[i]
		e.Pending = false
		e.Err = err
		if err == nil && resp != nil {
			e.Answer = resp.Answer
			e.Sources = resp.Sources
		}
		break
	}
	t.refresh()
}

// Clear removes all exchanges.
func (t *Transcript) Clear() {
	t.entries = nil
	t.refresh()
}

// Entries returns the displayed exchanges.
func (t *Transcript) Entries() []Entry {
	return t.entries
}

// Len returns the number of exchanges.
func (t *Transcript) Len() int {
	return len(t.entries)
}

// SetDimensions sets the transcript area size.
func (t *Transcript) SetDimensions(width, height int) {
	if height < 3 {
		height = 3
	}
	t.width = width
	t.height = height
	t.viewport.Width = width
	t.viewport.Height = height
	t.refresh()
}

// Content returns the full rendered transcript, including scrolled-out lines.
func (t *Transcript) Content() string {
	return t.render()
}

func (t *Transcript) refresh() {
	t.viewport.SetContent(t.render())
	t.viewport.GotoBottom()
}

func (t *Transcript) render() string {
	wrap := t.width - 4
	if wrap < 20 {
		wrap = 20
	}

	blocks := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		lines := []string{t.styles.Question.Width(wrap).Render("> " + e.Question)}

		switch {
		case e.Pending:
			lines = append(lines, t.styles.Muted.PaddingLeft(2).Render("..."))
		case e.Err != nil:
			lines = append(lines, t.styles.Error.PaddingLeft(2).Width(wrap).Render("Erreur: "+e.Err.Error()))
		default:
			lines = append(lines, t.styles.Answer.Width(wrap).Render(e.Answer))
			for i, src := range e.Sources {
				lines = append(lines, t.styles.Source.Width(wrap).Render(formatSource(i+1, src)))
			}
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

// formatSource renders one citation line.
func formatSource(n int, src domain.SourceRef) string {
	return fmt.Sprintf("[%d] %s, page %s (%s)", n, src.Title, src.Page, src.Source)
}
