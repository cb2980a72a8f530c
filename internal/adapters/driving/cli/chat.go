package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/clinirag/internal/adapters/driving/tui"
	"github.com/custodia-labs/clinirag/internal/logger"
)

var chatPlain bool

// isTerminal reports whether stdin and stdout are both terminals.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// runTUIProgram runs the interactive UI. Tests replace it.
var runTUIProgram = func(ctx context.Context, app *tui.App) error {
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Long: `Starts a conversation in which follow-up questions see the previous
exchanges. On a terminal this opens the interactive UI; otherwise, or with
--plain, questions are read line by line from standard input.

Prompt template edits are picked up without restarting.

Controls (interactive UI):
  Enter      - Ask
  Ctrl+R     - New session
  ↑/↓ PgUp   - Scroll
  Esc        - Quit

Plain mode: type "/reset" for a new session, "exit" or "quit" to leave.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVar(&chatPlain, "plain", false, "read questions line by line instead of the interactive UI")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	rt, err := startRuntime(cmd)
	if err != nil {
		return err
	}
	defer closeRuntime(rt)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var reloads <-chan string
	if rt.WatchPrompts != nil {
		if reloads, err = rt.WatchPrompts(ctx); err != nil {
			logger.Warn("prompt reloading disabled: %v", err)
		}
	}

	if chatPlain || !isTerminal() {
		return runChatREPL(ctx, cmd, rt, cmd.InOrStdin())
	}
	return runChatTUI(ctx, rt, reloads)
}

func runChatTUI(ctx context.Context, rt *Runtime, reloads <-chan string) (err error) {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	app, err := tui.NewApp(tui.NewPorts(rt.Query, rt.Sessions))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(ctx).WithPromptReloads(reloads)

	if err := runTUIProgram(ctx, app); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// runChatREPL answers one question per input line. A failed question is
// reported and the conversation continues.
func runChatREPL(ctx context.Context, cmd *cobra.Command, rt *Runtime, in io.Reader) error {
	sessionID := rt.Sessions.NewSession()
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	cmd.Println(`Posez votre question ("exit" pour quitter).`)
	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			cmd.Println()
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "/reset":
			rt.Sessions.Reset(sessionID)
			sessionID = rt.Sessions.NewSession()
			cmd.Println("New session started.")
			continue
		}

		resp, err := rt.Query.Ask(ctx, rt.Sessions.Session(sessionID), line)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			cmd.PrintErrf("Error: %v\n", err)
			continue
		}

		cmd.Println()
		cmd.Println(resp.Answer)
		if len(resp.Sources) > 0 {
			cmd.Println()
			cmd.Println("Sources:")
			for i, src := range resp.Sources {
				cmd.Println(formatSource(i+1, src))
			}
		}
		cmd.Println()
	}
}
