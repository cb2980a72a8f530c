// Package cli provides the cobra command tree for clinirag.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/clinirag/internal/core/domain"
	"github.com/custodia-labs/clinirag/internal/core/ports/driving"
	"github.com/custodia-labs/clinirag/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Runtime is a prepared pipeline as seen by commands.
type Runtime struct {
	Query    driving.QueryService
	Sessions driving.SessionService
	Report   *domain.IngestReport

	// WatchPrompts reloads prompt files on change until ctx is done and
	// reports each reloaded name. Optional.
	WatchPrompts func(ctx context.Context) (<-chan string, error)

	// Close releases the pipeline. Optional.
	Close func() error
}

// StartFunc prepares the pipeline. An empty docs list uses the configured corpus.
type StartFunc func(ctx context.Context, docs []domain.SourceDocument) (*Runtime, error)

// Services are the dependencies injected by main.
type Services struct {
	Settings driving.SettingsService
	Start    StartFunc
}

var (
	settingsService driving.SettingsService
	startPipeline   StartFunc
)

var (
	verbose  bool
	docFlags []string
)

var rootCmd = &cobra.Command{
	Use:   "clinirag",
	Short: "Answer mental-health questions from indexed medical literature",
	Long: `clinirag answers patient questions with a language model grounded in a
corpus of medical documents. Documents are chunked, embedded and indexed
once, then each question retrieves the most relevant passages, which are
cited in the answer.

Documents come from the manifest (corpus.manifest, default documents.yaml)
or from one or more --doc flags.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print pipeline progress")
	rootCmd.PersistentFlags().StringArrayVarP(&docFlags, "doc", "d", nil,
		"document to ingest as path[=title], repeatable; replaces the manifest")
}

// Execute runs the command tree with the given services.
func Execute(ctx context.Context, svc Services, ver string) error {
	settingsService = svc.Settings
	startPipeline = svc.Start
	if ver != "" {
		version = ver
	}
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}

// parseDocFlags turns path[=title] values into documents. A missing title
// defaults to the file name without its extension.
func parseDocFlags(values []string) ([]domain.SourceDocument, error) {
	docs := make([]domain.SourceDocument, 0, len(values))
	for _, v := range values {
		path, title, _ := strings.Cut(v, "=")
		path = strings.TrimSpace(path)
		if path == "" {
			return nil, fmt.Errorf("invalid --doc %q: path is empty", v)
		}
		title = strings.TrimSpace(title)
		if title == "" {
			base := filepath.Base(path)
			title = strings.TrimSuffix(base, filepath.Ext(base))
		}
		docs = append(docs, domain.SourceDocument{Path: path, Title: title})
	}
	return docs, nil
}

// startRuntime prepares the pipeline for the current command.
func startRuntime(cmd *cobra.Command) (*Runtime, error) {
	if startPipeline == nil {
		return nil, errors.New("pipeline not configured")
	}

	docs, err := parseDocFlags(docFlags)
	if err != nil {
		return nil, err
	}

	rt, err := startPipeline(cmd.Context(), docs)
	if err != nil {
		return nil, fmt.Errorf("failed to start pipeline: %w", err)
	}
	return rt, nil
}

// closeRuntime releases rt, logging any failure.
func closeRuntime(rt *Runtime) {
	if rt == nil || rt.Close == nil {
		return
	}
	if err := rt.Close(); err != nil {
		logger.Warn("closing pipeline: %v", err)
	}
}

// formatSource renders one citation line.
func formatSource(n int, src domain.SourceRef) string {
	return fmt.Sprintf("  [%d] %s, page %s (%s)", n, src.Title, src.Page, src.Source)
}
