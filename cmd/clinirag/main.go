// Command clinirag answers mental-health questions from a corpus of
// medical documents.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/clinirag/internal/adapters/driven/ai"
	"github.com/custodia-labs/clinirag/internal/adapters/driven/config/file"
	"github.com/custodia-labs/clinirag/internal/adapters/driving/cli"
	"github.com/custodia-labs/clinirag/internal/bootstrap"
	"github.com/custodia-labs/clinirag/internal/core/domain"
	"github.com/custodia-labs/clinirag/internal/core/services"
)

// version is set at build time via ldflags.
var version = "dev"

// homeEnv overrides the data directory (~/.clinirag).
const homeEnv = "CLINIRAG_HOME"

func main() {
	settings, dir, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := func(ctx context.Context, docs []domain.SourceDocument) (*cli.Runtime, error) {
		current, err := settings.Get()
		if err != nil {
			return nil, err
		}
		app, err := bootstrap.Start(ctx, current, bootstrap.Options{
			DataDir:   dir,
			Documents: docs,
		})
		if err != nil {
			return nil, err
		}
		return &cli.Runtime{
			Query:        app.Query,
			Sessions:     app.Sessions,
			Report:       app.Report,
			WatchPrompts: app.WatchPrompts,
			Close:        app.Close,
		}, nil
	}

	// cobra already reports command errors
	if err := cli.Execute(ctx, cli.Services{Settings: settings, Start: start}, version); err != nil {
		stop()
		os.Exit(1)
	}
}

// setup loads .env and opens the settings store.
func setup() (*services.SettingsService, string, error) {
	// A missing .env is fine; keys may come from the shell
	_ = godotenv.Load()

	dir, err := dataDir()
	if err != nil {
		return nil, "", err
	}

	store, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, "", fmt.Errorf("open config: %w", err)
	}
	return services.NewSettingsService(store, ai.NewConfigValidator()), dir, nil
}

func dataDir() (string, error) {
	if dir := os.Getenv(homeEnv); dir != "" {
		return dir, nil
	}
	return file.DefaultDir()
}
