// Package bootstrap assembles the query pipeline from settings.
//
// It is the only place that knows every adapter: driving adapters receive
// the resulting services through their ports.
package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/clinirag/internal/adapters/driven/ai"
	"github.com/custodia-labs/clinirag/internal/adapters/driven/config/file"
	"github.com/custodia-labs/clinirag/internal/adapters/driven/storage/sqlite"
	vectormem "github.com/custodia-labs/clinirag/internal/adapters/driven/vector/memory"
	"github.com/custodia-labs/clinirag/internal/core/domain"
	"github.com/custodia-labs/clinirag/internal/core/ports/driven"
	"github.com/custodia-labs/clinirag/internal/core/services"
	"github.com/custodia-labs/clinirag/internal/logger"
	"github.com/custodia-labs/clinirag/internal/normalisers"
	"github.com/custodia-labs/clinirag/internal/normalisers/docx"
	"github.com/custodia-labs/clinirag/internal/normalisers/html"
	"github.com/custodia-labs/clinirag/internal/normalisers/markdown"
	"github.com/custodia-labs/clinirag/internal/normalisers/pdf"
	"github.com/custodia-labs/clinirag/internal/normalisers/plaintext"
	"github.com/custodia-labs/clinirag/internal/postprocessors"
)

// Options controls how Start locates its inputs.
type Options struct {
	// DataDir holds prompts and the persisted index (default: ~/.clinirag).
	DataDir string

	// Documents replace the manifest when non-empty.
	Documents []domain.SourceDocument
}

// App is a prepared pipeline ready to answer questions.
type App struct {
	Pipeline *services.Pipeline
	Query    *services.QueryService
	Sessions *services.SessionRegistry
	Prompts  *file.PromptStore
	Report   *domain.IngestReport
}

// Close releases every adapter opened by Start.
func (a *App) Close() error {
	return a.Pipeline.Close()
}

// WatchPrompts reloads prompt templates when their files change, until ctx
// is done. The returned channel receives each reloaded prompt name; sends
// are dropped when nobody is reading.
func (a *App) WatchPrompts(ctx context.Context) (<-chan string, error) {
	reloaded, err := file.NewPromptWatcher(a.Prompts).Watch(ctx)
	if err != nil {
		return nil, err
	}
	out := make(chan string, 8)
	go func() {
		defer close(out)
		for name := range reloaded {
			logger.Info("Prompt %s reloaded", name)
			select {
			case out <- name:
			default:
			}
		}
	}()
	return out, nil
}

// Start validates settings, creates the adapters, ingests the corpus and
// opens the index. Configuration errors are returned before any document
// is read. On error every adapter already opened is closed.
func Start(ctx context.Context, settings *domain.AppSettings, opts Options) (app *App, err error) {
	logger.Section("Startup")

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	dataDir := opts.DataDir
	if dataDir == "" {
		if dataDir, err = file.DefaultDir(); err != nil {
			return nil, fmt.Errorf("%w: resolve data directory: %w", domain.ErrConfiguration, err)
		}
	}

	docs := opts.Documents
	if len(docs) == 0 {
		if docs, err = file.LoadManifest(settings.Corpus.Manifest); err != nil {
			return nil, err
		}
	}

	pipeline := &services.Pipeline{TopK: settings.TopK}
	defer func() {
		if err != nil {
			pipeline.Close()
		}
	}()

	embedder, err := ai.CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		return nil, err
	}
	pipeline.AddCloser(embedder.Close)

	llm, err := ai.CreateLLMService(&settings.LLM)
	if err != nil {
		return nil, err
	}
	pipeline.AddCloser(llm.Close)
	logger.Info("Embedding: %s (%s), LLM: %s (%s)",
		settings.Embedding.Provider, embedder.ModelName(), settings.LLM.Provider, llm.ModelName())

	prompts, err := file.NewPromptStore(filepath.Join(dataDir, "prompts"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}

	chunker, err := postprocessors.DefaultPipeline(settings.Chunking)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}

	var store driven.IndexStore
	if settings.Index.Persist {
		dir := settings.Index.Path
		if dir == "" {
			dir = filepath.Join(dataDir, "data")
		}
		db, err := sqlite.NewStore(dir)
		if err != nil {
			return nil, fmt.Errorf("open index store: %w", err)
		}
		pipeline.AddCloser(db.Close)
		store = db.IndexStore()
		logger.Debug("Index store: %s", db.Path())
	}

	index := services.NewIndexService(embedder, vectormem.New(), store, settings.Embedding.BatchSize)

	pipeline.Index = index
	pipeline.Corpus = services.NewCorpusService(Loaders(), chunker, index, embedder.ModelName(), settings.Chunking)
	pipeline.Prompts = services.NewPromptAssembler(prompts)
	pipeline.Generator = services.NewAnswerGenerator(llm, settings.LLM)
	pipeline.Sessions = services.NewSessionRegistry(settings.MaxTurns)

	report, err := pipeline.Prepare(ctx, docs)
	if err != nil {
		return nil, err
	}

	return &App{
		Pipeline: pipeline,
		Query:    services.NewQueryService(pipeline),
		Sessions: pipeline.Sessions,
		Prompts:  prompts,
		Report:   report,
	}, nil
}

// Loaders returns a registry with every document format registered.
func Loaders() *normalisers.Registry {
	registry := normalisers.NewRegistry()
	registry.Register(pdf.New())
	registry.Register(plaintext.New())
	registry.Register(markdown.New())
	registry.Register(html.New())
	registry.Register(docx.New())
	return registry
}
