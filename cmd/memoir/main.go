// Command memoir ingests memoirs and answers questions about them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/memoir-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/memoir-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/memoir-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/memoir-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/memoir-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/memoir-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memoir-cli/internal/core/services"
	"github.com/custodia-labs/memoir-cli/internal/logger"
	"github.com/custodia-labs/memoir-cli/internal/normalisers"
	"github.com/custodia-labs/memoir-cli/internal/normalisers/docx"
	"github.com/custodia-labs/memoir-cli/internal/normalisers/html"
	"github.com/custodia-labs/memoir-cli/internal/normalisers/markdown"
	"github.com/custodia-labs/memoir-cli/internal/normalisers/plaintext"
	"github.com/custodia-labs/memoir-cli/internal/segmenter"
)

func main() {
	// A missing .env file is fine; the environment may already hold the keys.
	_ = godotenv.Load() //nolint:errcheck // optional file

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetSetup(setup)
	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func setup(_ context.Context, opts cli.Options) (*cli.Services, func(), error) {
	dataDir := opts.DataDir
	if dataDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, nil, fmt.Errorf("resolving data directory: %w", err)
		}
		dataDir = dir
	}

	configStore, err := file.NewConfigStore(dataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening config: %w", err)
	}
	prompts, err := file.NewPromptStore(filepath.Join(dataDir, "prompts"))
	if err != nil {
		return nil, nil, fmt.Errorf("opening prompts: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("loading settings: %w", err)
	}
	settings.FillKeysFromEnv(os.Getenv)

	seg, err := segmenter.FromSettings(settings.Segment)
	if err != nil {
		return nil, nil, fmt.Errorf("building segmenter: %w", err)
	}

	var (
		store   driven.MemoirStore
		index   driven.SearchIndex
		closers []func()
	)
	if opts.InMemory {
		mem := memory.NewStore()
		store, index = mem, mem.SearchIndex()
	} else {
		db, err := sqlite.NewStore(dataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}
		store, index = db.MemoirStore(), db.SearchIndex()
		closers = append(closers, func() {
			if err := db.Close(); err != nil {
				logger.Warn("closing database: %v", err)
			}
		})
		logger.Debug("database: %s", db.Path())
	}

	memoirService := services.NewMemoirService(store, index)
	svc := &cli.Services{
		Ingest:   services.NewIngestService(store, seg).WithNormalisers(newNormalisers()),
		Memoir:   memoirService,
		Settings: settingsService,
	}

	aiServices, err := ai.NewServices(*settings, prompts)
	if err != nil {
		logger.Debug("AI services unavailable: %v", err)
		svc.AIError = err
	} else {
		ask := services.NewAskService(store, index,
			aiServices.Classifier, aiServices.Extractor, aiServices.Synthesizer, settings.Ask)
		svc.Ask = ask
		svc.Annotation = services.NewAnnotationService(store, aiServices.Questions)
		svc.Eval = services.NewEvalService(ask)
		closers = append(closers, aiServices.Close)
	}

	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	return svc, cleanup, nil
}

// newNormalisers registers the supported source formats. Unknown
// extensions are read as plain text.
func newNormalisers() *normalisers.Registry {
	return normalisers.NewRegistry(plaintext.New(), markdown.New(), html.New(), docx.New())
}
