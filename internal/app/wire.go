// Package app assembles the long-lived services shared by the API server and
// the samples CLI.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"promptart/internal/catalog"
	"promptart/internal/history"
	"promptart/internal/imagegen"
	"promptart/internal/infra"
	providerimage "promptart/internal/providers/image"
	"promptart/internal/samplecache"
	"promptart/internal/storage"
)

type Services struct {
	Catalog *catalog.Catalog
	Store   *storage.FileStore
	Images  *imagegen.Service
	Samples *samplecache.Cache
	History history.Recorder
}

// Close releases the history backend.
func (s *Services) Close() error {
	if s.History == nil {
		return nil
	}
	return s.History.Close()
}

// Build wires every service from cfg. Errors here are startup failures.
func Build(ctx context.Context, cfg *infra.Config, logger zerolog.Logger) (*Services, error) {
	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewFileStore(cfg.SampleImagesDir)
	if err != nil {
		return nil, fmt.Errorf("sample directory: %w", err)
	}

	synth, err := providerimage.New(providerimage.Options{
		Provider:      cfg.ImageProvider,
		HFToken:       cfg.HFToken,
		HFModel:       cfg.HFModel,
		HFBaseURL:     cfg.HFBaseURL,
		OpenAIKey:     cfg.OpenAIAPIKey,
		OpenAIModel:   cfg.OpenAIImageModel,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		Timeout:       cfg.ImageTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("image service: %w", err)
	}
	if synth.Name() == providerimage.ProviderPlaceholder {
		logger.Warn().Msg("no model credentials configured, serving placeholder images")
	}

	hist, err := openHistory(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	images := imagegen.NewService(synth, hist, logger)
	samples := samplecache.New(cat, store, images, logger)

	logger.Info().
		Str("backend", synth.Name()).
		Int("prompts", cat.Len()).
		Str("samples_dir", store.BasePath()).
		Str("history", cfg.HistoryDriver).
		Msg("services ready")

	return &Services{
		Catalog: cat,
		Store:   store,
		Images:  images,
		Samples: samples,
		History: hist,
	}, nil
}

func loadCatalog(cfg *infra.Config) (*catalog.Catalog, error) {
	if cfg.PromptCatalogPath == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(cfg.PromptCatalogPath)
	if err != nil {
		return nil, fmt.Errorf("prompt catalog: %w", err)
	}
	return cat, nil
}

func openHistory(ctx context.Context, cfg *infra.Config, logger zerolog.Logger) (history.Recorder, error) {
	switch cfg.HistoryDriver {
	case infra.HistoryNone, "":
		return history.Nop{}, nil
	case infra.HistorySQLite:
		store, err := history.OpenSQLite(ctx, cfg.HistorySQLitePath)
		if err != nil {
			return nil, fmt.Errorf("generation history: %w", err)
		}
		return store, nil
	case infra.HistoryPostgres:
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("generation history: %w", err)
		}
		store := history.NewPostgresStore(infra.NewSQLRunner(pool, logger), pool.Close)
		if err := store.Migrate(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("generation history: %w", err)
		}
		return store, nil
	default:
		return nil, errors.New("generation history: unknown driver " + cfg.HistoryDriver)
	}
}
