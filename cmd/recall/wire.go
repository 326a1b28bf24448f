package main

import (
	"context"
	"fmt"

	"github.com/custodia-labs/recall/internal/adapters/driven/ai"
	"github.com/custodia-labs/recall/internal/adapters/driven/config/file"
	"github.com/custodia-labs/recall/internal/adapters/driven/index/bruteforce"
	"github.com/custodia-labs/recall/internal/adapters/driven/storage/bolt"
	"github.com/custodia-labs/recall/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/recall/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/recall/internal/adapters/driving/cli"
	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
	"github.com/custodia-labs/recall/internal/core/services"
	"github.com/custodia-labs/recall/internal/logger"
)

// bootstrap wires the storage, index, provider and service stack for one
// command. The vector index is rebuilt from the store before it returns.
func bootstrap(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	configStore, err := openConfigStore(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	svc := &cli.Services{Settings: settingsService}
	if !opts.Core {
		return svc, nil
	}

	if err := settingsService.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	settings, err := settingsService.Get()
	if err != nil {
		return nil, err
	}
	if opts.DataDir != "" {
		settings.Storage.DataDir = opts.DataDir
	}

	projection, err := bruteforce.ParseProjection(settings.Retrieval.Projection)
	if err != nil {
		return nil, err
	}

	prompts, err := file.NewPromptStore("")
	if err != nil {
		return nil, err
	}

	store, err := openStore(settings.Storage)
	if err != nil {
		return nil, err
	}

	providers, err := ai.Initialise(settings, prompts)
	if err != nil {
		closeStore(store)
		return nil, err
	}

	index := bruteforce.New(projection)
	ingestion := services.NewIngestionService(store, index, providers.EmbeddingService, settings.ProviderTimeout)
	retrieval := services.NewRetrievalService(store, index, providers.EmbeddingService, providers.AnswerGenerator,
		settings.ProviderTimeout, settings.Retrieval.DefaultK)
	syncer := services.NewSyncService(store, index)
	syncer.SetWriteLock(ingestion.WriteLock())

	closeAll := func() {
		providers.Close()
		if err := index.Close(); err != nil {
			logger.Warn("closing index: %v", err)
		}
		closeStore(store)
	}

	n, err := syncer.Resync(ctx)
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("rebuilding index: %w", err)
	}
	logger.Debug("Index rebuilt with %d documents", n)

	bulk := ingestion.WithEmbedder(ai.WithRateLimit(providers.EmbeddingService, settings.LoadRatePerSecond))

	svc.Ingestion = ingestion
	svc.Retrieval = retrieval
	svc.Document = services.NewDocumentService(store)
	svc.Sync = syncer
	svc.Loader = services.NewLoaderService(bulk)
	svc.Close = closeAll
	return svc, nil
}

func openConfigStore(path string) (driven.ConfigStore, error) {
	if path == memory.ConfigPath {
		return memory.NewConfigStore(), nil
	}
	if path != "" {
		return file.OpenConfigStore(path)
	}
	return file.NewConfigStore("")
}

func openStore(settings domain.StorageSettings) (driven.DocumentStore, error) {
	if settings.DataDir == memory.DataDir {
		logger.Info("Using in-memory document store; documents are lost on exit")
		return memory.NewDocumentStore(), nil
	}
	switch settings.Backend {
	case domain.StorageBackendBolt:
		return bolt.NewStore(settings.DataDir)
	case domain.StorageBackendSQLite, "":
		return sqlite.NewStore(settings.DataDir)
	default:
		return nil, fmt.Errorf("%w: storage backend %s", domain.ErrUnsupportedType, settings.Backend)
	}
}

func closeStore(store driven.DocumentStore) {
	if err := store.Close(); err != nil {
		logger.Warn("closing document store: %v", err)
	}
}
