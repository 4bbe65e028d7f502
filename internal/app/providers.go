package app

import (
	"context"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"spaceworks/internal/api/server"
	"spaceworks/internal/app/engine"
	openaiengine "spaceworks/internal/app/engine/openai"
	"spaceworks/internal/app/engine/video"
	"spaceworks/internal/app/engine/whispercpp"
	"spaceworks/internal/app/jobstore"
	"spaceworks/internal/app/ledger"
	"spaceworks/internal/app/notify"
	"spaceworks/internal/app/repository"
	"spaceworks/internal/app/repository/pg"
	"spaceworks/internal/app/repository/sqlite"
	"spaceworks/internal/app/spaces"
	"spaceworks/internal/app/storage"
	"spaceworks/internal/app/worker"
	"spaceworks/internal/config"
)

// Providers in this file fail fast: a daemon that cannot assemble its
// dependencies should not limp along.

func provideConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v\n", err)
	}
	return cfg
}

func provideLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

// provideAuditLogger writes the ledger's append-only cost log, one JSON line
// per attempt.
func provideAuditLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("log", "cost_audit")
}

func provideStore(cfg *config.Config) *jobstore.Store {
	store, err := jobstore.New(cfg.JobsDir)
	if err != nil {
		log.Fatalf("Failed to open job store: %v\n", err)
	}
	return store
}

func provideAccountDAO(cfg *config.Config) repository.AccountDAO {
	switch cfg.AccountsDriver {
	case "postgres":
		db, err := pg.Open(cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("Failed to open accounts database: %v\n", err)
		}
		return pg.NewAccountDB(db)
	default:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				log.Fatalf("Failed to create accounts database directory: %v\n", err)
			}
		}
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to open accounts database: %v\n", err)
		}
		return sqlite.NewAccountDB(db)
	}
}

func provideLedger(accounts repository.AccountDAO, audit *slog.Logger) *ledger.Ledger {
	return ledger.New(accounts, audit)
}

func provideEngineRegistry(cfg *config.Config) *engine.Registry {
	locator := spaces.NewLocator(cfg.SpacesDir)
	registry := &engine.Registry{
		VideoRenderer: video.NewRenderer(locator, filepath.Join(os.TempDir(), "spaceworks-render")),
	}
	if cfg.OpenAIKey != "" {
		client := openaiengine.NewClient(cfg.OpenAIKey)
		registry.RemoteTranscriber = openaiengine.NewTranscriber(client, locator)
		registry.Translator = openaiengine.NewTranslator(client)
	}
	if cfg.WhisperCppBinary != "" {
		registry.LocalTranscriber = whispercpp.NewTranscriber(cfg.WhisperCppBinary, cfg.WhisperCppModelDir, locator)
	}
	return registry
}

func provideNotifier(cfg *config.Config) notify.Dispatcher {
	return notify.NewDispatcher(cfg.WebhookURL, cfg.WebhookSecret)
}

func provideArtifactStore(cfg *config.Config) storage.ArtifactStore {
	if cfg.MinioEndpoint == "" {
		return nil
	}
	store, err := storage.NewMinioArtifactStore(context.Background(), storage.MinioConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	})
	if err != nil {
		log.Fatalf("Failed to connect to artifact storage: %v\n", err)
	}
	return store
}

func provideWorkerOptions(cfg *config.Config) worker.Options {
	return worker.Options{
		PollInterval:     cfg.PollInterval,
		ErrorBackoff:     cfg.ErrorBackoff,
		ProgressInterval: cfg.ProgressInterval,
	}
}

func provideServerConfig(cfg *config.Config) server.Config {
	return server.Config{
		Host:         cfg.APIHost,
		Port:         cfg.APIPort,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		Environment:  cfg.Environment,
	}
}
