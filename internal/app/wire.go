//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"spaceworks/internal/api/server"
	"spaceworks/internal/app/engine"
	"spaceworks/internal/app/jobstore"
	"spaceworks/internal/app/model"
	"spaceworks/internal/app/repository"
	"spaceworks/internal/app/worker"
)

// InitializeWorker builds the daemon for one job kind: job store, accounts
// DAO, ledger, engine registry, notifier and artifact store, all constructed
// once at process start and injected.
func InitializeWorker(kind model.JobKind) *worker.Worker {
	wire.Build(
		provideConfig,
		provideStore,
		provideAccountDAO,
		provideAuditLogger,
		provideLedger,
		provideEngineRegistry,
		wire.Bind(new(engine.Resolver), new(*engine.Registry)),
		provideNotifier,
		provideArtifactStore,
		provideWorkerOptions,
		worker.New,
	)
	return nil
}

// InitializeServer builds the producer/status API server.
func InitializeServer() *server.Server {
	wire.Build(
		provideConfig,
		provideLogger,
		provideStore,
		provideAccountDAO,
		provideServerConfig,
		server.NewServer,
	)
	return nil
}

// InitializeStore builds just the job store, for CLI commands that only read
// or cancel jobs.
func InitializeStore() *jobstore.Store {
	wire.Build(provideConfig, provideStore)
	return nil
}

// InitializeAccountDAO builds the accounts DAO for ledger CLI commands.
func InitializeAccountDAO() repository.AccountDAO {
	wire.Build(provideConfig, provideAccountDAO)
	return nil
}
