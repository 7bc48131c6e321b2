package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-canvas-vault/internal/canvas"
	"github.com/MKhiriev/go-canvas-vault/internal/config"
	"github.com/MKhiriev/go-canvas-vault/internal/crypto"
	"github.com/MKhiriev/go-canvas-vault/internal/events"
	"github.com/MKhiriev/go-canvas-vault/internal/handler"
	httpHandler "github.com/MKhiriev/go-canvas-vault/internal/handler/http"
	"github.com/MKhiriev/go-canvas-vault/internal/logger"
	"github.com/MKhiriev/go-canvas-vault/internal/registry"
	"github.com/MKhiriev/go-canvas-vault/internal/server"
	"github.com/MKhiriev/go-canvas-vault/internal/store"
	"github.com/MKhiriev/go-canvas-vault/internal/vault"
	"github.com/MKhiriev/go-canvas-vault/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("canvas-vault-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := context.Background()

	repos, err := newRepositories(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}

	var vaultStore store.VaultStore
	if cfg.Vault.StorePath != "" {
		vaultStore = store.NewFileVaultStore(cfg.Vault.StorePath)
	} else {
		log.Warn().Msg("no vault store path configured, vault lives in memory only")
		vaultStore = store.NewMemoryVaultStore()
	}

	cryptoService := crypto.NewCryptoService()
	bus := events.NewBus(log)

	vaultService := vault.NewVaultService(cryptoService, vaultStore, bus, log)
	if err := vaultService.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("error loading vault")
	}

	registryService := registry.NewRegistryService(vaultService, repos.RegistryRepository, bus, log)
	if err := registryService.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("error loading registry records")
	}

	documentService := canvas.NewDocumentService(cryptoService, canvas.NewJSONStateCodec(), repos.DocumentRepository, bus, log)
	if err := documentService.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("error loading documents")
	}

	services := &httpHandler.Services{
		Vault:     vaultService,
		Registry:  registryService,
		Documents: documentService,
	}

	handlers, err := handler.NewHandlers(services, cfg.App, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	backgroundWorkers := []workers.Worker{
		workers.NewCacheJanitor(vaultService, cfg.Workers.JanitorInterval, log),
	}
	if cfg.Events.WebhookURL != "" {
		forwarder := events.NewWebhookForwarder(cfg.Events, log)
		forwarder.Attach(bus)
		backgroundWorkers = append(backgroundWorkers, forwarder)
	}

	onShutdown := func() {
		documentService.LockAll(ctx)
		if err := vaultService.Lock(ctx); err != nil {
			log.Warn().Err(err).Msg("error locking vault on shutdown")
		}
	}

	srv, err := server.NewServer(handlers, cfg.Server, onShutdown, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	workersCtx, stopWorkers := context.WithCancel(ctx)
	pool := workers.NewWorkers(backgroundWorkers...)
	pool.Run(workersCtx)

	srv.RunServer()

	stopWorkers()
	pool.Wait()
}

// newRepositories connects the configured relational backend and runs the
// migrations. An empty DSN keeps documents and registry records in memory.
func newRepositories(ctx context.Context, cfg config.Storage, log *logger.Logger) (store.Repositories, error) {
	if cfg.DB.DSN == "" {
		log.Warn().Msg("no database configured, documents and registry records live in memory only")
		return store.Repositories{}, nil
	}

	var (
		db  *store.DB
		err error
	)
	switch cfg.DB.Driver {
	case config.DriverPostgres:
		db, err = store.NewConnectPostgres(ctx, cfg.DB, log)
	default:
		db, err = store.NewConnectSQLite(ctx, cfg.DB, log)
	}
	if err != nil {
		return store.Repositories{}, err
	}

	if err := db.Migrate(); err != nil {
		return store.Repositories{}, err
	}

	return store.Repositories{
		DocumentRepository: store.NewDocumentRepository(db, log),
		RegistryRepository: store.NewRegistryRepository(db, log),
	}, nil
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
