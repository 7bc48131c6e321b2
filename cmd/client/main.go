package main

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-canvas-vault/internal/config"
	"github.com/MKhiriev/go-canvas-vault/internal/crypto"
	"github.com/MKhiriev/go-canvas-vault/internal/events"
	"github.com/MKhiriev/go-canvas-vault/internal/logger"
	"github.com/MKhiriev/go-canvas-vault/internal/store"
	"github.com/MKhiriev/go-canvas-vault/internal/tui"
	"github.com/MKhiriev/go-canvas-vault/internal/vault"
)

func main() {
	log := logger.NewClientLogger("canvas-vault-client")

	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx := context.Background()

	vaultStore := store.NewFileVaultStore(cfg.Vault.StorePath)
	bus := events.NewBus(log)
	vaultService := vault.NewVaultService(crypto.NewCryptoService(), vaultStore, bus, log)

	if err := vaultService.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("error loading vault file")
	}

	app, err := tui.New(vaultService, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating TUI")
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, tui.ErrUserQuit) {
		log.Fatal().Err(err).Msg("TUI session ended with an error")
	}
}
