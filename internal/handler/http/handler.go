package http

import (
	"github.com/MKhiriev/go-canvas-vault/internal/canvas"
	"github.com/MKhiriev/go-canvas-vault/internal/config"
	"github.com/MKhiriev/go-canvas-vault/internal/logger"
	"github.com/MKhiriev/go-canvas-vault/internal/registry"
	"github.com/MKhiriev/go-canvas-vault/internal/validators"
	"github.com/MKhiriev/go-canvas-vault/internal/vault"
)

// Services bundles the domain services exposed over the REST API.
type Services struct {
	Vault     vault.VaultService
	Registry  registry.RegistryService
	Documents canvas.DocumentService
}

type Handler struct {
	services *Services
	app      config.App
	valid    validators.Validator

	logger *logger.Logger
}

// NewHandler wires the domain services to the HTTP transport. The app
// configuration supplies the token verification parameters, the body hash
// key, and the reported version.
func NewHandler(services *Services, app config.App, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		app:      app,
		valid:    validators.NewRequestValidator(),
		logger:   logger,
	}
}
