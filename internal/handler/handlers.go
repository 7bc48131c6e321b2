package handler

import (
	"github.com/MKhiriev/go-canvas-vault/internal/config"
	"github.com/MKhiriev/go-canvas-vault/internal/handler/grpc"
	"github.com/MKhiriev/go-canvas-vault/internal/handler/http"
	"github.com/MKhiriev/go-canvas-vault/internal/logger"
)

type Handlers struct {
	HTTP *http.Handler
	GRPC *grpc.Handler
}

func NewHandlers(services *http.Services, app config.App, cfg config.Server, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.HTTPAddress != "" {
		handlers.HTTP = http.NewHandler(services, app, logger)
	}
	if cfg.GRPCAddress != "" {
		handlers.GRPC = grpc.NewHandler(logger)
	}

	if handlers.HTTP == nil && handlers.GRPC == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}
