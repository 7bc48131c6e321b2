package grpc

import (
	"github.com/MKhiriev/go-canvas-vault/internal/logger"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// Handler is the root gRPC transport handler.
//
// The daemon's gRPC surface carries the standard grpc_health_v1 health
// service only: orchestrators probe it to learn whether the security core is
// up. The domain API itself is HTTP; health lives on gRPC because that is
// what the probing infrastructure speaks.
type Handler struct {
	// health implements grpc_health_v1 with a settable serving status.
	health *health.Server

	// logger is used for transport diagnostics.
	logger *logger.Logger
}

// NewHandler constructs a [Handler] whose health service starts in the
// NOT_SERVING state. Call [Handler.SetServing] once the stores and the vault
// are loaded.
func NewHandler(logger *logger.Logger) *Handler {
	logger.Debug().Msg("gRPC handler created")

	h := &Handler{
		health: health.NewServer(),
		logger: logger,
	}
	h.health.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	return h
}

// Register attaches the health service to server.
func (h *Handler) Register(server *grpc.Server) {
	grpc_health_v1.RegisterHealthServer(server, h.health)
}

// SetServing reports the application as ready to health watchers.
func (h *Handler) SetServing() {
	h.health.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
}

// SetNotServing flips health watchers to NOT_SERVING. Called on shutdown
// before the listeners close.
func (h *Handler) SetNotServing() {
	h.health.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
}
