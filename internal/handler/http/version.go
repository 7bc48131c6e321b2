package http

import (
	"net/http"

	"github.com/MKhiriev/go-canvas-vault/internal/logger"
	"github.com/MKhiriev/go-canvas-vault/internal/utils"
	"github.com/MKhiriev/go-canvas-vault/models"
)

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	if _, err := utils.WriteJSON(w, models.VersionResponse{Version: h.app.Version}, http.StatusOK); err != nil {
		logger.FromRequest(r).Err(err).Msg("error writing version response")
	}
}
