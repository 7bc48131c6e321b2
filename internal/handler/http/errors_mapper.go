package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-canvas-vault/internal/canvas"
	"github.com/MKhiriev/go-canvas-vault/internal/crypto"
	"github.com/MKhiriev/go-canvas-vault/internal/logger"
	"github.com/MKhiriev/go-canvas-vault/internal/registry"
	"github.com/MKhiriev/go-canvas-vault/internal/store"
	"github.com/MKhiriev/go-canvas-vault/internal/utils"
	"github.com/MKhiriev/go-canvas-vault/internal/vault"
	"github.com/MKhiriev/go-canvas-vault/models"
)

var errorStatusMap = map[error]int{
	models.ErrValidation: http.StatusBadRequest,

	vault.ErrNotInitialized:     http.StatusConflict,
	vault.ErrAlreadyInitialized: http.StatusConflict,
	vault.ErrVaultLocked:        http.StatusLocked,
	vault.ErrInvalidPassword:    http.StatusUnauthorized,
	vault.ErrKeyNotFound:        http.StatusNotFound,

	registry.ErrRecordNotFound:  http.StatusNotFound,
	registry.ErrDuplicateRecord: http.StatusConflict,

	canvas.ErrDocumentNotFound: http.StatusNotFound,
	canvas.ErrDocumentLocked:   http.StatusLocked,
	canvas.ErrAccessDenied:     http.StatusForbidden,
	canvas.ErrIntegrityFailure: http.StatusConflict,
	canvas.ErrLastAdmin:        http.StatusConflict,

	crypto.ErrDecryptionFailed: http.StatusUnauthorized,

	store.ErrDocumentNotSaved:       http.StatusInternalServerError,
	store.ErrRegistryRecordNotSaved: http.StatusInternalServerError,
	store.ErrBuildingSQLQuery:       http.StatusInternalServerError,
	store.ErrExecutingQuery:         http.StatusInternalServerError,
	store.ErrExecutingStatement:     http.StatusInternalServerError,
	store.ErrScanningRow:            http.StatusInternalServerError,
	store.ErrScanningRows:           http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeError renders the uniform JSON error body for err. Unauthorized
// responses carry the requiresAuth marker so clients can prompt for
// credentials and retry instead of failing outright. Unmapped errors are
// reported as a bare 500 so internal detail never reaches the wire.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)
	status := statusFromError(err)

	if errors.Is(err, canvas.ErrIntegrityFailure) {
		// Hash mismatches point at tampering or corruption. Keep the full
		// detail in the log, the client only learns the sentinel text.
		log.Error().Err(err).Msg("content integrity violation reported to client")
	} else {
		log.Err(err).Send()
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = http.StatusText(http.StatusInternalServerError)
	}

	resp := models.ErrorResponse{Error: message}
	if status == http.StatusUnauthorized {
		resp.RequiresAuth = true
	}

	if _, werr := utils.WriteJSON(w, resp, status); werr != nil {
		log.Err(werr).Msg("error writing error response")
	}
}
