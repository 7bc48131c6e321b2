package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-canvas-vault/internal/logger"
	"github.com/MKhiriev/go-canvas-vault/internal/utils"
	"github.com/MKhiriev/go-canvas-vault/models"
)

func (h *Handler) listRecords(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	records, err := h.services.Registry.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if _, err := utils.WriteJSON(w, records, http.StatusOK); err != nil {
		log.Err(err).Msg("error writing registry records")
	}
}

func (h *Handler) registerRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var record models.RegistryRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	registered, err := h.services.Registry.Register(ctx, record)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if _, err := utils.WriteJSON(w, registered, http.StatusCreated); err != nil {
		log.Err(err).Msg("error writing registered record")
	}
}

func (h *Handler) unregisterRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.services.Registry.Unregister(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) resolveForPersona(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	personaID := chi.URLParam(r, "personaID")

	keys, err := h.services.Registry.ResolveKeysForPersona(r.Context(), personaID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if _, err := utils.WriteJSON(w, models.ResolveResponse{Keys: keys}, http.StatusOK); err != nil {
		log.Err(err).Msg("error writing resolved keys")
	}
}
