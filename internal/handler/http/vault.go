package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-canvas-vault/internal/logger"
	"github.com/MKhiriev/go-canvas-vault/internal/utils"
	"github.com/MKhiriev/go-canvas-vault/internal/vault"
	"github.com/MKhiriev/go-canvas-vault/models"
)

func (h *Handler) initVault(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.InitVaultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}
	if err := h.valid.Validate(ctx, req); err != nil {
		log.Err(err).Str("func", "*Handler.initVault").Msg("request validation failed")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := h.services.Vault.Initialize(ctx, req.Password, req.Settings)
	if err != nil {
		switch {
		case errors.Is(err, vault.ErrAlreadyInitialized):
			log.Err(err).Msg("vault already initialized")
			http.Error(w, vault.ErrAlreadyInitialized.Error(), http.StatusConflict)
			return
		case errors.Is(err, models.ErrValidation):
			log.Err(err).Msg("invalid vault initialization request")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during vault initialization")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) unlockVault(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.UnlockVaultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}
	if err := h.valid.Validate(ctx, req); err != nil {
		log.Err(err).Str("func", "*Handler.unlockVault").Msg("request validation failed")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := h.services.Vault.Unlock(ctx, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, vault.ErrNotInitialized):
			log.Err(err).Msg("vault is not initialized")
			http.Error(w, vault.ErrNotInitialized.Error(), http.StatusConflict)
			return
		case errors.Is(err, vault.ErrInvalidPassword):
			log.Err(err).Msg("wrong master password")
			h.writeError(w, r, err)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during vault unlock")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) lockVault(w http.ResponseWriter, r *http.Request) {
	if err := h.services.Vault.Lock(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) vaultStatus(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	status := h.services.Vault.Status()

	if _, err := utils.WriteJSON(w, models.VaultStatusResponse{State: string(status)}, http.StatusOK); err != nil {
		log.Err(err).Msg("error writing vault status response")
	}
}

func (h *Handler) addKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.AddKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}
	if err := h.valid.Validate(ctx, req); err != nil {
		log.Err(err).Str("func", "*Handler.addKey").Msg("request validation failed")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entry, err := h.services.Vault.AddKey(ctx, req.Provider, req.Secret, req.Options)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if _, err := utils.WriteJSON(w, entry, http.StatusCreated); err != nil {
		log.Err(err).Msg("error writing created credential entry")
	}
}

func (h *Handler) listKeys(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	entries, err := h.services.Vault.ListKeys(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if _, err := utils.WriteJSON(w, entries, http.StatusOK); err != nil {
		log.Err(err).Msg("error writing credential entries")
	}
}

func (h *Handler) removeKey(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.services.Vault.RemoveKey(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) rotateKey(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	id := chi.URLParam(r, "id")

	var req models.RotateKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}
	if err := h.valid.Validate(r.Context(), req); err != nil {
		log.Err(err).Str("func", "*Handler.rotateKey").Msg("request validation failed")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.services.Vault.RotateKey(r.Context(), id, req.Secret); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setDefaultKey(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.services.Vault.SetDefaultKey(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
