package http

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-canvas-vault/internal/canvas"
	"github.com/MKhiriev/go-canvas-vault/internal/logger"
	"github.com/MKhiriev/go-canvas-vault/internal/utils"
	"github.com/MKhiriev/go-canvas-vault/models"
)

// participantIDHeader identifies the caller when token auth is disabled
// (trusted single-operator mode). The authenticated token subject always
// wins over the header.
const participantIDHeader = "X-Participant-ID"

// participantID resolves the caller identity for permission checks.
func participantID(r *http.Request) string {
	if id, ok := utils.GetParticipantIDFromContext(r.Context()); ok {
		return id
	}
	return r.Header.Get(participantIDHeader)
}

// documentResponse converts the service view into the wire shape shared
// with API clients.
func documentResponse(view canvas.DocumentView) models.DocumentResponse {
	return models.DocumentResponse{
		Metadata:     view.Metadata,
		State:        view.State,
		RequiresAuth: view.RequiresAuth,
	}
}

func (h *Handler) createDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.createDocument").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}
	if err := h.valid.Validate(ctx, req); err != nil {
		log.Err(err).Str("func", "*Handler.createDocument").Msg("request validation failed")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	metadata, err := h.services.Documents.CreateDocument(ctx, canvas.CreateDocumentOptions{
		Name:          req.Name,
		SecurityLevel: req.SecurityLevel,
		CreatorID:     participantID(r),
		Password:      req.Password,
		State:         req.State,
		Description:   req.Description,
		Tags:          req.Tags,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if _, err := utils.WriteJSON(w, metadata, http.StatusCreated); err != nil {
		log.Err(err).Msg("error writing created document metadata")
	}
}

func (h *Handler) listDocuments(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	metadata, err := h.services.Documents.ListDocuments(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if _, err := utils.WriteJSON(w, metadata, http.StatusOK); err != nil {
		log.Err(err).Msg("error writing document list")
	}
}

func (h *Handler) getDocument(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	id := chi.URLParam(r, "id")

	view, err := h.services.Documents.GetDocument(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if _, err := utils.WriteJSON(w, documentResponse(view), http.StatusOK); err != nil {
		log.Err(err).Msg("error writing document")
	}
}

func (h *Handler) deleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.services.Documents.DeleteDocument(r.Context(), id, participantID(r)); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) unlockDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	id := chi.URLParam(r, "id")

	var req models.UnlockDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.unlockDocument").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.valid.Validate(ctx, req); err != nil {
		log.Err(err).Str("func", "*Handler.unlockDocument").Msg("request validation failed")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var key []byte
	if req.Key != "" {
		// base64 уже проверен валидатором
		key, _ = base64.StdEncoding.DecodeString(req.Key)
	}

	view, err := h.services.Documents.UnlockDocument(ctx, id, participantID(r), req.Password, key)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if _, err := utils.WriteJSON(w, documentResponse(view), http.StatusOK); err != nil {
		log.Err(err).Msg("error writing unlocked document")
	}
}

func (h *Handler) lockDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.services.Documents.LockDocument(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) lockAllDocuments(w http.ResponseWriter, r *http.Request) {
	h.services.Documents.LockAll(r.Context())

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) updateDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	id := chi.URLParam(r, "id")

	var req models.UpdateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.updateDocument").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	// The rendering layer owns the state shape: an update is a wholesale
	// replacement, not a merge.
	metadata, err := h.services.Documents.UpdateDocument(ctx, id, participantID(r), func(state *models.CanvasState) error {
		*state = req.State
		return nil
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if _, err := utils.WriteJSON(w, metadata, http.StatusOK); err != nil {
		log.Err(err).Msg("error writing updated document metadata")
	}
}

func (h *Handler) addNode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	id := chi.URLParam(r, "id")

	var node models.Node
	if err := json.NewDecoder(r.Body).Decode(&node); err != nil {
		log.Err(err).Str("func", "*Handler.addNode").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	created, err := h.services.Documents.AddNode(ctx, id, participantID(r), node)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if _, err := utils.WriteJSON(w, created, http.StatusCreated); err != nil {
		log.Err(err).Msg("error writing created node")
	}
}

func (h *Handler) removeNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	nodeID := chi.URLParam(r, "nodeID")

	if err := h.services.Documents.RemoveNode(r.Context(), id, participantID(r), nodeID); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) grantAccess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	id := chi.URLParam(r, "id")

	var req models.GrantAccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.grantAccess").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}
	if err := h.valid.Validate(ctx, req); err != nil {
		log.Err(err).Str("func", "*Handler.grantAccess").Msg("request validation failed")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entry := models.AccessEntry{
		ParticipantID: req.ParticipantID,
		Permissions:   req.Permissions,
		ExpiresAt:     req.ExpiresAt,
	}

	if err := h.services.Documents.GrantAccess(ctx, id, participantID(r), entry); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) revokeAccess(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	revokedID := chi.URLParam(r, "participantID")

	if err := h.services.Documents.RevokeAccess(r.Context(), id, participantID(r), revokedID); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) exportDocument(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	id := chi.URLParam(r, "id")

	doc, err := h.services.Documents.ExportDocument(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if _, err := utils.WriteJSON(w, doc, http.StatusOK); err != nil {
		log.Err(err).Msg("error writing exported document")
	}
}

func (h *Handler) importDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var doc models.SecureDocument
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		log.Err(err).Str("func", "*Handler.importDocument").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	metadata, err := h.services.Documents.ImportDocument(ctx, doc)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if _, err := utils.WriteJSON(w, metadata, http.StatusCreated); err != nil {
		log.Err(err).Msg("error writing imported document metadata")
	}
}
