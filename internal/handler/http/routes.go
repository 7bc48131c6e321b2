package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(withGZip)
	if h.app.HashKey != "" {
		router.Use(h.withHashCheck)
	}

	// routes without authorization: the vault cannot be initialized or
	// unlocked by an authenticated caller before it exists, and status
	// and version are deliberately public
	router.Group(func(r chi.Router) {
		r.Post("/api/vault/init", h.initVault)
		r.Post("/api/vault/unlock", h.unlockVault)
		r.Get("/api/vault/status", h.vaultStatus)
		r.Get("/api/version", h.getServerVersion)
	})

	router.Group(func(r chi.Router) {
		if h.app.TokenSignKey != "" {
			r.Use(h.auth)
		}

		r.Post("/api/vault/lock", h.lockVault)
		r.Post("/api/vault/keys", h.addKey)
		r.Get("/api/vault/keys", h.listKeys)
		r.Delete("/api/vault/keys/{id}", h.removeKey)
		r.Post("/api/vault/keys/{id}/rotate", h.rotateKey)
		r.Post("/api/vault/keys/{id}/default", h.setDefaultKey)

		r.Get("/api/registry/records", h.listRecords)
		r.Post("/api/registry/records", h.registerRecord)
		r.Delete("/api/registry/records/{id}", h.unregisterRecord)
		r.Get("/api/registry/resolve/{personaID}", h.resolveForPersona)

		r.Post("/api/documents", h.createDocument)
		r.Get("/api/documents", h.listDocuments)
		r.Post("/api/documents/lock-all", h.lockAllDocuments)
		r.Post("/api/documents/import", h.importDocument)
		r.Get("/api/documents/{id}", h.getDocument)
		r.Put("/api/documents/{id}", h.updateDocument)
		r.Delete("/api/documents/{id}", h.deleteDocument)
		r.Post("/api/documents/{id}/unlock", h.unlockDocument)
		r.Post("/api/documents/{id}/lock", h.lockDocument)
		r.Post("/api/documents/{id}/nodes", h.addNode)
		r.Delete("/api/documents/{id}/nodes/{nodeID}", h.removeNode)
		r.Post("/api/documents/{id}/access", h.grantAccess)
		r.Delete("/api/documents/{id}/access/{participantID}", h.revokeAccess)
		r.Get("/api/documents/{id}/export", h.exportDocument)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
