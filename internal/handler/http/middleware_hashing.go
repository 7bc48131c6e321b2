package http

import (
	"bytes"
	"encoding/hex"
	"io"
	"net/http"

	"github.com/MKhiriev/go-canvas-vault/internal/logger"
	"github.com/MKhiriev/go-canvas-vault/internal/utils"
)

// hashHeader carries the hex HMAC-SHA256 of the raw request body.
const hashHeader = "HashSHA256"

// withHashCheck verifies the body integrity signature before any handler
// reads the payload. A request without the header passes through unchecked;
// a request with a header that does not match the recomputed HMAC of the
// body is rejected with 400.
func (h *Handler) withHashCheck(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		hashFromRequest := r.Header.Get(hashHeader)
		if hashFromRequest == "" || r.Body == nil {
			next.ServeHTTP(w, r)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			log.Err(err).Str("func", "*Handler.withHashCheck").Msg("failed to read request body")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		// restore request body for downstream handlers
		r.Body = io.NopCloser(bytes.NewReader(body))

		hashedBody := hex.EncodeToString(utils.Hash(body))
		if hashedBody != hashFromRequest {
			log.Error().Str("func", "*Handler.withHashCheck").
				Str("hash from request", hashFromRequest).
				Str("hashed body", hashedBody).
				Msg("hashes are not equal")
			http.Error(w, "Integrity check failed", http.StatusBadRequest)
			return
		}

		log.Debug().Str("func", "*Handler.withHashCheck").Msg("hashes are equal")

		next.ServeHTTP(w, r)
	})
}
