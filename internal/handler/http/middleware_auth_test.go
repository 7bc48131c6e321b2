package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-canvas-vault/internal/config"
	"github.com/MKhiriev/go-canvas-vault/internal/logger"
	"github.com/MKhiriev/go-canvas-vault/internal/utils"
)

// authProbe returns the middleware under test wrapped around a handler that
// records the participant id it observed in the request context.
func authProbe(t *testing.T, signKey, issuer string) (http.Handler, *string) {
	t.Helper()

	h := NewHandler(&Services{}, config.App{TokenSignKey: signKey, TokenIssuer: issuer}, logger.Nop())

	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := utils.GetParticipantIDFromContext(r.Context()); ok {
			seen = id
		}
		w.WriteHeader(http.StatusOK)
	})

	return h.auth(next), &seen
}

// TestAuth_MissingHeader verifies 401 when no Authorization header is sent.
func TestAuth_MissingHeader(t *testing.T) {
	mw, _ := authProbe(t, testSignKey, testIssuer)

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	rec := httptest.NewRecorder()

	mw.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "empty `Authorization` header")
}

// TestAuth_HeaderWithoutToken verifies 401 when the header has no token part.
func TestAuth_HeaderWithoutToken(t *testing.T) {
	mw, _ := authProbe(t, testSignKey, testIssuer)

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	req.Header.Set("Authorization", "Bearer")
	rec := httptest.NewRecorder()

	mw.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid `Authorization` header")
}

// TestAuth_EmptyTokenPart verifies 401 when the token part is empty.
func TestAuth_EmptyTokenPart(t *testing.T) {
	mw, _ := authProbe(t, testSignKey, testIssuer)

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	req.Header.Set("Authorization", "Bearer ")
	rec := httptest.NewRecorder()

	mw.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "empty token")
}

// TestAuth_ValidToken verifies the participant id lands in the context.
func TestAuth_ValidToken(t *testing.T) {
	mw, seen := authProbe(t, testSignKey, testIssuer)

	token, err := utils.GenerateJWTToken(testIssuer, "persona-lead", time.Minute, testSignKey)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	req.Header.Set("Authorization", "Bearer "+token.SignedString)
	rec := httptest.NewRecorder()

	mw.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "persona-lead", *seen)
}

// TestAuth_ExpiredToken verifies an expired token is rejected with a
// specific message.
func TestAuth_ExpiredToken(t *testing.T) {
	mw, _ := authProbe(t, testSignKey, testIssuer)

	token, err := utils.GenerateJWTToken(testIssuer, "persona-lead", -time.Minute, testSignKey)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	req.Header.Set("Authorization", "Bearer "+token.SignedString)
	rec := httptest.NewRecorder()

	mw.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "token expired")
}

// TestAuth_WrongSignKey verifies a token signed with another key is
// rejected.
func TestAuth_WrongSignKey(t *testing.T) {
	mw, _ := authProbe(t, testSignKey, testIssuer)

	token, err := utils.GenerateJWTToken(testIssuer, "persona-lead", time.Minute, "other-key")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	req.Header.Set("Authorization", "Bearer "+token.SignedString)
	rec := httptest.NewRecorder()

	mw.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// TestGetTokenFromAuthHeader exercises the raw header parser.
func TestGetTokenFromAuthHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{name: "valid bearer", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "missing token", header: "Bearer", wantErr: ErrInvalidAuthorizationHeader},
		{name: "empty token", header: "Bearer ", wantErr: ErrEmptyToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := getTokenFromAuthHeader(tt.header)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
