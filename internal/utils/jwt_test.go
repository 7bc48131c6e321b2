package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateJWTToken_Success(t *testing.T) {
	issuer := "test-issuer"
	participantID := "0193b1c7-aaaa-bbbb-cccc-1234567890ab"
	duration := time.Hour
	key := "secret-key"

	token, err := GenerateJWTToken(issuer, participantID, duration, key)

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if token.SignedString == "" {
		t.Error("expected non-empty SignedString")
	}
	if token.Token == nil {
		t.Error("expected non-nil jwt.Token object")
	}

	claims, ok := token.Token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		t.Fatal("could not cast claims to RegisteredClaims")
	}
	if claims.Issuer != issuer {
		t.Errorf("expected issuer %s, got %s", issuer, claims.Issuer)
	}
	if claims.Subject != participantID {
		t.Errorf("expected subject %q, got %q", participantID, claims.Subject)
	}
}

func TestGenerateJWTToken_InvalidParams(t *testing.T) {
	tests := []struct {
		name          string
		issuer        string
		participantID string
		duration      time.Duration
		key           string
	}{
		{"empty issuer", "", "p-1", time.Hour, "key"},
		{"empty participant", "iss", "", time.Hour, "key"},
		{"zero duration", "iss", "p-1", 0, "key"},
		{"empty key", "iss", "p-1", time.Hour, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateJWTToken(tt.issuer, tt.participantID, tt.duration, tt.key)
			if err == nil {
				t.Error("expected error for invalid parameters, got nil")
			}
		})
	}
}

func TestValidateAndParseJWTToken_Success(t *testing.T) {
	issuer := "test-issuer"
	participantID := "persona-456"
	key := "secret-key"

	genToken, _ := GenerateJWTToken(issuer, participantID, time.Minute*5, key)

	parsedToken, err := ValidateAndParseJWTToken(genToken.SignedString, key, issuer)

	if err != nil {
		t.Fatalf("expected token to be valid, got error: %v", err)
	}
	if parsedToken.ParticipantID != participantID {
		t.Errorf("expected participantID %q, got %q", participantID, parsedToken.ParticipantID)
	}
}

func TestValidateAndParseJWTToken_InvalidKey(t *testing.T) {
	genToken, _ := GenerateJWTToken("test-issuer", "p-1", time.Hour, "correct-key")

	_, err := ValidateAndParseJWTToken(genToken.SignedString, "wrong-key", "test-issuer")
	if err == nil {
		t.Error("expected error due to signature mismatch, got nil")
	}
}

func TestValidateAndParseJWTToken_Expired(t *testing.T) {
	// Token that expired one second ago.
	genToken, _ := GenerateJWTToken("test-issuer", "p-1", -time.Second, "key")

	_, err := ValidateAndParseJWTToken(genToken.SignedString, "key", "test-issuer")
	if err == nil {
		t.Error("expected error for expired token, got nil")
	}
}

func TestValidateAndParseJWTToken_WrongIssuer(t *testing.T) {
	genToken, _ := GenerateJWTToken("real-issuer", "p-1", time.Hour, "key")

	_, err := ValidateAndParseJWTToken(genToken.SignedString, "key", "fake-issuer")
	if err == nil {
		t.Error("expected error for issuer mismatch, got nil")
	}
}

func TestValidateAndParseJWTToken_Malformed(t *testing.T) {
	_, err := ValidateAndParseJWTToken("not.a.token", "key", "iss")
	if err == nil {
		t.Error("expected error for malformed token string, got nil")
	}
}

func TestParseBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"lowercase scheme", "bearer abc", "abc", false},
		{"missing token", "Bearer ", "", true},
		{"wrong scheme", "Basic abc", "", true},
		{"no scheme", "abc.def.ghi", "", true},
		{"empty header", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBearerToken(tt.header)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseParticipantIDFromJWT(t *testing.T) {
	genToken, err := GenerateJWTToken("iss", "persona-7", time.Hour, "key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// No key needed: the parse is deliberately unverified.
	participantID, err := ParseParticipantIDFromJWT(genToken.SignedString)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if participantID != "persona-7" {
		t.Errorf("expected 'persona-7', got %q", participantID)
	}

	if _, err := ParseParticipantIDFromJWT("garbage"); err == nil {
		t.Error("expected error for malformed token")
	}
}
