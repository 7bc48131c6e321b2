package models

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Token wraps a JWT participant token with convenience accessors.
//
// It embeds [jwt.Token] for low-level operations and
// [jwt.RegisteredClaims] for standard claim access. The "sub" claim carries
// the participant id (persona or agent UUID) that document permission checks
// run against.
type Token struct {
	// Token is the underlying JWT used for signing and claim inspection.
	// Excluded from JSON serialization; only the compact string form is
	// meaningful outside the process.
	*jwt.Token `json:"-"`

	// RegisteredClaims provides the standard JWT claim set
	// (sub, exp, iat, nbf, iss, aud, jti) as defined by RFC 7519.
	jwt.RegisteredClaims

	// SignedString is the compact JWS representation of the token.
	SignedString string `json:"-"`

	// ParticipantID is the identity extracted from the "sub" claim.
	ParticipantID string `json:"-"`
}

// GetParticipantID extracts the participant identifier from the token's
// "sub" claim. Returns an error if the claim is missing or empty.
func (t *Token) GetParticipantID() (string, error) {
	sub, err := t.GetSubject()
	if err != nil {
		return "", err
	}
	if sub == "" {
		return "", errors.New("token subject is empty")
	}
	return sub, nil
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t *Token) String() string {
	return t.SignedString
}
