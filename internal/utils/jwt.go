package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MKhiriev/go-canvas-vault/models"
)

// GenerateJWTToken creates a signed HMAC-SHA256 JWT for a participant.
//
// The token carries the standard claims:
//   - Issuer    (iss): the service that issued the token
//   - Subject   (sub): the participant id (persona or agent UUID)
//   - IssuedAt  (iat): the current time
//   - ExpiresAt (exp): the current time plus tokenDuration
//
// All parameters are required. Returns an error if any of them are empty
// or zero.
//
// Example usage:
//
//	token, err := utils.GenerateJWTToken("canvas-vault", participantID, time.Hour, "secret")
func GenerateJWTToken(issuer string, participantID string, tokenDuration time.Duration, signKey string) (models.Token, error) {
	if issuer == "" || participantID == "" || tokenDuration == 0 || signKey == "" {
		return models.Token{}, errors.New("invalid params for generating JWT Token")
	}

	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   participantID,
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred during signing JWT token: %w", err)
	}

	return models.Token{Token: token, SignedString: tokenString, ParticipantID: participantID}, nil
}

// ValidateAndParseJWTToken validates a JWT string and extracts its claims.
//
// Validation covers the HMAC signature, the issuer claim, expiration, and
// presence of a non-empty subject. The subject is returned as the
// participant id.
//
// Example usage:
//
//	token, err := utils.ValidateAndParseJWTToken(raw, "secret", "canvas-vault")
//	if err != nil {
//	    // invalid, expired, or foreign token
//	}
func ValidateAndParseJWTToken(tokenString, tokenSignKey, tokenIssuer string) (models.Token, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.Token{}, func(token *jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	participantID, err := token.Claims.GetSubject()
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred during getting subject from token: %w", err)
	}
	if participantID == "" {
		return models.Token{}, errors.New("empty subject error")
	}

	return models.Token{Token: token, SignedString: tokenString, ParticipantID: participantID}, nil
}

// ParseBearerToken extracts the token part of an "Authorization: Bearer ..."
// header value.
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Split(strings.TrimSpace(authorizationHeader), " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}

// ParseParticipantIDFromJWT extracts the subject from a token WITHOUT
// verifying its signature. Display purposes only; never use the result for
// an authorization decision.
func ParseParticipantIDFromJWT(tokenString string) (string, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return "", err
	}
	if sub == "" {
		return "", errors.New("empty subject error")
	}
	return sub, nil
}
