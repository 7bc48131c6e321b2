// Package utils provides general-purpose helpers shared across the
// application: type-safe context keys, JWT participant tokens, request
// signing, JSON response writing, the outbound HTTP client, and UUID
// generation.
package utils

import (
	"context"
)

// contextKey is a private type for context keys. Using a dedicated type
// instead of a plain string prevents collisions with other packages that
// store string-keyed values in the same context.
type contextKey string

// String returns the string form of the key. Implements [fmt.Stringer].
func (c contextKey) String() string {
	return string(c)
}

// ParticipantIDCtxKey is the key under which the authenticated participant
// id (persona or agent UUID) is stored in the request context.
//
// Example of writing a value to the context:
//
//	ctx := context.WithValue(ctx, utils.ParticipantIDCtxKey, "0193b1c7-...")
var ParticipantIDCtxKey = contextKey("participantID")

// TraceIDCtxKey is the key under which the per-request trace id is stored.
var TraceIDCtxKey = contextKey("traceID")

// GetParticipantIDFromContext retrieves the participant id from the context.
//
// Returns the id and an ok flag:
//   - ok == true  — value is present and is a non-empty string
//   - ok == false — value is missing, empty, or of an unexpected type
func GetParticipantIDFromContext(ctx context.Context) (string, bool) {
	participantID, ok := ctx.Value(ParticipantIDCtxKey).(string)
	if !ok || participantID == "" {
		return "", false
	}
	return participantID, true
}

// GetTraceIDFromContext retrieves the trace id from the context.
func GetTraceIDFromContext(ctx context.Context) (string, bool) {
	traceID, ok := ctx.Value(TraceIDCtxKey).(string)
	if !ok || traceID == "" {
		return "", false
	}
	return traceID, true
}
