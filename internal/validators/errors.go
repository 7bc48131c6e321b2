package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyPassword        = errors.New("password is required")
	ErrEmptyDocumentName    = errors.New("document name is required")
	ErrInvalidSecurityLevel = errors.New("invalid security level")
	ErrEmptyParticipantID   = errors.New("participant ID is required")
	ErrInvalidPermission    = errors.New("invalid permission")
	ErrEmptyProvider        = errors.New("provider is required")
	ErrEmptySecret          = errors.New("secret is required")
	ErrAmbiguousUnlock      = errors.New("password and key are mutually exclusive")
	ErrEmptyUnlockMaterial  = errors.New("password or key is required")
	ErrInvalidKeyEncoding   = errors.New("document key is not valid base64")
)
