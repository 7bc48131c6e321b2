package validators

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/MKhiriev/go-canvas-vault/models"
)

// Field name constants used to specify which fields should be validated.
// These constants are passed to Validate to restrict validation to a subset
// of fields (field-level scoping).
const (
	// FieldPassword targets the master or document password of a request.
	FieldPassword = "password"

	// FieldName targets the human-readable document name.
	FieldName = "name"

	// FieldSecurityLevel targets the document protection classification.
	FieldSecurityLevel = "security_level"

	// FieldParticipantID targets the identity an access entry is granted to.
	FieldParticipantID = "participant_id"

	// FieldPermissions targets the capability list of an access grant.
	FieldPermissions = "permissions"

	// FieldProvider targets the provider name of a credential entry.
	FieldProvider = "provider"

	// FieldSecret targets the plaintext secret of a credential entry.
	FieldSecret = "secret"

	// FieldUnlockMaterial enforces that exactly one of password and raw key
	// is supplied when opening an encrypted document.
	FieldUnlockMaterial = "unlock material"
)

// RequestValidator implements the Validator interface for the REST request
// bodies: InitVaultRequest, UnlockVaultRequest, AddKeyRequest,
// RotateKeyRequest, CreateDocumentRequest, UnlockDocumentRequest and
// GrantAccessRequest.
//
// It supports both value and pointer receivers for every request type and
// allows optional field-level scoping via variadic field name arguments.
type RequestValidator struct {
}

// NewRequestValidator constructs a new RequestValidator
// and returns it as the Validator interface.
func NewRequestValidator() Validator {
	return &RequestValidator{}
}

// Validate dispatches validation to the appropriate type-specific method
// based on the dynamic type of obj. Both value and pointer forms of each
// supported request are accepted.
//
// Returns ErrUnsupportedType if obj does not match any known request type.
// Optional fields restrict validation to the named subset; when omitted,
// every field of the request is validated.
func (v *RequestValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.InitVaultRequest:
		return v.validateInitVault(ctx, value, fields...)
	case *models.InitVaultRequest:
		return v.validateInitVault(ctx, *value, fields...)

	case models.UnlockVaultRequest:
		return v.validateUnlockVault(ctx, value, fields...)
	case *models.UnlockVaultRequest:
		return v.validateUnlockVault(ctx, *value, fields...)

	case models.AddKeyRequest:
		return v.validateAddKey(ctx, value, fields...)
	case *models.AddKeyRequest:
		return v.validateAddKey(ctx, *value, fields...)

	case models.RotateKeyRequest:
		return v.validateRotateKey(ctx, value, fields...)
	case *models.RotateKeyRequest:
		return v.validateRotateKey(ctx, *value, fields...)

	case models.CreateDocumentRequest:
		return v.validateCreateDocument(ctx, value, fields...)
	case *models.CreateDocumentRequest:
		return v.validateCreateDocument(ctx, *value, fields...)

	case models.UnlockDocumentRequest:
		return v.validateUnlockDocument(ctx, value, fields...)
	case *models.UnlockDocumentRequest:
		return v.validateUnlockDocument(ctx, *value, fields...)

	case models.GrantAccessRequest:
		return v.validateGrantAccess(ctx, value, fields...)
	case *models.GrantAccessRequest:
		return v.validateGrantAccess(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *RequestValidator) validateInitVault(_ context.Context, req models.InitVaultRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldPassword}
	}
	for _, field := range fields {
		switch field {
		case FieldPassword:
			if req.Password == "" {
				return ErrEmptyPassword
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}
	return nil
}

func (v *RequestValidator) validateUnlockVault(_ context.Context, req models.UnlockVaultRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldPassword}
	}
	for _, field := range fields {
		switch field {
		case FieldPassword:
			if req.Password == "" {
				return ErrEmptyPassword
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}
	return nil
}

func (v *RequestValidator) validateAddKey(_ context.Context, req models.AddKeyRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldProvider, FieldSecret}
	}
	for _, field := range fields {
		switch field {
		case FieldProvider:
			if req.Provider == "" {
				return ErrEmptyProvider
			}
		case FieldSecret:
			if req.Secret == "" {
				return ErrEmptySecret
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}
	return nil
}

func (v *RequestValidator) validateRotateKey(_ context.Context, req models.RotateKeyRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldSecret}
	}
	for _, field := range fields {
		switch field {
		case FieldSecret:
			if req.Secret == "" {
				return ErrEmptySecret
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}
	return nil
}

func (v *RequestValidator) validateCreateDocument(_ context.Context, req models.CreateDocumentRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldName, FieldSecurityLevel}
	}
	for _, field := range fields {
		switch field {
		case FieldName:
			if req.Name == "" {
				return ErrEmptyDocumentName
			}
		case FieldSecurityLevel:
			// An empty level is allowed: the service applies its default.
			if req.SecurityLevel != "" && !req.SecurityLevel.Valid() {
				return fmt.Errorf("%w: %q", ErrInvalidSecurityLevel, req.SecurityLevel)
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}
	return nil
}

func (v *RequestValidator) validateUnlockDocument(_ context.Context, req models.UnlockDocumentRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUnlockMaterial}
	}
	for _, field := range fields {
		switch field {
		case FieldUnlockMaterial:
			if req.Password == "" && req.Key == "" {
				return ErrEmptyUnlockMaterial
			}
			if req.Password != "" && req.Key != "" {
				return ErrAmbiguousUnlock
			}
			if req.Key != "" {
				if _, err := base64.StdEncoding.DecodeString(req.Key); err != nil {
					return ErrInvalidKeyEncoding
				}
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}
	return nil
}

func (v *RequestValidator) validateGrantAccess(_ context.Context, req models.GrantAccessRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldParticipantID, FieldPermissions}
	}
	for _, field := range fields {
		switch field {
		case FieldParticipantID:
			if req.ParticipantID == "" {
				return ErrEmptyParticipantID
			}
		case FieldPermissions:
			// An empty list is allowed: the security level's defaults apply.
			for _, p := range req.Permissions {
				if !isValidPermission(p) {
					return fmt.Errorf("%w: %q", ErrInvalidPermission, p)
				}
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}
	return nil
}

// isValidPermission reports whether p is one of the recognized Permission
// values defined in models.AllPermissions.
func isValidPermission(p models.Permission) bool {
	for _, known := range models.AllPermissions() {
		if p == known {
			return true
		}
	}
	return false
}
