package models

import "errors"

// EncryptionAlgorithm is the only cipher suite this application produces and
// accepts. Declared here so that persisted blobs, document metadata, and the
// crypto service all reference one constant.
const EncryptionAlgorithm = "aes-256-gcm"

// EncryptionVersion is the current version of the encrypted blob layout.
// Bumped only if the wire format below ever changes shape.
const EncryptionVersion = 1

// EncryptedBlob is the at-rest and on-the-wire form of any encrypted payload:
// credential secrets, wrapped master keys, vault settings, and secure
// document state all serialize to this structure.
//
// All binary fields are standard base64 strings so the blob survives JSON
// round-trips byte-exactly. The authentication tag is kept separate from the
// ciphertext; decryption verifies it before releasing any plaintext.
type EncryptedBlob struct {
	// Ciphertext is the base64-encoded encrypted payload, without the tag.
	Ciphertext string `json:"ciphertext"`

	// IV is the base64-encoded 12-byte nonce generated fresh per encryption.
	IV string `json:"iv"`

	// AuthTag is the base64-encoded 16-byte GCM authentication tag.
	AuthTag string `json:"authTag"`

	// Salt is the base64-encoded KDF salt. Present only when the blob was
	// produced by password-based encryption; omitted for blobs encrypted
	// under a raw key.
	Salt string `json:"salt,omitempty"`

	// Algorithm identifies the cipher suite. Always [EncryptionAlgorithm].
	Algorithm string `json:"algorithm"`

	// Version is the blob layout version. Always [EncryptionVersion].
	Version int `json:"version"`
}

// Blob validation errors.
var (
	ErrBlobMissingFields = errors.New("encrypted blob is missing required fields")
	ErrBlobAlgorithm     = errors.New("unsupported encryption algorithm")
	ErrBlobVersion       = errors.New("unsupported encrypted blob version")
)

// Validate checks structural well-formedness of the blob: required fields
// present and algorithm/version matching the fixed constants. It does not
// touch the ciphertext; authenticity is only established by decryption.
func (b EncryptedBlob) Validate() error {
	if b.Ciphertext == "" || b.IV == "" || b.AuthTag == "" {
		return ErrBlobMissingFields
	}
	if b.Algorithm != EncryptionAlgorithm {
		return ErrBlobAlgorithm
	}
	if b.Version != EncryptionVersion {
		return ErrBlobVersion
	}
	return nil
}

// HasSalt reports whether the blob embeds a KDF salt, i.e. whether it can be
// decrypted from a password alone.
func (b EncryptedBlob) HasSalt() bool {
	return b.Salt != ""
}
