package crypto

import "errors"

var (
	// ErrDecryptionFailed is returned when the AES-GCM authentication tag
	// does not verify: wrong key, wrong password or tampered ciphertext.
	ErrDecryptionFailed = errors.New("decryption failed: authentication tag mismatch")

	// ErrInvalidKeySize is returned when a key is not exactly 32 bytes.
	ErrInvalidKeySize = errors.New("encryption key must be 32 bytes")

	// ErrSaltRequired is returned by password-based operations when the
	// blob carries no embedded salt.
	ErrSaltRequired = errors.New("encrypted blob has no embedded salt")
)
