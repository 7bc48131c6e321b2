// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"

	"github.com/MKhiriev/go-canvas-vault/models"
)

// Key material sizes, in bytes. AuthTagLength matches the default GCM tag
// size; changing any of these breaks compatibility with stored blobs.
const (
	KeyLength     = 32
	IVLength      = 12
	AuthTagLength = 16
	SaltLength    = 32
)

// cryptoService is the private implementation of [CryptoService].
type cryptoService struct {
	// scrypt tuning parameters. Stored in the struct so they can be
	// lowered in tests where a full-cost derivation is too slow.
	scryptN int
	scryptR int
	scryptP int
}

// NewCryptoService constructs a [CryptoService] with interactive-grade
// scrypt parameters:
//   - CPU/memory cost: 16384 (2^14)
//   - block size:      8
//   - parallelism:     1
//
// Derivation takes tens of milliseconds on desktop hardware, which is why
// callers keep derived keys out of hot paths.
func NewCryptoService() CryptoService {
	return &cryptoService{
		scryptN: 1 << 14,
		scryptR: 8,
		scryptP: 1,
	}
}

// GenerateSalt implements [CryptoService]. It reads 32 random bytes from
// the OS CSPRNG. Returns an error if the random read fails.
func (c *cryptoService) GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// GenerateKey implements [CryptoService]. It reads 32 random bytes from
// the OS CSPRNG. Returns an error if the random read fails.
func (c *cryptoService) GenerateKey() ([]byte, error) {
	key := make([]byte, KeyLength)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}
	return key, nil
}

// DeriveKey implements [CryptoService]. It derives a 256-bit key from
// password and salt using scrypt with the parameters stored in the
// receiver. The derivation runs in its own goroutine; if ctx is cancelled
// first, ctx.Err() is returned and the key is wiped as soon as scrypt
// finishes, so partial material never outlives the call.
func (c *cryptoService) DeriveKey(ctx context.Context, password string, salt []byte) ([]byte, error) {
	if len(salt) == 0 {
		return nil, ErrSaltRequired
	}

	type derived struct {
		key []byte
		err error
	}
	done := make(chan derived, 1)

	go func() {
		key, err := scrypt.Key([]byte(password), salt, c.scryptN, c.scryptR, c.scryptP, KeyLength)
		done <- derived{key: key, err: err}
	}()

	select {
	case <-ctx.Done():
		go func() {
			// scrypt cannot be interrupted; discard its result when it lands.
			if d := <-done; d.key != nil {
				c.SecureWipe(d.key)
			}
		}()
		return nil, ctx.Err()
	case d := <-done:
		if d.err != nil {
			return nil, fmt.Errorf("derive key: %w", d.err)
		}
		return d.key, nil
	}
}

// Encrypt implements [CryptoService]. It seals plaintext with key using
// AES-256-GCM and a fresh random 12-byte IV. The GCM output is split into
// ciphertext and the trailing 16-byte authentication tag; both are stored
// base64-encoded in separate fields of the blob. Returns an error if the
// key size is wrong or the random IV read fails.
func (c *cryptoService) Encrypt(plaintext, key []byte) (*models.EncryptedBlob, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	iv := make([]byte, IVLength)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, fmt.Errorf("generate iv: %w", err)
	}

	sealed := gcm.Seal(nil, iv, plaintext, nil)
	tagStart := len(sealed) - AuthTagLength

	return &models.EncryptedBlob{
		Ciphertext: base64.StdEncoding.EncodeToString(sealed[:tagStart]),
		IV:         base64.StdEncoding.EncodeToString(iv),
		AuthTag:    base64.StdEncoding.EncodeToString(sealed[tagStart:]),
		Algorithm:  models.EncryptionAlgorithm,
		Version:    models.EncryptionVersion,
	}, nil
}

// Decrypt implements [CryptoService]. It validates the blob structure
// first, so an unknown algorithm or version is rejected before any cipher
// work. The auth tag is verified before a single plaintext byte is
// released; a tag mismatch yields [ErrDecryptionFailed].
func (c *cryptoService) Decrypt(blob *models.EncryptedBlob, key []byte) ([]byte, error) {
	if blob == nil {
		return nil, models.ErrBlobMissingFields
	}
	if err := blob.Validate(); err != nil {
		return nil, err
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	ciphertext, err := base64.StdEncoding.DecodeString(blob.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("decode ciphertext: %w", err)
	}
	iv, err := base64.StdEncoding.DecodeString(blob.IV)
	if err != nil {
		return nil, fmt.Errorf("decode iv: %w", err)
	}
	tag, err := base64.StdEncoding.DecodeString(blob.AuthTag)
	if err != nil {
		return nil, fmt.Errorf("decode auth tag: %w", err)
	}
	if len(iv) != IVLength {
		return nil, fmt.Errorf("iv length = %d, want %d", len(iv), IVLength)
	}
	if len(tag) != AuthTagLength {
		return nil, fmt.Errorf("auth tag length = %d, want %d", len(tag), AuthTagLength)
	}

	// GCM expects ciphertext ‖ tag, the inverse of the split in Encrypt.
	plaintext, err := gcm.Open(nil, iv, append(ciphertext, tag...), nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

// EncryptWithPassword implements [CryptoService]. It generates a fresh
// salt, derives a key from password, encrypts plaintext and embeds the
// salt in the returned blob. The derived key is wiped before returning.
func (c *cryptoService) EncryptWithPassword(ctx context.Context, plaintext []byte, password string) (*models.EncryptedBlob, error) {
	salt, err := c.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	key, err := c.DeriveKey(ctx, password, salt)
	if err != nil {
		return nil, err
	}
	defer c.SecureWipe(key)

	blob, err := c.Encrypt(plaintext, key)
	if err != nil {
		return nil, err
	}
	blob.Salt = base64.StdEncoding.EncodeToString(salt)
	return blob, nil
}

// DecryptWithPassword implements [CryptoService]. It re-derives the key
// from password and the salt embedded in blob, then decrypts. The derived
// key is wiped before returning. A wrong password surfaces as
// [ErrDecryptionFailed] from the tag check.
func (c *cryptoService) DecryptWithPassword(ctx context.Context, blob *models.EncryptedBlob, password string) ([]byte, error) {
	if blob == nil {
		return nil, models.ErrBlobMissingFields
	}
	if !blob.HasSalt() {
		return nil, ErrSaltRequired
	}
	salt, err := base64.StdEncoding.DecodeString(blob.Salt)
	if err != nil {
		return nil, fmt.Errorf("decode salt: %w", err)
	}

	key, err := c.DeriveKey(ctx, password, salt)
	if err != nil {
		return nil, err
	}
	defer c.SecureWipe(key)

	return c.Decrypt(blob, key)
}

// Hash implements [CryptoService]. It returns hex(SHA-256(data)).
func (c *cryptoService) Hash(data []byte) string {
	digest := sha256.Sum256(data)
	return hex.EncodeToString(digest[:])
}

// SecureCompare implements [CryptoService]. Equal-length inputs are
// compared byte-for-byte in constant time. On a length mismatch a dummy
// self-comparison runs first so the early return costs the same work.
func (c *cryptoService) SecureCompare(a, b string) bool {
	if len(a) != len(b) {
		subtle.ConstantTimeCompare([]byte(a), []byte(a))
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// SecureWipe implements [CryptoService]. Three passes over buf: zeros,
// CSPRNG bytes, zeros again. If the random read fails the buffer is still
// left zeroed. Copies made earlier by the GC are out of reach.
func (c *cryptoService) SecureWipe(buf []byte) {
	if len(buf) == 0 {
		return
	}
	for i := range buf {
		buf[i] = 0
	}
	_, _ = io.ReadFull(rand.Reader, buf)
	for i := range buf {
		buf[i] = 0
	}
}

// newGCM builds an AES-256-GCM AEAD from key, enforcing the 32-byte key
// length before touching the cipher.
func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeyLength {
		return nil, ErrInvalidKeySize
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}
