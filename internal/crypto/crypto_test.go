package crypto

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/MKhiriev/go-canvas-vault/models"
)

func TestGenerateSalt_LengthAndRandomness(t *testing.T) {
	svc := NewCryptoService()

	s1, err := svc.GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt error: %v", err)
	}
	s2, err := svc.GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt error: %v", err)
	}

	if len(s1) != SaltLength {
		t.Fatalf("salt length = %d, want %d", len(s1), SaltLength)
	}
	if bytes.Equal(s1, s2) {
		t.Fatalf("expected salts to differ, but they are equal")
	}
}

func TestGenerateKey_LengthAndRandomness(t *testing.T) {
	svc := NewCryptoService()

	k1, err := svc.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey error: %v", err)
	}
	k2, err := svc.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey error: %v", err)
	}

	if len(k1) != KeyLength {
		t.Fatalf("key length = %d, want %d", len(k1), KeyLength)
	}
	if bytes.Equal(k1, k2) {
		t.Fatalf("expected keys to differ, but they are equal")
	}
}

func TestDeriveKey_DeterministicForSameInputs(t *testing.T) {
	svc := NewCryptoService()
	ctx := context.Background()

	password := "correct horse battery staple"
	salt := bytes.Repeat([]byte{0xAB}, SaltLength)

	k1, err := svc.DeriveKey(ctx, password, salt)
	if err != nil {
		t.Fatalf("DeriveKey error: %v", err)
	}
	k2, err := svc.DeriveKey(ctx, password, salt)
	if err != nil {
		t.Fatalf("DeriveKey error: %v", err)
	}

	if len(k1) != KeyLength {
		t.Fatalf("derived key length = %d, want %d", len(k1), KeyLength)
	}
	if !bytes.Equal(k1, k2) {
		t.Fatalf("expected derived keys to match for same password+salt")
	}
}

func TestDeriveKey_DifferentSaltProducesDifferentKey(t *testing.T) {
	svc := NewCryptoService()
	ctx := context.Background()

	password := "same password"
	salt1 := bytes.Repeat([]byte{0x01}, SaltLength)
	salt2 := bytes.Repeat([]byte{0x02}, SaltLength)

	k1, err := svc.DeriveKey(ctx, password, salt1)
	if err != nil {
		t.Fatalf("DeriveKey error: %v", err)
	}
	k2, err := svc.DeriveKey(ctx, password, salt2)
	if err != nil {
		t.Fatalf("DeriveKey error: %v", err)
	}

	if bytes.Equal(k1, k2) {
		t.Fatalf("expected different keys for different salts")
	}
}

func TestDeriveKey_EmptySaltRejected(t *testing.T) {
	svc := NewCryptoService()

	if _, err := svc.DeriveKey(context.Background(), "pw", nil); !errors.Is(err, ErrSaltRequired) {
		t.Fatalf("DeriveKey(nil salt) error = %v, want ErrSaltRequired", err)
	}
}

func TestDeriveKey_CancelledContext(t *testing.T) {
	svc := NewCryptoService()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	key, err := svc.DeriveKey(ctx, "pw", bytes.Repeat([]byte{0x07}, SaltLength))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("DeriveKey error = %v, want context.Canceled", err)
	}
	if key != nil {
		t.Fatalf("expected nil key on cancelled derivation")
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	svc := NewCryptoService()

	key := bytes.Repeat([]byte{0x2A}, KeyLength)
	plaintext := []byte(`{"nodes":[{"id":"n1"}],"edges":[]}`)

	blob, err := svc.Encrypt(plaintext, key)
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	if blob.Algorithm != models.EncryptionAlgorithm {
		t.Fatalf("algorithm = %q, want %q", blob.Algorithm, models.EncryptionAlgorithm)
	}
	if blob.Version != models.EncryptionVersion {
		t.Fatalf("version = %d, want %d", blob.Version, models.EncryptionVersion)
	}
	if blob.Salt != "" {
		t.Fatalf("key-based Encrypt must not embed a salt")
	}

	iv, err := base64.StdEncoding.DecodeString(blob.IV)
	if err != nil {
		t.Fatalf("iv is not valid base64: %v", err)
	}
	if len(iv) != IVLength {
		t.Fatalf("iv length = %d, want %d", len(iv), IVLength)
	}
	tag, err := base64.StdEncoding.DecodeString(blob.AuthTag)
	if err != nil {
		t.Fatalf("auth tag is not valid base64: %v", err)
	}
	if len(tag) != AuthTagLength {
		t.Fatalf("auth tag length = %d, want %d", len(tag), AuthTagLength)
	}

	got, err := svc.Decrypt(blob, key)
	if err != nil {
		t.Fatalf("Decrypt error: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("round-trip mismatch: got %q, want %q", got, plaintext)
	}
}

func TestEncrypt_FreshIVPerCall(t *testing.T) {
	svc := NewCryptoService()

	key := bytes.Repeat([]byte{0x11}, KeyLength)
	plaintext := []byte("same plaintext twice")

	b1, err := svc.Encrypt(plaintext, key)
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}
	b2, err := svc.Encrypt(plaintext, key)
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	if b1.IV == b2.IV {
		t.Fatalf("expected a fresh IV per call, got identical IVs")
	}
	if b1.Ciphertext == b2.Ciphertext {
		t.Fatalf("expected different ciphertexts under different IVs")
	}
}

func TestEncrypt_RejectsWrongKeySize(t *testing.T) {
	svc := NewCryptoService()

	if _, err := svc.Encrypt([]byte("x"), make([]byte, 16)); !errors.Is(err, ErrInvalidKeySize) {
		t.Fatalf("Encrypt(16-byte key) error = %v, want ErrInvalidKeySize", err)
	}
}

// flipBit decodes a base64 field, flips one bit and re-encodes it.
func flipBit(t *testing.T, encoded string) string {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("decode base64: %v", err)
	}
	raw[0] ^= 0x01
	return base64.StdEncoding.EncodeToString(raw)
}

func TestDecrypt_TamperedInputFails(t *testing.T) {
	svc := NewCryptoService()

	key := bytes.Repeat([]byte{0x2A}, KeyLength)
	blob, err := svc.Encrypt([]byte("attack at dawn"), key)
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(b *models.EncryptedBlob)
	}{
		{name: "ciphertext bit flip", mutate: func(b *models.EncryptedBlob) { b.Ciphertext = flipBit(t, b.Ciphertext) }},
		{name: "auth tag bit flip", mutate: func(b *models.EncryptedBlob) { b.AuthTag = flipBit(t, b.AuthTag) }},
		{name: "iv bit flip", mutate: func(b *models.EncryptedBlob) { b.IV = flipBit(t, b.IV) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tampered := *blob
			tt.mutate(&tampered)

			if _, err := svc.Decrypt(&tampered, key); !errors.Is(err, ErrDecryptionFailed) {
				t.Fatalf("Decrypt(tampered) error = %v, want ErrDecryptionFailed", err)
			}
		})
	}
}

func TestDecrypt_WrongKeyFails(t *testing.T) {
	svc := NewCryptoService()

	blob, err := svc.Encrypt([]byte("secret"), bytes.Repeat([]byte{0x2A}, KeyLength))
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	if _, err := svc.Decrypt(blob, bytes.Repeat([]byte{0x2B}, KeyLength)); !errors.Is(err, ErrDecryptionFailed) {
		t.Fatalf("Decrypt(wrong key) error = %v, want ErrDecryptionFailed", err)
	}
}

func TestDecrypt_RejectsUnknownAlgorithmAndVersion(t *testing.T) {
	svc := NewCryptoService()

	key := bytes.Repeat([]byte{0x2A}, KeyLength)
	blob, err := svc.Encrypt([]byte("secret"), key)
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	badAlg := *blob
	badAlg.Algorithm = "aes-128-cbc"
	if _, err := svc.Decrypt(&badAlg, key); !errors.Is(err, models.ErrBlobAlgorithm) {
		t.Fatalf("Decrypt(bad algorithm) error = %v, want ErrBlobAlgorithm", err)
	}

	badVer := *blob
	badVer.Version = 99
	if _, err := svc.Decrypt(&badVer, key); !errors.Is(err, models.ErrBlobVersion) {
		t.Fatalf("Decrypt(bad version) error = %v, want ErrBlobVersion", err)
	}
}

func TestEncryptWithPassword_RoundTrip(t *testing.T) {
	svc := NewCryptoService()
	ctx := context.Background()

	plaintext := []byte("vault settings payload")
	blob, err := svc.EncryptWithPassword(ctx, plaintext, "pass-phrase")
	if err != nil {
		t.Fatalf("EncryptWithPassword error: %v", err)
	}
	if !blob.HasSalt() {
		t.Fatalf("expected an embedded salt in password-based blob")
	}

	got, err := svc.DecryptWithPassword(ctx, blob, "pass-phrase")
	if err != nil {
		t.Fatalf("DecryptWithPassword error: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("round-trip mismatch: got %q, want %q", got, plaintext)
	}
}

func TestDecryptWithPassword_WrongPasswordFails(t *testing.T) {
	svc := NewCryptoService()
	ctx := context.Background()

	blob, err := svc.EncryptWithPassword(ctx, []byte("secret"), "right password")
	if err != nil {
		t.Fatalf("EncryptWithPassword error: %v", err)
	}

	if _, err := svc.DecryptWithPassword(ctx, blob, "wrong password"); !errors.Is(err, ErrDecryptionFailed) {
		t.Fatalf("DecryptWithPassword(wrong password) error = %v, want ErrDecryptionFailed", err)
	}
}

func TestDecryptWithPassword_MissingSaltRejected(t *testing.T) {
	svc := NewCryptoService()

	key := bytes.Repeat([]byte{0x2A}, KeyLength)
	blob, err := svc.Encrypt([]byte("secret"), key)
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	if _, err := svc.DecryptWithPassword(context.Background(), blob, "pw"); !errors.Is(err, ErrSaltRequired) {
		t.Fatalf("DecryptWithPassword(no salt) error = %v, want ErrSaltRequired", err)
	}
}

func TestHash_DeterministicHexDigest(t *testing.T) {
	svc := NewCryptoService()

	h1 := svc.Hash([]byte("abc"))
	h2 := svc.Hash([]byte("abc"))

	// Known SHA-256 vector for "abc".
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if h1 != want {
		t.Fatalf("Hash(abc) = %q, want %q", h1, want)
	}
	if h1 != h2 {
		t.Fatalf("expected Hash to be deterministic")
	}
	if strings.ToLower(h1) != h1 {
		t.Fatalf("expected lowercase hex digest")
	}
}

func TestSecureCompare(t *testing.T) {
	svc := NewCryptoService()

	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{name: "equal strings", a: "deadbeef", b: "deadbeef", want: true},
		{name: "same length, different content", a: "deadbeef", b: "deadbeee", want: false},
		{name: "different lengths", a: "short", b: "much longer value", want: false},
		{name: "both empty", a: "", b: "", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.SecureCompare(tt.a, tt.b); got != tt.want {
				t.Fatalf("SecureCompare(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSecureWipe_ZeroesBuffer(t *testing.T) {
	svc := NewCryptoService()

	buf := []byte("sk-super-secret-key-material")
	svc.SecureWipe(buf)

	for i, b := range buf {
		if b != 0 {
			t.Fatalf("buf[%d] = %#x after wipe, want 0", i, b)
		}
	}

	// Wiping nil and empty buffers must not panic.
	svc.SecureWipe(nil)
	svc.SecureWipe([]byte{})
}
