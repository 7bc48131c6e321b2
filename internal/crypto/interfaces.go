package crypto

import (
	"context"

	"github.com/MKhiriev/go-canvas-vault/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/crypto_service_mock.go -package=mock

// CryptoService отвечает за всю криптографию хранилища: вывод ключей из
// мастер-пароля, шифрование AES-256-GCM и служебные операции над секретами.
// Он не знает ничего о состоянии хранилища, документах или сети.
//
// Схема работы:
//
//	Salt      = GenerateSalt()                    (Шаг 1)
//	Key       = DeriveKey(password, salt)         (Шаг 2)
//	Blob      = Encrypt(plaintext, key)           (Шаг 3)
//	Plaintext = Decrypt(blob, key)                (Шаг 4)
type CryptoService interface {
	// GenerateSalt генерирует случайную соль (32 байта / 256 бит).
	// Соль не является секретом — она хранится рядом с шифротекстом открыто.
	// Нужна для того, чтобы одинаковые пароли давали разные ключи.
	// Шаг 1.
	GenerateSalt() ([]byte, error)

	// GenerateKey генерирует случайный ключ шифрования (32 байта / 256 бит).
	// Используется как мастер-ключ хранилища и как ключ отдельного документа.
	GenerateKey() ([]byte, error)

	// DeriveKey выводит 256-битный ключ из пароля и соли через scrypt.
	// Вызов дорогой по памяти и CPU, поэтому принимает контекст: при отмене
	// возвращается ctx.Err(), а частично вычисленный ключ затирается.
	// Шаг 2.
	DeriveKey(ctx context.Context, password string, salt []byte) ([]byte, error)

	// Encrypt шифрует plaintext ключом key через AES-256-GCM со свежим
	// случайным IV. Возвращает [models.EncryptedBlob], где шифротекст,
	// IV и тег аутентификации закодированы в base64 по отдельности.
	// Шаг 3.
	Encrypt(plaintext, key []byte) (*models.EncryptedBlob, error)

	// Decrypt расшифровывает blob ключом key. Сначала проверяется алгоритм
	// и версия блоба, затем тег аутентификации; открытый текст не
	// возвращается, пока тег не сошёлся. При несовпадении тега возвращается
	// [ErrDecryptionFailed].
	// Шаг 4.
	Decrypt(blob *models.EncryptedBlob, key []byte) ([]byte, error)

	// EncryptWithPassword derives a one-off key from password with a fresh
	// salt and encrypts plaintext with it. The salt is embedded in the
	// returned blob so the ciphertext is self-contained.
	EncryptWithPassword(ctx context.Context, plaintext []byte, password string) (*models.EncryptedBlob, error)

	// DecryptWithPassword extracts the salt from blob, re-derives the key
	// from password and decrypts. Returns [ErrSaltRequired] if the blob
	// carries no salt, [ErrDecryptionFailed] on a wrong password.
	DecryptWithPassword(ctx context.Context, blob *models.EncryptedBlob, password string) ([]byte, error)

	// Hash returns the hex-encoded SHA-256 digest of data. Used for
	// integrity fingerprints of document contents, never for passwords.
	Hash(data []byte) string

	// SecureCompare reports whether a and b are equal in constant time.
	// On a length mismatch it still performs a dummy comparison so the
	// timing does not reveal where the strings diverge.
	SecureCompare(a, b string) bool

	// SecureWipe overwrites buf in place: zeros, random bytes, zeros again.
	// Best effort only. Callers must not reuse buf afterwards.
	SecureWipe(buf []byte)
}
