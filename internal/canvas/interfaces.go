package canvas

import (
	"context"

	"github.com/MKhiriev/go-canvas-vault/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/canvas_service_mock.go -package=mock

// DocumentService интерфейс для управления защищёнными документами-холстами.
// Документ хранится в зашифрованном виде (кроме уровня open); операции над
// содержимым возможны только после разблокировки паролем или ключом.
//
// Схема работы:
//  1. CreateDocument создаёт документ: для защищённых уровней генерируется
//     соль, из пароля выводится ключ, состояние шифруется AES-256-GCM,
//     создатель получает полный набор прав.
//  2. GetDocument возвращает метаданные; для защищённого документа без
//     расшифрованного состояния выставляется флаг RequiresAuth.
//  3. UnlockDocument проверяет право read ДО криптографии, расшифровывает
//     содержимое, сверяет хеш и кэширует состояние вместе с ключом.
//  4. UpdateDocument применяет трансформацию к копии состояния и синхронно
//     перешифровывает результат тем же ключом.
//  5. LockDocument / LockAll вытесняют состояние из кэша и затирают ключи.
type DocumentService interface {
	// Load hydrates documents from the configured repository. Documents
	// load in stored (locked) form; nothing is decrypted.
	Load(ctx context.Context) error

	// CreateDocument creates a document at the requested security level.
	// Encrypted levels require a creator and a password; the state is
	// sealed under a fresh key and cached unlocked for the creator.
	CreateDocument(ctx context.Context, opts CreateDocumentOptions) (models.DocumentMetadata, error)

	// GetDocument returns the document view. Encrypted documents that are
	// not unlocked yield metadata only with RequiresAuth set; no
	// decryption is attempted.
	GetDocument(ctx context.Context, id string) (DocumentView, error)

	// UnlockDocument decrypts a document with a password or a raw key.
	// The participant must hold the read permission before any
	// cryptographic work happens. Returns [ErrAccessDenied],
	// [ErrIntegrityFailure] or the decryption error on failure.
	UnlockDocument(ctx context.Context, id string, participantID string, password string, key []byte) (DocumentView, error)

	// LockDocument evicts the document's plaintext and wipes its cached
	// key. Locking an already locked document is a no-op.
	LockDocument(ctx context.Context, id string) error

	// LockAll locks every unlocked document. Used on shutdown and when
	// the vault holding related credentials locks.
	LockAll(ctx context.Context)

	// UpdateDocument applies transform to a copy of the decrypted state
	// and synchronously re-encrypts the result. The participant needs the
	// write permission; encrypted documents must be unlocked first.
	UpdateDocument(ctx context.Context, id string, participantID string, transform func(*models.CanvasState) error) (models.DocumentMetadata, error)

	// AddNode appends a node to the canvas graph. An empty node id is
	// assigned; a duplicate id is a validation error.
	AddNode(ctx context.Context, id string, participantID string, node models.Node) (models.Node, error)

	// RemoveNode deletes a node and purges every edge referencing it.
	// Requires the delete permission. Removing an absent node is a no-op.
	RemoveNode(ctx context.Context, id string, participantID string, nodeID string) error

	// DeleteDocument removes a document permanently. Requires the delete
	// permission on encrypted documents.
	DeleteDocument(ctx context.Context, id string, participantID string) error

	// HasPermission reports whether the participant holds the permission
	// on the document. Open documents grant everything; absent or expired
	// entries deny; admin implies all.
	HasPermission(ctx context.Context, id string, participantID string, perm models.Permission) (bool, error)

	// GrantAccess adds or replaces an access entry. The caller must hold
	// the admin permission.
	GrantAccess(ctx context.Context, id string, callerID string, entry models.AccessEntry) error

	// RevokeAccess removes a participant's access entry. The caller must
	// hold admin; removing the last admin is refused with [ErrLastAdmin].
	RevokeAccess(ctx context.Context, id string, callerID string, participantID string) error

	// ExportDocument returns the document exactly as stored. Ciphertext
	// is never transformed on export.
	ExportDocument(ctx context.Context, id string) (models.SecureDocument, error)

	// ImportDocument stores an exported document under a fresh id. The
	// content is not validated until the first unlock.
	ImportDocument(ctx context.Context, doc models.SecureDocument) (models.DocumentMetadata, error)

	// ListDocuments returns metadata for every known document.
	ListDocuments(ctx context.Context) ([]models.DocumentMetadata, error)
}

// StateCodec сериализует состояние холста в байты перед шифрованием и
// обратно после расшифровки. Кодирование должно быть детерминированным,
// иначе хеш содержимого перестанет сходиться.
type StateCodec interface {
	Encode(state models.CanvasState) ([]byte, error)
	Decode(data []byte) (models.CanvasState, error)
}

// CreateDocumentOptions carries the inputs of [DocumentService.CreateDocument].
type CreateDocumentOptions struct {
	// Name is the display name. Required.
	Name string

	// SecurityLevel of the new document. Required.
	SecurityLevel models.SecurityLevel

	// CreatorID receives the full permission set on encrypted levels.
	// Required unless the level is open.
	CreatorID string

	// Password protects the per-document key on encrypted levels.
	// Required unless the level is open.
	Password string

	// State is the initial canvas state; nil means an empty canvas.
	State *models.CanvasState

	// Description and Tags are optional metadata.
	Description string
	Tags        []string
}

// DocumentView is what read operations return: metadata always, state only
// when the document is open or unlocked.
type DocumentView struct {
	Metadata models.DocumentMetadata `json:"metadata"`

	// State is the decrypted canvas state, nil while locked.
	State *models.CanvasState `json:"state,omitempty"`

	// RequiresAuth is set when the state is withheld pending unlock.
	RequiresAuth bool `json:"requiresAuth"`
}
