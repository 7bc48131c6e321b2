package canvas

import "errors"

var (
	// ErrDocumentNotFound is returned when a document id resolves to nothing.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrDocumentLocked is returned when an operation needs decrypted state
	// but the document has not been unlocked in this session.
	ErrDocumentLocked = errors.New("document is locked")

	// ErrAccessDenied is returned when the participant lacks the permission
	// an operation requires. Absent and expired grants deny alike.
	ErrAccessDenied = errors.New("access denied")

	// ErrIntegrityFailure is returned when decrypted content does not match
	// the stored content hash. The document stays locked.
	ErrIntegrityFailure = errors.New("content integrity check failed")

	// ErrLastAdmin is returned when revoking an access entry would leave an
	// encrypted document without any admin.
	ErrLastAdmin = errors.New("cannot revoke the last admin")
)
