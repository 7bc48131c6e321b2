// Package events implements the typed notification bus shared by the vault,
// the registry and the document manager. Producers publish concrete event
// values; consumers subscribe to the whole stream or, via [On], to a single
// event type. Delivery is synchronous and a misbehaving handler can never
// take down a publisher.
package events

// Event объединяет все уведомления, публикуемые в [Bus]. Неэкспортируемый
// метод закрывает множество реализаций внутри этого пакета: добавить новый
// вид события можно только здесь.
type Event interface {
	// Name возвращает стабильное имя события для логов и вебхуков.
	Name() string

	isEvent()
}

// VaultLocked is published whenever the vault transitions to the locked
// state. Reason is one of "manual", "idle" or "shutdown".
type VaultLocked struct {
	Reason string `json:"reason"`
}

// VaultUnlocked is published after a successful unlock or initialize.
type VaultUnlocked struct{}

// KeyAdded is published when a credential is stored in the vault.
type KeyAdded struct {
	KeyID    string `json:"keyId"`
	Provider string `json:"provider"`
}

// KeyRemoved is published when a credential is deleted from the vault.
type KeyRemoved struct {
	KeyID string `json:"keyId"`
}

// KeyAccessed is published when a credential's secret is read.
type KeyAccessed struct {
	KeyID    string `json:"keyId"`
	Provider string `json:"provider"`
}

// KeyRotated is published when a credential's secret material is replaced.
type KeyRotated struct {
	KeyID string `json:"keyId"`
}

// SettingsChanged is published when vault settings are updated.
type SettingsChanged struct{}

// RecordRegistered is published when a registry record is created.
type RecordRegistered struct {
	RecordID string `json:"recordId"`
}

// RecordUnregistered is published when a registry record is removed.
type RecordUnregistered struct {
	RecordID string `json:"recordId"`
}

// DocumentCreated is published when a document is created.
type DocumentCreated struct {
	DocumentID string `json:"documentId"`
}

// DocumentUnlocked is published when a document's content is decrypted into
// the cache.
type DocumentUnlocked struct {
	DocumentID    string `json:"documentId"`
	ParticipantID string `json:"participantId"`
}

// DocumentLocked is published when a document's plaintext is evicted.
type DocumentLocked struct {
	DocumentID string `json:"documentId"`
}

// AccessChanged is published when a document's access list is modified.
type AccessChanged struct {
	DocumentID    string `json:"documentId"`
	ParticipantID string `json:"participantId"`
}

func (VaultLocked) Name() string        { return "locked" }
func (VaultUnlocked) Name() string      { return "unlocked" }
func (KeyAdded) Name() string           { return "key:added" }
func (KeyRemoved) Name() string         { return "key:removed" }
func (KeyAccessed) Name() string        { return "key:accessed" }
func (KeyRotated) Name() string         { return "key:rotated" }
func (SettingsChanged) Name() string    { return "settings:changed" }
func (RecordRegistered) Name() string   { return "record:registered" }
func (RecordUnregistered) Name() string { return "record:unregistered" }
func (DocumentCreated) Name() string    { return "document:created" }
func (DocumentUnlocked) Name() string   { return "document:unlocked" }
func (DocumentLocked) Name() string     { return "document:locked" }
func (AccessChanged) Name() string      { return "access:changed" }

func (VaultLocked) isEvent()        {}
func (VaultUnlocked) isEvent()      {}
func (KeyAdded) isEvent()           {}
func (KeyRemoved) isEvent()         {}
func (KeyAccessed) isEvent()        {}
func (KeyRotated) isEvent()         {}
func (SettingsChanged) isEvent()    {}
func (RecordRegistered) isEvent()   {}
func (RecordUnregistered) isEvent() {}
func (DocumentCreated) isEvent()    {}
func (DocumentUnlocked) isEvent()   {}
func (DocumentLocked) isEvent()     {}
func (AccessChanged) isEvent()      {}
