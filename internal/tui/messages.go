package tui

import (
	"time"

	"github.com/MKhiriev/go-canvas-vault/models"
)

type authDoneMsg struct {
	err error
}

type keysLoadedMsg struct {
	entries []models.CredentialEntry
	err     error
}

type keySavedMsg struct {
	err error
}

type keyDeletedMsg struct {
	err error
}

type copiedMsg struct {
	err error

	// clearAfter carries the vault's ClipboardClearAfter setting so the
	// model can schedule the clipboard wipe.
	clearAfter time.Duration
}

type clearStatusMsg struct{}

// clearClipboardMsg fires when a copied secret has outstayed the configured
// clipboard lifetime.
type clearClipboardMsg struct{}
