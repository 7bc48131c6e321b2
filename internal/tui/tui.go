package tui

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-canvas-vault/internal/config"
	"github.com/MKhiriev/go-canvas-vault/internal/logger"
	"github.com/MKhiriev/go-canvas-vault/internal/vault"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUserQuit = errors.New("вышел из программы")

// TUI is the local administration client. It works directly against a vault
// file: unlock (or first-run initialize), list credentials, inspect one and
// copy its secret, add and remove keys. Whatever happens in the session, the
// vault is locked again before Run returns.
type TUI struct {
	vault    vault.VaultService
	version  string
	vaultCfg config.ClientVault
}

func New(vaultService vault.VaultService, cfg *config.ClientConfig, _ *logger.Logger) (*TUI, error) {
	return &TUI{
		vault:    vaultService,
		version:  cfg.App.Version,
		vaultCfg: cfg.Vault,
	}, nil
}

// Run drives the whole admin session and blocks until the operator quits.
func (t *TUI) Run(ctx context.Context) error {
	model := newAppModel(ctx, t.vault, t.version, t.vaultCfg.AutoLockAfter)
	finalModel, runErr := tea.NewProgram(model, tea.WithAltScreen()).Run()

	// lock regardless of how the program ended: plaintext must not
	// survive the session
	lockErr := t.vault.Lock(ctx)

	if runErr != nil {
		return runErr
	}
	if lockErr != nil {
		return lockErr
	}

	result, ok := finalModel.(appModel)
	if !ok {
		return tea.ErrProgramKilled
	}
	if result.quitByUser {
		return ErrUserQuit
	}
	return nil
}
