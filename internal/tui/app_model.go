package tui

import (
	"context"
	"strings"
	"time"

	"github.com/MKhiriev/go-canvas-vault/internal/vault"
	"github.com/MKhiriev/go-canvas-vault/models"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type stage int

const (
	stageAuth stage = iota
	stageList
	stageDetail
	stageAdd
)

// addFieldCount covers provider, name, secret, the default checkbox and the
// save button of the add-key form.
const addFieldCount = 5

// appModel is the single Bubble Tea model of the admin client. The stage
// field selects the active screen; every screen shares the same model so
// the key list survives excursions into detail and add views.
type appModel struct {
	ctx     context.Context
	vault   vault.VaultService
	version string

	// autoLockAfter seeds the vault settings on first-run initialize.
	autoLockAfter time.Duration

	stage stage

	// initMode is true when no vault file exists yet: the auth screen
	// then creates one instead of unlocking.
	initMode   bool
	authInputs []textinput.Model
	authFocus  int
	submitting bool
	errMsg     string

	entries []models.CredentialEntry
	idx     int
	loading bool
	status  string

	addInputs  []textinput.Model
	addFocus   int
	addDefault bool
	saving     bool
	addErr     string

	confirmDelete bool
	quitByUser    bool
}

func newAppModel(ctx context.Context, vaultService vault.VaultService, version string, autoLockAfter time.Duration) appModel {
	passwordInput := textinput.New()
	passwordInput.Placeholder = "master password"
	passwordInput.CharLimit = 256
	passwordInput.Width = 40
	passwordInput.EchoMode = textinput.EchoPassword
	passwordInput.EchoCharacter = '*'
	passwordInput.Focus()

	confirmInput := textinput.New()
	confirmInput.Placeholder = "repeat password"
	confirmInput.CharLimit = 256
	confirmInput.Width = 40
	confirmInput.EchoMode = textinput.EchoPassword
	confirmInput.EchoCharacter = '*'

	return appModel{
		ctx:           ctx,
		vault:         vaultService,
		version:       version,
		autoLockAfter: autoLockAfter,
		stage:         stageAuth,
		initMode:      vaultService.Status() == vault.StatusUninitialized,
		authInputs:    []textinput.Model{passwordInput, confirmInput},
	}
}

func (m appModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+c" {
		m.quitByUser = true
		return m, tea.Quit
	}

	if _, ok := msg.(clearStatusMsg); ok {
		m.status = ""
		return m, nil
	}

	if _, ok := msg.(clearClipboardMsg); ok {
		return m, func() tea.Msg {
			// best effort: the operator may have copied something else
			// already, overwriting is still safer than keeping a secret
			_ = clipboard.WriteAll("")
			return nil
		}
	}

	switch m.stage {
	case stageAuth:
		return m.updateAuth(msg)
	case stageList:
		return m.updateList(msg)
	case stageDetail:
		return m.updateDetail(msg)
	case stageAdd:
		return m.updateAdd(msg)
	}
	return m, nil
}

func (m appModel) View() string {
	switch m.stage {
	case stageAuth:
		return m.viewAuth()
	case stageList:
		return m.viewList()
	case stageDetail:
		return m.viewDetail()
	case stageAdd:
		return m.viewAdd()
	}
	return ""
}

func (m appModel) current() (models.CredentialEntry, bool) {
	if len(m.entries) == 0 || m.idx < 0 || m.idx >= len(m.entries) {
		return models.CredentialEntry{}, false
	}
	return m.entries[m.idx], true
}

// ─── auth (unlock / first-run initialize) ───

func (m appModel) updateAuth(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(authDoneMsg); ok {
		m.submitting = false
		if result.err != nil {
			m.errMsg = humanizeVaultError(result.err)
			return m, nil
		}
		m.errMsg = ""
		m.stage = stageList
		m.loading = true
		return m, m.cmdLoadKeys()
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "tab", "shift+tab":
			if m.initMode {
				m.authInputs[m.authFocus].Blur()
				m.authFocus = (m.authFocus + 1) % 2
				m.authInputs[m.authFocus].Focus()
			}
			return m, nil
		case "enter":
			if m.submitting {
				return m, nil
			}

			password := m.authInputs[0].Value()
			if password == "" {
				m.errMsg = "Пароль обязателен"
				return m, nil
			}
			if m.initMode && password != m.authInputs[1].Value() {
				m.errMsg = "Пароли не совпадают"
				return m, nil
			}

			m.errMsg = ""
			m.submitting = true
			if m.initMode {
				return m, m.cmdInitialize(password)
			}
			return m, m.cmdUnlock(password)
		}
	}

	var cmd tea.Cmd
	m.authInputs[m.authFocus], cmd = m.authInputs[m.authFocus].Update(msg)
	return m, cmd
}

// ─── key list ───

func (m appModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case keysLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = humanizeVaultError(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.entries = msg.entries
		if m.idx >= len(m.entries) {
			m.idx = len(m.entries) - 1
		}
		if m.idx < 0 {
			m.idx = 0
		}
		return m, nil

	case keyDeletedMsg:
		m.confirmDelete = false
		if msg.err != nil {
			m.errMsg = humanizeVaultError(msg.err)
			return m, nil
		}
		m.status = "Ключ удалён"
		m.loading = true
		return m, tea.Batch(m.cmdLoadKeys(), clearStatusAfter())
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.confirmDelete {
		switch {
		case key.Matches(keyMsg, keys.yes):
			entry, ok := m.current()
			if !ok {
				m.confirmDelete = false
				return m, nil
			}
			return m, m.cmdRemoveKey(entry.ID)
		case key.Matches(keyMsg, keys.no), key.Matches(keyMsg, keys.esc):
			m.confirmDelete = false
		}
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.quit):
		return m, tea.Quit
	case key.Matches(keyMsg, keys.up):
		if m.idx > 0 {
			m.idx--
		}
	case key.Matches(keyMsg, keys.down):
		if m.idx < len(m.entries)-1 {
			m.idx++
		}
	case key.Matches(keyMsg, keys.enter):
		if _, ok := m.current(); ok {
			m.stage = stageDetail
		}
	case key.Matches(keyMsg, keys.newItem):
		m.resetAddForm()
		m.stage = stageAdd
		return m, textinput.Blink
	case key.Matches(keyMsg, keys.delete):
		if _, ok := m.current(); ok {
			m.confirmDelete = true
		}
	}
	return m, nil
}

// ─── detail ───

func (m appModel) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(copiedMsg); ok {
		if result.err != nil {
			m.errMsg = humanizeVaultError(result.err)
			return m, nil
		}
		m.errMsg = ""
		m.status = "Секрет скопирован в буфер обмена"
		cmds := []tea.Cmd{clearStatusAfter()}
		if result.clearAfter > 0 {
			cmds = append(cmds, tea.Tick(result.clearAfter, func(time.Time) tea.Msg {
				return clearClipboardMsg{}
			}))
		}
		return m, tea.Batch(cmds...)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.esc):
		m.stage = stageList
		m.status = ""
		m.errMsg = ""
		m.loading = true
		// reload: the access above bumped lastUsedAt
		return m, m.cmdLoadKeys()
	case key.Matches(keyMsg, keys.quit):
		return m, tea.Quit
	case key.Matches(keyMsg, keys.copy):
		entry, ok := m.current()
		if !ok {
			return m, nil
		}
		return m, m.cmdCopySecret(entry.ID)
	}
	return m, nil
}

// ─── add key ───

func (m appModel) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(keySavedMsg); ok {
		m.saving = false
		if result.err != nil {
			m.addErr = humanizeVaultError(result.err)
			return m, nil
		}
		m.stage = stageList
		m.status = "Ключ сохранён"
		m.loading = true
		return m, tea.Batch(m.cmdLoadKeys(), clearStatusAfter())
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			m.stage = stageList
			return m, nil
		case "tab":
			m.focusAddField((m.addFocus + 1) % addFieldCount)
			return m, nil
		case "shift+tab":
			m.focusAddField((m.addFocus - 1 + addFieldCount) % addFieldCount)
			return m, nil
		case " ":
			if m.addFocus == 3 {
				m.addDefault = !m.addDefault
				return m, nil
			}
		case "enter":
			switch m.addFocus {
			case 3:
				m.addDefault = !m.addDefault
				return m, nil
			case 4:
				if m.saving {
					return m, nil
				}

				provider := strings.TrimSpace(m.addInputs[0].Value())
				secret := m.addInputs[2].Value()
				if provider == "" || secret == "" {
					m.addErr = "Провайдер и секрет обязательны"
					return m, nil
				}

				m.addErr = ""
				m.saving = true
				return m, m.cmdAddKey(provider, secret, models.AddKeyOptions{
					Name:      strings.TrimSpace(m.addInputs[1].Value()),
					IsDefault: m.addDefault,
				})
			default:
				m.focusAddField(m.addFocus + 1)
				return m, nil
			}
		}
	}

	if m.addFocus < len(m.addInputs) {
		var cmd tea.Cmd
		m.addInputs[m.addFocus], cmd = m.addInputs[m.addFocus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *appModel) resetAddForm() {
	providerInput := textinput.New()
	providerInput.Placeholder = "openai"
	providerInput.CharLimit = 64
	providerInput.Width = 40
	providerInput.Focus()

	nameInput := textinput.New()
	nameInput.Placeholder = "production key"
	nameInput.CharLimit = 64
	nameInput.Width = 40

	secretInput := textinput.New()
	secretInput.Placeholder = "sk-..."
	secretInput.CharLimit = 512
	secretInput.Width = 40
	secretInput.EchoMode = textinput.EchoPassword
	secretInput.EchoCharacter = '*'

	m.addInputs = []textinput.Model{providerInput, nameInput, secretInput}
	m.addFocus = 0
	m.addDefault = false
	m.addErr = ""
	m.saving = false
}

func (m *appModel) focusAddField(idx int) {
	if m.addFocus < len(m.addInputs) {
		m.addInputs[m.addFocus].Blur()
	}
	m.addFocus = idx
	if m.addFocus < len(m.addInputs) {
		m.addInputs[m.addFocus].Focus()
	}
}

// ─── commands ───

func (m appModel) cmdInitialize(password string) tea.Cmd {
	ctx := m.ctx
	vaultService := m.vault
	settings := models.VaultSettings{AutoLockAfter: models.Duration(m.autoLockAfter)}

	return func() tea.Msg {
		return authDoneMsg{err: vaultService.Initialize(ctx, password, settings)}
	}
}

func (m appModel) cmdUnlock(password string) tea.Cmd {
	ctx := m.ctx
	vaultService := m.vault

	return func() tea.Msg {
		return authDoneMsg{err: vaultService.Unlock(ctx, password)}
	}
}

func (m appModel) cmdLoadKeys() tea.Cmd {
	ctx := m.ctx
	vaultService := m.vault

	return func() tea.Msg {
		entries, err := vaultService.ListKeys(ctx)
		return keysLoadedMsg{entries: entries, err: err}
	}
}

func (m appModel) cmdAddKey(provider, secret string, opts models.AddKeyOptions) tea.Cmd {
	ctx := m.ctx
	vaultService := m.vault

	return func() tea.Msg {
		_, err := vaultService.AddKey(ctx, provider, secret, opts)
		return keySavedMsg{err: err}
	}
}

func (m appModel) cmdRemoveKey(id string) tea.Cmd {
	ctx := m.ctx
	vaultService := m.vault

	return func() tea.Msg {
		return keyDeletedMsg{err: vaultService.RemoveKey(ctx, id)}
	}
}

func (m appModel) cmdCopySecret(id string) tea.Cmd {
	ctx := m.ctx
	vaultService := m.vault

	return func() tea.Msg {
		secret, found, err := vaultService.GetKey(ctx, id)
		if err != nil {
			return copiedMsg{err: err}
		}
		if !found {
			return copiedMsg{err: vault.ErrKeyNotFound}
		}
		if err := clipboard.WriteAll(secret); err != nil {
			return copiedMsg{err: err}
		}

		settings, err := vaultService.Settings(ctx)
		if err != nil {
			// copied fine; no lifetime known, keep the clipboard as is
			return copiedMsg{}
		}
		return copiedMsg{clearAfter: settings.ClipboardClearAfter.Std()}
	}
}

func clearStatusAfter() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
