// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"

	"github.com/MKhiriev/go-canvas-vault/internal/vault"
)

// humanizeVaultError maps the vault sentinels to operator-facing messages;
// anything unexpected surfaces verbatim.
func humanizeVaultError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, vault.ErrInvalidPassword):
		return "Неверный мастер-пароль"
	case errors.Is(err, vault.ErrVaultLocked):
		return "Хранилище заблокировано — разблокируйте и повторите"
	case errors.Is(err, vault.ErrKeyNotFound):
		return "Ключ не найден"
	case errors.Is(err, vault.ErrAlreadyInitialized):
		return "Хранилище уже инициализировано"
	}

	return err.Error()
}
