// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/MKhiriev/go-canvas-vault/models"
)

// fileVaultStore persists the vault export as a JSON file. Every secret in
// the export is already ciphertext, so the file needs confidentiality only
// against casual reads: it is written 0600 inside a 0700 directory.
//
// Writes go through a temp file in the same directory followed by a rename,
// so a crash mid-write never leaves a truncated vault behind.
type fileVaultStore struct {
	path string
	mu   sync.Mutex
}

// NewFileVaultStore constructs a [VaultStore] persisting to the given path.
func NewFileVaultStore(path string) VaultStore {
	return &fileVaultStore{path: path}
}

// Save implements [VaultStore].
func (s *fileVaultStore) Save(ctx context.Context, export models.VaultExport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create vault dir: %w", err)
		}
	}

	payload, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("encode vault export: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".vault-*.json")
	if err != nil {
		return fmt.Errorf("create vault temp file: %w", err)
	}

	if _, err = tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write vault temp file: %w", err)
	}
	if err = tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("chmod vault temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close vault temp file: %w", err)
	}

	if err = os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace vault file: %w", err)
	}

	return nil
}

// Load implements [VaultStore]. A missing file means the vault has not been
// initialized yet and is reported via found=false.
func (s *fileVaultStore) Load(ctx context.Context) (models.VaultExport, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.VaultExport{}, false, nil
		}
		return models.VaultExport{}, false, fmt.Errorf("read vault file: %w", err)
	}

	var export models.VaultExport
	if err = json.Unmarshal(data, &export); err != nil {
		return models.VaultExport{}, false, fmt.Errorf("decode vault file: %w", err)
	}

	return export, true, nil
}
