package store

import (
	"context"

	"github.com/MKhiriev/go-canvas-vault/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// VaultStore persists the encrypted vault export between runs. Load reports
// found=false when no vault has been initialized yet; that is not an error.
type VaultStore interface {
	Save(ctx context.Context, export models.VaultExport) error
	Load(ctx context.Context) (models.VaultExport, bool, error)
}

// DocumentRepository persists secure documents. Get reports found=false for
// an unknown id; absence is not an error.
type DocumentRepository interface {
	Save(ctx context.Context, doc models.SecureDocument) error
	Get(ctx context.Context, id string) (models.SecureDocument, bool, error)
	List(ctx context.Context) ([]models.DocumentMetadata, error)
	Delete(ctx context.Context, id string) error
}

// RegistryRepository persists credential registry records.
type RegistryRepository interface {
	Save(ctx context.Context, record models.RegistryRecord) error
	Delete(ctx context.Context, id string) error
	LoadAll(ctx context.Context) ([]models.RegistryRecord, error)
}

// Repositories aggregates the SQL-backed repositories handed to services.
type Repositories struct {
	DocumentRepository DocumentRepository
	RegistryRepository RegistryRepository
}
