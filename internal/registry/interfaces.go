package registry

import (
	"context"

	"github.com/MKhiriev/go-canvas-vault/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/registry_service_mock.go -package=mock

// RegistryService индексирует записи о ключах: какой провайдер, каким
// персонам и агентам доступен, с какими лимитами. Сервис хранит только
// метаданные — сами секреты живут в хранилище, и реестр обращается к нему
// лишь на этапе Resolve.
type RegistryService interface {
	// Load hydrates records from the repository, if one is configured.
	Load(ctx context.Context) error

	// Register stores a record. A missing id is assigned here; providing
	// an id that already exists fails with [ErrDuplicateRecord]. An empty
	// scope defaults to [models.ScopeGlobal].
	Register(ctx context.Context, record models.RegistryRecord) (models.RegistryRecord, error)

	// Unregister removes a record. Returns [ErrRecordNotFound] for an
	// unknown id.
	Unregister(ctx context.Context, id string) error

	// Get returns the record for id; found=false for an unknown id.
	Get(ctx context.Context, id string) (models.RegistryRecord, bool, error)

	// List returns every record, expired ones included, in registration
	// order.
	List(ctx context.Context) ([]models.RegistryRecord, error)

	// FindAllowedForPersona returns the non-expired records visible to the
	// persona: global-scope records plus persona-scoped records listing it.
	FindAllowedForPersona(ctx context.Context, personaID string) ([]models.RegistryRecord, error)

	// FindAllowedForAgent is the agent-side counterpart of
	// FindAllowedForPersona.
	FindAllowedForAgent(ctx context.Context, agentID string) ([]models.RegistryRecord, error)

	// ResolveKeysForPersona maps provider → secret for every record the
	// persona may use. Records whose key is missing, whose vault is locked
	// or whose rate limit is exhausted are omitted silently; resolution
	// never fails because of an individual record.
	ResolveKeysForPersona(ctx context.Context, personaID string) (map[string]string, error)
}
