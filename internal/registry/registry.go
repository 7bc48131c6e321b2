// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package registry

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/MKhiriev/go-canvas-vault/internal/events"
	"github.com/MKhiriev/go-canvas-vault/internal/logger"
	"github.com/MKhiriev/go-canvas-vault/internal/store"
	"github.com/MKhiriev/go-canvas-vault/internal/utils"
	"github.com/MKhiriev/go-canvas-vault/internal/vault"
	"github.com/MKhiriev/go-canvas-vault/models"
)

// registryService is the private implementation of [RegistryService].
// Records live in memory behind an RWMutex; the repository, when configured,
// is the durable copy. Per-record token buckets are created lazily on first
// resolve.
type registryService struct {
	vault vault.VaultService
	repo  store.RegistryRepository // nil means memory-only
	bus   *events.Bus
	ids   *utils.UUIDGenerator
	log   *logger.Logger

	mu       sync.RWMutex
	records  map[string]models.RegistryRecord
	order    []string
	limiters map[string]*rate.Limiter
	now      func() time.Time
}

// NewRegistryService constructs a [RegistryService] backed by vaultSvc for
// secret resolution. repo may be nil for memory-only operation.
func NewRegistryService(vaultSvc vault.VaultService, repo store.RegistryRepository, bus *events.Bus, log *logger.Logger) RegistryService {
	return &registryService{
		vault:    vaultSvc,
		repo:     repo,
		bus:      bus,
		ids:      utils.NewUUIDGenerator(),
		log:      log,
		records:  make(map[string]models.RegistryRecord),
		limiters: make(map[string]*rate.Limiter),
		now:      time.Now,
	}
}

// Load implements [RegistryService].
func (r *registryService) Load(ctx context.Context) error {
	if r.repo == nil {
		return nil
	}

	records, err := r.repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = make(map[string]models.RegistryRecord, len(records))
	r.order = make([]string, 0, len(records))
	for _, record := range records {
		r.records[record.ID] = record
		r.order = append(r.order, record.ID)
	}
	r.log.Info().Int("records", len(records)).Msg("registry loaded")
	return nil
}

// Register implements [RegistryService].
func (r *registryService) Register(ctx context.Context, record models.RegistryRecord) (models.RegistryRecord, error) {
	if strings.TrimSpace(record.Provider) == "" {
		return models.RegistryRecord{}, fmt.Errorf("%w: provider is required", models.ErrValidation)
	}
	if strings.TrimSpace(record.KeyID) == "" {
		return models.RegistryRecord{}, fmt.Errorf("%w: keyId is required", models.ErrValidation)
	}
	if record.Scope == "" {
		record.Scope = models.ScopeGlobal
	}
	if !record.Scope.Valid() {
		return models.RegistryRecord{}, fmt.Errorf("%w: unknown scope %q", models.ErrValidation, record.Scope)
	}
	if record.ID == "" {
		record.ID = r.ids.Generate()
	}

	r.mu.Lock()
	if _, exists := r.records[record.ID]; exists {
		r.mu.Unlock()
		return models.RegistryRecord{}, ErrDuplicateRecord
	}
	if r.repo != nil {
		if err := r.repo.Save(ctx, record); err != nil {
			r.mu.Unlock()
			return models.RegistryRecord{}, fmt.Errorf("persist registry record: %w", err)
		}
	}
	r.records[record.ID] = record
	r.order = append(r.order, record.ID)
	r.mu.Unlock()

	r.log.Info().Str("recordId", record.ID).Str("provider", record.Provider).Msg("registry record registered")
	r.publish(events.RecordRegistered{RecordID: record.ID})
	return record, nil
}

// Unregister implements [RegistryService].
func (r *registryService) Unregister(ctx context.Context, id string) error {
	r.mu.Lock()
	if _, exists := r.records[id]; !exists {
		r.mu.Unlock()
		return ErrRecordNotFound
	}
	if r.repo != nil {
		if err := r.repo.Delete(ctx, id); err != nil {
			r.mu.Unlock()
			return fmt.Errorf("delete registry record: %w", err)
		}
	}
	delete(r.records, id)
	delete(r.limiters, id)
	for i, got := range r.order {
		if got == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.mu.Unlock()

	r.log.Info().Str("recordId", id).Msg("registry record unregistered")
	r.publish(events.RecordUnregistered{RecordID: id})
	return nil
}

// Get implements [RegistryService].
func (r *registryService) Get(ctx context.Context, id string) (models.RegistryRecord, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	return record, ok, nil
}

// List implements [RegistryService].
func (r *registryService) List(ctx context.Context) ([]models.RegistryRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.RegistryRecord, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.records[id])
	}
	return out, nil
}

// FindAllowedForPersona implements [RegistryService].
func (r *registryService) FindAllowedForPersona(ctx context.Context, personaID string) ([]models.RegistryRecord, error) {
	if strings.TrimSpace(personaID) == "" {
		return nil, fmt.Errorf("%w: personaId is required", models.ErrValidation)
	}
	return r.filter(func(record models.RegistryRecord) bool {
		return record.AllowsPersona(personaID)
	}), nil
}

// FindAllowedForAgent implements [RegistryService].
func (r *registryService) FindAllowedForAgent(ctx context.Context, agentID string) ([]models.RegistryRecord, error) {
	if strings.TrimSpace(agentID) == "" {
		return nil, fmt.Errorf("%w: agentId is required", models.ErrValidation)
	}
	return r.filter(func(record models.RegistryRecord) bool {
		return record.AllowsAgent(agentID)
	}), nil
}

// ResolveKeysForPersona implements [RegistryService]. The first record of a
// provider wins; later records for the same provider are ignored.
func (r *registryService) ResolveKeysForPersona(ctx context.Context, personaID string) (map[string]string, error) {
	allowed, err := r.FindAllowedForPersona(ctx, personaID)
	if err != nil {
		return nil, err
	}

	keys := make(map[string]string)
	for _, record := range allowed {
		if _, taken := keys[record.Provider]; taken {
			continue
		}
		if !r.allow(record.ID) {
			r.log.Debug().Str("recordId", record.ID).Msg("resolve: rate limit exhausted, record omitted")
			continue
		}

		secret, found, err := r.vault.GetKey(ctx, record.KeyID)
		if err != nil {
			// A locked vault or an undecryptable entry silently omits the
			// record; resolution returns whatever else is available.
			r.log.Debug().Err(err).Str("recordId", record.ID).Msg("resolve: key unavailable, record omitted")
			continue
		}
		if !found {
			r.log.Debug().Str("recordId", record.ID).Str("keyId", record.KeyID).Msg("resolve: key missing, record omitted")
			continue
		}
		keys[record.Provider] = secret
	}
	return keys, nil
}

// filter returns the non-expired records matching keep, in registration order.
func (r *registryService) filter(keep func(models.RegistryRecord) bool) []models.RegistryRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.now()
	out := make([]models.RegistryRecord, 0)
	for _, id := range r.order {
		record := r.records[id]
		if record.Expired(now) {
			continue
		}
		if keep(record) {
			out = append(out, record)
		}
	}
	return out
}

// allow consumes one token from the record's bucket. Records without a rate
// limit always pass. The limiter is created on first use.
func (r *registryService) allow(recordID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[recordID]
	if !ok || record.RateLimit == nil || record.RateLimit.PerMinute <= 0 {
		return true
	}

	limiter, ok := r.limiters[recordID]
	if !ok {
		burst := record.RateLimit.Burst
		if burst < 1 {
			burst = record.RateLimit.PerMinute
		}
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(record.RateLimit.PerMinute)), burst)
		r.limiters[recordID] = limiter
	}
	return limiter.Allow()
}

func (r *registryService) publish(evts ...events.Event) {
	if r.bus == nil {
		return
	}
	for _, e := range evts {
		r.bus.Publish(e)
	}
}
