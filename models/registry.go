package models

import "time"

// Scope defines who may resolve a registered credential.
type Scope string

const (
	// ScopeGlobal makes the record visible to every persona and agent.
	ScopeGlobal Scope = "global"

	// ScopePersona restricts the record to the personas listed in
	// AllowedPersonas.
	ScopePersona Scope = "persona"

	// ScopeService restricts the record to the agents listed in
	// AllowedAgents.
	ScopeService Scope = "service"
)

// Valid reports whether s is one of the defined scopes.
func (s Scope) Valid() bool {
	switch s {
	case ScopeGlobal, ScopePersona, ScopeService:
		return true
	}
	return false
}

// RateLimit restricts how often a registry record may be resolved.
type RateLimit struct {
	// PerMinute is the sustained allowance of resolutions per minute.
	PerMinute int `json:"perMinute"`

	// Burst is the instantaneous allowance. Defaults to PerMinute when
	// zero.
	Burst int `json:"burst,omitempty"`
}

// RegistryRecord is a metadata pointer from an identity-scoped credential
// description to a vault entry. It never contains secret material; KeyID is
// only a reference, and a dangling reference (the vault entry was removed)
// is a normal condition resolved to omission, not an error.
type RegistryRecord struct {
	// ID is the unique identifier of the record.
	ID string `json:"id"`

	// Provider names the service this credential is for.
	Provider string `json:"provider"`

	// KeyID references a [CredentialEntry] in the vault.
	KeyID string `json:"keyId"`

	// Description explains what the credential is used for.
	Description string `json:"description,omitempty"`

	// Scope controls visibility: global, persona, or service.
	Scope Scope `json:"scope"`

	// AllowedAgents lists agent ids permitted to resolve the record when
	// Scope is service.
	AllowedAgents []string `json:"allowedAgents,omitempty"`

	// AllowedPersonas lists persona ids permitted to resolve the record
	// when Scope is persona.
	AllowedPersonas []string `json:"allowedPersonas,omitempty"`

	// RateLimit optionally caps resolution frequency.
	RateLimit *RateLimit `json:"rateLimit,omitempty"`

	// ExpiresAt optionally expires the record; expired records are
	// excluded from allow-listing.
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`

	// Tags are free-form labels for organization.
	Tags []string `json:"tags,omitempty"`
}

// Expired reports whether the record's expiry has passed relative to now.
func (r RegistryRecord) Expired(now time.Time) bool {
	return r.ExpiresAt != nil && r.ExpiresAt.Before(now)
}

// AllowsPersona reports whether the record is resolvable by the given
// persona: either globally scoped or persona-scoped with membership.
func (r RegistryRecord) AllowsPersona(personaID string) bool {
	if r.Scope == ScopeGlobal {
		return true
	}
	if r.Scope != ScopePersona {
		return false
	}
	for _, id := range r.AllowedPersonas {
		if id == personaID {
			return true
		}
	}
	return false
}

// AllowsAgent reports whether the record is resolvable by the given agent.
func (r RegistryRecord) AllowsAgent(agentID string) bool {
	if r.Scope == ScopeGlobal {
		return true
	}
	if r.Scope != ScopeService {
		return false
	}
	for _, id := range r.AllowedAgents {
		if id == agentID {
			return true
		}
	}
	return false
}
