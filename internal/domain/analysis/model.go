// Package analysis stores phase-level analysis snapshots. The service only
// stores, retrieves, and deduplicates snapshots; it never computes analysis
// content.
package analysis

import (
	"encoding/json"
	"time"

	"briefhq/intake-api/internal/domain/catalog"
)

// Snapshot is one phase-level analysis result. At most one live snapshot
// exists per (owner, scope, phase, type) key; writes are upserts.
type Snapshot struct {
	ID          uint
	OwnerID     string
	ScopeID     string
	Phase       catalog.Phase
	Type        string
	Name        string
	Result      json.RawMessage
	GeneratedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Key identifies a snapshot slot.
type Key struct {
	OwnerID string
	ScopeID string
	Phase   catalog.Phase
	Type    string
}

// Key returns the snapshot's dedup key.
func (s *Snapshot) Key() Key {
	return Key{OwnerID: s.OwnerID, ScopeID: s.ScopeID, Phase: s.Phase, Type: s.Type}
}
