package analysis

import (
	"context"

	"briefhq/intake-api/internal/domain/catalog"
)

// Repository persists analysis snapshots.
type Repository interface {
	// Upsert writes the snapshot for its key, replacing any existing record.
	// The caller is authoritative: an older generated_at still overwrites.
	Upsert(ctx context.Context, snap *Snapshot) error

	// ListByOwnerScope returns raw snapshot records for an owner+scope,
	// optionally narrowed to one phase. Legacy data may hold several records
	// per key; deduplication happens in the service.
	ListByOwnerScope(ctx context.Context, ownerID, scopeID string, phase *catalog.Phase) ([]Snapshot, error)

	// DeleteByOwnerScope removes all snapshots for an owner+scope.
	DeleteByOwnerScope(ctx context.Context, ownerID, scopeID string) (int64, error)
}
