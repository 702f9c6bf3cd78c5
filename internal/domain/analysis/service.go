package analysis

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"briefhq/intake-api/internal/domain/catalog"
	"briefhq/intake-api/internal/utils/platformerrors"
)

// Service exposes snapshot storage to handlers and the progress merge.
type Service interface {
	Upsert(ctx context.Context, params UpsertParams) (*Snapshot, error)
	ListByScope(ctx context.Context, ownerID, scopeID string, phase *catalog.Phase) (map[catalog.Phase][]Snapshot, error)
	PurgeScope(ctx context.Context, ownerID, scopeID string) (int64, error)
}

// UpsertParams carries one snapshot write.
type UpsertParams struct {
	OwnerID     string
	ScopeID     string
	Phase       catalog.Phase
	Type        string
	Name        string
	Result      json.RawMessage
	GeneratedAt time.Time
}

// DefaultService implements Service on top of a Repository.
type DefaultService struct {
	repo Repository
}

// NewService builds the snapshot service.
func NewService(repo Repository) *DefaultService {
	return &DefaultService{repo: repo}
}

// Upsert validates and writes one snapshot, replacing the slot for its key.
func (s *DefaultService) Upsert(ctx context.Context, params UpsertParams) (*Snapshot, error) {
	if params.OwnerID == "" || params.ScopeID == "" {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"owner and scope are required",
			nil,
			"analysis-upsert-missing-scope",
		)
	}
	if !params.Phase.Valid() {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"unknown phase: "+params.Phase.String(),
			nil,
			"analysis-upsert-bad-phase",
		)
	}
	if params.Type == "" {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"analysis type is required",
			nil,
			"analysis-upsert-missing-type",
		)
	}

	generatedAt := params.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now().UTC()
	}

	snap := &Snapshot{
		OwnerID:     params.OwnerID,
		ScopeID:     params.ScopeID,
		Phase:       params.Phase,
		Type:        params.Type,
		Name:        params.Name,
		Result:      params.Result,
		GeneratedAt: generatedAt,
	}
	if err := s.repo.Upsert(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// ListByScope returns snapshots grouped by phase. When legacy data holds
// several raw records for one key, only the record with the latest
// generated_at survives.
func (s *DefaultService) ListByScope(ctx context.Context, ownerID, scopeID string, phase *catalog.Phase) (map[catalog.Phase][]Snapshot, error) {
	raw, err := s.repo.ListByOwnerScope(ctx, ownerID, scopeID, phase)
	if err != nil {
		return nil, err
	}

	latest := make(map[Key]Snapshot, len(raw))
	for _, snap := range raw {
		key := snap.Key()
		if existing, ok := latest[key]; !ok || snap.GeneratedAt.After(existing.GeneratedAt) {
			latest[key] = snap
		}
	}

	grouped := make(map[catalog.Phase][]Snapshot)
	for _, snap := range latest {
		grouped[snap.Phase] = append(grouped[snap.Phase], snap)
	}
	for _, snaps := range grouped {
		sortSnapshots(snaps)
	}
	return grouped, nil
}

// PurgeScope removes every snapshot for an owner+scope.
func (s *DefaultService) PurgeScope(ctx context.Context, ownerID, scopeID string) (int64, error) {
	return s.repo.DeleteByOwnerScope(ctx, ownerID, scopeID)
}

// sortSnapshots orders snapshots by type for stable responses.
func sortSnapshots(snaps []Snapshot) {
	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].Type < snaps[j].Type
	})
}
