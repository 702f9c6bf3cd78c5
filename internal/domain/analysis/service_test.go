package analysis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"briefhq/intake-api/internal/domain/catalog"
	"briefhq/intake-api/internal/utils/platformerrors"
)

// memRepo is an in-memory Repository that stores raw rows without upsert
// semantics, so the service's latest-wins dedupe is observable.
type memRepo struct {
	rows   []Snapshot
	nextID uint
}

func (m *memRepo) Upsert(_ context.Context, snap *Snapshot) error {
	for i, row := range m.rows {
		if row.Key() == snap.Key() {
			snap.ID = row.ID
			m.rows[i] = *snap
			return nil
		}
	}
	m.nextID++
	snap.ID = m.nextID
	m.rows = append(m.rows, *snap)
	return nil
}

func (m *memRepo) ListByOwnerScope(_ context.Context, ownerID, scopeID string, phase *catalog.Phase) ([]Snapshot, error) {
	var out []Snapshot
	for _, row := range m.rows {
		if row.OwnerID != ownerID || row.ScopeID != scopeID {
			continue
		}
		if phase != nil && row.Phase != *phase {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (m *memRepo) DeleteByOwnerScope(_ context.Context, ownerID, scopeID string) (int64, error) {
	var kept []Snapshot
	var removed int64
	for _, row := range m.rows {
		if row.OwnerID == ownerID && row.ScopeID == scopeID {
			removed++
			continue
		}
		kept = append(kept, row)
	}
	m.rows = kept
	return removed, nil
}

func TestUpsert_ReplacesSlot(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	first, err := svc.Upsert(ctx, UpsertParams{
		OwnerID: "owner-1",
		ScopeID: "biz-1",
		Phase:   catalog.PhaseInitial,
		Type:    "summary",
		Name:    "Initial summary",
		Result:  json.RawMessage(`{"score":1}`),
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if first.GeneratedAt.IsZero() {
		t.Error("GeneratedAt should default to now")
	}

	_, err = svc.Upsert(ctx, UpsertParams{
		OwnerID: "owner-1",
		ScopeID: "biz-1",
		Phase:   catalog.PhaseInitial,
		Type:    "summary",
		Result:  json.RawMessage(`{"score":2}`),
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	if len(repo.rows) != 1 {
		t.Fatalf("rows = %d, want 1 (same key replaces, never duplicates)", len(repo.rows))
	}
	if string(repo.rows[0].Result) != `{"score":2}` {
		t.Errorf("surviving result = %s, want the replacement", repo.rows[0].Result)
	}
}

func TestUpsert_Validation(t *testing.T) {
	svc := NewService(&memRepo{})
	ctx := context.Background()

	cases := []struct {
		name   string
		params UpsertParams
	}{
		{"missing scope", UpsertParams{Phase: catalog.PhaseInitial, Type: "summary"}},
		{"bad phase", UpsertParams{OwnerID: "o", ScopeID: "s", Phase: "mystery", Type: "summary"}},
		{"missing type", UpsertParams{OwnerID: "o", ScopeID: "s", Phase: catalog.PhaseInitial}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Upsert(ctx, tc.params)
			if err == nil || !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
				t.Errorf("Upsert() error = %v, want validation error", err)
			}
		})
	}
}

func TestListByScope_DedupesAndGroups(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := &memRepo{rows: []Snapshot{
		// Two legacy rows for the same key; only the newer one survives.
		{ID: 1, OwnerID: "owner-1", ScopeID: "biz-1", Phase: catalog.PhaseInitial, Type: "summary", GeneratedAt: base},
		{ID: 2, OwnerID: "owner-1", ScopeID: "biz-1", Phase: catalog.PhaseInitial, Type: "summary", GeneratedAt: base.Add(time.Hour)},
		{ID: 3, OwnerID: "owner-1", ScopeID: "biz-1", Phase: catalog.PhaseInitial, Type: "gaps", GeneratedAt: base},
		{ID: 4, OwnerID: "owner-1", ScopeID: "biz-1", Phase: catalog.PhaseEssential, Type: "summary", GeneratedAt: base},
		{ID: 5, OwnerID: "other", ScopeID: "biz-1", Phase: catalog.PhaseInitial, Type: "summary", GeneratedAt: base},
	}}
	svc := NewService(repo)

	grouped, err := svc.ListByScope(context.Background(), "owner-1", "biz-1", nil)
	if err != nil {
		t.Fatalf("ListByScope() error = %v", err)
	}

	initial := grouped[catalog.PhaseInitial]
	if len(initial) != 2 {
		t.Fatalf("initial snapshots = %d, want 2 (one per type)", len(initial))
	}
	// Sorted by type: gaps before summary.
	if initial[0].Type != "gaps" || initial[1].Type != "summary" {
		t.Errorf("type order = %s,%s, want gaps,summary", initial[0].Type, initial[1].Type)
	}
	if initial[1].ID != 2 {
		t.Errorf("surviving summary ID = %d, want 2 (latest generated_at wins)", initial[1].ID)
	}
	if len(grouped[catalog.PhaseEssential]) != 1 {
		t.Errorf("essential snapshots = %d, want 1", len(grouped[catalog.PhaseEssential]))
	}
}

func TestListByScope_PhaseFilter(t *testing.T) {
	repo := &memRepo{rows: []Snapshot{
		{ID: 1, OwnerID: "owner-1", ScopeID: "biz-1", Phase: catalog.PhaseInitial, Type: "summary"},
		{ID: 2, OwnerID: "owner-1", ScopeID: "biz-1", Phase: catalog.PhaseEssential, Type: "summary"},
	}}
	svc := NewService(repo)

	phase := catalog.PhaseEssential
	grouped, err := svc.ListByScope(context.Background(), "owner-1", "biz-1", &phase)
	if err != nil {
		t.Fatalf("ListByScope() error = %v", err)
	}
	if len(grouped) != 1 || len(grouped[catalog.PhaseEssential]) != 1 {
		t.Errorf("grouped = %+v, want only the essential snapshot", grouped)
	}
}

func TestPurgeScope(t *testing.T) {
	repo := &memRepo{rows: []Snapshot{
		{ID: 1, OwnerID: "owner-1", ScopeID: "biz-1", Phase: catalog.PhaseInitial, Type: "summary"},
		{ID: 2, OwnerID: "owner-1", ScopeID: "biz-2", Phase: catalog.PhaseInitial, Type: "summary"},
	}}
	svc := NewService(repo)

	removed, err := svc.PurgeScope(context.Background(), "owner-1", "biz-1")
	if err != nil {
		t.Fatalf("PurgeScope() error = %v", err)
	}
	if removed != 1 || len(repo.rows) != 1 || repo.rows[0].ScopeID != "biz-2" {
		t.Errorf("purge removed %d, remaining %+v", removed, repo.rows)
	}
}
