// Package analysis provides the PostgreSQL-backed snapshot store.
package analysis

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "briefhq/intake-api/internal/domain/analysis"
	"briefhq/intake-api/internal/domain/catalog"
	"briefhq/intake-api/internal/infrastructure/database/entities"
	"briefhq/intake-api/internal/utils/platformerrors"
)

// PostgresRepository persists analysis snapshots through GORM.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the snapshot store.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var _ domain.Repository = (*PostgresRepository)(nil)

// Upsert writes the snapshot, replacing the existing row for its key. The
// ON CONFLICT target matches the unique index on (owner, scope, phase, type).
func (r *PostgresRepository) Upsert(ctx context.Context, snap *domain.Snapshot) error {
	entity := entities.NewSchemaPhaseAnalysis(snap)

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "owner_id"},
			{Name: "scope_id"},
			{Name: "phase"},
			{Name: "type"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"name", "result", "generated_at", "updated_at"}),
	}).Create(entity).Error
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to upsert analysis snapshot",
			err,
			"analysis-upsert-error",
		)
	}

	snap.ID = entity.ID
	snap.CreatedAt = entity.CreatedAt
	snap.UpdatedAt = entity.UpdatedAt
	return nil
}

// ListByOwnerScope returns snapshots for an owner+scope, newest first so the
// service's dedup pass keeps the latest record per key.
func (r *PostgresRepository) ListByOwnerScope(ctx context.Context, ownerID, scopeID string, phase *catalog.Phase) ([]domain.Snapshot, error) {
	query := r.db.WithContext(ctx).
		Model(&entities.PhaseAnalysis{}).
		Where("owner_id = ? AND scope_id = ?", ownerID, scopeID)
	if phase != nil {
		query = query.Where("phase = ?", phase.String())
	}

	var rows []entities.PhaseAnalysis
	if err := query.Order("generated_at desc").Order("id desc").Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list analysis snapshots",
			err,
			"analysis-list-error",
		)
	}

	snaps := make([]domain.Snapshot, len(rows))
	for i, row := range rows {
		snaps[i] = *row.EtoD()
	}
	return snaps, nil
}

// DeleteByOwnerScope removes every snapshot for the owner+scope pair.
func (r *PostgresRepository) DeleteByOwnerScope(ctx context.Context, ownerID, scopeID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND scope_id = ?", ownerID, scopeID).
		Delete(&entities.PhaseAnalysis{})
	if result.Error != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete analysis snapshots",
			result.Error,
			"analysis-delete-error",
		)
	}
	return result.RowsAffected, nil
}
