// Package business provides the PostgreSQL-backed business repository.
package business

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "briefhq/intake-api/internal/domain/business"
	"briefhq/intake-api/internal/infrastructure/database/entities"
	"briefhq/intake-api/internal/utils/platformerrors"
)

// PostgresRepository persists businesses through GORM.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the business repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var _ domain.Repository = (*PostgresRepository)(nil)

// Create inserts a business, assigning a public ID when absent.
func (r *PostgresRepository) Create(ctx context.Context, b *domain.Business) error {
	if b.OwnerID == "" {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeValidation,
			"business requires an owner",
			nil,
			"business-missing-owner",
		)
	}
	if b.PublicID == "" {
		b.PublicID = "biz_" + uuid.NewString()
	}

	entity := entities.NewSchemaBusiness(b)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create business",
			err,
			"business-create-error",
		)
	}
	b.ID = entity.ID
	b.CreatedAt = entity.CreatedAt
	b.UpdatedAt = entity.UpdatedAt
	return nil
}

// FindByPublicID retrieves a business by its public ID.
func (r *PostgresRepository) FindByPublicID(ctx context.Context, publicID string) (*domain.Business, error) {
	var entity entities.Business
	if err := r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("business not found: %s", publicID),
				nil,
				"business-not-found",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find business",
			err,
			"business-find-error",
		)
	}
	return entity.EtoD(), nil
}

// ListByOwner returns the owner's businesses, newest first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Business, error) {
	var rows []entities.Business
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at desc").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list businesses",
			err,
			"business-list-error",
		)
	}

	out := make([]domain.Business, len(rows))
	for i, row := range rows {
		out[i] = *row.EtoD()
	}
	return out, nil
}
