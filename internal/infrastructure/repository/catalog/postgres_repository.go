// Package catalog provides the PostgreSQL-backed question catalog reader.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "briefhq/intake-api/internal/domain/catalog"
	"briefhq/intake-api/internal/infrastructure/database/entities"
	"briefhq/intake-api/internal/utils/platformerrors"
)

// PostgresRepository reads catalog questions through GORM.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the catalog reader.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var _ domain.Reader = (*PostgresRepository)(nil)

// List returns questions matching the filter ordered by (sort_order, id).
func (r *PostgresRepository) List(ctx context.Context, filter domain.Filter) ([]domain.Question, error) {
	query := r.db.WithContext(ctx).Model(&entities.Question{})
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	if len(filter.Phases) > 0 {
		phases := make([]string, len(filter.Phases))
		for i, p := range filter.Phases {
			phases[i] = p.String()
		}
		query = query.Where("phase IN ?", phases)
	}

	var rows []entities.Question
	if err := query.Order("sort_order asc").Order("id asc").Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list questions",
			err,
			"question-list-error",
		)
	}

	questions := make([]domain.Question, len(rows))
	for i, row := range rows {
		questions[i] = *row.EtoD()
	}
	return questions, nil
}

// FindByID retrieves one question regardless of active state.
func (r *PostgresRepository) FindByID(ctx context.Context, id uint) (*domain.Question, error) {
	var entity entities.Question
	if err := r.db.WithContext(ctx).First(&entity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("question not found: %d", id),
				nil,
				"question-not-found",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find question",
			err,
			"question-find-error",
		)
	}
	return entity.EtoD(), nil
}
