// Package event provides the PostgreSQL-backed conversation event store.
package event

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "briefhq/intake-api/internal/domain/event"
	"briefhq/intake-api/internal/infrastructure/database/entities"
	"briefhq/intake-api/internal/utils/platformerrors"
)

// PostgresRepository persists conversation events through GORM.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the event store.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var _ domain.Store = (*PostgresRepository)(nil)

// Append persists a single event.
func (r *PostgresRepository) Append(ctx context.Context, ev *domain.Event) error {
	if err := validateEvent(ctx, ev); err != nil {
		return err
	}
	if ev.PublicID == "" {
		ev.PublicID = uuid.NewString()
	}

	entity := entities.NewSchemaConversationEvent(ev)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to append conversation event",
			err,
			"event-append-error",
		)
	}
	ev.ID = entity.ID
	ev.CreatedAt = entity.CreatedAt
	return nil
}

// AppendMany persists a batch inside one transaction. Validation runs over
// the whole batch first so a bad element never leaves a partial write.
func (r *PostgresRepository) AppendMany(ctx context.Context, evs []*domain.Event) error {
	if len(evs) == 0 {
		return nil
	}
	for _, ev := range evs {
		if err := validateEvent(ctx, ev); err != nil {
			return err
		}
	}

	rows := make([]entities.ConversationEvent, 0, len(evs))
	for _, ev := range evs {
		if ev.PublicID == "" {
			ev.PublicID = uuid.NewString()
		}
		rows = append(rows, *entities.NewSchemaConversationEvent(ev))
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rows).Error
	})
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to append event batch",
			err,
			"event-append-many-error",
		)
	}

	for i, row := range rows {
		evs[i].ID = row.ID
		evs[i].CreatedAt = row.CreatedAt
	}
	return nil
}

// FindWhere returns events ordered by creation time, then id, so replays are
// deterministic even for same-timestamp rows.
func (r *PostgresRepository) FindWhere(ctx context.Context, filter domain.Filter) ([]domain.Event, error) {
	if err := validateFilter(ctx, filter, false); err != nil {
		return nil, err
	}

	var rows []entities.ConversationEvent
	query := r.scopeQuery(ctx, filter).Order("created_at asc").Order("id asc")
	if err := query.Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to load conversation events",
			err,
			"event-find-error",
		)
	}

	events := make([]domain.Event, len(rows))
	for i, row := range rows {
		events[i] = *row.EtoD()
	}
	return events, nil
}

// DeleteWhere removes one question's events. A filter without a question is
// rejected here; scope-wide removal goes through PurgeScope.
func (r *PostgresRepository) DeleteWhere(ctx context.Context, filter domain.Filter) (int64, error) {
	if err := validateFilter(ctx, filter, true); err != nil {
		return 0, err
	}

	result := r.scopeQuery(ctx, filter).Delete(&entities.ConversationEvent{})
	if result.Error != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete question events",
			result.Error,
			"event-delete-error",
		)
	}
	return result.RowsAffected, nil
}

// ReplaceForQuestion deletes the question's whole history and writes the
// replacement in one transaction.
func (r *PostgresRepository) ReplaceForQuestion(ctx context.Context, filter domain.Filter, replacement *domain.Event) error {
	if err := validateFilter(ctx, filter, true); err != nil {
		return err
	}
	if err := validateEvent(ctx, replacement); err != nil {
		return err
	}
	if replacement.PublicID == "" {
		replacement.PublicID = uuid.NewString()
	}

	entity := entities.NewSchemaConversationEvent(replacement)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		del := tx.
			Where("owner_id = ? AND scope_id = ? AND question_id = ?", filter.OwnerID, filter.ScopeID, *filter.QuestionID).
			Delete(&entities.ConversationEvent{})
		if del.Error != nil {
			return del.Error
		}
		return tx.Create(entity).Error
	})
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to replace question events",
			err,
			"event-replace-error",
		)
	}

	replacement.ID = entity.ID
	replacement.CreatedAt = entity.CreatedAt
	return nil
}

// PurgeScope removes every event for the owner+scope pair.
func (r *PostgresRepository) PurgeScope(ctx context.Context, ownerID, scopeID string) (int64, error) {
	if ownerID == "" || scopeID == "" {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeValidation,
			"purge requires owner and scope",
			nil,
			"event-purge-missing-scope",
		)
	}

	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND scope_id = ?", ownerID, scopeID).
		Delete(&entities.ConversationEvent{})
	if result.Error != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to purge scope events",
			result.Error,
			"event-purge-error",
		)
	}
	return result.RowsAffected, nil
}

func (r *PostgresRepository) scopeQuery(ctx context.Context, filter domain.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&entities.ConversationEvent{}).
		Where("owner_id = ? AND scope_id = ?", filter.OwnerID, filter.ScopeID)
	if filter.QuestionID != nil {
		query = query.Where("question_id = ?", *filter.QuestionID)
	}
	return query
}

func validateFilter(ctx context.Context, filter domain.Filter, requireQuestion bool) error {
	if filter.OwnerID == "" || filter.ScopeID == "" {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeValidation,
			"event filter requires owner and scope",
			nil,
			"event-filter-missing-scope",
		)
	}
	if requireQuestion && filter.QuestionID == nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeValidation,
			"event filter requires a question id",
			nil,
			"event-filter-missing-question",
		)
	}
	return nil
}

func validateEvent(ctx context.Context, ev *domain.Event) error {
	if ev == nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeValidation,
			"event is nil",
			nil,
			"event-nil",
		)
	}
	if ev.OwnerID == "" || ev.ScopeID == "" {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeValidation,
			"event requires owner and scope",
			nil,
			"event-missing-scope",
		)
	}
	if ev.Actor == "" || ev.Body == "" {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeValidation,
			"event requires actor and body",
			nil,
			"event-missing-body",
		)
	}
	return nil
}
