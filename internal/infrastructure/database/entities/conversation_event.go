package entities

import (
	"time"

	"gorm.io/datatypes"

	"briefhq/intake-api/internal/domain/catalog"
	"briefhq/intake-api/internal/domain/event"
)

// ConversationEvent represents the database schema for the append-only
// conversation log. Rows are never updated in place; edits replace a
// question's rows wholesale inside one transaction.
type ConversationEvent struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_events_scope_created"`

	PublicID   string `gorm:"type:varchar(50);uniqueIndex;not null"`
	OwnerID    string `gorm:"type:varchar(64);index:idx_events_owner_scope;not null"`
	ScopeID    string `gorm:"type:varchar(64);index:idx_events_owner_scope;index:idx_events_scope_created;not null"`
	QuestionID *uint  `gorm:"index:idx_events_question"`

	Actor      string `gorm:"type:varchar(16);not null"`
	Body       string `gorm:"type:text;not null"`
	IsFollowup bool   `gorm:"not null;default:false"`

	QuestionText  string `gorm:"type:text"`
	QuestionPhase string `gorm:"type:varchar(20)"`

	Metadata datatypes.JSONMap `gorm:"type:jsonb"`
}

// TableName specifies the table name for ConversationEvent.
func (ConversationEvent) TableName() string {
	return "conversation_events"
}

// EtoD converts database entity to domain model
func (e *ConversationEvent) EtoD() *event.Event {
	var metadata map[string]any
	if e.Metadata != nil {
		metadata = map[string]any(e.Metadata)
	}

	return &event.Event{
		ID:            e.ID,
		PublicID:      e.PublicID,
		OwnerID:       e.OwnerID,
		ScopeID:       e.ScopeID,
		QuestionID:    e.QuestionID,
		Actor:         event.Actor(e.Actor),
		Body:          e.Body,
		IsFollowup:    e.IsFollowup,
		QuestionText:  e.QuestionText,
		QuestionPhase: catalog.Phase(e.QuestionPhase),
		Metadata:      metadata,
		CreatedAt:     e.CreatedAt,
	}
}

// NewSchemaConversationEvent creates a database entity from domain model
func NewSchemaConversationEvent(e *event.Event) *ConversationEvent {
	var metadata datatypes.JSONMap
	if e.Metadata != nil {
		metadata = datatypes.JSONMap(e.Metadata)
	}

	return &ConversationEvent{
		ID:            e.ID,
		PublicID:      e.PublicID,
		OwnerID:       e.OwnerID,
		ScopeID:       e.ScopeID,
		QuestionID:    e.QuestionID,
		Actor:         string(e.Actor),
		Body:          e.Body,
		IsFollowup:    e.IsFollowup,
		QuestionText:  e.QuestionText,
		QuestionPhase: e.QuestionPhase.String(),
		Metadata:      metadata,
		CreatedAt:     e.CreatedAt,
	}
}
