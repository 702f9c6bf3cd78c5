package entities

import (
	"time"

	"briefhq/intake-api/internal/domain/catalog"
)

// Question represents the database schema for catalog questions.
type Question struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Text      string `gorm:"type:text;not null"`
	Phase     string `gorm:"type:varchar(20);index:idx_questions_phase_order;not null"`
	Severity  string `gorm:"type:varchar(16);not null;default:'optional'"`
	SortOrder int    `gorm:"index:idx_questions_phase_order;not null;default:0"`
	Active    bool   `gorm:"index;not null;default:true"`
}

// TableName specifies the table name for Question.
func (Question) TableName() string {
	return "questions"
}

// EtoD converts database entity to domain model
func (q *Question) EtoD() *catalog.Question {
	return &catalog.Question{
		ID:        q.ID,
		Text:      q.Text,
		Phase:     catalog.Phase(q.Phase),
		Severity:  catalog.Severity(q.Severity),
		Order:     q.SortOrder,
		Active:    q.Active,
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
	}
}

// NewSchemaQuestion creates a database entity from domain model
func NewSchemaQuestion(q *catalog.Question) *Question {
	return &Question{
		ID:        q.ID,
		Text:      q.Text,
		Phase:     q.Phase.String(),
		Severity:  string(q.Severity),
		SortOrder: q.Order,
		Active:    q.Active,
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
	}
}
