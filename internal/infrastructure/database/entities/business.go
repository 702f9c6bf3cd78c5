package entities

import (
	"time"

	"github.com/lib/pq"

	"briefhq/intake-api/internal/domain/business"
)

// Business represents the database schema for intake scopes.
type Business struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PublicID      string         `gorm:"type:varchar(50);uniqueIndex;not null"`
	OwnerID       string         `gorm:"type:varchar(64);index;not null"`
	Name          string         `gorm:"type:varchar(256);not null"`
	Collaborators pq.StringArray `gorm:"type:text[]"`
}

// TableName specifies the table name for Business.
func (Business) TableName() string {
	return "businesses"
}

// EtoD converts database entity to domain model
func (b *Business) EtoD() *business.Business {
	return &business.Business{
		ID:            b.ID,
		PublicID:      b.PublicID,
		OwnerID:       b.OwnerID,
		Name:          b.Name,
		Collaborators: []string(b.Collaborators),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// NewSchemaBusiness creates a database entity from domain model
func NewSchemaBusiness(b *business.Business) *Business {
	return &Business{
		ID:            b.ID,
		PublicID:      b.PublicID,
		OwnerID:       b.OwnerID,
		Name:          b.Name,
		Collaborators: pq.StringArray(b.Collaborators),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}
