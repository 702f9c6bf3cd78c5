package entities

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"briefhq/intake-api/internal/domain/analysis"
	"briefhq/intake-api/internal/domain/catalog"
)

// PhaseAnalysis represents the database schema for analysis snapshots. The
// unique index enforces the one-live-snapshot-per-key invariant at the
// storage layer.
type PhaseAnalysis struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	OwnerID string `gorm:"type:varchar(64);uniqueIndex:idx_phase_analysis_key;not null"`
	ScopeID string `gorm:"type:varchar(64);uniqueIndex:idx_phase_analysis_key;not null"`
	Phase   string `gorm:"type:varchar(20);uniqueIndex:idx_phase_analysis_key;not null"`
	Type    string `gorm:"type:varchar(64);uniqueIndex:idx_phase_analysis_key;not null"`

	Name        string         `gorm:"type:varchar(256)"`
	Result      datatypes.JSON `gorm:"type:jsonb"`
	GeneratedAt time.Time      `gorm:"not null"`
}

// TableName specifies the table name for PhaseAnalysis.
func (PhaseAnalysis) TableName() string {
	return "phase_analyses"
}

// EtoD converts database entity to domain model
func (p *PhaseAnalysis) EtoD() *analysis.Snapshot {
	return &analysis.Snapshot{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		ScopeID:     p.ScopeID,
		Phase:       catalog.Phase(p.Phase),
		Type:        p.Type,
		Name:        p.Name,
		Result:      json.RawMessage(p.Result),
		GeneratedAt: p.GeneratedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// NewSchemaPhaseAnalysis creates a database entity from domain model
func NewSchemaPhaseAnalysis(s *analysis.Snapshot) *PhaseAnalysis {
	return &PhaseAnalysis{
		ID:          s.ID,
		OwnerID:     s.OwnerID,
		ScopeID:     s.ScopeID,
		Phase:       s.Phase.String(),
		Type:        s.Type,
		Name:        s.Name,
		Result:      datatypes.JSON(s.Result),
		GeneratedAt: s.GeneratedAt,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
