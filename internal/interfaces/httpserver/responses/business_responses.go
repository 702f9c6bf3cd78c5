package responses

import (
	"time"

	"briefhq/intake-api/internal/domain/business"
)

// BusinessPayload is one questionnaire scope.
type BusinessPayload struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	Name          string    `json:"name"`
	Collaborators []string  `json:"collaborators,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// MapBusinessToResponse maps a business to its DTO.
func MapBusinessToResponse(b *business.Business) BusinessPayload {
	return BusinessPayload{
		ID:            b.PublicID,
		OwnerID:       b.OwnerID,
		Name:          b.Name,
		Collaborators: b.Collaborators,
		CreatedAt:     b.CreatedAt,
	}
}
