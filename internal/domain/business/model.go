package business

import "time"

// Business is the questionnaire scope: one brief-in-progress belongs to one
// business, owned by one account and optionally shared with collaborators.
type Business struct {
	ID            uint
	PublicID      string
	OwnerID       string
	Name          string
	Collaborators []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsCollaborator reports whether the subject appears in the collaborator list.
func (b *Business) IsCollaborator(subject string) bool {
	for _, c := range b.Collaborators {
		if c == subject {
			return true
		}
	}
	return false
}
