package requests

// CreateBusinessRequest creates one questionnaire scope.
type CreateBusinessRequest struct {
	Name          string   `json:"name" binding:"required"`
	Collaborators []string `json:"collaborators,omitempty"`
}
