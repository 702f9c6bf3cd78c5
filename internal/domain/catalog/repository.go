package catalog

import "context"

// Filter narrows a catalog listing. A nil Active means both active and
// inactive questions; an empty Phases slice means all phases.
type Filter struct {
	Active *bool
	Phases []Phase
}

// Reader lists catalog questions ordered by (order asc, id asc). The id
// tie-break keeps the sequence stable across backends; insertion order is
// never relied on.
type Reader interface {
	List(ctx context.Context, filter Filter) ([]Question, error)
	FindByID(ctx context.Context, id uint) (*Question, error)
}
