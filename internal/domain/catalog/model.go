// Package catalog provides read-only access to the ordered question catalog.
package catalog

import "time"

// Phase identifies which stage of the intake a question belongs to.
type Phase string

const (
	PhaseInitial   Phase = "initial"
	PhaseEssential Phase = "essential"
	PhaseGood      Phase = "good"
	PhaseExcellent Phase = "excellent"
)

// PhaseOrder is the canonical, total ordering of phases. Phase completion
// is evaluated in this order and nowhere else.
var PhaseOrder = []Phase{PhaseInitial, PhaseEssential, PhaseGood, PhaseExcellent}

// Index returns the canonical position of the phase, or len(PhaseOrder) for
// unknown phases so they sort after every known phase.
func (p Phase) Index() int {
	for i, candidate := range PhaseOrder {
		if candidate == p {
			return i
		}
	}
	return len(PhaseOrder)
}

// Valid reports whether the phase is one of the canonical values.
func (p Phase) Valid() bool {
	return p.Index() < len(PhaseOrder)
}

// String returns the string representation of the phase.
func (p Phase) String() string {
	return string(p)
}

// Through expands a cumulative phase query into the explicit set of phases up
// to and including p. The catalog reader performs no implicit cumulation, so
// callers expand before querying.
func Through(p Phase) []Phase {
	idx := p.Index()
	if idx >= len(PhaseOrder) {
		out := make([]Phase, len(PhaseOrder))
		copy(out, PhaseOrder)
		return out
	}
	out := make([]Phase, idx+1)
	copy(out, PhaseOrder[:idx+1])
	return out
}

// Severity indicates whether a question gates phase completion.
type Severity string

const (
	SeverityMandatory Severity = "mandatory"
	SeverityOptional  Severity = "optional"
)

// Question is a single catalog entry. Questions are owned by the catalog and
// referenced, never owned, by conversation events.
type Question struct {
	ID        uint
	Text      string
	Phase     Phase
	Severity  Severity
	Order     int
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsMandatory reports whether the question counts toward phase gating.
func (q *Question) IsMandatory() bool {
	return q.Severity == SeverityMandatory
}
