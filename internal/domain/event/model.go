// Package event defines the append-only conversation event log.
package event

import (
	"time"

	"briefhq/intake-api/internal/domain/catalog"
)

// Actor identifies who produced a conversation event.
type Actor string

const (
	ActorBot    Actor = "bot"
	ActorUser   Actor = "user"
	ActorSystem Actor = "system"
)

// SkipSentinel is the reserved answer body that marks a question as skipped.
// A skip is a normal user event whose body equals this value; it is terminal
// until a real answer supersedes it.
const SkipSentinel = "__SKIPPED__"

// Metadata keys recognized on events. Metadata is free-form; these are the
// keys the resolver and reconstructor interpret.
const (
	MetaIsComplete        = "is_complete"
	MetaIsEdit            = "is_edit"
	MetaIsSkip            = "is_skip"
	MetaFromEditableBrief = "from_editable_brief"
)

// Event is one entry in the append-only conversation log. Events are
// immutable once written; the only mutation path is the resolver's
// edit-replace, which swaps a question's whole history for one clean event.
type Event struct {
	ID       uint
	PublicID string
	OwnerID  string
	ScopeID  string

	// QuestionID is nil for free-standing bot messages.
	QuestionID *uint

	Actor      Actor
	Body       string
	IsFollowup bool

	// QuestionText and QuestionPhase snapshot the referenced question at
	// event-creation time. Reconstruction falls back to the snapshot when the
	// question has since been renamed, deactivated, or deleted.
	QuestionText  string
	QuestionPhase catalog.Phase

	Metadata  map[string]any
	CreatedAt time.Time
}

// IsSkip reports whether this event is the skip sentinel.
func (e *Event) IsSkip() bool {
	return e.Actor == ActorUser && e.Body == SkipSentinel
}

// IsAnswer reports whether this event is a real (non-skip) user answer.
func (e *Event) IsAnswer() bool {
	return e.Actor == ActorUser && e.Body != SkipSentinel
}

// IsEdit reports whether the event was written by an edit-replace.
func (e *Event) IsEdit() bool {
	return e.metaBool(MetaIsEdit)
}

// IsComplete reports the caller-supplied completion flag.
func (e *Event) IsComplete() bool {
	return e.metaBool(MetaIsComplete)
}

func (e *Event) metaBool(key string) bool {
	if e.Metadata == nil {
		return false
	}
	v, ok := e.Metadata[key].(bool)
	return ok && v
}
