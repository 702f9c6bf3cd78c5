// Package conversation implements the edit/skip resolver and the progress
// reconstructor over the append-only event log.
package conversation

import (
	"time"

	"briefhq/intake-api/internal/domain/catalog"
	"briefhq/intake-api/internal/domain/event"
)

// QuestionStatus is the reconstructed state of one question.
type QuestionStatus string

const (
	// StatusUnanswered means no events exist for the question.
	StatusUnanswered QuestionStatus = "unanswered"
	// StatusIncomplete means only bot events exist (prompted, never answered).
	StatusIncomplete QuestionStatus = "incomplete"
	// StatusComplete means a real (non-skip) answer exists.
	StatusComplete QuestionStatus = "complete"
	// StatusSkipped means only skip markers exist.
	StatusSkipped QuestionStatus = "skipped"
)

// FlowEntry is one event in a question's chronological conversation flow.
type FlowEntry struct {
	EventID    string
	Actor      event.Actor
	Body       string
	IsFollowup bool

	// IsLatest is true only for the single most recent real-or-skip answer.
	IsLatest  bool
	IsEdited  bool
	IsSkip    bool
	CreatedAt time.Time
}

// QuestionProgress is the reconstructed view of one question, catalog entry
// or placeholder.
type QuestionProgress struct {
	QuestionID uint
	Text       string
	Phase      catalog.Phase
	Severity   catalog.Severity
	Order      int

	// IsDeleted marks a placeholder synthesized from event snapshots for a
	// question no longer active in the catalog.
	IsDeleted bool

	Status    QuestionStatus
	IsSkipped bool
	Flow      []FlowEntry
}

// HasMainAnswer reports whether the question has a main answer (real answer
// or skip marker); both satisfy completion for phase gating.
func (q *QuestionProgress) HasMainAnswer() bool {
	return q.Status == StatusComplete || q.Status == StatusSkipped
}

// PhaseProgress reports completion of one phase in canonical order.
type PhaseProgress struct {
	Phase    catalog.Phase
	Complete bool
}

// ProgressView is the derived, never persisted, view of conversation state.
type ProgressView struct {
	// Conversation holds per-question state ordered by
	// (phase canonical index, order, id); placeholders sort after catalog
	// questions of the same phase.
	Conversation []QuestionProgress

	// Messages holds free-standing bot messages not tied to any question.
	Messages []FlowEntry

	Phases       []PhaseProgress
	CurrentPhase catalog.Phase

	// NextQuestionID points at the first catalog question without a main
	// answer; nil when all are answered.
	NextQuestionID *uint

	TotalQuestions    int
	MandatoryTotal    int
	Answered          int
	MandatoryAnswered int
	Completed         int
	Skipped           int
	Percentage        int
}
