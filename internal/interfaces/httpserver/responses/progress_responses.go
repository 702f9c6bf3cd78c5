package responses

import (
	"encoding/json"
	"time"

	"briefhq/intake-api/internal/domain/analysis"
	"briefhq/intake-api/internal/domain/catalog"
	"briefhq/intake-api/internal/domain/conversation"
	"briefhq/intake-api/internal/domain/event"
)

// FlowEntryPayload is one conversation event in a question's flow.
type FlowEntryPayload struct {
	ID         string    `json:"id"`
	Actor      string    `json:"actor"`
	Body       string    `json:"body"`
	IsFollowup bool      `json:"is_followup,omitempty"`
	IsLatest   bool      `json:"is_latest"`
	IsEdited   bool      `json:"is_edited,omitempty"`
	IsSkip     bool      `json:"is_skip,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// QuestionProgressPayload is the reconstructed state of one question.
type QuestionProgressPayload struct {
	QuestionID uint               `json:"question_id"`
	Text       string             `json:"text"`
	Phase      string             `json:"phase"`
	Severity   string             `json:"severity"`
	Order      int                `json:"order"`
	IsDeleted  bool               `json:"is_deleted,omitempty"`
	Status     string             `json:"status"`
	IsSkipped  bool               `json:"is_skipped,omitempty"`
	Flow       []FlowEntryPayload `json:"flow"`
}

// PhaseProgressPayload reports completion of one phase.
type PhaseProgressPayload struct {
	Phase    string `json:"phase"`
	Complete bool   `json:"complete"`
}

// SnapshotPayload is one phase analysis snapshot.
type SnapshotPayload struct {
	Phase       string          `json:"phase"`
	Type        string          `json:"analysis_type"`
	Name        string          `json:"analysis_name,omitempty"`
	Result      json.RawMessage `json:"analysis_data,omitempty"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// ProgressPayload is the full progress view for a business scope.
type ProgressPayload struct {
	BusinessID        string                       `json:"business_id"`
	Conversation      []QuestionProgressPayload    `json:"conversation"`
	Messages          []FlowEntryPayload           `json:"messages,omitempty"`
	Phases            []PhaseProgressPayload       `json:"phases"`
	CurrentPhase      string                       `json:"phase"`
	NextQuestionID    *uint                        `json:"next_question_id,omitempty"`
	TotalQuestions    int                          `json:"total_questions"`
	MandatoryTotal    int                          `json:"mandatory_total"`
	Answered          int                          `json:"answered"`
	MandatoryAnswered int                          `json:"mandatory_answered"`
	Completed         int                          `json:"completed"`
	Skipped           int                          `json:"skipped"`
	Percentage        int                          `json:"percentage"`
	PhaseAnalyses     map[string][]SnapshotPayload `json:"phase_analysis,omitempty"`
}

// EventPayload is returned after a submission is accepted.
type EventPayload struct {
	ID            string         `json:"id"`
	BusinessID    string         `json:"business_id"`
	QuestionID    *uint          `json:"question_id,omitempty"`
	Actor         string         `json:"actor"`
	Body          string         `json:"body"`
	IsFollowup    bool           `json:"is_followup,omitempty"`
	QuestionText  string         `json:"question_text,omitempty"`
	QuestionPhase string         `json:"question_phase,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// QuestionPayload is one catalog question.
type QuestionPayload struct {
	ID       uint   `json:"id"`
	Text     string `json:"text"`
	Phase    string `json:"phase"`
	Severity string `json:"severity"`
	Order    int    `json:"order"`
	Active   bool   `json:"active"`
}

// PurgePayload reports how many events a purge removed.
type PurgePayload struct {
	BusinessID string `json:"business_id"`
	Removed    int64  `json:"removed"`
}

// MapProgressToResponse maps the domain view, merging analysis snapshots.
func MapProgressToResponse(businessID string, view *conversation.ProgressView, analyses map[catalog.Phase][]analysis.Snapshot) ProgressPayload {
	payload := ProgressPayload{
		BusinessID:        businessID,
		Conversation:      make([]QuestionProgressPayload, len(view.Conversation)),
		Messages:          mapFlow(view.Messages),
		Phases:            make([]PhaseProgressPayload, len(view.Phases)),
		CurrentPhase:      view.CurrentPhase.String(),
		NextQuestionID:    view.NextQuestionID,
		TotalQuestions:    view.TotalQuestions,
		MandatoryTotal:    view.MandatoryTotal,
		Answered:          view.Answered,
		MandatoryAnswered: view.MandatoryAnswered,
		Completed:         view.Completed,
		Skipped:           view.Skipped,
		Percentage:        view.Percentage,
	}

	for i, q := range view.Conversation {
		payload.Conversation[i] = QuestionProgressPayload{
			QuestionID: q.QuestionID,
			Text:       q.Text,
			Phase:      q.Phase.String(),
			Severity:   string(q.Severity),
			Order:      q.Order,
			IsDeleted:  q.IsDeleted,
			Status:     string(q.Status),
			IsSkipped:  q.IsSkipped,
			Flow:       mapFlow(q.Flow),
		}
	}

	for i, p := range view.Phases {
		payload.Phases[i] = PhaseProgressPayload{
			Phase:    p.Phase.String(),
			Complete: p.Complete,
		}
	}

	if len(analyses) > 0 {
		payload.PhaseAnalyses = make(map[string][]SnapshotPayload, len(analyses))
		for phase, snaps := range analyses {
			payload.PhaseAnalyses[phase.String()] = MapSnapshotsToResponse(snaps)
		}
	}

	return payload
}

// MapEventToResponse maps a stored event to its DTO.
func MapEventToResponse(ev *event.Event) EventPayload {
	return EventPayload{
		ID:            ev.PublicID,
		BusinessID:    ev.ScopeID,
		QuestionID:    ev.QuestionID,
		Actor:         string(ev.Actor),
		Body:          ev.Body,
		IsFollowup:    ev.IsFollowup,
		QuestionText:  ev.QuestionText,
		QuestionPhase: ev.QuestionPhase.String(),
		Metadata:      ev.Metadata,
		CreatedAt:     ev.CreatedAt,
	}
}

// MapSnapshotsToResponse maps analysis snapshots to DTOs.
func MapSnapshotsToResponse(snaps []analysis.Snapshot) []SnapshotPayload {
	out := make([]SnapshotPayload, len(snaps))
	for i, s := range snaps {
		out[i] = SnapshotPayload{
			Phase:       s.Phase.String(),
			Type:        s.Type,
			Name:        s.Name,
			Result:      s.Result,
			GeneratedAt: s.GeneratedAt,
		}
	}
	return out
}

// MapQuestionsToResponse maps catalog questions to DTOs.
func MapQuestionsToResponse(questions []catalog.Question) []QuestionPayload {
	out := make([]QuestionPayload, len(questions))
	for i, q := range questions {
		out[i] = QuestionPayload{
			ID:       q.ID,
			Text:     q.Text,
			Phase:    q.Phase.String(),
			Severity: string(q.Severity),
			Order:    q.Order,
			Active:   q.Active,
		}
	}
	return out
}

func mapFlow(flow []conversation.FlowEntry) []FlowEntryPayload {
	if len(flow) == 0 {
		return nil
	}
	out := make([]FlowEntryPayload, len(flow))
	for i, f := range flow {
		out[i] = FlowEntryPayload{
			ID:         f.EventID,
			Actor:      string(f.Actor),
			Body:       f.Body,
			IsFollowup: f.IsFollowup,
			IsLatest:   f.IsLatest,
			IsEdited:   f.IsEdited,
			IsSkip:     f.IsSkip,
			CreatedAt:  f.CreatedAt,
		}
	}
	return out
}
