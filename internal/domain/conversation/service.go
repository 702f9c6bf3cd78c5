package conversation

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"briefhq/intake-api/internal/domain/catalog"
	"briefhq/intake-api/internal/domain/event"
	"briefhq/intake-api/internal/infrastructure/metrics"
	"briefhq/intake-api/internal/infrastructure/observability"
	"briefhq/intake-api/internal/utils/platformerrors"
	"briefhq/intake-api/internal/webhook"
)

// Service is the conversation write path plus the progress read path.
type Service interface {
	// Submit dispatches a caller submission: plain answer, edit (when the
	// metadata carries the edit flag), or free-standing bot message.
	Submit(ctx context.Context, params SubmitParams) (*event.Event, error)

	// Skip appends the skip sentinel for a question.
	Skip(ctx context.Context, ownerID, scopeID string, questionID uint) (*event.Event, error)

	// Edit atomically replaces a question's whole event history with one
	// clean answer event.
	Edit(ctx context.Context, params SubmitParams) (*event.Event, error)

	// BulkEdit applies one edit per item. Each item is an independent atomic
	// edit; a failure on item k leaves items 1..k-1 committed.
	BulkEdit(ctx context.Context, ownerID, scopeID string, items []BulkEditItem) ([]*event.Event, error)

	// AddFollowup appends a bot follow-up prompt for a question.
	AddFollowup(ctx context.Context, ownerID, scopeID string, questionID uint, text string) (*event.Event, error)

	// Purge removes every event for an owner+scope. Irreversible.
	Purge(ctx context.Context, ownerID, scopeID string) (int64, error)

	// GetProgress reconstructs the progress view for an owner+scope.
	GetProgress(ctx context.Context, ownerID, scopeID string) (*ProgressView, error)
}

// SubmitParams carries one conversation submission.
type SubmitParams struct {
	OwnerID    string
	ScopeID    string
	QuestionID *uint

	// AnswerText is the user's answer; MessageText a bot prompt body. Exactly
	// one is expected per submission.
	AnswerText  string
	MessageText string

	IsComplete bool
	Metadata   map[string]any
}

// BulkEditItem is one (question, answer) pair of a bulk edit.
type BulkEditItem struct {
	QuestionID uint
	AnswerText string
	IsComplete bool
}

// isEdit reports whether the submission's metadata requests the edit path.
func (p *SubmitParams) isEdit() bool {
	if p.Metadata == nil {
		return false
	}
	for _, key := range []string{event.MetaIsEdit, event.MetaFromEditableBrief} {
		if v, ok := p.Metadata[key].(bool); ok && v {
			return true
		}
	}
	return false
}

// DefaultService implements Service.
type DefaultService struct {
	questions catalog.Reader
	events    event.Store
	notifier  webhook.Notifier
	locks     *questionLocks
	log       zerolog.Logger
}

// NewService builds the conversation service.
func NewService(questions catalog.Reader, events event.Store, notifier webhook.Notifier, log zerolog.Logger) *DefaultService {
	return &DefaultService{
		questions: questions,
		events:    events,
		notifier:  notifier,
		locks:     newQuestionLocks(),
		log:       log.With().Str("service", "conversation").Logger(),
	}
}

// Submit dispatches per the resolver rules: edit flag wins, then answer,
// then bot message.
func (s *DefaultService) Submit(ctx context.Context, params SubmitParams) (*event.Event, error) {
	if err := s.validateScope(ctx, params.OwnerID, params.ScopeID); err != nil {
		return nil, err
	}

	if params.isEdit() {
		return s.Edit(ctx, params)
	}
	if strings.TrimSpace(params.AnswerText) != "" {
		return s.submitAnswer(ctx, params)
	}
	if strings.TrimSpace(params.MessageText) != "" {
		return s.recordBotMessage(ctx, params)
	}

	return nil, platformerrors.NewError(
		ctx,
		platformerrors.LayerDomain,
		platformerrors.ErrorTypeValidation,
		"submission needs answer_text or message_text",
		nil,
		"submit-empty-body",
	)
}

func (s *DefaultService) submitAnswer(ctx context.Context, params SubmitParams) (*event.Event, error) {
	if params.QuestionID == nil {
		return nil, s.missingQuestionErr(ctx, "answer")
	}
	if params.AnswerText == event.SkipSentinel {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"answer body collides with the reserved skip marker",
			nil,
			"submit-reserved-body",
		)
	}

	ctx, span := observability.StartResolverSpan(ctx, "answer", params.OwnerID, params.ScopeID, *params.QuestionID)
	defer span.End()

	text, phase, err := s.questionSnapshot(ctx, params.OwnerID, params.ScopeID, *params.QuestionID)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	release := s.locks.acquire(params.OwnerID, params.ScopeID, *params.QuestionID)
	defer release()

	ev := s.newEvent(params.OwnerID, params.ScopeID, params.QuestionID, event.ActorUser, params.AnswerText)
	ev.QuestionText = text
	ev.QuestionPhase = phase
	ev.Metadata = mergeMetadata(params.Metadata, map[string]any{event.MetaIsComplete: params.IsComplete})

	if err := s.events.Append(ctx, ev); err != nil {
		metrics.RecordConversationEvent("answer", "error")
		observability.RecordError(span, err)
		return nil, err
	}
	metrics.RecordConversationEvent("answer", "ok")

	s.notifyIfPhaseCompleted(ctx, params.OwnerID, params.ScopeID, phase)
	return ev, nil
}

func (s *DefaultService) recordBotMessage(ctx context.Context, params SubmitParams) (*event.Event, error) {
	ev := s.newEvent(params.OwnerID, params.ScopeID, params.QuestionID, event.ActorBot, params.MessageText)
	if params.QuestionID != nil {
		text, phase, err := s.questionSnapshot(ctx, params.OwnerID, params.ScopeID, *params.QuestionID)
		if err != nil {
			return nil, err
		}
		ev.QuestionText = text
		ev.QuestionPhase = phase
	}
	ev.Metadata = mergeMetadata(params.Metadata, nil)

	if err := s.events.Append(ctx, ev); err != nil {
		metrics.RecordConversationEvent("bot_message", "error")
		return nil, err
	}
	metrics.RecordConversationEvent("bot_message", "ok")
	return ev, nil
}

// Skip appends the sentinel answer. A skip always counts as complete for
// phase gating but stays distinguishable from a real answer.
func (s *DefaultService) Skip(ctx context.Context, ownerID, scopeID string, questionID uint) (*event.Event, error) {
	if err := s.validateScope(ctx, ownerID, scopeID); err != nil {
		return nil, err
	}

	ctx, span := observability.StartResolverSpan(ctx, "skip", ownerID, scopeID, questionID)
	defer span.End()

	text, phase, err := s.questionSnapshot(ctx, ownerID, scopeID, questionID)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	release := s.locks.acquire(ownerID, scopeID, questionID)
	defer release()

	ev := s.newEvent(ownerID, scopeID, &questionID, event.ActorUser, event.SkipSentinel)
	ev.QuestionText = text
	ev.QuestionPhase = phase
	ev.Metadata = map[string]any{
		event.MetaIsSkip:     true,
		event.MetaIsComplete: true,
	}

	if err := s.events.Append(ctx, ev); err != nil {
		metrics.RecordConversationEvent("skip", "error")
		observability.RecordError(span, err)
		return nil, err
	}
	metrics.RecordConversationEvent("skip", "ok")

	s.notifyIfPhaseCompleted(ctx, ownerID, scopeID, phase)
	return ev, nil
}

// Edit replaces the question's entire history with one clean answer event.
// The store executes delete and append in one transaction; a half-applied
// edit is never committed.
func (s *DefaultService) Edit(ctx context.Context, params SubmitParams) (*event.Event, error) {
	if err := s.validateScope(ctx, params.OwnerID, params.ScopeID); err != nil {
		return nil, err
	}
	if params.QuestionID == nil {
		return nil, s.missingQuestionErr(ctx, "edit")
	}
	if strings.TrimSpace(params.AnswerText) == "" {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"edit needs a replacement answer",
			nil,
			"edit-empty-answer",
		)
	}
	if params.AnswerText == event.SkipSentinel {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"answer body collides with the reserved skip marker",
			nil,
			"edit-reserved-body",
		)
	}

	ctx, span := observability.StartResolverSpan(ctx, "edit", params.OwnerID, params.ScopeID, *params.QuestionID)
	defer span.End()

	text, phase, err := s.questionSnapshot(ctx, params.OwnerID, params.ScopeID, *params.QuestionID)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	release := s.locks.acquire(params.OwnerID, params.ScopeID, *params.QuestionID)
	defer release()

	ev := s.newEvent(params.OwnerID, params.ScopeID, params.QuestionID, event.ActorUser, params.AnswerText)
	ev.QuestionText = text
	ev.QuestionPhase = phase
	ev.Metadata = mergeMetadata(params.Metadata, map[string]any{
		event.MetaIsEdit:     true,
		event.MetaIsComplete: true,
	})

	filter := event.Filter{
		OwnerID:    params.OwnerID,
		ScopeID:    params.ScopeID,
		QuestionID: params.QuestionID,
	}
	if err := s.events.ReplaceForQuestion(ctx, filter, ev); err != nil {
		metrics.RecordConversationEvent("edit", "error")
		observability.RecordError(span, err)
		return nil, err
	}
	metrics.RecordConversationEvent("edit", "ok")

	s.notifyIfPhaseCompleted(ctx, params.OwnerID, params.ScopeID, phase)
	return ev, nil
}

// BulkEdit edits each pair independently. The error, if any, identifies the
// failing item; earlier items stay committed.
func (s *DefaultService) BulkEdit(ctx context.Context, ownerID, scopeID string, items []BulkEditItem) ([]*event.Event, error) {
	applied := make([]*event.Event, 0, len(items))
	for i, item := range items {
		qid := item.QuestionID
		ev, err := s.Edit(ctx, SubmitParams{
			OwnerID:    ownerID,
			ScopeID:    scopeID,
			QuestionID: &qid,
			AnswerText: item.AnswerText,
			IsComplete: item.IsComplete,
			Metadata:   map[string]any{event.MetaIsEdit: true},
		})
		if err != nil {
			return applied, platformerrors.NewErrorWithContext(
				ctx,
				platformerrors.LayerDomain,
				platformerrors.ErrorTypeInternal,
				"bulk edit failed part way",
				err,
				"bulk-edit-partial",
				map[string]any{"failed_index": i, "applied": len(applied)},
			)
		}
		applied = append(applied, ev)
	}
	return applied, nil
}

// AddFollowup appends a bot follow-up. Follow-ups never change completion.
func (s *DefaultService) AddFollowup(ctx context.Context, ownerID, scopeID string, questionID uint, text string) (*event.Event, error) {
	if err := s.validateScope(ctx, ownerID, scopeID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"follow-up needs message text",
			nil,
			"followup-empty-text",
		)
	}

	snapshotText, phase, err := s.questionSnapshot(ctx, ownerID, scopeID, questionID)
	if err != nil {
		return nil, err
	}

	ev := s.newEvent(ownerID, scopeID, &questionID, event.ActorBot, text)
	ev.IsFollowup = true
	ev.QuestionText = snapshotText
	ev.QuestionPhase = phase

	if err := s.events.Append(ctx, ev); err != nil {
		metrics.RecordConversationEvent("followup", "error")
		return nil, err
	}
	metrics.RecordConversationEvent("followup", "ok")
	return ev, nil
}

// Purge irreversibly deletes the scope's whole event log.
func (s *DefaultService) Purge(ctx context.Context, ownerID, scopeID string) (int64, error) {
	if err := s.validateScope(ctx, ownerID, scopeID); err != nil {
		return 0, err
	}
	removed, err := s.events.PurgeScope(ctx, ownerID, scopeID)
	if err != nil {
		metrics.RecordConversationEvent("purge", "error")
		return 0, err
	}
	metrics.RecordConversationEvent("purge", "ok")
	s.log.Info().
		Str("owner_id", ownerID).
		Str("scope_id", scopeID).
		Int64("removed", removed).
		Msg("conversation purged")
	return removed, nil
}

// GetProgress pulls the active catalog and the scope's event slice and runs
// the pure reconstruction.
func (s *DefaultService) GetProgress(ctx context.Context, ownerID, scopeID string) (*ProgressView, error) {
	if err := s.validateScope(ctx, ownerID, scopeID); err != nil {
		return nil, err
	}

	ctx, span := observability.StartRebuildSpan(ctx, ownerID, scopeID)
	defer span.End()
	start := time.Now()

	active := true
	questions, err := s.questions.List(ctx, catalog.Filter{Active: &active})
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	events, err := s.events.FindWhere(ctx, event.Filter{OwnerID: ownerID, ScopeID: scopeID})
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	view := BuildProgress(questions, events)
	metrics.ObserveProgressRebuild(time.Since(start).Seconds())
	return view, nil
}

// questionSnapshot resolves the question's text/phase for the event
// snapshot. A question missing from the catalog falls back to the snapshot
// carried on its prior events; only a question with neither is an error.
func (s *DefaultService) questionSnapshot(ctx context.Context, ownerID, scopeID string, questionID uint) (string, catalog.Phase, error) {
	q, err := s.questions.FindByID(ctx, questionID)
	if err == nil {
		return q.Text, q.Phase, nil
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		return "", "", err
	}

	qid := questionID
	prior, ferr := s.events.FindWhere(ctx, event.Filter{OwnerID: ownerID, ScopeID: scopeID, QuestionID: &qid})
	if ferr != nil {
		return "", "", ferr
	}
	var text string
	var phase catalog.Phase
	for _, ev := range prior {
		if ev.QuestionText != "" {
			text = ev.QuestionText
		}
		if ev.QuestionPhase != "" {
			phase = ev.QuestionPhase
		}
	}
	if text == "" && phase == "" {
		return "", "", err
	}
	return text, phase, nil
}

// notifyIfPhaseCompleted rebuilds the view and fires the phase webhook whenever
// the answered question's phase is complete. Every write into an already
// complete phase re-notifies; delivery is at-least-once and consumers must
// dedupe. Best effort only.
func (s *DefaultService) notifyIfPhaseCompleted(ctx context.Context, ownerID, scopeID string, phase catalog.Phase) {
	if s.notifier == nil || !phase.Valid() {
		return
	}
	view, err := s.GetProgress(ctx, ownerID, scopeID)
	if err != nil {
		s.log.Warn().Err(err).Msg("phase completion check failed")
		return
	}
	for _, pp := range view.Phases {
		if pp.Phase != phase {
			continue
		}
		observability.AddPhaseEvent(ctx, phase.String(), pp.Complete)
		if pp.Complete {
			s.notifier.NotifyPhaseCompleted(scopeID, phase.String(), view.Percentage)
		}
		return
	}
}

func (s *DefaultService) validateScope(ctx context.Context, ownerID, scopeID string) error {
	if strings.TrimSpace(ownerID) == "" || strings.TrimSpace(scopeID) == "" {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"owner and scope are required",
			nil,
			"missing-owner-scope",
		)
	}
	return nil
}

func (s *DefaultService) missingQuestionErr(ctx context.Context, operation string) error {
	return platformerrors.NewError(
		ctx,
		platformerrors.LayerDomain,
		platformerrors.ErrorTypeValidation,
		operation+" requires a question id",
		nil,
		operation+"-missing-question",
	)
}

func (s *DefaultService) newEvent(ownerID, scopeID string, questionID *uint, actor event.Actor, body string) *event.Event {
	return &event.Event{
		PublicID:   uuid.NewString(),
		OwnerID:    ownerID,
		ScopeID:    scopeID,
		QuestionID: questionID,
		Actor:      actor,
		Body:       body,
		CreatedAt:  time.Now().UTC(),
	}
}

func mergeMetadata(base map[string]any, overrides map[string]any) map[string]any {
	if base == nil && overrides == nil {
		return nil
	}
	merged := make(map[string]any, len(base)+len(overrides))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}
