package conversation

import (
	"math"
	"sort"

	"briefhq/intake-api/internal/domain/catalog"
	"briefhq/intake-api/internal/domain/event"
)

// placeholderOrder pushes synthesized placeholders behind every catalog
// question of the same phase.
const placeholderOrder = math.MaxInt32

// BuildProgress reconstructs the full progress view from a catalog snapshot
// and the owner+scope event slice. It is a pure function: same inputs, same
// view, no side effects.
//
// questions must be the active catalog ordered by (order asc, id asc);
// events must be ordered by (created_at asc, id asc).
func BuildProgress(questions []catalog.Question, events []event.Event) *ProgressView {
	grouped, freestanding := groupByQuestion(events)

	view := &ProgressView{
		Conversation: make([]QuestionProgress, 0, len(questions)),
		Messages:     freestanding,
	}

	known := make(map[uint]struct{}, len(questions))
	for _, q := range questions {
		known[q.ID] = struct{}{}
		view.Conversation = append(view.Conversation, buildQuestionProgress(q, grouped[q.ID]))
	}

	// Events referencing questions missing from the active catalog surface as
	// placeholders built from the event-time snapshot.
	for _, qid := range groupKeys(grouped) {
		if _, ok := known[qid]; ok {
			continue
		}
		view.Conversation = append(view.Conversation, buildPlaceholderProgress(qid, grouped[qid]))
	}

	sortConversation(view.Conversation)

	computeCounters(view, questions)
	computePhases(view, questions)
	computeNextQuestion(view, questions)

	return view
}

// groupByQuestion splits the event slice into per-question groups plus the
// free-standing bot messages. Input order (created_at asc) is preserved
// within each group.
func groupByQuestion(events []event.Event) (map[uint][]event.Event, []FlowEntry) {
	grouped := make(map[uint][]event.Event)
	var freestanding []FlowEntry
	for _, ev := range events {
		if ev.QuestionID == nil {
			freestanding = append(freestanding, FlowEntry{
				EventID:    ev.PublicID,
				Actor:      ev.Actor,
				Body:       ev.Body,
				IsFollowup: ev.IsFollowup,
				CreatedAt:  ev.CreatedAt,
			})
			continue
		}
		grouped[*ev.QuestionID] = append(grouped[*ev.QuestionID], ev)
	}
	return grouped, freestanding
}

func groupKeys(grouped map[uint][]event.Event) []uint {
	keys := make([]uint, 0, len(grouped))
	for qid := range grouped {
		keys = append(keys, qid)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func buildQuestionProgress(q catalog.Question, evs []event.Event) QuestionProgress {
	qp := QuestionProgress{
		QuestionID: q.ID,
		Text:       q.Text,
		Phase:      q.Phase,
		Severity:   q.Severity,
		Order:      q.Order,
	}
	fillFromEvents(&qp, evs)
	return qp
}

// buildPlaceholderProgress synthesizes a question from the event snapshots
// when the catalog no longer carries it.
func buildPlaceholderProgress(qid uint, evs []event.Event) QuestionProgress {
	qp := QuestionProgress{
		QuestionID: qid,
		Severity:   catalog.SeverityOptional,
		Order:      placeholderOrder,
		IsDeleted:  true,
	}
	// The latest non-empty snapshot wins; events are chronological.
	for _, ev := range evs {
		if ev.QuestionText != "" {
			qp.Text = ev.QuestionText
		}
		if ev.QuestionPhase != "" {
			qp.Phase = ev.QuestionPhase
		}
	}
	fillFromEvents(&qp, evs)
	return qp
}

// fillFromEvents classifies the group's events and derives question status
// and the tagged conversation flow.
func fillFromEvents(qp *QuestionProgress, evs []event.Event) {
	if len(evs) == 0 {
		qp.Status = StatusUnanswered
		return
	}

	// The main answer is the most recent real answer, or, if none, the most
	// recent skip marker. Events arrive ordered created_at asc so the last
	// match wins.
	mainIdx := -1
	hasRealAnswer := false
	hasSkip := false
	for i, ev := range evs {
		switch {
		case ev.IsAnswer():
			hasRealAnswer = true
			mainIdx = i
		case ev.IsSkip():
			hasSkip = true
			if !hasRealAnswer {
				mainIdx = i
			}
		}
	}

	switch {
	case hasRealAnswer:
		qp.Status = StatusComplete
	case hasSkip:
		qp.Status = StatusSkipped
		qp.IsSkipped = true
	default:
		qp.Status = StatusIncomplete
	}

	qp.Flow = make([]FlowEntry, len(evs))
	for i, ev := range evs {
		qp.Flow[i] = FlowEntry{
			EventID:    ev.PublicID,
			Actor:      ev.Actor,
			Body:       ev.Body,
			IsFollowup: ev.IsFollowup,
			IsLatest:   i == mainIdx,
			IsEdited:   ev.IsEdit(),
			IsSkip:     ev.IsSkip(),
			CreatedAt:  ev.CreatedAt,
		}
	}
}

// sortConversation orders the view by (phase canonical index, order, id).
// The id tie-break keeps ordering stable regardless of backend row order.
func sortConversation(conv []QuestionProgress) {
	sort.SliceStable(conv, func(i, j int) bool {
		a, b := conv[i], conv[j]
		if ai, bi := a.Phase.Index(), b.Phase.Index(); ai != bi {
			return ai < bi
		}
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.QuestionID < b.QuestionID
	})
}

// computeCounters derives aggregate counts over the catalog; placeholders are
// surfaced in the conversation but never counted.
func computeCounters(view *ProgressView, questions []catalog.Question) {
	view.TotalQuestions = len(questions)

	state := stateByQuestion(view)
	for _, q := range questions {
		qp := state[q.ID]
		if q.IsMandatory() {
			view.MandatoryTotal++
		}
		if qp == nil {
			continue
		}
		if qp.HasMainAnswer() {
			view.Answered++
			if q.IsMandatory() {
				view.MandatoryAnswered++
			}
		}
		switch qp.Status {
		case StatusComplete:
			view.Completed++
		case StatusSkipped:
			view.Skipped++
		}
	}

	if view.MandatoryTotal > 0 {
		view.Percentage = int(math.Round(100 * float64(view.MandatoryAnswered) / float64(view.MandatoryTotal)))
	}
}

// computePhases walks the canonical phase order. A phase is complete only
// when it has mandatory questions and all of them carry a main answer; the
// walk stops at the first phase that fails, which becomes the current phase.
// Later phases are never marked complete even if coincidentally satisfied.
func computePhases(view *ProgressView, questions []catalog.Question) {
	state := stateByQuestion(view)
	view.Phases = make([]PhaseProgress, 0, len(catalog.PhaseOrder))

	current := catalog.PhaseOrder[len(catalog.PhaseOrder)-1]
	stopped := false
	for _, phase := range catalog.PhaseOrder {
		complete := false
		if !stopped {
			mandatory, answered := 0, 0
			for _, q := range questions {
				if q.Phase != phase || !q.IsMandatory() {
					continue
				}
				mandatory++
				if qp := state[q.ID]; qp != nil && qp.HasMainAnswer() {
					answered++
				}
			}
			if mandatory > 0 && answered == mandatory {
				complete = true
			} else {
				current = phase
				stopped = true
			}
		}
		view.Phases = append(view.Phases, PhaseProgress{Phase: phase, Complete: complete})
	}

	view.CurrentPhase = current
}

// computeNextQuestion finds the first catalog question, in reconstructed
// order, without a main answer.
func computeNextQuestion(view *ProgressView, questions []catalog.Question) {
	catalogIDs := make(map[uint]struct{}, len(questions))
	for _, q := range questions {
		catalogIDs[q.ID] = struct{}{}
	}
	for i := range view.Conversation {
		qp := &view.Conversation[i]
		if _, inCatalog := catalogIDs[qp.QuestionID]; !inCatalog {
			continue
		}
		if !qp.HasMainAnswer() {
			id := qp.QuestionID
			view.NextQuestionID = &id
			return
		}
	}
}

func stateByQuestion(view *ProgressView) map[uint]*QuestionProgress {
	state := make(map[uint]*QuestionProgress, len(view.Conversation))
	for i := range view.Conversation {
		state[view.Conversation[i].QuestionID] = &view.Conversation[i]
	}
	return state
}
