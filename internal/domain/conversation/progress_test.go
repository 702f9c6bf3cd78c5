package conversation

import (
	"testing"
	"time"

	"briefhq/intake-api/internal/domain/catalog"
	"briefhq/intake-api/internal/domain/event"
)

var testBase = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func q(id uint, phase catalog.Phase, severity catalog.Severity, order int) catalog.Question {
	return catalog.Question{
		ID:       id,
		Text:     "question",
		Phase:    phase,
		Severity: severity,
		Order:    order,
		Active:   true,
	}
}

func answerEvent(seq int, questionID uint, body string) event.Event {
	qid := questionID
	return event.Event{
		PublicID:   "ev-" + string(rune('a'+seq)),
		OwnerID:    "owner-1",
		ScopeID:    "biz-1",
		QuestionID: &qid,
		Actor:      event.ActorUser,
		Body:       body,
		CreatedAt:  testBase.Add(time.Duration(seq) * time.Minute),
	}
}

func skipEvent(seq int, questionID uint) event.Event {
	ev := answerEvent(seq, questionID, event.SkipSentinel)
	ev.Metadata = map[string]any{event.MetaIsSkip: true, event.MetaIsComplete: true}
	return ev
}

func botEvent(seq int, questionID uint, body string) event.Event {
	ev := answerEvent(seq, questionID, body)
	ev.Actor = event.ActorBot
	return ev
}

func TestBuildProgress_Counters(t *testing.T) {
	questions := []catalog.Question{
		q(1, catalog.PhaseInitial, catalog.SeverityMandatory, 1),
		q(2, catalog.PhaseInitial, catalog.SeverityMandatory, 2),
	}

	t.Run("no events", func(t *testing.T) {
		view := BuildProgress(questions, nil)
		if view.Percentage != 0 {
			t.Errorf("Percentage = %d, want 0", view.Percentage)
		}
		if view.Answered != 0 || view.MandatoryAnswered != 0 {
			t.Errorf("Answered = %d, MandatoryAnswered = %d, want 0/0", view.Answered, view.MandatoryAnswered)
		}
		if view.NextQuestionID == nil || *view.NextQuestionID != 1 {
			t.Errorf("NextQuestionID = %v, want 1", view.NextQuestionID)
		}
	})

	t.Run("half answered", func(t *testing.T) {
		view := BuildProgress(questions, []event.Event{answerEvent(0, 1, "first answer")})
		if view.Percentage != 50 {
			t.Errorf("Percentage = %d, want 50", view.Percentage)
		}
		if view.NextQuestionID == nil || *view.NextQuestionID != 2 {
			t.Errorf("NextQuestionID = %v, want 2", view.NextQuestionID)
		}
	})

	t.Run("one answered one skipped", func(t *testing.T) {
		view := BuildProgress(questions, []event.Event{
			answerEvent(0, 1, "first answer"),
			skipEvent(1, 2),
		})
		if view.Percentage != 100 {
			t.Errorf("Percentage = %d, want 100", view.Percentage)
		}
		if view.Completed != 1 || view.Skipped != 1 {
			t.Errorf("Completed = %d, Skipped = %d, want 1/1", view.Completed, view.Skipped)
		}
		if view.NextQuestionID != nil {
			t.Errorf("NextQuestionID = %v, want nil", *view.NextQuestionID)
		}
	})
}

func TestBuildProgress_PercentageRounding(t *testing.T) {
	questions := []catalog.Question{
		q(1, catalog.PhaseInitial, catalog.SeverityMandatory, 1),
		q(2, catalog.PhaseInitial, catalog.SeverityMandatory, 2),
		q(3, catalog.PhaseInitial, catalog.SeverityMandatory, 3),
	}

	view := BuildProgress(questions, []event.Event{answerEvent(0, 1, "answer")})
	// 100/3 rounds to 33
	if view.Percentage != 33 {
		t.Errorf("Percentage = %d, want 33", view.Percentage)
	}

	view = BuildProgress(questions, []event.Event{
		answerEvent(0, 1, "answer"),
		answerEvent(1, 2, "answer"),
	})
	// 200/3 rounds to 67
	if view.Percentage != 67 {
		t.Errorf("Percentage = %d, want 67", view.Percentage)
	}
}

func TestBuildProgress_OptionalQuestionsDoNotGate(t *testing.T) {
	questions := []catalog.Question{
		q(1, catalog.PhaseInitial, catalog.SeverityMandatory, 1),
		q(2, catalog.PhaseInitial, catalog.SeverityOptional, 2),
	}

	view := BuildProgress(questions, []event.Event{answerEvent(0, 1, "answer")})
	if view.Percentage != 100 {
		t.Errorf("Percentage = %d, want 100 (optional excluded)", view.Percentage)
	}
	if !view.Phases[0].Complete {
		t.Error("initial phase should be complete with only the mandatory question answered")
	}
	// The optional question is still the next unanswered one.
	if view.NextQuestionID == nil || *view.NextQuestionID != 2 {
		t.Errorf("NextQuestionID = %v, want 2", view.NextQuestionID)
	}
}

func TestBuildProgress_MainAnswerSelection(t *testing.T) {
	questions := []catalog.Question{q(1, catalog.PhaseInitial, catalog.SeverityMandatory, 1)}

	t.Run("skip then answer prefers the answer", func(t *testing.T) {
		view := BuildProgress(questions, []event.Event{
			skipEvent(0, 1),
			answerEvent(1, 1, "real answer"),
		})
		qp := view.Conversation[0]
		if qp.Status != StatusComplete {
			t.Errorf("Status = %s, want complete", qp.Status)
		}
		if qp.IsSkipped {
			t.Error("IsSkipped should be false once a real answer exists")
		}
		if !qp.Flow[1].IsLatest || qp.Flow[0].IsLatest {
			t.Error("IsLatest should tag the real answer, not the skip")
		}
	})

	t.Run("answer then skip keeps the answer as main", func(t *testing.T) {
		view := BuildProgress(questions, []event.Event{
			answerEvent(0, 1, "real answer"),
			skipEvent(1, 1),
		})
		qp := view.Conversation[0]
		if qp.Status != StatusComplete {
			t.Errorf("Status = %s, want complete", qp.Status)
		}
		if !qp.Flow[0].IsLatest {
			t.Error("the real answer stays the main answer")
		}
	})

	t.Run("only skips", func(t *testing.T) {
		view := BuildProgress(questions, []event.Event{skipEvent(0, 1)})
		qp := view.Conversation[0]
		if qp.Status != StatusSkipped || !qp.IsSkipped {
			t.Errorf("Status = %s IsSkipped = %v, want skipped/true", qp.Status, qp.IsSkipped)
		}
		if !qp.HasMainAnswer() {
			t.Error("a skip satisfies the main-answer requirement")
		}
	})

	t.Run("bot prompt only is incomplete", func(t *testing.T) {
		view := BuildProgress(questions, []event.Event{botEvent(0, 1, "please answer")})
		if view.Conversation[0].Status != StatusIncomplete {
			t.Errorf("Status = %s, want incomplete", view.Conversation[0].Status)
		}
	})
}

func TestBuildProgress_Ordering(t *testing.T) {
	questions := []catalog.Question{
		q(10, catalog.PhaseEssential, catalog.SeverityMandatory, 1),
		q(11, catalog.PhaseInitial, catalog.SeverityMandatory, 2),
		q(12, catalog.PhaseInitial, catalog.SeverityMandatory, 1),
	}

	view := BuildProgress(questions, nil)
	got := []uint{view.Conversation[0].QuestionID, view.Conversation[1].QuestionID, view.Conversation[2].QuestionID}
	want := []uint{12, 11, 10}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestBuildProgress_PhaseWalk(t *testing.T) {
	questions := []catalog.Question{
		q(1, catalog.PhaseInitial, catalog.SeverityMandatory, 1),
		q(2, catalog.PhaseEssential, catalog.SeverityMandatory, 1),
		q(3, catalog.PhaseGood, catalog.SeverityMandatory, 1),
	}

	t.Run("later answers never skip the walk", func(t *testing.T) {
		// Essential and good answered, initial not: the walk stops at initial
		// and must not mark the later phases complete.
		view := BuildProgress(questions, []event.Event{
			answerEvent(0, 2, "answer"),
			answerEvent(1, 3, "answer"),
		})
		if view.CurrentPhase != catalog.PhaseInitial {
			t.Errorf("CurrentPhase = %s, want initial", view.CurrentPhase)
		}
		for _, pp := range view.Phases {
			if pp.Complete {
				t.Errorf("phase %s marked complete behind an incomplete earlier phase", pp.Phase)
			}
		}
	})

	t.Run("phase without mandatory questions stops the walk", func(t *testing.T) {
		view := BuildProgress(questions, []event.Event{
			answerEvent(0, 1, "answer"),
			answerEvent(1, 2, "answer"),
			answerEvent(2, 3, "answer"),
		})
		// Excellent has no mandatory questions, so it cannot complete and
		// becomes the current phase.
		if view.CurrentPhase != catalog.PhaseExcellent {
			t.Errorf("CurrentPhase = %s, want excellent", view.CurrentPhase)
		}
		if !view.Phases[0].Complete || !view.Phases[1].Complete || !view.Phases[2].Complete {
			t.Error("initial, essential, good should be complete")
		}
		if view.Phases[3].Complete {
			t.Error("excellent has no mandatory questions and cannot be complete")
		}
	})
}

func TestBuildProgress_Placeholders(t *testing.T) {
	questions := []catalog.Question{q(1, catalog.PhaseInitial, catalog.SeverityMandatory, 1)}

	ghost := answerEvent(0, 99, "answer to a removed question")
	ghost.QuestionText = "what was your old tagline?"
	ghost.QuestionPhase = catalog.PhaseInitial

	view := BuildProgress(questions, []event.Event{ghost, answerEvent(1, 1, "answer")})

	if len(view.Conversation) != 2 {
		t.Fatalf("Conversation length = %d, want 2", len(view.Conversation))
	}

	// The placeholder sorts after the catalog question of the same phase.
	ph := view.Conversation[1]
	if ph.QuestionID != 99 || !ph.IsDeleted {
		t.Fatalf("expected synthesized placeholder for question 99 last, got %+v", ph)
	}
	if ph.Text != "what was your old tagline?" {
		t.Errorf("placeholder text = %q, want event snapshot", ph.Text)
	}
	if ph.Status != StatusComplete {
		t.Errorf("placeholder status = %s, want complete", ph.Status)
	}

	// Placeholders never count.
	if view.TotalQuestions != 1 {
		t.Errorf("TotalQuestions = %d, want 1", view.TotalQuestions)
	}
	if view.Answered != 1 {
		t.Errorf("Answered = %d, want 1 (placeholders excluded)", view.Answered)
	}
	if view.Percentage != 100 {
		t.Errorf("Percentage = %d, want 100", view.Percentage)
	}
}

func TestBuildProgress_EditedFlow(t *testing.T) {
	questions := []catalog.Question{q(1, catalog.PhaseInitial, catalog.SeverityMandatory, 1)}

	edited := answerEvent(0, 1, "final answer")
	edited.Metadata = map[string]any{event.MetaIsEdit: true, event.MetaIsComplete: true}

	view := BuildProgress(questions, []event.Event{edited})
	qp := view.Conversation[0]
	if len(qp.Flow) != 1 {
		t.Fatalf("Flow length = %d, want 1", len(qp.Flow))
	}
	if !qp.Flow[0].IsEdited || !qp.Flow[0].IsLatest {
		t.Error("the edit replacement should be tagged edited and latest")
	}
	if qp.Status != StatusComplete {
		t.Errorf("Status = %s, want complete", qp.Status)
	}
}

func TestBuildProgress_FreestandingMessages(t *testing.T) {
	questions := []catalog.Question{q(1, catalog.PhaseInitial, catalog.SeverityMandatory, 1)}

	loose := event.Event{
		PublicID:  "ev-loose",
		OwnerID:   "owner-1",
		ScopeID:   "biz-1",
		Actor:     event.ActorBot,
		Body:      "welcome to the intake",
		CreatedAt: testBase,
	}

	view := BuildProgress(questions, []event.Event{loose})
	if len(view.Messages) != 1 || view.Messages[0].Body != "welcome to the intake" {
		t.Fatalf("Messages = %+v, want the free-standing bot message", view.Messages)
	}
	if len(view.Conversation) != 1 || view.Conversation[0].Status != StatusUnanswered {
		t.Error("free-standing messages must not touch question state")
	}
}

func TestBuildProgress_Deterministic(t *testing.T) {
	questions := []catalog.Question{
		q(1, catalog.PhaseInitial, catalog.SeverityMandatory, 1),
		q(2, catalog.PhaseEssential, catalog.SeverityOptional, 1),
	}
	events := []event.Event{
		answerEvent(0, 1, "a"),
		skipEvent(1, 2),
		botEvent(2, 1, "followup"),
	}

	first := BuildProgress(questions, events)
	for i := 0; i < 5; i++ {
		next := BuildProgress(questions, events)
		if len(next.Conversation) != len(first.Conversation) {
			t.Fatal("conversation length changed between rebuilds")
		}
		for j := range next.Conversation {
			if next.Conversation[j].QuestionID != first.Conversation[j].QuestionID ||
				next.Conversation[j].Status != first.Conversation[j].Status {
				t.Fatal("rebuild produced a different view for identical inputs")
			}
		}
		if next.Percentage != first.Percentage || next.CurrentPhase != first.CurrentPhase {
			t.Fatal("rebuild produced different aggregates for identical inputs")
		}
	}
}
