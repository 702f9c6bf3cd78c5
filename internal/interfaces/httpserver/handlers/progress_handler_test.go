package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"briefhq/intake-api/internal/domain/analysis"
	"briefhq/intake-api/internal/domain/catalog"
	"briefhq/intake-api/internal/domain/conversation"
)

func sampleView() *conversation.ProgressView {
	next := uint(2)
	return &conversation.ProgressView{
		Conversation: []conversation.QuestionProgress{
			{QuestionID: 1, Text: "what do you sell?", Phase: catalog.PhaseInitial, Severity: catalog.SeverityMandatory, Order: 1, Status: conversation.StatusComplete},
			{QuestionID: 2, Text: "who buys it?", Phase: catalog.PhaseInitial, Severity: catalog.SeverityMandatory, Order: 2, Status: conversation.StatusUnanswered},
		},
		Phases: []conversation.PhaseProgress{
			{Phase: catalog.PhaseInitial},
			{Phase: catalog.PhaseEssential},
			{Phase: catalog.PhaseGood},
			{Phase: catalog.PhaseExcellent},
		},
		CurrentPhase:      catalog.PhaseInitial,
		NextQuestionID:    &next,
		TotalQuestions:    2,
		MandatoryTotal:    2,
		Answered:          1,
		MandatoryAnswered: 1,
		Completed:         1,
		Percentage:        50,
	}
}

func TestGetProgress_Handler(t *testing.T) {
	conversations := &MockConversationService{
		GetProgressFunc: func(ctx context.Context, ownerID, scopeID string) (*conversation.ProgressView, error) {
			if ownerID != "sub-owner" || scopeID != "biz-1" {
				t.Errorf("scope = %s/%s, want sub-owner/biz-1", ownerID, scopeID)
			}
			return sampleView(), nil
		},
	}
	analyses := &MockAnalysisService{
		ListByScopeFunc: func(ctx context.Context, ownerID, scopeID string, phase *catalog.Phase) (map[catalog.Phase][]analysis.Snapshot, error) {
			return map[catalog.Phase][]analysis.Snapshot{
				catalog.PhaseInitial: {{Phase: catalog.PhaseInitial, Type: "summary", GeneratedAt: time.Now()}},
			}, nil
		},
	}
	router := setupTestRouter(conversations, analyses, knownBusinesses(), "sub-owner")

	w := doJSON(t, router, http.MethodGet, "/v1/progress?business_id=biz-1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if payload["business_id"] != "biz-1" {
		t.Errorf("business_id = %v, want biz-1", payload["business_id"])
	}
	if payload["percentage"] != float64(50) {
		t.Errorf("percentage = %v, want 50", payload["percentage"])
	}
	if payload["next_question_id"] != float64(2) {
		t.Errorf("next_question_id = %v, want 2", payload["next_question_id"])
	}
	if payload["phase"] != "initial" {
		t.Errorf("phase = %v, want initial", payload["phase"])
	}
	if _, ok := payload["phase_analysis"].(map[string]interface{}); !ok {
		t.Errorf("phase_analysis missing from %v", payload)
	}
}

func TestGetProgress_AnalysisFailureDoesNotBlock(t *testing.T) {
	conversations := &MockConversationService{
		GetProgressFunc: func(ctx context.Context, ownerID, scopeID string) (*conversation.ProgressView, error) {
			return sampleView(), nil
		},
	}
	analyses := &MockAnalysisService{
		ListByScopeFunc: func(ctx context.Context, ownerID, scopeID string, phase *catalog.Phase) (map[catalog.Phase][]analysis.Snapshot, error) {
			return nil, errors.New("snapshot store down")
		},
	}
	router := setupTestRouter(conversations, analyses, knownBusinesses(), "sub-owner")

	w := doJSON(t, router, http.MethodGet, "/v1/progress?business_id=biz-1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 despite the snapshot failure: %s", w.Code, w.Body.String())
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if _, ok := payload["phase_analysis"]; ok {
		t.Error("phase_analysis should be omitted when the merge is skipped")
	}
}

func TestGetProgress_Validation(t *testing.T) {
	router := setupTestRouter(&MockConversationService{}, &MockAnalysisService{}, knownBusinesses(), "sub-owner")

	w := doJSON(t, router, http.MethodGet, "/v1/progress", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 without business_id", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/v1/progress?business_id=biz-missing", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for an unknown business", w.Code)
	}
}
