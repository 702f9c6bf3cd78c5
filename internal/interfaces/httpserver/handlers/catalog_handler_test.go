package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"briefhq/intake-api/internal/domain/catalog"
	"briefhq/intake-api/internal/interfaces/httpserver/handlers"
)

func setupCatalogRouter(reader catalog.Reader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := handlers.NewCatalogHandler(reader, zerolog.Nop())
	router.GET("/v1/questions", handler.List)
	return router
}

func TestListQuestions(t *testing.T) {
	reader := &MockCatalogReader{
		ListFunc: func(ctx context.Context, filter catalog.Filter) ([]catalog.Question, error) {
			if filter.Active == nil || !*filter.Active {
				t.Errorf("filter.Active = %v, want true", filter.Active)
			}
			return []catalog.Question{
				{ID: 1, Text: "what do you sell?", Phase: catalog.PhaseInitial, Severity: catalog.SeverityMandatory, Order: 1, Active: true},
			}, nil
		},
	}
	router := setupCatalogRouter(reader)

	req, _ := http.NewRequest(http.MethodGet, "/v1/questions?active=true", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var payload []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(payload) != 1 || payload[0]["id"] != float64(1) {
		t.Errorf("payload = %v", payload)
	}
}

func TestListQuestions_ThroughExpandsPhases(t *testing.T) {
	reader := &MockCatalogReader{
		ListFunc: func(ctx context.Context, filter catalog.Filter) ([]catalog.Question, error) {
			want := []catalog.Phase{catalog.PhaseInitial, catalog.PhaseEssential}
			if len(filter.Phases) != len(want) {
				t.Fatalf("phases = %v, want %v", filter.Phases, want)
			}
			for i := range want {
				if filter.Phases[i] != want[i] {
					t.Fatalf("phases = %v, want %v", filter.Phases, want)
				}
			}
			return nil, nil
		},
	}
	router := setupCatalogRouter(reader)

	req, _ := http.NewRequest(http.MethodGet, "/v1/questions?through=essential", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
}

func TestListQuestions_BadFilters(t *testing.T) {
	router := setupCatalogRouter(&MockCatalogReader{})

	for _, path := range []string{
		"/v1/questions?active=maybe",
		"/v1/questions?through=mystery",
		"/v1/questions?phases=initial,mystery",
	} {
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, w.Code)
		}
	}
}
