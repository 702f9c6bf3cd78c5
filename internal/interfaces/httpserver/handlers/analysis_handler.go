package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"briefhq/intake-api/internal/domain/analysis"
	"briefhq/intake-api/internal/domain/catalog"
	"briefhq/intake-api/internal/infrastructure/metrics"
	"briefhq/intake-api/internal/interfaces/httpserver/requests"
	"briefhq/intake-api/internal/interfaces/httpserver/responses"
	"briefhq/intake-api/internal/utils/platformerrors"
)

// AnalysisHandler exposes the phase analysis snapshot store.
type AnalysisHandler struct {
	service analysis.Service
	gate    *accessGate
	log     zerolog.Logger
}

// NewAnalysisHandler constructs the handler.
func NewAnalysisHandler(service analysis.Service, gate *accessGate, log zerolog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		service: service,
		gate:    gate,
		log:     log.With().Str("handler", "analysis").Logger(),
	}
}

// Upsert handles POST /v1/conversations/phase-analysis
// @Summary Store a phase analysis snapshot
// @Description Upserts the snapshot for its (business, phase, type) slot
// @Tags Analysis
// @Accept json
// @Produce json
// @Param request body requests.PhaseAnalysisRequest true "Snapshot"
// @Success 200 {object} responses.SnapshotPayload
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/conversations/phase-analysis [post]
func (h *AnalysisHandler) Upsert(c *gin.Context) {
	var req requests.PhaseAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid analysis payload", "analysis-bad-payload")
		return
	}

	_, biz, err := h.gate.authorize(c, req.BusinessID, needAnswer)
	if err != nil {
		responses.HandleError(c, err, "failed to authorize analysis write")
		return
	}

	var generatedAt time.Time
	if req.GeneratedAt != nil {
		generatedAt = *req.GeneratedAt
	}

	snap, err := h.service.Upsert(c.Request.Context(), analysis.UpsertParams{
		OwnerID:     biz.OwnerID,
		ScopeID:     biz.PublicID,
		Phase:       catalog.Phase(req.Phase),
		Type:        req.Type,
		Name:        req.Name,
		Result:      req.Result,
		GeneratedAt: generatedAt,
	})
	if err != nil {
		responses.HandleError(c, err, "failed to store analysis snapshot")
		return
	}

	metrics.RecordAnalysisUpsert(snap.Phase.String(), snap.Type)
	c.JSON(http.StatusOK, responses.MapSnapshotsToResponse([]analysis.Snapshot{*snap})[0])
}

// List handles GET /v1/conversations/phase-analysis
// @Summary List phase analysis snapshots
// @Description Returns the latest snapshot per (phase, type) slot, grouped by phase
// @Tags Analysis
// @Produce json
// @Param business_id query string true "Business ID"
// @Param phase query string false "Phase filter"
// @Param analysis_type query string false "Analysis type filter"
// @Success 200 {object} map[string][]responses.SnapshotPayload
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/conversations/phase-analysis [get]
func (h *AnalysisHandler) List(c *gin.Context) {
	businessID := c.Query("business_id")
	if businessID == "" {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "business_id is required", "analysis-missing-business")
		return
	}

	var phase *catalog.Phase
	if raw := c.Query("phase"); raw != "" {
		p := catalog.Phase(raw)
		if !p.Valid() {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "unknown phase", "analysis-unknown-phase")
			return
		}
		phase = &p
	}

	_, biz, err := h.gate.authorize(c, businessID, needView)
	if err != nil {
		responses.HandleError(c, err, "failed to authorize analysis read")
		return
	}

	grouped, err := h.service.ListByScope(c.Request.Context(), biz.OwnerID, biz.PublicID, phase)
	if err != nil {
		responses.HandleError(c, err, "failed to list analysis snapshots")
		return
	}

	analysisType := c.Query("analysis_type")
	payload := make(map[string][]responses.SnapshotPayload, len(grouped))
	for p, snaps := range grouped {
		if analysisType != "" {
			filtered := snaps[:0:0]
			for _, s := range snaps {
				if s.Type == analysisType {
					filtered = append(filtered, s)
				}
			}
			if len(filtered) == 0 {
				continue
			}
			snaps = filtered
		}
		payload[p.String()] = responses.MapSnapshotsToResponse(snaps)
	}
	c.JSON(http.StatusOK, payload)
}
