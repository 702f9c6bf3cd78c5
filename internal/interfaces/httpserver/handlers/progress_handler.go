package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"briefhq/intake-api/internal/domain/analysis"
	"briefhq/intake-api/internal/domain/conversation"
	"briefhq/intake-api/internal/interfaces/httpserver/responses"
	"briefhq/intake-api/internal/utils/platformerrors"
)

// ProgressHandler exposes the reconstructed progress view.
type ProgressHandler struct {
	conversations conversation.Service
	analyses      analysis.Service
	gate          *accessGate
	log           zerolog.Logger
}

// NewProgressHandler constructs the handler.
func NewProgressHandler(conversations conversation.Service, analyses analysis.Service, gate *accessGate, log zerolog.Logger) *ProgressHandler {
	return &ProgressHandler{
		conversations: conversations,
		analyses:      analyses,
		gate:          gate,
		log:           log.With().Str("handler", "progress").Logger(),
	}
}

// Get handles GET /v1/progress
// @Summary Get questionnaire progress
// @Description Rebuilds the full progress view for a business from its event log
// @Tags Progress
// @Produce json
// @Param business_id query string true "Business ID"
// @Success 200 {object} responses.ProgressPayload
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/progress [get]
func (h *ProgressHandler) Get(c *gin.Context) {
	businessID := c.Query("business_id")
	if businessID == "" {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "business_id is required", "progress-missing-business")
		return
	}

	_, biz, err := h.gate.authorize(c, businessID, needView)
	if err != nil {
		responses.HandleError(c, err, "failed to authorize progress read")
		return
	}

	view, err := h.conversations.GetProgress(c.Request.Context(), biz.OwnerID, biz.PublicID)
	if err != nil {
		responses.HandleError(c, err, "failed to rebuild progress")
		return
	}

	analyses, err := h.analyses.ListByScope(c.Request.Context(), biz.OwnerID, biz.PublicID, nil)
	if err != nil {
		// Snapshots enrich the view; their absence never blocks it.
		h.log.Warn().Err(err).Str("business_id", businessID).Msg("analysis merge skipped")
		analyses = nil
	}

	c.JSON(http.StatusOK, responses.MapProgressToResponse(biz.PublicID, view, analyses))
}
