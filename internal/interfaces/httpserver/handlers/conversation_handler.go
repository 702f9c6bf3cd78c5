package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"briefhq/intake-api/internal/domain/analysis"
	"briefhq/intake-api/internal/domain/conversation"
	"briefhq/intake-api/internal/interfaces/httpserver/requests"
	"briefhq/intake-api/internal/interfaces/httpserver/responses"
	"briefhq/intake-api/internal/utils/platformerrors"
)

// ConversationHandler exposes the conversation write path.
type ConversationHandler struct {
	service  conversation.Service
	analyses analysis.Service
	gate     *accessGate
	log      zerolog.Logger
}

// NewConversationHandler constructs the handler.
func NewConversationHandler(service conversation.Service, analyses analysis.Service, gate *accessGate, log zerolog.Logger) *ConversationHandler {
	return &ConversationHandler{
		service:  service,
		analyses: analyses,
		gate:     gate,
		log:      log.With().Str("handler", "conversation").Logger(),
	}
}

// Submit handles POST /v1/conversations
// @Summary Submit a conversation message
// @Description Records a user answer, a bot message, or an answer edit when the metadata carries the edit flag
// @Tags Conversations
// @Accept json
// @Produce json
// @Param request body requests.SubmitConversationRequest true "Submission"
// @Success 201 {object} responses.EventPayload
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/conversations [post]
func (h *ConversationHandler) Submit(c *gin.Context) {
	var req requests.SubmitConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid submission payload", "conversation-bad-payload")
		return
	}

	_, biz, err := h.gate.authorize(c, req.BusinessID, needAnswer)
	if err != nil {
		responses.HandleError(c, err, "failed to authorize submission")
		return
	}

	ev, err := h.service.Submit(c.Request.Context(), conversation.SubmitParams{
		OwnerID:     biz.OwnerID,
		ScopeID:     biz.PublicID,
		QuestionID:  req.QuestionID,
		AnswerText:  req.AnswerText,
		MessageText: req.MessageText,
		IsComplete:  req.IsComplete,
		Metadata:    req.Metadata,
	})
	if err != nil {
		responses.HandleError(c, err, "failed to record submission")
		return
	}

	c.JSON(http.StatusCreated, responses.MapEventToResponse(ev))
}

// BulkEdit handles POST /v1/conversations/bulk
// @Summary Bulk edit answers
// @Description Replaces the answers of several questions; each item is independently atomic
// @Tags Conversations
// @Accept json
// @Produce json
// @Param request body requests.BulkEditRequest true "Bulk edit"
// @Success 200 {array} responses.EventPayload
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/conversations/bulk [post]
func (h *ConversationHandler) BulkEdit(c *gin.Context) {
	var req requests.BulkEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid bulk edit payload", "bulk-edit-bad-payload")
		return
	}

	_, biz, err := h.gate.authorize(c, req.BusinessID, needAnswer)
	if err != nil {
		responses.HandleError(c, err, "failed to authorize bulk edit")
		return
	}

	items := make([]conversation.BulkEditItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = conversation.BulkEditItem{
			QuestionID: item.QuestionID,
			AnswerText: item.AnswerText,
			IsComplete: item.IsComplete,
		}
	}

	applied, err := h.service.BulkEdit(c.Request.Context(), biz.OwnerID, biz.PublicID, items)
	if err != nil {
		responses.HandleError(c, err, "failed to apply bulk edit")
		return
	}

	payload := make([]responses.EventPayload, len(applied))
	for i, ev := range applied {
		payload[i] = responses.MapEventToResponse(ev)
	}
	c.JSON(http.StatusOK, payload)
}

// Skip handles POST /v1/conversations/skip
// @Summary Skip a question
// @Description Marks the question as skipped; a later real answer supersedes the skip
// @Tags Conversations
// @Accept json
// @Produce json
// @Param request body requests.SkipQuestionRequest true "Skip request"
// @Success 201 {object} responses.EventPayload
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/conversations/skip [post]
func (h *ConversationHandler) Skip(c *gin.Context) {
	var req requests.SkipQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid skip payload", "skip-bad-payload")
		return
	}

	_, biz, err := h.gate.authorize(c, req.BusinessID, needAnswer)
	if err != nil {
		responses.HandleError(c, err, "failed to authorize skip")
		return
	}

	ev, err := h.service.Skip(c.Request.Context(), biz.OwnerID, biz.PublicID, req.QuestionID)
	if err != nil {
		responses.HandleError(c, err, "failed to skip question")
		return
	}

	c.JSON(http.StatusCreated, responses.MapEventToResponse(ev))
}

// Followup handles POST /v1/conversations/followup-question
// @Summary Record a follow-up question
// @Description Appends a bot follow-up prompt to a question's flow
// @Tags Conversations
// @Accept json
// @Produce json
// @Param request body requests.FollowupQuestionRequest true "Follow-up"
// @Success 201 {object} responses.EventPayload
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/conversations/followup-question [post]
func (h *ConversationHandler) Followup(c *gin.Context) {
	var req requests.FollowupQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid follow-up payload", "followup-bad-payload")
		return
	}

	_, biz, err := h.gate.authorize(c, req.BusinessID, needAnswer)
	if err != nil {
		responses.HandleError(c, err, "failed to authorize follow-up")
		return
	}

	ev, err := h.service.AddFollowup(c.Request.Context(), biz.OwnerID, biz.PublicID, req.QuestionID, req.MessageText)
	if err != nil {
		responses.HandleError(c, err, "failed to record follow-up")
		return
	}

	c.JSON(http.StatusCreated, responses.MapEventToResponse(ev))
}

// Purge handles DELETE /v1/conversations
// @Summary Purge a conversation
// @Description Irreversibly deletes every event and analysis snapshot for the business
// @Tags Conversations
// @Accept json
// @Produce json
// @Param request body requests.PurgeConversationRequest true "Purge request"
// @Success 200 {object} responses.PurgePayload
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/conversations [delete]
func (h *ConversationHandler) Purge(c *gin.Context) {
	var req requests.PurgeConversationRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid purge payload", "purge-bad-payload")
			return
		}
	}

	businessID := req.BusinessID
	if businessID == "" {
		// Query form kept for clients that cannot send a DELETE body.
		businessID = c.Query("business_id")
	}
	if businessID == "" {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "business_id is required", "purge-missing-business")
		return
	}

	_, biz, err := h.gate.authorize(c, businessID, needAdmin)
	if err != nil {
		responses.HandleError(c, err, "failed to authorize purge")
		return
	}

	removed, err := h.service.Purge(c.Request.Context(), biz.OwnerID, biz.PublicID)
	if err != nil {
		responses.HandleError(c, err, "failed to purge conversation")
		return
	}

	snapshots, err := h.analyses.PurgeScope(c.Request.Context(), biz.OwnerID, biz.PublicID)
	if err != nil {
		// Events are already gone; report the purge and let the orphaned
		// snapshots surface in logs.
		h.log.Warn().Err(err).Str("business_id", businessID).Msg("snapshot purge failed")
	} else if snapshots > 0 {
		h.log.Info().Str("business_id", businessID).Int64("snapshots", snapshots).Msg("snapshots purged")
	}

	c.JSON(http.StatusOK, responses.PurgePayload{BusinessID: biz.PublicID, Removed: removed})
}
