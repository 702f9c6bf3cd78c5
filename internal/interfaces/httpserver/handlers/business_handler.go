package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"briefhq/intake-api/internal/domain/business"
	"briefhq/intake-api/internal/infrastructure/auth"
	"briefhq/intake-api/internal/interfaces/httpserver/requests"
	"briefhq/intake-api/internal/interfaces/httpserver/responses"
	"briefhq/intake-api/internal/utils/platformerrors"
)

// BusinessHandler manages questionnaire scopes.
type BusinessHandler struct {
	businesses business.Repository
	log        zerolog.Logger
}

// NewBusinessHandler constructs the handler.
func NewBusinessHandler(businesses business.Repository, log zerolog.Logger) *BusinessHandler {
	return &BusinessHandler{
		businesses: businesses,
		log:        log.With().Str("handler", "business").Logger(),
	}
}

// Create handles POST /v1/businesses
// @Summary Create a business
// @Description Creates a questionnaire scope owned by the caller
// @Tags Businesses
// @Accept json
// @Produce json
// @Param request body requests.CreateBusinessRequest true "Business"
// @Success 201 {object} responses.BusinessPayload
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/businesses [post]
func (h *BusinessHandler) Create(c *gin.Context) {
	principal := auth.PrincipalFromContext(c)
	if principal == nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "caller identity is missing", "business-no-principal")
		return
	}

	var req requests.CreateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid business payload", "business-bad-payload")
		return
	}

	biz := &business.Business{
		PublicID:      uuid.NewString(),
		OwnerID:       principal.Subject,
		Name:          req.Name,
		Collaborators: req.Collaborators,
	}
	if err := h.businesses.Create(c.Request.Context(), biz); err != nil {
		responses.HandleError(c, err, "failed to create business")
		return
	}

	h.log.Info().Str("business_id", biz.PublicID).Str("owner_id", biz.OwnerID).Msg("business created")
	c.JSON(http.StatusCreated, responses.MapBusinessToResponse(biz))
}

// List handles GET /v1/businesses
// @Summary List the caller's businesses
// @Description Lists businesses owned by the caller, newest first
// @Tags Businesses
// @Produce json
// @Success 200 {array} responses.BusinessPayload
// @Failure 401 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/businesses [get]
func (h *BusinessHandler) List(c *gin.Context) {
	principal := auth.PrincipalFromContext(c)
	if principal == nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "caller identity is missing", "business-no-principal")
		return
	}

	owned, err := h.businesses.ListByOwner(c.Request.Context(), principal.Subject)
	if err != nil {
		responses.HandleError(c, err, "failed to list businesses")
		return
	}

	payload := make([]responses.BusinessPayload, len(owned))
	for i := range owned {
		payload[i] = responses.MapBusinessToResponse(&owned[i])
	}
	c.JSON(http.StatusOK, payload)
}
