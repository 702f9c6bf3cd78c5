package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"briefhq/intake-api/internal/domain/catalog"
	"briefhq/intake-api/internal/interfaces/httpserver/responses"
	"briefhq/intake-api/internal/utils/platformerrors"
)

// CatalogHandler exposes the read-only question catalog.
type CatalogHandler struct {
	catalog catalog.Reader
	log     zerolog.Logger
}

// NewCatalogHandler constructs the handler.
func NewCatalogHandler(reader catalog.Reader, log zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: reader,
		log:     log.With().Str("handler", "catalog").Logger(),
	}
}

// List handles GET /v1/questions
// @Summary List catalog questions
// @Description Lists questions ordered by (order, id), optionally filtered by active state and phases
// @Tags Catalog
// @Produce json
// @Param active query bool false "Active filter"
// @Param phases query string false "Comma separated phases"
// @Param through query string false "Cumulative phase: expands to all phases up to and including it"
// @Success 200 {array} responses.QuestionPayload
// @Failure 400 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/questions [get]
func (h *CatalogHandler) List(c *gin.Context) {
	var filter catalog.Filter

	if raw := c.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "active must be a boolean", "catalog-bad-active")
			return
		}
		filter.Active = &active
	}

	if raw := c.Query("through"); raw != "" {
		p := catalog.Phase(raw)
		if !p.Valid() {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "unknown phase", "catalog-bad-through")
			return
		}
		filter.Phases = catalog.Through(p)
	} else if raw := c.Query("phases"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			p := catalog.Phase(strings.TrimSpace(part))
			if !p.Valid() {
				responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "unknown phase", "catalog-bad-phase")
				return
			}
			filter.Phases = append(filter.Phases, p)
		}
	}

	questions, err := h.catalog.List(c.Request.Context(), filter)
	if err != nil {
		responses.HandleError(c, err, "failed to list questions")
		return
	}

	c.JSON(http.StatusOK, responses.MapQuestionsToResponse(questions))
}
