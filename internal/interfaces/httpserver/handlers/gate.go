package handlers

import (
	"github.com/gin-gonic/gin"

	"briefhq/intake-api/internal/domain/access"
	"briefhq/intake-api/internal/domain/business"
	"briefhq/intake-api/internal/infrastructure/auth"
	"briefhq/intake-api/internal/utils/platformerrors"
)

// capability selects one column of the role capability table.
type capability func(access.Capabilities) bool

var (
	needView   capability = func(c access.Capabilities) bool { return c.View }
	needAnswer capability = func(c access.Capabilities) bool { return c.Answer }
	needAdmin  capability = func(c access.Capabilities) bool { return c.Admin }
)

// accessGate resolves the caller's role for a business scope and checks the
// required capability. Handlers never look at raw claims.
type accessGate struct {
	businesses business.Repository
}

func newAccessGate(businesses business.Repository) *accessGate {
	return &accessGate{businesses: businesses}
}

// authorize loads the scope, fixes the caller's role, and enforces the
// capability. It returns the business so handlers reuse the lookup.
func (g *accessGate) authorize(c *gin.Context, businessID string, need capability) (*access.Principal, *business.Business, error) {
	ctx := c.Request.Context()

	principal := auth.PrincipalFromContext(c)
	if principal == nil {
		return nil, nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerHandler,
			platformerrors.ErrorTypeUnauthorized,
			"caller identity is missing",
			nil,
			"gate-no-principal",
		)
	}

	biz, err := g.businesses.FindByPublicID(ctx, businessID)
	if err != nil {
		return nil, nil, err
	}

	caps := access.Authorize(principal, biz.OwnerID, biz.Collaborators)
	if !need(caps) {
		return nil, nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerHandler,
			platformerrors.ErrorTypeForbidden,
			"caller lacks the required capability",
			nil,
			"gate-capability-denied",
		)
	}

	return principal, biz, nil
}
