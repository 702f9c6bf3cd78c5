package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"briefhq/intake-api/internal/config"
	"briefhq/intake-api/internal/domain/access"
)

// PrincipalKey is the gin context key the middleware stores the resolved
// principal under.
const PrincipalKey = "auth_principal"

// devSubjectHeader supplies the caller subject when auth is disabled.
const devSubjectHeader = "X-User-ID"

// Validator validates JWTs using JWKS and resolves the caller principal.
type Validator struct {
	cfg  *config.Config
	log  zerolog.Logger
	jwks *keyfunc.JWKS

	superAdmins map[string]struct{}
}

// NewValidator initializes JWKS fetching when auth is enabled.
func NewValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Validator, error) {
	superAdmins := make(map[string]struct{}, len(cfg.SuperAdminSubjects))
	for _, s := range cfg.SuperAdminSubjects {
		if s = strings.TrimSpace(s); s != "" {
			superAdmins[s] = struct{}{}
		}
	}

	v := &Validator{cfg: cfg, log: log, superAdmins: superAdmins}
	if !cfg.AuthEnabled {
		return v, nil
	}

	options := keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Error().Err(err).Msg("jwks refresh error")
		},
	}

	jwks, err := keyfunc.Get(cfg.AuthJWKSURL, options)
	if err != nil {
		return nil, err
	}
	v.jwks = jwks
	return v, nil
}

// Middleware authenticates the request and stores an access.Principal on the
// context. With auth disabled the subject comes from the X-User-ID header so
// local development works without a token.
func (v *Validator) Middleware() gin.HandlerFunc {
	if v == nil || !v.cfg.AuthEnabled {
		return func(c *gin.Context) {
			subject := strings.TrimSpace(c.GetHeader(devSubjectHeader))
			if subject != "" {
				c.Set(PrincipalKey, &access.Principal{
					Subject:    subject,
					SuperAdmin: v != nil && v.isSuperAdmin(subject),
				})
			}
			c.Next()
		}
	}

	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}

		token, err := jwt.Parse(tokenString, v.jwks.Keyfunc,
			jwt.WithIssuer(v.cfg.AuthIssuer),
			jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"}),
		)
		if err != nil || !token.Valid {
			abortUnauthorized(c, "invalid token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "invalid token claims")
			return
		}

		if !v.audienceAllowed(claims) {
			abortUnauthorized(c, "invalid token audience")
			return
		}

		subject, _ := claims["sub"].(string)
		if subject == "" {
			abortUnauthorized(c, "token missing subject")
			return
		}

		c.Set(PrincipalKey, &access.Principal{
			Subject:    subject,
			SuperAdmin: v.isSuperAdmin(subject),
		})
		c.Next()
	}
}

// Ready indicates if the validator is prepared.
func (v *Validator) Ready() bool {
	if v == nil || !v.cfg.AuthEnabled {
		return true
	}
	return v.jwks != nil
}

// PrincipalFromContext returns the resolved principal, or nil when the
// request carried no usable identity.
func PrincipalFromContext(c *gin.Context) *access.Principal {
	value, exists := c.Get(PrincipalKey)
	if !exists {
		return nil
	}
	principal, ok := value.(*access.Principal)
	if !ok {
		return nil
	}
	return principal
}

func (v *Validator) isSuperAdmin(subject string) bool {
	_, ok := v.superAdmins[subject]
	return ok
}

func (v *Validator) audienceAllowed(claims jwt.MapClaims) bool {
	audience := strings.TrimSpace(v.cfg.AuthAudience)
	if audience == "" {
		return true
	}
	audClaim, hasAud := claims["aud"]
	if !hasAud {
		return true
	}
	switch aud := audClaim.(type) {
	case string:
		return aud == audience
	case []any:
		for _, entry := range aud {
			if s, ok := entry.(string); ok && s == audience {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": message,
	})
}
