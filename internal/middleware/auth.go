package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"expensedesk/internal/domain"
	"expensedesk/internal/service"
)

// ContextKeyPrincipal holds the *Principal of an authenticated request.
const ContextKeyPrincipal = "principal"

// Principal is the caller a bearer token was issued to.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   domain.UserRole
}

// AuthMiddleware rejects requests without a valid access token and stores the
// token's Principal on the context.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid authorization header")
			return
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
			return
		}

		SetPrincipal(c, &Principal{UserID: claims.UserID, Email: claims.Email, Role: claims.Role})
		c.Next()
	}
}

// RequireRole lets the request through only when the principal holds one of
// roles.
func RequireRole(roles ...domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := CurrentPrincipal(c)
		if p == nil {
			abort(c, http.StatusForbidden, "FORBIDDEN", "role not found in context")
			return
		}
		if !slices.Contains(roles, p.Role) {
			abort(c, http.StatusForbidden, "FORBIDDEN", "insufficient permissions")
			return
		}
		c.Next()
	}
}

// SetPrincipal attaches p to the request.
func SetPrincipal(c *gin.Context, p *Principal) {
	c.Set(ContextKeyPrincipal, p)
}

// CurrentPrincipal returns the authenticated caller, or nil.
func CurrentPrincipal(c *gin.Context) *Principal {
	val, ok := c.Get(ContextKeyPrincipal)
	if !ok {
		return nil
	}
	p, _ := val.(*Principal)
	return p
}

// GetUserID returns the authenticated caller's id.
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	p := CurrentPrincipal(c)
	if p == nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return p.UserID, nil
}

// bearerToken extracts the credentials of a Bearer authorization header. The
// scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func abort(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   gin.H{"code": code, "message": msg},
	})
}
