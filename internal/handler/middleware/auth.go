package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"tablebook/internal/domain/user"
	"tablebook/internal/usecase"

	"github.com/gin-gonic/gin"
)

const ctxPrincipalKey = "principal"

type AuthMiddleware struct {
	tokenValidator usecase.TokenValidator
}

func NewAuthMiddleware(tokenValidator usecase.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimSpace(authHeader[len("Bearer "):])
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Access token required",
			})
			c.Abort()
			return
		}

		principal, err := m.tokenValidator.Validate(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ctxPrincipalKey, principal)
		c.Set("jwt_claims", map[string]any{
			"user_id": principal.UserID.String(),
			"role":    principal.Role.String(),
		})
		c.Next()
	}
}

// RequireRole gates a route to the given roles. Must run after RequireAuth;
// the usecases re-check authorization, this is the fast path.
func (m *AuthMiddleware) RequireRole(roles ...user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			// Unexpected error: should be used after RequireAuth()
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
			c.Abort()
			return
		}

		for _, role := range roles {
			if principal.Role == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"error": "Insufficient permissions",
		})
		c.Abort()
	}
}

func GetPrincipal(c *gin.Context) (usecase.Principal, bool) {
	value, exists := c.Get(ctxPrincipalKey)
	if !exists {
		return usecase.Principal{}, false
	}

	principal, ok := value.(usecase.Principal)
	return principal, ok
}
