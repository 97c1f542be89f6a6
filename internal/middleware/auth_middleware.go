package middleware

import (
	"context"
	"net/http"
	"strings"

	"merch_store_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserIDKey = "userID"
	ContextRoleIDKey = "roleID"
	ContextEmailKey  = "email"
)

// PermissionChecker reports whether a role holds a permission action.
type PermissionChecker interface {
	Authorize(ctx context.Context, roleID int64, action string) (bool, error)
}

// AuthMiddleware creates a Gin middleware for JWT authentication.
func AuthMiddleware(tokens *utils.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authorization header required", nil))
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid authorization header format. Use Bearer <token>", nil))
			return
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			utils.LogWarn("AuthMiddleware: rejected token", map[string]interface{}{"error": err.Error(), "path": c.Request.URL.Path})
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid or expired token", nil))
			return
		}

		// Set user information in the context for downstream handlers
		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextRoleIDKey, claims.RoleID)
		c.Set(ContextEmailKey, claims.Email)

		c.Next()
	}
}

// RequirePermission allows the request only when the caller's role holds action.
// It must run after AuthMiddleware.
func RequirePermission(checker PermissionChecker, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleIDRaw, exists := c.Get(ContextRoleIDKey)
		roleID, ok := roleIDRaw.(int64)
		if !exists || !ok {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated", nil))
			return
		}

		allowed, err := checker.Authorize(c.Request.Context(), roleID, action)
		if err != nil {
			utils.LogError(err, "RequirePermission: permission lookup failed")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Internal server error", nil))
			return
		}
		if !allowed {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden,
				"You do not have permission to access this resource", gin.H{"requiredPermission": action}))
			return
		}

		c.Next()
	}
}
