// middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sshinde/billsplit-backend/auth"
	"github.com/sshinde/billsplit-backend/models"
)

const currentUserKey = "currentUser"

// UserLookup resolves the user a token refers to
type UserLookup interface {
	GetUserByID(id int64) (*models.User, error)
}

// AuthMiddleware guards routes with bearer-token authentication and
// resolves the full acting user, so handlers can pass it into the core
// explicitly.
type AuthMiddleware struct {
	tokens *auth.TokenService
	users  UserLookup
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(tokens *auth.TokenService, users UserLookup) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

// RequireAuth rejects requests without a valid bearer token and stashes
// the authenticated user in the request context
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid Authorization header format"})
			return
		}

		userID, err := m.tokens.ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		user, err := m.users.GetUserByID(userID)
		if err != nil || user == nil || !user.Active {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(currentUserKey, *user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user stashed by RequireAuth
func CurrentUser(c *gin.Context) models.User {
	user, _ := c.Get(currentUserKey)
	return user.(models.User)
}
