package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/samlehman617/HeyImHungry/internal/domain"
	"github.com/samlehman617/HeyImHungry/internal/service"
)

const identityKey = "identity"

// Auth guards routes behind a valid bearer token and attaches the resolved
// identity.
type Auth struct {
	AuthService *service.AuthService
}

// RequireBearer resolves the final whitespace-separated element of the
// Authorization header as a bearer token.
func (m *Auth) RequireBearer(c *gin.Context) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Authorization header required."})
		return
	}
	parts := strings.Fields(header)
	credential := parts[len(parts)-1]

	user, err := m.AuthService.Resolve(c.Request.Context(), credential, "")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid_token", "error_description": "Invalid or expired token."})
		return
	}
	c.Set(identityKey, user)
	c.Next()
}

// GetIdentity exposes the resolved identity to handlers.
func GetIdentity(c *gin.Context) (domain.User, bool) {
	value, ok := c.Get(identityKey)
	if !ok {
		return domain.User{}, false
	}
	user, ok := value.(domain.User)
	return user, ok
}
