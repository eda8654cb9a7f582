package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/samlehman617/HeyImHungry/internal/client"
)

// ClientGuard gates the delegated endpoints on the registered client id. The
// check runs before any identity state is touched; failure aborts as a plain
// bad request.
type ClientGuard struct {
	Registry *client.Registry
}

// RequireClientID validates the client_id query parameter.
func (m *ClientGuard) RequireClientID(c *gin.Context) {
	if !m.Registry.ValidClientID(c.Query("client_id")) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Unknown client."})
		return
	}
	c.Next()
}
