package auth

import (
	"github.com/gin-gonic/gin"
)

// IdentityFromContext returns the identity stored by Middleware.
func IdentityFromContext(c *gin.Context) (*Identity, bool) {
	value, exists := c.Get("identity")
	if !exists {
		return nil, false
	}
	identity, ok := value.(*Identity)
	return identity, ok
}
