package auth

import (
	"strings"

	"github.com/SamuelMasih777/micro-feed/internal/logger"
	"github.com/SamuelMasih777/micro-feed/internal/util"
	"github.com/gin-gonic/gin"
)

// Middleware resolves the caller's identity with an ordered fallback:
// the Authorization bearer header is tried first, then the session
// cookie. Clients call from contexts where only one form is available,
// so every endpoint must accept both. Unresolvable requests are
// rejected with 401 before any handler runs.
func Middleware(verifier TokenVerifier, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var identity *Identity

		if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
			token := strings.TrimPrefix(authHeader, "Bearer ")
			ident, err := verifier.ValidateToken(token)
			if err == nil {
				identity = ident
			} else {
				logger.WarnWithFields("bearer token authentication failed", err)
			}
		}

		if identity == nil {
			if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
				ident, err := verifier.ValidateToken(cookie)
				if err == nil {
					identity = ident
				} else {
					logger.WarnWithFields("session cookie authentication failed", err)
				}
			}
		}

		if identity == nil {
			util.RespondUnauthorized(c)
			c.Abort()
			return
		}

		c.Set("identity", identity)
		c.Set("user_id", identity.ID)
		c.Next()
	}
}
