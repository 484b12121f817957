package middleware

import (
	"github.com/gin-gonic/gin"

	jwtpkg "nightline/passhub/pkg/jwt"
	"nightline/passhub/pkg/response"
)

// AdminAuth checks that the authenticated user is in the admin allow list.
// Must be used after JWTAuth middleware.
func AdminAuth(adminUsernames []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(adminUsernames))
	for _, name := range adminUsernames {
		allowed[name] = struct{}{}
	}

	return func(c *gin.Context) {
		claimsVal, exists := c.Get(ContextKeyUserClaims)
		if !exists {
			response.Unauthorized(c, "missing authentication")
			c.Abort()
			return
		}
		claims, ok := claimsVal.(*jwtpkg.Claims)
		if !ok {
			response.Unauthorized(c, "invalid claims")
			c.Abort()
			return
		}

		if _, isAdmin := allowed[claims.Subject]; !isAdmin {
			response.Forbidden(c, "admin access required")
			c.Abort()
			return
		}

		c.Next()
	}
}
