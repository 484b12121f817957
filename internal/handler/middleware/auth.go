package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"nightline/passhub/internal/repository"
	jwtpkg "nightline/passhub/pkg/jwt"
	"nightline/passhub/pkg/response"
)

const ContextKeyUserClaims = "user_claims"

// JWTAuth validates the bearer token and honors sign-out markers: a
// token issued at or before the user's recorded sign-out time is
// rejected even if its signature and expiry are fine. Marker lookups
// are best effort; a state-store failure never locks users out.
func JWTAuth(jwtManager *jwtpkg.Manager, stateStore repository.StateStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization format")
			c.Abort()
			return
		}

		claims, err := jwtManager.Validate(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		if revoked(c, stateStore, claims) {
			response.Unauthorized(c, "signed out, please log in again")
			c.Abort()
			return
		}

		c.Set(ContextKeyUserClaims, claims)
		c.Next()
	}
}

func revoked(c *gin.Context, stateStore repository.StateStore, claims *jwtpkg.Claims) bool {
	if stateStore == nil || claims.IssuedAt == nil {
		return false
	}
	raw, err := stateStore.Get(c.Request.Context(), repository.SignOutKey(claims.Subject))
	if err != nil || len(raw) == 0 {
		return false
	}
	signedOutAt, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return false
	}
	return !claims.IssuedAt.Time.After(time.Unix(signedOutAt, 0))
}
