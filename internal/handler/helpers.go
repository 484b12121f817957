package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"nightline/passhub/internal/handler/middleware"
	jwtpkg "nightline/passhub/pkg/jwt"
)

var ErrNoClaims = errors.New("claims not found in context")

func getUsernameFromContext(c *gin.Context) (string, error) {
	claimsVal, exists := c.Get(middleware.ContextKeyUserClaims)
	if !exists {
		return "", ErrNoClaims
	}
	claims, ok := claimsVal.(*jwtpkg.Claims)
	if !ok {
		return "", ErrNoClaims
	}
	return claims.Subject, nil
}
