package handler

import (
	"github.com/gin-gonic/gin"

	"nightline/passhub/internal/service"
	"nightline/passhub/pkg/response"
)

type TokenHandler struct {
	tokenService service.TokenService
}

func NewTokenHandler(tokenService service.TokenService) *TokenHandler {
	return &TokenHandler{tokenService: tokenService}
}

type ValidateTokenRequest struct {
	TokenID string `json:"tokenId"`
	// Timestamp is the epoch-millis stamp embedded in the QR payload.
	Timestamp *int64 `json:"timestamp"`
}

// ValidateToken reports the scan verdict. Invalid passes are 200
// responses with valid:false; only malformed requests and storage
// failures use error statuses.
func (h *TokenHandler) ValidateToken(c *gin.Context) {
	var req ValidateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if req.TokenID == "" {
		response.BadRequest(c, "tokenId is required")
		return
	}

	result, err := h.tokenService.ValidateToken(c.Request.Context(), req.TokenID, req.Timestamp)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.OK(c, result)
}
