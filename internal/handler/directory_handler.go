package handler

import (
	"context"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"nightline/passhub/internal/service"
	"nightline/passhub/pkg/crypto"
	jwtpkg "nightline/passhub/pkg/jwt"
	"nightline/passhub/pkg/response"
)

// DirectoryHandler exposes the admin user-pool passthrough routes.
type DirectoryHandler struct {
	directoryService service.DirectoryService
	jwtManager       *jwtpkg.Manager
}

func NewDirectoryHandler(directoryService service.DirectoryService, jwtManager *jwtpkg.Manager) *DirectoryHandler {
	return &DirectoryHandler{directoryService: directoryService, jwtManager: jwtManager}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *DirectoryHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	user, err := h.directoryService.GetUser(c.Request.Context(), req.Username)
	if err != nil || !crypto.CheckPassword(req.Password, user.PasswordHash) {
		response.Unauthorized(c, "invalid credentials")
		return
	}
	if !user.Enabled || !user.Confirmed {
		response.Forbidden(c, "user is disabled or unconfirmed")
		return
	}

	token, err := h.jwtManager.GenerateAccessToken(user.Username)
	if err != nil {
		response.InternalError(c, "token generation failed")
		return
	}
	response.OK(c, gin.H{"accessToken": token})
}

func (h *DirectoryHandler) GetUser(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		response.BadRequest(c, "username is required")
		return
	}

	user, err := h.directoryService.GetUser(c.Request.Context(), username)
	if err != nil {
		h.writeDirectoryError(c, err)
		return
	}
	response.OK(c, user)
}

func (h *DirectoryHandler) ListUsers(c *gin.Context) {
	limit := parseLimit(c.Query("limit"))
	page, err := h.directoryService.ListUsers(c.Request.Context(), limit, c.Query("token"))
	if err != nil {
		h.writeDirectoryError(c, err)
		return
	}
	response.OK(c, page)
}

func (h *DirectoryHandler) ListGroups(c *gin.Context) {
	groups, err := h.directoryService.ListGroups(c.Request.Context())
	if err != nil {
		h.writeDirectoryError(c, err)
		return
	}
	response.OK(c, gin.H{"groups": groups})
}

func (h *DirectoryHandler) ListGroupsForUser(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		response.BadRequest(c, "username is required")
		return
	}

	groups, err := h.directoryService.ListGroupsForUser(c.Request.Context(), username)
	if err != nil {
		h.writeDirectoryError(c, err)
		return
	}
	response.OK(c, gin.H{"groups": groups})
}

func (h *DirectoryHandler) ListUsersInGroup(c *gin.Context) {
	group := c.Query("groupName")
	if group == "" {
		response.BadRequest(c, "groupName is required")
		return
	}

	limit := parseLimit(c.Query("limit"))
	page, err := h.directoryService.ListUsersInGroup(c.Request.Context(), group, limit, c.Query("token"))
	if err != nil {
		h.writeDirectoryError(c, err)
		return
	}
	response.OK(c, page)
}

type UserGroupRequest struct {
	Username  string `json:"username" binding:"required"`
	GroupName string `json:"groupName" binding:"required"`
}

func (h *DirectoryHandler) AddUserToGroup(c *gin.Context) {
	var req UserGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := h.directoryService.AddUserToGroup(c.Request.Context(), req.Username, req.GroupName); err != nil {
		h.writeDirectoryError(c, err)
		return
	}
	response.OK(c, gin.H{"success": true})
}

func (h *DirectoryHandler) RemoveUserFromGroup(c *gin.Context) {
	var req UserGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := h.directoryService.RemoveUserFromGroup(c.Request.Context(), req.Username, req.GroupName); err != nil {
		h.writeDirectoryError(c, err)
		return
	}
	response.OK(c, gin.H{"success": true})
}

type UsernameRequest struct {
	Username string `json:"username" binding:"required"`
}

func (h *DirectoryHandler) ConfirmUserSignUp(c *gin.Context) {
	h.usernameAction(c, h.directoryService.ConfirmUserSignUp)
}

func (h *DirectoryHandler) DisableUser(c *gin.Context) {
	h.usernameAction(c, h.directoryService.DisableUser)
}

func (h *DirectoryHandler) EnableUser(c *gin.Context) {
	h.usernameAction(c, h.directoryService.EnableUser)
}

func (h *DirectoryHandler) SignUserOut(c *gin.Context) {
	caller, err := getUsernameFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}

	var req UsernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	if err := h.directoryService.SignUserOut(c.Request.Context(), caller, req.Username); err != nil {
		h.writeDirectoryError(c, err)
		return
	}
	response.OK(c, gin.H{"success": true})
}

func (h *DirectoryHandler) usernameAction(c *gin.Context, action func(ctx context.Context, username string) error) {
	var req UsernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := action(c.Request.Context(), req.Username); err != nil {
		h.writeDirectoryError(c, err)
		return
	}
	response.OK(c, gin.H{"success": true})
}

func (h *DirectoryHandler) writeDirectoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDirectoryUserNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrSignOutMismatch):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err.Error())
	}
}

func parseLimit(raw string) int {
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0
	}
	return limit
}
