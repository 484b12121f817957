package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"nightline/passhub/internal/config"
	"nightline/passhub/internal/service"
	"nightline/passhub/pkg/response"
)

type InviteHandler struct {
	membershipService service.MembershipService
	inviteCfg         config.InviteConfig
}

func NewInviteHandler(membershipService service.MembershipService, inviteCfg config.InviteConfig) *InviteHandler {
	return &InviteHandler{membershipService: membershipService, inviteCfg: inviteCfg}
}

type AcceptInviteRequest struct {
	GroupID     string `json:"groupId"`
	InviteCode  string `json:"inviteCode"`
	UserID      string `json:"userId"`
	UserName    string `json:"userName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// AcceptInvite joins a user to a group, addressed either by groupId or
// by a shared invite code.
func (h *InviteHandler) AcceptInvite(c *gin.Context) {
	var req AcceptInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if req.GroupID == "" && req.InviteCode == "" {
		response.BadRequest(c, "groupId or inviteCode is required")
		return
	}
	if req.UserID == "" {
		response.BadRequest(c, "userId is required")
		return
	}
	if req.UserName == "" {
		response.BadRequest(c, "userName is required")
		return
	}

	result, err := h.membershipService.AcceptInvite(c.Request.Context(), service.AcceptInviteParams{
		GroupID:     req.GroupID,
		InviteCode:  req.InviteCode,
		UserID:      req.UserID,
		UserName:    req.UserName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGroupNotFound), errors.Is(err, service.ErrInviteNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrInviteExhausted):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, err.Error())
		}
		return
	}

	response.OK(c, result)
}

type GetInviteLinkRequest struct {
	GroupID string `json:"groupId"`
}

func (h *InviteHandler) GetInviteLink(c *gin.Context) {
	var req GetInviteLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if req.GroupID == "" {
		response.BadRequest(c, "groupId is required")
		return
	}

	link, err := h.membershipService.GetInviteLink(c.Request.Context(), req.GroupID)
	if err != nil {
		if errors.Is(err, service.ErrInviteNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.OK(c, gin.H{"success": true, "inviteLink": link})
}

// Redirect bounces a shared web link into the mobile app's custom
// scheme so the OS opens Nightline directly.
func (h *InviteHandler) Redirect(c *gin.Context) {
	code := c.Param("inviteCode")
	if code == "" {
		response.BadRequest(c, "inviteCode is required")
		return
	}
	c.Redirect(http.StatusFound, h.inviteCfg.RedirectScheme+code)
}
