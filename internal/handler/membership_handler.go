package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"nightline/passhub/internal/service"
	"nightline/passhub/pkg/crypto"
	"nightline/passhub/pkg/response"
)

type MembershipHandler struct {
	membershipService service.MembershipService
}

func NewMembershipHandler(membershipService service.MembershipService) *MembershipHandler {
	return &MembershipHandler{membershipService: membershipService}
}

type ManualAddMembershipRequest struct {
	UserID         string `json:"userId"`
	Email          string `json:"email"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	PhoneNumber    string `json:"phoneNumber"`
	GroupID        string `json:"groupId"`
	MaxSubscribers int    `json:"maxSubscribers"`
}

// ManualAddMembership runs the acquisition flow without a checkout,
// minting a synthetic customer id in place of a real Stripe customer.
func (h *MembershipHandler) ManualAddMembership(c *gin.Context) {
	var req ManualAddMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	required := []struct{ field, value string }{
		{"userId", req.UserID},
		{"email", req.Email},
		{"firstName", req.FirstName},
		{"lastName", req.LastName},
		{"groupId", req.GroupID},
	}
	for _, r := range required {
		if r.value == "" {
			response.BadRequest(c, r.field+" is required")
			return
		}
	}

	customerID, err := crypto.SyntheticCustomerID()
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	result, err := h.membershipService.AcquireMembership(c.Request.Context(), service.AcquireParams{
		UserID:           req.UserID,
		GroupID:          req.GroupID,
		StripeCustomerID: customerID,
		Email:            req.Email,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		PhoneNumber:      req.PhoneNumber,
		MaxSubscribers:   req.MaxSubscribers,
	})
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.OK(c, gin.H{
		"success":    true,
		"planType":   result.PlanType,
		"tokenId":    result.TokenID,
		"inviteCode": result.InviteCode,
		"inviteLink": result.InviteLink,
	})
}

type DeleteMembershipRequest struct {
	UserID  string `json:"userId"`
	GroupID string `json:"groupId"`
}

func (h *MembershipHandler) DeleteMembership(c *gin.Context) {
	var req DeleteMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if req.UserID == "" {
		response.BadRequest(c, "userId is required")
		return
	}
	if req.GroupID == "" {
		response.BadRequest(c, "groupId is required")
		return
	}

	result, err := h.membershipService.DeleteMembership(c.Request.Context(), req.UserID, req.GroupID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMembershipNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrNoStripeCustomer):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, err.Error())
		}
		return
	}

	response.OK(c, result)
}

type DeleteAccountRequest struct {
	UserID string `json:"userId"`
	Reason string `json:"reason"`
}

func (h *MembershipHandler) DeleteAccount(c *gin.Context) {
	var req DeleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if req.UserID == "" {
		response.BadRequest(c, "userId is required")
		return
	}

	summary, err := h.membershipService.DeleteAccount(c.Request.Context(), req.UserID, req.Reason)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.OK(c, summary)
}

func (h *MembershipHandler) FetchMembership(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		response.BadRequest(c, "userId is required")
		return
	}

	summary, err := h.membershipService.FetchMembership(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.OK(c, summary)
}
