package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nightline/passhub/internal/billing"
	"nightline/passhub/internal/repository"
	"nightline/passhub/internal/service"
	"nightline/passhub/pkg/response"
)

// webhookDedupTTL bounds how long a processed Stripe event id is
// remembered; Stripe retries well within this window.
const webhookDedupTTL = 24 * time.Hour

type BillingHandler struct {
	bridge            billing.Bridge
	membershipService service.MembershipService
	stateStore        repository.StateStore
	logger            *zap.Logger
}

func NewBillingHandler(
	bridge billing.Bridge,
	membershipService service.MembershipService,
	stateStore repository.StateStore,
	logger *zap.Logger,
) *BillingHandler {
	return &BillingHandler{
		bridge:            bridge,
		membershipService: membershipService,
		stateStore:        stateStore,
		logger:            logger,
	}
}

type CheckoutRequest struct {
	PriceID   string `json:"priceId"`
	UserID    string `json:"userId"`
	GroupType string `json:"groupType"`
}

func (h *BillingHandler) CreateCheckout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if req.PriceID == "" {
		response.BadRequest(c, "priceId is required")
		return
	}
	if req.UserID == "" {
		response.BadRequest(c, "userId is required")
		return
	}
	if req.GroupType == "" {
		response.BadRequest(c, "groupType is required")
		return
	}

	session, err := h.bridge.CreateCheckoutSession(c.Request.Context(), req.PriceID, req.UserID, req.GroupType)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.OK(c, session)
}

func (h *BillingHandler) FetchPlans(c *gin.Context) {
	plans, err := h.bridge.ListPlans(c.Request.Context())
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	if plans == nil {
		plans = []billing.PlanListing{}
	}
	response.OK(c, plans)
}

// Webhook handles Stripe events. Only checkout.session.completed
// mutates state; a verified-but-unhandled event type is acknowledged so
// Stripe stops retrying it.
func (h *BillingHandler) Webhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		response.BadRequest(c, "unable to read request body")
		return
	}

	completed, err := h.bridge.VerifyWebhook(payload, c.GetHeader("stripe-signature"))
	if err != nil {
		if errors.Is(err, billing.ErrInvalidSignature) {
			response.BadRequest(c, "Invalid signature")
			return
		}
		response.InternalError(c, err.Error())
		return
	}
	if completed == nil {
		response.OK(c, gin.H{"received": true})
		return
	}
	if completed.UserID == "" || completed.GroupID == "" {
		// A session created outside our checkout flow carries no
		// identity metadata; acknowledge it without writing rows.
		h.logger.Warn("checkout session missing identity metadata",
			zap.String("event_id", completed.EventID))
		response.OK(c, gin.H{"received": true})
		return
	}

	ctx := c.Request.Context()

	// Best-effort replay suppression; Stripe redelivers on timeouts and
	// the acquisition flow is not idempotent across partial writes.
	dedupKey := "stripe:event:" + completed.EventID
	if seen, err := h.stateStore.Exists(ctx, dedupKey); err != nil {
		h.logger.Warn("webhook dedup check failed", zap.String("event_id", completed.EventID), zap.Error(err))
	} else if seen {
		h.logger.Info("duplicate webhook event skipped", zap.String("event_id", completed.EventID))
		response.OK(c, gin.H{"received": true, "duplicate": true})
		return
	}

	result, err := h.membershipService.AcquireMembership(ctx, service.AcquireParams{
		UserID:           completed.UserID,
		GroupID:          completed.GroupID,
		StripeCustomerID: completed.StripeCustomerID,
		Email:            completed.Email,
	})
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	if err := h.stateStore.Set(ctx, dedupKey, []byte("processed"), webhookDedupTTL); err != nil {
		h.logger.Warn("webhook dedup record failed", zap.String("event_id", completed.EventID), zap.Error(err))
	}

	response.OK(c, gin.H{
		"received":   true,
		"planType":   result.PlanType,
		"inviteLink": result.InviteLink,
	})
}
