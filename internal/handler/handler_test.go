package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nightline/passhub/internal/billing"
	"nightline/passhub/internal/config"
	"nightline/passhub/internal/handler"
	"nightline/passhub/internal/repository"
	"nightline/passhub/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubTokenService returns a canned verdict.
type stubTokenService struct {
	result *service.ValidationResult
	err    error
}

func (s *stubTokenService) ValidateToken(context.Context, string, *int64) (*service.ValidationResult, error) {
	return s.result, s.err
}

// stubMembershipService covers only what the handler under test calls.
type stubMembershipService struct {
	acquireResult *service.AcquireResult
	inviteLink    string
	inviteErr     error
	acquireCalls  int
}

func (s *stubMembershipService) AcquireMembership(context.Context, service.AcquireParams) (*service.AcquireResult, error) {
	s.acquireCalls++
	return s.acquireResult, nil
}

func (s *stubMembershipService) DeleteMembership(context.Context, string, string) (*service.DeleteMembershipResult, error) {
	return &service.DeleteMembershipResult{Success: true}, nil
}

func (s *stubMembershipService) DeleteAccount(context.Context, string, string) (*service.DeleteAccountSummary, error) {
	return &service.DeleteAccountSummary{}, nil
}

func (s *stubMembershipService) FetchMembership(context.Context, string) (*service.MembershipSummary, error) {
	return &service.MembershipSummary{}, nil
}

func (s *stubMembershipService) AcceptInvite(context.Context, service.AcceptInviteParams) (*service.AcceptInviteResult, error) {
	return &service.AcceptInviteResult{Success: true}, nil
}

func (s *stubMembershipService) GetInviteLink(context.Context, string) (string, error) {
	return s.inviteLink, s.inviteErr
}

// stubBridge drives the webhook handler without Stripe.
type stubBridge struct {
	completed *billing.CheckoutCompleted
	verifyErr error
}

func (b *stubBridge) CreateCheckoutSession(context.Context, string, string, string) (*billing.CheckoutSession, error) {
	return &billing.CheckoutSession{URL: "https://checkout.test/session"}, nil
}

func (b *stubBridge) VerifyWebhook([]byte, string) (*billing.CheckoutCompleted, error) {
	return b.completed, b.verifyErr
}

func (b *stubBridge) CancelActiveSubscriptions(context.Context, string) ([]billing.Cancellation, error) {
	return nil, nil
}

func (b *stubBridge) ListPlans(context.Context) ([]billing.PlanListing, error) {
	return nil, nil
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestValidateTokenEndpointInvalidPassIsHTTP200(t *testing.T) {
	h := handler.NewTokenHandler(&stubTokenService{
		result: &service.ValidationResult{Valid: false, Message: "Token not found"},
	})
	r := gin.New()
	r.POST("/validateToken", h.ValidateToken)

	w := postJSON(t, r, "/validateToken", gin.H{"tokenId": "missing"})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["valid"])
	assert.Equal(t, "Token not found", body["message"])
}

func TestValidateTokenEndpointRequiresTokenID(t *testing.T) {
	h := handler.NewTokenHandler(&stubTokenService{})
	r := gin.New()
	r.POST("/validateToken", h.ValidateToken)

	w := postJSON(t, r, "/validateToken", gin.H{"timestamp": 12345})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "tokenId is required", decodeBody(t, w)["error"])
}

func TestInviteRedirectBouncesIntoAppScheme(t *testing.T) {
	h := handler.NewInviteHandler(&stubMembershipService{}, config.InviteConfig{
		RedirectScheme: "nightline://invite/",
	})
	r := gin.New()
	r.GET("/invite/:inviteCode", h.Redirect)

	req := httptest.NewRequest(http.MethodGet, "/invite/abc123def456", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "nightline://invite/abc123def456", w.Header().Get("Location"))
}

func TestGetInviteLinkNotFound(t *testing.T) {
	h := handler.NewInviteHandler(&stubMembershipService{inviteErr: service.ErrInviteNotFound}, config.InviteConfig{})
	r := gin.New()
	r.POST("/getInviteLink", h.GetInviteLink)

	w := postJSON(t, r, "/getInviteLink", gin.H{"groupId": "group_x"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetInviteLinkSuccess(t *testing.T) {
	h := handler.NewInviteHandler(&stubMembershipService{
		inviteLink: "https://nightline.app/invite/abc123def456",
	}, config.InviteConfig{})
	r := gin.New()
	r.POST("/getInviteLink", h.GetInviteLink)

	w := postJSON(t, r, "/getInviteLink", gin.H{"groupId": "group_x"})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "https://nightline.app/invite/abc123def456", body["inviteLink"])
}

func newBillingRouter(bridge *stubBridge, svc *stubMembershipService) *gin.Engine {
	h := handler.NewBillingHandler(bridge, svc, repository.NewMemoryStateStore(), zap.NewNop())
	r := gin.New()
	r.POST("/addMembership", h.Webhook)
	return r
}

func TestWebhookRejectsInvalidSignature(t *testing.T) {
	r := newBillingRouter(&stubBridge{verifyErr: billing.ErrInvalidSignature}, &stubMembershipService{})

	req := httptest.NewRequest(http.MethodPost, "/addMembership", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("stripe-signature", "t=1,v1=bogus")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid signature", decodeBody(t, w)["error"])
}

func TestWebhookAcknowledgesIgnoredEventTypes(t *testing.T) {
	svc := &stubMembershipService{}
	r := newBillingRouter(&stubBridge{completed: nil}, svc)

	req := httptest.NewRequest(http.MethodPost, "/addMembership", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["received"])
	assert.Zero(t, svc.acquireCalls)
}

func TestWebhookIgnoresSessionWithoutIdentityMetadata(t *testing.T) {
	svc := &stubMembershipService{}
	// Verified event, but the session was created outside our checkout
	// flow and carries no userId/groupId metadata.
	r := newBillingRouter(&stubBridge{
		completed: &billing.CheckoutCompleted{EventID: "evt_x"},
	}, svc)

	req := httptest.NewRequest(http.MethodPost, "/addMembership", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["received"])
	assert.Zero(t, svc.acquireCalls)
}

func TestWebhookSkipsDuplicateEvents(t *testing.T) {
	svc := &stubMembershipService{
		acquireResult: &service.AcquireResult{PlanType: "greek", InviteLink: "https://nightline.app/invite/abc123def456"},
	}
	r := newBillingRouter(&stubBridge{
		completed: &billing.CheckoutCompleted{
			EventID:          "evt_1",
			UserID:           "u1",
			GroupID:          "greek_theta_chi",
			StripeCustomerID: "cus_1",
		},
	}, svc)

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/addMembership", bytes.NewReader([]byte(`{}`)))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	first := send()
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "greek", decodeBody(t, first)["planType"])
	assert.Equal(t, 1, svc.acquireCalls)

	second := send()
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, true, decodeBody(t, second)["duplicate"])
	assert.Equal(t, 1, svc.acquireCalls)
}

func TestManualAddMembershipRequiresFields(t *testing.T) {
	h := handler.NewMembershipHandler(&stubMembershipService{
		acquireResult: &service.AcquireResult{PlanType: "individual"},
	})
	r := gin.New()
	r.POST("/manualAddMembership", h.ManualAddMembership)

	w := postJSON(t, r, "/manualAddMembership", gin.H{
		"userId":    "u1",
		"email":     "u1@example.com",
		"firstName": "Ada",
		"lastName":  "Lovelace",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "groupId is required", decodeBody(t, w)["error"])
}
