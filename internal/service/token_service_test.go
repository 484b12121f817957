package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nightline/passhub/internal/model"
	"nightline/passhub/internal/service"
)

const freshnessWindow = 2 * time.Hour

type tokenFixture struct {
	tokens      *fakeTokenRepo
	memberships *fakeMembershipRepo
	svc         service.TokenService
}

func newTokenFixture() *tokenFixture {
	f := &tokenFixture{
		tokens:      newFakeTokenRepo(),
		memberships: &fakeMembershipRepo{},
	}
	f.svc = service.NewTokenService(f.tokens, f.memberships, freshnessWindow, zap.NewNop())
	return f
}

func (f *tokenFixture) seedToken(t *testing.T, tokenID, userID, groupID string, active bool) {
	t.Helper()
	require.NoError(t, f.tokens.Create(context.Background(), &model.PassToken{
		TokenID: tokenID,
		UserID:  userID,
		GroupID: groupID,
		Active:  active,
	}))
}

func millis(ts time.Time) *int64 {
	v := ts.UnixMilli()
	return &v
}

func TestValidateTokenSuccess(t *testing.T) {
	f := newTokenFixture()
	ctx := context.Background()

	f.seedToken(t, "tok1", "u1", "greek_theta_chi", true)
	require.NoError(t, f.memberships.Create(ctx, &model.Membership{
		UserID:    "u1",
		GroupID:   "greek_theta_chi",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Active:    true,
	}))

	result, err := f.svc.ValidateToken(ctx, "tok1", millis(time.Now()))
	require.NoError(t, err)

	assert.True(t, result.Valid)
	assert.Equal(t, "Ada Lovelace", result.UserName)
	assert.Equal(t, "Greek Pass", result.PassType)
	assert.Equal(t, "greek_theta_chi", result.GroupID)
	assert.Equal(t, "u1", result.UserID)
	assert.Equal(t, "tok1", result.TokenID)
	assert.Equal(t, 1, result.ActiveTokenCount)
}

func TestValidateTokenNotFound(t *testing.T) {
	f := newTokenFixture()

	result, err := f.svc.ValidateToken(context.Background(), "missing", nil)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "Token not found", result.Message)
}

func TestValidateTokenNoActiveMembership(t *testing.T) {
	f := newTokenFixture()
	ctx := context.Background()

	f.seedToken(t, "tok1", "u1", "individual-membership", true)
	require.NoError(t, f.tokens.DeactivateIfActive(ctx, "tok1"))

	result, err := f.svc.ValidateToken(ctx, "tok1", nil)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "No active membership found", result.Message)
}

func TestValidateTokenSupersededPass(t *testing.T) {
	f := newTokenFixture()
	ctx := context.Background()

	// The user moved to a new plan; the old token is retired but a
	// newer one is still live.
	f.seedToken(t, "old", "u1", "individual-membership", false)
	f.seedToken(t, "new", "u1", "greek_theta_chi", true)

	result, err := f.svc.ValidateToken(ctx, "old", nil)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "This pass is no longer active", result.Message)
}

func TestValidateTokenFreshnessWindow(t *testing.T) {
	f := newTokenFixture()
	ctx := context.Background()
	f.seedToken(t, "tok1", "u1", "night_pass_2026", true)

	inside, err := f.svc.ValidateToken(ctx, "tok1", millis(time.Now().Add(-freshnessWindow+time.Minute)))
	require.NoError(t, err)
	assert.True(t, inside.Valid)

	outside, err := f.svc.ValidateToken(ctx, "tok1", millis(time.Now().Add(-freshnessWindow-time.Minute)))
	require.NoError(t, err)
	assert.False(t, outside.Valid)
	assert.Equal(t, "QR code has expired, please refresh pass", outside.Message)
}

func TestValidateTokenNoTimestampSkipsFreshnessCheck(t *testing.T) {
	f := newTokenFixture()
	f.seedToken(t, "tok1", "u1", "individual-membership", true)

	result, err := f.svc.ValidateToken(context.Background(), "tok1", nil)
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestValidateTokenGuestFallback(t *testing.T) {
	f := newTokenFixture()

	// No membership row behind the token: the scan still admits.
	f.seedToken(t, "tok1", "u1", "group_roommates", true)

	result, err := f.svc.ValidateToken(context.Background(), "tok1", nil)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, "Guest", result.UserName)
	assert.Equal(t, "Group Pass", result.PassType)
}

func TestValidateTokenUsernameFallback(t *testing.T) {
	f := newTokenFixture()
	ctx := context.Background()

	f.seedToken(t, "tok1", "u1", "individual-membership", true)
	require.NoError(t, f.memberships.Create(ctx, &model.Membership{
		UserID:   "u1",
		GroupID:  "individual-membership",
		UserName: "ada92",
		Active:   true,
	}))

	result, err := f.svc.ValidateToken(ctx, "tok1", nil)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, "ada92", result.UserName)
	assert.Equal(t, "Individual Pass", result.PassType)
}
