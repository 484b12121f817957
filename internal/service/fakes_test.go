package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"nightline/passhub/internal/billing"
	"nightline/passhub/internal/model"
	"nightline/passhub/internal/repository"
)

// In-memory repository fakes. They mirror the gorm implementations'
// contract, including gorm.ErrRecordNotFound on misses.

type fakeGroupRepo struct {
	groups map[string]*model.Group
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{groups: make(map[string]*model.Group)}
}

func (r *fakeGroupRepo) Create(_ context.Context, group *model.Group) error {
	cp := *group
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	r.groups[group.ID] = &cp
	return nil
}

func (r *fakeGroupRepo) GetByID(_ context.Context, id string) (*model.Group, error) {
	group, ok := r.groups[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *group
	return &cp, nil
}

func (r *fakeGroupRepo) Deactivate(_ context.Context, id string) error {
	if group, ok := r.groups[id]; ok {
		group.Active = false
	}
	return nil
}

func (r *fakeGroupRepo) IncrementMaxSubscribers(_ context.Context, id string, delta int) error {
	if group, ok := r.groups[id]; ok {
		group.MaxSubscribers += delta
	}
	return nil
}

func (r *fakeGroupRepo) DecrementMaxSubscribers(_ context.Context, id string) error {
	if group, ok := r.groups[id]; ok && group.MaxSubscribers > 0 {
		group.MaxSubscribers--
	}
	return nil
}

func (r *fakeGroupRepo) IncrementMemberCount(_ context.Context, id string) error {
	if group, ok := r.groups[id]; ok {
		group.MemberCount++
	}
	return nil
}

func (r *fakeGroupRepo) Touch(_ context.Context, id string) error {
	if group, ok := r.groups[id]; ok {
		group.UpdatedAt = time.Now()
	}
	return nil
}

type fakeMembershipRepo struct {
	rows []model.Membership
}

func (r *fakeMembershipRepo) Create(_ context.Context, m *model.Membership) error {
	// Mirrors the partial unique index over active (group_id, user_id).
	for i := range r.rows {
		if r.rows[i].Active && r.rows[i].GroupID == m.GroupID && r.rows[i].UserID == m.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	r.rows = append(r.rows, *m)
	return nil
}

func (r *fakeMembershipRepo) GetByGroupAndUser(_ context.Context, groupID, userID string) (*model.Membership, error) {
	for i := range r.rows {
		if r.rows[i].GroupID == groupID && r.rows[i].UserID == userID {
			cp := r.rows[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeMembershipRepo) ListActiveByUser(_ context.Context, userID string) ([]model.Membership, error) {
	var out []model.Membership
	for _, row := range r.rows {
		if row.UserID == userID && row.Active {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeMembershipRepo) ListByUser(_ context.Context, userID string) ([]model.Membership, error) {
	var out []model.Membership
	for _, row := range r.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeMembershipRepo) Update(_ context.Context, m *model.Membership) error {
	for i := range r.rows {
		if r.rows[i].ID == m.ID {
			r.rows[i] = *m
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeTokenRepo struct {
	tokens map[string]*model.PassToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]*model.PassToken)}
}

func (r *fakeTokenRepo) Create(_ context.Context, token *model.PassToken) error {
	cp := *token
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	r.tokens[token.TokenID] = &cp
	return nil
}

func (r *fakeTokenRepo) GetByID(_ context.Context, tokenID string) (*model.PassToken, error) {
	token, ok := r.tokens[tokenID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *token
	return &cp, nil
}

func (r *fakeTokenRepo) ListActiveByUser(_ context.Context, userID string) ([]model.PassToken, error) {
	var out []model.PassToken
	for _, token := range r.tokens {
		if token.UserID == userID && token.Active {
			out = append(out, *token)
		}
	}
	return out, nil
}

func (r *fakeTokenRepo) ListActiveByUserAndGroup(_ context.Context, userID, groupID string) ([]model.PassToken, error) {
	var out []model.PassToken
	for _, token := range r.tokens {
		if token.UserID == userID && token.GroupID == groupID && token.Active {
			out = append(out, *token)
		}
	}
	return out, nil
}

func (r *fakeTokenRepo) DeactivateIfActive(_ context.Context, tokenID string) error {
	if token, ok := r.tokens[tokenID]; ok && token.Active {
		now := time.Now()
		token.Active = false
		token.EndedAt = &now
	}
	return nil
}

type fakeInviteRepo struct {
	rows []model.Invite
}

func (r *fakeInviteRepo) Create(_ context.Context, invite *model.Invite) error {
	if invite.ID == uuid.Nil {
		invite.ID = uuid.New()
	}
	if invite.CreatedAt.IsZero() {
		invite.CreatedAt = time.Now()
	}
	r.rows = append(r.rows, *invite)
	return nil
}

func (r *fakeInviteRepo) GetByCode(_ context.Context, code string) (*model.Invite, error) {
	for i := range r.rows {
		if r.rows[i].Code == code {
			cp := r.rows[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeInviteRepo) LatestActiveByGroup(_ context.Context, groupID string) (*model.Invite, error) {
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].GroupID == groupID && r.rows[i].Active {
			cp := r.rows[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeInviteRepo) DeactivateByGroup(_ context.Context, groupID, reason string) (int64, error) {
	var n int64
	for i := range r.rows {
		if r.rows[i].GroupID == groupID && r.rows[i].Active {
			r.rows[i].Active = false
			r.rows[i].DeactivatedReason = reason
			n++
		}
	}
	return n, nil
}

func (r *fakeInviteRepo) DeactivateByCreator(_ context.Context, userID, reason string) (int64, error) {
	var n int64
	for i := range r.rows {
		if r.rows[i].CreatedBy == userID && r.rows[i].Active {
			r.rows[i].Active = false
			r.rows[i].DeactivatedReason = reason
			n++
		}
	}
	return n, nil
}

func (r *fakeInviteRepo) IncrementCurrentUses(_ context.Context, code string) error {
	for i := range r.rows {
		if r.rows[i].Code == code {
			r.rows[i].CurrentUses++
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// fakeBridge cancels whatever subscriptions the test configured per
// customer, recording which customers it was asked about.
type fakeBridge struct {
	subsByCustomer map[string][]string
	cancelCalls    []string
}

func newFakeBridge() *fakeBridge {
	return &fakeBridge{subsByCustomer: make(map[string][]string)}
}

func (b *fakeBridge) CreateCheckoutSession(_ context.Context, _, _, groupType string) (*billing.CheckoutSession, error) {
	return &billing.CheckoutSession{URL: "https://checkout.test/session", GroupID: groupType + "_test"}, nil
}

func (b *fakeBridge) VerifyWebhook(_ []byte, _ string) (*billing.CheckoutCompleted, error) {
	return nil, nil
}

func (b *fakeBridge) CancelActiveSubscriptions(_ context.Context, customerID string) ([]billing.Cancellation, error) {
	b.cancelCalls = append(b.cancelCalls, customerID)
	var out []billing.Cancellation
	for _, subID := range b.subsByCustomer[customerID] {
		out = append(out, billing.Cancellation{SubscriptionID: subID, Canceled: true})
	}
	delete(b.subsByCustomer, customerID)
	return out, nil
}

func (b *fakeBridge) ListPlans(_ context.Context) ([]billing.PlanListing, error) {
	return nil, nil
}

var (
	_ repository.GroupRepository      = (*fakeGroupRepo)(nil)
	_ repository.MembershipRepository = (*fakeMembershipRepo)(nil)
	_ repository.TokenRepository      = (*fakeTokenRepo)(nil)
	_ repository.InviteRepository     = (*fakeInviteRepo)(nil)
	_ billing.Bridge                  = (*fakeBridge)(nil)
)
