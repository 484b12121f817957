package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"nightline/passhub/internal/billing"
	"nightline/passhub/internal/config"
	"nightline/passhub/internal/model"
	"nightline/passhub/internal/plan"
	"nightline/passhub/internal/repository"
	"nightline/passhub/pkg/crypto"
)

// AcquireParams describes a user taking on a new plan instance, whether
// through a completed checkout or a manual add.
type AcquireParams struct {
	UserID           string
	GroupID          string
	StripeCustomerID string
	Email            string
	FirstName        string
	LastName         string
	UserName         string
	PhoneNumber      string
	// MaxSubscribers of 0 means "use the plan-type default".
	MaxSubscribers int
}

type AcquireResult struct {
	PlanType   string `json:"planType"`
	TokenID    string `json:"tokenId,omitempty"`
	InviteCode string `json:"inviteCode,omitempty"`
	InviteLink string `json:"inviteLink,omitempty"`
}

type DeleteMembershipResult struct {
	Success               bool                   `json:"success"`
	CanceledSubscriptions []billing.Cancellation `json:"canceledSubscriptions"`
	Timestamp             time.Time              `json:"timestamp"`
}

type DeleteAccountSummary struct {
	MembershipsDeactivated int                    `json:"membershipsDeactivated"`
	MembershipsFailed      int                    `json:"membershipsFailed"`
	GroupsAffected         []string               `json:"groupsAffected"`
	InvitesDeactivated     int                    `json:"invitesDeactivated"`
	CancellationsSucceeded int                    `json:"stripeCancellationsSucceeded"`
	CancellationsFailed    int                    `json:"stripeCancellationsFailed"`
	Cancellations          []billing.Cancellation `json:"cancellations"`
	UniqueStripeCustomers  int                    `json:"uniqueStripeCustomers"`
}

type MembershipSummary struct {
	HasMembership bool              `json:"hasMembership"`
	GroupID       string            `json:"groupId,omitempty"`
	TokenCount    int               `json:"tokenCount"`
	Tokens        []model.PassToken `json:"tokens"`
}

// AcceptInviteParams identifies the join target either directly by
// GroupID or by InviteCode; a code resolves to its group and counts
// against the invite's use cap.
type AcceptInviteParams struct {
	GroupID     string
	InviteCode  string
	UserID      string
	UserName    string
	Email       string
	PhoneNumber string
}

type AcceptInviteResult struct {
	Success       bool `json:"success"`
	AlreadyMember bool `json:"alreadyMember"`
}

type MembershipService interface {
	AcquireMembership(ctx context.Context, params AcquireParams) (*AcquireResult, error)
	DeleteMembership(ctx context.Context, userID, groupID string) (*DeleteMembershipResult, error)
	DeleteAccount(ctx context.Context, userID, reason string) (*DeleteAccountSummary, error)
	FetchMembership(ctx context.Context, userID string) (*MembershipSummary, error)
	AcceptInvite(ctx context.Context, params AcceptInviteParams) (*AcceptInviteResult, error)
	GetInviteLink(ctx context.Context, groupID string) (string, error)
}

type membershipService struct {
	groupRepo      repository.GroupRepository
	membershipRepo repository.MembershipRepository
	tokenRepo      repository.TokenRepository
	inviteRepo     repository.InviteRepository
	bridge         billing.Bridge
	inviteCfg      config.InviteConfig
	logger         *zap.Logger
}

func NewMembershipService(
	groupRepo repository.GroupRepository,
	membershipRepo repository.MembershipRepository,
	tokenRepo repository.TokenRepository,
	inviteRepo repository.InviteRepository,
	bridge billing.Bridge,
	inviteCfg config.InviteConfig,
	logger *zap.Logger,
) MembershipService {
	return &membershipService{
		groupRepo:      groupRepo,
		membershipRepo: membershipRepo,
		tokenRepo:      tokenRepo,
		inviteRepo:     inviteRepo,
		bridge:         bridge,
		inviteCfg:      inviteCfg,
		logger:         logger,
	}
}

// AcquireMembership decides how a new plan acquisition interacts with
// the user's existing active memberships, then writes the new
// membership, token, and (for group/greek) invite.
//
// Writes are sequential with no rollback: a failure partway leaves the
// earlier writes applied. Callers see the first error as a 500.
func (s *membershipService) AcquireMembership(ctx context.Context, params AcquireParams) (*AcquireResult, error) {
	newPlan := plan.Classify(params.GroupID)

	existing, err := s.membershipRepo.ListActiveByUser(ctx, params.UserID)
	if err != nil {
		return nil, fmt.Errorf("list active memberships: %w", err)
	}

	for i := range existing {
		m := &existing[i]

		if m.GroupID == params.GroupID {
			// Re-acquisition of the same plan instance: nothing to change.
			s.logger.Info("membership already active, skipping",
				zap.String("user_id", params.UserID),
				zap.String("group_id", params.GroupID))
			return &AcquireResult{PlanType: string(newPlan.Type)}, nil
		}

		existingPlan := plan.Classify(m.GroupID)
		if existingPlan.OneTime() {
			// One-time passes coexist with subscriptions; never touched here.
			continue
		}

		if newPlan.Tier >= existingPlan.Tier {
			if err := s.replaceMembership(ctx, m); err != nil {
				return nil, err
			}
		} else {
			// Downgrade: the old membership stays; the old group gives up
			// one subscriber slot.
			if err := s.shrinkGroupCapacity(ctx, m.GroupID); err != nil {
				return nil, err
			}
		}
	}

	// Retire any invites still open for this group before issuing a
	// fresh membership under it.
	if _, err := s.inviteRepo.DeactivateByGroup(ctx, params.GroupID, "superseded"); err != nil {
		return nil, fmt.Errorf("retire previous invites: %w", err)
	}

	membership := &model.Membership{
		UserID:           params.UserID,
		GroupID:          params.GroupID,
		StripeCustomerID: params.StripeCustomerID,
		Email:            params.Email,
		FirstName:        params.FirstName,
		LastName:         params.LastName,
		UserName:         params.UserName,
		PhoneNumber:      params.PhoneNumber,
		MembershipType:   "paid",
		Active:           true,
	}
	if err := s.membershipRepo.Create(ctx, membership); err != nil {
		return nil, fmt.Errorf("create membership: %w", err)
	}

	if err := s.upsertGroupMetadata(ctx, params, newPlan); err != nil {
		return nil, err
	}

	tokenID, err := s.issueToken(ctx, params)
	if err != nil {
		return nil, err
	}

	result := &AcquireResult{PlanType: string(newPlan.Type), TokenID: tokenID}
	if plan.HasInvites(newPlan.Type) {
		code, link, err := s.issueInvite(ctx, params.GroupID, params.UserID)
		if err != nil {
			return nil, err
		}
		result.InviteCode = code
		result.InviteLink = link
	}
	return result, nil
}

// replaceMembership deactivates an existing membership superseded by an
// equal-or-higher-tier acquisition: member row, metadata row, and all
// active tokens under that group.
func (s *membershipService) replaceMembership(ctx context.Context, m *model.Membership) error {
	m.Active = false
	if err := s.membershipRepo.Update(ctx, m); err != nil {
		return fmt.Errorf("deactivate membership %s/%s: %w", m.GroupID, m.UserID, err)
	}

	// Update only if the metadata row exists; never create it here.
	if _, err := s.groupRepo.GetByID(ctx, m.GroupID); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("look up group %s: %w", m.GroupID, err)
		}
		s.logger.Warn("no metadata row for replaced group", zap.String("group_id", m.GroupID))
	} else if err := s.groupRepo.Deactivate(ctx, m.GroupID); err != nil {
		return fmt.Errorf("deactivate group %s: %w", m.GroupID, err)
	}

	tokens, err := s.tokenRepo.ListActiveByUserAndGroup(ctx, m.UserID, m.GroupID)
	if err != nil {
		return fmt.Errorf("list tokens for %s/%s: %w", m.GroupID, m.UserID, err)
	}
	for _, token := range tokens {
		if err := s.tokenRepo.DeactivateIfActive(ctx, token.TokenID); err != nil {
			return fmt.Errorf("deactivate token %s: %w", token.TokenID, err)
		}
	}
	return nil
}

func (s *membershipService) shrinkGroupCapacity(ctx context.Context, groupID string) error {
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("look up group %s: %w", groupID, err)
	}
	if err := s.groupRepo.DecrementMaxSubscribers(ctx, groupID); err != nil {
		return fmt.Errorf("decrement capacity of %s: %w", groupID, err)
	}
	return nil
}

func (s *membershipService) upsertGroupMetadata(ctx context.Context, params AcquireParams, newPlan plan.Plan) error {
	maxSubs := params.MaxSubscribers
	if maxSubs <= 0 {
		maxSubs = plan.DefaultMaxSubscribers(newPlan.Type)
	}

	_, err := s.groupRepo.GetByID(ctx, params.GroupID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		group := &model.Group{
			ID:             params.GroupID,
			PlanType:       string(newPlan.Type),
			MaxSubscribers: maxSubs,
			MemberCount:    1,
			Active:         true,
		}
		if err := s.groupRepo.Create(ctx, group); err != nil {
			return fmt.Errorf("create group metadata: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("look up group %s: %w", params.GroupID, err)
	}

	if plan.HasInvites(newPlan.Type) {
		if err := s.groupRepo.IncrementMaxSubscribers(ctx, params.GroupID, maxSubs); err != nil {
			return fmt.Errorf("grow capacity of %s: %w", params.GroupID, err)
		}
	}
	if err := s.groupRepo.IncrementMemberCount(ctx, params.GroupID); err != nil {
		return fmt.Errorf("bump member count of %s: %w", params.GroupID, err)
	}
	return nil
}

func (s *membershipService) issueToken(ctx context.Context, params AcquireParams) (string, error) {
	tokenID, err := crypto.GenerateTokenID()
	if err != nil {
		return "", fmt.Errorf("generate token id: %w", err)
	}
	token := &model.PassToken{
		TokenID:          tokenID,
		UserID:           params.UserID,
		GroupID:          params.GroupID,
		StripeCustomerID: params.StripeCustomerID,
		Active:           true,
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return "", fmt.Errorf("create token: %w", err)
	}
	return tokenID, nil
}

func (s *membershipService) issueInvite(ctx context.Context, groupID, createdBy string) (code, link string, err error) {
	code, err = crypto.GenerateInviteCode()
	if err != nil {
		return "", "", fmt.Errorf("generate invite code: %w", err)
	}
	link = s.inviteCfg.BaseURL + code

	invite := &model.Invite{
		Code:      code,
		GroupID:   groupID,
		Link:      link,
		CreatedBy: createdBy,
		Active:    true,
		MaxUses:   s.inviteCfg.DefaultMaxUses,
	}
	if err := s.inviteRepo.Create(ctx, invite); err != nil {
		return "", "", fmt.Errorf("create invite: %w", err)
	}
	return code, link, nil
}

func (s *membershipService) DeleteMembership(ctx context.Context, userID, groupID string) (*DeleteMembershipResult, error) {
	m, err := s.membershipRepo.GetByGroupAndUser(ctx, groupID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, fmt.Errorf("fetch membership: %w", err)
	}
	if m.StripeCustomerID == "" {
		return nil, ErrNoStripeCustomer
	}

	cancellations, err := s.bridge.CancelActiveSubscriptions(ctx, m.StripeCustomerID)
	if err != nil {
		return nil, fmt.Errorf("cancel subscriptions: %w", err)
	}

	now := time.Now()
	m.Active = false
	m.IsCancelled = true
	m.CanceledAt = &now
	m.CanceledSubscriptions = canceledIDs(cancellations)
	if err := s.membershipRepo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("update membership: %w", err)
	}

	// Metadata deactivation is best effort; the member row already
	// carries the authoritative state.
	if _, err := s.groupRepo.GetByID(ctx, groupID); err == nil {
		if err := s.groupRepo.Deactivate(ctx, groupID); err != nil {
			s.logger.Warn("group metadata deactivation failed",
				zap.String("group_id", groupID), zap.Error(err))
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Warn("group metadata lookup failed",
			zap.String("group_id", groupID), zap.Error(err))
	}

	tokens, err := s.tokenRepo.ListActiveByUserAndGroup(ctx, userID, groupID)
	if err != nil {
		s.logger.Warn("token listing failed during membership deletion",
			zap.String("user_id", userID), zap.String("group_id", groupID), zap.Error(err))
	}
	for _, token := range tokens {
		if err := s.tokenRepo.DeactivateIfActive(ctx, token.TokenID); err != nil {
			s.logger.Warn("token deactivation failed",
				zap.String("token_id", token.TokenID), zap.Error(err))
		}
	}

	return &DeleteMembershipResult{
		Success:               true,
		CanceledSubscriptions: cancellations,
		Timestamp:             now,
	}, nil
}

// DeleteAccount runs the best-effort bulk cascade: cancel billing,
// flag every membership row, retire the user's invites, and touch the
// affected groups. Per-item failures are collected, never fatal.
func (s *membershipService) DeleteAccount(ctx context.Context, userID, reason string) (*DeleteAccountSummary, error) {
	memberships, err := s.membershipRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}

	summary := &DeleteAccountSummary{
		GroupsAffected: []string{},
		Cancellations:  []billing.Cancellation{},
	}
	if len(memberships) == 0 {
		return summary, nil
	}

	now := time.Now()
	seenCustomers := make(map[string][]billing.Cancellation)
	affected := make(map[string]bool)

	for i := range memberships {
		m := &memberships[i]

		var cancellations []billing.Cancellation
		if m.StripeCustomerID != "" {
			cached, seen := seenCustomers[m.StripeCustomerID]
			if seen {
				cancellations = cached
			} else {
				cancellations, err = s.bridge.CancelActiveSubscriptions(ctx, m.StripeCustomerID)
				if err != nil {
					s.logger.Warn("subscription cancellation failed",
						zap.String("stripe_customer_id", m.StripeCustomerID), zap.Error(err))
				}
				seenCustomers[m.StripeCustomerID] = cancellations
				summary.Cancellations = append(summary.Cancellations, cancellations...)
				for _, cancellation := range cancellations {
					if cancellation.Canceled {
						summary.CancellationsSucceeded++
					} else {
						summary.CancellationsFailed++
					}
				}
			}
		}

		wasActive := m.Active
		m.Active = false
		m.IsCancelled = true
		m.AccountDeleted = true
		m.DeletionReason = reason
		m.MembershipDurationDays = int(now.Sub(m.CreatedAt).Hours() / 24)
		m.CanceledSubscriptions = canceledIDs(cancellations)
		m.DeletedAt = &now

		if err := s.membershipRepo.Update(ctx, m); err != nil {
			s.logger.Warn("membership flagging failed",
				zap.String("group_id", m.GroupID), zap.String("user_id", userID), zap.Error(err))
			summary.MembershipsFailed++
			continue
		}
		if wasActive {
			summary.MembershipsDeactivated++
		}
		affected[m.GroupID] = true
	}

	invitesDeactivated, err := s.inviteRepo.DeactivateByCreator(ctx, userID, "account_deleted")
	if err != nil {
		s.logger.Warn("invite deactivation failed", zap.String("user_id", userID), zap.Error(err))
	}
	summary.InvitesDeactivated = int(invitesDeactivated)

	for groupID := range affected {
		summary.GroupsAffected = append(summary.GroupsAffected, groupID)
		if err := s.groupRepo.Touch(ctx, groupID); err != nil {
			s.logger.Warn("group touch failed", zap.String("group_id", groupID), zap.Error(err))
		}
	}

	summary.UniqueStripeCustomers = len(seenCustomers)
	return summary, nil
}

func (s *membershipService) FetchMembership(ctx context.Context, userID string) (*MembershipSummary, error) {
	tokens, err := s.tokenRepo.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list active tokens: %w", err)
	}

	summary := &MembershipSummary{
		HasMembership: len(tokens) > 0,
		TokenCount:    len(tokens),
		Tokens:        tokens,
	}
	if len(tokens) > 0 {
		summary.GroupID = tokens[0].GroupID
	}
	return summary, nil
}

func (s *membershipService) AcceptInvite(ctx context.Context, params AcceptInviteParams) (*AcceptInviteResult, error) {
	var invite *model.Invite
	if params.InviteCode != "" {
		var err error
		invite, err = s.inviteRepo.GetByCode(ctx, params.InviteCode)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInviteNotFound
			}
			return nil, fmt.Errorf("look up invite: %w", err)
		}
		if !invite.Active {
			return nil, ErrInviteNotFound
		}
		if invite.MaxUses > 0 && invite.CurrentUses >= invite.MaxUses {
			return nil, ErrInviteExhausted
		}
		params.GroupID = invite.GroupID
	}

	if _, err := s.groupRepo.GetByID(ctx, params.GroupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("look up group: %w", err)
	}

	_, err := s.membershipRepo.GetByGroupAndUser(ctx, params.GroupID, params.UserID)
	if err == nil {
		return &AcceptInviteResult{Success: true, AlreadyMember: true}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("look up membership: %w", err)
	}

	membership := &model.Membership{
		UserID:         params.UserID,
		GroupID:        params.GroupID,
		UserName:       params.UserName,
		Email:          params.Email,
		PhoneNumber:    params.PhoneNumber,
		MembershipType: "free",
		Active:         true,
	}
	if err := s.membershipRepo.Create(ctx, membership); err != nil {
		return nil, fmt.Errorf("create membership: %w", err)
	}
	if err := s.groupRepo.IncrementMemberCount(ctx, params.GroupID); err != nil {
		return nil, fmt.Errorf("bump member count: %w", err)
	}
	if invite != nil {
		if err := s.inviteRepo.IncrementCurrentUses(ctx, invite.Code); err != nil {
			// The member is already in; losing one tick of the use
			// counter is not worth failing the join.
			s.logger.Warn("invite use count bump failed",
				zap.String("invite_code", invite.Code), zap.Error(err))
		}
	}

	return &AcceptInviteResult{Success: true}, nil
}

func (s *membershipService) GetInviteLink(ctx context.Context, groupID string) (string, error) {
	invite, err := s.inviteRepo.LatestActiveByGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInviteNotFound
		}
		return "", fmt.Errorf("look up invite: %w", err)
	}
	return invite.Link, nil
}

func canceledIDs(cancellations []billing.Cancellation) model.StringSlice {
	ids := make(model.StringSlice, 0, len(cancellations))
	for _, c := range cancellations {
		if c.Canceled {
			ids = append(ids, c.SubscriptionID)
		}
	}
	return ids
}

var _ MembershipService = (*membershipService)(nil)
