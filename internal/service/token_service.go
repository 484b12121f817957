package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"nightline/passhub/internal/plan"
	"nightline/passhub/internal/repository"
)

// ValidationResult is the scan-time verdict for a pass. Validation
// failures are outcomes, not transport errors: handlers return them
// with HTTP 200.
type ValidationResult struct {
	Valid            bool   `json:"valid"`
	Message          string `json:"message,omitempty"`
	UserName         string `json:"userName,omitempty"`
	PassType         string `json:"passType,omitempty"`
	GroupID          string `json:"groupId,omitempty"`
	UserID           string `json:"userId,omitempty"`
	TokenID          string `json:"tokenId,omitempty"`
	ActiveTokenCount int    `json:"activeTokenCount,omitempty"`
}

type TokenService interface {
	// ValidateToken checks a scanned token id. timestampMillis, when
	// non-nil, is the epoch-millis stamp embedded in the QR payload.
	ValidateToken(ctx context.Context, tokenID string, timestampMillis *int64) (*ValidationResult, error)
}

type tokenService struct {
	tokenRepo       repository.TokenRepository
	membershipRepo  repository.MembershipRepository
	freshnessWindow time.Duration
	logger          *zap.Logger
}

func NewTokenService(
	tokenRepo repository.TokenRepository,
	membershipRepo repository.MembershipRepository,
	freshnessWindow time.Duration,
	logger *zap.Logger,
) TokenService {
	return &tokenService{
		tokenRepo:       tokenRepo,
		membershipRepo:  membershipRepo,
		freshnessWindow: freshnessWindow,
		logger:          logger,
	}
}

func (s *tokenService) ValidateToken(ctx context.Context, tokenID string, timestampMillis *int64) (*ValidationResult, error) {
	token, err := s.tokenRepo.GetByID(ctx, tokenID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ValidationResult{Valid: false, Message: "Token not found"}, nil
		}
		return nil, fmt.Errorf("look up token: %w", err)
	}

	activeTokens, err := s.tokenRepo.ListActiveByUser(ctx, token.UserID)
	if err != nil {
		return nil, fmt.Errorf("list active tokens: %w", err)
	}

	if len(activeTokens) == 0 {
		return &ValidationResult{Valid: false, Message: "No active membership found"}, nil
	}

	scanned := false
	for _, active := range activeTokens {
		if active.TokenID == tokenID {
			scanned = true
			break
		}
	}
	if !scanned {
		return &ValidationResult{Valid: false, Message: "This pass is no longer active"}, nil
	}

	// The client rotates QR payloads hourly; the freshness window is a
	// deliberately wider replay-tolerance margin.
	if timestampMillis != nil {
		age := time.Since(time.UnixMilli(*timestampMillis))
		if age > s.freshnessWindow {
			return &ValidationResult{Valid: false, Message: "QR code has expired, please refresh pass"}, nil
		}
	}

	userName := "Guest"
	membership, err := s.membershipRepo.GetByGroupAndUser(ctx, token.GroupID, token.UserID)
	if err != nil {
		// Non-fatal: the scanner still admits the rider, just anonymously.
		s.logger.Warn("display-name lookup failed",
			zap.String("group_id", token.GroupID),
			zap.String("user_id", token.UserID),
			zap.Error(err))
	} else if name := displayName(membership.FirstName, membership.LastName, membership.UserName); name != "" {
		userName = name
	}

	return &ValidationResult{
		Valid:            true,
		UserName:         userName,
		PassType:         plan.PassLabel(token.GroupID),
		GroupID:          token.GroupID,
		UserID:           token.UserID,
		TokenID:          token.TokenID,
		ActiveTokenCount: len(activeTokens),
	}, nil
}

func displayName(first, last, username string) string {
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	case username != "":
		return username
	default:
		return ""
	}
}

var _ TokenService = (*tokenService)(nil)
