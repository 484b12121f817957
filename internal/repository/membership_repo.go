package repository

import (
	"context"

	"nightline/passhub/internal/model"
)

type MembershipRepository interface {
	Create(ctx context.Context, m *model.Membership) error
	GetByGroupAndUser(ctx context.Context, groupID, userID string) (*model.Membership, error)
	ListActiveByUser(ctx context.Context, userID string) ([]model.Membership, error)
	ListByUser(ctx context.Context, userID string) ([]model.Membership, error)
	Update(ctx context.Context, m *model.Membership) error
}
