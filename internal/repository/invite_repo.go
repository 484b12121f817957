package repository

import (
	"context"

	"nightline/passhub/internal/model"
)

type InviteRepository interface {
	Create(ctx context.Context, invite *model.Invite) error
	GetByCode(ctx context.Context, code string) (*model.Invite, error)
	// LatestActiveByGroup returns the newest still-active invite for a group.
	LatestActiveByGroup(ctx context.Context, groupID string) (*model.Invite, error)
	// DeactivateByGroup retires all active invites for a group and
	// returns how many rows it touched.
	DeactivateByGroup(ctx context.Context, groupID, reason string) (int64, error)
	DeactivateByCreator(ctx context.Context, userID, reason string) (int64, error)
	IncrementCurrentUses(ctx context.Context, code string) error
}
