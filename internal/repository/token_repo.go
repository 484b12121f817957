package repository

import (
	"context"

	"nightline/passhub/internal/model"
)

type TokenRepository interface {
	Create(ctx context.Context, token *model.PassToken) error
	GetByID(ctx context.Context, tokenID string) (*model.PassToken, error)
	ListActiveByUser(ctx context.Context, userID string) ([]model.PassToken, error)
	ListActiveByUserAndGroup(ctx context.Context, userID, groupID string) ([]model.PassToken, error)
	// DeactivateIfActive flips a token off only if it is still active,
	// so two overlapping deactivation sweeps cannot both claim it.
	DeactivateIfActive(ctx context.Context, tokenID string) error
}
