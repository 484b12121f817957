package repository

import (
	"context"

	"nightline/passhub/internal/model"
)

type DirectoryUserRepository interface {
	Create(ctx context.Context, user *model.DirectoryUser) error
	GetByUsername(ctx context.Context, username string) (*model.DirectoryUser, error)
	// List pages users ordered by username; offset comes from the opaque
	// pagination cursor the handlers hand out.
	List(ctx context.Context, limit, offset int) ([]model.DirectoryUser, error)
	ListByGroup(ctx context.Context, group string, limit, offset int) ([]model.DirectoryUser, error)
	Update(ctx context.Context, user *model.DirectoryUser) error
}
