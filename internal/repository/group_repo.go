package repository

import (
	"context"

	"nightline/passhub/internal/model"
)

type GroupRepository interface {
	Create(ctx context.Context, group *model.Group) error
	GetByID(ctx context.Context, id string) (*model.Group, error)
	Deactivate(ctx context.Context, id string) error
	IncrementMaxSubscribers(ctx context.Context, id string, delta int) error
	// DecrementMaxSubscribers lowers capacity by one, never below zero.
	DecrementMaxSubscribers(ctx context.Context, id string) error
	IncrementMemberCount(ctx context.Context, id string) error
	// Touch bumps updated_at without changing any other column.
	Touch(ctx context.Context, id string) error
}
