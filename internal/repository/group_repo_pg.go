package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"nightline/passhub/internal/model"
)

type pgGroupRepository struct {
	db *gorm.DB
}

func NewPGGroupRepository(db *gorm.DB) GroupRepository {
	return &pgGroupRepository{db: db}
}

func (r *pgGroupRepository) Create(ctx context.Context, group *model.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *pgGroupRepository) GetByID(ctx context.Context, id string) (*model.Group, error) {
	var group model.Group
	if err := r.db.WithContext(ctx).First(&group, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *pgGroupRepository) Deactivate(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&model.Group{}).
		Where("id = ?", id).
		Update("active", false).
		Error
}

func (r *pgGroupRepository) IncrementMaxSubscribers(ctx context.Context, id string, delta int) error {
	return r.db.WithContext(ctx).
		Model(&model.Group{}).
		Where("id = ?", id).
		UpdateColumn("max_subscribers", gorm.Expr("max_subscribers + ?", delta)).
		Error
}

func (r *pgGroupRepository) DecrementMaxSubscribers(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&model.Group{}).
		Where("id = ?", id).
		UpdateColumn("max_subscribers", gorm.Expr("GREATEST(max_subscribers - 1, 0)")).
		Error
}

func (r *pgGroupRepository) IncrementMemberCount(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&model.Group{}).
		Where("id = ?", id).
		UpdateColumn("member_count", gorm.Expr("member_count + 1")).
		Error
}

func (r *pgGroupRepository) Touch(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&model.Group{}).
		Where("id = ?", id).
		Update("updated_at", time.Now()).
		Error
}
