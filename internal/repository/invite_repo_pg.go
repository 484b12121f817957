package repository

import (
	"context"

	"gorm.io/gorm"

	"nightline/passhub/internal/model"
)

type pgInviteRepository struct {
	db *gorm.DB
}

func NewPGInviteRepository(db *gorm.DB) InviteRepository {
	return &pgInviteRepository{db: db}
}

func (r *pgInviteRepository) Create(ctx context.Context, invite *model.Invite) error {
	return r.db.WithContext(ctx).Create(invite).Error
}

func (r *pgInviteRepository) GetByCode(ctx context.Context, code string) (*model.Invite, error) {
	var invite model.Invite
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&invite).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *pgInviteRepository) LatestActiveByGroup(ctx context.Context, groupID string) (*model.Invite, error) {
	var invite model.Invite
	err := r.db.WithContext(ctx).
		Where("group_id = ? AND active = ?", groupID, true).
		Order("created_at DESC").
		First(&invite).Error
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *pgInviteRepository) DeactivateByGroup(ctx context.Context, groupID, reason string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Invite{}).
		Where("group_id = ? AND active = ?", groupID, true).
		Updates(map[string]interface{}{"active": false, "deactivated_reason": reason})
	return res.RowsAffected, res.Error
}

func (r *pgInviteRepository) DeactivateByCreator(ctx context.Context, userID, reason string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Invite{}).
		Where("created_by = ? AND active = ?", userID, true).
		Updates(map[string]interface{}{"active": false, "deactivated_reason": reason})
	return res.RowsAffected, res.Error
}

func (r *pgInviteRepository) IncrementCurrentUses(ctx context.Context, code string) error {
	return r.db.WithContext(ctx).
		Model(&model.Invite{}).
		Where("code = ?", code).
		UpdateColumn("current_uses", gorm.Expr("current_uses + 1")).
		Error
}
