package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"nightline/passhub/internal/model"
)

type pgTokenRepository struct {
	db *gorm.DB
}

func NewPGTokenRepository(db *gorm.DB) TokenRepository {
	return &pgTokenRepository{db: db}
}

func (r *pgTokenRepository) Create(ctx context.Context, token *model.PassToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *pgTokenRepository) GetByID(ctx context.Context, tokenID string) (*model.PassToken, error) {
	var token model.PassToken
	if err := r.db.WithContext(ctx).First(&token, "token_id = ?", tokenID).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *pgTokenRepository) ListActiveByUser(ctx context.Context, userID string) ([]model.PassToken, error) {
	var tokens []model.PassToken
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND active = ?", userID, true).
		Find(&tokens).Error
	return tokens, err
}

func (r *pgTokenRepository) ListActiveByUserAndGroup(ctx context.Context, userID, groupID string) ([]model.PassToken, error) {
	var tokens []model.PassToken
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND group_id = ? AND active = ?", userID, groupID, true).
		Find(&tokens).Error
	return tokens, err
}

func (r *pgTokenRepository) DeactivateIfActive(ctx context.Context, tokenID string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&model.PassToken{}).
		Where("token_id = ? AND active = ?", tokenID, true).
		Updates(map[string]interface{}{"active": false, "ended_at": &now}).
		Error
}
