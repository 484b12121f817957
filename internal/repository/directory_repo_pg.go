package repository

import (
	"context"

	"gorm.io/gorm"

	"nightline/passhub/internal/model"
)

type pgDirectoryUserRepository struct {
	db *gorm.DB
}

func NewPGDirectoryUserRepository(db *gorm.DB) DirectoryUserRepository {
	return &pgDirectoryUserRepository{db: db}
}

func (r *pgDirectoryUserRepository) Create(ctx context.Context, user *model.DirectoryUser) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *pgDirectoryUserRepository) GetByUsername(ctx context.Context, username string) (*model.DirectoryUser, error) {
	var user model.DirectoryUser
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *pgDirectoryUserRepository) List(ctx context.Context, limit, offset int) ([]model.DirectoryUser, error) {
	var users []model.DirectoryUser
	err := r.db.WithContext(ctx).
		Order("username ASC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	return users, err
}

func (r *pgDirectoryUserRepository) ListByGroup(ctx context.Context, group string, limit, offset int) ([]model.DirectoryUser, error) {
	var users []model.DirectoryUser
	err := r.db.WithContext(ctx).
		Where("groups @> ?", `["`+group+`"]`).
		Order("username ASC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	return users, err
}

func (r *pgDirectoryUserRepository) Update(ctx context.Context, user *model.DirectoryUser) error {
	return r.db.WithContext(ctx).Save(user).Error
}
