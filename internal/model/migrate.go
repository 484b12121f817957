package model

import "gorm.io/gorm"

// AutoMigrate runs GORM auto-migration for all models and creates custom indexes.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Group{},
		&Membership{},
		&PassToken{},
		&Invite{},
		&DirectoryUser{},
	); err != nil {
		return err
	}

	// At most one ACTIVE membership row per (group, user). Deactivated
	// rows stay behind as audit history, and regaining access always
	// inserts a fresh row, so uniqueness only holds over active ones.
	if err := db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_memberships_group_user_active " +
			"ON memberships (group_id, user_id) WHERE active",
	).Error; err != nil {
		return err
	}

	// Active-token lookups by user drive both pass validation and the
	// deactivation cascades.
	return db.Exec(
		"CREATE INDEX IF NOT EXISTS idx_pass_tokens_user_active " +
			"ON pass_tokens (user_id) WHERE active",
	).Error
}
