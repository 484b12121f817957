package model

import (
	"time"

	"github.com/google/uuid"
)

// DirectoryUser backs the admin user-pool passthrough routes. In the
// hosted deployment these records mirror the external identity
// provider; the pool groups here are authorization groups (e.g.
// "admins"), unrelated to plan groups.
type DirectoryUser struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Username     string      `gorm:"type:varchar(256);uniqueIndex;not null" json:"username"`
	Email        string      `gorm:"type:varchar(256)" json:"email,omitempty"`
	PhoneNumber  string      `gorm:"type:varchar(32)" json:"phone_number,omitempty"`
	PasswordHash string      `gorm:"type:varchar(256)" json:"-"`
	Enabled      bool        `gorm:"not null;default:true" json:"enabled"`
	Confirmed    bool        `gorm:"not null;default:false" json:"confirmed"`
	Groups       StringSlice `gorm:"type:jsonb" json:"groups,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (DirectoryUser) TableName() string { return "directory_users" }
