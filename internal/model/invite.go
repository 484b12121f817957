package model

import (
	"time"

	"github.com/google/uuid"
)

// Invite is a shareable join code for a group or greek plan, capped by
// MaxUses. Retired invites keep their row with Active=false and a
// deactivation reason.
type Invite struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Code              string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"invite_code"`
	GroupID           string    `gorm:"type:varchar(128);not null;index" json:"group_id"`
	Link              string    `gorm:"type:varchar(512);not null" json:"invite_link"`
	CreatedBy         string    `gorm:"type:varchar(128);not null;index" json:"created_by"`
	Used              bool      `gorm:"not null;default:false" json:"used"`
	Active            bool      `gorm:"not null;default:true" json:"active"`
	MaxUses           int       `gorm:"not null;default:1" json:"max_uses"`
	CurrentUses       int       `gorm:"not null;default:0" json:"current_uses"`
	DeactivatedReason string    `gorm:"type:varchar(128)" json:"deactivated_reason,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (Invite) TableName() string { return "invites" }
