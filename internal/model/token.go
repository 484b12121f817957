package model

import "time"

// PassToken is the bearer credential behind a scannable QR pass. Its
// GroupID always matches the membership that spawned it, and it is
// deactivated in lockstep when that membership goes inactive.
type PassToken struct {
	TokenID          string     `gorm:"type:varchar(64);primaryKey" json:"token_id"`
	UserID           string     `gorm:"type:varchar(128);not null;index" json:"user_id"`
	GroupID          string     `gorm:"type:varchar(128);not null;index" json:"group_id"`
	StripeCustomerID string     `gorm:"type:varchar(128)" json:"stripe_customer_id,omitempty"`
	Active           bool       `gorm:"not null;default:true" json:"active"`
	CreatedAt        time.Time  `json:"created_at"`
	EndedAt          *time.Time `json:"ended_at,omitempty"`
}

func (PassToken) TableName() string { return "pass_tokens" }
