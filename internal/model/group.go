package model

import "time"

// Group is the per-plan-instance metadata record: capacity, aggregate
// member count, and active flag. Individual member and invite rows
// reference it by GroupID.
type Group struct {
	ID             string    `gorm:"type:varchar(128);primaryKey" json:"group_id"`
	PlanType       string    `gorm:"type:varchar(32);not null" json:"plan_type"`
	MaxSubscribers int       `gorm:"not null;default:1" json:"max_subscribers"`
	MemberCount    int       `gorm:"not null;default:0" json:"member_count"`
	Active         bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Group) TableName() string { return "groups" }
