package model

import (
	"time"

	"github.com/google/uuid"
)

// Membership links one user to one group/plan instance. Rows are never
// physically deleted: cancellation and account deletion flip Active off
// and stamp the audit columns. A deactivated row is never re-activated;
// regaining access always means a fresh row.
type Membership struct {
	ID                     uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID                 string      `gorm:"type:varchar(128);not null;index" json:"user_id"`
	GroupID                string      `gorm:"type:varchar(128);not null;index" json:"group_id"`
	StripeCustomerID       string      `gorm:"type:varchar(128)" json:"stripe_customer_id"`
	Email                  string      `gorm:"type:varchar(256)" json:"email,omitempty"`
	FirstName              string      `gorm:"type:varchar(128)" json:"first_name,omitempty"`
	LastName               string      `gorm:"type:varchar(128)" json:"last_name,omitempty"`
	UserName               string      `gorm:"type:varchar(256)" json:"user_name,omitempty"`
	PhoneNumber            string      `gorm:"type:varchar(32)" json:"phone_number,omitempty"`
	MembershipType         string      `gorm:"type:varchar(32);not null;default:'paid'" json:"membership_type"`
	Active                 bool        `gorm:"not null;default:true;index" json:"active"`
	IsCancelled            bool        `gorm:"not null;default:false" json:"is_cancelled"`
	AccountDeleted         bool        `gorm:"not null;default:false" json:"account_deleted"`
	DeletionReason         string      `gorm:"type:varchar(512)" json:"deletion_reason,omitempty"`
	MembershipDurationDays int         `json:"membership_duration_days,omitempty"`
	CanceledSubscriptions  StringSlice `gorm:"type:jsonb" json:"canceled_subscriptions,omitempty"`
	CreatedAt              time.Time   `json:"created_at"`
	UpdatedAt              time.Time   `json:"updated_at"`
	CanceledAt             *time.Time  `json:"canceled_at,omitempty"`
	DeletedAt              *time.Time  `json:"deleted_at,omitempty"`
}

func (Membership) TableName() string { return "memberships" }
