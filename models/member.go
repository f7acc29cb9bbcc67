package models

import (
	"time"
)

// Member is a registered club member. Never hard-deleted — admin corrections
// go through the dedicated admin endpoints instead.
type Member struct {
	ID            string     `json:"id" gorm:"primaryKey"`
	Username      string     `json:"username" gorm:"uniqueIndex;not null"`
	Password      string     `json:"-" gorm:"not null"` // bcrypt hash
	RealName      string     `json:"real_name"`
	DateOfBirth   *time.Time `json:"date_of_birth,omitempty"`
	DiscordHandle string     `json:"discord_handle,omitempty"`

	// 💳 Membership state
	MembershipType      string     `json:"membership_type" gorm:"type:varchar(16);default:'WEEKLY'"`
	MembershipExpiry    *time.Time `json:"membership_expiry,omitempty"`
	MembershipExpiredAt *time.Time `json:"membership_expired_at,omitempty"` // set when a paid tier lapses
	PreviousType        *string    `json:"previous_type,omitempty"`         // tier before auto-downgrade

	IsAdmin    bool    `json:"is_admin" gorm:"default:false"`
	BalanceDue float64 `json:"balance_due" gorm:"default:0"` // denormalized running total, never negative
	FreeWeek   bool    `json:"free_week" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// AuthSession is a server-side login session, presented by clients as a
// Bearer token. Expired rows are swept by the scheduler.
type AuthSession struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Token     string    `json:"token" gorm:"uniqueIndex;not null"`
	MemberID  string    `json:"member_id" gorm:"index;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	Member Member `json:"-" gorm:"foreignKey:MemberID"`
}

// PaymentRecord is an append-only ledger entry. The member's BalanceDue is
// mutated alongside it; the ledger is for audit, not balance derivation.
type PaymentRecord struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	MemberID  string    `json:"member_id" gorm:"index;not null"`
	Amount    float64   `json:"amount" gorm:"not null"`
	Type      string    `json:"type" gorm:"type:varchar(16);not null"` // charge | payment
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	Member Member `json:"member,omitempty" gorm:"foreignKey:MemberID"`
}

const (
	PaymentTypeCharge  = "charge"
	PaymentTypePayment = "payment"
)
