package models

import (
	"time"
)

// Tier is the spend-based loyalty classification.
type Tier string

const (
	TierBase   Tier = "Base"
	TierBronze Tier = "Bronze"
	TierSilver Tier = "Silver"
	TierGold   Tier = "Gold"
)

// Role identifies what kind of account is acting. Resolved once at
// authentication by the user-context middleware; handlers never branch on the
// raw header value.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleMerchant Role = "merchant"
)

// ParseRole maps the gateway's role header to a known Role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleCustomer:
		return RoleCustomer, true
	case RoleMerchant:
		return RoleMerchant, true
	}
	return "", false
}

// MemberProfile is the durable per-member record. All balance-affecting
// mutations go through the optimistic Version column so that concurrent
// writes for the same member are serialized (see services.withProfileCAS).
//
// DailyGameAttempts is only meaningful relative to LastGamePlayed's calendar
// date: on a new day it is treated as zero without an explicit reset write.
type MemberProfile struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	Name           string    `gorm:"index;not null" json:"name"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	TotalPoints    int64     `gorm:"not null;default:0" json:"totalPoints"`
	LifetimeSpend  float64   `gorm:"not null;default:0" json:"lifetimeSpend"`
	CurrentTier    Tier      `gorm:"not null;default:'Base'" json:"currentTier"`
	EnrollmentDate time.Time `json:"enrollmentDate"`

	// ReferralCode is generated once at enrollment and never changes.
	ReferralCode string  `gorm:"uniqueIndex;not null" json:"referralCode"`
	ReferredBy   *string `gorm:"index" json:"referredBy,omitempty"`

	DailyGameAttempts    int        `gorm:"not null;default:0" json:"dailyGameAttempts"`
	LastGamePlayed       *time.Time `json:"lastGamePlayed,omitempty"`
	LastPuzzleRewardDate *time.Time `json:"lastPuzzleRewardDate,omitempty"`

	Version int64 `gorm:"not null;default:0" json:"-"`

	Timestamps
}
