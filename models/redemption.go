package models

import (
	"time"
)

// RewardType identifies what a member is exchanging points for.
type RewardType string

const (
	RewardTypeCoupon RewardType = "coupon"
	RewardTypeUPI    RewardType = "upi"
)

// RedemptionStatus tracks the lifecycle of an issued redemption.
type RedemptionStatus string

const (
	// RedemptionStatusIssued: coupon code handed out, valid until ExpiresAt.
	RedemptionStatusIssued RedemptionStatus = "issued"
	// RedemptionStatusPendingPayout: UPI payout waiting on the payout service.
	RedemptionStatusPendingPayout RedemptionStatus = "pending_payout"
	RedemptionStatusSettled       RedemptionStatus = "settled"
	RedemptionStatusExpired       RedemptionStatus = "expired"
)

// RedemptionRecord is the durable result of a point debit. IdempotencyKey is
// unique per logical request: replaying the same key returns this record
// instead of debiting again.
type RedemptionRecord struct {
	ID             string           `gorm:"primaryKey;type:uuid" json:"id"`
	MemberID       string           `gorm:"index;not null" json:"member_id"`
	RewardType     RewardType       `gorm:"not null" json:"reward_type"`
	PointsUsed     int64            `gorm:"not null" json:"points_used"`
	IssuedCode     string           `gorm:"not null" json:"issued_code"`
	IdempotencyKey string           `gorm:"uniqueIndex;not null" json:"-"`
	Status         RedemptionStatus `gorm:"not null;default:'issued'" json:"status"`
	ExpiresAt      *time.Time       `json:"expires_at,omitempty"`
	SettledAt      *time.Time       `json:"settled_at,omitempty"`

	Timestamps
}
