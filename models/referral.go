package models

import "time"

// ReferralEvent records a credited referral bonus. The composite unique index
// on (referrer_id, referee_id) plus the unique index on referee_id back the
// exactly-once guarantee: a pair is credited at most once, and a member can be
// referred by at most one other member.
type ReferralEvent struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	ReferrerID  string    `gorm:"index;not null;uniqueIndex:idx_referral_pair" json:"referrer_id"`
	RefereeID   string    `gorm:"not null;uniqueIndex:idx_referral_referee;uniqueIndex:idx_referral_pair" json:"referee_id"`
	BonusPoints int64     `gorm:"not null" json:"bonus_points"`
	CreditedAt  time.Time `json:"credited_at"`

	Timestamps
}
