package models

import (
	"time"

	"gorm.io/gorm"
)

// ProgramSettings holds the merchant-tunable program numbers. A single row
// (ID = 1) is seeded at boot and edited through the merchant endpoints.
type ProgramSettings struct {
	ID                  uint  `gorm:"primaryKey" json:"id"`
	DailyPuzzlePoints   int64 `gorm:"not null;default:50" json:"daily_puzzle_points"`
	ReferralBonusPoints int64 `gorm:"not null;default:100" json:"referral_bonus_points"`
	// EarnDivisor: one point per EarnDivisor currency units of spend.
	EarnDivisor        int64 `gorm:"not null;default:10" json:"earn_divisor"`
	CouponValidityDays int   `gorm:"not null;default:90" json:"coupon_validity_days"`

	Timestamps
}

// DefaultProgramSettings returns the values used before a merchant has saved
// anything.
func DefaultProgramSettings() ProgramSettings {
	return ProgramSettings{
		ID:                  1,
		DailyPuzzlePoints:   50,
		ReferralBonusPoints: 100,
		EarnDivisor:         10,
		CouponValidityDays:  90,
	}
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
