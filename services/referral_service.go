package services

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"loyalty-rewards-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReferralService attributes referral bonuses exactly once per
// (referrer, referee) pair.
type ReferralService struct {
	DB  *gorm.DB
	Now func() time.Time
	// LinkBase is the public registration URL referral links point at.
	LinkBase string
}

func NewReferralService(db *gorm.DB) *ReferralService {
	base := os.Getenv("REFERRAL_LINK_BASE")
	if base == "" {
		base = "http://localhost:3000/register"
	}
	return &ReferralService{DB: db, Now: time.Now, LinkBase: base}
}

// Link builds the shareable referral URL for a member's code.
func (s *ReferralService) Link(memberID string) (string, error) {
	p, err := getProfile(s.DB, memberID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s?ref=%s", s.LinkBase, p.ReferralCode), nil
}

// Track resolves a referral code to its owner and credits the referral for
// the acting (referee) member. The referee's ReferredBy is set in the same
// transaction as the bonus credit.
func (s *ReferralService) Track(refereeID, code string) (*models.MemberProfile, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: referral code is required", ErrValidation)
	}
	var referrer models.MemberProfile
	if err := s.DB.Where("referral_code = ?", code).First(&referrer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: referral code %q", ErrNotFound, code)
		}
		return nil, err
	}
	return s.Credit(referrer.ID, refereeID)
}

// Credit appends the ReferralEvent and adds the configured bonus to the
// referrer's balance, atomically and at most once per pair. Self-referrals
// are rejected; the unique indexes on referral_events settle races.
func (s *ReferralService) Credit(referrerID, refereeID string) (*models.MemberProfile, error) {
	if referrerID == "" || refereeID == "" {
		return nil, fmt.Errorf("%w: referrer and referee ids are required", ErrValidation)
	}
	if referrerID == refereeID {
		return nil, fmt.Errorf("%w: members cannot refer themselves", ErrInvalidReferral)
	}
	// The referee must exist before anyone earns a bonus for referring them.
	if _, err := getProfile(s.DB, refereeID); err != nil {
		return nil, err
	}

	var bonus int64
	profile, err := withProfileCAS(s.DB, referrerID, func(tx *gorm.DB, p *models.MemberProfile) error {
		// A referee appears in at most one event, which also covers the
		// per-pair uniqueness.
		var count int64
		if err := tx.Model(&models.ReferralEvent{}).
			Where("referee_id = ?", refereeID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: member %s was already referred", ErrDuplicateReferral, refereeID)
		}

		settings, err := loadSettings(tx)
		if err != nil {
			return err
		}
		bonus = settings.ReferralBonusPoints

		if err := tx.Create(&models.ReferralEvent{
			ID:          uuid.NewString(),
			ReferrerID:  referrerID,
			RefereeID:   refereeID,
			BonusPoints: bonus,
			CreditedAt:  s.Now(),
		}).Error; err != nil {
			return err
		}
		p.TotalPoints += bonus

		// Stamp the referee in the same transaction.
		return tx.Model(&models.MemberProfile{}).
			Where("id = ?", refereeID).
			Update("referred_by", referrerID).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: member %s was already referred", ErrDuplicateReferral, refereeID)
		}
		return nil, err
	}

	log.Printf("🤝 Referral credited: %s referred %s (+%d points)", referrerID, refereeID, bonus)
	return profile, nil
}
