package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"loyalty-rewards-system/models"
	"loyalty-rewards-system/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LoyaltyService owns the member profile store: enrollment, lookup and
// purchase crediting.
type LoyaltyService struct {
	DB *gorm.DB
	// Now is the engine clock. Overridable in tests; callers never supply
	// their own timestamps for quota or tier decisions.
	Now func() time.Time
}

func NewLoyaltyService(db *gorm.DB) *LoyaltyService {
	return &LoyaltyService{DB: db, Now: time.Now}
}

// EnrollInput is the enrollment payload. ReferralCode is optional; when set it
// is the code of the referring member, attributed after the profile exists.
type EnrollInput struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	ReferralCode string `json:"referral_code"`
}

// Enroll creates a member with zero balance and Base tier, generating the
// member's own immutable referral code. Retries code generation on the rare
// uniqueness collision.
func (s *LoyaltyService) Enroll(in EnrollInput) (*models.MemberProfile, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" || email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: name and a valid email are required", ErrValidation)
	}

	var created *models.MemberProfile
	for attempt := 0; attempt < 3; attempt++ {
		p := &models.MemberProfile{
			ID:             uuid.NewString(),
			Name:           name,
			Email:          email,
			TotalPoints:    0,
			LifetimeSpend:  0,
			CurrentTier:    models.TierBase,
			EnrollmentDate: s.Now(),
			ReferralCode:   utils.NewReferralCode(name),
		}
		err := s.DB.Create(p).Error
		if err == nil {
			created = p
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Email collision is terminal; a referral code collision just
			// means regenerate.
			var existing models.MemberProfile
			if lookupErr := s.DB.Where("email = ?", email).First(&existing).Error; lookupErr == nil {
				return nil, fmt.Errorf("%w: email already enrolled", ErrValidation)
			}
			continue
		}
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("could not generate a unique referral code for %s", email)
	}

	log.Printf("🏅 Enrolled member %s (%s), referral code %s", created.Name, created.ID, created.ReferralCode)
	return created, nil
}

// Login resolves a member by name or email. Read-only; safe to retry.
func (s *LoyaltyService) Login(identifier string) (*models.MemberProfile, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, fmt.Errorf("%w: identifier is required", ErrValidation)
	}
	return getProfileByIdentifier(s.DB, identifier)
}

// GetProfile returns the current profile snapshot.
func (s *LoyaltyService) GetProfile(memberID string) (*models.MemberProfile, error) {
	if memberID == "" {
		return nil, fmt.Errorf("%w: member id is required", ErrValidation)
	}
	return getProfile(s.DB, memberID)
}

// PurchaseResult is the outcome of a recorded purchase.
type PurchaseResult struct {
	Profile      *models.MemberProfile `json:"profile"`
	PointsEarned int64                 `json:"points_earned"`
	Replayed     bool                  `json:"replayed"`
}

// RecordPurchase credits spend and points for a storefront order. Idempotent
// on orderRef: a retried webhook returns the original result without touching
// the balance. Tier is reclassified from the new lifetime spend in the same
// transaction.
func (s *LoyaltyService) RecordPurchase(memberID, orderRef string, amount float64) (*PurchaseResult, error) {
	if memberID == "" || strings.TrimSpace(orderRef) == "" {
		return nil, fmt.Errorf("%w: member id and order ref are required", ErrValidation)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: purchase amount must be positive", ErrValidation)
	}

	if prior, err := s.findPurchase(orderRef); err != nil {
		return nil, err
	} else if prior != nil {
		profile, err := getProfile(s.DB, prior.MemberID)
		if err != nil {
			return nil, err
		}
		return &PurchaseResult{Profile: profile, PointsEarned: prior.PointsEarned, Replayed: true}, nil
	}

	var earned int64
	profile, err := withProfileCAS(s.DB, memberID, func(tx *gorm.DB, p *models.MemberProfile) error {
		settings, err := loadSettings(tx)
		if err != nil {
			return err
		}
		earned = int64(amount) / settings.EarnDivisor
		p.LifetimeSpend += amount
		p.TotalPoints += earned
		p.CurrentTier = ClassifyTier(p.LifetimeSpend)
		return tx.Create(&models.PurchaseEvent{
			ID:           uuid.NewString(),
			MemberID:     p.ID,
			OrderRef:     orderRef,
			Amount:       amount,
			PointsEarned: earned,
		}).Error
	})
	if err != nil {
		// Two retried webhooks can race past the lookup; the unique index on
		// order_ref decides the winner and the loser replays its record.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.RecordPurchase(memberID, orderRef, amount)
		}
		return nil, err
	}

	log.Printf("💳 Purchase %s: member %s spent %.2f, earned %d points (tier %s)",
		orderRef, memberID, amount, earned, profile.CurrentTier)
	return &PurchaseResult{Profile: profile, PointsEarned: earned}, nil
}

func (s *LoyaltyService) findPurchase(orderRef string) (*models.PurchaseEvent, error) {
	var ev models.PurchaseEvent
	err := s.DB.Where("order_ref = ?", orderRef).First(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// Settings returns the current program settings.
func (s *LoyaltyService) Settings() (models.ProgramSettings, error) {
	return loadSettings(s.DB)
}

// SetDailyPuzzlePoints updates the merchant-configurable puzzle reward.
func (s *LoyaltyService) SetDailyPuzzlePoints(points int64) (models.ProgramSettings, error) {
	if points <= 0 {
		return models.ProgramSettings{}, fmt.Errorf("%w: points must be positive", ErrValidation)
	}
	var st models.ProgramSettings
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		settings, err := loadSettings(tx)
		if err != nil {
			return err
		}
		settings.DailyPuzzlePoints = points
		if err := tx.Save(&settings).Error; err != nil {
			return err
		}
		st = settings
		return nil
	})
	return st, err
}

// ListMembers returns a paginated member listing for the merchant dashboard.
func (s *LoyaltyService) ListMembers(page, size int) ([]models.MemberProfile, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	var total int64
	if err := s.DB.Model(&models.MemberProfile{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var members []models.MemberProfile
	err := s.DB.Order("enrollment_date DESC").
		Limit(size).Offset((page - 1) * size).
		Find(&members).Error
	return members, total, err
}
