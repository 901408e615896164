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

// RedemptionService debits points for rewards. The check-and-debit is one
// atomic transaction per member; the idempotency key makes retried requests
// return the original result instead of debiting twice.
type RedemptionService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewRedemptionService(db *gorm.DB) *RedemptionService {
	return &RedemptionService{DB: db, Now: time.Now}
}

// RedemptionResult is what the caller gets back from a redeem request,
// whether fresh or replayed.
type RedemptionResult struct {
	Record   *models.RedemptionRecord `json:"record"`
	Balance  int64                    `json:"balance"`
	Replayed bool                     `json:"replayed"`
}

// Redeem exchanges points for a reward code.
//
// A record already stored under idempotencyKey is returned as-is with no
// debit. Otherwise balance check, debit, code issuance and the record append
// happen in a single CAS transaction: of two concurrent requests against a
// balance sufficient for only one, exactly one succeeds.
func (s *RedemptionService) Redeem(memberID string, rewardType models.RewardType, idempotencyKey string) (*RedemptionResult, error) {
	if memberID == "" {
		return nil, fmt.Errorf("%w: member id is required", ErrValidation)
	}
	if strings.TrimSpace(idempotencyKey) == "" {
		return nil, fmt.Errorf("%w: idempotency key is required", ErrValidation)
	}
	cost, ok := RedemptionCost(rewardType)
	if !ok {
		return nil, fmt.Errorf("%w: unknown reward type %q", ErrValidation, rewardType)
	}

	if prior, err := s.findByKey(idempotencyKey); err != nil {
		return nil, err
	} else if prior != nil {
		return s.replay(prior)
	}

	var record *models.RedemptionRecord
	profile, err := withProfileCAS(s.DB, memberID, func(tx *gorm.DB, p *models.MemberProfile) error {
		if p.TotalPoints < cost {
			return fmt.Errorf("%w: have %d, need %d", ErrInsufficientPoints, p.TotalPoints, cost)
		}
		p.TotalPoints -= cost

		rec := &models.RedemptionRecord{
			ID:             uuid.NewString(),
			MemberID:       p.ID,
			RewardType:     rewardType,
			PointsUsed:     cost,
			IssuedCode:     utils.NewRedemptionCode(string(rewardType)),
			IdempotencyKey: idempotencyKey,
			Status:         models.RedemptionStatusIssued,
		}
		settings, err := loadSettings(tx)
		if err != nil {
			return err
		}
		switch rewardType {
		case models.RewardTypeCoupon:
			expires := s.Now().AddDate(0, 0, settings.CouponValidityDays)
			rec.ExpiresAt = &expires
		case models.RewardTypeUPI:
			// Settled asynchronously by the payout worker.
			rec.Status = models.RedemptionStatusPendingPayout
		}
		if err := tx.Create(rec).Error; err != nil {
			return err
		}
		record = rec
		return nil
	})
	if err != nil {
		// Lost a race on the idempotency key: the winner's record is the
		// canonical result for this request.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if prior, lookupErr := s.findByKey(idempotencyKey); lookupErr == nil && prior != nil {
				return s.replay(prior)
			}
		}
		return nil, err
	}

	log.Printf("🎟  Redeemed %s for member %s: %d points, code %s", rewardType, memberID, cost, record.IssuedCode)
	return &RedemptionResult{Record: record, Balance: profile.TotalPoints}, nil
}

// History lists a member's redemptions, newest first.
func (s *RedemptionService) History(memberID string, limit int) ([]models.RedemptionRecord, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	var records []models.RedemptionRecord
	err := s.DB.Where("member_id = ?", memberID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

// ExpireCoupons marks issued coupons past their expiry. Points are not
// refunded. Run daily by the maintenance scheduler.
func (s *RedemptionService) ExpireCoupons() (int64, error) {
	res := s.DB.Model(&models.RedemptionRecord{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", models.RedemptionStatusIssued, s.Now()).
		Update("status", models.RedemptionStatusExpired)
	return res.RowsAffected, res.Error
}

func (s *RedemptionService) findByKey(idempotencyKey string) (*models.RedemptionRecord, error) {
	var rec models.RedemptionRecord
	err := s.DB.Where("idempotency_key = ?", idempotencyKey).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *RedemptionService) replay(rec *models.RedemptionRecord) (*RedemptionResult, error) {
	profile, err := getProfile(s.DB, rec.MemberID)
	if err != nil {
		return nil, err
	}
	return &RedemptionResult{Record: rec, Balance: profile.TotalPoints, Replayed: true}, nil
}
