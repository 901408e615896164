package services

import (
	"errors"
	"fmt"
	"strings"

	"loyalty-rewards-system/models"

	"gorm.io/gorm"
)

const casMaxRetries = 5

// getProfile loads a member by id.
func getProfile(db *gorm.DB, memberID string) (*models.MemberProfile, error) {
	var p models.MemberProfile
	if err := db.Where("id = ?", memberID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: member %s", ErrNotFound, memberID)
		}
		return nil, err
	}
	return &p, nil
}

// getProfileByIdentifier resolves a member by email or name (the login flow).
// Emails are stored lowercased at enrollment, so the email comparison folds
// the identifier; names match verbatim.
func getProfileByIdentifier(db *gorm.DB, identifier string) (*models.MemberProfile, error) {
	var p models.MemberProfile
	err := db.Where("email = ? OR name = ?", strings.ToLower(identifier), identifier).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no member matches %q", ErrNotFound, identifier)
		}
		return nil, err
	}
	return &p, nil
}

// saveProfileCAS persists the mutable profile fields guarded by the version
// column. Returns false (no error) when another writer got there first.
//
// referred_by is deliberately absent: it is stamped only by the referral path
// (which never bumps the version), so writing it here would let a CAS commit
// carrying a pre-stamp snapshot erase a concurrent referral attribution.
func saveProfileCAS(tx *gorm.DB, p *models.MemberProfile) (bool, error) {
	prev := p.Version
	res := tx.Model(&models.MemberProfile{}).
		Where("id = ? AND version = ?", p.ID, prev).
		Updates(map[string]interface{}{
			"total_points":            p.TotalPoints,
			"lifetime_spend":          p.LifetimeSpend,
			"current_tier":            p.CurrentTier,
			"daily_game_attempts":     p.DailyGameAttempts,
			"last_game_played":        p.LastGamePlayed,
			"last_puzzle_reward_date": p.LastPuzzleRewardDate,
			"version":                 prev + 1,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	p.Version = prev + 1
	return true, nil
}

// withProfileCAS runs a read-modify-write against one member inside a
// transaction, serialized by the optimistic version column. fn may create
// auxiliary rows through tx; everything rolls back together on a version
// conflict and the whole attempt is retried. Operations on different members
// never contend.
func withProfileCAS(db *gorm.DB, memberID string, fn func(tx *gorm.DB, p *models.MemberProfile) error) (*models.MemberProfile, error) {
	for attempt := 0; attempt < casMaxRetries; attempt++ {
		var out *models.MemberProfile
		err := db.Transaction(func(tx *gorm.DB) error {
			var p models.MemberProfile
			if err := tx.Where("id = ?", memberID).First(&p).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: member %s", ErrNotFound, memberID)
				}
				return err
			}
			if err := fn(tx, &p); err != nil {
				return err
			}
			ok, err := saveProfileCAS(tx, &p)
			if err != nil {
				return err
			}
			if !ok {
				return errVersionConflict
			}
			out = &p
			return nil
		})
		if err == nil {
			return out, nil
		}
		if errors.Is(err, errVersionConflict) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("giving up after %d version conflicts on member %s", casMaxRetries, memberID)
}

// loadSettings reads the program settings row, falling back to defaults when
// the row has not been seeded yet.
func loadSettings(tx *gorm.DB) (models.ProgramSettings, error) {
	var st models.ProgramSettings
	if err := tx.First(&st, 1).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DefaultProgramSettings(), nil
		}
		return models.ProgramSettings{}, err
	}
	return st, nil
}
