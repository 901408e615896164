package services

import (
	"testing"
	"time"

	"loyalty-rewards-system/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openStoreDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.MemberProfile{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// A CAS commit must never carry referred_by from its snapshot: the referral
// path stamps it without bumping the version, so a writer holding a pre-stamp
// snapshot would otherwise pass the version check and erase the attribution.
func TestCASSaveDoesNotClobberReferralStamp(t *testing.T) {
	db := openStoreDB(t)

	member := &models.MemberProfile{
		ID:             uuid.NewString(),
		Name:           "noor",
		Email:          "noor@example.com",
		CurrentTier:    models.TierBase,
		EnrollmentDate: time.Now(),
		ReferralCode:   "noor-AB12CD",
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("create member: %v", err)
	}
	referrerID := uuid.NewString()

	// The stamp lands after fn has read its snapshot but before the CAS save,
	// which is where a concurrent referral commit would interleave.
	_, err := withProfileCAS(db, member.ID, func(tx *gorm.DB, p *models.MemberProfile) error {
		if p.ReferredBy != nil {
			t.Fatal("snapshot unexpectedly carries a stamp")
		}
		if err := tx.Model(&models.MemberProfile{}).
			Where("id = ?", p.ID).
			Update("referred_by", referrerID).Error; err != nil {
			return err
		}
		p.TotalPoints += 10
		return nil
	})
	if err != nil {
		t.Fatalf("cas write: %v", err)
	}

	var got models.MemberProfile
	if err := db.Where("id = ?", member.ID).First(&got).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.ReferredBy == nil || *got.ReferredBy != referrerID {
		t.Errorf("referred_by = %v, want stamp %s preserved across the CAS save", got.ReferredBy, referrerID)
	}
	if got.TotalPoints != 10 {
		t.Errorf("points = %d, want 10 (the CAS write itself must still land)", got.TotalPoints)
	}
}
