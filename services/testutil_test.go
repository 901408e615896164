package services_test

import (
	"testing"
	"time"

	"loyalty-rewards-system/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB spins up an in-memory sqlite database with the full schema. A
// single connection keeps the memory database alive and serializes access.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.MemberProfile{},
		&models.PurchaseEvent{},
		&models.RedemptionRecord{},
		&models.ReferralEvent{},
		&models.ProgramSettings{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	defaults := models.DefaultProgramSettings()
	if err := db.Create(&defaults).Error; err != nil {
		t.Fatalf("seed settings: %v", err)
	}
	return db
}

// newTestMember inserts a member with the given balance and returns it.
func newTestMember(t *testing.T, db *gorm.DB, name string, points int64) *models.MemberProfile {
	t.Helper()
	p := &models.MemberProfile{
		ID:             uuid.NewString(),
		Name:           name,
		Email:          name + "@example.com",
		TotalPoints:    points,
		CurrentTier:    models.TierBase,
		EnrollmentDate: time.Now(),
		ReferralCode:   name + "-" + uuid.NewString()[:6],
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create member %s: %v", name, err)
	}
	return p
}

// reload fetches the latest profile row.
func reload(t *testing.T, db *gorm.DB, memberID string) *models.MemberProfile {
	t.Helper()
	var p models.MemberProfile
	if err := db.Where("id = ?", memberID).First(&p).Error; err != nil {
		t.Fatalf("reload member %s: %v", memberID, err)
	}
	return &p
}
