package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"loyalty-rewards-system/models"

	"gorm.io/gorm"
)

// AnalyticsService aggregates program numbers for the merchant dashboard and
// the nightly export.
type AnalyticsService struct {
	DB *gorm.DB
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{DB: db}
}

// ProgramSummary is the merchant dashboard payload.
type ProgramSummary struct {
	TotalMembers      int64                      `json:"total_members"`
	TierDistribution  map[models.Tier]int64      `json:"tier_distribution"`
	PointsOutstanding int64                      `json:"points_outstanding"`
	PointsRedeemed    int64                      `json:"points_redeemed"`
	RedemptionsByType map[models.RewardType]int64 `json:"redemptions_by_type"`
	ReferralsCredited int64                      `json:"referrals_credited"`
	LifetimeSpend     float64                    `json:"lifetime_spend"`
}

// Summary computes the current program totals.
func (s *AnalyticsService) Summary() (*ProgramSummary, error) {
	out := &ProgramSummary{
		TierDistribution:  make(map[models.Tier]int64),
		RedemptionsByType: make(map[models.RewardType]int64),
	}

	if err := s.DB.Model(&models.MemberProfile{}).Count(&out.TotalMembers).Error; err != nil {
		return nil, err
	}

	var tierRows []struct {
		CurrentTier models.Tier
		N           int64
	}
	if err := s.DB.Model(&models.MemberProfile{}).
		Select("current_tier, COUNT(*) AS n").
		Group("current_tier").
		Scan(&tierRows).Error; err != nil {
		return nil, err
	}
	for _, row := range tierRows {
		out.TierDistribution[row.CurrentTier] = row.N
	}

	var totals struct {
		Points int64
		Spend  float64
	}
	if err := s.DB.Model(&models.MemberProfile{}).
		Select("COALESCE(SUM(total_points), 0) AS points, COALESCE(SUM(lifetime_spend), 0) AS spend").
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	out.PointsOutstanding = totals.Points
	out.LifetimeSpend = totals.Spend

	var redemptionRows []struct {
		RewardType models.RewardType
		N          int64
		Points     int64
	}
	if err := s.DB.Model(&models.RedemptionRecord{}).
		Select("reward_type, COUNT(*) AS n, COALESCE(SUM(points_used), 0) AS points").
		Group("reward_type").
		Scan(&redemptionRows).Error; err != nil {
		return nil, err
	}
	for _, row := range redemptionRows {
		out.RedemptionsByType[row.RewardType] = row.N
		out.PointsRedeemed += row.Points
	}

	if err := s.DB.Model(&models.ReferralEvent{}).Count(&out.ReferralsCredited).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// RedemptionsCSV renders redemptions in [since, until) as a CSV snapshot for
// the nightly object-storage export.
func (s *AnalyticsService) RedemptionsCSV(since, until time.Time) ([]byte, error) {
	var records []models.RedemptionRecord
	if err := s.DB.Where("created_at >= ? AND created_at < ?", since, until).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"id", "member_id", "reward_type", "points_used", "status", "issued_code", "created_at"})
	for _, r := range records {
		_ = w.Write([]string{
			r.ID,
			r.MemberID,
			string(r.RewardType),
			fmt.Sprintf("%d", r.PointsUsed),
			string(r.Status),
			r.IssuedCode,
			r.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
