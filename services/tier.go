package services

import "loyalty-rewards-system/models"

// Tier thresholds on lifetime spend.
const (
	TierBronzeThreshold = 1000
	TierSilverThreshold = 5000
	TierGoldThreshold   = 10000
)

// ClassifyTier maps lifetime spend to a tier. Pure; recomputed after every
// mutation that changes LifetimeSpend and written back unconditionally.
func ClassifyTier(lifetimeSpend float64) models.Tier {
	switch {
	case lifetimeSpend >= TierGoldThreshold:
		return models.TierGold
	case lifetimeSpend >= TierSilverThreshold:
		return models.TierSilver
	case lifetimeSpend >= TierBronzeThreshold:
		return models.TierBronze
	}
	return models.TierBase
}
