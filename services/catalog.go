package services

import "loyalty-rewards-system/models"

// rewardCatalog is the single source of redemption costs. Every call site
// resolves the cost here; nothing hard-codes a point price.
var rewardCatalog = map[models.RewardType]int64{
	models.RewardTypeCoupon: 500,
	models.RewardTypeUPI:    1000,
}

// RedemptionCost looks up the catalog price for a reward type.
func RedemptionCost(rt models.RewardType) (int64, bool) {
	cost, ok := rewardCatalog[rt]
	return cost, ok
}

// CatalogEntry is a priced reward type as shown to members.
type CatalogEntry struct {
	RewardType models.RewardType `json:"reward_type"`
	Cost       int64             `json:"cost"`
}

// Catalog returns the full reward catalog.
func Catalog() []CatalogEntry {
	return []CatalogEntry{
		{RewardType: models.RewardTypeCoupon, Cost: rewardCatalog[models.RewardTypeCoupon]},
		{RewardType: models.RewardTypeUPI, Cost: rewardCatalog[models.RewardTypeUPI]},
	}
}
