package models

// PurchaseEvent records a spend event reported by the storefront. OrderRef is
// unique so that a retried purchase webhook never double-credits points.
type PurchaseEvent struct {
	ID           string  `gorm:"primaryKey;type:uuid" json:"id"`
	MemberID     string  `gorm:"index;not null" json:"member_id"`
	OrderRef     string  `gorm:"uniqueIndex;not null" json:"order_ref"`
	Amount       float64 `gorm:"not null" json:"amount"`
	PointsEarned int64   `gorm:"not null" json:"points_earned"`

	Timestamps
}
