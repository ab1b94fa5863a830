package models

import "gorm.io/gorm"

// Cart is a user's working set. The unique index on UserID guarantees at
// most one cart per user; it is created lazily on first add-to-cart.
type Cart struct {
	gorm.Model
	UserID uint       `gorm:"not null;uniqueIndex" json:"user_id"`
	Items  []CartItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

// CartItem is one product line in a cart. Price is read live from the
// product at display time; only orders snapshot prices.
type CartItem struct {
	gorm.Model
	CartID    uint    `gorm:"not null;index" json:"cart_id"`
	ProductID uint    `gorm:"not null" json:"product_id"`
	Product   Product `json:"product"`
	Quantity  int     `gorm:"not null;default:1" json:"quantity"`
	Size      string  `gorm:"size:50" json:"size"`
	Color     string  `gorm:"size:50" json:"color"`
}
