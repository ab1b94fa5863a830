package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon is a percentage discount with a validity window and a usage cap.
// UsageCount is only ever incremented through the guarded update in the
// order repository, so it can never pass UsageLimit.
type Coupon struct {
	gorm.Model
	Code            string    `gorm:"uniqueIndex;size:50;not null" json:"code"`
	DiscountPercent float64   `gorm:"not null" json:"discount_percent"`
	ValidFrom       time.Time `json:"valid_from"`
	ValidTo         time.Time `json:"valid_to"`
	UsageCount      int       `gorm:"default:0" json:"usage_count"`
	UsageLimit      int       `gorm:"default:0" json:"usage_limit"`
}

// UsableAt reports whether the coupon is inside its validity window and has
// usage headroom at the given instant.
func (c *Coupon) UsableAt(t time.Time) bool {
	if t.Before(c.ValidFrom) || t.After(c.ValidTo) {
		return false
	}
	return c.UsageCount < c.UsageLimit
}
