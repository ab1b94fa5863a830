package models

import "gorm.io/gorm"

// Address is a shipping destination. At most one address per user carries
// IsDefault; writes clear the user's other defaults.
type Address struct {
	gorm.Model
	UserID    uint   `gorm:"not null;index" json:"user_id"`
	FullName  string `gorm:"size:255;not null" json:"full_name"`
	Phone     string `gorm:"size:50" json:"phone"`
	Street    string `gorm:"size:255;not null" json:"street"`
	City      string `gorm:"size:100;not null" json:"city"`
	Region    string `gorm:"size:100" json:"region"`
	Zip       string `gorm:"size:20" json:"zip"`
	IsDefault bool   `gorm:"default:false" json:"is_default"`
}
