package models

import "gorm.io/gorm"

// Banner is a home-page promotional slot managed from the admin console.
type Banner struct {
	gorm.Model
	Title    string `gorm:"size:255;not null" json:"title"`
	Image    string `gorm:"size:500;not null" json:"image"`
	Link     string `gorm:"size:500" json:"link"`
	Position int    `gorm:"default:0" json:"position"`
	Active   bool   `gorm:"default:true" json:"active"`
}
