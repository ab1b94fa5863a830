package seeders

import (
	"time"

	"github.com/ephremw/gebeya/app/models"
	"github.com/ephremw/gebeya/config"
	"github.com/ephremw/gebeya/pkg/auth"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func init() {
	Register("admin", SeedAdmin)
	Register("products", SeedProducts)
	Register("coupons", SeedCoupons)
	Register("banners", SeedBanners)
}

// SeedAdmin creates the initial admin account. Password comes from
// ADMIN_PASSWORD; change it after first login.
func SeedAdmin(db *gorm.DB) error {
	hashed, err := auth.HashPassword(config.Get("ADMIN_PASSWORD", "changeme123"))
	if err != nil {
		return err
	}
	admin := models.User{
		Name:     "Shop Admin",
		Email:    config.Get("ADMIN_EMAIL", "admin@gebeya.local"),
		Password: hashed,
		Role:     "admin",
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&admin).Error
}

// SeedProducts inserts a small sample catalogue for development.
func SeedProducts(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	products := []models.Product{
		{
			Name: "Classic Cotton Tee", Brand: "Sheger", Category: "shirts",
			Description: "Everyday cotton t-shirt.",
			Price:       450, Stock: 120,
			Sizes: models.StringList{"S", "M", "L", "XL"},
			Colors: models.StringList{"black", "white", "navy"},
		},
		{
			Name: "Denim Jacket", Brand: "Habesha Wear", Category: "jackets",
			Description: "Mid-weight denim jacket.",
			Price:       2100, Stock: 35,
			Sizes: models.StringList{"M", "L", "XL"},
			Colors: models.StringList{"blue"},
		},
		{
			Name: "Canvas Sneakers", Brand: "Walia", Category: "shoes",
			Description: "Low-top canvas sneakers.",
			Price:       1350, Stock: 60,
			Sizes: models.StringList{"39", "40", "41", "42", "43"},
			Colors: models.StringList{"white", "black"},
		},
		{
			Name: "Leather Belt", Brand: "Sheger", Category: "accessories",
			Description: "Full-grain leather belt.",
			Price:       780, Stock: 80,
			Sizes: models.StringList{"90", "100", "110"},
			Colors: models.StringList{"brown", "black"},
		},
	}
	return db.Create(&products).Error
}

// SeedCoupons inserts a launch coupon valid for the next 30 days.
func SeedCoupons(db *gorm.DB) error {
	now := time.Now()
	coupon := models.Coupon{
		Code:            "WELCOME10",
		DiscountPercent: 10,
		ValidFrom:       now,
		ValidTo:         now.AddDate(0, 0, 30),
		UsageLimit:      100,
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&coupon).Error
}

// SeedBanners inserts the default home-page banner.
func SeedBanners(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Banner{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	banner := models.Banner{
		Title:    "New season, new arrivals",
		Image:    "banners/new-season.jpg",
		Link:     "/products?sort=newest",
		Position: 1,
		Active:   true,
	}
	return db.Create(&banner).Error
}
