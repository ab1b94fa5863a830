package repositories

import (
	"github.com/ephremw/gebeya/app/models"
	"gorm.io/gorm"
)

// BannerRepository handles database operations for Banner.
type BannerRepository struct {
	db *gorm.DB
}

func NewBannerRepository(db *gorm.DB) *BannerRepository {
	return &BannerRepository{db: db}
}

// Active returns the banners currently shown on the storefront, in
// position order.
func (r *BannerRepository) Active() ([]models.Banner, error) {
	var banners []models.Banner
	err := r.db.Where("active = ?", true).Order("position ASC").Find(&banners).Error
	return banners, err
}

// All returns every banner for the admin console.
func (r *BannerRepository) All() ([]models.Banner, error) {
	var banners []models.Banner
	err := r.db.Order("position ASC").Find(&banners).Error
	return banners, err
}

// FindByID looks up a banner by primary key.
func (r *BannerRepository) FindByID(id uint) (models.Banner, error) {
	var banner models.Banner
	err := r.db.First(&banner, id).Error
	return banner, err
}

// Create persists a new banner.
func (r *BannerRepository) Create(banner *models.Banner) error {
	return r.db.Create(banner).Error
}

// Update persists changes to a banner.
func (r *BannerRepository) Update(banner *models.Banner) error {
	return r.db.Save(banner).Error
}

// Delete removes a banner.
func (r *BannerRepository) Delete(id uint) error {
	return r.db.Delete(&models.Banner{}, id).Error
}
