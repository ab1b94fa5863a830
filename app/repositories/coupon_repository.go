package repositories

import (
	"github.com/ephremw/gebeya/app/models"
	"gorm.io/gorm"
)

// CouponRepository handles database operations for Coupon.
type CouponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

// FindByCode looks up a coupon by its code.
func (r *CouponRepository) FindByCode(code string) (models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.Where("code = ?", code).First(&coupon).Error
	return coupon, err
}

// All returns every coupon for the admin console.
func (r *CouponRepository) All() ([]models.Coupon, error) {
	var coupons []models.Coupon
	err := r.db.Order("created_at DESC").Find(&coupons).Error
	return coupons, err
}

// Create persists a new coupon.
func (r *CouponRepository) Create(coupon *models.Coupon) error {
	return r.db.Create(coupon).Error
}

// Update persists changes to a coupon.
func (r *CouponRepository) Update(coupon *models.Coupon) error {
	return r.db.Save(coupon).Error
}

// Delete removes a coupon.
func (r *CouponRepository) Delete(id uint) error {
	return r.db.Delete(&models.Coupon{}, id).Error
}
