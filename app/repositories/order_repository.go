package repositories

import (
	"errors"
	"time"

	"github.com/ephremw/gebeya/app/models"
	"gorm.io/gorm"
)

// ErrCouponExhausted is returned when a guarded coupon increment finds the
// usage limit already reached.
var ErrCouponExhausted = errors.New("coupon usage limit reached")

// OrderRepository handles database operations for Order.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// DB exposes the underlying handle so the order service can open the
// checkout transaction spanning several repositories.
func (r *OrderRepository) DB() *gorm.DB {
	return r.db
}

// Create persists an order and its items inside an existing transaction.
func (r *OrderRepository) Create(tx *gorm.DB, order *models.Order) error {
	return tx.Create(order).Error
}

// FindForUser returns a single order scoped to its owner.
func (r *OrderRepository) FindForUser(id, userID uint) (models.Order, error) {
	var order models.Order
	err := r.db.
		Preload("Items").
		Preload("ShippingAddress").
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error
	return order, err
}

// FindByID returns any order by primary key. Admin only.
func (r *OrderRepository) FindByID(id uint) (models.Order, error) {
	var order models.Order
	err := r.db.
		Preload("Items").
		Preload("ShippingAddress").
		First(&order, id).Error
	return order, err
}

// FindByTxRef looks up an order by its payment transaction reference.
func (r *OrderRepository) FindByTxRef(txRef string) (models.Order, error) {
	var order models.Order
	err := r.db.
		Preload("Items").
		Where("tx_ref = ?", txRef).
		First(&order).Error
	return order, err
}

// TxRefExists reports whether any order already carries the reference.
func (r *OrderRepository) TxRefExists(txRef string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Order{}).Where("tx_ref = ?", txRef).Count(&count).Error
	return count > 0, err
}

// ForUser returns the user's order history, newest first.
func (r *OrderRepository) ForUser(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// All returns a page of every order for the admin console.
func (r *OrderRepository) All(page, limit int) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64
	if err := r.db.Model(&models.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.
		Preload("Items").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error
	return orders, total, err
}

// Update persists changes to an order inside an optional transaction.
func (r *OrderRepository) Update(tx *gorm.DB, order *models.Order) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Save(order).Error
}

// UpdateStatus moves an order to a new fulfilment status.
func (r *OrderRepository) UpdateStatus(id uint, status models.OrderStatus) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RedeemCoupon atomically bumps a coupon's usage counter inside an existing
// transaction. The WHERE guard enforces both the validity window and the
// usage cap, so two concurrent checkouts cannot spend the last use twice.
func (r *OrderRepository) RedeemCoupon(tx *gorm.DB, code string, now time.Time) error {
	res := tx.Model(&models.Coupon{}).
		Where("code = ? AND valid_from <= ? AND valid_to >= ? AND usage_count < usage_limit",
			code, now, now).
		Update("usage_count", gorm.Expr("usage_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCouponExhausted
	}
	return nil
}
