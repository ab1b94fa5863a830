package repositories

import (
	"errors"

	"github.com/ephremw/gebeya/app/models"
	"gorm.io/gorm"
)

// CartRepository handles database operations for Cart and CartItem.
type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

// ForUser returns the user's cart with items and live product data,
// creating an empty cart on first access.
func (r *CartRepository) ForUser(userID uint) (models.Cart, error) {
	var cart models.Cart
	err := r.db.
		Preload("Items.Product").
		Where("user_id = ?", userID).
		First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{UserID: userID}
		err = r.db.Create(&cart).Error
	}
	return cart, err
}

// AddItem merges a line into the cart: same product, size and color bumps
// the quantity instead of duplicating the row.
func (r *CartRepository) AddItem(cartID uint, item models.CartItem) error {
	var existing models.CartItem
	err := r.db.
		Where("cart_id = ? AND product_id = ? AND size = ? AND color = ?",
			cartID, item.ProductID, item.Size, item.Color).
		First(&existing).Error

	if err == nil {
		existing.Quantity += item.Quantity
		return r.db.Save(&existing).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	item.CartID = cartID
	return r.db.Create(&item).Error
}

// UpdateItemQuantity sets the quantity on a line, scoped to the cart.
func (r *CartRepository) UpdateItemQuantity(cartID, itemID uint, quantity int) error {
	res := r.db.Model(&models.CartItem{}).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Update("quantity", quantity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RemoveItem deletes a single line from the cart.
func (r *CartRepository) RemoveItem(cartID, itemID uint) error {
	res := r.db.Where("id = ? AND cart_id = ?", itemID, cartID).Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Clear empties the user's cart. Checkout passes its transaction so the
// wipe commits or rolls back with the order itself; pass nil outside one.
func (r *CartRepository) Clear(tx *gorm.DB, userID uint) error {
	if tx == nil {
		tx = r.db
	}
	var cart models.Cart
	err := tx.Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
}
