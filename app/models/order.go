package models

import "gorm.io/gorm"

// Order and payment status enums.
type OrderStatus string
type PaymentStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusFailed    OrderStatus = "failed"
	OrderStatusCancelled OrderStatus = "cancelled"

	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Payment methods accepted at checkout.
const (
	PaymentMethodPayPal = "paypal"
	PaymentMethodChapa  = "chapa"
	PaymentMethodCOD    = "cod"
)

// Order is a purchase record. Line items are snapshots frozen at creation
// time and never touched by later product edits.
//
// TxRef is the client-generated idempotency key for the Chapa redirect flow:
// the unique index is the backstop behind the 409-on-duplicate check at
// creation, and finalize looks the pending order up by it.
type Order struct {
	gorm.Model
	UserID uint        `gorm:"not null;index" json:"user_id"`
	Items  []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`

	PaymentMethod string        `gorm:"size:50;not null" json:"payment_method"`
	PaymentStatus PaymentStatus `gorm:"size:20;default:pending" json:"payment_status"`
	Status        OrderStatus   `gorm:"size:20;default:pending;index" json:"status"`
	TxRef         *string       `gorm:"size:100;uniqueIndex" json:"tx_ref,omitempty"`

	CouponCode      string  `gorm:"size:50" json:"coupon_code,omitempty"`
	DiscountPercent float64 `json:"discount_percent,omitempty"`

	Subtotal float64 `gorm:"not null" json:"subtotal"`
	Discount float64 `json:"discount"`
	Total    float64 `gorm:"not null" json:"total"`
	Currency string  `gorm:"size:10;default:ETB" json:"currency"`

	ShippingAddressID uint    `json:"shipping_address_id"`
	ShippingAddress   Address `json:"shipping_address"`
}

// OrderItem is one purchased line, snapshotted from the product at checkout.
type OrderItem struct {
	gorm.Model
	OrderID   uint    `gorm:"not null;index" json:"order_id"`
	ProductID uint    `gorm:"not null" json:"product_id"`
	Name      string  `gorm:"size:255;not null" json:"name"`
	Image     string  `gorm:"size:500" json:"image"`
	Price     float64 `gorm:"not null" json:"price"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	Size      string  `gorm:"size:50" json:"size"`
	Color     string  `gorm:"size:50" json:"color"`
}
