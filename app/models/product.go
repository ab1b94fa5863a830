package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
)

// StringList is a []string persisted as a JSON text column. Used for product
// images, sizes, and colors so catalogue rows stay portable across the four
// supported SQL drivers.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("models: cannot scan %T into StringList", src)
	}
}

// Product represents an item in the catalogue. Stock and Sold are mutated
// only inside checkout transactions.
type Product struct {
	gorm.Model
	Name        string     `gorm:"size:255;not null;index" json:"name"`
	Brand       string     `gorm:"size:100;index" json:"brand"`
	Category    string     `gorm:"size:100;index" json:"category"`
	Description string     `gorm:"type:text" json:"description"`
	Price       float64    `gorm:"not null;default:0" json:"price"`
	Stock       int        `gorm:"not null;default:0" json:"stock"`
	Sold        int        `gorm:"not null;default:0" json:"sold"`
	Images      StringList `gorm:"type:text" json:"images"`
	Sizes       StringList `gorm:"type:text" json:"sizes"`
	Colors      StringList `gorm:"type:text" json:"colors"`

	// Aggregate review stats, recomputed when a review lands.
	Rating     float64 `gorm:"default:0" json:"rating"`
	NumReviews int     `gorm:"default:0" json:"num_reviews"`

	Reviews []Review `gorm:"constraint:OnDelete:CASCADE" json:"reviews,omitempty"`
}

// Review is a single customer review attached to a product.
type Review struct {
	gorm.Model
	ProductID uint   `gorm:"not null;index" json:"product_id"`
	UserID    uint   `gorm:"not null" json:"user_id"`
	UserName  string `gorm:"size:255" json:"user_name"`
	Rating    int    `gorm:"not null" json:"rating"`
	Comment   string `gorm:"type:text" json:"comment"`
}
