package repositories

import (
	"errors"
	"strings"

	"github.com/ephremw/gebeya/app/models"
	"gorm.io/gorm"
)

// ErrOutOfStock is returned when a guarded stock decrement finds fewer units
// than requested.
var ErrOutOfStock = errors.New("product out of stock")

// ProductFilter narrows a catalog listing. Zero values mean "no constraint".
// Sizes and Colors match against the JSON-serialised list columns, so they
// work the same on all four supported drivers.
type ProductFilter struct {
	Keyword    string
	Categories []string
	Brands     []string
	Sizes      []string
	Colors     []string
	MinPrice   float64
	MaxPrice   float64
	Sort       string // price | rating | newest | sold (default)
	Order      string // asc | desc (default)
	Page       int
	Limit      int
}

// ProductRepository handles database operations for Product and Review.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Search returns a filtered, sorted page of the catalog plus the total
// matching count for pagination headers.
func (r *ProductRepository) Search(f ProductFilter) ([]models.Product, int64, error) {
	q := r.db.Model(&models.Product{})

	if f.Keyword != "" {
		like := "%" + f.Keyword + "%"
		q = q.Where("name LIKE ? OR brand LIKE ? OR category LIKE ?", like, like, like)
	}
	if len(f.Categories) > 0 {
		q = q.Where("category IN ?", f.Categories)
	}
	if len(f.Brands) > 0 {
		q = q.Where("brand IN ?", f.Brands)
	}
	q = jsonListAny(q, "sizes", f.Sizes)
	q = jsonListAny(q, "colors", f.Colors)
	if f.MinPrice > 0 {
		q = q.Where("price >= ?", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		q = q.Where("price <= ?", f.MaxPrice)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Order(sortClause(f.Sort, f.Order))

	if f.Limit <= 0 {
		f.Limit = 12
	}
	if f.Page <= 0 {
		f.Page = 1
	}

	var products []models.Product
	err := q.Offset((f.Page - 1) * f.Limit).Limit(f.Limit).Find(&products).Error
	return products, total, err
}

// jsonListAny adds an any-of filter over a JSON text column: the row matches
// when the column contains at least one of the quoted values.
func jsonListAny(q *gorm.DB, column string, values []string) *gorm.DB {
	if len(values) == 0 {
		return q
	}
	clause := ""
	args := make([]interface{}, 0, len(values))
	for _, v := range values {
		if clause != "" {
			clause += " OR "
		}
		clause += column + " LIKE ?"
		args = append(args, `%"`+v+`"%`)
	}
	return q.Where(clause, args...)
}

// sortClause maps a sort key and direction onto a whitelisted ORDER BY.
func sortClause(sort, order string) string {
	dir := "DESC"
	if strings.EqualFold(order, "asc") {
		dir = "ASC"
	}
	switch sort {
	case "price":
		return "price " + dir
	case "rating":
		return "rating " + dir
	case "newest":
		return "created_at " + dir
	default:
		return "sold DESC"
	}
}

// TopRated returns the highest rated products for the home page.
func (r *ProductRepository) TopRated(limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Order("rating DESC, num_reviews DESC").Limit(limit).Find(&products).Error
	return products, err
}

// FindByID loads a product with its reviews.
func (r *ProductRepository) FindByID(id uint) (models.Product, error) {
	var product models.Product
	err := r.db.Preload("Reviews").First(&product, id).Error
	return product, err
}

// Create persists a new product.
func (r *ProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Update persists changes to a product.
func (r *ProductRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

// Delete removes a product and its reviews.
func (r *ProductRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, id).Error
	})
}

// HasReviewed reports whether the user already reviewed the product.
func (r *ProductRepository) HasReviewed(productID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Review{}).
		Where("product_id = ? AND user_id = ?", productID, userID).
		Count(&count).Error
	return count > 0, err
}

// AddReview stores a review and recomputes the product's rating aggregate in
// the same transaction.
func (r *ProductRepository) AddReview(review *models.Review) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}

		var agg struct {
			Avg   float64
			Count int64
		}
		if err := tx.Model(&models.Review{}).
			Select("AVG(rating) AS avg, COUNT(*) AS count").
			Where("product_id = ?", review.ProductID).
			Scan(&agg).Error; err != nil {
			return err
		}

		return tx.Model(&models.Product{}).
			Where("id = ?", review.ProductID).
			Updates(map[string]interface{}{
				"rating":      agg.Avg,
				"num_reviews": agg.Count,
			}).Error
	})
}

// DecrementStock atomically takes qty units off a product's stock and adds
// them to its sold counter. The WHERE guard means a concurrent checkout can
// never drive stock negative; zero rows affected reads as out of stock.
func (r *ProductRepository) DecrementStock(tx *gorm.DB, productID uint, qty int) error {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		Updates(map[string]interface{}{
			"stock": gorm.Expr("stock - ?", qty),
			"sold":  gorm.Expr("sold + ?", qty),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOutOfStock
	}
	return nil
}
