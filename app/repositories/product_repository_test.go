package repositories_test

import (
	"testing"

	"github.com/ephremw/gebeya/app/models"
	"github.com/ephremw/gebeya/app/repositories"
	"github.com/ephremw/gebeya/pkg/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedCatalog(t *testing.T, db *gorm.DB) []models.Product {
	t.Helper()
	products := []models.Product{
		{Name: "Classic Cotton Tee", Brand: "Sheger", Category: "shirts", Price: 450, Stock: 10, Rating: 4.5, Sold: 30,
			Sizes: models.StringList{"S", "M", "L"}},
		{Name: "Linen Summer Shirt", Brand: "Sheger", Category: "shirts", Price: 900, Stock: 5, Rating: 3.8, Sold: 12,
			Sizes: models.StringList{"M", "L"}, Colors: models.StringList{"white"}},
		{Name: "Denim Jacket", Brand: "Entoto", Category: "jackets", Price: 2200, Stock: 3, Rating: 4.9, Sold: 45,
			Sizes: models.StringList{"XL"}, Colors: models.StringList{"blue"}},
	}
	for i := range products {
		require.NoError(t, db.Create(&products[i]).Error)
	}
	return products
}

func TestSearchFilters(t *testing.T) {
	db := testkit.OpenDB(t)
	repo := repositories.NewProductRepository(db)
	seedCatalog(t, db)

	results, total, err := repo.Search(repositories.ProductFilter{Categories: []string{"shirts"}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, results, 2)

	results, total, err = repo.Search(repositories.ProductFilter{Keyword: "denim"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, results, 1)
	assert.Equal(t, "Denim Jacket", results[0].Name)

	results, _, err = repo.Search(repositories.ProductFilter{MinPrice: 500, MaxPrice: 1000})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Linen Summer Shirt", results[0].Name)

	results, _, err = repo.Search(repositories.ProductFilter{Sizes: []string{"S", "XL"}})
	require.NoError(t, err)
	assert.Len(t, results, 2, "any-of match over the sizes column")

	results, _, err = repo.Search(repositories.ProductFilter{Colors: []string{"white"}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Linen Summer Shirt", results[0].Name)

	results, _, err = repo.Search(repositories.ProductFilter{Sort: "price", Order: "asc"})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "Classic Cotton Tee", results[0].Name)
	assert.Equal(t, "Denim Jacket", results[2].Name)
}

func TestSearchPagination(t *testing.T) {
	db := testkit.OpenDB(t)
	repo := repositories.NewProductRepository(db)
	seedCatalog(t, db)

	page1, total, err := repo.Search(repositories.ProductFilter{Sort: "price", Order: "asc", Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, page1, 2)

	page2, _, err := repo.Search(repositories.ProductFilter{Sort: "price", Order: "asc", Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page2, 1)
}

func TestDecrementStockGuard(t *testing.T) {
	db := testkit.OpenDB(t)
	repo := repositories.NewProductRepository(db)

	product := models.Product{Name: "Classic Cotton Tee", Price: 450, Stock: 3}
	require.NoError(t, db.Create(&product).Error)

	require.NoError(t, repo.DecrementStock(db, product.ID, 2))

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 1, reloaded.Stock)
	assert.Equal(t, 2, reloaded.Sold)

	// More units than remain: guard refuses, nothing changes.
	err := repo.DecrementStock(db, product.ID, 2)
	assert.ErrorIs(t, err, repositories.ErrOutOfStock)

	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 1, reloaded.Stock)
	assert.Equal(t, 2, reloaded.Sold)
}

func TestAddReviewRecomputesRating(t *testing.T) {
	db := testkit.OpenDB(t)
	repo := repositories.NewProductRepository(db)

	product := models.Product{Name: "Classic Cotton Tee", Price: 450}
	require.NoError(t, db.Create(&product).Error)

	require.NoError(t, repo.AddReview(&models.Review{ProductID: product.ID, UserID: 1, Rating: 5}))
	require.NoError(t, repo.AddReview(&models.Review{ProductID: product.ID, UserID: 2, Rating: 3}))

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 4.0, reloaded.Rating)
	assert.Equal(t, 2, reloaded.NumReviews)

	seen, err := repo.HasReviewed(product.ID, 1)
	require.NoError(t, err)
	assert.True(t, seen)

	seen, err = repo.HasReviewed(product.ID, 3)
	require.NoError(t, err)
	assert.False(t, seen)
}
