package controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/ephremw/gebeya/app/controllers"
	"github.com/ephremw/gebeya/app/models"
	"github.com/ephremw/gebeya/app/repositories"
	"github.com/ephremw/gebeya/pkg/middleware"
	"github.com/ephremw/gebeya/pkg/router"
	"github.com/ephremw/gebeya/pkg/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// asUser stands in for the auth middleware in handler tests.
func asUser(userID uint, role string) router.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, middleware.WithUser(r, userID, role))
		})
	}
}

func newCartRouter(t *testing.T) (http.Handler, *gorm.DB, models.Product) {
	t.Helper()
	db := testkit.OpenDB(t)
	ctrl := controllers.NewCartController(
		repositories.NewCartRepository(db),
		repositories.NewProductRepository(db),
	)

	user := models.User{Name: "Sara Tesfaye", Email: "sara@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	product := models.Product{Name: "Classic Cotton Tee", Price: 450, Stock: 5}
	require.NoError(t, db.Create(&product).Error)

	r := router.New()
	shopper := asUser(user.ID, "user")
	r.Get("/api/cart", "", ctrl.Show, shopper)
	r.Post("/api/cart/items", "", ctrl.AddItem, shopper)
	r.Put("/api/cart/items/{itemID}", "", ctrl.UpdateItem, shopper)
	r.Delete("/api/cart/items/{itemID}", "", ctrl.RemoveItem, shopper)
	return r.Handler(), db, product
}

type cartPayload struct {
	Data struct {
		Items []struct {
			ID       uint `json:"ID"`
			Quantity int  `json:"quantity"`
		} `json:"items"`
	} `json:"data"`
}

func TestAddItemMergesLines(t *testing.T) {
	h, _, product := newCartRouter(t)

	body := fmt.Sprintf(`{"product_id": %d, "quantity": 2, "size": "M"}`, product.ID)
	rec := postJSON(t, h, "/api/cart/items", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Same product, size and color bumps the quantity instead of adding a row.
	rec = postJSON(t, h, "/api/cart/items", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var cart cartPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	require.Len(t, cart.Data.Items, 1)
	assert.Equal(t, 4, cart.Data.Items[0].Quantity)
}

func TestAddItemInsufficientStock(t *testing.T) {
	h, _, product := newCartRouter(t)

	body := fmt.Sprintf(`{"product_id": %d, "quantity": 6}`, product.ID)
	rec := postJSON(t, h, "/api/cart/items", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAddItemUnknownProduct(t *testing.T) {
	h, _, _ := newCartRouter(t)

	rec := postJSON(t, h, "/api/cart/items", `{"product_id": 9999, "quantity": 1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateMissingLine(t *testing.T) {
	h, _, _ := newCartRouter(t)

	req := jsonRequest(t, http.MethodPut, "/api/cart/items/42", `{"quantity": 3}`)
	rec := serve(h, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRemoveItem(t *testing.T) {
	h, db, product := newCartRouter(t)

	body := fmt.Sprintf(`{"product_id": %d, "quantity": 1}`, product.ID)
	rec := postJSON(t, h, "/api/cart/items", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var cart cartPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	require.Len(t, cart.Data.Items, 1)

	req := jsonRequest(t, http.MethodDelete,
		fmt.Sprintf("/api/cart/items/%d", cart.Data.Items[0].ID), "")
	rec = serve(h, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var remaining int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&remaining).Error)
	assert.Zero(t, remaining)
}
