package controllers

import (
	"errors"
	"net/http"

	"github.com/ephremw/gebeya/app/models"
	"github.com/ephremw/gebeya/app/repositories"
	"github.com/ephremw/gebeya/pkg/bind"
	"github.com/ephremw/gebeya/pkg/middleware"
	"github.com/ephremw/gebeya/pkg/response"
	"gorm.io/gorm"
)

// CartController manages the authenticated user's cart.
type CartController struct {
	carts    *repositories.CartRepository
	products *repositories.ProductRepository
}

func NewCartController(carts *repositories.CartRepository, products *repositories.ProductRepository) *CartController {
	return &CartController{carts: carts, products: products}
}

// Show returns the cart with live product data.
func (c *CartController) Show(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	cart, err := c.carts.ForUser(userID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load cart")
		return
	}
	response.Success(w, cart)
}

type addItemRequest struct {
	ProductID uint   `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,integer,gte=1"`
	Size      string `json:"size" validate:"nullable,max=50"`
	Color     string `json:"color" validate:"nullable,max=50"`
}

// AddItem puts a product line in the cart, merging duplicates. The stock
// check here is advisory only; the binding check happens at checkout.
func (c *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	var req addItemRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.products.FindByID(req.ProductID)
	if err != nil {
		response.Error(w, http.StatusNotFound, "Product not found")
		return
	}
	if product.Stock < req.Quantity {
		response.Error(w, http.StatusConflict, "Not enough stock")
		return
	}

	cart, err := c.carts.ForUser(userID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load cart")
		return
	}

	item := models.CartItem{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Size:      req.Size,
		Color:     req.Color,
	}
	if err := c.carts.AddItem(cart.ID, item); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not add to cart")
		return
	}

	cart, err = c.carts.ForUser(userID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load cart")
		return
	}
	response.Success(w, cart)
}

type updateItemRequest struct {
	Quantity int `json:"quantity" validate:"required,integer,gte=1"`
}

// UpdateItem sets the quantity on a cart line.
func (c *CartController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	itemID, ok := paramUint(r, "itemID")
	if !ok {
		response.NotFound(w)
		return
	}

	var req updateItemRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	cart, err := c.carts.ForUser(userID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load cart")
		return
	}

	if err := c.carts.UpdateItemQuantity(cart.ID, itemID, req.Quantity); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, "Could not update cart")
		return
	}
	response.Message(w, "Cart updated")
}

// Clear empties the whole cart.
func (c *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	if err := c.carts.Clear(nil, userID); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not clear cart")
		return
	}
	response.Message(w, "Cart cleared")
}

// RemoveItem deletes a cart line.
func (c *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	itemID, ok := paramUint(r, "itemID")
	if !ok {
		response.NotFound(w)
		return
	}

	cart, err := c.carts.ForUser(userID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load cart")
		return
	}

	if err := c.carts.RemoveItem(cart.ID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, "Could not update cart")
		return
	}
	response.Message(w, "Item removed")
}
