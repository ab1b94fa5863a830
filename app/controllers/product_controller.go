package controllers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/ephremw/gebeya/app/models"
	"github.com/ephremw/gebeya/app/repositories"
	"github.com/ephremw/gebeya/pkg/bind"
	"github.com/ephremw/gebeya/pkg/cache"
	"github.com/ephremw/gebeya/pkg/crypt"
	"github.com/ephremw/gebeya/pkg/logger"
	"github.com/ephremw/gebeya/pkg/middleware"
	"github.com/ephremw/gebeya/pkg/response"
	"github.com/ephremw/gebeya/pkg/storage"
)

// maxUploadBytes caps product image uploads at 5 MB.
const maxUploadBytes = 5 << 20

// ProductController serves the catalogue plus the admin product CRUD.
type ProductController struct {
	products *repositories.ProductRepository
	users    *repositories.UserRepository
}

func NewProductController(products *repositories.ProductRepository, users *repositories.UserRepository) *ProductController {
	return &ProductController{products: products, users: users}
}

// listingTTL bounds how stale a cached catalogue page can get after an
// admin edit.
const listingTTL = time.Minute

type listingPage struct {
	Items []models.Product `json:"items"`
	Total int64            `json:"total"`
}

// List returns a filtered, sorted catalogue page. Pages are cached in Redis
// keyed by the full filter signature.
//
// Query parameters: keyword, category, brand, size, color (repeatable or
// comma-separated), min_price, max_price, sort (price|rating|newest),
// order (asc|desc), page, limit.
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repositories.ProductFilter{
		Keyword:    q.Get("keyword"),
		Categories: queryList(r, "category"),
		Brands:     queryList(r, "brand"),
		Sizes:      queryList(r, "size"),
		Colors:     queryList(r, "color"),
		MinPrice:   queryFloat(r, "min_price"),
		MaxPrice:   queryFloat(r, "max_price"),
		Sort:       q.Get("sort"),
		Order:      q.Get("order"),
		Page:       queryInt(r, "page", 1),
		Limit:      queryInt(r, "limit", 12),
	}

	key := "products:list:" + crypt.Hash(fmt.Sprintf("%+v", filter))
	var page listingPage
	if !cache.Get(key, &page) {
		products, total, err := c.products.Search(filter)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "Could not load products")
			return
		}
		page = listingPage{Items: products, Total: total}
		if err := cache.Set(key, page, listingTTL); err != nil {
			logger.Warn("products: cache listing", "error", err)
		}
	}

	response.Paginated(w, page.Items, response.NewPagination(filter.Page, filter.Limit, page.Total))
}

// TopRated returns the best reviewed products for the home page.
func (c *ProductController) TopRated(w http.ResponseWriter, r *http.Request) {
	products, err := c.products.TopRated(queryInt(r, "limit", 8))
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load products")
		return
	}
	response.Success(w, products)
}

// Show returns one product with its reviews.
func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := paramUint(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}
	product, err := c.products.FindByID(id)
	if err != nil {
		response.NotFound(w)
		return
	}
	response.Success(w, product)
}

type reviewRequest struct {
	Rating  int    `json:"rating" validate:"required,integer,between=1,5"`
	Comment string `json:"comment" validate:"nullable,max=2000"`
}

// AddReview stores a review for the authenticated user. One review per
// user per product.
func (c *ProductController) AddReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	productID, ok := paramUint(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}

	var req reviewRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if _, err := c.products.FindByID(productID); err != nil {
		response.NotFound(w)
		return
	}
	already, err := c.products.HasReviewed(productID, userID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not save review")
		return
	}
	if already {
		response.Error(w, http.StatusConflict, "You have already reviewed this product")
		return
	}

	user, err := c.users.FindByID(userID)
	if err != nil {
		response.Unauthorized(w)
		return
	}

	review := models.Review{
		ProductID: productID,
		UserID:    userID,
		UserName:  user.Name,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := c.products.AddReview(&review); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not save review")
		return
	}
	response.Created(w, review)
}

type productRequest struct {
	Name        string   `json:"name" validate:"required,max=255"`
	Brand       string   `json:"brand" validate:"nullable,max=100"`
	Category    string   `json:"category" validate:"nullable,max=100"`
	Description string   `json:"description" validate:"nullable"`
	Price       float64  `json:"price" validate:"required,numeric,gt=0"`
	Stock       int      `json:"stock" validate:"nullable,integer,gte=0"`
	Images      []string `json:"images"`
	Sizes       []string `json:"sizes"`
	Colors      []string `json:"colors"`
}

func (req *productRequest) apply(p *models.Product) {
	p.Name = req.Name
	p.Brand = req.Brand
	p.Category = req.Category
	p.Description = req.Description
	p.Price = req.Price
	p.Stock = req.Stock
	p.Images = req.Images
	p.Sizes = req.Sizes
	p.Colors = req.Colors
}

// Create adds a product to the catalogue. Admin only.
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	var product models.Product
	req.apply(&product)
	if err := c.products.Create(&product); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not create product")
		return
	}
	response.Created(w, product)
}

// Update edits a product. Admin only. Stock set here is the restock path;
// checkout decrements are guarded separately.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := paramUint(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}
	product, err := c.products.FindByID(id)
	if err != nil {
		response.NotFound(w)
		return
	}

	var req productRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	req.apply(&product)
	if err := c.products.Update(&product); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not update product")
		return
	}
	response.Success(w, product)
}

// Delete removes a product and its reviews. Admin only.
func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := paramUint(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}
	if err := c.products.Delete(id); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not delete product")
		return
	}
	response.Message(w, "Product deleted")
}

// UploadImage stores a product image on the configured disk and returns
// its public URL. Admin only. Multipart field name: "image".
func (c *ProductController) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid upload")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Missing image file")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		response.Error(w, http.StatusUnprocessableEntity, "Unsupported image type")
		return
	}

	name, err := crypt.RandomToken(16)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not store image")
		return
	}
	path := fmt.Sprintf("products/%s%s", name, ext)

	if err := storage.PutStream(path, file); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not store image")
		return
	}
	response.Created(w, map[string]string{
		"path": path,
		"url":  storage.URL(path),
	})
}
