package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/sweetshop/internal/cache"
	"github.com/Skotchmaster/sweetshop/internal/models"
	"github.com/Skotchmaster/sweetshop/internal/mykafka"
)

type ProductHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	Cache    *cache.ProductCache
}

func validCategory(cat string) bool {
	return cat == models.CategorySavory || cat == models.CategorySweet
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	if product, ok := h.Cache.Get(ctx, id); ok {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "product": product})
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		return respondError(c, http.StatusNotFound, "product not found")
	}
	h.Cache.Set(ctx, &product)

	return c.JSON(http.StatusOK, echo.Map{"success": true, "product": &product})
}

// GetProducts lists the catalog with optional category/search filters and a
// fixed sort vocabulary (price_low, price_high, rating, default newest).
func (h *ProductHandler) GetProducts(c echo.Context) error {
	q := h.DB.Model(&models.Product{})

	if category := c.QueryParam("category"); category != "" {
		q = q.Where("category = ?", category)
	}
	if search := c.QueryParam("search"); search != "" {
		pattern := "%" + search + "%"
		q = q.Where("LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern)
	}

	switch c.QueryParam("sort") {
	case "price_low":
		q = q.Order("price ASC")
	case "price_high":
		q = q.Order("price DESC")
	case "rating":
		q = q.Order("rating DESC")
	default:
		q = q.Order("created_at DESC")
	}

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, "error fetching products")
	}

	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var product models.Product
	if err := c.Bind(&product); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}

	product.ID = 0
	product.Rating = 0
	product.ReviewCount = 0
	product.InStock = product.StockQuantity > 0

	if product.Name == "" || product.Description == "" {
		return respondError(c, http.StatusBadRequest, "please provide product name and description")
	}
	if product.Price < 0 {
		return respondError(c, http.StatusBadRequest, "price must be >= 0")
	}
	if !validCategory(product.Category) {
		return respondError(c, http.StatusBadRequest, "category must be Savory or Sweet")
	}

	if err := h.DB.Create(&product).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, "error creating product")
	}

	publish(c, h.Producer, "product_events", fmt.Sprint(product.ID), map[string]any{
		"type":      "product_created",
		"productID": product.ID,
		"name":      product.Name,
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "product created successfully",
		"product": product,
	})
}

func (h *ProductHandler) PatchProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	var req struct {
		Name          *string  `json:"name"`
		Description   *string  `json:"description"`
		Price         *float64 `json:"price"`
		Category      *string  `json:"category"`
		Image         *string  `json:"image"`
		Ingredients   *string  `json:"ingredients"`
		ShelfLife     *string  `json:"shelf_life"`
		Weight        *string  `json:"weight"`
		InStock       *bool    `json:"in_stock"`
		StockQuantity *int     `json:"stock_quantity"`
		Featured      *bool    `json:"featured"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		return respondError(c, http.StatusNotFound, "product not found")
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return respondError(c, http.StatusBadRequest, "price must be >= 0")
		}
		product.Price = *req.Price
	}
	if req.Category != nil {
		if !validCategory(*req.Category) {
			return respondError(c, http.StatusBadRequest, "category must be Savory or Sweet")
		}
		product.Category = *req.Category
	}
	if req.Image != nil {
		product.Image = *req.Image
	}
	if req.Ingredients != nil {
		product.Ingredients = *req.Ingredients
	}
	if req.ShelfLife != nil {
		product.ShelfLife = *req.ShelfLife
	}
	if req.Weight != nil {
		product.Weight = *req.Weight
	}
	if req.StockQuantity != nil {
		if *req.StockQuantity < 0 {
			return respondError(c, http.StatusBadRequest, "stock quantity must be >= 0")
		}
		product.StockQuantity = *req.StockQuantity
		product.InStock = product.StockQuantity > 0
	}
	// The availability flag is derived from stock but stays independently
	// settable, matching the catalog contract.
	if req.InStock != nil {
		product.InStock = *req.InStock
	}
	if req.Featured != nil {
		product.Featured = *req.Featured
	}

	if err := h.DB.Save(&product).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, "error updating product")
	}
	h.Cache.Invalidate(c.Request().Context(), product.ID)

	publish(c, h.Producer, "product_events", fmt.Sprint(product.ID), map[string]any{
		"type":      "product_updated",
		"productID": product.ID,
		"name":      product.Name,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "product updated successfully",
		"product": product,
	})
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	res := h.DB.Delete(&models.Product{}, id)
	if res.Error != nil {
		return respondError(c, http.StatusInternalServerError, "error deleting product")
	}
	if res.RowsAffected == 0 {
		return respondError(c, http.StatusNotFound, "product not found")
	}
	h.Cache.Invalidate(c.Request().Context(), id)

	publish(c, h.Producer, "product_events", fmt.Sprint(id), map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "product deleted successfully",
	})
}
