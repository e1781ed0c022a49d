package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/sweetshop/internal/models"
)

func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()
	products := []models.Product{
		{Name: "Murukku", Description: "Crunchy spiral snack", Price: 120, Category: models.CategorySavory, Rating: 4.5, StockQuantity: 100, InStock: true},
		{Name: "Mixture", Description: "Savory mix", Price: 140, Category: models.CategorySavory, Rating: 4.0, StockQuantity: 80, InStock: true},
		{Name: "Mysore Pak", Description: "Ghee-rich sweet", Price: 220, Category: models.CategorySweet, Rating: 4.8, StockQuantity: 50, InStock: true},
	}
	for i := range products {
		require.NoError(t, db.Create(&products[i]).Error)
	}
}

func TestGetProduct(t *testing.T) {
	db := newTestDB(t)
	h := &ProductHandler{DB: db}
	e := echo.New()

	seedCatalog(t, db)

	c, rec := newContext(e, http.MethodGet, "/api/products/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.GetProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Murukku")

	c, rec = newContext(e, http.MethodGet, "/api/products/999", "")
	c.SetParamNames("id")
	c.SetParamValues("999")
	require.NoError(t, h.GetProduct(c))
	require.Equal(t, http.StatusNotFound, rec.Code)

	c, rec = newContext(e, http.MethodGet, "/api/products/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	require.NoError(t, h.GetProduct(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func listProducts(t *testing.T, h *ProductHandler, e *echo.Echo, target string) []models.Product {
	t.Helper()
	c, rec := newContext(e, http.MethodGet, target, "")
	require.NoError(t, h.GetProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var products []models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	return products
}

func TestGetProductsFilters(t *testing.T) {
	db := newTestDB(t)
	h := &ProductHandler{DB: db}
	e := echo.New()

	seedCatalog(t, db)

	all := listProducts(t, h, e, "/api/products")
	require.Len(t, all, 3)

	sweet := listProducts(t, h, e, "/api/products?category=Sweet")
	require.Len(t, sweet, 1)
	require.Equal(t, "Mysore Pak", sweet[0].Name)

	// Search matches name or description, case-insensitively.
	found := listProducts(t, h, e, "/api/products?search=murukku")
	require.Len(t, found, 1)
	require.Equal(t, "Murukku", found[0].Name)

	found = listProducts(t, h, e, "/api/products?search=GHEE")
	require.Len(t, found, 1)
	require.Equal(t, "Mysore Pak", found[0].Name)

	byPrice := listProducts(t, h, e, "/api/products?sort=price_low")
	require.Equal(t, []string{"Murukku", "Mixture", "Mysore Pak"},
		[]string{byPrice[0].Name, byPrice[1].Name, byPrice[2].Name})

	byRating := listProducts(t, h, e, "/api/products?sort=rating")
	require.Equal(t, "Mysore Pak", byRating[0].Name)
}

func TestCreateProduct(t *testing.T) {
	db := newTestDB(t)
	h := &ProductHandler{DB: db}
	e := echo.New()

	// Client-supplied aggregates are discarded; availability derives from stock.
	c, rec := newContext(e, http.MethodPost, "/api/admin/products",
		`{"name":"Laddu","description":"Soft boondi laddu","price":180,"category":"Sweet","stock_quantity":70,"rating":5,"review_count":99}`)
	require.NoError(t, h.CreateProduct(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var got models.Product
	require.NoError(t, db.Where("name = ?", "Laddu").First(&got).Error)
	require.Zero(t, got.Rating)
	require.Zero(t, got.ReviewCount)
	require.True(t, got.InStock)

	c, rec = newContext(e, http.MethodPost, "/api/admin/products",
		`{"name":"Mystery","description":"x","price":10,"category":"Spicy"}`)
	require.NoError(t, h.CreateProduct(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "category must be Savory or Sweet")

	c, rec = newContext(e, http.MethodPost, "/api/admin/products", `{"price":10,"category":"Sweet"}`)
	require.NoError(t, h.CreateProduct(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPatchProduct(t *testing.T) {
	db := newTestDB(t)
	h := &ProductHandler{DB: db}
	e := echo.New()

	seedCatalog(t, db)

	c, rec := newContext(e, http.MethodPatch, "/api/admin/products/1", `{"stock_quantity":0}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.PatchProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Product
	require.NoError(t, db.First(&got, 1).Error)
	require.Zero(t, got.StockQuantity)
	require.False(t, got.InStock)

	// An explicit availability flag wins over the derived value.
	c, rec = newContext(e, http.MethodPatch, "/api/admin/products/1", `{"stock_quantity":5,"in_stock":false}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.PatchProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, db.First(&got, 1).Error)
	require.Equal(t, 5, got.StockQuantity)
	require.False(t, got.InStock)

	// Untouched fields survive a partial patch.
	c, rec = newContext(e, http.MethodPatch, "/api/admin/products/1", `{"price":150}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.PatchProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, db.First(&got, 1).Error)
	require.Equal(t, "Murukku", got.Name)
	require.InDelta(t, 150, got.Price, 1e-9)

	c, rec = newContext(e, http.MethodPatch, "/api/admin/products/1", `{"price":-1}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.PatchProduct(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newContext(e, http.MethodPatch, "/api/admin/products/999", `{"price":10}`)
	c.SetParamNames("id")
	c.SetParamValues("999")
	require.NoError(t, h.PatchProduct(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteProduct(t *testing.T) {
	db := newTestDB(t)
	h := &ProductHandler{DB: db}
	e := echo.New()

	seedCatalog(t, db)

	c, rec := newContext(e, http.MethodDelete, "/api/admin/products/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.DeleteProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c, rec = newContext(e, http.MethodDelete, "/api/admin/products/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.DeleteProduct(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
