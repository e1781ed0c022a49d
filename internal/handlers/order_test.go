package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/sweetshop/internal/models"
	"github.com/Skotchmaster/sweetshop/internal/service/orders"
)

func newOrderHandler(db *gorm.DB) *OrderHandler {
	return &OrderHandler{Svc: &orders.Service{DB: db}}
}

const orderBody = `{
	"items": [{"product": "1", "name": "Murukku", "price": 120, "quantity": 2}],
	"shipping_address": {"name": "Asha", "street": "1 Main St", "city": "Chennai"},
	"payment_method": "UPI",
	"total_amount": 240,
	"tax": 12,
	"shipping_charges": 40
}`

func TestCreateOrderHandler(t *testing.T) {
	db := newTestDB(t)
	h := newOrderHandler(db)
	e := echo.New()

	seedCatalog(t, db)

	c, rec := newContext(e, http.MethodPost, "/api/orders", orderBody)
	c.Set("userID", uint(1))
	require.NoError(t, h.CreateOrder(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Success bool         `json:"success"`
		Order   models.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, models.OrderPending, resp.Order.OrderStatus)
	require.InDelta(t, 292, resp.Order.FinalAmount, 1e-9)

	var got models.Product
	require.NoError(t, db.First(&got, 1).Error)
	require.Equal(t, 98, got.StockQuantity)
}

func TestCreateOrderHandlerInsufficientStock(t *testing.T) {
	db := newTestDB(t)
	h := newOrderHandler(db)
	e := echo.New()

	seedCatalog(t, db)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", 1).Update("stock_quantity", 1).Error)

	c, rec := newContext(e, http.MethodPost, "/api/orders", orderBody)
	c.Set("userID", uint(1))
	require.NoError(t, h.CreateOrder(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "insufficient stock")
}

func TestUserOrdersAccess(t *testing.T) {
	db := newTestDB(t)
	h := newOrderHandler(db)
	e := echo.New()

	seedCatalog(t, db)

	c, _ := newContext(e, http.MethodPost, "/api/orders", orderBody)
	c.Set("userID", uint(2))
	require.NoError(t, h.CreateOrder(c))

	// A customer cannot read someone else's history.
	c, rec := newContext(e, http.MethodGet, "/api/orders/user/2", "")
	c.Set("userID", uint(1))
	c.Set("role", models.RoleCustomer)
	c.SetParamNames("userId")
	c.SetParamValues("2")
	require.NoError(t, h.UserOrders(c))
	require.Equal(t, http.StatusForbidden, rec.Code)

	c, rec = newContext(e, http.MethodGet, "/api/orders/user/2", "")
	c.Set("userID", uint(1))
	c.Set("role", models.RoleAdmin)
	c.SetParamNames("userId")
	c.SetParamValues("2")
	require.NoError(t, h.UserOrders(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Count  int            `json:"count"`
		Orders []models.Order `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
}

func TestUpdateStatusHandler(t *testing.T) {
	db := newTestDB(t)
	h := newOrderHandler(db)
	e := echo.New()

	seedCatalog(t, db)

	c, _ := newContext(e, http.MethodPost, "/api/orders", orderBody)
	c.Set("userID", uint(1))
	require.NoError(t, h.CreateOrder(c))

	c, rec := newContext(e, http.MethodPatch, "/api/admin/orders/1/status",
		`{"order_status":"Processing","tracking_number":"TRK-1"}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.UpdateStatus(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "TRK-1")

	// Going backwards is a client error, not a server one.
	c, rec = newContext(e, http.MethodPatch, "/api/admin/orders/1/status", `{"order_status":"Pending"}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.UpdateStatus(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newContext(e, http.MethodPatch, "/api/admin/orders/999/status", `{"order_status":"Processing"}`)
	c.SetParamNames("id")
	c.SetParamValues("999")
	require.NoError(t, h.UpdateStatus(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
