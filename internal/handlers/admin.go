package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/sweetshop/internal/models"
)

// AdminHandler serves the dashboard: totals plus the aggregation queries
// behind the sales charts.
type AdminHandler struct {
	DB *gorm.DB
}

const lowStockThreshold = 10

func (h *AdminHandler) DashboardStats(c echo.Context) error {
	var (
		totalOrders   int64
		totalProducts int64
		totalUsers    int64
		pendingOrders int64
		lowStock      int64
		totalRevenue  float64
	)

	db := h.DB.WithContext(c.Request().Context())

	if err := db.Model(&models.Order{}).Count(&totalOrders).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, "failed to fetch dashboard statistics")
	}
	if err := db.Model(&models.Product{}).Count(&totalProducts).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, "failed to fetch dashboard statistics")
	}
	if err := db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, "failed to fetch dashboard statistics")
	}
	if err := db.Model(&models.Order{}).
		Where("order_status = ?", models.OrderPending).
		Count(&pendingOrders).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, "failed to fetch dashboard statistics")
	}
	if err := db.Model(&models.Product{}).
		Where("stock_quantity < ?", lowStockThreshold).
		Count(&lowStock).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, "failed to fetch dashboard statistics")
	}
	err := db.Model(&models.Order{}).
		Where("payment_status = ?", models.PaymentCompleted).
		Select("COALESCE(SUM(final_amount), 0)").
		Scan(&totalRevenue).Error
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "failed to fetch dashboard statistics")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"stats": echo.Map{
			"total_orders":       totalOrders,
			"total_products":     totalProducts,
			"total_users":        totalUsers,
			"total_revenue":      totalRevenue,
			"pending_orders":     pendingOrders,
			"low_stock_products": lowStock,
		},
	})
}

type categorySales struct {
	Category   string  `json:"category"`
	TotalSales float64 `json:"total_sales"`
	OrderCount int64   `json:"order_count"`
}

// SalesByCategory joins line items back onto managed products; external
// catalog refs have no category and fall out of the join.
func (h *AdminHandler) SalesByCategory(c echo.Context) error {
	var rows []categorySales
	err := h.DB.WithContext(c.Request().Context()).Raw(`
		SELECT products.category AS category,
		       SUM(order_items.quantity * order_items.price) AS total_sales,
		       COUNT(*) AS order_count
		FROM order_items
		JOIN products ON CAST(products.id AS TEXT) = order_items.product_ref
		GROUP BY products.category`).Scan(&rows).Error
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "failed to fetch sales by category")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": rows})
}

type paymentSales struct {
	PaymentMethod string  `json:"payment_method"`
	TotalSales    float64 `json:"total_sales"`
	OrderCount    int64   `json:"order_count"`
}

func (h *AdminHandler) SalesByPayment(c echo.Context) error {
	var rows []paymentSales
	err := h.DB.WithContext(c.Request().Context()).Model(&models.Order{}).
		Select("payment_method, SUM(final_amount) AS total_sales, COUNT(*) AS order_count").
		Group("payment_method").
		Scan(&rows).Error
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "failed to fetch sales by payment method")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": rows})
}

type statusCount struct {
	OrderStatus string `json:"order_status"`
	Count       int64  `json:"count"`
}

func (h *AdminHandler) OrderStatusBreakdown(c echo.Context) error {
	var rows []statusCount
	err := h.DB.WithContext(c.Request().Context()).Model(&models.Order{}).
		Select("order_status, COUNT(*) AS count").
		Group("order_status").
		Scan(&rows).Error
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "failed to fetch order status breakdown")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": rows})
}

type topProduct struct {
	ProductRef string  `json:"product"`
	Name       string  `json:"name"`
	TotalSold  int64   `json:"total_sold"`
	Revenue    float64 `json:"revenue"`
}

func (h *AdminHandler) TopProducts(c echo.Context) error {
	limit := parseIntDefault(c.QueryParam("limit"), 5)

	var rows []topProduct
	err := h.DB.WithContext(c.Request().Context()).Model(&models.OrderItem{}).
		Select("product_ref, name, SUM(quantity) AS total_sold, SUM(quantity * price) AS revenue").
		Group("product_ref, name").
		Order("total_sold DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "failed to fetch top products")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": rows})
}

func (h *AdminHandler) RecentOrders(c echo.Context) error {
	limit := parseIntDefault(c.QueryParam("limit"), 10)

	var list []models.Order
	err := h.DB.WithContext(c.Request().Context()).Preload("Items").
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "failed to fetch recent orders")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(list),
		"orders":  list,
	})
}
