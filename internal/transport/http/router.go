package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/sweetshop/internal/handlers"
	mwauth "github.com/Skotchmaster/sweetshop/internal/middleware/auth"
)

type Deps struct {
	Gate            *mwauth.Gate
	AuthHandler     *handlers.AuthHandler
	UserHandler     *handlers.UserHandler
	ProductHandler  *handlers.ProductHandler
	OrderHandler    *handlers.OrderHandler
	ReviewHandler   *handlers.ReviewHandler
	WishlistHandler *handlers.WishlistHandler
	AdminHandler    *handlers.AdminHandler
	SearchHandler   *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("/api")

	api.POST("/auth/register", d.AuthHandler.Register)
	api.POST("/auth/login", d.AuthHandler.Login)

	api.GET("/products", d.ProductHandler.GetProducts)
	api.GET("/products/:id", d.ProductHandler.GetProduct)
	if d.SearchHandler != nil {
		api.GET("/search", d.SearchHandler.Search)
	}

	api.GET("/reviews/product/:productId", d.ReviewHandler.ProductReviews)
	api.GET("/reviews/user/:userId", d.ReviewHandler.UserReviews)

	auth := api.Group("", d.Gate.RequireAuth)

	auth.GET("/users/profile", d.UserHandler.GetProfile)
	auth.PUT("/users/profile", d.UserHandler.UpdateProfile)
	auth.PUT("/users/change-password", d.UserHandler.ChangePassword)

	auth.POST("/orders", d.OrderHandler.CreateOrder)
	auth.GET("/orders/my-orders", d.OrderHandler.MyOrders)
	auth.GET("/orders/user/:userId", d.OrderHandler.UserOrders)
	auth.GET("/orders/:id", d.OrderHandler.GetOrder)

	auth.POST("/reviews", d.ReviewHandler.CreateReview)
	auth.GET("/reviews/can-review/:productId", d.ReviewHandler.CanReview)
	auth.DELETE("/reviews/:id", d.ReviewHandler.DeleteReview)

	auth.POST("/wishlist", d.WishlistHandler.AddToWishlist)
	auth.GET("/wishlist/:userId", d.WishlistHandler.GetWishlist)
	auth.DELETE("/wishlist/:userId/:productId", d.WishlistHandler.RemoveFromWishlist)
	auth.DELETE("/wishlist/:userId", d.WishlistHandler.ClearWishlist)

	admin := api.Group("/admin", d.Gate.RequireAuth, d.Gate.DashboardOnly)

	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)

	admin.GET("/orders", d.OrderHandler.ListOrders)
	admin.GET("/orders/recent", d.AdminHandler.RecentOrders)
	admin.PATCH("/orders/:id/status", d.OrderHandler.UpdateStatus)

	admin.GET("/dashboard/stats", d.AdminHandler.DashboardStats)
	admin.GET("/analytics/sales-by-category", d.AdminHandler.SalesByCategory)
	admin.GET("/analytics/sales-by-payment", d.AdminHandler.SalesByPayment)
	admin.GET("/analytics/order-status", d.AdminHandler.OrderStatusBreakdown)
	admin.GET("/analytics/top-products", d.AdminHandler.TopProducts)
}
