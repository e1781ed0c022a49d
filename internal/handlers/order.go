package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/sweetshop/internal/cache"
	"github.com/Skotchmaster/sweetshop/internal/models"
	"github.com/Skotchmaster/sweetshop/internal/mykafka"
	"github.com/Skotchmaster/sweetshop/internal/service/orders"
	"github.com/Skotchmaster/sweetshop/internal/util"
)

type OrderHandler struct {
	Svc      *orders.Service
	Producer *mykafka.Producer
	Cache    *cache.ProductCache
}

func orderError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, orders.ErrValidation), errors.Is(err, orders.ErrInsufficientStock):
		return respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, orders.ErrForbidden):
		return forbidden(c)
	case errors.Is(err, orders.ErrNotFound):
		return respondError(c, http.StatusNotFound, "order not found")
	default:
		c.Logger().Errorf("order error: %v", err)
		return respondError(c, http.StatusInternalServerError, "internal error")
	}
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	userID, err := GetUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "no authenticated user")
	}

	var req orders.CreateOrderInput
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.Create(c.Request().Context(), userID, req)
	if err != nil {
		return orderError(c, err)
	}

	// Stock changed under the product handlers' feet.
	h.Cache.InvalidateRefs(c.Request().Context(), orders.Refs(order)...)

	publish(c, h.Producer, "order_events", fmt.Sprint(order.ID), map[string]any{
		"type":    "order_created",
		"orderID": order.ID,
		"userID":  order.UserID,
		"amount":  order.FinalAmount,
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "order placed successfully",
		"order":   order,
	})
}

func (h *OrderHandler) MyOrders(c echo.Context) error {
	userID, err := GetUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "no authenticated user")
	}

	list, err := h.Svc.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return orderError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(list),
		"orders":  list,
	})
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	userID, err := GetUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "no authenticated user")
	}
	orderID, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	order, err := h.Svc.Get(c.Request().Context(), orderID, userID, GetRole(c))
	if err != nil {
		return orderError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"order":   order,
	})
}

// UserOrders returns another account's order history; only the account itself
// or an admin may read it.
func (h *OrderHandler) UserOrders(c echo.Context) error {
	requesterID, err := GetUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "no authenticated user")
	}

	targetID, err := strconv.Atoi(c.Param("userId"))
	if err != nil || targetID < 1 {
		return respondError(c, http.StatusBadRequest, "invalid user id")
	}
	if uint(targetID) != requesterID && GetRole(c) != models.RoleAdmin {
		return forbidden(c)
	}

	list, err := h.Svc.ListByUser(c.Request().Context(), uint(targetID))
	if err != nil {
		return orderError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(list),
		"orders":  list,
	})
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, list, err := h.Svc.ListAll(c.Request().Context(), offset, limit)
	if err != nil {
		return orderError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   total,
		"orders":  list,
	})
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	orderID, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	var req struct {
		OrderStatus    string `json:"order_status"`
		TrackingNumber string `json:"tracking_number"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.UpdateStatus(c.Request().Context(), orderID, req.OrderStatus, req.TrackingNumber)
	if err != nil {
		return orderError(c, err)
	}

	publish(c, h.Producer, "order_events", fmt.Sprint(order.ID), map[string]any{
		"type":    "order_status_updated",
		"orderID": order.ID,
		"status":  order.OrderStatus,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "order status updated successfully",
		"order":   order,
	})
}
