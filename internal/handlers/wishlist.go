package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/sweetshop/internal/models"
)

type WishlistHandler struct {
	DB *gorm.DB
}

func (h *WishlistHandler) wishlistOwner(c echo.Context) (uint, error) {
	requesterID, err := GetUserID(c)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "no authenticated user")
	}

	targetID, err := strconv.Atoi(c.Param("userId"))
	if err != nil || targetID < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	if uint(targetID) != requesterID && GetRole(c) != models.RoleAdmin {
		return 0, echo.NewHTTPError(http.StatusForbidden, "access denied")
	}
	return uint(targetID), nil
}

// GetWishlist materialises lazily: a user with no rows simply gets an empty
// item list.
func (h *WishlistHandler) GetWishlist(c echo.Context) error {
	userID, err := h.wishlistOwner(c)
	if err != nil {
		return err
	}

	items := []models.WishlistItem{}
	if err := h.DB.Where("user_id = ?", userID).Order("created_at ASC").Find(&items).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, "error fetching wishlist")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"items":   items,
	})
}

func (h *WishlistHandler) AddToWishlist(c echo.Context) error {
	userID, err := GetUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "no authenticated user")
	}

	var req struct {
		Product string `json:"product"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	if req.Product == "" {
		return respondError(c, http.StatusBadRequest, "product id is required")
	}

	item := models.WishlistItem{UserID: userID, ProductRef: req.Product}
	if err := h.DB.Create(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return respondError(c, http.StatusBadRequest, "product already in wishlist")
		}
		return respondError(c, http.StatusInternalServerError, "error adding to wishlist")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "product added to wishlist",
		"item":    item,
	})
}

func (h *WishlistHandler) RemoveFromWishlist(c echo.Context) error {
	userID, err := h.wishlistOwner(c)
	if err != nil {
		return err
	}

	res := h.DB.Where("user_id = ? AND product_ref = ?", userID, c.Param("productId")).
		Delete(&models.WishlistItem{})
	if res.Error != nil {
		return respondError(c, http.StatusInternalServerError, "error removing from wishlist")
	}
	if res.RowsAffected == 0 {
		return respondError(c, http.StatusNotFound, "product not in wishlist")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "product removed from wishlist",
	})
}

func (h *WishlistHandler) ClearWishlist(c echo.Context) error {
	userID, err := h.wishlistOwner(c)
	if err != nil {
		return err
	}

	if err := h.DB.Where("user_id = ?", userID).Delete(&models.WishlistItem{}).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, "error clearing wishlist")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "wishlist cleared successfully",
	})
}
