package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/sweetshop/internal/hash"
	"github.com/Skotchmaster/sweetshop/internal/models"
)

type UserHandler struct {
	DB *gorm.DB
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, err := GetUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "no authenticated user")
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		return respondError(c, http.StatusNotFound, "user not found")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"user":    user,
	})
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, err := GetUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "no authenticated user")
	}

	var req struct {
		Name    *string `json:"name"`
		Phone   *string `json:"phone"`
		Address *string `json:"address"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		return respondError(c, http.StatusNotFound, "user not found")
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Address != nil {
		user.Address = *req.Address
	}

	if err := h.DB.Save(&user).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, "error updating profile")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "profile updated successfully",
		"user":    user,
	})
}

func (h *UserHandler) ChangePassword(c echo.Context) error {
	userID, err := GetUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "no authenticated user")
	}

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return respondError(c, http.StatusBadRequest, "please provide current and new password")
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		return respondError(c, http.StatusNotFound, "user not found")
	}

	if !hash.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		return respondError(c, http.StatusUnauthorized, "current password is incorrect")
	}

	newHash, err := hash.HashPassword(req.NewPassword)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "error changing password")
	}

	if err := h.DB.Model(&user).Update("password_hash", newHash).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, "error changing password")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "password changed successfully",
	})
}
