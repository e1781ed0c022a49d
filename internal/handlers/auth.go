package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/sweetshop/internal/hash"
	mwauth "github.com/Skotchmaster/sweetshop/internal/middleware/auth"
	"github.com/Skotchmaster/sweetshop/internal/models"
	"github.com/Skotchmaster/sweetshop/internal/mykafka"
)

type AuthHandler struct {
	DB        *gorm.DB
	JWTSecret []byte
	Producer  *mykafka.Producer
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Phone    string `json:"phone"`
		Address  string `json:"address"`
	}

	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return respondError(c, http.StatusBadRequest, "please provide name, email and password")
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "error creating account")
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         models.RoleCustomer,
		Phone:        req.Phone,
		Address:      req.Address,
		IsActive:     true,
	}

	if err := h.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return respondError(c, http.StatusBadRequest, "user already exists")
		}
		return respondError(c, http.StatusInternalServerError, "error creating account")
	}

	token, err := mwauth.SignAccessToken(user.ID, user.Role, h.JWTSecret)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "could not create token")
	}

	publish(c, h.Producer, "user_events", fmt.Sprint(user.ID), map[string]any{
		"type":   "user_registered",
		"userID": user.ID,
		"email":  user.Email,
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return respondError(c, http.StatusUnauthorized, "invalid credentials")
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return respondError(c, http.StatusUnauthorized, "invalid credentials")
	}
	if !user.IsActive {
		return respondError(c, http.StatusUnauthorized, "user not found or inactive")
	}

	now := time.Now()
	user.LastLogin = &now
	if err := h.DB.Model(&user).Update("last_login", now).Error; err != nil {
		c.Logger().Errorf("last_login update error: %v", err)
	}

	token, err := mwauth.SignAccessToken(user.ID, user.Role, h.JWTSecret)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "could not create token")
	}

	publish(c, h.Producer, "user_events", fmt.Sprint(user.ID), map[string]any{
		"type":   "user_logged_in",
		"userID": user.ID,
		"email":  user.Email,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"token":   token,
		"user":    user,
	})
}
