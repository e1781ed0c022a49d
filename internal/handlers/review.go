package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/sweetshop/internal/cache"
	"github.com/Skotchmaster/sweetshop/internal/models"
	"github.com/Skotchmaster/sweetshop/internal/mykafka"
	"github.com/Skotchmaster/sweetshop/internal/service/reviews"
)

type ReviewHandler struct {
	DB       *gorm.DB
	Svc      *reviews.Service
	Producer *mykafka.Producer
	Cache    *cache.ProductCache
}

func reviewError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, reviews.ErrValidation), errors.Is(err, reviews.ErrDuplicateReview):
		return respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, reviews.ErrNotEligible), errors.Is(err, reviews.ErrForbidden):
		return respondError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, reviews.ErrNotFound):
		return respondError(c, http.StatusNotFound, "review not found")
	default:
		c.Logger().Errorf("review error: %v", err)
		return respondError(c, http.StatusInternalServerError, "internal error")
	}
}

func (h *ReviewHandler) CreateReview(c echo.Context) error {
	userID, err := GetUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "no authenticated user")
	}

	var req reviews.CreateReviewInput
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		return respondError(c, http.StatusUnauthorized, "user not found or inactive")
	}

	review, err := h.Svc.Create(c.Request().Context(), userID, user.Name, req)
	if err != nil {
		return reviewError(c, err)
	}
	h.Cache.InvalidateRefs(c.Request().Context(), review.ProductRef)

	publish(c, h.Producer, "review_events", fmt.Sprint(review.ID), map[string]any{
		"type":     "review_created",
		"reviewID": review.ID,
		"product":  review.ProductRef,
		"rating":   review.Rating,
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "review added successfully",
		"review":  review,
	})
}

func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	userID, err := GetUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "no authenticated user")
	}
	reviewID, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	ref, err := h.Svc.Delete(c.Request().Context(), reviewID, userID, GetRole(c))
	if err != nil {
		return reviewError(c, err)
	}
	h.Cache.InvalidateRefs(c.Request().Context(), ref)

	publish(c, h.Producer, "review_events", fmt.Sprint(reviewID), map[string]any{
		"type":     "review_deleted",
		"reviewID": reviewID,
		"product":  ref,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "review deleted successfully",
	})
}

func (h *ReviewHandler) ProductReviews(c echo.Context) error {
	list, err := h.Svc.ListByProduct(c.Request().Context(), c.Param("productId"))
	if err != nil {
		return reviewError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(list),
		"reviews": list,
	})
}

func (h *ReviewHandler) UserReviews(c echo.Context) error {
	userID, err := strconv.Atoi(c.Param("userId"))
	if err != nil || userID < 1 {
		return respondError(c, http.StatusBadRequest, "invalid user id")
	}

	list, err := h.Svc.ListByUser(c.Request().Context(), uint(userID))
	if err != nil {
		return reviewError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(list),
		"reviews": list,
	})
}

func (h *ReviewHandler) CanReview(c echo.Context) error {
	userID, err := GetUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "no authenticated user")
	}

	elig, err := h.Svc.CheckEligibility(c.Request().Context(), userID, c.Param("productId"))
	if err != nil {
		return reviewError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"can_review":    elig.CanReview,
		"has_purchased": elig.HasPurchased,
		"has_ordered":   elig.HasOrdered,
		"has_reviewed":  elig.HasReviewed,
	})
}
