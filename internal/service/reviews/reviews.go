package reviews

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/sweetshop/internal/models"
	"gorm.io/gorm"
)

var (
	ErrValidation      = errors.New("validation")      // 400
	ErrNotFound        = errors.New("not found")       // 404
	ErrForbidden       = errors.New("forbidden")       // 403
	ErrNotEligible     = errors.New("not eligible")    // 403
	ErrDuplicateReview = errors.New("duplicate review") // 400
)

type CreateReviewInput struct {
	Product string `json:"product"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Eligibility is the can-review truth table. All four flags are computed
// independently; callers depend on each of them.
type Eligibility struct {
	CanReview    bool `json:"can_review"`
	HasPurchased bool `json:"has_purchased"`
	HasOrdered   bool `json:"has_ordered"`
	HasReviewed  bool `json:"has_reviewed"`
}

type Service struct {
	DB *gorm.DB
}

// Create inserts a review after proving a delivered purchase. Uniqueness per
// (product, author) is enforced by the composite index, not an application
// check, so concurrent duplicates lose at the database.
func (s *Service) Create(ctx context.Context, userID uint, userName string, in CreateReviewInput) (*models.Review, error) {
	if in.Product == "" || in.Rating == 0 || in.Comment == "" {
		return nil, fmt.Errorf("%w: please provide product, rating, and comment", ErrValidation)
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	delivered, err := s.countOrders(ctx, userID, in.Product, models.OrderDelivered)
	if err != nil {
		return nil, err
	}
	if delivered == 0 {
		return nil, fmt.Errorf("%w: you can only review products you have purchased and received", ErrNotEligible)
	}

	review := &models.Review{
		ProductRef:         in.Product,
		UserID:             userID,
		UserName:           userName,
		Rating:             in.Rating,
		Comment:            in.Comment,
		IsVerifiedPurchase: true,
	}

	if err := s.DB.WithContext(ctx).Create(review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: you have already reviewed this product", ErrDuplicateReview)
		}
		return nil, err
	}

	if err := s.recomputeRating(ctx, in.Product); err != nil {
		return nil, err
	}

	return review, nil
}

// Delete removes a review on behalf of its author or an admin and recomputes
// the owning product's aggregates.
func (s *Service) Delete(ctx context.Context, reviewID, requesterID uint, requesterRole string) (string, error) {
	var review models.Review
	if err := s.DB.WithContext(ctx).First(&review, reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: review %d", ErrNotFound, reviewID)
		}
		return "", err
	}

	if review.UserID != requesterID && requesterRole != models.RoleAdmin {
		return "", fmt.Errorf("%w: access denied", ErrForbidden)
	}

	if err := s.DB.WithContext(ctx).Delete(&models.Review{}, reviewID).Error; err != nil {
		return "", err
	}

	if err := s.recomputeRating(ctx, review.ProductRef); err != nil {
		return "", err
	}

	return review.ProductRef, nil
}

// recomputeRating rewrites the product's aggregate rating and review count in
// one statement, with the aggregates evaluated inside the update itself.
// Concurrent review writes therefore cannot interleave a stale read between
// the aggregate and the write. Rating falls back to 0 when no reviews remain.
func (s *Service) recomputeRating(ctx context.Context, ref string) error {
	id, ok := models.ManagedProductID(ref)
	if !ok {
		return nil
	}

	return s.DB.WithContext(ctx).Exec(`
		UPDATE products
		SET rating = COALESCE((SELECT ROUND(AVG(rating), 1) FROM reviews WHERE product_ref = ?), 0),
		    review_count = (SELECT COUNT(*) FROM reviews WHERE product_ref = ?)
		WHERE id = ?`,
		ref, ref, id,
	).Error
}

func (s *Service) countOrders(ctx context.Context, userID uint, ref, status string) (int64, error) {
	q := s.DB.WithContext(ctx).Model(&models.Order{}).
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Where("orders.user_id = ? AND order_items.product_ref = ?", userID, ref)
	if status != "" {
		q = q.Where("orders.order_status = ?", status)
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Service) CheckEligibility(ctx context.Context, userID uint, ref string) (*Eligibility, error) {
	ordered, err := s.countOrders(ctx, userID, ref, "")
	if err != nil {
		return nil, err
	}
	delivered, err := s.countOrders(ctx, userID, ref, models.OrderDelivered)
	if err != nil {
		return nil, err
	}

	var reviewed int64
	err = s.DB.WithContext(ctx).Model(&models.Review{}).
		Where("user_id = ? AND product_ref = ?", userID, ref).
		Count(&reviewed).Error
	if err != nil {
		return nil, err
	}

	return &Eligibility{
		CanReview:    delivered > 0 && reviewed == 0,
		HasPurchased: delivered > 0,
		HasOrdered:   ordered > 0,
		HasReviewed:  reviewed > 0,
	}, nil
}

func (s *Service) ListByProduct(ctx context.Context, ref string) ([]models.Review, error) {
	var reviews []models.Review
	err := s.DB.WithContext(ctx).
		Where("product_ref = ?", ref).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (s *Service) ListByUser(ctx context.Context, userID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}
