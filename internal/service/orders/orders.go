package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/sweetshop/internal/models"
	"gorm.io/gorm"
)

var (
	ErrValidation        = errors.New("validation")         // 400
	ErrNotFound          = errors.New("not found")          // 404
	ErrForbidden         = errors.New("forbidden")          // 403
	ErrInsufficientStock = errors.New("insufficient stock") // 400
)

type LineItemInput struct {
	Product  string  `json:"product"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image"`
}

type CreateOrderInput struct {
	Items           []LineItemInput `json:"items"`
	ShippingAddress models.Address  `json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method"`
	TotalAmount     float64         `json:"total_amount"`
	Tax             float64         `json:"tax"`
	ShippingCharges float64         `json:"shipping_charges"`
	FinalAmount     float64         `json:"final_amount"`
	OrderNotes      string          `json:"order_notes"`
}

type Service struct {
	DB *gorm.DB
}

func validPaymentMethod(m string) bool {
	switch m {
	case models.PayCashOnDelivery, models.PayUPI, models.PayCard, models.PayNetBanking:
		return true
	}
	return false
}

// Create validates the cart, reserves stock for every managed line item and
// persists the order snapshot. Reservation runs in one transaction: a failed
// line item rolls back decrements already applied for earlier lines.
func (s *Service) Create(ctx context.Context, userID uint, in CreateOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: no items in the order", ErrValidation)
	}
	if in.ShippingAddress.Street == "" || in.ShippingAddress.Name == "" || in.PaymentMethod == "" {
		return nil, fmt.Errorf("%w: shipping address and payment method are required", ErrValidation)
	}
	if !validPaymentMethod(in.PaymentMethod) {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, in.PaymentMethod)
	}

	items := make([]models.OrderItem, 0, len(in.Items))
	for i := range in.Items {
		it := &in.Items[i]
		if it.Product == "" || it.Name == "" {
			return nil, fmt.Errorf("%w: product and name are required", ErrValidation)
		}
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be >= 1", ErrValidation)
		}
		if it.Price < 0 {
			return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
		}
		items = append(items, models.OrderItem{
			ProductRef: it.Product,
			Name:       it.Name,
			Price:      it.Price,
			Quantity:   it.Quantity,
			Image:      it.Image,
		})
	}

	finalAmount := in.FinalAmount
	if finalAmount == 0 {
		finalAmount = in.TotalAmount + in.Tax + in.ShippingCharges
	}

	paymentStatus := models.PaymentCompleted
	if in.PaymentMethod == models.PayCashOnDelivery {
		paymentStatus = models.PaymentPending
	}

	order := &models.Order{
		UserID:          userID,
		Items:           items,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		PaymentStatus:   paymentStatus,
		TotalAmount:     in.TotalAmount,
		Tax:             in.Tax,
		ShippingCharges: in.ShippingCharges,
		FinalAmount:     finalAmount,
		OrderStatus:     models.OrderPending,
		OrderNotes:      in.OrderNotes,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range order.Items {
			if err := reserveStock(tx, order.Items[i].ProductRef, order.Items[i].Quantity); err != nil {
				return err
			}
		}
		return tx.Create(order).Error
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// reserveStock decrements a managed product's stock with a single conditional
// update, so two concurrent orders can never both pass the sufficiency check.
// Refs that do not resolve to a managed product are external catalog entries
// and are left alone.
func reserveStock(tx *gorm.DB, ref string, quantity int) error {
	id, ok := models.ManagedProductID(ref)
	if !ok {
		return nil
	}

	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", id, quantity).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity - ?", quantity),
			"in_stock":       gorm.Expr("stock_quantity - ? > 0", quantity),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var product models.Product
	err := tx.Select("id", "name", "stock_quantity").First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Numeric ref without a backing row: an external catalog entry.
		return nil
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: insufficient stock for %s, only %d units available",
		ErrInsufficientStock, product.Name, product.StockQuantity)
}

var statusRank = map[string]int{
	models.OrderPending:    0,
	models.OrderProcessing: 1,
	models.OrderShipped:    2,
	models.OrderDelivered:  3,
}

// canTransition enforces the forward-only lifecycle. Cancelled is reachable
// from any non-terminal state and is itself terminal.
func canTransition(from, to string) bool {
	fr, fok := statusRank[from]
	if to == models.OrderCancelled {
		return fok && from != models.OrderDelivered
	}
	tr, tok := statusRank[to]
	return fok && tok && tr > fr
}

// UpdateStatus moves an order through its lifecycle and/or sets the tracking
// number. Transitioning to Delivered stamps delivered_at once and forces the
// payment to Completed, covering Cash on Delivery orders.
func (s *Service) UpdateStatus(ctx context.Context, orderID uint, status, trackingNumber string) (*models.Order, error) {
	var order models.Order
	if err := s.DB.WithContext(ctx).Preload("Items").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return nil, err
	}

	if status != "" {
		if !canTransition(order.OrderStatus, status) {
			return nil, fmt.Errorf("%w: illegal status transition %s -> %s", ErrValidation, order.OrderStatus, status)
		}
		order.OrderStatus = status
		if status == models.OrderDelivered {
			if order.DeliveredAt == nil {
				now := time.Now()
				order.DeliveredAt = &now
			}
			order.PaymentStatus = models.PaymentCompleted
		}
	}

	if trackingNumber != "" {
		order.TrackingNumber = trackingNumber
	}

	if err := s.DB.WithContext(ctx).Save(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Service) ListByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.DB.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// Get returns an order to its owner or to an admin.
func (s *Service) Get(ctx context.Context, orderID, requesterID uint, requesterRole string) (*models.Order, error) {
	var order models.Order
	if err := s.DB.WithContext(ctx).Preload("Items").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return nil, err
	}
	if order.UserID != requesterID && requesterRole != models.RoleAdmin {
		return nil, fmt.Errorf("%w: access denied", ErrForbidden)
	}
	return &order, nil
}

func (s *Service) ListAll(ctx context.Context, offset, limit int) (int64, []models.Order, error) {
	var total int64
	if err := s.DB.WithContext(ctx).Model(&models.Order{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var orders []models.Order
	err := s.DB.WithContext(ctx).Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	if err != nil {
		return 0, nil, err
	}
	return total, orders, nil
}

// Refs lists the catalog refs touched by an order, for cache invalidation.
func Refs(order *models.Order) []string {
	refs := make([]string, 0, len(order.Items))
	for i := range order.Items {
		refs = append(refs, order.Items[i].ProductRef)
	}
	return refs
}
