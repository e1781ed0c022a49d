package models

import (
	"strconv"
	"time"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

const (
	CategorySavory = "Savory"
	CategorySweet  = "Sweet"
)

const (
	OrderPending    = "Pending"
	OrderProcessing = "Processing"
	OrderShipped    = "Shipped"
	OrderDelivered  = "Delivered"
	OrderCancelled  = "Cancelled"
)

const (
	PaymentPending   = "Pending"
	PaymentCompleted = "Completed"
	PaymentFailed    = "Failed"
	PaymentRefunded  = "Refunded"
)

const (
	PayCashOnDelivery = "Cash on Delivery"
	PayUPI            = "UPI"
	PayCard           = "Card"
	PayNetBanking     = "Net Banking"
)

type User struct {
	ID           uint       `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name         string     `gorm:"not null"                  json:"name"`
	Email        string     `gorm:"unique;not null"           json:"email"`
	PasswordHash string     `gorm:"not null"                  json:"-"`
	Role         string     `gorm:"not null;default:customer" json:"role"`
	Phone        string     `json:"phone"`
	Address      string     `json:"address"`
	IsActive     bool       `gorm:"not null;default:true"     json:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type Product struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"                     json:"id"`
	Name          string    `gorm:"not null"                                     json:"name"`
	Description   string    `gorm:"not null"                                     json:"description"`
	Price         float64   `gorm:"not null;check:price >= 0"                    json:"price"`
	Category      string    `gorm:"not null;index"                               json:"category"`
	Image         string    `json:"image"`
	Ingredients   string    `json:"ingredients"`
	ShelfLife     string    `json:"shelf_life"`
	Weight        string    `json:"weight"`
	Rating        float64   `gorm:"not null;default:0"                           json:"rating"`
	ReviewCount   int       `gorm:"not null;default:0"                           json:"review_count"`
	InStock       bool      `gorm:"not null;default:true"                        json:"in_stock"`
	StockQuantity int       `gorm:"not null;default:0;check:stock_quantity >= 0" json:"stock_quantity"`
	Featured      bool      `gorm:"not null;default:false"                       json:"featured"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Address is the shipping snapshot frozen into an order at checkout.
type Address struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	Country string `json:"country"`
}

type Order struct {
	ID              uint        `gorm:"primaryKey;autoIncrement"          json:"id"`
	UserID          uint        `gorm:"index;not null"                    json:"user_id"`
	Items           []OrderItem `gorm:"foreignKey:OrderID"                json:"items"`
	ShippingAddress Address     `gorm:"embedded;embeddedPrefix:ship_"     json:"shipping_address"`
	PaymentMethod   string      `gorm:"not null"                          json:"payment_method"`
	PaymentStatus   string      `gorm:"not null;default:Pending"          json:"payment_status"`
	TotalAmount     float64     `gorm:"not null"                          json:"total_amount"`
	Tax             float64     `json:"tax"`
	ShippingCharges float64     `json:"shipping_charges"`
	FinalAmount     float64     `gorm:"not null"                          json:"final_amount"`
	OrderStatus     string      `gorm:"not null;default:Pending;index"    json:"order_status"`
	OrderNotes      string      `json:"order_notes,omitempty"`
	TrackingNumber  string      `json:"tracking_number,omitempty"`
	DeliveredAt     *time.Time  `json:"delivered_at,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// OrderItem freezes the product name and price at purchase time. ProductRef is
// a catalog reference: a numeric id addresses a product managed by this store,
// anything else is an external catalog entry carried verbatim.
type OrderItem struct {
	ID         uint    `gorm:"primaryKey;autoIncrement"    json:"id"`
	OrderID    uint    `gorm:"index;not null"              json:"order_id"`
	ProductRef string  `gorm:"not null;index"              json:"product"`
	Name       string  `gorm:"not null"                    json:"name"`
	Price      float64 `gorm:"not null"                    json:"price"`
	Quantity   int     `gorm:"not null;check:quantity > 0" json:"quantity"`
	Image      string  `json:"image,omitempty"`
}

// ManagedProductID resolves a catalog reference to a managed product id.
// External refs (non-numeric) report false and never trigger stock or rating
// side effects.
func ManagedProductID(ref string) (uint, bool) {
	id, err := strconv.ParseUint(ref, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

type Review struct {
	ID                 uint      `gorm:"primaryKey;autoIncrement"                            json:"id"`
	ProductRef         string    `gorm:"not null;uniqueIndex:idx_reviews_product_user"       json:"product"`
	UserID             uint      `gorm:"not null;uniqueIndex:idx_reviews_product_user;index" json:"user_id"`
	UserName           string    `gorm:"not null"                                            json:"user_name"`
	Rating             int       `gorm:"not null;check:rating >= 1 AND rating <= 5"          json:"rating"`
	Comment            string    `gorm:"not null"                                            json:"comment"`
	IsVerifiedPurchase bool      `gorm:"not null;default:false"                              json:"is_verified_purchase"`
	Helpful            int       `gorm:"not null;default:0"                                  json:"helpful"`
	CreatedAt          time.Time `json:"created_at"`
}

type WishlistItem struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"                       json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_wishlist_user_product" json:"user_id"`
	ProductRef string    `gorm:"not null;uniqueIndex:idx_wishlist_user_product" json:"product"`
	CreatedAt  time.Time `json:"created_at"`
}
