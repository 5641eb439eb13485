package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Order statuses. Transitions are not restricted to forward progression:
// an admin may set any status from any other status.
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusPaid, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Payment methods
const (
	PaymentCreditCard     = "credit_card"
	PaymentPayPal         = "paypal"
	PaymentBankTransfer   = "bank_transfer"
	PaymentCashOnDelivery = "cash_on_delivery"
)

var paymentMethodLabels = map[string]string{
	PaymentCreditCard:     "Credit Card",
	PaymentPayPal:         "PayPal",
	PaymentBankTransfer:   "Bank Transfer",
	PaymentCashOnDelivery: "Cash on Delivery",
}

// PaymentMethodLabel returns a human-readable label for a payment method,
// falling back to the raw value for unknown methods.
func PaymentMethodLabel(method string) string {
	if label, ok := paymentMethodLabels[method]; ok {
		return label
	}
	return method
}

// ImageList is an ordered list of image URLs stored as a JSON text column.
// A malformed column value scans to an empty list instead of failing the
// query, so a broken gallery never breaks a product page.
type ImageList []string

func (l *ImageList) Scan(value interface{}) error {
	*l = nil
	if value == nil {
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return nil
	}
	if len(raw) == 0 {
		return nil
	}

	var images []string
	if err := json.Unmarshal(raw, &images); err != nil {
		return nil
	}
	*l = images
	return nil
}

func (l ImageList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal image list: %w", err)
	}
	return string(b), nil
}

// User model
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email     string    `gorm:"unique;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Name      string    `gorm:"not null" json:"name"`
	Role      string    `gorm:"type:varchar(50);default:'user'" json:"role"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Product model. Stock is decremented only by checkout and set directly by
// admin edits; it must never go negative.
type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	Image       string          `json:"image"`
	Images      ImageList       `gorm:"type:text" json:"images"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// Order model. Total is immutable after creation; Status and
// TelegramMessageID are the only fields mutated afterwards.
type Order struct {
	ID                uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID            uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	User              User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Total             decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	Status            string          `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PaymentMethod     string          `gorm:"type:varchar(30);not null" json:"payment_method"`
	TelegramMessageID string          `json:"telegram_message_id,omitempty"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	OrderItems        []OrderItem     `gorm:"foreignKey:OrderID" json:"order_items"`
}

// OrderItem carries the price snapshot captured at order time, so later
// product price changes do not alter historical orders.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null" json:"product_id"`
	Product   Product         `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}

// Migrate function for auto migration
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Product{}, &Order{}, &OrderItem{})
}
