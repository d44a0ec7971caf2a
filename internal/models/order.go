package models

import "gorm.io/gorm"

// OrderStatus enumerates the lifecycle states of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCanceled  OrderStatus = "CANCELED"
)

// ValidStatus reports whether s is one of the known order states.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case StatusPending, StatusShipped, StatusDelivered, StatusCanceled:
		return true
	}
	return false
}

// DefaultDeliveryFee is applied when an order is created without an explicit fee.
const DefaultDeliveryFee = 5.00

// Order is a customer order together with its owned line items. It is the
// consistency boundary of the workflow: TotalAmount is always
// sum(item.TotalPrice) + DeliveryFee over the committed items, and is written
// only by the recalculation step, never directly by callers.
type Order struct {
	ID              string      `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Status          OrderStatus `json:"status" gorm:"type:varchar(16);default:PENDING"`
	Address         string      `json:"address" validate:"required"`
	DeliveryFee     float64     `json:"delivery_fee" gorm:"default:5.0"`
	TotalAmount     float64     `json:"total_amount"` // derived, see recalculation
	StripePaymentID string      `json:"stripe_payment_id,omitempty" gorm:"type:varchar(255)"`
	UserID          string      `json:"user_id" gorm:"type:varchar(36);index"`
	User            *User       `json:"user,omitempty"`
	OrderItems      []OrderItem `json:"order_items,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	gorm.Model      `json:"-"`  // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// OrderItem is a single line of an order. Its lifetime is bound to the order
// (cascade delete); the product is referenced, not owned.
type OrderItem struct {
	ID         string   `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Quantity   int      `json:"quantity" validate:"required,gt=0"`
	UnitPrice  float64  `json:"unit_price" validate:"gte=0"`
	TotalPrice float64  `json:"total_price"` // UnitPrice * Quantity unless explicitly supplied
	OrderID    string   `json:"order_id" gorm:"type:varchar(36);index"`
	Order      *Order   `json:"order,omitempty"`
	ProductID  string   `json:"product_id" gorm:"type:varchar(36);index"`
	Product    *Product `json:"product,omitempty"`
	gorm.Model `json:"-"`
}
