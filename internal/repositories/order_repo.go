package repositories

import (
	"gorm.io/gorm"

	"trendora/internal/models"
	"trendora/internal/query"
)

// OrderRepository defines the interface for order data access. WithTx returns
// a repository bound to an existing transaction handle so that every order
// mutation can be composed inside one unit of work.
type OrderRepository interface {
	WithTx(tx *gorm.DB) OrderRepository
	List(opts query.Options) ([]models.Order, error)
	Count(opts query.Options) (int64, error)
	GetByID(id string, relations ...string) (*models.Order, error)
	Create(order *models.Order) error
	Updates(id string, fields map[string]interface{}) error
	Delete(id string) (bool, error)
}

// OrderItemRepository defines the interface for order-item data access.
type OrderItemRepository interface {
	WithTx(tx *gorm.DB) OrderItemRepository
	List(opts query.Options) ([]models.OrderItem, error)
	Count(opts query.Options) (int64, error)
	GetByID(id string, relations ...string) (*models.OrderItem, error)
	Create(item *models.OrderItem) error
	Updates(id string, fields map[string]interface{}) error
	Delete(id string) (bool, error)
	DeleteByOrderID(orderID string) error
}
