package repositories

import (
	"gorm.io/gorm"

	"trendora/internal/models"
	"trendora/internal/query"
)

// ProductRepository defines the interface for product data access.
// AdjustInventory is the inventory ledger: it must only be called from inside
// an enclosing transaction (via WithTx) alongside the item write it balances.
type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	List(opts query.Options) ([]models.Product, error)
	Count(opts query.Options) (int64, error)
	GetByID(id string, relations ...string) (*models.Product, error)
	Create(product *models.Product) error
	Updates(id string, fields map[string]interface{}) error
	Delete(id string) (bool, error)
	AdjustInventory(id string, delta int) error
}
