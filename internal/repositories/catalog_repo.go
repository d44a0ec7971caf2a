package repositories

import (
	"gorm.io/gorm"

	"trendora/internal/models"
	"trendora/internal/query"
)

// BrandRepository defines the interface for brand data access.
type BrandRepository interface {
	WithTx(tx *gorm.DB) BrandRepository
	List(opts query.Options) ([]models.Brand, error)
	Count(opts query.Options) (int64, error)
	GetByID(id uint) (*models.Brand, error)
	Create(brand *models.Brand) error
	Updates(id uint, fields map[string]interface{}) error
	Delete(id uint) (bool, error)
}

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	WithTx(tx *gorm.DB) CategoryRepository
	List(opts query.Options) ([]models.Category, error)
	Count(opts query.Options) (int64, error)
	GetByID(id uint) (*models.Category, error)
	Create(category *models.Category) error
	Updates(id uint, fields map[string]interface{}) error
	Delete(id uint) (bool, error)
}
