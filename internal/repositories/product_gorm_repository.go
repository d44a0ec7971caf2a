package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"trendora/internal/apperrors"
	"trendora/internal/models"
	"trendora/internal/query"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *GORMProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	return &GORMProductRepository{db: tx}
}

// List retrieves products matching the compiled query options.
func (r *GORMProductRepository) List(opts query.Options) ([]models.Product, error) {
	tx, err := query.Apply(r.db.Model(&models.Product{}), models.ProductSchema(), opts)
	if err != nil {
		return nil, err
	}
	var products []models.Product
	if err := tx.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Count returns the number of products matching the query options.
func (r *GORMProductRepository) Count(opts query.Options) (int64, error) {
	tx, err := query.ApplyCount(r.db.Model(&models.Product{}), models.ProductSchema(), opts)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// GetByID retrieves a single product, eager-loading the given associations.
func (r *GORMProductRepository) GetByID(id string, relations ...string) (*models.Product, error) {
	tx := r.db
	for _, relation := range relations {
		tx = tx.Preload(relation)
	}
	var product models.Product
	if err := tx.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("product", id)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Updates applies a partial field update to a product.
func (r *GORMProductRepository) Updates(id string, fields map[string]interface{}) error {
	res := r.db.Model(&models.Product{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("failed to update product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewValidation("update of product %s affected no rows", id)
	}
	return nil
}

// Delete deletes a product by its ID, reporting whether a row was removed.
func (r *GORMProductRepository) Delete(id string) (bool, error) {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete product %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// AdjustInventory moves a product's stock by delta inside the repository's
// current transaction. The delta is bound as a parameter; sufficiency is the
// caller's responsibility.
func (r *GORMProductRepository) AdjustInventory(id string, delta int) error {
	res := r.db.Model(&models.Product{}).Where("id = ?", id).
		Update("inventory", gorm.Expr("inventory + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("failed to adjust inventory for product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFound("product", id)
	}
	return nil
}
