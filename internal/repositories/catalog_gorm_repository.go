package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"trendora/internal/apperrors"
	"trendora/internal/models"
	"trendora/internal/query"
)

// GORMBrandRepository is a GORM implementation of BrandRepository.
type GORMBrandRepository struct {
	db *gorm.DB
}

// NewGORMBrandRepository creates a new instance of GORMBrandRepository.
func NewGORMBrandRepository(db *gorm.DB) *GORMBrandRepository {
	return &GORMBrandRepository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *GORMBrandRepository) WithTx(tx *gorm.DB) BrandRepository {
	return &GORMBrandRepository{db: tx}
}

// List retrieves brands matching the compiled query options.
func (r *GORMBrandRepository) List(opts query.Options) ([]models.Brand, error) {
	tx, err := query.Apply(r.db.Model(&models.Brand{}), models.BrandSchema(), opts)
	if err != nil {
		return nil, err
	}
	var brands []models.Brand
	if err := tx.Find(&brands).Error; err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	return brands, nil
}

// Count returns the number of brands matching the query options.
func (r *GORMBrandRepository) Count(opts query.Options) (int64, error) {
	tx, err := query.ApplyCount(r.db.Model(&models.Brand{}), models.BrandSchema(), opts)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count brands: %w", err)
	}
	return count, nil
}

// GetByID retrieves a single brand.
func (r *GORMBrandRepository) GetByID(id uint) (*models.Brand, error) {
	var brand models.Brand
	if err := r.db.First(&brand, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("brand", fmt.Sprint(id))
		}
		return nil, fmt.Errorf("failed to get brand by ID %d: %w", id, err)
	}
	return &brand, nil
}

// Create creates a new brand in the database.
func (r *GORMBrandRepository) Create(brand *models.Brand) error {
	if err := r.db.Create(brand).Error; err != nil {
		return fmt.Errorf("failed to create brand: %w", err)
	}
	return nil
}

// Updates applies a partial field update to a brand.
func (r *GORMBrandRepository) Updates(id uint, fields map[string]interface{}) error {
	res := r.db.Model(&models.Brand{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("failed to update brand %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewValidation("update of brand %d affected no rows", id)
	}
	return nil
}

// Delete deletes a brand by its ID, reporting whether a row was removed.
func (r *GORMBrandRepository) Delete(id uint) (bool, error) {
	res := r.db.Delete(&models.Brand{}, "id = ?", id)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete brand %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// GORMCategoryRepository is a GORM implementation of CategoryRepository.
type GORMCategoryRepository struct {
	db *gorm.DB
}

// NewGORMCategoryRepository creates a new instance of GORMCategoryRepository.
func NewGORMCategoryRepository(db *gorm.DB) *GORMCategoryRepository {
	return &GORMCategoryRepository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *GORMCategoryRepository) WithTx(tx *gorm.DB) CategoryRepository {
	return &GORMCategoryRepository{db: tx}
}

// List retrieves categories matching the compiled query options.
func (r *GORMCategoryRepository) List(opts query.Options) ([]models.Category, error) {
	tx, err := query.Apply(r.db.Model(&models.Category{}), models.CategorySchema(), opts)
	if err != nil {
		return nil, err
	}
	var categories []models.Category
	if err := tx.Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Count returns the number of categories matching the query options.
func (r *GORMCategoryRepository) Count(opts query.Options) (int64, error) {
	tx, err := query.ApplyCount(r.db.Model(&models.Category{}), models.CategorySchema(), opts)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return count, nil
}

// GetByID retrieves a single category.
func (r *GORMCategoryRepository) GetByID(id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("category", fmt.Sprint(id))
		}
		return nil, fmt.Errorf("failed to get category by ID %d: %w", id, err)
	}
	return &category, nil
}

// Create creates a new category in the database.
func (r *GORMCategoryRepository) Create(category *models.Category) error {
	if err := r.db.Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// Updates applies a partial field update to a category.
func (r *GORMCategoryRepository) Updates(id uint, fields map[string]interface{}) error {
	res := r.db.Model(&models.Category{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("failed to update category %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewValidation("update of category %d affected no rows", id)
	}
	return nil
}

// Delete deletes a category by its ID, reporting whether a row was removed.
func (r *GORMCategoryRepository) Delete(id uint) (bool, error) {
	res := r.db.Delete(&models.Category{}, "id = ?", id)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete category %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}
