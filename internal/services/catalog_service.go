package services

import (
	"trendora/internal/models"
	"trendora/internal/query"
	"trendora/internal/repositories"
)

// CatalogService handles brands and categories.
type CatalogService struct {
	brandRepo    repositories.BrandRepository
	categoryRepo repositories.CategoryRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(brandRepo repositories.BrandRepository, categoryRepo repositories.CategoryRepository) *CatalogService {
	return &CatalogService{
		brandRepo:    brandRepo,
		categoryRepo: categoryRepo,
	}
}

// ListBrands retrieves brands matching the query options.
func (s *CatalogService) ListBrands(opts query.Options) ([]models.Brand, error) {
	return s.brandRepo.List(opts)
}

// CountBrands returns the number of brands matching the query options.
func (s *CatalogService) CountBrands(opts query.Options) (int64, error) {
	return s.brandRepo.Count(opts)
}

// GetBrandByID retrieves a single brand.
func (s *CatalogService) GetBrandByID(id uint) (*models.Brand, error) {
	return s.brandRepo.GetByID(id)
}

// CreateBrand creates a new brand.
func (s *CatalogService) CreateBrand(brand *models.Brand) error {
	return s.brandRepo.Create(brand)
}

// UpdateBrand renames a brand.
func (s *CatalogService) UpdateBrand(id uint, name string) (*models.Brand, error) {
	if err := s.brandRepo.Updates(id, map[string]interface{}{"name": name}); err != nil {
		return nil, err
	}
	return s.brandRepo.GetByID(id)
}

// DeleteBrand deletes a brand, cascading to its products.
func (s *CatalogService) DeleteBrand(id uint) (bool, error) {
	return s.brandRepo.Delete(id)
}

// ListCategories retrieves categories matching the query options.
func (s *CatalogService) ListCategories(opts query.Options) ([]models.Category, error) {
	return s.categoryRepo.List(opts)
}

// CountCategories returns the number of categories matching the query options.
func (s *CatalogService) CountCategories(opts query.Options) (int64, error) {
	return s.categoryRepo.Count(opts)
}

// GetCategoryByID retrieves a single category.
func (s *CatalogService) GetCategoryByID(id uint) (*models.Category, error) {
	return s.categoryRepo.GetByID(id)
}

// CreateCategory creates a new category.
func (s *CatalogService) CreateCategory(category *models.Category) error {
	return s.categoryRepo.Create(category)
}

// UpdateCategory renames a category.
func (s *CatalogService) UpdateCategory(id uint, name string) (*models.Category, error) {
	if err := s.categoryRepo.Updates(id, map[string]interface{}{"name": name}); err != nil {
		return nil, err
	}
	return s.categoryRepo.GetByID(id)
}

// DeleteCategory deletes a category, cascading to its products.
func (s *CatalogService) DeleteCategory(id uint) (bool, error) {
	return s.categoryRepo.Delete(id)
}
