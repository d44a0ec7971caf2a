package services

import (
	"trendora/internal/models"
	"trendora/internal/query"
	"trendora/internal/repositories"
)

// ProductService handles business logic related to products.
type ProductService struct {
	productRepo  repositories.ProductRepository
	brandRepo    repositories.BrandRepository
	categoryRepo repositories.CategoryRepository
	userRepo     repositories.UserRepository
}

// NewProductService creates a new ProductService.
func NewProductService(
	productRepo repositories.ProductRepository,
	brandRepo repositories.BrandRepository,
	categoryRepo repositories.CategoryRepository,
	userRepo repositories.UserRepository,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		brandRepo:    brandRepo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
	}
}

// PriceRange is the min/max price over a set of products.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ProductName is the lightweight product projection used for listings.
type ProductName struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Cover string `json:"cover"`
}

// ListProducts retrieves products matching the query options. When no
// relations are requested, brand, category and vendor are eager-loaded.
func (s *ProductService) ListProducts(opts query.Options) ([]models.Product, error) {
	if opts.Relations == nil {
		opts.Relations = []string{"brand", "category", "vendor"}
	}
	return s.productRepo.List(opts)
}

// CountProducts returns the number of products matching the query options.
func (s *ProductService) CountProducts(opts query.Options) (int64, error) {
	return s.productRepo.Count(opts)
}

// GetProductByID retrieves a single product with its relations.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.productRepo.GetByID(id, "Brand", "Category", "Vendor")
}

// ProductsPriceRange returns the minimum and maximum price over the products
// matching the query options.
func (s *ProductService) ProductsPriceRange(opts query.Options) (*PriceRange, error) {
	opts.Relations = []string{}
	products, err := s.productRepo.List(opts)
	if err != nil {
		return nil, err
	}
	pr := &PriceRange{}
	for i, p := range products {
		if i == 0 || p.Price < pr.Min {
			pr.Min = p.Price
		}
		if p.Price > pr.Max {
			pr.Max = p.Price
		}
	}
	return pr, nil
}

// ProductsNames returns the id/name/cover projection of the products matching
// the query options.
func (s *ProductService) ProductsNames(opts query.Options) ([]ProductName, error) {
	opts.Relations = []string{}
	products, err := s.productRepo.List(opts)
	if err != nil {
		return nil, err
	}
	names := make([]ProductName, 0, len(products))
	for _, p := range products {
		names = append(names, ProductName{ID: p.ID, Name: p.Name, Cover: p.Cover})
	}
	return names, nil
}

// CreateProduct creates a product after resolving its brand, category and
// vendor references.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if product.BrandID != nil {
		if _, err := s.brandRepo.GetByID(*product.BrandID); err != nil {
			return err
		}
	}
	if product.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(*product.CategoryID); err != nil {
			return err
		}
	}
	if product.VendorID != nil {
		if _, err := s.userRepo.GetByID(*product.VendorID); err != nil {
			return err
		}
	}
	return s.productRepo.Create(product)
}

// UpdateProduct applies a partial field update to a product.
func (s *ProductService) UpdateProduct(id string, fields map[string]interface{}) (*models.Product, error) {
	if err := s.productRepo.Updates(id, fields); err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(id, "Brand", "Category", "Vendor")
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) (bool, error) {
	return s.productRepo.Delete(id)
}
