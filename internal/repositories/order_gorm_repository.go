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

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *GORMOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	return &GORMOrderRepository{db: tx}
}

// List retrieves orders matching the compiled query options.
func (r *GORMOrderRepository) List(opts query.Options) ([]models.Order, error) {
	tx, err := query.Apply(r.db.Model(&models.Order{}), models.OrderSchema(), opts)
	if err != nil {
		return nil, err
	}
	var orders []models.Order
	if err := tx.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// Count returns the number of orders matching the query options, ignoring
// pagination.
func (r *GORMOrderRepository) Count(opts query.Options) (int64, error) {
	tx, err := query.ApplyCount(r.db.Model(&models.Order{}), models.OrderSchema(), opts)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

// GetByID retrieves a single order, eager-loading the given associations.
func (r *GORMOrderRepository) GetByID(id string, relations ...string) (*models.Order, error) {
	tx := r.db
	for _, relation := range relations {
		tx = tx.Preload(relation)
	}
	var order models.Order
	if err := tx.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("order", id)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// Create creates a new order in the database.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// Updates applies a partial field update to an order. Zero rows affected is a
// validation failure, matching the workflow's update semantics.
func (r *GORMOrderRepository) Updates(id string, fields map[string]interface{}) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("failed to update order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewValidation("update of order %s affected no rows", id)
	}
	return nil
}

// Delete deletes an order by its ID, reporting whether a row was removed.
func (r *GORMOrderRepository) Delete(id string) (bool, error) {
	res := r.db.Delete(&models.Order{}, "id = ?", id)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete order %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// GORMOrderItemRepository is a GORM implementation of OrderItemRepository.
type GORMOrderItemRepository struct {
	db *gorm.DB
}

// NewGORMOrderItemRepository creates a new instance of GORMOrderItemRepository.
func NewGORMOrderItemRepository(db *gorm.DB) *GORMOrderItemRepository {
	return &GORMOrderItemRepository{
		db: db,
	}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *GORMOrderItemRepository) WithTx(tx *gorm.DB) OrderItemRepository {
	return &GORMOrderItemRepository{db: tx}
}

// List retrieves order items matching the compiled query options.
func (r *GORMOrderItemRepository) List(opts query.Options) ([]models.OrderItem, error) {
	tx, err := query.Apply(r.db.Model(&models.OrderItem{}), models.OrderItemSchema(), opts)
	if err != nil {
		return nil, err
	}
	var items []models.OrderItem
	if err := tx.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	return items, nil
}

// Count returns the number of order items matching the query options.
func (r *GORMOrderItemRepository) Count(opts query.Options) (int64, error) {
	tx, err := query.ApplyCount(r.db.Model(&models.OrderItem{}), models.OrderItemSchema(), opts)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count order items: %w", err)
	}
	return count, nil
}

// GetByID retrieves a single order item, eager-loading the given associations.
func (r *GORMOrderItemRepository) GetByID(id string, relations ...string) (*models.OrderItem, error) {
	tx := r.db
	for _, relation := range relations {
		tx = tx.Preload(relation)
	}
	var item models.OrderItem
	if err := tx.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("order item", id)
		}
		return nil, fmt.Errorf("failed to get order item by ID %s: %w", id, err)
	}
	return &item, nil
}

// Create creates a new order item in the database.
func (r *GORMOrderItemRepository) Create(item *models.OrderItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create order item: %w", err)
	}
	return nil
}

// Updates applies a partial field update to an order item.
func (r *GORMOrderItemRepository) Updates(id string, fields map[string]interface{}) error {
	res := r.db.Model(&models.OrderItem{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("failed to update order item %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewValidation("update of order item %s affected no rows", id)
	}
	return nil
}

// Delete deletes an order item by its ID, reporting whether a row was removed.
func (r *GORMOrderItemRepository) Delete(id string) (bool, error) {
	res := r.db.Delete(&models.OrderItem{}, "id = ?", id)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete order item %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// DeleteByOrderID removes all items belonging to an order, used when the
// parent order is deleted.
func (r *GORMOrderItemRepository) DeleteByOrderID(orderID string) error {
	if err := r.db.Delete(&models.OrderItem{}, "order_id = ?", orderID).Error; err != nil {
		return fmt.Errorf("failed to delete items of order %s: %w", orderID, err)
	}
	return nil
}
