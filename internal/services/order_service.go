package services

import (
	"log"

	"gorm.io/gorm"

	"trendora/internal/apperrors"
	"trendora/internal/models"
	"trendora/internal/query"
	"trendora/internal/repositories"
	"trendora/pkg/rabbitmq"
)

// OrderService orchestrates the order lifecycle. Every mutation of an order
// or its items runs inside one database transaction: the item writes, the
// inventory movements and the total recalculation commit or roll back
// together, so no committed order is ever observed with a stale TotalAmount
// or partially inserted items.
type OrderService struct {
	db          *gorm.DB
	orderRepo   repositories.OrderRepository
	itemRepo    repositories.OrderItemRepository
	productRepo repositories.ProductRepository
	userRepo    repositories.UserRepository
	mqClient    *rabbitmq.Client
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	db *gorm.DB,
	orderRepo repositories.OrderRepository,
	itemRepo repositories.OrderItemRepository,
	productRepo repositories.ProductRepository,
	userRepo repositories.UserRepository,
	mqClient *rabbitmq.Client,
) *OrderService {
	return &OrderService{
		db:          db,
		orderRepo:   orderRepo,
		itemRepo:    itemRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		mqClient:    mqClient,
	}
}

// OrderItemInput describes one requested line item.
type OrderItemInput struct {
	ProductID  string   `json:"product_id" validate:"required"`
	Quantity   int      `json:"quantity" validate:"required,gt=0"`
	UnitPrice  float64  `json:"unit_price" validate:"gte=0"`
	TotalPrice *float64 `json:"total_price"` // defaults to UnitPrice * Quantity
}

// CreateOrderInput is the payload for CreateOrder.
type CreateOrderInput struct {
	UserID          string           `json:"user_id" validate:"required"`
	Address         string           `json:"address" validate:"required"`
	DeliveryFee     *float64         `json:"delivery_fee" validate:"omitempty,gte=0"`
	StripePaymentID string           `json:"stripe_payment_id"`
	Items           []OrderItemInput `json:"items" validate:"required,min=1,dive"`
}

// UpdateOrderInput carries the independently optional fields of an order
// update. A nil field is left untouched.
type UpdateOrderInput struct {
	Status      *models.OrderStatus `json:"status"`
	TotalAmount *float64            `json:"total_amount"`
	DeliveryFee *float64            `json:"delivery_fee" validate:"omitempty,gte=0"`
	Address     *string             `json:"address"`
}

// UpdateOrderItemInput carries the independently optional fields of an
// order-item update.
type UpdateOrderItemInput struct {
	Quantity   *int     `json:"quantity" validate:"omitempty,gt=0"`
	UnitPrice  *float64 `json:"unit_price" validate:"omitempty,gte=0"`
	TotalPrice *float64 `json:"total_price" validate:"omitempty,gte=0"`
}

// ListOrders retrieves orders matching the query options. When no relations
// are requested, the user and items are eager-loaded.
func (s *OrderService) ListOrders(opts query.Options) ([]models.Order, error) {
	if opts.Relations == nil {
		opts.Relations = []string{"user", "orderItems"}
	}
	return s.orderRepo.List(opts)
}

// CountOrders returns the number of orders matching the query options.
func (s *OrderService) CountOrders(opts query.Options) (int64, error) {
	return s.orderRepo.Count(opts)
}

// GetOrderByID retrieves one order with its user, items and item products.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id, "User", "OrderItems", "OrderItems.Product")
}

// ListOrderItems retrieves order items matching the query options, scoped to
// one order when orderID is non-empty.
func (s *OrderService) ListOrderItems(orderID string, opts query.Options) ([]models.OrderItem, error) {
	if opts.Relations == nil {
		opts.Relations = []string{"order", "product"}
	}
	if orderID != "" {
		if opts.Filters == nil {
			opts.Filters = map[string]query.Filter{}
		}
		opts.Filters["orderId"] = query.Eq(orderID)
	}
	return s.itemRepo.List(opts)
}

// CountOrderItems returns the number of order items matching the query
// options, scoped to one order when orderID is non-empty.
func (s *OrderService) CountOrderItems(orderID string, opts query.Options) (int64, error) {
	if orderID != "" {
		if opts.Filters == nil {
			opts.Filters = map[string]query.Filter{}
		}
		opts.Filters["orderId"] = query.Eq(orderID)
	}
	return s.itemRepo.Count(opts)
}

// GetOrderItemByID retrieves one order item with its order and product.
func (s *OrderService) GetOrderItemByID(id string) (*models.OrderItem, error) {
	return s.itemRepo.GetByID(id, "Order", "Product")
}

// CreateOrder creates an order together with all its line items. The user and
// every referenced product must exist; each item decrements its product's
// inventory; the order total is recalculated after the last item. Any failure
// rolls the whole creation back.
func (s *OrderService) CreateOrder(in CreateOrderInput) (*models.Order, error) {
	var created *models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		orders := s.orderRepo.WithTx(tx)

		user, err := s.userRepo.WithTx(tx).GetByID(in.UserID)
		if err != nil {
			return err
		}

		fee := models.DefaultDeliveryFee
		if in.DeliveryFee != nil {
			fee = *in.DeliveryFee
		}
		order := &models.Order{
			Status:          models.StatusPending,
			Address:         in.Address,
			DeliveryFee:     fee,
			TotalAmount:     0, // placeholder until recalculation
			StripePaymentID: in.StripePaymentID,
			UserID:          user.ID,
		}
		if err := orders.Create(order); err != nil {
			return err
		}

		for _, item := range in.Items {
			if _, err := s.createItem(tx, order.ID, item); err != nil {
				return err
			}
		}

		if err := s.recalculateTotal(tx, order.ID); err != nil {
			return err
		}

		created, err = orders.GetByID(order.ID, "OrderItems", "User")
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(rabbitmq.EventOrderCreated, created)
	return created, nil
}

// UpdateOrder applies a partial update to an order. A delivery-fee change is
// persisted first and triggers a recalculation; an explicit TotalAmount
// override is applied afterwards and therefore always wins. A transition to
// CANCELED restores the inventory of all items; a canceled order cannot leave
// that state.
func (s *OrderService) UpdateOrder(id string, in UpdateOrderInput) (*models.Order, error) {
	var updated *models.Order
	statusChanged := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		orders := s.orderRepo.WithTx(tx)

		order, err := orders.GetByID(id)
		if err != nil {
			return err
		}

		if in.Status != nil {
			if !models.ValidStatus(*in.Status) {
				return apperrors.NewValidation("invalid order status %q", *in.Status)
			}
			if order.Status == models.StatusCanceled && *in.Status != models.StatusCanceled {
				return apperrors.NewValidation("canceled order %s cannot change status", id)
			}
		}

		if in.DeliveryFee != nil && *in.DeliveryFee != order.DeliveryFee {
			if err := orders.Updates(id, map[string]interface{}{"delivery_fee": *in.DeliveryFee}); err != nil {
				return err
			}
			if err := s.recalculateTotal(tx, id); err != nil {
				return err
			}
		}

		fields := map[string]interface{}{}
		if in.Status != nil {
			fields["status"] = *in.Status
		}
		if in.TotalAmount != nil {
			// Explicit override wins over any triggered recalculation.
			fields["total_amount"] = *in.TotalAmount
		}
		if in.Address != nil {
			fields["address"] = *in.Address
		}
		if len(fields) > 0 {
			if err := orders.Updates(id, fields); err != nil {
				return err
			}
		}

		if in.Status != nil && *in.Status == models.StatusCanceled && order.Status != models.StatusCanceled {
			if err := s.restoreInventory(tx, id); err != nil {
				return err
			}
		}
		statusChanged = in.Status != nil && *in.Status != order.Status

		updated, err = orders.GetByID(id, "OrderItems", "User")
		return err
	})
	if err != nil {
		return nil, err
	}

	if statusChanged {
		s.publishEvent(rabbitmq.EventOrderStatusChanged, updated)
	}
	return updated, nil
}

// DeleteOrder removes an order and its items, restoring product inventory for
// orders that were never canceled (cancellation already restored it). Returns
// false when no such order exists.
func (s *OrderService) DeleteOrder(id string) (bool, error) {
	deleted := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		orders := s.orderRepo.WithTx(tx)

		order, err := orders.GetByID(id, "OrderItems")
		if err != nil {
			if apperrors.IsNotFound(err) {
				return nil
			}
			return err
		}

		if order.Status != models.StatusCanceled {
			if err := s.restoreInventory(tx, id); err != nil {
				return err
			}
		}
		if err := s.itemRepo.WithTx(tx).DeleteByOrderID(id); err != nil {
			return err
		}
		deleted, err = orders.Delete(id)
		return err
	})
	return deleted, err
}

// CreateOrderItem adds a line item to an existing order, decrements the
// product's inventory and recalculates the parent total, all in one
// transaction. Canceled orders are closed: cancellation already returned
// their stock, so no item may be added to one.
func (s *OrderService) CreateOrderItem(orderID string, in OrderItemInput) (*models.OrderItem, error) {
	var created *models.OrderItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.WithTx(tx).GetByID(orderID)
		if err != nil {
			return err
		}
		if order.Status == models.StatusCanceled {
			return apperrors.NewValidation("cannot add items to canceled order %s", orderID)
		}
		item, err := s.createItem(tx, orderID, in)
		if err != nil {
			return err
		}
		if err := s.recalculateTotal(tx, orderID); err != nil {
			return err
		}
		created, err = s.itemRepo.WithTx(tx).GetByID(item.ID, "Order", "Product")
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateOrderItem applies a partial update to a line item. TotalPrice is
// recomputed from the updated quantity and unit price unless explicitly
// supplied, and the parent order's total is always recalculated afterwards.
// Items of a canceled order are frozen.
func (s *OrderService) UpdateOrderItem(id string, in UpdateOrderItemInput) (*models.OrderItem, error) {
	var updated *models.OrderItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		items := s.itemRepo.WithTx(tx)

		item, err := items.GetByID(id)
		if err != nil {
			return err
		}
		order, err := s.orderRepo.WithTx(tx).GetByID(item.OrderID)
		if err != nil {
			return err
		}
		if order.Status == models.StatusCanceled {
			return apperrors.NewValidation("cannot modify items of canceled order %s", item.OrderID)
		}

		fields := map[string]interface{}{}
		if in.Quantity != nil {
			fields["quantity"] = *in.Quantity
		}
		if in.UnitPrice != nil {
			fields["unit_price"] = *in.UnitPrice
		}
		if in.TotalPrice != nil {
			fields["total_price"] = *in.TotalPrice
		}
		if len(fields) == 0 {
			return apperrors.NewValidation("update of order item %s carries no fields", id)
		}
		if err := items.Updates(id, fields); err != nil {
			return err
		}

		if in.TotalPrice == nil {
			fresh, err := items.GetByID(id)
			if err != nil {
				return err
			}
			derived := fresh.UnitPrice * float64(fresh.Quantity)
			if err := items.Updates(id, map[string]interface{}{"total_price": derived}); err != nil {
				return err
			}
		}

		if err := s.recalculateTotal(tx, item.OrderID); err != nil {
			return err
		}

		updated, err = items.GetByID(id, "Order", "Product")
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteOrderItem removes a line item, restores the product's inventory and
// recalculates the parent order's total. On a canceled order the restore is
// skipped, since cancellation already returned the stock.
func (s *OrderService) DeleteOrderItem(id string) (bool, error) {
	deleted := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		items := s.itemRepo.WithTx(tx)

		item, err := items.GetByID(id)
		if err != nil {
			return err
		}
		order, err := s.orderRepo.WithTx(tx).GetByID(item.OrderID)
		if err != nil {
			return err
		}
		deleted, err = items.Delete(id)
		if err != nil {
			return err
		}
		if order.Status != models.StatusCanceled {
			if err := s.productRepo.WithTx(tx).AdjustInventory(item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return s.recalculateTotal(tx, item.OrderID)
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// RecalculateOrder recomputes one order's TotalAmount from its committed
// items and delivery fee. Safe to call repeatedly.
func (s *OrderService) RecalculateOrder(id string) (*models.Order, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return s.recalculateTotal(tx, id)
	})
	if err != nil {
		return nil, err
	}
	return s.orderRepo.GetByID(id, "OrderItems")
}

// createItem inserts one line item and decrements the product's inventory
// inside tx. The product must exist and carry enough stock.
func (s *OrderService) createItem(tx *gorm.DB, orderID string, in OrderItemInput) (*models.OrderItem, error) {
	products := s.productRepo.WithTx(tx)

	product, err := products.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product.Inventory < in.Quantity {
		return nil, apperrors.NewConsistency(
			"insufficient inventory for product %s (requested %d, available %d)",
			product.ID, in.Quantity, product.Inventory)
	}

	totalPrice := in.UnitPrice * float64(in.Quantity)
	if in.TotalPrice != nil {
		totalPrice = *in.TotalPrice
	}
	item := &models.OrderItem{
		Quantity:   in.Quantity,
		UnitPrice:  in.UnitPrice,
		TotalPrice: totalPrice,
		OrderID:    orderID,
		ProductID:  product.ID,
	}
	if err := s.itemRepo.WithTx(tx).Create(item); err != nil {
		return nil, err
	}
	if err := products.AdjustInventory(product.ID, -in.Quantity); err != nil {
		return nil, err
	}
	return item, nil
}

// recalculateTotal recomputes an order's TotalAmount as the sum of its items'
// TotalPrice plus the delivery fee. Idempotent; must run as the last step of
// any operation that touches the order's items or fee.
func (s *OrderService) recalculateTotal(tx *gorm.DB, orderID string) error {
	orders := s.orderRepo.WithTx(tx)

	order, err := orders.GetByID(orderID, "OrderItems")
	if err != nil {
		return err
	}
	total := order.DeliveryFee
	for _, item := range order.OrderItems {
		total += item.TotalPrice
	}
	return orders.Updates(orderID, map[string]interface{}{"total_amount": total})
}

// restoreInventory returns every item's quantity to its product's stock, used
// on cancellation and on deletion of a non-canceled order.
func (s *OrderService) restoreInventory(tx *gorm.DB, orderID string) error {
	order, err := s.orderRepo.WithTx(tx).GetByID(orderID, "OrderItems")
	if err != nil {
		return err
	}
	products := s.productRepo.WithTx(tx)
	for _, item := range order.OrderItems {
		if err := products.AdjustInventory(item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// publishEvent emits an order event after commit. Best effort: a publish
// failure is logged, never surfaced to the caller.
func (s *OrderService) publishEvent(eventType string, order *models.Order) {
	if s.mqClient == nil || order == nil {
		return
	}
	payload := map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"status":   order.Status,
		"total":    order.TotalAmount,
	}
	if err := s.mqClient.PublishOrderEvent(eventType, payload); err != nil {
		log.Printf("Warning: failed to publish %s event for order %s: %v", eventType, order.ID, err)
	}
}
