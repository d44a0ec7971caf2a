package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"trendora/internal/services"
)

// OrderHandler handles HTTP requests for orders and order items.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order and order-item routes with the Fiber
// app. Order and item mutations beyond creation run behind adminOnly.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, adminOnly ...fiber.Handler) {
	orders := router.Group("/orders")
	orders.Get("/", h.HandleListOrders)
	orders.Get("/count", h.HandleCountOrders)
	orders.Get("/:id", h.HandleGetOrderByID)
	orders.Post("/", h.HandleCreateOrder)
	orders.Patch("/:id", withGuards(adminOnly, h.HandleUpdateOrder)...)
	orders.Delete("/:id", withGuards(adminOnly, h.HandleDeleteOrder)...)
	orders.Post("/:id/items", withGuards(adminOnly, h.HandleCreateOrderItem)...)

	items := router.Group("/order-items")
	items.Get("/", h.HandleListOrderItems)
	items.Get("/count", h.HandleCountOrderItems)
	items.Get("/:id", h.HandleGetOrderItemByID)
	items.Patch("/:id", withGuards(adminOnly, h.HandleUpdateOrderItem)...)
	items.Delete("/:id", withGuards(adminOnly, h.HandleDeleteOrderItem)...)
}

// HandleListOrders retrieves orders matching the query options.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	opts, err := parseQueryOptions(c)
	if err != nil {
		return fail(c, err, "Invalid query options")
	}
	orders, err := h.service.ListOrders(opts)
	if err != nil {
		log.Printf("Error listing orders: %v", err)
		return fail(c, err, "Could not retrieve orders")
	}
	return c.JSON(orders)
}

// HandleCountOrders returns the number of orders matching the query options.
func (h *OrderHandler) HandleCountOrders(c *fiber.Ctx) error {
	opts, err := parseQueryOptions(c)
	if err != nil {
		return fail(c, err, "Invalid query options")
	}
	count, err := h.service.CountOrders(opts)
	if err != nil {
		log.Printf("Error counting orders: %v", err)
		return fail(c, err, "Could not count orders")
	}
	return c.JSON(fiber.Map{"count": count})
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrderByID(c.Params("id"))
	if err != nil {
		log.Printf("Error getting order %s: %v", c.Params("id"), err)
		return fail(c, err, "Could not retrieve order")
	}
	return c.JSON(order)
}

// HandleCreateOrder creates a new order with its line items.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var in services.CreateOrderInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	order, err := h.service.CreateOrder(in)
	if err != nil {
		log.Printf("Error creating order: %v", err)
		return fail(c, err, "Could not create order")
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleUpdateOrder applies a partial update to an order.
func (h *OrderHandler) HandleUpdateOrder(c *fiber.Ctx) error {
	var in services.UpdateOrderInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	order, err := h.service.UpdateOrder(c.Params("id"), in)
	if err != nil {
		log.Printf("Error updating order %s: %v", c.Params("id"), err)
		return fail(c, err, "Could not update order")
	}
	return c.JSON(order)
}

// HandleDeleteOrder deletes an order and reports whether a row was removed.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	deleted, err := h.service.DeleteOrder(c.Params("id"))
	if err != nil {
		log.Printf("Error deleting order %s: %v", c.Params("id"), err)
		return fail(c, err, "Could not delete order")
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}

// HandleCreateOrderItem adds a line item to an existing order.
func (h *OrderHandler) HandleCreateOrderItem(c *fiber.Ctx) error {
	var in services.OrderItemInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	item, err := h.service.CreateOrderItem(c.Params("id"), in)
	if err != nil {
		log.Printf("Error creating item for order %s: %v", c.Params("id"), err)
		return fail(c, err, "Could not create order item")
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleListOrderItems retrieves order items, optionally scoped by orderId.
func (h *OrderHandler) HandleListOrderItems(c *fiber.Ctx) error {
	opts, err := parseQueryOptions(c)
	if err != nil {
		return fail(c, err, "Invalid query options")
	}
	items, err := h.service.ListOrderItems(c.Query("orderId"), opts)
	if err != nil {
		log.Printf("Error listing order items: %v", err)
		return fail(c, err, "Could not retrieve order items")
	}
	return c.JSON(items)
}

// HandleCountOrderItems returns the number of matching order items.
func (h *OrderHandler) HandleCountOrderItems(c *fiber.Ctx) error {
	opts, err := parseQueryOptions(c)
	if err != nil {
		return fail(c, err, "Invalid query options")
	}
	count, err := h.service.CountOrderItems(c.Query("orderId"), opts)
	if err != nil {
		log.Printf("Error counting order items: %v", err)
		return fail(c, err, "Could not count order items")
	}
	return c.JSON(fiber.Map{"count": count})
}

// HandleGetOrderItemByID retrieves a single order item by its ID.
func (h *OrderHandler) HandleGetOrderItemByID(c *fiber.Ctx) error {
	item, err := h.service.GetOrderItemByID(c.Params("id"))
	if err != nil {
		log.Printf("Error getting order item %s: %v", c.Params("id"), err)
		return fail(c, err, "Could not retrieve order item")
	}
	return c.JSON(item)
}

// HandleUpdateOrderItem applies a partial update to an order item.
func (h *OrderHandler) HandleUpdateOrderItem(c *fiber.Ctx) error {
	var in services.UpdateOrderItemInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	item, err := h.service.UpdateOrderItem(c.Params("id"), in)
	if err != nil {
		log.Printf("Error updating order item %s: %v", c.Params("id"), err)
		return fail(c, err, "Could not update order item")
	}
	return c.JSON(item)
}

// HandleDeleteOrderItem removes an order item.
func (h *OrderHandler) HandleDeleteOrderItem(c *fiber.Ctx) error {
	deleted, err := h.service.DeleteOrderItem(c.Params("id"))
	if err != nil {
		log.Printf("Error deleting order item %s: %v", c.Params("id"), err)
		return fail(c, err, "Could not delete order item")
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}
