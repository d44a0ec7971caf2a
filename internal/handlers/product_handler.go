package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"trendora/internal/models"
	"trendora/internal/services"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app. Reads are
// public; mutations run behind mutationGuards.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, mutationGuards ...fiber.Handler) {
	products := router.Group("/products")
	products.Get("/", h.HandleListProducts)
	products.Get("/count", h.HandleCountProducts)
	products.Get("/price-range", h.HandlePriceRange)
	products.Get("/names", h.HandleProductNames)
	products.Get("/:id", h.HandleGetProductByID)
	products.Post("/", withGuards(mutationGuards, h.HandleCreateProduct)...)
	products.Patch("/:id", withGuards(mutationGuards, h.HandleUpdateProduct)...)
	products.Delete("/:id", withGuards(mutationGuards, h.HandleDeleteProduct)...)
}

// HandleListProducts retrieves products matching the query options.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	opts, err := parseQueryOptions(c)
	if err != nil {
		return fail(c, err, "Invalid query options")
	}
	products, err := h.service.ListProducts(opts)
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return fail(c, err, "Could not retrieve products")
	}
	return c.JSON(products)
}

// HandleCountProducts returns the number of matching products.
func (h *ProductHandler) HandleCountProducts(c *fiber.Ctx) error {
	opts, err := parseQueryOptions(c)
	if err != nil {
		return fail(c, err, "Invalid query options")
	}
	count, err := h.service.CountProducts(opts)
	if err != nil {
		log.Printf("Error counting products: %v", err)
		return fail(c, err, "Could not count products")
	}
	return c.JSON(fiber.Map{"count": count})
}

// HandlePriceRange returns the min/max price over the matching products.
func (h *ProductHandler) HandlePriceRange(c *fiber.Ctx) error {
	opts, err := parseQueryOptions(c)
	if err != nil {
		return fail(c, err, "Invalid query options")
	}
	pr, err := h.service.ProductsPriceRange(opts)
	if err != nil {
		log.Printf("Error computing price range: %v", err)
		return fail(c, err, "Could not compute price range")
	}
	return c.JSON(pr)
}

// HandleProductNames returns the id/name/cover projection of matching products.
func (h *ProductHandler) HandleProductNames(c *fiber.Ctx) error {
	opts, err := parseQueryOptions(c)
	if err != nil {
		return fail(c, err, "Invalid query options")
	}
	names, err := h.service.ProductsNames(opts)
	if err != nil {
		log.Printf("Error listing product names: %v", err)
		return fail(c, err, "Could not retrieve product names")
	}
	return c.JSON(names)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.Params("id"))
	if err != nil {
		log.Printf("Error getting product %s: %v", c.Params("id"), err)
		return fail(c, err, "Could not retrieve product")
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	if err := h.service.CreateProduct(&product); err != nil {
		log.Printf("Error creating product: %v", err)
		return fail(c, err, "Could not create product")
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct applies a partial update to a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var in struct {
		Name      *string  `json:"name"`
		Cover     *string  `json:"cover"`
		Price     *float64 `json:"price" validate:"omitempty,gt=0"`
		Inventory *int     `json:"inventory" validate:"omitempty,gte=0"`
	}
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

	fields := map[string]interface{}{}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Cover != nil {
		fields["cover"] = *in.Cover
	}
	if in.Price != nil {
		fields["price"] = *in.Price
	}
	if in.Inventory != nil {
		fields["inventory"] = *in.Inventory
	}

	product, err := h.service.UpdateProduct(c.Params("id"), fields)
	if err != nil {
		log.Printf("Error updating product %s: %v", c.Params("id"), err)
		return fail(c, err, "Could not update product")
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	deleted, err := h.service.DeleteProduct(c.Params("id"))
	if err != nil {
		log.Printf("Error deleting product %s: %v", c.Params("id"), err)
		return fail(c, err, "Could not delete product")
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}
