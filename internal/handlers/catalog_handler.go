package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"trendora/internal/models"
	"trendora/internal/services"
)

// CatalogHandler handles HTTP requests for brands and categories.
type CatalogHandler struct {
	service *services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterRoutes registers brand and category routes with the Fiber app.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	brands := router.Group("/brands")
	brands.Get("/", h.HandleListBrands)
	brands.Get("/count", h.HandleCountBrands)
	brands.Get("/:id", h.HandleGetBrandByID)
	brands.Post("/", h.HandleCreateBrand)
	brands.Patch("/:id", h.HandleUpdateBrand)
	brands.Delete("/:id", h.HandleDeleteBrand)

	categories := router.Group("/categories")
	categories.Get("/", h.HandleListCategories)
	categories.Get("/count", h.HandleCountCategories)
	categories.Get("/:id", h.HandleGetCategoryByID)
	categories.Post("/", h.HandleCreateCategory)
	categories.Patch("/:id", h.HandleUpdateCategory)
	categories.Delete("/:id", h.HandleDeleteCategory)
}

// HandleListBrands retrieves brands matching the query options.
func (h *CatalogHandler) HandleListBrands(c *fiber.Ctx) error {
	opts, err := parseQueryOptions(c)
	if err != nil {
		return fail(c, err, "Invalid query options")
	}
	brands, err := h.service.ListBrands(opts)
	if err != nil {
		log.Printf("Error listing brands: %v", err)
		return fail(c, err, "Could not retrieve brands")
	}
	return c.JSON(brands)
}

// HandleCountBrands returns the number of matching brands.
func (h *CatalogHandler) HandleCountBrands(c *fiber.Ctx) error {
	opts, err := parseQueryOptions(c)
	if err != nil {
		return fail(c, err, "Invalid query options")
	}
	count, err := h.service.CountBrands(opts)
	if err != nil {
		return fail(c, err, "Could not count brands")
	}
	return c.JSON(fiber.Map{"count": count})
}

// HandleGetBrandByID retrieves a single brand.
func (h *CatalogHandler) HandleGetBrandByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid brand ID"})
	}
	brand, err := h.service.GetBrandByID(uint(id))
	if err != nil {
		return fail(c, err, "Could not retrieve brand")
	}
	return c.JSON(brand)
}

// HandleCreateBrand creates a new brand.
func (h *CatalogHandler) HandleCreateBrand(c *fiber.Ctx) error {
	var brand models.Brand
	if err := c.BodyParser(&brand); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.service.CreateBrand(&brand); err != nil {
		log.Printf("Error creating brand: %v", err)
		return fail(c, err, "Could not create brand")
	}
	return c.Status(fiber.StatusCreated).JSON(brand)
}

// HandleUpdateBrand renames a brand.
func (h *CatalogHandler) HandleUpdateBrand(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid brand ID"})
	}
	var in struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&in); err != nil || in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Name is required"})
	}
	brand, err := h.service.UpdateBrand(uint(id), in.Name)
	if err != nil {
		return fail(c, err, "Could not update brand")
	}
	return c.JSON(brand)
}

// HandleDeleteBrand deletes a brand.
func (h *CatalogHandler) HandleDeleteBrand(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid brand ID"})
	}
	deleted, err := h.service.DeleteBrand(uint(id))
	if err != nil {
		return fail(c, err, "Could not delete brand")
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}

// HandleListCategories retrieves categories matching the query options.
func (h *CatalogHandler) HandleListCategories(c *fiber.Ctx) error {
	opts, err := parseQueryOptions(c)
	if err != nil {
		return fail(c, err, "Invalid query options")
	}
	categories, err := h.service.ListCategories(opts)
	if err != nil {
		log.Printf("Error listing categories: %v", err)
		return fail(c, err, "Could not retrieve categories")
	}
	return c.JSON(categories)
}

// HandleCountCategories returns the number of matching categories.
func (h *CatalogHandler) HandleCountCategories(c *fiber.Ctx) error {
	opts, err := parseQueryOptions(c)
	if err != nil {
		return fail(c, err, "Invalid query options")
	}
	count, err := h.service.CountCategories(opts)
	if err != nil {
		return fail(c, err, "Could not count categories")
	}
	return c.JSON(fiber.Map{"count": count})
}

// HandleGetCategoryByID retrieves a single category.
func (h *CatalogHandler) HandleGetCategoryByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid category ID"})
	}
	category, err := h.service.GetCategoryByID(uint(id))
	if err != nil {
		return fail(c, err, "Could not retrieve category")
	}
	return c.JSON(category)
}

// HandleCreateCategory creates a new category.
func (h *CatalogHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var category models.Category
	if err := c.BodyParser(&category); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.service.CreateCategory(&category); err != nil {
		log.Printf("Error creating category: %v", err)
		return fail(c, err, "Could not create category")
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// HandleUpdateCategory renames a category.
func (h *CatalogHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid category ID"})
	}
	var in struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&in); err != nil || in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Name is required"})
	}
	category, err := h.service.UpdateCategory(uint(id), in.Name)
	if err != nil {
		return fail(c, err, "Could not update category")
	}
	return c.JSON(category)
}

// HandleDeleteCategory deletes a category.
func (h *CatalogHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid category ID"})
	}
	deleted, err := h.service.DeleteCategory(uint(id))
	if err != nil {
		return fail(c, err, "Could not delete category")
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}
