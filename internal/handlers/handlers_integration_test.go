package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"trendora/internal/handlers"
	"trendora/internal/middleware"
	"trendora/internal/models"
	"trendora/internal/repositories"
	"trendora/internal/services"
)

// setupApp builds a Fiber app backed by in-memory SQLite with the same route
// layout as main.
func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	viper.SetDefault("JWT_SECRET", "test_jwt_secret")
	viper.AutomaticEnv()
	jwtSecret := viper.GetString("JWT_SECRET")

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Brand{}, &models.Category{},
		&models.Product{}, &models.Order{}, &models.OrderItem{},
	); err != nil {
		t.Fatalf("failed to auto-migrate database: %v", err)
	}

	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	brandRepo := repositories.NewGORMBrandRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	orderItemRepo := repositories.NewGORMOrderItemRepository(db)

	authService := services.NewAuthService(userRepo, jwtSecret)
	productService := services.NewProductService(productRepo, brandRepo, categoryRepo, userRepo)
	catalogService := services.NewCatalogService(brandRepo, categoryRepo)
	orderService := services.NewOrderService(db, orderRepo, orderItemRepo, productRepo, userRepo, nil)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")

	handlers.NewAuthHandler(authService).RegisterRoutes(apiV1)
	handlers.NewProductHandler(productService).RegisterRoutes(apiV1,
		middleware.AuthRequired(authService),
		middleware.RoleRequired(string(models.RoleAdmin), string(models.RoleVendor)))
	handlers.NewCatalogHandler(catalogService).RegisterRoutes(apiV1)

	protected := apiV1.Group("", middleware.AuthRequired(authService))
	handlers.NewOrderHandler(orderService).RegisterRoutes(protected,
		middleware.RoleRequired(string(models.RoleAdmin)))

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	return resp, raw
}

func registerAndLogin(t *testing.T, app *fiber.App, email, role string) (userID, token string) {
	t.Helper()
	resp, raw := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"email":      email,
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"password":   "secret123",
		"role":       role,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var registered struct {
		User models.User `json:"user"`
	}
	assert.NoError(t, json.Unmarshal(raw, &registered))

	resp, raw = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email":    email,
		"password": "secret123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var login struct {
		Token string `json:"token"`
	}
	assert.NoError(t, json.Unmarshal(raw, &login))
	assert.NotEmpty(t, login.Token)
	return registered.User.ID, login.Token
}

func TestRegisterLoginAndOrderFlow(t *testing.T) {
	app, db := setupApp(t)
	userID, token := registerAndLogin(t, app, "buyer@example.com", "buyer")

	// Seed a product directly; creation via API is covered below.
	product := models.Product{ID: "prod-1", Name: "Laptop", Price: 10, Inventory: 5}
	assert.NoError(t, db.Create(&product).Error)

	// Orders are gated behind authentication.
	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/orders/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Create an order: 2 x 10 + 5.00 delivery fee = 25.00.
	resp, raw := doJSON(t, app, http.MethodPost, "/api/v1/orders/", token, fiber.Map{
		"user_id": userID,
		"address": "1 Infinite Loop",
		"items": []fiber.Map{
			{"product_id": product.ID, "quantity": 2, "unit_price": 10},
		},
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var order models.Order
	assert.NoError(t, json.Unmarshal(raw, &order))
	assert.InDelta(t, 25.00, order.TotalAmount, 1e-9)
	assert.Len(t, order.OrderItems, 1)

	// The item creation decremented the product's inventory.
	resp, raw = doJSON(t, app, http.MethodGet, "/api/v1/products/prod-1", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched models.Product
	assert.NoError(t, json.Unmarshal(raw, &fetched))
	assert.Equal(t, 3, fetched.Inventory)

	// Listing with the token sees the order.
	resp, raw = doJSON(t, app, http.MethodGet, "/api/v1/orders/", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var orders []models.Order
	assert.NoError(t, json.Unmarshal(raw, &orders))
	assert.Len(t, orders, 1)

	// Referencing a missing product is a 404 and rolls everything back.
	resp, raw = doJSON(t, app, http.MethodPost, "/api/v1/orders/", token, fiber.Map{
		"user_id": userID,
		"address": "addr",
		"items": []fiber.Map{
			{"product_id": "prod-ghost", "quantity": 1, "unit_price": 1},
		},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, string(raw))

	resp, raw = doJSON(t, app, http.MethodGet, "/api/v1/orders/count", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var count struct {
		Count int64 `json:"count"`
	}
	assert.NoError(t, json.Unmarshal(raw, &count))
	assert.EqualValues(t, 1, count.Count)
}

func TestRoleGatedRoutes(t *testing.T) {
	app, db := setupApp(t)
	buyerID, buyerToken := registerAndLogin(t, app, "buyer@example.com", "buyer")
	_, adminToken := registerAndLogin(t, app, "admin@example.com", "admin")

	product := models.Product{ID: "prod-1", Name: "Laptop", Price: 10, Inventory: 5}
	assert.NoError(t, db.Create(&product).Error)

	// Buyers place orders but cannot mutate them afterwards.
	resp, raw := doJSON(t, app, http.MethodPost, "/api/v1/orders/", buyerToken, fiber.Map{
		"user_id": buyerID,
		"address": "addr",
		"items": []fiber.Map{
			{"product_id": product.ID, "quantity": 1, "unit_price": 10},
		},
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var order models.Order
	assert.NoError(t, json.Unmarshal(raw, &order))

	resp, _ = doJSON(t, app, http.MethodPatch, "/api/v1/orders/"+order.ID, buyerToken, fiber.Map{
		"status": "SHIPPED",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw = doJSON(t, app, http.MethodPatch, "/api/v1/orders/"+order.ID, adminToken, fiber.Map{
		"status": "SHIPPED",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.NoError(t, json.Unmarshal(raw, &order))
	assert.Equal(t, models.StatusShipped, order.Status)

	// Product mutations are for vendors and admins.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/products/", "", fiber.Map{
		"name": "Widget", "price": 5, "inventory": 3,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/products/", buyerToken, fiber.Map{
		"name": "Widget", "price": 5, "inventory": 3,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw = doJSON(t, app, http.MethodPost, "/api/v1/products/", adminToken, fiber.Map{
		"name": "Widget", "price": 5, "inventory": 3,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
}

func TestProductQueryOptionsOverHTTP(t *testing.T) {
	app, db := setupApp(t)

	for i := 1; i <= 12; i++ {
		p := models.Product{ID: fmt.Sprintf("p-%02d", i), Name: fmt.Sprintf("p%02d", i), Price: float64(i), Inventory: 1}
		assert.NoError(t, db.Create(&p).Error)
	}

	// Pagination with sorting.
	resp, raw := doJSON(t, app, http.MethodGet, "/api/v1/products/?page=2&limit=5&sortField=name&sortOrder=ASC", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var products []models.Product
	assert.NoError(t, json.Unmarshal(raw, &products))
	assert.Len(t, products, 5)
	assert.Equal(t, "p06", products[0].Name)

	// Range filter via the JSON filters parameter.
	filters := url.QueryEscape(`{"price": [3, 7]}`)
	resp, raw = doJSON(t, app, http.MethodGet, "/api/v1/products/count?filters="+filters, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var count struct {
		Count int64 `json:"count"`
	}
	assert.NoError(t, json.Unmarshal(raw, &count))
	assert.EqualValues(t, 5, count.Count)

	// Unknown sort fields are rejected, not interpolated.
	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/products/?sortField=name;drop", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCatalogCRUDOverHTTP(t *testing.T) {
	app, _ := setupApp(t)

	resp, raw := doJSON(t, app, http.MethodPost, "/api/v1/brands/", "", fiber.Map{"name": "Acme"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var brand models.Brand
	assert.NoError(t, json.Unmarshal(raw, &brand))

	resp, raw = doJSON(t, app, http.MethodPatch, fmt.Sprintf("/api/v1/brands/%d", brand.ID), "", fiber.Map{"name": "Acme Corp"})
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.NoError(t, json.Unmarshal(raw, &brand))
	assert.Equal(t, "Acme Corp", brand.Name)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/brands/999", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, raw = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/brands/%d", brand.ID), "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var deleted struct {
		Deleted bool `json:"deleted"`
	}
	assert.NoError(t, json.Unmarshal(raw, &deleted))
	assert.True(t, deleted.Deleted)
}
