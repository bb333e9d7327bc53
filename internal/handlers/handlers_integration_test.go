package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"sepatu/internal/handlers"
	"sepatu/internal/middleware"
	"sepatu/internal/models"
	"sepatu/internal/repositories"
	"sepatu/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	app         *fiber.App
	authService *services.AuthService
	productRepo repositories.ProductRepository
}

// setupApp boots the full Fiber app against a fresh in-memory SQLite
// database, mirroring the wiring in main.go.
func setupApp(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Product{},
		&models.Order{},
		&models.ShippingFee{},
		&models.Admin{},
	))

	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	shippingRepo := repositories.NewGORMShippingFeeRepository(db)
	adminRepo := repositories.NewGORMAdminRepository(db)

	productService := services.NewProductService(productRepo)
	shippingService := services.NewShippingService(shippingRepo)
	orderService := services.NewOrderService(orderRepo, productRepo, shippingRepo)
	authService := services.NewAuthService(adminRepo, "test_jwt_secret")

	app := fiber.New()
	adminRequired := middleware.AdminRequired(authService)
	userRequired := middleware.UserRequired(authService)

	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(authService).RegisterRoutes(apiV1)
	handlers.NewProductHandler(productService).RegisterRoutes(apiV1, adminRequired)
	handlers.NewShippingHandler(shippingService).RegisterRoutes(apiV1, adminRequired)
	handlers.NewOrderHandler(orderService).RegisterRoutes(apiV1, adminRequired, userRequired)

	env := &testEnv{app: app, authService: authService, productRepo: productRepo}

	require.NoError(t, shippingRepo.Create(&models.ShippingFee{
		Country: "US", BaseFee: 25, PerKgRate: 5, IsActive: true,
	}))
	require.NoError(t, productRepo.Create(&models.Product{
		ID:       "prod-1",
		Name:     models.LocalizedString{EN: "Hanoi Runner", VI: "Giay Chay Ha Noi"},
		Price:    100,
		WeightKg: 0.5,
		Variations: []models.Variation{
			{
				Color: models.LocalizedString{EN: "Red", VI: "Do"},
				SizeOptions: []models.SizeOption{
					{Size: models.ShoeSize{EU: 42, US: 9}, Price: 100, Stock: 5},
				},
			},
		},
	}))
	return env
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	var payload map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &payload)
	}
	return resp, payload
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()

	resp, _ := e.do(t, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"username": "storeadmin",
		"email":    "admin@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, payload := e.do(t, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"username": "storeadmin",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := payload["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func orderRequestBody(qty int) fiber.Map {
	return fiber.Map{
		"items": []fiber.Map{
			{
				"product_id":     "prod-1",
				"quantity":       qty,
				"selected_color": "Red",
				"selected_size":  fiber.Map{"EU": 42, "US": 9},
			},
		},
		"customer_info": fiber.Map{
			"name":    "Linh Tran",
			"email":   "linh@example.com",
			"address": "12 Hang Bac, Hanoi",
		},
		"shipping_country": "us",
	}
}

func (e *testEnv) stock(t *testing.T) int {
	t.Helper()
	product, err := e.productRepo.GetByID("prod-1")
	require.NoError(t, err)
	return product.Variations[0].SizeOptions[0].Stock
}

func TestCreateOrderEndpoint(t *testing.T) {
	env := setupApp(t)

	resp, payload := env.do(t, http.MethodPost, "/api/v1/orders", "", orderRequestBody(3))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	assert.Equal(t, 300.0, payload["total"])
	assert.Equal(t, "US", payload["shipping_country"])
	assert.Equal(t, 1.5, payload["total_weight"])
	assert.Equal(t, 32.5, payload["shipping_fee"])
	assert.Equal(t, string(models.StatusPending), payload["status"])
	assert.Equal(t, 2, env.stock(t))
}

func TestCreateOrderEndpoint_InsufficientStock(t *testing.T) {
	env := setupApp(t)

	resp, payload := env.do(t, http.MethodPost, "/api/v1/orders", "", orderRequestBody(6))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	msg, _ := payload["error"].(string)
	assert.Contains(t, msg, "Available: 5")
	assert.Equal(t, 5, env.stock(t))
}

func TestCreateOrderEndpoint_Validation(t *testing.T) {
	env := setupApp(t)

	resp, payload := env.do(t, http.MethodPost, "/api/v1/orders", "", fiber.Map{
		"items": []fiber.Map{},
		"customer_info": fiber.Map{
			"name": "Linh Tran",
		},
		"shipping_country": "us",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Validation failed", payload["message"])
}

func TestOrderAdminEndpointsRequireAdminToken(t *testing.T) {
	env := setupApp(t)

	resp, _ := env.do(t, http.MethodGet, "/api/v1/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// A plain user token is not enough for admin endpoints.
	userToken, err := env.authService.IssueUserToken("linh@example.com")
	require.NoError(t, err)
	resp, _ = env.do(t, http.MethodGet, "/api/v1/orders", userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/v1/orders/stats/summary", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestOrderAdminLifecycle(t *testing.T) {
	env := setupApp(t)
	token := env.adminToken(t)

	resp, created := env.do(t, http.MethodPost, "/api/v1/orders", "", orderRequestBody(2))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	orderID, _ := created["id"].(string)
	require.NotEmpty(t, orderID)

	resp, listing := env.do(t, http.MethodGet, "/api/v1/orders?status=Pending", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1.0, listing["total"])

	resp, updated := env.do(t, http.MethodPut, "/api/v1/orders/"+orderID+"/status", token, fiber.Map{
		"status": "Shipped",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Shipped", updated["status"])

	// Shipped orders cannot move back to Pending or be deleted.
	resp, _ = env.do(t, http.MethodPut, "/api/v1/orders/"+orderID+"/status", token, fiber.Map{
		"status": "Pending",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodDelete, "/api/v1/orders/"+orderID, token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 3, env.stock(t))

	resp, stats := env.do(t, http.MethodGet, "/api/v1/orders/stats/summary", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1.0, stats["totalOrders"])
	assert.Equal(t, 1.0, stats["shippedOrders"])
	assert.Equal(t, 200.0, stats["totalRevenue"])
}

func TestDeleteOrderEndpoint_RestoresStock(t *testing.T) {
	env := setupApp(t)
	token := env.adminToken(t)

	resp, created := env.do(t, http.MethodPost, "/api/v1/orders", "", orderRequestBody(3))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	orderID, _ := created["id"].(string)
	require.Equal(t, 2, env.stock(t))

	resp, _ = env.do(t, http.MethodDelete, "/api/v1/orders/"+orderID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 5, env.stock(t))

	resp, _ = env.do(t, http.MethodGet, "/api/v1/orders/"+orderID, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUserOrderEndpoints(t *testing.T) {
	env := setupApp(t)

	resp, created := env.do(t, http.MethodPost, "/api/v1/orders", "", orderRequestBody(1))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	orderID, _ := created["id"].(string)

	userToken, err := env.authService.IssueUserToken("linh@example.com")
	require.NoError(t, err)

	resp, mine := env.do(t, http.MethodGet, "/api/v1/orders/user/my-orders", userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1.0, mine["total"])
	assert.Equal(t, "linh@example.com", mine["userEmail"])

	resp, single := env.do(t, http.MethodGet, "/api/v1/orders/user/"+orderID, userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, orderID, single["id"])

	resp, stats := env.do(t, http.MethodGet, "/api/v1/orders/user/stats/summary", userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1.0, stats["totalOrders"])

	// A different customer cannot see the order.
	otherToken, err := env.authService.IssueUserToken("other@example.com")
	require.NoError(t, err)
	resp, _ = env.do(t, http.MethodGet, "/api/v1/orders/user/"+orderID, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/v1/orders/user/my-orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestShippingEndpoints(t *testing.T) {
	env := setupApp(t)

	resp, rate := env.do(t, http.MethodGet, "/api/v1/shipping/rates/us", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "US", rate["country"])
	assert.Equal(t, 25.0, rate["baseFee"])
	assert.Equal(t, 5.0, rate["perKgRate"])

	resp, payload := env.do(t, http.MethodGet, "/api/v1/shipping/rates/fr", "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	msg, _ := payload["error"].(string)
	assert.Contains(t, msg, "not available")

	resp, _ = env.do(t, http.MethodGet, "/api/v1/shipping/admin", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := env.adminToken(t)
	resp, created := env.do(t, http.MethodPost, "/api/v1/shipping/admin", token, fiber.Map{
		"country":   "jp",
		"baseFee":   20,
		"perKgRate": 3,
		"isActive":  true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "JP", created["country"])

	resp, countries := env.do(t, http.MethodGet, "/api/v1/shipping/countries", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = countries // body is a JSON array; status suffices here
}

func TestProductEndpoints(t *testing.T) {
	env := setupApp(t)

	resp, _ := env.do(t, http.MethodGet, "/api/v1/products", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, product := env.do(t, http.MethodGet, "/api/v1/products/prod-1", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "prod-1", product["id"])
	assert.Equal(t, true, product["in_stock"])

	resp, _ = env.do(t, http.MethodGet, "/api/v1/products/prod-404", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Mutations require an admin token.
	resp, _ = env.do(t, http.MethodDelete, "/api/v1/products/prod-1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := env.adminToken(t)
	resp, _ = env.do(t, http.MethodDelete, "/api/v1/products/prod-1", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/v1/products/prod-1", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
