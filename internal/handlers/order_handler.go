package handlers

import (
	"errors"
	"fmt"
	"log"
	"math"

	"sepatu/internal/models"
	"sepatu/internal/repositories"
	"sepatu/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
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

// RegisterRoutes registers the order routes with the Fiber app. Checkout is
// public; listing, status changes and deletion are admin operations; the
// /user endpoints are scoped to the verified email of the caller's token.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, adminRequired, userRequired fiber.Handler) {
	orderRoutes := router.Group("/orders")

	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/stats/summary", adminRequired, h.HandleStatsSummary)

	orderRoutes.Get("/user/my-orders", userRequired, h.HandleUserOrders)
	orderRoutes.Get("/user/stats/summary", userRequired, h.HandleUserStats)
	orderRoutes.Get("/user/:id", userRequired, h.HandleUserOrderByID)

	orderRoutes.Get("/", adminRequired, h.HandleGetOrders)
	orderRoutes.Get("/:id", adminRequired, h.HandleGetOrderByID)
	orderRoutes.Put("/:id/status", adminRequired, h.HandleUpdateOrderStatus)
	orderRoutes.Delete("/:id", adminRequired, h.HandleDeleteOrder)
}

// HandleCreateOrder validates and fulfills a checkout request.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req services.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing order request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	order, err := h.service.CreateOrder(req)
	if err != nil {
		log.Printf("Error creating order: %v", err)
		return respondOrderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleGetOrders lists orders with optional status and email filters.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	opts := repositories.OrderListOptions{
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 10),
		Status: models.OrderStatus(c.Query("status")),
		Email:  c.Query("email"),
	}

	orders, total, err := h.service.ListOrders(opts)
	if err != nil {
		log.Printf("Error listing orders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
		})
	}
	return c.JSON(orderPage(orders, total, opts))
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrder(c.Params("id"))
	if err != nil {
		return respondOrderError(c, err)
	}
	return c.JSON(order)
}

// HandleUpdateOrderStatus updates the lifecycle status of an order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var updateData struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for status update",
			"error":   err.Error(),
		})
	}

	order, err := h.service.UpdateStatus(c.Params("id"), updateData.Status)
	if err != nil {
		log.Printf("Error updating status of order %s: %v", c.Params("id"), err)
		return respondOrderError(c, err)
	}
	return c.JSON(order)
}

// HandleDeleteOrder cancels a pending order and restores its stock.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	if err := h.service.DeleteOrder(c.Params("id")); err != nil {
		log.Printf("Error deleting order %s: %v", c.Params("id"), err)
		return respondOrderError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Order deleted successfully",
	})
}

// HandleStatsSummary returns aggregate order statistics.
func (h *OrderHandler) HandleStatsSummary(c *fiber.Ctx) error {
	stats, err := h.service.StatsSummary()
	if err != nil {
		log.Printf("Error building order stats: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not compute order statistics",
		})
	}
	return c.JSON(stats)
}

// HandleUserOrders lists the caller's own orders.
func (h *OrderHandler) HandleUserOrders(c *fiber.Ctx) error {
	email, _ := c.Locals("user_email").(string)
	opts := repositories.OrderListOptions{
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 10),
		Status: models.OrderStatus(c.Query("status")),
	}

	orders, total, err := h.service.UserOrders(email, opts)
	if err != nil {
		log.Printf("Error listing orders for %s: %v", email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
		})
	}

	page := orderPage(orders, total, opts)
	page["userEmail"] = email
	return c.JSON(page)
}

// HandleUserOrderByID retrieves one of the caller's own orders.
func (h *OrderHandler) HandleUserOrderByID(c *fiber.Ctx) error {
	email, _ := c.Locals("user_email").(string)
	order, err := h.service.UserOrder(email, c.Params("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Order not found or you do not have permission to view this order",
			})
		}
		return respondOrderError(c, err)
	}
	return c.JSON(order)
}

// HandleUserStats returns the caller's own order statistics.
func (h *OrderHandler) HandleUserStats(c *fiber.Ctx) error {
	email, _ := c.Locals("user_email").(string)
	stats, err := h.service.UserStats(email)
	if err != nil {
		log.Printf("Error building order stats for %s: %v", email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not compute order statistics",
		})
	}
	return c.JSON(stats)
}

func orderPage(orders []models.Order, total int64, opts repositories.OrderListOptions) fiber.Map {
	limit := opts.Limit
	if limit < 1 {
		limit = 10
	}
	page := opts.Page
	if page < 1 {
		page = 1
	}
	return fiber.Map{
		"orders":      orders,
		"total":       total,
		"currentPage": page,
		"totalPages":  int64(math.Ceil(float64(total) / float64(limit))),
	}
}

// respondOrderError converts the service error taxonomy into structured HTTP
// responses: business-rule failures and illegal transitions become 400s with
// their human-readable message, missing records become 404s, and anything
// unexpected surfaces as a 500.
func respondOrderError(c *fiber.Ctx, err error) error {
	var invalid *services.OrderInvalidError
	if errors.As(err, &invalid) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": invalid.Message,
		})
	}

	var state *services.InvalidStateError
	if errors.As(err, &state) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": state.Message,
		})
	}

	var stock *repositories.InsufficientStockError
	if errors.As(err, &stock) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":     stock.Error(),
			"available": stock.Available,
		})
	}

	if errors.Is(err, repositories.ErrOrderNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Order not found",
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}

// respondValidationErrors renders validator.v10 failures as a field-level map.
func respondValidationErrors(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"error":   err.Error(),
	})
}
