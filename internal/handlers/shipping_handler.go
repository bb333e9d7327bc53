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

// ShippingHandler handles HTTP requests for shipping rates and rules.
type ShippingHandler struct {
	service  *services.ShippingService
	validate *validator.Validate
}

// NewShippingHandler creates a new ShippingHandler.
func NewShippingHandler(service *services.ShippingService) *ShippingHandler {
	return &ShippingHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the shipping routes with the Fiber app. Rate
// lookups are public; rule maintenance lives under /shipping/admin.
func (h *ShippingHandler) RegisterRoutes(router fiber.Router, adminRequired fiber.Handler) {
	shippingRoutes := router.Group("/shipping")
	shippingRoutes.Get("/rates/:country", h.HandleGetRate)
	shippingRoutes.Get("/countries", h.HandleGetCountries)
	shippingRoutes.Get("/fees", h.HandleGetCountries)

	adminRoutes := shippingRoutes.Group("/admin", adminRequired)
	adminRoutes.Get("/", h.HandleListRules)
	adminRoutes.Post("/", h.HandleCreateRule)
	adminRoutes.Get("/:id", h.HandleGetRule)
	adminRoutes.Put("/:id", h.HandleUpdateRule)
	adminRoutes.Delete("/:id", h.HandleDeleteRule)
	adminRoutes.Patch("/:id/toggle", h.HandleToggleRule)
}

// HandleGetRate returns the active shipping rate for a country.
func (h *ShippingHandler) HandleGetRate(c *fiber.Ctx) error {
	country := c.Params("country")
	fee, err := h.service.RateForCountry(country)
	if err != nil {
		if errors.Is(err, repositories.ErrShippingFeeNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": fmt.Sprintf("Shipping to %s is not available", country),
			})
		}
		log.Printf("Error fetching shipping rate for %s: %v", country, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error fetching shipping rates",
		})
	}
	return c.JSON(fiber.Map{
		"country":   fee.Country,
		"baseFee":   fee.BaseFee,
		"perKgRate": fee.PerKgRate,
	})
}

// HandleGetCountries lists all active shipping rules.
func (h *ShippingHandler) HandleGetCountries(c *fiber.Ctx) error {
	fees, err := h.service.ActiveCountries()
	if err != nil {
		log.Printf("Error fetching shipping countries: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error fetching shipping countries",
		})
	}
	return c.JSON(fees)
}

// HandleListRules returns a page of shipping rules for the admin screen.
func (h *ShippingHandler) HandleListRules(c *fiber.Ctx) error {
	opts := repositories.ShippingFeeListOptions{
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 10),
		Search: c.Query("search"),
	}

	fees, total, err := h.service.ListRules(opts)
	if err != nil {
		log.Printf("Error listing shipping rules: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error fetching shipping fees",
		})
	}
	return c.JSON(fiber.Map{
		"data": fees,
		"pagination": fiber.Map{
			"currentPage": opts.Page,
			"totalPages":  int64(math.Ceil(float64(total) / float64(opts.Limit))),
			"totalItems":  total,
		},
	})
}

// HandleCreateRule adds a new shipping rule.
func (h *ShippingHandler) HandleCreateRule(c *fiber.Ctx) error {
	var fee models.ShippingFee
	if err := c.BodyParser(&fee); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(fee); err != nil {
		return respondValidationErrors(c, err)
	}

	if err := h.service.CreateRule(&fee); err != nil {
		if errors.Is(err, repositories.ErrDuplicateCountry) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Shipping fee for this country already exists",
			})
		}
		log.Printf("Error creating shipping rule: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create shipping fee",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fee)
}

// HandleGetRule retrieves a shipping rule by its ID.
func (h *ShippingHandler) HandleGetRule(c *fiber.Ctx) error {
	fee, err := h.service.GetRule(c.Params("id"))
	if err != nil {
		return respondShippingError(c, err)
	}
	return c.JSON(fee)
}

// HandleUpdateRule modifies a shipping rule.
func (h *ShippingHandler) HandleUpdateRule(c *fiber.Ctx) error {
	var fee models.ShippingFee
	if err := c.BodyParser(&fee); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	fee.ID = c.Params("id")
	if err := h.validate.Struct(fee); err != nil {
		return respondValidationErrors(c, err)
	}

	if err := h.service.UpdateRule(&fee); err != nil {
		if errors.Is(err, repositories.ErrDuplicateCountry) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Another shipping fee for this country already exists",
			})
		}
		return respondShippingError(c, err)
	}
	return c.JSON(fee)
}

// HandleDeleteRule removes a shipping rule.
func (h *ShippingHandler) HandleDeleteRule(c *fiber.Ctx) error {
	if err := h.service.DeleteRule(c.Params("id")); err != nil {
		return respondShippingError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Shipping fee deleted successfully",
	})
}

// HandleToggleRule flips a rule's active flag.
func (h *ShippingHandler) HandleToggleRule(c *fiber.Ctx) error {
	fee, err := h.service.ToggleRule(c.Params("id"))
	if err != nil {
		return respondShippingError(c, err)
	}
	return c.JSON(fee)
}

func respondShippingError(c *fiber.Ctx, err error) error {
	if errors.Is(err, repositories.ErrShippingFeeNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Shipping fee not found",
		})
	}
	log.Printf("Shipping rule error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}
