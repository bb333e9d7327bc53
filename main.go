package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"sepatu/internal/handlers"
	"sepatu/internal/middleware"
	"sepatu/internal/models"
	"sepatu/internal/repositories"
	"sepatu/internal/services"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("SQLITE_PATH", "sepatu.db")
	viper.SetDefault("JWT_SECRET", "change-me-in-production")
	viper.SetDefault("SEED_DATA", false)
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	jwtSecret := viper.GetString("JWT_SECRET")

	// --- Database ---
	db, err := openDatabase()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	err = db.AutoMigrate(
		&models.Product{},
		&models.Order{},
		&models.ShippingFee{},
		&models.Admin{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Repositories ---
	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	shippingRepo := repositories.NewGORMShippingFeeRepository(db)
	adminRepo := repositories.NewGORMAdminRepository(db)

	if viper.GetBool("SEED_DATA") {
		seedShippingFees(shippingRepo)
		seedProducts(productRepo)
	}

	// --- Services ---
	productService := services.NewProductService(productRepo)
	shippingService := services.NewShippingService(shippingRepo)
	orderService := services.NewOrderService(orderRepo, productRepo, shippingRepo)
	authService := services.NewAuthService(adminRepo, jwtSecret)

	// --- Handlers ---
	productHandler := handlers.NewProductHandler(productService)
	shippingHandler := handlers.NewShippingHandler(shippingService)
	orderHandler := handlers.NewOrderHandler(orderService)
	authHandler := handlers.NewAuthHandler(authService)

	// --- Fiber App ---
	app := fiber.New()
	app.Use(logger.New())

	adminRequired := middleware.AdminRequired(authService)
	userRequired := middleware.UserRequired(authService)

	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)
	productHandler.RegisterRoutes(apiV1, adminRequired)
	shippingHandler.RegisterRoutes(apiV1, adminRequired)
	orderHandler.RegisterRoutes(apiV1, adminRequired, userRequired)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// openDatabase connects to Postgres when DATABASE_URL is set and falls back
// to a local SQLite file for development.
func openDatabase() (*gorm.DB, error) {
	if dsn := viper.GetString("DATABASE_URL"); dsn != "" {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}
	return gorm.Open(sqlite.Open(viper.GetString("SQLITE_PATH")), &gorm.Config{})
}

// seedShippingFees loads the default per-country rate table. Existing
// countries are left untouched.
func seedShippingFees(repo repositories.ShippingFeeRepository) {
	fees := []models.ShippingFee{
		{Country: "US", BaseFee: 25, PerKgRate: 5, IsActive: true},
		{Country: "CN", BaseFee: 15, PerKgRate: 2.5, IsActive: true},
		{Country: "JP", BaseFee: 20, PerKgRate: 3, IsActive: true},
		{Country: "KR", BaseFee: 18, PerKgRate: 3.5, IsActive: true},
		{Country: "TH", BaseFee: 12, PerKgRate: 2, IsActive: true},
		{Country: "SG", BaseFee: 15, PerKgRate: 2.8, IsActive: true},
		{Country: "AU", BaseFee: 30, PerKgRate: 4.5, IsActive: true},
		{Country: "GB", BaseFee: 28, PerKgRate: 4.2, IsActive: true},
		{Country: "DE", BaseFee: 25, PerKgRate: 4, IsActive: true},
		{Country: "CA", BaseFee: 22, PerKgRate: 4.8, IsActive: true},
	}

	for i := range fees {
		if err := repo.Create(&fees[i]); err != nil {
			log.Printf("Skipped seeding shipping fee for %s: %v", fees[i].Country, err)
		} else {
			log.Printf("Seeded shipping fee: %s ($%.2f + $%.2f/kg)",
				fees[i].Country, fees[i].BaseFee, fees[i].PerKgRate)
		}
	}
}

// seedProducts populates the catalog with a demo shoe.
func seedProducts(repo repositories.ProductRepository) {
	products := []models.Product{
		{
			Name:     models.LocalizedString{EN: "Hanoi Runner", VI: "Giay Chay Ha Noi"},
			Price:    100,
			Image:    "/images/hanoi-runner.jpg",
			WeightKg: 0.8,
			ShortDescription: models.LocalizedString{
				EN: "Lightweight everyday runner",
				VI: "Giay chay nhe hang ngay",
			},
			DetailDescription: models.LocalizedString{
				EN: "A breathable mesh runner for daily training.",
				VI: "Giay chay luoi thoang khi cho tap luyen hang ngay.",
			},
			Variations: []models.Variation{
				{
					Color: models.LocalizedString{EN: "Red", VI: "Do"},
					SizeOptions: []models.SizeOption{
						{Size: models.ShoeSize{EU: 42, US: 9}, Price: 100, Stock: 5},
						{Size: models.ShoeSize{EU: 43, US: 9.5}, Price: 100, Stock: 3},
					},
				},
				{
					Color: models.LocalizedString{EN: "Black", VI: "Den"},
					SizeOptions: []models.SizeOption{
						{Size: models.ShoeSize{EU: 41, US: 8}, Price: 95, Stock: 10},
					},
				},
			},
		},
	}

	for i := range products {
		if err := repo.Create(&products[i]); err != nil {
			log.Printf("Error seeding product %s: %v", products[i].Name.EN, err)
		} else {
			log.Printf("Seeded product: %s (ID: %s)", products[i].Name.EN, products[i].ID)
		}
	}
}
