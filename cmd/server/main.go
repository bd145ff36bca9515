package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"digital-library/internal/adapters/http/middleware"
	"digital-library/internal/adapters/http/routes"
	"digital-library/internal/adapters/messaging"
	"digital-library/internal/adapters/persistence/models"
	"digital-library/internal/adapters/persistence/repositories"
	"digital-library/internal/config"
	"digital-library/internal/core/services"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"

	_ "digital-library/docs" // Swagger docs
)

// @title Digital Library API
// @version 1.0
// @description Book catalog and lending service API
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@library.local

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:3000
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase(db)

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	if err := config.NewSeeder(db, cfg).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed data: %v", err)
	}

	// Token cleanup (03:00 UTC daily) and hourly overdue report
	cronService := services.NewCronService(
		repositories.NewRefreshTokenRepository(db),
		repositories.NewBorrowRecordRepository(db),
	)
	if err := cronService.Start(); err != nil {
		log.Fatalf("❌ Failed to start cron service: %v", err)
	}
	defer cronService.Stop()

	// Lending events go to Kafka only when brokers are configured
	var events services.LendingEventPublisher
	if cfg.KafkaEnabled() {
		publisher, err := messaging.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.LendingTopic)
		if err != nil {
			log.Fatalf("❌ Failed to create Kafka publisher: %v", err)
		}
		defer publisher.Close()
		events = publisher
		log.Printf("✅ Publishing lending events to %s", cfg.Kafka.LendingTopic)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Digital Library API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
		JSONEncoder:  jsoniter.ConfigCompatibleWithStandardLibrary.Marshal,
		JSONDecoder:  jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, db, cfg, events)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
