package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gadgethub-api/internal/adapters/cache"
	"gadgethub-api/internal/adapters/events"
	"gadgethub-api/internal/adapters/http/middleware"
	"gadgethub-api/internal/adapters/http/routes"
	"gadgethub-api/internal/adapters/persistence/models"
	"gadgethub-api/internal/adapters/persistence/repositories"
	"gadgethub-api/internal/config"
	"gadgethub-api/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "gadgethub-api/docs" // Swagger docs
)

// @title GadgetHub API
// @version 1.0
// @description Used phone marketplace: catalog, orders and branch fulfillment

// @contact.name API Support
// @contact.email support@gadgethub.id

// @BasePath /api/v1

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

	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Demo accounts and catalog for local development
	if cfg.IsDev() {
		if err := config.NewSeeder(db).Run(); err != nil {
			log.Printf("⚠️ Warning: Failed to seed demo data: %v", err)
		}
	}

	// Order events
	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, 256)
		kp.Start()
		publisher = kp
		log.Printf("✅ Kafka publisher started [%v → %s]", cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}
	defer publisher.Close()

	// Shared rate limit counters
	var storage fiber.Storage
	if cfg.Redis.Addr != "" {
		rdb := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("⚠️ Warning: Redis unavailable, rate limits stay in memory: %v", err)
			_ = rdb.Close()
		} else {
			rs := cache.NewRedisStorage(rdb, "gadgethub:limiter:")
			defer rs.Close()
			storage = rs
			log.Printf("✅ Redis connected [%s]", cfg.Redis.Addr)
		}
		cancel()
	}

	// E-mail notifications
	var mailer services.Mailer
	if cfg.Mail.Enabled() {
		mailer = services.NewSMTPMailer(cfg.Mail)
	} else {
		log.Println("⚠️ SMTP not configured, e-mails are logged only")
	}
	notifier := services.NewNotificationService(mailer, cfg.AppURL)

	// Maintenance jobs
	cronService := services.NewCronService(
		repositories.NewRefreshTokenRepository(db),
		repositories.NewOrderRepository(db),
		cfg.Cron,
	)
	if err := cronService.Start(); err != nil {
		log.Fatalf("❌ Failed to start cron: %v", err)
	}
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "GadgetHub API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg, storage)

	// Setup routes
	routes.Setup(app, db, cfg, routes.Deps{
		Publisher: publisher,
		Notifier:  notifier,
		Storage:   storage,
	})

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
