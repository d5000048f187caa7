package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"pharmalink-api/internal/adapters/http/middleware"
	"pharmalink-api/internal/adapters/http/routes"
	"pharmalink-api/internal/adapters/persistence/models"
	"pharmalink-api/internal/adapters/persistence/repositories"
	"pharmalink-api/internal/config"
	"pharmalink-api/internal/core/services"
	"pharmalink-api/internal/pkg/logger"
	"pharmalink-api/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"

	_ "pharmalink-api/docs" // Swagger docs
)

// @title PharmaLink API
// @version 1.0
// @description Pharmacist and pharmacy owner marketplace with manual wallet-transfer subscriptions

// @contact.name API Support
// @contact.email support@pharmalink.app

// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	app := &cli.App{
		Name:  "pharmalink",
		Usage: "PharmaLink marketplace API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Usage: "Run mode (dev or prod), overrides APP_MODE"},
			&cli.StringFlag{Name: "db-driver", Aliases: []string{"d"}, Usage: "Database driver (mysql, postgres, sqlite), overrides DB_DRIVER"},
			&cli.StringFlag{Name: "port", Aliases: []string{"p"}, Usage: "HTTP port, overrides PORT"},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Migrate, seed and start the HTTP server",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "Run database migrations",
				Action: migrate,
			},
			{
				Name:   "seed",
				Usage:  "Migrate and seed pricing, wallet, admin and cities",
				Action: seed,
			},
			{
				Name:  "create-admin",
				Usage: "Create an ADMIN account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
					&cli.StringFlag{Name: "first-name", Value: "Admin"},
					&cli.StringFlag{Name: "last-name", Value: "User"},
				},
				Action: createAdmin,
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		logger.Fatalf("❌ %v", err)
	}
}

// bootstrap loads configuration, applies flag overrides and opens the database
func bootstrap(c *cli.Context) (*config.Config, *gorm.DB, error) {
	// Mode and driver pick env prefixes, so they are applied before loading
	if c.IsSet("mode") {
		os.Setenv("APP_MODE", c.String("mode"))
	}
	if c.IsSet("db-driver") {
		os.Setenv("DB_DRIVER", c.String("db-driver"))
	}

	if err := logger.Init(os.Getenv("APP_MODE") != "prod"); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if c.IsSet("port") {
		cfg.Port = c.String("port")
	}

	if err := logger.Init(cfg.IsDev()); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}

	if err := models.AutoMigrate(db); err != nil {
		config.CloseDatabase()
		return nil, nil, fmt.Errorf("failed to auto migrate: %w", err)
	}
	logger.Infof("✅ Database migration completed")

	return cfg, db, nil
}

func migrate(c *cli.Context) error {
	_, _, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer logger.Sync()
	return config.CloseDatabase()
}

func seed(c *cli.Context) error {
	cfg, db, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer config.CloseDatabase()
	defer logger.Sync()

	return config.NewSeeder(db, cfg).Run(c.Context)
}

func createAdmin(c *cli.Context) error {
	cfg, db, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer config.CloseDatabase()
	defer logger.Sync()

	authService := services.NewAuthService(repositories.NewStore(db), cfg)
	user, err := authService.CreateAdmin(c.Context, &services.CreateAdminInput{
		Email:     c.String("email"),
		Password:  c.String("password"),
		FirstName: c.String("first-name"),
		LastName:  c.String("last-name"),
	})
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	logger.Infof("✅ Admin created: %s (%s)", user.Email, user.ID)
	return nil
}

func serve(c *cli.Context) error {
	cfg, db, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer config.CloseDatabase()
	defer logger.Sync()

	// Seed reference data (idempotent)
	if err := config.NewSeeder(db, cfg).Run(context.Background()); err != nil {
		logger.Warnf("⚠️ Warning: Failed to seed data: %v", err)
	}

	metrics.Init()
	store := repositories.NewStore(db)

	// Refresh token housekeeping
	if cfg.Cron.Enabled {
		cronService := services.NewCronService(store, cfg)
		if err := cronService.Start(); err != nil {
			return err
		}
		defer cronService.Stop()
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "PharmaLink API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, store, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	logger.Infof("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	logger.Infof("✅ Server stopped gracefully")
	return nil
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		logger.Errorf("❌ Error during shutdown: %v", err)
	}
}
