package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carbon-registry/internal/adapters/http/handlers"
	"carbon-registry/internal/adapters/http/middleware"
	"carbon-registry/internal/adapters/http/routes"
	"carbon-registry/internal/adapters/ledger"
	"carbon-registry/internal/config"
	"carbon-registry/internal/core/services"
	"carbon-registry/internal/pkg/ability"
	"carbon-registry/migrations"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	_ "carbon-registry/docs" // Swagger docs
)

// @title Carbon Registry Company API
// @version 1.0
// @description Company records of the national carbon credit registry
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@registry.carbon.example.org

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath /api/v1
// @schemes https http

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Schema migrations
	if cfg.AutoMigrate {
		if err := migrations.Run(cfg.Database.Driver, config.MigrateURL(cfg.Database), "up"); err != nil {
			log.Fatalf("❌ Failed to migrate database: %v", err)
		}
		log.Println("✅ Database migration completed")
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Seed development data
	if cfg.IsDev() {
		if err := config.NewSeeder(db, "LK").Run(); err != nil {
			log.Printf("⚠️ Warning: Failed to seed data: %v", err)
		}
	}

	// Ability policy
	policy, err := ability.Load(cfg.AbilityPolicyPath)
	if err != nil {
		log.Fatalf("❌ Failed to load ability policy: %v", err)
	}

	// Programme ledger
	var programmeLedger services.ProgrammeLedger
	checks := map[string]handlers.Checker{}
	if len(cfg.Ledger.Brokers) > 0 {
		kafkaLedger, err := ledger.NewKafkaLedger(cfg.Ledger.Brokers, cfg.Ledger.Topic)
		if err != nil {
			log.Fatalf("❌ Failed to create ledger client: %v", err)
		}
		defer kafkaLedger.Close()
		programmeLedger = kafkaLedger
		checks["ledger"] = kafkaLedger.Ping
		log.Printf("✅ Programme ledger connected [topic: %s]", cfg.Ledger.Topic)
	} else {
		programmeLedger = ledger.NewLogLedger(log.New(os.Stdout, "ledger: ", log.LstdFlags))
		log.Println("⚠️ LEDGER_BROKERS not set, ledger events are only logged")
	}

	// Metrics registry
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Carbon Registry API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	ledgerSync := routes.Setup(app, routes.Deps{
		DB:       db,
		Config:   cfg,
		Policy:   policy,
		Ledger:   programmeLedger,
		Registry: registry,
		Checks:   checks,
	})

	if err := ledgerSync.Start(); err != nil {
		log.Fatalf("❌ Failed to start ledger sync: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
		return app.Listen(":" + cfg.Port)
	})
	g.Go(func() error {
		<-gctx.Done()

		// Graceful shutdown
		log.Println("🛑 Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := app.ShutdownWithContext(shutdownCtx)
		ledgerSync.Stop()
		return err
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("❌ Server stopped with error: %v", err)
		return
	}
	log.Println("✅ Server stopped gracefully")
}
