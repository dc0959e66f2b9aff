package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smarttrash-backend/internal/config"
	"smarttrash-backend/internal/database"
	"smarttrash-backend/internal/handlers"
	"smarttrash-backend/internal/metrics"
	"smarttrash-backend/internal/routing"
	"smarttrash-backend/internal/services"
	"smarttrash-backend/internal/websocket"
)

const bar = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

func fatal(what string, err error, hints ...string) {
	log.Println(bar)
	log.Printf("❌ FATAL ERROR: %s", what)
	log.Printf("   Error: %v", err)
	for _, h := range hints {
		log.Printf("   %s", h)
	}
	log.Println(bar)
	log.Fatal(err)
}

func main() {
	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("🚀 SMARTTRASH BACKEND SERVER STARTING")
	log.Println("═══════════════════════════════════════════════════════════════════")

	log.Println("📂 Loading environment variables...")
	if config.LoadDotEnv() {
		log.Println("✅ .env file loaded successfully")
	} else {
		log.Println("⚠️  Warning: .env file not found, using environment variables from system")
	}

	cfg, err := config.FromEnv()
	if err != nil {
		fatal("Invalid configuration", err, "Please check your environment variables or .env file")
	}
	if cfg.JWTSecret == "" {
		log.Println("⚠️  APP_JWT_SECRET not set: login and protected routes will fail")
	}

	log.Println("🔌 Connecting to database...")
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		fatal("Database connection failed", err,
			"This is usually caused by:",
			"1. Wrong DATABASE_URL format",
			"2. PostgreSQL service is down",
			"3. Invalid credentials")
	}
	defer db.Close()
	log.Println("✅ Database connection established")

	log.Println("🔄 Running database migrations...")
	if err := database.Migrate(db); err != nil {
		fatal("Database migrations failed", err)
	}
	log.Println("✅ Database migrations completed")

	log.Println("🌱 Seeding database with initial data...")
	if err := database.SeedUsers(db); err != nil {
		fatal("User seeding failed", err)
	}
	if err := database.SeedBins(db); err != nil {
		fatal("Bins seeding failed", err)
	}
	log.Println("✅ Database seeded")

	notifier := initNotifier(cfg)

	wsHub := websocket.NewHub()
	go wsHub.Run()
	log.Println("✅ WebSocket hub started")

	metrics.RegisterDefault()

	optimizer := routing.NewRouteOptimizer(routing.Options{
		Strategy:    cfg.RouteStrategy,
		MaxDistance: cfg.RouteMaxDistanceKm,
	})
	log.Printf("✅ Route optimizer ready (strategy %s)", optimizer.Strategy())

	router := handlers.NewRouter(handlers.RouterConfig{
		Store:               database.NewStore(db),
		Optimizer:           optimizer,
		Notifier:            notifier,
		Hub:                 wsHub,
		WebSocket:           websocket.HandleWebSocket(wsHub, cfg.JWTSecret),
		Metrics:             metrics.Handler(),
		JWTSecret:           cfg.JWTSecret,
		TelemetryRatePerSec: cfg.TelemetryRatePerSec,
		TelemetryBurst:      cfg.TelemetryBurst,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		log.Println("🛑 Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("⚠️  Graceful shutdown failed: %v", err)
		}
	}()

	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("✅ ALL INITIALIZATION COMPLETE")
	log.Printf("🚀 Server starting on http://localhost:%s", cfg.Port)
	log.Println("🔌 Ready to accept requests!")
	log.Println("═══════════════════════════════════════════════════════════════════")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fatal("Server failed to start", err, "Port: "+cfg.Port)
	}
	log.Println("👋 Server stopped")
}

// initNotifier prefers base64 credentials (cloud deployments) and falls back
// to a credentials file. Push notifications are disabled when neither works.
func initNotifier(cfg *config.Config) *services.Notifier {
	ctx := context.Background()

	if cfg.FirebaseCredentialsBase64 != "" {
		n, err := services.NewNotifierFromBase64(ctx, cfg.FirebaseCredentialsBase64, cfg.FCMTopic, cfg.TrashFullThreshold)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM from base64: %v (push notifications disabled)", err)
			return nil
		}
		log.Println("✅ Firebase Cloud Messaging initialized from base64 credentials")
		return n
	}

	n, err := services.NewNotifierFromFile(ctx, cfg.FirebaseCredentialsFile, cfg.FCMTopic, cfg.TrashFullThreshold)
	if err != nil {
		log.Printf("⚠️  Failed to initialize FCM from file: %v (push notifications disabled)", err)
		return nil
	}
	log.Println("✅ Firebase Cloud Messaging initialized from file")
	return n
}
