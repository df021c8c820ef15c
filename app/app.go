// File: app/app.go
package app

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"caltracker-api/config"
	"caltracker-api/db"
	"caltracker-api/handler"
	"caltracker-api/logger"
	"caltracker-api/repository"
	"caltracker-api/router"
	"caltracker-api/service"
)

// App is the fully wired application: the database handle and the HTTP
// handler serving every route.
type App struct {
	DB     *sql.DB
	Router http.Handler
}

// New wires repositories, services and handlers on top of database.
func New(cfg *config.Config, database *sql.DB) *App {
	// Repositories
	userRepo := repository.NewUserRepository(database)
	foodRepo := repository.NewFoodRepository(database)
	consumptionRepo := repository.NewConsumptionRepository(database)

	// Auth core
	hasher := service.NewArgon2Hasher(cfg.Argon2)
	tokens := service.NewTokenService(cfg.JWT, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL)
	guard := service.NewGuard(tokens, userRepo)

	// Services
	userService := service.NewUserService(userRepo, hasher, guard)
	authService := service.NewAuthService(userRepo, hasher, tokens)
	foodService := service.NewFoodService(foodRepo)
	consumptionService := service.NewConsumptionService(consumptionRepo, userRepo, foodRepo, guard)
	statsService := service.NewStatsService(consumptionRepo, foodRepo, guard)

	r := router.NewRouter(
		handler.NewUserHandler(userService),
		handler.NewAuthHandler(authService),
		handler.NewFoodHandler(foodService),
		handler.NewConsumptionHandler(consumptionService),
		handler.NewStatsHandler(statsService),
		handler.AuthMiddleware(guard),
		handler.NewLoginLimiter(cfg.RateLimit).Middleware,
	)

	return &App{DB: database, Router: r}
}

func Run() {
	logger.Init()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Error loading configuration: %v", err)
	}
	logger.Configure(cfg.Log.Level, cfg.Log.Format)
	logger.Log.Info("Configuration loaded successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(cfg.Database); err != nil {
		logger.Log.Fatalf("Error running migrations: %v", err)
	}

	application := New(cfg, database)

	// --- Start the Server with Graceful Shutdown ---
	port := cfg.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: application.Router,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		logger.Log.Fatalf("Failed to start server: %v", err)
	case <-ctx.Done():
	}

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}
