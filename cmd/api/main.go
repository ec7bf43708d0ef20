package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"

	_ "github.com/dd-app/accounts-api/docs" // Swagger docs (generated)
	"github.com/dd-app/accounts-api/internal/auth"
	"github.com/dd-app/accounts-api/internal/config"
	"github.com/dd-app/accounts-api/internal/database"
	httpServer "github.com/dd-app/accounts-api/internal/http"
	"github.com/dd-app/accounts-api/internal/logging"
	"github.com/dd-app/accounts-api/internal/user"
)

// @title           Accounts API
// @version         1.0
// @description     Account management backend: registration, cookie sessions, and a user admin panel.

// @host      localhost:8080
// @BasePath  /

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	// Initialize database connection
	db, err := initDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := user.NewRepository(db)

	// Initialize token service. A missing or wrong-length key is not fatal:
	// the service starts, and every issue/verify answers 500 until the key
	// is fixed.
	tokenService := auth.NewPasetoService(cfg.Session.Key, cfg.Session.TokenDuration)
	if !tokenService.Configured() {
		logger.Error("SESSION_KEY is missing or not 32 bytes; session endpoints will fail until it is set")
	}

	// Initialize auth service, handlers, and middleware
	authService := auth.NewService(userRepo, tokenService)
	authHandler := auth.NewHandler(
		authService,
		!cfg.Server.IsDevelopment(), // isProduction
		cfg.Session.CookieMaxAge,
	)
	authMiddleware := auth.NewMiddleware(tokenService, userRepo)
	userHandler := user.NewHandler(userRepo)

	// Initialize router
	router := httpServer.NewRouter(cfg, authHandler, authMiddleware, userHandler, logger)

	// Initialize HTTP server
	serverAddr := ":" + cfg.Server.Port
	server := httpServer.NewServer(
		serverAddr,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Printf("Received signal: %v", sig)

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// initDB initializes the database connection and returns a Bun DB instance
func initDB(cfg config.DatabaseConfig) (*bun.DB, error) {
	sqlDB, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify connection
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return database.NewBunDB(sqlDB), nil
}
