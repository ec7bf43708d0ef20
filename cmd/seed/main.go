package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	_ "github.com/lib/pq"

	"github.com/dd-app/accounts-api/internal/auth"
	"github.com/dd-app/accounts-api/internal/config"
	"github.com/dd-app/accounts-api/internal/database"
	"github.com/dd-app/accounts-api/internal/user"
)

// Seeds the users table with fake accounts for local development of the
// admin panel. Every account gets the same default password, hashed with
// the same cost the signup path uses.
func main() {
	count := flag.Int("count", 30, "number of fake accounts to create")
	password := flag.String("password", "123", "password assigned to every seeded account")
	flag.Parse()

	if err := run(*count, *password); err != nil {
		log.Fatalf("Seed error: %v", err)
	}
}

func run(count int, password string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	sqlDB, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	db := database.NewBunDB(sqlDB)
	repo := user.NewRepository(db)

	// Hash once; the salt makes it unique enough for seed data and saves
	// count-1 argon2 runs.
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash default password: %w", err)
	}

	ctx := context.Background()

	log.Println("Start seeding...")

	for i := 0; i < count; i++ {
		email := gofakeit.Email()
		name := gofakeit.Name()

		created, err := repo.Create(ctx, email, name, passwordHash)
		if err != nil {
			return fmt.Errorf("failed to create user %q: %w", email, err)
		}

		// Spread last-login times over the past ten days
		lastLogin := time.Now().Add(-time.Duration(gofakeit.Number(0, 10*24)) * time.Hour)
		if err := repo.UpdateLastLogin(ctx, created.ID, lastLogin); err != nil {
			return fmt.Errorf("failed to set last login for %q: %w", email, err)
		}

		log.Printf("Created user with id: %s", created.ID)
	}

	log.Println("Seeding finished.")
	return nil
}
