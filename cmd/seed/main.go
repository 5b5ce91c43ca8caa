package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/SamuelMasih777/micro-feed/internal/auth"
	"github.com/SamuelMasih777/micro-feed/internal/config"
	"github.com/SamuelMasih777/micro-feed/internal/database"
	"github.com/SamuelMasih777/micro-feed/internal/logger"
	"github.com/SamuelMasih777/micro-feed/internal/seed"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	command := "dev"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "dev":
		seedDev()
	case "test":
		seedTest()
	case "clean":
		cleanSeed()
	case "tokens":
		printTokens()
	default:
		fmt.Println("Usage: seed [dev|test|clean|tokens]")
		fmt.Println("  dev    - Seed development database with realistic data")
		fmt.Println("  test   - Seed test database with minimal data")
		fmt.Println("  clean  - Remove all seed data (use with caution)")
		fmt.Println("  tokens - Print dev bearer tokens for the seeded profiles")
		os.Exit(1)
	}
}

func setup() *seed.Seeder {
	if err := logger.Initialize("info", "seed.log"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	if err := database.Initialize(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	return seed.NewSeeder(database.DB)
}

func seedDev() {
	log.Println("Seeding development database...")
	seeder := setup()
	defer database.Close()

	if err := seeder.SeedDev(); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Println("Development database seeded")
}

func seedTest() {
	log.Println("Seeding test database...")
	seeder := setup()
	defer database.Close()

	if err := seeder.SeedTest(); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Println("Test database seeded")
}

func cleanSeed() {
	log.Println("Removing seed data...")
	seeder := setup()
	defer database.Close()

	if err := seeder.Clean(); err != nil {
		log.Fatalf("Clean failed: %v", err)
	}
	log.Println("Seed data removed")
}

// printTokens mints a 24h bearer token per seeded profile so the CLI can
// act as any of them against a local server.
func printTokens() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	seeder := setup()
	defer database.Close()

	profiles, err := seeder.Profiles()
	if err != nil {
		log.Fatalf("Failed to list profiles: %v", err)
	}

	authService := auth.NewService(cfg.JWTSecret)
	for _, profile := range profiles {
		token, err := authService.MintToken(auth.Identity{ID: profile.ID}, 24*time.Hour)
		if err != nil {
			log.Fatalf("Failed to mint token for %s: %v", profile.Username, err)
		}
		fmt.Printf("%s\t%s\n", profile.Username, token)
	}
}
