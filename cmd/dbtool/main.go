package main

import (
	"context"
	"database/sql"
	"flag"
	"itinerary-route-service/internal/adapters/cache"
	"itinerary-route-service/internal/adapters/repositories"
	"itinerary-route-service/internal/config"
	"itinerary-route-service/internal/platform/db"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	seed := flag.Bool("seed", true, "seed places from PLACES_SEED_PATH")
	purge := flag.Bool("purge-cache", false, "delete expired route leg cache rows")
	flag.Parse()

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	seedPath := config.Get("PLACES_SEED_PATH", "data/seeds/places.json")
	if err := initAndSeed(db, seedPath, *seed); err != nil {
		log.Fatal(err)
	}

	if *purge {
		n, err := cache.NewSQLLegCache(db).PurgeExpired(context.Background())
		if err != nil {
			log.Fatalf("purge failed: %v", err)
		}
		log.Printf("Purged expired cache rows=%d", n)
	}
}

func initAndSeed(db *sql.DB, seedPath string, seed bool) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(db); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	if !seed {
		return nil
	}

	log.Printf("Seeding places from %s...", seedPath)
	n, err := repositories.SeedPlacesFromJSON(db, seedPath)
	if err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Printf("Seeding complete. places=%d", n)

	return nil
}
