package main

import (
	"log"

	"cardstatx/internal/config"
	"cardstatx/internal/database"
	"cardstatx/internal/services/catalog"
	"cardstatx/internal/store"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	syncer := catalog.NewSyncer(store.New(db))
	total, err := syncer.Sync()
	if err != nil {
		log.Fatalf("Catalog sync failed: %v", err)
	}
	log.Printf("Catalog sync complete - %d cards saved to database", total)
}
