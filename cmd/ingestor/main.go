package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"cardstatx/internal/config"
	"cardstatx/internal/database"
	"cardstatx/internal/services"
	"cardstatx/internal/services/ebay"
	"cardstatx/internal/store"

	"github.com/joho/godotenv"
)

var (
	interval = flag.Duration("interval", 0, "time between ingestion passes (overrides INGEST_INTERVAL_MINUTES)")
	once     = flag.Bool("once", false, "run a single pass and exit")
)

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	st := store.New(db)
	client := ebay.NewClient(ebay.Config{
		OAuthToken:    cfg.EbayOAuthToken,
		MarketplaceID: cfg.EbayMarketplaceID,
		CategoryID:    cfg.EbayCategoryID,
		Limit:         cfg.SearchLimit,
		Timeout:       cfg.HTTPTimeout,
	})
	ingestor := services.NewIngestor(st, client, cfg.RequestsPerSecond)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runPass(ctx, ingestor, cfg.MaxConcurrency)
	if *once {
		return
	}

	tick := cfg.IngestInterval
	if *interval > 0 {
		tick = *interval
	}
	log.Printf("[ingestor] running a pass every %v", tick)

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[ingestor] shutdown signal received, exiting")
			return
		case <-ticker.C:
			runPass(ctx, ingestor, cfg.MaxConcurrency)
		}
	}
}

func runPass(ctx context.Context, ingestor *services.Ingestor, maxConcurrency int) {
	start := time.Now()
	total, err := ingestor.RunPass(ctx, maxConcurrency)
	if err != nil {
		log.Printf("[ingestor] pass ended early after %v (%d listings added): %v",
			time.Since(start).Round(time.Second), total, err)
		return
	}
	log.Printf("[ingestor] pass finished in %v (%d listings added)",
		time.Since(start).Round(time.Second), total)
}
