package services

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"cardstatx/internal/models"
	"cardstatx/internal/services/ebay"
	"cardstatx/internal/store"
)

// progressEvery bounds logging volume on large catalogs.
const progressEvery = 10

// Fetcher is the outbound marketplace search dependency.
type Fetcher interface {
	Search(ctx context.Context, query string) (*ebay.SearchResult, error)
}

// IngestStore is the slice of the listing store the ingestor needs.
type IngestStore interface {
	ListCards() (map[string]string, error)
	UpsertListing(listing *models.Listing) error
}

// Ingestor drives one pass over all tracked cards: fetch, filter,
// persist. It holds no state between passes; everything is derived from
// the store snapshot taken at pass start.
type Ingestor struct {
	store   IngestStore
	fetcher Fetcher
	pacer   *Pacer
}

func NewIngestor(st IngestStore, fetcher Fetcher, requestsPerSecond float64) *Ingestor {
	return &Ingestor{
		store:   st,
		fetcher: fetcher,
		pacer:   NewPacer(requestsPerSecond),
	}
}

type cardJob struct {
	id   string
	name string
}

// RunPass sweeps every tracked card once with at most maxConcurrency
// marketplace requests in flight, pacing each worker slot between
// requests. Per-card failures contribute zero and never halt the pass.
// Cancellation is cooperative: workers finish their in-flight card and
// stop picking up new ones. Returns the total listings persisted.
func (ing *Ingestor) RunPass(ctx context.Context, maxConcurrency int) (int, error) {
	if maxConcurrency <= 0 {
		maxConcurrency = 3
	}

	cards, err := ing.store.ListCards()
	if err != nil {
		return 0, err
	}
	if len(cards) == 0 {
		log.Println("[ingestor] no cards found, skipping pass")
		return 0, nil
	}

	log.Printf("[ingestor] starting pass over %d cards (concurrency %d)", len(cards), maxConcurrency)

	jobs := make(chan cardJob)
	var (
		total     atomic.Int64
		completed atomic.Int64
		wg        sync.WaitGroup
	)

	for i := 0; i < maxConcurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			var lastFetch time.Time
			for job := range jobs {
				if err := ing.pacer.Wait(ctx, lastFetch); err != nil {
					return
				}
				lastFetch = time.Now()

				total.Add(int64(ing.processCard(ctx, job)))

				if done := completed.Add(1); done%progressEvery == 0 {
					log.Printf("[ingestor] progress: %d/%d cards processed", done, len(cards))
				}
			}
		}()
	}

	for id, name := range cards {
		select {
		case <-ctx.Done():
			log.Println("[ingestor] pass cancelled, waiting for in-flight cards")
			close(jobs)
			wg.Wait()
			return int(total.Load()), ctx.Err()
		case jobs <- cardJob{id: id, name: name}:
		}
	}
	close(jobs)
	wg.Wait()

	log.Printf("[ingestor] pass complete - total %d listings added", total.Load())
	return int(total.Load()), nil
}

// processCard runs the fetch-filter-persist unit for one card and
// returns how many listings were persisted.
func (ing *Ingestor) processCard(ctx context.Context, job cardJob) int {
	result, err := ing.fetcher.Search(ctx, job.name)
	if err != nil {
		log.Printf("[ingestor] search failed for %q: %v", job.name, err)
		return 0
	}
	if result.Total == 0 {
		log.Printf("[ingestor] search for %q returned 0 results", job.name)
		return 0
	}

	filtered := FilterListings(result)
	if filtered == nil {
		return 0
	}

	added := 0
	for listingID, item := range filtered {
		listing := &models.Listing{
			ID:            listingID,
			CardID:        job.id,
			Title:         item.Title,
			ConditionText: item.Condition,
			Price:         item.Price,
			Currency:      store.ReferenceCurrency,
			ListingDate:   item.ListingDate,
		}
		if err := ing.store.UpsertListing(listing); err == nil {
			added++
		}
	}

	log.Printf("[ingestor] processed %s (%s) - added %d listings", job.name, job.id, added)
	return added
}
