package store

import (
	"fmt"
	"log"
	"time"

	"cardstatx/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReferenceCurrency is the only currency accepted into the store; the
// result filter enforces this upstream.
const ReferenceCurrency = "USD"

// PricePoint is one listing row projected down to what aggregation needs.
type PricePoint struct {
	Price       float64   `json:"price"`
	ListingDate time.Time `json:"listing_date"`
}

// Store owns all durable state: tracked cards and their listings.
// Every operation catches storage errors at its own boundary and logs
// them, so one failed write never aborts a surrounding batch.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// UpsertCard inserts or replaces the card with the given id, refreshing
// updated_at either way.
func (s *Store) UpsertCard(id, name string) error {
	card := models.Card{ID: id, Name: name, UpdatedAt: time.Now().UTC()}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
	}).Create(&card).Error
	if err != nil {
		log.Printf("[store] error upserting card %s: %v", id, err)
		return fmt.Errorf("upsert card %s: %w", id, err)
	}
	return nil
}

// UpsertListing inserts or replaces the listing with the given id. The
// card foreign key is advisory: the ingestion pipeline guarantees the
// card was upserted first.
func (s *Store) UpsertListing(listing *models.Listing) error {
	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"card_id", "title", "condition_text", "price", "currency", "listing_date",
		}),
	}).Create(listing).Error
	if err != nil {
		log.Printf("[store] error upserting listing %s: %v", listing.ID, err)
		return fmt.Errorf("upsert listing %s: %w", listing.ID, err)
	}
	return nil
}

// ListCards returns a snapshot of all tracked cards as {id: name}.
func (s *Store) ListCards() (map[string]string, error) {
	var cards []models.Card
	if err := s.db.Select("id", "name").Find(&cards).Error; err != nil {
		log.Printf("[store] error listing cards: %v", err)
		return nil, fmt.Errorf("list cards: %w", err)
	}

	out := make(map[string]string, len(cards))
	for _, c := range cards {
		out[c.ID] = c.Name
	}
	return out, nil
}

// ListingsForCard returns the card's reference-currency price points,
// newest first. A card with no listings yields an empty slice, not an
// error.
func (s *Store) ListingsForCard(cardID string) ([]PricePoint, error) {
	var points []PricePoint
	err := s.db.Model(&models.Listing{}).
		Select("price", "listing_date").
		Where("card_id = ? AND currency = ?", cardID, ReferenceCurrency).
		Order("listing_date desc").
		Scan(&points).Error
	if err != nil {
		log.Printf("[store] error loading listings for card %s: %v", cardID, err)
		return nil, fmt.Errorf("listings for card %s: %w", cardID, err)
	}
	return points, nil
}
