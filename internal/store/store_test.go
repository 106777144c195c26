package store

import (
	"path/filepath"
	"testing"
	"time"

	"cardstatx/internal/database"
	"cardstatx/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Initialize(filepath.Join(t.TempDir(), "cards.db"))
	if err != nil {
		t.Fatalf("initialize database: %v", err)
	}
	return New(db)
}

func testListing(id, cardID string, price float64, listingDate time.Time) *models.Listing {
	return &models.Listing{
		ID:            id,
		CardID:        cardID,
		Title:         "1986 Topps Jerry Rice #161",
		ConditionText: "Used:3000",
		Price:         price,
		Currency:      ReferenceCurrency,
		ListingDate:   listingDate,
	}
}

func TestUpsertCardIdempotent(t *testing.T) {
	s := newTestStore(t)

	if err := s.UpsertCard("abc", "old name"); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	var before models.Card
	if err := s.db.First(&before, "id = ?", "abc").Error; err != nil {
		t.Fatalf("load card: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	if err := s.UpsertCard("abc", "new name"); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	var count int64
	s.db.Model(&models.Card{}).Count(&count)
	if count != 1 {
		t.Fatalf("card rows: got %d, want 1", count)
	}

	var after models.Card
	if err := s.db.First(&after, "id = ?", "abc").Error; err != nil {
		t.Fatalf("reload card: %v", err)
	}
	if after.Name != "new name" {
		t.Errorf("name: got %q, want %q", after.Name, "new name")
	}
	if !after.UpdatedAt.After(before.UpdatedAt) {
		t.Errorf("updated_at not refreshed: before %v, after %v", before.UpdatedAt, after.UpdatedAt)
	}
}

func TestUpsertListingIdempotent(t *testing.T) {
	s := newTestStore(t)
	date := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := s.UpsertListing(testListing("v1|1|0", "card1", 12.50, date)); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := s.UpsertListing(testListing("v1|1|0", "card1", 14.00, date)); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	var count int64
	s.db.Model(&models.Listing{}).Count(&count)
	if count != 1 {
		t.Fatalf("listing rows: got %d, want 1", count)
	}

	var got models.Listing
	if err := s.db.First(&got, "id = ?", "v1|1|0").Error; err != nil {
		t.Fatalf("load listing: %v", err)
	}
	if got.Price != 14.00 {
		t.Errorf("price after re-ingest: got %.2f, want 14.00", got.Price)
	}
}

func TestListCardsSnapshot(t *testing.T) {
	s := newTestStore(t)

	cards, err := s.ListCards()
	if err != nil {
		t.Fatalf("list on empty store: %v", err)
	}
	if len(cards) != 0 {
		t.Errorf("empty store should list 0 cards, got %d", len(cards))
	}

	s.UpsertCard("a", "card a")
	s.UpsertCard("b", "card b")

	cards, err = s.ListCards()
	if err != nil {
		t.Fatalf("list cards: %v", err)
	}
	if len(cards) != 2 || cards["a"] != "card a" || cards["b"] != "card b" {
		t.Errorf("unexpected snapshot: %v", cards)
	}
}

func TestListingsForCardNewestFirst(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	s.UpsertListing(testListing("v1|1|0", "card1", 10, base.AddDate(0, 0, -5)))
	s.UpsertListing(testListing("v1|2|0", "card1", 20, base))
	s.UpsertListing(testListing("v1|3|0", "other", 99, base))

	points, err := s.ListingsForCard("card1")
	if err != nil {
		t.Fatalf("listings for card: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("points: got %d, want 2", len(points))
	}
	if points[0].Price != 20 || points[1].Price != 10 {
		t.Errorf("expected newest first, got %+v", points)
	}
}

func TestListingsForCardEmptyIsNotError(t *testing.T) {
	s := newTestStore(t)

	points, err := s.ListingsForCard("missing")
	if err != nil {
		t.Fatalf("empty result should not be an error, got %v", err)
	}
	if len(points) != 0 {
		t.Errorf("points: got %d, want 0", len(points))
	}
}
