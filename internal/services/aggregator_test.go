package services

import (
	"errors"
	"testing"
	"time"

	"cardstatx/internal/store"
)

type fakeListingSource struct {
	points map[string][]store.PricePoint
	err    error
}

func (f *fakeListingSource) ListingsForCard(cardID string) ([]store.PricePoint, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.points[cardID], nil
}

func fixedAggregator(source ListingSource, now time.Time) *Aggregator {
	agg := NewAggregator(source)
	agg.now = func() time.Time { return now }
	return agg
}

func TestAveragesForNestedWindows(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	source := &fakeListingSource{points: map[string][]store.PricePoint{
		"card1": {
			{Price: 10, ListingDate: now.AddDate(0, 0, -2)},
			{Price: 20, ListingDate: now.AddDate(0, 0, -10)},
			{Price: 30, ListingDate: now.AddDate(0, 0, -200)},
		},
	}}

	averages, err := fixedAggregator(source, now).AveragesFor("card1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		window  string
		got     WindowStats
		average float64
		count   int
	}{
		{"week", averages.Week, 10.0, 1},
		{"month", averages.Month, 15.0, 2},
		{"year", averages.Year, 20.0, 3},
	}
	for _, tt := range tests {
		if tt.got.Average != tt.average || tt.got.Count != tt.count {
			t.Errorf("%s: got {%.2f, %d}, want {%.2f, %d}",
				tt.window, tt.got.Average, tt.got.Count, tt.average, tt.count)
		}
	}
}

func TestAveragesForRounding(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	source := &fakeListingSource{points: map[string][]store.PricePoint{
		"card1": {
			{Price: 10, ListingDate: now.AddDate(0, 0, -1)},
			{Price: 10, ListingDate: now.AddDate(0, 0, -2)},
			{Price: 11, ListingDate: now.AddDate(0, 0, -3)},
		},
	}}

	averages, err := fixedAggregator(source, now).AveragesFor("card1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 31/3 = 10.333... rounds to 10.33
	if averages.Week.Average != 10.33 {
		t.Errorf("week average: got %v, want 10.33", averages.Week.Average)
	}
}

func TestAveragesForZeroFilledWindow(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	source := &fakeListingSource{points: map[string][]store.PricePoint{
		"card1": {
			{Price: 50, ListingDate: now.AddDate(0, 0, -100)},
		},
	}}

	averages, err := fixedAggregator(source, now).AveragesFor("card1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if averages.Week.Average != 0 || averages.Week.Count != 0 {
		t.Errorf("week: got {%v, %d}, want zero-filled window",
			averages.Week.Average, averages.Week.Count)
	}
	if averages.Year.Count != 1 {
		t.Errorf("year count: got %d, want 1", averages.Year.Count)
	}
}

func TestAveragesForNoListingsIsNotFound(t *testing.T) {
	source := &fakeListingSource{points: map[string][]store.PricePoint{}}

	_, err := NewAggregator(source).AveragesFor("unknown")
	if !errors.Is(err, ErrCardNotFound) {
		t.Errorf("expected ErrCardNotFound, got %v", err)
	}
}

func TestAveragesForPropagatesStorageFailure(t *testing.T) {
	source := &fakeListingSource{err: errors.New("disk on fire")}

	_, err := NewAggregator(source).AveragesFor("card1")
	if err == nil || errors.Is(err, ErrCardNotFound) {
		t.Errorf("expected a storage error, got %v", err)
	}
}
