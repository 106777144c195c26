package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"cardstatx/internal/store"
)

// ErrCardNotFound is returned when a card has no recorded listings.
// A card that was never tracked and a tracked card with zero listings
// are deliberately indistinguishable here.
var ErrCardNotFound = errors.New("card not found")

// WindowStats is the average price and sample count for one trailing
// window. Zero qualifying listings yield {0.0, 0}, a valid result.
type WindowStats struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Averages holds the trailing-window statistics for one card. The
// windows are nested: a listing inside the week also counts toward the
// month and the year.
type Averages struct {
	Week  WindowStats `json:"week"`
	Month WindowStats `json:"month"`
	Year  WindowStats `json:"year"`
}

// ListingSource is the read path the aggregator needs from the store.
type ListingSource interface {
	ListingsForCard(cardID string) ([]store.PricePoint, error)
}

// Aggregator computes per-card price averages over trailing windows.
// It is stateless: every call derives everything fresh from the store.
type Aggregator struct {
	source ListingSource
	now    func() time.Time
}

func NewAggregator(source ListingSource) *Aggregator {
	return &Aggregator{source: source, now: time.Now}
}

// AveragesFor computes the week/month/year averages for one card from
// its listing dates, measured against the current time. Averages are
// rounded to 2 decimal places.
func (a *Aggregator) AveragesFor(cardID string) (*Averages, error) {
	points, err := a.source.ListingsForCard(cardID)
	if err != nil {
		return nil, fmt.Errorf("averages for card %s: %w", cardID, err)
	}
	if len(points) == 0 {
		return nil, ErrCardNotFound
	}

	now := a.now().UTC()
	cutoffWeek := now.AddDate(0, 0, -7)
	cutoffMonth := now.AddDate(0, 0, -30)
	cutoffYear := now.AddDate(0, 0, -365)

	var sums [3]float64
	var counts [3]int
	cutoffs := [3]time.Time{cutoffWeek, cutoffMonth, cutoffYear}

	for _, p := range points {
		for i, cutoff := range cutoffs {
			if !p.ListingDate.Before(cutoff) {
				sums[i] += p.Price
				counts[i]++
			}
		}
	}

	return &Averages{
		Week:  windowStats(sums[0], counts[0]),
		Month: windowStats(sums[1], counts[1]),
		Year:  windowStats(sums[2], counts[2]),
	}, nil
}

func windowStats(sum float64, count int) WindowStats {
	if count == 0 {
		return WindowStats{}
	}
	return WindowStats{
		Average: math.Round(sum/float64(count)*100) / 100,
		Count:   count,
	}
}
