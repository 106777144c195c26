package services

import (
	"strconv"
	"strings"
	"time"

	"cardstatx/internal/services/ebay"
	"cardstatx/internal/store"
)

// baseVariantSuffix marks a standard/base card in eBay item ids
// ("v1|1234567890|0"); parallels and inserts carry other suffixes.
const baseVariantSuffix = "|0"

// CanonicalListing is one marketplace offer that survived filtering.
type CanonicalListing struct {
	ID          string
	Title       string
	Condition   string
	Price       float64
	ListingDate time.Time
}

// FilterListings reduces a raw search payload to canonical listings
// keyed by marketplace listing id. Each rule is a hard reject:
// non-base-variant item ids, non-USD prices, missing condition
// metadata, and malformed prices or creation dates all drop the item.
// Returns nil when the input had no items or nothing survived, so the
// caller can skip its persistence pass.
func FilterListings(result *ebay.SearchResult) map[string]CanonicalListing {
	if result == nil || result.Total == 0 {
		return nil
	}

	items := make(map[string]CanonicalListing)
	for _, item := range result.ItemSummaries {
		if !strings.HasSuffix(item.ItemID, baseVariantSuffix) {
			continue
		}
		if item.Price.Currency != store.ReferenceCurrency {
			continue
		}
		if item.Condition == "" || item.ConditionID == "" {
			continue
		}

		price, err := strconv.ParseFloat(item.Price.Value, 64)
		if err != nil || price < 0 {
			continue
		}

		listingDate, err := time.Parse(ebay.CreationDateLayout, item.ItemCreationDate)
		if err != nil {
			continue
		}

		items[item.ItemID] = CanonicalListing{
			ID:          item.ItemID,
			Title:       item.Title,
			Condition:   item.Condition + ":" + item.ConditionID,
			Price:       price,
			ListingDate: listingDate,
		}
	}

	if len(items) == 0 {
		return nil
	}
	return items
}
