package ebay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultSearchURL = "https://api.ebay.com/buy/browse/v1/item_summary/search"

// CreationDateLayout is the timestamp format eBay uses for
// itemCreationDate (microsecond precision, UTC).
const CreationDateLayout = "2006-01-02T15:04:05.000000Z"

// Money is a price as returned by the Browse API.
type Money struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// ItemSummary is one raw search hit.
type ItemSummary struct {
	ItemID           string `json:"itemId"`
	Title            string `json:"title"`
	Price            Money  `json:"price"`
	Condition        string `json:"condition"`
	ConditionID      string `json:"conditionId"`
	ItemCreationDate string `json:"itemCreationDate"`
}

// SearchResult is the raw Browse API search payload. A result with
// Total == 0 is a successful empty result, not a failure.
type SearchResult struct {
	Total         int           `json:"total"`
	ItemSummaries []ItemSummary `json:"itemSummaries"`
}

// UpstreamError reports a non-success HTTP status from the marketplace.
type UpstreamError struct {
	Status int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("ebay search returned HTTP %d", e.Status)
}

type Config struct {
	OAuthToken    string
	MarketplaceID string
	CategoryID    string
	Limit         int
	Timeout       time.Duration
}

// Client performs single-attempt searches against the eBay Browse API.
// Retries and pacing are the orchestrator's concern, not the client's.
type Client struct {
	client    *resty.Client
	searchURL string
	cfg       Config
}

func NewClient(cfg Config) *Client {
	if cfg.Limit <= 0 {
		cfg.Limit = 200
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	client := resty.New()
	client.SetTimeout(cfg.Timeout)

	return &Client{
		client:    client,
		searchURL: defaultSearchURL,
		cfg:       cfg,
	}
}

// Search issues one GET for the given query term. Transport errors
// (network, timeout) are returned as-is; non-200 statuses come back as
// *UpstreamError.
func (c *Client) Search(ctx context.Context, query string) (*SearchResult, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":            query,
			"category_ids": c.cfg.CategoryID,
			"limit":        strconv.Itoa(c.cfg.Limit),
		}).
		SetHeader("X-EBAY-C-MARKETPLACE-ID", c.cfg.MarketplaceID).
		SetHeader("Authorization", "Bearer "+c.cfg.OAuthToken).
		Get(c.searchURL)
	if err != nil {
		return nil, fmt.Errorf("ebay search for %q: %w", query, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, &UpstreamError{Status: resp.StatusCode()}
	}

	var result SearchResult
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("decode ebay search response for %q: %w", query, err)
	}
	return &result, nil
}
