// Package pricing resolves current game prices from the external
// game-deals API. Price lookups are best-effort: a timeout, a non-200
// response or an unknown title all resolve to a nil price, never to a
// caller-visible failure.
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// resolveTimeout bounds a single price lookup
const resolveTimeout = 5 * time.Second

// Price is the resolved price of a game.
type Price struct {
	Original        decimal.Decimal
	Final           decimal.Decimal
	DiscountPercent int
	Currency        string
}

// Client is an HTTP client for the game-deals API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new price resolver client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: resolveTimeout,
		},
	}
}

// dealResponse mirrors the deals API payload
type dealResponse struct {
	Title        string `json:"title"`
	NormalPrice  string `json:"normalPrice"`
	SalePrice    string `json:"salePrice"`
	Savings      string `json:"savings"`
	CurrencyCode string `json:"currencyCode"`
	IsOnSale     string `json:"isOnSale"`
}

// Resolve looks up the current price for a game by name. It returns nil
// when the price is unknown: lookup timeout, upstream error, or no match.
func (c *Client) Resolve(ctx context.Context, gameName string) (*Price, error) {
	reqURL := fmt.Sprintf("%s/deals?title=%s&pageSize=1", c.baseURL, url.QueryEscape(gameName))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build price request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Price unknown is not an error for callers
		log.WithFields(log.Fields{
			"game":  gameName,
			"error": err,
		}).Warn("Price lookup failed, treating price as unknown")
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.WithFields(log.Fields{
			"game":   gameName,
			"status": resp.StatusCode,
		}).Warn("Price API returned non-OK status, treating price as unknown")
		return nil, nil
	}

	var deals []dealResponse
	if err := json.NewDecoder(resp.Body).Decode(&deals); err != nil {
		log.WithFields(log.Fields{
			"game":  gameName,
			"error": err,
		}).Warn("Failed to decode price response, treating price as unknown")
		return nil, nil
	}

	if len(deals) == 0 {
		return nil, nil
	}

	deal := deals[0]
	original, err := decimal.NewFromString(deal.NormalPrice)
	if err != nil {
		return nil, nil
	}
	final, err := decimal.NewFromString(deal.SalePrice)
	if err != nil {
		return nil, nil
	}

	discount := 0
	if savings, err := decimal.NewFromString(deal.Savings); err == nil {
		discount = int(savings.Round(0).IntPart())
	}

	currency := deal.CurrencyCode
	if currency == "" {
		currency = "USD"
	}

	return &Price{
		Original:        original,
		Final:           final,
		DiscountPercent: discount,
		Currency:        currency,
	}, nil
}
