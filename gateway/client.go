// Package gateway is the client for the hosted-checkout payment provider.
// The portal never touches card details: it creates a session, redirects
// the user to the provider, and reads the session back when the user
// returns. Metadata is the only channel that survives the redirect
// round-trip and is revalidated against the authenticated user on return.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Session payment states reported by the provider
const (
	PaymentStatusPaid   = "paid"
	PaymentStatusUnpaid = "unpaid"
)

// Metadata keys carried through the redirect round-trip
const (
	MetaUserID   = "user_id"
	MetaOrbsUsed = "orbs_used"
	MetaPurpose  = "purpose"
)

// Session is a hosted checkout session.
type Session struct {
	ID            string            `json:"id"`
	RedirectURL   string            `json:"url"`
	PaymentStatus string            `json:"payment_status"`
	AmountMinor   int64             `json:"amount_total"` // minor currency units
	Currency      string            `json:"currency"`
	Metadata      map[string]string `json:"metadata"`
}

// CreateSessionParams describes the session to create.
type CreateSessionParams struct {
	AmountMinor int64             `json:"amount_total"`
	Currency    string            `json:"currency"`
	Description string            `json:"description"`
	SuccessURL  string            `json:"success_url"`
	CancelURL   string            `json:"cancel_url"`
	Metadata    map[string]string `json:"metadata"`
}

// Client is an HTTP client for the payment provider API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new payment gateway client
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// CreateSession creates a hosted checkout session and returns its id and
// redirect URL.
func (c *Client) CreateSession(ctx context.Context, params CreateSessionParams) (*Session, error) {
	if params.AmountMinor <= 0 {
		return nil, fmt.Errorf("session amount must be positive")
	}

	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session params: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build create-session request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	return c.doSession(req)
}

// RetrieveSession fetches a session's payment status and stored metadata.
func (c *Client) RetrieveSession(ctx context.Context, sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/checkout/sessions/"+sessionID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build retrieve-session request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	return c.doSession(req)
}

func (c *Client) doSession(req *http.Request) (*Session, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, payload)
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("failed to decode gateway session: %w", err)
	}
	if session.ID == "" {
		return nil, fmt.Errorf("gateway session has no id")
	}

	return &session, nil
}
