package bank

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"ledger-gateway/config"
	"ledger-gateway/internal/core/ports"
)

// Client talks to the external bank/acquirer API. It implements both
// ports.StatementSource and ports.TransferFeed. Every call is bounded by
// the configured timeout; callers must treat any error as "unknown", never
// as a clean result.
type Client struct {
	statementURL string
	transferURL  string
	apiKey       string
	httpClient   *http.Client
}

// NewClient creates a bank API client from config.
func NewClient(cfg config.BankConfig) *Client {
	return &Client{
		statementURL: cfg.StatementURL,
		transferURL:  cfg.TransferURL,
		apiKey:       cfg.APIKey,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
	}
}

// FetchStatement retrieves the per-account statement for one date.
func (c *Client) FetchStatement(ctx context.Context, dateKey string) ([]ports.StatementRow, error) {
	endpoint := c.statementURL + "?" + url.Values{"date": {dateKey}}.Encode()

	var rows []ports.StatementRow
	if err := c.getJSON(ctx, endpoint, &rows); err != nil {
		return nil, fmt.Errorf("fetch statement %s: %w", dateKey, err)
	}
	return rows, nil
}

// ListTransfers retrieves completed transfers in [since, until).
func (c *Client) ListTransfers(ctx context.Context, since, until time.Time) ([]ports.BankTransfer, error) {
	endpoint := c.transferURL + "?" + url.Values{
		"since": {since.UTC().Format(time.RFC3339)},
		"until": {until.UTC().Format(time.RFC3339)},
	}.Encode()

	var transfers []ports.BankTransfer
	if err := c.getJSON(ctx, endpoint, &transfers); err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	return transfers, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("bank api request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bank api status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode bank api response: %w", err)
	}
	return nil
}
