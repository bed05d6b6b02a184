package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/devgate/monetize/internal/config"
	ierr "github.com/devgate/monetize/internal/errors"
	"github.com/devgate/monetize/internal/logger"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/shopspring/decimal"
)

// Client is the HTTP implementation of BalanceService. Retries and
// timeouts are the client's responsibility; callers treat Credit and Get
// as single blocking operations.
type Client struct {
	baseURL string
	apiKey  string
	http    *retryablehttp.Client
	logger  *logger.Logger
}

// NewClient creates a billing backend client from configuration
func NewClient(cfg *config.Configuration, log *logger.Logger) BalanceService {
	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.Billing.RetryMax
	rc.HTTPClient.Timeout = time.Duration(cfg.Billing.TimeoutSeconds) * time.Second
	rc.Logger = nil

	return &Client{
		baseURL: cfg.Billing.BaseURL,
		apiKey:  cfg.Billing.APIKey,
		http:    rc,
		logger:  log,
	}
}

type creditRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

type balanceResponse struct {
	DeveloperID  string          `json:"developer_id"`
	Currency     string          `json:"currency"`
	Amount       decimal.Decimal `json:"amount"`
	Topups       decimal.Decimal `json:"topups"`
	CurrentUsage decimal.Decimal `json:"current_usage"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Credit adds funds to the developer's prepaid balance for the currency
func (c *Client) Credit(ctx context.Context, developerID string, amount decimal.Decimal, currency string) (*Balance, error) {
	body, err := json.Marshal(creditRequest{
		Amount:   amount,
		Currency: currency,
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to encode balance credit request").
			Mark(ierr.ErrSystem)
	}

	url := fmt.Sprintf("%s/v1/developers/%s/balances", c.baseURL, developerID)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to build balance credit request").
			Mark(ierr.ErrSystem)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Billing backend is unreachable").
			Mark(ierr.ErrHTTPClient)
	}
	defer resp.Body.Close()

	return c.decodeBalance(resp)
}

// Get returns the developer's prepaid balance for the currency
func (c *Client) Get(ctx context.Context, developerID string, currency string) (*Balance, error) {
	url := fmt.Sprintf("%s/v1/developers/%s/balances/%s", c.baseURL, developerID, currency)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to build balance lookup request").
			Mark(ierr.ErrSystem)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Billing backend is unreachable").
			Mark(ierr.ErrHTTPClient)
	}
	defer resp.Body.Close()

	return c.decodeBalance(resp)
}

func (c *Client) setHeaders(req *retryablehttp.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
}

func (c *Client) decodeBalance(resp *http.Response) (*Balance, error) {
	if resp.StatusCode == http.StatusNotFound {
		return nil, ierr.NewError("balance not found").
			WithHint("No prepaid balance exists for this developer and currency").
			Mark(ierr.ErrNotFound)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, ierr.NewError(fmt.Sprintf("billing backend returned status %d", resp.StatusCode)).
			WithHint("Billing backend rejected the request").
			WithReportableDetails(map[string]any{
				"status": resp.StatusCode,
			}).
			Mark(ierr.ErrHTTPClient)
	}

	var out balanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to decode billing backend response").
			Mark(ierr.ErrHTTPClient)
	}

	return &Balance{
		DeveloperID:  out.DeveloperID,
		Currency:     out.Currency,
		Amount:       out.Amount,
		Topups:       out.Topups,
		CurrentUsage: out.CurrentUsage,
		UpdatedAt:    out.UpdatedAt,
	}, nil
}
