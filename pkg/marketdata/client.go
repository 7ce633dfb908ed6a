// Package marketdata is a thin client for an AKTools-style HTTP gateway
// exposing AKShare financial data endpoints. Every method maps one-to-one
// onto a gateway endpoint with no logic of its own.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Config holds client configuration.
type Config struct {
	// BaseURL of the gateway, e.g. http://127.0.0.1:8080.
	BaseURL string `json:"base_url" yaml:"base_url"`

	Timeout    time.Duration `json:"timeout" yaml:"timeout"`
	RetryCount int           `json:"retry_count" yaml:"retry_count"`
}

// DefaultConfig returns default client configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:    "http://127.0.0.1:8080",
		Timeout:    10 * time.Second,
		RetryCount: 2,
	}
}

// Client calls the market data gateway.
type Client struct {
	http *resty.Client
}

// New creates a new market data client.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultConfig().BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	client := resty.New()
	client.SetBaseURL(cfg.BaseURL)
	client.SetTimeout(cfg.Timeout)
	client.SetRetryCount(cfg.RetryCount)

	return &Client{http: client}
}

// fetch performs one gateway call and decodes the row array response.
func (c *Client) fetch(ctx context.Context, endpoint string, params map[string]string, out any) error {
	req := c.http.R().SetContext(ctx)
	if len(params) > 0 {
		req.SetQueryParams(params)
	}

	resp, err := req.Get("/api/public/" + endpoint)
	if err != nil {
		return fmt.Errorf("request %s: %w", endpoint, err)
	}
	if resp.IsError() {
		return fmt.Errorf("request %s: unexpected status %s", endpoint, resp.Status())
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}
