package advantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultHost    = "sportsbook-api2.p.rapidapi.com"
	defaultTimeout = 10 * time.Second
)

// Config holds the RapidAPI advantage feed configuration
type Config struct {
	Host    string
	APIKey  string
	BaseURL string // override for tests, defaults to https://{Host}
	Timeout time.Duration
}

// Client fetches pre-computed arbitrage advantages from the third-party
// feed. The payload shape varies between feed versions, so responses are
// decoded untyped and interpreted downstream.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new advantage feed client
func NewClient(config Config, logger zerolog.Logger) *Client {
	if config.Host == "" {
		config.Host = defaultHost
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://" + config.Host
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger.With().Str("component", "advantage_client").Logger(),
	}
}

// FetchAdvantages retrieves the current arbitrage advantage document
func (c *Client) FetchAdvantages(ctx context.Context) (any, error) {
	fullURL := fmt.Sprintf("%s/v0/advantages/?type=ARBITRAGE", c.config.BaseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("x-rapidapi-host", c.config.Host)
	req.Header.Set("x-rapidapi-key", c.config.APIKey)
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("advantage feed returned HTTP %d: %s", resp.StatusCode, string(body))
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parse advantage response: %w", err)
	}

	c.logger.Debug().Int("bytes", len(body)).Msg("fetched advantage feed")
	return doc, nil
}
