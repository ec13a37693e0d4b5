package oddsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cypherlabdev/odds-insight-service/internal/models"
)

const (
	defaultBaseURL = "https://api.the-odds-api.com"
	apiVersion     = "v4"
	defaultTimeout = 10 * time.Second
	maxRetries     = 3
	retryDelay     = 2 * time.Second
)

// ProviderName identifies quotes sourced from this client
const ProviderName = "the-odds-api"

// RateLimits tracks the provider quota reported via response headers
type RateLimits struct {
	RequestsRemaining int
	RequestsUsed      int
}

// Sport is one entry from the provider's sport catalog
type Sport struct {
	Key    string `json:"key"`
	Group  string `json:"group"`
	Title  string `json:"title"`
	Active bool   `json:"active"`
}

// Config holds The Odds API client configuration
type Config struct {
	APIKey     string
	BaseURL    string // override for tests
	Regions    string
	Markets    string
	OddsFormat string
	Timeout    time.Duration
}

// Client fetches events and bookmaker odds from The Odds API
type Client struct {
	config     Config
	httpClient *http.Client
	logger     zerolog.Logger

	mu         sync.RWMutex
	rateLimits RateLimits
}

// NewClient creates a new The Odds API client
func NewClient(config Config, logger zerolog.Logger) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	if config.OddsFormat == "" {
		config.OddsFormat = "decimal"
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger.With().Str("component", "oddsapi_client").Logger(),
	}
}

// FetchOdds retrieves featured market odds for one sport key.
// "upcoming" is accepted as a cross-sport pseudo key.
func (c *Client) FetchOdds(ctx context.Context, sportKey string) ([]models.RawProviderEvent, error) {
	endpoint := fmt.Sprintf("%s/%s/sports/%s/odds", c.config.BaseURL, apiVersion, sportKey)

	params := url.Values{}
	params.Set("apiKey", c.config.APIKey)
	params.Set("regions", c.config.Regions)
	params.Set("markets", c.config.Markets)
	params.Set("oddsFormat", c.config.OddsFormat)
	params.Set("dateFormat", "iso")

	fullURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	body, err := c.doRequestWithRetry(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("fetch odds failed: %w", err)
	}

	var apiResp []oddsResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parse odds response: %w", err)
	}

	events := c.parseOddsResponse(apiResp, time.Now().UTC())

	c.logger.Debug().
		Str("sport_key", sportKey).
		Int("events", len(events)).
		Msg("fetched provider odds")

	return events, nil
}

// FetchSports retrieves the provider's sport catalog
func (c *Client) FetchSports(ctx context.Context) ([]Sport, error) {
	endpoint := fmt.Sprintf("%s/%s/sports", c.config.BaseURL, apiVersion)

	params := url.Values{}
	params.Set("apiKey", c.config.APIKey)

	fullURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	body, err := c.doRequestWithRetry(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("fetch sports failed: %w", err)
	}

	var sports []Sport
	if err := json.Unmarshal(body, &sports); err != nil {
		return nil, fmt.Errorf("parse sports response: %w", err)
	}

	return sports, nil
}

// ResolveSportKeys expands configured sport keys against the provider
// catalog. Exact keys and "upcoming" pass through; anything else is treated
// as a group alias and matched against active sport key prefixes, so
// "tennis" expands to every active tennis_* key.
func (c *Client) ResolveSportKeys(ctx context.Context, configured []string) ([]string, error) {
	var needCatalog bool
	for _, key := range configured {
		if key != "upcoming" && !strings.Contains(key, "_") {
			needCatalog = true
			break
		}
	}

	if !needCatalog {
		return configured, nil
	}

	sports, err := c.FetchSports(ctx)
	if err != nil {
		return nil, err
	}

	var resolved []string
	seen := make(map[string]bool)
	add := func(key string) {
		if !seen[key] {
			seen[key] = true
			resolved = append(resolved, key)
		}
	}

	for _, key := range configured {
		if key == "upcoming" || strings.Contains(key, "_") {
			add(key)
			continue
		}
		alias := strings.ToLower(key)
		matched := false
		for _, sport := range sports {
			if !sport.Active {
				continue
			}
			if strings.HasPrefix(sport.Key, alias+"_") || strings.EqualFold(sport.Group, key) {
				add(sport.Key)
				matched = true
			}
		}
		if !matched {
			c.logger.Warn().Str("alias", key).Msg("sport alias matched no active sports")
		}
	}

	return resolved, nil
}

// GetRateLimits returns the quota last reported by the provider
func (c *Client) GetRateLimits() RateLimits {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rateLimits
}

// doRequestWithRetry performs HTTP request with retry logic
func (c *Client) doRequestWithRetry(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff
			backoff := retryDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		body, err := c.doRequest(ctx, fullURL)
		if err == nil {
			return body, nil
		}

		lastErr = err

		// Don't retry on client errors (4xx except 429)
		if httpErr, ok := err.(*httpError); ok {
			if httpErr.StatusCode >= 400 && httpErr.StatusCode < 500 && httpErr.StatusCode != 429 {
				return nil, err
			}
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// doRequest performs a single HTTP request
func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	// Update rate limits from headers
	c.updateRateLimits(resp.Header)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &httpError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	}

	return body, nil
}

// updateRateLimits extracts rate limit info from response headers
func (c *Client) updateRateLimits(headers http.Header) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if remaining := headers.Get("x-requests-remaining"); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			c.rateLimits.RequestsRemaining = val
		}
	}

	if used := headers.Get("x-requests-used"); used != "" {
		if val, err := strconv.Atoi(used); err == nil {
			c.rateLimits.RequestsUsed = val
		}
	}
}

// parseOddsResponse converts the wire response into raw provider events
func (c *Client) parseOddsResponse(apiResp []oddsResponse, receivedAt time.Time) []models.RawProviderEvent {
	events := make([]models.RawProviderEvent, 0, len(apiResp))

	for _, ev := range apiResp {
		commenceTime, err := time.Parse(time.RFC3339, ev.CommenceTime)
		if err != nil {
			commenceTime = receivedAt
		}

		raw := models.RawProviderEvent{
			ID:           ev.ID,
			SportKey:     ev.SportKey,
			CommenceTime: commenceTime,
			HomeTeam:     ev.HomeTeam,
			AwayTeam:     ev.AwayTeam,
		}

		for _, bm := range ev.Bookmakers {
			rawBM := models.RawBookmaker{
				Key:   bm.Key,
				Title: bm.Title,
			}
			for _, market := range bm.Markets {
				rawMarket := models.RawMarket{Key: market.Key}
				for _, outcome := range market.Outcomes {
					rawMarket.Outcomes = append(rawMarket.Outcomes, models.RawOutcome{
						Name:  outcome.Name,
						Price: outcome.Price,
						Point: outcome.Point,
					})
				}
				rawBM.Markets = append(rawBM.Markets, rawMarket)
			}
			raw.Bookmakers = append(raw.Bookmakers, rawBM)
		}

		events = append(events, raw)
	}

	return events
}

// httpError carries the status code so retry logic can tell client errors apart
type httpError struct {
	StatusCode int
	Message    string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// oddsResponse mirrors The Odds API odds endpoint wire format
type oddsResponse struct {
	ID           string `json:"id"`
	SportKey     string `json:"sport_key"`
	CommenceTime string `json:"commence_time"`
	HomeTeam     string `json:"home_team"`
	AwayTeam     string `json:"away_team"`
	Bookmakers   []struct {
		Key        string `json:"key"`
		Title      string `json:"title"`
		LastUpdate string `json:"last_update"`
		Markets    []struct {
			Key      string `json:"key"`
			Outcomes []struct {
				Name  string   `json:"name"`
				Price float64  `json:"price"`
				Point *float64 `json:"point"`
			} `json:"outcomes"`
		} `json:"markets"`
	} `json:"bookmakers"`
}
