package oddsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Client talks to The Odds API v4. One client is shared by the scan and
// settlement workers so the rate limiter covers the whole request budget.
type Client struct {
	baseURL    string
	apiKey     string
	regions    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Config holds client settings; the API key comes from the environment.
type Config struct {
	BaseURL           string
	APIKey            string
	Regions           string
	TimeoutSeconds    int
	RequestsPerMinute int
}

// NewClient creates an Odds API client with a bounded timeout and a shared
// rate limiter.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("odds API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.the-odds-api.com"
	}
	if cfg.Regions == "" {
		cfg.Regions = "eu"
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 15
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 30
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		regions: cfg.Regions,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60), 1),
	}, nil
}

// FetchOdds returns the raw odds snapshot for one sport. The payload is left
// unparsed; the feed package owns normalization.
func (c *Client) FetchOdds(ctx context.Context, sport string, markets []string) ([]byte, error) {
	q := url.Values{}
	q.Set("apiKey", c.apiKey)
	q.Set("regions", c.regions)
	q.Set("markets", strings.Join(markets, ","))
	q.Set("oddsFormat", "decimal")

	endpoint := fmt.Sprintf("%s/v4/sports/%s/odds/?%s", c.baseURL, sport, q.Encode())
	return c.get(ctx, "fetch odds", endpoint)
}

// FetchScores returns completed and in-progress games for one sport within
// the lookback window.
func (c *Client) FetchScores(ctx context.Context, sport string, daysFrom int) ([]Score, error) {
	q := url.Values{}
	q.Set("apiKey", c.apiKey)
	q.Set("daysFrom", fmt.Sprintf("%d", daysFrom))

	endpoint := fmt.Sprintf("%s/v4/sports/%s/scores/?%s", c.baseURL, sport, q.Encode())
	body, err := c.get(ctx, "fetch scores", endpoint)
	if err != nil {
		return nil, err
	}

	var scores []Score
	if err := json.Unmarshal(body, &scores); err != nil {
		return nil, &MalformedDataError{Op: "fetch scores", Err: err}
	}
	return scores, nil
}

func (c *Client) get(ctx context.Context, op, endpoint string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("API returned %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	return body, nil
}
