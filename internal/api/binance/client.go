package binance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	httpClient "github.com/Alias1177/riskscan/internal/platform/http"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Market selects the Binance REST API family
type Market string

const (
	Spot    Market = "spot"
	Futures Market = "futures"
)

const (
	SpotBaseURL    = "https://api.binance.com"
	FuturesBaseURL = "https://fapi.binance.com"
)

// ParseMarket accepts "spot" and "futures" (or "fapi", "usdm")
func ParseMarket(s string) (Market, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "spot", "":
		return Spot, nil
	case "futures", "fapi", "usdm":
		return Futures, nil
	}
	return "", fmt.Errorf("unknown market %q", s)
}

func (m Market) baseURL() string {
	if m == Futures {
		return FuturesBaseURL
	}
	return SpotBaseURL
}

func (m Market) pathPrefix() string {
	if m == Futures {
		return "/fapi/v1"
	}
	return "/api/v3"
}

// DefaultFilter returns the symbol selection used for each market:
// USDT pairs in TRADING status on spot (first 20), PERPETUAL contracts on futures (first 90).
func (m Market) DefaultFilter() SymbolFilter {
	if m == Futures {
		return SymbolFilter{ContractType: "PERPETUAL", Limit: 90}
	}
	return SymbolFilter{QuoteAsset: "USDT", Status: "TRADING", Limit: 20}
}

// DefaultKlineLimit is the candle count fetched for charts
func (m Market) DefaultKlineLimit() int {
	if m == Futures {
		return 300
	}
	return 100
}

// Client is the Binance public market data client
type Client struct {
	market     Market
	baseURL    string
	apiKey     string
	httpClient *httpClient.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new Binance client
type ClientOptions struct {
	Market          Market
	BaseURL         string // overrides the market default, used by tests
	APIKey          string // optional, sent as X-MBX-APIKEY
	RequestTimeout  time.Duration
	RequestsPerSec  int
	MaxRetries      int
	MaxRetryTimeout time.Duration
	InitialInterval time.Duration
}

// NewClient creates a new Binance API client
func NewClient(options ClientOptions) *Client {
	if options.Market == "" {
		options.Market = Spot
	}
	baseURL := options.BaseURL
	if baseURL == "" {
		baseURL = options.Market.baseURL()
	}

	httpOpts := httpClient.ClientOptions{
		Timeout:         options.RequestTimeout,
		RequestsPerSec:  options.RequestsPerSec,
		MaxRetries:      options.MaxRetries,
		MaxRetryTimeout: options.MaxRetryTimeout,
		InitialInterval: options.InitialInterval,
	}

	return &Client{
		market:     options.Market,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     options.APIKey,
		httpClient: httpClient.NewClient(httpOpts),
		logger:     log.With().Str("component", "binance_client").Str("market", string(options.Market)).Logger(),
	}
}

// Market returns the API family this client talks to
func (c *Client) Market() Market {
	return c.market
}

// APIError is the {"code":..,"msg":..} body Binance returns on failure
type APIError struct {
	HTTPStatus int    `json:"-"`
	Code       int    `json:"code"`
	Msg        string `json:"msg"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("binance error %d: %s", e.Code, e.Msg)
}

// get issues a GET to endpoint and decodes the JSON body into v
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, v interface{}) error {
	u := c.baseURL + c.market.pathPrefix() + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	c.logger.Debug().Str("url", u).Msg("Fetching")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-MBX-APIKEY", c.apiKey)
	}

	resp, err := c.httpClient.DoRequest(ctx, req)
	if err != nil {
		var statusErr *httpClient.HTTPStatusError
		if errors.As(err, &statusErr) {
			apiErr := &APIError{HTTPStatus: statusErr.StatusCode}
			if jsonErr := json.Unmarshal([]byte(statusErr.Body), apiErr); jsonErr == nil && apiErr.Msg != "" {
				c.logger.Error().Int("code", apiErr.Code).Str("msg", apiErr.Msg).Msg("Binance API error")
				return fmt.Errorf("%s: %w", endpoint, apiErr)
			}
		}
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if err := json.Unmarshal(body, v); err != nil {
		c.logger.Error().Err(err).Str("response", truncate(string(body), 512)).Msg("Error parsing JSON")
		return fmt.Errorf("parsing JSON: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
