package binance

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const spotExchangeInfo = `{
  "timezone": "UTC",
  "serverTime": 1565246363776,
  "symbols": [
    {"symbol": "ETHBTC", "status": "TRADING", "baseAsset": "ETH", "quoteAsset": "BTC"},
    {"symbol": "BTCUSDT", "status": "TRADING", "baseAsset": "BTC", "quoteAsset": "USDT"},
    {"symbol": "LUNAUSDT", "status": "BREAK", "baseAsset": "LUNA", "quoteAsset": "USDT"},
    {"symbol": "ETHUSDT", "status": "TRADING", "baseAsset": "ETH", "quoteAsset": "USDT"},
    {"symbol": "USDTTRY", "status": "TRADING", "baseAsset": "USDT", "quoteAsset": "TRY"},
    {"symbol": "BNBUSDT", "status": "TRADING", "baseAsset": "BNB", "quoteAsset": "USDT"}
  ]
}`

const futuresExchangeInfo = `{
  "symbols": [
    {"symbol": "BTCUSDT", "status": "TRADING", "contractType": "PERPETUAL"},
    {"symbol": "BTCUSDT_250328", "status": "TRADING", "contractType": "CURRENT_QUARTER"},
    {"symbol": "ETHUSDT", "status": "TRADING", "contractType": "PERPETUAL"}
  ]
}`

const klinesBody = `[
  [1700000000000,"100.0","110.0","95.0","105.0","12.5",1700003599999,"1300.0",42,"6.0","630.0","0"],
  [1700003600000,"105.0","108.0","101.0","102.0","8.25",1700007199999,"850.0",31,"4.0","410.0","0"]
]`

func newTestClient(t *testing.T, market Market, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientOptions{
		Market:          market,
		BaseURL:         server.URL,
		APIKey:          "test-key",
		RequestTimeout:  2 * time.Second,
		RequestsPerSec:  1000,
		MaxRetries:      1,
		MaxRetryTimeout: time.Second,
		InitialInterval: time.Millisecond,
	})
}

func TestNewClient(t *testing.T) {
	t.Run("spot defaults", func(t *testing.T) {
		c := NewClient(ClientOptions{})
		assert.Equal(t, Spot, c.Market())
		assert.Equal(t, SpotBaseURL, c.baseURL)
	})

	t.Run("futures", func(t *testing.T) {
		c := NewClient(ClientOptions{Market: Futures})
		assert.Equal(t, FuturesBaseURL, c.baseURL)
	})
}

func TestParseMarket(t *testing.T) {
	m, err := ParseMarket("FUTURES")
	require.NoError(t, err)
	assert.Equal(t, Futures, m)

	m, err = ParseMarket("spot")
	require.NoError(t, err)
	assert.Equal(t, Spot, m)

	_, err = ParseMarket("options")
	assert.Error(t, err)
}

func TestListSymbols_Spot(t *testing.T) {
	c := newTestClient(t, Spot, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/exchangeInfo", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-MBX-APIKEY"))
		io.WriteString(w, spotExchangeInfo)
	})

	symbols, err := c.ListSymbols(context.Background(), Spot.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT", "USDTTRY", "BNBUSDT"}, symbols)
}

func TestListSymbols_Limit(t *testing.T) {
	c := newTestClient(t, Spot, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, spotExchangeInfo)
	})

	filter := Spot.DefaultFilter()
	filter.Limit = 2
	symbols, err := c.ListSymbols(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, symbols)
}

func TestListSymbols_FuturesPerpetualOnly(t *testing.T) {
	c := newTestClient(t, Futures, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fapi/v1/exchangeInfo", r.URL.Path)
		io.WriteString(w, futuresExchangeInfo)
	})

	symbols, err := c.ListSymbols(context.Background(), Futures.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, symbols)
}

func TestGetPrice(t *testing.T) {
	c := newTestClient(t, Futures, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fapi/v1/ticker/price", r.URL.Path)
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		io.WriteString(w, `{"symbol":"BTCUSDT","price":"64250.10","time":1700000000000}`)
	})

	quote, err := c.GetPrice(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT", quote.Symbol)
	assert.Equal(t, 64250.1, quote.Price)
}

func TestGetPrice_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantAPI bool
	}{
		{"api error", http.StatusBadRequest, `{"code":-1121,"msg":"Invalid symbol."}`, true},
		{"zero price", http.StatusOK, `{"symbol":"XUSDT","price":"0.00000000"}`, false},
		{"malformed body", http.StatusOK, `{"symbol":"XUSDT","price":`, false},
		{"server error", http.StatusInternalServerError, `oops`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, Spot, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			_, err := c.GetPrice(context.Background(), "XUSDT")
			require.Error(t, err)

			var apiErr *APIError
			assert.Equal(t, tt.wantAPI, errors.As(err, &apiErr))
			if tt.wantAPI {
				assert.Equal(t, -1121, apiErr.Code)
				assert.Equal(t, http.StatusBadRequest, apiErr.HTTPStatus)
			}
		})
	}
}

func TestGetPrices_ContinuesOnFailure(t *testing.T) {
	c := newTestClient(t, Spot, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("symbol") {
		case "BTCUSDT":
			io.WriteString(w, `{"symbol":"BTCUSDT","price":"100.0"}`)
		case "ETHUSDT":
			io.WriteString(w, `{"symbol":"ETHUSDT","price":"50.5"}`)
		default:
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"code":-1121,"msg":"Invalid symbol."}`)
		}
	})

	prices, failures := c.GetPrices(context.Background(), []string{"BTCUSDT", "BADUSDT", "ETHUSDT"})
	assert.Equal(t, map[string]float64{"BTCUSDT": 100, "ETHUSDT": 50.5}, prices)
	require.Len(t, failures, 1)
	assert.Equal(t, "BADUSDT", failures[0].Symbol)
	assert.Contains(t, failures[0].Error(), "BADUSDT")
}

func TestGetKlines(t *testing.T) {
	c := newTestClient(t, Spot, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/klines", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "BTCUSDT", q.Get("symbol"))
		assert.Equal(t, "1h", q.Get("interval"))
		assert.Equal(t, "100", q.Get("limit"))
		io.WriteString(w, klinesBody)
	})

	candles, err := c.GetKlines(context.Background(), "BTCUSDT", "1h", 100)
	require.NoError(t, err)
	require.Len(t, candles, 2)

	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), candles[0].OpenTime)
	assert.Equal(t, 100.0, candles[0].Open)
	assert.Equal(t, 110.0, candles[0].High)
	assert.Equal(t, 95.0, candles[0].Low)
	assert.Equal(t, 105.0, candles[0].Close)
	assert.Equal(t, 12.5, candles[0].Volume)
	assert.Equal(t, int64(31), candles[1].Trades)
}

func TestGetKlines_Empty(t *testing.T) {
	c := newTestClient(t, Futures, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	})

	_, err := c.GetKlines(context.Background(), "BTCUSDT", "1h", 300)
	assert.ErrorContains(t, err, "empty data")
}

func TestMarketDefaults(t *testing.T) {
	assert.Equal(t, 100, Spot.DefaultKlineLimit())
	assert.Equal(t, 300, Futures.DefaultKlineLimit())
	assert.Equal(t, 20, Spot.DefaultFilter().Limit)
	assert.Equal(t, 90, Futures.DefaultFilter().Limit)
}
