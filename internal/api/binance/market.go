package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Alias1177/riskscan/internal/model"
)

// SymbolFilter selects pairs from exchangeInfo. Empty fields match everything.
type SymbolFilter struct {
	QuoteAsset   string // substring of the symbol name, e.g. USDT
	Status       string // e.g. TRADING
	ContractType string // futures only, e.g. PERPETUAL
	Limit        int    // 0 keeps every match
}

// Match reports whether s passes the filter
func (f SymbolFilter) Match(s model.SymbolInfo) bool {
	if f.QuoteAsset != "" && !strings.Contains(s.Symbol, f.QuoteAsset) {
		return false
	}
	if f.Status != "" && s.Status != f.Status {
		return false
	}
	if f.ContractType != "" && s.ContractType != f.ContractType {
		return false
	}
	return true
}

// ListSymbols returns tradable symbols in exchange order
func (c *Client) ListSymbols(ctx context.Context, filter SymbolFilter) ([]string, error) {
	var info model.ExchangeInfoResponse
	if err := c.get(ctx, "/exchangeInfo", nil, &info); err != nil {
		return nil, fmt.Errorf("fetching exchange info: %w", err)
	}

	var symbols []string
	for _, s := range info.Symbols {
		if !filter.Match(s) {
			continue
		}
		symbols = append(symbols, s.Symbol)
		if filter.Limit > 0 && len(symbols) == filter.Limit {
			break
		}
	}

	if len(symbols) == 0 {
		c.logger.Warn().Int("total", len(info.Symbols)).Msg("No symbols matched filter")
	}
	c.logger.Debug().Int("count", len(symbols)).Msg("Listed symbols")
	return symbols, nil
}

// GetPrice fetches the latest price for one symbol
func (c *Client) GetPrice(ctx context.Context, symbol string) (model.PriceQuote, error) {
	var ticker model.TickerPriceResponse
	params := url.Values{"symbol": {symbol}}
	if err := c.get(ctx, "/ticker/price", params, &ticker); err != nil {
		return model.PriceQuote{}, fmt.Errorf("fetching price of %s: %w", symbol, err)
	}
	if ticker.Price <= 0 {
		return model.PriceQuote{}, fmt.Errorf("fetching price of %s: non-positive price %v", symbol, ticker.Price)
	}

	if ticker.Symbol == "" {
		ticker.Symbol = symbol
	}
	return model.PriceQuote{Symbol: ticker.Symbol, Price: ticker.Price}, nil
}

// SymbolError records a per-symbol fetch failure
type SymbolError struct {
	Symbol string
	Err    error
}

func (e SymbolError) Error() string {
	return e.Symbol + ": " + e.Err.Error()
}

func (e SymbolError) Unwrap() error {
	return e.Err
}

// GetPrices fetches prices one symbol at a time. A failing symbol is logged and
// skipped; the remaining symbols are still fetched. Only context cancellation stops early.
func (c *Client) GetPrices(ctx context.Context, symbols []string) (map[string]float64, []SymbolError) {
	prices := make(map[string]float64, len(symbols))
	var failures []SymbolError

	for _, symbol := range symbols {
		if ctx.Err() != nil {
			failures = append(failures, SymbolError{Symbol: symbol, Err: ctx.Err()})
			continue
		}

		quote, err := c.GetPrice(ctx, symbol)
		if err != nil {
			c.logger.Warn().Err(err).Str("symbol", symbol).Msg("Price fetch failed")
			failures = append(failures, SymbolError{Symbol: symbol, Err: err})
			continue
		}
		prices[symbol] = quote.Price
	}

	return prices, failures
}

// GetKlines fetches candles for symbol, oldest first
func (c *Client) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]model.Candle, error) {
	params := url.Values{
		"symbol":   {symbol},
		"interval": {interval},
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var rows [][]json.RawMessage
	if err := c.get(ctx, "/klines", params, &rows); err != nil {
		return nil, fmt.Errorf("fetching klines of %s: %w", symbol, err)
	}
	if len(rows) == 0 {
		c.logger.Warn().Str("symbol", symbol).Msg("No candles in response")
		return nil, fmt.Errorf("fetching klines of %s: empty data returned", symbol)
	}

	candles := make([]model.Candle, 0, len(rows))
	for i, row := range rows {
		candle, err := model.ParseKline(row)
		if err != nil {
			return nil, fmt.Errorf("parsing kline %d of %s: %w", i, symbol, err)
		}
		candles = append(candles, candle)
	}

	c.logger.Debug().Str("symbol", symbol).Int("count", len(candles)).Msg("Fetched candles")
	return candles, nil
}
