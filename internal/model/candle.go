package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Candle represents a single kline row
type Candle struct {
	OpenTime      time.Time `json:"open_time"`
	Open          float64   `json:"open"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	Close         float64   `json:"close"`
	Volume        float64   `json:"volume"`
	CloseTime     time.Time `json:"close_time"`
	QuoteVolume   float64   `json:"quote_asset_volume"`
	Trades        int64     `json:"number_of_trades"`
	TakerBuyBase  float64   `json:"taker_buy_base_asset_volume"`
	TakerBuyQuote float64   `json:"taker_buy_quote_asset_volume"`
}

// klineColumns is the number of fields Binance returns per kline; the last one is unused.
const klineColumns = 12

// ParseKline decodes one row of the klines endpoint:
// [openTime, open, high, low, close, volume, closeTime, quoteVolume, trades,
// takerBuyBase, takerBuyQuote, ignore]
func ParseKline(row []json.RawMessage) (Candle, error) {
	if len(row) < klineColumns-1 {
		return Candle{}, fmt.Errorf("kline has %d fields, want at least %d", len(row), klineColumns-1)
	}

	var (
		c   Candle
		err error
	)

	openTime, err := rawInt(row[0])
	if err != nil {
		return Candle{}, fmt.Errorf("open time: %w", err)
	}
	closeTime, err := rawInt(row[6])
	if err != nil {
		return Candle{}, fmt.Errorf("close time: %w", err)
	}
	c.OpenTime = time.UnixMilli(openTime).UTC()
	c.CloseTime = time.UnixMilli(closeTime).UTC()

	fields := []struct {
		name string
		idx  int
		dst  *float64
	}{
		{"open", 1, &c.Open},
		{"high", 2, &c.High},
		{"low", 3, &c.Low},
		{"close", 4, &c.Close},
		{"volume", 5, &c.Volume},
		{"quote volume", 7, &c.QuoteVolume},
		{"taker buy base", 9, &c.TakerBuyBase},
		{"taker buy quote", 10, &c.TakerBuyQuote},
	}
	for _, f := range fields {
		if *f.dst, err = rawFloat(row[f.idx]); err != nil {
			return Candle{}, fmt.Errorf("%s: %w", f.name, err)
		}
	}

	if c.Trades, err = rawInt(row[8]); err != nil {
		return Candle{}, fmt.Errorf("trades: %w", err)
	}

	return c, nil
}

// rawFloat accepts both quoted ("1.23") and bare numbers.
func rawFloat(raw json.RawMessage) (float64, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strconv.ParseFloat(s, 64)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, err
	}
	return f, nil
}

func rawInt(raw json.RawMessage) (int64, error) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		n = json.Number(s)
	}
	return n.Int64()
}
