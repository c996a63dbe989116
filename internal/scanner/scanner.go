package scanner

import (
	"context"
	"fmt"
	"time"

	"github.com/Alias1177/riskscan/internal/api/binance"
	"github.com/Alias1177/riskscan/internal/model"
	"github.com/Alias1177/riskscan/internal/trading/risk"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// MarketData is the subset of the exchange client the scanner needs
type MarketData interface {
	ListSymbols(ctx context.Context, filter binance.SymbolFilter) ([]string, error)
	GetPrice(ctx context.Context, symbol string) (model.PriceQuote, error)
}

// Entry is the outcome for one symbol. Err is set when the price could not be
// fetched or the policy rejected it; Result is zero in that case.
type Entry struct {
	Symbol string
	Price  float64
	Result risk.Result
	Err    error
}

// OK reports whether the entry carries a result
func (e Entry) OK() bool {
	return e.Err == nil
}

// Report collects the entries of one scan in symbol order
type Report struct {
	Market    binance.Market
	Policy    risk.PolicyKind
	StartedAt time.Time
	Duration  time.Duration
	Entries   []Entry
}

// Succeeded returns entries with a result
func (r *Report) Succeeded() []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if e.OK() {
			out = append(out, e)
		}
	}
	return out
}

// Failed returns entries whose fetch or calculation failed
func (r *Report) Failed() []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if !e.OK() {
			out = append(out, e)
		}
	}
	return out
}

// Scanner fetches prices for a set of symbols and applies a risk policy to each
type Scanner struct {
	source MarketData
	policy risk.Policy
	market binance.Market
	logger zerolog.Logger

	// OnEntry, if set, is called after each symbol is processed
	OnEntry func(ctx context.Context, index int, entry Entry)
}

// New creates a scanner for market using policy
func New(source MarketData, market binance.Market, policy risk.Policy) *Scanner {
	return &Scanner{
		source: source,
		policy: policy,
		market: market,
		logger: log.With().Str("component", "scanner").Logger(),
	}
}

// Run lists symbols matching filter and computes the policy for each one
// sequentially. Per-symbol failures are recorded on the entry and the batch
// continues; only a listing failure or context cancellation returns an error.
func (s *Scanner) Run(ctx context.Context, filter binance.SymbolFilter) (*Report, error) {
	started := time.Now()

	symbols, err := s.source.ListSymbols(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing symbols: %w", err)
	}
	s.logger.Info().Int("symbols", len(symbols)).Str("policy", string(s.policy.Kind())).Msg("Starting scan")

	report := &Report{
		Market:    s.market,
		Policy:    s.policy.Kind(),
		StartedAt: started,
		Entries:   make([]Entry, 0, len(symbols)),
	}

	for i, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			report.Duration = time.Since(started)
			return report, err
		}

		entry := s.scanSymbol(ctx, symbol)
		report.Entries = append(report.Entries, entry)
		if s.OnEntry != nil {
			s.OnEntry(ctx, i, entry)
		}
	}

	report.Duration = time.Since(started)
	s.logger.Info().
		Int("ok", len(report.Succeeded())).
		Int("failed", len(report.Failed())).
		Dur("took", report.Duration).
		Msg("Scan finished")
	return report, nil
}

func (s *Scanner) scanSymbol(ctx context.Context, symbol string) Entry {
	entry := Entry{Symbol: symbol}

	quote, err := s.source.GetPrice(ctx, symbol)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Price fetch failed, skipping")
		entry.Err = err
		return entry
	}
	entry.Price = quote.Price

	res, err := s.policy.Compute(quote.Price)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Float64("price", quote.Price).Msg("Price rejected by policy")
		entry.Err = err
		return entry
	}
	entry.Result = res
	return entry
}
