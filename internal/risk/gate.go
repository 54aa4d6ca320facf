// Package risk holds the pre-submission gate: spread sanity and the
// one-entry-per-symbol-per-day rule.
package risk

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Breakout/internal/gateway"
	"github.com/Alias1177/Breakout/internal/metrics"
)

// Veto reasons, used as log fields and metric labels.
const (
	VetoSpread      = "spread"
	VetoDuplicate   = "duplicate"
	VetoQuote       = "quote_unavailable"
	VetoLedger      = "ledger_unavailable"
	VetoReservation = "already_reserved"
)

// Gate runs both risk checks immediately before submission. Checks are never
// memoized from earlier in the cycle: the fan-out is concurrent and ledger
// state moves between evaluation start and the submission instant.
//
// Besides the authoritative broker ledger, the gate keeps a process-local
// reservation set for the current day. Reserving before the external checks
// closes the race where two concurrent entries for one symbol both read the
// ledger before either order lands.
type Gate struct {
	market         gateway.MarketData
	ledger         gateway.ExecutionLedger
	maxSpreadRatio float64
	callTimeout    time.Duration
	logger         zerolog.Logger

	mu       sync.Mutex
	day      string
	reserved map[string]struct{}
}

// New creates a gate with the given spread ceiling. Every external query the
// gate makes is bounded by callTimeout so a hanging quote cannot hold a
// concurrency permit indefinitely.
func New(market gateway.MarketData, ledger gateway.ExecutionLedger, maxSpreadRatio float64, callTimeout time.Duration) *Gate {
	return &Gate{
		market:         market,
		ledger:         ledger,
		maxSpreadRatio: maxSpreadRatio,
		callTimeout:    callTimeout,
		logger:         log.With().Str("component", "risk_gate").Logger(),
		reserved:       make(map[string]struct{}),
	}
}

// Approve reports whether an entry order for symbol may be submitted now.
// A false return is a veto, not an error; the decision is simply dropped.
// On approval the symbol stays reserved for the day; call Release if the
// subsequent submission fails so the symbol remains eligible next cycle.
func (g *Gate) Approve(ctx context.Context, symbol string) bool {
	if !g.reserve(symbol) {
		g.veto(symbol, VetoReservation)
		return false
	}

	if reason := g.check(ctx, symbol); reason != "" {
		g.Release(symbol)
		g.veto(symbol, reason)
		return false
	}
	return true
}

// Release frees a reservation taken by Approve.
func (g *Gate) Release(symbol string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.reserved, symbol)
}

// check runs the two external read-only queries and returns a veto reason,
// or "" when the symbol passes both.
func (g *Gate) check(ctx context.Context, symbol string) string {
	quoteCtx, cancel := context.WithTimeout(ctx, g.callTimeout)
	quote, err := g.market.FetchQuote(quoteCtx, symbol)
	cancel()
	if err != nil {
		g.logger.Warn().Err(err).Str("symbol", symbol).Msg("quote fetch failed")
		return VetoQuote
	}

	ratio := math.Inf(1)
	if quote.Bid > 0 && quote.Ask > 0 {
		ratio = quote.Ask / quote.Bid
	}
	if ratio > g.maxSpreadRatio {
		return VetoSpread
	}

	ledgerCtx, cancel := context.WithTimeout(ctx, g.callTimeout)
	defer cancel()
	traded, err := g.ledger.SymbolsTradedToday(ledgerCtx)
	if err != nil {
		// Fail closed: without the ledger we cannot rule out a duplicate.
		g.logger.Warn().Err(err).Str("symbol", symbol).Msg("ledger query failed")
		return VetoLedger
	}
	if _, ok := traded[symbol]; ok {
		return VetoDuplicate
	}
	return ""
}

// reserve marks symbol as entered for the current day. Returns false if the
// symbol is already reserved today.
func (g *Gate) reserve(symbol string) bool {
	today := time.Now().Format("20060102")

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.day != today {
		g.day = today
		g.reserved = make(map[string]struct{})
	}
	if _, ok := g.reserved[symbol]; ok {
		return false
	}
	g.reserved[symbol] = struct{}{}
	return true
}

func (g *Gate) veto(symbol, reason string) {
	metrics.Vetoes.WithLabelValues(reason).Inc()
	g.logger.Debug().Str("symbol", symbol).Str("reason", reason).Msg("entry vetoed")
}
