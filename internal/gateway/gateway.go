// Package gateway defines the collaborator surface the scan engine depends
// on (market data, order routing, execution ledger) and implements it against
// an IB bridge sidecar.
package gateway

import (
	"context"
	"errors"

	"github.com/Alias1177/Breakout/models"
)

// Failure taxonomy. Per-symbol evaluation errors are classified against these
// sentinels with errors.Is; none of them is ever fatal to the scheduler.
var (
	// ErrDataUnavailable marks an empty or unfetchable bar window.
	ErrDataUnavailable = errors.New("market data unavailable")
	// ErrQuoteUnavailable marks a missing or unfetchable bid/ask snapshot.
	ErrQuoteUnavailable = errors.New("quote unavailable")
	// ErrSubmissionFailed marks a rejected or undeliverable order. Orders are
	// never resubmitted automatically; the symbol stays eligible next cycle.
	ErrSubmissionFailed = errors.New("order submission failed")
	// ErrSessionLost marks a dropped broker session.
	ErrSessionLost = errors.New("broker session lost")
)

// MarketData supplies per-symbol bar windows and quote snapshots.
type MarketData interface {
	// FetchRecentBars returns the current session's one-minute bars for
	// symbol, ascending by timestamp. An empty window is not an error.
	FetchRecentBars(ctx context.Context, symbol string) (models.BarWindow, error)
	// FetchQuote returns the current best bid/ask for symbol.
	FetchQuote(ctx context.Context, symbol string) (models.Quote, error)
}

// OrderGateway transmits fully specified orders to the broker.
type OrderGateway interface {
	Submit(ctx context.Context, order models.OrderSpec) error
}

// ExecutionLedger reports which symbols already received an entry today.
// Queried fresh immediately before every submission, never cached.
type ExecutionLedger interface {
	SymbolsTradedToday(ctx context.Context) (map[string]struct{}, error)
}

// Fundamentals is the slow-path surface used by the universe builder.
type Fundamentals interface {
	// FetchDailyBars returns up to days daily bars for symbol, ascending.
	FetchDailyBars(ctx context.Context, symbol string, days int) (models.BarWindow, error)
	// FetchSnapshot returns the raw fundamentals ReportSnapshot XML.
	FetchSnapshot(ctx context.Context, symbol string) (string, error)
}

// SessionControl reconnects a dropped broker session.
type SessionControl interface {
	Reconnect(ctx context.Context) error
}
