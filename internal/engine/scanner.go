// Package engine drives the scan cycles: bounded fan-out over the universe,
// the wall-clock scheduler, and session reconnect handling.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Breakout/internal/breakout"
	"github.com/Alias1177/Breakout/internal/features"
	"github.com/Alias1177/Breakout/internal/gateway"
	"github.com/Alias1177/Breakout/internal/metrics"
	"github.com/Alias1177/Breakout/internal/orders"
	"github.com/Alias1177/Breakout/internal/risk"
	"github.com/Alias1177/Breakout/models"
)

// Journal records accepted submissions. Implementations must be safe for
// concurrent use; a nil journal disables recording.
type Journal interface {
	Record(ctx context.Context, order models.OrderSpec) error
}

// Scanner evaluates the whole universe once per cycle. Evaluations run
// concurrently under a permit bound; a cycle completes only when every
// evaluation has finished, and one symbol's failure never touches its
// siblings.
type Scanner struct {
	market      gateway.MarketData
	orderGw     gateway.OrderGateway
	gate        *risk.Gate
	classifier  *breakout.Classifier
	builder     *orders.Builder
	journal     Journal
	callTimeout time.Duration

	permits chan struct{}
	logger  zerolog.Logger
}

// ScannerOptions bundles the scanner's dependencies.
type ScannerOptions struct {
	Market      gateway.MarketData
	Orders      gateway.OrderGateway
	Gate        *risk.Gate
	Classifier  *breakout.Classifier
	Builder     *orders.Builder
	Journal     Journal
	Concurrency int
	CallTimeout time.Duration
}

// NewScanner creates a scanner with the given concurrency bound.
func NewScanner(opts ScannerOptions) *Scanner {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 50
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 10 * time.Second
	}
	return &Scanner{
		market:      opts.Market,
		orderGw:     opts.Orders,
		gate:        opts.Gate,
		classifier:  opts.Classifier,
		builder:     opts.Builder,
		journal:     opts.Journal,
		callTimeout: opts.CallTimeout,
		permits:     make(chan struct{}, opts.Concurrency),
		logger:      log.With().Str("component", "scanner").Logger(),
	}
}

// ScanOnce runs one full pass over the universe and blocks until every
// evaluation has finished. Per-symbol failures are logged and counted, never
// propagated.
func (s *Scanner) ScanOnce(ctx context.Context, symbols []string) {
	started := time.Now()

	var wg sync.WaitGroup
	for _, symbol := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			if err := s.evaluate(ctx, symbol); err != nil {
				metrics.EvalErrors.Inc()
				s.logger.Warn().Err(err).Str("symbol", symbol).Msg("evaluation failed")
			}
		}(symbol)
	}
	wg.Wait()

	metrics.Cycles.Inc()
	s.logger.Info().
		Int("universe", len(symbols)).
		Dur("elapsed", time.Since(started)).
		Msg("scan cycle complete")
}

// evaluate runs the full pipeline for one symbol under a permit.
func (s *Scanner) evaluate(ctx context.Context, symbol string) error {
	select {
	case s.permits <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	metrics.PermitsInUse.Inc()
	defer func() {
		<-s.permits
		metrics.PermitsInUse.Dec()
	}()

	barsCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	window, err := s.market.FetchRecentBars(barsCtx, symbol)
	cancel()
	if err != nil {
		if errors.Is(err, gateway.ErrDataUnavailable) {
			// No data is a no-trade, not an operator-facing failure.
			s.logger.Debug().Err(err).Str("symbol", symbol).Msg("no bar data, skipping")
			return nil
		}
		return err
	}

	decision := s.classifier.Classify(features.Extract(window))
	if !decision.Enter {
		return nil
	}
	metrics.Decisions.WithLabelValues(string(decision.Tier)).Inc()
	s.logger.Debug().
		Str("symbol", symbol).
		Str("tier", string(decision.Tier)).
		Float64("reference", decision.ReferencePrice).
		Msg("breakout detected")

	if !s.gate.Approve(ctx, symbol) {
		return nil
	}

	order, ok := s.builder.Build(symbol, decision)
	if !ok {
		// Nothing was sent; the symbol stays eligible.
		s.gate.Release(symbol)
		return nil
	}

	submitCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	err = s.orderGw.Submit(submitCtx, order)
	cancel()
	if err != nil {
		s.gate.Release(symbol)
		return fmt.Errorf("submit %s: %w", symbol, err)
	}

	metrics.Orders.Inc()
	s.record(ctx, order)
	return nil
}

func (s *Scanner) record(ctx context.Context, order models.OrderSpec) {
	if s.journal == nil {
		return
	}
	recordCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	if err := s.journal.Record(recordCtx, order); err != nil {
		// Audit only; the order is already with the broker.
		s.logger.Error().Err(err).Str("symbol", order.Symbol).Msg("journal write failed")
	}
}
