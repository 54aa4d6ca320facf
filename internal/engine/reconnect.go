package engine

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Breakout/internal/gateway"
	"github.com/Alias1177/Breakout/internal/metrics"
)

// Notifier delivers operator alerts. A nil notifier is a no-op.
type Notifier interface {
	Alert(message string)
}

// Reconnector reacts to broker session-loss notifications. It retries the
// reconnect under exponential backoff with jitter up to a capped elapsed
// time, then escalates to the operator instead of looping forever. It never
// resumes in-flight cycles and never stops the scheduler: evaluations that
// straddled the disconnect fail on their own network calls and are reported
// per symbol.
type Reconnector struct {
	session  gateway.SessionControl
	events   <-chan struct{}
	maxWait  time.Duration
	notifier Notifier
	logger   zerolog.Logger
}

// NewReconnector wires the disconnect event channel to the session control.
func NewReconnector(session gateway.SessionControl, events <-chan struct{}, maxWait time.Duration, notifier Notifier) *Reconnector {
	return &Reconnector{
		session:  session,
		events:   events,
		maxWait:  maxWait,
		notifier: notifier,
		logger:   log.With().Str("component", "reconnect").Logger(),
	}
}

// Run blocks until ctx is cancelled, handling one disconnect at a time.
func (r *Reconnector) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.events:
			r.handleDisconnect(ctx)
		}
	}
}

func (r *Reconnector) handleDisconnect(ctx context.Context) {
	r.logger.Warn().Msg("session lost, reconnecting")

	strategy := backoff.NewExponentialBackOff()
	strategy.MaxElapsedTime = r.maxWait

	operation := func() error {
		return r.session.Reconnect(ctx)
	}

	if err := backoff.Retry(operation, backoff.WithContext(strategy, ctx)); err != nil {
		metrics.Reconnects.WithLabelValues("failed").Inc()
		r.logger.Error().Err(err).Dur("elapsed_cap", r.maxWait).Msg("reconnect attempts exhausted, manual intervention required")
		r.alert("broker session lost and reconnect attempts exhausted: " + err.Error())
		return
	}

	metrics.Reconnects.WithLabelValues("ok").Inc()
	r.logger.Info().Msg("session reconnected")
}

func (r *Reconnector) alert(message string) {
	if r.notifier == nil {
		return
	}
	r.notifier.Alert(message)
}
