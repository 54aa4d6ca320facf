package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Scheduler triggers scan cycles off the wall clock. A cycle starts once the
// seconds-within-minute pass the trigger threshold, which biases cycles to
// begin near the top of the next minute and keeps them aligned with
// one-minute bar boundaries. Cycles never overlap: the next one is not
// considered until the previous join-point is reached.
type Scheduler struct {
	scan          func(ctx context.Context)
	triggerSecond int
	interval      time.Duration
	heartbeat     time.Duration

	now    func() time.Time
	logger zerolog.Logger
}

// NewScheduler creates a scheduler around the given scan function.
func NewScheduler(scan func(ctx context.Context), triggerSecond int, interval, heartbeat time.Duration) *Scheduler {
	return &Scheduler{
		scan:          scan,
		triggerSecond: triggerSecond,
		interval:      interval,
		heartbeat:     heartbeat,
		now:           time.Now,
		logger:        log.With().Str("component", "scheduler").Logger(),
	}
}

// Run loops until ctx is cancelled. It only ever returns ctx.Err(): no scan
// outcome terminates the loop.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		now := s.now()
		s.logger.Debug().Time("heartbeat", now).Msg("heartbeat")

		if now.Second() > s.triggerSecond {
			s.scan(ctx)
			if err := sleepCtx(ctx, s.interval); err != nil {
				return err
			}
			continue
		}

		if err := sleepCtx(ctx, s.heartbeat); err != nil {
			return err
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
