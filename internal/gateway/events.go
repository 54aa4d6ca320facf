package gateway

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// sessionEvent is one message on the bridge's /events stream.
type sessionEvent struct {
	Type   string `json:"type"`
	Reason string `json:"reason,omitempty"`
}

// EventStream subscribes to the bridge's websocket event feed and republishes
// broker session-loss notifications on a Go channel. The stream itself
// re-dials on websocket errors; only explicit session_lost events reach
// subscribers.
type EventStream struct {
	url         string
	disconnects chan struct{}
	logger      zerolog.Logger
}

// NewEventStream creates a stream for the given websocket URL.
func NewEventStream(url string) *EventStream {
	return &EventStream{
		url: url,
		// Buffer of one: pending notifications coalesce, the reconnect
		// handler reacts to session loss, not to each raw event.
		disconnects: make(chan struct{}, 1),
		logger:      log.With().Str("component", "session_events").Logger(),
	}
}

// Disconnects delivers one value per observed broker session loss.
func (s *EventStream) Disconnects() <-chan struct{} {
	return s.disconnects
}

// Run consumes the event feed until ctx is cancelled.
func (s *EventStream) Run(ctx context.Context) error {
	wait := time.Second
	const maxWait = 30 * time.Second

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err := s.consume(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Warn().Err(err).Msg("event stream dropped, redialing")
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
		wait *= 2
		if wait > maxWait {
			wait = maxWait
		}
	}
}

func (s *EventStream) consume(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	s.logger.Info().Str("url", s.url).Msg("connected to bridge event stream")
	conn.SetReadLimit(1 << 16)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var ev sessionEvent
		if err := json.Unmarshal(message, &ev); err != nil {
			s.logger.Warn().Err(err).Msg("failed to decode session event")
			continue
		}

		if ev.Type != "session_lost" {
			continue
		}
		s.logger.Warn().Str("reason", ev.Reason).Msg("broker session lost")
		select {
		case s.disconnects <- struct{}{}:
		default:
			// A notification is already pending.
		}
	}
}
