package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"auctioner/internal/models"
	"auctioner/utils"

	"github.com/gorilla/websocket"
)

const (
	minReconnectDelay = 500 * time.Millisecond
	maxReconnectDelay = 30 * time.Second
)

// EventStream subscribes to the authority's push channel and reconnects with
// backoff when it drops. Events only accelerate convergence; polling still runs.
type EventStream struct {
	url    string
	dialer *websocket.Dialer
}

func NewEventStream(url string) *EventStream {
	return &EventStream{
		url: url,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

// Run delivers every received event to handle until ctx is cancelled
func (s *EventStream) Run(ctx context.Context, handle func(models.Event)) error {
	delay := minReconnectDelay
	for {
		connected, err := s.stream(ctx, handle)
		if ctx.Err() != nil {
			return nil
		}
		if connected {
			delay = minReconnectDelay
		}
		utils.Warn("events: stream dropped, reconnecting", map[string]any{
			"url":   s.url,
			"delay": delay.String(),
			"error": err.Error(),
		})

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}
		delay = min(delay*2, maxReconnectDelay)
	}
}

// stream holds one connection open; it reports whether the dial succeeded
func (s *EventStream) stream(ctx context.Context, handle func(models.Event)) (bool, error) {
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return false, fmt.Errorf("events: dial %s: %w", s.url, err)
	}
	defer conn.Close()
	utils.Info("events: subscribed", map[string]any{"url": s.url})

	stop := context.AfterFunc(ctx, func() {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		conn.Close()
	})
	defer stop()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) && closeErr.Code == websocket.CloseNormalClosure {
				return true, fmt.Errorf("events: closed by authority: %w", err)
			}
			return true, fmt.Errorf("events: read: %w", err)
		}

		var event models.Event
		if err := json.Unmarshal(data, &event); err != nil {
			utils.Warn("events: skipping malformed event", map[string]any{"error": err.Error()})
			continue
		}
		handle(event)
	}
}
