package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pixil98/go-realm/internal/messaging"
)

const (
	eventQueueSize = 64
	writeWait      = 5 * time.Second
)

// handleEvents streams every world event to a websocket client. Clients
// that fall behind lose events rather than slowing the publisher.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if s.events == nil {
		writeError(w, http.StatusServiceUnavailable, "event stream not available")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.DebugContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	out := make(chan []byte, eventQueueSize)
	unsubscribe, err := s.events.Subscribe(messaging.WorldEventsSubject, func(data []byte) {
		select {
		case out <- data:
		default:
			slog.Debug("event stream client lagging, dropping event")
		}
	})
	if err != nil {
		slog.WarnContext(r.Context(), "subscribing to world events failed", "error", err)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "event stream unavailable"),
			time.Now().Add(time.Second))
		return
	}
	defer unsubscribe()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	readWait := 2 * s.pingInterval
	_ = conn.SetReadDeadline(time.Now().Add(readWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readWait))
	})

	// Writer goroutine.
	go func() {
		ping := time.NewTicker(s.pingInterval)
		defer ping.Stop()

		for {
			select {
			case <-ctx.Done():
				// Closing the connection unblocks the reader loop below.
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
					time.Now().Add(writeWait))
				_ = conn.Close()
				return
			case b := <-out:
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					cancel()
					return
				}
			case <-ping.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					cancel()
					return
				}
			}
		}
	}()

	// Reader loop. Clients never send anything meaningful; reading keeps
	// control frames flowing and notices the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
