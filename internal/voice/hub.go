package voice

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/crewgen/internal/constants"
	"github.com/mrz1836/crewgen/internal/domain"
)

// subscriberBuffer is the per-subscriber channel capacity.
const subscriberBuffer = 64

// Hub fans events out to subscribers, grouped by session id.
type Hub struct {
	mu        sync.RWMutex
	subs      map[string]map[chan []byte]struct{}
	keepAlive time.Duration
	logger    zerolog.Logger
}

// NewHub creates an empty Hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		subs:      make(map[string]map[chan []byte]struct{}),
		keepAlive: constants.SSEKeepAliveInterval,
		logger:    logger.With().Str("component", "sse").Logger(),
	}
}

// Subscribe registers a new subscriber for sessionID.
func (h *Hub) Subscribe(sessionID string) chan []byte {
	ch := make(chan []byte, subscriberBuffer)
	h.mu.Lock()
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = make(map[chan []byte]struct{})
	}
	h.subs[sessionID][ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes ch.
func (h *Hub) Unsubscribe(sessionID string, ch chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs := h.subs[sessionID]
	if _, ok := subs[ch]; !ok {
		return
	}
	delete(subs, ch)
	close(ch)
	if len(subs) == 0 {
		delete(h.subs, sessionID)
	}
}

// Subscribers returns the number of subscribers for sessionID.
func (h *Hub) Subscribers(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[sessionID])
}

// Publish sends ev to every subscriber of ev.SessionID.
// Slow subscribers miss events rather than block the publisher.
func (h *Hub) Publish(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error().Err(err).Str("type", ev.Type).Msg("failed to encode event")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[ev.SessionID] {
		select {
		case ch <- data:
		default:
			h.logger.Warn().Str("session_id", ev.SessionID).Str("type", ev.Type).Msg("dropping event for slow subscriber")
		}
	}
}

// Sink returns a Sink that publishes to the subscribers of sessionID.
func (h *Hub) Sink(sessionID string) Sink {
	return &hubSink{hub: h, sessionID: sessionID}
}

// Handler streams events for sessionID as Server-Sent Events until the
// client disconnects.
func (h *Hub) Handler(sessionID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")

		ch := h.Subscribe(sessionID)
		defer h.Unsubscribe(sessionID, ch)

		connected, _ := json.Marshal(Event{Type: EventConnected, SessionID: sessionID})
		_, _ = fmt.Fprintf(w, "data: %s\n\n", connected)
		flusher.Flush()

		keepalive := time.NewTicker(h.keepAlive)
		defer keepalive.Stop()

		ctx := r.Context()
		for {
			select {
			case <-ctx.Done():
				return
			case <-keepalive.C:
				_, _ = fmt.Fprint(w, ": keepalive\n\n")
				flusher.Flush()
			case msg, ok := <-ch:
				if !ok {
					return
				}
				_, _ = fmt.Fprintf(w, "data: %s\n\n", msg)
				flusher.Flush()
			}
		}
	}
}

// hubSink publishes turn output for one session.
type hubSink struct {
	hub       *Hub
	sessionID string
}

func (s *hubSink) Speak(_ context.Context, text string) error {
	s.hub.Publish(Event{Type: EventSpeak, SessionID: s.sessionID, Text: text})
	return nil
}

func (s *hubSink) TeamGenerated(_ context.Context, team *domain.TeamConfiguration) error {
	s.hub.Publish(Event{Type: EventTeamGenerated, SessionID: s.sessionID, Team: team})
	return nil
}
