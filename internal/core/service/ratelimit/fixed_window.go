package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/Unaivero/financiera-ancestral/internal/core/port"
)

var _ port.LimiterPort = (*FixedWindow)(nil)

type windowState struct {
	start time.Time
	count int
}

// FixedWindow is an in-process fixed-window rate limiter. Each client
// identity owns a window start and a counter; the counter resets when the
// window elapses. Check-and-increment happens under one lock so two
// concurrent requests can never both slip past the limit.
type FixedWindow struct {
	maxRequests int
	window      time.Duration

	mu      sync.Mutex
	clients map[string]*windowState
}

func NewFixedWindow(maxRequests int, window time.Duration) *FixedWindow {
	if maxRequests < 1 {
		maxRequests = 1
	}
	if window <= 0 {
		window = time.Minute
	}

	return &FixedWindow{
		maxRequests: maxRequests,
		window:      window,
		clients:     make(map[string]*windowState),
	}
}

// Allow admits or rejects a request from clientID at the given instant. An
// unknown client starts a fresh window. A clock that went backwards yields a
// negative elapsed time, which is treated as zero so the request path never
// breaks.
func (l *FixedWindow) Allow(_ context.Context, clientID string, now time.Time) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	state, ok := l.clients[clientID]
	if !ok {
		state = &windowState{start: now}
		l.clients[clientID] = state
	}

	elapsed := now.Sub(state.start)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed >= l.window {
		state.start = now
		state.count = 0
		elapsed = 0
	}

	state.count++
	if state.count > l.maxRequests {
		return false, l.window - elapsed
	}
	return true, 0
}

// Sweep drops client windows that elapsed before the given instant, keeping
// the map from growing with one entry per client ever seen.
func (l *FixedWindow) Sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for id, state := range l.clients {
		if now.Sub(state.start) >= l.window {
			delete(l.clients, id)
		}
	}
}
