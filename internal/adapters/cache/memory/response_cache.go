package memory

import (
	"container/list"
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Unaivero/financiera-ancestral/internal/core/port"
)

var _ port.CachePort = (*ResponseCache)(nil)

type entry struct {
	signature string
	payload   []byte
	createdAt time.Time
}

// ResponseCache is an in-process response cache bounded by entry count and
// age. Eviction is least-recently-used once the bound is hit; expired
// entries are dropped lazily on lookup and by the periodic sweep. Payloads
// are stored as-is and never mutated after Put, so a concurrent reader can
// only ever observe a complete payload.
type ResponseCache struct {
	ttl        time.Duration
	maxEntries int
	logger     *slog.Logger

	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List // front = most recently used

	now func() time.Time
}

func NewResponseCache(ttl time.Duration, maxEntries int, logger *slog.Logger) *ResponseCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if maxEntries < 1 {
		maxEntries = 1
	}

	return &ResponseCache{
		ttl:        ttl,
		maxEntries: maxEntries,
		logger:     logger,
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		now:        time.Now,
	}
}

// Get returns the cached payload for a signature. Expired entries are
// removed and reported as absent.
func (c *ResponseCache) Get(_ context.Context, signature string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[signature]
	if !ok {
		return nil, false
	}

	ent := elem.Value.(*entry)
	if c.now().Sub(ent.createdAt) >= c.ttl {
		c.remove(elem)
		return nil, false
	}

	c.order.MoveToFront(elem)
	return ent.payload, true
}

// Put stores a fully built payload, replacing any previous entry for the
// signature and evicting the least recently used entry if the cache is full.
func (c *ResponseCache) Put(_ context.Context, signature string, payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[signature]; ok {
		c.remove(elem)
	}

	for c.order.Len() >= c.maxEntries {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.remove(oldest)
	}

	ent := &entry{signature: signature, payload: payload, createdAt: c.now()}
	c.entries[signature] = c.order.PushFront(ent)
}

// Len reports the current entry count.
func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *ResponseCache) remove(elem *list.Element) {
	ent := elem.Value.(*entry)
	delete(c.entries, ent.signature)
	c.order.Remove(elem)
}

// Sweep drops every expired entry. StartSweeper runs it on an interval until
// the context is cancelled.
func (c *ResponseCache) Sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for elem := c.order.Back(); elem != nil; {
		prev := elem.Prev()
		if now.Sub(elem.Value.(*entry).createdAt) >= c.ttl {
			c.remove(elem)
		}
		elem = prev
	}
}

func (c *ResponseCache) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Sweep()
				c.logger.Debug("cache sweep complete", slog.Int("entries", c.Len()))
			}
		}
	}()
}
