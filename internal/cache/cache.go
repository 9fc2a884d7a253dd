package cache

import (
	"sync"
	"time"
)

type entry struct {
	value      []byte
	expiration int64
}

// Cache keeps backend response bodies for a limited time.
type Cache struct {
	items map[string]entry
	mu    sync.RWMutex
	ttl   time.Duration
	stop  chan struct{}
	once  sync.Once
	now   func() time.Time
}

// New builds a cache whose entries live for defaultTTL unless Set is given
// another duration. A sweeper removes expired entries every sweepEvery; pass
// zero to disable it.
func New(defaultTTL, sweepEvery time.Duration) *Cache {
	c := &Cache{
		items: make(map[string]entry),
		ttl:   defaultTTL,
		stop:  make(chan struct{}),
		now:   time.Now,
	}
	if sweepEvery > 0 {
		go c.sweep(sweepEvery)
	}
	return c
}

// Set stores value under key.
func (c *Cache) Set(key string, value []byte, ttl ...time.Duration) {
	duration := c.ttl
	if len(ttl) > 0 {
		duration = ttl[0]
	}
	if duration <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = entry{
		value:      value,
		expiration: c.now().Add(duration).UnixNano(),
	}
}

// Get returns the value stored under key if it has not expired.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, found := c.items[key]
	if !found || c.now().UnixNano() > item.expiration {
		return nil, false
	}
	return item.value, true
}

// Delete drops key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Close stops the sweeper. It is safe to call more than once.
func (c *Cache) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *Cache) purgeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now().UnixNano()
	for key, item := range c.items {
		if now > item.expiration {
			delete(c.items, key)
		}
	}
}

func (c *Cache) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.purgeExpired()
		case <-c.stop:
			return
		}
	}
}
