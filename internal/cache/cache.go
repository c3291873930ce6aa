// Package cache is an in-memory TTL store for heterogeneous values.
//
// Expired entries are dropped lazily when read and eagerly by a background
// sweep, so keys written once and never read again do not accumulate.
// Reads are typed: asking for the wrong type counts as a miss and evicts the entry.
package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTTL           = time.Hour
	DefaultSweepInterval = 5 * time.Minute
)

var (
	ErrClosed = errors.New("cache unavailable: already closed")
	ErrMiss   = errors.New("cache miss")
)

type Cache struct {
	items      *gocache.Cache
	defaultTTL time.Duration

	// Held by writers and by read-side eviction so an eviction never drops a newer Set
	mu sync.Mutex

	closed    atomic.Bool
	closeOnce sync.Once
	stop      chan struct{}
	done      chan struct{}
}

// New starts a cache with its sweep goroutine. Non-positive arguments fall back to the defaults.
func New(defaultTTL, sweepInterval time.Duration) *Cache {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}

	c := &Cache{
		// go-cache janitor disabled, sweepLoop owns eviction
		items:      gocache.New(defaultTTL, 0),
		defaultTTL: defaultTTL,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}

	go c.sweepLoop(sweepInterval)

	return c
}

// Set stores value under key with the default TTL, replacing any existing entry
func (c *Cache) Set(key string, value any) error {
	return c.SetWithTTL(key, value, c.defaultTTL)
}

func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) error {
	if c.closed.Load() {
		return ErrClosed
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	c.items.Set(key, value, ttl)
	c.mu.Unlock()
	log.Debugf("Cached %q, expires in %v", key, ttl)
	return nil
}

// Get returns the value stored under key as T. It returns ErrMiss when the key
// is absent, expired or holds another type, and ErrClosed after Close.
func Get[T any](c *Cache, key string) (T, error) {
	var zero T
	if c.closed.Load() {
		return zero, ErrClosed
	}

	raw, found := c.items.Get(key)
	if !found {
		c.evictUnless(key, func(any) bool { return false })
		return zero, ErrMiss
	}

	value, ok := raw.(T)
	if !ok {
		log.Warnf("Cached value for %q has type %T, evicting", key, raw)
		c.evictUnless(key, func(v any) bool {
			_, ok := v.(T)
			return ok
		})
		return zero, ErrMiss
	}

	return value, nil
}

// evictUnless deletes key unless a live entry satisfying keep is stored.
// go-cache hides expired items without deleting them, so the key is re-read under mu.
func (c *Cache) evictUnless(key string, keep func(any) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if raw, found := c.items.Get(key); found && keep(raw) {
		return
	}
	c.items.Delete(key)
}

// TryGet is Get without the error; a closed cache simply reports not found
func TryGet[T any](c *Cache, key string) (T, bool) {
	value, err := Get[T](c, key)
	return value, err == nil
}

// Remove deletes key. Safe to call after Close.
func (c *Cache) Remove(key string) {
	if c.closed.Load() {
		return
	}
	c.items.Delete(key)
	log.Debugf("Removed cached item %q", key)
}

// Clear empties the cache. Safe to call after Close.
func (c *Cache) Clear() {
	if c.closed.Load() {
		return
	}
	c.items.Flush()
	log.Info("Cache cleared")
}

// Len counts stored entries, including expired ones not yet swept
func (c *Cache) Len() int {
	return c.items.ItemCount()
}

// Sweep evicts every expired entry and returns how many were removed
func (c *Cache) Sweep() int {
	before := c.items.ItemCount()
	c.items.DeleteExpired()
	removed := before - c.items.ItemCount()
	if removed > 0 {
		log.Debugf("Cleaned up %d expired cache items", removed)
	}
	return max(0, removed)
}

// Close stops the sweep and drops all entries. Further Set/Get calls fail with ErrClosed.
func (c *Cache) Close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.stop)
		<-c.done
		c.items.Flush()
		log.Info("Cache closed")
	})
}

func (c *Cache) sweepLoop(interval time.Duration) {
	defer close(c.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}
