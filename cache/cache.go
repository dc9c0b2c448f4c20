package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const DefaultSize = 256

// FetchFunc loads the value for a key from its backend.
type FetchFunc func(ctx context.Context) (any, error)

type entry struct {
	value     any
	hasValue  bool
	stale     bool
	fetchedAt time.Time
	// generation moves on every invalidation; a fetch commits only if it
	// started at the current generation.
	generation uint64
	fetch      FetchFunc
}

type subscription struct {
	fn     func(any)
	active atomic.Bool
}

// Cache is a request-keyed cache with one in-flight fetch per key,
// stale-while-revalidate invalidation and change subscriptions.
type Cache struct {
	mu      sync.Mutex
	entries *lru.Cache[string, *entry]
	subs    map[string]map[uint64]*subscription
	nextSub uint64
	maxAge  time.Duration
	nowFunc func() time.Time

	group      singleflight.Group
	background sync.WaitGroup
}

type Option func(*Cache)

// WithMaxAge makes entries stale once they are older than maxAge. Zero keeps
// entries fresh until invalidated.
func WithMaxAge(maxAge time.Duration) Option {
	return func(c *Cache) {
		c.maxAge = maxAge
	}
}

func WithNowFunc(now func() time.Time) Option {
	return func(c *Cache) {
		c.nowFunc = now
	}
}

// New creates a cache holding at most size entries, evicting the least
// recently used.
func New(size int, options ...Option) (*Cache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	entries, err := lru.New[string, *entry](size)
	if err != nil {
		return nil, err
	}
	c := &Cache{
		entries: entries,
		subs:    make(map[string]map[uint64]*subscription),
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// Read returns the cached value when fresh. Otherwise it joins the in-flight
// fetch for key, or starts one with fetch; every concurrent caller gets the
// same result. A failed fetch leaves any previous value in place.
func (c *Cache) Read(ctx context.Context, key Key, fetch FetchFunc) (any, error) {
	k := key.String()

	c.mu.Lock()
	e := c.entryLocked(k)
	if fetch != nil {
		e.fetch = fetch
	}
	if c.freshLocked(e) {
		v := e.value
		c.mu.Unlock()
		return v, nil
	}
	c.mu.Unlock()

	return c.load(ctx, k)
}

// Peek returns the current value, fresh or stale, without fetching.
func (c *Cache) Peek(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries.Peek(key.String())
	if !ok || !e.hasValue {
		return nil, false
	}
	return e.value, true
}

// Invalidate marks keys stale and re-fetches them in the background.
// Subscribers keep the previous value until the re-fetch resolves.
func (c *Cache) Invalidate(ctx context.Context, keys ...Key) {
	ctx = context.WithoutCancel(ctx)
	for _, key := range keys {
		k := key.String()

		c.mu.Lock()
		e, ok := c.entries.Peek(k)
		if !ok {
			c.mu.Unlock()
			continue
		}
		e.stale = true
		e.generation++
		refetch := e.fetch != nil
		c.mu.Unlock()

		if !refetch {
			continue
		}
		c.background.Add(1)
		go func() {
			defer c.background.Done()
			if _, err := c.load(ctx, k); err != nil {
				log.Warn().Err(err).Str("key", k).Msg("Background refetch failed")
			}
		}()
	}
}

// Subscribe calls fn with the current value, if any, and then with every
// value committed for key until the returned func is called.
func (c *Cache) Subscribe(key Key, fn func(any)) (unsubscribe func()) {
	k := key.String()
	sub := &subscription{fn: fn}
	sub.active.Store(true)

	c.mu.Lock()
	c.nextSub++
	id := c.nextSub
	if c.subs[k] == nil {
		c.subs[k] = make(map[uint64]*subscription)
	}
	c.subs[k][id] = sub
	var current any
	var hasValue bool
	if e, ok := c.entries.Peek(k); ok && e.hasValue {
		current, hasValue = e.value, true
	}
	c.mu.Unlock()

	if hasValue {
		fn(current)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.active.Store(false)
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subs[k], id)
			if len(c.subs[k]) == 0 {
				delete(c.subs, k)
			}
		})
	}
}

// Mutate runs fn and, only once it succeeds, invalidates keys. The cache is
// never updated optimistically and a failed mutation leaves it untouched.
func (c *Cache) Mutate(ctx context.Context, fn func(ctx context.Context) error, keys ...Key) error {
	if err := fn(ctx); err != nil {
		return err
	}
	c.Invalidate(ctx, keys...)
	return nil
}

// Wait blocks until background re-fetches started by Invalidate finish.
func (c *Cache) Wait() {
	c.background.Wait()
}

func (c *Cache) load(ctx context.Context, k string) (any, error) {
	ch := c.group.DoChan(k, func() (any, error) {
		return c.fetchLoop(context.WithoutCancel(ctx), k)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

// fetchLoop runs inside the single flight for k. When an invalidation lands
// while a fetch is outstanding, the result is dropped and the fetch repeated,
// so the flight never resolves with data older than the invalidation.
func (c *Cache) fetchLoop(ctx context.Context, k string) (any, error) {
	for {
		c.mu.Lock()
		e := c.entryLocked(k)
		if c.freshLocked(e) {
			// committed by a flight that finished before this one started
			v := e.value
			c.mu.Unlock()
			return v, nil
		}
		gen, fetch := e.generation, e.fetch
		c.mu.Unlock()

		if fetch == nil {
			return nil, ErrNoFetcher
		}

		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		if c.commit(k, gen, v) {
			return v, nil
		}
		log.Debug().Str("key", k).Msg("Invalidated while fetching, refetching")
	}
}

func (c *Cache) commit(k string, gen uint64, v any) bool {
	c.mu.Lock()
	e := c.entryLocked(k)
	if e.generation != gen {
		c.mu.Unlock()
		return false
	}
	e.value = v
	e.hasValue = true
	e.stale = false
	e.fetchedAt = c.nowFunc()

	subs := make([]*subscription, 0, len(c.subs[k]))
	for _, sub := range c.subs[k] {
		subs = append(subs, sub)
	}
	c.mu.Unlock()

	for _, sub := range subs {
		if sub.active.Load() {
			sub.fn(v)
		}
	}
	return true
}

// entryLocked returns the entry for k, creating it when missing or evicted.
// c.mu must be held.
func (c *Cache) entryLocked(k string) *entry {
	if e, ok := c.entries.Get(k); ok {
		return e
	}
	e := &entry{stale: true}
	c.entries.Add(k, e)
	return e
}

func (c *Cache) freshLocked(e *entry) bool {
	if !e.hasValue || e.stale {
		return false
	}
	return c.maxAge <= 0 || c.nowFunc().Sub(e.fetchedAt) < c.maxAge
}
