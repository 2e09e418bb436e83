package script

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// CompileCache memoizes compiled check bodies keyed by language and a
// digest of the source text, so repeated runs over unchanged script-backed
// probes do not recompile.
type CompileCache struct {
	mu      sync.RWMutex
	entries map[string]*compileEntry
	ttl     time.Duration
}

type compileEntry struct {
	callable  Callable
	expiresAt time.Time
}

// NewCompileCache creates a cache whose entries live for ttl.
// TTL <= 0 disables caching entirely.
func NewCompileCache(ttl time.Duration) *CompileCache {
	return &CompileCache{
		entries: make(map[string]*compileEntry),
		ttl:     ttl,
	}
}

// Get retrieves a compiled body. Returns (nil, false) on miss or expiry.
func (c *CompileCache) Get(language, source string) (Callable, bool) {
	key := cacheKey(language, source)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if time.Now().After(entry.expiresAt) {
		// Expired - clean up lazily
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}

	return entry.callable, true
}

// Put stores a compiled body.
func (c *CompileCache) Put(language, source string, callable Callable) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	c.entries[cacheKey(language, source)] = &compileEntry{
		callable:  callable,
		expiresAt: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()
}

func cacheKey(language, source string) string {
	sum := sha256.Sum256([]byte(source))
	return language + ":" + hex.EncodeToString(sum[:])
}

// CachingEngine wraps an Engine with a CompileCache.
type CachingEngine struct {
	engine Engine
	cache  *CompileCache
}

// NewCachingEngine wraps engine so that identical source compiles once per
// cache TTL window.
func NewCachingEngine(engine Engine, cache *CompileCache) *CachingEngine {
	return &CachingEngine{engine: engine, cache: cache}
}

// Language returns the wrapped engine's language name.
func (e *CachingEngine) Language() string {
	return e.engine.Language()
}

// Compile returns the cached body when present, compiling otherwise.
func (e *CachingEngine) Compile(ctx context.Context, source string) (Callable, error) {
	if callable, ok := e.cache.Get(e.engine.Language(), source); ok {
		return callable, nil
	}

	callable, err := e.engine.Compile(ctx, source)
	if err != nil {
		return nil, err
	}
	e.cache.Put(e.engine.Language(), source, callable)
	return callable, nil
}
