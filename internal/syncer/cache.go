package syncer

import (
	"encoding/json"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Web-Oliver/pokemon-collection/internal/metrics"
)

// Scope names one invalidatable query scope.
type Scope string

const (
	ScopePsaCards       Scope = "psa-cards"
	ScopeRawCards       Scope = "raw-cards"
	ScopeSealedProducts Scope = "sealed-products"
	ScopeSoldItems      Scope = "sold-items"
)

// defaultCacheTTL is how long a fetched list stays fresh. Past it the
// next refresh refetches the scope even without an invalidation.
const defaultCacheTTL = 30 * time.Second

type cacheEntry struct {
	raw       json.RawMessage
	fetchedAt time.Time
}

// scopeCache caches the raw list payload per fetch scope (resource ×
// sold flag). Mutations invalidate exactly the scopes they touch, so
// an untouched scope can be served from cache on the next refresh.
type scopeCache struct {
	entries *lru.Cache[string, cacheEntry]
	ttl     time.Duration
}

func newScopeCache(ttl time.Duration) *scopeCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	// Six fetch scopes exist; eight leaves slack without ever evicting
	// a live one.
	entries, err := lru.New[string, cacheEntry](8)
	if err != nil {
		panic(err) // only possible with a non-positive size
	}
	return &scopeCache{entries: entries, ttl: ttl}
}

func cacheKey(scope Scope, sold bool) string {
	if sold {
		return string(scope) + "?sold=true"
	}
	return string(scope) + "?sold=false"
}

// get returns the cached payload when present and fresh.
func (c *scopeCache) get(scope Scope, sold bool) (json.RawMessage, bool) {
	entry, ok := c.entries.Get(cacheKey(scope, sold))
	if !ok || time.Since(entry.fetchedAt) >= c.ttl {
		metrics.ScopeCacheMisses.Inc()
		return nil, false
	}
	metrics.ScopeCacheHits.Inc()
	return entry.raw, true
}

func (c *scopeCache) put(scope Scope, sold bool, raw json.RawMessage) {
	c.entries.Add(cacheKey(scope, sold), cacheEntry{raw: raw, fetchedAt: time.Now()})
}

// invalidate drops the scopes a mutation touched. The sold-items scope
// maps onto the three sold list variants.
func (c *scopeCache) invalidate(scopes ...Scope) {
	for _, scope := range scopes {
		if scope == ScopeSoldItems {
			c.entries.Remove(cacheKey(ScopePsaCards, true))
			c.entries.Remove(cacheKey(ScopeRawCards, true))
			c.entries.Remove(cacheKey(ScopeSealedProducts, true))
			continue
		}
		c.entries.Remove(cacheKey(scope, false))
	}
}

func (c *scopeCache) purge() {
	c.entries.Purge()
}
