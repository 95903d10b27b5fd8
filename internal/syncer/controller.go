// Package syncer keeps the entity store consistent with the remote
// collection API. It owns the six-way fetch-and-replace sequence, the
// cross-page refresh signals, and post-mutation cache invalidation.
package syncer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Web-Oliver/pokemon-collection/internal/gateway"
	"github.com/Web-Oliver/pokemon-collection/internal/metrics"
	"github.com/Web-Oliver/pokemon-collection/internal/models"
	"github.com/Web-Oliver/pokemon-collection/internal/signal"
	"github.com/Web-Oliver/pokemon-collection/internal/store"
	"github.com/Web-Oliver/pokemon-collection/internal/validate"
)

// flagRefreshDelay lets navigation-adjacent writes settle before the
// needs-refresh flag triggers its one refresh.
const flagRefreshDelay = 200 * time.Millisecond

const fetchErrMsg = "Failed to load collection"

// Controller orchestrates initial load, explicit refresh, cross-page
// refresh events, and the read-once needs-refresh flag. Overlapping
// refreshes are allowed to run; a monotonic sequence guard discards
// the results of any refresh that is no longer the latest, so a stale
// completion can never clobber fresher data.
type Controller struct {
	remote gateway.Lister
	store  *store.Store
	bus    *signal.Bus
	flag   *signal.Flag
	logf   validate.Logf

	cache *scopeCache

	mu       sync.Mutex
	inFlight int
	errMsg   string

	seq atomic.Uint64

	events    <-chan signal.Event
	done      chan struct{}
	wg        sync.WaitGroup
	startOnce sync.Once
	closeOnce sync.Once
}

type Option func(*Controller)

// WithLogf overrides the diagnostic logger.
func WithLogf(logf validate.Logf) Option {
	return func(c *Controller) { c.logf = logf }
}

// WithCacheTTL overrides how long an untouched scope stays fresh.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Controller) { c.cache = newScopeCache(ttl) }
}

func New(remote gateway.Lister, st *store.Store, bus *signal.Bus, flag *signal.Flag, opts ...Option) *Controller {
	c := &Controller{
		remote: remote,
		store:  st,
		bus:    bus,
		flag:   flag,
		logf:   log.Printf,
		cache:  newScopeCache(defaultCacheTTL),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start performs the mount sequence: subscribe to cross-page update
// events, honor a pending needs-refresh flag with one delayed refresh,
// then run the initial load. Safe to call once per Controller.
func (c *Controller) Start(ctx context.Context) error {
	var err error
	c.startOnce.Do(func() {
		if c.bus != nil {
			c.events = c.bus.Subscribe()
			c.wg.Add(1)
			go c.eventLoop(ctx)
		}

		if c.flag != nil && c.flag.TakeAndClear() {
			c.wg.Add(1)
			go c.delayedRefresh(ctx)
		}

		err = c.Refresh(ctx)
	})
	return err
}

// Close unsubscribes from the bus and waits for the event loop so no
// listener outlives the controller.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.bus != nil && c.events != nil {
			c.bus.Unsubscribe(c.events)
		}
		c.wg.Wait()
	})
}

func (c *Controller) eventLoop(ctx context.Context) {
	defer c.wg.Done()
	for {
		select {
		case _, ok := <-c.events:
			if !ok {
				return
			}
			// The event means another page wrote data this cache never
			// saw; cached scopes are stale by definition.
			c.cache.purge()
			if err := c.Refresh(ctx); err != nil {
				c.logf("syncer: refresh after cross-page update failed: %v", err)
			}
		case <-c.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (c *Controller) delayedRefresh(ctx context.Context) {
	defer c.wg.Done()
	select {
	case <-time.After(flagRefreshDelay):
	case <-c.done:
		return
	case <-ctx.Done():
		return
	}
	// The flag was set by a write on another page, so the mount refresh
	// that just ran cached pre-write data.
	c.cache.purge()
	if err := c.Refresh(ctx); err != nil {
		c.logf("syncer: flagged refresh failed: %v", err)
	}
}

// Refresh runs the six parallel fetches (sold and unsold variants of
// all three entity types), validates every list, and atomically
// replaces the four collections. All six must succeed; any failure
// resets the store to empty and records a fetch error (fail-closed).
func (c *Controller) Refresh(ctx context.Context) error {
	mySeq := c.seq.Add(1)
	c.beginFetch()
	defer c.endFetch()

	started := time.Now()

	var (
		psaActive, psaSold       json.RawMessage
		rawActive, rawSold       json.RawMessage
		sealedActive, sealedSold json.RawMessage
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		psaActive, err = c.fetchScope(gctx, ScopePsaCards, false)
		return err
	})
	g.Go(func() (err error) {
		psaSold, err = c.fetchScope(gctx, ScopePsaCards, true)
		return err
	})
	g.Go(func() (err error) {
		rawActive, err = c.fetchScope(gctx, ScopeRawCards, false)
		return err
	})
	g.Go(func() (err error) {
		rawSold, err = c.fetchScope(gctx, ScopeRawCards, true)
		return err
	})
	g.Go(func() (err error) {
		sealedActive, err = c.fetchScope(gctx, ScopeSealedProducts, false)
		return err
	})
	g.Go(func() (err error) {
		sealedSold, err = c.fetchScope(gctx, ScopeSealedProducts, true)
		return err
	})

	if err := g.Wait(); err != nil {
		if !c.isLatest(mySeq) {
			metrics.RefreshTotal.WithLabelValues("discarded").Inc()
			return fmt.Errorf("refresh collection: %w", err)
		}
		c.store.Reset()
		c.setError(fetchErrMsg)
		metrics.RefreshTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("refresh collection: %w", err)
	}

	psa := validate.Items[models.PsaCard](psaActive, "psa-cards", c.logf)
	raw := validate.Items[models.RawCard](rawActive, "raw-cards", c.logf)
	sealed := validate.Items[models.SealedProduct](sealedActive, "sealed-products", c.logf)
	sold := mergeSold(
		validate.Items[models.PsaCard](psaSold, "sold psa-cards", c.logf),
		validate.Items[models.RawCard](rawSold, "sold raw-cards", c.logf),
		validate.Items[models.SealedProduct](sealedSold, "sold sealed-products", c.logf),
	)

	if !c.isLatest(mySeq) {
		c.logf("syncer: discarding stale refresh (seq %d, latest %d)", mySeq, c.seq.Load())
		metrics.RefreshTotal.WithLabelValues("discarded").Inc()
		return nil
	}

	c.store.ReplaceAll(psa, raw, sealed, sold)
	c.setError("")
	metrics.RefreshTotal.WithLabelValues("ok").Inc()
	metrics.RefreshDuration.Observe(time.Since(started).Seconds())
	return nil
}

// fetchScope serves one list variant from the scope cache when fresh,
// hitting the remote otherwise.
func (c *Controller) fetchScope(ctx context.Context, scope Scope, sold bool) (json.RawMessage, error) {
	if raw, ok := c.cache.get(scope, sold); ok {
		return raw, nil
	}

	var (
		raw json.RawMessage
		err error
	)
	switch scope {
	case ScopePsaCards:
		raw, err = c.remote.ListPsaCards(ctx, sold)
	case ScopeRawCards:
		raw, err = c.remote.ListRawCards(ctx, sold)
	case ScopeSealedProducts:
		raw, err = c.remote.ListSealedProducts(ctx, sold)
	default:
		return nil, fmt.Errorf("unknown fetch scope %q", scope)
	}
	if err != nil {
		return nil, err
	}
	c.cache.put(scope, sold, raw)
	return raw, nil
}

// Invalidate marks the given query scopes stale so the next refresh
// refetches them. Called after every successful mutation.
func (c *Controller) Invalidate(scopes ...Scope) {
	c.cache.invalidate(scopes...)
}

// Loading reports whether any refresh is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight > 0
}

// Err returns the current fetch error message, "" when none.
func (c *Controller) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// ClearError resets the fetch error and purges the scope cache so the
// next refresh refetches everything rather than replaying a cached
// failure-adjacent view.
func (c *Controller) ClearError() {
	c.setError("")
	c.cache.purge()
}

func (c *Controller) isLatest(seq uint64) bool {
	return c.seq.Load() == seq
}

func (c *Controller) beginFetch() {
	c.mu.Lock()
	c.inFlight++
	c.mu.Unlock()
}

func (c *Controller) endFetch() {
	c.mu.Lock()
	c.inFlight--
	c.mu.Unlock()
}

func (c *Controller) setError(msg string) {
	c.mu.Lock()
	c.errMsg = msg
	c.mu.Unlock()
}

// mergeSold flattens the three sold lists into one collection ordered
// by sale date, newest first, with id as the tiebreaker so the merge
// is deterministic.
func mergeSold(psa []models.PsaCard, raw []models.RawCard, sealed []models.SealedProduct) []models.SoldItem {
	sold := make([]models.SoldItem, 0, len(psa)+len(raw)+len(sealed))
	for _, c := range psa {
		sold = append(sold, models.SoldFromPsaCard(c))
	}
	for _, c := range raw {
		sold = append(sold, models.SoldFromRawCard(c))
	}
	for _, p := range sealed {
		sold = append(sold, models.SoldFromSealedProduct(p))
	}
	sort.SliceStable(sold, func(i, j int) bool {
		if !sold[i].SaleDetails.DateSold.Equal(sold[j].SaleDetails.DateSold) {
			return sold[i].SaleDetails.DateSold.After(sold[j].SaleDetails.DateSold)
		}
		return sold[i].ID < sold[j].ID
	})
	return sold
}
