// Package collection is the facade the UI layer consumes. It composes
// the entity store, the synchronization controller, the four CRUD
// executors, and the image exporter behind one surface: four read-only
// collections, twelve CRUD operations, refresh, and merged
// loading/error state.
package collection

import (
	"context"
	"io"

	"github.com/Web-Oliver/pokemon-collection/internal/executor"
	"github.com/Web-Oliver/pokemon-collection/internal/export"
	"github.com/Web-Oliver/pokemon-collection/internal/gateway"
	"github.com/Web-Oliver/pokemon-collection/internal/models"
	"github.com/Web-Oliver/pokemon-collection/internal/signal"
	"github.com/Web-Oliver/pokemon-collection/internal/store"
	"github.com/Web-Oliver/pokemon-collection/internal/syncer"
)

// Config wires the manager's collaborators explicitly. Bus and Flag
// are shared with other pages; nil disables the respective signal.
type Config struct {
	Remote   gateway.Remote
	Bus      *signal.Bus
	Flag     *signal.Flag
	Notifier executor.Notifier
	Exporter *export.ImageExporter

	SyncOptions []syncer.Option
}

// Manager owns the collection state for one mounted page.
type Manager struct {
	store    *store.Store
	syncer   *syncer.Controller
	psa      *executor.PsaCardExecutor
	raw      *executor.RawCardExecutor
	sealed   *executor.SealedProductExecutor
	sales    *executor.SalesExecutor
	exporter *export.ImageExporter
}

func New(cfg Config) *Manager {
	st := store.New()
	exporter := cfg.Exporter
	if exporter == nil {
		exporter = export.NewImageExporter(nil)
	}
	return &Manager{
		store:    st,
		syncer:   syncer.New(cfg.Remote, st, cfg.Bus, cfg.Flag, cfg.SyncOptions...),
		psa:      executor.NewPsaCardExecutor(cfg.Remote, cfg.Notifier),
		raw:      executor.NewRawCardExecutor(cfg.Remote, cfg.Notifier),
		sealed:   executor.NewSealedProductExecutor(cfg.Remote, cfg.Notifier),
		sales:    executor.NewSalesExecutor(cfg.Remote, cfg.Notifier),
		exporter: exporter,
	}
}

// Start runs the mount sequence: event subscription, the pending
// needs-refresh flag, and the initial load.
func (m *Manager) Start(ctx context.Context) error {
	return m.syncer.Start(ctx)
}

// Close tears down the cross-page subscription.
func (m *Manager) Close() {
	m.syncer.Close()
}

// PsaCards returns the active graded card collection.
func (m *Manager) PsaCards() []models.PsaCard { return m.store.PsaCards() }

// RawCards returns the active raw card collection.
func (m *Manager) RawCards() []models.RawCard { return m.store.RawCards() }

// SealedProducts returns the active sealed product collection.
func (m *Manager) SealedProducts() []models.SealedProduct { return m.store.SealedProducts() }

// SoldItems returns the derived sold collection.
func (m *Manager) SoldItems() []models.SoldItem { return m.store.SoldItems() }

// RefreshCollection re-runs the full fetch-and-replace sequence.
func (m *Manager) RefreshCollection(ctx context.Context) error {
	return m.syncer.Refresh(ctx)
}

func (m *Manager) AddPsaCard(ctx context.Context, payload models.PsaCard) (*models.PsaCard, error) {
	card, err := m.psa.Add(ctx, payload)
	if err != nil {
		return nil, err
	}
	m.store.UpsertPsaCard(*card)
	m.syncer.Invalidate(syncer.ScopePsaCards)
	return card, nil
}

func (m *Manager) UpdatePsaCard(ctx context.Context, id string, payload models.PsaCardUpdate) (*models.PsaCard, error) {
	card, err := m.psa.Update(ctx, id, payload)
	if err != nil {
		return nil, err
	}
	m.store.UpsertPsaCard(*card)
	m.syncer.Invalidate(syncer.ScopePsaCards)
	return card, nil
}

func (m *Manager) DeletePsaCard(ctx context.Context, id string) error {
	if err := m.psa.Delete(ctx, id); err != nil {
		return err
	}
	m.store.RemovePsaCard(id)
	m.syncer.Invalidate(syncer.ScopePsaCards)
	return nil
}

func (m *Manager) MarkPsaCardSold(ctx context.Context, id string, details models.SaleDetails) (*models.PsaCard, error) {
	card, err := m.sales.MarkPsaCardSold(ctx, id, details)
	if err != nil {
		return nil, err
	}
	m.store.MoveToSold(models.SoldFromPsaCard(*card))
	m.syncer.Invalidate(syncer.ScopePsaCards, syncer.ScopeSoldItems)
	return card, nil
}

func (m *Manager) AddRawCard(ctx context.Context, payload models.RawCard) (*models.RawCard, error) {
	card, err := m.raw.Add(ctx, payload)
	if err != nil {
		return nil, err
	}
	m.store.UpsertRawCard(*card)
	m.syncer.Invalidate(syncer.ScopeRawCards)
	return card, nil
}

func (m *Manager) UpdateRawCard(ctx context.Context, id string, payload models.RawCardUpdate) (*models.RawCard, error) {
	card, err := m.raw.Update(ctx, id, payload)
	if err != nil {
		return nil, err
	}
	m.store.UpsertRawCard(*card)
	m.syncer.Invalidate(syncer.ScopeRawCards)
	return card, nil
}

func (m *Manager) DeleteRawCard(ctx context.Context, id string) error {
	if err := m.raw.Delete(ctx, id); err != nil {
		return err
	}
	m.store.RemoveRawCard(id)
	m.syncer.Invalidate(syncer.ScopeRawCards)
	return nil
}

func (m *Manager) MarkRawCardSold(ctx context.Context, id string, details models.SaleDetails) (*models.RawCard, error) {
	card, err := m.sales.MarkRawCardSold(ctx, id, details)
	if err != nil {
		return nil, err
	}
	m.store.MoveToSold(models.SoldFromRawCard(*card))
	m.syncer.Invalidate(syncer.ScopeRawCards, syncer.ScopeSoldItems)
	return card, nil
}

func (m *Manager) AddSealedProduct(ctx context.Context, payload models.SealedProduct) (*models.SealedProduct, error) {
	product, err := m.sealed.Add(ctx, payload)
	if err != nil {
		return nil, err
	}
	m.store.UpsertSealedProduct(*product)
	m.syncer.Invalidate(syncer.ScopeSealedProducts)
	return product, nil
}

func (m *Manager) UpdateSealedProduct(ctx context.Context, id string, payload models.SealedProductUpdate) (*models.SealedProduct, error) {
	product, err := m.sealed.Update(ctx, id, payload)
	if err != nil {
		return nil, err
	}
	m.store.UpsertSealedProduct(*product)
	m.syncer.Invalidate(syncer.ScopeSealedProducts)
	return product, nil
}

func (m *Manager) DeleteSealedProduct(ctx context.Context, id string) error {
	if err := m.sealed.Delete(ctx, id); err != nil {
		return err
	}
	m.store.RemoveSealedProduct(id)
	m.syncer.Invalidate(syncer.ScopeSealedProducts)
	return nil
}

func (m *Manager) MarkSealedProductSold(ctx context.Context, id string, details models.SaleDetails) (*models.SealedProduct, error) {
	product, err := m.sales.MarkSealedProductSold(ctx, id, details)
	if err != nil {
		return nil, err
	}
	m.store.MoveToSold(models.SoldFromSealedProduct(*product))
	m.syncer.Invalidate(syncer.ScopeSealedProducts, syncer.ScopeSoldItems)
	return product, nil
}

// ExportImages archives every image attached to the active collections.
func (m *Manager) ExportImages(ctx context.Context, w io.Writer) (int, error) {
	var items []export.Item
	for _, c := range m.store.PsaCards() {
		items = append(items, export.Item{ID: c.ID, Images: c.Images})
	}
	for _, c := range m.store.RawCards() {
		items = append(items, export.Item{ID: c.ID, Images: c.Images})
	}
	for _, p := range m.store.SealedProducts() {
		items = append(items, export.Item{ID: p.ID, Images: p.Images})
	}
	return m.exporter.ExportZip(ctx, w, items)
}

// Loading ORs every in-flight flag: list fetches, the four CRUD
// executors, and the image exporter.
func (m *Manager) Loading() bool {
	return m.syncer.Loading() ||
		m.psa.Loading() ||
		m.raw.Loading() ||
		m.sealed.Loading() ||
		m.sales.Loading() ||
		m.exporter.Loading()
}

// Err returns the first error in fixed priority order. Executor errors
// outrank the fetch error: a failed user-initiated action is more
// actionable than a stale background load.
func (m *Manager) Err() string {
	for _, errMsg := range []string{
		m.psa.Err(),
		m.raw.Err(),
		m.sealed.Err(),
		m.sales.Err(),
		m.syncer.Err(),
	} {
		if errMsg != "" {
			return errMsg
		}
	}
	return ""
}

// ClearError fans out to every constituent error slot. The fetch side
// also resets its scope cache so the next refresh refetches.
func (m *Manager) ClearError() {
	m.psa.ClearError()
	m.raw.ClearError()
	m.sealed.ClearError()
	m.sales.ClearError()
	m.syncer.ClearError()
	m.exporter.ClearError()
}
