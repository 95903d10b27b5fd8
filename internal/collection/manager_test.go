package collection

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Web-Oliver/pokemon-collection/internal/gateway"
	"github.com/Web-Oliver/pokemon-collection/internal/models"
	"github.com/Web-Oliver/pokemon-collection/internal/syncer"
)

// fakeRemote is an in-memory stand-in for the collection API. Mutations
// write straight into the maps, so a refresh after a mutation observes
// the same state a real backend would serve.
type fakeRemote struct {
	mu      sync.Mutex
	psa     map[string]models.PsaCard
	raw     map[string]models.RawCard
	sealed  map[string]models.SealedProduct
	failAll error
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		psa:    make(map[string]models.PsaCard),
		raw:    make(map[string]models.RawCard),
		sealed: make(map[string]models.SealedProduct),
	}
}

func marshalFiltered[T any](items map[string]T, sold func(T) bool, want bool) (json.RawMessage, error) {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if sold(item) == want {
			out = append(out, item)
		}
	}
	return json.Marshal(out)
}

func (f *fakeRemote) ListPsaCards(_ context.Context, sold bool) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return nil, f.failAll
	}
	return marshalFiltered(f.psa, func(c models.PsaCard) bool { return c.Sold }, sold)
}

func (f *fakeRemote) ListRawCards(_ context.Context, sold bool) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return nil, f.failAll
	}
	return marshalFiltered(f.raw, func(c models.RawCard) bool { return c.Sold }, sold)
}

func (f *fakeRemote) ListSealedProducts(_ context.Context, sold bool) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return nil, f.failAll
	}
	return marshalFiltered(f.sealed, func(p models.SealedProduct) bool { return p.Sold }, sold)
}

func (f *fakeRemote) CreatePsaCard(_ context.Context, payload models.PsaCard) (*models.PsaCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if payload.ID == "" {
		payload.ID = fmt.Sprintf("psa-%d", len(f.psa)+1)
	}
	f.psa[payload.ID] = payload
	return &payload, nil
}

func (f *fakeRemote) UpdatePsaCard(_ context.Context, id string, payload models.PsaCardUpdate) (*models.PsaCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	card, ok := f.psa[id]
	if !ok {
		return nil, gateway.ErrNotFound
	}
	if payload.MyPrice != nil {
		card.MyPrice = *payload.MyPrice
	}
	if payload.Grade != nil {
		card.Grade = *payload.Grade
	}
	f.psa[id] = card
	return &card, nil
}

func (f *fakeRemote) DeletePsaCard(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.psa[id]; !ok {
		return gateway.ErrNotFound
	}
	delete(f.psa, id)
	return nil
}

func (f *fakeRemote) CreateRawCard(_ context.Context, payload models.RawCard) (*models.RawCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if payload.ID == "" {
		payload.ID = fmt.Sprintf("raw-%d", len(f.raw)+1)
	}
	f.raw[payload.ID] = payload
	return &payload, nil
}

func (f *fakeRemote) UpdateRawCard(_ context.Context, id string, payload models.RawCardUpdate) (*models.RawCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	card, ok := f.raw[id]
	if !ok {
		return nil, gateway.ErrNotFound
	}
	if payload.MyPrice != nil {
		card.MyPrice = *payload.MyPrice
	}
	if payload.Condition != nil {
		card.Condition = *payload.Condition
	}
	f.raw[id] = card
	return &card, nil
}

func (f *fakeRemote) DeleteRawCard(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.raw[id]; !ok {
		return gateway.ErrNotFound
	}
	delete(f.raw, id)
	return nil
}

func (f *fakeRemote) CreateSealedProduct(_ context.Context, payload models.SealedProduct) (*models.SealedProduct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if payload.ID == "" {
		payload.ID = fmt.Sprintf("sealed-%d", len(f.sealed)+1)
	}
	f.sealed[payload.ID] = payload
	return &payload, nil
}

func (f *fakeRemote) UpdateSealedProduct(_ context.Context, id string, payload models.SealedProductUpdate) (*models.SealedProduct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	product, ok := f.sealed[id]
	if !ok {
		return nil, gateway.ErrNotFound
	}
	if payload.MyPrice != nil {
		product.MyPrice = *payload.MyPrice
	}
	f.sealed[id] = product
	return &product, nil
}

func (f *fakeRemote) DeleteSealedProduct(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sealed[id]; !ok {
		return gateway.ErrNotFound
	}
	delete(f.sealed, id)
	return nil
}

func (f *fakeRemote) MarkPsaCardSold(_ context.Context, id string, details models.SaleDetails) (*models.PsaCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	card, ok := f.psa[id]
	if !ok {
		return nil, gateway.ErrNotFound
	}
	if card.Sold {
		return nil, &gateway.ValidationError{Message: "Item is already sold"}
	}
	card.Sold = true
	card.SaleDetails = &details
	f.psa[id] = card
	return &card, nil
}

func (f *fakeRemote) MarkRawCardSold(_ context.Context, id string, details models.SaleDetails) (*models.RawCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	card, ok := f.raw[id]
	if !ok {
		return nil, gateway.ErrNotFound
	}
	if card.Sold {
		return nil, &gateway.ValidationError{Message: "Item is already sold"}
	}
	card.Sold = true
	card.SaleDetails = &details
	f.raw[id] = card
	return &card, nil
}

func (f *fakeRemote) MarkSealedProductSold(_ context.Context, id string, details models.SaleDetails) (*models.SealedProduct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	product, ok := f.sealed[id]
	if !ok {
		return nil, gateway.ErrNotFound
	}
	if product.Sold {
		return nil, &gateway.ValidationError{Message: "Item is already sold"}
	}
	product.Sold = true
	product.SaleDetails = &details
	f.sealed[id] = product
	return &product, nil
}

func newTestManager(remote gateway.Remote) *Manager {
	return New(Config{
		Remote: remote,
		SyncOptions: []syncer.Option{
			syncer.WithLogf(func(string, ...any) {}),
			syncer.WithCacheTTL(time.Nanosecond),
		},
	})
}

func TestStartLoadsCollections(t *testing.T) {
	remote := newFakeRemote()
	remote.psa["psa-1"] = models.PsaCard{ID: "psa-1", CardName: "Charizard", Grade: 10, MyPrice: 5000}
	remote.raw["raw-1"] = models.RawCard{ID: "raw-1", CardName: "Blastoise", Condition: "NM"}

	m := newTestManager(remote)
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer m.Close()

	if got := m.PsaCards(); len(got) != 1 || got[0].CardName != "Charizard" {
		t.Errorf("Unexpected psa cards: %+v", got)
	}
	if got := m.RawCards(); len(got) != 1 {
		t.Errorf("Expected 1 raw card, got %d", len(got))
	}
	if got := m.SealedProducts(); len(got) != 0 {
		t.Errorf("Expected no sealed products, got %d", len(got))
	}
	if m.Loading() {
		t.Error("Loading should be false after Start returns")
	}
	if m.Err() != "" {
		t.Errorf("Expected no error, got %q", m.Err())
	}
}

func TestAddInsertsOptimistically(t *testing.T) {
	remote := newFakeRemote()
	m := newTestManager(remote)
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer m.Close()

	card, err := m.AddPsaCard(context.Background(), models.PsaCard{CardName: "Pikachu Illustrator", Grade: 9, MyPrice: 100000})
	if err != nil {
		t.Fatalf("AddPsaCard failed: %v", err)
	}
	if card.ID == "" {
		t.Fatal("Created card has no id")
	}

	// Visible immediately, without waiting for a refresh.
	if got := m.PsaCards(); len(got) != 1 || got[0].ID != card.ID {
		t.Errorf("Card not inserted into local state: %+v", got)
	}

	// A refresh confirms the same state from the backend.
	if err := m.RefreshCollection(context.Background()); err != nil {
		t.Fatalf("RefreshCollection failed: %v", err)
	}
	if got := m.PsaCards(); len(got) != 1 || got[0].ID != card.ID {
		t.Errorf("Refresh disagreed with optimistic insert: %+v", got)
	}
}

func TestUpdateReplacesInPlace(t *testing.T) {
	remote := newFakeRemote()
	remote.psa["psa-1"] = models.PsaCard{ID: "psa-1", CardName: "Charizard", Grade: 9, MyPrice: 3000}

	m := newTestManager(remote)
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer m.Close()

	newPrice := 4500.0
	card, err := m.UpdatePsaCard(context.Background(), "psa-1", models.PsaCardUpdate{MyPrice: &newPrice})
	if err != nil {
		t.Fatalf("UpdatePsaCard failed: %v", err)
	}
	if card.MyPrice != newPrice {
		t.Errorf("Expected price %v, got %v", newPrice, card.MyPrice)
	}
	if got := m.PsaCards(); len(got) != 1 || got[0].MyPrice != newPrice {
		t.Errorf("Local state not updated: %+v", got)
	}
}

func TestDeleteRemovesLocally(t *testing.T) {
	remote := newFakeRemote()
	remote.raw["raw-1"] = models.RawCard{ID: "raw-1", CardName: "Blastoise"}

	m := newTestManager(remote)
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer m.Close()

	if err := m.DeleteRawCard(context.Background(), "raw-1"); err != nil {
		t.Fatalf("DeleteRawCard failed: %v", err)
	}
	if got := m.RawCards(); len(got) != 0 {
		t.Errorf("Card still present after delete: %+v", got)
	}
}

func TestMarkSoldMovesItemAcrossCollections(t *testing.T) {
	remote := newFakeRemote()
	remote.psa["psa-1"] = models.PsaCard{ID: "psa-1", CardName: "Charizard", Grade: 10, MyPrice: 5000}

	m := newTestManager(remote)
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer m.Close()

	details := models.SaleDetails{
		PaymentMethod:   "PayPal",
		ActualSoldPrice: 5500,
		DeliveryMethod:  "Shipped",
		BuyerFullName:   "John Doe",
		DateSold:        time.Now(),
	}
	card, err := m.MarkPsaCardSold(context.Background(), "psa-1", details)
	if err != nil {
		t.Fatalf("MarkPsaCardSold failed: %v", err)
	}
	if !card.Sold {
		t.Error("Returned card is not flagged sold")
	}

	if got := m.PsaCards(); len(got) != 0 {
		t.Errorf("Sold card still in the active collection: %+v", got)
	}
	sold := m.SoldItems()
	if len(sold) != 1 {
		t.Fatalf("Expected exactly 1 sold item, got %d", len(sold))
	}
	if sold[0].ID != "psa-1" || !sold[0].Sold {
		t.Errorf("Unexpected sold item: %+v", sold[0])
	}
	if sold[0].SaleDetails.ActualSoldPrice != 5500 || sold[0].SaleDetails.BuyerFullName != "John Doe" {
		t.Errorf("Sale details lost in the move: %+v", sold[0].SaleDetails)
	}

	// The backend agrees after a full refresh.
	if err := m.RefreshCollection(context.Background()); err != nil {
		t.Fatalf("RefreshCollection failed: %v", err)
	}
	if got := m.PsaCards(); len(got) != 0 {
		t.Errorf("Sold card reappeared after refresh: %+v", got)
	}
	if got := m.SoldItems(); len(got) != 1 {
		t.Errorf("Expected 1 sold item after refresh, got %d", len(got))
	}
}

func TestMarkSoldTwiceFails(t *testing.T) {
	remote := newFakeRemote()
	remote.raw["raw-1"] = models.RawCard{ID: "raw-1", CardName: "Blastoise"}

	m := newTestManager(remote)
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer m.Close()

	details := models.SaleDetails{PaymentMethod: "Cash", ActualSoldPrice: 50, DeliveryMethod: "Local Meetup", DateSold: time.Now()}
	if _, err := m.MarkRawCardSold(context.Background(), "raw-1", details); err != nil {
		t.Fatalf("First MarkRawCardSold failed: %v", err)
	}
	if _, err := m.MarkRawCardSold(context.Background(), "raw-1", details); err == nil {
		t.Fatal("Second MarkRawCardSold should fail")
	}
	if m.Err() == "" {
		t.Error("Expected a surfaced error message")
	}
	if got := m.SoldItems(); len(got) != 1 {
		t.Errorf("Expected 1 sold item, got %d", len(got))
	}
}

func TestErrPriorityAndClearError(t *testing.T) {
	remote := newFakeRemote()
	m := newTestManager(remote)
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer m.Close()

	// Provoke an executor error and a fetch error at the same time.
	if err := m.DeletePsaCard(context.Background(), "missing"); err == nil {
		t.Fatal("Delete of a missing card should fail")
	}
	remote.mu.Lock()
	remote.failAll = fmt.Errorf("backend down")
	remote.mu.Unlock()
	if err := m.RefreshCollection(context.Background()); err == nil {
		t.Fatal("Refresh against a dead backend should fail")
	}

	// Executor errors outrank the fetch error.
	if got := m.Err(); got != "Failed to delete PSA card" {
		t.Errorf("Expected the executor error first, got %q", got)
	}

	m.ClearError()
	if m.Err() != "" {
		t.Errorf("Expected no error after ClearError, got %q", m.Err())
	}
	m.ClearError() // idempotent
	if m.Err() != "" {
		t.Errorf("Second ClearError changed state: %q", m.Err())
	}
}
