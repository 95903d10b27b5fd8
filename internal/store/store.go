// Package store holds the four in-memory collections that back the UI:
// graded cards, raw cards, sealed products, and the derived sold list.
// The store is the single owner of this state; writes happen only as
// whole-collection replacement or single-item insert/replace/remove so
// readers always observe an internally consistent snapshot.
package store

import (
	"sync"

	"github.com/Web-Oliver/pokemon-collection/internal/metrics"
	"github.com/Web-Oliver/pokemon-collection/internal/models"
)

type Store struct {
	mu             sync.RWMutex
	psaCards       []models.PsaCard
	rawCards       []models.RawCard
	sealedProducts []models.SealedProduct
	soldItems      []models.SoldItem
}

func New() *Store {
	return &Store{}
}

// PsaCards returns a copy of the graded card collection.
func (s *Store) PsaCards() []models.PsaCard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.PsaCard, len(s.psaCards))
	copy(out, s.psaCards)
	return out
}

// RawCards returns a copy of the raw card collection.
func (s *Store) RawCards() []models.RawCard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.RawCard, len(s.rawCards))
	copy(out, s.rawCards)
	return out
}

// SealedProducts returns a copy of the sealed product collection.
func (s *Store) SealedProducts() []models.SealedProduct {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.SealedProduct, len(s.sealedProducts))
	copy(out, s.sealedProducts)
	return out
}

// SoldItems returns a copy of the sold collection.
func (s *Store) SoldItems() []models.SoldItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.SoldItem, len(s.soldItems))
	copy(out, s.soldItems)
	return out
}

// ReplaceAll swaps all four collections in one critical section. Used
// by the synchronization controller after a successful six-way fetch
// so readers never see a partial mix of old and fresh data.
func (s *Store) ReplaceAll(psa []models.PsaCard, raw []models.RawCard, sealed []models.SealedProduct, sold []models.SoldItem) {
	s.mu.Lock()
	s.psaCards = psa
	s.rawCards = raw
	s.sealedProducts = sealed
	s.soldItems = sold
	s.mu.Unlock()
	s.publishSizes()
}

// Reset empties all four collections (the fail-closed path).
func (s *Store) Reset() {
	s.ReplaceAll(nil, nil, nil, nil)
}

// UpsertPsaCard replaces the card with the same id in place, or
// appends it when absent.
func (s *Store) UpsertPsaCard(card models.PsaCard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.psaCards {
		if s.psaCards[i].ID == card.ID {
			s.psaCards[i] = card
			return
		}
	}
	s.psaCards = append(s.psaCards, card)
}

func (s *Store) UpsertRawCard(card models.RawCard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rawCards {
		if s.rawCards[i].ID == card.ID {
			s.rawCards[i] = card
			return
		}
	}
	s.rawCards = append(s.rawCards, card)
}

func (s *Store) UpsertSealedProduct(product models.SealedProduct) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sealedProducts {
		if s.sealedProducts[i].ID == product.ID {
			s.sealedProducts[i] = product
			return
		}
	}
	s.sealedProducts = append(s.sealedProducts, product)
}

// RemovePsaCard deletes the card by id. Returns false when no card
// with that id was present.
func (s *Store) RemovePsaCard(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.psaCards {
		if s.psaCards[i].ID == id {
			s.psaCards = append(s.psaCards[:i], s.psaCards[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Store) RemoveRawCard(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rawCards {
		if s.rawCards[i].ID == id {
			s.rawCards = append(s.rawCards[:i], s.rawCards[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Store) RemoveSealedProduct(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sealedProducts {
		if s.sealedProducts[i].ID == id {
			s.sealedProducts = append(s.sealedProducts[:i], s.sealedProducts[i+1:]...)
			return true
		}
	}
	return false
}

// MoveToSold removes the item from its active collection and appends
// it to the sold collection in a single critical section, so the id
// never appears in both at once.
func (s *Store) MoveToSold(item models.SoldItem) {
	s.mu.Lock()
	switch item.Kind {
	case models.KindPsaCard:
		for i := range s.psaCards {
			if s.psaCards[i].ID == item.ID {
				s.psaCards = append(s.psaCards[:i], s.psaCards[i+1:]...)
				break
			}
		}
	case models.KindRawCard:
		for i := range s.rawCards {
			if s.rawCards[i].ID == item.ID {
				s.rawCards = append(s.rawCards[:i], s.rawCards[i+1:]...)
				break
			}
		}
	case models.KindSealedProduct:
		for i := range s.sealedProducts {
			if s.sealedProducts[i].ID == item.ID {
				s.sealedProducts = append(s.sealedProducts[:i], s.sealedProducts[i+1:]...)
				break
			}
		}
	}
	s.soldItems = append(s.soldItems, item)
	s.mu.Unlock()
	s.publishSizes()
}

func (s *Store) publishSizes() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	metrics.StoreItemsTotal.WithLabelValues("psa").Set(float64(len(s.psaCards)))
	metrics.StoreItemsTotal.WithLabelValues("raw").Set(float64(len(s.rawCards)))
	metrics.StoreItemsTotal.WithLabelValues("sealed").Set(float64(len(s.sealedProducts)))
	metrics.StoreItemsTotal.WithLabelValues("sold").Set(float64(len(s.soldItems)))
}
