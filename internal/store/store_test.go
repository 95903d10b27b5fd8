package store

import (
	"testing"
	"time"

	"github.com/Web-Oliver/pokemon-collection/internal/models"
)

func TestReplaceAllAndReset(t *testing.T) {
	s := New()

	s.ReplaceAll(
		[]models.PsaCard{{ID: "psa-1"}},
		[]models.RawCard{{ID: "raw-1"}},
		[]models.SealedProduct{{ID: "sealed-1"}},
		[]models.SoldItem{{ID: "sold-1", Kind: models.KindPsaCard}},
	)

	if len(s.PsaCards()) != 1 || len(s.RawCards()) != 1 || len(s.SealedProducts()) != 1 || len(s.SoldItems()) != 1 {
		t.Fatal("ReplaceAll did not populate all four collections")
	}

	s.Reset()
	if len(s.PsaCards()) != 0 || len(s.RawCards()) != 0 || len(s.SealedProducts()) != 0 || len(s.SoldItems()) != 0 {
		t.Error("Reset did not empty all four collections")
	}
}

func TestUpsertReplacesInPlace(t *testing.T) {
	s := New()
	s.UpsertPsaCard(models.PsaCard{ID: "psa-1", MyPrice: 100})
	s.UpsertPsaCard(models.PsaCard{ID: "psa-2", MyPrice: 200})
	s.UpsertPsaCard(models.PsaCard{ID: "psa-1", MyPrice: 150})

	cards := s.PsaCards()
	if len(cards) != 2 {
		t.Fatalf("Expected 2 cards, got %d", len(cards))
	}
	// Replace keeps position, append keeps insertion order
	if cards[0].ID != "psa-1" || cards[0].MyPrice != 150 {
		t.Errorf("In-place replace failed: %+v", cards[0])
	}
	if cards[1].ID != "psa-2" {
		t.Errorf("Insertion order lost: %+v", cards[1])
	}
}

func TestRemove(t *testing.T) {
	s := New()
	s.UpsertRawCard(models.RawCard{ID: "raw-1"})

	if !s.RemoveRawCard("raw-1") {
		t.Error("Expected removal of existing card to report true")
	}
	if s.RemoveRawCard("raw-1") {
		t.Error("Expected removal of absent card to report false")
	}
	if len(s.RawCards()) != 0 {
		t.Error("Card still present after removal")
	}
}

func TestMoveToSoldExclusivity(t *testing.T) {
	s := New()
	s.UpsertPsaCard(models.PsaCard{ID: "psa-1", CardName: "Charizard"})
	s.UpsertPsaCard(models.PsaCard{ID: "psa-2"})

	sold := models.SoldItem{
		Kind: models.KindPsaCard,
		ID:   "psa-1",
		Name: "Charizard",
		Sold: true,
		SaleDetails: models.SaleDetails{
			ActualSoldPrice: 5500,
			BuyerFullName:   "John Doe",
			DateSold:        time.Now(),
		},
	}
	s.MoveToSold(sold)

	for _, c := range s.PsaCards() {
		if c.ID == "psa-1" {
			t.Error("Sold card still present in active collection")
		}
	}
	soldItems := s.SoldItems()
	if len(soldItems) != 1 {
		t.Fatalf("Expected 1 sold item, got %d", len(soldItems))
	}
	if !soldItems[0].Sold || soldItems[0].SaleDetails.ActualSoldPrice != 5500 {
		t.Errorf("Sold item missing sale details: %+v", soldItems[0])
	}
	if len(s.PsaCards()) != 1 {
		t.Errorf("Expected 1 remaining active card, got %d", len(s.PsaCards()))
	}
}

func TestReadersGetCopies(t *testing.T) {
	s := New()
	s.UpsertSealedProduct(models.SealedProduct{ID: "sealed-1", MyPrice: 100})

	view := s.SealedProducts()
	view[0].MyPrice = 999

	if s.SealedProducts()[0].MyPrice != 100 {
		t.Error("Mutating a reader's view leaked into the store")
	}
}
