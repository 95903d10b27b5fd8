package models

import (
	"time"
)

type ItemKind string

const (
	KindPsaCard       ItemKind = "psa"
	KindRawCard       ItemKind = "raw"
	KindSealedProduct ItemKind = "sealed"
)

// Entity is the minimal contract every collection item satisfies.
// The response validator relies on it to reject id-less payloads.
type Entity interface {
	GetID() string
}

// PriceHistoryEntry is one append-only price point. The current MyPrice
// on an item always matches the latest entry.
type PriceHistoryEntry struct {
	Price       float64   `json:"price"`
	DateUpdated time.Time `json:"dateUpdated"`
}

// SaleDetails records how an item left the collection.
type SaleDetails struct {
	PaymentMethod    string    `json:"paymentMethod"`
	ActualSoldPrice  float64   `json:"actualSoldPrice"`
	DeliveryMethod   string    `json:"deliveryMethod"`
	Source           string    `json:"source,omitempty"`
	BuyerFullName    string    `json:"buyerFullName"`
	BuyerAddress     string    `json:"buyerAddress,omitempty"`
	BuyerPhoneNumber string    `json:"buyerPhoneNumber,omitempty"`
	BuyerEmail       string    `json:"buyerEmail,omitempty"`
	TrackingNumber   string    `json:"trackingNumber,omitempty"`
	DateSold         time.Time `json:"dateSold"`
}

// PsaCard is a graded card slabbed by PSA.
type PsaCard struct {
	ID           string              `json:"id" gorm:"primaryKey"`
	CardName     string              `json:"cardName" gorm:"index"`
	SetName      string              `json:"setName"`
	CardNumber   string              `json:"cardNumber"`
	Grade        int                 `json:"grade"`
	MyPrice      float64             `json:"myPrice"`
	Images       []string            `json:"images" gorm:"serializer:json"`
	PriceHistory []PriceHistoryEntry `json:"priceHistory" gorm:"serializer:json"`
	DateAdded    time.Time           `json:"dateAdded"`
	Sold         bool                `json:"sold" gorm:"index"`
	SaleDetails  *SaleDetails        `json:"saleDetails,omitempty" gorm:"serializer:json"`
}

func (c PsaCard) GetID() string { return c.ID }

// RawCard is an ungraded card tracked by condition.
type RawCard struct {
	ID           string              `json:"id" gorm:"primaryKey"`
	CardName     string              `json:"cardName" gorm:"index"`
	SetName      string              `json:"setName"`
	CardNumber   string              `json:"cardNumber"`
	Condition    string              `json:"condition"`
	MyPrice      float64             `json:"myPrice"`
	Images       []string            `json:"images" gorm:"serializer:json"`
	PriceHistory []PriceHistoryEntry `json:"priceHistory" gorm:"serializer:json"`
	DateAdded    time.Time           `json:"dateAdded"`
	Sold         bool                `json:"sold" gorm:"index"`
	SaleDetails  *SaleDetails        `json:"saleDetails,omitempty" gorm:"serializer:json"`
}

func (c RawCard) GetID() string { return c.ID }

// SealedProduct is an unopened product (booster box, ETB, tin, ...).
type SealedProduct struct {
	ID           string              `json:"id" gorm:"primaryKey"`
	ProductName  string              `json:"productName" gorm:"index"`
	SetName      string              `json:"setName"`
	Category     string              `json:"category"`
	MyPrice      float64             `json:"myPrice"`
	Images       []string            `json:"images" gorm:"serializer:json"`
	PriceHistory []PriceHistoryEntry `json:"priceHistory" gorm:"serializer:json"`
	DateAdded    time.Time           `json:"dateAdded"`
	Sold         bool                `json:"sold" gorm:"index"`
	SaleDetails  *SaleDetails        `json:"saleDetails,omitempty" gorm:"serializer:json"`
}

func (p SealedProduct) GetID() string { return p.ID }

// SoldItem is the flattened view of any sold entity, regardless of kind.
type SoldItem struct {
	Kind        ItemKind    `json:"itemKind"`
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	SetName     string      `json:"setName"`
	Grade       int         `json:"grade,omitempty"`
	Condition   string      `json:"condition,omitempty"`
	Category    string      `json:"category,omitempty"`
	MyPrice     float64     `json:"myPrice"`
	Images      []string    `json:"images"`
	DateAdded   time.Time   `json:"dateAdded"`
	Sold        bool        `json:"sold"`
	SaleDetails SaleDetails `json:"saleDetails"`
}

func (s SoldItem) GetID() string { return s.ID }

// SoldFromPsaCard flattens a sold PSA card. A nil SaleDetails on the
// source becomes the zero record rather than a nil dereference; the
// server always attaches details on mark-sold, but remote payloads are
// not trusted that far.
func SoldFromPsaCard(c PsaCard) SoldItem {
	item := SoldItem{
		Kind:      KindPsaCard,
		ID:        c.ID,
		Name:      c.CardName,
		SetName:   c.SetName,
		Grade:     c.Grade,
		MyPrice:   c.MyPrice,
		Images:    c.Images,
		DateAdded: c.DateAdded,
		Sold:      true,
	}
	if c.SaleDetails != nil {
		item.SaleDetails = *c.SaleDetails
	}
	return item
}

func SoldFromRawCard(c RawCard) SoldItem {
	item := SoldItem{
		Kind:      KindRawCard,
		ID:        c.ID,
		Name:      c.CardName,
		SetName:   c.SetName,
		Condition: c.Condition,
		MyPrice:   c.MyPrice,
		Images:    c.Images,
		DateAdded: c.DateAdded,
		Sold:      true,
	}
	if c.SaleDetails != nil {
		item.SaleDetails = *c.SaleDetails
	}
	return item
}

func SoldFromSealedProduct(p SealedProduct) SoldItem {
	item := SoldItem{
		Kind:      KindSealedProduct,
		ID:        p.ID,
		Name:      p.ProductName,
		SetName:   p.SetName,
		Category:  p.Category,
		MyPrice:   p.MyPrice,
		Images:    p.Images,
		DateAdded: p.DateAdded,
		Sold:      true,
	}
	if p.SaleDetails != nil {
		item.SaleDetails = *p.SaleDetails
	}
	return item
}
