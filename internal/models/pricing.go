package models

import "time"

// AppendPrice appends a history entry for a price change. A repeated
// price is a no-op so the history stays strictly change-driven.
func AppendPrice(history []PriceHistoryEntry, price float64, at time.Time) []PriceHistoryEntry {
	if n := len(history); n > 0 && history[n-1].Price == price {
		return history
	}
	return append(history, PriceHistoryEntry{Price: price, DateUpdated: at})
}

// CurrentPrice returns the latest history entry's price, falling back
// to zero for an empty history.
func CurrentPrice(history []PriceHistoryEntry) float64 {
	if len(history) == 0 {
		return 0
	}
	return history[len(history)-1].Price
}
