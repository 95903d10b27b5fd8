package database

import (
	"log"

	"gorm.io/gorm"
)

// RunMigrations runs custom data migrations after schema changes.
// Every migration is idempotent; it only touches rows that still carry
// the legacy shape.
func RunMigrations(db *gorm.DB) error {
	for _, table := range []string{"psa_cards", "raw_cards", "sealed_products"} {
		if err := seedPriceHistory(db, table); err != nil {
			return err
		}
		normalizeSoldFlag(db, table)
	}
	return nil
}

// seedPriceHistory backfills the price history column for rows created
// before history tracking existed, seeding one entry at the current
// price so the invariant "current price == latest history entry" holds.
func seedPriceHistory(db *gorm.DB, table string) error {
	if !db.Migrator().HasTable(table) {
		return nil
	}
	if !db.Migrator().HasColumn(table, "price_history") {
		return nil
	}

	result := db.Exec(`
		UPDATE ` + table + `
		SET price_history = json_array(json_object(
			'price', my_price,
			'dateUpdated', COALESCE(date_added, datetime('now'))
		))
		WHERE price_history IS NULL OR price_history = '' OR price_history = 'null' OR price_history = '[]'
	`)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("Seeded price history for %d %s rows", result.RowsAffected, table)
	}
	return nil
}

// normalizeSoldFlag maps legacy NULL sold markers to false so the
// sold/unsold list filters partition every row.
func normalizeSoldFlag(db *gorm.DB, table string) {
	if !db.Migrator().HasTable(table) {
		return
	}
	result := db.Exec(`UPDATE ` + table + ` SET sold = 0 WHERE sold IS NULL`)
	if result.Error != nil {
		log.Printf("Warning: failed to normalize sold flag on %s: %v", table, result.Error)
	}
}
