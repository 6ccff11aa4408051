// Package inventory holds the collection: sets of rows, one row per card entry.
//
// It is the boundary between raw stored rows and the typed Item the pricing engine
// works with. Rows are read per set and priced results are written back in batches.
//
// # Storage
//
// The Store keeps two gorm tables:
//
//   - collection_sets: one row per set, ordered by position; only enabled sets are refreshed.
//   - collection_rows: one row per card entry, ordered by position within its set.
//
// # Import
//
// Importer reads a CSV export of one set. Headers are matched after normalisation
// ("Card ID", "card_id" and "CARDID" are the same column).
package inventory
