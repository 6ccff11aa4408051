// Package database handles database connections and schema inspection.
//
// It wraps GORM to configure MySQL or SQLite connections from the application's
// configuration. The connection backs the durable key/value tier, the inventory
// tables and the value log.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns let stores detect columns that an older
// schema lacks (for example the confidence and method columns written by the
// refresh engine) before migrating.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "collection_rows", []string{"confidence"})
package database
