// Package kvstore provides the durable key/value backends behind the cache layer
// and the refresh cursor.
//
// None of the backends understand expiry. Callers that need TTL semantics store
// an envelope with an absolute expiry (see core/cache).
//
// # Backends
//
//   - MemoryStore: in-process map, used in tests and single-shot CLI runs.
//   - GormStore: one row per key in the kv_entries table (mysql or sqlite).
//   - ObjectStore: one object per key under a prefix in the storage bucket.
//
// # Usage
//
//	store, err := kvstore.New(ctx, cfg.Cache.Durable, db, client, cfg.Storage)
//	value, ok, err := store.Get(ctx, "refresh:cursor")
package kvstore
