package kvstore

import (
	"context"
	"fmt"

	"collection-pricer/core/storage"

	"gorm.io/gorm"
)

// Store is a durable string-keyed byte store without native expiry.
type Store interface {
	// Get returns the value for key. A missing key is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

const (
	BackendMemory = "memory"
	BackendSQL    = "sql"
	BackendObject = "object"
)

// New builds the durable store selected by backend.
// db and client may be nil when the backend does not need them.
func New(ctx context.Context, backend string, db *gorm.DB, client storage.Client, storageCfg storage.Config) (Store, error) {
	switch backend {
	case BackendMemory, "":
		return NewMemoryStore(), nil
	case BackendSQL:
		if db == nil {
			return nil, fmt.Errorf("durable backend %q needs a database connection", backend)
		}
		s := NewGormStore(db)
		if err := s.Migrate(ctx); err != nil {
			return nil, err
		}
		return s, nil
	case BackendObject:
		if client == nil {
			return nil, fmt.Errorf("durable backend %q needs a storage client", backend)
		}
		s := NewObjectStore(client, storageCfg.Bucket, storageCfg.Prefix)
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown durable backend %q", backend)
	}
}
