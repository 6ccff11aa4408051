package cache

import (
	"context"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"time"

	"collection-pricer/core/clock"
	"collection-pricer/core/kvstore"
	"collection-pricer/core/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Namespace partitions the key space; each namespace has its own TTL.
type Namespace string

const (
	NSPrice      Namespace = "price"
	NSRawCatalog Namespace = "raw:catalog"
	NSRawScraped Namespace = "raw:scraped"
	NSFx         Namespace = "fx"
	NSCatalogID  Namespace = "catalog-id"
	NSSetID      Namespace = "set-id"
)

const maxEncodedKey = 80

// envelope is the durable representation of an entry.
type envelope struct {
	Payload   json.RawMessage `json:"payload"`
	StoredAt  time.Time       `json:"stored_at"`
	TTL       time.Duration   `json:"ttl"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// Layer is the two-tier cache.
type Layer struct {
	eph     Ephemeral
	dur     kvstore.Store
	ttls    map[Namespace]time.Duration
	clock   clock.Clock
	log     *zap.Logger
	metrics *metrics.Manager
	sf      singleflight.Group
}

// Option customises a Layer.
type Option func(*Layer)

// WithClock drives expiry from clk instead of the wall clock.
func WithClock(clk clock.Clock) Option {
	return func(l *Layer) { l.clock = clk }
}

// WithLogger sets the logger used for degraded tier reports.
func WithLogger(log *zap.Logger) Option {
	return func(l *Layer) { l.log = log }
}

// WithMetrics records lookups on m.
func WithMetrics(m *metrics.Manager) Option {
	return func(l *Layer) { l.metrics = m }
}

// NewLayer stacks eph over dur with the TTLs from cfg.
func NewLayer(eph Ephemeral, dur kvstore.Store, cfg Config, opts ...Option) *Layer {
	l := &Layer{
		eph:   eph,
		dur:   dur,
		ttls:  cfg.TTLs(),
		clock: clock.System{},
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Key builds the physical key for key in ns. Encoded keys longer than the limit
// are cut and suffixed with a digest of the full key so they stay distinct.
func Key(ns Namespace, key string) string {
	enc := base64.RawURLEncoding.EncodeToString([]byte(key))
	if len(enc) > maxEncodedKey {
		sum := sha1.Sum([]byte(key))
		digest := hex.EncodeToString(sum[:])[:16]
		enc = enc[:maxEncodedKey-len(digest)-1] + "." + digest
	}
	return string(ns) + ":" + enc
}

// TTL returns the configured TTL for ns.
func (l *Layer) TTL(ns Namespace) time.Duration {
	return l.ttls[ns]
}

// Get returns the payload for key in ns.
func (l *Layer) Get(ctx context.Context, ns Namespace, key string) ([]byte, bool) {
	k := Key(ns, key)

	v, ok, err := l.eph.Get(ctx, k)
	if err != nil {
		l.log.Debug("ephemeral cache read failed", zap.String("key", k), zap.Error(err))
	} else if ok {
		l.metrics.CacheLookup(string(ns), metrics.CacheHitEphemeral)
		return v, true
	}

	raw, ok, err := l.dur.Get(ctx, k)
	if err != nil {
		l.log.Warn("durable cache read failed", zap.String("key", k), zap.Error(err))
		l.metrics.CacheLookup(string(ns), metrics.CacheMiss)
		return nil, false
	}
	if !ok {
		l.metrics.CacheLookup(string(ns), metrics.CacheMiss)
		return nil, false
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || len(env.Payload) == 0 {
		l.log.Debug("discarding corrupt cache entry", zap.String("key", k))
		l.metrics.CacheLookup(string(ns), metrics.CacheMiss)
		return nil, false
	}

	remaining := env.ExpiresAt.Sub(l.clock.Now())
	if remaining <= 0 {
		l.metrics.CacheLookup(string(ns), metrics.CacheMiss)
		return nil, false
	}

	if err := l.eph.Set(ctx, k, env.Payload, remaining); err != nil {
		l.log.Debug("ephemeral cache rehydrate failed", zap.String("key", k), zap.Error(err))
	}
	l.metrics.CacheLookup(string(ns), metrics.CacheHitDurable)
	return env.Payload, true
}

// Put writes payload to both tiers with the namespace TTL.
// payload must be valid JSON.
func (l *Layer) Put(ctx context.Context, ns Namespace, key string, payload []byte) error {
	return l.PutTTL(ctx, ns, key, payload, l.TTL(ns))
}

// PutTTL writes payload to both tiers with an explicit TTL.
func (l *Layer) PutTTL(ctx context.Context, ns Namespace, key string, payload []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	k := Key(ns, key)
	now := l.clock.Now()

	if err := l.eph.Set(ctx, k, payload, ttl); err != nil {
		l.log.Debug("ephemeral cache write failed", zap.String("key", k), zap.Error(err))
	}

	raw, err := json.Marshal(envelope{
		Payload:   payload,
		StoredAt:  now,
		TTL:       ttl,
		ExpiresAt: now.Add(ttl),
	})
	if err != nil {
		return err
	}
	return l.dur.Set(ctx, k, raw)
}

// Delete removes key from both tiers.
func (l *Layer) Delete(ctx context.Context, ns Namespace, key string) error {
	k := Key(ns, key)
	if err := l.eph.Delete(ctx, k); err != nil {
		l.log.Debug("ephemeral cache delete failed", zap.String("key", k), zap.Error(err))
	}
	return l.dur.Delete(ctx, k)
}

// GetJSON decodes the cached payload into dst. Undecodable payloads are misses.
func (l *Layer) GetJSON(ctx context.Context, ns Namespace, key string, dst any) bool {
	raw, ok := l.Get(ctx, ns, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		l.log.Debug("discarding undecodable cache payload", zap.String("namespace", string(ns)), zap.Error(err))
		return false
	}
	return true
}

// PutJSON encodes v and writes it with the namespace TTL.
func (l *Layer) PutJSON(ctx context.Context, ns Namespace, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return l.Put(ctx, ns, key, raw)
}

// Loader computes a value on a cache miss. store=false keeps the value out of the
// cache (e.g. transport failures that should be retried next time).
type Loader[T any] func(ctx context.Context) (value T, store bool, err error)

// Do is a read-through lookup: a hit is decoded into T, a miss runs load once per
// key across concurrent callers and writes the result back when load asks for it.
func Do[T any](ctx context.Context, l *Layer, ns Namespace, key string, load Loader[T]) (T, error) {
	var cached T
	if l.GetJSON(ctx, ns, key, &cached) {
		return cached, nil
	}

	v, err, _ := l.sf.Do(Key(ns, key), func() (any, error) {
		var again T
		if l.GetJSON(ctx, ns, key, &again) {
			return again, nil
		}
		value, store, err := load(ctx)
		if err != nil {
			return value, err
		}
		if store {
			if err := l.PutJSON(ctx, ns, key, value); err != nil {
				l.log.Warn("cache write failed", zap.String("namespace", string(ns)), zap.Error(err))
			}
		}
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
