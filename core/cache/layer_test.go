package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"collection-pricer/core/clock"
	"collection-pricer/core/kvstore"
	"collection-pricer/core/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLayer(t *testing.T) (*Layer, *clock.Fake, *MemoryTier, *kvstore.MemoryStore) {
	t.Helper()
	clk := clock.NewFake(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	eph := NewMemoryTier(clk)
	dur := kvstore.NewMemoryStore()
	return NewLayer(eph, dur, DefaultConfig(), WithClock(clk)), clk, eph, dur
}

func TestKey(t *testing.T) {
	k := Key(NSPrice, "base set|4|holo")
	assert.True(t, strings.HasPrefix(k, "price:"))
	assert.NotContains(t, k[len("price:"):], "/")

	long1 := Key(NSPrice, strings.Repeat("x", 200)+"a")
	long2 := Key(NSPrice, strings.Repeat("x", 200)+"b")
	assert.LessOrEqual(t, len(long1), len("price:")+maxEncodedKey)
	assert.NotEqual(t, long1, long2)
}

func TestLayer_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	l, clk, _, _ := newTestLayer(t)

	require.NoError(t, l.Put(ctx, NSPrice, "item", []byte(`12.5`)))

	clk.Advance(8*time.Hour - time.Second)
	v, ok := l.Get(ctx, NSPrice, "item")
	assert.True(t, ok)
	assert.Equal(t, "12.5", string(v))

	clk.Advance(2 * time.Second)
	_, ok = l.Get(ctx, NSPrice, "item")
	assert.False(t, ok, "entry must be absent after its TTL elapsed")
}

func TestLayer_NamespacesHaveIndependentTTLs(t *testing.T) {
	ctx := context.Background()
	l, clk, _, _ := newTestLayer(t)

	require.NoError(t, l.Put(ctx, NSPrice, "k", []byte(`1`)))
	require.NoError(t, l.Put(ctx, NSFx, "k", []byte(`2`)))

	clk.Advance(9 * time.Hour)
	_, ok := l.Get(ctx, NSPrice, "k")
	assert.False(t, ok)
	v, ok := l.Get(ctx, NSFx, "k")
	assert.True(t, ok)
	assert.Equal(t, "2", string(v))
}

func TestLayer_DurableHitRehydratesWithRemainingTTL(t *testing.T) {
	ctx := context.Background()
	l, clk, eph, _ := newTestLayer(t)

	require.NoError(t, l.Put(ctx, NSPrice, "item", []byte(`"v"`)))
	require.NoError(t, eph.Delete(ctx, Key(NSPrice, "item")))

	clk.Advance(6 * time.Hour)
	_, ok := l.Get(ctx, NSPrice, "item")
	require.True(t, ok)

	// Rehydrated with the ~2h that were left, not a fresh 8h.
	_, ok, _ = eph.Get(ctx, Key(NSPrice, "item"))
	assert.True(t, ok)
	clk.Advance(2*time.Hour + time.Second)
	_, ok, _ = eph.Get(ctx, Key(NSPrice, "item"))
	assert.False(t, ok)
}

func TestLayer_CorruptDurableEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	l, _, _, dur := newTestLayer(t)

	require.NoError(t, dur.Set(ctx, Key(NSPrice, "item"), []byte("{not json")))
	_, ok := l.Get(ctx, NSPrice, "item")
	assert.False(t, ok)

	var out struct{ Price float64 }
	require.NoError(t, l.Put(ctx, NSPrice, "other", []byte(`"a string"`)))
	assert.False(t, l.GetJSON(ctx, NSPrice, "other", &out))
}

type brokenEphemeral struct{}

func (brokenEphemeral) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("down")
}
func (brokenEphemeral) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("down")
}
func (brokenEphemeral) Delete(context.Context, string) error { return errors.New("down") }

func TestLayer_EphemeralFailureFallsBackToDurable(t *testing.T) {
	ctx := context.Background()
	l := NewLayer(brokenEphemeral{}, kvstore.NewMemoryStore(), DefaultConfig())

	require.NoError(t, l.Put(ctx, NSFx, "USD:GBP", []byte(`0.79`)))
	v, ok := l.Get(ctx, NSFx, "USD:GBP")
	assert.True(t, ok)
	assert.Equal(t, "0.79", string(v))
	assert.NoError(t, l.Delete(ctx, NSFx, "USD:GBP"))
}

func TestLayer_RedisUnavailableDegrades(t *testing.T) {
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer client.Close()

	l := NewLayer(NewRedisTier(client), kvstore.NewMemoryStore(), DefaultConfig())
	require.NoError(t, l.Put(ctx, NSSetID, "base set", []byte(`"base1"`)))

	v, ok := l.Get(ctx, NSSetID, "base set")
	assert.True(t, ok)
	assert.Equal(t, `"base1"`, string(v))
}

func TestLayer_PutTTLOverride(t *testing.T) {
	ctx := context.Background()
	l, clk, _, _ := newTestLayer(t)

	require.NoError(t, l.PutTTL(ctx, NSFx, "EUR:GBP", []byte(`0.85`), time.Hour))
	clk.Advance(61 * time.Minute)
	_, ok := l.Get(ctx, NSFx, "EUR:GBP")
	assert.False(t, ok)
}

func TestLayer_Metrics(t *testing.T) {
	ctx := context.Background()
	m := metrics.NewManager()
	l := NewLayer(NewMemoryTier(nil), kvstore.NewMemoryStore(), DefaultConfig(), WithMetrics(m))

	l.Get(ctx, NSPrice, "absent")
	require.NoError(t, l.Put(ctx, NSPrice, "present", []byte(`1`)))
	l.Get(ctx, NSPrice, "present")

	assert.Equal(t, 2, testutil.CollectAndCount(m.Registry(), "pricer_cache_lookups_total"))
}

func TestDo(t *testing.T) {
	ctx := context.Background()

	t.Run("LoadsOnceAndCaches", func(t *testing.T) {
		l, _, _, _ := newTestLayer(t)
		var calls int32
		load := func(context.Context) (float64, bool, error) {
			atomic.AddInt32(&calls, 1)
			return 3.5, true, nil
		}

		for i := 0; i < 3; i++ {
			v, err := Do(ctx, l, NSRawCatalog, "card", load)
			require.NoError(t, err)
			assert.Equal(t, 3.5, v)
		}
		assert.Equal(t, int32(1), calls)
	})

	t.Run("SkipsStoreWhenAsked", func(t *testing.T) {
		l, _, _, _ := newTestLayer(t)
		var calls int32
		load := func(context.Context) (string, bool, error) {
			atomic.AddInt32(&calls, 1)
			return "transient", false, nil
		}

		_, _ = Do(ctx, l, NSRawScraped, "q", load)
		_, _ = Do(ctx, l, NSRawScraped, "q", load)
		assert.Equal(t, int32(2), calls)
	})

	t.Run("PropagatesErrors", func(t *testing.T) {
		l, _, _, _ := newTestLayer(t)
		_, err := Do(ctx, l, NSFx, "x", func(context.Context) (int, bool, error) {
			return 0, true, errors.New("boom")
		})
		assert.EqualError(t, err, "boom")
		_, ok := l.Get(ctx, NSFx, "x")
		assert.False(t, ok)
	})

	t.Run("CollapsesConcurrentMisses", func(t *testing.T) {
		l, _, _, _ := newTestLayer(t)
		var calls int32
		release := make(chan struct{})
		load := func(context.Context) (int, bool, error) {
			atomic.AddInt32(&calls, 1)
			<-release
			return 7, true, nil
		}

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, err := Do(ctx, l, NSCatalogID, "same", load)
				assert.NoError(t, err)
				assert.Equal(t, 7, v)
			}()
		}
		time.Sleep(20 * time.Millisecond)
		close(release)
		wg.Wait()
		assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(2))
	})
}
