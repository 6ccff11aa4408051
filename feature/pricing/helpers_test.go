package pricing

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"collection-pricer/core/cache"
	"collection-pricer/core/clock"
	"collection-pricer/core/kvstore"
	"collection-pricer/core/reconcile"
	"collection-pricer/feature/inventory"
)

func newTestLayer(t *testing.T) (*cache.Layer, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	layer := cache.NewLayer(cache.NewMemoryTier(clk), kvstore.NewMemoryStore(), cache.DefaultConfig(), cache.WithClock(clk))
	return layer, clk
}

// fakeSource returns a fixed observation and counts calls.
type fakeSource struct {
	tag     reconcile.SourceTag
	enabled atomic.Bool
	price   atomic.Value
	calls   atomic.Int32
}

func newFakeSource(tag reconcile.SourceTag, price float64) *fakeSource {
	s := &fakeSource{tag: tag}
	s.enabled.Store(true)
	s.price.Store(price)
	return s
}

func (s *fakeSource) Tag() reconcile.SourceTag { return s.tag }

func (s *fakeSource) Enabled(inventory.Item) bool { return s.enabled.Load() }

func (s *fakeSource) Fetch(_ context.Context, _ inventory.Item) (*reconcile.Observation, bool) {
	s.calls.Add(1)
	price := s.price.Load().(float64)
	if price <= 0 {
		return nil, false
	}
	return &reconcile.Observation{Source: s.tag, Price: price, Weight: 0.7, Samples: 1}, true
}

func testItem() inventory.Item {
	return inventory.Item{
		Key:       inventory.ItemKey("Base", "Charizard", "Rare Holo", ""),
		SetName:   "Base",
		Name:      "Charizard",
		Rarity:    "Rare Holo",
		Quantity:  1,
		Condition: inventory.NearMint,
	}
}
