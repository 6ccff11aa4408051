package refresh

import (
	"context"
	"sync"
	"testing"
	"time"

	"collection-pricer/core/clock"
	"collection-pricer/core/kvstore"
	"collection-pricer/core/reconcile"
	"collection-pricer/feature/inventory"

	"go.uber.org/zap"
)

var t0 = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

// fakeResolver prices items by name; names without a price are unresolved.
type fakeResolver struct {
	mu        sync.Mutex
	prices    map[string]float64
	calls     []string
	prefetch  int
	afterCall func(n int)
	// onPrefetch, when set, runs inside Prefetch with its context.
	onPrefetch func(ctx context.Context)
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{prices: map[string]float64{
		"Charizard": 100,
		"Blastoise": 50,
		"Venusaur":  6,
		"Scyther":   20,
		"Snorlax":   4,
		"Mew":       12,
	}}
}

func (r *fakeResolver) Resolve(_ context.Context, item inventory.Item) reconcile.Resolution {
	r.mu.Lock()
	r.calls = append(r.calls, item.Name)
	n := len(r.calls)
	price, ok := r.prices[item.Name]
	hook := r.afterCall
	r.mu.Unlock()

	if hook != nil {
		defer hook(n)
	}
	if !ok {
		return reconcile.Resolution{Method: reconcile.MethodUnresolved}
	}
	return reconcile.Resolution{Price: &price, Method: reconcile.MethodSingleSource, Confidence: 0.625, Coverage: 1}
}

func (r *fakeResolver) Prefetch(ctx context.Context, items []inventory.Item, _ int) {
	r.mu.Lock()
	r.prefetch += len(items)
	hook := r.onPrefetch
	r.mu.Unlock()

	if hook != nil {
		hook(ctx)
	}
}

func (r *fakeResolver) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

type fakeBudget struct {
	used     int
	resets   int
	restored []int
}

func (b *fakeBudget) Reset()        { b.resets++; b.used = 0 }
func (b *fakeBudget) Restore(n int) { b.restored = append(b.restored, n); b.used = n }
func (b *fakeBudget) Used() int     { return b.used }

type fakeSnapshots struct{ captured int }

func (f *fakeSnapshots) Capture(context.Context) error { f.captured++; return nil }

func ago(d time.Duration) *time.Time {
	t := t0.Add(-d)
	return &t
}

func price(v float64) *float64 { return &v }

// fixture builds two sets:
//
//	Base:   Charizard (owned, no price), Blastoise (unowned, no price),
//	        Venusaur (owned, stale), Pikachu (owned, fresh), a nameless row
//	Jungle: Scyther (owned, no price), Snorlax (unowned, stale),
//	        Mew (owned, priced without timestamp), Ghost (owned, stale, unpriceable)
func fixture() *inventory.MemoryInventory {
	sets := []inventory.Set{
		{ID: 1, Name: "Base", Position: 0, Enabled: true},
		{ID: 2, Name: "Jungle", Position: 1, Enabled: true},
		{ID: 3, Name: "Disabled", Position: 2, Enabled: false},
	}
	rows := map[uint][]inventory.Row{
		1: {
			{ID: 1, Name: "Charizard", Quantity: 1},
			{ID: 2, Name: "Blastoise", Quantity: 0},
			{ID: 3, Name: "Venusaur", Quantity: 2, Cond: "LP", Price: price(5), PricedAt: ago(48 * time.Hour)},
			{ID: 4, Name: "Pikachu", Quantity: 1, Price: price(1), PricedAt: ago(time.Hour)},
			{ID: 5, Name: "", Quantity: 1},
		},
		2: {
			{ID: 6, Name: "Scyther", Quantity: 1},
			{ID: 7, Name: "Snorlax", Quantity: 0, Price: price(3), PricedAt: ago(72 * time.Hour)},
			{ID: 8, Name: "Mew", Quantity: 1, Price: price(9)},
			{ID: 9, Name: "Ghost", Quantity: 1, Price: price(2)},
		},
		3: {
			{ID: 10, Name: "Hidden", Quantity: 1},
		},
	}
	return inventory.NewMemoryInventory(sets, rows)
}

type harness struct {
	scheduler *Scheduler
	inv       *inventory.MemoryInventory
	resolver  *fakeResolver
	budget    *fakeBudget
	store     *kvstore.MemoryStore
	clock     *clock.Fake
	snapshots *fakeSnapshots
}

func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()
	h := &harness{
		inv:       fixture(),
		resolver:  newFakeResolver(),
		budget:    &fakeBudget{},
		store:     kvstore.NewMemoryStore(),
		clock:     clock.NewFake(t0),
		snapshots: &fakeSnapshots{},
	}
	h.scheduler = NewScheduler(cfg, Deps{
		Inventory: h.inv,
		Resolver:  h.resolver,
		Budget:    h.budget,
		Store:     h.store,
		Clock:     h.clock,
		Logger:    zap.NewNop(),
		Snapshots: h.snapshots,
	})
	return h
}

func testConfig(batch int) Config {
	cfg := DefaultConfig()
	cfg.BatchSize = batch
	return cfg
}

// outcome is the part of a row that must not depend on how a run was split.
type outcome struct {
	Price      *float64
	Total      float64
	Confidence float64
	Method     string
	ItemKey    string
}

func outcomes(inv *inventory.MemoryInventory) map[uint]outcome {
	out := make(map[uint]outcome)
	for id, r := range inv.Snapshot() {
		out[id] = outcome{Price: r.Price, Total: r.Total, Confidence: r.Confidence, Method: r.Method, ItemKey: r.ItemKey}
	}
	return out
}
