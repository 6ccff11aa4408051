package pricing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"collection-pricer/core/reconcile"
	"collection-pricer/feature/inventory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// catalogServer serves a minimal card API plus an FX endpoint at /fx.
type catalogServer struct {
	*httptest.Server
	cardHits   atomic.Int32
	searchHits atomic.Int32
	failCards  atomic.Int32
}

func newCatalogServer(t *testing.T) *catalogServer {
	t.Helper()
	cs := &catalogServer{}
	cs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fx" {
			rates := map[string]string{"EUR": `{"rates":{"GBP":0.5}}`, "USD": `{"rates":{"GBP":0.8}}`}
			_, _ = w.Write([]byte(rates[r.URL.Query().Get("base")]))
			return
		}
		if r.Header.Get("X-Api-Key") != "key" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		switch {
		case r.URL.Path == "/v2/sets":
			cs.searchHits.Add(1)
			assert.Equal(t, `name:"Base"`, r.URL.Query().Get("q"))
			_, _ = w.Write([]byte(`{"data":[{"id":"base1","name":"Base"}]}`))
		case r.URL.Path == "/v2/cards":
			cs.searchHits.Add(1)
			assert.Equal(t, `set.id:base1 name:"Charizard"`, r.URL.Query().Get("q"))
			_, _ = w.Write([]byte(`{"data":[{"id":"base1-99","rarity":"Common"},{"id":"base1-4","rarity":"Rare Holo"}]}`))
		case r.URL.Path == "/v2/cards/base1-4":
			cs.cardHits.Add(1)
			if cs.failCards.Load() > 0 {
				cs.failCards.Add(-1)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_, _ = w.Write([]byte(`{"data":{"id":"base1-4","cardmarket":{"prices":{
				"averageSellPrice":10,"trendPrice":12,"lowPrice":1,"avg1":8,"avg7":0,"avg30":10}}}}`))
		case r.URL.Path == "/v2/cards/base2-1":
			cs.cardHits.Add(1)
			_, _ = w.Write([]byte(`{"data":{"id":"base2-1","tcgplayer":{"prices":{
				"reverseHolofoil":{"market":3},"normal":{"market":0,"mid":2.5}}}}}`))
		case r.URL.Path == "/v2/cards/base3-1":
			cs.cardHits.Add(1)
			_, _ = w.Write([]byte(`{"data":{"id":"base3-1"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(cs.Close)
	return cs
}

func newTestCatalog(t *testing.T, srv *catalogServer, apiKey string) *Catalog {
	t.Helper()
	layer, clk := newTestLayer(t)
	fx := NewFxProvider(FxConfig{BaseURL: srv.URL + "/fx"}, "GBP", layer, clk, zap.NewNop())
	cfg := CatalogConfig{Enabled: true, BaseURL: srv.URL + "/v2", APIKey: apiKey, Weight: 0.7}
	return NewCatalog(cfg, fx, layer, clk, zap.NewNop(), nil)
}

func TestCatalog_CardmarketMedianAfterOutlierRejection(t *testing.T) {
	srv := newCatalogServer(t)
	c := newTestCatalog(t, srv, "key")
	item := testItem()
	item.CatalogID = "base1-4"

	o, ok := c.Fetch(context.Background(), item)
	require.True(t, ok)
	assert.Equal(t, reconcile.SourceCatalog, o.Source)
	// 10, 12, 1, 8, 10 → 1 rejected → median(8, 10, 10, 12) = 10 EUR → 5 GBP
	assert.InDelta(t, 5.0, o.Price, 1e-9)
	assert.Equal(t, 4, o.Samples)
	assert.Equal(t, 0.7, o.Weight)

	_, ok = c.Fetch(context.Background(), item)
	require.True(t, ok)
	assert.Equal(t, int32(1), srv.cardHits.Load(), "second fetch must come from the raw cache")
}

func TestCatalog_TcgplayerFallback(t *testing.T) {
	srv := newCatalogServer(t)
	c := newTestCatalog(t, srv, "key")
	item := testItem()
	item.CatalogID = "base2-1"

	o, ok := c.Fetch(context.Background(), item)
	require.True(t, ok)
	// normal outranks reverseHolofoil; its market is zero so mid is used.
	assert.InDelta(t, 2.0, o.Price, 1e-9)
}

func TestCatalog_NoPricesIsNegative(t *testing.T) {
	srv := newCatalogServer(t)
	c := newTestCatalog(t, srv, "key")
	item := testItem()
	item.CatalogID = "base3-1"

	_, ok := c.Fetch(context.Background(), item)
	assert.False(t, ok)
	_, ok = c.Fetch(context.Background(), item)
	assert.False(t, ok)
	assert.Equal(t, int32(1), srv.cardHits.Load(), "negative results are cached")
}

func TestCatalog_TransportFailureIsNotCached(t *testing.T) {
	srv := newCatalogServer(t)
	srv.failCards.Store(1)
	c := newTestCatalog(t, srv, "key")
	item := testItem()
	item.CatalogID = "base1-4"

	_, ok := c.Fetch(context.Background(), item)
	assert.False(t, ok)

	o, ok := c.Fetch(context.Background(), item)
	require.True(t, ok)
	assert.InDelta(t, 5.0, o.Price, 1e-9)
	assert.Equal(t, int32(2), srv.cardHits.Load())
}

func TestCatalog_ResolvesCardIDBySearch(t *testing.T) {
	srv := newCatalogServer(t)
	c := newTestCatalog(t, srv, "key")
	item := testItem()

	id, ok := c.ResolveCardID(context.Background(), item)
	require.True(t, ok)
	assert.Equal(t, "base1-4", id, "rarity match wins over the first result")

	o, ok := c.Fetch(context.Background(), item)
	require.True(t, ok)
	assert.InDelta(t, 5.0, o.Price, 1e-9)
	assert.Equal(t, int32(2), srv.searchHits.Load(), "set and card IDs are cached")
}

func TestCatalog_UsesKnownSetID(t *testing.T) {
	srv := newCatalogServer(t)
	c := newTestCatalog(t, srv, "key")
	item := testItem()
	item.CatalogSetID = "base1"

	id, ok := c.ResolveCardID(context.Background(), item)
	require.True(t, ok)
	assert.Equal(t, "base1-4", id)
	assert.Equal(t, int32(1), srv.searchHits.Load())
}

func TestCatalog_Enabled(t *testing.T) {
	srv := newCatalogServer(t)

	withKey := newTestCatalog(t, srv, "key")
	assert.True(t, withKey.Enabled(testItem()))
	assert.True(t, withKey.Enabled(inventory.Item{CatalogID: "base1-4"}))
	assert.False(t, withKey.Enabled(inventory.Item{Name: "Charizard"}))

	withoutKey := newTestCatalog(t, srv, "")
	assert.False(t, withoutKey.Enabled(testItem()))
	_, ok := withoutKey.Fetch(context.Background(), testItem())
	assert.False(t, ok)
}

func TestCardmarketPrice(t *testing.T) {
	_, _, ok := cardmarketPrice(nil)
	assert.False(t, ok)

	v, n, ok := cardmarketPrice(map[string]any{"trendPrice": 4.0, "avg7": 0.0})
	require.True(t, ok)
	assert.Equal(t, 4.0, v)
	assert.Equal(t, 1, n)
}

func TestTcgplayerPrice_RemainingVariantsAlphabetical(t *testing.T) {
	v, ok := tcgplayerPrice(map[string]any{
		"unlimitedHolofoil": map[string]any{"low": 9.0},
		"reverseHolofoil":   map[string]any{"market": 3.0},
	})
	require.True(t, ok)
	assert.Equal(t, 3.0, v)
}
