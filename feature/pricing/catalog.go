package pricing

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"collection-pricer/core/cache"
	"collection-pricer/core/clock"
	"collection-pricer/core/metrics"
	"collection-pricer/core/reconcile"
	"collection-pricer/feature/inventory"

	"github.com/PaesslerAG/jsonpath"
	"go.uber.org/zap"
)

// cardmarketFields are read in priority order from the EUR price block.
var cardmarketFields = []string{"averageSellPrice", "trendPrice", "lowPrice", "avg1", "avg7", "avg30"}

// tcgplayerVariants are tried first, remaining variants follow alphabetically.
var tcgplayerVariants = []string{"holofoil", "normal", "1stEditionHolofoil", "1stEditionNormal"}

// tcgplayerFields are read in priority order from a USD variant block.
var tcgplayerFields = []string{"market", "mid", "low"}

// Catalog prices cards from a structured catalog API keyed by stable card IDs.
type Catalog struct {
	cfg     CatalogConfig
	client  *http.Client
	fx      *FxProvider
	cache   *cache.Layer
	clock   clock.Clock
	logger  *zap.Logger
	metrics *metrics.Manager
}

// NewCatalog returns the catalog source.
func NewCatalog(cfg CatalogConfig, fx *FxProvider, layer *cache.Layer, clk clock.Clock, logger *zap.Logger, m *metrics.Manager) *Catalog {
	return &Catalog{
		cfg:     cfg,
		client:  &http.Client{Timeout: httpTimeout(cfg.TimeoutSeconds, 15*time.Second)},
		fx:      fx,
		cache:   layer,
		clock:   clk,
		logger:  logger,
		metrics: m,
	}
}

func (c *Catalog) Tag() reconcile.SourceTag { return reconcile.SourceCatalog }

// Configured reports whether an API key is present.
func (c *Catalog) Configured() bool {
	return c.cfg.Enabled && c.cfg.APIKey != ""
}

func (c *Catalog) Enabled(item inventory.Item) bool {
	if !c.Configured() {
		return false
	}
	return item.CatalogID != "" || (item.Name != "" && item.SetName != "")
}

func (c *Catalog) Fetch(ctx context.Context, item inventory.Item) (*reconcile.Observation, bool) {
	if !c.Enabled(item) {
		return nil, false
	}

	id := item.CatalogID
	if id == "" {
		resolved, ok := c.ResolveCardID(ctx, item)
		if !ok {
			c.metrics.SourceFetch(string(c.Tag()), "unmatched")
			return nil, false
		}
		id = resolved
	}

	raw, err := cache.Do(ctx, c.cache, cache.NSRawCatalog, id, func(ctx context.Context) (rawObservation, bool, error) {
		return c.fetchCard(ctx, id)
	})
	if err != nil {
		return nil, false
	}
	return raw.observation(c.Tag(), c.cfg.Weight)
}

// fetchCard loads one card. Transport failures are returned uncached; a card
// without usable prices is cached as a negative.
func (c *Catalog) fetchCard(ctx context.Context, id string) (rawObservation, bool, error) {
	var jobj any
	if err := getJSON(ctx, c.client, c.cfg.BaseURL+"/cards/"+url.PathEscape(id), c.header(), &jobj); err != nil {
		c.logger.Debug("Catalog fetch failed", zap.String("card_id", id), zap.Error(err))
		c.metrics.SourceFetch(string(c.Tag()), "error")
		return rawObservation{}, false, nil
	}

	now := c.clock.Now()
	if eur, n, ok := cardmarketPrice(lookupBlock(jobj, "$.data.cardmarket.prices")); ok {
		if price, err := c.fx.Convert(ctx, eur, "EUR"); err == nil && price > 0 {
			c.metrics.SourceFetch(string(c.Tag()), "ok")
			return rawObservation{Found: true, Price: reconcile.RoundPennies(price), Samples: n, ObservedAt: now, Note: "cardmarket"}, true, nil
		}
	}
	if usd, ok := tcgplayerPrice(lookupBlock(jobj, "$.data.tcgplayer.prices")); ok {
		if price, err := c.fx.Convert(ctx, usd, "USD"); err == nil && price > 0 {
			c.metrics.SourceFetch(string(c.Tag()), "ok")
			return rawObservation{Found: true, Price: reconcile.RoundPennies(price), Samples: 1, ObservedAt: now, Note: "tcgplayer"}, true, nil
		}
	}

	c.metrics.SourceFetch(string(c.Tag()), "empty")
	return rawObservation{Found: false, ObservedAt: now, Note: "no prices"}, true, nil
}

// ResolveCardID finds the catalog card ID for an item by structured search.
// Both the set ID and the card ID are cached for a long time.
func (c *Catalog) ResolveCardID(ctx context.Context, item inventory.Item) (string, bool) {
	setID := item.CatalogSetID
	if setID == "" {
		id, err := cache.Do(ctx, c.cache, cache.NSSetID, strings.ToLower(item.SetName), func(ctx context.Context) (string, bool, error) {
			id, err := c.searchSet(ctx, item.SetName)
			if err != nil {
				c.logger.Debug("Catalog set search failed", zap.String("set", item.SetName), zap.Error(err))
				return "", false, nil
			}
			return id, id != "", nil
		})
		if err != nil {
			return "", false
		}
		setID = id
	}

	id, err := cache.Do(ctx, c.cache, cache.NSCatalogID, item.Key, func(ctx context.Context) (string, bool, error) {
		id, err := c.searchCard(ctx, setID, item)
		if err != nil {
			c.logger.Debug("Catalog card search failed", zap.String("item", item.Key), zap.Error(err))
			return "", false, nil
		}
		return id, id != "", nil
	})
	if err != nil || id == "" {
		return "", false
	}
	return id, true
}

func (c *Catalog) searchSet(ctx context.Context, name string) (string, error) {
	q := url.Values{"q": {fmt.Sprintf("name:%q", name)}, "pageSize": {"5"}}
	var jobj any
	if err := getJSON(ctx, c.client, c.cfg.BaseURL+"/sets?"+q.Encode(), c.header(), &jobj); err != nil {
		return "", err
	}
	sets, _ := lookupList(jobj, "$.data")
	for _, s := range sets {
		m, _ := s.(map[string]any)
		if strings.EqualFold(fmt.Sprint(m["name"]), name) {
			return fmt.Sprint(m["id"]), nil
		}
	}
	if len(sets) > 0 {
		if m, ok := sets[0].(map[string]any); ok {
			return fmt.Sprint(m["id"]), nil
		}
	}
	return "", nil
}

func (c *Catalog) searchCard(ctx context.Context, setID string, item inventory.Item) (string, error) {
	scope := fmt.Sprintf("set.name:%q", item.SetName)
	if setID != "" {
		scope = "set.id:" + setID
	}
	q := url.Values{"q": {fmt.Sprintf("%s name:%q", scope, item.Name)}, "pageSize": {"25"}}
	var jobj any
	if err := getJSON(ctx, c.client, c.cfg.BaseURL+"/cards?"+q.Encode(), c.header(), &jobj); err != nil {
		return "", err
	}
	cards, _ := lookupList(jobj, "$.data")
	first := ""
	for _, card := range cards {
		m, ok := card.(map[string]any)
		if !ok {
			continue
		}
		id := fmt.Sprint(m["id"])
		if first == "" {
			first = id
		}
		if item.Rarity != "" && strings.EqualFold(fmt.Sprint(m["rarity"]), item.Rarity) {
			return id, nil
		}
	}
	return first, nil
}

func (c *Catalog) header() http.Header {
	h := http.Header{}
	h.Set("X-Api-Key", c.cfg.APIKey)
	h.Set("Accept", "application/json")
	return h
}

func lookupBlock(jobj any, path string) map[string]any {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil
	}
	m, _ := jval.(map[string]any)
	return m
}

func lookupList(jobj any, path string) ([]any, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, err
	}
	list, _ := jval.([]any)
	return list, nil
}

// cardmarketPrice reduces the EUR block to one value: the candidates that
// survive one pass of outlier rejection, then their median.
func cardmarketPrice(block map[string]any) (float64, int, bool) {
	var vals []float64
	for _, f := range cardmarketFields {
		if v, ok := block[f].(float64); ok && v > 0 {
			vals = append(vals, v)
		}
	}
	switch len(vals) {
	case 0:
		return 0, 0, false
	case 1:
		return vals[0], 1, true
	}
	kept := reconcile.RejectOutliers(vals, 0.5, 2.0)
	if len(kept) == 0 {
		kept = vals
	}
	med, _ := reconcile.Median(kept)
	return med, len(kept), true
}

// tcgplayerPrice picks the first positive field of the first variant that has one.
func tcgplayerPrice(block map[string]any) (float64, bool) {
	if len(block) == 0 {
		return 0, false
	}
	order := append([]string(nil), tcgplayerVariants...)
	var rest []string
	for k := range block {
		known := false
		for _, v := range tcgplayerVariants {
			if k == v {
				known = true
				break
			}
		}
		if !known {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	order = append(order, rest...)

	for _, variant := range order {
		entry, ok := block[variant].(map[string]any)
		if !ok {
			continue
		}
		for _, f := range tcgplayerFields {
			if v, ok := entry[f].(float64); ok && v > 0 {
				return v, true
			}
		}
	}
	return 0, false
}
