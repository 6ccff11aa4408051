package pricing

import (
	"context"
	"errors"
	"sort"
	"strings"

	"collection-pricer/core/cache"
	"collection-pricer/core/clock"
	"collection-pricer/core/metrics"
	"collection-pricer/core/reconcile"
	"collection-pricer/feature/inventory"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNotConfigured is returned by user-invoked lookups when no price source
	// can run.
	ErrNotConfigured = errors.New("no price source configured: set PRICING_CATALOG_API_KEY or PRICING_SCRAPED_ENABLED")
	// ErrNoPriceData is returned when a lookup ends unresolved.
	ErrNoPriceData = errors.New("no price data found for this request")
	// ErrInvalidQuery is returned when a lookup names no card.
	ErrInvalidQuery = errors.New("name or card_id is required")
)

// Service resolves prices for items: manual override, then the price cache,
// then the sources and the reconciler.
type Service struct {
	cfg        Config
	sources    []Source
	reconciler *reconcile.Reconciler
	budget     *BudgetGuard
	fx         *FxProvider
	cache      *cache.Layer
	clock      clock.Clock
	logger     *zap.Logger
	metrics    *metrics.Manager
}

// NewService wires the catalog and marketplace sources over layer.
func NewService(cfg Config, layer *cache.Layer, clk clock.Clock, logger *zap.Logger, m *metrics.Manager) *Service {
	fx := NewFxProvider(cfg.Fx, cfg.Currency, layer, clk, logger)
	budget := NewBudgetGuard(cfg.Budget, logger, m)
	sources := []Source{
		NewCatalog(cfg.Catalog, fx, layer, clk, logger, m),
		NewMarketplace(cfg.Scraped, fx, budget, layer, clk, logger, m),
	}
	return newService(cfg, sources, budget, fx, layer, clk, logger, m)
}

func newService(cfg Config, sources []Source, budget *BudgetGuard, fx *FxProvider, layer *cache.Layer, clk clock.Clock, logger *zap.Logger, m *metrics.Manager) *Service {
	rc := cfg.Reconcile
	rc.Currency = cfg.Currency
	return &Service{
		cfg:        cfg,
		sources:    sources,
		reconciler: reconcile.New(rc),
		budget:     budget,
		fx:         fx,
		cache:      layer,
		clock:      clk,
		logger:     logger,
		metrics:    m,
	}
}

// Budget returns the scraped fetch budget shared by every lookup.
func (s *Service) Budget() *BudgetGuard {
	return s.budget
}

// Currency returns the base currency.
func (s *Service) Currency() string {
	return s.cfg.Currency
}

// CheckConfigured fails when neither source could ever run.
func (s *Service) CheckConfigured() error {
	if s.cfg.Catalog.Enabled && s.cfg.Catalog.APIKey != "" {
		return nil
	}
	if s.cfg.Scraped.Enabled {
		return nil
	}
	return ErrNotConfigured
}

// Mode names the sources that would run for item, e.g. "catalog+scraped".
// Resolutions from different modes never share a cache slot.
func (s *Service) Mode(item inventory.Item) string {
	var tags []string
	for _, src := range s.sources {
		if src.Enabled(item) {
			tags = append(tags, string(src.Tag()))
		}
	}
	sort.Strings(tags)
	return strings.Join(tags, "+")
}

// Resolve prices one item. It never fails: any source problem degrades to
// fewer observations and, at worst, an unresolved result.
func (s *Service) Resolve(ctx context.Context, item inventory.Item) reconcile.Resolution {
	if _, ok := item.Override(); ok {
		res := s.reconciler.Resolve(item, nil)
		s.metrics.Resolution(string(res.Method))
		return res
	}

	mode := s.Mode(item)
	if mode == "" {
		res := s.reconciler.Resolve(item, nil)
		s.metrics.Resolution(string(res.Method))
		return res
	}

	key := item.Key + "|" + mode
	var cached reconcile.Resolution
	if s.cache.GetJSON(ctx, cache.NSPrice, key, &cached) && cached.Resolved() {
		return cached
	}

	var observations []reconcile.Observation
	for _, src := range s.sources {
		if ctx.Err() != nil {
			break
		}
		if !src.Enabled(item) {
			continue
		}
		if o, ok := src.Fetch(ctx, item); ok {
			observations = append(observations, *o)
		}
	}

	res := s.reconciler.Resolve(item, observations)
	s.metrics.Resolution(string(res.Method))
	if res.Resolved() {
		if err := s.cache.PutJSON(ctx, cache.NSPrice, key, res); err != nil {
			s.logger.Warn("Failed to cache resolution", zap.String("item", item.Key), zap.Error(err))
		}
	}
	return res
}

// Prefetch warms the catalog raw cache for items with bounded concurrency. The
// scraped source is never prefetched since it draws on the budget.
func (s *Service) Prefetch(ctx context.Context, items []inventory.Item, limit int) {
	var catalog Source
	for _, src := range s.sources {
		if src.Tag() == reconcile.SourceCatalog {
			catalog = src
		}
	}
	if catalog == nil {
		return
	}
	if limit <= 0 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, item := range items {
		if gctx.Err() != nil {
			break
		}
		if _, ok := item.Override(); ok || !catalog.Enabled(item) {
			continue
		}
		g.Go(func() error {
			catalog.Fetch(gctx, item)
			return nil
		})
	}
	_ = g.Wait()
}

// Query is a user-facing price request.
type Query struct {
	Name      string
	Set       string
	Rarity    string
	CardID    string
	SetID     string
	Quantity  int
	Condition string
	Manual    float64
}

// Quote is the answer to a Query.
type Quote struct {
	Item       inventory.Item       `json:"item"`
	Resolution reconcile.Resolution `json:"resolution"`
	Total      float64              `json:"total"`
	Formatted  string               `json:"formatted"`
}

// Item builds the typed item for q. Lookups count as owned so every source may
// run.
func (q Query) Item() inventory.Item {
	qty := q.Quantity
	if qty <= 0 {
		qty = 1
	}
	set := strings.TrimSpace(q.Set)
	item := inventory.Item{
		Key:          inventory.ItemKey(set, q.Name, q.Rarity, q.CardID),
		SetName:      set,
		Name:         strings.TrimSpace(q.Name),
		Rarity:       strings.TrimSpace(q.Rarity),
		Quantity:     qty,
		Condition:    inventory.ParseCondition(q.Condition),
		ManualPrice:  q.Manual,
		CatalogID:    strings.TrimSpace(q.CardID),
		CatalogSetID: strings.TrimSpace(q.SetID),
	}
	return item
}

// Lookup resolves a single user request. Unlike Resolve it reports failure:
// ErrInvalidQuery, ErrNotConfigured or ErrNoPriceData.
func (s *Service) Lookup(ctx context.Context, q Query) (*Quote, error) {
	if strings.TrimSpace(q.Name) == "" && strings.TrimSpace(q.CardID) == "" {
		return nil, ErrInvalidQuery
	}
	item := q.Item()
	if _, ok := item.Override(); !ok {
		if err := s.CheckConfigured(); err != nil {
			return nil, err
		}
	}

	res := s.Resolve(ctx, item)
	if !res.Resolved() {
		return nil, ErrNoPriceData
	}
	total := item.Total(res.Value())
	return &Quote{
		Item:       item,
		Resolution: res,
		Total:      total,
		Formatted:  reconcile.FormatMoney(res.Value(), s.cfg.Currency),
	}, nil
}
