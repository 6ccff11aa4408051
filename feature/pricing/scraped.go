package pricing

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"collection-pricer/core/cache"
	"collection-pricer/core/clock"
	"collection-pricer/core/metrics"
	"collection-pricer/core/reconcile"
	"collection-pricer/core/utils"
	"collection-pricer/feature/inventory"

	"go.uber.org/zap"
)

var (
	priceSpanRe = regexp.MustCompile(`s-item__price[^>]*>\s*([^<]+)<`)
	amountRe    = regexp.MustCompile(`(£|\$|€)\s*([0-9]+(?:\.[0-9]+)?)`)
)

var symbolCurrency = map[string]string{
	"£": "GBP",
	"$": "USD",
	"€": "EUR",
}

// errBudgetDenied marks a lookup that was skipped for lack of budget. It is
// never cached so the item is retried in a later run.
var errBudgetDenied = errors.New("scraped fetch budget exhausted")

// Marketplace prices cards from recently sold listings on a marketplace search
// page. It is slow and rate limited so every network fetch draws on the budget.
type Marketplace struct {
	cfg     ScrapedConfig
	client  *http.Client
	fx      *FxProvider
	budget  *BudgetGuard
	cache   *cache.Layer
	clock   clock.Clock
	logger  *zap.Logger
	metrics *metrics.Manager
}

// NewMarketplace returns the scraped source.
func NewMarketplace(cfg ScrapedConfig, fx *FxProvider, budget *BudgetGuard, layer *cache.Layer, clk clock.Clock, logger *zap.Logger, m *metrics.Manager) *Marketplace {
	return &Marketplace{
		cfg:     cfg,
		client:  &http.Client{Timeout: httpTimeout(cfg.TimeoutSeconds, 20*time.Second)},
		fx:      fx,
		budget:  budget,
		cache:   layer,
		clock:   clk,
		logger:  logger,
		metrics: m,
	}
}

func (s *Marketplace) Tag() reconcile.SourceTag { return reconcile.SourceScraped }

func (s *Marketplace) Enabled(item inventory.Item) bool {
	if !s.cfg.Enabled || item.Name == "" || item.SetName == "" {
		return false
	}
	if s.cfg.OwnedOnly && item.Quantity <= 0 {
		return false
	}
	return true
}

func (s *Marketplace) Fetch(ctx context.Context, item inventory.Item) (*reconcile.Observation, bool) {
	if !s.Enabled(item) {
		return nil, false
	}

	raw, err := cache.Do(ctx, s.cache, cache.NSRawScraped, item.Key, func(ctx context.Context) (rawObservation, bool, error) {
		if !s.budget.TryConsume(ctx) {
			return rawObservation{}, false, errBudgetDenied
		}
		return s.scrape(ctx, item)
	})
	if err != nil {
		return nil, false
	}
	return raw.observation(s.Tag(), s.cfg.Weight)
}

// Query returns the search phrase for item.
func (s *Marketplace) Query(item inventory.Item) string {
	parts := []string{item.Name, item.SetName}
	if s.cfg.QuerySuffix != "" {
		parts = append(parts, s.cfg.QuerySuffix)
	}
	return strings.Join(parts, " ")
}

// SearchURL returns the sold-listings search address for item.
func (s *Marketplace) SearchURL(item inventory.Item) string {
	q := url.Values{
		"_nkw":        {s.Query(item)},
		"LH_Complete": {"1"},
		"LH_Sold":     {"1"},
		"_sop":        {"13"},
		"rt":          {"nc"},
	}
	return s.cfg.SearchURL + "?" + q.Encode()
}

func (s *Marketplace) scrape(ctx context.Context, item inventory.Item) (rawObservation, bool, error) {
	page, err := s.download(ctx, s.SearchURL(item))
	if err != nil {
		s.logger.Debug("Marketplace fetch failed", zap.String("item", item.Key), zap.Error(err))
		s.metrics.SourceFetch(string(s.Tag()), "error")
		return rawObservation{}, false, nil
	}

	now := s.clock.Now()
	prices := reconcile.Positive(s.ExtractPrices(ctx, page))
	if len(prices) < s.cfg.MinSamples {
		s.metrics.SourceFetch(string(s.Tag()), "insufficient")
		return rawObservation{Found: false, Samples: len(prices), ObservedAt: now, Note: "insufficient samples"}, true, nil
	}
	trimmed := reconcile.TrimOutliers(prices, s.cfg.TrimFraction)
	if len(trimmed) < s.cfg.MinSamples {
		s.metrics.SourceFetch(string(s.Tag()), "insufficient")
		return rawObservation{Found: false, Samples: len(trimmed), ObservedAt: now, Note: "insufficient samples after trim"}, true, nil
	}
	med, _ := reconcile.Median(trimmed)

	s.metrics.SourceFetch(string(s.Tag()), "ok")
	return rawObservation{Found: true, Price: reconcile.RoundPennies(med), Samples: len(trimmed), ObservedAt: now}, true, nil
}

// download fetches the page directly and, when that fails and a proxy is
// configured, once more through the proxy.
func (s *Marketplace) download(ctx context.Context, addr string) (string, error) {
	header := http.Header{}
	header.Set("User-Agent", s.cfg.UserAgent)
	header.Set("Accept-Language", "en-GB,en;q=0.9")

	page, err := getText(ctx, s.client, addr, header)
	if err == nil || s.cfg.ProxyURL == "" || ctx.Err() != nil {
		return page, err
	}
	s.logger.Debug("Direct marketplace fetch failed, retrying via proxy", zap.Error(err))
	return getText(ctx, s.client, s.cfg.ProxyURL+addr, header)
}

// ExtractPrices pulls currency amounts out of page, converted to the base
// currency. Each price span yields its first amount, so a range counts once.
// Pages without spans (e.g. proxy text output) are scanned whole. Amounts in
// currencies without a known rate are dropped.
func (s *Marketplace) ExtractPrices(ctx context.Context, page string) []float64 {
	spans := priceSpanRe.FindAllStringSubmatch(page, -1)
	var matches [][]string
	for _, span := range spans {
		if m := amountRe.FindStringSubmatch(cleanAmounts(span[1])); m != nil {
			matches = append(matches, m)
		}
	}
	if len(spans) == 0 {
		matches = amountRe.FindAllStringSubmatch(cleanAmounts(page), -1)
	}

	var out []float64
	for _, m := range matches {
		amount := utils.ToFloat(m[2])
		if amount <= 0 {
			continue
		}
		converted, err := s.fx.Convert(ctx, amount, symbolCurrency[m[1]])
		if err != nil {
			continue
		}
		out = append(out, converted)
	}
	return out
}

var amountNoise = strings.NewReplacer(",", "", "&nbsp;", " ", "\u00a0", " ", "&pound;", "£")

func cleanAmounts(s string) string {
	return amountNoise.Replace(s)
}
