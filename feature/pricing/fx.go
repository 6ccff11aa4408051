package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"collection-pricer/core/cache"
	"collection-pricer/core/clock"

	"github.com/PaesslerAG/jsonpath"
	"go.uber.org/zap"
)

// ErrUnknownPair is returned when neither the FX endpoint nor the static table
// knows a currency pair.
var ErrUnknownPair = errors.New("no exchange rate for currency pair")

// staticRates are used when the FX endpoint is unavailable.
var staticRates = map[string]float64{
	"USD:GBP": 0.78,
	"EUR:GBP": 0.85,
}

// FxRate is the cached form of an exchange rate.
type FxRate struct {
	Pair      string    `json:"pair"`
	Rate      float64   `json:"rate"`
	FetchedAt time.Time `json:"fetched_at"`
	Fallback  bool      `json:"fallback,omitempty"`
}

// FxProvider converts amounts into the base currency.
type FxProvider struct {
	cfg    FxConfig
	base   string
	client *http.Client
	cache  *cache.Layer
	clock  clock.Clock
	logger *zap.Logger
}

// NewFxProvider returns a provider converting into base.
func NewFxProvider(cfg FxConfig, base string, layer *cache.Layer, clk clock.Clock, logger *zap.Logger) *FxProvider {
	return &FxProvider{
		cfg:    cfg,
		base:   strings.ToUpper(base),
		client: &http.Client{Timeout: httpTimeout(cfg.TimeoutSeconds, 10*time.Second)},
		cache:  layer,
		clock:  clk,
		logger: logger,
	}
}

// Base returns the target currency.
func (p *FxProvider) Base() string {
	return p.base
}

// Rate returns how many units of the base currency one unit of from is worth.
func (p *FxProvider) Rate(ctx context.Context, from string) (float64, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	if from == p.base {
		return 1, nil
	}
	pair := from + ":" + p.base

	var cached FxRate
	if p.cache.GetJSON(ctx, cache.NSFx, pair, &cached) && cached.Rate > 0 {
		return cached.Rate, nil
	}

	rate, err := p.fetch(ctx, from)
	if err == nil {
		entry := FxRate{Pair: pair, Rate: rate, FetchedAt: p.clock.Now()}
		if err := p.cache.PutJSON(ctx, cache.NSFx, pair, entry); err != nil {
			p.logger.Warn("Failed to cache exchange rate", zap.String("pair", pair), zap.Error(err))
		}
		return rate, nil
	}
	p.logger.Debug("Exchange rate fetch failed", zap.String("pair", pair), zap.Error(err))

	fallback, ok := staticRates[pair]
	if !ok {
		return 0, fmt.Errorf("%w %s", ErrUnknownPair, pair)
	}
	entry := FxRate{Pair: pair, Rate: fallback, FetchedAt: p.clock.Now(), Fallback: true}
	if raw, err := json.Marshal(entry); err == nil {
		_ = p.cache.PutTTL(ctx, cache.NSFx, pair, raw, p.cfg.FallbackTTL)
	}
	return fallback, nil
}

// Convert converts amount from the given currency into the base currency.
func (p *FxProvider) Convert(ctx context.Context, amount float64, from string) (float64, error) {
	rate, err := p.Rate(ctx, from)
	if err != nil {
		return 0, err
	}
	return amount * rate, nil
}

func (p *FxProvider) fetch(ctx context.Context, from string) (float64, error) {
	if p.cfg.BaseURL == "" {
		return 0, errors.New("fx endpoint not configured")
	}
	q := url.Values{"base": {from}, "symbols": {p.base}}
	addr := p.cfg.BaseURL + "?" + q.Encode()

	var jobj any
	if err := getJSON(ctx, p.client, addr, nil, &jobj); err != nil {
		return 0, err
	}
	path := "$.rates." + p.base
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return 0, fmt.Errorf("error parsing %q: %w", path, err)
	}
	rate, ok := jval.(float64)
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("error parsing %q: not a positive number: %v", path, jval)
	}
	return rate, nil
}
