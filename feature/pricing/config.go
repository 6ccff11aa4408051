package pricing

import (
	"time"

	"collection-pricer/core/reconcile"
)

// Config holds configuration for price resolution.
type Config struct {
	// Currency is the base currency every observation is normalised to.
	Currency string `mapstructure:"currency" default:"GBP"`
	// Catalog configures the structured catalog API source.
	Catalog CatalogConfig `mapstructure:"catalog"`
	// Scraped configures the sold-listings marketplace source.
	Scraped ScrapedConfig `mapstructure:"scraped"`
	// Fx configures the exchange rate provider.
	Fx FxConfig `mapstructure:"fx"`
	// Budget limits scraped fetches per refresh run.
	Budget BudgetConfig `mapstructure:"budget"`
	// Reconcile holds the reconciliation thresholds.
	Reconcile reconcile.Config `mapstructure:"reconcile"`
}

// CatalogConfig configures the catalog source.
type CatalogConfig struct {
	Enabled bool `mapstructure:"enabled" default:"true"`
	// BaseURL is the API root, without trailing slash.
	BaseURL string `mapstructure:"base_url" default:"https://api.pokemontcg.io/v2"`
	// APIKey is sent as X-Api-Key. Without one the source is skipped.
	APIKey string `mapstructure:"api_key" default:""`
	// Weight is the trust attached to catalog observations.
	Weight         float64 `mapstructure:"weight" default:"0.7"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" default:"15"`
}

// ScrapedConfig configures the marketplace source.
type ScrapedConfig struct {
	// Enabled is the feature flag; scraping is off unless asked for.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// SearchURL is the sold-listings search page.
	SearchURL string `mapstructure:"search_url" default:"https://www.ebay.co.uk/sch/i.html"`
	// ProxyURL is a text-extraction proxy prefix tried once when the direct fetch is blocked.
	ProxyURL string `mapstructure:"proxy_url" default:""`
	// QuerySuffix is appended to "<name> <set>" in the search query.
	QuerySuffix string `mapstructure:"query_suffix" default:"pokemon"`
	// MinSamples is the number of prices required before and after trimming.
	MinSamples int `mapstructure:"min_samples" default:"3"`
	// TrimFraction is dropped from each end of the sorted sample.
	TrimFraction float64 `mapstructure:"trim_fraction" default:"0.2"`
	// Weight is the trust attached to scraped observations.
	Weight float64 `mapstructure:"weight" default:"0.6"`
	// OwnedOnly limits scraping to rows with quantity > 0.
	OwnedOnly      bool   `mapstructure:"owned_only" default:"true"`
	UserAgent      string `mapstructure:"user_agent" default:"Mozilla/5.0 (compatible; collection-pricer/1.0)"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" default:"20"`
}

// FxConfig configures exchange rate lookup.
type FxConfig struct {
	// BaseURL answers ?base=X&symbols=Y with {"rates":{"Y":r}}.
	BaseURL string `mapstructure:"base_url" default:"https://api.exchangerate.host/latest"`
	// FallbackTTL is how long a static fallback rate is cached.
	FallbackTTL    time.Duration `mapstructure:"fallback_ttl" default:"1h"`
	TimeoutSeconds int           `mapstructure:"timeout_seconds" default:"10"`
}

// BudgetConfig configures the scraped fetch budget.
type BudgetConfig struct {
	// MaxFetchPerRun caps scraped fetches in one refresh run.
	MaxFetchPerRun int `mapstructure:"max_fetch_per_run" default:"10"`
	// FetchDelay is slept after each consumed unit.
	FetchDelay time.Duration `mapstructure:"fetch_delay" default:"250ms"`
}

// DefaultConfig mirrors the struct tag defaults.
func DefaultConfig() Config {
	return Config{
		Currency: "GBP",
		Catalog: CatalogConfig{
			Enabled:        true,
			BaseURL:        "https://api.pokemontcg.io/v2",
			Weight:         0.7,
			TimeoutSeconds: 15,
		},
		Scraped: ScrapedConfig{
			SearchURL:      "https://www.ebay.co.uk/sch/i.html",
			QuerySuffix:    "pokemon",
			MinSamples:     3,
			TrimFraction:   0.2,
			Weight:         0.6,
			OwnedOnly:      true,
			UserAgent:      "Mozilla/5.0 (compatible; collection-pricer/1.0)",
			TimeoutSeconds: 20,
		},
		Fx: FxConfig{
			BaseURL:        "https://api.exchangerate.host/latest",
			FallbackTTL:    time.Hour,
			TimeoutSeconds: 10,
		},
		Budget: BudgetConfig{
			MaxFetchPerRun: 10,
			FetchDelay:     250 * time.Millisecond,
		},
		Reconcile: reconcile.DefaultConfig(),
	}
}

func httpTimeout(seconds int, fallback time.Duration) time.Duration {
	if seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}
