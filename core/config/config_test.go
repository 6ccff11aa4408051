package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "GBP", cfg.Pricing.Currency)
	assert.Equal(t, 10, cfg.Pricing.Budget.MaxFetchPerRun)
	assert.Equal(t, 250*time.Millisecond, cfg.Pricing.Budget.FetchDelay)
	assert.Equal(t, 0.5, cfg.Pricing.Reconcile.RatioLow)
	assert.False(t, cfg.Pricing.Scraped.Enabled)
	assert.Equal(t, 100, cfg.Refresh.BatchSize)
	assert.Equal(t, 5*time.Minute+30*time.Second, cfg.Refresh.TimeBudget)
	assert.Equal(t, 24*time.Hour, cfg.Refresh.FreshnessWindow)
	assert.Equal(t, "memory", cfg.Cache.Ephemeral)
	assert.Equal(t, "sql", cfg.Cache.Durable)
	assert.Equal(t, 720*time.Hour, cfg.Cache.IDTTL)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PRICING_CATALOG_API_KEY", "from-env")
	t.Setenv("REFRESH_BATCH_SIZE", "25")
	t.Setenv("CACHE_PRICE_TTL", "2h")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Pricing.Catalog.APIKey)
	assert.Equal(t, 25, cfg.Refresh.BatchSize)
	assert.Equal(t, 2*time.Hour, cfg.Cache.PriceTTL)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("PRICING_CURRENCY=EUR\nPRICING_SCRAPED_ENABLED=true\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("PRICING_CURRENCY")
		os.Unsetenv("PRICING_SCRAPED_ENABLED")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "EUR", cfg.Pricing.Currency)
	assert.True(t, cfg.Pricing.Scraped.Enabled)
}
