package cache

import "time"

// Config holds configuration for the cache layer.
type Config struct {
	// Ephemeral selects the fast tier: "memory" or "redis".
	Ephemeral string `mapstructure:"ephemeral" default:"memory"`
	// Durable selects the durable tier: "memory", "sql" or "object".
	Durable string `mapstructure:"durable" default:"sql"`
	// PriceTTL applies to final resolutions.
	PriceTTL time.Duration `mapstructure:"price_ttl" default:"8h"`
	// CatalogTTL applies to raw catalog observations.
	CatalogTTL time.Duration `mapstructure:"catalog_ttl" default:"8h"`
	// ScrapedTTL applies to raw scraped observations.
	ScrapedTTL time.Duration `mapstructure:"scraped_ttl" default:"24h"`
	// FxTTL applies to fetched exchange rates.
	FxTTL time.Duration `mapstructure:"fx_ttl" default:"24h"`
	// IDTTL applies to resolved catalog and set IDs.
	IDTTL time.Duration `mapstructure:"id_ttl" default:"720h"`
}

// RedisConfig holds connection settings for the Redis ephemeral tier.
type RedisConfig struct {
	// Addr is host:port of the Redis server.
	Addr string `mapstructure:"addr" default:"localhost:6379"`
	// Password is the AUTH password, empty for none.
	Password string `mapstructure:"password" default:""`
	// DB is the logical database index.
	DB int `mapstructure:"db" default:"0"`
	// TimeoutSeconds bounds dial, read and write.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"3"`
}

// TTLs maps every namespace to its configured TTL.
func (c Config) TTLs() map[Namespace]time.Duration {
	return map[Namespace]time.Duration{
		NSPrice:      c.PriceTTL,
		NSRawCatalog: c.CatalogTTL,
		NSRawScraped: c.ScrapedTTL,
		NSFx:         c.FxTTL,
		NSCatalogID:  c.IDTTL,
		NSSetID:      c.IDTTL,
	}
}

// DefaultConfig mirrors the struct tag defaults for callers that build a Layer
// without going through the config loader.
func DefaultConfig() Config {
	return Config{
		Ephemeral:  "memory",
		Durable:    "sql",
		PriceTTL:   8 * time.Hour,
		CatalogTTL: 8 * time.Hour,
		ScrapedTTL: 24 * time.Hour,
		FxTTL:      24 * time.Hour,
		IDTTL:      30 * 24 * time.Hour,
	}
}
