package refresh

import "time"

// Config holds configuration for the refresh scheduler.
type Config struct {
	// BatchSize is the number of rows processed per invocation before a checkpoint.
	BatchSize int `mapstructure:"batch_size" default:"100"`
	// TimeBudget is the wall-clock budget per invocation, kept below the host's
	// hard execution ceiling.
	TimeBudget time.Duration `mapstructure:"time_budget" default:"5m30s"`
	// FreshnessWindow is how long a price stays fresh. Fresh rows are skipped.
	FreshnessWindow time.Duration `mapstructure:"freshness_window" default:"24h"`
	// OwnedOnly skips the unowned pass.
	OwnedOnly bool `mapstructure:"owned_only" default:"false"`
	// Interval is the period of the recurring trigger in `start`. Zero disables it.
	Interval time.Duration `mapstructure:"interval" default:"10m"`
	// CatalogConcurrency bounds catalog prefetches for the next batch.
	CatalogConcurrency int `mapstructure:"catalog_concurrency" default:"4"`
	// SnapshotOnComplete records a value snapshot when a run completes.
	SnapshotOnComplete bool `mapstructure:"snapshot_on_complete" default:"true"`
}

// DefaultConfig mirrors the struct tag defaults.
func DefaultConfig() Config {
	return Config{
		BatchSize:          100,
		TimeBudget:         5*time.Minute + 30*time.Second,
		FreshnessWindow:    24 * time.Hour,
		Interval:           10 * time.Minute,
		CatalogConcurrency: 4,
		SnapshotOnComplete: true,
	}
}
