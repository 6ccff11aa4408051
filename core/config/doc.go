// Package config provides configuration management for the collection pricer.
//
// It uses Viper to load configuration from environment variables and an
// optional .env file. Defaults come from the `default` struct tags of each
// partial configuration.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: MySQL or SQLite connection holding the inventory and durable cache
//   - Storage: S3/MinIO credentials for the object durable tier
//   - Redis: connection for the redis ephemeral tier
//   - Cache: tier selection and per-namespace TTLs
//   - Pricing: catalog, scraped and FX sources, fetch budget, reconciliation thresholds
//   - Refresh: batch size, time budget, freshness window
//   - Metrics: Prometheus endpoint
//   - Log: Logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Pricing.Currency)
package config
