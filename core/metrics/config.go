package metrics

// Config holds configuration for the metrics endpoint.
type Config struct {
	// Enabled mounts the scrape endpoint on the HTTP server.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Path is the route the scrape endpoint is mounted on.
	Path string `mapstructure:"path" default:"/metrics"`
	// Namespace prefixes every series name.
	Namespace string `mapstructure:"namespace" default:"pricer"`
}
