// Package metrics exposes Prometheus instrumentation for the pricing engine.
//
// A Manager owns its own registry so tests can build as many as they like. All
// record methods are safe on a nil *Manager, which lets components treat metrics
// as optional.
//
// # Series
//
//   - cache_lookups_total{namespace,result}
//   - source_fetches_total{source,outcome}
//   - budget_denied_total
//   - resolutions_total{method}
//   - refresh_rows_total{outcome}, refresh_runs_total{result}
//   - refresh_budget_used, refresh_last_run_seconds
package metrics
