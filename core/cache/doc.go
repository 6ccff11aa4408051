// Package cache implements the two-tier cache used by the pricing engine.
//
// Reads go to the ephemeral tier first (in-process memory or Redis, both with
// native TTL) and fall back to the durable tier (core/kvstore), which has no
// expiry of its own. Durable entries are wrapped in an envelope carrying the
// absolute expiry. A durable hit rehydrates the ephemeral tier with whatever TTL
// remains, and every write goes to both tiers.
//
// # Namespaces
//
// Each namespace has an independent TTL:
//
//	price        8h   final resolutions per item key and source mode
//	raw:catalog  8h   catalog observations
//	raw:scraped  24h  scraped observations, including "not enough samples"
//	fx           24h  exchange rates
//	catalog-id   30d  item -> catalog card ID
//	set-id       30d  set name -> catalog set ID
//
// Payloads that fail to decode are reported as misses. Tier failures are logged
// and degrade to a miss; only durable write failures surface to the caller.
package cache
