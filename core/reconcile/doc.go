// Package reconcile turns a handful of price observations into one trusted price.
//
// The reconciler is pure: no I/O, no clock, no randomness. The same item and the
// same observations always produce the same Resolution.
//
// # Decision order
//
//  1. A positive manual override wins outright (confidence 1.0).
//  2. Catalog and scraped prices both present: if scraped/catalog falls inside
//     [RatioLow, RatioHigh] the pair agrees and the scraped price is taken (or the
//     pair averaged when PreferScraped is off). Otherwise the median of the two
//     is used at a lower confidence.
//  3. One source only: its price, confidence blended from the source weight.
//  4. Nothing usable: unresolved. Callers keep whatever price they had.
//
// # Helpers
//
// Median, TrimOutliers and RejectOutliers are shared with the observation sources
// so that sample reduction behaves the same everywhere.
//
// # Usage
//
//	r := reconcile.New(cfg.Pricing.Reconcile)
//	res := r.Resolve(item, observations)
//	if res.Resolved() { ... }
package reconcile
