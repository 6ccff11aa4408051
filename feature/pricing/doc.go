// Package pricing resolves card prices from external sources.
//
// Two sources implement the Source interface:
//   - Catalog reads a structured card API by catalog ID, resolving IDs by
//     search when a row does not carry one. EUR marketplace averages are
//     preferred, USD market prices are the fallback.
//   - Marketplace scrapes recently sold listings. Each network fetch draws on
//     a per-run BudgetGuard, and results (including "too few samples") are
//     cached so repeated lookups never spend budget twice.
//
// Every amount is converted to the base currency by FxProvider, which caches
// live rates and falls back to a small static table.
//
// Service ties the sources to the reconciler and the price cache. Resolve
// never fails; Lookup is the user-facing variant that reports missing
// configuration and unresolved requests, and backs GET /prices.
package pricing
