// Package valuelog records the value of the owned collection over time.
//
// A snapshot sums the totals the refresh scheduler wrote for owned rows and
// reports how many of them carry a price (coverage) and their average
// confidence. Snapshots are stored in value_snapshots.
package valuelog
