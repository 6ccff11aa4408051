package refresh

import (
	"context"
	"fmt"
	"sort"
	"time"

	"collection-pricer/feature/inventory"
)

// Entry is one row scheduled for refresh.
type Entry struct {
	Pos  Position
	Row  inventory.Row
	Item inventory.Item
}

// PlanOptions control which rows qualify.
type PlanOptions struct {
	// Reference is the instant freshness is measured from, the run start.
	Reference time.Time
	// FreshnessWindow is how long a price stays fresh.
	FreshnessWindow time.Duration
	// OwnedOnly drops the unowned pass.
	OwnedOnly bool
}

// BuildPlan lists every row needing a price, in refresh order. The result only
// depends on the inventory contents and opts, so a resumed run re-derives the
// same order.
func BuildPlan(ctx context.Context, inv inventory.Inventory, opts PlanOptions) ([]Entry, error) {
	sets, err := inv.Sets(ctx)
	if err != nil {
		return nil, err
	}

	var plan []Entry
	for si, set := range sets {
		rows, err := inv.Rows(ctx, set.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to read rows of set %q: %w", set.Name, err)
		}
		for ri, row := range rows {
			if !row.HasName() {
				continue
			}
			pass := PassOwned
			if !row.Owned() {
				if opts.OwnedOnly {
					continue
				}
				pass = PassUnowned
			}
			tier, due := classify(row, opts)
			if !due {
				continue
			}
			plan = append(plan, Entry{
				Pos:  Position{Pass: pass, Tier: tier, SetIndex: si, RowIndex: ri},
				Row:  row,
				Item: inventory.NewItem(set, row),
			})
		}
	}

	sort.Slice(plan, func(i, j int) bool { return plan[i].Pos.Less(plan[j].Pos) })
	return plan, nil
}

// classify returns the row's tier and whether it needs refreshing at all.
func classify(row inventory.Row, opts PlanOptions) (Tier, bool) {
	if row.Price == nil {
		return TierMissing, true
	}
	if row.PricedAt == nil || opts.Reference.Sub(*row.PricedAt) > opts.FreshnessWindow {
		return TierStale, true
	}
	return 0, false
}

// remaining drops the entries before next.
func remaining(plan []Entry, next Position) []Entry {
	i := sort.Search(len(plan), func(i int) bool { return !plan[i].Pos.Less(next) })
	return plan[i:]
}
