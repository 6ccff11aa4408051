package refresh

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"collection-pricer/core/kvstore"
)

const (
	cursorKey        = "refresh:cursor"
	lastRefreshedKey = "refresh:last_refreshed"
)

// Pass separates owned rows from unowned ones.
type Pass int

const (
	PassOwned Pass = iota
	PassUnowned
)

func (p Pass) String() string {
	if p == PassOwned {
		return "owned"
	}
	return "unowned"
}

// Tier orders rows within a pass: rows with no price before stale ones.
type Tier int

const (
	TierMissing Tier = iota
	TierStale
)

// Position is the sort key of a plan entry.
type Position struct {
	Pass     Pass `json:"pass"`
	Tier     Tier `json:"tier"`
	SetIndex int  `json:"set_index"`
	RowIndex int  `json:"row_index"`
}

// Less orders positions by pass, tier, set then row.
func (p Position) Less(o Position) bool {
	if p.Pass != o.Pass {
		return p.Pass < o.Pass
	}
	if p.Tier != o.Tier {
		return p.Tier < o.Tier
	}
	if p.SetIndex != o.SetIndex {
		return p.SetIndex < o.SetIndex
	}
	return p.RowIndex < o.RowIndex
}

// Cursor is the persisted resume point of an unfinished run.
type Cursor struct {
	RunID string `json:"run_id"`
	// Next is the position of the first unprocessed entry.
	Next      Position  `json:"next"`
	StartedAt time.Time `json:"started_at"`
	// BudgetUsed is the scraped fetch budget consumed so far in the run.
	BudgetUsed int  `json:"budget_used"`
	OwnedOnly  bool `json:"owned_only"`
	// Processed counts rows processed across all invocations of the run.
	Processed int `json:"processed"`
}

func loadCursor(ctx context.Context, store kvstore.Store) (*Cursor, error) {
	raw, ok, err := store.Get(ctx, cursorKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read refresh cursor: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var c Cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("failed to decode refresh cursor: %w", err)
	}
	return &c, nil
}

func saveCursor(ctx context.Context, store kvstore.Store, c *Cursor) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	if err := store.Set(ctx, cursorKey, raw); err != nil {
		return fmt.Errorf("failed to persist refresh cursor: %w", err)
	}
	return nil
}

func deleteCursor(ctx context.Context, store kvstore.Store) error {
	if err := store.Delete(ctx, cursorKey); err != nil {
		return fmt.Errorf("failed to delete refresh cursor: %w", err)
	}
	return nil
}

func loadLastRefreshed(ctx context.Context, store kvstore.Store) (*time.Time, error) {
	raw, ok, err := store.Get(ctx, lastRefreshedKey)
	if err != nil || !ok {
		return nil, err
	}
	var t time.Time
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, nil
	}
	return &t, nil
}

func saveLastRefreshed(ctx context.Context, store kvstore.Store, t time.Time) error {
	raw, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return store.Set(ctx, lastRefreshedKey, raw)
}
