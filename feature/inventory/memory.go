package inventory

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryInventory is an in-process Inventory for tests and dry runs.
type MemoryInventory struct {
	mu     sync.RWMutex
	sets   []Set
	rows   map[uint][]Row
	writes int
}

// NewMemoryInventory returns an inventory holding sets and their rows.
// Row IDs and positions are assigned when left zero.
func NewMemoryInventory(sets []Set, rows map[uint][]Row) *MemoryInventory {
	m := &MemoryInventory{rows: make(map[uint][]Row)}
	var next uint = 1
	for _, set := range sets {
		m.sets = append(m.sets, set)
		for i, r := range rows[set.ID] {
			if r.ID == 0 {
				r.ID = next
			}
			if r.Position == 0 {
				r.Position = i
			}
			r.SetID = set.ID
			next = max(next, r.ID) + 1
			m.rows[set.ID] = append(m.rows[set.ID], r)
		}
	}
	return m
}

func (m *MemoryInventory) Sets(_ context.Context) ([]Set, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Set
	for _, s := range m.sets {
		if s.Enabled {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (m *MemoryInventory) Rows(_ context.Context, setID uint) ([]Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := append([]Row(nil), m.rows[setID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (m *MemoryInventory) WriteBack(_ context.Context, updates []RowUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	targets := make([]*Row, len(updates))
	for i, u := range updates {
		r := m.find(u.RowID)
		if r == nil {
			return fmt.Errorf("row %d not found", u.RowID)
		}
		targets[i] = r
	}
	for i, u := range updates {
		apply(targets[i], u)
	}
	m.writes++
	return nil
}

func (m *MemoryInventory) find(id uint) *Row {
	for setID, rows := range m.rows {
		for i := range rows {
			if rows[i].ID == id {
				return &m.rows[setID][i]
			}
		}
	}
	return nil
}

func apply(r *Row, u RowUpdate) {
	if u.Price != nil {
		p := *u.Price
		r.Price = &p
	}
	if u.PricedAt != nil {
		at := *u.PricedAt
		r.PricedAt = &at
	}
	r.Total = u.Total
	r.Confidence = u.Confidence
	r.Method = u.Method
	r.ItemKey = u.ItemKey
}

// WriteBacks returns how many batches have been written.
func (m *MemoryInventory) WriteBacks() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

// Snapshot returns a copy of every row keyed by row ID.
func (m *MemoryInventory) Snapshot() map[uint]Row {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[uint]Row)
	for _, rows := range m.rows {
		for _, r := range rows {
			if r.Price != nil {
				p := *r.Price
				r.Price = &p
			}
			if r.PricedAt != nil {
				t := *r.PricedAt
				r.PricedAt = &t
			}
			out[r.ID] = r
		}
	}
	return out
}
