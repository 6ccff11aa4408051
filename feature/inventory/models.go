package inventory

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Condition is the grading of a physical card.
type Condition string

const (
	NearMint      Condition = "Near Mint"
	LightlyPlayed Condition = "Lightly Played"
	Played        Condition = "Played"
	Damaged       Condition = "Damaged"
)

var multipliers = map[Condition]float64{
	NearMint:      1.0,
	LightlyPlayed: 0.8,
	Played:        0.6,
	Damaged:       0.4,
}

var conditionAliases = map[string]Condition{
	"nm":             NearMint,
	"near mint":      NearMint,
	"lp":             LightlyPlayed,
	"lightly played": LightlyPlayed,
	"pl":             Played,
	"played":         Played,
	"dmg":            Damaged,
	"damaged":        Damaged,
}

// ParseCondition maps free text to a Condition. Blank means Near Mint; anything
// unrecognised is kept verbatim and priced at full value.
func ParseCondition(s string) Condition {
	s = strings.TrimSpace(s)
	if s == "" {
		return NearMint
	}
	if c, ok := conditionAliases[strings.ToLower(s)]; ok {
		return c
	}
	return Condition(s)
}

// Multiplier returns the fraction of the near-mint price this condition is worth.
func (c Condition) Multiplier() float64 {
	if m, ok := multipliers[c]; ok {
		return m
	}
	return 1.0
}

// Set is a row of collection_sets.
type Set struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`
	// Name is the display name of the set, also used for catalog lookups.
	Name string `gorm:"size:191;uniqueIndex" json:"name"`
	// CatalogSetID is the catalog's set identifier when known.
	CatalogSetID string `gorm:"size:64" json:"catalog_set_id"`
	// Position orders sets for refresh.
	Position int  `gorm:"index" json:"position"`
	Enabled  bool `gorm:"default:true" json:"enabled"`
}

// TableName pins the table name.
func (Set) TableName() string { return "collection_sets" }

// Row is a row of collection_rows.
type Row struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	SetID    uint   `gorm:"index:idx_rows_set_pos,priority:1" json:"set_id"`
	Position int    `gorm:"index:idx_rows_set_pos,priority:2" json:"position"`
	Quantity int    `json:"quantity"`
	Cond     string `gorm:"column:condition;size:32" json:"condition"`
	Name     string `gorm:"size:191" json:"name"`
	Rarity   string `gorm:"size:64" json:"rarity"`
	CardID   string `gorm:"size:64" json:"card_id"`

	ManualPrice *float64 `json:"manual_price,omitempty"`

	// Derived columns, written by the refresh scheduler.
	Price      *float64   `json:"price,omitempty"`
	Total      float64    `json:"total"`
	Confidence float64    `json:"confidence"`
	Method     string     `gorm:"size:32" json:"method"`
	ItemKey    string     `gorm:"size:255" json:"item_key"`
	PricedAt   *time.Time `json:"priced_at,omitempty"`
}

// TableName pins the table name.
func (Row) TableName() string { return "collection_rows" }

// derivedColumns are the output columns the refresh scheduler writes.
var derivedColumns = []string{"price", "total", "confidence", "method", "item_key", "priced_at"}

// HasName reports whether the row names a card. Rows without one are skipped.
func (r Row) HasName() bool {
	return strings.TrimSpace(r.Name) != ""
}

// Owned reports whether at least one copy is held.
func (r Row) Owned() bool {
	return r.Quantity > 0
}

// Item is the typed view of a row the pricing engine consumes.
type Item struct {
	Key          string    `json:"key"`
	SetName      string    `json:"set_name"`
	Name         string    `json:"name"`
	Rarity       string    `json:"rarity"`
	Quantity     int       `json:"quantity"`
	Condition    Condition `json:"condition"`
	ManualPrice  float64   `json:"manual_price,omitempty"`
	CatalogID    string    `json:"catalog_id,omitempty"`
	CatalogSetID string    `json:"catalog_set_id,omitempty"`
}

// ItemKey builds the stable identity of a card: "set|catalogID" when the catalog
// ID is known, "set|name|rarity" otherwise. Always lower case.
func ItemKey(setName, name, rarity, catalogID string) string {
	set := strings.TrimSpace(setName)
	if id := strings.TrimSpace(catalogID); id != "" {
		return strings.ToLower(set + "|" + id)
	}
	return strings.ToLower(set + "|" + strings.TrimSpace(name) + "|" + strings.TrimSpace(rarity))
}

// NewItem builds an Item from a row of set.
func NewItem(set Set, row Row) Item {
	item := Item{
		Key:       ItemKey(set.Name, row.Name, row.Rarity, row.CardID),
		SetName:   strings.TrimSpace(set.Name),
		Name:      strings.TrimSpace(row.Name),
		Rarity:    strings.TrimSpace(row.Rarity),
		Quantity:  row.Quantity,
		Condition: ParseCondition(row.Cond),
		CatalogID: strings.TrimSpace(row.CardID),
	}
	item.CatalogSetID = strings.TrimSpace(set.CatalogSetID)
	if row.ManualPrice != nil {
		item.ManualPrice = *row.ManualPrice
	}
	return item
}

// Override returns the manual price, if any.
func (i Item) Override() (float64, bool) {
	return i.ManualPrice, i.ManualPrice > 0
}

// Total is quantity × price × condition multiplier, rounded to pennies.
func (i Item) Total(price float64) float64 {
	if i.Quantity <= 0 || price <= 0 {
		return 0
	}
	return decimal.NewFromInt(int64(i.Quantity)).
		Mul(decimal.NewFromFloat(price)).
		Mul(decimal.NewFromFloat(i.Condition.Multiplier())).
		Round(2).
		InexactFloat64()
}

// RowUpdate is one staged write-back for a priced row.
type RowUpdate struct {
	RowID uint
	// Price and PricedAt are only written when non-nil, so an unresolved row
	// keeps its old price and stays due for the next run.
	Price      *float64
	Total      float64
	Confidence float64
	Method     string
	ItemKey    string
	PricedAt   *time.Time
}
