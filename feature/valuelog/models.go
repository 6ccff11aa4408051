package valuelog

import "time"

// Snapshot is one recorded valuation of the owned collection.
type Snapshot struct {
	ID      uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	TakenAt time.Time `gorm:"index;not null" json:"taken_at"`
	// TotalValue is the sum of owned row totals in Currency.
	TotalValue float64 `json:"total_value"`
	Currency   string  `gorm:"size:3" json:"currency"`
	// CardsOwned counts copies, DistinctOwned counts owned rows.
	CardsOwned    int `json:"cards_owned"`
	DistinctOwned int `json:"distinct_owned"`
	PricedOwned   int `json:"priced_owned"`
	// Coverage is the percentage of owned rows with a price.
	Coverage      float64 `json:"coverage"`
	AvgConfidence float64 `json:"avg_confidence"`
}

// TableName pins the table name.
func (Snapshot) TableName() string { return "value_snapshots" }

// History is the response of GET /valuelog.
type History struct {
	Snapshots []Snapshot `json:"snapshots"`
	// Latest is the newest total, formatted with its currency symbol.
	Latest string `json:"latest,omitempty"`
}
