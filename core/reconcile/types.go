package reconcile

import "time"

// SourceTag identifies where an observation came from.
type SourceTag string

const (
	SourceCatalog SourceTag = "catalog"
	SourceScraped SourceTag = "scraped"
	SourceManual  SourceTag = "manual"
)

// Observation is one price signal in the base currency. Observations are values;
// nothing mutates them after a source returns one.
type Observation struct {
	// Source is the tag of the producing source.
	Source SourceTag `json:"source"`
	// Price is in the base currency.
	Price float64 `json:"price"`
	// ObservedAt is when the source produced the value.
	ObservedAt time.Time `json:"observed_at"`
	// Weight is the source's trust in [0,1].
	Weight float64 `json:"weight"`
	// Samples is the number of raw data points behind Price.
	Samples int `json:"samples"`
}

// Method records which rule produced a Resolution.
type Method string

const (
	MethodManualOverride  Method = "manual-override"
	MethodPreferredSource Method = "single-source-preferred"
	MethodClosePair       Method = "close-pair-average"
	MethodSingleSource    Method = "single-source"
	MethodDivergentMedian Method = "divergent-median"
	MethodUnresolved      Method = "unresolved"
)

// Resolution is the reconciler's verdict for one item.
type Resolution struct {
	// Price is nil when unresolved.
	Price *float64 `json:"price"`
	// Method is the rule that produced Price.
	Method Method `json:"method"`
	// Observations are the usable inputs in source order.
	Observations []Observation `json:"observations"`
	// Confidence is in [0,1].
	Confidence float64 `json:"confidence"`
	// Coverage is the number of usable observations.
	Coverage int `json:"coverage"`
	// Reason is a human readable account of the decision.
	Reason string `json:"reason"`
}

// Resolved reports whether a price was produced.
func (r Resolution) Resolved() bool {
	return r.Price != nil
}

// Value returns the price or 0 when unresolved.
func (r Resolution) Value() float64 {
	if r.Price == nil {
		return 0
	}
	return *r.Price
}

// Subject is the part of an item the reconciler looks at.
type Subject interface {
	// Override returns the manual price and whether one is set.
	Override() (float64, bool)
}

// Config holds the reconciliation thresholds.
type Config struct {
	// RatioLow is the lower bound of scraped/catalog for agreement.
	RatioLow float64 `mapstructure:"ratio_low" default:"0.5"`
	// RatioHigh is the upper bound of scraped/catalog for agreement.
	RatioHigh float64 `mapstructure:"ratio_high" default:"2.0"`
	// AgreeConfidence is reported when catalog and scraped agree.
	AgreeConfidence float64 `mapstructure:"agree_confidence" default:"0.75"`
	// DivergentConfidence is reported when they disagree.
	DivergentConfidence float64 `mapstructure:"divergent_confidence" default:"0.45"`
	// SingleConfidence is blended with the source weight for one-source results.
	SingleConfidence float64 `mapstructure:"single_confidence" default:"0.55"`
	// PreferScraped takes the scraped price for an agreeing pair instead of averaging.
	PreferScraped bool `mapstructure:"prefer_scraped" default:"true"`
	// Currency is the base currency code used in reasons.
	Currency string `mapstructure:"currency" default:"GBP"`
}

// DefaultConfig mirrors the struct tag defaults.
func DefaultConfig() Config {
	return Config{
		RatioLow:            0.5,
		RatioHigh:           2.0,
		AgreeConfidence:     0.75,
		DivergentConfidence: 0.45,
		SingleConfidence:    0.55,
		PreferScraped:       true,
		Currency:            "GBP",
	}
}
