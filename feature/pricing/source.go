package pricing

import (
	"context"
	"time"

	"collection-pricer/core/reconcile"
	"collection-pricer/feature/inventory"
)

// Source is one kind of price signal. Sources fail soft: any problem means no
// observation, never an error.
type Source interface {
	// Tag identifies the source in observations and cache keys.
	Tag() reconcile.SourceTag
	// Enabled reports whether the source would try to price item at all.
	Enabled(item inventory.Item) bool
	// Fetch returns an observation in the base currency, or false.
	Fetch(ctx context.Context, item inventory.Item) (*reconcile.Observation, bool)
}

// rawObservation is the cached result of one source lookup. A cached entry with
// Found=false is a remembered negative.
type rawObservation struct {
	Found      bool      `json:"found"`
	Price      float64   `json:"price,omitempty"`
	Samples    int       `json:"samples"`
	ObservedAt time.Time `json:"observed_at"`
	Note       string    `json:"note,omitempty"`
}

func (r rawObservation) observation(tag reconcile.SourceTag, weight float64) (*reconcile.Observation, bool) {
	if !r.Found || r.Price <= 0 {
		return nil, false
	}
	return &reconcile.Observation{
		Source:     tag,
		Price:      r.Price,
		ObservedAt: r.ObservedAt,
		Weight:     weight,
		Samples:    r.Samples,
	}, true
}
