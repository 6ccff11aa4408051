package reconcile

import (
	"fmt"
	"math"
)

// Reconciler applies Config to observations.
type Reconciler struct {
	cfg Config
}

// New returns a Reconciler using cfg.
func New(cfg Config) *Reconciler {
	return &Reconciler{cfg: cfg}
}

// Config returns the thresholds in use.
func (r *Reconciler) Config() Config {
	return r.cfg
}

// Resolve produces the Resolution for item given observations.
func (r *Reconciler) Resolve(item Subject, observations []Observation) Resolution {
	if item != nil {
		if manual, ok := item.Override(); ok && manual > 0 {
			price := RoundPennies(manual)
			return Resolution{
				Price:        &price,
				Method:       MethodManualOverride,
				Observations: []Observation{{Source: SourceManual, Price: price, Weight: 1, Samples: 1}},
				Confidence:   1,
				Coverage:     1,
				Reason:       "manual override " + r.money(price),
			}
		}
	}

	usable := make([]Observation, 0, len(observations))
	var catalog, scraped []Observation
	for _, o := range observations {
		if !(o.Price > 0) || math.IsInf(o.Price, 0) {
			continue
		}
		usable = append(usable, o)
		switch o.Source {
		case SourceCatalog:
			catalog = append(catalog, o)
		case SourceScraped:
			scraped = append(scraped, o)
		}
	}

	res := Resolution{Observations: usable, Coverage: len(usable)}
	cPrice, hasCatalog := tagMedian(catalog)
	sPrice, hasScraped := tagMedian(scraped)

	switch {
	case hasCatalog && hasScraped:
		ratio := sPrice / cPrice
		if ratio >= r.cfg.RatioLow && ratio <= r.cfg.RatioHigh {
			price := sPrice
			res.Method = MethodPreferredSource
			res.Reason = fmt.Sprintf("scraped %s agrees with catalog %s (ratio %.2f), scraped preferred",
				r.money(sPrice), r.money(cPrice), ratio)
			if !r.cfg.PreferScraped {
				price = (sPrice + cPrice) / 2
				res.Method = MethodClosePair
				res.Reason = fmt.Sprintf("catalog %s and scraped %s agree (ratio %.2f), averaged",
					r.money(cPrice), r.money(sPrice), ratio)
			}
			res.setPrice(price)
			res.Confidence = clamp01(r.cfg.AgreeConfidence)
			return res
		}
		res.setPrice((sPrice + cPrice) / 2)
		res.Method = MethodDivergentMedian
		res.Confidence = clamp01(r.cfg.DivergentConfidence)
		res.Reason = fmt.Sprintf("catalog %s and scraped %s diverge (ratio %.2f), median taken",
			r.money(cPrice), r.money(sPrice), ratio)
		return res

	case hasCatalog || hasScraped:
		group, price := catalog, cPrice
		if hasScraped {
			group, price = scraped, sPrice
		}
		res.setPrice(price)
		res.Method = MethodSingleSource
		res.Confidence = r.singleConfidence(maxWeight(group))
		res.Reason = fmt.Sprintf("only %s available at %s", group[0].Source, r.money(price))
		return res
	}

	if len(usable) > 0 {
		// Usable observations from tags the reconciler does not rank.
		vals := make([]float64, len(usable))
		for i, o := range usable {
			vals[i] = o.Price
		}
		price, _ := Median(vals)
		res.setPrice(price)
		res.Method = MethodSingleSource
		res.Confidence = r.singleConfidence(maxWeight(usable))
		res.Reason = fmt.Sprintf("only %s available at %s", usable[0].Source, r.money(price))
		return res
	}

	res.Method = MethodUnresolved
	res.Reason = "no usable observations"
	return res
}

func (r *Reconciler) singleConfidence(weight float64) float64 {
	c := (r.cfg.SingleConfidence + clamp01(weight)) / 2
	if c > r.cfg.AgreeConfidence {
		c = r.cfg.AgreeConfidence
	}
	return clamp01(c)
}

func (r *Reconciler) money(v float64) string {
	return FormatMoney(v, r.cfg.Currency)
}

func (res *Resolution) setPrice(v float64) {
	p := RoundPennies(v)
	res.Price = &p
}

func tagMedian(obs []Observation) (float64, bool) {
	if len(obs) == 0 {
		return 0, false
	}
	vals := make([]float64, len(obs))
	for i, o := range obs {
		vals[i] = o.Price
	}
	return Median(vals)
}

func maxWeight(obs []Observation) float64 {
	w := 0.0
	for _, o := range obs {
		if o.Weight > w {
			w = o.Weight
		}
	}
	return w
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
