package chart

import (
	"math"
	"strings"

	"innings-explorer/internal/domain"
)

// Scale classifies how a metric's axis domain is derived.
type Scale string

// Metric scales.
const (
	ScalePercentage Scale = "percentage"
	ScaleCount      Scale = "count"
	ScaleRate       Scale = "rate"
)

// countMetrics are unbounded non-negative counters.
var countMetrics = map[string]bool{
	"runs":       true,
	"balls":      true,
	"wickets":    true,
	"dots":       true,
	"boundaries": true,
	"fours":      true,
	"sixes":      true,
	"innings":    true,
	"matches":    true,
	"extras":     true,
	"wides":      true,
	"no_balls":   true,
	"dismissals": true,
}

// rateMinSpan is the smallest span of a rate-like axis. When the natural range
// is below rateNarrowRange and the padded span still falls short, the domain is
// widened around the midpoint.
const (
	rateMinSpan     = 6
	rateNarrowRange = 5
)

// DefaultDomain is used when a metric has no finite values.
var DefaultDomain = Domain{Min: 0, Max: 100}

// Domain is a closed axis interval with Min < Max.
type Domain struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ScaleOf classifies metric by name.
func ScaleOf(metric string) Scale {
	switch {
	case strings.Contains(metric, "percentage") || metric == domain.FieldPercentBalls:
		return ScalePercentage
	case countMetrics[metric]:
		return ScaleCount
	default:
		return ScaleRate
	}
}

// AxisDomain computes the axis interval for metric from its values. Non-finite
// values are ignored.
func AxisDomain(metric string, values []float64) Domain {
	lo, hi := math.Inf(1), math.Inf(-1)
	n := 0
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		n++
	}
	if n == 0 {
		return DefaultDomain
	}
	span := hi - lo

	var d Domain
	switch ScaleOf(metric) {
	case ScalePercentage:
		d = Domain{Min: 0, Max: math.Min(100, hi+0.1*span)}
	case ScaleCount:
		d = Domain{Min: 0, Max: hi + 0.1*span}
	default:
		d = Domain{Min: math.Max(0, lo-0.15*span), Max: hi + 0.15*span}
		if span < rateNarrowRange && d.Max-d.Min < rateMinSpan {
			mid := (lo + hi) / 2
			d.Min = math.Min(d.Min, math.Max(0, mid-rateMinSpan/2))
			d.Max = math.Max(d.Max, mid+rateMinSpan/2)
		}
	}
	if d.Max <= d.Min {
		d.Max = d.Min + 1
	}
	return d
}
