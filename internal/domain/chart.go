package domain

import (
	"fmt"
	"strings"
)

// MetricOrigin tells whether a metric came from the catalogue or from the row schema.
type MetricOrigin string

// Metric origins.
const (
	OriginKnown      MetricOrigin = "known"
	OriginDiscovered MetricOrigin = "discovered"
)

// MetricDescriptor is a chartable numeric column.
type MetricDescriptor struct {
	Key    string       `json:"key"`
	Label  string       `json:"label"`
	Color  string       `json:"color"`
	Origin MetricOrigin `json:"origin"`
}

// ChartKind is the rendering kind of a chart.
type ChartKind string

// Chart kinds.
const (
	ChartBar     ChartKind = "bar"
	ChartScatter ChartKind = "scatter"
)

// ChartSpec is a user-configured chart. Bar charts use Y only; scatter
// charts plot X against Y.
type ChartSpec struct {
	ID   string    `json:"id"`
	Kind ChartKind `json:"kind"`
	X    string    `json:"x,omitempty"`
	Y    string    `json:"y"`
}

// Metrics returns the metric keys the chart needs, X first.
func (c ChartSpec) Metrics() []string {
	if c.Kind == ChartScatter && c.X != "" {
		return []string{c.X, c.Y}
	}
	return []string{c.Y}
}

// ParseChartSpec parses "bar:runs" or "scatter:average,strike_rate".
func ParseChartSpec(s string) (ChartSpec, error) {
	kind, metrics, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || metrics == "" {
		return ChartSpec{}, ErrValidation("chart %q must look like kind:metric", s)
	}
	parts := strings.Split(metrics, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	switch ChartKind(strings.ToLower(kind)) {
	case ChartBar:
		if len(parts) != 1 || parts[0] == "" {
			return ChartSpec{}, ErrValidation("bar chart %q takes exactly one metric", s)
		}
		return ChartSpec{Kind: ChartBar, Y: parts[0]}, nil
	case ChartScatter:
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return ChartSpec{}, ErrValidation("scatter chart %q takes x,y metrics", s)
		}
		return ChartSpec{Kind: ChartScatter, X: parts[0], Y: parts[1]}, nil
	default:
		return ChartSpec{}, ErrValidation("unknown chart kind %q", kind)
	}
}

// String renders c in the form ParseChartSpec accepts.
func (c ChartSpec) String() string {
	if c.Kind == ChartScatter {
		return fmt.Sprintf("%s:%s,%s", c.Kind, c.X, c.Y)
	}
	return fmt.Sprintf("%s:%s", c.Kind, c.Y)
}
