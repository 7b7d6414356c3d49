package chart

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"innings-explorer/internal/domain"
)

// maxParallel bounds concurrent bundle derivation.
const maxParallel = 4

// Input is the row data charts are derived from.
type Input struct {
	// Rows are the filtered and sorted rows to plot.
	Rows []domain.Row
	// Unfiltered rows drive metric discovery.
	Unfiltered []domain.Row
	GroupBy    domain.GroupBy
}

// Axis is one resolved metric axis.
type Axis struct {
	Metric domain.MetricDescriptor `json:"metric"`
	Scale  Scale                   `json:"scale"`
	Domain Domain                  `json:"domain"`
	Ticks  []float64               `json:"ticks"`
}

// Point is one plotted row. Values are nil where the row has no number for
// the axis metric.
type Point struct {
	Label      string     `json:"label"`
	ShortLabel string     `json:"short_label"`
	Color      string     `json:"color"`
	Values     []*float64 `json:"values"`
}

// Bundle is everything a renderer needs for one chart. Axes follow
// ChartSpec.Metrics order and every Point carries one value per axis.
type Bundle struct {
	Spec   domain.ChartSpec `json:"spec"`
	Axes   []Axis           `json:"axes"`
	Points []Point          `json:"points"`
}

// NewSpec returns a ChartSpec with a fresh identifier.
func NewSpec(kind domain.ChartKind, x, y string) domain.ChartSpec {
	return domain.ChartSpec{ID: uuid.NewString(), Kind: kind, X: x, Y: y}
}

// BuildBundles derives one bundle per spec, in spec order. A spec naming a
// metric that is not available on the result fails with a validation error.
func BuildBundles(ctx context.Context, specs []domain.ChartSpec, in Input) ([]Bundle, error) {
	metrics := DiscoverMetrics(in.Unfiltered, in.GroupBy)
	rows := chartRows(in.Rows)

	out := make([]Bundle, len(specs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for i := range specs {
		spec := specs[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			b, err := Build(spec, metrics, rows, in.GroupBy)
			if err != nil {
				return err
			}
			out[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build charts: %w", err)
	}
	return out, nil
}

// Build derives a single bundle from already-discovered metrics. Summary rows
// in rows are plotted as-is; BuildBundles drops them beforehand.
func Build(spec domain.ChartSpec, metrics []domain.MetricDescriptor, rows []domain.Row, groupBy domain.GroupBy) (Bundle, error) {
	keys := spec.Metrics()
	b := Bundle{Spec: spec, Axes: make([]Axis, len(keys)), Points: make([]Point, len(rows))}

	columns := make([][]float64, len(keys))
	for i, key := range keys {
		m, ok := FindMetric(metrics, key)
		if !ok {
			return Bundle{}, domain.ErrValidation("metric %q is not available for chart %s", key, spec)
		}
		b.Axes[i] = Axis{Metric: m, Scale: ScaleOf(key)}
		columns[i] = make([]float64, 0, len(rows))
	}

	for r, row := range rows {
		long, short := Labels(row, groupBy)
		p := Point{Label: long, ShortLabel: short, Color: RowColor(row, groupBy, r), Values: make([]*float64, len(keys))}
		for i, key := range keys {
			n, ok := row.Get(key).Number()
			if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
				continue
			}
			p.Values[i] = &n
			columns[i] = append(columns[i], n)
		}
		b.Points[r] = p
	}

	for i, key := range keys {
		d := AxisDomain(key, columns[i])
		b.Axes[i].Domain = d
		b.Axes[i].Ticks = NiceTicks(d.Min, d.Max, DefaultTickCount)
	}
	return b, nil
}

// chartRows drops synthesized summary rows.
func chartRows(rows []domain.Row) []domain.Row {
	out := make([]domain.Row, 0, len(rows))
	for _, r := range rows {
		if !r.IsSummary() {
			out = append(out, r)
		}
	}
	return out
}
