// Package chart derives rendering-ready chart encodings from result rows:
// which metrics exist, how rows are labeled and colored, axis domains and
// tick positions. Nothing here draws.
package chart

import (
	"strings"

	"innings-explorer/internal/domain"
)

// Palette is the fallback series palette.
var Palette = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// PaletteColor returns the palette entry for i, wrapping around.
func PaletteColor(i int) string {
	if i < 0 {
		i = -i
	}
	return Palette[i%len(Palette)]
}

type knownMetric struct {
	key   string
	label string
	color string
}

// catalogue lists the well-known metrics in presentation order.
var catalogue = []knownMetric{
	{"runs", "Runs", "#2563EB"},
	{"balls", "Balls", "#64748B"},
	{"wickets", "Wickets", "#DC2626"},
	{"average", "Average", "#7C3AED"},
	{"strike_rate", "Strike Rate", "#EA580C"},
	{"economy", "Economy", "#0891B2"},
	{"balls_per_dismissal", "Balls per Dismissal", "#9333EA"},
	{"dot_percentage", "Dot %", "#475569"},
	{"boundary_percentage", "Boundary %", "#16A34A"},
	{"dots", "Dots", "#334155"},
	{"boundaries", "Boundaries", "#15803D"},
	{"fours", "Fours", "#0D9488"},
	{"sixes", "Sixes", "#DB2777"},
	{domain.FieldPercentBalls, "% of Balls", "#CA8A04"},
}

var catalogueIndex = func() map[string]knownMetric {
	m := make(map[string]knownMetric, len(catalogue))
	for _, k := range catalogue {
		m[k.key] = k
	}
	return m
}()

// IsKnownMetric reports whether key is in the metric catalogue.
func IsKnownMetric(key string) bool {
	_, ok := catalogueIndex[key]
	return ok
}

// DiscoverMetrics inspects the first row of the unfiltered result. Catalogued
// metrics present on the row come first in catalogue order; every other
// numeric field that is not a GroupBy column or bookkeeping follows in row
// order with a title-cased label and a palette color.
func DiscoverMetrics(rows []domain.Row, groupBy domain.GroupBy) []domain.MetricDescriptor {
	if len(rows) == 0 {
		return nil
	}
	first := rows[0]

	var out []domain.MetricDescriptor
	for _, k := range catalogue {
		if first.Has(k.key) && !groupBy.Contains(k.key) {
			out = append(out, domain.MetricDescriptor{Key: k.key, Label: k.label, Color: k.color, Origin: domain.OriginKnown})
		}
	}

	discovered := 0
	for _, key := range first.Keys() {
		if IsKnownMetric(key) || groupBy.Contains(key) || domain.IsInternalField(key) {
			continue
		}
		if first.Get(key).Kind() != domain.KindNumber {
			continue
		}
		out = append(out, domain.MetricDescriptor{
			Key:    key,
			Label:  TitleCase(key),
			Color:  PaletteColor(discovered),
			Origin: domain.OriginDiscovered,
		})
		discovered++
	}
	return out
}

// TitleCase turns "balls_faced" into "Balls Faced".
func TitleCase(key string) string {
	words := strings.Split(key, "_")
	out := words[:0]
	for _, w := range words {
		if w == "" {
			continue
		}
		out = append(out, strings.ToUpper(w[:1])+w[1:])
	}
	return strings.Join(out, " ")
}

// FindMetric returns the descriptor for key.
func FindMetric(metrics []domain.MetricDescriptor, key string) (domain.MetricDescriptor, bool) {
	for _, m := range metrics {
		if m.Key == key {
			return m, true
		}
	}
	return domain.MetricDescriptor{}, false
}
