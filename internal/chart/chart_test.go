package chart

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innings-explorer/internal/domain"
)

// === Metrics ===

func TestDiscoverMetrics(t *testing.T) {
	rows := []domain.Row{
		domain.NewRow(
			"batting_team", "Mumbai Indians",
			"balls_faced", 120,
			"runs", 150,
			"strike_rate", 125.0,
			"venue_name", "Wankhede",
			"is_summary", false,
			"summary_level", 1,
			"percent_balls", 12.5,
			"maidens", 2,
		),
		domain.NewRow("batting_team", "CSK", "extra_metric", 3),
	}

	got := DiscoverMetrics(rows, domain.GroupBy{"batting_team"})
	keys := make([]string, len(got))
	for i, m := range got {
		keys[i] = m.Key
	}
	assert.Equal(t, []string{"runs", "strike_rate", "percent_balls", "balls_faced", "maidens"}, keys)

	assert.Equal(t, domain.OriginKnown, got[0].Origin)
	assert.Equal(t, "Runs", got[0].Label)
	assert.Equal(t, domain.MetricDescriptor{Key: "balls_faced", Label: "Balls Faced", Color: Palette[0], Origin: domain.OriginDiscovered}, got[3])
	assert.Equal(t, Palette[1], got[4].Color)

	assert.Nil(t, DiscoverMetrics(nil, nil))
}

func TestDiscoverMetrics_GroupColumnNotAMetric(t *testing.T) {
	rows := []domain.Row{domain.NewRow("innings", 1, "runs", 10)}
	got := DiscoverMetrics(rows, domain.GroupBy{"innings"})
	require.Len(t, got, 1)
	assert.Equal(t, "runs", got[0].Key)
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Balls Faced", TitleCase("balls_faced"))
	assert.Equal(t, "X", TitleCase("x"))
	assert.Equal(t, "Dot Ball Rate", TitleCase("dot__ball_rate"))
}

func TestPaletteColorWraps(t *testing.T) {
	assert.Equal(t, Palette[0], PaletteColor(len(Palette)))
	assert.Equal(t, Palette[3], PaletteColor(len(Palette)*2+3))
}

// === Labels ===

func TestRowLabel(t *testing.T) {
	row := domain.NewRow(
		"batting_team", "Royal Challengers Bengaluru",
		"venue", "M Chinnaswamy Stadium, Bengaluru",
		"year", 2024,
		"phase", nil,
	)
	g := domain.GroupBy{"batting_team", "venue", "year", "phase"}

	long, short := Labels(row, g)
	assert.Equal(t, "Royal Challengers Bengaluru · M Chinnaswamy Stadiu... · 2024 · N/A", long)
	assert.Equal(t, "Royal Challengers Bengaluru · M Chinnasw... · 2024 · N/A", short)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "exactly10!", Truncate("exactly10!", 10))
	assert.Equal(t, "ñandúñandú...", Truncate("ñandúñandúñandú", 10))
}

func TestIsTeamColumn(t *testing.T) {
	for _, col := range []string{"team", "batting_team", "bowling_team", "team_name"} {
		assert.True(t, IsTeamColumn(col), col)
	}
	for _, col := range []string{"teams", "venue", "steam_rate"} {
		assert.False(t, IsTeamColumn(col), col)
	}
}

// === Colors ===

func TestTeamColor(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{name: "exact", in: "Mumbai Indians", want: "#004BA0", ok: true},
		{name: "case-insensitive", in: "mumbai indians", want: "#004BA0", ok: true},
		{name: "slash segment", in: "Kings XI Punjab/Punjab Kings", want: "#ED1B24", ok: true},
		{name: "dash segment", in: "Unknown XI - chennai super kings", want: "#FDB913", ok: true},
		{name: "no match", in: "Leicestershire", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TeamColor(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRowColor(t *testing.T) {
	teamRow := domain.NewRow("batting_team", "India", "phase", "death")
	assert.Equal(t, "#1F4E9E", RowColor(teamRow, domain.GroupBy{"phase", "batting_team"}, 3))
	assert.Equal(t, Palette[3], RowColor(teamRow, domain.GroupBy{"phase"}, 3), "no team column")

	unknown := domain.NewRow("batting_team", "Somerset")
	assert.Equal(t, Palette[1], RowColor(unknown, domain.GroupBy{"batting_team"}, 11))
}

// === Axis domain ===

func TestAxisDomain(t *testing.T) {
	tests := []struct {
		name   string
		metric string
		values []float64
		want   Domain
	}{
		{name: "scenario C", metric: "boundary_percentage", values: []float64{10, 15, 30}, want: Domain{0, 32}},
		{name: "percentage capped", metric: "dot_percentage", values: []float64{0, 99}, want: Domain{0, 100}},
		{name: "ratio field", metric: "percent_balls", values: []float64{20, 70}, want: Domain{0, 75}},
		{name: "count", metric: "runs", values: []float64{100, 200}, want: Domain{0, 210}},
		{name: "rate wide", metric: "average", values: []float64{20, 40}, want: Domain{17, 43}},
		{name: "rate floored at zero", metric: "economy", values: []float64{1, 100}, want: Domain{0, 114.85}},
		{name: "rate narrow", metric: "strike_rate", values: []float64{130, 132}, want: Domain{128, 134}},
		{name: "rate narrow near zero", metric: "economy", values: []float64{1, 2}, want: Domain{0, 4.5}},
		{name: "rate narrow but padded wide enough", metric: "average", values: []float64{100, 104.9}, want: Domain{99.265, 105.635}},
		{name: "rate narrow keeps padding past the midpoint span", metric: "economy", values: []float64{0.1, 4.9}, want: Domain{0, 5.62}},
		{name: "empty", metric: "runs", values: nil, want: Domain{0, 100}},
		{name: "non-finite ignored", metric: "runs", values: []float64{math.NaN(), math.Inf(1)}, want: Domain{0, 100}},
		{name: "all zero count", metric: "wickets", values: []float64{0, 0}, want: Domain{0, 1}},
		{name: "all zero percentage", metric: "dot_percentage", values: []float64{0}, want: Domain{0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AxisDomain(tt.metric, tt.values)
			assert.InDelta(t, tt.want.Min, got.Min, 1e-9)
			assert.InDelta(t, tt.want.Max, got.Max, 1e-9)
			assert.Less(t, got.Min, got.Max)
		})
	}
}

func TestScaleOf(t *testing.T) {
	assert.Equal(t, ScalePercentage, ScaleOf("boundary_percentage"))
	assert.Equal(t, ScalePercentage, ScaleOf("percent_balls"))
	assert.Equal(t, ScaleCount, ScaleOf("sixes"))
	assert.Equal(t, ScaleRate, ScaleOf("balls_per_dismissal"))
}

// === Ticks ===

func TestNiceStep(t *testing.T) {
	assert.InDelta(t, 5, NiceStep(32, 6), 1e-12)
	assert.InDelta(t, 10, NiceStep(32, 5), 1e-12)
	assert.InDelta(t, 20, NiceStep(100, 6), 1e-12)
	assert.InDelta(t, 0.2, NiceStep(1, 6), 1e-12)
	assert.InDelta(t, 1, NiceStep(0, 6), 1e-12)
}

// The domain is [0,32]; with a step of 5 the last tick that fits is 30.
func TestNiceTicks_ScenarioC(t *testing.T) {
	d := AxisDomain("boundary_percentage", []float64{10, 15, 30})
	ticks := NiceTicks(d.Min, d.Max, DefaultTickCount)
	assert.Equal(t, []float64{0, 5, 10, 15, 20, 25, 30}, ticks)
}

func TestNiceTicks_KeepsMaxWithinEpsilon(t *testing.T) {
	assert.Equal(t, []float64{0, 20, 40, 60, 80, 100}, NiceTicks(0, 100, 6))
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, NiceTicks(0.1, 0.3, 3))
}

func TestNiceTicks_EndpointFallback(t *testing.T) {
	assert.Equal(t, []float64{3, 3}, NiceTicks(3, 3, 6))
	assert.Equal(t, []float64{0.1, 0.9}, NiceTicks(0.1, 0.9, 2))
}

func TestNiceTicks_Coverage(t *testing.T) {
	domains := [][2]float64{
		{0, 32}, {17, 43}, {0, 1}, {0.001, 0.0042}, {128, 134},
		{0, 114.85}, {-50, 50}, {1e5, 3.7e6}, {12.5, 13}, {0, 7},
	}
	for _, d := range domains {
		for _, count := range []int{5, 6} {
			ticks := NiceTicks(d[0], d[1], count)
			require.GreaterOrEqual(t, len(ticks), 2, "domain %v", d)
			step := NiceStep(d[1]-d[0], count)
			for i, v := range ticks {
				assert.GreaterOrEqual(t, v, d[0]-step, "domain %v", d)
				assert.LessOrEqual(t, v, d[1]+step, "domain %v", d)
				if i > 0 {
					assert.GreaterOrEqual(t, v, ticks[i-1])
					assert.InDelta(t, step, v-ticks[i-1], step*1e-6, "domain %v", d)
				}
			}
		}
	}
}

// === Bundles ===

func bundleInput() Input {
	rows := []domain.Row{
		domain.NewRow("year", 2024, "batting_team", "Mumbai Indians", "runs", 180, "strike_rate", 140.0, "is_summary", false),
		domain.NewRow("year", 2024, "batting_team", "Rajasthan Royals", "runs", 160, "strike_rate", nil, "is_summary", false),
		domain.NewRow("year", 2024, "batting_team", nil, "runs", 340, "strike_rate", 135.0, "is_summary", true),
	}
	return Input{Rows: rows, Unfiltered: rows, GroupBy: domain.GroupBy{"year", "batting_team"}}
}

func TestBuildBundles(t *testing.T) {
	specs := []domain.ChartSpec{
		NewSpec(domain.ChartBar, "", "runs"),
		NewSpec(domain.ChartScatter, "runs", "strike_rate"),
	}

	got, err := BuildBundles(context.Background(), specs, bundleInput())
	require.NoError(t, err)
	require.Len(t, got, 2)

	bar := got[0]
	assert.Equal(t, specs[0], bar.Spec)
	require.Len(t, bar.Axes, 1)
	assert.Equal(t, "Runs", bar.Axes[0].Metric.Label)
	assert.Equal(t, 0.0, bar.Axes[0].Domain.Min)
	assert.InDelta(t, 182, bar.Axes[0].Domain.Max, 1e-9)
	require.Len(t, bar.Points, 2, "summary rows are not plotted")
	assert.Equal(t, "2024 · Mumbai Indians", bar.Points[0].Label)
	assert.Equal(t, "#004BA0", bar.Points[0].Color)
	assert.Equal(t, "#EA1A85", bar.Points[1].Color)
	require.NotNil(t, bar.Points[0].Values[0])
	assert.Equal(t, 180.0, *bar.Points[0].Values[0])

	scatter := got[1]
	require.Len(t, scatter.Axes, 2)
	assert.Equal(t, "runs", scatter.Axes[0].Metric.Key)
	assert.Equal(t, "strike_rate", scatter.Axes[1].Metric.Key)
	assert.Nil(t, scatter.Points[1].Values[1])
	assert.Equal(t, Domain{Min: 137, Max: 143}, scatter.Axes[1].Domain)
}

func TestBuildBundles_UnknownMetric(t *testing.T) {
	specs := []domain.ChartSpec{{Kind: domain.ChartBar, Y: "economy"}}
	_, err := BuildBundles(context.Background(), specs, bundleInput())
	require.Error(t, err)
	var verr *domain.ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.True(t, strings.Contains(err.Error(), "economy"))
}

func TestBuildBundles_Empty(t *testing.T) {
	got, err := BuildBundles(context.Background(), nil, Input{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewSpecIDsAreUnique(t *testing.T) {
	a := NewSpec(domain.ChartBar, "", "runs")
	b := NewSpec(domain.ChartBar, "", "runs")
	assert.NotEqual(t, a.ID, b.ID)
}
