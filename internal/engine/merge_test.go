package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innings-explorer/internal/domain"
)

func summaries(tables map[string][]domain.Row) *domain.SummaryData {
	return &domain.SummaryData{Tables: tables}
}

// === Pass-through ===

func TestMerge_UngroupedPassThrough(t *testing.T) {
	rows := []domain.Row{
		domain.NewRow("batter", "V Kohli", "runs", 50),
		domain.NewRow("batter", "RG Sharma", "runs", 40, "percent_balls", 12.5),
	}

	out := Merge(Input{Rows: rows, HasSummaries: true, Summary: summaries(nil)})
	require.Len(t, out, 2)
	assert.False(t, out[0].IsSummary())
	assert.Equal(t, domain.Num(0), out[0].Get("percent_balls"))
	assert.Equal(t, domain.Num(12.5), out[1].Get("percent_balls"))
	assert.Equal(t, "V Kohli", out[0].Get("batter").String())

	// Input rows untouched.
	assert.False(t, rows[0].Has(domain.FieldIsSummary))
}

func TestMerge_SummariesDisabled(t *testing.T) {
	rows := []domain.Row{domain.NewRow("year", "2024", "phase", "death")}
	s := summaries(map[string][]domain.Row{
		"year_summaries": {domain.NewRow("year", "2024", "total_balls", 10)},
	})

	out := Merge(Input{Rows: rows, Summary: s, GroupBy: domain.GroupBy{"year", "phase"}, HasSummaries: false})
	require.Len(t, out, 1)
	assert.False(t, out[0].IsSummary())
}

func TestMerge_MissingSummaryData(t *testing.T) {
	rows := []domain.Row{domain.NewRow("year", "2024", "phase", "death")}
	out := Merge(Input{Rows: rows, GroupBy: domain.GroupBy{"year", "phase"}, HasSummaries: true})
	require.Len(t, out, 1)
	assert.Equal(t, domain.Num(0), out[0].Get("percent_balls"))
}

// === Percentages ===

func TestMerge_PercentageAttachment(t *testing.T) {
	rows := []domain.Row{
		domain.NewRow("phase", "powerplay", "bowl_kind", "pace", "balls", 60),
		domain.NewRow("phase", "death", "bowl_kind", nil, "balls", 30),
		domain.NewRow("phase", "middle", "bowl_kind", "spin", "balls", 10),
	}
	s := summaries(map[string][]domain.Row{
		"percentages": {
			domain.NewRow("phase", "powerplay", "bowl_kind", "pace", "percent_balls", 60.0),
			domain.NewRow("phase", "death", "bowl_kind", nil, "percent_balls", 30.0),
		},
	})

	out := Merge(Input{Rows: rows, Summary: s, GroupBy: domain.GroupBy{"phase", "bowl_kind"}, HasSummaries: true})
	require.Len(t, out, 3, "no summary table for phase, so no subtotal rows")
	assert.Equal(t, domain.Num(60), out[0].Get("percent_balls"))
	assert.Equal(t, domain.Num(30), out[1].Get("percent_balls"), "null matches the literal null key")
	assert.Equal(t, domain.Num(0), out[2].Get("percent_balls"), "miss defaults to 0")
}

func TestTupleKey_NumbersAndStringsAgree(t *testing.T) {
	g := domain.GroupBy{"year", "phase"}
	a := TupleKey(domain.NewRow("year", 2023, "phase", nil), g)
	b := TupleKey(domain.NewRow("year", "2023", "phase", nil), g)
	assert.Equal(t, a, b)
	assert.Equal(t, "2023|null", a)
}

// === Summary rows ===

func TestMerge_ScenarioB(t *testing.T) {
	rows := []domain.Row{
		domain.NewRow("year", "2023", "balls", 120, "runs", 150),
		domain.NewRow("year", "2024", "balls", 100, "runs", 130),
	}
	s := summaries(map[string][]domain.Row{
		"year_summaries": {
			domain.NewRow("year", "2023", "total_balls", 120, "total_runs", 150, "total_wickets", 5),
		},
	})

	out := Merge(Input{Rows: rows, Summary: s, GroupBy: domain.GroupBy{"year", "phase"}, HasSummaries: true})
	require.Len(t, out, 3)

	// Numeric partitions are newest first.
	assert.Equal(t, "2024", out[0].Get("year").String())
	assert.False(t, out[0].IsSummary())
	assert.Equal(t, "2023", out[1].Get("year").String())
	assert.False(t, out[1].IsSummary())

	sum := out[2]
	require.True(t, sum.IsSummary())
	assert.Equal(t, domain.Num(150), sum.Get("runs"))
	assert.Equal(t, domain.Num(30), sum.Get("average"))
	assert.Equal(t, domain.Num(125.0), sum.Get("strike_rate"))
	assert.Equal(t, domain.Num(100), sum.Get("percent_balls"))
	assert.Equal(t, domain.Num(1), sum.Get("summary_level"))
	assert.Equal(t, domain.Num(24), sum.Get("balls_per_dismissal"))
	assert.True(t, sum.Has("phase"))
	assert.True(t, sum.Get("phase").IsNull())
	assert.False(t, sum.Has("total_runs"))
	assert.Equal(t, "2023", sum.Get("year").String())
}

func TestMerge_SummaryCountMatchesDistinctFirstValues(t *testing.T) {
	var rows []domain.Row
	var yearSummaries []domain.Row
	for _, y := range []string{"2019", "2021", "2020"} {
		for _, p := range []string{"powerplay", "middle", "death"} {
			rows = append(rows, domain.NewRow("year", y, "phase", p, "batting_team", "MI", "balls", 10))
		}
		yearSummaries = append(yearSummaries, domain.NewRow("year", y, "total_balls", 30, "total_runs", 40))
	}
	s := summaries(map[string][]domain.Row{"year_summaries": yearSummaries})
	g := domain.GroupBy{"year", "phase", "batting_team"}

	out := Merge(Input{Rows: rows, Summary: s, GroupBy: g, HasSummaries: true})
	require.Len(t, out, len(rows)+3)

	var count int
	var years []string
	for _, r := range out {
		if !r.IsSummary() {
			continue
		}
		count++
		years = append(years, r.Get("year").String())
		assert.Equal(t, domain.Num(1), r.Get("summary_level"))
		assert.True(t, r.Get("phase").IsNull())
		assert.True(t, r.Get("batting_team").IsNull())
		assert.True(t, r.Get("average").IsNull(), "no wickets means no average")
	}
	assert.Equal(t, 3, count)
	assert.Equal(t, []string{"2021", "2020", "2019"}, years)
}

func TestMerge_LexicographicPartitions(t *testing.T) {
	rows := []domain.Row{
		domain.NewRow("team", "RCB", "phase", "death"),
		domain.NewRow("team", "CSK", "phase", "death"),
		domain.NewRow("team", "RCB", "phase", "powerplay"),
	}
	s := summaries(map[string][]domain.Row{
		"team_summaries": {
			domain.NewRow("team", "RCB", "total_balls", 0),
			domain.NewRow("team", "CSK", "total_balls", 0),
		},
	})

	out := Merge(Input{Rows: rows, Summary: s, GroupBy: domain.GroupBy{"team", "phase"}, HasSummaries: true})
	require.Len(t, out, 5)
	got := make([]string, len(out))
	for i, r := range out {
		got[i] = r.Get("team").String() + ":" + r.Get("phase").String()
	}
	assert.Equal(t, []string{"CSK:death", "CSK:null", "RCB:death", "RCB:powerplay", "RCB:null"}, got)
	assert.Equal(t, domain.Num(0), out[1].Get("strike_rate"), "zero balls yields zero rate")
	assert.Equal(t, domain.Num(0), out[1].Get("dot_percentage"))
}

func TestOrderPartitionKeys(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want []string
	}{
		{name: "years descending", keys: []string{"2022", "2024", "2023"}, want: []string{"2024", "2023", "2022"}},
		{name: "decimals descending", keys: []string{"1.5", "10", ".25", "2e1"}, want: []string{"2e1", "10", "1.5", ".25"}},
		{name: "NaN is text", keys: []string{"NaN", "10", "2"}, want: []string{"10", "2", "NaN"}},
		{name: "infinity is text", keys: []string{"Inf", "infinity", "3"}, want: []string{"3", "Inf", "infinity"}},
		{name: "hex is text", keys: []string{"0x10", "9"}, want: []string{"0x10", "9"}},
		{name: "null partition is text", keys: []string{"2024", "null"}, want: []string{"2024", "null"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys := append([]string(nil), tt.keys...)
			orderPartitionKeys(keys)
			assert.Equal(t, tt.want, keys)
		})
	}
}

func TestSummaryRow_DerivedRates(t *testing.T) {
	entry := domain.NewRow("year", 2022,
		"total_balls", 200, "total_runs", 260, "total_wickets", 4,
		"total_dots", 50, "total_boundaries", 30, "total_fours", 20, "total_sixes", 10)

	row := SummaryRow(entry, domain.GroupBy{"year", "phase"})
	assert.Equal(t, domain.Num(65), row.Get("average"))
	assert.Equal(t, domain.Num(130), row.Get("strike_rate"))
	assert.Equal(t, domain.Num(50), row.Get("balls_per_dismissal"))
	assert.Equal(t, domain.Num(25), row.Get("dot_percentage"))
	assert.Equal(t, domain.Num(15), row.Get("boundary_percentage"))
	assert.Equal(t, domain.Num(20), row.Get("fours"))
	assert.Equal(t, domain.Num(10), row.Get("sixes"))
	assert.Equal(t, []string{"year", "balls", "runs", "wickets", "dots", "boundaries", "fours", "sixes"}, row.Keys()[:8])

	// Entry untouched.
	assert.True(t, entry.Has("total_balls"))
}

func TestInputFrom(t *testing.T) {
	res := &domain.QueryResult{
		Rows:     []domain.Row{domain.NewRow("a", 1)},
		Metadata: domain.NewRow("has_summaries", true),
	}
	in := InputFrom(res, domain.GroupBy{"a"})
	assert.True(t, in.HasSummaries)
	assert.Len(t, in.Rows, 1)

	assert.Empty(t, Merge(InputFrom(nil, nil)))
}
