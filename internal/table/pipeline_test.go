package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innings-explorer/internal/domain"
)

func sampleRows() []domain.Row {
	return []domain.Row{
		domain.NewRow("batter", "V Kohli", "phase", "powerplay", "runs", 50, "is_summary", false),
		domain.NewRow("batter", "rg sharma", "phase", "death", "runs", nil, "is_summary", false),
		domain.NewRow("batter", "AB de Villiers", "phase", "death", "runs", 75, "is_summary", false),
		domain.NewRow("batter", nil, "phase", "middle", "runs", 50, "is_summary", false),
		domain.NewRow("batter", "MS Dhoni", "phase", "powerplay", "runs", 12, "is_summary", false),
	}
}

func batters(rows []domain.Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Get("batter").Display()
	}
	return out
}

// === Options ===

func TestOptions(t *testing.T) {
	rows := sampleRows()
	assert.Equal(t, []string{"death", "middle", "powerplay"}, Options(rows, "phase"))
	assert.Equal(t, []string{"AB de Villiers", "MS Dhoni", "N/A", "V Kohli", "rg sharma"}, Options(rows, "batter"))
	assert.Equal(t, []string{"N/A"}, Options(rows, "missing"))
	assert.Empty(t, Options(nil, "phase"))
}

// === Filter ===

func TestFilter_Conjunction(t *testing.T) {
	rows := sampleRows()
	tests := []struct {
		name    string
		filters domain.ColumnFilterState
		want    []string
	}{
		{name: "empty passes all", filters: domain.ColumnFilterState{}, want: batters(rows)},
		{name: "nil passes all", filters: nil, want: batters(rows)},
		{name: "empty set ignored", filters: domain.ColumnFilterState{"phase": {}}, want: batters(rows)},
		{
			name:    "single column",
			filters: domain.ColumnFilterState{"phase": {"death": true}},
			want:    []string{"rg sharma", "AB de Villiers"},
		},
		{
			name: "two columns AND",
			filters: domain.ColumnFilterState{
				"phase": {"death": true, "powerplay": true},
				"runs":  {"50": true},
			},
			want: []string{"V Kohli"},
		},
		{
			name:    "null matches N/A",
			filters: domain.ColumnFilterState{"runs": {"N/A": true}},
			want:    []string{"rg sharma"},
		},
		{
			name:    "no match",
			filters: domain.ColumnFilterState{"phase": {"super over": true}},
			want:    []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, batters(Filter(rows, tt.filters)))
		})
	}
}

// === Sort ===

func TestSort_NumericNullsLast(t *testing.T) {
	rows := sampleRows()

	asc := Sort(rows, domain.SortState{Key: "runs", Direction: domain.Ascending})
	assert.Equal(t, []string{"MS Dhoni", "V Kohli", "N/A", "AB de Villiers", "rg sharma"}, batters(asc))

	desc := Sort(rows, domain.SortState{Key: "runs", Direction: domain.Descending})
	assert.Equal(t, []string{"AB de Villiers", "V Kohli", "N/A", "MS Dhoni", "rg sharma"}, batters(desc))

	// Input order untouched.
	assert.Equal(t, "V Kohli", rows[0].Get("batter").String())
}

func TestSort_TextCaseInsensitive(t *testing.T) {
	got := Sort(sampleRows(), domain.SortState{Key: "batter", Direction: domain.Ascending})
	assert.Equal(t, []string{"AB de Villiers", "MS Dhoni", "rg sharma", "V Kohli", "N/A"}, batters(got))

	got = Sort(sampleRows(), domain.SortState{Key: "batter", Direction: domain.Descending})
	assert.Equal(t, []string{"V Kohli", "rg sharma", "MS Dhoni", "AB de Villiers", "N/A"}, batters(got))
}

func TestSort_StableAndRepeatable(t *testing.T) {
	rows := sampleRows()
	s := domain.SortState{Key: "phase", Direction: domain.Ascending}

	first := Sort(rows, s)
	assert.Equal(t, []string{"rg sharma", "AB de Villiers", "N/A", "V Kohli", "MS Dhoni"}, batters(first))
	assert.Equal(t, batters(first), batters(Sort(first, s)))
	assert.Equal(t, batters(first), batters(Sort(rows, s)))
}

func TestSort_MixedColumnIsText(t *testing.T) {
	rows := []domain.Row{
		domain.NewRow("v", 10),
		domain.NewRow("v", "9"),
		domain.NewRow("v", 2),
	}
	assert.False(t, IsNumericColumn(rows, "v"))
	got := Sort(rows, domain.SortState{Key: "v", Direction: domain.Ascending})
	assert.Equal(t, "10", got[0].Get("v").String())
	assert.Equal(t, "2", got[1].Get("v").String())
	assert.Equal(t, "9", got[2].Get("v").String())
}

func TestSort_ZeroStateCopies(t *testing.T) {
	rows := sampleRows()
	got := Sort(rows, domain.SortState{})
	require.Len(t, got, len(rows))
	got[0] = domain.NewRow("batter", "changed")
	assert.Equal(t, "V Kohli", rows[0].Get("batter").String())
}

// === Paginate ===

func TestPaginate(t *testing.T) {
	rows := sampleRows()
	tests := []struct {
		name      string
		page      int
		size      int
		wantLen   int
		wantPages int
		wantFirst string
	}{
		{name: "first page", page: 0, size: 2, wantLen: 2, wantPages: 3, wantFirst: "V Kohli"},
		{name: "last partial page", page: 2, size: 2, wantLen: 1, wantPages: 3, wantFirst: "MS Dhoni"},
		{name: "past the end", page: 9, size: 2, wantLen: 0, wantPages: 3},
		{name: "negative page", page: -1, size: 10, wantLen: 5, wantPages: 1, wantFirst: "V Kohli"},
		{name: "default size", page: 0, size: 0, wantLen: 5, wantPages: 1, wantFirst: "V Kohli"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(rows, tt.page, tt.size)
			assert.Len(t, p.Rows, tt.wantLen)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, 5, p.Total)
			if tt.wantFirst != "" {
				assert.Equal(t, tt.wantFirst, p.Rows[0].Get("batter").Display())
			}
		})
	}
}

func TestVisibleColumns(t *testing.T) {
	rows := []domain.Row{
		domain.NewRow("year", 2024, "runs", 1, "is_summary", false, "percent_balls", 10, "summary_level", 1),
	}
	assert.Equal(t, []string{"year", "runs", "percent_balls"}, VisibleColumns(rows))
	assert.Nil(t, VisibleColumns(nil))
	assert.Equal(t, []string{"year", "runs", "is_summary", "percent_balls", "summary_level"}, rows[0].Keys())
}

// === State ===

func TestState_ResetRules(t *testing.T) {
	s := NewState(2)
	s.SetPage(2)
	s.Select("phase", "death")
	assert.Equal(t, 0, s.Page, "filter change resets page")

	s.SetPage(1)
	s.SetSort("runs", domain.Descending)
	assert.Equal(t, 0, s.Page, "sort change resets page")

	s.SetPage(1)
	s.SetPageSize(10)
	assert.Equal(t, 0, s.Page, "page size change resets page")
	assert.Equal(t, 10, s.PageSize)

	s.SetPageSize(100000)
	assert.Equal(t, domain.MaxPageSize, s.PageSize)

	s.SetPage(-3)
	assert.Equal(t, 0, s.Page)
}

func TestState_ToggleSort(t *testing.T) {
	s := NewState(0)
	s.ToggleSort("runs")
	assert.Equal(t, domain.SortState{Key: "runs", Direction: domain.Ascending}, s.Sort)
	s.ToggleSort("runs")
	assert.Equal(t, domain.Descending, s.Sort.Direction)
	s.ToggleSort("runs")
	assert.Equal(t, domain.Ascending, s.Sort.Direction)
	s.ToggleSort("balls")
	assert.Equal(t, domain.SortState{Key: "balls", Direction: domain.Ascending}, s.Sort)

	s.SetSort("", domain.Descending)
	assert.True(t, s.Sort.IsZero())
}

func TestState_View(t *testing.T) {
	s := NewState(2)
	s.Select("phase", "death", "powerplay")
	s.SetSort("runs", domain.Descending)

	p := s.View(sampleRows())
	assert.Equal(t, 4, p.Total)
	assert.Equal(t, []string{"AB de Villiers", "V Kohli"}, batters(p.Rows))

	s.SetPage(1)
	p = s.View(sampleRows())
	assert.Equal(t, []string{"MS Dhoni", "rg sharma"}, batters(p.Rows))

	s.Reset()
	assert.False(t, s.Filters.Active())
	assert.True(t, s.Sort.IsZero())
	assert.Equal(t, 2, s.PageSize)
}
