package export

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innings-explorer/internal/domain"
)

func TestCSV_ScenarioD(t *testing.T) {
	rows := []domain.Row{domain.NewRow("batter", "V Kohli, MI", "runs", 50)}
	assert.Equal(t, "batter,runs\n\"V Kohli, MI\",50\n", string(CSV(rows)))
}

func TestCSV_CellRules(t *testing.T) {
	rows := []domain.Row{
		domain.NewRow(
			"name", `He said "hi", then left`,
			"quote", `a "b"`,
			"avg", 31.25,
			"sr", nil,
			"flag", true,
			"is_summary", false,
			"summary_level", 1,
		),
		domain.NewRow("name", "short", "avg", 1e6),
	}

	want := "name,quote,avg,sr,flag\n" +
		`"He said ""hi"", then left",a "b",31.25,,true` + "\n" +
		"short,,1000000,,\n"
	assert.Equal(t, want, string(CSV(rows)))
}

func TestCSV_Empty(t *testing.T) {
	assert.Empty(t, CSV(nil))
}

func TestCell(t *testing.T) {
	tests := []struct {
		name string
		in   domain.Value
		want string
	}{
		{name: "null", in: domain.Null(), want: ""},
		{name: "plain string", in: domain.Str("death"), want: "death"},
		{name: "comma", in: domain.Str("a,b"), want: `"a,b"`},
		{name: "integer", in: domain.Num(150), want: "150"},
		{name: "fraction", in: domain.Num(125.5), want: "125.5"},
		{name: "large number unformatted", in: domain.Num(12345678), want: "12345678"},
		{name: "bool", in: domain.Bool(false), want: "false"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Cell(tt.in))
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteCSV_PropagatesWriteError(t *testing.T) {
	rows := []domain.Row{domain.NewRow("a", 1)}
	err := WriteCSV(failingWriter{}, rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))
	assert.Equal(t, "a\n1\n", buf.String())
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, time.May, 3, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "query-results-2024-05-03.csv", Filename(now, false))
	assert.Equal(t, "query-results-2024-05-03-filtered.csv", Filename(now, true))
}
