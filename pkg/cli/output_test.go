package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innings-explorer/internal/domain"
)

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		wantErr bool
	}{
		{name: "empty ok", output: ""},
		{name: "table ok", output: "table"},
		{name: "json ok", output: "json"},
		{name: "csv ok", output: "csv"},
		{name: "yaml rejected", output: "yaml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateOutputFormat(tt.output)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

// === printTable ===

func TestPrintTable_Basic(t *testing.T) {
	var buf bytes.Buffer
	printTable(&buf, []string{"batter", "runs"}, [][]string{
		{"V Kohli", "973"},
		{"AB de Villiers", "687"},
	}, 0)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "BATTER          RUNS", lines[0])
	assert.Equal(t, "V Kohli         973", lines[1])
	assert.Equal(t, "AB de Villiers  687", lines[2])
}

func TestPrintTable_EmptyColumns(t *testing.T) {
	var buf bytes.Buffer
	printTable(&buf, nil, [][]string{{"a"}}, 0)
	assert.Empty(t, buf.String())
}

func TestPrintTable_TruncatesToWidth(t *testing.T) {
	var buf bytes.Buffer
	printTable(&buf, []string{"venue", "runs"}, [][]string{
		{"M Chinnaswamy Stadium, Bengaluru", "2100"},
	}, 20)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	for _, l := range lines {
		assert.LessOrEqual(t, len([]rune(l)), 20, l)
	}
	assert.Contains(t, lines[1], "…")
	assert.True(t, strings.HasSuffix(lines[1], "2100"))
}

func TestFitWidths_StopsAtMinimum(t *testing.T) {
	widths := []int{10, 10}
	fitWidths(widths, 4)
	assert.Equal(t, []int{minCellWidth, minCellWidth}, widths)
}

func TestRowCells_NullIsNA(t *testing.T) {
	rows := []domain.Row{domain.NewRow("phase", nil, "runs", 12)}
	assert.Equal(t, [][]string{{"N/A", "12"}}, rowCells([]string{"phase", "runs"}, rows))
}
