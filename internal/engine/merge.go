// Package engine merges raw grouped rows with backend subtotal data into the
// single ordered row sequence the table pipeline consumes.
package engine

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"innings-explorer/internal/domain"
)

// decimalKey matches plain decimal numbers. strconv.ParseFloat alone would
// also accept NaN, Inf and hex floats.
var decimalKey = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// keySeparator joins the stringified GroupBy values of a percentage lookup key.
const keySeparator = "|"

// baseFields are the counters the backend reports as total_<field> in
// first-level summary entries.
var baseFields = []string{"balls", "runs", "wickets", "dots", "boundaries", "fours", "sixes"}

// Input is everything the merge needs from one execution.
type Input struct {
	Rows         []domain.Row
	Summary      *domain.SummaryData
	GroupBy      domain.GroupBy
	HasSummaries bool
}

// InputFrom builds an Input from a QueryResult and the GroupBy it was run with.
func InputFrom(res *domain.QueryResult, groupBy domain.GroupBy) Input {
	if res == nil {
		return Input{GroupBy: groupBy}
	}
	return Input{
		Rows:         res.Rows,
		Summary:      res.Summary,
		GroupBy:      groupBy,
		HasSummaries: res.HasSummaries(),
	}
}

// Merge returns the rows to display: every raw row tagged with is_summary and
// percent_balls, and, for multi-level groupings with summaries, one subtotal
// row after each first-level partition. Input rows are never modified.
func Merge(in Input) []domain.Row {
	if len(in.GroupBy) == 0 || !in.HasSummaries || in.Summary == nil {
		out := make([]domain.Row, len(in.Rows))
		for i, r := range in.Rows {
			row := r.Clone()
			row.Set(domain.FieldIsSummary, domain.Bool(false))
			if !row.Has(domain.FieldPercentBalls) {
				row.Set(domain.FieldPercentBalls, domain.Num(0))
			}
			out[i] = row
		}
		return out
	}

	percentages := percentLookup(in.Summary.Percentages(), in.GroupBy)
	tagged := make([]domain.Row, len(in.Rows))
	for i, r := range in.Rows {
		row := r.Clone()
		row.Set(domain.FieldIsSummary, domain.Bool(false))
		row.Set(domain.FieldPercentBalls, domain.Num(percentages[tupleKey(r, in.GroupBy)]))
		tagged[i] = row
	}

	first := in.GroupBy.First()
	summaries, ok := in.Summary.Table(domain.SummaryTableName(first))
	if len(in.GroupBy) < 2 || !ok {
		return tagged
	}
	return interleave(tagged, summaries, in.GroupBy)
}

// TupleKey is the lookup key of a row: the String() of every GroupBy column
// joined by a fixed separator, with nulls rendered as "null".
func TupleKey(row domain.Row, groupBy domain.GroupBy) string {
	return tupleKey(row, groupBy)
}

func tupleKey(row domain.Row, groupBy domain.GroupBy) string {
	parts := make([]string, len(groupBy))
	for i, col := range groupBy {
		parts[i] = row.Get(col).String()
	}
	return strings.Join(parts, keySeparator)
}

func percentLookup(table []domain.Row, groupBy domain.GroupBy) map[string]float64 {
	out := make(map[string]float64, len(table))
	for _, entry := range table {
		out[tupleKey(entry, groupBy)] = entry.Get(domain.FieldPercentBalls).Float()
	}
	return out
}

// interleave partitions rows by the first GroupBy column and appends one
// summary row after each partition that has a matching summary entry.
func interleave(rows, summaries []domain.Row, groupBy domain.GroupBy) []domain.Row {
	first := groupBy.First()

	partitions := make(map[string][]domain.Row)
	var keys []string
	for _, row := range rows {
		k := row.Get(first).String()
		if _, seen := partitions[k]; !seen {
			keys = append(keys, k)
		}
		partitions[k] = append(partitions[k], row)
	}
	orderPartitionKeys(keys)

	byKey := make(map[string]domain.Row, len(summaries))
	for _, s := range summaries {
		k := s.Get(first).String()
		if _, dup := byKey[k]; !dup {
			byKey[k] = s
		}
	}

	out := make([]domain.Row, 0, len(rows)+len(keys))
	for _, k := range keys {
		out = append(out, partitions[k]...)
		if entry, ok := byKey[k]; ok {
			out = append(out, SummaryRow(entry, groupBy))
		}
	}
	return out
}

// orderPartitionKeys sorts numerically descending when every key is a number
// (year-like groupings show newest first), otherwise lexicographically.
func orderPartitionKeys(keys []string) {
	nums := make(map[string]float64, len(keys))
	for _, k := range keys {
		t := strings.TrimSpace(k)
		if !decimalKey.MatchString(t) {
			sort.Strings(keys)
			return
		}
		n, err := strconv.ParseFloat(t, 64)
		if err != nil {
			sort.Strings(keys)
			return
		}
		nums[k] = n
	}
	sort.SliceStable(keys, func(i, j int) bool { return nums[keys[i]] > nums[keys[j]] })
}

// SummaryRow synthesizes a first-level subtotal row from a backend summary
// entry: total_* counters are renamed to their base names, the derived rates
// are recomputed, and every GroupBy column below the first is nulled.
func SummaryRow(entry domain.Row, groupBy domain.GroupBy) domain.Row {
	row := entry.Clone()
	for _, f := range baseFields {
		row.Rename("total_"+f, f)
	}

	balls := row.Get("balls").Float()
	runs := row.Get("runs").Float()
	wickets := row.Get("wickets").Float()
	dots := row.Get("dots").Float()
	boundaries := row.Get("boundaries").Float()

	if wickets > 0 {
		row.Set("average", domain.Num(runs/wickets))
		row.Set("balls_per_dismissal", domain.Num(balls/wickets))
	} else {
		row.Set("average", domain.Null())
		row.Set("balls_per_dismissal", domain.Null())
	}
	row.Set("strike_rate", domain.Num(ratio(runs*100, balls)))
	row.Set("dot_percentage", domain.Num(ratio(dots*100, balls)))
	row.Set("boundary_percentage", domain.Num(ratio(boundaries*100, balls)))

	row.Set(domain.FieldPercentBalls, domain.Num(100))
	row.Set(domain.FieldIsSummary, domain.Bool(true))
	row.Set(domain.FieldSummaryLevel, domain.Num(1))
	if len(groupBy) > 1 {
		for _, col := range groupBy[1:] {
			row.Set(col, domain.Null())
		}
	}
	return row
}

func ratio(num, balls float64) float64 {
	if balls > 0 {
		return num / balls
	}
	return 0
}
