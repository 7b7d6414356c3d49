package domain

import (
	"slices"
	"strconv"
	"strings"
)

// ParamKind is the wire type of a filter key.
type ParamKind int

// Filter key kinds.
const (
	ParamList ParamKind = iota // repeated key, membership
	ParamText                  // single string
	ParamInt                   // single integer (also range endpoints)
	ParamBool                  // literal "true" is true, anything else false
)

// GroupByParam is the query parameter carrying GroupBy columns.
const GroupByParam = "group_by"

// FilterKey describes one known filter parameter.
type FilterKey struct {
	Name    string
	Kind    ParamKind
	Aliases []string
}

// FilterKeys is the fixed registry of known filter keys in canonical
// encoding order.
var FilterKeys = []FilterKey{
	{Name: "batters", Kind: ParamList, Aliases: []string{"batter"}},
	{Name: "bowlers", Kind: ParamList, Aliases: []string{"bowler"}},
	{Name: "batting_teams", Kind: ParamList, Aliases: []string{"batting_team"}},
	{Name: "bowling_teams", Kind: ParamList, Aliases: []string{"bowling_team"}},
	{Name: "leagues", Kind: ParamList, Aliases: []string{"league", "competition"}},
	{Name: "venues", Kind: ParamList, Aliases: []string{"venue"}},
	{Name: "phases", Kind: ParamList, Aliases: []string{"phase"}},
	{Name: "bowl_kinds", Kind: ParamList, Aliases: []string{"bowl_kind"}},
	{Name: "bowl_styles", Kind: ParamList, Aliases: []string{"bowl_style"}},
	{Name: "innings", Kind: ParamList},
	{Name: "start_date", Kind: ParamText},
	{Name: "end_date", Kind: ParamText},
	{Name: "min_balls", Kind: ParamInt},
	{Name: "max_balls", Kind: ParamInt},
	{Name: "min_runs", Kind: ParamInt},
	{Name: "max_runs", Kind: ParamInt},
	{Name: "min_wickets", Kind: ParamInt},
	{Name: "over_min", Kind: ParamInt},
	{Name: "over_max", Kind: ParamInt},
	{Name: "include_international", Kind: ParamBool},
	{Name: "top_teams", Kind: ParamInt},
}

var filterKeyIndex = buildFilterKeyIndex()

func buildFilterKeyIndex() map[string]FilterKey {
	idx := make(map[string]FilterKey, len(FilterKeys)*2)
	for _, k := range FilterKeys {
		idx[k.Name] = k
		for _, a := range k.Aliases {
			idx[a] = k
		}
	}
	return idx
}

// LookupFilterKey resolves a parameter name or legacy alias to its key.
func LookupFilterKey(name string) (FilterKey, bool) {
	k, ok := filterKeyIndex[name]
	return k, ok
}

// Criterion is a single filter value: a scalar or a membership list.
type Criterion struct {
	Kind ParamKind
	Text string
	Int  int
	Bool bool
	List []string
}

// List builds a membership criterion.
func List(values ...string) Criterion { return Criterion{Kind: ParamList, List: values} }

// Text builds a string criterion.
func Text(s string) Criterion { return Criterion{Kind: ParamText, Text: s} }

// Int builds an integer criterion.
func Int(n int) Criterion { return Criterion{Kind: ParamInt, Int: n} }

// Flag builds a boolean criterion.
func Flag(b bool) Criterion { return Criterion{Kind: ParamBool, Bool: b} }

// IsEmpty reports whether c imposes no constraint.
func (c Criterion) IsEmpty() bool {
	switch c.Kind {
	case ParamList:
		return len(c.Values()) == 0
	case ParamText:
		return c.Text == ""
	default:
		return false
	}
}

// Values returns the non-empty list elements.
func (c Criterion) Values() []string {
	out := make([]string, 0, len(c.List))
	for _, v := range c.List {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Params renders c as the query parameter values it encodes to.
func (c Criterion) Params() []string {
	switch c.Kind {
	case ParamList:
		return c.Values()
	case ParamText:
		if c.Text == "" {
			return nil
		}
		return []string{c.Text}
	case ParamInt:
		return []string{strconv.Itoa(c.Int)}
	case ParamBool:
		return []string{strconv.FormatBool(c.Bool)}
	default:
		return nil
	}
}

// ParseCriterion resolves name (or a legacy alias) and builds its criterion
// from raw values. It returns the canonical key.
func ParseCriterion(name string, values ...string) (string, Criterion, error) {
	fk, ok := LookupFilterKey(name)
	if !ok {
		return "", Criterion{}, ErrValidation("unknown filter %q", name)
	}
	if fk.Kind == ParamList {
		return fk.Name, List(values...), nil
	}
	if len(values) != 1 {
		return "", Criterion{}, ErrValidation("filter %q takes exactly one value", fk.Name)
	}
	switch fk.Kind {
	case ParamInt:
		n, err := strconv.Atoi(strings.TrimSpace(values[0]))
		if err != nil {
			return "", Criterion{}, ErrValidation("filter %q needs an integer, got %q", fk.Name, values[0])
		}
		return fk.Name, Int(n), nil
	case ParamBool:
		return fk.Name, Flag(values[0] == "true"), nil
	default:
		return fk.Name, Text(values[0]), nil
	}
}

// FilterState maps known filter keys to criteria. Absent or empty entries
// mean "no constraint".
type FilterState map[string]Criterion

// DefaultFilterState returns the state used when the location carries no
// parameters.
func DefaultFilterState() FilterState {
	return FilterState{}
}

// IsDefault reports whether f constrains nothing.
func (f FilterState) IsDefault() bool {
	for _, c := range f {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of f.
func (f FilterState) Clone() FilterState {
	out := make(FilterState, len(f))
	for k, c := range f {
		c.List = slices.Clone(c.List)
		out[k] = c
	}
	return out
}

// Bound is a numeric range assembled from a min_/max_ key pair.
type Bound struct {
	Min *int
	Max *int
}

// Bound reassembles the range criterion for name from its endpoint keys,
// accepting both the min_<name>/max_<name> and <name>_min/<name>_max forms.
func (f FilterState) Bound(name string) Bound {
	var b Bound
	for _, k := range []string{"min_" + name, name + "_min"} {
		if c, ok := f[k]; ok && c.Kind == ParamInt {
			v := c.Int
			b.Min = &v
		}
	}
	for _, k := range []string{"max_" + name, name + "_max"} {
		if c, ok := f[k]; ok && c.Kind == ParamInt {
			v := c.Int
			b.Max = &v
		}
	}
	return b
}

// GroupBy is the ordered list of grouping columns; position is hierarchy depth.
type GroupBy []string

// Contains reports whether col is one of the grouping columns.
func (g GroupBy) Contains(col string) bool {
	return slices.Contains(g, col)
}

// First returns the top-level grouping column, or "" when ungrouped.
func (g GroupBy) First() string {
	if len(g) == 0 {
		return ""
	}
	return g[0]
}

// Normalize drops blank and duplicate columns, keeping first occurrences.
func (g GroupBy) Normalize() GroupBy {
	out := make(GroupBy, 0, len(g))
	seen := make(map[string]bool, len(g))
	for _, col := range g {
		col = strings.TrimSpace(col)
		if col == "" || seen[col] {
			continue
		}
		seen[col] = true
		out = append(out, col)
	}
	return out
}
