package chart

import (
	"strings"

	"innings-explorer/internal/domain"
)

// teamColors maps franchise and national team names to their primary color.
var teamColors = map[string]string{
	"Chennai Super Kings":         "#FDB913",
	"Mumbai Indians":              "#004BA0",
	"Royal Challengers Bangalore": "#EC1C24",
	"Royal Challengers Bengaluru": "#EC1C24",
	"Kolkata Knight Riders":       "#3A225D",
	"Delhi Capitals":              "#17479E",
	"Delhi Daredevils":            "#00008B",
	"Punjab Kings":                "#ED1B24",
	"Kings XI Punjab":             "#ED1B24",
	"Rajasthan Royals":            "#EA1A85",
	"Sunrisers Hyderabad":         "#FF822A",
	"Deccan Chargers":             "#D9E3EF",
	"Gujarat Titans":              "#1B2133",
	"Gujarat Lions":               "#E04F16",
	"Lucknow Super Giants":        "#A72056",
	"Rising Pune Supergiant":      "#6F61AC",
	"India":                       "#1F4E9E",
	"Australia":                   "#FFCD00",
	"England":                     "#00205B",
	"Pakistan":                    "#01411C",
	"South Africa":                "#007749",
	"New Zealand":                 "#111111",
	"Sri Lanka":                   "#0A2351",
	"Bangladesh":                  "#006A4E",
	"West Indies":                 "#7B0041",
	"Afghanistan":                 "#0066B3",
}

var teamColorsFolded = func() map[string]string {
	m := make(map[string]string, len(teamColors))
	for name, c := range teamColors {
		m[strings.ToLower(name)] = c
	}
	return m
}()

// TeamColor resolves a team's color by exact name, then case-insensitively,
// then by any "/" or "-" separated segment of the name.
func TeamColor(name string) (string, bool) {
	if c, ok := teamColors[name]; ok {
		return c, true
	}
	if c, ok := teamColorsFolded[strings.ToLower(strings.TrimSpace(name))]; ok {
		return c, true
	}
	segments := strings.FieldsFunc(name, func(r rune) bool { return r == '/' || r == '-' })
	if len(segments) < 2 {
		return "", false
	}
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if c, ok := teamColors[seg]; ok {
			return c, true
		}
		if c, ok := teamColorsFolded[strings.ToLower(seg)]; ok {
			return c, true
		}
	}
	return "", false
}

// RowColor picks a row's color. Team columns in the grouping are looked up in
// order; otherwise, or when no team color matches, the palette entry for
// index is used.
func RowColor(row domain.Row, groupBy domain.GroupBy, index int) string {
	for _, col := range groupBy {
		if !IsTeamColumn(col) {
			continue
		}
		if name, ok := row.Get(col).Text(); ok {
			if c, ok := TeamColor(name); ok {
				return c
			}
		}
	}
	return PaletteColor(index)
}
