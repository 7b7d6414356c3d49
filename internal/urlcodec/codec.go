// Package urlcodec translates filter state and grouping to and from the
// shareable query-string form used in links and upstream requests.
//
// Encoding walks the filter key registry in canonical order so the output is
// deterministic. An empty string value and an absent key both decode to "no
// constraint", so they are indistinguishable after a round trip.
package urlcodec

import (
	"net/url"
	"strconv"
	"strings"

	"innings-explorer/internal/domain"
)

// Encode renders filters and groupBy as a query string (no leading '?').
// List criteria emit one parameter per element; empty criteria are omitted,
// as are criteria whose kind does not match the registry entry for their key.
func Encode(filters domain.FilterState, groupBy domain.GroupBy) string {
	var b strings.Builder
	emit := func(key, value string) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}

	for _, key := range domain.FilterKeys {
		c, ok := filters[key.Name]
		if !ok || c.Kind != key.Kind || c.IsEmpty() {
			continue
		}
		for _, v := range c.Params() {
			emit(key.Name, v)
		}
	}
	for _, col := range groupBy {
		if col == "" {
			continue
		}
		emit(domain.GroupByParam, col)
	}
	return b.String()
}

// Decode parses a query string produced by Encode or typed by hand. Unknown
// keys are ignored, legacy aliases merge into their canonical key, integer
// keys that do not parse are dropped, and boolean keys are true only for the
// literal "true".
func Decode(rawQuery string) (domain.FilterState, domain.GroupBy) {
	filters := domain.DefaultFilterState()
	var groupBy domain.GroupBy

	for _, pair := range splitPairs(rawQuery) {
		key, value := pair[0], pair[1]
		if key == domain.GroupByParam {
			if value != "" {
				groupBy = append(groupBy, value)
			}
			continue
		}
		fk, ok := domain.LookupFilterKey(key)
		if !ok || value == "" {
			continue
		}
		switch fk.Kind {
		case domain.ParamList:
			c := filters[fk.Name]
			c.Kind = domain.ParamList
			c.List = append(c.List, value)
			filters[fk.Name] = c
		case domain.ParamText:
			if _, seen := filters[fk.Name]; !seen {
				filters[fk.Name] = domain.Text(value)
			}
		case domain.ParamInt:
			n, err := strconv.Atoi(value)
			if err != nil {
				continue
			}
			if _, seen := filters[fk.Name]; !seen {
				filters[fk.Name] = domain.Int(n)
			}
		case domain.ParamBool:
			if _, seen := filters[fk.Name]; !seen {
				filters[fk.Name] = domain.Flag(value == "true")
			}
		}
	}
	return filters, groupBy
}

// DecodeURL decodes the query part of a full link or a bare query string.
func DecodeURL(raw string) (domain.FilterState, domain.GroupBy, error) {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") && !strings.HasPrefix(raw, "/") {
		f, g := Decode(raw)
		return f, g, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, nil, domain.ErrValidation("invalid link %q: %v", raw, err)
	}
	f, g := Decode(u.RawQuery)
	return f, g, nil
}

// ShareLink appends the encoded state to base, replacing any existing query.
func ShareLink(base string, filters domain.FilterState, groupBy domain.GroupBy) string {
	base, _, _ = strings.Cut(base, "?")
	q := Encode(filters, groupBy)
	if q == "" {
		return base
	}
	return base + "?" + q
}

// HasParams reports whether a decoded location carries anything beyond the
// defaults, which is what warrants a run at startup.
func HasParams(filters domain.FilterState, groupBy domain.GroupBy) bool {
	return !filters.IsDefault() || len(groupBy) > 0
}

// splitPairs splits a query string into unescaped key/value pairs in
// encounter order. url.ParseQuery would lose ordering across keys.
func splitPairs(rawQuery string) [][2]string {
	rawQuery = strings.TrimPrefix(rawQuery, "?")
	var out [][2]string
	for _, part := range strings.Split(rawQuery, "&") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			continue
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			continue
		}
		out = append(out, [2]string{key, value})
	}
	return out
}
