package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"innings-explorer/internal/domain"
	"innings-explorer/internal/urlcodec"
)

const maxEncodeBody = 1 << 20

// FiltersResponse is a filter state in canonical form.
type FiltersResponse struct {
	Filters map[string]any `json:"filters"`
	GroupBy []string       `json:"group_by"`
	Query   string         `json:"query"`
}

// EncodeRequest is the body of POST /v1/filters/encode. Filter values may be
// a string, a number, a bool or a list of strings.
type EncodeRequest struct {
	Filters map[string]any `json:"filters"`
	GroupBy []string       `json:"group_by"`
	// Base is an optional path or URL the share link is built on.
	Base string `json:"base"`
}

// EncodeResponse carries the encoded query and share link.
type EncodeResponse struct {
	Query     string `json:"query"`
	ShareLink string `json:"share_link"`
}

// DecodeFilters handles GET /v1/filters/decode.
func (h *Handler) DecodeFilters(w http.ResponseWriter, r *http.Request) {
	filters, groupBy := urlcodec.Decode(r.URL.RawQuery)
	writeJSON(w, http.StatusOK, filtersResponse(filters, groupBy))
}

// EncodeFilters handles POST /v1/filters/encode.
func (h *Handler) EncodeFilters(w http.ResponseWriter, r *http.Request) {
	var req EncodeRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxEncodeBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, r, domain.ErrValidation("invalid request body: %v", err))
		return
	}

	filters, err := filtersFromJSON(req.Filters)
	if err != nil {
		writeError(w, r, err)
		return
	}
	groupBy := domain.GroupBy(req.GroupBy).Normalize()
	writeJSON(w, http.StatusOK, EncodeResponse{
		Query:     urlcodec.Encode(filters, groupBy),
		ShareLink: urlcodec.ShareLink(req.Base, filters, groupBy),
	})
}

func filtersResponse(filters domain.FilterState, groupBy domain.GroupBy) FiltersResponse {
	out := make(map[string]any, len(filters))
	for _, key := range domain.FilterKeys {
		c, ok := filters[key.Name]
		if !ok || c.IsEmpty() {
			continue
		}
		out[key.Name] = CriterionJSON(c)
	}
	return FiltersResponse{
		Filters: out,
		GroupBy: nonNil(groupBy),
		Query:   urlcodec.Encode(filters, groupBy),
	}
}

// CriterionJSON renders c as its natural JSON value.
func CriterionJSON(c domain.Criterion) any {
	switch c.Kind {
	case domain.ParamList:
		return c.Values()
	case domain.ParamInt:
		return c.Int
	case domain.ParamBool:
		return c.Bool
	default:
		return c.Text
	}
}

func filtersFromJSON(raw map[string]any) (domain.FilterState, error) {
	filters := domain.DefaultFilterState()
	for name, v := range raw {
		values, err := jsonValues(v)
		if err != nil {
			return nil, domain.ErrValidation("filter %q: %v", name, err)
		}
		if len(values) == 0 {
			continue
		}
		key, c, err := domain.ParseCriterion(name, values...)
		if err != nil {
			return nil, err
		}
		if prev, ok := filters[key]; ok && c.Kind == domain.ParamList {
			c.List = append(prev.List, c.List...)
		}
		if !c.IsEmpty() {
			filters[key] = c
		}
	}
	return filters, nil
}

func jsonValues(v any) ([]string, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{t}, nil
	case bool:
		return []string{strconv.FormatBool(t)}, nil
	case float64:
		return []string{domain.FormatNumber(t)}, nil
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("list elements must be strings, got %T", e)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}
