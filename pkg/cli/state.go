package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"innings-explorer/internal/domain"
	"innings-explorer/internal/explorer"
)

// stateFlags collects a query and its table view from the command line.
// Everything is assembled into one query string in the same shape the
// server accepts, so the same parsers apply.
type stateFlags struct {
	link     string
	filters  []string
	groupBy  []string
	where    []string
	sort     string
	desc     bool
	page     int
	pageSize int
	charts   []string
}

func (f *stateFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.link, "link", "", "Start from a share link or query string")
	fl.StringArrayVarP(&f.filters, "filter", "f", nil, "Filter as key=value (repeatable, e.g. -f batter='V Kohli')")
	fl.StringSliceVarP(&f.groupBy, "group-by", "g", nil, "Group by columns (comma separated or repeated)")
	fl.StringArrayVarP(&f.where, "where", "w", nil, "Column filter on the merged rows as column=value (repeatable)")
	fl.StringVar(&f.sort, "sort", "", "Sort by column")
	fl.BoolVar(&f.desc, "desc", false, "Sort descending")
	fl.IntVar(&f.page, "page", 1, "Page number, starting at 1")
	fl.IntVar(&f.pageSize, "page-size", domain.DefaultPageSize, "Rows per page")
	fl.StringArrayVar(&f.charts, "chart", nil, "Chart spec, bar:<metric> or scatter:<x>,<y> (repeatable)")
}

// values assembles the flags into query values.
func (f *stateFlags) values() (url.Values, error) {
	q := url.Values{}
	if f.link != "" {
		raw := strings.TrimSpace(f.link)
		if i := strings.IndexByte(raw, '?'); i >= 0 {
			raw = raw[i+1:]
		}
		parsed, err := url.ParseQuery(raw)
		if err != nil {
			return nil, domain.ErrValidation("invalid link %q: %v", f.link, err)
		}
		q = parsed
	}
	for _, kv := range f.filters {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, domain.ErrValidation("filter %q must be key=value", kv)
		}
		key = strings.TrimSpace(key)
		if _, known := domain.LookupFilterKey(key); !known {
			return nil, domain.ErrValidation("unknown filter %q", key)
		}
		q.Add(key, value)
	}
	for _, col := range f.groupBy {
		if col = strings.TrimSpace(col); col != "" {
			q.Add(domain.GroupByParam, col)
		}
	}
	for _, kv := range f.where {
		col, value, ok := strings.Cut(kv, "=")
		if !ok || col == "" {
			return nil, domain.ErrValidation("column filter %q must be column=value", kv)
		}
		q.Add(explorer.ColumnFilterPrefix+col, value)
	}
	if f.sort != "" {
		q.Set(explorer.SortParam, f.sort)
		order := domain.Ascending
		if f.desc {
			order = domain.Descending
		}
		q.Set(explorer.OrderParam, string(order))
	}
	if f.page < 1 {
		return nil, domain.ErrValidation("--page must be at least 1")
	}
	if f.page > 1 {
		q.Set(explorer.PageParam, strconv.Itoa(f.page-1))
	}
	if f.pageSize != domain.DefaultPageSize {
		q.Set(explorer.PageSizeParam, strconv.Itoa(f.pageSize))
	}
	for _, c := range f.charts {
		q.Add(explorer.ChartParam, c)
	}
	return q, nil
}

// openSession runs the query described by q and applies its view.
func openSession(ctx context.Context, rt *runtime, q url.Values) (*explorer.Session, error) {
	view, err := explorer.ParseViewParams(q)
	if err != nil {
		return nil, err
	}
	location := "/"
	if enc := q.Encode(); enc != "" {
		location += "?" + enc
	}
	s, err := explorer.Open(ctx, rt.client, location,
		explorer.WithLogger(rt.logger),
		explorer.WithPageSize(domain.ClampPageSize(view.PageSize, domain.DefaultPageSize, domain.MaxPageSize)),
	)
	if err != nil {
		return nil, fmt.Errorf("run query: %w", err)
	}
	if err := s.ApplyView(ctx, view); err != nil {
		return nil, err
	}
	return s, nil
}

// runtime carries what the root command resolved for its subcommands.
type runtime struct {
	client domain.QueryClient
	logger *slog.Logger
}
