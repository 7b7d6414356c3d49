package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"innings-explorer/internal/domain"
	"innings-explorer/internal/explorer"
	"innings-explorer/internal/service/query"
)

const replHelp = `Draft:
  set <filter> <value>...     set a filter (quote values with spaces)
  unset <filter>              remove a filter
  group [column]...           set grouping; no columns clears it
  clear                       reset filters, grouping and table view
  run                         execute the draft
Table:
  filter <column> <value>...  keep rows whose column shows one of the values
  unfilter [column]           drop one or every column filter
  sort [column] [asc|desc]    sort, toggle direction, or clear with no column
  page <n>                    go to page n (from 1)
  size <n>                    rows per page
  options <column>            list the values a column filter accepts
Charts:
  chart bar <metric>          add a bar chart
  chart scatter <x> <y>       add a scatter chart
  chart rm <id>               remove a chart
  charts                      show chart data, or the metrics when there are no charts
Other:
  show                        draft, execution state and the current page
  export [file]               write the filtered rows as CSV
  url                         print the share link
  help, quit`

// repl drives one explorer session from text commands.
type repl struct {
	s   *explorer.Session
	out io.Writer
}

// exec runs one command line. quit reports that the session should end.
func (r *repl) exec(ctx context.Context, line string) (quit bool, err error) {
	args, err := splitArgs(line)
	if err != nil || len(args) == 0 {
		return false, err
	}
	name, args := strings.ToLower(args[0]), args[1:]

	switch name {
	case "help", "?":
		_, _ = fmt.Fprintln(r.out, replHelp)
	case "quit", "exit":
		return true, nil
	case "set":
		if len(args) < 2 {
			return false, errors.New("usage: set <filter> <value>...")
		}
		return false, r.s.Dispatch(ctx, explorer.SetFilter{Key: args[0], Values: args[1:]})
	case "unset":
		if len(args) != 1 {
			return false, errors.New("usage: unset <filter>")
		}
		return false, r.s.Dispatch(ctx, explorer.UnsetFilter{Key: args[0]})
	case "group":
		return false, r.s.Dispatch(ctx, explorer.SetGroupBy{Columns: args})
	case "clear":
		return false, r.s.Dispatch(ctx, explorer.ClearFilters{})
	case "run":
		if err := r.s.Dispatch(ctx, explorer.Execute{}); err != nil {
			return false, err
		}
		return false, r.showPage()
	case "filter":
		if len(args) < 2 {
			return false, errors.New("usage: filter <column> <value>...")
		}
		if err := r.s.Dispatch(ctx, explorer.SelectValues{Column: args[0], Values: args[1:]}); err != nil {
			return false, err
		}
		return false, r.showPage()
	case "unfilter":
		ev := explorer.Event(explorer.ClearColumnFilters{})
		if len(args) > 0 {
			ev = explorer.SelectValues{Column: args[0]}
		}
		if err := r.s.Dispatch(ctx, ev); err != nil {
			return false, err
		}
		return false, r.showPage()
	case "sort":
		return false, r.sort(ctx, args)
	case "page":
		n, err := positiveArg(args, "page <n>")
		if err != nil {
			return false, err
		}
		if err := r.s.Dispatch(ctx, explorer.GoToPage{Page: n - 1}); err != nil {
			return false, err
		}
		return false, r.showPage()
	case "size":
		n, err := positiveArg(args, "size <n>")
		if err != nil {
			return false, err
		}
		if err := r.s.Dispatch(ctx, explorer.SetPageSize{Size: n}); err != nil {
			return false, err
		}
		return false, r.showPage()
	case "options":
		if len(args) != 1 {
			return false, errors.New("usage: options <column>")
		}
		for _, o := range r.s.Options(args[0]) {
			_, _ = fmt.Fprintln(r.out, o)
		}
	case "chart":
		return false, r.chart(ctx, args)
	case "charts":
		if len(r.s.Charts) == 0 {
			return false, renderMetrics(r.out, r.s.Metrics(), outputTable)
		}
		bundles, err := r.s.Bundles(ctx)
		if err != nil {
			return false, err
		}
		return false, renderBundles(r.out, bundles, outputTable)
	case "export":
		return false, r.export(args)
	case "url":
		_, _ = fmt.Fprintln(r.out, r.s.ShareLink())
	case "show":
		r.show()
		return false, r.showPage()
	default:
		return false, fmt.Errorf("unknown command %q, type help", name)
	}
	return false, nil
}

func (r *repl) sort(ctx context.Context, args []string) error {
	var ev explorer.Event
	switch len(args) {
	case 0:
		ev = explorer.SortBy{}
	case 1:
		ev = explorer.ToggleSort{Key: args[0]}
	case 2:
		dir := strings.ToLower(args[1])
		if dir != string(domain.Ascending) && dir != string(domain.Descending) {
			return fmt.Errorf("direction must be asc or desc, got %q", args[1])
		}
		ev = explorer.SortBy{Key: args[0], Direction: domain.ParseDirection(dir)}
	default:
		return errors.New("usage: sort [column] [asc|desc]")
	}
	if err := r.s.Dispatch(ctx, ev); err != nil {
		return err
	}
	return r.showPage()
}

func (r *repl) chart(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: chart bar <metric> | chart scatter <x> <y> | chart rm <id>")
	}
	switch strings.ToLower(args[0]) {
	case "rm", "remove":
		if len(args) != 2 {
			return errors.New("usage: chart rm <id>")
		}
		return r.s.Dispatch(ctx, explorer.RemoveChart{ID: args[1]})
	case string(domain.ChartBar):
		if len(args) != 2 {
			return errors.New("usage: chart bar <metric>")
		}
		return r.addChart(ctx, "bar:"+args[1])
	case string(domain.ChartScatter):
		if len(args) != 3 {
			return errors.New("usage: chart scatter <x> <y>")
		}
		return r.addChart(ctx, "scatter:"+args[1]+","+args[2])
	default:
		return fmt.Errorf("unknown chart kind %q", args[0])
	}
}

func (r *repl) addChart(ctx context.Context, raw string) error {
	spec, err := domain.ParseChartSpec(raw)
	if err != nil {
		return err
	}
	if err := r.s.Dispatch(ctx, explorer.AddChart{Spec: spec}); err != nil {
		return err
	}
	added := r.s.Charts[len(r.s.Charts)-1]
	_, _ = fmt.Fprintf(r.out, "Added chart %s (%s)\n", added.ID, added.String())
	return nil
}

func (r *repl) export(args []string) error {
	name, body := r.s.Export()
	if len(args) > 0 {
		name = args[0]
	}
	if err := os.WriteFile(name, body, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	_, _ = fmt.Fprintf(r.out, "Wrote %d rows to %s\n", len(r.s.Rows()), name)
	return nil
}

func (r *repl) show() {
	snap := r.s.Snapshot()
	rows := filterRows(r.s.Filters)
	if len(r.s.GroupBy) > 0 {
		rows = append(rows, []string{domain.GroupByParam, strings.Join(r.s.GroupBy, ", ")})
	}
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(r.out, "Draft: no filters")
	} else {
		printTable(r.out, []string{"key", "value"}, rows, terminalWidth(r.out))
	}
	_, _ = fmt.Fprintf(r.out, "State: %s\n", snap.State)
	if snap.ErrorMessage != "" {
		_, _ = fmt.Fprintf(r.out, "Error: %s\n", snap.ErrorMessage)
	}
	for _, c := range r.s.Charts {
		_, _ = fmt.Fprintf(r.out, "Chart %s: %s\n", c.ID, c.String())
	}
	_, _ = fmt.Fprintln(r.out)
}

func (r *repl) showPage() error {
	if r.s.Snapshot().State != query.Done {
		return nil
	}
	return renderPage(r.out, r.s, outputTable)
}

func positiveArg(args []string, usage string) (int, error) {
	if len(args) != 1 {
		return 0, errors.New("usage: " + usage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("expected a positive number, got %q", args[0])
	}
	return n, nil
}

// splitArgs splits a command line on whitespace. Single or double quotes
// group words; there are no escapes.
func splitArgs(line string) ([]string, error) {
	var (
		args  []string
		cur   strings.Builder
		quote rune
		inArg bool
	)
	for _, c := range line {
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
				continue
			}
			cur.WriteRune(c)
		case c == '"' || c == '\'':
			quote, inArg = c, true
		case c == ' ' || c == '\t':
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(c)
			inArg = true
		}
	}
	if quote != 0 {
		return nil, errors.New("unterminated quote")
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}

// completeLine suggests command names, then filter keys after set/unset.
func completeLine(line string) []string {
	fields := strings.Fields(line)
	var candidates []string
	var prefix string
	switch {
	case len(fields) <= 1 && !strings.HasSuffix(line, " "):
		candidates = []string{"set", "unset", "group", "clear", "run", "filter", "unfilter", "sort",
			"page", "size", "options", "chart", "charts", "export", "url", "show", "help", "quit"}
	case (fields[0] == "set" || fields[0] == "unset") && (len(fields) == 1 || len(fields) == 2 && !strings.HasSuffix(line, " ")):
		candidates = filterNames()
		prefix = fields[0] + " "
	default:
		return nil
	}
	word := ""
	if len(fields) > 0 && !strings.HasSuffix(line, " ") {
		word = fields[len(fields)-1]
	}
	var out []string
	for _, c := range candidates {
		if strings.HasPrefix(c, word) {
			out = append(out, prefix+c)
		}
	}
	return out
}
