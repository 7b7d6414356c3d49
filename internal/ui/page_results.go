package ui

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"innings-explorer/internal/chart"
	"innings-explorer/internal/domain"
	"innings-explorer/internal/explorer"
)

type resultsPageData struct {
	Session  *explorer.Session
	View     explorer.ViewParams
	Query    url.Values
	Bundles  []chart.Bundle
	ChartErr error
}

func resultsPage(d resultsPageData) Node {
	s := d.Session
	snap := s.Snapshot()

	var banner Node
	if snap.ErrorMessage != "" {
		banner = Div(Class(cardClass("banner-error")), Attr("role", "alert"), Span(Text(snap.ErrorMessage)))
	}

	return appPage("Results",
		banner,
		filterForm(s.Filters, s.GroupBy),
		shareCard(s.ShareLink(), d.Query),
		resultsSection(d),
		chartsSection(d),
	)
}

func filterForm(filters domain.FilterState, groupBy domain.GroupBy) Node {
	fields := make([]Node, 0, len(domain.FilterKeys)+1)
	for _, key := range domain.FilterKeys {
		fields = append(fields, filterField(key, filters[key.Name]))
	}
	fields = append(fields, Div(
		Label(For("f-group_by"), Text("Group by (comma separated)")),
		Input(ID("f-group_by"), Name(domain.GroupByParam), Type("text"), Value(strings.Join(groupBy, ", ")), Placeholder("year, phase")),
	))

	return Div(
		Class(cardClass()),
		Form(
			Method("get"),
			Action(resultsPath+"/apply"),
			Div(Class("filter-grid"), Group(fields)),
			Div(
				Class("button-row"),
				Button(Type("submit"), Class(primaryButtonClass()), Text("Run query")),
				A(Href(resultsPath), Class(secondaryButtonClass()), Text("Clear filters")),
			),
		),
	)
}

func filterField(key domain.FilterKey, c domain.Criterion) Node {
	id := "f-" + key.Name
	label := chart.TitleCase(key.Name)
	var input Node
	switch key.Kind {
	case domain.ParamList:
		input = Input(ID(id), Name(key.Name), Type("text"), Value(strings.Join(c.Values(), ", ")))
	case domain.ParamInt:
		v := ""
		if c.Kind == domain.ParamInt {
			v = strconv.Itoa(c.Int)
		}
		input = Input(ID(id), Name(key.Name), Type("number"), Value(v))
	case domain.ParamBool:
		set := c.Kind == domain.ParamBool
		input = Select(ID(id), Name(key.Name),
			optionSelectedValue("", !set, "Any"),
			optionSelectedValue("true", set && c.Bool, "Yes"),
			optionSelectedValue("false", set && !c.Bool, "No"),
		)
	default:
		typ := "text"
		if strings.HasSuffix(key.Name, "_date") {
			typ = "date"
		}
		input = Input(ID(id), Name(key.Name), Type(typ), Value(c.Text))
	}
	return Div(Label(For(id), Text(label)), input)
}

func shareCard(shareLink string, q url.Values) Node {
	return Div(
		Class(cardClass()),
		P(Class(mutedClass()), Text("Share link")),
		P(Class("share-link"), A(Href(shareLink), Text(shareLink))),
		Div(Class("button-row"),
			A(Href(resultsPath+"/export.csv?"+q.Encode()), Class(secondaryButtonClass()), Text("Download CSV")),
		),
	)
}

func resultsSection(d resultsPageData) Node {
	s := d.Session
	merged := s.Merged()
	if merged == nil {
		return emptyStateCard("Run a query to see results.")
	}
	if len(merged) == 0 {
		return emptyStateCard("The query returned no rows.")
	}

	cols := s.Columns()
	page := s.Page()

	header := make([]Node, 0, len(cols))
	for _, col := range cols {
		header = append(header, Th(sortLink(d.Query, col, s.Table.Sort)))
	}

	rows := make([]Node, 0, len(page.Rows))
	for _, row := range page.Rows {
		cells := make([]Node, 0, len(cols))
		for _, col := range cols {
			cells = append(cells, Td(Text(row.Get(col).Display())))
		}
		rows = append(rows, Tr(If(row.IsSummary(), Class("summary-row")), Group(cells)))
	}

	meta := fmt.Sprintf("%d row(s)", page.Total)
	if page.Total != len(merged) {
		meta = fmt.Sprintf("%d of %d row(s) match the column filters", page.Total, len(merged))
	}

	return Div(
		Class(cardClass("table-wrap")),
		H2(Text("Results")),
		P(Class(mutedClass()), Text(meta)),
		columnFilterForm(d, cols),
		Table(
			THead(Tr(Group(header))),
			TBody(Group(rows)),
		),
		pagination(d.Query, page),
	)
}

func sortLink(q url.Values, col string, sort domain.SortState) Node {
	next := domain.Ascending
	class := ""
	if sort.Key == col {
		class = "sorted"
		if sort.Direction == domain.Ascending {
			next = domain.Descending
		} else {
			class += " desc"
		}
	}
	href := withQuery(q, func(v url.Values) {
		v.Set(explorer.SortParam, col)
		v.Set(explorer.OrderParam, string(next))
		v.Del(explorer.PageParam)
	})
	return A(Href(href), If(class != "", Class(class)), Text(col))
}

func columnFilterForm(d resultsPageData, cols []string) Node {
	s := d.Session
	selects := make([]Node, 0, len(cols)+1)
	for _, col := range cols {
		selected := make(map[string]bool)
		for _, v := range s.Table.Filters.Selected(col) {
			selected[v] = true
		}
		opts := s.Options(col)
		options := make([]Node, 0, len(opts))
		for _, o := range opts {
			options = append(options, optionSelectedValue(o, selected[o], o))
		}
		id := "cf-" + col
		selects = append(selects, Div(
			Label(For(id), Text(col)),
			Select(ID(id), Name(explorer.ColumnFilterPrefix+col), Multiple(), Group(options)),
		))
	}

	sizes := []int{10, 25, 50, 100}
	sizeOptions := make([]Node, 0, len(sizes))
	for _, n := range sizes {
		sizeOptions = append(sizeOptions, optionSelectedValue(strconv.Itoa(n), s.Table.PageSize == n, strconv.Itoa(n)))
	}
	selects = append(selects, Div(
		Label(For("page-size"), Text("Rows per page")),
		Select(ID("page-size"), Name(explorer.PageSizeParam), Group(sizeOptions)),
	))

	return Details(
		Summary(Text("Column filters")),
		Form(
			Method("get"),
			Action(resultsPath),
			hiddenInputs(d.Query, func(key string) bool {
				return strings.HasPrefix(key, explorer.ColumnFilterPrefix) || key == explorer.PageParam || key == explorer.PageSizeParam
			}),
			Div(Class("filter-grid"), Group(selects)),
			Div(Class("button-row"),
				Button(Type("submit"), Class(primaryButtonClass()), Text("Apply")),
				A(Href(withQuery(d.Query, clearColumnFilters)), Class(secondaryButtonClass()), Text("Clear column filters")),
			),
		),
	)
}

func clearColumnFilters(v url.Values) {
	for key := range v {
		if strings.HasPrefix(key, explorer.ColumnFilterPrefix) {
			v.Del(key)
		}
	}
	v.Del(explorer.PageParam)
}

func pagination(q url.Values, page domain.Page) Node {
	if page.TotalPages <= 1 {
		return nil
	}
	goTo := func(n int) string {
		return withQuery(q, func(v url.Values) { v.Set(explorer.PageParam, strconv.Itoa(n)) })
	}
	return Div(
		Class("pagination"),
		If(page.Page > 0, A(Href(goTo(page.Page-1)), Class(secondaryButtonClass()), Text("Previous"))),
		Span(Class(mutedClass()), Text(fmt.Sprintf("Page %d of %d", page.Page+1, page.TotalPages))),
		If(page.Page+1 < page.TotalPages, A(Href(goTo(page.Page+1)), Class(secondaryButtonClass()), Text("Next"))),
	)
}

func chartsSection(d resultsPageData) Node {
	s := d.Session
	if s.Merged() == nil {
		return nil
	}
	metrics := s.Metrics()
	if len(metrics) == 0 {
		return nil
	}

	charts := make([]Node, 0, len(d.Bundles))
	for i, b := range d.Bundles {
		remove := withQuery(d.Query, func(v url.Values) {
			specs := v[explorer.ChartParam]
			if i < len(specs) {
				v[explorer.ChartParam] = append(specs[:i:i], specs[i+1:]...)
			}
		})
		charts = append(charts, Div(
			Class(cardClass()),
			H2(Text(chartTitle(b))),
			chartSVG(b),
			A(Href(remove), Class(secondaryButtonClass()), Text("Remove chart")),
		))
	}

	var chartErr Node
	if d.ChartErr != nil {
		chartErr = P(Class(mutedClass()), Text(d.ChartErr.Error()))
	}

	return Div(
		H2(Text("Charts")),
		chartErr,
		addChartForm(d.Query, metrics),
		Group(charts),
	)
}

func chartTitle(b chart.Bundle) string {
	labels := make([]string, len(b.Axes))
	for i, a := range b.Axes {
		labels[i] = a.Metric.Label
	}
	return strings.Join(labels, " vs ")
}

func addChartForm(q url.Values, metrics []domain.MetricDescriptor) Node {
	metricOptions := func(name, label string) Node {
		opts := make([]Node, 0, len(metrics))
		for _, m := range metrics {
			opts = append(opts, Option(Value(m.Key), Text(m.Label)))
		}
		return Div(Label(For("chart-"+name), Text(label)), Select(ID("chart-"+name), Name(name), Group(opts)))
	}
	return Div(
		Class(cardClass()),
		Form(
			Method("get"),
			Action(resultsPath+"/chart"),
			hiddenInputs(q, func(string) bool { return false }),
			Div(Class("filter-grid"),
				Div(Label(For("chart-kind"), Text("Kind")), Select(ID("chart-kind"), Name("kind"),
					Option(Value(string(domain.ChartBar)), Text("Bar")),
					Option(Value(string(domain.ChartScatter)), Text("Scatter")),
				)),
				metricOptions("x", "X metric (scatter)"),
				metricOptions("y", "Y metric"),
			),
			Div(Class("button-row"), Button(Type("submit"), Class(primaryButtonClass()), Text("Add chart"))),
		),
	)
}

// addChartQuery turns the add-chart form into a chart parameter.
func addChartQuery(form url.Values) (url.Values, error) {
	kind := domain.ChartKind(form.Get("kind"))
	spec := domain.ChartSpec{Kind: kind, Y: form.Get("y")}
	if kind == domain.ChartScatter {
		spec.X = form.Get("x")
	}
	if _, err := domain.ParseChartSpec(spec.String()); err != nil {
		return nil, err
	}
	q := url.Values{}
	for k, v := range form {
		if k == "kind" || k == "x" || k == "y" {
			continue
		}
		q[k] = v
	}
	q.Add(explorer.ChartParam, spec.String())
	return q, nil
}

func hiddenInputs(q url.Values, skip func(key string) bool) Node {
	keys := make([]string, 0, len(q))
	for key := range q {
		if !skip(key) {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	nodes := make([]Node, 0, len(keys))
	for _, key := range keys {
		for _, v := range q[key] {
			nodes = append(nodes, Input(Type("hidden"), Name(key), Value(v)))
		}
	}
	return Group(nodes)
}

func withQuery(q url.Values, mutate func(url.Values)) string {
	v := make(url.Values, len(q))
	for k, vals := range q {
		v[k] = append([]string(nil), vals...)
	}
	mutate(v)
	if len(v) == 0 {
		return resultsPath
	}
	return resultsPath + "?" + v.Encode()
}
