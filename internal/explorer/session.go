// Package explorer threads one user's exploration through every stage:
// filter editing, execution, summary merge, table view, charts and export.
// A Session is the single owner of that state and is driven by typed events.
package explorer

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"innings-explorer/internal/chart"
	"innings-explorer/internal/domain"
	"innings-explorer/internal/engine"
	"innings-explorer/internal/export"
	"innings-explorer/internal/metrics"
	"innings-explorer/internal/service/query"
	"innings-explorer/internal/table"
	"innings-explorer/internal/urlcodec"
)

// Session is not safe for concurrent use; its orchestrator is.
type Session struct {
	client   domain.QueryClient
	orch     *query.Orchestrator
	location *domain.Location
	logger   *slog.Logger
	now      func() time.Time

	// Filters and GroupBy are the draft query being edited.
	Filters domain.FilterState
	GroupBy domain.GroupBy
	Table   table.State
	Charts  []domain.ChartSpec

	memo memo
}

// memo caches derived artifacts. Every entry is keyed on the result version
// and is safe to drop at any time.
type memo struct {
	version     uint64
	merged      []domain.Row
	options     map[string][]string
	bundles     []chart.Bundle
	bundlesOK   bool
	bundlesView string
}

// Option configures a Session.
type Option func(*Session)

// WithLocation binds the session to a location it starts from and rewrites
// on manual executions.
func WithLocation(loc *domain.Location) Option {
	return func(s *Session) { s.location = loc }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithPageSize sets the initial page size.
func WithPageSize(n int) Option {
	return func(s *Session) { s.Table = table.NewState(n) }
}

// WithClock overrides the clock used for export file names.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// NewSession creates a Session with default filters.
func NewSession(client domain.QueryClient, opts ...Option) *Session {
	s := &Session{
		client:  client,
		logger:  slog.Default(),
		now:     time.Now,
		Filters: domain.DefaultFilterState(),
		Table:   table.NewState(domain.DefaultPageSize),
	}
	for _, opt := range opts {
		opt(s)
	}
	var writer domain.LocationWriter
	if s.location != nil {
		writer = s.location
	}
	s.orch = query.NewOrchestrator(client, writer, s.logger)
	return s
}

// Start decodes the bound location into the draft and, when it carries
// parameters, runs it. Without parameters Start is a no-op.
func (s *Session) Start(ctx context.Context) error {
	if s.location == nil {
		return nil
	}
	s.Filters, s.GroupBy = urlcodec.Decode(s.location.Query())
	if !urlcodec.HasParams(s.Filters, s.GroupBy) {
		return nil
	}
	return s.execute(ctx, query.TriggerURL)
}

// Open starts a session at location and guarantees a result: a location
// without parameters runs the default draft as a manual execution.
func Open(ctx context.Context, client domain.QueryClient, location string, opts ...Option) (*Session, error) {
	opts = append(opts, WithLocation(domain.NewLocation(location)))
	s := NewSession(client, opts...)
	if err := s.Start(ctx); err != nil {
		return s, err
	}
	if s.Snapshot().State == query.Idle {
		if err := s.Execute(ctx); err != nil {
			return s, err
		}
	}
	return s, nil
}

// Execute runs the draft as a manual execution.
func (s *Session) Execute(ctx context.Context) error {
	return s.execute(ctx, query.TriggerManual)
}

func (s *Session) execute(ctx context.Context, trigger query.Trigger) error {
	t, err := s.orch.Begin(trigger, s.Filters, s.GroupBy)
	if err != nil {
		return err
	}
	s.Table.Reset()
	s.invalidateView()
	_, err = s.orch.Fetch(ctx, t)
	return err
}

// ClearFilters restores the default draft, drops any in-flight execution and
// resets the table view.
func (s *Session) ClearFilters() {
	s.Filters = domain.DefaultFilterState()
	s.GroupBy = nil
	s.orch.Invalidate()
	s.Table.Reset()
	s.invalidateView()
}

// Snapshot returns the orchestrator state.
func (s *Session) Snapshot() query.Snapshot {
	return s.orch.Snapshot()
}

// Orchestrator exposes the underlying orchestrator.
func (s *Session) Orchestrator() *query.Orchestrator {
	return s.orch
}

// Location returns the bound location, or nil.
func (s *Session) Location() *domain.Location {
	return s.location
}

// Merged returns the current result merged with its summaries.
func (s *Session) Merged() []domain.Row {
	snap := s.orch.Snapshot()
	s.syncMemo(snap.Version)
	if s.memo.merged == nil && snap.Result != nil {
		s.memo.merged = engine.Merge(engine.InputFrom(snap.Result, snap.GroupBy))
		metrics.MergedRows.Observe(float64(len(s.memo.merged)))
	}
	return s.memo.merged
}

// ResultGroupBy is the grouping the current result was produced with, which
// can differ from the draft.
func (s *Session) ResultGroupBy() domain.GroupBy {
	return s.orch.Snapshot().GroupBy
}

func (s *Session) syncMemo(version uint64) {
	if s.memo.version == version {
		return
	}
	s.memo = memo{version: version}
}

func (s *Session) invalidateView() {
	s.memo.bundlesOK = false
}

// Rows returns the merged rows after column filters and sort.
func (s *Session) Rows() []domain.Row {
	return s.Table.Apply(s.Merged())
}

// Page returns the visible page.
func (s *Session) Page() domain.Page {
	return s.Table.View(s.Merged())
}

// Columns returns the visible column list.
func (s *Session) Columns() []string {
	return table.VisibleColumns(s.Merged())
}

// Options returns the selectable values of column.
func (s *Session) Options(column string) []string {
	merged := s.Merged()
	if opts, ok := s.memo.options[column]; ok {
		return opts
	}
	opts := table.Options(merged, column)
	if s.memo.options == nil {
		s.memo.options = make(map[string][]string)
	}
	s.memo.options[column] = opts
	return opts
}

// Metrics returns the chartable metrics of the current result.
func (s *Session) Metrics() []domain.MetricDescriptor {
	return chart.DiscoverMetrics(s.Merged(), s.ResultGroupBy())
}

// Bundles derives a bundle for every configured chart.
func (s *Session) Bundles(ctx context.Context) ([]chart.Bundle, error) {
	merged := s.Merged()
	key := s.viewKey()
	if s.memo.bundlesOK && s.memo.bundlesView == key {
		return s.memo.bundles, nil
	}
	bundles, err := chart.BuildBundles(ctx, s.Charts, chart.Input{
		Rows:       s.Table.Apply(merged),
		Unfiltered: merged,
		GroupBy:    s.ResultGroupBy(),
	})
	if err != nil {
		return nil, err
	}
	s.memo.bundles, s.memo.bundlesOK, s.memo.bundlesView = bundles, true, key
	return bundles, nil
}

// viewKey fingerprints the inputs of chart bundles besides the result.
func (s *Session) viewKey() string {
	key := s.Table.Sort.Key + "|" + string(s.Table.Sort.Direction)
	cols := make([]string, 0, len(s.Table.Filters))
	for col := range s.Table.Filters {
		cols = append(cols, col)
	}
	slices.Sort(cols)
	for _, col := range cols {
		key += "|" + col + "="
		for _, v := range s.Table.Filters.Selected(col) {
			key += v + ","
		}
	}
	for _, c := range s.Charts {
		key += "|" + c.ID + ":" + c.String()
	}
	return key
}

// Export returns the file name and CSV content of the filtered and sorted rows.
func (s *Session) Export() (string, []byte) {
	return export.Filename(s.now(), s.Table.Filters.Active()), export.CSV(s.Rows())
}

// ShareLink returns the link reproducing the draft.
func (s *Session) ShareLink() string {
	base := ""
	if s.location != nil {
		base = s.location.Path
	}
	return urlcodec.ShareLink(base, s.Filters, s.GroupBy)
}
