// Package query orchestrates query executions: it reconciles runs triggered
// by the incoming location with runs requested by the user, discards stale
// completions and owns the current QueryResult.
package query

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"innings-explorer/internal/domain"
	"innings-explorer/internal/metrics"
	"innings-explorer/internal/urlcodec"
)

// State is the execution state.
type State int

// Execution states. At most one of the loading states holds at a time.
const (
	Idle State = iota
	LoadingFromURL
	LoadingManual
	Done
)

func (s State) String() string {
	switch s {
	case LoadingFromURL:
		return "loading_from_url"
	case LoadingManual:
		return "loading_manual"
	case Done:
		return "done"
	default:
		return "idle"
	}
}

// Loading reports whether an execution is in flight.
func (s State) Loading() bool { return s == LoadingFromURL || s == LoadingManual }

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Trigger says what started an execution.
type Trigger string

// Execution triggers.
const (
	TriggerURL    Trigger = "url"
	TriggerManual Trigger = "manual"
)

// View is the active presentation pane.
type View string

// Views.
const (
	ViewFilters View = "filters"
	ViewResults View = "results"
)

// Ticket identifies one execution between Begin and Complete.
type Ticket struct {
	Token   uint64
	Trigger Trigger
	Filters domain.FilterState
	GroupBy domain.GroupBy
	started time.Time
}

// Snapshot is a consistent copy of the orchestrator state.
type Snapshot struct {
	State        State               `json:"state"`
	View         View                `json:"view"`
	Result       *domain.QueryResult `json:"result,omitempty"`
	Filters      domain.FilterState  `json:"-"`
	GroupBy      domain.GroupBy      `json:"group_by"`
	ErrorMessage string              `json:"error,omitempty"`
	Err          error               `json:"-"`
	// Version increases every time Result is replaced.
	Version uint64 `json:"version"`
}

// Orchestrator is safe for concurrent use. Overlapping executions are
// suppressed with domain.ErrBusy rather than queued or cancelled.
type Orchestrator struct {
	client   domain.QueryClient
	location domain.LocationWriter
	logger   *slog.Logger

	mu       sync.Mutex
	state    State
	token    uint64
	view     View
	result   *domain.QueryResult
	filters  domain.FilterState
	groupBy  domain.GroupBy
	errMsg   string
	lastErr  error
	version  uint64
	inflight *Ticket
}

// NewOrchestrator creates an Orchestrator. location may be nil when there is
// no location to rewrite.
func NewOrchestrator(client domain.QueryClient, location domain.LocationWriter, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{client: client, location: location, logger: logger, view: ViewFilters}
}

// Begin starts an execution and returns its ticket. It fails with
// domain.ErrBusy while another execution is loading, and with
// domain.ErrNoParams for a URL trigger without parameters. A manual
// execution rewrites the location to the encoded state.
func (o *Orchestrator) Begin(trigger Trigger, filters domain.FilterState, groupBy domain.GroupBy) (Ticket, error) {
	if trigger == TriggerURL && !urlcodec.HasParams(filters, groupBy) {
		return Ticket{}, domain.ErrNoParams
	}

	o.mu.Lock()
	if state := o.state; state.Loading() {
		o.mu.Unlock()
		metrics.ExecutionsTotal.WithLabelValues(string(trigger), "suppressed").Inc()
		o.logger.Debug("query execution suppressed", "trigger", trigger, "state", state.String())
		return Ticket{}, domain.ErrBusy
	}
	o.token++
	t := Ticket{
		Token:   o.token,
		Trigger: trigger,
		Filters: filters.Clone(),
		GroupBy: append(domain.GroupBy(nil), groupBy...),
		started: time.Now(),
	}
	if trigger == TriggerURL {
		o.state = LoadingFromURL
	} else {
		o.state = LoadingManual
	}
	o.inflight = &t
	o.mu.Unlock()

	if trigger == TriggerManual && o.location != nil {
		o.location.ReplaceQuery(urlcodec.Encode(filters, groupBy))
	}
	o.logger.Info("query execution started", "trigger", trigger, "token", t.Token, "group_by", groupBy)
	return t, nil
}

// Complete records the outcome of the execution t. It returns false, leaving
// all state untouched, when t has been superseded. On failure the previous
// result stays and the error message is set.
func (o *Orchestrator) Complete(t Ticket, res *domain.QueryResult, err error) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if t.Token != o.token || o.inflight == nil {
		metrics.ExecutionsTotal.WithLabelValues(string(t.Trigger), "stale").Inc()
		o.logger.Debug("stale query completion dropped", "token", t.Token, "latest", o.token)
		return false
	}
	o.inflight = nil
	o.state = Done
	elapsed := time.Since(t.started)
	metrics.ExecutionDuration.WithLabelValues(string(t.Trigger)).Observe(elapsed.Seconds())

	if err == nil && res == nil {
		err = domain.ErrMalformed("empty result")
	}
	if err != nil {
		o.lastErr = err
		o.errMsg = domain.UserMessage(err)
		metrics.ExecutionsTotal.WithLabelValues(string(t.Trigger), "error").Inc()
		o.logger.Warn("query execution failed", "trigger", t.Trigger, "token", t.Token, "error", err, "duration_ms", elapsed.Milliseconds())
		return true
	}

	o.result = res
	o.filters = t.Filters
	o.groupBy = t.GroupBy
	o.lastErr = nil
	o.errMsg = ""
	o.view = ViewResults
	o.version++
	metrics.ExecutionsTotal.WithLabelValues(string(t.Trigger), "success").Inc()
	o.logger.Info("query execution finished", "trigger", t.Trigger, "token", t.Token, "rows", res.Len(), "duration_ms", elapsed.Milliseconds())
	return true
}

// Run performs Begin, the upstream fetch and Complete. A superseded
// completion returns domain.ErrStale.
func (o *Orchestrator) Run(ctx context.Context, trigger Trigger, filters domain.FilterState, groupBy domain.GroupBy) (*domain.QueryResult, error) {
	t, err := o.Begin(trigger, filters, groupBy)
	if err != nil {
		return nil, err
	}
	return o.Fetch(ctx, t)
}

// Fetch runs the upstream request for a ticket obtained from Begin and
// completes it.
func (o *Orchestrator) Fetch(ctx context.Context, t Ticket) (*domain.QueryResult, error) {
	res, err := o.client.Fetch(ctx, t.Filters, t.GroupBy)
	if !o.Complete(t, res, err) {
		return nil, domain.ErrStale
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ExecuteFromURL runs the state decoded from the incoming location. The
// location is never rewritten.
func (o *Orchestrator) ExecuteFromURL(ctx context.Context, filters domain.FilterState, groupBy domain.GroupBy) (*domain.QueryResult, error) {
	return o.Run(ctx, TriggerURL, filters, groupBy)
}

// ManualExecute runs a user-requested query and rewrites the location.
func (o *Orchestrator) ManualExecute(ctx context.Context, filters domain.FilterState, groupBy domain.GroupBy) (*domain.QueryResult, error) {
	return o.Run(ctx, TriggerManual, filters, groupBy)
}

// Invalidate supersedes any in-flight execution so its completion is
// discarded, and releases the loading state.
func (o *Orchestrator) Invalidate() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.token++
	if o.inflight != nil {
		o.logger.Debug("in-flight query invalidated", "token", o.inflight.Token)
	}
	o.inflight = nil
	if o.state.Loading() {
		if o.result != nil {
			o.state = Done
		} else {
			o.state = Idle
		}
	}
}

// DismissError clears the error banner.
func (o *Orchestrator) DismissError() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.errMsg = ""
	o.lastErr = nil
}

// SetView switches the active pane.
func (o *Orchestrator) SetView(v View) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.view = v
}

// Snapshot returns the current state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Snapshot{
		State:        o.state,
		View:         o.view,
		Result:       o.result,
		Filters:      o.filters,
		GroupBy:      o.groupBy,
		ErrorMessage: o.errMsg,
		Err:          o.lastErr,
		Version:      o.version,
	}
}

// IsBusy reports whether err means the execution was suppressed or superseded.
func IsBusy(err error) bool {
	return errors.Is(err, domain.ErrBusy) || errors.Is(err, domain.ErrStale)
}
