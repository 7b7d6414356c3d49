package domain

import (
	"bytes"
	"encoding/json"
)

// Summary table names inside summary_data.
const (
	PercentagesTable     = "percentages"
	summaryTableSuffix   = "_summaries"
	metadataHasSummaries = "has_summaries"
)

// SummaryTableName returns the name of the first-level summary table for col.
func SummaryTableName(col string) string {
	return col + summaryTableSuffix
}

// SummaryData holds the auxiliary tables the backend returns alongside
// grouped rows.
type SummaryData struct {
	Tables map[string][]Row
}

// Table returns the named table and whether it was present.
func (s *SummaryData) Table(name string) ([]Row, bool) {
	if s == nil || s.Tables == nil {
		return nil, false
	}
	t, ok := s.Tables[name]
	return t, ok
}

// Percentages returns the percentages table (nil when absent).
func (s *SummaryData) Percentages() []Row {
	t, _ := s.Table(PercentagesTable)
	return t
}

// QueryResult is one complete backend response. It is replaced wholesale on
// every execution and never patched.
type QueryResult struct {
	Rows     []Row
	Summary  *SummaryData
	Metadata Row
}

// HasSummaries reports whether the backend signalled subtotal data.
func (r *QueryResult) HasSummaries() bool {
	if r == nil {
		return false
	}
	return r.Metadata.Get(metadataHasSummaries).Truthy()
}

// Len returns the number of raw rows.
func (r *QueryResult) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

type queryResponse struct {
	Data        []Row            `json:"data"`
	SummaryData map[string][]Row `json:"summary_data"`
	Metadata    Row              `json:"metadata"`
}

// DecodeQueryResult parses a query endpoint response body. Missing optional
// sections decode to empty values; structural problems yield a
// MalformedResponseError.
func DecodeQueryResult(body []byte) (*QueryResult, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, ErrMalformed("empty response body")
	}
	var resp queryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, ErrMalformed("decode query response: %v", err)
	}
	result := &QueryResult{
		Rows:     resp.Data,
		Metadata: resp.Metadata,
	}
	if result.Rows == nil {
		result.Rows = []Row{}
	}
	if len(resp.SummaryData) > 0 {
		result.Summary = &SummaryData{Tables: resp.SummaryData}
	}
	return result, nil
}

// MarshalJSON renders the result in the same envelope the backend uses.
func (r *QueryResult) MarshalJSON() ([]byte, error) {
	resp := queryResponse{Data: r.Rows, Metadata: r.Metadata}
	if r.Summary != nil {
		resp.SummaryData = r.Summary.Tables
	}
	return json.Marshal(resp)
}
