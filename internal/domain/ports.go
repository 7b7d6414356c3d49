package domain

import (
	"context"
	"strings"
)

// QueryClient fetches a QueryResult from the query endpoint.
// Implemented by upstream.Client.
type QueryClient interface {
	Fetch(ctx context.Context, filters FilterState, groupBy GroupBy) (*QueryResult, error)
}

// LocationWriter rewrites the query string of the current location without
// adding a navigation entry.
type LocationWriter interface {
	ReplaceQuery(query string)
}

// Location is the in-process stand-in for the browser URL: a fixed path and a
// replaceable query string. Replacing never grows history.
type Location struct {
	Path  string
	query string
}

// NewLocation parses "path?query".
func NewLocation(raw string) *Location {
	path, query, _ := strings.Cut(raw, "?")
	return &Location{Path: path, query: query}
}

// Query returns the current query string without the leading '?'.
func (l *Location) Query() string { return l.query }

// ReplaceQuery implements LocationWriter.
func (l *Location) ReplaceQuery(query string) {
	l.query = strings.TrimPrefix(query, "?")
}

// String returns "path?query", or just the path when the query is empty.
func (l *Location) String() string {
	if l.query == "" {
		return l.Path
	}
	return l.Path + "?" + l.query
}
