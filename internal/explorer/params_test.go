package explorer

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innings-explorer/internal/domain"
	"innings-explorer/internal/service/query"
)

func TestParseViewParams(t *testing.T) {
	q, err := url.ParseQuery("batters=V+Kohli&cf.phase=death&cf.phase=N%2FA&cf.=x&sort=runs&order=desc&page=2&page_size=10&chart=bar:runs&chart=scatter:average,strike_rate")
	require.NoError(t, err)

	p, err := ParseViewParams(q)
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"phase": {"death", "N/A"}}, p.ColumnFilters)
	assert.Equal(t, domain.SortState{Key: "runs", Direction: domain.Descending}, p.Sort)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 10, p.PageSize)
	require.Len(t, p.Charts, 2)
	assert.Equal(t, domain.ChartScatter, p.Charts[1].Kind)
	assert.Equal(t, "average", p.Charts[1].X)
}

func TestParseViewParams_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{name: "page not a number", query: "page=two"},
		{name: "negative page size", query: "page_size=-1"},
		{name: "bad chart", query: "chart=pie:runs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			_, err = ParseViewParams(q)
			var ve *domain.ValidationError
			assert.True(t, errors.As(err, &ve))
		})
	}
}

func TestViewParams_EncodeRoundTrip(t *testing.T) {
	in := ViewParams{
		ColumnFilters: map[string][]string{"year": {"2023"}, "phase": {"death"}},
		Sort:          domain.SortState{Key: "runs", Direction: domain.Ascending},
		Page:          1,
		PageSize:      50,
		Charts:        []domain.ChartSpec{{Kind: domain.ChartBar, Y: "runs"}},
	}
	q := url.Values{}
	in.Encode(q)
	assert.Equal(t, "cf.phase=death&cf.year=2023&chart=bar%3Aruns&order=asc&page=1&page_size=50&sort=runs", q.Encode())

	out, err := ParseViewParams(q)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestOpen(t *testing.T) {
	t.Run("location with params runs from url", func(t *testing.T) {
		client := &mockClient{}
		s, err := Open(context.Background(), client, "/v1/results?group_by=year&group_by=phase&cf.phase=death")
		require.NoError(t, err)
		assert.Equal(t, 1, client.count())
		assert.Equal(t, "group_by=year&group_by=phase&cf.phase=death", s.Location().Query())
		assert.Len(t, s.Merged(), 5)
	})

	t.Run("bare location runs the default draft", func(t *testing.T) {
		client := &mockClient{}
		s, err := Open(context.Background(), client, "/v1/results")
		require.NoError(t, err)
		assert.Equal(t, 1, client.count())
		assert.Equal(t, query.Done, s.Snapshot().State)
	})

	t.Run("upstream failure is returned", func(t *testing.T) {
		client := &mockClient{FetchFn: func(context.Context, domain.FilterState, domain.GroupBy) (*domain.QueryResult, error) {
			return nil, &domain.APIError{HTTPStatus: 400, Detail: "Unknown venue"}
		}}
		s, err := Open(context.Background(), client, "/v1/results?venue=Nowhere")
		require.Error(t, err)
		assert.Equal(t, "Unknown venue", s.Snapshot().ErrorMessage)
	})
}

func TestApplyView(t *testing.T) {
	s, err := Open(context.Background(), &mockClient{}, "/v1/results?group_by=year&group_by=phase")
	require.NoError(t, err)

	err = s.ApplyView(context.Background(), ViewParams{
		ColumnFilters: map[string][]string{"phase": {"death"}},
		Sort:          domain.SortState{Key: "runs", Direction: domain.Descending},
		PageSize:      1,
		Page:          1,
		Charts:        []domain.ChartSpec{{Kind: domain.ChartBar, Y: "runs"}},
	})
	require.NoError(t, err)

	assert.Len(t, s.Rows(), 2)
	page := s.Page()
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Rows, 1)
	assert.InDelta(t, 70.0, page.Rows[0].Get("runs").Float(), 0.001)
	require.Len(t, s.Charts, 1)
	assert.NotEmpty(t, s.Charts[0].ID)
}
