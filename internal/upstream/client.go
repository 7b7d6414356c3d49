// Package upstream talks to the remote query endpoint.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"innings-explorer/internal/domain"
	"innings-explorer/internal/urlcodec"
)

// DefaultQueryPath is the endpoint path used when none is configured.
const DefaultQueryPath = "/query"

// DefaultTimeout bounds a single upstream request.
const DefaultTimeout = 30 * time.Second

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 64 << 20

// Client issues GET requests to the query endpoint and decodes QueryResults.
type Client struct {
	BaseURL    string
	QueryPath  string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

var _ domain.QueryClient = (*Client)(nil)

// NewClient creates a Client for baseURL with the default timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		QueryPath:  DefaultQueryPath,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		Logger:     slog.Default(),
	}
}

// URL returns the full request URL for the given state.
func (c *Client) URL(filters domain.FilterState, groupBy domain.GroupBy) string {
	path := c.QueryPath
	if path == "" {
		path = DefaultQueryPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := c.BaseURL + path
	if q := urlcodec.Encode(filters, groupBy); q != "" {
		u += "?" + q
	}
	return u
}

// Fetch runs the query for filters/groupBy. Network failures are wrapped in
// domain.TransportError, non-2xx responses in domain.APIError and undecodable
// bodies in domain.MalformedResponseError.
func (c *Client) Fetch(ctx context.Context, filters domain.FilterState, groupBy domain.GroupBy) (*domain.QueryResult, error) {
	target := c.URL(filters, groupBy)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, &domain.TransportError{Err: err}
	}
	if err := CheckError(resp); err != nil {
		c.logger().Warn("query endpoint returned error", "url", target, "error", err, "duration_ms", time.Since(start).Milliseconds())
		return nil, err
	}

	body, err := ReadBody(resp)
	if err != nil {
		return nil, &domain.TransportError{Err: fmt.Errorf("read response: %w", err)}
	}
	result, err := domain.DecodeQueryResult(body)
	if err != nil {
		return nil, err
	}
	c.logger().Debug("query endpoint responded", "url", target, "rows", result.Len(), "duration_ms", time.Since(start).Milliseconds())
	return result, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}
	return c.HTTPClient
}

func (c *Client) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// CheckError returns nil for 2xx responses. Otherwise it consumes the body
// and returns a *domain.APIError, extracting the backend's "detail" or
// "message" field when the body is a JSON object.
func CheckError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := ReadBody(resp)
	apiErr := &domain.APIError{HTTPStatus: resp.StatusCode, Body: strings.TrimSpace(string(body))}

	var structured struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(body, &structured); err == nil {
		apiErr.Detail = detailText(structured.Detail)
		if apiErr.Detail == "" {
			apiErr.Detail = structured.Message
		}
		if apiErr.Detail == "" {
			apiErr.Detail = structured.Error
		}
	}
	return apiErr
}

// detailText accepts a plain string detail or a list of validation entries
// carrying "msg" fields.
func detailText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var entries []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &entries); err == nil {
		msgs := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.Msg != "" {
				msgs = append(msgs, e.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

// ReadBody reads and closes the response body.
func ReadBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close() //nolint:errcheck
	return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
}
