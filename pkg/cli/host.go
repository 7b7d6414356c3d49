package cli

import (
	"fmt"
	"net/url"
	"strings"
)

// normalizeHost checks that raw is an absolute http(s) base URL and returns
// it without surrounding space or a trailing slash. The base may carry a
// path prefix, since the query path is appended to it.
func normalizeHost(raw string) (string, error) {
	host := strings.TrimSpace(raw)
	if host == "" {
		return "", fmt.Errorf("--host cannot be empty")
	}
	u, err := url.Parse(host)
	switch {
	case err != nil:
		return "", fmt.Errorf("invalid host %q: %w", host, err)
	case u.Scheme != "http" && u.Scheme != "https":
		return "", fmt.Errorf("invalid host %q: want an http:// or https:// URL", host)
	case u.Host == "":
		return "", fmt.Errorf("invalid host %q: no host name", host)
	case u.RawQuery != "" || u.Fragment != "":
		return "", fmt.Errorf("invalid host %q: the query endpoint base cannot carry a query or fragment", host)
	}
	return strings.TrimRight(host, "/"), nil
}
