package sources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUpstreamStatus marks a remote fetch that completed but returned a
	// non-success status. It is propagated to the caller as-is, never retried.
	ErrUpstreamStatus = errors.New("upstream returned non-success status")

	errNoHTTPClient = errors.New("http client not configured")
)

// doGet executes a single GET round-trip and verifies a 2xx status. There is
// no retry, backoff or local recovery: a failed call surfaces immediately to
// the caller. The returned body must be closed by the caller.
func doGet(ctx context.Context, client *http.Client, uri string) (*http.Response, error) {
	if client == nil {
		return nil, errNoHTTPClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", uri, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %d from %s", ErrUpstreamStatus, resp.StatusCode, uri)
	}
	return resp, nil
}
