package checkers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPChecker checks that an HTTP endpoint answers without a 5xx status.
type HTTPChecker struct {
	url    string
	client *http.Client
	name   string
}

// NewHTTPChecker creates a checker with a 10s client timeout. An empty name defaults to the URL.
func NewHTTPChecker(url, name string) *HTTPChecker {
	return NewHTTPCheckerWithClient(url, name, &http.Client{Timeout: 10 * time.Second})
}

// NewHTTPCheckerWithClient creates a checker using the supplied client.
func NewHTTPCheckerWithClient(url, name string, client *http.Client) *HTTPChecker {
	if name == "" {
		name = url
	}
	return &HTTPChecker{url: url, name: name, client: client}
}

// Name returns the name of this health check.
func (h *HTTPChecker) Name() string {
	return h.name
}

// Check performs a GET against the configured endpoint.
func (h *HTTPChecker) Check(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("unhealthy status code: %d", resp.StatusCode)
	}
	return nil
}
