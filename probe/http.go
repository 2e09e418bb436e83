package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxContractBody bounds how much of a response body is read when looking
// for the JSON contract.
const maxContractBody = 1 << 20

// HTTPConfig configures the outbound HTTP contract probe.
type HTTPConfig struct {
	// URL is the endpoint to GET.
	URL string

	// Timeout bounds the request.
	// Default: 5 seconds
	Timeout time.Duration

	// Client is the HTTP client to use.
	// Default: http.DefaultClient
	Client *http.Client
}

// HTTPProbe issues an outbound GET and interprets the response.
//
// The body is first parsed as the JSON contract (status, description,
// data). When no contract is present, a 2xx response degrades to
// "no contract" and anything else is unhealthy with the status code; a
// timeout degrades rather than fails.
type HTTPProbe struct {
	name   string
	tags   []string
	config HTTPConfig
}

// NewHTTPProbe creates an HTTP contract probe.
func NewHTTPProbe(name string, tags []string, config HTTPConfig) (*HTTPProbe, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if config.URL == "" {
		return nil, ErrEmptyURL
	}
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}
	if config.Client == nil {
		config.Client = http.DefaultClient
	}

	return &HTTPProbe{name: name, tags: NormalizeTags(tags), config: config}, nil
}

// Name returns the probe name.
func (h *HTTPProbe) Name() string {
	return h.name
}

// Tags returns the probe's tag set.
func (h *HTTPProbe) Tags() []string {
	return h.tags
}

// Check performs the HTTP check.
func (h *HTTPProbe) Check(ctx context.Context) (Result, error) {
	reqCtx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, h.config.URL, nil)
	if err != nil {
		return Unhealthy(fmt.Sprintf("invalid request: %v", err)), nil
	}

	resp, err := h.config.Client.Do(req)
	if err != nil {
		// Caller cancellation propagates; the probe's own timeout degrades.
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) || reqCtx.Err() != nil {
			return Degraded(timeoutDescription(h.config.Timeout)), nil
		}
		return Unhealthy(fmt.Sprintf("request failed: %v", err)), nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxContractBody))
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return Unhealthy(fmt.Sprintf("reading response: %v", err)), nil
	}

	if result, ok := parseContract(body); ok {
		return result, nil
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return Degraded("no contract"), nil
	}
	return Unhealthy(fmt.Sprintf("status code %d", resp.StatusCode)), nil
}

// timeoutDescription formats the shared timed-out description.
func timeoutDescription(timeout time.Duration) string {
	return fmt.Sprintf("Timed out after %gs", timeout.Seconds())
}
