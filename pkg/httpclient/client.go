// Package httpclient is the outbound HTTP stack for calls to sibling
// services: a pooled, traced client with bounded retries, a circuit breaker
// on top, and translation of failed responses into catalog errors.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Config tunes a Client.
type Config struct {
	Timeout time.Duration
	// Retries is the number of extra attempts an idempotent request gets
	// after a transport error or a 502/503/504 answer.
	Retries int
	// Backoff is the wait before the first retry; it doubles per retry.
	Backoff         time.Duration
	MaxConnsPerHost int
	// Traced wraps the transport in otelhttp so each call is a client span
	// and carries the W3C trace context.
	Traced bool
}

// DefaultConfig is a traced, single-attempt client.
func DefaultConfig() Config {
	return Config{
		Timeout:         10 * time.Second,
		Backoff:         200 * time.Millisecond,
		MaxConnsPerHost: 32,
		Traced:          true,
	}
}

// Client sends requests over a shared connection pool.
type Client struct {
	http *http.Client
	cfg  Config
}

func New(cfg Config) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.MaxConnsPerHost > 0 {
		transport.MaxConnsPerHost = cfg.MaxConnsPerHost
		transport.MaxIdleConnsPerHost = cfg.MaxConnsPerHost
	}

	var rt http.RoundTripper = transport
	if cfg.Traced {
		rt = otelhttp.NewTransport(rt)
	}
	return &Client{
		http: &http.Client{Transport: rt, Timeout: cfg.Timeout},
		cfg:  cfg,
	}
}

// Do sends req with ctx. Any status is returned as a response; only
// transport failures are errors.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)

	attempts := 1
	if idempotent(req.Method) && c.cfg.Retries > 0 {
		attempts += c.cfg.Retries
	}
	wait := c.cfg.Backoff

	for attempt := 1; ; attempt++ {
		resp, err := c.http.Do(req)
		if attempt == attempts || !retryable(resp, err) {
			if err != nil {
				return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Redacted(), err)
			}
			return resp, nil
		}

		if resp != nil {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
			_ = resp.Body.Close()
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2

		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("rewind %s body: %w", req.Method, err)
			}
			req.Body = body
		}
	}
}

func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// retryable reports whether a failed attempt may succeed if repeated.
// Cancellation and deadlines are final.
func retryable(resp *http.Response, err error) bool {
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return false
		}
		var netErr net.Error
		return errors.As(err, &netErr)
	}
	switch resp.StatusCode {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}
