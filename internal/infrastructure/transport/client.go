// Package transport is the single HTTP client of the portal SDK. It joins
// paths onto the API base URL, injects the session's bearer token and turns
// network failures and non-2xx answers into domain.TransportError.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/carepoint/portal-client/internal/core/domain"
	"github.com/carepoint/portal-client/internal/core/envelope"
	"github.com/carepoint/portal-client/internal/core/ports"
	"github.com/carepoint/portal-client/internal/metrics"
)

const (
	HeaderRequestID = "X-Request-ID"

	maxBodyBytes = 8 << 20
)

// Config captures the settings for reaching the remote API.
type Config struct {
	BaseURL string
	// HTTPClient defaults to a client without timeout.
	HTTPClient *http.Client
}

type Client struct {
	baseURL  string
	http     *http.Client
	sessions ports.SessionProvider
	log      zerolog.Logger
}

var _ ports.Transport = (*Client)(nil)

// New returns a Client. sessions may be nil for unauthenticated use.
func New(cfg Config, sessions ports.SessionProvider, log zerolog.Logger) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		http:     hc,
		sessions: sessions,
		log:      log,
	}
}

// Do performs one request and returns the raw response body. It does not
// retry; callers decide retry policy.
func (c *Client) Do(ctx context.Context, method, path string, body any, opts ...ports.CallOption) ([]byte, error) {
	var o ports.CallOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.TransportRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.TransportRequestsTotal.WithLabelValues(method, "error").Inc()
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return nil, &domain.TransportError{Method: method, Path: path, Message: networkMessage(err), Err: err}
	}
	defer resp.Body.Close()

	metrics.TransportRequestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &domain.TransportError{Method: method, Path: path, StatusCode: resp.StatusCode, Message: "read response body", Err: err}
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := envelope.Message(raw)
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &domain.TransportError{Method: method, Path: path, StatusCode: resp.StatusCode, Message: msg}
	}
	return raw, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+strings.TrimLeft(path, "/"), reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.sessions != nil {
		if s, ok := c.sessions.Current(); ok && s.Token != "" {
			req.Header.Set("Authorization", "Bearer "+s.Token)
		}
	}
	return req, nil
}

func networkMessage(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	case errors.Is(err, context.Canceled):
		return "request canceled"
	default:
		return "network error"
	}
}
