package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/danmuck/shipping/internal/observability"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const contentType = "text/xml; charset=utf-8"

// StatusError reports a non-2xx reply that carried no body for the parser.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("transport: %s returned status %d with empty body", e.URL, e.StatusCode)
}

// HTTP posts carrier documents over HTTP. It implements shipping.Transport.
type HTTP struct {
	client *http.Client
	logger zerolog.Logger
}

// Option configures an HTTP transport.
type Option func(*HTTP)

// WithHTTPClient replaces the client built from Config.
func WithHTTPClient(client *http.Client) Option {
	return func(h *HTTP) { h.client = client }
}

// WithLogger replaces the global logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(h *HTTP) { h.logger = logger }
}

func NewHTTP(cfg Config, opts ...Option) (*HTTP, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	h := &HTTP{
		client: client,
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With().Str("component", "transport").Logger()
	return h, nil
}

// Send posts body to endpoint and returns the reply body. Non-2xx replies
// with a body are returned as-is so SOAP faults reach the parser.
func (h *HTTP) Send(ctx context.Context, endpoint string, body []byte) ([]byte, error) {
	host := hostOf(endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("transport: build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "text/xml")

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		observability.RecordTransport(host, 0)
		h.logger.Warn().Str("host", host).Dur("duration", time.Since(start)).Err(err).Msg("post failed")
		return nil, err
	}
	defer resp.Body.Close()

	reply, err := io.ReadAll(resp.Body)
	observability.RecordTransport(host, resp.StatusCode)
	if err != nil {
		return nil, fmt.Errorf("transport: read reply: %w", err)
	}
	h.logger.Debug().
		Str("host", host).
		Int("status", resp.StatusCode).
		Int("bytes", len(reply)).
		Dur("duration", time.Since(start)).
		Msg("reply received")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(bytes.TrimSpace(reply)) == 0 {
			return nil, &StatusError{URL: endpoint, StatusCode: resp.StatusCode}
		}
		h.logger.Warn().Str("host", host).Int("status", resp.StatusCode).Msg("non-2xx reply passed to parser")
	}
	return reply, nil
}

func hostOf(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Host
}
