package fedex

import (
	"context"
	"errors"
	"time"

	"github.com/antchfx/xmlquery"
	"github.com/danmuck/shipping/internal/observability"
	"github.com/danmuck/shipping/internal/shipping"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const carrierName = "fedex"

// Operation names used in errors, logs and metrics.
const (
	OpPrice               = "price"
	OpDiscountPrice       = "discount_price"
	OpLabel               = "label"
	OpReturnLabel         = "return_label"
	OpVoid                = "void"
	OpAvailableServices   = "available_services"
	OpExpressAvailability = "express_service_availability"
	OpRegister            = "register"
)

// Client runs FedEx operations over an injected transport. It holds no
// per-call state and is safe for concurrent use.
type Client struct {
	transport shipping.Transport
	logger    zerolog.Logger
	now       func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithLogger replaces the global logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithClock replaces time.Now for ship timestamps and URL expirations.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient builds a client sending every document through t.
func NewClient(t shipping.Transport, opts ...Option) *Client {
	c := &Client{
		transport: t,
		logger:    log.Logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With().Str("carrier", carrierName).Logger()
	return c
}

// call carries one operation from a built document to a parsed reply.
// The caller has already validated and built body.
func (c *Client) call(ctx context.Context, op, url string, body []byte, faults []faultPath) (*xmlquery.Node, error) {
	start := time.Now()
	c.logger.Debug().Str("operation", op).Int("bytes", len(body)).Msg("sending request")

	raw, err := c.transport.Send(ctx, url, body)
	if err != nil {
		c.finish(op, start, err)
		return nil, err
	}
	doc, err := parseReply(op, raw, faults)
	c.finish(op, start, err)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (c *Client) finish(op string, start time.Time, err error) {
	duration := time.Since(start)
	outcome := observability.OutcomeOK
	var ce *shipping.CarrierError
	switch {
	case err == nil:
	case errors.As(err, &ce):
		outcome = observability.OutcomeFault
	default:
		outcome = observability.OutcomeFailed
	}
	observability.RecordCarrierCall(carrierName, op, outcome, duration)

	if err != nil {
		c.logger.Warn().Str("operation", op).Dur("duration", duration).Err(err).Msg("request failed")
		return
	}
	c.logger.Debug().Str("operation", op).Dur("duration", duration).Msg("request complete")
}

// rejected records a call refused before any document was sent.
func (c *Client) rejected(op string, err error) error {
	observability.RecordCarrierCall(carrierName, op, observability.OutcomeInvalid, 0)
	c.logger.Debug().Str("operation", op).Err(err).Msg("request rejected")
	return err
}

func validate(op string, req shipping.Request, acct shipping.Account, required []shipping.Field) error {
	return shipping.RequireFields(op, required, req.Fields().Merge(acct.Fields()))
}
