package fedex

import (
	"context"
	"encoding/xml"
	"strings"

	"github.com/danmuck/shipping/internal/shipping"
)

var voidRequired = []shipping.Field{
	shipping.FieldAccount,
	shipping.FieldURL,
	shipping.FieldMeter,
	shipping.FieldTrackingNumber,
}

type shipDeleteRequest struct {
	XMLName xml.Name `xml:"FDXShipDeleteRequest"`
	SchemaAttrs
	RequestHeader  requestHeader
	TrackingNumber string
}

// Void cancels the shipment identified by trackingNumber. A reply without a
// fault is success. req supplies only the transaction type.
func (c *Client) Void(ctx context.Context, acct shipping.Account, req shipping.Request, trackingNumber string) error {
	body, err := buildVoid(OpVoid, acct, req, trackingNumber)
	if err != nil {
		return c.rejected(OpVoid, err)
	}
	if _, err := c.call(ctx, OpVoid, acct.URL, body, fsmFaults); err != nil {
		return err
	}
	c.logger.Info().Str("operation", OpVoid).Str("tracking_number", trackingNumber).Msg("shipment voided")
	return nil
}

func buildVoid(op string, acct shipping.Account, req shipping.Request, trackingNumber string) ([]byte, error) {
	if req.TransactionType == "" {
		req.TransactionType = "ship_ground"
	}
	fields := acct.Fields()
	if strings.TrimSpace(trackingNumber) != "" {
		fields[shipping.FieldTrackingNumber] = trackingNumber
	}
	if err := shipping.RequireFields(op, voidRequired, fields); err != nil {
		return nil, err
	}
	carrier, err := carrierCode(op, req.TransactionType)
	if err != nil {
		return nil, err
	}
	return marshalFSM(shipDeleteRequest{
		SchemaAttrs: fsmSchema("FDXShipDeleteRequest"),
		RequestHeader: requestHeader{
			AccountNumber: acct.Number,
			MeterNumber:   acct.Meter,
			CarrierCode:   carrier,
		},
		TrackingNumber: strings.TrimSpace(trackingNumber),
	})
}
