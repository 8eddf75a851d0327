package fedex

import (
	"context"
	"encoding/xml"

	"github.com/danmuck/shipping/internal/shipping"
)

const (
	listNetChargePath       = "//FDXRateReply/EstimatedCharges/ListCharges/NetCharge"
	discountedNetChargePath = "//FDXRateReply/EstimatedCharges/DiscountedCharges/NetCharge"
)

var rateRequired = []shipping.Field{
	shipping.FieldZip,
	shipping.FieldSenderZip,
	shipping.FieldWeight,
	shipping.FieldTransactionType,
	shipping.FieldAccount,
	shipping.FieldMeter,
	shipping.FieldURL,
}

type rateRequest struct {
	XMLName xml.Name `xml:"FDXRateRequest"`
	SchemaAttrs
	RequestHeader      requestHeader
	ShipDate           string `xml:",omitempty"`
	DropoffType        string
	Service            string
	Packaging          string
	WeightUnits        string
	Weight             string
	ListRate           bool
	OriginAddress      rateAddress
	DestinationAddress rateAddress
	Payment            fsmPayment
	PackageCount       int
}

type rateAddress struct {
	StateOrProvinceCode string `xml:",omitempty"`
	PostalCode          string
	CountryCode         string
}

// Price returns the list net charge: what a regular consumer would pay.
func (c *Client) Price(ctx context.Context, acct shipping.Account, req shipping.Request) (float64, error) {
	return c.rate(ctx, OpPrice, acct, req, listNetChargePath)
}

// DiscountPrice returns the net charge with this account's discounts applied.
func (c *Client) DiscountPrice(ctx context.Context, acct shipping.Account, req shipping.Request) (float64, error) {
	return c.rate(ctx, OpDiscountPrice, acct, req, discountedNetChargePath)
}

func (c *Client) rate(ctx context.Context, op string, acct shipping.Account, req shipping.Request, chargePath string) (float64, error) {
	body, err := buildRate(op, acct, req)
	if err != nil {
		return 0, c.rejected(op, err)
	}
	doc, err := c.call(ctx, op, acct.URL, body, fsmFaults)
	if err != nil {
		return 0, err
	}
	return requireFloat(op, doc, chargePath, "NetCharge")
}

func buildRate(op string, acct shipping.Account, req shipping.Request) ([]byte, error) {
	if req.TransactionType == "" {
		req.TransactionType = "rate_ground"
	}
	if err := validate(op, req, acct, rateRequired); err != nil {
		return nil, err
	}
	carrier, err := carrierCode(op, req.TransactionType)
	if err != nil {
		return nil, err
	}
	doc := rateRequest{
		SchemaAttrs: fsmSchema("FDXRateRequest"),
		RequestHeader: requestHeader{
			AccountNumber: acct.Number,
			MeterNumber:   acct.Meter,
			CarrierCode:   carrier,
		},
		ShipDate:    fsmDate(req.ShipDate),
		DropoffType: lookup(dropoffTypes, req.DropoffType, "REGULARPICKUP"),
		Service:     lookup(serviceTypes, req.ServiceType, serviceTypes[serviceGround]),
		Packaging:   lookup(packageTypes, req.PackagingType, "YOURPACKAGING"),
		WeightUnits: orDefault(req.WeightUnits, "LBS"),
		Weight:      shipping.FormatWeight(shipping.NormalizeWeight(req.Weight)),
		ListRate:    true,
		OriginAddress: rateAddress{
			StateOrProvinceCode: shipping.StateFromZip(req.SenderZip),
			PostalCode:          req.SenderZip,
			CountryCode:         orDefault(req.SenderCountry, defaultCountry),
		},
		DestinationAddress: rateAddress{
			StateOrProvinceCode: shipping.StateFromZip(req.Zip),
			PostalCode:          req.Zip,
			CountryCode:         orDefault(req.Country, defaultCountry),
		},
		Payment:      fsmPayment{PayorType: lookup(paymentTypes, req.PayType, defaultPayor)},
		PackageCount: packageCount(req.PackageTotal),
	}
	return marshalFSM(doc)
}
