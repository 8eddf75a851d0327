package fedex

import (
	"context"
	"encoding/xml"

	"github.com/antchfx/xmlquery"
	"github.com/danmuck/shipping/internal/shipping"
)

const serviceEntryPath = "//Entry"

var availableServicesRequired = []shipping.Field{
	shipping.FieldZip,
	shipping.FieldSenderZip,
	shipping.FieldWeight,
	shipping.FieldAccount,
	shipping.FieldMeter,
	shipping.FieldURL,
}

var expressAvailabilityRequired = []shipping.Field{
	shipping.FieldSenderZip,
	shipping.FieldZip,
	shipping.FieldAccount,
	shipping.FieldMeter,
	shipping.FieldURL,
}

type rateAvailableServicesRequest struct {
	XMLName xml.Name `xml:"FDXRateAvailableServicesRequest"`
	SchemaAttrs
	RequestHeader      requestHeader
	ShipDate           string `xml:",omitempty"`
	DropoffType        string
	Packaging          string
	WeightUnits        string
	Weight             string
	ListRate           bool
	OriginAddress      servicesAddress
	DestinationAddress servicesAddress
	Payment            fsmPayment
	PackageCount       int
}

type servicesAddress struct {
	StateOrProvince string `xml:",omitempty"`
	PostalCode      string
	CountryCode     string
}

type serviceAvailabilityRequest struct {
	XMLName xml.Name `xml:"FDXServiceAvailabilityRequest"`
	SchemaAttrs
	RequestHeader      requestHeader
	OriginAddress      postalAddress
	DestinationAddress postalAddress
	ShipDate           string `xml:",omitempty"`
	PackageCount       int
}

type postalAddress struct {
	PostalCode  string
	CountryCode string
}

// AvailableServices lists the services FedEx offers for the shipment,
// ground entries first, then express.
func (c *Client) AvailableServices(ctx context.Context, acct shipping.Account, req shipping.Request) ([]shipping.ServiceAvailability, error) {
	if err := validate(OpAvailableServices, req, acct, availableServicesRequired); err != nil {
		return nil, c.rejected(OpAvailableServices, err)
	}
	var services []shipping.ServiceAvailability
	for _, carrier := range []string{carrierGround, carrierExpress} {
		body, err := buildAvailableServices(acct, req, carrier)
		if err != nil {
			return nil, err
		}
		doc, err := c.call(ctx, OpAvailableServices, acct.URL, body, fsmFaults)
		if err != nil {
			return nil, err
		}
		services = append(services, serviceEntries(doc)...)
	}
	c.logger.Debug().Str("operation", OpAvailableServices).Int("services", len(services)).Msg("services listed")
	return services, nil
}

// ExpressServiceAvailability asks which express services can reach the
// destination zip and when.
func (c *Client) ExpressServiceAvailability(ctx context.Context, acct shipping.Account, req shipping.Request) ([]shipping.ServiceAvailability, error) {
	if err := validate(OpExpressAvailability, req, acct, expressAvailabilityRequired); err != nil {
		return nil, c.rejected(OpExpressAvailability, err)
	}
	body, err := marshalFSM(serviceAvailabilityRequest{
		SchemaAttrs: fsmSchema("FDXServiceAvailabilityRequest"),
		RequestHeader: requestHeader{
			AccountNumber: acct.Number,
			MeterNumber:   acct.Meter,
		},
		OriginAddress: postalAddress{
			PostalCode:  req.SenderZip,
			CountryCode: orDefault(req.SenderCountry, defaultCountry),
		},
		DestinationAddress: postalAddress{
			PostalCode:  req.Zip,
			CountryCode: orDefault(req.Country, defaultCountry),
		},
		ShipDate:     fsmDate(req.ShipDate),
		PackageCount: packageCount(req.PackageTotal),
	})
	if err != nil {
		return nil, err
	}
	doc, err := c.call(ctx, OpExpressAvailability, acct.URL, body, fsmFaults)
	if err != nil {
		return nil, err
	}
	return serviceEntries(doc), nil
}

func buildAvailableServices(acct shipping.Account, req shipping.Request, carrier string) ([]byte, error) {
	return marshalFSM(rateAvailableServicesRequest{
		SchemaAttrs: fsmSchema("FDXRateAvailableServicesRequest"),
		RequestHeader: requestHeader{
			AccountNumber: acct.Number,
			MeterNumber:   acct.Meter,
			CarrierCode:   carrier,
		},
		ShipDate:    fsmDate(req.ShipDate),
		DropoffType: lookup(dropoffTypes, req.DropoffType, dropoffTypes["regular_pickup"]),
		Packaging:   lookup(packageTypes, req.PackagingType, packageTypes["your_packaging"]),
		WeightUnits: orDefault(req.WeightUnits, "LBS"),
		Weight:      shipping.FormatWeight(shipping.NormalizeWeight(req.Weight)),
		ListRate:    false,
		OriginAddress: servicesAddress{
			StateOrProvince: shipping.NormalizeState(req.SenderState),
			PostalCode:      req.SenderZip,
			CountryCode:     orDefault(req.SenderCountry, defaultCountry),
		},
		DestinationAddress: servicesAddress{
			StateOrProvince: shipping.NormalizeState(req.State),
			PostalCode:      req.Zip,
			CountryCode:     orDefault(req.Country, defaultCountry),
		},
		Payment:      fsmPayment{PayorType: lookup(paymentTypes, req.PayType, paymentTypes["sender"])},
		PackageCount: packageCount(req.PackageTotal),
	})
}

func serviceEntries(doc *xmlquery.Node) []shipping.ServiceAvailability {
	entries := xmlquery.Find(doc, serviceEntryPath)
	out := make([]shipping.ServiceAvailability, 0, len(entries))
	for _, entry := range entries {
		out = append(out, shipping.FedExServiceAvailability(entry))
	}
	return out
}
