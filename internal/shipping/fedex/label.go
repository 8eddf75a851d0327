package fedex

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/danmuck/shipping/internal/shipping"
)

const (
	soapEnvNamespace = "http://schemas.xmlsoap.org/soap/envelope/"
	soapEncNamespace = "http://schemas.xmlsoap.org/soap/encoding/"
	xsdNamespace     = "http://www.w3.org/2001/XMLSchema"
	shipV12Namespace = "http://fedex.com/ws/ship/v12"

	trackingNumberPath = "//*[local-name()='TrackingNumber']"
	labelImagePath     = "//*[local-name()='Image']"
)

var labelRequired = []shipping.Field{
	shipping.FieldPhone,
	shipping.FieldEmail,
	shipping.FieldAddress,
	shipping.FieldCity,
	shipping.FieldState,
	shipping.FieldZip,
	shipping.FieldSenderPhone,
	shipping.FieldSenderEmail,
	shipping.FieldSenderAddress,
	shipping.FieldSenderCity,
	shipping.FieldSenderState,
	shipping.FieldSenderZip,
	shipping.FieldAccount,
	shipping.FieldURL,
	shipping.FieldMeter,
	shipping.FieldPassword,
	shipping.FieldKey,
}

// Label is a created shipping label. Its fields are read through accessors
// only; Image returns a copy.
type Label struct {
	trackingNumber string
	encodedImage   string
	image          []byte
}

func (l Label) TrackingNumber() string { return l.trackingNumber }

// EncodedImage is the base64 text as returned by the carrier.
func (l Label) EncodedImage() string { return l.encodedImage }

// Image returns a copy of the decoded label image.
func (l Label) Image() []byte {
	return bytes.Clone(l.image)
}

// WriteImage streams the decoded label image to w.
func (l Label) WriteImage(w io.Writer) error {
	_, err := w.Write(l.image)
	return err
}

type shipEnvelope struct {
	XMLName xml.Name `xml:"SOAP-ENV:Envelope"`
	SOAPEnv string   `xml:"xmlns:SOAP-ENV,attr"`
	SOAPEnc string   `xml:"xmlns:SOAP-ENC,attr"`
	XSI     string   `xml:"xmlns:xsi,attr"`
	XSD     string   `xml:"xmlns:xsd,attr"`
	XMLNS   string   `xml:"xmlns,attr"`
	Body    shipBody `xml:"SOAP-ENV:Body"`
}

type shipBody struct {
	Request processShipmentRequest `xml:"ProcessShipmentRequest"`
}

type processShipmentRequest struct {
	NS                      string `xml:"xmlns:ns,attr"`
	XSI                     string `xml:"xmlns:xsi,attr"`
	WebAuthenticationDetail webAuthenticationDetail
	ClientDetail            clientDetail
	Version                 version
	RequestedShipment       requestedShipment
}

type webAuthenticationDetail struct {
	UserCredential userCredential
}

type userCredential struct {
	Key      string
	Password string
}

type clientDetail struct {
	AccountNumber string
	MeterNumber   string
}

type version struct {
	ServiceId    string
	Major        int
	Intermediate int
	Minor        int
}

type requestedShipment struct {
	ShipTimestamp             string
	DropoffType               string
	ServiceType               string
	PackagingType             string
	Shipper                   wsParty
	Recipient                 wsParty
	ShippingChargesPayment    shippingChargesPayment
	LabelSpecification        labelSpecification
	RateRequestTypes          string
	PackageCount              int
	RequestedPackageLineItems requestedPackageLineItem
}

type wsParty struct {
	Contact wsContact
	Address wsAddress
}

type wsContact struct {
	PersonName   string `xml:",omitempty"`
	CompanyName  string `xml:",omitempty"`
	Department   string `xml:",omitempty"`
	PhoneNumber  string
	PagerNumber  string `xml:",omitempty"`
	FaxNumber    string `xml:",omitempty"`
	EMailAddress string
}

type wsAddress struct {
	StreetLines         []string
	City                string
	StateOrProvinceCode string
	PostalCode          string
	CountryCode         string
	Residential         *bool `xml:",omitempty"`
}

type shippingChargesPayment struct {
	PaymentType string
	Payor       wsPayor
}

type wsPayor struct {
	ResponsibleParty responsibleParty
}

type responsibleParty struct {
	AccountNumber string
	Contact       struct{}
}

type labelSpecification struct {
	LabelFormatType string
	ImageType       string
}

type requestedPackageLineItem struct {
	SequenceNumber     int
	Weight             wsWeight
	CustomerReferences *customerReference `xml:",omitempty"`
}

type wsWeight struct {
	Units string
	Value string
}

type customerReference struct {
	CustomerReferenceType string
	Value                 string
}

// Label creates a shipment and returns its tracking number and label image.
func (c *Client) Label(ctx context.Context, acct shipping.Account, req shipping.Request) (Label, error) {
	body, err := c.buildLabel(OpLabel, acct, req)
	if err != nil {
		return Label{}, c.rejected(OpLabel, err)
	}
	doc, err := c.call(ctx, OpLabel, acct.URL, body, shipFaults)
	if err != nil {
		return Label{}, err
	}
	tracking, err := requireText(OpLabel, doc, trackingNumberPath, "TrackingNumber")
	if err != nil {
		return Label{}, err
	}
	encoded, image, err := requireBase64(OpLabel, doc, labelImagePath, "Image")
	if err != nil {
		return Label{}, err
	}
	c.logger.Info().Str("operation", OpLabel).Str("tracking_number", tracking).Int("image_bytes", len(image)).Msg("label created")
	return Label{trackingNumber: tracking, encodedImage: encoded, image: image}, nil
}

// resolveShipService picks the v12 service code; ground shipments to a
// residence become home delivery.
func resolveShipService(req shipping.Request) string {
	name := req.ServiceType
	if name == "" {
		name = serviceGround
	}
	code := lookup(serviceTypes, name, serviceTypes[serviceGround])
	if code == serviceTypes[serviceGround] && req.Residential {
		return serviceTypes[serviceHomeDelivery]
	}
	return code
}

func (c *Client) buildLabel(op string, acct shipping.Account, req shipping.Request) ([]byte, error) {
	if req.TransactionType == "" {
		req.TransactionType = "ship_ground"
	}
	if err := validate(op, req, acct, labelRequired); err != nil {
		return nil, err
	}
	if _, err := carrierCode(op, req.TransactionType); err != nil {
		return nil, err
	}
	shipper, err := senderParty(op, req)
	if err != nil {
		return nil, err
	}
	recipient, err := recipientParty(op, req)
	if err != nil {
		return nil, err
	}

	shipTime := req.ShipDate
	if shipTime.IsZero() {
		shipTime = c.now()
	}
	residential := req.Residential
	recipientXML := recipient.ws()
	recipientXML.Address.Residential = &residential

	var reference *customerReference
	if strings.TrimSpace(req.InvoiceNumber) != "" {
		reference = &customerReference{CustomerReferenceType: "INVOICE_NUMBER", Value: req.InvoiceNumber}
	}

	env := shipEnvelope{
		SOAPEnv: soapEnvNamespace,
		SOAPEnc: soapEncNamespace,
		XSI:     xsiNamespace,
		XSD:     xsdNamespace,
		XMLNS:   shipV12Namespace,
		Body: shipBody{Request: processShipmentRequest{
			NS:  shipV12Namespace,
			XSI: xsiNamespace,
			WebAuthenticationDetail: webAuthenticationDetail{
				UserCredential: userCredential{Key: acct.Key, Password: acct.Password},
			},
			ClientDetail: clientDetail{AccountNumber: acct.Number, MeterNumber: acct.Meter},
			Version:      version{ServiceId: "ship", Major: 12},
			RequestedShipment: requestedShipment{
				ShipTimestamp: shipTime.UTC().Format(shipTimeLayout),
				DropoffType:   lookup(shipDropoffTypes, req.DropoffType, "REGULAR_PICKUP"),
				ServiceType:   resolveShipService(req),
				PackagingType: lookup(packageTypes, req.PackagingType, "YOUR_PACKAGING"),
				Shipper:       shipper.ws(),
				Recipient:     recipientXML,
				ShippingChargesPayment: shippingChargesPayment{
					PaymentType: lookup(paymentTypes, req.PayType, defaultPayor),
					Payor: wsPayor{ResponsibleParty: responsibleParty{
						AccountNumber: orDefault(req.PayorAccountNumber, acct.Number),
					}},
				},
				LabelSpecification: labelSpecification{
					LabelFormatType: orDefault(req.LabelType, "COMMON2D"),
					ImageType:       orDefault(req.ImageType, "PNG"),
				},
				RateRequestTypes: "LIST",
				PackageCount:     1,
				RequestedPackageLineItems: requestedPackageLineItem{
					SequenceNumber: 1,
					Weight: wsWeight{
						Units: orDefault(req.WeightUnits, "LB"),
						Value: shipping.FormatWeight(shipping.NormalizeWeight(req.Weight)),
					},
					CustomerReferences: reference,
				},
			},
		}},
	}
	body, err := xml.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("fedex: marshal request: %w", err)
	}
	return body, nil
}

func (p party) ws() wsParty {
	return wsParty{
		Contact: wsContact{
			PersonName:   p.Identity.PersonName,
			CompanyName:  p.Identity.CompanyName,
			Department:   p.Department,
			PhoneNumber:  p.Phone,
			PagerNumber:  p.Pager,
			FaxNumber:    p.Fax,
			EMailAddress: p.Email,
		},
		Address: wsAddress{
			StreetLines:         p.Lines,
			City:                p.City,
			StateOrProvinceCode: p.State,
			PostalCode:          p.Zip,
			CountryCode:         p.Country,
		},
	}
}
