package fedex

import (
	"context"
	"encoding/xml"
	"strings"
	"time"

	"github.com/danmuck/shipping/internal/shipping"
)

const (
	emailLabelURLPath      = "//FDXEmailLabelReply/URL"
	emailLabelUserIDPath   = "//FDXEmailLabelReply/UserID"
	emailLabelPasswordPath = "//FDXEmailLabelReply/Password"
	emailLabelTrackingPath = "//FDXEmailLabelReply/Package/TrackingNumber"

	defaultDeclaredValue = "99.00"
	defaultLanguage      = "EN"
	urlLifetime          = 24 * time.Hour
)

var returnLabelRequired = []shipping.Field{
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
	shipping.FieldWeight,
}

// EmailLabel is a return label delivered by email: the recipient prints it
// from URL with the issued credentials.
type EmailLabel struct {
	url            string
	userID         string
	password       string
	trackingNumber string
}

func (l EmailLabel) URL() string            { return l.url }
func (l EmailLabel) UserID() string         { return l.userID }
func (l EmailLabel) Password() string       { return l.password }
func (l EmailLabel) TrackingNumber() string { return l.trackingNumber }

type emailLabelRequest struct {
	XMLName xml.Name `xml:"FDXEmailLabelRequest"`
	SchemaAttrs
	RequestHeader               requestHeader
	URLExpirationDate           string
	URLNotificationEMailAddress string `xml:"URLNotificationE-MailAddress"`
	MerchantPhoneNumber         string
	Service                     string
	Packaging                   string
	WeightUnits                 string
	CurrencyCode                string
	Origin                      fsmParty
	Destination                 fsmParty
	Payment                     fsmPayment
	RMA                         *rma `xml:",omitempty"`
	Package                     emailPackage
	SpecialServices             *specialServices `xml:",omitempty"`
}

type rma struct {
	Number string
}

type emailPackage struct {
	Weight          string
	DeclaredValue   string
	ReferenceInfo   *referenceInfo `xml:",omitempty"`
	ItemDescription string
}

type referenceInfo struct {
	CustomerReference string
}

type specialServices struct {
	EMailNotification emailNotification
}

type emailNotification struct {
	ShipAlertOptionalMessage string
	Shipper                  shipAlert
	Recipient                shipAlert
	Other                    *otherShipAlert `xml:",omitempty"`
}

type shipAlert struct {
	ShipAlert    bool
	LanguageCode string
}

type otherShipAlert struct {
	EMailAddress string `xml:"E-MailAddress"`
	ShipAlert    bool
	LanguageCode string
}

// ReturnLabel requests a return label that FedEx emails to the shipper.
func (c *Client) ReturnLabel(ctx context.Context, acct shipping.Account, req shipping.Request) (EmailLabel, error) {
	body, err := c.buildReturnLabel(OpReturnLabel, acct, req)
	if err != nil {
		return EmailLabel{}, c.rejected(OpReturnLabel, err)
	}
	doc, err := c.call(ctx, OpReturnLabel, acct.URL, body, fsmFaults)
	if err != nil {
		return EmailLabel{}, err
	}
	var out EmailLabel
	if out.url, err = requireText(OpReturnLabel, doc, emailLabelURLPath, "URL"); err != nil {
		return EmailLabel{}, err
	}
	if out.userID, err = requireText(OpReturnLabel, doc, emailLabelUserIDPath, "UserID"); err != nil {
		return EmailLabel{}, err
	}
	if out.password, err = requireText(OpReturnLabel, doc, emailLabelPasswordPath, "Password"); err != nil {
		return EmailLabel{}, err
	}
	if out.trackingNumber, err = requireText(OpReturnLabel, doc, emailLabelTrackingPath, "TrackingNumber"); err != nil {
		return EmailLabel{}, err
	}
	c.logger.Info().Str("operation", OpReturnLabel).Str("tracking_number", out.trackingNumber).Msg("return label issued")
	return out, nil
}

func (c *Client) buildReturnLabel(op string, acct shipping.Account, req shipping.Request) ([]byte, error) {
	if req.TransactionType == "" {
		req.TransactionType = "ship_ground"
	}
	if err := validate(op, req, acct, returnLabelRequired); err != nil {
		return nil, err
	}
	carrier, err := carrierCode(op, req.TransactionType)
	if err != nil {
		return nil, err
	}
	origin, err := senderParty(op, req)
	if err != nil {
		return nil, err
	}
	destination, err := recipientParty(op, req)
	if err != nil {
		return nil, err
	}

	declared := defaultDeclaredValue
	if req.DeclaredValue != 0 {
		declared = shipping.FormatMoney(shipping.NormalizeDeclaredValue(req.DeclaredValue))
	}

	doc := emailLabelRequest{
		SchemaAttrs: fsmSchema("FDXEmailLabelRequest"),
		RequestHeader: requestHeader{
			AccountNumber: acct.Number,
			MeterNumber:   acct.Meter,
			CarrierCode:   carrier,
		},
		URLExpirationDate:           c.now().Add(urlLifetime).Format(fsmDateLayout),
		URLNotificationEMailAddress: req.SenderEmail,
		MerchantPhoneNumber:         shipping.Digits(req.SenderPhone),
		Service:                     lookup(serviceTypes, req.ServiceType, serviceTypes[serviceGround]),
		Packaging:                   lookup(packageTypes, req.PackagingType, "YOURPACKAGING"),
		WeightUnits:                 orDefault(req.WeightUnits, "LBS"),
		CurrencyCode:                orDefault(req.CurrencyCode, "USD"),
		Origin:                      origin.fsm(),
		Destination:                 destination.fsm(),
		Payment:                     fsmPayment{PayorType: lookup(paymentTypes, req.PayType, defaultPayor)},
		Package: emailPackage{
			Weight:          shipping.FormatWeight(shipping.NormalizeWeight(req.Weight)),
			DeclaredValue:   declared,
			ItemDescription: orDefault(req.Description, "Shipment"),
		},
	}
	if strings.TrimSpace(req.PayorAccountNumber) != "" {
		doc.Payment.Payor = &fsmPayor{
			AccountNumber: req.PayorAccountNumber,
			CountryCode:   strings.TrimSpace(req.PayorCountryCode),
		}
	}
	if strings.TrimSpace(req.RMANumber) != "" {
		doc.RMA = &rma{Number: req.RMANumber}
	}
	if strings.TrimSpace(req.CustomerReference) != "" {
		doc.Package.ReferenceInfo = &referenceInfo{CustomerReference: req.CustomerReference}
	}
	if strings.TrimSpace(req.Message) != "" {
		doc.SpecialServices = &specialServices{EMailNotification: notification(req)}
	}
	return marshalFSM(doc)
}

func notification(req shipping.Request) emailNotification {
	n := emailNotification{
		ShipAlertOptionalMessage: req.Message,
		Shipper: shipAlert{
			ShipAlert:    req.ShipperShipAlert,
			LanguageCode: orDefault(req.ShipperLanguage, defaultLanguage),
		},
		Recipient: shipAlert{
			ShipAlert:    req.RecipientShipAlert,
			LanguageCode: orDefault(req.RecipientLanguage, defaultLanguage),
		},
	}
	if strings.TrimSpace(req.OtherEmail) != "" {
		n.Other = &otherShipAlert{
			EMailAddress: req.OtherEmail,
			ShipAlert:    req.OtherShipAlert,
			LanguageCode: orDefault(req.OtherLanguage, defaultLanguage),
		}
	}
	return n
}
