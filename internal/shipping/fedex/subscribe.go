package fedex

import (
	"context"
	"encoding/xml"
	"strings"

	"github.com/danmuck/shipping/internal/shipping"
)

const meterNumberPath = "//FDXSubscriptionReply/MeterNumber"

var registerRequired = []shipping.Field{
	shipping.FieldName,
	shipping.FieldCompany,
	shipping.FieldPhone,
	shipping.FieldEmail,
	shipping.FieldAddress,
	shipping.FieldCity,
	shipping.FieldState,
	shipping.FieldZip,
	shipping.FieldAccount,
	shipping.FieldURL,
}

type subscriptionRequest struct {
	XMLName xml.Name `xml:"FDXSubscriptionRequest"`
	SchemaAttrs
	RequestHeader requestHeader
	Contact       subscriptionContact
	Address       fsmAddress
}

type subscriptionContact struct {
	PersonName   string
	CompanyName  string
	Department   string `xml:",omitempty"`
	PhoneNumber  string
	EMailAddress string `xml:"E-MailAddress"`
}

// Register subscribes the account and returns the meter number FedEx
// issues for it.
func (c *Client) Register(ctx context.Context, acct shipping.Account, req shipping.Request) (string, error) {
	body, err := buildRegister(OpRegister, acct, req)
	if err != nil {
		return "", c.rejected(OpRegister, err)
	}
	doc, err := c.call(ctx, OpRegister, acct.URL, body, fsmFaults)
	if err != nil {
		return "", err
	}
	meter, err := requireText(OpRegister, doc, meterNumberPath, "MeterNumber")
	if err != nil {
		return "", err
	}
	c.logger.Info().Str("operation", OpRegister).Msg("meter number issued")
	return meter, nil
}

func buildRegister(op string, acct shipping.Account, req shipping.Request) ([]byte, error) {
	if err := validate(op, req, acct, registerRequired); err != nil {
		return nil, err
	}
	return marshalFSM(subscriptionRequest{
		SchemaAttrs: fsmSchema("FDXSubscriptionRequest"),
		RequestHeader: requestHeader{
			CustomerTransactionIdentifier: strings.TrimSpace(req.TransactionIdentifier),
			AccountNumber:                 acct.Number,
		},
		Contact: subscriptionContact{
			PersonName:   req.Name,
			CompanyName:  req.Company,
			Department:   strings.TrimSpace(req.Department),
			PhoneNumber:  shipping.Digits(req.Phone),
			EMailAddress: req.Email,
		},
		Address: fsmAddress{
			Line1:               req.Address,
			Line2:               strings.TrimSpace(req.Address2),
			City:                req.City,
			StateOrProvinceCode: shipping.NormalizeState(req.State),
			PostalCode:          req.Zip,
			CountryCode:         orDefault(req.Country, defaultCountry),
		},
	})
}
