package fedex

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/danmuck/shipping/internal/shipping"
)

const (
	fsmNamespace = "http://www.fedex.com/fsmapi"
	xsiNamespace = "http://www.w3.org/2001/XMLSchema-instance"

	fsmDateLayout  = "2006-01-02"
	shipTimeLayout = "2006-01-02T15:04:05.000Z"

	defaultCountry = "US"
	defaultPayor   = "SENDER"
)

// SchemaAttrs are the literal namespace attributes every FSM request root carries.
type SchemaAttrs struct {
	API            string `xml:"xmlns:api,attr"`
	XSI            string `xml:"xmlns:xsi,attr"`
	SchemaLocation string `xml:"xsi:noNamespaceSchemaLocation,attr"`
}

func fsmSchema(root string) SchemaAttrs {
	return SchemaAttrs{
		API:            fsmNamespace,
		XSI:            xsiNamespace,
		SchemaLocation: root + ".xsd",
	}
}

type requestHeader struct {
	CustomerTransactionIdentifier string `xml:",omitempty"`
	AccountNumber                 string
	MeterNumber                   string `xml:",omitempty"`
	CarrierCode                   string `xml:",omitempty"`
}

type fsmContact struct {
	PersonName   string `xml:",omitempty"`
	CompanyName  string `xml:",omitempty"`
	Department   string `xml:",omitempty"`
	PhoneNumber  string
	PagerNumber  string `xml:",omitempty"`
	FaxNumber    string `xml:",omitempty"`
	EMailAddress string `xml:"E-MailAddress"`
}

type fsmAddress struct {
	Line1               string
	Line2               string `xml:",omitempty"`
	City                string
	StateOrProvinceCode string
	PostalCode          string
	CountryCode         string
}

type fsmParty struct {
	Contact fsmContact
	Address fsmAddress
}

type fsmPayment struct {
	PayorType string
	Payor     *fsmPayor `xml:",omitempty"`
}

type fsmPayor struct {
	AccountNumber string
	CountryCode   string `xml:",omitempty"`
}

// party is the carrier-neutral view of one side of a shipment, with every
// normalization rule already applied.
type party struct {
	Identity   shipping.Identity
	Department string
	Phone      string
	Pager      string
	Fax        string
	Email      string
	Lines      []string
	City       string
	State      string
	Zip        string
	Country    string
}

func recipientParty(op string, r shipping.Request) (party, error) {
	id, err := shipping.ResolveIdentity(op, shipping.FieldName, shipping.FieldCompany, r.Name, r.Company)
	if err != nil {
		return party{}, err
	}
	return party{
		Identity:   id,
		Department: strings.TrimSpace(r.Department),
		Phone:      shipping.Digits(r.Phone),
		Pager:      shipping.Digits(r.Pager),
		Fax:        shipping.Digits(r.Fax),
		Email:      r.Email,
		Lines:      streetLines(r.Address, r.Address2),
		City:       r.City,
		State:      shipping.NormalizeState(r.State),
		Zip:        r.Zip,
		Country:    orDefault(r.Country, defaultCountry),
	}, nil
}

func senderParty(op string, r shipping.Request) (party, error) {
	id, err := shipping.ResolveIdentity(op, shipping.FieldSenderName, shipping.FieldSenderCompany, r.SenderName, r.SenderCompany)
	if err != nil {
		return party{}, err
	}
	return party{
		Identity:   id,
		Department: strings.TrimSpace(r.SenderDepartment),
		Phone:      shipping.Digits(r.SenderPhone),
		Pager:      shipping.Digits(r.SenderPager),
		Fax:        shipping.Digits(r.SenderFax),
		Email:      r.SenderEmail,
		Lines:      streetLines(r.SenderAddress, r.SenderAddress2),
		City:       r.SenderCity,
		State:      shipping.NormalizeState(r.SenderState),
		Zip:        r.SenderZip,
		Country:    orDefault(r.SenderCountry, defaultCountry),
	}, nil
}

func (p party) fsm() fsmParty {
	out := fsmParty{
		Contact: fsmContact{
			PersonName:   p.Identity.PersonName,
			CompanyName:  p.Identity.CompanyName,
			Department:   p.Department,
			PhoneNumber:  p.Phone,
			PagerNumber:  p.Pager,
			FaxNumber:    p.Fax,
			EMailAddress: p.Email,
		},
		Address: fsmAddress{
			City:                p.City,
			StateOrProvinceCode: p.State,
			PostalCode:          p.Zip,
			CountryCode:         p.Country,
		},
	}
	if len(p.Lines) > 0 {
		out.Address.Line1 = p.Lines[0]
	}
	if len(p.Lines) > 1 {
		out.Address.Line2 = p.Lines[1]
	}
	return out
}

func streetLines(line1, line2 string) []string {
	lines := []string{line1}
	if strings.TrimSpace(line2) != "" {
		lines = append(lines, line2)
	}
	return lines
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func fsmDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(fsmDateLayout)
}

func packageCount(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}

// carrierCode resolves the carrier code of a named transaction type.
func carrierCode(op, name string) (string, error) {
	tt, ok := Transaction(name)
	if !ok {
		return "", &shipping.ValidationError{
			Operation: op,
			Field:     shipping.FieldTransactionType,
			Reason:    fmt.Sprintf("unknown transaction type %q", name),
		}
	}
	return tt.CarrierCode, nil
}

// marshalFSM renders an FSM request with the XML declaration.
func marshalFSM(doc any) ([]byte, error) {
	body, err := xml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("fedex: marshal request: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}
