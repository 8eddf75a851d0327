package shipping

import (
	"strconv"
	"strings"
	"time"
)

// Field names a request or account value, using the snake_case names callers
// see in errors and config files.
type Field string

const (
	FieldName       Field = "name"
	FieldCompany    Field = "company"
	FieldDepartment Field = "department"
	FieldPhone      Field = "phone"
	FieldPager      Field = "pager"
	FieldFax        Field = "fax"
	FieldEmail      Field = "email"
	FieldAddress    Field = "address"
	FieldAddress2   Field = "address2"
	FieldCity       Field = "city"
	FieldState      Field = "state"
	FieldZip        Field = "zip"
	FieldCountry    Field = "country"

	FieldSenderName       Field = "sender_name"
	FieldSenderCompany    Field = "sender_company"
	FieldSenderDepartment Field = "sender_department"
	FieldSenderPhone      Field = "sender_phone"
	FieldSenderPager      Field = "sender_pager"
	FieldSenderFax        Field = "sender_fax"
	FieldSenderEmail      Field = "sender_email"
	FieldSenderAddress    Field = "sender_address"
	FieldSenderAddress2   Field = "sender_address2"
	FieldSenderCity       Field = "sender_city"
	FieldSenderState      Field = "sender_state"
	FieldSenderZip        Field = "sender_zip"
	FieldSenderCountry    Field = "sender_country"

	FieldWeight          Field = "weight"
	FieldDeclaredValue   Field = "declared_value"
	FieldServiceType     Field = "service_type"
	FieldPackagingType   Field = "packaging_type"
	FieldDropoffType     Field = "dropoff_type"
	FieldPayType         Field = "pay_type"
	FieldTransactionType Field = "transaction_type"
	FieldShipDate        Field = "ship_date"
	FieldTrackingNumber  Field = "tracking_number"

	FieldAccount  Field = "fedex_account"
	FieldMeter    Field = "fedex_meter"
	FieldPassword Field = "fedex_password"
	FieldKey      Field = "fedex_key"
	FieldURL      Field = "fedex_url"
)

// FieldSet holds the non-blank values of a request and its account.
type FieldSet map[Field]string

// Has reports whether f carries a non-blank value.
func (fs FieldSet) Has(f Field) bool {
	_, ok := fs[f]
	return ok
}

// Merge returns a new set with the entries of both sets, other winning.
func (fs FieldSet) Merge(other FieldSet) FieldSet {
	out := make(FieldSet, len(fs)+len(other))
	for k, v := range fs {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

func (fs FieldSet) put(f Field, v string) {
	if strings.TrimSpace(v) == "" {
		return
	}
	fs[f] = v
}

// Request is the flat shipment field set every operation reads from. Each
// operation requires its own subset.
type Request struct {
	Name       string `toml:"name" json:"name,omitempty"`
	Company    string `toml:"company" json:"company,omitempty"`
	Department string `toml:"department" json:"department,omitempty"`
	Phone      string `toml:"phone" json:"phone,omitempty"`
	Pager      string `toml:"pager" json:"pager,omitempty"`
	Fax        string `toml:"fax" json:"fax,omitempty"`
	Email      string `toml:"email" json:"email,omitempty"`
	Address    string `toml:"address" json:"address,omitempty"`
	Address2   string `toml:"address2" json:"address2,omitempty"`
	City       string `toml:"city" json:"city,omitempty"`
	State      string `toml:"state" json:"state,omitempty"`
	Zip        string `toml:"zip" json:"zip,omitempty"`
	Country    string `toml:"country" json:"country,omitempty"`

	SenderName       string `toml:"sender_name" json:"sender_name,omitempty"`
	SenderCompany    string `toml:"sender_company" json:"sender_company,omitempty"`
	SenderDepartment string `toml:"sender_department" json:"sender_department,omitempty"`
	SenderPhone      string `toml:"sender_phone" json:"sender_phone,omitempty"`
	SenderPager      string `toml:"sender_pager" json:"sender_pager,omitempty"`
	SenderFax        string `toml:"sender_fax" json:"sender_fax,omitempty"`
	SenderEmail      string `toml:"sender_email" json:"sender_email,omitempty"`
	SenderAddress    string `toml:"sender_address" json:"sender_address,omitempty"`
	SenderAddress2   string `toml:"sender_address2" json:"sender_address2,omitempty"`
	SenderCity       string `toml:"sender_city" json:"sender_city,omitempty"`
	SenderState      string `toml:"sender_state" json:"sender_state,omitempty"`
	SenderZip        string `toml:"sender_zip" json:"sender_zip,omitempty"`
	SenderCountry    string `toml:"sender_country" json:"sender_country,omitempty"`

	Weight          float64   `toml:"weight" json:"weight,omitempty"`
	WeightUnits     string    `toml:"weight_units" json:"weight_units,omitempty"`
	DeclaredValue   float64   `toml:"declared_value" json:"declared_value,omitempty"`
	CurrencyCode    string    `toml:"currency_code" json:"currency_code,omitempty"`
	ServiceType     string    `toml:"service_type" json:"service_type,omitempty"`
	PackagingType   string    `toml:"packaging_type" json:"packaging_type,omitempty"`
	DropoffType     string    `toml:"dropoff_type" json:"dropoff_type,omitempty"`
	PayType         string    `toml:"pay_type" json:"pay_type,omitempty"`
	TransactionType string    `toml:"transaction_type" json:"transaction_type,omitempty"`
	ShipDate        time.Time `toml:"ship_date" json:"ship_date,omitempty"`
	PackageTotal    int       `toml:"package_total" json:"package_total,omitempty"`
	Residential     bool      `toml:"residential" json:"residential,omitempty"`

	LabelType             string `toml:"label_type" json:"label_type,omitempty"`
	ImageType             string `toml:"image_type" json:"image_type,omitempty"`
	InvoiceNumber         string `toml:"invoice_number" json:"invoice_number,omitempty"`
	CustomerReference     string `toml:"customer_reference" json:"customer_reference,omitempty"`
	Description           string `toml:"description" json:"description,omitempty"`
	PayorAccountNumber    string `toml:"payor_account_number" json:"payor_account_number,omitempty"`
	PayorCountryCode      string `toml:"payor_country_code" json:"payor_country_code,omitempty"`
	RMANumber             string `toml:"rma_number" json:"rma_number,omitempty"`
	TransactionIdentifier string `toml:"transaction_identifier" json:"transaction_identifier,omitempty"`

	Message            string `toml:"message" json:"message,omitempty"`
	ShipperShipAlert   bool   `toml:"shipper_ship_alert" json:"shipper_ship_alert,omitempty"`
	ShipperLanguage    string `toml:"shipper_language" json:"shipper_language,omitempty"`
	RecipientShipAlert bool   `toml:"recipient_ship_alert" json:"recipient_ship_alert,omitempty"`
	RecipientLanguage  string `toml:"recipient_language" json:"recipient_language,omitempty"`
	OtherEmail         string `toml:"other_email" json:"other_email,omitempty"`
	OtherShipAlert     bool   `toml:"other_ship_alert" json:"other_ship_alert,omitempty"`
	OtherLanguage      string `toml:"other_language" json:"other_language,omitempty"`
}

// Fields returns the validated subset of r. Zero numbers and dates are blank.
func (r Request) Fields() FieldSet {
	fs := FieldSet{}
	fs.put(FieldName, r.Name)
	fs.put(FieldCompany, r.Company)
	fs.put(FieldDepartment, r.Department)
	fs.put(FieldPhone, r.Phone)
	fs.put(FieldPager, r.Pager)
	fs.put(FieldFax, r.Fax)
	fs.put(FieldEmail, r.Email)
	fs.put(FieldAddress, r.Address)
	fs.put(FieldAddress2, r.Address2)
	fs.put(FieldCity, r.City)
	fs.put(FieldState, r.State)
	fs.put(FieldZip, r.Zip)
	fs.put(FieldCountry, r.Country)

	fs.put(FieldSenderName, r.SenderName)
	fs.put(FieldSenderCompany, r.SenderCompany)
	fs.put(FieldSenderDepartment, r.SenderDepartment)
	fs.put(FieldSenderPhone, r.SenderPhone)
	fs.put(FieldSenderPager, r.SenderPager)
	fs.put(FieldSenderFax, r.SenderFax)
	fs.put(FieldSenderEmail, r.SenderEmail)
	fs.put(FieldSenderAddress, r.SenderAddress)
	fs.put(FieldSenderAddress2, r.SenderAddress2)
	fs.put(FieldSenderCity, r.SenderCity)
	fs.put(FieldSenderState, r.SenderState)
	fs.put(FieldSenderZip, r.SenderZip)
	fs.put(FieldSenderCountry, r.SenderCountry)

	if r.Weight != 0 {
		fs.put(FieldWeight, strconv.FormatFloat(r.Weight, 'f', -1, 64))
	}
	if r.DeclaredValue != 0 {
		fs.put(FieldDeclaredValue, strconv.FormatFloat(r.DeclaredValue, 'f', -1, 64))
	}
	fs.put(FieldServiceType, r.ServiceType)
	fs.put(FieldPackagingType, r.PackagingType)
	fs.put(FieldDropoffType, r.DropoffType)
	fs.put(FieldPayType, r.PayType)
	fs.put(FieldTransactionType, r.TransactionType)
	if !r.ShipDate.IsZero() {
		fs.put(FieldShipDate, r.ShipDate.Format(time.DateOnly))
	}
	return fs
}
