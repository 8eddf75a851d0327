package fedex

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/danmuck/shipping/internal/shipping"
	"github.com/danmuck/shipping/internal/testutil/testlog"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type recordingTransport struct {
	mu      sync.Mutex
	replies [][]byte
	err     error
	urls    []string
	bodies  []string
}

func replying(replies ...string) *recordingTransport {
	rt := &recordingTransport{}
	for _, r := range replies {
		rt.replies = append(rt.replies, []byte(r))
	}
	return rt
}

func (rt *recordingTransport) Send(_ context.Context, url string, body []byte) ([]byte, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.urls = append(rt.urls, url)
	rt.bodies = append(rt.bodies, string(body))
	if rt.err != nil {
		return nil, rt.err
	}
	if len(rt.replies) == 0 {
		return nil, errors.New("no reply queued")
	}
	reply := rt.replies[0]
	if len(rt.replies) > 1 {
		rt.replies = rt.replies[1:]
	}
	return reply, nil
}

func (rt *recordingTransport) calls() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return len(rt.bodies)
}

func (rt *recordingTransport) body(i int) string {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.bodies[i]
}

var fixedNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func testClient(rt *recordingTransport) *Client {
	return NewClient(rt, WithClock(func() time.Time { return fixedNow }))
}

func testAccount() shipping.Account {
	return shipping.Account{
		Number:   "510087020",
		Meter:    "118501311",
		Password: "secret",
		Key:      "key123",
		URL:      "https://ws.fedex.test/xml",
	}
}

func rateRequestFixture() shipping.Request {
	return shipping.Request{
		Zip:       "97201",
		SenderZip: "90210",
		Weight:    2.46,
	}
}

func shipmentFixture() shipping.Request {
	return shipping.Request{
		Name:    "Alice Reader",
		Phone:   "(503) 555-0100",
		Email:   "alice@example.test",
		Address: "100 Main St",
		City:    "Portland",
		State:   "Oregon",
		Zip:     "97201",

		SenderCompany: "Acme Supply",
		SenderPhone:   "310.555.0199",
		SenderEmail:   "ship@acme.test",
		SenderAddress: "9 Warehouse Way",
		SenderCity:    "Los Angeles",
		SenderState:   "ca",
		SenderZip:     "90210",

		Weight: 4.04,
	}
}

const rateReply = `<?xml version="1.0" encoding="UTF-8"?>
<FDXRateReply xmlns:api="http://www.fedex.com/fsmapi">
  <ReplyHeader/>
  <EstimatedCharges>
    <CurrencyCode>USD</CurrencyCode>
    <ListCharges><NetCharge>12.45</NetCharge></ListCharges>
    <DiscountedCharges><NetCharge>10.10</NetCharge></DiscountedCharges>
  </EstimatedCharges>
</FDXRateReply>`

const fsmErrorReply = `<?xml version="1.0" encoding="UTF-8"?>
<FDXRateReply>
  <ReplyHeader/>
  <Error><Code>E001</Code><Message>Invalid meter</Message></Error>
</FDXRateReply>`

func labelReply(tracking string, image []byte) string {
	return `<SOAP-ENV:Envelope xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/">
<SOAP-ENV:Body>
<v12:ProcessShipmentReply xmlns:v12="http://fedex.com/ws/ship/v12">
  <v12:HighestSeverity>NOTE</v12:HighestSeverity>
  <v12:Notifications><v12:Severity>NOTE</v12:Severity><v12:Code>0000</v12:Code><v12:Message>Success</v12:Message></v12:Notifications>
  <v12:CompletedShipmentDetail>
    <v12:CompletedPackageDetails>
      <v12:TrackingIds><v12:TrackingIdType>GROUND</v12:TrackingIdType><v12:TrackingNumber>` + tracking + `</v12:TrackingNumber></v12:TrackingIds>
      <v12:Label><v12:ImageType>PNG</v12:ImageType><v12:Parts><v12:Image>` + base64.StdEncoding.EncodeToString(image) + `</v12:Image></v12:Parts></v12:Label>
    </v12:CompletedPackageDetails>
  </v12:CompletedShipmentDetail>
</v12:ProcessShipmentReply>
</SOAP-ENV:Body>
</SOAP-ENV:Envelope>`
}

func TestPriceMissingWeightSendsNothing(t *testing.T) {
	testlog.Start(t)
	rt := replying(rateReply)
	req := rateRequestFixture()
	req.Weight = 0

	_, err := testClient(rt).Price(context.Background(), testAccount(), req)
	var me *shipping.MissingRequiredFieldError
	if !errors.As(err, &me) {
		t.Fatalf("expected MissingRequiredFieldError, got %v", err)
	}
	if me.Field != shipping.FieldWeight || me.Operation != OpPrice {
		t.Fatalf("unexpected missing field: %+v", me)
	}
	if rt.calls() != 0 {
		t.Fatalf("expected no transport call, got %d", rt.calls())
	}
}

func TestRejectedRequestLogsThroughInjectedLogger(t *testing.T) {
	testlog.Start(t)
	level := zerolog.GlobalLevel()
	global := log.Logger
	defer func() {
		zerolog.SetGlobalLevel(level)
		log.Logger = global
	}()
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	var globalOut, injectedOut bytes.Buffer
	log.Logger = zerolog.New(&globalOut)

	req := rateRequestFixture()
	req.Weight = 0
	client := NewClient(replying(rateReply), WithLogger(zerolog.New(&injectedOut)))
	if _, err := client.Price(context.Background(), testAccount(), req); err == nil {
		t.Fatalf("expected missing weight error")
	}
	if globalOut.Len() != 0 {
		t.Fatalf("unexpected global log output: %s", globalOut.String())
	}
	if !strings.Contains(injectedOut.String(), "request rejected") {
		t.Fatalf("expected rejection on injected logger: %s", injectedOut.String())
	}
}

func TestPriceMissingAccountFieldSendsNothing(t *testing.T) {
	testlog.Start(t)
	rt := replying(rateReply)
	acct := testAccount()
	acct.Meter = "  "

	_, err := testClient(rt).Price(context.Background(), acct, rateRequestFixture())
	var me *shipping.MissingRequiredFieldError
	if !errors.As(err, &me) || me.Field != shipping.FieldMeter {
		t.Fatalf("expected missing meter, got %v", err)
	}
	if rt.calls() != 0 {
		t.Fatalf("expected no transport call")
	}
}

func TestPriceAndDiscountPriceReadCharges(t *testing.T) {
	testlog.Start(t)
	rt := replying(rateReply)
	client := testClient(rt)

	list, err := client.Price(context.Background(), testAccount(), rateRequestFixture())
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	if list != 12.45 {
		t.Fatalf("unexpected list charge: %v", list)
	}
	discounted, err := client.DiscountPrice(context.Background(), testAccount(), rateRequestFixture())
	if err != nil {
		t.Fatalf("discount price: %v", err)
	}
	if discounted != 10.10 {
		t.Fatalf("unexpected discounted charge: %v", discounted)
	}
	if rt.urls[0] != "https://ws.fedex.test/xml" {
		t.Fatalf("unexpected url: %q", rt.urls[0])
	}
}

func TestRateRequestDocument(t *testing.T) {
	testlog.Start(t)
	rt := replying(rateReply)
	req := rateRequestFixture()
	req.ShipDate = fixedNow

	if _, err := testClient(rt).Price(context.Background(), testAccount(), req); err != nil {
		t.Fatalf("price: %v", err)
	}
	body := rt.body(0)
	if !strings.HasPrefix(body, "<?xml") {
		t.Fatalf("missing xml declaration: %s", body)
	}
	for _, want := range []string{
		`<FDXRateRequest xmlns:api="http://www.fedex.com/fsmapi"`,
		`xsi:noNamespaceSchemaLocation="FDXRateRequest.xsd"`,
		"<AccountNumber>510087020</AccountNumber><MeterNumber>118501311</MeterNumber><CarrierCode>FDXG</CarrierCode>",
		"<ShipDate>2026-03-02</ShipDate>",
		"<DropoffType>REGULARPICKUP</DropoffType>",
		"<Service>FEDEX_GROUND</Service>",
		"<WeightUnits>LBS</WeightUnits><Weight>2.5</Weight>",
		"<ListRate>true</ListRate>",
		"<OriginAddress><StateOrProvinceCode>CA</StateOrProvinceCode><PostalCode>90210</PostalCode><CountryCode>US</CountryCode></OriginAddress>",
		"<DestinationAddress><StateOrProvinceCode>OR</StateOrProvinceCode><PostalCode>97201</PostalCode>",
		"<Payment><PayorType>SENDER</PayorType></Payment>",
		"<PackageCount>1</PackageCount>",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("rate request missing %q:\n%s", want, body)
		}
	}
}

func TestRateExpressUsesExpressCarrier(t *testing.T) {
	testlog.Start(t)
	rt := replying(rateReply)
	req := rateRequestFixture()
	req.TransactionType = "rate_express"
	req.ServiceType = "priority"

	if _, err := testClient(rt).Price(context.Background(), testAccount(), req); err != nil {
		t.Fatalf("price: %v", err)
	}
	body := rt.body(0)
	if !strings.Contains(body, "<CarrierCode>FDXE</CarrierCode>") || !strings.Contains(body, "<Service>PRIORITY_OVERNIGHT</Service>") {
		t.Fatalf("unexpected express rate request:\n%s", body)
	}
}

func TestPriceUnknownTransactionTypeRejected(t *testing.T) {
	testlog.Start(t)
	rt := replying(rateReply)
	req := rateRequestFixture()
	req.TransactionType = "teleport"

	_, err := testClient(rt).Price(context.Background(), testAccount(), req)
	if !errors.Is(err, shipping.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if rt.calls() != 0 {
		t.Fatalf("expected no transport call")
	}
}

func TestPriceFaultSurfacesCarrierText(t *testing.T) {
	testlog.Start(t)
	rt := replying(fsmErrorReply)

	_, err := testClient(rt).Price(context.Background(), testAccount(), rateRequestFixture())
	if err == nil {
		t.Fatalf("expected error")
	}
	if err.Error() != "Error E001: Invalid meter" {
		t.Fatalf("unexpected error text: %q", err.Error())
	}
	var ce *shipping.CarrierError
	if !errors.As(err, &ce) || ce.Code != "E001" || ce.Operation != OpPrice {
		t.Fatalf("unexpected carrier error: %+v", err)
	}
}

func TestWebServicesFaultDetected(t *testing.T) {
	testlog.Start(t)
	rt := replying(`<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/">
<soapenv:Body><soapenv:Fault>
  <faultcode>soapenv:Server</faultcode><faultstring>Fault</faultstring>
  <detail><con:fault xmlns:con="http://www.bea.com/wli/sb/context">
    <con:errorCode>BEA-380001</con:errorCode><con:reason>Internal</con:reason>
    <con:details><con1:message xmlns:con1="x">Authentication failed</con1:message></con:details>
  </con:fault></detail>
</soapenv:Fault></soapenv:Body></soapenv:Envelope>`)

	_, err := testClient(rt).Price(context.Background(), testAccount(), rateRequestFixture())
	if err == nil || err.Error() != "Error BEA-380001: Authentication failed" {
		t.Fatalf("unexpected fault: %v", err)
	}
}

func TestInvalidReplyIsCarrierError(t *testing.T) {
	testlog.Start(t)
	rt := replying("<FDXRateReply></Broken>")

	_, err := testClient(rt).Price(context.Background(), testAccount(), rateRequestFixture())
	if !errors.Is(err, shipping.ErrCarrier) {
		t.Fatalf("expected carrier error, got %v", err)
	}
	if !strings.Contains(err.Error(), "not valid XML") {
		t.Fatalf("unexpected error text: %q", err.Error())
	}
}

func TestReplyMissingChargeIsCarrierError(t *testing.T) {
	testlog.Start(t)
	rt := replying("<FDXRateReply><ReplyHeader/></FDXRateReply>")

	_, err := testClient(rt).Price(context.Background(), testAccount(), rateRequestFixture())
	if err == nil || err.Error() != "fedex: price reply missing NetCharge" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTransportErrorPropagates(t *testing.T) {
	testlog.Start(t)
	sentinel := errors.New("dial refused")
	rt := &recordingTransport{err: sentinel}

	_, err := testClient(rt).Price(context.Background(), testAccount(), rateRequestFixture())
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestLabelReturnsTrackingAndImage(t *testing.T) {
	testlog.Start(t)
	image := []byte("\x89PNG label bytes")
	rt := replying(labelReply("794958466851", image))

	label, err := testClient(rt).Label(context.Background(), testAccount(), shipmentFixture())
	if err != nil {
		t.Fatalf("label: %v", err)
	}
	if label.TrackingNumber() != "794958466851" {
		t.Fatalf("unexpected tracking number: %q", label.TrackingNumber())
	}
	if !bytes.Equal(label.Image(), image) {
		t.Fatalf("unexpected image: %q", label.Image())
	}
	if label.EncodedImage() != base64.StdEncoding.EncodeToString(image) {
		t.Fatalf("unexpected encoded image: %q", label.EncodedImage())
	}

	copied := label.Image()
	copied[0] = 'X'
	if !bytes.Equal(label.Image(), image) {
		t.Fatalf("label image mutated through copy")
	}

	var buf bytes.Buffer
	if err := label.WriteImage(&buf); err != nil {
		t.Fatalf("write image: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), image) {
		t.Fatalf("unexpected written image: %q", buf.Bytes())
	}
}

func TestLabelRequestDocument(t *testing.T) {
	testlog.Start(t)
	rt := replying(labelReply("794958466851", []byte("img")))
	req := shipmentFixture()
	req.Address2 = "Suite 4"
	req.InvoiceNumber = "INV-77"

	if _, err := testClient(rt).Label(context.Background(), testAccount(), req); err != nil {
		t.Fatalf("label: %v", err)
	}
	body := rt.body(0)
	for _, want := range []string{
		`<SOAP-ENV:Envelope xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/"`,
		"<SOAP-ENV:Body><ProcessShipmentRequest",
		"<UserCredential><Key>key123</Key><Password>secret</Password></UserCredential>",
		"<ClientDetail><AccountNumber>510087020</AccountNumber><MeterNumber>118501311</MeterNumber></ClientDetail>",
		"<Version><ServiceId>ship</ServiceId><Major>12</Major><Intermediate>0</Intermediate><Minor>0</Minor></Version>",
		"<ShipTimestamp>2026-03-02T10:00:00.000Z</ShipTimestamp>",
		"<DropoffType>REGULAR_PICKUP</DropoffType>",
		"<ServiceType>FEDEX_GROUND</ServiceType>",
		"<PackagingType>YOUR_PACKAGING</PackagingType>",
		"<Shipper><Contact><CompanyName>Acme Supply</CompanyName><PhoneNumber>3105550199</PhoneNumber>",
		"<StateOrProvinceCode>CA</StateOrProvinceCode>",
		"<Recipient><Contact><PersonName>Alice Reader</PersonName><PhoneNumber>5035550100</PhoneNumber>",
		"<StreetLines>100 Main St</StreetLines><StreetLines>Suite 4</StreetLines>",
		"<StateOrProvinceCode>OR</StateOrProvinceCode><PostalCode>97201</PostalCode><CountryCode>US</CountryCode><Residential>false</Residential>",
		"<ResponsibleParty><AccountNumber>510087020</AccountNumber><Contact></Contact></ResponsibleParty>",
		"<LabelFormatType>COMMON2D</LabelFormatType><ImageType>PNG</ImageType>",
		"<Weight><Units>LB</Units><Value>4.0</Value></Weight>",
		"<CustomerReferences><CustomerReferenceType>INVOICE_NUMBER</CustomerReferenceType><Value>INV-77</Value></CustomerReferences>",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("label request missing %q:\n%s", want, body)
		}
	}
}

func TestLabelResidentialGroundBecomesHomeDelivery(t *testing.T) {
	testlog.Start(t)
	rt := replying(labelReply("794958466851", []byte("img")))
	req := shipmentFixture()
	req.Residential = true

	if _, err := testClient(rt).Label(context.Background(), testAccount(), req); err != nil {
		t.Fatalf("label: %v", err)
	}
	body := rt.body(0)
	if !strings.Contains(body, "<ServiceType>GROUND_HOME_DELIVERY</ServiceType>") {
		t.Fatalf("expected home delivery:\n%s", body)
	}
	if !strings.Contains(body, "<Residential>true</Residential>") {
		t.Fatalf("expected residential flag:\n%s", body)
	}
	if strings.Contains(body, "CustomerReferences") {
		t.Fatalf("unexpected customer references without invoice number")
	}
}

func TestLabelResidentialExpressKeepsService(t *testing.T) {
	testlog.Start(t)
	req := shipmentFixture()
	req.Residential = true
	req.ServiceType = "2day"
	if got := resolveShipService(req); got != "FEDEX_2_DAY" {
		t.Fatalf("unexpected service: %q", got)
	}
}

func TestLabelIdentityRuleRejectsShortSender(t *testing.T) {
	testlog.Start(t)
	rt := replying(labelReply("794958466851", []byte("img")))
	req := shipmentFixture()
	req.SenderName = "Al"
	req.SenderCompany = "Co"

	_, err := testClient(rt).Label(context.Background(), testAccount(), req)
	var ve *shipping.ValidationError
	if !errors.As(err, &ve) || ve.Field != shipping.FieldSenderName {
		t.Fatalf("expected sender identity error, got %v", err)
	}
	if rt.calls() != 0 {
		t.Fatalf("expected no transport call")
	}
}

func TestLabelRequiresWebServiceCredentials(t *testing.T) {
	testlog.Start(t)
	rt := replying(labelReply("794958466851", []byte("img")))
	acct := testAccount()
	acct.Password = ""

	_, err := testClient(rt).Label(context.Background(), acct, shipmentFixture())
	var me *shipping.MissingRequiredFieldError
	if !errors.As(err, &me) || me.Field != shipping.FieldPassword {
		t.Fatalf("expected missing password, got %v", err)
	}
}

func TestLabelErrorNotificationIsFault(t *testing.T) {
	testlog.Start(t)
	rt := replying(`<SOAP-ENV:Envelope xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/"><SOAP-ENV:Body>
<v12:ProcessShipmentReply xmlns:v12="http://fedex.com/ws/ship/v12">
  <v12:HighestSeverity>ERROR</v12:HighestSeverity>
  <v12:Notifications><v12:Severity>ERROR</v12:Severity><v12:Code>8336</v12:Code><v12:Message>Service type not valid with commitment.</v12:Message></v12:Notifications>
</v12:ProcessShipmentReply></SOAP-ENV:Body></SOAP-ENV:Envelope>`)

	_, err := testClient(rt).Label(context.Background(), testAccount(), shipmentFixture())
	if err == nil || err.Error() != "Error 8336: Service type not valid with commitment." {
		t.Fatalf("unexpected fault: %v", err)
	}
}

func TestLabelMissingImageIsCarrierError(t *testing.T) {
	testlog.Start(t)
	rt := replying(`<v12:ProcessShipmentReply xmlns:v12="http://fedex.com/ws/ship/v12"><v12:TrackingNumber>1</v12:TrackingNumber></v12:ProcessShipmentReply>`)

	_, err := testClient(rt).Label(context.Background(), testAccount(), shipmentFixture())
	if err == nil || err.Error() != "fedex: label reply missing Image" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLabelEmptyReplyFieldsAreCarrierErrors(t *testing.T) {
	testlog.Start(t)
	cases := map[string]string{
		"fedex: label reply missing TrackingNumber": labelReply("", []byte{}),
		"fedex: label reply missing Image":          labelReply("794958466851", []byte{}),
	}
	for want, reply := range cases {
		label, err := testClient(replying(reply)).Label(context.Background(), testAccount(), shipmentFixture())
		if !errors.Is(err, shipping.ErrCarrier) || err.Error() != want {
			t.Fatalf("unexpected error: %v (want %q)", err, want)
		}
		if label.TrackingNumber() != "" || len(label.Image()) != 0 {
			t.Fatalf("unexpected label on error: %q", label.TrackingNumber())
		}
	}
}

const emailLabelReply = `<?xml version="1.0" encoding="UTF-8"?>
<FDXEmailLabelReply>
  <ReplyHeader/>
  <URL>https://www.fedex.test/label/abc</URL>
  <UserID>usr-1</UserID>
  <Password>pw-1</Password>
  <Package><TrackingNumber>470012923511</TrackingNumber></Package>
</FDXEmailLabelReply>`

func TestReturnLabelParsesReply(t *testing.T) {
	testlog.Start(t)
	rt := replying(emailLabelReply)

	label, err := testClient(rt).ReturnLabel(context.Background(), testAccount(), shipmentFixture())
	if err != nil {
		t.Fatalf("return label: %v", err)
	}
	if label.URL() != "https://www.fedex.test/label/abc" || label.UserID() != "usr-1" ||
		label.Password() != "pw-1" || label.TrackingNumber() != "470012923511" {
		t.Fatalf("unexpected email label: %+v", label)
	}
}

func TestReturnLabelRequestDocument(t *testing.T) {
	testlog.Start(t)
	rt := replying(emailLabelReply)
	req := shipmentFixture()
	req.Message = "Please return the unit"
	req.RecipientShipAlert = true
	req.OtherEmail = "ops@acme.test"

	if _, err := testClient(rt).ReturnLabel(context.Background(), testAccount(), req); err != nil {
		t.Fatalf("return label: %v", err)
	}
	body := rt.body(0)
	for _, want := range []string{
		"<FDXEmailLabelRequest",
		"<CarrierCode>FDXG</CarrierCode>",
		"<URLExpirationDate>2026-03-03</URLExpirationDate>",
		"<URLNotificationE-MailAddress>ship@acme.test</URLNotificationE-MailAddress>",
		"<MerchantPhoneNumber>3105550199</MerchantPhoneNumber>",
		"<Origin><Contact><CompanyName>Acme Supply</CompanyName>",
		"<Destination><Contact><PersonName>Alice Reader</PersonName>",
		"<E-MailAddress>alice@example.test</E-MailAddress>",
		"<Weight>4.0</Weight><DeclaredValue>99.00</DeclaredValue>",
		"<ShipAlertOptionalMessage>Please return the unit</ShipAlertOptionalMessage>",
		"<Recipient><ShipAlert>true</ShipAlert><LanguageCode>EN</LanguageCode></Recipient>",
		"<Other><E-MailAddress>ops@acme.test</E-MailAddress>",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("return label request missing %q:\n%s", want, body)
		}
	}
	if strings.Contains(body, "<RMA>") {
		t.Fatalf("unexpected RMA block")
	}
}

func TestReturnLabelDeclaredValueRounded(t *testing.T) {
	testlog.Start(t)
	rt := replying(emailLabelReply)
	req := shipmentFixture()
	req.DeclaredValue = 19.995

	if _, err := testClient(rt).ReturnLabel(context.Background(), testAccount(), req); err != nil {
		t.Fatalf("return label: %v", err)
	}
	if !strings.Contains(rt.body(0), "<DeclaredValue>20.00</DeclaredValue>") {
		t.Fatalf("expected rounded declared value:\n%s", rt.body(0))
	}
	if strings.Contains(rt.body(0), "SpecialServices") {
		t.Fatalf("unexpected special services without a message")
	}
}

func TestVoidSendsTrackingNumber(t *testing.T) {
	testlog.Start(t)
	rt := replying("<FDXShipDeleteReply><ReplyHeader/></FDXShipDeleteReply>")
	req := shipping.Request{TransactionType: "cancel_express"}

	if err := testClient(rt).Void(context.Background(), testAccount(), req, "794958466851"); err != nil {
		t.Fatalf("void: %v", err)
	}
	body := rt.body(0)
	if !strings.Contains(body, "<CarrierCode>FDXE</CarrierCode>") || !strings.Contains(body, "<TrackingNumber>794958466851</TrackingNumber>") {
		t.Fatalf("unexpected void request:\n%s", body)
	}
}

func TestVoidRequiresTrackingNumber(t *testing.T) {
	testlog.Start(t)
	rt := replying("<FDXShipDeleteReply/>")

	err := testClient(rt).Void(context.Background(), testAccount(), shipping.Request{}, " ")
	var me *shipping.MissingRequiredFieldError
	if !errors.As(err, &me) || me.Field != shipping.FieldTrackingNumber {
		t.Fatalf("expected missing tracking number, got %v", err)
	}
	if rt.calls() != 0 {
		t.Fatalf("expected no transport call")
	}
}

func TestVoidFault(t *testing.T) {
	testlog.Start(t)
	rt := replying("<FDXShipDeleteReply><Error><Code>F123</Code><Message>Shipment already deleted</Message></Error></FDXShipDeleteReply>")

	err := testClient(rt).Void(context.Background(), testAccount(), shipping.Request{}, "794958466851")
	if err == nil || err.Error() != "Error F123: Shipment already deleted" {
		t.Fatalf("unexpected void error: %v", err)
	}
}

const groundServicesReply = `<FDXRateAvailableServicesReply>
  <Entry>
    <Service>FEDEX_GROUND</Service><Packaging>YOURPACKAGING</Packaging>
    <DeliveryDate>2026-03-05</DeliveryDate><DeliveryDay>THU</DeliveryDay>
    <EstimatedCharges><CurrencyCode>USD</CurrencyCode>
      <ListCharges><NetCharge>12.45</NetCharge></ListCharges>
      <DiscountedCharges><NetCharge>10.10</NetCharge></DiscountedCharges>
    </EstimatedCharges>
  </Entry>
</FDXRateAvailableServicesReply>`

const expressServicesReply = `<FDXRateAvailableServicesReply>
  <Entry>
    <Service>PRIORITY_OVERNIGHT</Service><DeliveryDay>TUE</DeliveryDay>
    <EstimatedCharges><ListCharges><NetCharge>48.20</NetCharge></ListCharges></EstimatedCharges>
  </Entry>
  <Entry>
    <Service>FEDEX_2_DAY</Service><DeliveryDay>WED</DeliveryDay>
    <EstimatedCharges><ListCharges><NetCharge>22.00</NetCharge></ListCharges></EstimatedCharges>
  </Entry>
</FDXRateAvailableServicesReply>`

func TestAvailableServicesGroundThenExpress(t *testing.T) {
	testlog.Start(t)
	rt := replying(groundServicesReply, expressServicesReply)
	req := rateRequestFixture()
	req.State = "oregon"

	services, err := testClient(rt).AvailableServices(context.Background(), testAccount(), req)
	if err != nil {
		t.Fatalf("available services: %v", err)
	}
	if rt.calls() != 2 {
		t.Fatalf("expected two requests, got %d", rt.calls())
	}
	if !strings.Contains(rt.body(0), "<CarrierCode>FDXG</CarrierCode>") || !strings.Contains(rt.body(1), "<CarrierCode>FDXE</CarrierCode>") {
		t.Fatalf("unexpected carrier order:\n%s\n%s", rt.body(0), rt.body(1))
	}
	if !strings.Contains(rt.body(0), "<StateOrProvince>OR</StateOrProvince>") || !strings.Contains(rt.body(0), "<ListRate>false</ListRate>") {
		t.Fatalf("unexpected services request:\n%s", rt.body(0))
	}
	if len(services) != 3 {
		t.Fatalf("unexpected services: %+v", services)
	}
	want := []string{"FEDEX_GROUND", "PRIORITY_OVERNIGHT", "FEDEX_2_DAY"}
	for i, svc := range services {
		if svc.Service != want[i] || svc.Carrier != "fedex" {
			t.Fatalf("unexpected service %d: %+v", i, svc)
		}
	}
	if services[0].NetCharge != 10.10 || services[0].DeliveryDate != "2026-03-05" || services[0].CurrencyCode != "USD" {
		t.Fatalf("unexpected ground entry: %+v", services[0])
	}
	if services[1].NetCharge != 48.20 {
		t.Fatalf("expected list charge fallback: %+v", services[1])
	}
}

func TestAvailableServicesFaultStopsAfterGround(t *testing.T) {
	testlog.Start(t)
	rt := replying(fsmErrorReply)

	_, err := testClient(rt).AvailableServices(context.Background(), testAccount(), rateRequestFixture())
	if !errors.Is(err, shipping.ErrCarrier) {
		t.Fatalf("expected carrier error, got %v", err)
	}
	if rt.calls() != 1 {
		t.Fatalf("expected one request, got %d", rt.calls())
	}
}

func TestExpressServiceAvailability(t *testing.T) {
	testlog.Start(t)
	rt := replying(`<FDXServiceAvailabilityReply>
  <Entry><Service>PRIORITY_OVERNIGHT</Service><DeliveryDate>2026-03-03</DeliveryDate><DeliveryDay>TUE</DeliveryDay><DestinationStationID>PDXA</DestinationStationID></Entry>
</FDXServiceAvailabilityReply>`)
	req := shipping.Request{Zip: "97201", SenderZip: "90210"}

	services, err := testClient(rt).ExpressServiceAvailability(context.Background(), testAccount(), req)
	if err != nil {
		t.Fatalf("express availability: %v", err)
	}
	if len(services) != 1 || services[0].Station != "PDXA" || services[0].DeliveryDay != "TUE" {
		t.Fatalf("unexpected services: %+v", services)
	}
	body := rt.body(0)
	if !strings.Contains(body, "<OriginAddress><PostalCode>90210</PostalCode><CountryCode>US</CountryCode></OriginAddress>") ||
		!strings.Contains(body, "<PackageCount>1</PackageCount>") {
		t.Fatalf("unexpected availability request:\n%s", body)
	}
	if strings.Contains(body, "CarrierCode") {
		t.Fatalf("unexpected carrier code in availability request")
	}
}

func TestRegisterReturnsMeterNumber(t *testing.T) {
	testlog.Start(t)
	rt := replying("<FDXSubscriptionReply><ReplyHeader/><MeterNumber>118501311</MeterNumber></FDXSubscriptionReply>")
	acct := testAccount()
	acct.Meter = ""
	req := shipmentFixture()
	req.Company = "Reader Books"

	meter, err := testClient(rt).Register(context.Background(), acct, req)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if meter != "118501311" {
		t.Fatalf("unexpected meter: %q", meter)
	}
	if acct.WithMeter(meter).Meter != meter {
		t.Fatalf("unexpected account meter")
	}
	body := rt.body(0)
	for _, want := range []string{
		"<FDXSubscriptionRequest",
		"<RequestHeader><AccountNumber>510087020</AccountNumber></RequestHeader>",
		"<Contact><PersonName>Alice Reader</PersonName><CompanyName>Reader Books</CompanyName><PhoneNumber>5035550100</PhoneNumber><E-MailAddress>alice@example.test</E-MailAddress></Contact>",
		"<StateOrProvinceCode>OR</StateOrProvinceCode>",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("subscription request missing %q:\n%s", want, body)
		}
	}
}

func TestRegisterRequiresCompany(t *testing.T) {
	testlog.Start(t)
	rt := replying("<FDXSubscriptionReply/>")

	_, err := testClient(rt).Register(context.Background(), testAccount(), shipmentFixture())
	var me *shipping.MissingRequiredFieldError
	if !errors.As(err, &me) || me.Field != shipping.FieldCompany {
		t.Fatalf("expected missing company, got %v", err)
	}
}

func TestCodeLookups(t *testing.T) {
	testlog.Start(t)
	if code, ok := ServiceCode("freight_priority"); !ok || code != "FEDEX_FREIGHT_PROIRITY" {
		t.Fatalf("unexpected service code: %q", code)
	}
	if code, ok := DropoffCode("business_service_center"); !ok || code != "BUSINESSSERVICECENTER" {
		t.Fatalf("unexpected dropoff code: %q", code)
	}
	if code, ok := PaymentCode("third_party"); !ok || code != "THIRDPARTY" {
		t.Fatalf("unexpected payment code: %q", code)
	}
	if code, ok := PackageCode("fedex_pak"); !ok || code != "FEDEX_PAK" {
		t.Fatalf("unexpected package code: %q", code)
	}
	tt, ok := Transaction("cancel_ground")
	if !ok || tt.Code != "023" || tt.CarrierCode != "FDXG" {
		t.Fatalf("unexpected transaction: %+v", tt)
	}
	if _, ok := ServiceCode("teleport"); ok {
		t.Fatalf("expected unknown service")
	}
}
