package fedex

// Vendor enumerations. The literal values are owned by FedEx, including the
// misspelled freight codes, and must not be corrected.

var serviceTypes = map[string]string{
	"priority":           "PRIORITY_OVERNIGHT",
	"standard_overnight": "STANDARD_OVERNIGHT",
	"2day":               "FEDEX_2_DAY",
	"2day_am":            "FEDEX_2_DAY_AM",
	"express_saver":      "FEDEX_EXPRESS_SAVER",
	"first_freight":      "FEDEX_FIRST_FREIGHT",
	"freight_priority":   "FEDEX_FREIGHT_PROIRITY",
	"freight_economy":    "FEDEX_FREGHT_ECONOMY",
	"first_overnight":    "FIRST_OVERNIGHT",
	"ground_service":     "FEDEX_GROUND",
	"home_delivery":      "GROUND_HOME_DELIVERY",
}

var packageTypes = map[string]string{
	"fedex_envelope": "FEDEX_ENVELOPE",
	"fedex_pak":      "FEDEX_PAK",
	"fedex_box":      "FEDEX_BOX",
	"fedex_tube":     "FEDEX_TUBE",
	"your_packaging": "YOUR_PACKAGING",
}

var dropoffTypes = map[string]string{
	"regular_pickup":          "REGULARPICKUP",
	"request_courier":         "REQUESTCOURIER",
	"dropbox":                 "DROPBOX",
	"business_service_center": "BUSINESSSERVICECENTER",
	"station":                 "STATION",
}

// shipDropoffTypes spells the dropoff codes the way the v12 ship schema does.
var shipDropoffTypes = map[string]string{
	"regular_pickup":          "REGULAR_PICKUP",
	"request_courier":         "REQUEST_COURIER",
	"dropbox":                 "DROP_BOX",
	"business_service_center": "BUSINESS_SERVICE_CENTER",
	"station":                 "STATION",
}

var paymentTypes = map[string]string{
	"sender":      "SENDER",
	"recipient":   "RECIPIENT",
	"third_party": "THIRDPARTY",
	"collect":     "COLLECT",
}

// TransactionType pairs the FSM numeric transaction code with a carrier code.
type TransactionType struct {
	Code        string
	CarrierCode string
}

var transactionTypes = map[string]TransactionType{
	"rate_ground":        {"022", "FDXG"},
	"rate_express":       {"022", "FDXE"},
	"rate_services":      {"025", ""},
	"ship_ground":        {"021", "FDXG"},
	"ship_express":       {"021", "FDXE"},
	"cancel_express":     {"023", "FDXE"},
	"cancel_ground":      {"023", "FDXG"},
	"close_ground":       {"007", "FDXG"},
	"service_available":  {"019", "FDXE"},
	"fedex_locater":      {"410", ""},
	"subscribe":          {"211", ""},
	"sig_proof_delivery": {"402", ""},
	"track":              {"405", ""},
	"ref_track":          {"403", ""},
}

// Carrier codes for rate available services requests.
const (
	carrierGround  = "FDXG"
	carrierExpress = "FDXE"
)

const (
	serviceGround       = "ground_service"
	serviceHomeDelivery = "home_delivery"
)

func lookup(table map[string]string, key, fallback string) string {
	if code, ok := table[key]; ok {
		return code
	}
	return fallback
}

// ServiceCode returns the vendor code for an internal service name.
func ServiceCode(name string) (string, bool) {
	code, ok := serviceTypes[name]
	return code, ok
}

// PackageCode returns the vendor code for an internal packaging name.
func PackageCode(name string) (string, bool) {
	code, ok := packageTypes[name]
	return code, ok
}

// DropoffCode returns the FSM vendor code for an internal dropoff name.
func DropoffCode(name string) (string, bool) {
	code, ok := dropoffTypes[name]
	return code, ok
}

// PaymentCode returns the vendor code for an internal payment name.
func PaymentCode(name string) (string, bool) {
	code, ok := paymentTypes[name]
	return code, ok
}

// Transaction returns the code pair of a named transaction type.
func Transaction(name string) (TransactionType, bool) {
	tt, ok := transactionTypes[name]
	return tt, ok
}
