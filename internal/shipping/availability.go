package shipping

import (
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
)

// ServiceAvailability is one service a carrier offers between two points.
type ServiceAvailability struct {
	Carrier      string  `json:"carrier"`
	Service      string  `json:"service"`
	Packaging    string  `json:"packaging,omitempty"`
	DeliveryDate string  `json:"delivery_date,omitempty"`
	DeliveryDay  string  `json:"delivery_day,omitempty"`
	Station      string  `json:"destination_station,omitempty"`
	CurrencyCode string  `json:"currency_code,omitempty"`
	NetCharge    float64 `json:"net_charge,omitempty"`
}

// FedExServiceAvailability builds a record from one FedEx reply Entry element.
func FedExServiceAvailability(entry *xmlquery.Node) ServiceAvailability {
	sa := ServiceAvailability{
		Carrier:      "fedex",
		Service:      childText(entry, "Service"),
		Packaging:    childText(entry, "Packaging"),
		DeliveryDate: childText(entry, "DeliveryDate"),
		DeliveryDay:  childText(entry, "DeliveryDay"),
		Station:      childText(entry, "DestinationStationID"),
		CurrencyCode: childText(entry, "EstimatedCharges/CurrencyCode"),
	}
	charge := childText(entry, "EstimatedCharges/DiscountedCharges/NetCharge")
	if charge == "" {
		charge = childText(entry, "EstimatedCharges/ListCharges/NetCharge")
	}
	if v, err := strconv.ParseFloat(charge, 64); err == nil {
		sa.NetCharge = v
	}
	return sa
}

func childText(n *xmlquery.Node, expr string) string {
	if n == nil {
		return ""
	}
	child := xmlquery.FindOne(n, expr)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.InnerText())
}
