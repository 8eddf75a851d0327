package fedex

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/danmuck/shipping/internal/shipping"
)

// faultPath locates a fault element and its code and message, relative to
// the fault element.
type faultPath struct {
	fault   string
	code    string
	message string
}

var (
	// Web services fault detail, any namespace prefix.
	wsFault = faultPath{
		fault:   "//*[local-name()='fault']",
		code:    ".//*[local-name()='errorCode']",
		message: ".//*[local-name()='message']",
	}
	// Bare SOAP 1.1 fault without vendor detail.
	soapFault = faultPath{
		fault:   "//*[local-name()='Fault']",
		code:    "faultcode",
		message: "faultstring",
	}
	// v12 reply notifications marked ERROR or FAILURE.
	wsNotification = faultPath{
		fault:   "//*[local-name()='Notifications'][*[local-name()='Severity']='ERROR' or *[local-name()='Severity']='FAILURE']",
		code:    "*[local-name()='Code']",
		message: "*[local-name()='Message']",
	}
	// FSM reply error element.
	fsmFault = faultPath{
		fault:   "//Error",
		code:    "Code",
		message: "Message",
	}

	fsmFaults  = []faultPath{wsFault, fsmFault, soapFault}
	shipFaults = []faultPath{wsFault, wsNotification, soapFault}
)

// parseReply parses raw into a document and surfaces the first fault found.
func parseReply(op string, raw []byte, faults []faultPath) (*xmlquery.Node, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, &shipping.CarrierError{
			Carrier:   carrierName,
			Operation: op,
			Text:      fmt.Sprintf("fedex: %s reply is not valid XML: %v", op, err),
		}
	}
	if fault := findFault(op, doc, faults); fault != nil {
		return nil, fault
	}
	return doc, nil
}

func findFault(op string, doc *xmlquery.Node, faults []faultPath) *shipping.CarrierError {
	for _, fp := range faults {
		node := xmlquery.FindOne(doc, fp.fault)
		if node == nil {
			continue
		}
		return shipping.NewFaultError(carrierName, op, nodeText(node, fp.code), nodeText(node, fp.message))
	}
	return nil
}

func nodeText(n *xmlquery.Node, expr string) string {
	child := xmlquery.FindOne(n, expr)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.InnerText())
}

// requireText returns the text of the first node matching expr. A node with
// no text counts as missing.
func requireText(op string, doc *xmlquery.Node, expr, name string) (string, error) {
	node := xmlquery.FindOne(doc, expr)
	if node == nil {
		return "", missingReplyField(op, name)
	}
	text := strings.TrimSpace(node.InnerText())
	if text == "" {
		return "", missingReplyField(op, name)
	}
	return text, nil
}

func requireFloat(op string, doc *xmlquery.Node, expr, name string) (float64, error) {
	text, err := requireText(op, doc, expr, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, &shipping.CarrierError{
			Carrier:   carrierName,
			Operation: op,
			Text:      fmt.Sprintf("fedex: %s reply %s is not a number: %q", op, name, text),
		}
	}
	return v, nil
}

func requireBase64(op string, doc *xmlquery.Node, expr, name string) (string, []byte, error) {
	text, err := requireText(op, doc, expr, name)
	if err != nil {
		return "", nil, err
	}
	compact := strings.Join(strings.Fields(text), "")
	decoded, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return "", nil, &shipping.CarrierError{
			Carrier:   carrierName,
			Operation: op,
			Text:      fmt.Sprintf("fedex: %s reply %s is not base64: %v", op, name, err),
		}
	}
	return compact, decoded, nil
}

func missingReplyField(op, name string) *shipping.CarrierError {
	return &shipping.CarrierError{
		Carrier:   carrierName,
		Operation: op,
		Text:      fmt.Sprintf("fedex: %s reply missing %s", op, name),
	}
}
