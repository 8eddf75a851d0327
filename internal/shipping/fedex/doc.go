// Package fedex builds FedEx request documents, sends them through a
// shipping.Transport and parses the replies.
//
// Ownership boundary:
// - FSM and v12 web services request documents
// - vendor code tables
// - reply field extraction and fault detection
//
// Operation order:
// - validate -> build -> send -> parse
//
// Nothing is sent when validation or building fails. Element order inside
// each document struct is the order the vendor schema requires.
package fedex
