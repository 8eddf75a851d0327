// Package shipping owns the carrier-neutral contract shared by carrier adapters.
//
// Ownership boundary:
// - shipment request and account credential shapes
// - required-field validation and normalization rules
// - state and zip lookup tables
// - error taxonomy and the transport interface
//
// Carrier packages build and parse their own documents; nothing here knows a
// vendor schema except the service availability factory.
package shipping
