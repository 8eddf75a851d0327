// Package gateway serves the carrier operations as a JSON HTTP API.
//
// Ownership boundary:
// - route table and JSON request/response shapes
// - error to status mapping (400 invalid, 502 carrier, 500 other)
// - gin middleware stack (recovery, request id, logs, metrics, CORS)
package gateway
