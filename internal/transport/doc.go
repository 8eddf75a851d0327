// Package transport is the default HTTP implementation of shipping.Transport.
//
// Ownership boundary:
// - outbound http.Client tuning (dial, TLS, header timeouts)
// - POSTing request documents and returning reply bodies
// - transport metrics
//
// Retries are not attempted.
package transport
