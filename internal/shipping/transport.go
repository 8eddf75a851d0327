package shipping

import "context"

// Transport delivers one request document to a carrier endpoint and returns
// the raw reply body. Retries and connection policy belong to implementations.
type Transport interface {
	Send(ctx context.Context, url string, body []byte) ([]byte, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, url string, body []byte) ([]byte, error)

func (f TransportFunc) Send(ctx context.Context, url string, body []byte) ([]byte, error) {
	return f(ctx, url, body)
}
