package transport

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"
)

// Config tunes the outbound HTTP client. Zero durations disable the matching
// timeout. A context deadline can still cut a request short.
type Config struct {
	// Total timeout for one request, including reading the reply body.
	Timeout time.Duration `toml:"timeout"`

	DialTimeout     time.Duration `toml:"dial_timeout"`
	KeepAlive       time.Duration `toml:"keep_alive"`
	TLSHandshake    time.Duration `toml:"tls_handshake_timeout"`
	ResponseHeader  time.Duration `toml:"response_header_timeout"`
	IdleConnTimeout time.Duration `toml:"idle_conn_timeout"`

	MaxIdleConnsPerHost int `toml:"max_idle_conns_per_host"`

	// CAFile adds a PEM root to the system pool, for carrier test endpoints
	// behind a private CA.
	CAFile string `toml:"ca_file"`
}

func DefaultConfig() Config {
	return Config{
		Timeout:             30 * time.Second,
		DialTimeout:         5 * time.Second,
		KeepAlive:           30 * time.Second,
		TLSHandshake:        10 * time.Second,
		ResponseHeader:      20 * time.Second,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConnsPerHost: 4,
	}
}

// NewClient builds the http.Client the carrier transport posts through.
func NewClient(cfg Config) (*http.Client, error) {
	dialer := &net.Dialer{
		Timeout:   cfg.DialTimeout,
		KeepAlive: cfg.KeepAlive,
	}

	tr := &http.Transport{
		Proxy:       http.ProxyFromEnvironment,
		DialContext: dialer.DialContext,

		ForceAttemptHTTP2: true,

		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,

		TLSHandshakeTimeout:   cfg.TLSHandshake,
		ResponseHeaderTimeout: cfg.ResponseHeader,
	}
	if strings.TrimSpace(cfg.CAFile) != "" {
		roots, err := loadRoots(cfg.CAFile)
		if err != nil {
			return nil, err
		}
		tr.TLSClientConfig = &tls.Config{RootCAs: roots, MinVersion: tls.VersionTLS12}
	}

	return &http.Client{
		Transport: tr,
		Timeout:   cfg.Timeout,
	}, nil
}

func loadRoots(path string) (*x509.CertPool, error) {
	pemData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("transport: read ca_file: %w", err)
	}
	roots, err := x509.SystemCertPool()
	if err != nil || roots == nil {
		roots = x509.NewCertPool()
	}
	if !roots.AppendCertsFromPEM(pemData) {
		return nil, fmt.Errorf("transport: ca_file %s has no PEM certificates", path)
	}
	return roots, nil
}
