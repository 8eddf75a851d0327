package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/shipping/internal/gateway"
	"github.com/danmuck/shipping/internal/shipping"
	"github.com/danmuck/shipping/internal/transport"
)

// Environment overrides, applied after the config file.
const (
	envAccount  = "FEDEX_ACCOUNT"
	envMeter    = "FEDEX_METER"
	envPassword = "FEDEX_PASSWORD"
	envKey      = "FEDEX_KEY"
	envURL      = "FEDEX_URL"
)

type config struct {
	Account shipping.Account
	HTTP    transport.Config
	Gateway gateway.Config
}

type fileConfig struct {
	FedEx   shipping.Account `toml:"fedex"`
	HTTP    httpSection      `toml:"http"`
	Gateway gateway.Config   `toml:"gateway"`
}

type httpSection struct {
	Timeout               string `toml:"timeout"`
	DialTimeout           string `toml:"dial_timeout"`
	KeepAlive             string `toml:"keep_alive"`
	TLSHandshakeTimeout   string `toml:"tls_handshake_timeout"`
	ResponseHeaderTimeout string `toml:"response_header_timeout"`
	IdleConnTimeout       string `toml:"idle_conn_timeout"`
	MaxIdleConnsPerHost   int    `toml:"max_idle_conns_per_host"`
	CAFile                string `toml:"ca_file"`
}

func defaultConfig() config {
	return config{
		HTTP:    transport.DefaultConfig(),
		Gateway: gateway.DefaultConfig(),
	}
}

// loadConfig layers the file at path (when set) and then the environment
// over the defaults.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if strings.TrimSpace(path) != "" {
		if err := applyFile(&cfg, path); err != nil {
			return config{}, err
		}
	}
	applyEnv(&cfg, os.LookupEnv)
	return cfg, nil
}

func applyFile(cfg *config, path string) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load shipctl config: %w", err)
	}

	if meta.IsDefined("fedex", "account") {
		cfg.Account.Number = strings.TrimSpace(raw.FedEx.Number)
	}
	if meta.IsDefined("fedex", "meter") {
		cfg.Account.Meter = strings.TrimSpace(raw.FedEx.Meter)
	}
	if meta.IsDefined("fedex", "password") {
		cfg.Account.Password = raw.FedEx.Password
	}
	if meta.IsDefined("fedex", "key") {
		cfg.Account.Key = strings.TrimSpace(raw.FedEx.Key)
	}
	if meta.IsDefined("fedex", "url") {
		cfg.Account.URL = strings.TrimSpace(raw.FedEx.URL)
	}

	durations := []struct {
		key string
		raw string
		dst *time.Duration
	}{
		{"timeout", raw.HTTP.Timeout, &cfg.HTTP.Timeout},
		{"dial_timeout", raw.HTTP.DialTimeout, &cfg.HTTP.DialTimeout},
		{"keep_alive", raw.HTTP.KeepAlive, &cfg.HTTP.KeepAlive},
		{"tls_handshake_timeout", raw.HTTP.TLSHandshakeTimeout, &cfg.HTTP.TLSHandshake},
		{"response_header_timeout", raw.HTTP.ResponseHeaderTimeout, &cfg.HTTP.ResponseHeader},
		{"idle_conn_timeout", raw.HTTP.IdleConnTimeout, &cfg.HTTP.IdleConnTimeout},
	}
	for _, d := range durations {
		if !meta.IsDefined("http", d.key) {
			continue
		}
		v, err := time.ParseDuration(strings.TrimSpace(d.raw))
		if err != nil {
			return fmt.Errorf("parse http.%s: %w", d.key, err)
		}
		*d.dst = v
	}

	if meta.IsDefined("http", "max_idle_conns_per_host") {
		if raw.HTTP.MaxIdleConnsPerHost < 0 {
			return fmt.Errorf("parse http.max_idle_conns_per_host: must not be negative")
		}
		cfg.HTTP.MaxIdleConnsPerHost = raw.HTTP.MaxIdleConnsPerHost
	}
	if meta.IsDefined("http", "ca_file") {
		cfg.HTTP.CAFile = strings.TrimSpace(raw.HTTP.CAFile)
	}

	if meta.IsDefined("gateway", "addr") {
		if addr := strings.TrimSpace(raw.Gateway.Addr); addr != "" {
			cfg.Gateway.Addr = addr
		}
	}
	if meta.IsDefined("gateway", "cors_origins") {
		cfg.Gateway.CORSOrigins = normalizeOrigins(raw.Gateway.CORSOrigins)
	}
	return nil
}

func applyEnv(cfg *config, lookup func(string) (string, bool)) {
	overrides := []struct {
		key string
		dst *string
	}{
		{envAccount, &cfg.Account.Number},
		{envMeter, &cfg.Account.Meter},
		{envPassword, &cfg.Account.Password},
		{envKey, &cfg.Account.Key},
		{envURL, &cfg.Account.URL},
	}
	for _, o := range overrides {
		if v, ok := lookup(o.key); ok && strings.TrimSpace(v) != "" {
			*o.dst = strings.TrimSpace(v)
		}
	}
}

func normalizeOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, origin := range in {
		v := strings.TrimSpace(origin)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}

// loadRequest decodes a shipment request file.
func loadRequest(path string) (shipping.Request, error) {
	var req shipping.Request
	if strings.TrimSpace(path) == "" {
		return req, nil
	}
	if _, err := toml.DecodeFile(path, &req); err != nil {
		return shipping.Request{}, fmt.Errorf("load request: %w", err)
	}
	return req, nil
}
