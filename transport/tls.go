package transport

import (
	"crypto/tls"
	"net/http"
	"time"

	"github.com/goliatone/go-looker/core"
	_ "golang.org/x/crypto/x509roots/fallback" // used only when the host has no system roots
)

// TLSOptions configures the clients built by NewDefaultRegistry.
// InsecureSkipVerify turns off certificate chain verification and must be
// requested explicitly.
type TLSOptions struct {
	InsecureSkipVerify   bool
	Timeout              time.Duration
	MaxResponseBodyBytes int64
}

func TLSOptionsFromConfig(cfg core.Config) TLSOptions {
	return TLSOptions{
		InsecureSkipVerify:   cfg.Transport.InsecureSkipVerify,
		Timeout:              cfg.Transport.Timeout(),
		MaxResponseBodyBytes: cfg.Transport.MaxResponseBodyBytes,
	}
}

func NewHTTPClient(opts TLSOptions) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in via config
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultRESTClientTimeout
	}
	return &http.Client{Transport: transport, Timeout: timeout}
}

func NewTLSAdapter(opts TLSOptions) *RESTAdapter {
	adapter := NewRESTAdapter(KindHTTPS, NewHTTPClient(opts))
	if opts.MaxResponseBodyBytes > 0 {
		adapter.MaxResponseBodyBytes = opts.MaxResponseBodyBytes
	}
	return adapter
}

func NewPlainAdapter(opts TLSOptions) *RESTAdapter {
	adapter := NewRESTAdapter(KindHTTP, NewHTTPClient(TLSOptions{Timeout: opts.Timeout}))
	if opts.MaxResponseBodyBytes > 0 {
		adapter.MaxResponseBodyBytes = opts.MaxResponseBodyBytes
	}
	return adapter
}
