package core

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

// TransportRequest is a fully signed request handed to a TransportAdapter.
// RawQuery is the canonical query string and must be sent byte for byte.
type TransportRequest struct {
	Method               string
	URL                  string
	RawQuery             string
	Headers              map[string]string
	Metadata             map[string]any
	Timeout              time.Duration
	MaxResponseBodyBytes int64
}

type TransportResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
	Metadata   map[string]any
}

type TransportAdapter interface {
	Kind() string
	Do(ctx context.Context, req TransportRequest) (TransportResponse, error)
}

// TransportResolver picks the adapter that serves a URL scheme.
type TransportResolver interface {
	Resolve(scheme string) (TransportAdapter, error)
}

// TransportFactory builds a resolver once the final Config is known.
type TransportFactory func(cfg Config) (TransportResolver, error)

type Signer interface {
	Sign(ctx context.Context, in SigningInput, cred *Credential) (SignedRequest, error)
}
