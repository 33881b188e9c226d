package looker

import (
	"context"

	"github.com/goliatone/go-looker/adapters/prommetrics"
	"github.com/goliatone/go-looker/core"
	"github.com/goliatone/go-looker/transport"
	"github.com/prometheus/client_golang/prometheus"
)

type Config = core.Config

type TransportConfig = core.TransportConfig

type Option = core.Option

type Client = core.Client

type ClientDependencies = core.ClientDependencies

type Response = core.Response

type ExecuteResult = core.ExecuteResult

type Credential = core.Credential

type CredentialInput = core.CredentialInput

type Query = core.Query

type QueryOptions = core.QueryOptions

type FieldDataAttribute = core.FieldDataAttribute

type DataFormat = core.DataFormat

type Signer = core.Signer

type MetricsRecorder = core.MetricsRecorder

const (
	FieldDataLabel = core.FieldDataLabel
	FieldDataName  = core.FieldDataName
	FieldDataType  = core.FieldDataType

	DataFormatValue    = core.DataFormatValue
	DataFormatRendered = core.DataFormatRendered
	DataFormatHTML     = core.DataFormatHTML
)

var (
	WithLogger            = core.WithLogger
	WithLoggerProvider    = core.WithLoggerProvider
	WithMetricsRecorder   = core.WithMetricsRecorder
	WithErrorMapper       = core.WithErrorMapper
	WithConfigProvider    = core.WithConfigProvider
	WithConfigFile        = core.WithConfigFile
	WithOptionsResolver   = core.WithOptionsResolver
	WithSigner            = core.WithSigner
	WithTransportResolver = core.WithTransportResolver
	WithTransportFactory  = core.WithTransportFactory

	IsValidationError = core.IsValidationError
	IsTransportError  = core.IsTransportError
	RowLimit          = core.RowLimit
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func LoadConfigFile(ctx context.Context, path string) (Config, error) {
	return core.LoadConfigFile(ctx, path)
}

func NewCredential(in CredentialInput) *Credential {
	return core.NewCredential(in)
}

func NewQuery(opts QueryOptions) (*Query, error) {
	return core.NewQuery(opts)
}

func NewQueryFromMap(cred *Credential, raw map[string]any) (*Query, error) {
	return core.NewQueryFromMap(cred, raw)
}

func DecodeQueryOptions(raw map[string]any) (QueryOptions, error) {
	return core.DecodeQueryOptions(raw)
}

// NewClient builds a client whose transports come from the default http and
// https registry unless a resolver or factory option overrides them.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	withDefaults := make([]Option, 0, len(opts)+1)
	withDefaults = append(withDefaults, core.WithTransportFactory(transport.ResolverFactory))
	withDefaults = append(withDefaults, opts...)
	return core.NewClient(cfg, withDefaults...)
}

// WithPrometheus records execution metrics on registerer. A nil registerer
// gets a private registry.
func WithPrometheus(registerer prometheus.Registerer, opts ...prommetrics.Option) Option {
	return core.WithMetricsRecorder(prommetrics.NewRecorder(registerer, opts...))
}
