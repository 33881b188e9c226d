package core

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-looker/adapters/gologger"
	"github.com/google/uuid"
)

// Client executes validated queries. It keeps no per-request state, so one
// Client may run any number of executions concurrently.
type Client struct {
	config          Config
	logger          Logger
	loggerProvider  LoggerProvider
	metricsRecorder MetricsRecorder
	errorMapper     ErrorMapper
	configProvider  ConfigProvider
	optionsResolver OptionsResolver
	signer          Signer
	transports      TransportResolver
}

type ClientDependencies struct {
	Logger            Logger
	LoggerProvider    LoggerProvider
	MetricsRecorder   MetricsRecorder
	ErrorMapper       ErrorMapper
	ConfigProvider    ConfigProvider
	OptionsResolver   OptionsResolver
	Signer            Signer
	TransportResolver TransportResolver
}

// Response is the unparsed result of one execution. Non 2xx statuses are not
// treated as errors.
type Response struct {
	RequestID  string
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

type ExecuteResult struct {
	Body string
	Err  error
}

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	builder := defaultClientBuilder(cfg)
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, _ := gologger.Resolve(defaultServiceName, builder.loggerProvider, builder.logger)
	logger := gologger.Named(defaultServiceName, builder.loggerProvider, builder.logger)

	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.errorMapper == nil {
		builder.errorMapper = defaultErrorMapper
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.signer == nil {
		builder.signer = HMACSigner{}
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	transports := builder.transportResolver
	if transports == nil && builder.transportFactory != nil {
		transports, err = builder.transportFactory(finalConfig)
		if err != nil {
			return nil, mapBuildError(builder.errorMapper, err)
		}
	}
	if transports == nil {
		return nil, mapBuildError(builder.errorMapper, fmt.Errorf("core: transport resolver is required"))
	}

	return &Client{
		config:          finalConfig,
		logger:          logger,
		loggerProvider:  provider,
		metricsRecorder: builder.metricsRecorder,
		errorMapper:     builder.errorMapper,
		configProvider:  builder.configProvider,
		optionsResolver: builder.optionsResolver,
		signer:          builder.signer,
		transports:      transports,
	}, nil
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper == nil {
		return err
	}
	if mapped := mapper(err); mapped != nil {
		return mapped
	}
	return err
}

func (c *Client) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.config
}

func (c *Client) Dependencies() ClientDependencies {
	if c == nil {
		return ClientDependencies{}
	}
	return ClientDependencies{
		Logger:            c.logger,
		LoggerProvider:    c.loggerProvider,
		MetricsRecorder:   c.metricsRecorder,
		ErrorMapper:       c.errorMapper,
		ConfigProvider:    c.configProvider,
		OptionsResolver:   c.optionsResolver,
		Signer:            c.signer,
		TransportResolver: c.transports,
	}
}

// Execute signs and sends q and returns the raw response body. Each call uses
// a fresh nonce and timestamp. Failures are not retried.
func (c *Client) Execute(ctx context.Context, q *Query) (string, error) {
	res, err := c.Do(ctx, q)
	if err != nil {
		return "", err
	}
	return string(res.Body), nil
}

// ExecuteAsync runs Execute in its own goroutine. The channel yields exactly
// one result and is then closed.
func (c *Client) ExecuteAsync(ctx context.Context, q *Query) <-chan ExecuteResult {
	out := make(chan ExecuteResult, 1)
	go func() {
		defer close(out)
		body, err := c.Execute(ctx, q)
		out <- ExecuteResult{Body: body, Err: err}
	}()
	return out
}

// Do is Execute with the response status and headers kept.
func (c *Client) Do(ctx context.Context, q *Query) (Response, error) {
	if c == nil {
		return Response{}, fmt.Errorf("core: client is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if q == nil {
		return Response{}, validationError("query", "query is required")
	}

	startedAt := time.Now()
	requestID := uuid.NewString()
	fields := map[string]any{
		"request_id": requestID,
		"dictionary": q.Dictionary(),
		"query":      q.Name(),
	}

	res, err := c.do(ctx, q, requestID, fields)
	c.observeExecute(ctx, startedAt, err, fields)
	if err != nil {
		return Response{}, c.mapError(err)
	}
	return res, nil
}

func (c *Client) do(ctx context.Context, q *Query, requestID string, fields map[string]any) (Response, error) {
	host := q.Credential().Host()
	target, err := resolveTarget(host, q.Path())
	if err != nil {
		return Response{}, transportFailure(err, "core: invalid credential host", map[string]any{"host": host})
	}
	fields["scheme"] = target.scheme

	adapter, err := c.transports.Resolve(target.scheme)
	if err != nil {
		return Response{}, transportFailure(err, "core: resolve transport", map[string]any{"scheme": target.scheme})
	}

	canonical := q.Canonical()
	signed, err := c.signer.Sign(ctx, SigningInput{
		Method:         q.Method(),
		Path:           target.path,
		CanonicalQuery: canonical,
	}, q.Credential())
	if err != nil {
		return Response{}, transportFailure(err, "core: sign request", nil)
	}

	dispatchFields := cloneFields(fields)
	dispatchFields["url"] = target.url
	dispatchFields["query_string"] = canonical
	dispatchFields["headers"] = RedactHeaders(signed.Headers)
	c.logDebug(ctx, "dispatching query", dispatchFields)

	res, err := adapter.Do(ctx, TransportRequest{
		Method:               q.Method(),
		URL:                  target.url,
		RawQuery:             canonical,
		Headers:              signed.Headers,
		Metadata:             map[string]any{"request_id": requestID},
		Timeout:              c.config.Transport.Timeout(),
		MaxResponseBodyBytes: c.config.Transport.MaxResponseBodyBytes,
	})
	if err != nil {
		if IsTransportError(err) {
			return Response{}, err
		}
		return Response{}, transportFailure(err, "core: execute query request", map[string]any{
			"url":        target.url,
			"request_id": requestID,
		})
	}
	fields["status_code"] = res.StatusCode

	return Response{
		RequestID:  requestID,
		StatusCode: res.StatusCode,
		Headers:    res.Headers,
		Body:       res.Body,
	}, nil
}

func (c *Client) mapError(err error) error {
	if err == nil {
		return nil
	}
	if c == nil || c.errorMapper == nil {
		return err
	}
	if mapped := c.errorMapper(err); mapped != nil {
		return mapped
	}
	return err
}

type requestTarget struct {
	scheme string
	path   string
	url    string
}

// resolveTarget joins the base path of host with the resource path. The
// joined path is what gets sent and signed.
func resolveTarget(host string, resourcePath string) (requestTarget, error) {
	trimmed := strings.TrimSpace(host)
	if trimmed == "" {
		return requestTarget{}, fmt.Errorf("core: credential host is required")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return requestTarget{}, fmt.Errorf("core: parse credential host: %w", err)
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme == "" || parsed.Host == "" {
		return requestTarget{}, fmt.Errorf("core: credential host %q must include a scheme and host", trimmed)
	}
	path := strings.TrimRight(parsed.EscapedPath(), "/") + resourcePath
	return requestTarget{
		scheme: scheme,
		path:   path,
		url:    scheme + "://" + parsed.Host + path,
	}, nil
}
