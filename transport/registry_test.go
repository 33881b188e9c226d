package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-looker/core"
)

type staticAdapter struct {
	kind string
}

func (a staticAdapter) Kind() string { return a.kind }

func (a staticAdapter) Do(context.Context, core.TransportRequest) (core.TransportResponse, error) {
	return core.TransportResponse{StatusCode: 200}, nil
}

func TestRegistry_RegisterGetAndListDeterministic(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(staticAdapter{kind: "https"}); err != nil {
		t.Fatalf("register https adapter: %v", err)
	}
	if err := registry.Register(staticAdapter{kind: "HTTP"}); err != nil {
		t.Fatalf("register http adapter: %v", err)
	}

	if _, ok := registry.Get("http"); !ok {
		t.Fatalf("expected http adapter to be registered")
	}

	listed := registry.List()
	if len(listed) != 2 {
		t.Fatalf("expected 2 adapters, got %d", len(listed))
	}
	if listed[0].Kind() != "HTTP" || listed[1].Kind() != "https" {
		t.Fatalf("expected deterministic sorted order, got %q and %q", listed[0].Kind(), listed[1].Kind())
	}

	if err := registry.Register(staticAdapter{kind: "https"}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}

func TestRegistry_ResolveUnknownSchemeFails(t *testing.T) {
	registry := NewDefaultRegistry(TLSOptions{})
	if _, err := registry.Resolve("HTTPS"); err != nil {
		t.Fatalf("resolve https: %v", err)
	}
	if _, err := registry.Resolve("ftp"); err == nil {
		t.Fatalf("expected error for unregistered scheme")
	} else if !core.IsTransportError(err) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestResolverFactory_UsesTransportConfig(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.Transport.TimeoutSeconds = 7
	cfg.Transport.MaxResponseBodyBytes = 64

	resolver, err := ResolverFactory(cfg)
	if err != nil {
		t.Fatalf("build resolver: %v", err)
	}
	adapter, err := resolver.Resolve("https")
	if err != nil {
		t.Fatalf("resolve https: %v", err)
	}
	rest, ok := adapter.(*RESTAdapter)
	if !ok {
		t.Fatalf("expected rest adapter, got %T", adapter)
	}
	if rest.MaxResponseBodyBytes != 64 {
		t.Fatalf("expected body limit 64, got %d", rest.MaxResponseBodyBytes)
	}
	httpClient, ok := rest.Client.(*http.Client)
	if !ok {
		t.Fatalf("expected http client, got %T", rest.Client)
	}
	if httpClient.Timeout != 7*time.Second {
		t.Fatalf("expected 7s timeout, got %s", httpClient.Timeout)
	}
}

func TestRESTAdapter_DoSendsRawQueryAndHeadersVerbatim(t *testing.T) {
	const rawQuery = "data_formats=value&f[orders.status]=complete%20order&fields=orders.count&limit=10"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET method, got %s", r.Method)
		}
		if r.URL.RawQuery != rawQuery {
			t.Errorf("expected raw query %q, got %q", rawQuery, r.URL.RawQuery)
		}
		if r.URL.EscapedPath() != "/base/api/dictionaries/d/queries/q" {
			t.Errorf("unexpected path %q", r.URL.EscapedPath())
		}
		if got := r.Header.Get("x-llooker-nonce"); got != "abc" {
			t.Errorf("expected nonce header, got %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "token:sig" {
			t.Errorf("expected authorization header, got %q", got)
		}
		w.Header().Set("X-Server", "ok")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("done"))
	}))
	defer server.Close()

	adapter := NewRESTAdapter(KindHTTP, server.Client())
	result, err := adapter.Do(context.Background(), core.TransportRequest{
		Method:   "get",
		URL:      server.URL + "/base/api/dictionaries/d/queries/q",
		RawQuery: rawQuery,
		Headers: map[string]string{
			"Authorization":   "token:sig",
			"x-llooker-nonce": "abc",
		},
		Metadata: map[string]any{"request_id": "req-1"},
		Timeout:  5 * time.Second,
	})
	if err != nil {
		t.Fatalf("perform request: %v", err)
	}
	if result.StatusCode != http.StatusAccepted {
		t.Fatalf("expected accepted status, got %d", result.StatusCode)
	}
	if string(result.Body) != "done" {
		t.Fatalf("unexpected response body: %q", string(result.Body))
	}
	if result.Headers["X-Server"] != "ok" {
		t.Fatalf("expected response header")
	}
	if result.Metadata["request_id"] != "req-1" {
		t.Fatalf("expected request id metadata, got %v", result.Metadata["request_id"])
	}
}

type recordingDoer struct {
	req *http.Request
}

func (d *recordingDoer) Do(req *http.Request) (*http.Response, error) {
	d.req = req
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader("{}")),
	}, nil
}

func TestRESTAdapter_KeepsNonceHeaderSpelling(t *testing.T) {
	doer := &recordingDoer{}
	adapter := NewRESTAdapter(KindHTTPS, doer)
	_, err := adapter.Do(context.Background(), core.TransportRequest{
		URL:     "https://looker.example.com/api/dictionaries/d/queries/q",
		Headers: map[string]string{"x-llooker-nonce": "n"},
	})
	if err != nil {
		t.Fatalf("perform request: %v", err)
	}
	if values, ok := doer.req.Header["x-llooker-nonce"]; !ok || values[0] != "n" {
		t.Fatalf("expected lowercase nonce header, got %v", doer.req.Header)
	}
	if doer.req.Method != http.MethodGet {
		t.Fatalf("expected default GET method, got %s", doer.req.Method)
	}
}

func TestNewRESTAdapter_DefaultClientTimeout(t *testing.T) {
	adapter := NewRESTAdapter("", nil)
	httpClient, ok := adapter.Client.(*http.Client)
	if !ok {
		t.Fatalf("expected default http client implementation")
	}
	if httpClient.Timeout != defaultRESTClientTimeout {
		t.Fatalf("expected default timeout %s, got %s", defaultRESTClientTimeout, httpClient.Timeout)
	}
	if adapter.MaxResponseBodyBytes != defaultRESTResponseBodyLimit {
		t.Fatalf("expected default response body limit %d, got %d", defaultRESTResponseBodyLimit, adapter.MaxResponseBodyBytes)
	}
	if adapter.Kind() != KindHTTP {
		t.Fatalf("expected http kind, got %q", adapter.Kind())
	}
}

func TestRESTAdapter_DoFailsOnResponseBodyOverLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("12345"))
	}))
	defer server.Close()

	adapter := NewRESTAdapter(KindHTTP, server.Client())
	adapter.MaxResponseBodyBytes = 4

	_, err := adapter.Do(context.Background(), core.TransportRequest{
		Method: "GET",
		URL:    server.URL,
	})
	if err == nil {
		t.Fatalf("expected response body limit error")
	}
	if !strings.Contains(err.Error(), "response body exceeds limit") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRESTAdapter_RequestBodyLimitOverridesAdapterLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("12345"))
	}))
	defer server.Close()

	adapter := NewRESTAdapter(KindHTTP, server.Client())
	adapter.MaxResponseBodyBytes = 1024

	_, err := adapter.Do(context.Background(), core.TransportRequest{
		Method:               "GET",
		URL:                  server.URL,
		MaxResponseBodyBytes: 4,
	})
	if err == nil {
		t.Fatalf("expected response body limit error")
	}
	if !strings.Contains(err.Error(), "response body exceeds limit of 4 bytes") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRESTAdapter_NonSuccessStatusIsReturned(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"denied"}`))
	}))
	defer server.Close()

	adapter := NewRESTAdapter(KindHTTP, server.Client())
	result, err := adapter.Do(context.Background(), core.TransportRequest{URL: server.URL})
	if err != nil {
		t.Fatalf("expected no error for non 2xx status, got %v", err)
	}
	if result.StatusCode != http.StatusUnauthorized || string(result.Body) != `{"message":"denied"}` {
		t.Fatalf("unexpected result %d %q", result.StatusCode, string(result.Body))
	}
}

func TestTLSAdapter_InsecureSkipVerifyIsOptIn(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("secure"))
	}))
	defer server.Close()

	strict := NewTLSAdapter(TLSOptions{Timeout: 5 * time.Second})
	if _, err := strict.Do(context.Background(), core.TransportRequest{URL: server.URL}); err == nil {
		t.Fatalf("expected certificate verification failure")
	} else if !core.IsTransportError(err) {
		t.Fatalf("expected transport error, got %v", err)
	}

	insecure := NewTLSAdapter(TLSOptions{InsecureSkipVerify: true, Timeout: 5 * time.Second})
	result, err := insecure.Do(context.Background(), core.TransportRequest{URL: server.URL})
	if err != nil {
		t.Fatalf("expected insecure adapter to connect: %v", err)
	}
	if string(result.Body) != "secure" {
		t.Fatalf("unexpected body %q", string(result.Body))
	}
}
