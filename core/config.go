package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	defaultServiceName                = "looker"
	defaultTransportTimeoutSeconds    = 30
	defaultMaxResponseBodyBytes int64 = 32 << 20 // 32 MiB
)

// TransportConfig controls the HTTP transports built for a Client.
// InsecureSkipVerify disables TLS certificate verification and is off unless
// set explicitly.
type TransportConfig struct {
	InsecureSkipVerify   bool  `koanf:"insecure_skip_verify" mapstructure:"insecure_skip_verify"`
	TimeoutSeconds       int   `koanf:"timeout_seconds" mapstructure:"timeout_seconds"`
	MaxResponseBodyBytes int64 `koanf:"max_response_body_bytes" mapstructure:"max_response_body_bytes"`
}

type Config struct {
	ServiceName string          `koanf:"service_name" mapstructure:"service_name"`
	Transport   TransportConfig `koanf:"transport" mapstructure:"transport"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName: defaultServiceName,
		Transport: TransportConfig{
			TimeoutSeconds:       defaultTransportTimeoutSeconds,
			MaxResponseBodyBytes: defaultMaxResponseBodyBytes,
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if c.Transport.TimeoutSeconds < 0 {
		return fmt.Errorf("core: transport.timeout_seconds must be >= 0")
	}
	if c.Transport.MaxResponseBodyBytes < 0 {
		return fmt.Errorf("core: transport.max_response_body_bytes must be >= 0")
	}
	return nil
}

// Timeout is the per request timeout, zero meaning none.
func (c TransportConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
