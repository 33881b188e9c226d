package core

import (
	"fmt"
	"strings"
)

type CredentialInput struct {
	Token  string
	Secret string
	Host   string
}

// Credential identifies an API consumer. It is immutable once built and does
// not validate its fields; missing values surface when a query executes.
type Credential struct {
	token  string
	secret string
	host   string
}

func NewCredential(in CredentialInput) *Credential {
	return &Credential{
		token:  in.Token,
		secret: in.Secret,
		host:   in.Host,
	}
}

// CredentialFromMap builds a Credential from loosely typed input using the
// token, secret and host keys. Non-string values are ignored.
func CredentialFromMap(raw map[string]any) *Credential {
	return NewCredential(CredentialInput{
		Token:  readString(raw, "token"),
		Secret: readString(raw, "secret"),
		Host:   readString(raw, "host"),
	})
}

func (c *Credential) Token() string {
	if c == nil {
		return ""
	}
	return c.token
}

func (c *Credential) Secret() string {
	if c == nil {
		return ""
	}
	return c.secret
}

func (c *Credential) Host() string {
	if c == nil {
		return ""
	}
	return c.host
}

func (c *Credential) String() string {
	if c == nil {
		return "Credential(nil)"
	}
	secret := ""
	if c.secret != "" {
		secret = RedactedValue
	}
	return fmt.Sprintf("Credential{token=%q, host=%q, secret=%q}", c.token, c.host, secret)
}

func (c *Credential) GoString() string {
	return c.String()
}

func readString(raw map[string]any, key string) string {
	if len(raw) == 0 {
		return ""
	}
	value, ok := raw[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}
