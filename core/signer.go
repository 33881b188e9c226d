package core

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	HeaderAuthorization = "Authorization"
	HeaderDate          = "Date"
	HeaderNonce         = "x-llooker-nonce"
	HeaderAccept        = "Accept"

	acceptJSON = "application/json"

	nonceBytes  = 16
	nonceLength = 32
)

// TimestampLayout renders the Date header, e.g.
// "Tue Nov 18 2014 10:04:05 GMT-0800 (PST)".
const TimestampLayout = "Mon Jan 02 2006 15:04:05 GMT-0700 (MST)"

type SigningInput struct {
	Method         string
	Path           string
	CanonicalQuery string
}

// SignedRequest carries the authentication headers together with the values
// that went into them.
type SignedRequest struct {
	Headers      map[string]string
	Timestamp    string
	Nonce        string
	StringToSign string
	Signature    string
}

// HMACSigner signs requests with HMAC-SHA1 over the string to sign. The zero
// value uses the wall clock and crypto/rand.
type HMACSigner struct {
	Now  func() time.Time
	Rand io.Reader
}

func (s HMACSigner) Sign(_ context.Context, in SigningInput, cred *Credential) (SignedRequest, error) {
	if cred == nil {
		return SignedRequest{}, fmt.Errorf("core: credential is required for signing")
	}
	nonce, err := NewNonce(s.Rand)
	if err != nil {
		return SignedRequest{}, err
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	timestamp := FormatTimestamp(now())

	stringToSign := StringToSign(in.Method, in.Path, timestamp, nonce, in.CanonicalQuery)
	signature := ComputeSignature(cred.Secret(), stringToSign)

	return SignedRequest{
		Headers: map[string]string{
			HeaderAuthorization: cred.Token() + ":" + signature,
			HeaderDate:          timestamp,
			HeaderNonce:         nonce,
			HeaderAccept:        acceptJSON,
		},
		Timestamp:    timestamp,
		Nonce:        nonce,
		StringToSign: stringToSign,
		Signature:    signature,
	}, nil
}

// NewNonce returns 32 hex characters drawn from 16 random bytes. A nil reader
// uses crypto/rand.
func NewNonce(r io.Reader) (string, error) {
	if r == nil {
		r = rand.Reader
	}
	buf := make([]byte, nonceBytes)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("core: generate nonce: %w", err)
	}
	nonce := hex.EncodeToString(buf)
	if len(nonce) > nonceLength {
		nonce = nonce[:nonceLength]
	}
	return nonce, nil
}

func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// StringToSign joins method, path, timestamp, nonce and the canonical query
// (one parameter per line) with newlines and appends a trailing newline.
func StringToSign(method string, path string, timestamp string, nonce string, canonicalQuery string) string {
	parts := []string{
		method,
		path,
		timestamp,
		nonce,
		strings.ReplaceAll(canonicalQuery, "&", "\n"),
	}
	return strings.Join(parts, "\n") + "\n"
}

// ComputeSignature returns base64(HMAC-SHA1(secret, stringToSign)).
func ComputeSignature(secret string, stringToSign string) string {
	mac := hmac.New(sha1.New, []byte(secret))
	_, _ = mac.Write([]byte(stringToSign))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

var _ Signer = HMACSigner{}
