package core

import "strings"

const RedactedValue = "[REDACTED]"

// RedactHeaders returns a copy of headers that is safe to log. The
// Authorization value keeps the token and hides the signature.
func RedactHeaders(headers map[string]string) map[string]any {
	if len(headers) == 0 {
		return map[string]any{}
	}
	out := make(map[string]any, len(headers))
	for key, value := range headers {
		if strings.EqualFold(key, HeaderAuthorization) {
			if token, _, ok := strings.Cut(value, ":"); ok {
				out[key] = token + ":" + RedactedValue
				continue
			}
		}
		if shouldRedactKey(key) {
			out[key] = RedactedValue
			continue
		}
		out[key] = value
	}
	return out
}

func shouldRedactKey(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" || isTraceabilityKey(key) {
		return false
	}
	sensitiveTokens := []string{
		"password",
		"secret",
		"authorization",
		"api_key",
		"apikey",
		"signature",
		"cookie",
	}
	for _, token := range sensitiveTokens {
		if strings.Contains(key, token) {
			return true
		}
	}
	return false
}

func isTraceabilityKey(key string) bool {
	switch key {
	case "request_id",
		"trace_id",
		"dictionary",
		"query":
		return true
	default:
		return false
	}
}
