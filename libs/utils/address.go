package utils

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrInvalidEndpoint = errors.New("invalid endpoint URL given")

var endpointSchemes = map[string]struct{}{
	"http":  {},
	"https": {},
	"ws":    {},
	"wss":   {},
}

// SanitizeEndpoint trims surrounding whitespace and trailing slashes from the
// given endpoint URL.
func SanitizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	return strings.TrimRight(endpoint, "/")
}

// ValidateEndpoint sanitizes the given endpoint and verifies that it is an
// absolute http(s) or ws(s) URL with a host. The sanitized endpoint is returned.
func ValidateEndpoint(endpoint string) (string, error) {
	original := endpoint
	endpoint = SanitizeEndpoint(endpoint)
	if endpoint == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidEndpoint)
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInvalidEndpoint, original, err)
	}
	if _, ok := endpointSchemes[u.Scheme]; !ok {
		return "", fmt.Errorf("%w: %s: unsupported scheme %q", ErrInvalidEndpoint, original, u.Scheme)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("%w: %s: missing host", ErrInvalidEndpoint, original)
	}
	return endpoint, nil
}
