package utils

import (
	"errors"
	"net/url"
	"strings"
)

// ErrInvalidBaseURL is returned when the backend base URL is not an http(s) /exec URL
var ErrInvalidBaseURL = errors.New("set a valid Apps Script /exec base URL")

// ValidateBaseURL trims the base URL and checks it is an absolute http(s) URL
// whose path ends with /exec. The query string must be empty because actions
// are appended as ?path=... by the client.
func ValidateBaseURL(base string) (string, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return "", ErrInvalidBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", ErrInvalidBaseURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrInvalidBaseURL
	}
	if u.Host == "" || !strings.HasSuffix(u.Path, "/exec") || u.RawQuery != "" {
		return "", ErrInvalidBaseURL
	}
	return base, nil
}
