package tmdb

import (
	"fmt"
	"net/url"
	"strings"
)

// Parameter keys understood by the provider
const (
	ParamAPIKey       = "api_key"
	ParamRequestToken = "request_token"
	ParamSessionID    = "session_id"
	ParamUsername     = "username"
	ParamPassword     = "password"
	ParamPage         = "page"
)

// Params is the key-value set attached to a request as its query string.
type Params map[string]any

// BuildURL joins base and path and encodes params as the query string.
// Values are stringified with fmt.Sprint. Keys are emitted in sorted order.
func BuildURL(base *url.URL, path string, params Params) *url.URL {
	u := *base
	u.Path = strings.TrimRight(base.Path, "/") + "/" + strings.TrimLeft(path, "/")
	u.RawPath = ""
	u.RawQuery = encodeParams(params)
	u.Fragment = ""
	return &u
}

func encodeParams(params Params) string {
	if len(params) == 0 {
		return ""
	}
	values := make(url.Values, len(params))
	for key, value := range params {
		values.Set(key, fmt.Sprint(value))
	}
	return values.Encode()
}

// ParseBaseURL validates a base endpoint such as https://api.themoviedb.org/3
func ParseBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base URL %q: %v", ErrInvalidConfig, raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: base URL %q needs a scheme and host", ErrInvalidConfig, raw)
	}
	return u, nil
}
