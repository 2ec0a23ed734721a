package tmdb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Response keys used across endpoints
const (
	KeySuccess       = "success"
	KeyStatusCode    = "status_code"
	KeyStatusMessage = "status_message"
	KeyRequestToken  = "request_token"
	KeySessionID     = "session_id"
	KeyID            = "id"
	KeyUsername      = "username"
	KeyResults       = "results"
	KeyPage          = "page"
	KeyTotalPages    = "total_pages"
	KeyImages        = "images"
)

// Payload is a decoded JSON object. Accessors never panic: absent keys yield
// *MissingFieldError and mistyped values *MalformedBodyError.
type Payload struct {
	fields map[string]json.RawMessage
}

// NewPayload decodes body as a JSON object.
func NewPayload(body []byte) (Payload, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return Payload{}, &MalformedBodyError{Reason: "not a JSON object", Err: err}
	}
	if fields == nil {
		return Payload{}, &MalformedBodyError{Reason: "not a JSON object"}
	}
	return Payload{fields: fields}, nil
}

// Has reports whether key is present and not null.
func (p Payload) Has(key string) bool {
	raw, ok := p.fields[key]
	return ok && !isNull(raw)
}

// Decode unmarshals the value under key into v.
func (p Payload) Decode(key string, v any) error {
	raw, ok := p.fields[key]
	if !ok || isNull(raw) {
		return &MissingFieldError{Name: key}
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &MalformedBodyError{Reason: fmt.Sprintf("field %q has unexpected type", key), Err: err}
	}
	return nil
}

// String returns the non-empty string under key.
func (p Payload) String(key string) (string, error) {
	var s string
	if err := p.Decode(key, &s); err != nil {
		return "", err
	}
	if s == "" {
		return "", &MissingFieldError{Name: key}
	}
	return s, nil
}

// Int returns the integer under key.
func (p Payload) Int(key string) (int, error) {
	var n int
	if err := p.Decode(key, &n); err != nil {
		return 0, err
	}
	return n, nil
}

// Bool returns the boolean under key and whether it was present.
func (p Payload) Bool(key string) (value bool, present bool, err error) {
	if !p.Has(key) {
		return false, false, nil
	}
	if err := p.Decode(key, &value); err != nil {
		return false, true, err
	}
	return value, true, nil
}

// Object returns the nested object under key.
func (p Payload) Object(key string) (Payload, error) {
	raw, ok := p.fields[key]
	if !ok || isNull(raw) {
		return Payload{}, &MissingFieldError{Name: key}
	}
	nested, err := NewPayload(raw)
	if err != nil {
		return Payload{}, &MalformedBodyError{Reason: fmt.Sprintf("field %q is not an object", key), Err: err}
	}
	return nested, nil
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// ValidateResponse applies the response gate and parses the body as a JSON
// object. Checks run in a fixed order and stop at the first failure:
// transport error, non-2xx status, empty body, undecodable body.
func ValidateResponse(resp *http.Response, err error) (Payload, error) {
	body, err := readValidated(resp, err)
	if err != nil {
		return Payload{}, err
	}
	return NewPayload(body)
}

// ValidateRaw applies the same gate without the decoding step, for binary
// endpoints such as images.
func ValidateRaw(resp *http.Response, err error) ([]byte, error) {
	return readValidated(resp, err)
}

func readValidated(resp *http.Response, err error) ([]byte, error) {
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	if resp == nil {
		return nil, &TransportError{Err: fmt.Errorf("no response")}
	}
	if resp.Body != nil {
		defer resp.Body.Close()
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.Body != nil {
			// Drain so the connection can be reused.
			_, _ = io.Copy(io.Discard, resp.Body)
		}
		return nil, &HTTPStatusError{Code: resp.StatusCode}
	}
	if resp.Body == nil {
		return nil, ErrEmptyBody
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to read response body: %w", err)}
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptyBody
	}
	return body, nil
}
