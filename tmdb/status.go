package tmdb

import (
	"slices"
)

// Provider status codes returned by write operations.
const (
	StatusSuccess        = 1
	StatusItemUpdated    = 12
	StatusItemDeleted    = 13
	StatusInvalidAPIKey  = 7
	StatusAuthFailed     = 30
	StatusInvalidToken   = 33
	StatusSessionDenied  = 17
	StatusResourceAbsent = 34
)

// Expected status codes for the favorite mutation, keyed by the desired state.
var (
	FavoriteOnCodes  = []int{StatusSuccess, StatusItemUpdated}
	FavoriteOffCodes = []int{StatusItemDeleted}
)

// rejection builds a ProviderRejectedError carrying whatever status details
// the body offers.
func rejection(p Payload) *ProviderRejectedError {
	rej := &ProviderRejectedError{}
	if code, err := p.Int(KeyStatusCode); err == nil {
		rej.StatusCode = code
	}
	if msg, err := p.String(KeyStatusMessage); err == nil {
		rej.StatusMessage = msg
	}
	return rej
}

// CheckSuccess fails with ProviderRejectedError when the body carries
// "success": false.
func CheckSuccess(p Payload) error {
	ok, present, err := p.Bool(KeySuccess)
	if err != nil {
		return err
	}
	if present && !ok {
		return rejection(p)
	}
	return nil
}

// InterpretRead classifies the body of a read operation. Besides an explicit
// "success": false, a status_code not accompanied by "success": true is the
// provider's error envelope.
func InterpretRead(p Payload) error {
	ok, present, err := p.Bool(KeySuccess)
	if err != nil {
		return err
	}
	if present && !ok {
		return rejection(p)
	}
	if p.Has(KeyStatusCode) && !(present && ok) {
		return rejection(p)
	}
	return nil
}

// InterpretWrite checks the status_code of a write operation against the
// codes expected for its intent and returns the code on success. An explicit
// "success": false takes precedence over the code check.
func InterpretWrite(p Payload, expected []int) (int, error) {
	if err := CheckSuccess(p); err != nil {
		return 0, err
	}

	code, err := p.Int(KeyStatusCode)
	if err != nil {
		return 0, err
	}
	if !slices.Contains(expected, code) {
		msg, _ := p.String(KeyStatusMessage)
		return code, &UnexpectedProviderCodeError{Code: code, Expected: expected, Message: msg}
	}
	return code, nil
}
