package lookup

import (
	"fmt"
	"strings"
)

// ValidationError reports every identity rule an app violated. It is
// raised before any network call is made.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "invalid app attributes: " + strings.Join(e.Errors, ", ")
}

// InvalidCountryError means the backend rejected a country code.
type InvalidCountryError struct {
	Country string
}

func (e *InvalidCountryError) Error() string {
	return fmt.Sprintf("could not find app for given country, or country code is invalid: %q", e.Country)
}

// MalformedResponseError means a success-shaped response was missing
// the structural fields the backend is supposed to return.
type MalformedResponseError struct{}

func (e *MalformedResponseError) Error() string {
	return "response has an invalid format"
}

// RequestError wraps a transport failure that survived the retry
// budget, or a backend-reported error message.
type RequestError struct {
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// NoResultsError is the expected empty outcome: every store the
// lookup tried answered with a valid zero-result response. Callers
// should treat it as a normal non-match.
type NoResultsError struct {
	Message   string
	Countries []string
}

func (e *NoResultsError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("could not find app in any country (%s)", strings.Join(e.Countries, ", "))
}
