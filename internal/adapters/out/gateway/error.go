package gateway

import (
	"errors"
	"fmt"
)

// ErrDeliveryFailed is the sentinel behind every *Error.
var ErrDeliveryFailed = errors.New("gateway delivery failed")

// Error reports a notification the gateway never accepted.
type Error struct {
	Contact  string
	Attempts int
	// StatusCode is the last HTTP status seen, zero for transport failures.
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: contact %s after %d attempt(s): status %d",
			ErrDeliveryFailed, e.Contact, e.Attempts, e.StatusCode)
	}
	return fmt.Sprintf("%s: contact %s after %d attempt(s): %v",
		ErrDeliveryFailed, e.Contact, e.Attempts, e.Cause)
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrDeliveryFailed}
	}
	return []error{ErrDeliveryFailed, e.Cause}
}

// statusError is a single non-2xx answer.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.code)
}
