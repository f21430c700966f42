package types

import (
	"errors"
	"fmt"
)

// ErrMalformedPayload is matched by every payload parse failure
// (data blob, metadata rows, resource overrides, definition XML).
var ErrMalformedPayload = errors.New("malformed payload")

// PayloadError describes which payload could not be parsed.
type PayloadError struct {
	Payload string
	Err     error
}

// NewPayloadError wraps err as a malformed payload error for the named payload.
func NewPayloadError(payload string, err error) *PayloadError {
	return &PayloadError{Payload: payload, Err: err}
}

func (e *PayloadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("malformed %s payload", e.Payload)
	}
	return fmt.Sprintf("malformed %s payload: %v", e.Payload, e.Err)
}

func (e *PayloadError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrMalformedPayload) hold for every PayloadError.
func (e *PayloadError) Is(target error) bool {
	return target == ErrMalformedPayload
}
