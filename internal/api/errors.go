package api

import "fmt"

// TransportError wraps a network-level failure (DNS, connect, timeout,
// body read). Always recoverable locally: the caller re-enables controls
// and shows a retry-suggesting message.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// LogicalError is an error payload carried in an otherwise-successful
// response. The message is surfaced verbatim to the user and must not
// corrupt session state.
type LogicalError struct {
	Message string
}

func (e *LogicalError) Error() string { return e.Message }

// MalformedResponseError means an expected key was absent from a
// response body. Distinct from "empty": the response decoded, but the
// contract field is missing.
type MalformedResponseError struct {
	Key string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("response is missing %q", e.Key)
}

func (e *MalformedResponseError) Is(target error) bool {
	t, ok := target.(*MalformedResponseError)
	return ok && t.Key == e.Key
}

// ErrMissingInventory is returned when /load-inventory answers without
// an inventory field. Not the same as an empty inventory.
var ErrMissingInventory = &MalformedResponseError{Key: "inventory"}
