package models

import "fmt"

// ValidationError is detected on the client before any network call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
}

// TransportError wraps a network or connectivity failure. The local task set
// is left at its last known good state.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// NotFoundError means the referenced entity does not exist, either in the
// local set or on the remote store.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// ServerRejectedError means the remote store answered with a non-success
// status for a well-formed request.
type ServerRejectedError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *ServerRejectedError) Error() string {
	return fmt.Sprintf("server rejected %s with status %d: %s", e.Op, e.StatusCode, e.Body)
}
