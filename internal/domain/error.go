package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrStateNotFound means the conversation has no persisted state yet;
	// callers treat it as the initial state.
	ErrStateNotFound = errors.New("conversation state not found")

	// ErrUnknownState means the store holds a label outside the enumeration.
	// This is fatal for the event, never silently recovered.
	ErrUnknownState = errors.New("unknown conversation state")

	// ErrMalformedPayload means a button payload did not parse into the
	// expected fields.
	ErrMalformedPayload = errors.New("malformed button payload")

	// ErrInvalidEmail means a user-supplied email failed format validation.
	ErrInvalidEmail = errors.New("invalid email address")
)

// UpstreamError is returned when the commerce backend answers with a
// non-success status. The status is carried as-is; a 404 and a 500 propagate
// identically to the caller.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream responded %d: %s", e.Status, e.Message)
}
