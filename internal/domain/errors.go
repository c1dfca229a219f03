package domain

import (
	"errors"
	"fmt"
	"strconv"
)

// Predefined errors for the booking and catalog flows. Local validation
// errors are recoverable and never reach the network layer.
var (
	ErrInvalidRange    = errors.New("domain: rental end date precedes start date")
	ErrInvalidDuration = errors.New("domain: rental duration must be at least one hour")
	ErrUnsupportedMode = errors.New("domain: product is not offered for rent")
	ErrOutOfRange      = errors.New("domain: page index out of range")
	ErrNoSelection     = errors.New("domain: no rental selection in progress")
)

// MutationStatus is the server's uniform response envelope for mutations
// (create/edit/delete/buy/book). StatusCode is a stringified HTTP-style
// code; anything outside the 2xx range signals failure and StatusMessage
// is surfaced to the user verbatim.
type MutationStatus struct {
	StatusCode    string `json:"statusCode"`
	StatusMessage string `json:"statusMessage"`
}

// Success reports whether the status code is in the 2xx range.
func (m MutationStatus) Success() bool {
	code, err := strconv.Atoi(m.StatusCode)
	return err == nil && code >= 200 && code < 300
}

// RemoteError wraps a failed collaborator call: a transport failure, a
// GraphQL error, or a mutation status outside the success range. The
// message is user-visible; callers must leave prior state intact.
type RemoteError struct {
	StatusCode    string
	StatusMessage string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote failure (status %s): %s", e.StatusCode, e.StatusMessage)
}

// NewRemoteError builds a RemoteError from a mutation status envelope.
func NewRemoteError(status MutationStatus) *RemoteError {
	return &RemoteError{StatusCode: status.StatusCode, StatusMessage: status.StatusMessage}
}
