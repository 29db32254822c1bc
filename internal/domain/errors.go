package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNoDraft          = errors.New("no active draft")
	ErrSubmitInProgress = errors.New("submit already in progress")
	ErrNotFound         = errors.New("not found")
	ErrInvalidStatus    = errors.New("invalid order status")
)

// TransportError is a network failure or a non-2xx response without a usable payload rejection.
// StatusCode is 0 when no response was received.
type TransportError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Unavailable reports whether the remote service itself looks down, as opposed to
// rejecting a single request.
func (e *TransportError) Unavailable() bool {
	return e.StatusCode == 0 || e.StatusCode >= 500
}

// ValidationError is a rejected payload, either by the remote store or by local form checks.
type ValidationError struct {
	Op         string
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

type UploadError struct {
	Message string
	Err     error
}

func (e *UploadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upload asset: %s: %v", e.Message, e.Err)
	}
	return "upload asset: " + e.Message
}

func (e *UploadError) Unwrap() error { return e.Err }

type MalformedIdentifierError struct {
	Value string
	Err   error
}

func (e *MalformedIdentifierError) Error() string {
	return fmt.Sprintf("malformed product identifier %q", e.Value)
}

func (e *MalformedIdentifierError) Unwrap() error { return e.Err }

// UserMessage picks the text to show an operator for err.
func UserMessage(err error) string {
	var (
		te *TransportError
		ve *ValidationError
		ue *UploadError
		me *MalformedIdentifierError
	)
	switch {
	case errors.As(err, &ve):
		return ve.Message
	case errors.As(err, &te):
		return te.Message
	case errors.As(err, &ue):
		return ue.Message
	case errors.As(err, &me):
		return me.Error()
	case err == nil:
		return ""
	}
	return err.Error()
}
