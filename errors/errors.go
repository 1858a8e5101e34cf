package errors

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

var (
	ErrAuthFailed   = errors.New("authentication failed")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrNoSession    = errors.New("no saved session")
	ErrTransport    = errors.New("portal request failed")

	ErrInitFailed = errors.New("initialization failed")

	// Misc

	ErrInvalidInterfaceType = errors.New("an invalid interface type was passed as argument")
)

// Custom error wrapper
type ErrorWrapper struct {
	Origin string
	Text   string
	Err    error
}

func (err ErrorWrapper) Error() string {
	if err.Err == nil {
		return fmt.Sprintf("%v: %v", err.Origin, err.Text)
	}
	return fmt.Sprintf("%v: %v: %v", err.Origin, err.Text, err.Err)
}

func (err ErrorWrapper) Unwrap() error {
	return err.Err
}

// NewError returns an ErrorWrapper which contains information on which package and/or function
// the error originated, the error text/message, and the error itself
func NewError(origin string, text string, err error) ErrorWrapper {
	return ErrorWrapper{
		Origin: origin,
		Text:   text,
		Err:    err,
	}
}

// TransportError is returned for every failed portal request. Status is the
// HTTP status code, or 0 when the request never produced a usable response
// (dial failure, timeout, cancellation, malformed body); Cause is set in the
// latter case.
type TransportError struct {
	Status int
	Reason string
	Cause  error
}

func (err *TransportError) Error() string {
	if err.Status == 0 {
		if err.Cause == nil {
			return "transport: " + err.Reason
		}
		return fmt.Sprintf("transport: %v", err.Cause)
	}
	return fmt.Sprintf("[%d] %s", err.Status, err.Reason)
}

func (err *TransportError) Unwrap() error {
	return err.Cause
}

func (err *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// AuthenticationError is returned when the portal rejects a login.
type AuthenticationError struct {
	Reason string
}

func (err *AuthenticationError) Error() string {
	if err.Reason == "" {
		return ErrAuthFailed.Error()
	}
	return ErrAuthFailed.Error() + ": " + err.Reason
}

func (err *AuthenticationError) Is(target error) bool {
	return target == ErrAuthFailed
}

// ForbiddenError is returned when a role-scoped client is requested from an
// account that was not granted that role.
type ForbiddenError struct {
	Role string
}

func (err *ForbiddenError) Error() string {
	return fmt.Sprintf("[403] Forbidden. Account has no %s role", err.Role)
}

func (err *ForbiddenError) Is(target error) bool {
	return target == ErrForbidden
}

// ValidationError reports an invalid argument combination.
type ValidationError struct {
	Field  string
	Reason string
}

func (err *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", err.Field, err.Reason)
}

func (err *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

// New returns an error carrying a stack trace.
func New(text string) error {
	return pkgerrors.New(text)
}

// Wrap annotates err with text and a stack trace. Wrap returns nil if err is
// nil.
func Wrap(err error, text string) error {
	return pkgerrors.Wrap(err, text)
}
