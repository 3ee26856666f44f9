package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for the HTTP boundary.
type Kind int

const (
	// KindUnknown is any error that carries no classification.
	KindUnknown Kind = iota
	// KindInvalidArgument is caller-supplied data failing validation.
	KindInvalidArgument
	// KindNotFound is a reference to a userId that does not exist.
	KindNotFound
	// KindDeliveryFailed is a push provider rejecting or failing to deliver
	// a message. Carries the provider's error code.
	KindDeliveryFailed
	// KindUnavailable is the record store or provider being unreachable.
	KindUnavailable
)

// Error is the service-wide error type. ProviderCode is only set for
// KindDeliveryFailed and holds the provider's machine-readable code
// (e.g. "DeviceNotRegistered"), kept separate from the human message.
type Error struct {
	Kind         Kind
	Message      string
	ProviderCode string
	Err          error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// InvalidArgument returns a validation error with the given caller-facing message.
func InvalidArgument(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// NotFound returns a missing-record error.
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// DeliveryFailed returns a provider delivery error carrying the provider's code.
func DeliveryFailed(code, format string, args ...interface{}) *Error {
	return &Error{Kind: KindDeliveryFailed, ProviderCode: code, Message: fmt.Sprintf(format, args...)}
}

// Unavailable wraps an infrastructure error (store or provider unreachable).
func Unavailable(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindUnavailable, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the Kind from an error chain, KindUnknown if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// ProviderCode extracts the provider error code from an error chain, "" if none.
func ProviderCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.ProviderCode
	}
	return ""
}

// HTTPStatus maps an error to the status code the API contract assigns it.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindDeliveryFailed, KindUnavailable:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
