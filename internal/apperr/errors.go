// Package apperr holds the error kinds surfaced to PillPal users.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error.
type Kind string

const (
	KindValidation       Kind = "VALIDATION_ERROR"
	KindAuth             Kind = "AUTH_ERROR"
	KindNotFound         Kind = "NOT_FOUND"
	KindPayloadTooLarge  Kind = "PAYLOAD_TOO_LARGE"
	KindUnsupportedMedia Kind = "UNSUPPORTED_MEDIA_TYPE"
	KindInternal         Kind = "INTERNAL_ERROR"
)

// Error carries a user-facing Message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
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

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Auth(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func TooLarge(message string) *Error {
	return &Error{Kind: KindPayloadTooLarge, Message: message}
}

func UnsupportedMedia(message string) *Error {
	return &Error{Kind: KindUnsupportedMedia, Message: message}
}

// Internal wraps an unexpected failure; its message is never shown verbatim.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "Something went wrong. Please try again.", Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
