// Package apperrors classifies failures so the transport layer can map them
// to HTTP statuses without inspecting error strings.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind labels the category of a failure.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindUnauthorized Kind = "unauthorized"
	KindConflict     Kind = "conflict"
	KindStorage      Kind = "storage"
	KindInternal     Kind = "internal"
)

// Error carries a kind alongside the message and an optional cause.
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

// New creates a classified error with a plain message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a classified error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies an underlying error. An already classified cause keeps its
// original kind so the first classification wins.
func Wrap(kind Kind, message string, err error) error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return &Error{Kind: typed.Kind, Message: message, Err: err}
	}
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf reports the kind of the first classified error in the chain,
// or KindInternal when none is found.
func KindOf(err error) Kind {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	return KindInternal
}

// IsKind reports whether err is classified as the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
