// Package apperror is the error contract shared by the extraction, model,
// storage and request layers. Each failure carries a Kind so the HTTP layer
// can tell a missing document from a validation or backend failure.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation        Kind = "VALIDATION"
	KindNotFound          Kind = "NOT_FOUND"
	KindExtraction        Kind = "EXTRACTION"
	KindUnsupportedFormat Kind = "UNSUPPORTED_FORMAT"
	KindModelInvocation   Kind = "MODEL_INVOCATION"
	KindStorage           Kind = "STORAGE"
	KindInternal          Kind = "INTERNAL"
)

type Error struct {
	Kind    Kind
	Op      string // e.g. "Service.Chat"
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func E(kind Kind, op, msg string, err error) error {
	return &Error{Kind: kind, Op: op, Message: msg, Err: err}
}

// Wrap keeps an existing kind when err already carries one.
func Wrap(kind Kind, op, msg string, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return E(kind, op, msg, err)
}

// KindOf returns KindInternal for errors that were never classified.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind == kind
	}
	return false
}

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
