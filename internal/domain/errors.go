// internal/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeInvalidInput       ErrorCode = "INVALID_INPUT"
	CodeNotFound           ErrorCode = "NOT_FOUND"
	CodeUpstreamFailure    ErrorCode = "UPSTREAM_FAILURE"
	CodeCatalogUnavailable ErrorCode = "CATALOG_UNAVAILABLE"
	CodeInternal           ErrorCode = "INTERNAL"
)

var (
	ErrNegativeAmount = errors.New("amount must not be negative")
	ErrNonNumeric     = errors.New("amount must be a number")
	ErrNotInteger     = errors.New("amount must be a whole number")
	ErrAmountTooLarge = errors.New("amount is too large")
)

// Error carries a code the transport layer maps to a status.
type Error struct {
	Code    ErrorCode
	Message string
	Field   string
	Err     error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Invalid(field, message string) *Error {
	return &Error{Code: CodeInvalidInput, Field: field, Message: message}
}

// Upstream hides the collaborator's error behind a fixed message.
func Upstream(message string, err error) *Error {
	return &Error{Code: CodeUpstreamFailure, Message: message, Err: err}
}

func CatalogUnavailable(err error) *Error {
	return &Error{Code: CodeCatalogUnavailable, Message: "card catalog unavailable", Err: err}
}

// CodeOf returns INTERNAL for errors that carry no code.
func CodeOf(err error) ErrorCode {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
