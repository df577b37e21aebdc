// Package docerr defines the error taxonomy surfaced by the normalization and
// report rendering pipeline. Every error that crosses the HTTP boundary is
// reduced to a {code, message} pair.
package docerr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a pipeline failure.
type Kind string

const (
	KindMalformedInput  Kind = "malformed_input"
	KindSchemaViolation Kind = "schema_violation"
	KindRender          Kind = "render"
)

// Error is a classified pipeline failure.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Code returns the HTTP status associated with the error kind.
func (e *Error) Code() int {
	switch e.Kind {
	case KindMalformedInput, KindSchemaViolation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Malformed reports input that is not parseable JSON.
func Malformed(err error) *Error {
	return &Error{
		Kind:    KindMalformedInput,
		Message: fmt.Sprintf("Malformed request. %v", err),
		Err:     err,
	}
}

// SchemaViolation reports a required structural field that is absent or has
// an unexpected shape. Only the first offending field is ever reported.
func SchemaViolation(field, detail string) *Error {
	return &Error{
		Kind:    KindSchemaViolation,
		Field:   field,
		Message: "Bad request, " + detail,
	}
}

// Render wraps a failure raised while building or serializing a document.
func Render(err error) *Error {
	return &Error{
		Kind:    KindRender,
		Message: fmt.Sprintf("Service error. %v.", err),
		Err:     err,
	}
}

// Is reports whether err carries a docerr.Error of the given kind.
func Is(err error, kind Kind) bool {
	var de *Error
	return errors.As(err, &de) && de.Kind == kind
}

// CodeOf maps any error to an HTTP status. Unclassified errors are 500.
func CodeOf(err error) int {
	var de *Error
	if errors.As(err, &de) {
		return de.Code()
	}
	return http.StatusInternalServerError
}

// Body is the JSON error envelope returned to callers.
type Body struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// BodyOf builds the response envelope for err.
func BodyOf(err error) Body {
	var de *Error
	if errors.As(err, &de) {
		return Body{Code: de.Code(), Message: de.Message}
	}
	return Body{Code: http.StatusInternalServerError, Message: Render(err).Message}
}
