// Package services defines the shared error taxonomy for the journal backend.
// Components tag failures with one of the sentinel markers below; the HTTP
// layer maps markers to response codes without string matching.
package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNotFound marks lookups of unknown manuscript, person, or text ids.
	ErrNotFound = errors.New("not found")
	// ErrInvalidAction marks action codes that are unknown or undefined for
	// the manuscript's current state.
	ErrInvalidAction = errors.New("invalid action")
	// ErrInvalidState marks unknown state codes.
	ErrInvalidState = errors.New("invalid state")
	// ErrForbidden marks actions the acting person's role does not permit.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation marks malformed or incomplete request payloads.
	ErrValidation = errors.New("validation error")
	// ErrConflict marks writes that collide with an existing record.
	ErrConflict = errors.New("conflict")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later status classification. The marker
// should be one of the exported sentinel errors above; a nil marker leaves
// the error untagged so HTTPStatus reports it as an internal failure.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	switch {
	case marker != nil && err != nil:
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	case marker != nil:
		return fmt.Errorf("%w: %s", marker, detail)
	case err != nil:
		return fmt.Errorf("%s: %w", detail, err)
	default:
		return errors.New(detail)
	}
}

// HTTPStatus maps a tagged error to the response code the API layer should
// send. Untagged errors are treated as internal failures.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidAction), errors.Is(err, ErrInvalidState):
		return http.StatusNotAcceptable
	case errors.Is(err, ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
