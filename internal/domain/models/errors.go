package models

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports malformed or incomplete input.
type ValidationError struct {
	Reason string
	Fields []string
}

func NewValidationError(reason string, fields ...string) *ValidationError {
	return &ValidationError{Reason: reason, Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Reason, strings.Join(e.Fields, ", "))
}

// NotFoundError reports a reference to an unknown record.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// DeliveryError is a channel sender failure for one destination.
type DeliveryError struct {
	Channel     Channel
	Destination string
	Err         error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s delivery to %s: %v", strings.ToLower(string(e.Channel)), e.Destination, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
