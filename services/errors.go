package services

import (
	"errors"
	"fmt"
)

// ValidationError is returned when a required field is missing or invalid
type ValidationError struct {
	Code    string
	Message string
	// Fields maps a json field name to what is wrong with it
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError is returned when an operation targets a row that does not exist
type NotFoundError struct {
	Code    string
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// ConflictError is returned when a write would break a uniqueness rule
type ConflictError struct {
	Code    string
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// UnauthorizedError is returned when credentials do not match
type UnauthorizedError struct {
	Code    string
	Message string
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

func validationErr(format string, args ...any) error {
	return &ValidationError{Code: "VALIDATION_ERROR", Message: fmt.Sprintf(format, args...)}
}

func notFound(code, message string) error {
	return &NotFoundError{Code: code, Message: message}
}

// IsNotFound reports whether err (or anything it wraps) is a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err (or anything it wraps) is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConflict reports whether err (or anything it wraps) is a ConflictError
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
