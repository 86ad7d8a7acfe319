// Package errors provides structured error types for net2mat.
//
// Every failure that ends a conversion run carries a [Code], so the CLI can
// report it consistently and tests can match on the kind of failure rather
// than on message text.
//
// # Error Codes
//
//   - INVALID_ARGUMENT: wrong arity or an output path that cannot be understood
//   - DOCUMENT_PARSE: the input document cannot be opened or decoded
//   - DANGLING_REFERENCE: a connection names a node id that does not exist
//   - DUPLICATE_ID: an id occurs twice while duplicates are rejected
//   - ARTIFACT_CREATION: the output file cannot be created or written
//   - NULL_VARIABLE: an array could not be wrapped into a container variable
//   - INVALID_CONFIG: the configuration file is malformed or has invalid values
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidArgument, "output path %q was not understood", p)
//	if errors.Is(err, errors.ErrCodeInvalidArgument) {
//	    // print usage
//	}
//
//	err := errors.Wrap(errors.ErrCodeDocumentParse, origErr, "open %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the conversion pipeline.
const (
	ErrCodeInvalidArgument   Code = "INVALID_ARGUMENT"
	ErrCodeDocumentParse     Code = "DOCUMENT_PARSE"
	ErrCodeDanglingReference Code = "DANGLING_REFERENCE"
	ErrCodeDuplicateID       Code = "DUPLICATE_ID"
	ErrCodeArtifactCreation  Code = "ARTIFACT_CREATION"
	ErrCodeNullVariable      Code = "NULL_VARIABLE"
	ErrCodeInvalidConfig     Code = "INVALID_CONFIG"
	ErrCodeInternal          Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// coder is implemented by error types that carry their own code without
// being an *Error.
type coder interface {
	Code() Code
}

// Is reports whether err has the given error code.
// It walks the error chain and returns true at the first *Error or coded
// error whose code matches.
func Is(err error, code Code) bool {
	for err != nil {
		switch e := err.(type) {
		case *Error:
			if e.Code == code {
				return true
			}
		case coder:
			if e.Code() == code {
				return true
			}
		}
		err = errors.Unwrap(err)
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
// Returns empty string if no coded error is found in the chain.
func GetCode(err error) Code {
	for err != nil {
		switch e := err.(type) {
		case *Error:
			return e.Code
		case coder:
			return e.Code()
		}
		err = errors.Unwrap(err)
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// DanglingReferenceError reports a connection whose endpoint does not name
// any node in the network.
type DanglingReferenceError struct {
	ConnectionID string // id of the offending connection
	Endpoint     string // "from" or "to"
	NodeID       string // the id that could not be resolved
}

// Error implements the error interface.
func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("%s: connection %q references unknown %s node %q",
		ErrCodeDanglingReference, e.ConnectionID, e.Endpoint, e.NodeID)
}

// Code returns the error code for this error type.
func (e *DanglingReferenceError) Code() Code {
	return ErrCodeDanglingReference
}
