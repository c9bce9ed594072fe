// Package errors provides structured error handling for xpubkit.
// It defines sentinel errors, exit codes, and helpers for adding
// context, details, and suggestions to errors.
//
//nolint:revive // Package name intentionally shadows stdlib for domain-specific error handling
package errors

import (
	"errors"
	"fmt"
	"sort"
)

// Exit codes for the CLI.
const (
	ExitSuccess  = 0 // Successful execution
	ExitGeneral  = 1 // General/unknown error
	ExitInput    = 2 // Invalid input
	ExitNotFound = 4 // Resource not found
)

// XpubError is the structured error type for xpubkit.
type XpubError struct {
	Code       string            // Machine-readable error code
	Message    string            // Human-readable message
	Details    map[string]string // Additional context
	Suggestion string            // Actionable suggestion for user
	Cause      error             // Underlying error
	ExitCode   int               // Exit code for CLI
}

func (e *XpubError) Error() string {
	msg := e.Message

	// Include details in error message (sorted for deterministic output)
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msg = fmt.Sprintf("%s (%s: %s)", msg, k, e.Details[k])
		}
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *XpubError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for XpubError.
func (e *XpubError) Is(target error) bool {
	var t *XpubError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinel errors.
//
// The four derivation errors (UNKNOWN_PREFIX, MALFORMED_KEY,
// INVALID_DERIVATION_PATH, ENCODING_FAILURE) form the complete failure
// taxonomy of the derivation pipeline; callers can match on them exhaustively.
var (
	ErrGeneral = &XpubError{
		Code:     "GENERAL_ERROR",
		Message:  "an error occurred",
		ExitCode: ExitGeneral,
	}

	ErrInvalidInput = &XpubError{
		Code:     "INVALID_INPUT",
		Message:  "invalid input",
		ExitCode: ExitInput,
	}

	ErrUnknownPrefix = &XpubError{
		Code:       "UNKNOWN_PREFIX",
		Message:    "unsupported key format",
		Suggestion: "supported prefixes are xpub, ypub, zpub, tpub, upub and vpub",
		ExitCode:   ExitInput,
	}

	ErrMalformedKey = &XpubError{
		Code:       "MALFORMED_KEY",
		Message:    "invalid key - check for typos",
		Suggestion: "re-copy the extended public key from your wallet export",
		ExitCode:   ExitInput,
	}

	ErrInvalidDerivationPath = &XpubError{
		Code:     "INVALID_DERIVATION_PATH",
		Message:  "derivation path outside the non-hardened range",
		ExitCode: ExitInput,
	}

	ErrEncodingFailure = &XpubError{
		Code:     "ENCODING_FAILURE",
		Message:  "could not encode address from key material",
		ExitCode: ExitGeneral,
	}

	// Config-specific errors.
	ErrConfigNotFound = &XpubError{
		Code:     "CONFIG_NOT_FOUND",
		Message:  "configuration file not found",
		ExitCode: ExitNotFound,
	}

	ErrConfigInvalid = &XpubError{
		Code:     "CONFIG_INVALID",
		Message:  "configuration file is invalid",
		ExitCode: ExitInput,
	}

	ErrUnknownConfigKey = &XpubError{
		Code:     "UNKNOWN_CONFIG_KEY",
		Message:  "unknown config key",
		ExitCode: ExitInput,
	}

	// Scan-specific errors.
	ErrActivitySource = &XpubError{
		Code:     "ACTIVITY_SOURCE_ERROR",
		Message:  "address activity source failed",
		ExitCode: ExitGeneral,
	}
)

// New creates a new XpubError with the given code and message.
func New(code, message string) *XpubError {
	return &XpubError{
		Code:     code,
		Message:  message,
		ExitCode: ExitGeneral,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, args...)

	var xe *XpubError
	if errors.As(err, &xe) {
		return &XpubError{
			Code:       xe.Code,
			Message:    fmt.Sprintf("%s: %s", msg, xe.Message),
			Details:    xe.Details,
			Suggestion: xe.Suggestion,
			Cause:      err,
			ExitCode:   xe.ExitCode,
		}
	}

	return &XpubError{
		Code:     "GENERAL_ERROR",
		Message:  msg,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithDetails adds details to an error.
func WithDetails(err error, details map[string]string) error {
	if err == nil {
		return nil
	}

	var xe *XpubError
	if errors.As(err, &xe) {
		return &XpubError{
			Code:       xe.Code,
			Message:    xe.Message,
			Details:    details,
			Suggestion: xe.Suggestion,
			Cause:      xe.Cause,
			ExitCode:   xe.ExitCode,
		}
	}

	return &XpubError{
		Code:     "GENERAL_ERROR",
		Message:  err.Error(),
		Details:  details,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithSuggestion adds a suggestion to an error.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}

	var xe *XpubError
	if errors.As(err, &xe) {
		return &XpubError{
			Code:       xe.Code,
			Message:    xe.Message,
			Details:    xe.Details,
			Suggestion: suggestion,
			Cause:      xe.Cause,
			ExitCode:   xe.ExitCode,
		}
	}

	return &XpubError{
		Code:       "GENERAL_ERROR",
		Message:    err.Error(),
		Suggestion: suggestion,
		Cause:      err,
		ExitCode:   ExitGeneral,
	}
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var xe *XpubError
	if errors.As(err, &xe) {
		return xe.ExitCode
	}

	return ExitGeneral
}

// Code returns the error code for an error.
func Code(err error) string {
	var xe *XpubError
	if errors.As(err, &xe) {
		return xe.Code
	}
	return "GENERAL_ERROR"
}

// Is wraps errors.Is for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience.
func As(err error, target any) bool {
	return errors.As(err, target)
}
