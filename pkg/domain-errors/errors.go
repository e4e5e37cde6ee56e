// Package domainerrors provides coded domain errors for the kudos gateway.
//
// Services return these instead of raw errors so handlers can translate a
// failure into an HTTP status without string matching, and so tests can
// assert on the failure kind rather than its message. Infrastructure facts
// (row missing, backend down) use pkg/platform/sentinel and get wrapped into
// a coded error at the service boundary.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies a class of domain failure.
type Code string

const (
	// Signed-operation authorization failures.
	CodeInvalidSignature Code = "invalid_signature" // recovered signer does not match the required identity
	CodeUnknownCommunity Code = "unknown_community" // community uniq id absent from the registry
	CodeNotAllowlisted   Code = "not_allowlisted"   // claimee missing from the token's allowlist
	CodeAlreadyClaimed   Code = "already_claimed"   // claimee balance for the token already non-zero
	CodeUnauthorized     Code = "unauthorized"      // caller is not the owner, or signer is not the token creator
	CodePaused           Code = "paused"            // mutating entry point hit while the gate is paused
	CodeNonMintTransfer  Code = "non_mint_transfer" // ledger rejected a balance move that is not a mint

	// Ambient failures.
	CodeInvalidInput Code = "invalid_input"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeInternal     Code = "internal"

	// CodeInvariantViolation marks corrupted state. These are never expected
	// in a healthy deployment and should page, not retry.
	CodeInvariantViolation Code = "invariant_violation"
)

// Error is a domain failure with a machine-readable code.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a coded domain error.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded domain error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error, preserving the
// cause chain for errors.Is/errors.As.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.cause
		if err == nil {
			return false
		}
	}
	return false
}

// Is is shorthand for HasCode, matching how handlers read.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf returns the outermost code in the chain, or CodeInternal when the
// error carries none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
