// Package core provides the SIRUTA registry engine.
//
// # Error Codes Reference
//
// This file maps errors to user-facing messages with a code operators can
// quote when reporting a problem.
//
// # Source Errors (SRC001-SRC099)
//
//	SRC001 - Registry source unavailable: the SIRUTA file could not be read
//	         Action: Check SIRUTA_FILE and file permissions
//	         Sentinel: ErrSourceUnavailable
//
//	SRC002 - Strict load rejected a row
//	         Action: Fix the reported row or disable SIRUTA_STRICT
//	         Sentinel: ErrStrictDiagnostic
//
//	SRC003 - Registry not loaded yet
//	         Action: Retry after the initial load completes
//	         Sentinel: ErrNoRegistry
//
// # Query Errors (QRY001-QRY099)
//
//	QRY001 - Code not found: the SIRUTA code is not in the database
//	         Action: Verify the code, see /api/validate/{code}
//	         Sentinel: ErrNotFound
//
//	QRY002 - Invalid filter: a county, type or code list could not be parsed
//	         Action: Use comma-separated positive integers
//	         Sentinel: ErrInvalidFilter
//
//	QRY003 - Not supported: lookup by name is not implemented
//	         Action: Query by SIRUTA code, or list codes with a name filter
//	         Sentinel: ErrNotSupported
//
//	QRY004 - Invalid diacritics mode
//	         Action: Use a combination of strip, cedilla and pre1993
//	         Sentinel: ErrInvalidDiacritics
//
// # Export Errors (EXP001-EXP099)
//
//	EXP001 - Database unreachable during export
//	         Patterns: "connection refused", "connection reset"
//
//	EXP002 - Export timed out
//	         Patterns: "timeout", "deadline exceeded"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled
//	         Patterns: "context canceled"
//
//	REQ002 - Reload already running
//	         Action: Retry once the current reload finishes
//	         Sentinel: ErrBusy
//
// # Default Error (ERR000)
//
// Sentinels are checked with errors.Is before patterns. Patterns are matched
// case-insensitively using strings.Contains; the first match wins.
package core

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type sentinelMessage struct {
	err error
	msg UserMessage
}

var sentinelMessages = []sentinelMessage{
	{ErrSourceUnavailable, UserMessage{
		Message: "Registry source unavailable",
		Action:  "Check SIRUTA_FILE and file permissions",
		Code:    "SRC001",
	}},
	{ErrStrictDiagnostic, UserMessage{
		Message: "Registry row rejected in strict mode",
		Action:  "Fix the reported row or disable SIRUTA_STRICT",
		Code:    "SRC002",
	}},
	{ErrNoRegistry, UserMessage{
		Message: "Registry not loaded yet",
		Action:  "Retry after the initial load completes",
		Code:    "SRC003",
	}},
	{ErrNotFound, UserMessage{
		Message: "SIRUTA code is not in the database",
		Action:  "Verify the code, see /api/validate/{code}",
		Code:    "QRY001",
	}},
	{ErrInvalidFilter, UserMessage{
		Message: "Invalid list filter",
		Action:  "Use comma-separated positive integers",
		Code:    "QRY002",
	}},
	{ErrNotSupported, UserMessage{
		Message: "Lookup by name is not supported",
		Action:  "Query by SIRUTA code, or list codes with a name filter",
		Code:    "QRY003",
	}},
	{ErrInvalidDiacritics, UserMessage{
		Message: "Invalid diacritics mode",
		Action:  "Use a combination of strip, cedilla and pre1993",
		Code:    "QRY004",
	}},
	{ErrBusy, UserMessage{
		Message: "A registry reload is already running",
		Action:  "Retry once the current reload finishes",
		Code:    "REQ002",
	}},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns covers errors from outside the package, mostly the database
// driver used by the exporter. More specific patterns come first.
var errorPatterns = []errorPattern{
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "EXP001",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "EXP001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "deadline exceeded",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again later",
			Code:    "EXP002",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again later",
			Code:    "EXP002",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts an error to a user-friendly message.
// Returns an empty UserMessage for nil.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError returns a single-line message with code and action.
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the default.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
