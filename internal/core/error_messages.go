// Package core provides the business logic for file conversion operations.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// Conversion errors (*Error) are mapped by kind; any other error is matched
// against the pattern table below.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the maximum upload size
//	          Action: Remove unneeded sheets or rows and upload again
//	          Patterns: "file too large"
//
//	FILE002 - Unsupported format: File type is not supported
//	          Action: Upload a .csv or .xlsx file
//	          Kind: unsupported_format
//
//	FILE003 - Unreadable file: File could not be parsed
//	          Action: Check the file opens in Excel and is saved as .csv or .xlsx
//	          Kind: parse_error
//
//	FILE004 - No file: No file was selected
//	          Action: Please select a file to upload
//	          Patterns: "no file provided"
//
//	FILE005 - Empty file: The uploaded file is empty
//	          Action: Upload a file with a header row and data rows
//	          Kind: empty_upload
//
//	FILE006 - Wrong layout: The workbook does not have the expected layout
//	          Action: Check the sheet and header row settings for this profile
//	          Kind: structural_error
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL004 - Missing column: A required column is missing from the file
//	         Action: Check that the column headers match the profile
//	         Kind: missing_column
//
//	VAL007 - Invalid option: A form option has an invalid value
//	         Action: Check the conversion options and try again
//	         Patterns: "invalid filter mode", "invalid output mode", "invalid option"
//
// # Conversion Errors (CNV001-CNV099)
//
//	CNV001 - System busy: Too many conversions in progress
//	         Action: Please wait a moment and try again
//	         Patterns: "too many concurrent conversions"
//
//	CNV002 - Download expired: The file was already downloaded or has expired
//	         Action: Convert the file again to get a new download
//	         Patterns: "artifact not found"
//
//	CNV003 - Unknown profile: The selected conversion profile does not exist
//	         Action: Pick one of the listed profiles
//	         Patterns: "unknown profile"
//
//	CNV004 - Request cancelled: Request was cancelled
//	         Action: Please try again
//	         Patterns: "context canceled"
//
//	CNV005 - Request timeout: Request timed out
//	         Action: Try a smaller file or try again later
//	         Patterns: "context deadline exceeded"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//	          Action: Please wait a moment before trying again
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// Patterns are matched case-insensitively using strings.Contains; the first
// match wins.
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

// kindMessages maps conversion error kinds to user messages.
var kindMessages = map[ErrorKind]UserMessage{
	UnsupportedFormat: {
		Message: "File type is not supported",
		Action:  "Upload a .csv or .xlsx file",
		Code:    "FILE002",
	},
	ParseError: {
		Message: "The file could not be read",
		Action:  "Check the file opens in Excel and is saved as .csv or .xlsx",
		Code:    "FILE003",
	},
	EmptyUpload: {
		Message: "The uploaded file is empty",
		Action:  "Upload a file with a header row and data rows",
		Code:    "FILE005",
	},
	StructuralError: {
		Message: "The workbook does not have the expected layout",
		Action:  "Check the sheet and header row settings for this profile",
		Code:    "FILE006",
	},
	MissingColumn: {
		Message: "A required column is missing from the file",
		Action:  "Check that the column headers match the profile",
		Code:    "VAL004",
	},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// More specific patterns come first.
var errorPatterns = []errorPattern{
	// =========================================================================
	// File Errors
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Remove unneeded sheets or rows and upload again",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a file to upload",
			Code:    "FILE004",
		},
	},

	// =========================================================================
	// Validation Errors
	// =========================================================================
	{
		pattern: "invalid filter mode",
		msg: UserMessage{
			Message: "The filter option is not valid",
			Action:  "Use one of: in, equals, present, none",
			Code:    "VAL007",
		},
	},
	{
		pattern: "invalid output mode",
		msg: UserMessage{
			Message: "The output option is not valid",
			Action:  "Use manifest or delimited",
			Code:    "VAL007",
		},
	},
	{
		pattern: "invalid option",
		msg: UserMessage{
			Message: "A conversion option has an invalid value",
			Action:  "Check the conversion options and try again",
			Code:    "VAL007",
		},
	},

	// =========================================================================
	// Conversion Errors
	// =========================================================================
	{
		pattern: "too many concurrent conversions",
		msg: UserMessage{
			Message: "Too many conversions in progress",
			Action:  "Please wait a moment and try again",
			Code:    "CNV001",
		},
	},
	{
		pattern: "artifact not found",
		msg: UserMessage{
			Message: "This download has already been used or has expired",
			Action:  "Convert the file again to get a new download",
			Code:    "CNV002",
		},
	},
	{
		pattern: "unknown profile",
		msg: UserMessage{
			Message: "The selected conversion profile does not exist",
			Action:  "Pick one of the listed profiles",
			Code:    "CNV003",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "CNV004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or try again later",
			Code:    "CNV005",
		},
	},

	// =========================================================================
	// Rate Limiting
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
// Conversion errors keep their own message as the detail so users see which
// column or sheet was the problem:
//
//	err := MissingColumnError("Customer")
//	msg := MapError(err)
//	// msg.Code == "VAL004"
//	// msg.Message == `A required column is missing from the file: column not found: "Customer"`
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var ce *Error
	if errors.As(err, &ce) {
		if msg, ok := kindMessages[ce.Kind]; ok {
			msg.Message = msg.Message + ": " + ce.Message
			return msg
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

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than the
// generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging while providing a clean message for users.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError creates a UserError by mapping a technical error to a
// user-friendly message. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
