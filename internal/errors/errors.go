package errors

import (
	"fmt"
)

// ErrorCode represents stable error codes for analysis failure modes
type ErrorCode string

const (
	// WorkspaceUnreadable indicates the workspace root cannot be enumerated
	WorkspaceUnreadable ErrorCode = "WORKSPACE_UNREADABLE"
	// ProjectConfigInvalid indicates a project.json or tsconfig could not be used
	ProjectConfigInvalid ErrorCode = "PROJECT_CONFIG_INVALID"
	// FileReadFailed indicates a source file could not be read
	FileReadFailed ErrorCode = "FILE_READ_FAILED"
	// ParseFailed indicates a source file could not be parsed
	ParseFailed ErrorCode = "PARSE_FAILED"
	// OutputFailed indicates the analysis document could not be written
	OutputFailed ErrorCode = "OUTPUT_FAILED"
	// StoreFailed indicates the graph store could not be opened or written
	StoreFailed ErrorCode = "STORE_FAILED"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// EditFile suggests editing a configuration file
	EditFile FixActionType = "edit-file"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Path        string        `json:"path,omitempty"`
	Description string        `json:"description,omitempty"`
}

// NgaError represents an analyzer error with code, message, and suggestions
type NgaError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error
}

// NewNgaError creates a new NgaError
func NewNgaError(code ErrorCode, message string, cause error, suggestedFixes []FixAction) *NgaError {
	return &NgaError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: suggestedFixes,
	}
}

// Error implements the error interface
func (e *NgaError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *NgaError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *NgaError) WithDetails(details interface{}) *NgaError {
	e.Details = details
	return e
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	WorkspaceUnreadable: {
		{
			Type:        RunCommand,
			Command:     "nga analyze --dir <workspace-root>",
			Description: "Point the analyzer at a readable Nx workspace root",
		},
	},
	ProjectConfigInvalid: {
		{
			Type:        EditFile,
			Path:        "project.json",
			Description: "Fix the JSON syntax of the project configuration",
		},
	},
	OutputFailed: {
		{
			Type:        RunCommand,
			Command:     "nga analyze --output <writable-path>",
			Description: "Write the analysis document to a writable location",
		},
	},
	StoreFailed: {
		{
			Type:        RunCommand,
			Command:     "nga analyze --db .nga/graph.db",
			Description: "Re-run the analysis to recreate the graph store",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}

// CodeOf returns the code of the first NgaError in err's chain, or InternalError.
func CodeOf(err error) ErrorCode {
	for err != nil {
		if e, ok := err.(*NgaError); ok {
			return e.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return InternalError
}
