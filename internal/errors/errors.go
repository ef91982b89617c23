// Package errors provides structured error types with helpful suggestions.
// Each error carries a classification matching how savesync reacts to it:
// configuration errors abort only the affected entry, local I/O errors abort
// the current operation, remote errors abort only the remote step, and
// cancellations are informational.
package errors

import (
	"fmt"
	"strings"
)

// ErrorType categorizes the type of error
type ErrorType int

const (
	// ConfigError indicates a missing or malformed entry, path, or setting
	ConfigError ErrorType = iota
	// LocalIOError indicates a disk failure during copy or restore
	LocalIOError
	// RemoteError indicates an authentication, network, or storage failure
	RemoteError
	// CancelledError indicates the user declined a selection
	CancelledError
	// NotFoundError indicates a file, directory, or version was not found
	NotFoundError
	// PermissionError indicates a file permission issue
	PermissionError
	// DiskSpaceError indicates insufficient disk space
	DiskSpaceError
	// UnknownError is a catch-all for unexpected errors
	UnknownError
)

// SyncError represents an error with context and suggestions
type SyncError struct {
	Type        ErrorType
	Message     string
	Suggestion  string
	Alternative string
	Cause       error
	Entry       string
}

// Error implements the error interface
func (e *SyncError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *SyncError) Unwrap() error {
	return e.Cause
}

// New creates a new SyncError
func New(errType ErrorType, message string) *SyncError {
	return &SyncError{
		Type:    errType,
		Message: message,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, message string) *SyncError {
	return &SyncError{
		Type:    errType,
		Message: message,
		Cause:   err,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *SyncError) WithSuggestion(suggestion string) *SyncError {
	e.Suggestion = suggestion
	return e
}

// WithAlternative adds an alternative solution to the error
func (e *SyncError) WithAlternative(alternative string) *SyncError {
	e.Alternative = alternative
	return e
}

// WithEntry tags the error with the save entry it belongs to
func (e *SyncError) WithEntry(name string) *SyncError {
	e.Entry = name
	return e
}

// DetectErrorType attempts to detect the error type from a generic error
func DetectErrorType(err error) ErrorType {
	if err == nil {
		return UnknownError
	}

	errStr := strings.ToLower(err.Error())

	if strings.Contains(errStr, "permission denied") || strings.Contains(errStr, "access denied") {
		return PermissionError
	}
	if strings.Contains(errStr, "no space left") || strings.Contains(errStr, "disk full") {
		return DiskSpaceError
	}
	if strings.Contains(errStr, "no such file") || strings.Contains(errStr, "does not exist") || strings.Contains(errStr, "not found") {
		return NotFoundError
	}
	if strings.Contains(errStr, "network") || strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "credential") ||
		strings.Contains(errStr, "access key") || strings.Contains(errStr, "bucket") {
		return RemoteError
	}
	if strings.Contains(errStr, "config") || strings.Contains(errStr, "yaml") {
		return ConfigError
	}

	return UnknownError
}

// WrapWithDetection wraps an error and attempts to detect its type
func WrapWithDetection(err error, message string) *SyncError {
	errType := DetectErrorType(err)
	syncErr := Wrap(err, errType, message)

	switch errType {
	case PermissionError:
		syncErr.WithSuggestion("Check file permissions using 'ls -la'").
			WithAlternative("Run with appropriate permissions or remove the entry")
	case DiskSpaceError:
		syncErr.WithSuggestion("Free up disk space by removing old versions").
			WithAlternative("Use 'savesync cleanup --keep 3' to trim local versions")
	case NotFoundError:
		syncErr.WithSuggestion("Verify the save folder exists").
			WithAlternative("Update the entry path with 'savesync config add'")
	case RemoteError:
		syncErr.WithSuggestion("Check your network connection and remote credentials").
			WithAlternative("Disable remote sync with 'savesync config set allow_remote_sync false'")
	case ConfigError:
		syncErr.WithSuggestion("Check your ~/.savesync.yaml configuration file").
			WithAlternative("Run 'savesync init' to regenerate the default configuration")
	}

	return syncErr
}

// Common error constructors

// NewConfigError creates a configuration error for a missing or bad entry
func NewConfigError(entry string, cause error) *SyncError {
	return &SyncError{
		Type:        ConfigError,
		Message:     fmt.Sprintf("Configuration error for entry: %s", entry),
		Suggestion:  "Check your ~/.savesync.yaml configuration file",
		Alternative: "Run 'savesync config show' to inspect configured entries",
		Cause:       cause,
		Entry:       entry,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(path string, cause error) *SyncError {
	return &SyncError{
		Type:        NotFoundError,
		Message:     fmt.Sprintf("File or directory not found: %s", path),
		Suggestion:  "Verify the path exists",
		Alternative: "Update ~/.savesync.yaml to fix the entry's save path",
		Cause:       cause,
	}
}

// NewRemoteError creates a remote storage error
func NewRemoteError(operation string, cause error) *SyncError {
	return &SyncError{
		Type:        RemoteError,
		Message:     fmt.Sprintf("Remote storage error during %s", operation),
		Suggestion:  "Check your internet connection and bucket configuration",
		Alternative: "Local versions are kept; retry the remote sync later",
		Cause:       cause,
	}
}

// NewCancelledError creates an informational cancellation error
func NewCancelledError(entry string) *SyncError {
	return &SyncError{
		Type:    CancelledError,
		Message: fmt.Sprintf("Selection cancelled for %s", entry),
		Entry:   entry,
	}
}

// IsCancelled checks if an error is a user cancellation
func IsCancelled(err error) bool {
	if syncErr, ok := err.(*SyncError); ok {
		return syncErr.Type == CancelledError
	}
	return false
}

// IsRemote checks if an error is a remote storage error
func IsRemote(err error) bool {
	if syncErr, ok := err.(*SyncError); ok {
		return syncErr.Type == RemoteError
	}
	return false
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	if syncErr, ok := err.(*SyncError); ok {
		return syncErr.Type == NotFoundError
	}
	return false
}

// IsRecoverable checks if the surrounding pass can continue with other entries
func IsRecoverable(err error) bool {
	if syncErr, ok := err.(*SyncError); ok {
		return syncErr.Type != UnknownError
	}
	return false
}
