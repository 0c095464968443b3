// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Unified error handling for verifact CLI commands.
//
// STANDARDIZED PATTERN:
//   - Commands return errors; they never print and return nil
//   - run() displays the error once and maps it to an exit code
//   - Structured error types carry the details JSON mode reports

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jeranaias/verifact-tui/internal/config"
	"github.com/jeranaias/verifact-tui/internal/conversation"
	"github.com/jeranaias/verifact-tui/internal/history"
	"github.com/jeranaias/verifact-tui/internal/verify"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitNetworkError indicates the verification service could not be reached
	ExitNetworkError = 5
	// ExitNotFoundError indicates a claim was not found
	ExitNotFoundError = 7
	// ExitTimeoutError indicates a verification timed out
	ExitTimeoutError = 8
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ValidationError represents invalid user input.
type ValidationError struct {
	Field   string
	Value   string
	Reason  string
	Example string
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	if e.Value != "" {
		msg += fmt.Sprintf(" (got: %s)", e.Value)
	}
	if e.Example != "" {
		msg += fmt.Sprintf("\nExample: %s", e.Example)
	}
	return msg
}

// ConfigError wraps a failure to load or apply the configuration.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("config %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("config: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a validation error.
func NewValidationError(field, value, reason string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

// =============================================================================
// DISPLAY
// =============================================================================

// DisplayError reports err on stderr, or as a JSON error response on stdout
// in JSON mode.
func DisplayError(stdout, stderr io.Writer, err error, jsonMode bool) {
	if err == nil {
		return
	}
	if jsonMode {
		resp := NewJSONErrorResponse(err)
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(resp)
		return
	}
	fmt.Fprintf(stderr, "%s %s\n", ErrorStyle.Render("[ERROR]"), err.Error())
}

// ErrorType names the category of err for JSON output.
func ErrorType(err error) string {
	var validation *ValidationError
	var cfgErr *ConfigError
	switch {
	case errors.As(err, &validation):
		return "validation_error"
	case errors.As(err, &cfgErr):
		return "config_error"
	case errors.Is(err, history.ErrNotFound):
		return "not_found_error"
	case errors.Is(err, verify.ErrTimeout):
		return "timeout"
	case errors.Is(err, verify.ErrRequestFailed):
		return "request_failed"
	default:
		return "generic_error"
	}
}

// ExitCode determines the process exit code for err.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var validation *ValidationError
	if errors.As(err, &validation) {
		return ExitUsageError
	}
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return ExitConfigError
	}
	var cfgValidation config.ValidateErrors
	if errors.As(err, &cfgValidation) {
		return ExitConfigError
	}

	switch {
	case errors.Is(err, conversation.ErrNothingToSubmit):
		return ExitUsageError
	case errors.Is(err, history.ErrNotFound):
		return ExitNotFoundError
	case errors.Is(err, verify.ErrTimeout):
		return ExitTimeoutError
	case errors.Is(err, verify.ErrRequestFailed):
		return ExitNetworkError
	}
	return ExitGeneralError
}
