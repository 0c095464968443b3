// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// output.go - JSON output for scripting.
//
// Every command that accepts --json wraps its data in a JSONResponse so
// scripts can rely on one envelope. Human-readable notes go to stderr in
// JSON mode.

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jeranaias/verifact-tui/internal/ui/components"
)

// JSONResponse is the envelope of all JSON command output.
type JSONResponse struct {
	// Success indicates whether the command completed successfully
	Success bool `json:"success"`

	// Data contains the command-specific response data
	Data interface{} `json:"data"`

	// Error contains the error message if Success is false
	Error *string `json:"error"`

	// ErrorType categorizes the error (see ErrorType)
	ErrorType string `json:"error_type,omitempty"`

	// Timestamp is the RFC 3339 time the response was generated
	Timestamp string `json:"timestamp"`

	// Command is the command that was executed
	Command string `json:"command,omitempty"`
}

// NewJSONResponse creates a successful response.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates an error response.
func NewJSONErrorResponse(err error) *JSONResponse {
	msg := err.Error()
	return &JSONResponse{
		Success:   false,
		Error:     &msg,
		ErrorType: ErrorType(err),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// writeJSON writes v as indented JSON, highlighted when w is a colour
// terminal.
func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	out := string(data)
	if isColorTerminal(w) {
		out = components.HighlightJSON(out)
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// isColorTerminal reports whether w is stdout and stdout is a colour TTY.
func isColorTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && f == os.Stdout && ColorsEnabled()
}
