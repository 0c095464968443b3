// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "strings"

// =============================================================================
// VERIFICATION STATUS
// =============================================================================

// Status is the categorical outcome of analyzing a claim.
type Status string

const (
	StatusVerified     Status = "verified"
	StatusDebunked     Status = "debunked"
	StatusPending      Status = "pending"
	StatusInconclusive Status = "inconclusive"
)

// AllStatuses lists the known statuses in display order.
var AllStatuses = []Status{
	StatusVerified,
	StatusDebunked,
	StatusPending,
	StatusInconclusive,
}

// String returns the wire form of the status.
func (s Status) String() string {
	return string(s)
}

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusVerified, StatusDebunked, StatusPending, StatusInconclusive:
		return true
	default:
		return false
	}
}

// Title returns the capitalized label ("Verified", "Debunked", ...).
// Unknown values are titled as-is so they remain visible in logs.
func (s Status) Title() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// ParseStatus parses a status in any letter case.
// The second return value is false for anything outside the known set.
func ParseStatus(raw string) (Status, bool) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return StatusPending, false
	}
	return s, true
}

// Normalize returns s when it is known and StatusPending otherwise.
func (s Status) Normalize() Status {
	if s.Valid() {
		return s
	}
	return StatusPending
}
