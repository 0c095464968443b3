// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"net/url"
	"strings"
)

// Route paths understood by the application shell.
const (
	PathChat    = "/chat"
	PathHistory = "/chat/history"
)

// Navigator switches the visible screen. The TUI root model implements it.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

// Navigate calls f(path).
func (f NavigatorFunc) Navigate(path string) { f(path) }

// DetailPath returns the path of the claim detail screen for id.
func DetailPath(id string) string {
	return PathHistory + "/" + url.PathEscape(id)
}

// ParseDetailPath extracts the claim ID from a detail path.
func ParseDetailPath(path string) (string, bool) {
	rest, ok := strings.CutPrefix(path, PathHistory+"/")
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	id, err := url.PathUnescape(rest)
	if err != nil || id == "" {
		return "", false
	}
	return id, true
}
