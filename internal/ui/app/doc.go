// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the root Bubble Tea model of the verifact TUI.
//
// It renders the header (brand, Chat/History tabs, profile) and routes
// navigation paths to screens:
//
//	/chat                  chat screen
//	/chat/history          history list
//	/chat/history/<id>     claim detail
//
// The conversation controller and the history screens navigate through a
// channel-backed conversation.Navigator owned by the model. Requests made
// while handling a message are applied before Update returns; requests
// from other goroutines arrive as NavigateMsg.
package app
