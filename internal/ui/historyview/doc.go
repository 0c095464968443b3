// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package historyview implements the verification history screens.
//
// ListModel browses past verifications with a case-insensitive search over
// claim text and summary, a status filter and a date or status sort. An
// empty repository shows an empty state whose action returns to the chat.
//
// DetailModel shows a single claim: the original text and image, the
// verdict badge and date, the explanation and the supporting evidence.
//
// Both screens navigate through a conversation.Navigator using the paths
// conversation.PathChat, conversation.PathHistory and
// conversation.DetailPath.
package historyview
