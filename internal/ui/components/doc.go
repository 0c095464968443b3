// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the reusable pieces of the Verifact TUI.

  - Header: brand, Chat/History tabs and the profile line
  - Welcome: greeting and suggestion cards shown before the first claim
  - MessageBubble: user claims and verdict responses
  - FailureBanner: failed verification with retry and dismiss hints
  - Loading: spinner with elapsed time
  - StatusBar: key hints, notices and the disclaimer
  - Markdown: glamour rendering of verdict details
  - Highlight: chroma highlighting for CLI output

Components take a *styles.Theme and render strings; the chat and history
views compose them.
*/
package components
