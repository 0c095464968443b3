// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the claim-verification chat screen of the TUI.

The Model is a thin Bubble Tea layer over conversation.Controller: key
presses become controller calls, and the view renders the controller's
transcript, staged image, loading state and last failure.

# Layout

  - transcript viewport, or the welcome screen until the first submission
  - loading indicator with elapsed time
  - failure banner (ctrl+r retry, esc dismiss)
  - staged image chip with thumbnail
  - claim input (textarea) and the image path prompt (ctrl+o)
  - footer with key hints and the disclaimer

# Asynchronous Work

Submit and StageImage return handles whose Done channels are awaited by
tea.Cmds (waitForVerification, waitForPreview); the resulting messages
only trigger a re-render.
*/
package chat
