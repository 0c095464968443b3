// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/verifact-tui/internal/conversation"
	"github.com/jeranaias/verifact-tui/internal/model"
)

// =============================================================================
// VERIFICATION MESSAGES
// =============================================================================

// VerificationDoneMsg reports that a submitted or retried verification
// finished. The controller has already updated the transcript.
type VerificationDoneMsg struct {
	Message *model.VerifactMessage
	Err     error
}

// waitForVerification blocks on p and reports its outcome.
func waitForVerification(p *conversation.Pending) tea.Cmd {
	return func() tea.Msg {
		<-p.Done()
		return VerificationDoneMsg{Message: p.Message(), Err: p.Err()}
	}
}

// =============================================================================
// IMAGE MESSAGES
// =============================================================================

// PreviewDoneMsg reports that an image preview finished decoding.
type PreviewDoneMsg struct {
	Name    string
	Current bool
	Err     error
}

func waitForPreview(s *conversation.Staging) tea.Cmd {
	return func() tea.Msg {
		<-s.Done()
		return PreviewDoneMsg{Name: s.Ref().Name, Current: s.Current(), Err: s.Err()}
	}
}

// =============================================================================
// EXPORT MESSAGES
// =============================================================================

// ExportDoneMsg reports the result of a transcript export.
type ExportDoneMsg struct {
	Path string
	Err  error
}
