// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/verifact-tui/internal/conversation"
	"github.com/jeranaias/verifact-tui/internal/imageprev"
)

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Update handles messages and user input.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case VerificationDoneMsg:
		return m.handleVerificationDone(msg)

	case PreviewDoneMsg:
		if msg.Current && msg.Err != nil && !errors.Is(msg.Err, imageprev.ErrUnsupportedImage) {
			m.notice = fmt.Sprintf("No preview for %s: %v", msg.Name, msg.Err)
		}
		m.layout()
		return m, nil

	case ExportDoneMsg:
		switch {
		case errors.Is(msg.Err, errNothingToExport):
			m.notice = "Nothing to export yet"
		case msg.Err != nil:
			m.notice = "Export failed: " + msg.Err.Error()
		default:
			m.notice = "Exported to " + msg.Path
		}
		m.layout()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.loading, cmd = m.loading.Update(msg)
		return m, cmd
	}

	return m.forwardToInput(msg)
}

// View renders the chat screen below the application header.
func (m Model) View() string {
	return m.renderChat()
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleVerificationDone(msg VerificationDoneMsg) (tea.Model, tea.Cmd) {
	if !m.ctrl.Loading() {
		m.loading.Stop()
	}
	// Failures are shown by the banner, which reads LastFailure.
	m.notice = ""
	m.layout()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prompting {
		return m.handlePromptKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.status.SetShowAll(m.showHelp)
		m.layout()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		if m.welcomeVisible() {
			if s, ok := m.welcome.Focused(); ok {
				m.ctrl.ApplySuggestion(s.Prompt)
				m.welcome.Blur()
				cmd := m.syncFocusRequest()
				return m, cmd
			}
		}
		return m.submit()

	case key.Matches(msg, m.keys.NextSuggestion) && m.welcomeVisible():
		m.welcome.Next()
		return m, nil

	case key.Matches(msg, m.keys.PrevSuggestion) && m.welcomeVisible():
		m.welcome.Prev()
		return m, nil

	case key.Matches(msg, m.keys.Retry):
		return m.retry()

	case key.Matches(msg, m.keys.Dismiss):
		switch {
		case m.ctrl.LastFailure() != nil:
			m.ctrl.DismissFailure()
		case m.welcomeVisible():
			m.welcome.Blur()
		default:
			m.notice = ""
		}
		m.layout()
		return m, nil

	case key.Matches(msg, m.keys.AttachImage):
		m.prompting = true
		m.imagePrompt.Reset()
		m.input.Blur()
		focus := m.imagePrompt.Focus()
		m.layout()
		return m, tea.Batch(focus, textinput.Blink)

	case key.Matches(msg, m.keys.RemoveImage):
		m.ctrl.UnstageImage()
		m.layout()
		return m, nil

	case key.Matches(msg, m.keys.Export):
		return m, m.exportTranscript()

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	return m.forwardToInput(msg)
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closePrompt()
		focus := m.input.Focus()
		return m, focus

	case tea.KeyEnter:
		path := strings.Trim(strings.TrimSpace(m.imagePrompt.Value()), `"'`)
		m.closePrompt()
		focus := m.input.Focus()
		if path == "" {
			return m, focus
		}
		staging, err := m.ctrl.StageImage(m.ctx, imageprev.Ref(path))
		if err != nil {
			m.notice = "Cannot attach image: " + err.Error()
			return m, focus
		}
		m.notice = ""
		m.layout()
		return m, tea.Batch(focus, waitForPreview(staging))
	}

	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.imagePrompt, cmd = m.imagePrompt.Update(msg)
	return m, cmd
}

func (m *Model) closePrompt() {
	m.prompting = false
	m.imagePrompt.Blur()
	m.layout()
}

// submit hands the current draft to the controller.
func (m Model) submit() (tea.Model, tea.Cmd) {
	m.ctrl.SetDraft(m.input.Value())
	pending, err := m.ctrl.Submit(m.ctx)
	switch {
	case errors.Is(err, conversation.ErrNothingToSubmit):
		return m, nil
	case errors.Is(err, conversation.ErrInFlight):
		m.notice = "A verification is already in progress"
		return m, nil
	case err != nil:
		m.notice = "Cannot submit: " + err.Error()
		return m, nil
	}

	m.input.Reset()
	m.notice = ""
	start := m.loading.Start(m.now())
	m.layout()
	return m, tea.Batch(start, waitForVerification(pending))
}

func (m Model) retry() (tea.Model, tea.Cmd) {
	pending, err := m.ctrl.Retry(m.ctx)
	if err != nil {
		if errors.Is(err, conversation.ErrInFlight) {
			m.notice = "A verification is already in progress"
		}
		return m, nil
	}
	m.notice = ""
	start := m.loading.Start(m.now())
	m.layout()
	return m, tea.Batch(start, waitForVerification(pending))
}

// forwardToInput passes msg to the textarea and mirrors its value into the
// controller's draft.
func (m Model) forwardToInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.prompting {
		var cmd tea.Cmd
		m.imagePrompt, cmd = m.imagePrompt.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != m.ctrl.Draft() {
		m.ctrl.SetDraft(m.input.Value())
	}
	return m, cmd
}
