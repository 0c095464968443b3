// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/verifact-tui/internal/conversation"
	"github.com/jeranaias/verifact-tui/internal/export"
	"github.com/jeranaias/verifact-tui/internal/model"
	"github.com/jeranaias/verifact-tui/internal/ui/styles"
	"github.com/jeranaias/verifact-tui/internal/verify"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func verified() verify.Verifier {
	return verify.VerifierFunc(func(ctx context.Context, q model.Query) (verify.Result, error) {
		return verify.Result{Status: model.StatusVerified, Summary: "Looks right.", Details: "Checked."}, nil
	})
}

func newTestModel(t *testing.T, v verify.Verifier, mutate ...func(*Options)) Model {
	t.Helper()
	ctrl := conversation.New(conversation.Options{Verifier: v, Timeout: 5 * time.Second})
	t.Cleanup(ctrl.Close)

	opts := Options{
		Controller:  ctrl,
		Theme:       styles.NewTheme(styles.ModeDark),
		ShowWelcome: true,
		ExportDir:   t.TempDir(),
	}
	for _, fn := range mutate {
		fn(&opts)
	}
	m := New(opts)
	m.SetSize(100, 40)
	return m
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func waitIdle(t *testing.T, ctrl *conversation.Controller) {
	t.Helper()
	require.Eventually(t, func() bool { return !ctrl.Loading() }, 2*time.Second, 5*time.Millisecond)
}

// =============================================================================
// WELCOME TESTS
// =============================================================================

func TestWelcome_ShownUntilFirstSubmission(t *testing.T) {
	m := newTestModel(t, verified())
	assert.Contains(t, m.View(), "Welcome to Verifact!")

	m = typeText(t, m, "sky is blue")
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	waitIdle(t, m.Controller())
	m, _ = send(t, m, VerificationDoneMsg{})

	assert.NotContains(t, m.View(), "Welcome to Verifact!")
}

func TestWelcome_Disabled(t *testing.T) {
	m := newTestModel(t, verified(), func(o *Options) { o.ShowWelcome = false })
	assert.NotContains(t, m.View(), "Welcome to Verifact!")
}

func TestWelcome_SuggestionFillsDraftWithoutSubmitting(t *testing.T) {
	m := newTestModel(t, verified())
	first := conversation.Suggestions()[0]

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, 0, m.Controller().Len())
	assert.Equal(t, first.Prompt, m.Controller().Draft())
	assert.Equal(t, first.Prompt, m.input.Value())
	assert.False(t, m.Controller().Started())
}

// =============================================================================
// SUBMIT TESTS
// =============================================================================

func TestSubmit_AppendsAndRendersVerdict(t *testing.T) {
	m := newTestModel(t, verified())
	m = typeText(t, m, "water is wet")
	assert.Equal(t, "water is wet", m.Controller().Draft())

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Empty(t, m.input.Value())

	waitIdle(t, m.Controller())
	require.Equal(t, 2, m.Controller().Len())

	m, _ = send(t, m, VerificationDoneMsg{})
	view := m.View()
	assert.Contains(t, view, "water is wet")
	assert.Contains(t, view, "Verified")
	assert.Contains(t, view, "Looks right.")
}

func TestSubmit_BlankIsNoop(t *testing.T) {
	m := newTestModel(t, verified())
	m = typeText(t, m, "   ")
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, 0, m.Controller().Len())
}

func TestSubmit_ShowsLoadingWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	blocking := verify.VerifierFunc(func(ctx context.Context, q model.Query) (verify.Result, error) {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return verify.Result{Status: model.StatusDebunked}, nil
	})
	m := newTestModel(t, blocking)
	m = typeText(t, m, "claim")
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Contains(t, m.View(), "Verifying...")

	m = typeText(t, m, "second")
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "A verification is already in progress", m.Notice())
	assert.Equal(t, 1, m.Controller().Len())

	close(release)
	waitIdle(t, m.Controller())
	m, _ = send(t, m, VerificationDoneMsg{})
	assert.NotContains(t, m.View(), "Verifying...")
}

// =============================================================================
// FAILURE TESTS
// =============================================================================

func TestFailure_BannerRetryAndDismiss(t *testing.T) {
	var calls atomic.Int32
	flaky := verify.VerifierFunc(func(ctx context.Context, q model.Query) (verify.Result, error) {
		if calls.Add(1) == 1 {
			return verify.Result{}, errors.New("boom")
		}
		return verify.Result{Status: model.StatusInconclusive, Summary: "Unclear."}, nil
	})
	m := newTestModel(t, flaky)

	m = typeText(t, m, "flaky claim")
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	waitIdle(t, m.Controller())
	m, _ = send(t, m, VerificationDoneMsg{Err: verify.ErrRequestFailed})

	assert.Contains(t, m.View(), "Verification failed")
	assert.Equal(t, 1, m.Controller().Len())

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	require.NotNil(t, cmd)
	waitIdle(t, m.Controller())
	m, _ = send(t, m, VerificationDoneMsg{})

	assert.Equal(t, 2, m.Controller().Len())
	assert.Nil(t, m.Controller().LastFailure())
	assert.NotContains(t, m.View(), "Verification failed")
}

func TestFailure_EscDismisses(t *testing.T) {
	failing := verify.VerifierFunc(func(ctx context.Context, q model.Query) (verify.Result, error) {
		return verify.Result{}, errors.New("down")
	})
	m := newTestModel(t, failing)
	m = typeText(t, m, "x")
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	waitIdle(t, m.Controller())
	m, _ = send(t, m, VerificationDoneMsg{})
	require.NotNil(t, m.Controller().LastFailure())

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, m.Controller().LastFailure())

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Nil(t, cmd)
}

// =============================================================================
// IMAGE TESTS
// =============================================================================

func TestImagePrompt_StagesImage(t *testing.T) {
	m := newTestModel(t, verified())

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	require.True(t, m.Prompting())
	m = typeText(t, m, "/nonexistent/proof.png")
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.False(t, m.Prompting())

	st := m.Controller().StagedImage()
	require.NotNil(t, st)
	assert.Equal(t, "proof.png", st.Ref.Name)
	assert.Contains(t, m.View(), "[image] proof.png")

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	assert.Nil(t, m.Controller().StagedImage())
}

func TestImagePrompt_EscCancels(t *testing.T) {
	m := newTestModel(t, verified())
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	m = typeText(t, m, "a.png")
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.Prompting())
	assert.Nil(t, m.Controller().StagedImage())
}

// =============================================================================
// EXPORT AND FOOTER TESTS
// =============================================================================

func TestExport_WritesTranscript(t *testing.T) {
	m := newTestModel(t, verified(), func(o *Options) { o.ExportFormat = export.FormatJSON })
	m = typeText(t, m, "exportable")
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	waitIdle(t, m.Controller())

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlE})
	require.NotNil(t, cmd)
	done, ok := cmd().(ExportDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.Err)

	data, err := os.ReadFile(done.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "exportable")

	m, _ = send(t, m, done)
	assert.Contains(t, m.Notice(), "Exported to")
}

func TestExport_EmptyTranscript(t *testing.T) {
	m := newTestModel(t, verified())
	_, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlE})
	done := cmd().(ExportDoneMsg)
	m, _ = send(t, m, done)
	assert.Equal(t, "Nothing to export yet", m.Notice())
}

func TestFooter_ShowsDisclaimer(t *testing.T) {
	m := newTestModel(t, verified())
	m.SetSize(120, 40)
	assert.Contains(t, m.View(), "Verifact can make mistakes.")
}
