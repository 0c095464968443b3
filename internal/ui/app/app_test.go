// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/verifact-tui/internal/config"
	"github.com/jeranaias/verifact-tui/internal/conversation"
	"github.com/jeranaias/verifact-tui/internal/history"
	"github.com/jeranaias/verifact-tui/internal/model"
	"github.com/jeranaias/verifact-tui/internal/ui/historyview"
	"github.com/jeranaias/verifact-tui/internal/ui/styles"
	"github.com/jeranaias/verifact-tui/internal/verify"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type fixture struct {
	m    Model
	ctrl *conversation.Controller
	repo *history.MemoryRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := history.NewMemoryRepository(history.MockRecords()...)
	ctrl := conversation.New(conversation.Options{
		Verifier: verify.VerifierFunc(func(ctx context.Context, q model.Query) (verify.Result, error) {
			return verify.Result{Status: model.StatusVerified, Summary: "ok"}, nil
		}),
		Recorder: repo,
		Timeout:  time.Second,
	})
	t.Cleanup(ctrl.Close)

	cfg := config.Default()
	cfg.Profile.FullName = "Ada Lovelace"

	m := New(Options{
		Controller: ctrl,
		Repository: repo,
		Config:     cfg,
		Theme:      styles.NewTheme(styles.ModeDark),
		ExportDir:  t.TempDir(),
	})
	f := &fixture{m: m, ctrl: ctrl, repo: repo}
	f.send(t, tea.WindowSizeMsg{Width: 120, Height: 40})
	return f
}

func (f *fixture) send(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	next, cmd := f.m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	f.m = out
	return cmd
}

func (f *fixture) loadList(t *testing.T) {
	t.Helper()
	recs, err := f.repo.List(context.Background())
	require.NoError(t, err)
	f.send(t, historyview.RecordsLoadedMsg{Records: recs})
}

type noopMsg struct{}

// =============================================================================
// TESTS
// =============================================================================

func TestNew_StartsOnChatWithProfile(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, ScreenChat, f.m.Screen())
	assert.Equal(t, conversation.PathChat, f.m.Path())
	view := f.m.View()
	assert.Contains(t, view, "Verifact")
	assert.Contains(t, view, "Ada Lovelace")
	assert.Contains(t, view, "Welcome to Verifact!")
}

func TestGlobalKeys_SwitchSections(t *testing.T) {
	f := newFixture(t)

	f.send(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2"), Alt: true})
	assert.Equal(t, ScreenHistory, f.m.Screen())
	f.loadList(t)
	assert.Contains(t, f.m.View(), "Verification History")

	f.send(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1"), Alt: true})
	assert.Equal(t, ScreenChat, f.m.Screen())
}

func TestHistoryToDetailAndBack(t *testing.T) {
	f := newFixture(t)
	f.send(t, NavigateMsg{Path: conversation.PathHistory})
	f.loadList(t)

	// Newest first: record 4 is on top, record 1 second.
	f.send(t, tea.KeyMsg{Type: tea.KeyDown})
	f.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, ScreenDetail, f.m.Screen())
	assert.Equal(t, conversation.DetailPath("1"), f.m.Path())

	rec, err := f.repo.Get(context.Background(), "1")
	require.NoError(t, err)
	f.send(t, historyview.RecordLoadedMsg{ID: "1", Record: rec})
	assert.Contains(t, f.m.View(), "Original Claim")

	f.send(t, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ScreenHistory, f.m.Screen())
}

func TestEmptyHistoryActionReturnsToChat(t *testing.T) {
	f := newFixture(t)
	f.send(t, NavigateMsg{Path: conversation.PathHistory})
	f.send(t, historyview.RecordsLoadedMsg{})
	assert.Contains(t, f.m.View(), "No History Yet")

	f.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ScreenChat, f.m.Screen())
}

func TestControllerNavigateIsApplied(t *testing.T) {
	f := newFixture(t)

	f.ctrl.Navigate(conversation.PathHistory)
	f.send(t, noopMsg{})
	assert.Equal(t, ScreenHistory, f.m.Screen())
}

func TestUnknownPathFallsBackToChat(t *testing.T) {
	f := newFixture(t)
	f.send(t, NavigateMsg{Path: conversation.PathHistory})

	f.send(t, NavigateMsg{Path: "/settings"})
	assert.Equal(t, ScreenChat, f.m.Screen())
	assert.Equal(t, conversation.PathChat, f.m.Path())
}

func TestConfigChangedUpdatesProfile(t *testing.T) {
	f := newFixture(t)
	cfg := config.Default()
	cfg.Profile.Username = "grace"

	f.send(t, ConfigChangedMsg{Config: cfg})
	assert.Equal(t, "grace", f.m.Header().Profile)
}

func TestNavigator_DropsWhenFull(t *testing.T) {
	n := newChannelNavigator()
	for i := 0; i < navQueueSize+3; i++ {
		n.Navigate(conversation.PathChat)
	}
	assert.Len(t, n.ch, navQueueSize)

	msg := n.listen()()
	assert.Equal(t, NavigateMsg{Path: conversation.PathChat}, msg)
}
