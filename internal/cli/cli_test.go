// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/verifact-tui/internal/config"
	"github.com/jeranaias/verifact-tui/internal/conversation"
	"github.com/jeranaias/verifact-tui/internal/history"
	"github.com/jeranaias/verifact-tui/internal/model"
	"github.com/jeranaias/verifact-tui/internal/ui/components"
	"github.com/jeranaias/verifact-tui/internal/ui/styles"
	"github.com/jeranaias/verifact-tui/internal/verify"
)

// =============================================================================
// HELPERS
// =============================================================================

// testHome points VERIFACT_HOME at a temp dir with a config that uses an
// instant mock verifier and a file-backed history seeded with the demo
// records. It returns the config path.
func testHome(t *testing.T) string {
	t.Helper()
	ForceColorsEnabled(false)
	dir := t.TempDir()
	t.Setenv("VERIFACT_HOME", dir)
	for _, env := range []string{"VERIFACT_BACKEND", "VERIFACT_ENDPOINT", "VERIFACT_API_KEY",
		"VERIFACT_TIMEOUT", "VERIFACT_HISTORY", "VERIFACT_THEME", "VERIFACT_LOG_LEVEL"} {
		t.Setenv(env, "")
	}

	path := filepath.Join(dir, "config.toml")
	content := fmt.Sprintf(`[verifier]
backend = "mock"
mock_delay_ms = 0

[history]
backend = "file"
path = %q
seed_demo = true

[log]
path = %q
`, filepath.Join(dir, "history"), filepath.Join(dir, "verifact.log"))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

type result struct {
	code   int
	stdout string
	stderr string
}

func execute(t *testing.T, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), NewRootCommand(), args, &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// decode parses a JSON response and re-decodes its data into out.
func decode(t *testing.T, raw string, out interface{}) JSONResponse {
	t.Helper()
	var resp JSONResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp), raw)
	if out != nil {
		data, err := json.Marshal(resp.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, out))
	}
	return resp
}

func recordIDs(recs []history.Record) []string {
	ids := make([]string, len(recs))
	for i, r := range recs {
		ids[i] = r.ID
	}
	return ids
}

// =============================================================================
// VERSION
// =============================================================================

func TestVersion(t *testing.T) {
	r := execute(t, "version")
	require.Equal(t, ExitSuccess, r.code)
	assert.Contains(t, r.stdout, "verifact "+Version)

	r = execute(t, "version", "--json")
	require.Equal(t, ExitSuccess, r.code)
	var info map[string]string
	resp := decode(t, r.stdout, &info)
	assert.True(t, resp.Success)
	assert.Equal(t, "version", resp.Command)
	assert.Equal(t, Version, info["version"])
}

func TestUnknownCommandFails(t *testing.T) {
	r := execute(t, "frobnicate")
	assert.NotEqual(t, ExitSuccess, r.code)
	assert.Contains(t, r.stderr, "unknown command")
}

// =============================================================================
// HISTORY
// =============================================================================

func TestHistory_ListNewestFirst(t *testing.T) {
	testHome(t)

	r := execute(t, "history", "--json")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	var recs []history.Record
	decode(t, r.stdout, &recs)
	assert.Equal(t, []string{"4", "1", "2", "3"}, recordIDs(recs))
}

func TestHistory_FilterAndSort(t *testing.T) {
	testHome(t)

	r := execute(t, "history", "--json", "--status", "debunked")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	var recs []history.Record
	decode(t, r.stdout, &recs)
	assert.Equal(t, []string{"1"}, recordIDs(recs))

	r = execute(t, "history", "--json", "--order", "asc", "-n", "2")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	recs = nil
	decode(t, r.stdout, &recs)
	assert.Equal(t, []string{"3", "2"}, recordIDs(recs))

	r = execute(t, "history", "--json", "--search", "COFFEE")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	recs = nil
	decode(t, r.stdout, &recs)
	assert.Equal(t, []string{"2"}, recordIDs(recs))
}

func TestHistory_TextOutput(t *testing.T) {
	testHome(t)

	r := execute(t, "history")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Scientists discover that cats")
	assert.Contains(t, r.stdout, "4 of 4 claims")

	r = execute(t, "history", "--search", "no such claim")
	require.Equal(t, ExitSuccess, r.code)
	assert.Contains(t, r.stdout, "No Matching Claims")
}

func TestHistory_InvalidFlags(t *testing.T) {
	testHome(t)

	for _, args := range [][]string{
		{"history", "--status", "maybe"},
		{"history", "--sort", "length"},
		{"history", "--order", "sideways"},
		{"history", "-n", "-1"},
	} {
		r := execute(t, args...)
		assert.Equal(t, ExitUsageError, r.code, "%v", args)
	}
}

func TestHistory_Show(t *testing.T) {
	testHome(t)

	r := execute(t, "history", "show", "2")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Original Claim")
	assert.Contains(t, r.stdout, "Verified")
	assert.Contains(t, r.stdout, "Verification Details")

	r = execute(t, "history", "show", "2", "--json")
	require.Equal(t, ExitSuccess, r.code)
	var rec history.Record
	decode(t, r.stdout, &rec)
	assert.Equal(t, model.StatusVerified, rec.Status)
}

func TestHistory_ShowNotFound(t *testing.T) {
	testHome(t)

	r := execute(t, "history", "show", "99", "--json")
	assert.Equal(t, ExitNotFoundError, r.code)
	resp := decode(t, r.stdout, nil)
	assert.False(t, resp.Success)
	assert.Equal(t, "not_found_error", resp.ErrorType)
}

func TestHistory_Delete(t *testing.T) {
	testHome(t)

	r := execute(t, "history", "delete", "3")
	require.Equal(t, ExitSuccess, r.code, r.stderr)

	r = execute(t, "history", "--json")
	var recs []history.Record
	decode(t, r.stdout, &recs)
	assert.Equal(t, []string{"4", "1", "2"}, recordIDs(recs))

	r = execute(t, "history", "delete", "3")
	assert.Equal(t, ExitNotFoundError, r.code)
}

// =============================================================================
// VERIFY
// =============================================================================

func TestVerify_RequiresClaim(t *testing.T) {
	testHome(t)

	r := execute(t, "verify")
	assert.Equal(t, ExitUsageError, r.code)
	assert.Contains(t, r.stderr, "claim")
}

func TestVerify_RecordsResult(t *testing.T) {
	testHome(t)

	r := execute(t, "verify", "--json", "Bananas", "are", "berries")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	var msg model.VerifactMessage
	resp := decode(t, r.stdout, &msg)
	assert.True(t, resp.Success)
	assert.Equal(t, "Bananas are berries", msg.OriginalQuery.Text)
	assert.True(t, msg.Status.Valid())

	r = execute(t, "history", "--json", "--search", "bananas")
	require.Equal(t, ExitSuccess, r.code)
	var recs []history.Record
	decode(t, r.stdout, &recs)
	require.Len(t, recs, 1)
	assert.Equal(t, msg.Status, recs[0].Status)
}

func TestVerify_ImageOnly(t *testing.T) {
	testHome(t)
	img := filepath.Join(t.TempDir(), "canal.png")

	r := execute(t, "verify", "--json", "--image", img)
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	var msg model.VerifactMessage
	decode(t, r.stdout, &msg)
	assert.Equal(t, "canal.png", msg.OriginalQuery.ImageName)
	assert.Empty(t, msg.OriginalQuery.Text)
}

// =============================================================================
// EXPORT
// =============================================================================

func TestExport_ToFile(t *testing.T) {
	testHome(t)
	out := filepath.Join(t.TempDir(), "history.json")

	r := execute(t, "export", "--format", "json", "--out", out, "--status", "debunked")
	require.Equal(t, ExitSuccess, r.code, r.stderr)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "photosynthesize")
	assert.NotContains(t, string(data), "coffee")
}

func TestExport_Stdout(t *testing.T) {
	testHome(t)

	r := execute(t, "export", "--search", "venice")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Venice")
}

func TestExport_Errors(t *testing.T) {
	testHome(t)

	r := execute(t, "export", "--format", "pdf")
	assert.Equal(t, ExitUsageError, r.code)

	r = execute(t, "export", "--search", "no such claim")
	assert.Equal(t, ExitGeneralError, r.code)
	assert.Contains(t, r.stderr, "nothing to export")
}

// =============================================================================
// CONFIG
// =============================================================================

func TestConfig_GetSet(t *testing.T) {
	path := testHome(t)

	r := execute(t, "config", "get", "verifier.backend")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, "mock", strings.TrimSpace(r.stdout))

	r = execute(t, "config", "set", "ui.theme", "dark")
	require.Equal(t, ExitSuccess, r.code, r.stderr)

	cfg, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "dark", cfg.UI.Theme)
	assert.Equal(t, 0, cfg.Verifier.MockDelayMs, "existing values survive a set")

	r = execute(t, "config", "set", "ui.theme", "neon")
	assert.Equal(t, ExitConfigError, r.code)

	r = execute(t, "config", "get", "ui.colour")
	assert.Equal(t, ExitUsageError, r.code)
}

func TestConfig_SecretsRedacted(t *testing.T) {
	testHome(t)

	r := execute(t, "config", "set", "verifier.api_key", "s3cret")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.NotContains(t, r.stdout, "s3cret")

	r = execute(t, "config", "get", "verifier.api_key")
	assert.Equal(t, redacted, strings.TrimSpace(r.stdout))

	r = execute(t, "config", "show", "--json")
	require.Equal(t, ExitSuccess, r.code)
	assert.NotContains(t, r.stdout, "s3cret")
}

func TestConfig_InvalidFile(t *testing.T) {
	path := testHome(t)
	require.NoError(t, os.WriteFile(path, []byte("[ui]\ntheme = \"neon\"\n"), 0600))

	r := execute(t, "history")
	assert.Equal(t, ExitConfigError, r.code)
}

func TestConfig_Keys(t *testing.T) {
	r := execute(t, "config", "keys")
	require.Equal(t, ExitSuccess, r.code)
	assert.Contains(t, r.stdout, "verifier.backend\n")
	assert.Contains(t, r.stdout, "profile.full_name\n")
}

// =============================================================================
// CHAT SESSION
// =============================================================================

// scriptedReader feeds lines to the session and then reports EOF.
type scriptedReader struct {
	lines   []string
	history []string
}

func (s *scriptedReader) Prompt(string) (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func (s *scriptedReader) AppendHistory(item string) {
	s.history = append(s.history, item)
}

func newTestREPL(t *testing.T, v verify.Verifier, lines ...string) (*repl, *scriptedReader, *bytes.Buffer) {
	t.Helper()
	repo := history.NewMemoryRepository(history.MockRecords()...)
	ctrl := conversation.New(conversation.Options{Verifier: v, Recorder: repo})
	t.Cleanup(ctrl.Close)

	in := &scriptedReader{lines: lines}
	out := &bytes.Buffer{}
	return &repl{
		ctrl:  ctrl,
		repo:  repo,
		in:    in,
		out:   out,
		md:    components.NewMarkdown(styles.NewTheme(styles.ModeDark), false),
		width: 80,
	}, in, out
}

func TestREPL_VerifiesAndShowsHistory(t *testing.T) {
	v := verify.VerifierFunc(func(ctx context.Context, q model.Query) (verify.Result, error) {
		return verify.Result{Status: model.StatusVerified, Summary: "Checks out.", Details: "First.\n\nSecond."}, nil
	})
	r, in, out := newTestREPL(t, v, "Water is wet", "", "/history 2", "/bogus", "/quit", "never read")

	require.NoError(t, r.run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Verified")
	assert.Contains(t, text, "Checks out.")
	assert.Contains(t, text, "Second.")
	assert.Contains(t, text, "Water is wet")
	assert.Contains(t, text, "unknown command /bogus")
	assert.Equal(t, []string{"Water is wet", "/history 2", "/bogus", "/quit"}, in.history)
	assert.Equal(t, []string{"never read"}, in.lines)
}

func TestREPL_RetryAfterFailure(t *testing.T) {
	calls := 0
	v := verify.VerifierFunc(func(ctx context.Context, q model.Query) (verify.Result, error) {
		calls++
		if calls == 1 {
			return verify.Result{}, errors.New("upstream unavailable")
		}
		return verify.Result{Status: model.StatusDebunked, Summary: "Not true."}, nil
	})
	r, _, out := newTestREPL(t, v, "The moon is cheese", "/retry")

	require.NoError(t, r.run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Type /retry to try again.")
	assert.Contains(t, text, "Debunked")
	assert.Contains(t, text, "Not true.")
	assert.Equal(t, 2, calls)
}

func TestREPL_RetryWithoutFailure(t *testing.T) {
	r, _, out := newTestREPL(t, verify.NewMockVerifier(verify.WithDelay(0)), "/retry", "/history x")

	require.NoError(t, r.run(context.Background()))
	assert.Contains(t, out.String(), conversation.ErrNothingToRetry.Error())
	assert.Contains(t, out.String(), "must be a positive number")
}

// =============================================================================
// ERRORS
// =============================================================================

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"validation", NewValidationError("x", "y", "bad"), ExitUsageError},
		{"config", &ConfigError{Path: "p", Err: errors.New("broken")}, ExitConfigError},
		{"config validation", config.ValidateErrors{{Field: "ui.theme", Message: "bad"}}, ExitConfigError},
		{"nothing to submit", conversation.ErrNothingToSubmit, ExitUsageError},
		{"not found", fmt.Errorf("claim 9: %w", history.ErrNotFound), ExitNotFoundError},
		{"timeout", fmt.Errorf("verify: %w", verify.ErrTimeout), ExitTimeoutError},
		{"request failed", fmt.Errorf("verify: %w", verify.ErrRequestFailed), ExitNetworkError},
		{"other", errors.New("boom"), ExitGeneralError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestDisplayError_JSON(t *testing.T) {
	var stdout, stderr bytes.Buffer
	DisplayError(&stdout, &stderr, NewValidationError("format", "pdf", "unsupported"), true)

	assert.Empty(t, stderr.String())
	resp := decode(t, stdout.String(), nil)
	assert.False(t, resp.Success)
	assert.Equal(t, "validation_error", resp.ErrorType)
	require.NotNil(t, resp.Error)
	assert.Contains(t, *resp.Error, "pdf")
}
