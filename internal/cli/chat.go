// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Line-mode verification session.
//
// Command: chat
// Short:   Verify claims in a line-mode session
//
// Each line is submitted as a claim. Arrow keys browse input history,
// which is kept in ~/.verifact/chat_history.
//
// Interactive Commands:
//   /help, /h           Show available commands
//   /image <path>       Attach an image to the next claim
//   /image              Remove the attached image
//   /retry, /r          Retry the last failed verification
//   /history [n]        Show the n most recent verifications (default 5)
//   /suggest            Show example claims
//   /quit, /q           Exit
//   Ctrl+D              Exit

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/verifact-tui/internal/config"
	"github.com/jeranaias/verifact-tui/internal/conversation"
	"github.com/jeranaias/verifact-tui/internal/history"
	"github.com/jeranaias/verifact-tui/internal/imageprev"
	"github.com/jeranaias/verifact-tui/internal/ui/components"
	"github.com/jeranaias/verifact-tui/internal/ui/styles"
	"github.com/jeranaias/verifact-tui/internal/util"
)

const (
	chatPrompt      = "verifact> "
	chatHistoryFile = "chat_history"
)

func newChatCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Verify claims in a line-mode session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(flags)
			if err != nil {
				return err
			}
			defer env.Close()

			repo, err := env.OpenHistory()
			if err != nil {
				return err
			}
			defer repo.Close()

			ctrl, err := env.NewController(repo)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			line := newLineEditor()
			defer line.Close()

			r := &repl{
				ctrl:  ctrl,
				repo:  repo,
				in:    line,
				out:   cmd.OutOrStdout(),
				md:    components.NewMarkdown(styles.NewTheme(env.Config.UI.Theme), env.Config.UI.Markdown && ColorsEnabled()),
				width: GetTerminalWidth(),
			}
			return r.run(cmd.Context())
		},
	}
}

// =============================================================================
// INPUT HISTORY
// =============================================================================

// lineReader is the part of liner the session needs.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// lineEditor wraps liner with a persistent history file.
type lineEditor struct {
	*liner.State
	historyFile string
}

func newLineEditor() *lineEditor {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	e := &lineEditor{State: state, historyFile: filepath.Join(dir, chatHistoryFile)}
	if f, err := os.Open(e.historyFile); err == nil {
		_, _ = state.ReadHistory(f)
		f.Close()
	}
	return e
}

// Close saves history with owner-only permissions and restores the terminal.
func (e *lineEditor) Close() error {
	if err := os.MkdirAll(filepath.Dir(e.historyFile), 0700); err == nil {
		if f, err := os.OpenFile(e.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			_, _ = e.State.WriteHistory(f)
			f.Close()
		}
	}
	return e.State.Close()
}

// =============================================================================
// SESSION
// =============================================================================

type repl struct {
	ctrl  *conversation.Controller
	repo  history.Repository
	in    lineReader
	out   io.Writer
	md    *components.Markdown
	width int
}

func (r *repl) run(ctx context.Context) error {
	fmt.Fprintln(r.out, TitleStyle.Render("Welcome to Verifact!"))
	fmt.Fprintln(r.out, DimStyle.Render("Type a claim to verify it. /help lists commands, Ctrl+D exits."))
	fmt.Fprintln(r.out)

	for {
		input, err := r.in.Prompt(chatPrompt)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintln(r.out)
				return nil
			}
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		r.in.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			if quit := r.command(ctx, input); quit {
				return nil
			}
			continue
		}
		r.submit(ctx, input)
	}
}

// command runs a slash command. It returns true when the session should end.
func (r *repl) command(ctx context.Context, input string) bool {
	fields := strings.Fields(input)
	name := strings.ToLower(fields[0])
	arg := strings.TrimSpace(strings.TrimPrefix(input, fields[0]))

	switch name {
	case "/quit", "/q", "/exit":
		return true

	case "/help", "/h", "/?":
		r.printHelp()

	case "/image", "/img":
		if arg == "" {
			r.ctrl.UnstageImage()
			fmt.Fprintln(r.out, DimStyle.Render("Image removed."))
			return false
		}
		path := strings.Trim(arg, `"'`)
		if _, err := r.ctrl.StageImage(ctx, imageprev.Ref(path)); err != nil {
			r.printError(err)
			return false
		}
		fmt.Fprintln(r.out, DimStyle.Render("Attached "+filepath.Base(path)+". It is sent with your next claim."))

	case "/retry", "/r":
		pending, err := r.ctrl.Retry(ctx)
		if err != nil {
			r.printError(err)
			return false
		}
		r.await(ctx, pending)

	case "/history":
		n := 5
		if arg != "" {
			v, err := strconv.Atoi(arg)
			if err != nil || v <= 0 {
				r.printError(NewValidationError("count", arg, "must be a positive number"))
				return false
			}
			n = v
		}
		r.printHistory(ctx, n)

	case "/suggest":
		for _, s := range conversation.Suggestions() {
			fmt.Fprintf(r.out, "%s\n  %s\n", ValueStyle.Render(s.Title), DimStyle.Render(s.Prompt))
		}

	default:
		r.printError(fmt.Errorf("unknown command %s (try /help)", fields[0]))
	}
	return false
}

func (r *repl) submit(ctx context.Context, claim string) {
	r.ctrl.SetDraft(claim)
	pending, err := r.ctrl.Submit(ctx)
	if err != nil {
		r.printError(err)
		return
	}
	r.await(ctx, pending)
}

func (r *repl) await(ctx context.Context, pending *conversation.Pending) {
	fmt.Fprintln(r.out, DimStyle.Render("Verifying..."))
	msg, err := pending.Wait(ctx)
	if err != nil {
		r.printError(err)
		fmt.Fprintln(r.out, DimStyle.Render("Type /retry to try again."))
		return
	}
	fmt.Fprintln(r.out)
	printVerdict(r.out, msg, r.md, r.width)
	fmt.Fprintln(r.out)
}

func (r *repl) printHistory(ctx context.Context, n int) {
	if r.repo == nil {
		return
	}
	recs, err := r.repo.List(ctx)
	if err != nil {
		r.printError(err)
		return
	}
	recs = history.Apply(recs, history.DefaultQuery())
	if len(recs) == 0 {
		fmt.Fprintln(r.out, DimStyle.Render("No history yet."))
		return
	}
	if len(recs) > n {
		recs = recs[:n]
	}
	for _, rec := range recs {
		fmt.Fprintf(r.out, "%s  %s  %s\n",
			RenderStatus(rec.Status),
			DimStyle.Render(util.FormatShortDate(rec.VerificationDate)),
			util.TruncateWidth(util.OneLine(rec.ClaimText), r.width-30))
	}
}

func (r *repl) printHelp() {
	rows := [][2]string{
		{"/image <path>", "attach an image to the next claim"},
		{"/image", "remove the attached image"},
		{"/retry", "retry the last failed verification"},
		{"/history [n]", "show recent verifications"},
		{"/suggest", "show example claims"},
		{"/quit", "exit"},
	}
	for _, row := range rows {
		fmt.Fprintf(r.out, "  %s %s\n", RenderLabel(row[0]), DimStyle.Render(row[1]))
	}
}

func (r *repl) printError(err error) {
	fmt.Fprintf(r.out, "%s %v\n", ErrorStyle.Render("[ERROR]"), err)
}
