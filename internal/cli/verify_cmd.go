// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// verify_cmd.go - One-shot claim verification.
//
// Command: verify [claim...]
// Short:   Verify a claim and print the verdict
//
// Examples:
//   verifact verify "Cats can photosynthesize"
//   verifact verify --image proof.png "Dolphins in Venice"
//   verifact verify --image proof.png
//   verifact verify --json "Coffee adds 5 years"
//
// The verdict is recorded in the configured history.

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/verifact-tui/internal/conversation"
	"github.com/jeranaias/verifact-tui/internal/imageprev"
	"github.com/jeranaias/verifact-tui/internal/model"
	"github.com/jeranaias/verifact-tui/internal/ui/components"
	"github.com/jeranaias/verifact-tui/internal/ui/styles"
)

func newVerifyCommand(flags *globalFlags) *cobra.Command {
	var imagePath string

	cmd := &cobra.Command{
		Use:   "verify [claim...]",
		Short: "Verify a claim and print the verdict",
		Example: `  verifact verify "Cats can photosynthesize"
  verifact verify --image proof.png "Dolphins in Venice"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			claim := strings.TrimSpace(strings.Join(args, " "))
			if claim == "" && imagePath == "" {
				return &ValidationError{
					Field:   "claim",
					Reason:  "a claim or --image is required",
					Example: `verifact verify "The moon is made of cheese"`,
				}
			}

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

			msg, err := verifyOnce(cmd.Context(), ctrl, claim, imagePath)
			if err != nil {
				return err
			}

			if flags.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), NewJSONResponse("verify", msg))
			}
			md := components.NewMarkdown(styles.NewTheme(env.Config.UI.Theme), env.Config.UI.Markdown && ColorsEnabled())
			printVerdict(cmd.OutOrStdout(), msg, md, GetTerminalWidth())
			return nil
		},
	}

	cmd.Flags().StringVarP(&imagePath, "image", "i", "", "attach an image (PNG, JPEG or GIF)")
	return cmd
}

// verifyOnce submits claim (and the optional image) on ctrl and waits for
// the verdict.
func verifyOnce(ctx context.Context, ctrl *conversation.Controller, claim, imagePath string) (*model.VerifactMessage, error) {
	if imagePath != "" {
		if _, err := ctrl.StageImage(ctx, imageprev.Ref(imagePath)); err != nil {
			return nil, fmt.Errorf("attach image: %w", err)
		}
	}
	ctrl.SetDraft(claim)

	pending, err := ctrl.Submit(ctx)
	if err != nil {
		return nil, err
	}
	return pending.Wait(ctx)
}

// printVerdict renders a verification result for the terminal.
func printVerdict(w io.Writer, msg *model.VerifactMessage, md *components.Markdown, width int) {
	fmt.Fprintln(w, RenderStatus(msg.Status))
	fmt.Fprintln(w, DimStyle.Render("Claim: "+msg.OriginalQuery.Label()))
	if msg.Summary != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, ValueStyle.Render(msg.Summary))
	}
	if paras := msg.Paragraphs(); len(paras) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, md.RenderParagraphs(paras, width))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, DimStyle.Render(components.Disclaimer))
}
