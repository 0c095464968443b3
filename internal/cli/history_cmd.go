// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// history_cmd.go - Browse past verifications.
//
// Command: history [subcommand]
// Short:   List, show and delete past verifications
//
// Subcommands:
//   (default)       List claims, newest first
//   show <id>       Show one claim with details and evidence
//   delete <id>     Remove a claim
//
// Examples:
//   verifact history
//   verifact history --status debunked
//   verifact history --search coffee --sort status --order asc
//   verifact history show 2 --json

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/verifact-tui/internal/history"
	"github.com/jeranaias/verifact-tui/internal/model"
	"github.com/jeranaias/verifact-tui/internal/ui/components"
	"github.com/jeranaias/verifact-tui/internal/ui/styles"
	"github.com/jeranaias/verifact-tui/internal/util"
)

// queryFlags are the filter and sort flags shared by history and export.
type queryFlags struct {
	search string
	status string
	sortBy string
	order  string
	limit  int
}

func (q *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&q.search, "search", "s", "", "case-insensitive search in claim text and summary")
	cmd.Flags().StringVar(&q.status, "status", "all", "status filter: all, verified, debunked, pending, inconclusive")
	cmd.Flags().StringVar(&q.sortBy, "sort", "date", "sort key: date or status")
	cmd.Flags().StringVar(&q.order, "order", "desc", "sort order: asc or desc")
	cmd.Flags().IntVarP(&q.limit, "limit", "n", 0, "show at most n claims (0 = all)")
}

// query parses the flags into a history.Query.
func (q *queryFlags) query() (history.Query, error) {
	status, err := history.ParseStatusFilter(q.status)
	if err != nil {
		return history.Query{}, &ValidationError{Field: "status", Value: q.status, Reason: err.Error()}
	}
	sortBy, err := history.ParseSortKey(q.sortBy)
	if err != nil {
		return history.Query{}, &ValidationError{Field: "sort", Value: q.sortBy, Reason: err.Error()}
	}
	order, err := history.ParseSortOrder(q.order)
	if err != nil {
		return history.Query{}, &ValidationError{Field: "order", Value: q.order, Reason: err.Error()}
	}
	if q.limit < 0 {
		return history.Query{}, NewValidationError("limit", fmt.Sprint(q.limit), "must not be negative")
	}
	return history.Query{SearchTerm: q.search, Status: status, SortBy: sortBy, Order: order}, nil
}

// selectRecords lists repo and applies the flags.
func (q *queryFlags) selectRecords(cmd *cobra.Command, repo history.Repository) (all, visible []history.Record, err error) {
	query, err := q.query()
	if err != nil {
		return nil, nil, err
	}
	all, err = repo.List(cmd.Context())
	if err != nil {
		return nil, nil, fmt.Errorf("list history: %w", err)
	}
	visible = history.Apply(all, query)
	if q.limit > 0 && len(visible) > q.limit {
		visible = visible[:q.limit]
	}
	return all, visible, nil
}

func newHistoryCommand(flags *globalFlags) *cobra.Command {
	qf := &queryFlags{}

	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"h"},
		Short:   "List, show and delete past verifications",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(flags, func(env *Env, repo history.Repository) error {
				all, visible, err := qf.selectRecords(cmd, repo)
				if err != nil {
					return err
				}
				if flags.jsonOutput {
					return writeJSON(cmd.OutOrStdout(), NewJSONResponse("history", visible))
				}
				printRecordList(cmd.OutOrStdout(), all, visible)
				return nil
			})
		},
	}
	qf.register(cmd)

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show <id>",
			Short: "Show one claim with details and evidence",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withHistory(flags, func(env *Env, repo history.Repository) error {
					rec, err := repo.Get(cmd.Context(), args[0])
					if err != nil {
						return fmt.Errorf("claim %s: %w", args[0], err)
					}
					if flags.jsonOutput {
						return writeJSON(cmd.OutOrStdout(), NewJSONResponse("history show", rec))
					}
					md := components.NewMarkdown(styles.NewTheme(env.Config.UI.Theme), env.Config.UI.Markdown && ColorsEnabled())
					printRecord(cmd.OutOrStdout(), rec, md, GetTerminalWidth())
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Remove a claim from the history",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withHistory(flags, func(env *Env, repo history.Repository) error {
					if err := repo.Delete(cmd.Context(), args[0]); err != nil {
						return fmt.Errorf("claim %s: %w", args[0], err)
					}
					if flags.jsonOutput {
						return writeJSON(cmd.OutOrStdout(), NewJSONResponse("history delete", map[string]string{"id": args[0]}))
					}
					fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Deleted "+args[0]))
					return nil
				})
			},
		},
	)
	return cmd
}

// withHistory loads the environment, opens the repository and runs fn.
func withHistory(flags *globalFlags, fn func(*Env, history.Repository) error) error {
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
	return fn(env, repo)
}

// =============================================================================
// RENDERING
// =============================================================================

func printRecordList(w io.Writer, all, visible []history.Record) {
	if len(all) == 0 {
		fmt.Fprintln(w, TitleStyle.Render("No History Yet"))
		fmt.Fprintln(w, DimStyle.Render("Once you start verifying claims, they will appear here."))
		return
	}
	if len(visible) == 0 {
		fmt.Fprintln(w, TitleStyle.Render("No Matching Claims"))
		return
	}

	width := GetTerminalWidth()
	for _, rec := range visible {
		fmt.Fprintf(w, "%s  %s\n", RenderStatus(rec.Status), util.TruncateWidth(util.OneLine(rec.ClaimText), width-20))
		meta := []string{"id " + rec.ID, util.FormatShortDate(rec.VerificationDate)}
		if rec.OriginalSource != "" {
			meta = append(meta, rec.OriginalSource)
		}
		if rec.ImageURL != "" {
			meta = append(meta, "[image]")
		}
		fmt.Fprintln(w, "    "+DimStyle.Render(strings.Join(meta, " · ")))
	}

	counts := history.CountByStatus(all)
	parts := []string{fmt.Sprintf("%d of %d claims", len(visible), len(all))}
	for _, s := range model.AllStatuses {
		if n := counts[s]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, s))
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, DimStyle.Render(strings.Join(parts, " · ")))
}

func printRecord(w io.Writer, rec history.Record, md *components.Markdown, width int) {
	fmt.Fprintln(w, TitleStyle.Render("Original Claim"))
	fmt.Fprintln(w, ValueStyle.Render(rec.ClaimText))
	fmt.Fprintln(w)

	fmt.Fprintln(w, RenderLabel("Status:")+RenderStatus(rec.Status))
	fmt.Fprintln(w, RenderLabel("Verified on:")+ValueStyle.Render(util.FormatDate(rec.VerificationDate)))
	if rec.OriginalSource != "" {
		fmt.Fprintln(w, RenderLabel("Source:")+ValueStyle.Render(rec.OriginalSource))
	}
	if rec.ImageURL != "" {
		fmt.Fprintln(w, RenderLabel("Image:")+ValueStyle.Render(rec.ImageURL))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, TitleStyle.Render("Verification Details"))
	if rec.Summary != "" {
		fmt.Fprintln(w, ValueStyle.Render(rec.Summary))
	}
	if paras := rec.Paragraphs(); len(paras) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, md.RenderParagraphs(paras, width))
	}

	if len(rec.EvidenceLinks) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, TitleStyle.Render("Supporting Evidence"))
		for i, link := range rec.EvidenceLinks {
			fmt.Fprintln(w, styles.RenderTreeLine(i == len(rec.EvidenceLinks)-1)+link.Title)
			fmt.Fprintln(w, "   "+DimStyle.Render(link.URL))
		}
	}
}
