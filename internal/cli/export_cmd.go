// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// export_cmd.go - Export the verification history.
//
// Command: export
// Short:   Export verification history as Markdown, JSON or YAML
//
// Examples:
//   verifact export                          Markdown to stdout
//   verifact export --format json --out h.json
//   verifact export --format yaml --out ./exports/
//   verifact export --status debunked --format md

package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeranaias/verifact-tui/internal/export"
	"github.com/jeranaias/verifact-tui/internal/history"
	"github.com/jeranaias/verifact-tui/internal/ui/components"
)

func newExportCommand(flags *globalFlags) *cobra.Command {
	qf := &queryFlags{}
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export verification history as Markdown, JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return &ValidationError{Field: "format", Value: format, Reason: "want md, json or yaml"}
			}

			return withHistory(flags, func(env *Env, repo history.Repository) error {
				_, visible, err := qf.selectRecords(cmd, repo)
				if err != nil {
					return err
				}
				doc := export.FromHistory(visible, time.Now())
				if doc.IsEmpty() {
					return export.ErrNothingToExport
				}
				opts := export.DefaultOptions()

				switch {
				case out == "" || out == "-":
					return writeExport(cmd.OutOrStdout(), doc, f, opts)

				case isDir(out):
					opts.OutputDir = out
					exporter, err := export.New(f, opts)
					if err != nil {
						return err
					}
					path, err := export.ExportToFile(doc, exporter, opts)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.ErrOrStderr(), SuccessStyle.Render("Exported to "+path))
					return nil

				default:
					if err := export.WriteFile(out, doc, f, opts); err != nil {
						return err
					}
					fmt.Fprintln(cmd.ErrOrStderr(), SuccessStyle.Render("Exported to "+out))
					return nil
				}
			})
		},
	}

	qf.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "md", "output format: md, json or yaml")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file or directory (default stdout)")
	return cmd
}

// writeExport writes doc to w, highlighting JSON and YAML on a colour
// terminal.
func writeExport(w io.Writer, doc *export.Document, f export.Format, opts *export.Options) error {
	if f == export.FormatMarkdown || !isColorTerminal(w) {
		return export.Write(w, doc, f, opts)
	}
	var buf bytes.Buffer
	if err := export.Write(&buf, doc, f, opts); err != nil {
		return err
	}
	out := buf.String()
	if f == export.FormatYAML {
		out = components.HighlightYAML(out)
	} else {
		out = components.HighlightJSON(out)
	}
	_, err := io.WriteString(w, out)
	return err
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
