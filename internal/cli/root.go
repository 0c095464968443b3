// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/verifact-tui/internal/config"
	"github.com/jeranaias/verifact-tui/internal/conversation"
	"github.com/jeranaias/verifact-tui/internal/history"
	"github.com/jeranaias/verifact-tui/internal/logging"
	"github.com/jeranaias/verifact-tui/internal/verify"
)

// Version information (set at build time via -ldflags).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// ENVIRONMENT
// =============================================================================

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	verbose    bool
	jsonOutput bool
}

// Env is the loaded configuration and logger a command runs with.
type Env struct {
	Config     *config.Config
	ConfigPath string
	Logger     *zap.Logger
}

func loadEnv(flags *globalFlags) (*Env, error) {
	path := flags.configPath
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return nil, &ConfigError{Err: err}
		}
		path = p
	}
	cfg, err := config.LoadFromPath(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	logger, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		Path:    cfg.Log.Path,
		Verbose: flags.verbose,
	})
	if err != nil {
		// A broken log file must not stop the command.
		logger = logging.Nop()
	}

	return &Env{Config: cfg, ConfigPath: path, Logger: logger}, nil
}

// Close flushes the logger.
func (e *Env) Close() {
	_ = e.Logger.Sync()
}

// NewVerifier builds the configured verification backend.
func (e *Env) NewVerifier() (verify.Verifier, error) {
	v := e.Config.Verifier
	switch v.Backend {
	case config.BackendMock, "":
		return verify.NewMockVerifier(verify.WithDelay(v.MockDelay())), nil
	case config.BackendHTTP:
		return verify.NewHTTPVerifier(verify.HTTPConfig{
			Endpoint:   v.Endpoint,
			APIKey:     v.APIKey,
			Timeout:    v.Timeout(),
			RatePerSec: v.RatePerSec,
		}).WithLogger(e.Logger), nil
	default:
		return nil, &ConfigError{Path: e.ConfigPath, Err: fmt.Errorf("unknown verifier backend %q", v.Backend)}
	}
}

// OpenHistory opens the configured history repository.
func (e *Env) OpenHistory() (history.Repository, error) {
	h := e.Config.History
	// The memory backend always starts from the demonstration records.
	seed := h.SeedDemo || history.Backend(h.Backend) == history.BackendMemory
	repo, err := history.Open(history.Backend(h.Backend), h.Path, seed)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return repo, nil
}

// NewController creates a conversation session that records into repo.
func (e *Env) NewController(repo history.Repository) (*conversation.Controller, error) {
	v, err := e.NewVerifier()
	if err != nil {
		return nil, err
	}
	opts := conversation.Options{
		Verifier: v,
		Logger:   e.Logger,
		Timeout:  e.Config.Verifier.Timeout(),
	}
	if repo != nil {
		opts.Recorder = repo
	}
	return conversation.New(opts), nil
}

// =============================================================================
// ROOT COMMAND
// =============================================================================

// NewRootCommand builds the verifact command tree. Running it without a
// subcommand starts the TUI.
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "verifact",
		Short: "Verifact - verify claims from your terminal",
		Long: `Verifact checks news snippets, claims and images and tells you whether
they are verified, debunked, pending or inconclusive.

Run without arguments to start the interactive terminal UI.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), flags)
		},
	}

	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "config file (default ~/.verifact/config.toml)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().BoolVar(&flags.jsonOutput, "json", false, "machine-readable JSON output")

	root.AddCommand(
		newTUICommand(flags),
		newVerifyCommand(flags),
		newChatCommand(flags),
		newHistoryCommand(flags),
		newExportCommand(flags),
		newServeCommand(flags),
		newConfigCommand(flags),
		newVersionCommand(flags),
	)
	return root
}

// Execute runs the command tree with os.Args and returns the process exit
// code.
func Execute(ctx context.Context) int {
	return run(ctx, NewRootCommand(), os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, root *cobra.Command, args []string, stdout, stderr io.Writer) int {
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	cmd, err := root.ExecuteContextC(ctx)
	if err != nil {
		jsonMode := false
		if cmd == nil {
			cmd = root
		}
		if f := cmd.Flags().Lookup("json"); f != nil {
			jsonMode = f.Value.String() == "true"
		}
		DisplayError(stdout, stderr, err, jsonMode)
		return ExitCode(err)
	}
	return ExitSuccess
}

func newVersionCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := map[string]string{
				"version":    Version,
				"git_commit": GitCommit,
				"build_date": BuildDate,
			}
			if flags.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), NewJSONResponse("version", info))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "verifact %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
			return nil
		},
	}
}
