// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// tui.go - Interactive terminal UI.
//
// Command: tui (also the default when no command is given)
// Short:   Start the interactive terminal UI

package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/verifact-tui/internal/config"
	"github.com/jeranaias/verifact-tui/internal/export"
	"github.com/jeranaias/verifact-tui/internal/ui/app"
	"github.com/jeranaias/verifact-tui/internal/ui/styles"
)

func newTUICommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), flags)
		},
	}
}

func runTUI(ctx context.Context, flags *globalFlags) error {
	if err := RequiresTTY("the terminal UI"); err != nil {
		return err
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

	m := app.New(app.Options{
		Controller:   ctrl,
		Repository:   repo,
		Config:       env.Config,
		Theme:        styles.NewTheme(env.Config.UI.Theme),
		Logger:       env.Logger,
		ExportDir:    ".",
		ExportFormat: export.FormatMarkdown,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	// Profile edits made while the UI is open show up in the header.
	watcher, err := config.Watch(ctx, env.ConfigPath, 0, func(cfg *config.Config, err error) {
		if err != nil {
			env.Logger.Warn("config reload failed", zap.Error(err))
			return
		}
		p.Send(app.ConfigChangedMsg{Config: cfg})
	})
	if err != nil {
		env.Logger.Debug("config watch disabled", zap.Error(err))
	} else {
		defer watcher.Close()
	}

	env.Logger.Info("tui started",
		zap.String("verifier", env.Config.Verifier.Backend),
		zap.String("history", env.Config.History.Backend))

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run terminal UI: %w", err)
	}
	return nil
}
