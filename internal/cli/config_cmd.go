// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - View and modify configuration.
//
// Command: config [subcommand]
// Short:   View and modify configuration
//
// Subcommands:
//   show (default)      Display the effective configuration
//   get <key>           Print one value
//   set <key> <value>   Set a value and save the config file
//   reset               Write the default configuration
//   path                Show the configuration file path
//   keys                List every settable key
//
// Examples:
//   verifact config
//   verifact config show --json
//   verifact config get verifier.backend
//   verifact config set verifier.backend http
//   verifact config set verifier.endpoint http://127.0.0.1:8787
//   verifact config set ui.theme dark
//   verifact config set history.backend sqlite

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/verifact-tui/internal/config"
)

const redacted = "[REDACTED]"

// secretKeys are never printed in clear text.
var secretKeys = map[string]bool{
	"verifier.api_key": true,
}

func newConfigCommand(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and modify configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return configShow(cmd, flags)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Display the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return configShow(cmd, flags)
			},
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print one configuration value",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				env, err := loadEnv(flags)
				if err != nil {
					return err
				}
				defer env.Close()

				key := args[0]
				v, err := env.Config.Get(key)
				if err != nil {
					return &ValidationError{Field: "key", Value: key, Reason: err.Error(), Example: "verifact config keys"}
				}
				value := displayValue(key, v)
				if flags.jsonOutput {
					return writeJSON(cmd.OutOrStdout(), NewJSONResponse("config get", map[string]string{"key": key, "value": value}))
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Set a configuration value and save it",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := resolveConfigPath(flags)
				if err != nil {
					return err
				}
				key, value := args[0], args[1]
				if err := setConfigValue(path, key, value); err != nil {
					return err
				}
				if flags.jsonOutput {
					return writeJSON(cmd.OutOrStdout(), NewJSONResponse("config set", map[string]string{
						"key": key, "value": displayValue(key, value), "path": path,
					}))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s\n", SuccessStyle.Render("Set"), key, displayValue(key, value))
				return nil
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Write the default configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := resolveConfigPath(flags)
				if err != nil {
					return err
				}
				if err := config.SaveTOML(config.Default(), path); err != nil {
					return &ConfigError{Path: path, Err: err}
				}
				fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Configuration reset: "+path))
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Show the configuration file path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := resolveConfigPath(flags)
				if err != nil {
					return err
				}
				_, statErr := os.Stat(path)
				exists := statErr == nil
				if flags.jsonOutput {
					return writeJSON(cmd.OutOrStdout(), NewJSONResponse("config path", map[string]interface{}{
						"path": path, "exists": exists,
					}))
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "keys",
			Short: "List every configuration key",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				keys := config.GetAllKeys()
				if flags.jsonOutput {
					return writeJSON(cmd.OutOrStdout(), NewJSONResponse("config keys", keys))
				}
				for _, k := range keys {
					fmt.Fprintln(cmd.OutOrStdout(), k)
				}
				return nil
			},
		},
	)
	return cmd
}

func resolveConfigPath(flags *globalFlags) (string, error) {
	if flags.configPath != "" {
		return flags.configPath, nil
	}
	path, err := config.ConfigPath()
	if err != nil {
		return "", &ConfigError{Err: err}
	}
	return path, nil
}

// setConfigValue updates key in the file at path. Environment overrides are
// not applied so they never end up persisted.
func setConfigValue(path, key, value string) error {
	cfg := config.Default()
	if _, err := os.Stat(path); err == nil {
		if err := config.LoadTOML(cfg, path); err != nil {
			return &ConfigError{Path: path, Err: err}
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return &ConfigError{Path: path, Err: err}
	}

	if err := cfg.Set(key, value); err != nil {
		return &ValidationError{Field: "key", Value: key, Reason: err.Error(), Example: "verifact config keys"}
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return &ConfigError{Path: path, Err: err}
	}
	if err := config.SaveTOML(cfg, path); err != nil {
		return &ConfigError{Path: path, Err: err}
	}
	return nil
}

func configShow(cmd *cobra.Command, flags *globalFlags) error {
	env, err := loadEnv(flags)
	if err != nil {
		return err
	}
	defer env.Close()

	if flags.jsonOutput {
		return writeJSON(cmd.OutOrStdout(), NewJSONResponse("config show", map[string]interface{}{
			"path":   env.ConfigPath,
			"values": configValues(env.Config),
		}))
	}
	printConfig(cmd.OutOrStdout(), env.Config, env.ConfigPath)
	return nil
}

// configValues flattens cfg into dotted keys with secrets redacted.
func configValues(cfg *config.Config) map[string]string {
	values := make(map[string]string)
	for _, key := range config.GetAllKeys() {
		v, err := cfg.Get(key)
		if err != nil {
			continue
		}
		values[key] = displayValue(key, v)
	}
	return values
}

func displayValue(key string, v interface{}) string {
	s := fmt.Sprint(v)
	if secretKeys[key] && s != "" {
		return redacted
	}
	return s
}

// printConfig renders cfg grouped by TOML table.
func printConfig(w io.Writer, cfg *config.Config, path string) {
	values := configValues(cfg)

	sections := make(map[string][]string)
	for key := range values {
		table, _, _ := strings.Cut(key, ".")
		sections[table] = append(sections[table], key)
	}
	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, TitleStyle.Render("Verifact Configuration"))
	fmt.Fprintln(w, RenderSeparator(41))
	for _, name := range names {
		fmt.Fprintln(w)
		fmt.Fprintln(w, ValueStyle.Bold(true).Render("["+name+"]"))
		keys := sections[name]
		sort.Strings(keys)
		for _, key := range keys {
			field := strings.TrimPrefix(key, name+".")
			value := values[key]
			if value == "" {
				value = DimStyle.Render("(not set)")
			}
			fmt.Fprintf(w, "  %s%s\n", RenderLabel(field+":"), value)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, DimStyle.Render("Config file: "+path))
}
