// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for verifact.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - VerifierConfig: verification backend selection (mock or http)
//   - HistoryConfig: history storage backend (memory, sqlite or file)
//   - Watcher: reloads the config file when it changes
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (VERIFACT_*)
//   - ~/.verifact/config.toml
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Access settings:
//
//	timeout := cfg.Verifier.Timeout()
//	theme := cfg.UI.Theme
package config
