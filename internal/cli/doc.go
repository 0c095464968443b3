// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the verifact command line.
//
// The command tree is built with cobra. Running verifact with no command
// starts the terminal UI; the other commands work without a TTY and accept
// --json for machine-readable output.
//
// # Commands
//
//   - tui: interactive terminal UI (default)
//   - verify: verify one claim and print the verdict
//   - chat: line-mode verification session
//   - history: list, show and delete past verifications
//   - export: export history as Markdown, JSON or YAML
//   - serve: serve the mock verifier over HTTP
//   - config: view and modify configuration
//   - version: print version information
//
// # Exit Codes
//
// Errors map to stable exit codes (see ExitCode): 2 for invalid arguments,
// 3 for configuration problems, 5 for failed verification requests, 7 for
// unknown claim IDs and 8 for timeouts.
//
// # Usage
//
//	func main() {
//	    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	    defer stop()
//	    os.Exit(cli.Execute(ctx))
//	}
package cli
