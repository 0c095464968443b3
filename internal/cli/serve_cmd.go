// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// serve_cmd.go - Local mock verification service.
//
// Command: serve
// Short:   Serve the mock verifier over HTTP
//
// The server speaks the same JSON protocol as the "http" verifier backend,
// so a second verifact can point at it:
//
//   verifact serve --addr 127.0.0.1:8787
//   VERIFACT_BACKEND=http VERIFACT_ENDPOINT=http://127.0.0.1:8787 verifact

package cli

import (
	"context"
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"github.com/jeranaias/verifact-tui/internal/server"
	"github.com/jeranaias/verifact-tui/internal/verify"
)

func newServeCommand(flags *globalFlags) *cobra.Command {
	var (
		addr   string
		apiKey string
		rate   float64
		burst  int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the mock verifier over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(flags)
			if err != nil {
				return err
			}
			defer env.Close()

			if addr == "" {
				addr = env.Config.Server.Addr
			}
			srv := server.New(server.Options{
				Addr:       addr,
				Verifier:   verify.NewMockVerifier(verify.WithDelay(env.Config.Verifier.MockDelay())),
				Timeout:    env.Config.Verifier.Timeout(),
				APIKey:     apiKey,
				RatePerSec: rate,
				Burst:      burst,
				Version:    Version,
				Logger:     env.Logger,
			})

			ln, err := net.Listen("tcp", srv.Addr())
			if err != nil {
				return fmt.Errorf("listen on %s: %w", srv.Addr(), err)
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "%s http://%s%s\n",
				SuccessStyle.Render("Serving mock verifier on"), ln.Addr(), verify.VerifyPath)
			if apiKey != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), DimStyle.Render("Bearer token required."))
			}
			return serve(cmd.Context(), srv, ln)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config, "+server.DefaultAddr+")")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "require this bearer token")
	cmd.Flags().Float64Var(&rate, "rate", 0, "per-client requests per second (0 = default, negative disables)")
	cmd.Flags().IntVar(&burst, "burst", 0, "per-client burst size")
	return cmd
}

func serve(ctx context.Context, srv *server.Server, ln net.Listener) error {
	if err := srv.Serve(ctx, ln); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
