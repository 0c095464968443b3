// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server exposes a verify.Verifier over JSON/HTTP so the TUI (or any
// client using verify.HTTPVerifier) can talk to a local stand-in service.
//
// # Endpoints
//
//   - POST /v1/verify  - {"text","imageName"} -> {"status","summary","details"}
//   - GET  /health     - liveness, always unauthenticated
//   - GET  /v1/stats   - request counters by outcome
//
// Verifier failures map to 502, timeouts to 504.
//
// # Middleware
//
// Requests pass through Chain(Recovery, SecurityHeaders, Logging, RateLimit,
// Auth). Rate limiting is per client IP on golang.org/x/time/rate; auth is
// an optional bearer token compared in constant time.
//
// # Usage
//
//	srv := server.New(server.Options{Addr: cfg.Server.Addr, Logger: log})
//	err := srv.ListenAndServe(ctx)
package server
