// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package verify defines the boundary to the claim-verification service and
// its implementations: a local randomized stand-in and an HTTP client.
package verify

import (
	"context"
	"errors"
	"time"

	"github.com/jeranaias/verifact-tui/internal/model"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorKind categorizes verification failures.
type ErrorKind int

const (
	KindRequestFailed ErrorKind = iota + 1
	KindTimeout
)

func (k ErrorKind) String() string {
	switch k {
	case KindRequestFailed:
		return "request_failed"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Error is a classified verification failure.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrTimeout)
// holds for every timeout regardless of message or cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Retryable reports whether the user should be offered a retry.
// Both kinds are retryable; the method exists so the UI does not switch on kinds.
func (e *Error) Retryable() bool {
	return e.Kind == KindRequestFailed || e.Kind == KindTimeout
}

// Sentinel errors for errors.Is checks.
var (
	ErrRequestFailed = &Error{Kind: KindRequestFailed, Message: "verification request failed"}
	ErrTimeout       = &Error{Kind: KindTimeout, Message: "verification timed out"}
)

// Classify maps any error returned by a Verifier onto one of the two kinds.
// A nil error stays nil; an already classified error is returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var ve *Error
	if errors.As(err, &ve) {
		return ve
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Message: ErrTimeout.Message, Cause: err}
	}
	return &Error{Kind: KindRequestFailed, Message: ErrRequestFailed.Message, Cause: err}
}

// =============================================================================
// VERIFIER
// =============================================================================

// Result is the structured response of the verification service.
type Result struct {
	Status  model.Status `json:"status"`
	Summary string       `json:"summary"`
	Details string       `json:"details"`
}

// Verifier checks a single claim. Implementations must honor ctx
// cancellation and return exactly once per call.
type Verifier interface {
	Verify(ctx context.Context, q model.Query) (Result, error)
}

// VerifierFunc adapts a plain function to the Verifier interface.
type VerifierFunc func(ctx context.Context, q model.Query) (Result, error)

// Verify calls f(ctx, q).
func (f VerifierFunc) Verify(ctx context.Context, q model.Query) (Result, error) {
	return f(ctx, q)
}

// WithTimeout wraps v so every call runs under its own deadline and all
// failures come back classified. A non-positive timeout only classifies.
func WithTimeout(v Verifier, timeout time.Duration) Verifier {
	return VerifierFunc(func(ctx context.Context, q model.Query) (Result, error) {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		res, err := v.Verify(ctx, q)
		if err != nil {
			return Result{}, Classify(err)
		}
		res.Status = res.Status.Normalize()
		return res, nil
	})
}
