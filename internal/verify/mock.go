// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package verify

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/jeranaias/verifact-tui/internal/model"
)

// DefaultMockDelay matches the simulated latency of the hosted prototype.
const DefaultMockDelay = 1500 * time.Millisecond

// =============================================================================
// MOCK VERIFIER
// =============================================================================

// MockVerifier fabricates a verification result after a fixed delay with a
// uniformly random status. It stands in for the real service during
// development and backs the `verifact serve` demo endpoint.
//
// MockVerifier is safe for concurrent use.
type MockVerifier struct {
	delay time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// MockOption configures a MockVerifier.
type MockOption func(*MockVerifier)

// WithDelay overrides the simulated latency. Zero responds immediately.
func WithDelay(d time.Duration) MockOption {
	return func(m *MockVerifier) {
		if d >= 0 {
			m.delay = d
		}
	}
}

// WithRand injects the random source, making status selection reproducible.
func WithRand(r *rand.Rand) MockOption {
	return func(m *MockVerifier) {
		if r != nil {
			m.rng = r
		}
	}
}

// NewMockVerifier creates a mock verifier with the default delay.
func NewMockVerifier(opts ...MockOption) *MockVerifier {
	m := &MockVerifier{
		delay: DefaultMockDelay,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Verify waits for the configured delay, then returns a fabricated result.
// It returns ctx.Err() if the context ends first.
func (m *MockVerifier) Verify(ctx context.Context, q model.Query) (Result, error) {
	if m.delay > 0 {
		timer := time.NewTimer(m.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	status := m.pick()
	return Result{
		Status:  status,
		Summary: mockSummary(status, q),
		Details: mockDetails(status, q),
	}, nil
}

func (m *MockVerifier) pick() model.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return model.AllStatuses[m.rng.Intn(len(model.AllStatuses))]
}

func mockSummary(status model.Status, q model.Query) string {
	return fmt.Sprintf("Okay, I've received your request regarding \"%s\". I'm processing it now... Simulated verdict: %s.",
		q.Label(), status.Title())
}

func mockDetails(status model.Status, q model.Query) string {
	var verdict string
	switch status {
	case model.StatusVerified:
		verdict = "Multiple independent sources corroborate the central assertion of this claim."
	case model.StatusDebunked:
		verdict = "The available evidence contradicts this claim; no credible source supports it."
	case model.StatusInconclusive:
		verdict = "Sources disagree or are too sparse to reach a confident verdict."
	default:
		verdict = "Verification is still in progress; check back for an updated result."
	}

	subject := "The submitted text was analyzed for factual assertions."
	if q.ImageName != "" {
		subject = fmt.Sprintf("The attached image %q was checked for prior appearances and manipulation.", q.ImageName)
		if q.Text != "" {
			subject += " The accompanying text was analyzed for factual assertions."
		}
	}

	return verdict + "\n\n" + subject + "\n\n" +
		"This response was generated locally and does not reflect a real analysis."
}
