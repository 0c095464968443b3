// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jeranaias/verifact-tui/internal/model"
)

const (
	// VerifyPath is the endpoint path of the verification API.
	VerifyPath = "/v1/verify"

	// DefaultHTTPTimeout bounds a single verification round trip.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultRatePerSec is the client-side request budget.
	DefaultRatePerSec = 2.0

	// MaxResponseSize caps the decoded response body.
	MaxResponseSize = 1 << 20
)

// =============================================================================
// WIRE TYPES
// =============================================================================

// Request is the JSON body posted to the verification service.
type Request struct {
	Text      string `json:"text,omitempty"`
	ImageName string `json:"imageName,omitempty"`
}

// RequestFromQuery converts a snapshot to its wire form.
func RequestFromQuery(q model.Query) Request {
	return Request{Text: q.Text, ImageName: q.ImageName}
}

// Query converts the wire form back to a snapshot.
func (r Request) Query() model.Query {
	return model.Query{Text: strings.TrimSpace(r.Text), ImageName: r.ImageName}
}

// wireResult decodes status as a raw string so unknown values can be mapped.
type wireResult struct {
	Status  string `json:"status"`
	Summary string `json:"summary"`
	Details string `json:"details"`
}

// =============================================================================
// HTTP VERIFIER
// =============================================================================

// HTTPConfig configures an HTTPVerifier.
type HTTPConfig struct {
	Endpoint   string
	APIKey     string
	Timeout    time.Duration
	RatePerSec float64
}

// HTTPVerifier calls a remote verification service over JSON/HTTP.
type HTTPVerifier struct {
	endpoint string
	apiKey   string
	client   *http.Client
	limiter  *rate.Limiter
	logger   *zap.Logger
}

// NewHTTPVerifier creates a client for the service at cfg.Endpoint.
func NewHTTPVerifier(cfg HTTPConfig) *HTTPVerifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	perSec := cfg.RatePerSec
	if perSec <= 0 {
		perSec = DefaultRatePerSec
	}
	burst := int(perSec)
	if burst < 1 {
		burst = 1
	}

	return &HTTPVerifier{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:   cfg.APIKey,
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(perSec), burst),
		logger:  zap.NewNop(),
	}
}

// WithLogger sets the logger used for request tracing.
func (v *HTTPVerifier) WithLogger(l *zap.Logger) *HTTPVerifier {
	if l != nil {
		v.logger = l
	}
	return v
}

// Endpoint returns the configured base URL.
func (v *HTTPVerifier) Endpoint() string {
	return v.endpoint
}

// Verify posts q to the service and decodes the result. Every returned error
// is classified as ErrTimeout or ErrRequestFailed.
func (v *HTTPVerifier) Verify(ctx context.Context, q model.Query) (Result, error) {
	start := time.Now()

	if err := v.limiter.Wait(ctx); err != nil {
		return Result{}, Classify(err)
	}

	body, err := json.Marshal(RequestFromQuery(q))
	if err != nil {
		return Result{}, &Error{Kind: KindRequestFailed, Message: "encode request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint+VerifyPath, bytes.NewReader(body))
	if err != nil {
		return Result{}, &Error{Kind: KindRequestFailed, Message: "build request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if v.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+v.apiKey)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		v.logger.Warn("verify request failed", zap.Error(err), zap.Duration("latency", time.Since(start)))
		if ctx.Err() != nil {
			return Result{}, Classify(ctx.Err())
		}
		return Result{}, Classify(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return Result{}, Classify(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		v.logger.Warn("verify request rejected",
			zap.Int("http_status", resp.StatusCode),
			zap.Duration("latency", time.Since(start)))
		return Result{}, &Error{
			Kind:    KindRequestFailed,
			Message: ErrRequestFailed.Message,
			Cause:   fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))),
		}
	}

	var wr wireResult
	if err := json.Unmarshal(raw, &wr); err != nil {
		return Result{}, &Error{Kind: KindRequestFailed, Message: "decode response", Cause: err}
	}

	status, ok := model.ParseStatus(wr.Status)
	if !ok {
		v.logger.Debug("unknown status from service", zap.String("status", wr.Status))
	}

	v.logger.Debug("verify request complete",
		zap.String("status", status.String()),
		zap.Duration("latency", time.Since(start)))

	return Result{Status: status, Summary: wr.Summary, Details: wr.Details}, nil
}
