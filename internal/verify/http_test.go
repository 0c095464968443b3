// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package verify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/verifact-tui/internal/model"
)

func TestHTTPVerifier_Success(t *testing.T) {
	var got Request
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != VerifyPath || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"Debunked","summary":"No.","details":"A\n\nB"}`))
	}))
	defer server.Close()

	v := NewHTTPVerifier(HTTPConfig{Endpoint: server.URL + "/", APIKey: "secret", RatePerSec: 100})
	res, err := v.Verify(context.Background(), model.Query{Text: "claim", ImageName: "img.png"})
	require.NoError(t, err)

	assert.Equal(t, model.StatusDebunked, res.Status)
	assert.Equal(t, "No.", res.Summary)
	assert.Equal(t, "A\n\nB", res.Details)
	assert.Equal(t, Request{Text: "claim", ImageName: "img.png"}, got)
	assert.Equal(t, "Bearer secret", auth)
}

func TestHTTPVerifier_UnknownStatusIsPending(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"half-true","summary":"s"}`))
	}))
	defer server.Close()

	res, err := NewHTTPVerifier(HTTPConfig{Endpoint: server.URL, RatePerSec: 100}).
		Verify(context.Background(), model.Query{Text: "x"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, res.Status)
}

func TestHTTPVerifier_Non2xxIsRequestFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewHTTPVerifier(HTTPConfig{Endpoint: server.URL, RatePerSec: 100}).
		Verify(context.Background(), model.Query{Text: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRequestFailed))
	assert.Contains(t, err.Error(), "502")
}

func TestHTTPVerifier_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := NewHTTPVerifier(HTTPConfig{Endpoint: server.URL, RatePerSec: 100}).
		Verify(context.Background(), model.Query{Text: "x"})
	assert.True(t, errors.Is(err, ErrRequestFailed))
}

func TestHTTPVerifier_DeadlineIsTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewHTTPVerifier(HTTPConfig{Endpoint: server.URL, RatePerSec: 100}).
		Verify(ctx, model.Query{Text: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout), "got %v", err)
}

func TestHTTPVerifier_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewHTTPVerifier(HTTPConfig{Endpoint: url, RatePerSec: 100}).
		Verify(context.Background(), model.Query{Text: "x"})
	assert.True(t, errors.Is(err, ErrRequestFailed))
}
