// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrEmptySubmission is returned when a user message would carry neither
// text nor an image.
var ErrEmptySubmission = errors.New("message needs text or an image")

// =============================================================================
// MESSAGE KIND
// =============================================================================

// Kind discriminates the two message variants.
type Kind string

const (
	KindUser     Kind = "user"
	KindVerifact Kind = "verifact"
)

// DisplayName returns a human-readable sender name for the kind.
func (k Kind) DisplayName() string {
	switch k {
	case KindUser:
		return "You"
	case KindVerifact:
		return "Verifact"
	default:
		return string(k)
	}
}

// =============================================================================
// MESSAGE INTERFACE
// =============================================================================

// Message is a single transcript entry. The concrete type is either
// *UserMessage or *VerifactMessage; switch on Kind() or use a type switch.
type Message interface {
	Kind() Kind
	MessageID() string
	Timestamp() time.Time
}

// ImageRef is an opaque reference to a selected image plus its display name.
type ImageRef struct {
	Path string `json:"path,omitempty"`
	Name string `json:"name"`
}

// Query is the immutable snapshot of what the user submitted. It labels the
// verification result independent of later edits to the input.
type Query struct {
	Text      string `json:"text,omitempty" yaml:"text,omitempty"`
	ImageName string `json:"imageName,omitempty" yaml:"image_name,omitempty"`
}

// IsEmpty reports whether the snapshot carries neither text nor an image.
func (q Query) IsEmpty() bool {
	return q.Text == "" && q.ImageName == ""
}

// Label returns a short description of the query for display, e.g.
// `"moon cheese" (proof.png)`.
func (q Query) Label() string {
	var b strings.Builder
	if q.Text != "" {
		b.WriteString(q.Text)
	} else {
		b.WriteString("the uploaded image")
	}
	if q.ImageName != "" {
		b.WriteString(" (")
		b.WriteString(q.ImageName)
		b.WriteString(")")
	}
	return b.String()
}

// =============================================================================
// USER MESSAGE
// =============================================================================

// UserMessage is a claim submitted by the user.
type UserMessage struct {
	ID        string    `json:"id"`
	Text      string    `json:"text,omitempty"`
	Image     *ImageRef `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserMessage builds a user message from a draft. Text is trimmed and
// dropped when blank; a message with neither text nor image is rejected.
func NewUserMessage(text string, image *ImageRef, at time.Time) (*UserMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" && image == nil {
		return nil, ErrEmptySubmission
	}

	msg := &UserMessage{
		ID:        NewID(),
		Text:      text,
		CreatedAt: at,
	}
	if image != nil {
		img := *image
		msg.Image = &img
	}
	return msg, nil
}

func (m *UserMessage) Kind() Kind           { return KindUser }
func (m *UserMessage) MessageID() string    { return m.ID }
func (m *UserMessage) Timestamp() time.Time { return m.CreatedAt }

// ImageName returns the staged image's display name, or "" when absent.
func (m *UserMessage) ImageName() string {
	if m.Image == nil {
		return ""
	}
	return m.Image.Name
}

// Snapshot returns the query this message represents.
func (m *UserMessage) Snapshot() Query {
	return Query{Text: m.Text, ImageName: m.ImageName()}
}

// =============================================================================
// VERIFACT MESSAGE
// =============================================================================

// VerifactMessage is the rendered response of the verification service.
type VerifactMessage struct {
	ID            string    `json:"id"`
	Status        Status    `json:"status"`
	Summary       string    `json:"summary"`
	Details       string    `json:"details"`
	OriginalQuery Query     `json:"original_query"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewVerifactMessage builds a response message tagged with the query that
// produced it.
func NewVerifactMessage(status Status, summary, details string, query Query, at time.Time) *VerifactMessage {
	return &VerifactMessage{
		ID:            NewID(),
		Status:        status.Normalize(),
		Summary:       summary,
		Details:       details,
		OriginalQuery: query,
		CreatedAt:     at,
	}
}

func (m *VerifactMessage) Kind() Kind           { return KindVerifact }
func (m *VerifactMessage) MessageID() string    { return m.ID }
func (m *VerifactMessage) Timestamp() time.Time { return m.CreatedAt }

// Paragraphs splits Details on blank lines, dropping empty paragraphs.
func (m *VerifactMessage) Paragraphs() []string {
	return SplitParagraphs(m.Details)
}

// =============================================================================
// HELPERS
// =============================================================================

// NewID returns a unique message identifier.
func NewID() string {
	return "msg_" + uuid.NewString()
}

// SplitParagraphs splits long-form text into paragraphs separated by one or
// more blank lines.
func SplitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
