// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/verifact-tui/internal/model"
)

// =============================================================================
// RECORD TYPE
// =============================================================================

// EvidenceLink is a titled reference supporting a verdict.
type EvidenceLink struct {
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url" yaml:"url"`
}

// Record is one past verification.
type Record struct {
	ID               string         `json:"id" yaml:"id"`
	ClaimText        string         `json:"claim_text" yaml:"claim_text"`
	OriginalSource   string         `json:"original_source,omitempty" yaml:"original_source,omitempty"`
	ImageURL         string         `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	VerificationDate time.Time      `json:"verification_date" yaml:"verification_date"`
	Status           model.Status   `json:"status" yaml:"status"`
	Summary          string         `json:"summary,omitempty" yaml:"summary,omitempty"`
	Details          string         `json:"details,omitempty" yaml:"details,omitempty"`
	EvidenceLinks    []EvidenceLink `json:"evidence_links,omitempty" yaml:"evidence_links,omitempty"`
}

// Paragraphs splits Details on blank lines.
func (r Record) Paragraphs() []string {
	return model.SplitParagraphs(r.Details)
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	if r.EvidenceLinks != nil {
		links := make([]EvidenceLink, len(r.EvidenceLinks))
		copy(links, r.EvidenceLinks)
		r.EvidenceLinks = links
	}
	return r
}

// FromVerification builds a record from a resolved verification.
// The claim text falls back to the image label for image-only queries.
func FromVerification(msg *model.VerifactMessage) Record {
	claim := msg.OriginalQuery.Text
	if claim == "" {
		claim = "Image claim: " + msg.OriginalQuery.Label()
	}
	return Record{
		ID:               NewRecordID(),
		ClaimText:        claim,
		ImageURL:         msg.OriginalQuery.ImageName,
		VerificationDate: msg.CreatedAt,
		Status:           msg.Status,
		Summary:          msg.Summary,
		Details:          msg.Details,
	}
}

// NewRecordID returns a short unique record identifier.
func NewRecordID() string {
	return "claim_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

// =============================================================================
// REPOSITORY INTERFACES
// =============================================================================

// Recorder accepts resolved verifications. The conversation controller only
// needs this half of a Repository.
type Recorder interface {
	// Record stores r, assigning an ID when empty, and returns the stored copy.
	Record(ctx context.Context, r Record) (Record, error)
}

// Repository is a store of past verifications.
type Repository interface {
	Recorder

	// List returns every record in storage order.
	List(ctx context.Context) ([]Record, error)

	// Get returns the record with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (Record, error)

	// Delete removes a record. Missing IDs return ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Close releases any underlying resources.
	Close() error
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrNotFound is returned when a record doesn't exist.
// Use errors.Is(err, ErrNotFound) to check for this error.
var ErrNotFound = &Error{Message: "claim not found"}

// Error represents a history-related error.
type Error struct {
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing history errors.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Message == t.Message
}
