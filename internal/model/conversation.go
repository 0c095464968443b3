// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Transcript is the append-only, creation-ordered message list of one
// conversation session. Entries are never removed or edited in place.
//
// Transcript is not safe for concurrent use; the conversation controller
// guards it with its own lock.
type Transcript struct {
	messages []Message
}

// NewTranscript returns an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{messages: make([]Message, 0, 16)}
}

// Append adds msg to the end of the transcript.
func (t *Transcript) Append(msg Message) {
	t.messages = append(t.messages, msg)
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// At returns the i-th message, or nil when out of range.
func (t *Transcript) At(i int) Message {
	if i < 0 || i >= len(t.messages) {
		return nil
	}
	return t.messages[i]
}

// Last returns the most recent message, or nil if empty.
func (t *Transcript) Last() Message {
	return t.At(len(t.messages) - 1)
}

// Messages returns a copy of the message slice. The messages themselves are
// shared; callers must treat them as read-only.
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Count returns the number of messages of the given kind.
func (t *Transcript) Count(kind Kind) int {
	n := 0
	for _, m := range t.messages {
		if m.Kind() == kind {
			n++
		}
	}
	return n
}
