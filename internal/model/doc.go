// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// This package defines the core domain types used throughout the application
// for representing a claim-verification chat.
//
// # Key Types
//
//   - Message: tagged union of *UserMessage and *VerifactMessage
//   - Query: immutable snapshot of a submission (text and/or image name)
//   - Status: verification outcome (verified, debunked, pending, inconclusive)
//   - Transcript: append-only ordered message list
//
// # Usage
//
//	t := model.NewTranscript()
//	msg, err := model.NewUserMessage("Is the moon made of cheese?", nil, time.Now())
//	if err == nil {
//	    t.Append(msg)
//	}
package model
