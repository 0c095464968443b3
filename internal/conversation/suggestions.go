// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

// Suggestion is a welcome-screen card. Selecting it puts Prompt in the draft.
type Suggestion struct {
	Title  string
	Text   string
	Prompt string
}

var welcomeSuggestions = []Suggestion{
	{
		Title:  "Verify a Claim",
		Text:   "Paste a news snippet or upload an image to check its authenticity.",
		Prompt: "Is this headline about moon cheese true?",
	},
	{
		Title:  "Explore Topics",
		Text:   "Ask about common misconceptions or get summaries on debated issues.",
		Prompt: "Summarize the arguments for and against artificial sweeteners.",
	},
	{
		Title:  "Quick Fact-Check",
		Text:   "Got a quick question? Verifact can try to find a swift answer.",
		Prompt: "What's the current population of Earth?",
	},
}

// Suggestions returns the welcome suggestions in display order.
func Suggestions() []Suggestion {
	out := make([]Suggestion, len(welcomeSuggestions))
	copy(out, welcomeSuggestions)
	return out
}
