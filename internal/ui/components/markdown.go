// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	glamourstyles "github.com/charmbracelet/glamour/styles"

	"github.com/jeranaias/verifact-tui/internal/ui/styles"
)

// =============================================================================
// MARKDOWN RENDERER
// =============================================================================

// Markdown renders verdict details. Renderers are built lazily per wrap width.
// When disabled, or if glamour fails, text is word wrapped instead.
type Markdown struct {
	Enabled bool
	style   string

	mu        sync.Mutex
	renderers map[int]*glamour.TermRenderer
}

// NewMarkdown creates a renderer matching the theme's background.
func NewMarkdown(theme *styles.Theme, enabled bool) *Markdown {
	style := glamourstyles.DarkStyle
	switch {
	case theme == nil:
	case theme.ASCII:
		style = glamourstyles.NoTTYStyle
	case !theme.IsDark:
		style = glamourstyles.LightStyle
	}
	return &Markdown{
		Enabled:   enabled,
		style:     style,
		renderers: make(map[int]*glamour.TermRenderer),
	}
}

// Render formats text for the given width.
func (m *Markdown) Render(text string, width int) string {
	if m == nil || !m.Enabled {
		return wordWrap(text, width)
	}
	r := m.renderer(width)
	if r == nil {
		return wordWrap(text, width)
	}
	out, err := r.Render(text)
	if err != nil {
		return wordWrap(text, width)
	}
	return strings.Trim(out, "\n")
}

// RenderParagraphs joins paragraphs as separate markdown blocks.
func (m *Markdown) RenderParagraphs(paragraphs []string, width int) string {
	return m.Render(strings.Join(paragraphs, "\n\n"), width)
}

func (m *Markdown) renderer(width int) *glamour.TermRenderer {
	if width < 20 {
		width = 20
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.renderers[width]; ok {
		return r
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		r = nil
	}
	m.renderers[width] = r
	return r
}
