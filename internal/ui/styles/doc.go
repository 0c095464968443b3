// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the Verifact TUI.

# Color System (colors.go)

All colors are Lip Gloss AdaptiveColor values so they follow the terminal's
light or dark background. Verdict accents:

	Green  - verified
	Red    - debunked
	Sky    - pending
	Yellow - inconclusive

# Status Presentation (status.go)

PresentStatus maps a model.Status to an icon, accent and label. It is total:
anything that is not one of the four known statuses is drawn as pending.

	p := styles.PresentStatus(msg.Status)
	badge := styles.StatusBadge(theme, msg.Status)

# Theme System (theme.go)

	theme := styles.NewTheme(cfg.UI.Theme) // "light", "dark" or "system"
	if theme.ASCII {
		// No color support; glyphs fall back to [OK], [X], [?], [ ]
	}
*/
package styles
