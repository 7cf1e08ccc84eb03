// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the gridterm console.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection. The palette is a neon-on-black terminal look: emerald for the
engine, cyan for the operator, rose for failures and amber for the HUD.

# Color System (colors.go)

	Emerald  - LINK entries, engine badge, EXECUTE state
	Cyan     - USER entries, prompt, network node URIs
	Rose     - failure entries, SECURE_LINK alert
	Amber    - SYSTEM entries, SYNCING state
	TextMuted - timestamps, hints

# Theme System (theme.go)

	theme := styles.NewTheme()
	badge := theme.BadgeFor("LINK")

# Animation System (animations.go)

	GridSpinner   - spinner shown while a query is in flight
	RenderScanline - horizontal rule used by the HUD and sources list
*/
package styles
