package sink

import (
	"bytes"
	"encoding/xml"

	"github.com/matzehuels/orgmorph/pkg/org"
)

const fontFamily = `Inter, 'Segoe UI', system-ui, sans-serif`

// Palette.
const (
	colorBackground    = "#f8fafc"
	colorSurface       = "#ffffff"
	colorBorder        = "#e2e8f0"
	colorTextPrimary   = "#0f172a"
	colorTextSecondary = "#64748b"
	colorConnector     = "#94a3b8"
	colorAvatarBg      = "rgba(148, 163, 184, 0.18)"
	colorAvatarText    = "#475569"
	colorSeniorityBg   = "rgba(251, 146, 60, 0.16)"
	colorSeniorityText = "#c2410c"
	colorHeaderBg      = "rgba(59, 130, 246, 0.08)"
	colorFrameBg       = "#f1f5f9"
)

// badgeColor is the fill of a role badge; badge text is always white.
type badgeColor struct {
	background string
	text       string
}

var roleBadges = map[string]badgeColor{
	org.RoleLeadDev:     {"#2563eb", "#ffffff"},
	org.RoleTechLead:    {"#7c3aed", "#ffffff"},
	org.RoleScrumMaster: {"#059669", "#ffffff"},
}

// Card inner geometry.
const (
	accentWidth   = 6.0
	cardRadius    = 10.0
	avatarRadius  = 18.0
	avatarOffsetX = 38.0
	textOffsetX   = 66.0
	badgeSize     = 18.0
	badgeGap      = 4.0
	badgeInset    = 8.0
	frameRadius   = 12.0
)

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// truncate shortens s to at most n runes, marking the cut with "…".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
