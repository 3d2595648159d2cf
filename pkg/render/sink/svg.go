package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/orgmorph/pkg/chart"
	"github.com/matzehuels/orgmorph/pkg/layout"
	"github.com/matzehuels/orgmorph/pkg/layout/squads"
	"github.com/matzehuels/orgmorph/pkg/org"
)

const cardCSS = `
    .card-bg { fill: ` + colorSurface + `; stroke: ` + colorBorder + `; }
    .card-manager .card-name { font-weight: 700; }
    .card-name { font-size: 14px; font-weight: 600; fill: ` + colorTextPrimary + `; }
    .card-subtitle { font-size: 12px; font-weight: 500; fill: ` + colorTextSecondary + `; }
    .avatar-text { font-size: 13px; font-weight: 600; fill: ` + colorAvatarText + `; }
    .badge-text { font-size: 10px; font-weight: 600; }
    .connector { stroke: ` + colorConnector + `; stroke-width: 2; fill: none; }
    .squad-name { font-size: 16px; font-weight: 600; fill: ` + colorTextPrimary + `; }
    .squad-count { font-size: 12px; fill: ` + colorTextSecondary + `; }
    .train-title { font-size: 18px; font-weight: 600; fill: ` + colorTextPrimary + `; }`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	seniority bool
	zoom      float64
	title     string
	animate   bool
}

// WithSeniority shows the seniority badge on every person card.
func WithSeniority() SVGOption { return func(r *svgRenderer) { r.seniority = true } }

// WithZoom scales the output width and height. The viewBox is unchanged.
func WithZoom(z float64) SVGOption { return func(r *svgRenderer) { r.zoom = z } }

// WithTitle sets the document title.
func WithTitle(t string) SVGOption { return func(r *svgRenderer) { r.title = t } }

// WithAnimation adds CSS entry animations staggered by each card's delay.
func WithAnimation() SVGOption { return func(r *svgRenderer) { r.animate = true } }

// RenderSVG renders c as an SVG document.
func RenderSVG(c chart.Chart, opts ...SVGOption) []byte {
	r := svgRenderer{zoom: 1}
	for _, opt := range opts {
		opt(&r)
	}
	if !(r.zoom > 0) {
		r.zoom = 1
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" font-family="%s">`+"\n",
		c.Width, c.Height, c.Width*r.zoom, c.Height*r.zoom, escapeXML(fontFamily))
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(r.title))
	}
	renderStyle(&buf, c, r.animate)
	fmt.Fprintf(&buf, `  <rect class="background" x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n", c.Width, c.Height, colorBackground)

	if c.IsFunctional() {
		renderTrainHeader(&buf, c)
		for _, g := range c.Groups {
			renderFrame(&buf, g)
		}
	}
	for _, s := range c.Connectors {
		fmt.Fprintf(&buf, `  <line class="connector" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", s.X1, s.Y1, s.X2, s.Y2)
	}
	for _, n := range c.Nodes {
		renderCard(&buf, n, r)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderStyle(buf *bytes.Buffer, c chart.Chart, animate bool) {
	buf.WriteString("  <style>")
	buf.WriteString(cardCSS)
	if animate {
		t := squads.DefaultTransition
		if c.Transition != nil {
			t = *c.Transition
		}
		fmt.Fprintf(buf, `
    @keyframes card-enter { from { opacity: 0; transform: translateY(12px); } to { opacity: 1; transform: none; } }
    .card { animation: card-enter %.2fs cubic-bezier(%g, %g, %g, %g) both; }`,
			t.Duration, t.Ease[0], t.Ease[1], t.Ease[2], t.Ease[3])
	}
	buf.WriteString("\n  </style>\n")
}

func renderTrainHeader(buf *bytes.Buffer, c chart.Chart) {
	fmt.Fprintf(buf, `  <rect class="train-header" x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
		c.Width, squads.TrainHeader, colorHeaderBg)
	fmt.Fprintf(buf, `  <line x1="0" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2"/>`+"\n",
		squads.TrainHeader, c.Width, squads.TrainHeader, colorBorder)
	if c.Title != "" {
		x := squads.ContainerPadding + layout.CardWidth + squads.Gap
		fmt.Fprintf(buf, `  <text class="train-title" x="%.1f" y="%.1f" dominant-baseline="middle">%s</text>`+"\n",
			x, squads.TrainHeader/2, escapeXML(c.Title))
	}
}

func renderFrame(buf *bytes.Buffer, g chart.Group) {
	fmt.Fprintf(buf, `  <g class="squad" id="squad-%s">`+"\n", escapeXML(g.ID))
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.0f" fill="%s" stroke="%s"/>`+"\n",
		g.X, g.Y, g.Width, g.Height, frameRadius, colorFrameBg, colorBorder)
	fmt.Fprintf(buf, `    <text class="squad-name" x="%.1f" y="%.1f">%s</text>`+"\n",
		g.X+squads.SquadPadding, g.Y+squads.SquadPadding+18, escapeXML(truncate(g.Name, 24)))
	fmt.Fprintf(buf, `    <text class="squad-count" x="%.1f" y="%.1f" text-anchor="end">%s</text>`+"\n",
		g.X+g.Width-squads.SquadPadding, g.Y+squads.SquadPadding+18, memberCount(len(g.Members)))
	buf.WriteString("  </g>\n")
}

func memberCount(n int) string {
	if n == 1 {
		return "1 membre"
	}
	return fmt.Sprintf("%d membres", n)
}

func renderCard(buf *bytes.Buffer, n chart.Node, r svgRenderer) {
	class := "card card-" + n.Kind
	if n.Craft != "" {
		class += " craft-" + org.Craft(n.Craft).Slug()
	}
	style := ""
	if r.animate {
		style = fmt.Sprintf(` style="animation-delay: %.2fs"`, n.Delay)
	}
	fmt.Fprintf(buf, `  <g class="%s" id="card-%s" data-kind="%s"%s>`+"\n", class, escapeXML(n.ID), n.Kind, style)

	fmt.Fprintf(buf, `    <rect class="card-bg" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.0f"/>`+"\n",
		n.X, n.Y, n.Width, n.Height, cardRadius)
	accent := n.Color
	if accent == "" {
		accent = colorTextSecondary
	}
	fmt.Fprintf(buf, `    <rect class="card-accent" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="3" fill="%s"/>`+"\n",
		n.X, n.Y, accentWidth, n.Height, accent)

	cx, cy := n.X+avatarOffsetX, n.Y+n.Height/2
	fmt.Fprintf(buf, `    <circle cx="%.1f" cy="%.1f" r="%.0f" fill="%s"/>`+"\n", cx, cy, avatarRadius, colorAvatarBg)
	fmt.Fprintf(buf, `    <text class="avatar-text" x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
		cx, cy, escapeXML(n.Initials))

	nameFill := ""
	if n.Kind == chart.KindManager && n.Color != "" {
		nameFill = fmt.Sprintf(` fill="%s"`, n.Color)
	}
	fmt.Fprintf(buf, `    <text class="card-name" x="%.1f" y="%.1f"%s>%s</text>`+"\n",
		n.X+textOffsetX, n.Y+32, nameFill, escapeXML(truncate(n.Label, 18)))
	if n.Subtitle != "" {
		fmt.Fprintf(buf, `    <text class="card-subtitle" x="%.1f" y="%.1f">%s</text>`+"\n",
			n.X+textOffsetX, n.Y+50, escapeXML(truncate(n.Subtitle, 26)))
	}

	renderBadges(buf, n, r.seniority)
	buf.WriteString("  </g>\n")
}

// renderBadges draws role badges right-aligned along the top edge, and the
// seniority badge and manager time tag along the bottom edge.
func renderBadges(buf *bytes.Buffer, n chart.Node, seniority bool) {
	x := n.X + n.Width - badgeInset - badgeSize
	for i := len(n.Roles) - 1; i >= 0; i-- {
		role := n.Roles[i]
		col, ok := roleBadges[role]
		if !ok {
			continue
		}
		drawBadge(buf, x, n.Y+badgeInset, badgeSize, role, col.background, col.text, "badge-role")
		x -= badgeSize + badgeGap
	}

	bx := n.X + n.Width - badgeInset
	by := n.Y + n.Height - badgeInset - badgeSize
	if seniority && n.Seniority > 0 && n.Kind != chart.KindDirector && n.Kind != chart.KindRTE {
		bx -= badgeSize
		drawBadge(buf, bx, by, badgeSize, fmt.Sprint(n.Seniority), colorSeniorityBg, colorSeniorityText, "badge-seniority")
		bx -= badgeGap
	}
	if n.Kind == chart.KindManager && n.ManagerTimePercent > 0 && n.ManagerTimePercent < 100 {
		w := 2 * badgeSize
		bx -= w
		drawBadge(buf, bx, by, w, fmt.Sprintf("%d%%", n.ManagerTimePercent), colorAvatarBg, colorAvatarText, "badge-time")
	}
}

func drawBadge(buf *bytes.Buffer, x, y, w float64, label, bg, fg, class string) {
	fmt.Fprintf(buf, `    <g class="%s"><rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" fill="%s"/>`,
		class, x, y, w, badgeSize, badgeSize/2, bg)
	fmt.Fprintf(buf, `<text class="badge-text" x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="central" fill="%s">%s</text></g>`+"\n",
		x+w/2, y+badgeSize/2, fg, escapeXML(label))
}
