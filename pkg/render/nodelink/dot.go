package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/orgmorph/pkg/org"
	"github.com/matzehuels/orgmorph/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds seniority and role badges to person labels.
	// When false, only the name and craft are shown.
	Detailed bool

	// Clusters groups each craft into its own Graphviz cluster.
	Clusters bool
}

// ToDOT converts the management tree of o to Graphviz DOT format.
// The director links to every manager and each manager to its reports.
// Developers whose manager is unknown are drawn without an incoming edge.
func ToDOT(o *org.Organization, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Inter\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [color=\"#94a3b8\", arrowhead=none];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	if o.Director.ID != "" {
		label := o.Director.FullName()
		if o.Director.Title != "" {
			label += "\n" + o.Director.Title
		}
		fmt.Fprintf(&buf, "  %q [label=%q, penwidth=2];\n", o.Director.ID, label)
	}

	for _, craft := range crafts(o.People) {
		indent := "  "
		if opts.Clusters {
			fmt.Fprintf(&buf, "\n  subgraph %q {\n", "cluster_"+craft.Slug())
			fmt.Fprintf(&buf, "    label=%q;\n    color=%q;\n    style=\"rounded,dashed\";\n", craft.String(), craft.Color())
			indent = "    "
		}
		for _, p := range o.PeopleByCraft(craft) {
			fmt.Fprintf(&buf, "%s%q [%s];\n", indent, p.ID, strings.Join(fmtAttrs(p, opts.Detailed), ", "))
		}
		if opts.Clusters {
			buf.WriteString("  }\n")
		}
	}

	buf.WriteString("\n")
	idx := org.NewIndex(o.People)
	for _, p := range o.People {
		switch {
		case p.IsManager && o.Director.ID != "":
			fmt.Fprintf(&buf, "  %q -> %q;\n", o.Director.ID, p.ID)
		case !p.IsManager && idx.IsManager(p.ManagerID):
			fmt.Fprintf(&buf, "  %q -> %q;\n", p.ManagerID, p.ID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// crafts returns the crafts present in people, in canonical order.
func crafts(people []org.Person) []org.Craft {
	seen := make(map[org.Craft]bool)
	for _, p := range people {
		seen[p.Craft] = true
	}
	var out []org.Craft
	for _, c := range org.Crafts {
		if seen[c] {
			out = append(out, c)
		}
	}
	return out
}

func fmtLabel(p org.Person, detailed bool) string {
	sub := string(p.Craft)
	if p.IsManager {
		sub = "Manager " + sub
	}
	label := p.FullName() + "\n" + sub
	if !detailed {
		return label
	}

	parts := []string{fmt.Sprintf("seniority: %d", p.Seniority)}
	if roles := p.Roles(); len(roles) > 0 {
		parts = append(parts, "roles: "+strings.Join(roles, " "))
	}
	if p.IsManager && p.ManagerTimePercent > 0 {
		parts = append(parts, fmt.Sprintf("management: %d%%", p.ManagerTimePercent))
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(p org.Person, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(p, detailed)), fmt.Sprintf("color=%q", p.Craft.Color())}
	if p.IsManager {
		attrs = append(attrs, "penwidth=2", fmt.Sprintf("fontcolor=%q", p.Craft.Color()))
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element with one whose
// viewBox starts at the origin and whose size matches it in pixels.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion at the given scale.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
