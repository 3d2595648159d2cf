package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orgmorph/pkg/pipeline"
)

// renderFlags are the render-only flags of the render command.
type renderFlags struct {
	chartFlags
	formats   string
	diagram   string
	seniority bool
	animate   bool
	zoom      float64
	scale     float64
	title     string
	detailed  bool
	output    string
}

// renderCommand creates the render command: load → layout → render.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the org chart to SVG, PNG, PDF, JSON or DOT",
		Long: `Render the org chart of the stored organisation (or of --input).

The cards diagram draws the positioned cards of the selected view. The tree
diagram draws the management tree with Graphviz, one cluster per craft.

Unset options fall back to the stored preferences (view, seniority badges,
zoom) and then to the configuration file.

Results are cached locally for faster subsequent runs.`,
		Example: `  orgmorph render --view functional -f svg,png
  orgmorph render --diagram tree -f pdf -o org
  orgmorph render --input snapshot.json -f json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), cmd, &flags)
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): svg, png, pdf, json, dot (comma-separated)")
	cmd.Flags().StringVar(&flags.diagram, "diagram", pipeline.DiagramCards, "diagram: cards, tree")
	cmd.Flags().BoolVar(&flags.seniority, "seniority", false, "show seniority badges")
	cmd.Flags().BoolVar(&flags.animate, "animate", false, "stagger card animations (functional view)")
	cmd.Flags().Float64Var(&flags.zoom, "zoom", 0, "output scale of the cards (default: stored preference)")
	cmd.Flags().Float64Var(&flags.scale, "scale", 0, "PNG resolution multiplier")
	cmd.Flags().StringVar(&flags.title, "title", "", "document title")
	cmd.Flags().BoolVar(&flags.detailed, "detailed", false, "show seniority and roles in tree labels")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (multiple)")

	return cmd
}

// apply copies the render flags the user set onto opts.
func (f *renderFlags) apply(cmd *cobra.Command, opts *pipeline.Options) error {
	flags := cmd.Flags()
	if flags.Changed("format") {
		opts.Formats = pipeline.ParseFormats(f.formats)
	}
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return err
	}
	opts.Diagram = f.diagram
	if err := pipeline.ValidateDiagram(opts.Diagram); err != nil {
		return err
	}
	if flags.Changed("seniority") {
		opts.Seniority = f.seniority
	}
	if flags.Changed("animate") {
		opts.Animate = f.animate
	}
	if flags.Changed("zoom") {
		opts.Zoom = f.zoom
	}
	if flags.Changed("scale") {
		opts.Scale = f.scale
	}
	opts.Title = f.title
	opts.Detailed = f.detailed
	return nil
}

// runRender executes the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, cmd *cobra.Command, flags *renderFlags) error {
	s, err := c.openChart(ctx, cmd, &flags.chartFlags)
	if err != nil {
		return err
	}
	defer s.Close()

	opts := s.opts
	opts.Zoom = s.prefs.Zoom
	if err := flags.apply(cmd, &opts); err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))
	spinner.Start()

	result, err := s.runner.Execute(ctx, s.org, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if result.Stats.Unassigned > 0 {
		printWarning("%d developer(s) without a known manager are not drawn", result.Stats.Unassigned)
	}

	base := defaultBase(result.Chart.View, opts.Diagram)
	return writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		base:      base,
		output:    flags.output,
		stats:     result.Stats,
		cacheHit:  result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit,
	})
}

// defaultBase names output files after the diagram and view.
func defaultBase(view, diagram string) string {
	if diagram == pipeline.DiagramTree {
		return "orgchart_tree"
	}
	return "orgchart_" + view
}

// =============================================================================
// Artifact Output
// =============================================================================

type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	base      string // default base path without extension
	output    string // user-supplied -o, may be empty
	stats     pipeline.Stats
	cacheHit  bool
}

// writeArtifacts writes each artifact in request order and prints a summary.
func writeArtifacts(p artifactWriteParams) error {
	paths := outputPaths(p.formats, p.base, p.output)
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}
		path := paths[format]
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	printSuccess("Render complete")
	for _, format := range p.formats {
		if _, ok := p.artifacts[format]; ok {
			printFile(paths[format])
		}
	}
	printStats(p.stats.People, p.stats.Squads, p.stats.Unassigned, p.cacheHit)
	return nil
}

// outputPaths derives one path per format. A single format written to an
// -o path is used verbatim; otherwise -o is a base path and any known
// format extension on it is stripped.
func outputPaths(formats []string, base, output string) map[string]string {
	paths := make(map[string]string, len(formats))
	if output != "" && len(formats) == 1 && filepath.Ext(output) != "" {
		paths[formats[0]] = output
		return paths
	}
	if output != "" {
		base = output
		if ext := filepath.Ext(output); pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
			base = strings.TrimSuffix(output, ext)
		}
	}
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}
