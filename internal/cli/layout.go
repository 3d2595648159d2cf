package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orgmorph/pkg/chart"
	"github.com/matzehuels/orgmorph/pkg/layout"
	"github.com/matzehuels/orgmorph/pkg/org"
	"github.com/matzehuels/orgmorph/pkg/pipeline"
	"github.com/matzehuels/orgmorph/pkg/roster"
	"github.com/matzehuels/orgmorph/pkg/store"
)

// =============================================================================
// Shared Chart Flags
// =============================================================================

// chartFlags are the load and layout flags shared by chart commands.
type chartFlags struct {
	input        string
	view         string
	viewport     string
	strategy     string
	rowThreshold int
	noCache      bool
	refresh      bool
}

func (f *chartFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.input, "input", "", "chart a snapshot JSON file instead of the stored organisation")
	cmd.Flags().StringVar(&f.view, "view", "", "view: hierarchical, functional (default: stored preference)")
	cmd.Flags().StringVar(&f.viewport, "viewport", "", "viewport size used for auto-fit, e.g. 1920x1080")
	cmd.Flags().StringVar(&f.strategy, "strategy", "", "stagger strategy: by-squad, by-card, slow-then-fast")
	cmd.Flags().IntVar(&f.rowThreshold, "row-threshold", 0, "squad count above which frames wrap into a grid")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even when cached")
}

// apply copies the flags the user set onto opts.
func (f *chartFlags) apply(cmd *cobra.Command, opts *pipeline.Options) error {
	flags := cmd.Flags()
	opts.Input = f.input
	opts.Refresh = f.refresh
	if flags.Changed("view") {
		v, err := chart.ParseView(f.view)
		if err != nil {
			return err
		}
		opts.View = v
	}
	if flags.Changed("viewport") {
		w, h, err := parseViewport(f.viewport)
		if err != nil {
			return err
		}
		opts.ViewportWidth, opts.ViewportHeight = w, h
	}
	if flags.Changed("strategy") {
		opts.Strategy = f.strategy
	}
	if flags.Changed("row-threshold") {
		if f.rowThreshold < 1 {
			return fmt.Errorf("--row-threshold must be at least 1")
		}
		opts.RowThreshold = f.rowThreshold
	}
	return nil
}

// parseViewport parses "WIDTHxHEIGHT".
func parseViewport(s string) (float64, float64, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid viewport %q (want WIDTHxHEIGHT)", s)
	}
	w, err := strconv.ParseFloat(ws, 64)
	if err != nil || !(w > 0) {
		return 0, 0, fmt.Errorf("invalid viewport width %q", ws)
	}
	h, err := strconv.ParseFloat(hs, 64)
	if err != nil || !(h > 0) {
		return 0, 0, fmt.Errorf("invalid viewport height %q", hs)
	}
	return w, h, nil
}

// =============================================================================
// Chart Session
// =============================================================================

// chartSession bundles what a chart command needs: the organisation, the
// stored preferences and a cached runner.
type chartSession struct {
	svc    *roster.Service
	org    *org.Organization
	prefs  store.Preferences
	opts   pipeline.Options
	runner *pipeline.Runner
	close  func()
}

// openChart loads the organisation and preferences and resolves options:
// configuration, then preferences for anything the user did not set, then
// flags.
func (c *CLI) openChart(ctx context.Context, cmd *cobra.Command, f *chartFlags) (*chartSession, error) {
	svc, closeStore, err := c.openService(ctx)
	if err != nil {
		return nil, err
	}
	s := &chartSession{svc: svc, close: closeStore}

	opts := c.pipelineOptions()
	if err := f.apply(cmd, &opts); err != nil {
		s.Close()
		return nil, err
	}

	prefs, err := svc.Snapshots().LoadPreferences(ctx)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.prefs = prefs
	if opts.View == "" {
		opts.View = prefs.CurrentView
	}
	if !cmd.Flags().Changed("seniority") {
		opts.Seniority = opts.Seniority || prefs.ShowSeniority
	}

	o, err := pipeline.Load(ctx, svc, opts)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.org = o

	runner, err := c.newRunner(f.noCache)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	s.runner = runner
	s.opts = opts
	return s, nil
}

// Close releases the runner and the store.
func (s *chartSession) Close() {
	if s.runner != nil {
		s.runner.Close()
	}
	if s.close != nil {
		s.close()
	}
}

// =============================================================================
// Layout Command
// =============================================================================

// layoutCommand creates the layout command for computing chart layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  chartFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute the chart layout as JSON",
		Long: `Compute the chart layout of the stored organisation (or of --input).

The output is a chart JSON file holding every card position, connector,
squad frame and the auto-fit zoom. It is the same document as
'render -f json'.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), cmd, &flags, output)
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: orgchart_<view>.json)")

	return cmd
}

// runLayout computes the chart and writes it as JSON.
func (c *CLI) runLayout(ctx context.Context, cmd *cobra.Command, flags *chartFlags, output string) error {
	s, err := c.openChart(ctx, cmd, flags)
	if err != nil {
		return err
	}
	defer s.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", s.opts.View))
	spinner.Start()

	ch, cacheHit, err := s.runner.ComputeLayoutWithCacheInfo(ctx, s.org, s.opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = fmt.Sprintf("orgchart_%s.json", ch.View)
	}
	if err := chart.WriteFile(ch, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(s.org.People), len(s.org.Squads), len(ch.Unassigned), cacheHit)
	printKeyValue("Auto-fit zoom", fmt.Sprintf("%d%%", layout.ZoomPercent(ch.Zoom)))
	printNewline()
	printNextStep("Render", "orgmorph render --view "+ch.View)

	return nil
}
