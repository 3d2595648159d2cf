package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orgmorph/pkg/layout"
	"github.com/matzehuels/orgmorph/pkg/store"
)

// zoomCommand creates the zoom command that adjusts the stored zoom.
func (c *CLI) zoomCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zoom",
		Short: "Adjust the stored chart zoom",
		Long: fmt.Sprintf(`Adjust the zoom stored in the preferences and used by 'render'.

The zoom stays within %d%%–%d%% and moves in steps of %d%%. 'fit' computes
the zoom that fits the current view into the viewport.`,
			layout.ZoomPercent(layout.MinZoom), layout.ZoomPercent(layout.MaxZoom), layout.ZoomPercent(layout.ZoomStep)),
	}

	cmd.AddCommand(c.zoomStepCommand("in", "Zoom in one step", layout.ZoomIn))
	cmd.AddCommand(c.zoomStepCommand("out", "Zoom out one step", layout.ZoomOut))
	cmd.AddCommand(c.zoomStepCommand("reset", "Reset the zoom to 100%", func(float64) float64 { return layout.ResetZoom() }))
	cmd.AddCommand(c.zoomFitCommand())

	return cmd
}

// zoomStepCommand applies step to the stored zoom.
func (c *CLI) zoomStepCommand(use, short string, step func(float64) float64) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			prefs, err := svc.Snapshots().UpdatePreferences(cmd.Context(), func(p *store.Preferences) {
				p.Zoom = step(p.Zoom)
			})
			if err != nil {
				return err
			}
			printZoom(prefs.Zoom)
			return nil
		},
	}
}

// zoomFitCommand stores the auto-fit zoom of the current view.
func (c *CLI) zoomFitCommand() *cobra.Command {
	var flags chartFlags

	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit the current view into the viewport",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runZoomFit(cmd.Context(), cmd, &flags)
		},
	}
	flags.bind(cmd)
	return cmd
}

func (c *CLI) runZoomFit(ctx context.Context, cmd *cobra.Command, flags *chartFlags) error {
	s, err := c.openChart(ctx, cmd, flags)
	if err != nil {
		return err
	}
	defer s.Close()

	ch, err := s.runner.ComputeLayout(ctx, s.org, s.opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	if !layout.ShouldApplyZoom(s.prefs.Zoom, ch.Zoom) {
		printInfo("Zoom already fits the %s view", ch.View)
		printZoom(s.prefs.Zoom)
		return nil
	}
	prefs, err := s.svc.Snapshots().UpdatePreferences(ctx, func(p *store.Preferences) {
		p.Zoom = ch.Zoom
	})
	if err != nil {
		return err
	}
	printZoom(prefs.Zoom)
	return nil
}

func printZoom(z float64) {
	printKeyValue("Zoom", StyleNumber.Render(fmt.Sprintf("%d%%", layout.ZoomPercent(z))))
}
