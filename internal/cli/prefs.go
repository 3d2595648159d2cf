package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orgmorph/pkg/chart"
	"github.com/matzehuels/orgmorph/pkg/layout"
	"github.com/matzehuels/orgmorph/pkg/store"
)

// prefsCommand creates the prefs command for the stored display settings.
func (c *CLI) prefsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change display preferences",
	}

	cmd.AddCommand(c.prefsShowCommand())
	cmd.AddCommand(c.prefsSetCommand())
	cmd.AddCommand(c.prefsResetCommand())

	return cmd
}

func (c *CLI) prefsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			prefs, err := svc.Snapshots().LoadPreferences(cmd.Context())
			if err != nil {
				return err
			}
			printPrefs(prefs)
			return nil
		},
	}
}

func (c *CLI) prefsSetCommand() *cobra.Command {
	var (
		view      string
		seniority bool
		zoom      float64
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change stored preferences",
		Example: `  orgmorph prefs set --view functional
  orgmorph prefs set --seniority --zoom 0.8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("view") && !flags.Changed("seniority") && !flags.Changed("zoom") {
				return fmt.Errorf("nothing to set (use --view, --seniority or --zoom)")
			}
			if flags.Changed("view") {
				v, err := chart.ParseView(view)
				if err != nil {
					return err
				}
				view = v
			}

			svc, closeStore, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			prefs, err := svc.Snapshots().UpdatePreferences(cmd.Context(), func(p *store.Preferences) {
				if flags.Changed("view") {
					p.CurrentView = view
				}
				if flags.Changed("seniority") {
					p.ShowSeniority = seniority
				}
				if flags.Changed("zoom") {
					p.Zoom = layout.ClampZoom(zoom)
				}
			})
			if err != nil {
				return err
			}
			printSuccess("Preferences saved")
			printPrefs(prefs)
			return nil
		},
	}

	cmd.Flags().StringVar(&view, "view", "", "view: hierarchical, functional")
	cmd.Flags().BoolVar(&seniority, "seniority", false, "show seniority badges")
	cmd.Flags().Float64Var(&zoom, "zoom", layout.DefaultZoom, "zoom (clamped to 0.5–1.5)")

	return cmd
}

func (c *CLI) prefsResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore default preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			if err := svc.Snapshots().ResetPreferences(cmd.Context()); err != nil {
				return err
			}
			printSuccess("Preferences reset")
			printPrefs(store.DefaultPreferences())
			return nil
		},
	}
}

func printPrefs(p store.Preferences) {
	printKeyValue("View", p.CurrentView)
	printKeyValue("Seniority", strconv.FormatBool(p.ShowSeniority))
	printKeyValue("Zoom", fmt.Sprintf("%d%%", layout.ZoomPercent(p.Zoom)))
}
