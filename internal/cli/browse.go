package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/orgmorph/pkg/store"
)

// browseCommand creates the interactive browser.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the organisation interactively",
		Long: `Browse the organisation in the terminal.

Tab switches between the hierarchical and functional grouping, 's' toggles
seniority, '+' and '-' change the zoom used by 'render'. View, seniority
and zoom are saved as preferences on exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, closeStore, err := c.openService(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			o, err := svc.Initialize(ctx)
			if err != nil {
				return err
			}
			prefs, err := svc.Snapshots().LoadPreferences(ctx)
			if err != nil {
				return err
			}

			final, err := tea.NewProgram(NewBrowseModel(o, prefs), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			if err != nil {
				return fmt.Errorf("browse: %w", err)
			}
			m, ok := final.(BrowseModel)
			if !ok || !m.Changed {
				return nil
			}
			saved, err := svc.Snapshots().UpdatePreferences(ctx, func(p *store.Preferences) {
				*p = m.Prefs
			})
			if err != nil {
				return err
			}
			printSuccess("Preferences saved")
			printPrefs(saved)
			return nil
		},
	}
}
