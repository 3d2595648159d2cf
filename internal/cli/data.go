package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	orgio "github.com/matzehuels/orgmorph/pkg/io"
)

// dataCommand creates the data command group for the stored snapshot.
func (c *CLI) dataCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Manage the stored organisation snapshot",
		Long: `Manage the stored organisation snapshot and its backup.

Replacing the organisation (reset, import of a JSON snapshot) first copies
the current snapshot into the backup slot; 'data restore' puts it back.`,
	}

	cmd.AddCommand(c.dataInitCommand())
	cmd.AddCommand(c.dataShowCommand())
	cmd.AddCommand(c.dataInfoCommand())
	cmd.AddCommand(c.dataResetCommand())
	cmd.AddCommand(c.dataBackupCommand())
	cmd.AddCommand(c.dataRestoreCommand())
	cmd.AddCommand(c.dataClearCommand())

	return cmd
}

func (c *CLI) dataInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate sample data when nothing is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			had, err := svc.Snapshots().HasData(cmd.Context())
			if err != nil {
				return err
			}
			o, err := svc.Initialize(cmd.Context())
			if err != nil {
				return err
			}
			if had {
				printInfo("Organisation already stored")
			} else {
				printSuccess("Generated sample organisation")
			}
			printStats(len(o.People), len(o.Squads), 0, false)
			return nil
		},
	}
}

func (c *CLI) dataShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored snapshot as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			o, err := svc.Current(cmd.Context())
			if err != nil {
				return err
			}
			return orgio.WriteJSON(stdout, o)
		},
	}
}

func (c *CLI) dataInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Summarise the stored snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, closeStore, err := c.openService(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			snaps := svc.Snapshots()
			printKeyValue("Store", c.config().Store.Backend)

			o, err := snaps.Load(ctx)
			if err != nil {
				return err
			}
			if o == nil {
				printInfo("No organisation stored")
				printNextStep("Generate sample data", "orgmorph data init")
				return nil
			}

			size, err := snaps.Size(ctx)
			if err != nil {
				return err
			}
			hasBackup, err := snaps.HasBackup(ctx)
			if err != nil {
				return err
			}

			printKeyValue("Version", o.Version)
			printKeyValue("Updated", formatMillis(o.LastUpdated))
			printKeyValue("Size", formatBytes(size))
			printKeyValue("Managers", strconv.Itoa(len(o.Managers())))
			printKeyValue("Developers", strconv.Itoa(len(o.Developers())))
			printKeyValue("Squads", strconv.Itoa(len(o.Squads)))
			printKeyValue("Backup", yesNo(hasBackup))

			if issues := o.Check(); len(issues) > 0 {
				printNewline()
				printWarning("%d consistency issue(s)", len(issues))
				for _, is := range issues {
					printDetail("%s", is.String())
				}
			}
			return nil
		},
	}
}

func (c *CLI) dataResetCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Replace the organisation with fresh sample data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("reset replaces the stored organisation; confirm with --yes")
			}
			svc, closeStore, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			o, err := svc.ResetToMock(cmd.Context())
			if err != nil {
				return err
			}
			printSuccess("Organisation reset to sample data")
			printStats(len(o.People), len(o.Squads), 0, false)
			printNextStep("Undo", "orgmorph data restore")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}

func (c *CLI) dataBackupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Copy the current snapshot into the backup slot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			ok, err := svc.Snapshots().CreateBackup(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				printWarning("Nothing to back up")
				return nil
			}
			printSuccess("Backup created")
			return nil
		},
	}
}

func (c *CLI) dataRestoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "restore",
		Short: "Put the backup back in place",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			o, err := svc.Restore(cmd.Context())
			if err != nil {
				return err
			}
			printSuccess("Backup restored")
			printStats(len(o.People), len(o.Squads), 0, false)
			return nil
		},
	}
}

func (c *CLI) dataClearCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the snapshot, the backup and the preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("clear deletes all stored data; confirm with --yes")
			}
			svc, closeStore, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			if err := svc.Snapshots().Clear(cmd.Context()); err != nil {
				return err
			}
			if err := svc.Snapshots().ResetPreferences(cmd.Context()); err != nil {
				return err
			}
			printSuccess("Stored data cleared")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")
	return cmd
}

func formatMillis(ms int64) string {
	if ms == 0 {
		return "-"
	}
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04:05")
}

func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
