package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orgmorph/pkg/org"
)

// squadCommand creates the squad command group.
func (c *CLI) squadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "squad",
		Aliases: []string{"squads"},
		Short:   "List and edit squads",
	}

	cmd.AddCommand(c.squadListCommand())
	cmd.AddCommand(c.squadShowCommand())
	cmd.AddCommand(c.squadAddCommand())
	cmd.AddCommand(c.squadUpdateCommand())
	cmd.AddCommand(c.squadDeleteCommand())

	return cmd
}

func (c *CLI) squadListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List squads with their member counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			o, err := svc.Initialize(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(o.Squads))
			for _, s := range o.Squads {
				rows = append(rows, []string{
					shortID(s.ID),
					s.Name,
					strconv.Itoa(len(o.SquadMembers(s.ID))),
					squadCrafts(o, s.ID),
				})
			}
			printTable([]string{"ID", "Squad", "Membres", "Métiers"}, rows)
			printDetail("train: %s", o.Train.Name)
			return nil
		},
	}
}

func (c *CLI) squadShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id|name>",
		Short: "Show a squad and its members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			o, err := svc.Initialize(cmd.Context())
			if err != nil {
				return err
			}
			s, err := svc.Squad(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(stdout, StyleTitle.Render(s.Name))
			printKeyValue("ID", s.ID)
			printKeyValue("Train", o.Train.Name)
			members := o.SquadMembers(s.ID)
			if len(members) == 0 {
				printDetail("no members")
				return nil
			}
			printTable(personHeaders, personRows(o, members))
			return nil
		},
	}
}

func (c *CLI) squadAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Create an empty squad",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			s, err := svc.AddSquad(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			printSuccess("Created squad %s", s.Name)
			printDetail("id: %s", s.ID)
			return nil
		},
	}
}

func (c *CLI) squadUpdateCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "update <id|name>",
		Short: "Rename a squad",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("name") {
				return fmt.Errorf("nothing to update (use --name)")
			}
			svc, closeStore, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			s, err := svc.Squad(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			name = strings.TrimSpace(name)
			updated, err := svc.UpdateSquad(cmd.Context(), s.ID, org.SquadPatch{Name: &name})
			if err != nil {
				return err
			}
			printSuccess("Renamed %s to %s", s.Name, updated.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new squad name")
	return cmd
}

func (c *CLI) squadDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id|name>",
		Aliases: []string{"rm"},
		Short:   "Remove a squad; its members stay without a squad",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			s, err := svc.Squad(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := svc.DeleteSquad(cmd.Context(), s.ID); err != nil {
				return err
			}
			printSuccess("Removed squad %s", s.Name)
			return nil
		},
	}
}

// squadCrafts lists the distinct crafts of a squad in catalogue order.
func squadCrafts(o *org.Organization, squadID string) string {
	seen := make(map[org.Craft]bool)
	for _, p := range o.SquadMembers(squadID) {
		seen[p.Craft] = true
	}
	var names []string
	for _, cr := range org.Crafts {
		if seen[cr] {
			names = append(names, string(cr))
		}
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}

// =============================================================================
// Director and RTE
// =============================================================================

// leaderFlags edit the name and title of the director or the RTE.
type leaderFlags struct {
	firstName string
	lastName  string
	title     string
}

func (f *leaderFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.firstName, "first", "", "first name")
	cmd.Flags().StringVar(&f.lastName, "last", "", "last name")
	cmd.Flags().StringVar(&f.title, "title", "", "title")
}

// changed returns pointers for the flags the user set, or an error when
// none was.
func (f *leaderFlags) changed(cmd *cobra.Command) (first, last, title *string, err error) {
	flags := cmd.Flags()
	if flags.Changed("first") {
		v := strings.TrimSpace(f.firstName)
		first = &v
	}
	if flags.Changed("last") {
		v := strings.TrimSpace(f.lastName)
		last = &v
	}
	if flags.Changed("title") {
		v := strings.TrimSpace(f.title)
		title = &v
	}
	if first == nil && last == nil && title == nil {
		return nil, nil, nil, fmt.Errorf("nothing to set (use --first, --last or --title)")
	}
	return first, last, title, nil
}

// directorCommand creates the director command.
func (c *CLI) directorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "director",
		Short: "Show or edit the director",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			o, err := svc.Initialize(cmd.Context())
			if err != nil {
				return err
			}
			printLeader(o.Director.FullName(), o.Director.Title, len(o.Managers()), "managers")
			return nil
		},
	}

	var flags leaderFlags
	set := &cobra.Command{
		Use:   "set",
		Short: "Change the director's name or title",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			first, last, title, err := flags.changed(cmd)
			if err != nil {
				return err
			}
			svc, closeStore, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			d, err := svc.UpdateDirector(cmd.Context(), org.DirectorPatch{FirstName: first, LastName: last, Title: title})
			if err != nil {
				return err
			}
			printSuccess("Director updated")
			printKeyValue("Name", d.FullName())
			printKeyValue("Title", d.Title)
			return nil
		},
	}
	flags.bind(set)
	cmd.AddCommand(set)

	return cmd
}

// rteCommand creates the rte command.
func (c *CLI) rteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rte",
		Short: "Show or edit the release train engineer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			o, err := svc.Initialize(cmd.Context())
			if err != nil {
				return err
			}
			printLeader(o.RTE.FullName(), o.RTE.Title, len(o.Squads), "squads")
			printKeyValue("Train", o.Train.Name)
			return nil
		},
	}

	var flags leaderFlags
	set := &cobra.Command{
		Use:   "set",
		Short: "Change the RTE's name or title",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			first, last, title, err := flags.changed(cmd)
			if err != nil {
				return err
			}
			svc, closeStore, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			r, err := svc.UpdateRTE(cmd.Context(), org.RTEPatch{FirstName: first, LastName: last, Title: title})
			if err != nil {
				return err
			}
			printSuccess("RTE updated")
			printKeyValue("Name", r.FullName())
			printKeyValue("Title", r.Title)
			return nil
		},
	}
	flags.bind(set)
	cmd.AddCommand(set)

	return cmd
}

func printLeader(name, title string, count int, noun string) {
	fmt.Fprintln(stdout, StyleTitle.Render(name))
	printKeyValue("Title", title)
	printKeyValue(strings.ToUpper(noun[:1])+noun[1:], strconv.Itoa(count))
}
