package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orgmorph/pkg/org"
)

// =============================================================================
// Person Flags
// =============================================================================

// personFlags bind the editable person fields. Manager and squad accept an
// id or a name.
type personFlags struct {
	firstName     string
	lastName      string
	craft         string
	seniority     int
	leadDev       bool
	techLead      bool
	scrumMaster   bool
	manager       string
	squad         string
	isManager     bool
	managerTimePc int
}

func (f *personFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.firstName, "first", "", "first name")
	cmd.Flags().StringVar(&f.lastName, "last", "", "last name")
	cmd.Flags().StringVar(&f.craft, "craft", "", "craft: "+strings.Join(org.CraftNames(), ", "))
	cmd.Flags().IntVar(&f.seniority, "seniority", 1, "seniority from 1 to 4")
	cmd.Flags().BoolVar(&f.leadDev, "lead-dev", false, "lead developer role")
	cmd.Flags().BoolVar(&f.techLead, "tech-lead", false, "tech lead role")
	cmd.Flags().BoolVar(&f.scrumMaster, "scrum-master", false, "scrum master role")
	cmd.Flags().StringVar(&f.manager, "manager", "", "manager id or name")
	cmd.Flags().StringVar(&f.squad, "squad", "", "squad id or name (empty to leave the squad)")
	cmd.Flags().BoolVar(&f.isManager, "is-manager", false, "the person is a manager")
	cmd.Flags().IntVar(&f.managerTimePc, "manager-time", 0, "share of time spent managing: 0, 50 or 100")
}

// person builds a new person from the flags, resolving references in o.
func (f *personFlags) person(o *org.Organization) (org.Person, error) {
	craft, err := parseCraft(f.craft)
	if err != nil {
		return org.Person{}, err
	}
	managerID, err := resolveManager(o, f.manager)
	if err != nil {
		return org.Person{}, err
	}
	squadID, err := resolveSquad(o, f.squad)
	if err != nil {
		return org.Person{}, err
	}
	return org.Person{
		FirstName:          strings.TrimSpace(f.firstName),
		LastName:           strings.TrimSpace(f.lastName),
		Craft:              craft,
		Seniority:          f.seniority,
		IsLeadDev:          f.leadDev,
		IsTechLead:         f.techLead,
		IsScrumMaster:      f.scrumMaster,
		ManagerID:          managerID,
		SquadID:            squadID,
		IsManager:          f.isManager,
		ManagerTimePercent: f.managerTimePc,
	}, nil
}

// patch builds a patch holding only the flags the user set.
func (f *personFlags) patch(cmd *cobra.Command, o *org.Organization) (org.PersonPatch, error) {
	var p org.PersonPatch
	flags := cmd.Flags()

	if flags.Changed("first") {
		v := strings.TrimSpace(f.firstName)
		p.FirstName = &v
	}
	if flags.Changed("last") {
		v := strings.TrimSpace(f.lastName)
		p.LastName = &v
	}
	if flags.Changed("craft") {
		craft, err := parseCraft(f.craft)
		if err != nil {
			return p, err
		}
		p.Craft = &craft
	}
	if flags.Changed("seniority") {
		p.Seniority = &f.seniority
	}
	if flags.Changed("lead-dev") {
		p.IsLeadDev = &f.leadDev
	}
	if flags.Changed("tech-lead") {
		p.IsTechLead = &f.techLead
	}
	if flags.Changed("scrum-master") {
		p.IsScrumMaster = &f.scrumMaster
	}
	if flags.Changed("manager") {
		id, err := resolveManager(o, f.manager)
		if err != nil {
			return p, err
		}
		p.ManagerID = &id
	}
	if flags.Changed("squad") {
		id, err := resolveSquad(o, f.squad)
		if err != nil {
			return p, err
		}
		p.SquadID = &id
	}
	if flags.Changed("is-manager") {
		p.IsManager = &f.isManager
	}
	if flags.Changed("manager-time") {
		p.ManagerTimePercent = &f.managerTimePc
	}
	return p, nil
}

// parseCraft accepts a craft label in any case. Empty leaves the craft
// unset so that form validation reports it.
func parseCraft(s string) (org.Craft, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if c, ok := org.ParseCraft(s); ok {
		return c, nil
	}
	for _, name := range org.CraftNames() {
		if strings.EqualFold(name, s) || org.FoldName(name) == org.FoldName(s) {
			return org.Craft(name), nil
		}
	}
	return "", fmt.Errorf("unknown craft %q (want one of %s)", s, strings.Join(org.CraftNames(), ", "))
}

// resolveManager maps an id or a name to a manager id. The director counts
// as a manager.
func resolveManager(o *org.Organization, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", nil
	}
	if ref == o.Director.ID || org.MatchName(ref, o.Director.FirstName, o.Director.LastName) {
		return o.Director.ID, nil
	}
	if p, ok := o.Person(ref); ok && p.IsManager {
		return p.ID, nil
	}
	if m, ok := o.FindManager(ref); ok {
		return m.ID, nil
	}
	return "", fmt.Errorf("manager %q not found", ref)
}

// resolveSquad maps an id or a name to a squad id.
func resolveSquad(o *org.Organization, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", nil
	}
	if s, ok := o.Squad(ref); ok {
		return s.ID, nil
	}
	if s, ok := o.FindSquad(ref); ok {
		return s.ID, nil
	}
	return "", fmt.Errorf("squad %q not found", ref)
}

// =============================================================================
// People Commands
// =============================================================================

// peopleCommand creates the people command group.
func (c *CLI) peopleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "people",
		Aliases: []string{"person"},
		Short:   "List and edit managers and developers",
	}

	cmd.AddCommand(c.peopleListCommand())
	cmd.AddCommand(c.peopleShowCommand())
	cmd.AddCommand(c.peopleAddCommand())
	cmd.AddCommand(c.peopleUpdateCommand())
	cmd.AddCommand(c.peopleDeleteCommand())

	return cmd
}

func (c *CLI) peopleListCommand() *cobra.Command {
	var (
		craft    string
		manager  string
		squad    string
		managers bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List people",
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

			people := o.People
			if managers {
				people = o.Managers()
			}
			if craft != "" {
				cr, err := parseCraft(craft)
				if err != nil {
					return err
				}
				people = filter(people, func(p org.Person) bool { return p.Craft == cr })
			}
			if manager != "" {
				id, err := resolveManager(o, manager)
				if err != nil {
					return err
				}
				people = filter(people, func(p org.Person) bool { return p.ManagerID == id })
			}
			if squad != "" {
				id, err := resolveSquad(o, squad)
				if err != nil {
					return err
				}
				people = filter(people, func(p org.Person) bool { return p.SquadID == id })
			}

			printTable(personHeaders, personRows(o, people))
			printDetail("%d of %d people", len(people), len(o.People))
			return nil
		},
	}

	cmd.Flags().StringVar(&craft, "craft", "", "only this craft")
	cmd.Flags().StringVar(&manager, "manager", "", "only reports of this manager (id or name)")
	cmd.Flags().StringVar(&squad, "squad", "", "only members of this squad (id or name)")
	cmd.Flags().BoolVar(&managers, "managers", false, "only managers")

	return cmd
}

func (c *CLI) peopleShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id|name>",
		Short: "Show one person",
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
			p, err := svc.Person(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printPerson(o, p)
			return nil
		},
	}
}

func (c *CLI) peopleAddCommand() *cobra.Command {
	var flags personFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a manager or developer",
		Example: `  orgmorph people add --first Léa --last Roux --craft Cloud --seniority 2 --manager "Paul Martin" --squad "Squad Alpha"
  orgmorph people add --first Nina --last Leroy --craft Infra --seniority 4 --is-manager --manager-time 50`,
		Args: cobra.NoArgs,
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
			p, err := flags.person(o)
			if err != nil {
				return err
			}
			added, err := svc.AddPerson(cmd.Context(), p)
			if err != nil {
				return err
			}
			printSuccess("Added %s", added.FullName())
			printDetail("id: %s", added.ID)
			return nil
		},
	}

	flags.bind(cmd)
	return cmd
}

func (c *CLI) peopleUpdateCommand() *cobra.Command {
	var flags personFlags

	cmd := &cobra.Command{
		Use:   "update <id|name>",
		Short: "Change fields of a person",
		Long: `Change fields of a person. Only the flags given are changed.

Moving a person to another squad updates both squads' member lists.
Clearing --is-manager turns a manager into a developer.`,
		Example: `  orgmorph people update "Léa Roux" --squad "Squad Beta" --tech-lead
  orgmorph people update 5b1e... --seniority 3`,
		Args: cobra.ExactArgs(1),
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
			current, err := svc.Person(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			patch, err := flags.patch(cmd, o)
			if err != nil {
				return err
			}
			updated, err := svc.UpdatePerson(cmd.Context(), current.ID, patch)
			if err != nil {
				return err
			}
			printSuccess("Updated %s", updated.FullName())
			return nil
		},
	}

	flags.bind(cmd)
	return cmd
}

func (c *CLI) peopleDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id|name>",
		Aliases: []string{"rm"},
		Short:   "Remove a person",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			p, err := svc.Person(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := svc.DeletePerson(cmd.Context(), p.ID); err != nil {
				return err
			}
			printSuccess("Removed %s", p.FullName())
			return nil
		},
	}
}

// =============================================================================
// Display
// =============================================================================

var personHeaders = []string{"ID", "Nom", "Prénom", "Métier", "Séniorité", "Rôles", "Manager", "Squad"}

func personRows(o *org.Organization, people []org.Person) [][]string {
	rows := make([][]string, 0, len(people))
	for _, p := range people {
		rows = append(rows, []string{
			shortID(p.ID),
			p.LastName,
			p.FirstName,
			string(p.Craft),
			strconv.Itoa(p.Seniority),
			roleSummary(p),
			managerName(o, p.ManagerID),
			squadName(o, p.SquadID),
		})
	}
	return rows
}

func printPerson(o *org.Organization, p org.Person) {
	fmt.Fprintln(stdout, StyleTitle.Render(p.FullName()))
	printKeyValue("ID", p.ID)
	printKeyValue("Métier", string(p.Craft))
	printKeyValue("Séniorité", strconv.Itoa(p.Seniority))
	if p.IsManager {
		printKeyValue("Manager", fmt.Sprintf("oui (%d%%)", p.ManagerTimePercent))
	}
	printKeyValue("Rôles", roleSummary(p))
	printKeyValue("Rattaché à", managerName(o, p.ManagerID))
	printKeyValue("Squad", squadName(o, p.SquadID))
	if p.IsManager {
		printKeyValue("Équipe", strconv.Itoa(len(o.PeopleByManager(p.ID))))
	}
}

func roleSummary(p org.Person) string {
	roles := p.Roles()
	if p.IsManager {
		roles = append([]string{"M"}, roles...)
	}
	if len(roles) == 0 {
		return "-"
	}
	return strings.Join(roles, " ")
}

func managerName(o *org.Organization, id string) string {
	if id == "" {
		return "-"
	}
	if id == o.Director.ID {
		return o.Director.FullName()
	}
	if m, ok := o.Person(id); ok {
		return m.FullName()
	}
	return "? " + shortID(id)
}

func squadName(o *org.Organization, id string) string {
	if id == "" {
		return "-"
	}
	if s, ok := o.Squad(id); ok {
		return s.Name
	}
	return "? " + shortID(id)
}

// shortID truncates UUIDs for tables. Other ids are shown whole so they can
// be passed back to show, update and delete.
func shortID(id string) string {
	if len(id) == 36 && strings.Count(id, "-") == 4 {
		return id[:8]
	}
	return id
}

func filter(people []org.Person, keep func(org.Person) bool) []org.Person {
	var out []org.Person
	for _, p := range people {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
