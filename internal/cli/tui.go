package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/orgmorph/pkg/chart"
	"github.com/matzehuels/orgmorph/pkg/layout"
	"github.com/matzehuels/orgmorph/pkg/org"
	"github.com/matzehuels/orgmorph/pkg/store"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listGroupStyle    = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// BrowseModel - Interactive roster browser
// =============================================================================

// browseEntry is one line of the browser: a person and the group heading it
// is listed under in the current view.
type browseEntry struct {
	person org.Person
	group  string
}

// BrowseModel is the bubbletea model for browsing the organisation. It
// edits a copy of the display preferences; the caller saves them when
// Changed is set.
type BrowseModel struct {
	Org     *org.Organization
	Prefs   store.Preferences
	Changed bool
	Cursor  int
	Offset  int
	Height  int
	Detail  bool

	entries []browseEntry
}

// NewBrowseModel creates a browser over o starting from prefs.
func NewBrowseModel(o *org.Organization, prefs store.Preferences) BrowseModel {
	m := BrowseModel{Org: o, Prefs: prefs, Height: 15}
	m.entries = browseEntries(o, prefs.CurrentView)
	return m
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.entries)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", " ":
			m.Detail = !m.Detail
		case "tab", "v":
			m.Prefs.CurrentView = otherView(m.Prefs.CurrentView)
			m.entries = browseEntries(m.Org, m.Prefs.CurrentView)
			m.Cursor, m.Offset = 0, 0
			m.Changed = true
		case "s":
			m.Prefs.ShowSeniority = !m.Prefs.ShowSeniority
			m.Changed = true
		case "+", "=":
			m.setZoom(layout.ZoomIn(m.Prefs.Zoom))
		case "-":
			m.setZoom(layout.ZoomOut(m.Prefs.Zoom))
		case "0":
			m.setZoom(layout.ResetZoom())
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m *BrowseModel) setZoom(z float64) {
	if z != m.Prefs.Zoom {
		m.Prefs.Zoom = z
		m.Changed = true
	}
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("%s · %s", m.Org.Train.Name, m.Prefs.CurrentView)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf(
		"↑/↓ navigate  ⏎ details  tab view  s seniority  +/- zoom (%d%%)  q quit",
		layout.ZoomPercent(m.Prefs.Zoom))))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.entries))

	headers := []string{"", "Nom", "Métier", "Rôles", groupHeader(m.Prefs.CurrentView)}
	if m.Prefs.ShowSeniority {
		headers = append(headers, "Sén.")
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		e := m.entries[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		row := []string{cursor, e.person.FullName(), string(e.person.Craft), roleSummary(e.person), e.group}
		if m.Prefs.ShowSeniority {
			row = append(row, strconv.Itoa(e.person.Seniority))
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleTableHeader
			}
			idx := m.Offset + row
			if idx >= len(m.entries) {
				return lipgloss.NewStyle()
			}
			p := m.entries[idx].person
			switch {
			case idx == m.Cursor:
				return listSelectedStyle
			case col == 2 && p.Craft.Valid():
				return lipgloss.NewStyle().Foreground(lipgloss.Color(p.Craft.Color()))
			case col == 4:
				return listGroupStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.entries)), len(m.entries))))

	if m.Detail && m.Cursor < len(m.entries) {
		b.WriteString("\n\n")
		b.WriteString(m.detailView(m.entries[m.Cursor].person))
	}
	return b.String()
}

func (m BrowseModel) detailView(p org.Person) string {
	lines := []string{
		StyleTitle.Render(p.FullName()),
		fmt.Sprintf("Métier     %s", p.Craft),
		fmt.Sprintf("Séniorité  %d", p.Seniority),
		fmt.Sprintf("Rôles      %s", roleSummary(p)),
		fmt.Sprintf("Manager    %s", managerName(m.Org, p.ManagerID)),
		fmt.Sprintf("Squad      %s", squadName(m.Org, p.SquadID)),
	}
	if p.IsManager {
		lines = append(lines,
			fmt.Sprintf("Équipe     %d", len(m.Org.PeopleByManager(p.ID))),
			fmt.Sprintf("Temps mgmt %d%%", p.ManagerTimePercent))
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorDim).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

// =============================================================================
// Helpers
// =============================================================================

func otherView(v string) string {
	if v == chart.ViewFunctional {
		return chart.ViewHierarchical
	}
	return chart.ViewFunctional
}

func groupHeader(view string) string {
	if view == chart.ViewFunctional {
		return "Squad"
	}
	return "Manager"
}

// browseEntries orders people the way the view groups them: managers
// followed by their reports in the hierarchical view, squads followed by
// their members in the functional view. People outside every group come
// last.
func browseEntries(o *org.Organization, view string) []browseEntry {
	var out []browseEntry
	listed := make(map[string]bool, len(o.People))
	add := func(p org.Person, group string) {
		if !listed[p.ID] {
			listed[p.ID] = true
			out = append(out, browseEntry{person: p, group: group})
		}
	}

	if view == chart.ViewFunctional {
		for _, s := range o.Squads {
			for _, p := range sortedByName(o.SquadMembers(s.ID)) {
				add(p, s.Name)
			}
		}
	} else {
		managers := sortedByName(o.Managers())
		slices.SortStableFunc(managers, func(a, b org.Person) int {
			return slices.Index(org.Crafts, a.Craft) - slices.Index(org.Crafts, b.Craft)
		})
		for _, m := range managers {
			add(m, o.Director.FullName())
			for _, p := range sortedByName(o.PeopleByManager(m.ID)) {
				if !p.IsManager {
					add(p, m.FullName())
				}
			}
		}
	}

	for _, p := range sortedByName(o.People) {
		add(p, "-")
	}
	return out
}

func sortedByName(people []org.Person) []org.Person {
	out := slices.Clone(people)
	slices.SortStableFunc(out, func(a, b org.Person) int {
		if c := strings.Compare(org.FoldName(a.LastName), org.FoldName(b.LastName)); c != 0 {
			return c
		}
		return strings.Compare(org.FoldName(a.FirstName), org.FoldName(b.FirstName))
	})
	return out
}
