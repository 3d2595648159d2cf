package chart

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/matzehuels/orgmorph/pkg/layout"
	"github.com/matzehuels/orgmorph/pkg/layout/hierarchy"
	"github.com/matzehuels/orgmorph/pkg/layout/squads"
	"github.com/matzehuels/orgmorph/pkg/org"
)

// Hierarchical builds the chart of a hierarchy layout of o, zoomed to fit vp.
func Hierarchical(o *org.Organization, res hierarchy.Result, vp layout.Viewport) Chart {
	c := Chart{
		View:       ViewHierarchical,
		Width:      res.Dimensions.Width,
		Height:     res.Dimensions.Height,
		Zoom:       layout.AutoFitZoom(res.Dimensions, vp),
		Viewport:   vp,
		Connectors: res.Connectors,
		Unassigned: res.Unassigned,
	}
	if p, ok := res.Positions[o.Director.ID]; ok && o.Director.ID != "" {
		c.Nodes = append(c.Nodes, directorNode(o.Director, p))
	}
	for _, person := range o.People {
		if p, ok := res.Positions[person.ID]; ok {
			c.Nodes = append(c.Nodes, personNode(person, p))
		}
	}
	return c
}

// Functional builds the chart of a squad layout of o, zoomed to fit vp.
func Functional(o *org.Organization, res squads.Result, strategy squads.Strategy, vp layout.Viewport) Chart {
	transition := squads.DefaultTransition
	c := Chart{
		View:       ViewFunctional,
		Width:      res.Dimensions.Width,
		Height:     res.Dimensions.Height,
		Zoom:       layout.AutoFitZoom(res.Dimensions, vp),
		Viewport:   vp,
		Title:      trainTitle(o.Train),
		Mode:       string(res.Mode),
		Columns:    res.Columns,
		Strategy:   string(strategy),
		Transition: &transition,
	}

	if o.RTE.ID != "" {
		c.Nodes = append(c.Nodes, rteNode(o.RTE, o.Train))
	}
	for _, g := range res.Groups {
		for _, m := range g.Members {
			n := personNode(m, res.Positions[m.ID])
			n.Group = g.Squad.ID
			n.Delay = res.Delays[m.ID]
			c.Nodes = append(c.Nodes, n)
		}
	}
	for _, f := range res.Frames {
		grp := Group{ID: f.SquadID, Name: f.Name, X: f.X, Y: f.Y, Width: f.Width, Height: f.Height, Members: []string{}}
		for _, g := range res.Groups {
			if g.Squad.ID != f.SquadID {
				continue
			}
			for _, m := range g.Members {
				grp.Members = append(grp.Members, m.ID)
			}
			break
		}
		c.Groups = append(c.Groups, grp)
	}
	for _, p := range res.Ungrouped {
		c.Ungrouped = append(c.Ungrouped, p.ID)
	}
	return c
}

func directorNode(d org.Director, p layout.Point) Node {
	return Node{
		ID:       d.ID,
		Kind:     KindDirector,
		Label:    d.FullName(),
		Subtitle: d.Title,
		Initials: Initials(d.FirstName, d.LastName),
		X:        p.X,
		Y:        p.Y,
		Width:    layout.CardWidth,
		Height:   layout.CardHeight,
	}
}

func personNode(person org.Person, p layout.Point) Node {
	n := Node{
		ID:        person.ID,
		Kind:      KindDeveloper,
		Label:     person.FullName(),
		Subtitle:  string(person.Craft),
		Initials:  Initials(person.FirstName, person.LastName),
		Craft:     string(person.Craft),
		Color:     person.Craft.Color(),
		Seniority: person.Seniority,
		Roles:     person.Roles(),
		X:         p.X,
		Y:         p.Y,
		Width:     layout.CardWidth,
		Height:    layout.CardHeight,
	}
	if person.IsManager {
		n.Kind = KindManager
		n.Subtitle = "Manager " + string(person.Craft)
		n.ManagerTimePercent = person.ManagerTimePercent
	}
	return n
}

func rteNode(r org.RTE, t org.Train) Node {
	subtitle := r.Title
	if subtitle == "" {
		subtitle = "RTE"
	}
	if t.Name != "" {
		subtitle += " · Train " + t.Name
	}
	return Node{
		ID:       r.ID,
		Kind:     KindRTE,
		Label:    r.FullName(),
		Subtitle: subtitle,
		Initials: Initials(r.FirstName, r.LastName),
		X:        squads.ContainerPadding,
		Y:        (squads.TrainHeader - layout.CardHeight) / 2,
		Width:    layout.CardWidth,
		Height:   layout.CardHeight,
	}
}

func trainTitle(t org.Train) string {
	if t.Name == "" {
		return ""
	}
	return "Train " + t.Name
}

// Initials returns the upper-cased first letters of first and last.
func Initials(first, last string) string {
	var b strings.Builder
	for _, s := range []string{first, last} {
		if r, _ := utf8.DecodeRuneInString(strings.TrimSpace(s)); r != utf8.RuneError {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}
