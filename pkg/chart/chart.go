// Package chart provides the serialization format of a computed org chart.
//
// A [Chart] is what the layout stage hands to the render stage: positioned
// cards with everything a sink needs to draw them, connectors, squad frames
// and the zoom fitted to a viewport. It is also the format written by
// "orgmorph layout" and cached by the pipeline.
//
// Charts are discriminated by View:
//
//	Hierarchical ("hierarchical"):
//	  - Connectors: orthogonal lines of the management tree
//	  - Unassigned: developers without a positioned manager
//
//	Functional ("functional"):
//	  - Groups: squad frames with their member ids
//	  - Mode, Columns: row or grid arrangement
//	  - Transition, Node.Delay: morph animation timing
//
// Common operations:
//
//	c := chart.Hierarchical(o, res, vp)
//	data, _ := chart.Marshal(c)
//	c, _ = chart.ReadFile("chart.json")
package chart

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/orgmorph/pkg/errors"
	"github.com/matzehuels/orgmorph/pkg/layout"
	"github.com/matzehuels/orgmorph/pkg/layout/squads"
)

// View names.
const (
	ViewHierarchical = "hierarchical"
	ViewFunctional   = "functional"
)

// Views lists the supported views.
var Views = []string{ViewHierarchical, ViewFunctional}

// ValidView reports whether v names a supported view.
func ValidView(v string) bool {
	return v == ViewHierarchical || v == ViewFunctional
}

// ParseView validates v, defaulting to the hierarchical view.
func ParseView(v string) (string, error) {
	switch v {
	case "":
		return ViewHierarchical, nil
	case ViewHierarchical, ViewFunctional:
		return v, nil
	}
	return "", errors.New(errors.ErrCodeInvalidView, "unknown view %q (want hierarchical or functional)", v)
}

// Node kinds.
const (
	KindDirector  = "director"
	KindManager   = "manager"
	KindDeveloper = "developer"
	KindRTE       = "rte"
)

// Chart is the serialised result of a layout run.
type Chart struct {
	View     string          `json:"view" bson:"view"`
	Width    float64         `json:"width" bson:"width"`
	Height   float64         `json:"height" bson:"height"`
	Zoom     float64         `json:"zoom" bson:"zoom"`
	Viewport layout.Viewport `json:"viewport" bson:"viewport"`

	Nodes      []Node           `json:"nodes" bson:"nodes"`
	Connectors []layout.Segment `json:"connectors,omitempty" bson:"connectors,omitempty"`
	Unassigned []string         `json:"unassigned,omitempty" bson:"unassigned,omitempty"`

	// Functional-specific
	Title      string             `json:"title,omitempty" bson:"title,omitempty"`
	Groups     []Group            `json:"groups,omitempty" bson:"groups,omitempty"`
	Ungrouped  []string           `json:"ungrouped,omitempty" bson:"ungrouped,omitempty"`
	Mode       string             `json:"mode,omitempty" bson:"mode,omitempty"`
	Columns    int                `json:"columns,omitempty" bson:"columns,omitempty"`
	Strategy   string             `json:"strategy,omitempty" bson:"strategy,omitempty"`
	Transition *squads.Transition `json:"transition,omitempty" bson:"transition,omitempty"`
}

// IsHierarchical returns true for the management tree view.
func (c *Chart) IsHierarchical() bool { return c.View == ViewHierarchical }

// IsFunctional returns true for the squad view.
func (c *Chart) IsFunctional() bool { return c.View == ViewFunctional }

// Node is a positioned card.
type Node struct {
	ID                 string   `json:"id" bson:"id"`
	Kind               string   `json:"kind" bson:"kind"`
	Label              string   `json:"label" bson:"label"`
	Subtitle           string   `json:"subtitle,omitempty" bson:"subtitle,omitempty"`
	Initials           string   `json:"initials,omitempty" bson:"initials,omitempty"`
	Craft              string   `json:"craft,omitempty" bson:"craft,omitempty"`
	Color              string   `json:"color,omitempty" bson:"color,omitempty"`
	Seniority          int      `json:"seniority,omitempty" bson:"seniority,omitempty"`
	Roles              []string `json:"roles,omitempty" bson:"roles,omitempty"`
	ManagerTimePercent int      `json:"manager_time_percent,omitempty" bson:"manager_time_percent,omitempty"`

	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`

	Group string  `json:"group,omitempty" bson:"group,omitempty"`
	Delay float64 `json:"delay,omitempty" bson:"delay,omitempty"`
}

// Group is a squad frame.
type Group struct {
	ID      string   `json:"id" bson:"id"`
	Name    string   `json:"name" bson:"name"`
	X       float64  `json:"x" bson:"x"`
	Y       float64  `json:"y" bson:"y"`
	Width   float64  `json:"width" bson:"width"`
	Height  float64  `json:"height" bson:"height"`
	Members []string `json:"members" bson:"members"`
}

// Node returns the node with the given id.
func (c *Chart) Node(id string) (Node, bool) {
	for _, n := range c.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Marshal serializes a Chart to pretty-printed JSON bytes.
func Marshal(c Chart) ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// Unmarshal deserializes JSON bytes into a Chart.
// Validates the view and that nodes exist when connectors or squad members do.
func Unmarshal(data []byte) (Chart, error) {
	var c Chart
	if err := json.Unmarshal(data, &c); err != nil {
		return Chart{}, fmt.Errorf("unmarshal chart: %w", err)
	}

	if c.View == "" {
		c.View = ViewHierarchical
	}
	if !ValidView(c.View) {
		return Chart{}, errors.New(errors.ErrCodeInvalidView, "unknown chart view %q", c.View)
	}
	if c.IsHierarchical() && len(c.Nodes) == 0 && len(c.Connectors) > 0 {
		return Chart{}, fmt.Errorf("hierarchical chart has connectors but no nodes")
	}
	if c.IsFunctional() && len(c.Nodes) == 0 && hasMembers(c.Groups) {
		return Chart{}, fmt.Errorf("functional chart has group members but no nodes")
	}
	return c, nil
}

func hasMembers(groups []Group) bool {
	for _, g := range groups {
		if len(g.Members) > 0 {
			return true
		}
	}
	return false
}

// WriteFile writes a Chart to a JSON file.
func WriteFile(c Chart, path string) error {
	data, err := Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a Chart from a JSON file.
func ReadFile(path string) (Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Chart{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
