package org

// Craft is the technical domain a person works in.
type Craft string

// Known crafts. The set is closed; imports and forms reject anything else.
const (
	CraftCloud    Craft = "Cloud"
	CraftMobile   Craft = "Mobile"
	CraftEmbedded Craft = "Embarqué"
	CraftTestAuto Craft = "Test auto"
	CraftInfra    Craft = "Infra"
)

// Crafts lists every known craft in display order.
var Crafts = []Craft{CraftCloud, CraftMobile, CraftEmbedded, CraftTestAuto, CraftInfra}

// craftColors holds the accent colour of each craft card.
var craftColors = map[Craft]string{
	CraftCloud:    "#3b82f6",
	CraftMobile:   "#8b5cf6",
	CraftEmbedded: "#10b981",
	CraftTestAuto: "#f59e0b",
	CraftInfra:    "#ef4444",
}

// craftSlugs are the CSS-friendly identifiers used as class names.
var craftSlugs = map[Craft]string{
	CraftCloud:    "cloud",
	CraftMobile:   "mobile",
	CraftEmbedded: "embedded",
	CraftTestAuto: "test-auto",
	CraftInfra:    "infra",
}

// Valid reports whether c is one of the known crafts.
func (c Craft) Valid() bool {
	_, ok := craftColors[c]
	return ok
}

// Color returns the accent colour for c. Unknown crafts use the Cloud colour.
func (c Craft) Color() string {
	if col, ok := craftColors[c]; ok {
		return col
	}
	return craftColors[CraftCloud]
}

// Slug returns a lowercase ASCII identifier for c, falling back to "cloud".
func (c Craft) Slug() string {
	if s, ok := craftSlugs[c]; ok {
		return s
	}
	return craftSlugs[CraftCloud]
}

// String returns the craft label.
func (c Craft) String() string { return string(c) }

// ParseCraft returns the craft whose label is exactly s.
func ParseCraft(s string) (Craft, bool) {
	c := Craft(s)
	return c, c.Valid()
}

// CraftNames returns the craft labels in display order.
func CraftNames() []string {
	names := make([]string, len(Crafts))
	for i, c := range Crafts {
		names[i] = string(c)
	}
	return names
}
