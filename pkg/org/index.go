package org

import "slices"

// Index is the adjacency of a person set, built once per layout call.
// All lists preserve input order.
type Index struct {
	Managers   []Person
	Developers []Person

	byID      map[string]Person
	byManager map[string][]Person
	byCraft   map[Craft][]Person
	bySquad   map[string][]Person
}

// NewIndex partitions people into managers and developers and builds the
// lookup maps in a single pass.
func NewIndex(people []Person) *Index {
	idx := &Index{
		byID:      make(map[string]Person, len(people)),
		byManager: make(map[string][]Person),
		byCraft:   make(map[Craft][]Person),
		bySquad:   make(map[string][]Person),
	}
	for _, p := range people {
		idx.byID[p.ID] = p
		if p.SquadID != "" {
			idx.bySquad[p.SquadID] = append(idx.bySquad[p.SquadID], p)
		}
		if p.IsManager {
			idx.Managers = append(idx.Managers, p)
			idx.byCraft[p.Craft] = append(idx.byCraft[p.Craft], p)
			continue
		}
		idx.Developers = append(idx.Developers, p)
		if p.ManagerID != "" {
			idx.byManager[p.ManagerID] = append(idx.byManager[p.ManagerID], p)
		}
	}
	return idx
}

// Person looks up a person by id.
func (idx *Index) Person(id string) (Person, bool) {
	p, ok := idx.byID[id]
	return p, ok
}

// IsManager reports whether id names a manager in the set.
func (idx *Index) IsManager(id string) bool {
	p, ok := idx.byID[id]
	return ok && p.IsManager
}

// Reports returns the developers whose ManagerID is managerID.
func (idx *Index) Reports(managerID string) []Person {
	return idx.byManager[managerID]
}

// ManagersByCraft returns the managers practising c.
func (idx *Index) ManagersByCraft(c Craft) []Person {
	return idx.byCraft[c]
}

// ManagerCrafts returns the crafts that have at least one manager, sorted by
// byte-wise label order.
func (idx *Index) ManagerCrafts() []Craft {
	crafts := make([]Craft, 0, len(idx.byCraft))
	for c := range idx.byCraft {
		crafts = append(crafts, c)
	}
	slices.Sort(crafts)
	return crafts
}

// SquadMembers returns the people whose SquadID is squadID.
func (idx *Index) SquadMembers(squadID string) []Person {
	return idx.bySquad[squadID]
}

// Orphans returns developers whose ManagerID does not resolve to a manager.
func (idx *Index) Orphans() []Person {
	var out []Person
	for _, d := range idx.Developers {
		if !idx.IsManager(d.ManagerID) {
			out = append(out, d)
		}
	}
	return out
}
