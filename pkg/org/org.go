// Package org defines the organisation domain model: the director, the people
// (managers and developers), squads, the release train and its RTE.
//
// The types here are plain records. They carry no layout logic; the layout
// packages read an [Organization] snapshot and never mutate it. Mutations are
// expressed as pure functions returning a new snapshot (see mutate.go), so a
// caller can keep the previous value for undo or backup.
//
// # Storage Schema
//
// JSON field names follow the org_morphing_data storage schema
// ("developers" holds every person, managers included), so snapshots
// exported from the web app load unchanged.
package org

import (
	"slices"
	"strings"
)

// SchemaVersion is written into every new snapshot.
const SchemaVersion = "1.0"

// Director is the root of the management tree.
type Director struct {
	ID         string `json:"id" bson:"id" validate:"required"`
	FirstName  string `json:"firstName" bson:"first_name" validate:"required"`
	LastName   string `json:"lastName" bson:"last_name" validate:"required"`
	Title      string `json:"title" bson:"title"`
	IsDirector bool   `json:"isDirector" bson:"is_director"`
}

// FullName returns "First Last".
func (d Director) FullName() string { return joinName(d.FirstName, d.LastName) }

// Person is a manager or a developer. Managers are people with IsManager set;
// they report to the director and own developers through ManagerID.
type Person struct {
	ID                 string `json:"id" bson:"id" validate:"required"`
	FirstName          string `json:"firstName" bson:"first_name" validate:"required"`
	LastName           string `json:"lastName" bson:"last_name" validate:"required"`
	Craft              Craft  `json:"craft" bson:"craft" validate:"craft"`
	Seniority          int    `json:"seniority" bson:"seniority" validate:"min=1,max=4"`
	IsLeadDev          bool   `json:"isLeadDev" bson:"is_lead_dev"`
	IsTechLead         bool   `json:"isTechLead" bson:"is_tech_lead"`
	IsScrumMaster      bool   `json:"isScrumMaster" bson:"is_scrum_master"`
	ManagerID          string `json:"managerId" bson:"manager_id"`
	SquadID            string `json:"squadId" bson:"squad_id"`
	IsManager          bool   `json:"isManager" bson:"is_manager"`
	ManagerTimePercent int    `json:"managerTimePercent" bson:"manager_time_percent" validate:"oneof=0 50 100"`
}

// FullName returns "First Last".
func (p Person) FullName() string { return joinName(p.FirstName, p.LastName) }

// Roles returns the short role codes held by the person, in badge order:
// "L" lead dev, "T" tech lead, "S" scrum master.
func (p Person) Roles() []string {
	var roles []string
	if p.IsLeadDev {
		roles = append(roles, RoleLeadDev)
	}
	if p.IsTechLead {
		roles = append(roles, RoleTechLead)
	}
	if p.IsScrumMaster {
		roles = append(roles, RoleScrumMaster)
	}
	return roles
}

// Role codes used on cards.
const (
	RoleLeadDev     = "L"
	RoleTechLead    = "T"
	RoleScrumMaster = "S"
)

// RoleLabel returns the display label of a role code.
func RoleLabel(code string) string {
	switch code {
	case RoleLeadDev:
		return "Lead Dev"
	case RoleTechLead:
		return "Tech Lead"
	case RoleScrumMaster:
		return "Scrum Master"
	}
	return code
}

// Squad is a delivery team. MemberIDs mirrors the people whose SquadID
// points at the squad; the layout groups by SquadID, not by this list.
type Squad struct {
	ID        string   `json:"id" bson:"id" validate:"required"`
	Name      string   `json:"name" bson:"name" validate:"required"`
	TrainID   string   `json:"trainId" bson:"train_id"`
	MemberIDs []string `json:"memberIds" bson:"member_ids"`
}

// Train groups squads under one RTE.
type Train struct {
	ID       string   `json:"id" bson:"id"`
	Name     string   `json:"name" bson:"name"`
	RTEID    string   `json:"rteId" bson:"rte_id"`
	SquadIDs []string `json:"squadIds" bson:"squad_ids"`
}

// RTE is the release train engineer of a train.
type RTE struct {
	ID        string `json:"id" bson:"id"`
	FirstName string `json:"firstName" bson:"first_name"`
	LastName  string `json:"lastName" bson:"last_name"`
	Title     string `json:"title" bson:"title"`
	TrainID   string `json:"trainId" bson:"train_id"`
}

// FullName returns "First Last".
func (r RTE) FullName() string { return joinName(r.FirstName, r.LastName) }

// Organization is a complete snapshot of the roster.
type Organization struct {
	Version     string   `json:"version" bson:"version"`
	LastUpdated int64    `json:"lastUpdated" bson:"last_updated"`
	Director    Director `json:"director" bson:"director"`
	People      []Person `json:"developers" bson:"developers" validate:"dive"`
	Squads      []Squad  `json:"squads" bson:"squads" validate:"dive"`
	Train       Train    `json:"train" bson:"train"`
	RTE         RTE      `json:"rte" bson:"rte"`
}

// Clone returns a deep copy of o. Mutations work on clones so that the input
// snapshot is never modified.
func (o *Organization) Clone() *Organization {
	if o == nil {
		return nil
	}
	c := *o
	c.People = slices.Clone(o.People)
	c.Squads = make([]Squad, len(o.Squads))
	for i, s := range o.Squads {
		s.MemberIDs = slices.Clone(s.MemberIDs)
		c.Squads[i] = s
	}
	c.Train.SquadIDs = slices.Clone(o.Train.SquadIDs)
	return &c
}

// Managers returns the people flagged as managers, in input order.
func (o *Organization) Managers() []Person {
	return filterPeople(o.People, func(p Person) bool { return p.IsManager })
}

// Developers returns the people who are not managers, in input order.
func (o *Organization) Developers() []Person {
	return filterPeople(o.People, func(p Person) bool { return !p.IsManager })
}

// Person returns the person with the given id.
func (o *Organization) Person(id string) (Person, bool) {
	i := o.personIndex(id)
	if i < 0 {
		return Person{}, false
	}
	return o.People[i], true
}

// PeopleByCraft returns everybody practising craft c.
func (o *Organization) PeopleByCraft(c Craft) []Person {
	return filterPeople(o.People, func(p Person) bool { return p.Craft == c })
}

// PeopleByManager returns the direct reports of the given manager.
func (o *Organization) PeopleByManager(managerID string) []Person {
	return filterPeople(o.People, func(p Person) bool { return p.ManagerID == managerID })
}

// Squad returns the squad with the given id.
func (o *Organization) Squad(id string) (Squad, bool) {
	i := o.squadIndex(id)
	if i < 0 {
		return Squad{}, false
	}
	return o.Squads[i], true
}

// SquadMembers returns the people whose SquadID is squadID.
func (o *Organization) SquadMembers(squadID string) []Person {
	return filterPeople(o.People, func(p Person) bool { return p.SquadID == squadID })
}

func (o *Organization) personIndex(id string) int {
	return slices.IndexFunc(o.People, func(p Person) bool { return p.ID == id })
}

func (o *Organization) squadIndex(id string) int {
	return slices.IndexFunc(o.Squads, func(s Squad) bool { return s.ID == id })
}

func filterPeople(people []Person, keep func(Person) bool) []Person {
	var out []Person
	for _, p := range people {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func joinName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}
