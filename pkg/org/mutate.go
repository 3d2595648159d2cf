package org

import (
	"slices"

	"github.com/matzehuels/orgmorph/pkg/errors"
)

// PersonPatch holds the fields to change on a person. Nil fields are left
// untouched. An empty string for ManagerID or SquadID clears the reference.
type PersonPatch struct {
	FirstName          *string
	LastName           *string
	Craft              *Craft
	Seniority          *int
	IsLeadDev          *bool
	IsTechLead         *bool
	IsScrumMaster      *bool
	ManagerID          *string
	SquadID            *string
	IsManager          *bool
	ManagerTimePercent *int
}

// Apply returns p with the patch applied.
func (pp PersonPatch) Apply(p Person) Person {
	set(&p.FirstName, pp.FirstName)
	set(&p.LastName, pp.LastName)
	set(&p.Craft, pp.Craft)
	set(&p.Seniority, pp.Seniority)
	set(&p.IsLeadDev, pp.IsLeadDev)
	set(&p.IsTechLead, pp.IsTechLead)
	set(&p.IsScrumMaster, pp.IsScrumMaster)
	set(&p.ManagerID, pp.ManagerID)
	set(&p.SquadID, pp.SquadID)
	set(&p.IsManager, pp.IsManager)
	set(&p.ManagerTimePercent, pp.ManagerTimePercent)
	return p
}

// SquadPatch holds the fields to change on a squad.
type SquadPatch struct {
	Name    *string
	TrainID *string
}

// Apply returns s with the patch applied.
func (sp SquadPatch) Apply(s Squad) Squad {
	set(&s.Name, sp.Name)
	set(&s.TrainID, sp.TrainID)
	return s
}

// DirectorPatch holds the fields to change on the director.
type DirectorPatch struct {
	FirstName *string
	LastName  *string
	Title     *string
}

// RTEPatch holds the fields to change on the RTE.
type RTEPatch struct {
	FirstName *string
	LastName  *string
	Title     *string
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// AddPerson returns a copy of o with p appended. When p names an existing
// squad, p's id is added to that squad's members.
func (o *Organization) AddPerson(p Person) (*Organization, error) {
	if p.ID == "" {
		return nil, errors.New(errors.ErrCodeInvalidPerson, "person id is required")
	}
	if o.personIndex(p.ID) >= 0 {
		return nil, errors.New(errors.ErrCodeInvalidPerson, "person %q already exists", p.ID)
	}
	c := o.Clone()
	c.People = append(c.People, p)
	c.addMember(p.SquadID, p.ID)
	return c, nil
}

// UpdatePerson returns a copy of o with the patch applied to person id.
// Moving a person to another squad keeps both squads' member lists in sync.
func (o *Organization) UpdatePerson(id string, patch PersonPatch) (*Organization, error) {
	i := o.personIndex(id)
	if i < 0 {
		return nil, errors.New(errors.ErrCodePersonNotFound, "person %q not found", id)
	}
	c := o.Clone()
	old := c.People[i]
	c.People[i] = patch.Apply(old)
	if patch.SquadID != nil {
		c.removeMember(old.SquadID, id)
		c.addMember(*patch.SquadID, id)
	}
	return c, nil
}

// DeletePerson returns a copy of o without person id. The person is removed
// from its squad; developers reporting to it keep their dangling ManagerID.
func (o *Organization) DeletePerson(id string) (*Organization, error) {
	i := o.personIndex(id)
	if i < 0 {
		return nil, errors.New(errors.ErrCodePersonNotFound, "person %q not found", id)
	}
	c := o.Clone()
	squadID := c.People[i].SquadID
	c.People = slices.Delete(c.People, i, i+1)
	c.removeMember(squadID, id)
	return c, nil
}

// AddSquad returns a copy of o with s appended to the squads and to the
// train's squad list.
func (o *Organization) AddSquad(s Squad) (*Organization, error) {
	if s.ID == "" {
		return nil, errors.New(errors.ErrCodeInvalidSquad, "squad id is required")
	}
	if o.squadIndex(s.ID) >= 0 {
		return nil, errors.New(errors.ErrCodeInvalidSquad, "squad %q already exists", s.ID)
	}
	c := o.Clone()
	s.MemberIDs = slices.Clone(s.MemberIDs)
	if s.MemberIDs == nil {
		s.MemberIDs = []string{}
	}
	c.Squads = append(c.Squads, s)
	c.Train.SquadIDs = append(c.Train.SquadIDs, s.ID)
	return c, nil
}

// UpdateSquad returns a copy of o with the patch applied to squad id.
func (o *Organization) UpdateSquad(id string, patch SquadPatch) (*Organization, error) {
	i := o.squadIndex(id)
	if i < 0 {
		return nil, errors.New(errors.ErrCodeSquadNotFound, "squad %q not found", id)
	}
	c := o.Clone()
	c.Squads[i] = patch.Apply(c.Squads[i])
	return c, nil
}

// DeleteSquad returns a copy of o without squad id. The squad leaves the
// train and its members become unassigned.
func (o *Organization) DeleteSquad(id string) (*Organization, error) {
	i := o.squadIndex(id)
	if i < 0 {
		return nil, errors.New(errors.ErrCodeSquadNotFound, "squad %q not found", id)
	}
	c := o.Clone()
	c.Squads = slices.Delete(c.Squads, i, i+1)
	c.Train.SquadIDs = slices.DeleteFunc(c.Train.SquadIDs, func(s string) bool { return s == id })
	for j := range c.People {
		if c.People[j].SquadID == id {
			c.People[j].SquadID = ""
		}
	}
	return c, nil
}

// UpdateDirector returns a copy of o with the patch merged into the director.
func (o *Organization) UpdateDirector(patch DirectorPatch) *Organization {
	c := o.Clone()
	set(&c.Director.FirstName, patch.FirstName)
	set(&c.Director.LastName, patch.LastName)
	set(&c.Director.Title, patch.Title)
	return c
}

// UpdateRTE returns a copy of o with the patch merged into the RTE.
func (o *Organization) UpdateRTE(patch RTEPatch) *Organization {
	c := o.Clone()
	set(&c.RTE.FirstName, patch.FirstName)
	set(&c.RTE.LastName, patch.LastName)
	set(&c.RTE.Title, patch.Title)
	return c
}

func (o *Organization) addMember(squadID, personID string) {
	if squadID == "" {
		return
	}
	i := o.squadIndex(squadID)
	if i < 0 || slices.Contains(o.Squads[i].MemberIDs, personID) {
		return
	}
	o.Squads[i].MemberIDs = append(o.Squads[i].MemberIDs, personID)
}

func (o *Organization) removeMember(squadID, personID string) {
	if squadID == "" {
		return
	}
	i := o.squadIndex(squadID)
	if i < 0 {
		return
	}
	o.Squads[i].MemberIDs = slices.DeleteFunc(o.Squads[i].MemberIDs, func(m string) bool { return m == personID })
}
