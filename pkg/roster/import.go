package roster

import (
	"context"
	"fmt"

	orgio "github.com/matzehuels/orgmorph/pkg/io"
	"github.com/matzehuels/orgmorph/pkg/org"
)

// ImportPeople merges parsed spreadsheet rows into the stored organisation.
//
// Manager and squad names are resolved against the current managers and
// squads, ignoring case and accents, in either name order. A row whose
// person already exists (same first and last name) updates that person;
// any other row adds a new one. Names that do not resolve are listed in
// the summary and leave the reference empty for new people, unchanged for
// existing ones.
//
// The previous snapshot is backed up before the merged one is saved.
func (s *Service) ImportPeople(ctx context.Context, rows []orgio.ImportRow) (orgio.ImportSummary, error) {
	summary := orgio.ImportSummary{Total: len(rows)}

	o, err := s.Initialize(ctx)
	if err != nil {
		return summary, err
	}
	next := o
	for _, row := range rows {
		p := row.Person
		name := p.FullName()

		managerSet, squadSet := true, true
		switch {
		case p.IsManager:
			p.ManagerID = o.Director.ID
		case row.ManagerName == "":
			p.ManagerID = ""
		default:
			if m, ok := o.FindManager(row.ManagerName); ok {
				p.ManagerID = m.ID
			} else {
				managerSet = false
				summary.Unresolved = append(summary.Unresolved, fmt.Sprintf("%s: manager %q introuvable", name, row.ManagerName))
			}
		}
		switch {
		case row.SquadName == "":
			p.SquadID = ""
		default:
			if sq, ok := o.FindSquad(row.SquadName); ok {
				p.SquadID = sq.ID
			} else {
				squadSet = false
				summary.Unresolved = append(summary.Unresolved, fmt.Sprintf("%s: squad %q introuvable", name, row.SquadName))
			}
		}

		if existing, ok := next.FindPersonByName(p.FirstName, p.LastName); ok {
			// Rows without manager columns never demote an existing manager.
			keepRole := existing.IsManager && !p.IsManager
			next, err = next.UpdatePerson(existing.ID, importPatch(p, managerSet && !keepRole, squadSet, keepRole))
			if err != nil {
				return summary, err
			}
			summary.Modified++
			continue
		}

		if p.ID == "" {
			p.ID = s.newID()
		}
		next, err = next.AddPerson(p)
		if err != nil {
			return summary, err
		}
		summary.Added++
	}

	if _, err := s.snapshots.CreateBackup(ctx); err != nil {
		return summary, err
	}
	if err := s.snapshots.Save(ctx, next); err != nil {
		return summary, err
	}
	s.logger.Info("imported people",
		"total", summary.Total,
		"added", summary.Added,
		"modified", summary.Modified,
		"unresolved", len(summary.Unresolved))
	return summary, nil
}

// importPatch copies every imported field. References that failed to
// resolve are left out so the existing value survives, as is the manager
// role when keepRole is set.
func importPatch(p org.Person, managerSet, squadSet, keepRole bool) org.PersonPatch {
	patch := org.PersonPatch{
		FirstName:     &p.FirstName,
		LastName:      &p.LastName,
		Craft:         &p.Craft,
		Seniority:     &p.Seniority,
		IsLeadDev:     &p.IsLeadDev,
		IsTechLead:    &p.IsTechLead,
		IsScrumMaster: &p.IsScrumMaster,
	}
	if !keepRole {
		patch.IsManager = &p.IsManager
		patch.ManagerTimePercent = &p.ManagerTimePercent
	}
	if managerSet {
		patch.ManagerID = &p.ManagerID
	}
	if squadSet {
		patch.SquadID = &p.SquadID
	}
	return patch
}
