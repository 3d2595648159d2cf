// Package roster implements the editing use cases of an organisation.
//
// A [Service] wraps a [store.Store]. Every mutation loads the current
// snapshot, applies one of the pure mutations from package org, validates the
// result and saves it back:
//
//	svc := roster.New(st, roster.Options{Logger: logger})
//	p, err := svc.AddPerson(ctx, org.Person{
//	    FirstName: "Jean", LastName: "Dupont",
//	    Craft: org.CraftCloud, Seniority: 3,
//	    ManagerID: "manager-cloud-001",
//	})
//
// Operations that overwrite the whole roster ([Service.ReplaceAll],
// [Service.ResetToMock], [Service.ImportPeople]) copy the previous snapshot
// to the backup slot first, so [Service.Restore] can undo them.
//
// When the store is empty, the first call generates the sample organisation
// (see [org.Mock]) and saves it.
//
// [store.Store]: github.com/matzehuels/orgmorph/pkg/store.Store
package roster
