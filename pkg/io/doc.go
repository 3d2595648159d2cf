// Package io imports and exports rosters as spreadsheets and JSON snapshots.
//
// # Spreadsheets
//
// XLSX and CSV files share one column set, with French headers:
//
//	Nom, Prénom, Métier, Séniorité, Lead Dev, Tech Lead, Scrum Master, Manager, Squad
//
// CSV files spell the role columns without a space (LeadDev, TechLead,
// ScrumMaster); both spellings are accepted on import. Role flags are
// written as "Oui"/"Non" and read case-insensitively. Exports contain
// developers only, with the manager as "First Last" and the squad by name.
// The full backup CSV ([WriteFullCSV]) adds IsManager and
// ManagerTimePercent and includes managers.
//
// CSV output starts with a UTF-8 BOM and uses CRLF line endings. On import
// the BOM, blank lines and lines starting with "#" are skipped.
//
// # Import
//
// [ReadXLSX] and [ReadCSV] validate every row before converting any of
// them. All problems are returned together as an
// [errors.ValidationError], one message per problem:
//
//	Ligne 3: Séniorité invalide (7). Valeurs acceptées: 1, 2, 3, 4
//
// Line numbers count the header as line 1. Valid rows become [ImportRow]
// values with fresh ids; manager and squad names are left for the roster
// service to resolve.
//
// # Snapshots
//
// [ReadJSON] and [WriteJSON] read and write the full organisation in the
// storage schema, for backups and for moving data between stores.
//
// [errors.ValidationError]: github.com/matzehuels/orgmorph/pkg/errors.ValidationError
package io
