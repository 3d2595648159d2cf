package io

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/matzehuels/orgmorph/pkg/errors"
	"github.com/matzehuels/orgmorph/pkg/org"
)

// Column headers of the developer sheet.
const (
	ColLastName           = "Nom"
	ColFirstName          = "Prénom"
	ColCraft              = "Métier"
	ColSeniority          = "Séniorité"
	ColLeadDev            = "Lead Dev"
	ColTechLead           = "Tech Lead"
	ColScrumMaster        = "Scrum Master"
	ColManager            = "Manager"
	ColSquad              = "Squad"
	ColIsManager          = "IsManager"
	ColManagerTimePercent = "ManagerTimePercent"
)

// XLSXColumns is the column order of XLSX exports and templates.
var XLSXColumns = []string{
	ColLastName, ColFirstName, ColCraft, ColSeniority,
	ColLeadDev, ColTechLead, ColScrumMaster, ColManager, ColSquad,
}

// CSVColumns is the column order of CSV exports. Role columns drop the space.
var CSVColumns = []string{
	ColLastName, ColFirstName, ColCraft, ColSeniority,
	"LeadDev", "TechLead", "ScrumMaster", ColManager, ColSquad,
}

// FullCSVColumns is the column order of the full backup CSV.
var FullCSVColumns = []string{
	ColLastName, ColFirstName, ColCraft, ColSeniority,
	ColIsManager, ColManagerTimePercent,
	"LeadDev", "TechLead", "ScrumMaster", ColManager, ColSquad,
}

// headerAliases maps every accepted header spelling to its canonical column.
var headerAliases = map[string]string{
	"LeadDev":     ColLeadDev,
	"TechLead":    ColTechLead,
	"ScrumMaster": ColScrumMaster,
}

func canonicalHeader(h string) string {
	h = strings.TrimSpace(strings.TrimPrefix(h, bom))
	if c, ok := headerAliases[h]; ok {
		return c
	}
	return h
}

const (
	yes = "Oui"
	no  = "Non"
)

func yesNo(b bool) string {
	if b {
		return yes
	}
	return no
}

// Row is one spreadsheet line keyed by canonical column name.
type Row map[string]string

// ImportRow is a validated line. Manager and squad are still names; the
// roster service resolves them against the current organisation.
type ImportRow struct {
	Person      org.Person `json:"person"`
	ManagerName string     `json:"managerName"`
	SquadName   string     `json:"squadName"`
}

// ImportSummary counts the outcome of an import.
type ImportSummary struct {
	Total      int      `json:"total"`
	Added      int      `json:"added"`
	Modified   int      `json:"modified"`
	Errors     int      `json:"errors"`
	Unresolved []string `json:"unresolved,omitempty"`
}

// ImportResult is the parsed content of an import file.
type ImportResult struct {
	Rows    []ImportRow   `json:"rows"`
	Summary ImportSummary `json:"summary"`
}

// ParseOptions controls row conversion.
type ParseOptions struct {
	// NewID generates person ids. Defaults to uuid.NewString.
	NewID func() string
}

var validBooleans = map[string]bool{"oui": true, "non": false}

// ParseRows validates rows and converts them to import rows. Line numbers
// in messages count the header as line 1. All problems are reported
// together as an [errors.ValidationError].
func ParseRows(rows []Row, opts ParseOptions) (ImportResult, error) {
	if len(rows) == 0 {
		return ImportResult{}, errors.NewValidationError([]string{"Le fichier est vide ou mal formaté"})
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	var msgs []string
	for i, r := range rows {
		msgs = append(msgs, validateRow(r, i+2)...)
	}
	if err := errors.NewValidationError(msgs); err != nil {
		return ImportResult{}, err
	}

	out := make([]ImportRow, len(rows))
	for i, r := range rows {
		seniority, _ := parseLeadingInt(r[ColSeniority])
		p := org.Person{
			ID:            newID(),
			FirstName:     r[ColFirstName],
			LastName:      r[ColLastName],
			Craft:         org.Craft(r[ColCraft]),
			Seniority:     seniority,
			IsLeadDev:     isYes(r[ColLeadDev]),
			IsTechLead:    isYes(r[ColTechLead]),
			IsScrumMaster: isYes(r[ColScrumMaster]),
		}
		if isYes(r[ColIsManager]) {
			p.IsManager = true
			p.ManagerTimePercent, _ = strconv.Atoi(r[ColManagerTimePercent])
		}
		out[i] = ImportRow{Person: p, ManagerName: r[ColManager], SquadName: r[ColSquad]}
	}
	return ImportResult{
		Rows:    out,
		Summary: ImportSummary{Total: len(out), Added: len(out)},
	}, nil
}

func validateRow(r Row, line int) []string {
	var msgs []string
	if r[ColLastName] == "" || r[ColFirstName] == "" {
		msgs = append(msgs, fmt.Sprintf("Ligne %d: Nom ou Prénom manquant", line))
	}

	if craft := r[ColCraft]; !org.Craft(craft).Valid() {
		shown := craft
		if shown == "" {
			shown = "vide"
		}
		msgs = append(msgs, fmt.Sprintf("Ligne %d: Métier invalide ou manquant (%s). Valeurs acceptées: %s",
			line, shown, strings.Join(org.CraftNames(), ", ")))
	}

	if s, ok := parseLeadingInt(r[ColSeniority]); !ok || s < 1 || s > 4 {
		msgs = append(msgs, fmt.Sprintf("Ligne %d: Séniorité invalide (%s). Valeurs acceptées: 1, 2, 3, 4", line, r[ColSeniority]))
	}

	for _, col := range []string{ColLeadDev, ColTechLead, ColScrumMaster, ColIsManager} {
		v := r[col]
		if _, ok := validBooleans[strings.ToLower(v)]; v != "" && !ok {
			msgs = append(msgs, fmt.Sprintf("Ligne %d: %s invalide (%s). Valeurs acceptées: Oui, Non", line, col, v))
		}
	}

	if v := r[ColManagerTimePercent]; v != "" && isYes(r[ColIsManager]) {
		if pct, err := strconv.Atoi(v); err != nil || (pct != 0 && pct != 50 && pct != 100) {
			msgs = append(msgs, fmt.Sprintf("Ligne %d: %s invalide (%s). Valeurs acceptées: 0, 50, 100", line, ColManagerTimePercent, v))
		}
	}
	return msgs
}

func isYes(v string) bool { return strings.EqualFold(v, yes) }

// parseLeadingInt reads the integer prefix of s, so "3" and "3.0" both
// give 3.
func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && unicode.IsDigit(rune(s[end])) {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	return n, err == nil
}

// recordToRow builds a Row from a header and one record. Cells are trimmed.
func recordToRow(header, record []string) (Row, bool) {
	r := make(Row, len(header))
	blank := true
	for i, h := range header {
		if i >= len(record) {
			break
		}
		v := strings.TrimSpace(record[i])
		if v != "" {
			blank = false
		}
		r[h] = v
	}
	return r, !blank
}

// ExportRows returns one row per developer, managers excluded.
func ExportRows(o *org.Organization) []Row {
	var rows []Row
	for _, p := range o.Developers() {
		rows = append(rows, personRow(o, p))
	}
	return rows
}

// FullRows returns one row per person, managers included.
func FullRows(o *org.Organization) []Row {
	rows := make([]Row, len(o.People))
	for i, p := range o.People {
		r := personRow(o, p)
		r[ColIsManager] = yesNo(p.IsManager)
		r[ColManagerTimePercent] = "0"
		if p.IsManager {
			r[ColManagerTimePercent] = strconv.Itoa(p.ManagerTimePercent)
		}
		rows[i] = r
	}
	return rows
}

func personRow(o *org.Organization, p org.Person) Row {
	r := Row{
		ColLastName:    p.LastName,
		ColFirstName:   p.FirstName,
		ColCraft:       string(p.Craft),
		ColSeniority:   strconv.Itoa(p.Seniority),
		ColLeadDev:     yesNo(p.IsLeadDev),
		ColTechLead:    yesNo(p.IsTechLead),
		ColScrumMaster: yesNo(p.IsScrumMaster),
	}
	if m, ok := o.Person(p.ManagerID); ok {
		r[ColManager] = m.FullName()
	}
	if s, ok := o.Squad(p.SquadID); ok {
		r[ColSquad] = s.Name
	}
	return r
}

// templateRows are the sample lines of both templates.
var templateRows = []Row{
	{ColLastName: "Dupont", ColFirstName: "Jean", ColCraft: "Cloud", ColSeniority: "3", ColLeadDev: no, ColTechLead: yes, ColScrumMaster: no, ColManager: "Martin Pierre", ColSquad: "Squad Alpha"},
	{ColLastName: "Chen", ColFirstName: "Alice", ColCraft: "Mobile", ColSeniority: "4", ColLeadDev: yes, ColTechLead: no, ColScrumMaster: no, ColManager: "Dubois Marie", ColSquad: "Squad Beta"},
	{ColLastName: "Garcia", ColFirstName: "Carlos", ColCraft: "Embarqué", ColSeniority: "2", ColLeadDev: no, ColTechLead: no, ColScrumMaster: yes, ColManager: "Laurent Sophie", ColSquad: "Squad Gamma"},
}

// File names.
const (
	TemplateXLSXName = "org_template.xlsx"
	TemplateCSVName  = "org_template.csv"
)

// ExportFilename returns "org_export_YYYY-MM-DD.<ext>".
func ExportFilename(ext string, now time.Time) string {
	return fmt.Sprintf("org_export_%s.%s", now.Format(time.DateOnly), ext)
}

// FullBackupFilename returns "org_full_backup_YYYY-MM-DD.csv".
func FullBackupFilename(now time.Time) string {
	return fmt.Sprintf("org_full_backup_%s.csv", now.Format(time.DateOnly))
}
