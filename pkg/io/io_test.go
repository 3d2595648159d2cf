package io

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/orgmorph/pkg/errors"
	"github.com/matzehuels/orgmorph/pkg/org"
)

func testOrg() *org.Organization {
	return &org.Organization{
		Version:  org.SchemaVersion,
		Director: org.Director{ID: "d", FirstName: "Marie", LastName: "Dubois", Title: "Directrice"},
		People: []org.Person{
			{ID: "m", FirstName: "Pierre", LastName: "Martin", Craft: org.CraftCloud, Seniority: 4, ManagerID: "d", IsManager: true, ManagerTimePercent: 50, SquadID: "s"},
			{ID: "a", FirstName: "Léa", LastName: "Roux", Craft: org.CraftCloud, Seniority: 2, ManagerID: "m", SquadID: "s", IsLeadDev: true},
			{ID: "b", FirstName: "Hugo", LastName: "Petit, Jr", Craft: org.CraftTestAuto, Seniority: 3, ManagerID: "m"},
		},
		Squads: []org.Squad{{ID: "s", Name: "Squad Alpha", MemberIDs: []string{"m", "a"}}},
		Train:  org.Train{ID: "t", Name: "Cantal", SquadIDs: []string{"s"}},
		RTE:    org.RTE{ID: "r", FirstName: "Sophie", LastName: "Laurent"},
	}
}

func seqIDs() ParseOptions {
	n := 0
	return ParseOptions{NewID: func() string { n++; return fmt.Sprintf("id-%d", n) }}
}

func validationMessages(t *testing.T, err error) []string {
	t.Helper()
	var ve *errors.ValidationError
	if !stderrors.As(err, &ve) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	return ve.Messages
}

func TestParseRowsEmpty(t *testing.T) {
	_, err := ParseRows(nil, ParseOptions{})
	msgs := validationMessages(t, err)
	if len(msgs) != 1 || msgs[0] != "Le fichier est vide ou mal formaté" {
		t.Errorf("messages = %q", msgs)
	}
	if !errors.Is(err, errors.ErrCodeInvalidFile) {
		t.Errorf("code = %v", errors.GetCode(err))
	}
}

func TestParseRowsValidation(t *testing.T) {
	rows := []Row{
		{ColLastName: "Dupont", ColFirstName: "Jean", ColCraft: "Cloud", ColSeniority: "3"},
		{ColLastName: "", ColFirstName: "Alice", ColCraft: "Web", ColSeniority: "7", ColLeadDev: "peut-être"},
		{ColLastName: "Garcia", ColFirstName: "Carlos", ColCraft: "", ColSeniority: "x"},
	}
	_, err := ParseRows(rows, ParseOptions{})
	want := []string{
		"Ligne 3: Nom ou Prénom manquant",
		"Ligne 3: Métier invalide ou manquant (Web). Valeurs acceptées: Cloud, Mobile, Embarqué, Test auto, Infra",
		"Ligne 3: Séniorité invalide (7). Valeurs acceptées: 1, 2, 3, 4",
		"Ligne 3: Lead Dev invalide (peut-être). Valeurs acceptées: Oui, Non",
		"Ligne 4: Métier invalide ou manquant (vide). Valeurs acceptées: Cloud, Mobile, Embarqué, Test auto, Infra",
		"Ligne 4: Séniorité invalide (x). Valeurs acceptées: 1, 2, 3, 4",
	}
	got := validationMessages(t, err)
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("messages =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestParseRows(t *testing.T) {
	rows := []Row{{
		ColLastName: "Chen", ColFirstName: "Alice", ColCraft: "Mobile", ColSeniority: "4.0",
		ColLeadDev: "OUI", ColTechLead: "non", ColManager: "Dubois Marie", ColSquad: "Squad Beta",
	}}
	res, err := ParseRows(rows, seqIDs())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(res.Summary, ImportSummary{Total: 1, Added: 1}) {
		t.Errorf("Summary = %+v", res.Summary)
	}
	r := res.Rows[0]
	p := r.Person
	if p.ID != "id-1" || p.Seniority != 4 || !p.IsLeadDev || p.IsTechLead || p.IsManager || p.ManagerTimePercent != 0 {
		t.Errorf("Person = %+v", p)
	}
	if r.ManagerName != "Dubois Marie" || r.SquadName != "Squad Beta" || p.ManagerID != "" {
		t.Errorf("names not left unresolved: %+v", r)
	}
}

func TestCSVRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteCSV(&buf, testOrg())
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("WriteCSV() = %d, want 2 developers", n)
	}
	out := buf.String()
	if !strings.HasPrefix(out, bom+"Nom,Prénom,Métier,Séniorité,LeadDev,TechLead,ScrumMaster,Manager,Squad\r\n") {
		t.Errorf("unexpected header: %q", out[:80])
	}
	if !strings.Contains(out, `"Petit, Jr"`) {
		t.Error("field with comma not quoted")
	}

	res, err := ReadCSV(&buf, seqIDs())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("rows = %d", len(res.Rows))
	}
	a := res.Rows[0]
	if a.Person.FirstName != "Léa" || !a.Person.IsLeadDev || a.ManagerName != "Pierre Martin" || a.SquadName != "Squad Alpha" {
		t.Errorf("row = %+v", a)
	}
	if res.Rows[1].SquadName != "" || res.Rows[1].Person.LastName != "Petit, Jr" {
		t.Errorf("row = %+v", res.Rows[1])
	}
}

func TestCSVTemplate(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTemplateCSV(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), bom+"# Template CSV") {
		t.Errorf("template should start with the BOM and comments")
	}
	res, err := ReadCSV(&buf, seqIDs())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Rows) != 3 || res.Rows[2].Person.Craft != org.CraftEmbedded || !res.Rows[2].Person.IsScrumMaster {
		t.Errorf("template rows = %+v", res.Rows)
	}
}

func TestFullCSV(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteFullCSV(&buf, testOrg())
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("WriteFullCSV() = %d, want 3", n)
	}
	if !strings.Contains(buf.String(), "IsManager,ManagerTimePercent") {
		t.Error("missing manager columns")
	}

	res, err := ReadCSV(&buf, seqIDs())
	if err != nil {
		t.Fatal(err)
	}
	m := res.Rows[0].Person
	if !m.IsManager || m.ManagerTimePercent != 50 {
		t.Errorf("manager row = %+v", m)
	}
	if res.Rows[1].Person.IsManager {
		t.Error("developer imported as manager")
	}
}

func TestReadCSVOnlyComments(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("# nothing\n#\n"), ParseOptions{})
	if msgs := validationMessages(t, err); msgs[0] != "Le fichier est vide ou mal formaté" {
		t.Errorf("messages = %q", msgs)
	}
}

func TestXLSXRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteXLSX(&buf, testOrg())
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("WriteXLSX() = %d", n)
	}

	res, err := ReadXLSX(&buf, seqIDs())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Rows) != 2 || res.Rows[0].Person.Seniority != 2 || res.Rows[1].Person.Craft != org.CraftTestAuto {
		t.Errorf("rows = %+v", res.Rows)
	}
}

func TestXLSXTemplate(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTemplateXLSX(&buf); err != nil {
		t.Fatal(err)
	}
	res, err := ReadXLSX(&buf, seqIDs())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Rows) != 3 || res.Rows[0].Person.LastName != "Dupont" || res.Rows[0].ManagerName != "Martin Pierre" {
		t.Errorf("template rows = %+v", res.Rows)
	}
}

func TestReadXLSXInvalid(t *testing.T) {
	_, err := ReadXLSX(strings.NewReader("not a workbook"), ParseOptions{})
	if !errors.Is(err, errors.ErrCodeInvalidFile) {
		t.Errorf("ReadXLSX() = %v", err)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, testOrg()); err != nil {
		t.Fatal(err)
	}
	o, err := ReadJSON(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(o.People) != 3 || o.Train.Name != "Cantal" {
		t.Errorf("round trip = %+v", o)
	}

	_, err = ReadJSON(strings.NewReader(`{"version":"1.0","director":{"id":"d"}}`))
	if !errors.Is(err, errors.ErrCodeInvalidSnapshot) {
		t.Errorf("missing developers: %v", err)
	}
}

func TestFilenames(t *testing.T) {
	now := time.Date(2024, 3, 7, 23, 0, 0, 0, time.UTC)
	if got := ExportFilename("xlsx", now); got != "org_export_2024-03-07.xlsx" {
		t.Errorf("ExportFilename() = %q", got)
	}
	if got := FullBackupFilename(now); got != "org_full_backup_2024-03-07.csv" {
		t.Errorf("FullBackupFilename() = %q", got)
	}
}
