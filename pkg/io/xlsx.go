package io

import (
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/orgmorph/pkg/errors"
	"github.com/matzehuels/orgmorph/pkg/org"
)

// Sheet names.
const (
	DevelopersSheet   = "Développeurs"
	InstructionsSheet = "Instructions"
)

var xlsxColumnWidths = []float64{15, 15, 12, 10, 10, 10, 13, 20, 15}

var xlsxInstructions = []string{
	"Outil de Visualisation Organisationnelle - Template",
	"",
	"Comment utiliser ce template:",
	`1. Remplissez la feuille "Développeurs" avec vos données`,
	"2. Vous pouvez supprimer les exemples et ajouter vos lignes",
	"3. Sauvegardez le fichier",
	"4. Importez-le dans l'application",
	"",
	"Valeurs acceptées:",
	"- Métier: Cloud | Mobile | Embarqué | Test auto | Infra",
	"- Séniorité: 1 | 2 | 3 | 4",
	"- Lead Dev, Tech Lead, Scrum Master: Oui | Non",
	"- Manager: Prénom Nom du manager",
	"- Squad: Nom de la squad",
}

// ReadXLSXRows reads the first sheet of a workbook. The first row is the
// header; blank rows are skipped.
func ReadXLSXRows(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFile, err, "Erreur lors de la lecture du fichier")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFile, err, "Erreur lors de la lecture du fichier")
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = canonicalHeader(h)
	}
	var rows []Row
	for _, rec := range records[1:] {
		if row, ok := recordToRow(header, rec); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// ReadXLSX parses and validates an XLSX roster.
func ReadXLSX(r io.Reader, opts ParseOptions) (ImportResult, error) {
	rows, err := ReadXLSXRows(r)
	if err != nil {
		return ImportResult{}, err
	}
	return ParseRows(rows, opts)
}

// WriteXLSX exports the developers of o and returns how many were written.
func WriteXLSX(w io.Writer, o *org.Organization) (int, error) {
	rows := ExportRows(o)
	f, err := newDevelopersWorkbook(rows)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return len(rows), f.Write(w)
}

// WriteTemplateXLSX writes the template workbook: three sample rows and an
// Instructions sheet.
func WriteTemplateXLSX(w io.Writer) error {
	f, err := newDevelopersWorkbook(templateRows)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.NewSheet(InstructionsSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(InstructionsSheet, "A1", &[]any{"Instructions"}); err != nil {
		return err
	}
	for i, line := range xlsxInstructions {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetCellStr(InstructionsSheet, cell, line); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(InstructionsSheet, "A", "A", 70); err != nil {
		return err
	}
	return f.Write(w)
}

func newDevelopersWorkbook(rows []Row) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", DevelopersSheet); err != nil {
		f.Close()
		return nil, err
	}

	header := make([]any, len(XLSXColumns))
	for i, c := range XLSXColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(DevelopersSheet, "A1", &header); err != nil {
		f.Close()
		return nil, err
	}

	for i, r := range rows {
		values := make([]any, len(XLSXColumns))
		for j, c := range XLSXColumns {
			values[j] = r[c]
		}
		if n, err := strconv.Atoi(r[ColSeniority]); err == nil {
			values[3] = n
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(DevelopersSheet, cell, &values); err != nil {
			f.Close()
			return nil, err
		}
	}

	for i, width := range xlsxColumnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(DevelopersSheet, col, col, width); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}
