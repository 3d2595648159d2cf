package io

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/orgmorph/pkg/errors"
	"github.com/matzehuels/orgmorph/pkg/org"
)

// bom is prepended to CSV output so spreadsheet tools detect UTF-8.
const bom = "\ufeff"

const csvTemplateHeader = `# Template CSV - Outil de Visualisation Organisationnelle
#
# Instructions:
# - Métier: Cloud | Mobile | Embarqué | Test auto | Infra
# - Séniorité: 1 | 2 | 3 | 4
# - LeadDev, TechLead, ScrumMaster: Oui | Non
# - Manager: Prénom Nom du manager
# - Squad: Nom de la squad
#
# Supprimez ces lignes de commentaires avant d'importer
# Vous pouvez modifier les exemples ci-dessous ou les supprimer et ajouter vos propres lignes
#
`

// ReadCSVRows reads CSV records, skipping the BOM, "#" comment lines and
// blank lines. Both "Lead Dev" and "LeadDev" header spellings are accepted.
func ReadCSVRows(r io.Reader) ([]Row, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(bom)); err == nil && string(head) == bom {
		_, _ = br.Discard(len(bom))
	}

	cr := csv.NewReader(br)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
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

// ReadCSV parses and validates a CSV roster.
func ReadCSV(r io.Reader, opts ParseOptions) (ImportResult, error) {
	rows, err := ReadCSVRows(r)
	if err != nil {
		return ImportResult{}, err
	}
	return ParseRows(rows, opts)
}

// WriteCSV exports the developers of o and returns how many were written.
func WriteCSV(w io.Writer, o *org.Organization) (int, error) {
	rows := ExportRows(o)
	return len(rows), writeCSV(w, "", CSVColumns, rows)
}

// WriteFullCSV exports everybody, managers included, with the IsManager
// and ManagerTimePercent columns.
func WriteFullCSV(w io.Writer, o *org.Organization) (int, error) {
	rows := FullRows(o)
	return len(rows), writeCSV(w, "", FullCSVColumns, rows)
}

// WriteTemplateCSV writes the commented CSV template.
func WriteTemplateCSV(w io.Writer) error {
	return writeCSV(w, csvTemplateHeader, CSVColumns, templateRows)
}

func writeCSV(w io.Writer, preamble string, columns []string, rows []Row) error {
	var buf bytes.Buffer
	buf.WriteString(bom)
	buf.WriteString(strings.ReplaceAll(preamble, "\n", "\r\n"))

	cw := csv.NewWriter(&buf)
	cw.UseCRLF = true
	if err := cw.Write(columns); err != nil {
		return err
	}
	for _, r := range rows {
		rec := make([]string, len(columns))
		for i, c := range columns {
			rec[i] = r[canonicalHeader(c)]
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
