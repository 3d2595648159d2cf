package cli

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orgmorph/pkg/errors"
	orgio "github.com/matzehuels/orgmorph/pkg/io"
)

// Export and template formats.
const (
	formatXLSX    = "xlsx"
	formatCSV     = "csv"
	formatFullCSV = "full-csv"
	formatJSON    = "json"
)

// =============================================================================
// Import
// =============================================================================

// importCommand creates the import command for spreadsheets and snapshots.
func (c *CLI) importCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import people from XLSX or CSV, or a JSON snapshot",
		Long: `Import people into the stored organisation.

XLSX and CSV files are merged: a row whose first and last name match an
existing person updates that person, any other row adds someone new.
Manager and squad columns are resolved by name. Every row is checked
before anything is written; a single invalid row rejects the file.

A JSON snapshot replaces the whole organisation.

The previous organisation is kept as a backup ('orgmorph data restore').`,
		Example: `  orgmorph template -f xlsx
  orgmorph import org_template.xlsx
  orgmorph import org_full_backup_2026-01-15.csv
  orgmorph import snapshot.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImport(cmd.Context(), args[0])
		},
	}
	return cmd
}

func (c *CLI) runImport(ctx context.Context, path string) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if err := errors.ValidateExtension(path, ".xlsx", ".csv", ".json"); err != nil {
		return err
	}

	svc, closeStore, err := c.openService(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	prog := newProgress(c.Logger)

	if ext == formatJSON {
		o, err := orgio.ImportJSON(path)
		if err != nil {
			return reportValidation(err)
		}
		if err := svc.ReplaceAll(ctx, o); err != nil {
			return err
		}
		prog.done(fmt.Sprintf("Imported snapshot %s", filepath.Base(path)))
		printSuccess("Organisation replaced")
		printStats(len(o.People), len(o.Squads), 0, false)
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	res, err := parseSheet(ext, bytes.NewReader(data))
	if err != nil {
		return reportValidation(err)
	}

	summary, err := svc.ImportPeople(ctx, res.Rows)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Imported %d people from %s", summary.Total, filepath.Base(path)))
	printImportSummary(summary)
	return nil
}

func parseSheet(ext string, r io.Reader) (orgio.ImportResult, error) {
	if ext == formatXLSX {
		return orgio.ReadXLSX(r, orgio.ParseOptions{})
	}
	return orgio.ReadCSV(r, orgio.ParseOptions{})
}

// reportValidation prints every message of a validation error and returns
// a short error for the exit status.
func reportValidation(err error) error {
	var verr *errors.ValidationError
	if !stderrors.As(err, &verr) {
		return err
	}
	for _, msg := range verr.Messages {
		printError("%s", msg)
	}
	return fmt.Errorf("import rejected: %d error(s)", len(verr.Messages))
}

func printImportSummary(s orgio.ImportSummary) {
	printSuccess("Import complete")
	printKeyValue("Rows", fmt.Sprint(s.Total))
	printKeyValue("Added", fmt.Sprint(s.Added))
	printKeyValue("Modified", fmt.Sprint(s.Modified))
	if len(s.Unresolved) > 0 {
		printNewline()
		printWarning("%d reference(s) could not be resolved", len(s.Unresolved))
		for _, u := range s.Unresolved {
			printDetail("%s", u)
		}
	}
}

// =============================================================================
// Export
// =============================================================================

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the organisation to XLSX, CSV or JSON",
		Long: `Export the stored organisation.

  xlsx      developer sheet in the import layout
  csv       developer sheet as CSV
  full-csv  managers and developers, with the manager columns
  json      complete snapshot`,
		Example: `  orgmorph export -f xlsx
  orgmorph export -f full-csv -o backup.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), format, output)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatXLSX, "format: xlsx, csv, full-csv, json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: dated file name)")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, format, output string) error {
	if output == "" {
		output = c.exportName(format)
		if output == "" {
			return fmt.Errorf("unknown export format %q (want xlsx, csv, full-csv or json)", format)
		}
	}

	svc, closeStore, err := c.openService(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	o, err := svc.Current(ctx)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	count := len(o.People)
	switch format {
	case formatXLSX:
		count, err = orgio.WriteXLSX(&buf, o)
	case formatCSV:
		count, err = orgio.WriteCSV(&buf, o)
	case formatFullCSV:
		count, err = orgio.WriteFullCSV(&buf, o)
	case formatJSON:
		err = orgio.WriteJSON(&buf, o)
	default:
		return fmt.Errorf("unknown export format %q (want xlsx, csv, full-csv or json)", format)
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}
	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Exported %d people", count)
	printFile(output)
	return nil
}

// exportName returns the dated default file name for format.
func (c *CLI) exportName(format string) string {
	switch format {
	case formatXLSX, formatCSV, formatJSON:
		return orgio.ExportFilename(format, c.now())
	case formatFullCSV:
		return orgio.FullBackupFilename(c.now())
	}
	return ""
}

// =============================================================================
// Template
// =============================================================================

// templateCommand creates the template command.
func (c *CLI) templateCommand() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write an import template with example rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				buf  bytes.Buffer
				err  error
				name string
			)
			switch format {
			case formatXLSX:
				name = orgio.TemplateXLSXName
				err = orgio.WriteTemplateXLSX(&buf)
			case formatCSV:
				name = orgio.TemplateCSVName
				err = orgio.WriteTemplateCSV(&buf)
			default:
				return fmt.Errorf("unknown template format %q (want xlsx or csv)", format)
			}
			if err != nil {
				return err
			}
			if output == "" {
				output = name
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Template written")
			printFile(output)
			printNextStep("Fill it in, then import it", "orgmorph import "+output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatXLSX, "format: xlsx, csv")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")

	return cmd
}
