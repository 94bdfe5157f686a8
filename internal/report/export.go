package report

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/jobscout-cli/internal/model"
)

// companyColumns matches the company list format read by the importer.
var companyColumns = []string{"COMPANY_NAME", "RATING", "URL"}

// WriteCSV writes the header and one line per row.
func WriteCSV(w io.Writer, rows []model.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return eris.Wrap(err, "report: write header")
	}
	for _, r := range rows {
		if err := cw.Write(Record(r)); err != nil {
			return eris.Wrap(err, "report: write row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "report: flush csv")
}

// WriteXLSX writes the rows to a single-sheet workbook at path.
func WriteXLSX(path string, rows []model.Row) error {
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, Record(r))
	}
	return writeSheet(path, "jobs", Columns, cells)
}

// MissingRatings returns the companies whose rating was never looked up.
func MissingRatings(companies []model.CompanyRecord) []model.CompanyRecord {
	var out []model.CompanyRecord
	for _, c := range companies {
		if c.NeedsRating() {
			out = append(out, c)
		}
	}
	return out
}

// WriteCompaniesCSV writes companies in the COMPANY_NAME, RATING, URL list
// format.
func WriteCompaniesCSV(w io.Writer, companies []model.CompanyRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(companyColumns); err != nil {
		return eris.Wrap(err, "report: write company header")
	}
	for _, c := range companies {
		if err := cw.Write(companyRecord(c)); err != nil {
			return eris.Wrap(err, "report: write company row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "report: flush company csv")
}

// WriteCompaniesXLSX writes companies to a single-sheet workbook at path.
func WriteCompaniesXLSX(path string, companies []model.CompanyRecord) error {
	cells := make([][]string, 0, len(companies))
	for _, c := range companies {
		cells = append(cells, companyRecord(c))
	}
	return writeSheet(path, "companies", companyColumns, cells)
}

// ExportFile writes rows to path, choosing XLSX for a .xlsx extension and CSV
// otherwise.
func ExportFile(path string, rows []model.Row) error {
	if filepath.Ext(path) == ".xlsx" {
		return WriteXLSX(path, rows)
	}
	return writeFile(path, func(w io.Writer) error { return WriteCSV(w, rows) })
}

// ExportCompaniesFile is ExportFile for company lists.
func ExportCompaniesFile(path string, companies []model.CompanyRecord) error {
	if filepath.Ext(path) == ".xlsx" {
		return WriteCompaniesXLSX(path, companies)
	}
	return writeFile(path, func(w io.Writer) error { return WriteCompaniesCSV(w, companies) })
}

func companyRecord(c model.CompanyRecord) []string {
	return []string{c.Name, FormatRating(c.Rating, c.RatingUnavailable), c.SourceURL}
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "report: create %s", path)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return eris.Wrapf(f.Close(), "report: close %s", path)
}

func writeSheet(path, name string, header []string, rows [][]string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(name)
	if err != nil {
		return eris.Wrap(err, "report: add sheet")
	}
	for _, cells := range append([][]string{header}, rows...) {
		row := sheet.AddRow()
		for _, v := range cells {
			row.AddCell().SetString(v)
		}
	}
	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "report: save %s", path)
	}
	return nil
}
