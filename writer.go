package devsplit

import (
	"encoding/json"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"
)

// writeSubset writes one device's rows to path in the requested format,
// replacing any existing file at that path.
func writeSubset(df dataframe.DataFrame, path string, format Format) error {
	switch format {
	case FormatCSV:
		return writeCSV(df, path)
	case FormatJSON:
		return writeJSON(df, path)
	case FormatExcel:
		return writeExcel(df, path)
	default:
		return &UnsupportedFormatError{Format: string(format)}
	}
}

// writeCSV writes UTF-8 text with a header row and no index column.
func writeCSV(df dataframe.DataFrame, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := df.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeJSON writes an indented array of row records. HTML escaping is off so
// the output stays readable; non-ASCII characters are preserved as-is.
func writeJSON(df dataframe.DataFrame, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(df.Maps()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeExcel writes a single sheet with a header row and no index column.
func writeExcel(df dataframe.DataFrame, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, record := range df.Records() {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := make([]interface{}, len(record))
		for j, v := range record {
			row[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
