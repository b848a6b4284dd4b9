package devsplit

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"
)

// Load reads a tabular dataset into a fully materialized DataFrame. The
// format is inferred from the file suffix:
//
//   - .csv         comma-delimited with a header row
//   - .json        array of record objects
//   - .xlsx, .xls  first sheet of a spreadsheet, first row as header
//
// Both [Splitter] and [Summarizer] load their input through this function,
// so a dataset that loads here will work with either operation. Any other
// suffix returns an *UnsupportedFormatError; a missing or malformed file
// returns a *ParseError wrapping the underlying cause.
func Load(path string) (dataframe.DataFrame, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return loadReader(path, dataframe.ReadCSV)
	case ".json":
		return loadReader(path, dataframe.ReadJSON)
	case ".xlsx", ".xls":
		return loadExcel(path)
	default:
		return dataframe.DataFrame{}, &UnsupportedFormatError{Format: ext}
	}
}

func loadReader(path string, read func(io.Reader, ...dataframe.LoadOption) dataframe.DataFrame) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	df := read(f)
	if df.Err != nil {
		return dataframe.DataFrame{}, &ParseError{Path: path, Err: df.Err}
	}
	return df, nil
}

func loadExcel(path string) (dataframe.DataFrame, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return dataframe.DataFrame{}, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return dataframe.DataFrame{}, &ParseError{Path: path, Err: err}
	}
	if len(rows) == 0 {
		return dataframe.DataFrame{}, &ParseError{Path: path, Err: errors.New("sheet has no rows")}
	}

	// GetRows drops trailing empty cells, so pad every row to header width.
	width := len(rows[0])
	for i, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		rows[i] = row
	}

	df := dataframe.LoadRecords(rows)
	if df.Err != nil {
		return dataframe.DataFrame{}, &ParseError{Path: path, Err: df.Err}
	}
	return df, nil
}
