package caseimport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrEmptyFile           = errors.New("file contains no data rows")
)

// ParseFile turns an uploaded CSV, XLSX or XLS file into rows. The format is
// chosen by file extension.
func ParseFile(filename string, data []byte) ([]Row, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}
	var (
		table [][]string
		err   error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		table, err = parseCSV(data)
	case ".xlsx", ".xlsm":
		table, err = parseExcel(data)
	case ".xls":
		// some exporters write xlsx content under an .xls name
		table, err = parseXLS(data)
		if err != nil {
			if t, xerr := parseExcel(data); xerr == nil {
				table, err = t, nil
			}
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, filepath.Ext(filename))
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	rows := RowsFromTable(table)
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	return rows, nil
}

func parseCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	return r.ReadAll()
}

// parseExcel reads the first sheet with raw cell values so that dates arrive
// as serial numbers and amounts without display formatting.
func parseExcel(data []byte) ([][]string, error) {
	xl, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer xl.Close()

	sheetName := xl.GetSheetName(0)
	if sheetName == "" {
		return nil, errors.New("workbook has no sheets")
	}
	return xl.GetRows(sheetName, excelize.Options{RawCellValue: true})
}

// parseXLS reads the first sheet of a legacy BIFF workbook. The reader
// panics on some malformed files, so that is reported as an error.
func parseXLS(data []byte) (table [][]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			table, err = nil, fmt.Errorf("corrupt xls workbook: %v", r)
		}
	}()

	book, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	if book == nil || book.NumSheets() == 0 {
		return nil, errors.New("no sheets found")
	}
	sheet := book.GetSheet(0)
	if sheet == nil {
		return nil, errors.New("no sheets found")
	}
	// sheets are read in order, so capping at the first sheet's row count
	// keeps later sheets out
	return book.ReadAllCells(int(sheet.MaxRow) + 1), nil
}
