package caseimport

import (
	"fmt"
	"sort"
	"strings"
)

// Row is one parsed line of an upload. Headers keep the column order of the
// source file so that alias matching is deterministic.
type Row struct {
	Headers []string
	Values  map[string]string
}

// NewRow pairs a header line with one line of cells. Repeated header names
// get a numeric suffix; missing trailing cells are treated as blank.
func NewRow(headers, cells []string) Row {
	row := Row{
		Headers: make([]string, 0, len(headers)),
		Values:  make(map[string]string, len(headers)),
	}
	for i, h := range headers {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Column %d", i+1)
		}
		base := name
		for n := 1; ; n++ {
			if _, dup := row.Values[name]; !dup {
				break
			}
			name = fmt.Sprintf("%s_%d", base, n)
		}
		val := ""
		if i < len(cells) {
			val = cells[i]
		}
		row.Headers = append(row.Headers, name)
		row.Values[name] = val
	}
	return row
}

// RowFromMap builds a row from a header to value map. Header order follows
// the order argument when given; remaining keys are appended sorted.
func RowFromMap(values map[string]string, order ...string) Row {
	row := Row{Values: make(map[string]string, len(values))}
	seen := make(map[string]bool, len(values))
	for _, h := range order {
		if v, ok := values[h]; ok && !seen[h] {
			row.Headers = append(row.Headers, h)
			row.Values[h] = v
			seen[h] = true
		}
	}
	rest := make([]string, 0, len(values))
	for h := range values {
		if !seen[h] {
			rest = append(rest, h)
		}
	}
	sort.Strings(rest)
	for _, h := range rest {
		row.Headers = append(row.Headers, h)
		row.Values[h] = values[h]
	}
	return row
}

// IsBlank reports whether every cell of the row is empty.
func (r Row) IsBlank() bool {
	for _, v := range r.Values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// RowsFromTable turns a header line plus data lines into rows, dropping
// lines where every cell is blank.
func RowsFromTable(table [][]string) []Row {
	if len(table) == 0 {
		return nil
	}
	headers := table[0]
	rows := make([]Row, 0, len(table)-1)
	for _, cells := range table[1:] {
		row := NewRow(headers, cells)
		if row.IsBlank() {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}
