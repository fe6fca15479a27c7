/*
Copyright © 2026 the rtatm authors.
This file is part of rtatm.

rtatm is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

rtatm is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with rtatm.  If not, see <http://www.gnu.org/licenses/>.
*/

package rtatm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tealeg/xlsx"
)

// Table is a column-oriented numeric table with named columns.
type Table struct {
	// Columns holds the column names in file order.
	Columns []string
	data    map[string][]float64
	nrows   int
}

// NewTable creates a table from row-major data.
func NewTable(columns []string, rows [][]float64) (*Table, error) {
	t := &Table{
		Columns: append([]string(nil), columns...),
		data:    make(map[string][]float64, len(columns)),
		nrows:   len(rows),
	}
	for _, c := range columns {
		if _, ok := t.data[c]; ok {
			return nil, fmt.Errorf("rtatm: table has repeated column %q", c)
		}
		t.data[c] = make([]float64, len(rows))
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("rtatm: table row %d has %d values but there are %d columns", i, len(row), len(columns))
		}
		for j, c := range columns {
			t.data[c][i] = row[j]
		}
	}
	return t, nil
}

// Column returns the named column and whether it exists. The
// returned slice must not be modified.
func (t *Table) Column(name string) ([]float64, bool) {
	c, ok := t.data[name]
	return c, ok
}

// Has reports whether the table has all of the named columns.
func (t *Table) Has(names ...string) bool {
	for _, n := range names {
		if _, ok := t.data[n]; !ok {
			return false
		}
	}
	return true
}

// NRows returns the number of rows in the table.
func (t *Table) NRows() int { return t.nrows }

// ReadTable reads a whitespace-delimited table with a header row of
// column names. Blank lines and lines starting with '#' are skipped.
func ReadTable(r io.Reader) (*Table, error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 16*1024*1024)
	var header []string
	var rows [][]float64
	line := 0
	for s.Scan() {
		line++
		fields := strings.Fields(s.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if header == nil {
			header = fields
			continue
		}
		row := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("rtatm: table line %d: %v", line, err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("rtatm: reading table: %v", err)
	}
	if header == nil {
		return nil, fmt.Errorf("rtatm: table has no header")
	}
	return NewTable(header, rows)
}

// ReadTableFile reads a table from a file. Files ending in .xlsx are
// read from their first sheet; all others are read with ReadTable.
func ReadTableFile(path string) (*Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readExcelTable(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("%v (%s)", err, path)
	}
	return t, nil
}

// readExcelTable reads the first sheet of an Excel file, whose first
// non-empty row holds the column names.
func readExcelTable(path string) (*Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("rtatm: opening excel table: %v", err)
	}
	if len(f.Sheets) == 0 {
		return nil, fmt.Errorf("rtatm: excel table %s has no sheets", path)
	}
	var header []string
	var rows [][]float64
	for i, row := range f.Sheets[0].Rows {
		if len(row.Cells) == 0 || strings.TrimSpace(row.Cells[0].Value) == "" {
			continue
		}
		if header == nil {
			for _, c := range row.Cells {
				header = append(header, strings.TrimSpace(c.Value))
			}
			for len(header) > 0 && header[len(header)-1] == "" {
				header = header[:len(header)-1]
			}
			continue
		}
		vals := make([]float64, len(header))
		for j := range header {
			if j >= len(row.Cells) {
				return nil, fmt.Errorf("rtatm: excel table %s row %d is missing column %q", path, i+1, header[j])
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(row.Cells[j].Value), 64)
			if err != nil {
				return nil, fmt.Errorf("rtatm: excel table %s row %d: %v", path, i+1, err)
			}
			vals[j] = v
		}
		rows = append(rows, vals)
	}
	if header == nil {
		return nil, fmt.Errorf("rtatm: excel table %s has no header", path)
	}
	return NewTable(header, rows)
}
