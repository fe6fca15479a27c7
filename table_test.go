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
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/tealeg/xlsx"
)

func TestReadTable(t *testing.T) {
	tbl, err := ReadTable(strings.NewReader(`
# comment
a b c

1 2 3
4 5 6
`))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(tbl.Columns, []string{"a", "b", "c"}) {
		t.Errorf("columns: %v", tbl.Columns)
	}
	if tbl.NRows() != 2 {
		t.Errorf("rows: %d", tbl.NRows())
	}
	b, ok := tbl.Column("b")
	if !ok || !reflect.DeepEqual(b, []float64{2, 5}) {
		t.Errorf("column b: %v", b)
	}
	if !tbl.Has("a", "c") || tbl.Has("a", "d") {
		t.Error("Has")
	}
}

func TestReadTableErrors(t *testing.T) {
	for name, s := range map[string]string{
		"empty":      "# nothing here\n",
		"not number": "a b\n1 x\n",
		"short row":  "a b\n1\n",
		"repeated":   "a a\n1 2\n",
	} {
		if _, err := ReadTable(strings.NewReader(s)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestReadTableFileExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.xlsx")
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("profile")
	if err != nil {
		t.Fatal(err)
	}
	for _, row := range [][]string{{"temperature", "pressure", "H2"}, {"500", "0.1", "0.9"}, {"600", "1", "0.8"}} {
		r := sheet.AddRow()
		for _, v := range row {
			r.AddCell().SetString(v)
		}
	}
	if err := f.Save(path); err != nil {
		t.Fatal(err)
	}

	tbl, err := ReadTableFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(tbl.Columns, []string{"temperature", "pressure", "H2"}) {
		t.Errorf("columns: %v", tbl.Columns)
	}
	p, _ := tbl.Column("pressure")
	if !reflect.DeepEqual(p, []float64{0.1, 1}) {
		t.Errorf("pressure: %v", p)
	}
}
