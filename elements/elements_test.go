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

package elements

import (
	"errors"
	"testing"
)

func TestMass(t *testing.T) {
	tbl := Default()
	for sym, want := range map[string]float64{
		"H":  1.00794,
		"He": 4.002602,
		"Ti": 47.867,
		"O":  15.9994,
	} {
		m, err := tbl.Mass(sym)
		if err != nil {
			t.Fatal(err)
		}
		if m != want {
			t.Errorf("%s: have %g, want %g", sym, m, want)
		}
	}
}

func TestUnknown(t *testing.T) {
	tbl := Default()
	for _, sym := range []string{"e", "h", "Xx", ""} {
		if _, err := tbl.Mass(sym); !errors.Is(err, ErrUnknownElement) {
			t.Errorf("%q: have error %v, want ErrUnknownElement", sym, err)
		}
	}
}

func TestUniqueSymbols(t *testing.T) {
	if len(Default()) != len(periodic) {
		t.Errorf("duplicate symbols: %d unique of %d", len(Default()), len(periodic))
	}
}
