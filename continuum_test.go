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
	"reflect"
	"testing"

	"github.com/kr/pretty"
)

func TestSelectContinuum(t *testing.T) {
	tests := []struct {
		molecules []string
		electrons bool
		pairs     []ContinuumPair
		line      []string
		warnings  int
	}{
		{
			molecules: []string{"H2", "He", "H", "H2O"},
			electrons: true,
			pairs:     []ContinuumPair{{"H2", "H2"}, {"H2", "He"}, {"H2", "H"}, {"H-", "ff"}, {"H2", "H2-"}},
			line:      []string{"H2O"},
		},
		{
			molecules: []string{"H2O"},
			line:      []string{"H2O"},
		},
		{
			molecules: []string{"CH4", "N2", "H2", "H-"},
			pairs:     []ContinuumPair{{"H2", "H2"}, {"H2", "N2"}, {"H2", "CH4"}, {"H-", "bf"}},
			line:      []string{"CH4"},
		},
		{
			molecules: []string{"H", "H+"},
			electrons: true,
			pairs:     []ContinuumPair{{"H-", "ff"}},
			warnings:  1,
		},
	}
	for i, test := range tests {
		d := quietDiagnostics()
		pairs, line := SelectContinuum(test.molecules, test.electrons, d)
		if !reflect.DeepEqual(pairs, test.pairs) {
			t.Errorf("%d pairs: %v", i, pretty.Diff(pairs, test.pairs))
		}
		if !reflect.DeepEqual(line, test.line) {
			t.Errorf("%d line: %v", i, pretty.Diff(line, test.line))
		}
		if len(d.Warnings()) != test.warnings {
			t.Errorf("%d: %d warnings, want %d", i, len(d.Warnings()), test.warnings)
		}
	}
}

func TestContinuumPairString(t *testing.T) {
	if s := (ContinuumPair{"H2", "He"}).String(); s != "H2-He" {
		t.Errorf("have %q", s)
	}
}
