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
	"fmt"

	"github.com/spatialmodel/rtatm/elements"
)

// MassTable returns the atomic mass [g/mol] of an element symbol, or
// an error if the symbol is not an element.
type MassTable interface {
	Mass(symbol string) (float64, error)
}

// FormulaTerm is one element of a chemical formula and its
// multiplicity.
type FormulaTerm struct {
	Symbol string
	Count  int
}

// ParseFormula splits a case-sensitive chemical formula such as "H2O"
// or "TiO" into elements and counts. An upper-case letter starts a
// new element, following lower-case letters extend it, and a run of
// digits sets its count (1 if absent). Other characters, such as the
// charge in "H-", are ignored.
func ParseFormula(formula string) ([]FormulaTerm, error) {
	var terms []FormulaTerm
	inDigits := false
	for _, r := range formula {
		switch {
		case r >= 'A' && r <= 'Z':
			terms = append(terms, FormulaTerm{Symbol: string(r), Count: 1})
			inDigits = false
		case r >= 'a' && r <= 'z':
			if len(terms) == 0 || inDigits {
				return nil, fmt.Errorf("formula %q: lower-case %q does not follow an element symbol", formula, r)
			}
			terms[len(terms)-1].Symbol += string(r)
		case r >= '0' && r <= '9':
			if len(terms) == 0 {
				return nil, fmt.Errorf("formula %q: count before any element", formula)
			}
			t := &terms[len(terms)-1]
			if !inDigits {
				t.Count = 0
				inDigits = true
			}
			t.Count = t.Count*10 + int(r-'0')
		default:
			inDigits = false
		}
	}
	if len(terms) == 0 {
		return nil, fmt.Errorf("formula %q has no elements", formula)
	}
	return terms, nil
}

// MolecularWeight returns the molar mass [g/mol] of formula.
func MolecularWeight(formula string, masses MassTable) (float64, error) {
	terms, err := ParseFormula(formula)
	if err != nil {
		return 0, err
	}
	var m float64
	for _, t := range terms {
		em, err := masses.Mass(t.Symbol)
		if err != nil {
			return 0, fmt.Errorf("formula %q: %w", formula, err)
		}
		m += em * float64(t.Count)
	}
	return m, nil
}

// MolecularWeights returns the molar mass of each formula.
func MolecularWeights(formulas []string, masses MassTable) (map[string]float64, error) {
	o := make(map[string]float64, len(formulas))
	for _, f := range formulas {
		m, err := MolecularWeight(f, masses)
		if err != nil {
			return nil, err
		}
		o[f] = m
	}
	return o, nil
}

// ColumnKind is the classification of a profile column.
type ColumnKind int

// Column kinds.
const (
	Unrecognized ColumnKind = iota
	Molecule
	Electron
)

func (k ColumnKind) String() string {
	switch k {
	case Molecule:
		return "molecule"
	case Electron:
		return "electron"
	default:
		return "unrecognized"
	}
}

// electronColumn is the profile column holding the free electron
// number fraction.
const electronColumn = "e-"

// Classification is the result of Classify. Mass is set only for
// molecules.
type Classification struct {
	Kind ColumnKind
	Mass float64
}

// Classify determines whether a profile column name is a molecule,
// the electron fraction, or neither.
func Classify(name string, masses MassTable) Classification {
	if m, err := MolecularWeight(name, masses); err == nil {
		return Classification{Kind: Molecule, Mass: m}
	}
	if name == electronColumn {
		return Classification{Kind: Electron}
	}
	return Classification{Kind: Unrecognized}
}

func defaultMasses(m MassTable) MassTable {
	if m == nil {
		return elements.Default()
	}
	return m
}
