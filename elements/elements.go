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

// Package elements holds standard atomic masses keyed by element symbol.
package elements

import (
	"errors"
	"fmt"
)

// ErrUnknownElement is returned when a symbol is not in the table.
var ErrUnknownElement = errors.New("elements: unknown element")

// Element is a chemical element.
type Element struct {
	Symbol string
	Name   string
	Number int
	Mass   float64 // standard atomic weight [g/mol]
}

// Table maps element symbols to elements.
type Table map[string]Element

// Mass returns the standard atomic weight [g/mol] of the element
// with the given case-sensitive symbol.
func (t Table) Mass(symbol string) (float64, error) {
	e, ok := t[symbol]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownElement, symbol)
	}
	return e.Mass, nil
}

// Default returns a table of the naturally occurring elements plus
// deuterium.
func Default() Table {
	t := make(Table, len(periodic))
	for _, e := range periodic {
		t[e.Symbol] = e
	}
	return t
}

var periodic = []Element{
	{"H", "hydrogen", 1, 1.00794},
	{"D", "deuterium", 1, 2.0141017778},
	{"He", "helium", 2, 4.002602},
	{"Li", "lithium", 3, 6.941},
	{"Be", "beryllium", 4, 9.012182},
	{"B", "boron", 5, 10.811},
	{"C", "carbon", 6, 12.0107},
	{"N", "nitrogen", 7, 14.0067},
	{"O", "oxygen", 8, 15.9994},
	{"F", "fluorine", 9, 18.9984032},
	{"Ne", "neon", 10, 20.1797},
	{"Na", "sodium", 11, 22.98977},
	{"Mg", "magnesium", 12, 24.305},
	{"Al", "aluminum", 13, 26.981538},
	{"Si", "silicon", 14, 28.0855},
	{"P", "phosphorus", 15, 30.973761},
	{"S", "sulfur", 16, 32.065},
	{"Cl", "chlorine", 17, 35.453},
	{"Ar", "argon", 18, 39.948},
	{"K", "potassium", 19, 39.0983},
	{"Ca", "calcium", 20, 40.078},
	{"Sc", "scandium", 21, 44.95591},
	{"Ti", "titanium", 22, 47.867},
	{"V", "vanadium", 23, 50.9415},
	{"Cr", "chromium", 24, 51.9961},
	{"Mn", "manganese", 25, 54.938049},
	{"Fe", "iron", 26, 55.845},
	{"Co", "cobalt", 27, 58.9332},
	{"Ni", "nickel", 28, 58.6934},
	{"Cu", "copper", 29, 63.546},
	{"Zn", "zinc", 30, 65.409},
	{"Ga", "gallium", 31, 69.723},
	{"Ge", "germanium", 32, 72.64},
	{"As", "arsenic", 33, 74.9216},
	{"Se", "selenium", 34, 78.96},
	{"Br", "bromine", 35, 79.904},
	{"Kr", "krypton", 36, 83.798},
	{"Rb", "rubidium", 37, 85.4678},
	{"Sr", "strontium", 38, 87.62},
	{"Y", "yttrium", 39, 88.90585},
	{"Zr", "zirconium", 40, 91.224},
	{"Nb", "niobium", 41, 92.90638},
	{"Mo", "molybdenum", 42, 95.94},
	{"Tc", "technetium", 43, 98},
	{"Ru", "ruthenium", 44, 101.07},
	{"Rh", "rhodium", 45, 102.9055},
	{"Pd", "palladium", 46, 106.42},
	{"Ag", "silver", 47, 107.8682},
	{"Cd", "cadmium", 48, 112.411},
	{"In", "indium", 49, 114.818},
	{"Sn", "tin", 50, 118.71},
	{"Sb", "antimony", 51, 121.76},
	{"Te", "tellurium", 52, 127.6},
	{"I", "iodine", 53, 126.90447},
	{"Xe", "xenon", 54, 131.293},
	{"Cs", "cesium", 55, 132.90545},
	{"Ba", "barium", 56, 137.327},
	{"La", "lanthanum", 57, 138.9055},
	{"Ce", "cerium", 58, 140.116},
	{"Pr", "praseodymium", 59, 140.90765},
	{"Nd", "neodymium", 60, 144.24},
	{"Sm", "samarium", 62, 150.36},
	{"Eu", "europium", 63, 151.964},
	{"Gd", "gadolinium", 64, 157.25},
	{"Tb", "terbium", 65, 158.92534},
	{"Dy", "dysprosium", 66, 162.5},
	{"Ho", "holmium", 67, 164.93032},
	{"Er", "erbium", 68, 167.259},
	{"Tm", "thulium", 69, 168.93421},
	{"Yb", "ytterbium", 70, 173.04},
	{"Lu", "lutetium", 71, 174.967},
	{"Hf", "hafnium", 72, 178.49},
	{"Ta", "tantalum", 73, 180.9479},
	{"W", "tungsten", 74, 183.84},
	{"Re", "rhenium", 75, 186.207},
	{"Os", "osmium", 76, 190.23},
	{"Ir", "iridium", 77, 192.217},
	{"Pt", "platinum", 78, 195.078},
	{"Au", "gold", 79, 196.96655},
	{"Hg", "mercury", 80, 200.59},
	{"Tl", "thallium", 81, 204.3833},
	{"Pb", "lead", 82, 207.2},
	{"Bi", "bismuth", 83, 208.98038},
	{"Th", "thorium", 90, 232.0381},
	{"Pa", "protactinium", 91, 231.03588},
	{"U", "uranium", 92, 238.02891},
}
