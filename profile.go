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

	"gonum.org/v1/gonum/mat"
)

const (
	temperatureColumn = "temperature"
	pressureColumn    = "pressure"
)

// Level1D holds quantities at the nlevel edges of a one-dimensional
// atmosphere.
type Level1D struct {
	Temperature  []float64  // [K]
	Pressure     []float64  // [dyn/cm²]
	MixingRatios *mat.Dense // [nlevel × nmolecule]
	Electrons    []float64  // electron number fraction; nil if not given
	MMW          []float64  // mean molecular weight [g/mol]
	Density      []float64  // number density [cm⁻³]
}

// Layer1D holds quantities at the nlevel-1 layers between levels.
type Layer1D struct {
	Temperature  []float64
	Pressure     []float64
	MixingRatios *mat.Dense
	Electrons    []float64
	MMW          []float64
	Colden       []float64 // column mass [g/cm²]
}

// Profile1D is a loaded one-dimensional profile. Molecules gives the
// column order of the mixing ratio matrices.
type Profile1D struct {
	Molecules []string
	Weights   map[string]float64
	Level     Level1D
	Layer     Layer1D
}

// resolveMolecules decides which of columns are molecules and
// whether an electron column is used. If whichones is empty, every
// column other than temperature and pressure is considered and
// unrecognized ones are skipped with a warning; otherwise every name
// in whichones must be a molecule or "e-" and must be one of columns.
func resolveMolecules(columns, whichones []string, masses MassTable, d *Diagnostics) (molecules []string, weights map[string]float64, electrons bool, err error) {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}
	weights = make(map[string]float64)
	add := func(name string, cl Classification) {
		if _, ok := weights[name]; ok {
			return
		}
		molecules = append(molecules, name)
		weights[name] = cl.Mass
	}
	if len(whichones) > 0 {
		for _, name := range whichones {
			cl := Classify(name, masses)
			switch cl.Kind {
			case Unrecognized:
				return nil, nil, false, configErrorf("profile", "molecules.whichones", "%q is not a recognized molecule", name)
			case Electron:
				electrons = true
			case Molecule:
				add(name, cl)
			}
			if !present[name] {
				return nil, nil, false, configErrorf("profile", "molecules.whichones", "%q is not a column of the profile", name)
			}
		}
		return molecules, weights, electrons, nil
	}
	for _, name := range columns {
		if name == temperatureColumn || name == pressureColumn {
			continue
		}
		cl := Classify(name, masses)
		switch cl.Kind {
		case Unrecognized:
			d.Warnf("profile", "ignoring column %q: not a recognized molecule", name)
		case Electron:
			electrons = true
		case Molecule:
			add(name, cl)
		}
	}
	return molecules, weights, electrons, nil
}

// checkPT returns an error if the profile has no temperature and
// pressure columns.
func checkPT(hasTP bool, pt PTConfig) error {
	if hasTP {
		return nil
	}
	if pt.complete() {
		return &ConfigError{Stage: "profile", Field: "PT",
			Err: fmt.Errorf("parameterized temperature-pressure profiles: %w", ErrNotImplemented)}
	}
	return configErrorf("profile", "PT", "profile has no temperature and pressure and "+
		"there is not enough information to compute them")
}

// checkPressure ensures the level pressures increase from the top of
// the atmosphere (index 0) downward.
func checkPressure(p []float64) error {
	for i := 1; i < len(p); i++ {
		if !(p[i] > p[i-1]) {
			return configErrorf("profile", pressureColumn, "must increase with level index "+
				"(top of atmosphere first), but level %d (%g) follows %g", i, p[i], p[i-1])
		}
	}
	return nil
}

// LoadProfile1D builds level and layer arrays from a user profile
// table. Pressure in the table is in bar. The returned Constants have
// the number of levels and layers set.
func LoadProfile1D(t *Table, mol MoleculesConfig, pt PTConfig, c Constants, masses MassTable, d *Diagnostics) (*Profile1D, Constants, error) {
	if err := checkPT(t.Has(temperatureColumn, pressureColumn), pt); err != nil {
		return nil, c, err
	}
	molecules, weights, electrons, err := resolveMolecules(t.Columns, mol.Whichones, defaultMasses(masses), d)
	if err != nil {
		return nil, c, err
	}
	if len(molecules) == 0 {
		return nil, c, configErrorf("profile", "molecules", "profile has no recognized molecules")
	}
	nlevel := t.NRows()
	if nlevel < 2 {
		return nil, c, &ShapeError{Stage: "profile", Field: "levels", Want: 2, Got: nlevel}
	}
	c = c.WithLevels(nlevel)

	p := &Profile1D{Molecules: molecules, Weights: weights}
	temp, _ := t.Column(temperatureColumn)
	pres, _ := t.Column(pressureColumn)
	p.Level.Temperature = append([]float64(nil), temp...)
	p.Level.Pressure = make([]float64, nlevel)
	for i, v := range pres {
		p.Level.Pressure[i] = v * c.PConv
	}
	if err := checkPressure(p.Level.Pressure); err != nil {
		return nil, c, err
	}
	if electrons {
		e, _ := t.Column(electronColumn)
		p.Level.Electrons = append([]float64(nil), e...)
	}
	p.Level.MixingRatios = mat.NewDense(nlevel, len(molecules), nil)
	for j, m := range molecules {
		col, _ := t.Column(m)
		p.Level.MixingRatios.SetCol(j, col)
	}
	p.Layer.MixingRatios = arithmeticLayerRows(p.Level.MixingRatios)

	p.Layer.Temperature = arithmeticLayers(p.Level.Temperature)
	p.Layer.Pressure = geometricLayers(p.Level.Pressure)
	p.Layer.Electrons = arithmeticLayers(p.Level.Electrons)
	return p, c, nil
}
