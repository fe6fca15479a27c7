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

// Package rtatm sets up planetary model atmospheres for radiative
// transfer calculations. Profiles are read from tables or netCDF facet
// datasets, and the quantities a solver needs are derived on the
// level/layer grid and the output wavenumber grid.
package rtatm

import (
	"fmt"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/mat"
)

// Atmosphere1D is a one-dimensional model atmosphere ready for a
// radiative transfer solver.
type Atmosphere1D struct {
	Constants Constants
	Planet    Planet

	// Molecules gives the column order of the mixing ratio
	// matrices, and Weights their molar masses [g/mol].
	Molecules []string
	Weights   map[string]float64

	// LineMolecules are the molecules that contribute line opacity,
	// and Continuum the active continuum pairs.
	LineMolecules []string
	Continuum     []ContinuumPair

	Level Level1D
	Layer Layer1D

	Wavenumber []float64 // output grid [cm⁻¹]
	Clouds     *Clouds1D
	Scattering *Scattering1D // nil unless flat scattering is configured

	Diagnostics *Diagnostics
}

// Atmosphere3D is a three-dimensional model atmosphere over the
// gangle and tangle grid.
type Atmosphere3D struct {
	Constants     Constants
	Planet        Planet
	Molecules     []string
	Weights       map[string]float64
	LineMolecules []string
	Continuum     []ContinuumPair

	Level Level3D
	Layer Layer3D

	Wavenumber []float64
	Clouds     *Clouds3D

	Diagnostics *Diagnostics
}

// SurfaceReflectivity returns the surface reflectivity on a grid of
// nwno wavenumbers. Surfaces are currently black.
func SurfaceReflectivity(nwno int) []float64 { return make([]float64, nwno) }

// column returns a[:, g, t] of a [n, ng, nt] array.
func column(a *sparse.DenseArray, g, t int) []float64 {
	o := make([]float64, a.Shape[0])
	for i := range o {
		o[i] = a.Get(i, g, t)
	}
	return o
}

// matrix returns a[:, :, g, t] of a [n, m, ng, nt] array.
func matrix(a *sparse.DenseArray, g, t int) *mat.Dense {
	o := mat.NewDense(a.Shape[0], a.Shape[1], nil)
	for i := 0; i < a.Shape[0]; i++ {
		for j := 0; j < a.Shape[1]; j++ {
			o.Set(i, j, a.Get(i, j, g, t))
		}
	}
	return o
}

type namedArray struct {
	name string
	v    *sparse.DenseArray
}

// missing returns an error naming the first nil field.
func missing(fields ...namedArray) error {
	for _, f := range fields {
		if f.v == nil {
			return &ConfigError{Stage: "disaggregate", Field: f.name, Err: ErrFieldMissing}
		}
	}
	return nil
}

// Disaggregate returns the one-dimensional column of a at gangle
// index g and tangle index t. a must have been fully set up,
// including clouds. a is not modified.
func (a *Atmosphere3D) Disaggregate(g, t int) (*Atmosphere1D, error) {
	c := a.Constants
	if g < 0 || g >= c.NGangle || t < 0 || t >= c.NTangle {
		return nil, fmt.Errorf("rtatm: disaggregate: facet (%d, %d) is outside of the %d×%d angle grid", g, t, c.NGangle, c.NTangle)
	}
	if a.Clouds == nil {
		return nil, &ConfigError{Stage: "disaggregate", Field: "clouds", Err: ErrFieldMissing}
	}
	if err := missing(
		namedArray{"level temperature", a.Level.Temperature},
		namedArray{"level pressure", a.Level.Pressure},
		namedArray{"level mixing ratios", a.Level.MixingRatios},
		namedArray{"level mmw", a.Level.MMW},
		namedArray{"level density", a.Level.Density},
		namedArray{"layer temperature", a.Layer.Temperature},
		namedArray{"layer pressure", a.Layer.Pressure},
		namedArray{"layer mixing ratios", a.Layer.MixingRatios},
		namedArray{"layer mmw", a.Layer.MMW},
		namedArray{"layer colden", a.Layer.Colden},
		namedArray{"cloud opd", a.Clouds.Opd},
		namedArray{"cloud w0", a.Clouds.W0},
		namedArray{"cloud g0", a.Clouds.G0},
	); err != nil {
		return nil, err
	}

	o := &Atmosphere1D{
		Constants:     c,
		Planet:        a.Planet,
		Molecules:     append([]string(nil), a.Molecules...),
		Weights:       make(map[string]float64, len(a.Weights)),
		LineMolecules: append([]string(nil), a.LineMolecules...),
		Continuum:     append([]ContinuumPair(nil), a.Continuum...),
		Wavenumber:    append([]float64(nil), a.Wavenumber...),
		Diagnostics:   a.Diagnostics,
		Level: Level1D{
			Temperature:  column(a.Level.Temperature, g, t),
			Pressure:     column(a.Level.Pressure, g, t),
			MixingRatios: matrix(a.Level.MixingRatios, g, t),
			MMW:          column(a.Level.MMW, g, t),
			Density:      column(a.Level.Density, g, t),
		},
		Layer: Layer1D{
			Temperature:  column(a.Layer.Temperature, g, t),
			Pressure:     column(a.Layer.Pressure, g, t),
			MixingRatios: matrix(a.Layer.MixingRatios, g, t),
			MMW:          column(a.Layer.MMW, g, t),
			Colden:       column(a.Layer.Colden, g, t),
		},
		Clouds: &Clouds1D{
			Opd: matrix(a.Clouds.Opd, g, t),
			W0:  matrix(a.Clouds.W0, g, t),
			G0:  matrix(a.Clouds.G0, g, t),
		},
	}
	for k, v := range a.Weights {
		o.Weights[k] = v
	}
	if a.Level.Electrons != nil {
		o.Level.Electrons = column(a.Level.Electrons, g, t)
	}
	if a.Layer.Electrons != nil {
		o.Layer.Electrons = column(a.Layer.Electrons, g, t)
	}
	return o, nil
}
