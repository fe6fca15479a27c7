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
	"math"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/mat"
)

// arithmeticLayers returns the means of adjacent levels.
func arithmeticLayers(level []float64) []float64 {
	if len(level) < 2 {
		return nil
	}
	o := make([]float64, len(level)-1)
	for i := range o {
		o[i] = 0.5 * (level[i] + level[i+1])
	}
	return o
}

// geometricLayers returns the geometric means of adjacent levels.
func geometricLayers(level []float64) []float64 {
	if len(level) < 2 {
		return nil
	}
	o := make([]float64, len(level)-1)
	for i := range o {
		o[i] = math.Sqrt(level[i] * level[i+1])
	}
	return o
}

// arithmeticLayerRows returns the means of adjacent rows of m.
func arithmeticLayerRows(m *mat.Dense) *mat.Dense {
	r, c := m.Dims()
	o := mat.NewDense(r-1, c, nil)
	for i := 0; i < r-1; i++ {
		for j := 0; j < c; j++ {
			o.Set(i, j, 0.5*(m.At(i, j)+m.At(i+1, j)))
		}
	}
	return o
}

// layerStride returns the number of elements in one level of a,
// i.e. the product of all but its leading dimension.
func layerStride(a *sparse.DenseArray) int {
	n := 1
	for _, s := range a.Shape[1:] {
		n *= s
	}
	return n
}

// layersAlong0 applies f to each pair of adjacent entries along the
// leading dimension of a.
func layersAlong0(a *sparse.DenseArray, f func(lo, hi float64) float64) *sparse.DenseArray {
	shape := append([]int{a.Shape[0] - 1}, a.Shape[1:]...)
	o := sparse.ZerosDense(shape...)
	stride := layerStride(a)
	for i := range o.Elements {
		o.Elements[i] = f(a.Elements[i], a.Elements[i+stride])
	}
	return o
}

func arithmeticLayers3D(a *sparse.DenseArray) *sparse.DenseArray {
	return layersAlong0(a, func(lo, hi float64) float64 { return 0.5 * (lo + hi) })
}

func geometricLayers3D(a *sparse.DenseArray) *sparse.DenseArray {
	return layersAlong0(a, func(lo, hi float64) float64 { return math.Sqrt(lo * hi) })
}

// MeanMolecularWeight returns the mean molecular weight [g/mol] at
// each row of mixingRatios, whose columns are ordered as molecules.
func MeanMolecularWeight(mixingRatios mat.Matrix, molecules []string, weights map[string]float64) []float64 {
	w := make([]float64, len(molecules))
	for i, m := range molecules {
		w[i] = weights[m]
	}
	r, _ := mixingRatios.Dims()
	o := mat.NewVecDense(r, nil)
	o.MulVec(mixingRatios, mat.NewVecDense(len(w), w))
	return o.RawVector().Data
}

// meanMolecularWeight3D returns mmw [nlevel, ng, nt] from mixing
// ratios shaped [nlevel, nmol, ng, nt].
func meanMolecularWeight3D(mix *sparse.DenseArray, molecules []string, weights map[string]float64) *sparse.DenseArray {
	nlevel, nmol, ng, nt := mix.Shape[0], mix.Shape[1], mix.Shape[2], mix.Shape[3]
	o := sparse.ZerosDense(nlevel, ng, nt)
	for l := 0; l < nlevel; l++ {
		for m := 0; m < nmol; m++ {
			w := weights[molecules[m]]
			for g := 0; g < ng; g++ {
				for t := 0; t < nt; t++ {
					o.AddVal(mix.Get(l, m, g, t)*w, l, g, t)
				}
			}
		}
	}
	return o
}

// Density returns the number density [cm⁻³] P/(kT) from pressure
// [dyn/cm²] and temperature [K].
func Density(pressure, temperature []float64, kb float64) []float64 {
	o := make([]float64, len(pressure))
	for i := range o {
		o[i] = pressure[i] / (kb * temperature[i])
	}
	return o
}

func density3D(pressure, temperature *sparse.DenseArray, kb float64) *sparse.DenseArray {
	o := sparse.ZerosDense(pressure.Shape...)
	o.Elements = Density(pressure.Elements, temperature.Elements, kb)
	return o
}

// ColumnDensity returns the column mass [g/cm²] of each layer,
// (P[i+1]-P[i])/g, from level pressure [dyn/cm²] and gravity
// [cm/s²].
func ColumnDensity(levelPressure []float64, gravity float64) []float64 {
	if len(levelPressure) < 2 {
		return nil
	}
	o := make([]float64, len(levelPressure)-1)
	for i := range o {
		o[i] = (levelPressure[i+1] - levelPressure[i]) / gravity
	}
	return o
}

func columnDensity3D(levelPressure *sparse.DenseArray, gravity float64) *sparse.DenseArray {
	return layersAlong0(levelPressure, func(lo, hi float64) float64 { return (hi - lo) / gravity })
}
