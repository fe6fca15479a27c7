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

// Package wavelength handles wavenumber grids and the resampling of
// spectrally resolved quantities between them.
package wavelength

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/mat"
)

// Uniform returns n evenly spaced wavenumbers from min to max inclusive.
func Uniform(min, max float64, n int) ([]float64, error) {
	if n < 2 {
		return nil, fmt.Errorf("wavelength: uniform grid needs at least 2 points, got %d", n)
	}
	if !(max > min) {
		return nil, fmt.Errorf("wavelength: uniform grid max (%g) must exceed min (%g)", max, min)
	}
	return floats.Span(make([]float64, n), min, max), nil
}

// ReadGrid reads a wavenumber grid from r. The first numeric field of
// every line is taken as a grid point; lines that are blank, start
// with '#', or whose first field is not a number (such as a header)
// are skipped.
func ReadGrid(r io.Reader) ([]float64, error) {
	var grid []float64
	s := bufio.NewScanner(r)
	for s.Scan() {
		fields := strings.Fields(s.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		v, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			continue
		}
		grid = append(grid, v)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("wavelength: reading grid: %v", err)
	}
	if len(grid) == 0 {
		return nil, fmt.Errorf("wavelength: grid is empty")
	}
	return grid, nil
}

// ReadGridFile reads a wavenumber grid from the named file.
func ReadGridFile(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wavelength: %v", err)
	}
	defer f.Close()
	g, err := ReadGrid(f)
	if err != nil {
		return nil, fmt.Errorf("%v (%s)", err, path)
	}
	return g, nil
}

// Regrid linearly interpolates each row of values, which is sampled on
// grid in, onto grid out. Values beyond the ends of in take the value
// at the nearest end. in may be ascending or descending but must be
// strictly monotonic.
func Regrid(values mat.Matrix, in, out []float64) (*mat.Dense, error) {
	rows, cols := values.Dims()
	if cols != len(in) {
		return nil, fmt.Errorf("wavelength: regrid: values have %d columns but input grid has %d points", cols, len(in))
	}
	if len(in) < 2 {
		return nil, fmt.Errorf("wavelength: regrid: input grid needs at least 2 points, got %d", len(in))
	}
	idx := make([]int, len(in))
	xs := make([]float64, len(in))
	copy(xs, in)
	floats.Argsort(xs, idx)
	for j := 1; j < len(xs); j++ {
		if xs[j] == xs[j-1] {
			return nil, fmt.Errorf("wavelength: regrid: input grid has repeated point %g", xs[j])
		}
	}

	o := mat.NewDense(rows, len(out), nil)
	ys := make([]float64, len(in))
	var pl interp.PiecewiseLinear
	for i := 0; i < rows; i++ {
		for j, k := range idx {
			ys[j] = values.At(i, k)
		}
		if err := pl.Fit(xs, ys); err != nil {
			return nil, fmt.Errorf("wavelength: regrid row %d: %w", i, err)
		}
		for j, x := range out {
			o.Set(i, j, pl.Predict(x))
		}
	}
	return o, nil
}

// Interpolate linearly interpolates the function (x, y) at the points
// xi, clamping to the end values outside of x. x need not be sorted.
func Interpolate(xi, x, y []float64) ([]float64, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("wavelength: interpolate: len(x)=%d != len(y)=%d", len(x), len(y))
	}
	r, err := Regrid(mat.NewDense(1, len(y), append([]float64(nil), y...)), x, xi)
	if err != nil {
		return nil, err
	}
	return r.RawRowView(0), nil
}
