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
	"context"
	"fmt"
	"os"

	"github.com/ctessum/sparse"
	"github.com/spatialmodel/rtatm/wavelength"
	"gonum.org/v1/gonum/mat"
)

// Clouds1D holds cloud optical properties shaped
// [nlayer × nwavenumber].
type Clouds1D struct {
	Opd *mat.Dense // optical depth
	W0  *mat.Dense // single scattering albedo
	G0  *mat.Dense // asymmetry parameter
}

// Scattering1D holds total scattering properties set from flat
// values, shaped [nlayer × nwavenumber].
type Scattering1D struct {
	W0 *mat.Dense
	G0 *mat.Dense
}

// Clouds3D holds cloud optical properties shaped
// [nlayer, nwavenumber, ngangle, ntangle].
type Clouds3D struct {
	Opd *sparse.DenseArray
	W0  *sparse.DenseArray
	G0  *sparse.DenseArray
}

const (
	opdColumn = "opd"
	w0Column  = "w0"
	g0Column  = "g0"
)

// cloudInputGrid reads the wavenumber grid the cloud file is
// sampled on.
func cloudInputGrid(cld CloudConfig) ([]float64, error) {
	if cld.Wavenumber == "" {
		return nil, configErrorf("clouds", "wavenumber", "a cloud input wavenumber grid is required with a cloud file")
	}
	g, err := wavelength.ReadGridFile(cld.Wavenumber)
	if err != nil {
		return nil, &ConfigError{Stage: "clouds", Field: "wavenumber", Err: err}
	}
	return g, nil
}

// regridCloudColumn reshapes a flat column ordered layer-major,
// wavenumber-minor into [nlayer × nin] and regrids it onto wno.
func regridCloudColumn(name string, v []float64, nlayer int, in, wno []float64) (*mat.Dense, error) {
	if len(v) != nlayer*len(in) {
		return nil, &ShapeError{Stage: "clouds", Field: name, Want: nlayer * len(in), Got: len(v)}
	}
	r, err := wavelength.Regrid(mat.NewDense(nlayer, len(in), append([]float64(nil), v...)), in, wno)
	if err != nil {
		return nil, fmt.Errorf("rtatm: clouds: %s: %w", name, err)
	}
	return r, nil
}

func filled(r, c int, v float64) *mat.Dense {
	d := make([]float64, r*c)
	for i := range d {
		d[i] = v
	}
	return mat.NewDense(r, c, d)
}

// LoadClouds1D returns the cloud properties of a one-dimensional
// atmosphere on the output wavenumber grid wno. With a cloud file,
// its opd, w0, and g0 columns are regridded from the cloud input
// grid. Without one, clouds are zero; if a flat g0 is configured, a
// separate total scattering is also returned, filled with the flat
// w0 and g0.
func LoadClouds1D(cld CloudConfig, sc ScatteringConfig, c Constants, wno []float64) (*Clouds1D, *Scattering1D, Constants, error) {
	nlayer, nwno := c.NLayer, len(wno)
	if nlayer < 1 {
		return nil, nil, c, &ConfigError{Stage: "clouds", Field: "nlayer", Err: ErrFieldMissing}
	}
	if nwno == 0 {
		return nil, nil, c, configErrorf("clouds", "wavenumber", "output wavenumber grid is empty")
	}
	if cld.Filepath != "" {
		if _, err := os.Stat(cld.Filepath); err != nil {
			return nil, nil, c, configErrorf("clouds", "filepath", "cloud file does not exist: %v", err)
		}
		in, err := cloudInputGrid(cld)
		if err != nil {
			return nil, nil, c, err
		}
		c = c.WithWaveNpts(len(in), nwno)
		t, err := ReadTableFile(cld.Filepath)
		if err != nil {
			return nil, nil, c, &ConfigError{Stage: "clouds", Field: "filepath", Err: err}
		}
		if !t.Has(opdColumn, w0Column, g0Column) {
			return nil, nil, c, configErrorf("clouds", "filepath", "cloud file must have columns opd, w0, and g0; has %v", t.Columns)
		}
		cl := new(Clouds1D)
		for _, v := range []struct {
			name string
			dst  **mat.Dense
		}{{opdColumn, &cl.Opd}, {w0Column, &cl.W0}, {g0Column, &cl.G0}} {
			col, _ := t.Column(v.name)
			if *v.dst, err = regridCloudColumn(v.name, col, nlayer, in, wno); err != nil {
				return nil, nil, c, err
			}
		}
		return cl, nil, c, nil
	}

	c = c.WithWaveNpts(0, nwno)
	cl := &Clouds1D{
		Opd: mat.NewDense(nlayer, nwno, nil),
		W0:  mat.NewDense(nlayer, nwno, nil),
		G0:  mat.NewDense(nlayer, nwno, nil),
	}
	if sc.G0 == nil {
		return cl, nil, c, nil
	}
	if sc.W0 == nil {
		return nil, nil, c, configErrorf("clouds", "scattering.w0", "required when scattering.g0 is set")
	}
	return cl, &Scattering1D{W0: filled(nlayer, nwno, *sc.W0), G0: filled(nlayer, nwno, *sc.G0)}, c, nil
}

// LoadClouds3D returns the cloud properties of a three-dimensional
// atmosphere from the facet dataset at cld.Filepath, opened with
// open. Each facet is treated like a one-dimensional cloud file.
func LoadClouds3D(ctx context.Context, cld CloudConfig, c Constants, wno []float64, open func(path string) (FacetDataset, error)) (*Clouds3D, Constants, error) {
	if cld.Filepath == "" {
		return nil, c, configErrorf("clouds", "filepath", "cloud input not recognized: "+
			"three-dimensional atmospheres need a cloud file")
	}
	nlayer, nwno := c.NLayer, len(wno)
	if nlayer < 1 {
		return nil, c, &ConfigError{Stage: "clouds", Field: "nlayer", Err: ErrFieldMissing}
	}
	if nwno == 0 {
		return nil, c, configErrorf("clouds", "wavenumber", "output wavenumber grid is empty")
	}
	in, err := cloudInputGrid(cld)
	if err != nil {
		return nil, c, err
	}
	c = c.WithWaveNpts(len(in), nwno)
	ds, err := open(cld.Filepath)
	if err != nil {
		return nil, c, &ConfigError{Stage: "clouds", Field: "filepath", Err: err}
	}
	defer ds.Close()
	if err := checkAngles("clouds", ds, c); err != nil {
		return nil, c, err
	}
	col := make(map[string]int)
	for i, h := range ds.Header() {
		col[h] = i
	}
	for _, n := range []string{opdColumn, w0Column, g0Column} {
		if _, ok := col[n]; !ok {
			return nil, c, configErrorf("clouds", "filepath", "cloud dataset header must include opd, w0, and g0; has %v", ds.Header())
		}
	}

	ng, nt := c.NGangle, c.NTangle
	cl := &Clouds3D{
		Opd: sparse.ZerosDense(nlayer, nwno, ng, nt),
		W0:  sparse.ZerosDense(nlayer, nwno, ng, nt),
		G0:  sparse.ZerosDense(nlayer, nwno, ng, nt),
	}
	err = forEachFacet(ctx, c, func(_ context.Context, g, t int) error {
		f, err := ds.Facet(g, t)
		if err != nil {
			return err
		}
		if _, cols := f.Dims(); cols != len(ds.Header()) {
			return &ShapeError{Stage: "clouds", Field: "facet " + facetVar(g, t) + " columns", Want: len(ds.Header()), Got: cols}
		}
		for _, v := range []struct {
			name string
			dst  *sparse.DenseArray
		}{{opdColumn, cl.Opd}, {w0Column, cl.W0}, {g0Column, cl.G0}} {
			r, err := regridCloudColumn(v.name, mat.Col(nil, col[v.name], f), nlayer, in, wno)
			if err != nil {
				return err
			}
			for i := 0; i < nlayer; i++ {
				for j := 0; j < nwno; j++ {
					v.dst.Set(r.At(i, j), i, j, g, t)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, c, err
	}
	return cl, c, nil
}
