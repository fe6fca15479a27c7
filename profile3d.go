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
	"runtime"

	"github.com/ctessum/sparse"
	"golang.org/x/sync/errgroup"
)

// Level3D holds level quantities over the angle grid. Scalars are
// shaped [nlevel, ngangle, ntangle] and mixing ratios
// [nlevel, nmolecule, ngangle, ntangle].
type Level3D struct {
	Temperature  *sparse.DenseArray
	Pressure     *sparse.DenseArray
	MixingRatios *sparse.DenseArray
	Electrons    *sparse.DenseArray // nil if not given
	MMW          *sparse.DenseArray
	Density      *sparse.DenseArray
}

// Layer3D holds layer quantities over the angle grid, shaped like
// Level3D with nlayer in place of nlevel.
type Layer3D struct {
	Temperature  *sparse.DenseArray
	Pressure     *sparse.DenseArray
	MixingRatios *sparse.DenseArray
	Electrons    *sparse.DenseArray
	MMW          *sparse.DenseArray
	Colden       *sparse.DenseArray
}

// Profile3D is a loaded three-dimensional profile.
type Profile3D struct {
	Molecules []string
	Weights   map[string]float64
	Level     Level3D
	Layer     Layer3D
}

// checkAngles ensures ds has at least as many angles as the model
// grid.
func checkAngles(stage string, ds FacetDataset, c Constants) error {
	if n := len(ds.Gangles()); n < c.NGangle {
		return configErrorf(stage, "disco.num_gangle", "%d gangles requested but dataset has %d", c.NGangle, n)
	}
	if n := len(ds.Tangles()); n < c.NTangle {
		return configErrorf(stage, "disco.num_tangle", "%d tangles requested but dataset has %d", c.NTangle, n)
	}
	return nil
}

// forEachFacet calls f once for every facet of the model grid, in
// parallel. Each call must only write the (g, t) slice of shared
// arrays.
func forEachFacet(ctx context.Context, c Constants, f func(ctx context.Context, g, t int) error) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(-1))
	for g := 0; g < c.NGangle; g++ {
		for t := 0; t < c.NTangle; t++ {
			eg.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				return f(ctx, g, t)
			})
		}
	}
	return eg.Wait()
}

// LoadProfile3D builds level and layer arrays from a facet dataset.
// The molecules are resolved once from the dataset header, and every
// facet must have one column per header entry and the same number of
// rows as facet (0, 0).
func LoadProfile3D(ctx context.Context, ds FacetDataset, mol MoleculesConfig, pt PTConfig, c Constants, masses MassTable, d *Diagnostics) (*Profile3D, Constants, error) {
	if err := checkAngles("profile", ds, c); err != nil {
		return nil, c, err
	}
	header := ds.Header()
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}
	_, hasT := col[temperatureColumn]
	_, hasP := col[pressureColumn]
	if err := checkPT(hasT && hasP, pt); err != nil {
		return nil, c, err
	}
	molecules, weights, electrons, err := resolveMolecules(header, mol.Whichones, defaultMasses(masses), d)
	if err != nil {
		return nil, c, err
	}
	if len(molecules) == 0 {
		return nil, c, configErrorf("profile", "molecules", "profile has no recognized molecules")
	}

	first, err := ds.Facet(0, 0)
	if err != nil {
		return nil, c, err
	}
	nlevel, _ := first.Dims()
	if nlevel < 2 {
		return nil, c, &ShapeError{Stage: "profile", Field: "levels", Want: 2, Got: nlevel}
	}
	c = c.WithLevels(nlevel)
	ng, nt, nmol := c.NGangle, c.NTangle, len(molecules)

	p := &Profile3D{Molecules: molecules, Weights: weights}
	p.Level.Temperature = sparse.ZerosDense(nlevel, ng, nt)
	p.Level.Pressure = sparse.ZerosDense(nlevel, ng, nt)
	p.Level.MixingRatios = sparse.ZerosDense(nlevel, nmol, ng, nt)
	if electrons {
		p.Level.Electrons = sparse.ZerosDense(nlevel, ng, nt)
	}

	err = forEachFacet(ctx, c, func(_ context.Context, g, t int) error {
		f, err := ds.Facet(g, t)
		if err != nil {
			return err
		}
		rows, cols := f.Dims()
		if cols != len(header) {
			return &ShapeError{Stage: "profile", Field: "facet " + facetVar(g, t) + " columns", Want: len(header), Got: cols}
		}
		if rows != nlevel {
			return &ShapeError{Stage: "profile", Field: "facet " + facetVar(g, t) + " levels", Want: nlevel, Got: rows}
		}
		pres := make([]float64, nlevel)
		for l := 0; l < nlevel; l++ {
			p.Level.Temperature.Set(f.At(l, col[temperatureColumn]), l, g, t)
			pres[l] = f.At(l, col[pressureColumn]) * c.PConv
			p.Level.Pressure.Set(pres[l], l, g, t)
			for m, name := range molecules {
				p.Level.MixingRatios.Set(f.At(l, col[name]), l, m, g, t)
			}
			if electrons {
				p.Level.Electrons.Set(f.At(l, col[electronColumn]), l, g, t)
			}
		}
		return checkPressure(pres)
	})
	if err != nil {
		return nil, c, err
	}

	p.Layer.Temperature = arithmeticLayers3D(p.Level.Temperature)
	p.Layer.Pressure = geometricLayers3D(p.Level.Pressure)
	p.Layer.MixingRatios = arithmeticLayers3D(p.Level.MixingRatios)
	if electrons {
		p.Layer.Electrons = arithmeticLayers3D(p.Level.Electrons)
	}
	return p, c, nil
}
