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
	"os"
	"strings"

	"github.com/ctessum/cdf"
	"gonum.org/v1/gonum/mat"
)

// FacetDataset is a three-dimensional input indexed by gangle and
// tangle. Each facet is a table whose columns are named by Header and
// whose rows are levels (profiles) or layer-wavenumber pairs (clouds).
type FacetDataset interface {
	// Header returns the column names shared by all facets.
	Header() []string

	// Gangles and Tangles return the angle labels.
	Gangles() []string
	Tangles() []string

	// Facet returns the table for gangle index g and tangle index t.
	// It must be safe for concurrent use.
	Facet(g, t int) (*mat.Dense, error)

	Close() error
}

// MemFacets is an in-memory FacetDataset.
type MemFacets struct {
	Columns      []string
	GangleLabels []string
	TangleLabels []string

	// Data is indexed [gangle][tangle].
	Data [][]*mat.Dense
}

func (m *MemFacets) Header() []string  { return m.Columns }
func (m *MemFacets) Gangles() []string { return m.GangleLabels }
func (m *MemFacets) Tangles() []string { return m.TangleLabels }
func (m *MemFacets) Close() error      { return nil }

func (m *MemFacets) Facet(g, t int) (*mat.Dense, error) {
	if g < 0 || g >= len(m.Data) || t < 0 || t >= len(m.Data[g]) {
		return nil, fmt.Errorf("rtatm: facet (%d, %d) out of range", g, t)
	}
	return m.Data[g][t], nil
}

// NCFFacets is a FacetDataset stored in a netCDF file. The global
// attributes "header", "gangles", and "tangles" hold comma-separated
// lists, and facet (g, t) is the two-dimensional variable named by
// facetVar.
type NCFFacets struct {
	f                        *os.File
	nc                       *cdf.File
	header, gangles, tangles []string
}

func facetVar(g, t int) string { return fmt.Sprintf("facet_%d_%d", g, t) }

func splitList(s string) []string {
	var o []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			o = append(o, v)
		}
	}
	return o
}

// OpenNCFFacets opens a netCDF facet dataset.
func OpenNCFFacets(path string) (*NCFFacets, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	nc, err := cdf.Open(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("rtatm: opening facet dataset %s: %v", path, err)
	}
	d := &NCFFacets{f: f, nc: nc}
	for _, a := range []struct {
		name string
		dst  *[]string
	}{{"header", &d.header}, {"gangles", &d.gangles}, {"tangles", &d.tangles}} {
		s, ok := nc.Header.GetAttribute("", a.name).(string)
		if !ok {
			f.Close()
			return nil, fmt.Errorf("rtatm: facet dataset %s is missing the %q attribute", path, a.name)
		}
		*a.dst = splitList(s)
	}
	return d, nil
}

func (d *NCFFacets) Header() []string  { return d.header }
func (d *NCFFacets) Gangles() []string { return d.gangles }
func (d *NCFFacets) Tangles() []string { return d.tangles }
func (d *NCFFacets) Close() error      { return d.f.Close() }

func (d *NCFFacets) Facet(g, t int) (*mat.Dense, error) {
	name := facetVar(g, t)
	dims := d.nc.Header.Lengths(name)
	if len(dims) != 2 {
		return nil, fmt.Errorf("rtatm: facet dataset has no two-dimensional variable %s", name)
	}
	data, err := readNCFVar(d.nc, name)
	if err != nil {
		return nil, fmt.Errorf("rtatm: reading facet %s: %v", name, err)
	}
	return mat.NewDense(dims[0], dims[1], data), nil
}

// readNCFVar reads a whole float variable as float64.
func readNCFVar(nc *cdf.File, v string) ([]float64, error) {
	r := nc.Reader(v, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return nil, err
	}
	switch b := buf.(type) {
	case []float64:
		return b, nil
	case []float32:
		o := make([]float64, len(b))
		for i, v := range b {
			o[i] = float64(v)
		}
		return o, nil
	default:
		return nil, fmt.Errorf("unsupported netCDF type %T", buf)
	}
}

// WriteNCFFacets writes ds to w in the layout read by OpenNCFFacets.
// All facets must have the same shape.
func WriteNCFFacets(w *os.File, ds FacetDataset) error {
	ng, nt := len(ds.Gangles()), len(ds.Tangles())
	if ng == 0 || nt == 0 {
		return fmt.Errorf("rtatm: writing facets: no gangles or tangles")
	}
	first, err := ds.Facet(0, 0)
	if err != nil {
		return err
	}
	nrow, ncol := first.Dims()
	if ncol != len(ds.Header()) {
		return fmt.Errorf("rtatm: writing facets: %d columns but header has %d", ncol, len(ds.Header()))
	}
	h := cdf.NewHeader([]string{"row", "column"}, []int{nrow, ncol})
	h.AddAttribute("", "comment", "atmosphere facet dataset")
	h.AddAttribute("", "header", strings.Join(ds.Header(), ","))
	h.AddAttribute("", "gangles", strings.Join(ds.Gangles(), ","))
	h.AddAttribute("", "tangles", strings.Join(ds.Tangles(), ","))
	for g := 0; g < ng; g++ {
		for t := 0; t < nt; t++ {
			h.AddVariable(facetVar(g, t), []string{"row", "column"}, []float64{0})
		}
	}
	h.Define()

	f, err := cdf.Create(w, h)
	if err != nil {
		return err
	}
	for g := 0; g < ng; g++ {
		for t := 0; t < nt; t++ {
			m, err := ds.Facet(g, t)
			if err != nil {
				return err
			}
			if r, c := m.Dims(); r != nrow || c != ncol {
				return fmt.Errorf("rtatm: writing facets: facet (%d, %d) is %d×%d but facet (0, 0) is %d×%d", g, t, r, c, nrow, ncol)
			}
			data := mat.DenseCopyOf(m).RawMatrix().Data
			if _, err := f.Writer(facetVar(g, t), []int{0, 0}, []int{nrow, ncol}).Write(data); err != nil {
				return fmt.Errorf("rtatm: writing facet (%d, %d): %v", g, t, err)
			}
		}
	}
	return cdf.UpdateNumRecs(w)
}
