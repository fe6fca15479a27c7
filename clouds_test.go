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
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// writeCloudFiles writes a cloud table with nlayer×len(grid) rows
// and its wavenumber grid, returning their paths. opd at layer i and
// wavenumber w is i + w/1000.
func writeCloudFiles(t *testing.T, nlayer int, grid []float64, drop int) (string, string) {
	dir := t.TempDir()
	var tbl, g strings.Builder
	tbl.WriteString("opd w0 g0\n")
	n := 0
	for i := 0; i < nlayer; i++ {
		for _, w := range grid {
			if n++; n > nlayer*len(grid)-drop {
				break
			}
			fmt.Fprintf(&tbl, "%g %g %g\n", float64(i)+w/1000, 0.5, 0.1*float64(i))
		}
	}
	for _, w := range grid {
		fmt.Fprintf(&g, "%g\n", w)
	}
	cld := filepath.Join(dir, "clouds.txt")
	wno := filepath.Join(dir, "wave.txt")
	if err := os.WriteFile(cld, []byte(tbl.String()), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(wno, []byte(g.String()), 0644); err != nil {
		t.Fatal(err)
	}
	return cld, wno
}

func TestLoadClouds1DFile(t *testing.T) {
	c := testConstants(t).WithLevels(3)
	cld, grid := writeCloudFiles(t, 2, []float64{1000, 2000, 3000}, 0)
	wno := []float64{1500, 2500}
	cl, sc, c, err := LoadClouds1D(CloudConfig{Filepath: cld, Wavenumber: grid}, ScatteringConfig{}, c, wno)
	if err != nil {
		t.Fatal(err)
	}
	if sc != nil {
		t.Error("scattering should be nil")
	}
	if c.InputNptsWave != 3 || c.OutputNptsWave != 2 {
		t.Errorf("npts: in %d, out %d", c.InputNptsWave, c.OutputNptsWave)
	}
	for i := 0; i < 2; i++ {
		for j, w := range wno {
			if have, want := cl.Opd.At(i, j), float64(i)+w/1000; math.Abs(have-want) > 1e-12 {
				t.Errorf("opd (%d, %d): have %g, want %g", i, j, have, want)
			}
			if have, want := cl.G0.At(i, j), 0.1*float64(i); math.Abs(have-want) > 1e-12 {
				t.Errorf("g0 (%d, %d): have %g, want %g", i, j, have, want)
			}
		}
	}
}

func TestLoadClouds1DShape(t *testing.T) {
	grid := make([]float64, 50)
	for i := range grid {
		grid[i] = float64(i+1) * 100
	}
	cld, g := writeCloudFiles(t, 10, grid, 1)
	_, _, _, err := LoadClouds1D(CloudConfig{Filepath: cld, Wavenumber: g}, ScatteringConfig{},
		testConstants(t).WithLevels(11), []float64{500, 1000})
	var se *ShapeError
	if !errors.As(err, &se) {
		t.Fatalf("have %v, want ShapeError", err)
	}
	if se.Want != 500 || se.Got != 499 {
		t.Errorf("want %d, got %d", se.Want, se.Got)
	}
}

func TestLoadClouds1DMissingFile(t *testing.T) {
	_, _, _, err := LoadClouds1D(CloudConfig{Filepath: filepath.Join(t.TempDir(), "none.txt")}, ScatteringConfig{},
		testConstants(t).WithLevels(3), []float64{1})
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Errorf("have %v, want ConfigError", err)
	}
}

func TestLoadClouds1DZeros(t *testing.T) {
	cl, sc, _, err := LoadClouds1D(CloudConfig{}, ScatteringConfig{}, testConstants(t).WithLevels(4), []float64{1, 2})
	if err != nil {
		t.Fatal(err)
	}
	if sc != nil {
		t.Error("scattering should be nil")
	}
	for _, m := range []*mat.Dense{cl.Opd, cl.W0, cl.G0} {
		if r, c := m.Dims(); r != 3 || c != 2 {
			t.Errorf("dims %d×%d", r, c)
		}
		if mat.Sum(m) != 0 {
			t.Error("clouds should be zero")
		}
	}
}

func TestLoadClouds1DScattering(t *testing.T) {
	w0, g0 := 0.9, 0.3
	cl, sc, _, err := LoadClouds1D(CloudConfig{}, ScatteringConfig{W0: &w0, G0: &g0}, testConstants(t).WithLevels(4), []float64{1, 2})
	if err != nil {
		t.Fatal(err)
	}
	if mat.Sum(cl.Opd) != 0 {
		t.Error("clouds should be zero")
	}
	if sc == nil {
		t.Fatal("scattering is nil")
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			if sc.W0.At(i, j) != w0 || sc.G0.At(i, j) != g0 {
				t.Errorf("(%d, %d): w0 %g g0 %g", i, j, sc.W0.At(i, j), sc.G0.At(i, j))
			}
		}
	}

	_, _, _, err = LoadClouds1D(CloudConfig{}, ScatteringConfig{G0: &g0}, testConstants(t).WithLevels(4), []float64{1, 2})
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Errorf("g0 without w0: have %v", err)
	}
}

func TestLoadClouds3D(t *testing.T) {
	c, err := NewConstants(DiscoConfig{NumGangle: 2, NumTangle: 1})
	if err != nil {
		t.Fatal(err)
	}
	c = c.WithLevels(3)
	_, grid := writeCloudFiles(t, 2, []float64{1000, 2000}, 0)
	ds := &MemFacets{
		Columns:      []string{"g0", "w0", "opd"},
		GangleLabels: []string{"0", "1"},
		TangleLabels: []string{"0"},
	}
	for g := 0; g < 2; g++ {
		// rows: (layer 0, 1000), (layer 0, 2000), (layer 1, 1000), (layer 1, 2000)
		f := mat.NewDense(4, 3, []float64{
			0, 1, float64(g),
			0, 1, float64(g) + 2,
			0, 1, float64(g) + 10,
			0, 1, float64(g) + 12,
		})
		ds.Data = append(ds.Data, []*mat.Dense{f})
	}
	open := func(string) (FacetDataset, error) { return ds, nil }
	cl, _, err := LoadClouds3D(context.Background(), CloudConfig{Filepath: "clouds.ncf", Wavenumber: grid}, c, []float64{1500}, open)
	if err != nil {
		t.Fatal(err)
	}
	if s := cl.Opd.Shape; len(s) != 4 || s[0] != 2 || s[1] != 1 || s[2] != 2 || s[3] != 1 {
		t.Fatalf("shape %v", s)
	}
	for g := 0; g < 2; g++ {
		for i := 0; i < 2; i++ {
			if have, want := cl.Opd.Get(i, 0, g, 0), float64(g)+10*float64(i)+1; math.Abs(have-want) > 1e-12 {
				t.Errorf("opd (%d, %d): have %g, want %g", i, g, have, want)
			}
			if cl.W0.Get(i, 0, g, 0) != 1 {
				t.Errorf("w0 (%d, %d): %g", i, g, cl.W0.Get(i, 0, g, 0))
			}
		}
	}

	ds.Data[1][0] = mat.NewDense(3, 3, nil)
	_, _, err = LoadClouds3D(context.Background(), CloudConfig{Filepath: "clouds.ncf", Wavenumber: grid}, c, []float64{1500}, open)
	var se *ShapeError
	if !errors.As(err, &se) {
		t.Errorf("short facet: have %v, want ShapeError", err)
	}

	_, _, err = LoadClouds3D(context.Background(), CloudConfig{}, c, []float64{1500}, open)
	var ce *ConfigError
	if !errors.As(err, &ce) || !strings.Contains(err.Error(), "not recognized") {
		t.Errorf("no file: have %v", err)
	}
}
