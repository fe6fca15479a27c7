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
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// testFacets returns a 2×2 facet profile with 3 levels where facet
// (g, t) is 100*(g+2t) K warmer than facet (0, 0).
func testFacets() *MemFacets {
	ds := &MemFacets{
		Columns:      []string{"pressure", "temperature", "H2", "He", "e-"},
		GangleLabels: []string{"0", "45"},
		TangleLabels: []string{"0", "90"},
	}
	for g := 0; g < 2; g++ {
		var row []*mat.Dense
		for t := 0; t < 2; t++ {
			dT := 100 * float64(g+2*t)
			row = append(row, mat.NewDense(3, 5, []float64{
				0.01, 500 + dT, 0.9, 0.1, 1e-9,
				0.1, 600 + dT, 0.85, 0.15, 2e-9,
				1, 700 + dT, 0.8, 0.2, 3e-9,
			}))
		}
		ds.Data = append(ds.Data, row)
	}
	return ds
}

func TestLoadProfile3D(t *testing.T) {
	c, err := NewConstants(DiscoConfig{NumGangle: 2, NumTangle: 2})
	if err != nil {
		t.Fatal(err)
	}
	p, c, err := LoadProfile3D(context.Background(), testFacets(), MoleculesConfig{}, PTConfig{}, c, nil, quietDiagnostics())
	if err != nil {
		t.Fatal(err)
	}
	if c.NLevel != 3 || c.NLayer != 2 {
		t.Errorf("nlevel=%d nlayer=%d", c.NLevel, c.NLayer)
	}
	if !reflect.DeepEqual(p.Molecules, []string{"H2", "He"}) {
		t.Errorf("molecules: %v", p.Molecules)
	}
	if s := p.Level.MixingRatios.Shape; !reflect.DeepEqual(s, []int{3, 2, 2, 2}) {
		t.Errorf("mixing ratio shape: %v", s)
	}
	if p.Level.Electrons == nil || p.Layer.Electrons == nil {
		t.Fatal("missing electrons")
	}
	for g := 0; g < 2; g++ {
		for tt := 0; tt < 2; tt++ {
			dT := 100 * float64(g+2*tt)
			if have := p.Level.Temperature.Get(2, g, tt); have != 700+dT {
				t.Errorf("temperature (%d, %d): %g", g, tt, have)
			}
			if have := p.Layer.Temperature.Get(0, g, tt); have != 550+dT {
				t.Errorf("layer temperature (%d, %d): %g", g, tt, have)
			}
			if have, want := p.Layer.Pressure.Get(1, g, tt), math.Sqrt(0.1e6*1e6); math.Abs(have-want)/want > 1e-12 {
				t.Errorf("layer pressure (%d, %d): have %g, want %g", g, tt, have, want)
			}
			if have := p.Level.MixingRatios.Get(1, 1, g, tt); have != 0.15 {
				t.Errorf("He (%d, %d): %g", g, tt, have)
			}
		}
	}
}

func TestLoadProfile3DShape(t *testing.T) {
	c, err := NewConstants(DiscoConfig{NumGangle: 2, NumTangle: 2})
	if err != nil {
		t.Fatal(err)
	}
	ds := testFacets()
	ds.Data[1][1] = mat.NewDense(2, 5, nil)
	_, _, err = LoadProfile3D(context.Background(), ds, MoleculesConfig{}, PTConfig{}, c, nil, nil)
	var se *ShapeError
	if !errors.As(err, &se) {
		t.Errorf("have %v, want ShapeError", err)
	}

	ds = testFacets()
	ds.Data[0][1].Set(2, 0, 0.05)
	_, _, err = LoadProfile3D(context.Background(), ds, MoleculesConfig{}, PTConfig{}, c, nil, nil)
	var pe *ConfigError
	if !errors.As(err, &pe) || pe.Field != pressureColumn {
		t.Errorf("decreasing pressure: have %v, want ConfigError", err)
	}

	c, err = NewConstants(DiscoConfig{NumGangle: 3, NumTangle: 2})
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = LoadProfile3D(context.Background(), testFacets(), MoleculesConfig{}, PTConfig{}, c, nil, nil)
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Errorf("too many gangles: have %v, want ConfigError", err)
	}
}

func TestNCFFacets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facets.ncf")
	w, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	want := testFacets()
	if err := WriteNCFFacets(w, want); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	ds, err := OpenNCFFacets(path)
	if err != nil {
		t.Fatal(err)
	}
	defer ds.Close()
	if !reflect.DeepEqual(ds.Header(), want.Columns) {
		t.Errorf("header: %v", ds.Header())
	}
	if !reflect.DeepEqual(ds.Gangles(), want.GangleLabels) || !reflect.DeepEqual(ds.Tangles(), want.TangleLabels) {
		t.Errorf("angles: %v %v", ds.Gangles(), ds.Tangles())
	}
	for g := 0; g < 2; g++ {
		for tt := 0; tt < 2; tt++ {
			have, err := ds.Facet(g, tt)
			if err != nil {
				t.Fatal(err)
			}
			if !mat.Equal(have, want.Data[g][tt]) {
				t.Errorf("facet (%d, %d): have %v, want %v", g, tt, mat.Formatted(have), mat.Formatted(want.Data[g][tt]))
			}
		}
	}
	if _, err := ds.Facet(2, 0); err == nil {
		t.Error("expected an error for a missing facet")
	}
}

func TestSetup3DDisaggregate(t *testing.T) {
	_, grid := writeCloudFiles(t, 2, []float64{1000, 2000}, 0)
	clouds := &MemFacets{
		Columns:      []string{"opd", "w0", "g0"},
		GangleLabels: []string{"0", "45"},
		TangleLabels: []string{"0", "90"},
	}
	for g := 0; g < 2; g++ {
		var row []*mat.Dense
		for tt := 0; tt < 2; tt++ {
			v := float64(g + 2*tt)
			row = append(row, mat.NewDense(4, 3, []float64{
				v, 0.5, 0.1,
				v, 0.5, 0.1,
				v + 1, 0.5, 0.1,
				v + 1, 0.5, 0.1,
			}))
		}
		clouds.Data = append(clouds.Data, row)
	}
	open := func(path string) (FacetDataset, error) {
		switch path {
		case "profile.ncf":
			return testFacets(), nil
		case "clouds.ncf":
			return clouds, nil
		}
		return nil, os.ErrNotExist
	}
	gravity := 2479.
	cfg := &Config{
		Disco: DiscoConfig{NumGangle: 2, NumTangle: 2},
		Atmosphere: AtmosphereConfig{
			Profile: ProfileConfig{Type: "user", Filepath: "profile.ncf", Dimension: "3d"},
			Clouds:  CloudConfig{Filepath: "clouds.ncf", Wavenumber: grid},
		},
		Planet: PlanetConfig{Gravity: &gravity, GravityUnit: "cm/s**2"},
	}
	wno := []float64{1200, 1800}
	a, err := Setup3D(context.Background(), cfg, wno, WithFacetOpener(open), WithLogger(quietDiagnostics().Log))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a.Continuum, []ContinuumPair{{"H2", "H2"}, {"H2", "He"}, {"H2", "H2-"}}) {
		t.Errorf("continuum: %v", a.Continuum)
	}

	col, err := a.Disaggregate(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !floats.Equal(col.Level.Temperature, []float64{800, 900, 1000}) {
		t.Errorf("temperature: %v", col.Level.Temperature)
	}
	wantColden := []float64{(0.1e6 - 0.01e6) / gravity, (1e6 - 0.1e6) / gravity}
	if !floats.EqualApprox(col.Layer.Colden, wantColden, 1e-9) {
		t.Errorf("colden: have %v, want %v", col.Layer.Colden, wantColden)
	}
	if r, c := col.Clouds.Opd.Dims(); r != 2 || c != 2 {
		t.Fatalf("cloud dims %d×%d", r, c)
	}
	if have := col.Clouds.Opd.At(1, 0); have != 4 {
		t.Errorf("opd: %g", have)
	}
	wantMMW := 0.8*col.Weights["H2"] + 0.2*col.Weights["He"]
	if math.Abs(col.Level.MMW[2]-wantMMW) > 1e-12 {
		t.Errorf("mmw: have %g, want %g", col.Level.MMW[2], wantMMW)
	}

	col.Level.Temperature[0] = -1
	if a.Level.Temperature.Get(0, 1, 1) != 800 {
		t.Error("disaggregated column shares storage with the atmosphere")
	}

	if _, err := a.Disaggregate(2, 0); err == nil {
		t.Error("expected an error for an out of range facet")
	}
	a.Clouds = nil
	if _, err := a.Disaggregate(0, 0); !errors.Is(err, ErrFieldMissing) {
		t.Errorf("no clouds: have %v, want ErrFieldMissing", err)
	}
}
