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

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/rtatm/wavelength"
)

// Option configures Setup1D and Setup3D.
type Option func(*setupOptions)

type setupOptions struct {
	masses     MassTable
	log        logrus.FieldLogger
	openFacets func(path string) (FacetDataset, error)
}

// WithMassTable sets the element mass table. The default is
// elements.Default().
func WithMassTable(m MassTable) Option { return func(o *setupOptions) { o.masses = m } }

// WithLogger sets the logger that diagnostics are written to.
func WithLogger(l logrus.FieldLogger) Option { return func(o *setupOptions) { o.log = l } }

// WithFacetOpener sets the function used to open three-dimensional
// profile and cloud datasets. The default opens netCDF files with
// OpenNCFFacets.
func WithFacetOpener(f func(path string) (FacetDataset, error)) Option {
	return func(o *setupOptions) { o.openFacets = f }
}

func newSetupOptions(opts []Option) *setupOptions {
	o := &setupOptions{
		log: logrus.StandardLogger(),
		openFacets: func(path string) (FacetDataset, error) {
			return OpenNCFFacets(path)
		},
	}
	for _, opt := range opts {
		opt(o)
	}
	o.masses = defaultMasses(o.masses)
	return o
}

// OutputGrid returns the output wavenumber grid [cm⁻¹] described by
// cfg: read from cfg.Filepath if set, otherwise uniform.
func OutputGrid(cfg WavenumberConfig) ([]float64, error) {
	if cfg.Filepath != "" {
		g, err := wavelength.ReadGridFile(cfg.Filepath)
		if err != nil {
			return nil, &ConfigError{Stage: "wavenumber", Field: "filepath", Err: err}
		}
		return g, nil
	}
	g, err := wavelength.Uniform(cfg.Min, cfg.Max, cfg.NPts)
	if err != nil {
		return nil, &ConfigError{Stage: "wavenumber", Field: "min/max/npts", Err: err}
	}
	return g, nil
}

func checkProfileType(p ProfileConfig) error {
	if p.Type != "user" {
		return configErrorf("profile", "type", "only user profiles are supported, got %q", p.Type)
	}
	switch p.Dimension {
	case "", "1d", "1D", "3d", "3D":
	default:
		return configErrorf("profile", "dimension", `must be "1d" or "3d", got %q`, p.Dimension)
	}
	return nil
}

// Setup1D builds a one-dimensional atmosphere from cfg on the output
// wavenumber grid wno. Stages run in order: constants, profile,
// gravity, mean molecular weight, density, column density, continuum,
// clouds.
func Setup1D(cfg *Config, wno []float64, opts ...Option) (*Atmosphere1D, error) {
	o := newSetupOptions(opts)
	d := NewDiagnostics(o.log)
	c, err := NewConstants(cfg.Disco)
	if err != nil {
		return nil, err
	}
	prof := cfg.Atmosphere.Profile
	if err := checkProfileType(prof); err != nil {
		return nil, err
	}
	if prof.Is3D() {
		return nil, configErrorf("profile", "dimension", "profile is three-dimensional; use Setup3D")
	}
	t := prof.Table
	if prof.Filepath != "" {
		if t, err = ReadTableFile(prof.Filepath); err != nil {
			return nil, &ConfigError{Stage: "profile", Field: "filepath", Err: err}
		}
	}
	if t == nil {
		return nil, configErrorf("profile", "filepath", "no profile file or table given")
	}

	p, c, err := LoadProfile1D(t, cfg.Atmosphere.Molecules, cfg.Atmosphere.PT, c, o.masses, d)
	if err != nil {
		return nil, err
	}
	o.log.WithFields(logrus.Fields{
		"nlevel":    c.NLevel,
		"molecules": p.Molecules,
	}).Info("loaded one-dimensional profile")

	planet, err := NewPlanet(cfg.Planet, c)
	if err != nil {
		return nil, err
	}

	a := &Atmosphere1D{
		Planet:      planet,
		Molecules:   p.Molecules,
		Weights:     p.Weights,
		Level:       p.Level,
		Layer:       p.Layer,
		Wavenumber:  wno,
		Diagnostics: d,
	}
	a.Level.MMW = MeanMolecularWeight(a.Level.MixingRatios, a.Molecules, a.Weights)
	a.Layer.MMW = arithmeticLayers(a.Level.MMW)
	a.Level.Density = Density(a.Level.Pressure, a.Level.Temperature, c.KB)
	a.Layer.Colden = ColumnDensity(a.Level.Pressure, planet.Gravity)
	a.Continuum, a.LineMolecules = SelectContinuum(a.Molecules, a.Level.Electrons != nil, d)

	if a.Clouds, a.Scattering, c, err = LoadClouds1D(cfg.Atmosphere.Clouds, cfg.Atmosphere.Scattering, c, wno); err != nil {
		return nil, err
	}
	a.Constants = c
	return a, nil
}

// Setup3D builds a three-dimensional atmosphere from cfg on the
// output wavenumber grid wno. The profile and clouds are read from
// facet datasets.
func Setup3D(ctx context.Context, cfg *Config, wno []float64, opts ...Option) (*Atmosphere3D, error) {
	o := newSetupOptions(opts)
	d := NewDiagnostics(o.log)
	c, err := NewConstants(cfg.Disco)
	if err != nil {
		return nil, err
	}
	prof := cfg.Atmosphere.Profile
	if err := checkProfileType(prof); err != nil {
		return nil, err
	}
	if prof.Filepath == "" {
		return nil, configErrorf("profile", "filepath", "three-dimensional profiles must be read from a file")
	}
	ds, err := o.openFacets(prof.Filepath)
	if err != nil {
		return nil, &ConfigError{Stage: "profile", Field: "filepath", Err: err}
	}
	p, c, err := LoadProfile3D(ctx, ds, cfg.Atmosphere.Molecules, cfg.Atmosphere.PT, c, o.masses, d)
	ds.Close()
	if err != nil {
		return nil, err
	}
	o.log.WithFields(logrus.Fields{
		"nlevel":    c.NLevel,
		"ngangle":   c.NGangle,
		"ntangle":   c.NTangle,
		"molecules": p.Molecules,
	}).Info("loaded three-dimensional profile")

	planet, err := NewPlanet(cfg.Planet, c)
	if err != nil {
		return nil, err
	}

	a := &Atmosphere3D{
		Planet:      planet,
		Molecules:   p.Molecules,
		Weights:     p.Weights,
		Level:       p.Level,
		Layer:       p.Layer,
		Wavenumber:  wno,
		Diagnostics: d,
	}
	a.Level.MMW = meanMolecularWeight3D(a.Level.MixingRatios, a.Molecules, a.Weights)
	a.Layer.MMW = arithmeticLayers3D(a.Level.MMW)
	a.Level.Density = density3D(a.Level.Pressure, a.Level.Temperature, c.KB)
	a.Layer.Colden = columnDensity3D(a.Level.Pressure, planet.Gravity)
	a.Continuum, a.LineMolecules = SelectContinuum(a.Molecules, a.Level.Electrons != nil, d)

	if a.Clouds, c, err = LoadClouds3D(ctx, cfg.Atmosphere.Clouds, c, wno, o.openFacets); err != nil {
		return nil, err
	}
	a.Constants = c
	return a, nil
}
