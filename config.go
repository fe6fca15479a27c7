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
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the information needed to set up a model atmosphere.
// Optional numeric values are pointers, where nil means unset.
type Config struct {
	Disco      DiscoConfig      `toml:"disco"`
	Atmosphere AtmosphereConfig `toml:"atmosphere"`
	Planet     PlanetConfig     `toml:"planet"`
	Star       StarConfig       `toml:"star"`
	Wavenumber WavenumberConfig `toml:"wavenumber"`
	Output     OutputConfig     `toml:"output"`
}

// DiscoConfig holds the sizes of the disk-integration angle grid.
type DiscoConfig struct {
	NumGangle int `toml:"num_gangle"`
	NumTangle int `toml:"num_tangle"`
}

// AtmosphereConfig describes the atmospheric profile and its clouds.
type AtmosphereConfig struct {
	Profile    ProfileConfig    `toml:"profile"`
	Molecules  MoleculesConfig  `toml:"molecules"`
	PT         PTConfig         `toml:"PT"`
	Clouds     CloudConfig      `toml:"clouds"`
	Scattering ScatteringConfig `toml:"scattering"`
}

// ProfileConfig specifies the source of the temperature, pressure,
// and composition profile.
type ProfileConfig struct {
	// Type must be "user".
	Type string `toml:"type"`

	// Filepath is a whitespace-delimited text or .xlsx table for 1-D
	// runs, or a netCDF facet dataset for 3-D runs.
	Filepath string `toml:"filepath"`

	// Dimension is "1d" (the default) or "3d".
	Dimension string `toml:"dimension"`

	// Table is an in-memory profile used when Filepath is empty.
	Table *Table `toml:"-"`
}

// Is3D reports whether the profile is three-dimensional.
func (p ProfileConfig) Is3D() bool { return p.Dimension == "3d" || p.Dimension == "3D" }

// MoleculesConfig selects which profile columns are molecules. If
// Whichones is empty, every recognized column is used.
type MoleculesConfig struct {
	Whichones []string `toml:"whichones"`
}

// PTConfig holds the parameters of an analytic temperature-pressure
// profile.
type PTConfig struct {
	T      *float64 `toml:"T"`
	LogG1  *float64 `toml:"logg1"`
	LogKir *float64 `toml:"logKir"`
	LogPc  *float64 `toml:"logPc"`
}

func (p PTConfig) complete() bool {
	return p.T != nil && p.LogG1 != nil && p.LogKir != nil && p.LogPc != nil
}

// CloudConfig specifies cloud optical properties.
type CloudConfig struct {
	// Filepath is a whitespace-delimited table with columns opd, w0,
	// and g0 for 1-D runs, or a netCDF facet dataset for 3-D runs.
	Filepath string `toml:"filepath"`

	// Wavenumber is a file holding the wavenumber grid [cm⁻¹] that
	// the cloud file is sampled on.
	Wavenumber string `toml:"wavenumber"`
}

// ScatteringConfig holds flat scattering properties used when there
// is no cloud file.
type ScatteringConfig struct {
	G0 *float64 `toml:"g0"`
	W0 *float64 `toml:"w0"`
}

// PlanetConfig specifies the planet's gravity either directly or
// through its mass and radius. Units are strings such as "m/s**2",
// "M_jup", or "R_earth".
type PlanetConfig struct {
	Gravity     *float64 `toml:"gravity"`
	GravityUnit string   `toml:"gravity_unit"`
	Mass        *float64 `toml:"mass"`
	MassUnit    string   `toml:"mass_unit"`
	Radius      *float64 `toml:"radius"`
	RadiusUnit  string   `toml:"radius_unit"`
}

// StarConfig selects a stellar spectrum from a catalog.
type StarConfig struct {
	// Database is the catalog name, e.g. "ck04models".
	Database string `toml:"database"`
	// Dir is the root directory of a DirCatalog.
	Dir   string  `toml:"dir"`
	Temp  float64 `toml:"temp"`
	Metal float64 `toml:"metal"`
	LogG  float64 `toml:"logg"`
}

// WavenumberConfig specifies the output wavenumber grid, either from
// a file or as a uniform grid.
type WavenumberConfig struct {
	Filepath string  `toml:"filepath"`
	Min      float64 `toml:"min"`
	Max      float64 `toml:"max"`
	NPts     int     `toml:"npts"`
}

// OutputConfig specifies where results are written.
type OutputConfig struct {
	Filepath string `toml:"filepath"`

	// Variables maps output names to expressions of layer
	// variables, e.g. {"tau_ratio": "colden / mmw"}.
	Variables map[string]string `toml:"variables"`
}

// ReadConfig reads a TOML configuration from r. Environment variables
// in file paths are expanded.
func ReadConfig(r io.Reader) (*Config, error) {
	cfg := new(Config)
	if _, err := toml.DecodeReader(r, cfg); err != nil {
		return nil, fmt.Errorf("rtatm: problem reading configuration: %v", err)
	}
	cfg.ExpandEnv()
	return cfg, nil
}

// ReadConfigFile reads a TOML configuration file.
func ReadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rtatm: the configuration file you have specified, %v, does not "+
			"appear to exist. Please check the file name and location and try again", path)
	}
	defer f.Close()
	return ReadConfig(f)
}

// ExpandEnv expands environment variables in the file paths of cfg.
func (cfg *Config) ExpandEnv() {
	for _, p := range []*string{
		&cfg.Atmosphere.Profile.Filepath,
		&cfg.Atmosphere.Clouds.Filepath,
		&cfg.Atmosphere.Clouds.Wavenumber,
		&cfg.Star.Dir,
		&cfg.Wavenumber.Filepath,
		&cfg.Output.Filepath,
	} {
		*p = os.ExpandEnv(*p)
	}
}
