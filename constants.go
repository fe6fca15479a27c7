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

// Version is the version of this module.
const Version = "0.1.0"

// Physical constants in cgs units (CODATA 2018).
const (
	boltzmann   = 1.380649e-16      // [erg/K]
	gravConst   = 6.6743e-8         // [cm³ g⁻¹ s⁻²]
	atomicMass  = 1.66053906660e-24 // [g]
	gasConstant = 8.31446261815324  // [J mol⁻¹ K⁻¹]

	// barToCGS converts pressure from bar to dyn/cm².
	barToCGS = 1e6
)

// Constants holds physical constants and grid sizes for one model
// run. It is a value type: the With* methods return modified copies.
type Constants struct {
	KB    float64 // Boltzmann constant [erg/K]
	G     float64 // gravitational constant [cm³ g⁻¹ s⁻²]
	AMU   float64 // atomic mass unit [g]
	RGas  float64 // gas constant [J mol⁻¹ K⁻¹]
	PConv float64 // bar to dyn/cm²

	NGangle, NTangle int

	// NLevel and NLayer are zero until a profile is loaded, after
	// which NLayer == NLevel-1.
	NLevel, NLayer int

	InputNptsWave, OutputNptsWave int
}

// NewConstants returns the constants for the angle grid in cfg.
func NewConstants(cfg DiscoConfig) (Constants, error) {
	if cfg.NumGangle < 1 {
		return Constants{}, configErrorf("constants", "disco.num_gangle", "must be at least 1, got %d", cfg.NumGangle)
	}
	if cfg.NumTangle < 1 {
		return Constants{}, configErrorf("constants", "disco.num_tangle", "must be at least 1, got %d", cfg.NumTangle)
	}
	return Constants{
		KB:      boltzmann,
		G:       gravConst,
		AMU:     atomicMass,
		RGas:    gasConstant,
		PConv:   barToCGS,
		NGangle: cfg.NumGangle,
		NTangle: cfg.NumTangle,
	}, nil
}

// WithLevels returns a copy of c with nlevel levels and nlevel-1
// layers.
func (c Constants) WithLevels(nlevel int) Constants {
	c.NLevel = nlevel
	c.NLayer = nlevel - 1
	return c
}

// WithWaveNpts returns a copy of c with the given cloud input and
// output wavenumber grid sizes.
func (c Constants) WithWaveNpts(in, out int) Constants {
	c.InputNptsWave = in
	c.OutputNptsWave = out
	return c
}
