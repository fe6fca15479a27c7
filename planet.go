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
	"strings"

	"github.com/ctessum/unit"
)

// Planet holds the bulk planetary parameters used in the
// atmosphere setup.
type Planet struct {
	Gravity float64 // surface gravity [cm/s²]
}

var (
	accelUnits = map[string]*unit.Unit{
		"m/s**2":    unit.New(1, unit.MeterPerSecond2),
		"m/(s**2)":  unit.New(1, unit.MeterPerSecond2),
		"m/s2":      unit.New(1, unit.MeterPerSecond2),
		"cm/s**2":   unit.New(0.01, unit.MeterPerSecond2),
		"cm/(s**2)": unit.New(0.01, unit.MeterPerSecond2),
		"cm/s2":     unit.New(0.01, unit.MeterPerSecond2),
	}
	massUnits = map[string]*unit.Unit{
		"kg":      unit.New(1, unit.Kilogram),
		"g":       unit.New(1e-3, unit.Kilogram),
		"m_jup":   unit.New(1.8981245973360505e27, unit.Kilogram),
		"m_earth": unit.New(5.972167867791379e24, unit.Kilogram),
		"m_sun":   unit.New(1.988409870698051e30, unit.Kilogram),
	}
	lengthUnits = map[string]*unit.Unit{
		"m":       unit.New(1, unit.Meter),
		"cm":      unit.New(0.01, unit.Meter),
		"km":      unit.New(1000, unit.Meter),
		"r_jup":   unit.New(7.1492e7, unit.Meter),
		"r_earth": unit.New(6.3781e6, unit.Meter),
		"r_sun":   unit.New(6.957e8, unit.Meter),
	}
)

// quantity returns v in the named unit as an SI quantity.
func quantity(v float64, name string, units map[string]*unit.Unit, field string) (*unit.Unit, error) {
	u, ok := units[strings.ToLower(strings.Replace(name, " ", "", -1))]
	if !ok {
		return nil, configErrorf("planet", field, "unsupported unit %q", name)
	}
	return unit.Mul(unit.New(v, unit.Dimless), u), nil
}

// NewPlanet resolves the surface gravity from cfg, either directly or
// as G·M/R².
func NewPlanet(cfg PlanetConfig, c Constants) (Planet, error) {
	var g *unit.Unit
	switch {
	case cfg.Gravity != nil:
		var err error
		g, err = quantity(*cfg.Gravity, cfg.GravityUnit, accelUnits, "gravity_unit")
		if err != nil {
			return Planet{}, err
		}
	case cfg.Mass != nil && cfg.Radius != nil:
		m, err := quantity(*cfg.Mass, cfg.MassUnit, massUnits, "mass_unit")
		if err != nil {
			return Planet{}, err
		}
		r, err := quantity(*cfg.Radius, cfg.RadiusUnit, lengthUnits, "radius_unit")
		if err != nil {
			return Planet{}, err
		}
		// cgs to SI: cm³ g⁻¹ s⁻² × 1e-3 = m³ kg⁻¹ s⁻².
		bigG := unit.New(c.G*1e-3, unit.Dimensions{unit.LengthDim: 3, unit.MassDim: -1, unit.TimeDim: -2})
		g = unit.Div(unit.Mul(bigG, m), unit.Mul(r, r))
	default:
		return Planet{}, configErrorf("planet", "gravity", "need either gravity or mass and radius")
	}
	if err := g.Check(unit.MeterPerSecond2); err != nil {
		return Planet{}, &ConfigError{Stage: "planet", Field: "gravity", Err: err}
	}
	if !(g.Value() > 0) {
		return Planet{}, configErrorf("planet", "gravity", "must be positive, got %g m/s²", g.Value())
	}
	return Planet{Gravity: g.Value() * 100}, nil
}

func (p Planet) String() string { return fmt.Sprintf("gravity=%g cm/s²", p.Gravity) }
