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

// ContinuumPair is a pair of species, or a species and a process
// such as "bf" (bound-free) or "ff" (free-free), that contributes
// continuum opacity.
type ContinuumPair [2]string

func (p ContinuumPair) String() string { return p[0] + "-" + p[1] }

// continuumOnly are handled only through continuum pairs and never
// through line opacity.
var continuumOnly = map[string]bool{
	"H": true, "H2-": true, "H2": true, "H-": true, "He": true, "N2": true, "H+": true,
}

// SelectContinuum returns the continuum pairs that are active for the
// given molecules and electron presence, and the molecules that
// remain for line opacity, in their original order.
func SelectContinuum(molecules []string, electrons bool, d *Diagnostics) (pairs []ContinuumPair, line []string) {
	has := make(map[string]bool, len(molecules))
	for _, m := range molecules {
		has[m] = true
	}
	if has["H2"] {
		pairs = append(pairs, ContinuumPair{"H2", "H2"})
		for _, p := range []string{"He", "N2", "H", "CH4"} {
			if has[p] {
				pairs = append(pairs, ContinuumPair{"H2", p})
			}
		}
	}
	if has["H-"] {
		pairs = append(pairs, ContinuumPair{"H-", "bf"})
	}
	if has["H"] && electrons {
		pairs = append(pairs, ContinuumPair{"H-", "ff"})
	}
	if has["H2"] && electrons {
		pairs = append(pairs, ContinuumPair{"H2", "H2-"})
	}
	if has["H+"] {
		d.Warnf("continuum", "no continuum opacity is available for H+")
	}
	for _, m := range molecules {
		if !continuumOnly[m] {
			line = append(line, m)
		}
	}
	return pairs, line
}
