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
	"path/filepath"
	"runtime"

	"github.com/ctessum/requestcache"
	"github.com/spatialmodel/rtatm/wavelength"
	"gonum.org/v1/gonum/floats"
)

// Raman shifts can move photons by up to this far [cm⁻¹] above, and
// this far below, the output wavenumber grid.
const (
	ramanShiftUp   = 6000.
	ramanShiftDown = 2000.

	// stellarOversample is the fine stellar grid size relative to
	// the output grid.
	stellarOversample = 5
)

// StellarCatalog provides stellar model spectra.
type StellarCatalog interface {
	// Spectrum returns the spectrum of the model in the named
	// database closest to the given effective temperature [K],
	// metallicity [dex], and log gravity [cgs]. Wavelength [µm] is
	// ascending and flux is in FLAM units.
	Spectrum(ctx context.Context, database string, teff, metal, logg float64) (wavelengthMicrons, flux []float64, err error)
}

// DirCatalog is a StellarCatalog stored as tables in a directory.
// The model for (database, teff, metal, logg) is read from
// Dir/database/<teff>_<metal>_<logg>.txt (or .xlsx), with columns
// named wavelength and flux.
type DirCatalog struct {
	Dir string
}

// Spectrum implements StellarCatalog.
func (d DirCatalog) Spectrum(_ context.Context, database string, teff, metal, logg float64) ([]float64, []float64, error) {
	base := filepath.Join(d.Dir, database, fmt.Sprintf("%g_%g_%g", teff, metal, logg))
	t, err := ReadTableFile(base + ".txt")
	if err != nil {
		var err2 error
		if t, err2 = ReadTableFile(base + ".xlsx"); err2 != nil {
			return nil, nil, fmt.Errorf("rtatm: stellar model %s: %v", base, err)
		}
	}
	w, okw := t.Column("wavelength")
	f, okf := t.Column("flux")
	if !okw || !okf {
		return nil, nil, fmt.Errorf("rtatm: stellar model %s must have wavelength and flux columns", base)
	}
	return append([]float64(nil), w...), append([]float64(nil), f...), nil
}

type stellarRequest struct {
	database          string
	teff, metal, logg float64
}

type stellarResult struct {
	wave, flux []float64
}

type cachedCatalog struct {
	cache *requestcache.Cache
}

// CachedCatalog wraps c so that concurrent requests for the same
// model are combined and up to maxEntries results are kept in memory.
func CachedCatalog(c StellarCatalog, maxEntries int) StellarCatalog {
	return &cachedCatalog{
		cache: requestcache.NewCache(func(ctx context.Context, req interface{}) (interface{}, error) {
			r := req.(stellarRequest)
			w, f, err := c.Spectrum(ctx, r.database, r.teff, r.metal, r.logg)
			if err != nil {
				return nil, err
			}
			return &stellarResult{wave: w, flux: f}, nil
		}, runtime.GOMAXPROCS(-1), requestcache.Deduplicate(), requestcache.Memory(maxEntries)),
	}
}

func (c *cachedCatalog) Spectrum(ctx context.Context, database string, teff, metal, logg float64) ([]float64, []float64, error) {
	key := fmt.Sprintf("%s_%g_%g_%g", database, teff, metal, logg)
	res, err := c.cache.NewRequest(ctx, stellarRequest{database, teff, metal, logg}, key).Result()
	if err != nil {
		return nil, nil, err
	}
	r := res.(*stellarResult)
	return append([]float64(nil), r.wave...), append([]float64(nil), r.flux...), nil
}

// StellarSpectrum is a stellar spectrum in wavenumber space, at its
// native resolution and oversampled onto a uniform grid.
type StellarSpectrum struct {
	Wno, Flux         []float64 // native grid [cm⁻¹], ascending
	FineWno, FineFlux []float64 // uniform oversampled grid
}

// GetStellarSpectrum retrieves a stellar spectrum from cat, converts
// it to ascending wavenumber, and linearly interpolates it onto a
// uniform grid of 5×len(wno) points spanning
// [min(wno)-2000, max(wno)+6000] cm⁻¹.
func GetStellarSpectrum(ctx context.Context, wno []float64, cat StellarCatalog, database string, teff, metal, logg float64) (*StellarSpectrum, error) {
	if len(wno) == 0 {
		return nil, fmt.Errorf("rtatm: stellar spectrum: output wavenumber grid is empty")
	}
	wave, flux, err := cat.Spectrum(ctx, database, teff, metal, logg)
	if err != nil {
		return nil, fmt.Errorf("rtatm: stellar spectrum: %w", err)
	}
	if len(wave) != len(flux) || len(wave) < 2 {
		return nil, fmt.Errorf("rtatm: stellar spectrum: need at least 2 wavelength and flux pairs, got %d and %d", len(wave), len(flux))
	}
	n := len(wave)
	s := &StellarSpectrum{Wno: make([]float64, n), Flux: make([]float64, n)}
	for i := 0; i < n; i++ {
		w := wave[n-1-i]
		if !(w > 0) {
			return nil, fmt.Errorf("rtatm: stellar spectrum: invalid wavelength %g", w)
		}
		s.Wno[i] = 1e4 / w
		s.Flux[i] = flux[n-1-i]
	}
	s.FineWno = floats.Span(make([]float64, len(wno)*stellarOversample),
		floats.Min(wno)-ramanShiftDown, floats.Max(wno)+ramanShiftUp)
	x, y := collapseRepeats(s.Wno, s.Flux)
	if s.FineFlux, err = wavelength.Interpolate(s.FineWno, x, y); err != nil {
		return nil, fmt.Errorf("rtatm: stellar spectrum: %w", err)
	}
	return s, nil
}

// collapseRepeats returns (x, y) sorted by x with repeated x values
// reduced to their first point.
func collapseRepeats(x, y []float64) ([]float64, []float64) {
	idx := make([]int, len(x))
	xs := append([]float64(nil), x...)
	floats.Argsort(xs, idx)
	ox := make([]float64, 0, len(x))
	oy := make([]float64, 0, len(y))
	for i, k := range idx {
		if i > 0 && xs[i] == xs[i-1] {
			continue
		}
		ox = append(ox, xs[i])
		oy = append(oy, y[k])
	}
	return ox, oy
}
