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

package rtatmutil

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/rtatm"
	"github.com/tealeg/xlsx"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// stellarCacheSize is the number of stellar models kept in memory.
const stellarCacheSize = 8

// Build sets up the atmosphere described by cfg. One-dimensional
// atmospheres, and single facets of three-dimensional ones, are
// returned as the first value; otherwise the second value holds the
// full three-dimensional atmosphere.
func Build(ctx context.Context, cfg *rtatm.Config, facet *Facet, log logrus.FieldLogger) (*rtatm.Atmosphere1D, *rtatm.Atmosphere3D, error) {
	wno, err := rtatm.OutputGrid(cfg.Wavenumber)
	if err != nil {
		return nil, nil, err
	}
	if !cfg.Atmosphere.Profile.Is3D() {
		if facet != nil {
			return nil, nil, fmt.Errorf("rtatm: facet given for a one-dimensional atmosphere")
		}
		a, err := rtatm.Setup1D(cfg, wno, rtatm.WithLogger(log))
		return a, nil, err
	}
	a, err := rtatm.Setup3D(ctx, cfg, wno, rtatm.WithLogger(log))
	if err != nil {
		return nil, nil, err
	}
	if facet == nil {
		return nil, a, nil
	}
	col, err := a.Disaggregate(facet.G, facet.T)
	if err != nil {
		return nil, nil, err
	}
	log.WithFields(logrus.Fields{"gangle": facet.G, "tangle": facet.T}).Info("selected facet")
	return col, nil, nil
}

// Setup builds the atmosphere described by cfg and writes it to
// cfg.Output.Filepath. If a stellar database is configured, the
// stellar spectrum is written alongside it.
func Setup(ctx context.Context, cfg *rtatm.Config, facet *Facet, log logrus.FieldLogger) error {
	outputFile, err := checkOutputFile(cfg.Output.Filepath)
	if err != nil {
		return err
	}
	o, err := rtatm.NewOutputter(outputFile, cfg.Output.Variables, nil)
	if err != nil {
		return err
	}
	a1, a3, err := Build(ctx, cfg, facet, log)
	if err != nil {
		return err
	}
	var wno []float64
	if a1 != nil {
		err = o.Write1D(a1)
		wno = a1.Wavenumber
	} else {
		err = o.Write3D(a3)
		wno = a3.Wavenumber
	}
	if err != nil {
		return err
	}
	log.WithField("file", outputFile).Info("wrote atmosphere")

	if cfg.Star.Database == "" {
		return nil
	}
	cat := rtatm.CachedCatalog(rtatm.DirCatalog{Dir: cfg.Star.Dir}, stellarCacheSize)
	s, err := rtatm.GetStellarSpectrum(ctx, wno, cat, cfg.Star.Database, cfg.Star.Temp, cfg.Star.Metal, cfg.Star.LogG)
	if err != nil {
		return err
	}
	f := starFile(outputFile)
	if err := writeStellarExcel(f, s); err != nil {
		return err
	}
	log.WithField("file", f).Info("wrote stellar spectrum")
	return nil
}

// writeStellarExcel writes the native and oversampled stellar
// spectra to separate sheets of an Excel file.
func writeStellarExcel(path string, s *rtatm.StellarSpectrum) error {
	f := xlsx.NewFile()
	for _, sh := range []struct {
		name      string
		wno, flux []float64
	}{
		{"native", s.Wno, s.Flux},
		{"oversampled", s.FineWno, s.FineFlux},
	} {
		sheet, err := f.AddSheet(sh.name)
		if err != nil {
			return fmt.Errorf("rtatm: writing stellar spectrum: %v", err)
		}
		header := sheet.AddRow()
		header.AddCell().SetString("wavenumber")
		header.AddCell().SetString("flux")
		for i, w := range sh.wno {
			row := sheet.AddRow()
			row.AddCell().SetFloat(w)
			row.AddCell().SetFloat(sh.flux[i])
		}
	}
	if err := f.Save(path); err != nil {
		return fmt.Errorf("rtatm: writing stellar spectrum: %v", err)
	}
	return nil
}

// PlotProfile plots the level temperature of a against pressure,
// with pressure in bar increasing downward on a log scale, and saves
// it to filename.
func PlotProfile(a *rtatm.Atmosphere1D, filename string) error {
	p := plot.New()
	p.Title.Text = "Temperature-pressure profile"
	p.X.Label.Text = "Temperature (K)"
	p.Y.Label.Text = "Pressure (bar)"
	p.Y.Scale = plot.InvertedScale{Normalizer: plot.LogScale{}}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}

	pts := make(plotter.XYs, len(a.Level.Pressure))
	for i, pres := range a.Level.Pressure {
		pts[i] = plotter.XY{X: a.Level.Temperature[i], Y: pres / a.Constants.PConv}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("rtatm: plotting profile: %v", err)
	}
	line.Width = vg.Points(1)
	p.Add(line)
	if err := p.Save(4*vg.Inch, 6*vg.Inch, filename); err != nil {
		return fmt.Errorf("rtatm: saving plot: %v", err)
	}
	return nil
}
