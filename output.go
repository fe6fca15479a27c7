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
	"math"
	"os"
	"sort"
	"strings"

	"github.com/Knetic/govaluate"
	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/mat"
)

// Outputter writes atmospheres to netCDF files, optionally with
// additional layer variables computed from expressions.
//
// Expressions may use the layer variables temperature, pressure, mmw,
// colden, and electrons (if present), plus the mixing ratio of each
// molecule by name. Names that are not valid identifiers are escaped
// with brackets, e.g. "[H-]*2".
type Outputter struct {
	fileName    string
	expressions map[string]*govaluate.EvaluableExpression
	functions   map[string]govaluate.ExpressionFunction
}

// NewOutputter creates an Outputter that writes to fileName. Default
// expression functions are exp(x), log10(x), and sqrt(x); functions
// adds to or replaces them.
func NewOutputter(fileName string, variables map[string]string, functions map[string]govaluate.ExpressionFunction) (*Outputter, error) {
	if fileName == "" {
		return nil, configErrorf("output", "filepath", "an output file is required")
	}
	unary := func(name string, f func(float64) float64) govaluate.ExpressionFunction {
		return func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 1 {
				return nil, fmt.Errorf("rtatm: got %d arguments for function '%s', but needs 1", len(arg), name)
			}
			v, ok := arg[0].(float64)
			if !ok {
				return nil, fmt.Errorf("rtatm: argument to '%s' must be a number", name)
			}
			return f(v), nil
		}
	}
	o := &Outputter{
		fileName: fileName,
		functions: map[string]govaluate.ExpressionFunction{
			"exp":   unary("exp", math.Exp),
			"log10": unary("log10", math.Log10),
			"sqrt":  unary("sqrt", math.Sqrt),
		},
		expressions: make(map[string]*govaluate.EvaluableExpression, len(variables)),
	}
	for k, v := range functions {
		o.functions[k] = v
	}
	for name, expr := range variables {
		expr = strings.Replace(strings.Replace(expr, "\r\n", " ", -1), "\n", " ", -1)
		e, err := govaluate.NewEvaluableExpressionWithFunctions(expr, o.functions)
		if err != nil {
			return nil, configErrorf("output", "variables."+name, "%v", err)
		}
		o.expressions[name] = e
	}
	return o, nil
}

// outputVar is one netCDF variable.
type outputVar struct {
	dims        []string
	description string
	units       string
	data        []float64
}

func vecVar(dim, desc, units string, v []float64) outputVar {
	return outputVar{dims: []string{dim}, description: desc, units: units, data: v}
}

func denseVar(dims []string, desc, units string, m *mat.Dense) outputVar {
	return outputVar{dims: dims, description: desc, units: units, data: mat.DenseCopyOf(m).RawMatrix().Data}
}

func arrayVar(dims []string, desc, units string, a *sparse.DenseArray) outputVar {
	return outputVar{dims: dims, description: desc, units: units, data: a.Elements}
}

// evaluate computes each expression at n layer grid points.
// get(name, i) returns element i of the named layer variable.
func (o *Outputter) evaluate(n int, names []string, get func(name string, i int) float64) (map[string][]float64, error) {
	out := make(map[string][]float64, len(o.expressions))
	params := make(map[string]interface{}, len(names))
	for name, e := range o.expressions {
		v := make([]float64, n)
		for i := 0; i < n; i++ {
			for _, p := range names {
				params[p] = get(p, i)
			}
			r, err := e.Evaluate(params)
			if err != nil {
				return nil, fmt.Errorf("rtatm: output variable %s: %v", name, err)
			}
			f, ok := r.(float64)
			if !ok {
				return nil, fmt.Errorf("rtatm: output variable %s: expression result %v is not a number", name, r)
			}
			v[i] = f
		}
		out[name] = v
	}
	return out, nil
}

// Write1D writes a to the output file.
func (o *Outputter) Write1D(a *Atmosphere1D) error {
	c := a.Constants
	vars := map[string]outputVar{
		"wavenumber":          vecVar("wavenumber", "Output wavenumber grid", "cm-1", a.Wavenumber),
		"level_temperature":   vecVar("level", "Temperature at level edges", "K", a.Level.Temperature),
		"level_pressure":      vecVar("level", "Pressure at level edges", "dyn cm-2", a.Level.Pressure),
		"level_mmw":           vecVar("level", "Mean molecular weight at level edges", "g mol-1", a.Level.MMW),
		"level_density":       vecVar("level", "Number density at level edges", "cm-3", a.Level.Density),
		"level_mixingratios":  denseVar([]string{"level", "molecule"}, "Mixing ratios at level edges", "mol mol-1", a.Level.MixingRatios),
		"layer_temperature":   vecVar("layer", "Layer temperature", "K", a.Layer.Temperature),
		"layer_pressure":      vecVar("layer", "Layer pressure", "dyn cm-2", a.Layer.Pressure),
		"layer_mmw":           vecVar("layer", "Layer mean molecular weight", "g mol-1", a.Layer.MMW),
		"layer_colden":        vecVar("layer", "Layer column mass", "g cm-2", a.Layer.Colden),
		"layer_mixingratios":  denseVar([]string{"layer", "molecule"}, "Layer mixing ratios", "mol mol-1", a.Layer.MixingRatios),
		"surface_reflectance": vecVar("wavenumber", "Surface reflectivity", "", SurfaceReflectivity(len(a.Wavenumber))),
	}
	if a.Level.Electrons != nil {
		vars["level_electrons"] = vecVar("level", "Electron fraction at level edges", "mol mol-1", a.Level.Electrons)
		vars["layer_electrons"] = vecVar("layer", "Layer electron fraction", "mol mol-1", a.Layer.Electrons)
	}
	if a.Clouds != nil {
		lw := []string{"layer", "wavenumber"}
		vars["cloud_opd"] = denseVar(lw, "Cloud optical depth", "", a.Clouds.Opd)
		vars["cloud_w0"] = denseVar(lw, "Cloud single scattering albedo", "", a.Clouds.W0)
		vars["cloud_g0"] = denseVar(lw, "Cloud asymmetry parameter", "", a.Clouds.G0)
	}
	if a.Scattering != nil {
		lw := []string{"layer", "wavenumber"}
		vars["scattering_w0"] = denseVar(lw, "Total single scattering albedo", "", a.Scattering.W0)
		vars["scattering_g0"] = denseVar(lw, "Total asymmetry parameter", "", a.Scattering.G0)
	}

	layer := map[string][]float64{
		"temperature": a.Layer.Temperature,
		"pressure":    a.Layer.Pressure,
		"mmw":         a.Layer.MMW,
		"colden":      a.Layer.Colden,
	}
	if a.Layer.Electrons != nil {
		layer["electrons"] = a.Layer.Electrons
	}
	for j, m := range a.Molecules {
		layer[m] = mat.Col(nil, j, a.Layer.MixingRatios)
	}
	derived, err := o.evaluate(c.NLayer, sortedKeys(layer), func(name string, i int) float64 { return layer[name][i] })
	if err != nil {
		return err
	}
	if err := o.addDerived(vars, derived, []string{"layer"}); err != nil {
		return err
	}

	return o.write(a.Molecules, a.Continuum, []string{"level", "layer", "molecule", "wavenumber"},
		[]int{c.NLevel, c.NLayer, len(a.Molecules), len(a.Wavenumber)}, vars)
}

// Write3D writes a to the output file.
func (o *Outputter) Write3D(a *Atmosphere3D) error {
	c := a.Constants
	lgt := []string{"level", "gangle", "tangle"}
	ygt := []string{"layer", "gangle", "tangle"}
	vars := map[string]outputVar{
		"wavenumber":          vecVar("wavenumber", "Output wavenumber grid", "cm-1", a.Wavenumber),
		"level_temperature":   arrayVar(lgt, "Temperature at level edges", "K", a.Level.Temperature),
		"level_pressure":      arrayVar(lgt, "Pressure at level edges", "dyn cm-2", a.Level.Pressure),
		"level_mmw":           arrayVar(lgt, "Mean molecular weight at level edges", "g mol-1", a.Level.MMW),
		"level_density":       arrayVar(lgt, "Number density at level edges", "cm-3", a.Level.Density),
		"level_mixingratios":  arrayVar([]string{"level", "molecule", "gangle", "tangle"}, "Mixing ratios at level edges", "mol mol-1", a.Level.MixingRatios),
		"layer_temperature":   arrayVar(ygt, "Layer temperature", "K", a.Layer.Temperature),
		"layer_pressure":      arrayVar(ygt, "Layer pressure", "dyn cm-2", a.Layer.Pressure),
		"layer_mmw":           arrayVar(ygt, "Layer mean molecular weight", "g mol-1", a.Layer.MMW),
		"layer_colden":        arrayVar(ygt, "Layer column mass", "g cm-2", a.Layer.Colden),
		"layer_mixingratios":  arrayVar([]string{"layer", "molecule", "gangle", "tangle"}, "Layer mixing ratios", "mol mol-1", a.Layer.MixingRatios),
		"surface_reflectance": vecVar("wavenumber", "Surface reflectivity", "", SurfaceReflectivity(len(a.Wavenumber))),
	}
	if a.Level.Electrons != nil {
		vars["level_electrons"] = arrayVar(lgt, "Electron fraction at level edges", "mol mol-1", a.Level.Electrons)
		vars["layer_electrons"] = arrayVar(ygt, "Layer electron fraction", "mol mol-1", a.Layer.Electrons)
	}
	if a.Clouds != nil {
		lw := []string{"layer", "wavenumber", "gangle", "tangle"}
		vars["cloud_opd"] = arrayVar(lw, "Cloud optical depth", "", a.Clouds.Opd)
		vars["cloud_w0"] = arrayVar(lw, "Cloud single scattering albedo", "", a.Clouds.W0)
		vars["cloud_g0"] = arrayVar(lw, "Cloud asymmetry parameter", "", a.Clouds.G0)
	}

	// Scalar layer arrays share the [layer, gangle, tangle] flat
	// index; mixing ratios are indexed [layer, molecule, gangle, tangle].
	layer := map[string]*sparse.DenseArray{
		"temperature": a.Layer.Temperature,
		"pressure":    a.Layer.Pressure,
		"mmw":         a.Layer.MMW,
		"colden":      a.Layer.Colden,
	}
	if a.Layer.Electrons != nil {
		layer["electrons"] = a.Layer.Electrons
	}
	molIndex := make(map[string]int, len(a.Molecules))
	names := make([]string, 0, len(layer)+len(a.Molecules))
	for n := range layer {
		names = append(names, n)
	}
	for j, m := range a.Molecules {
		if _, ok := layer[m]; !ok {
			molIndex[m] = j
			names = append(names, m)
		}
	}
	ng, nt := c.NGangle, c.NTangle
	derived, err := o.evaluate(c.NLayer*ng*nt, names, func(name string, i int) float64 {
		if v, ok := layer[name]; ok {
			return v.Elements[i]
		}
		l, rem := i/(ng*nt), i%(ng*nt)
		return a.Layer.MixingRatios.Get(l, molIndex[name], rem/nt, rem%nt)
	})
	if err != nil {
		return err
	}
	if err := o.addDerived(vars, derived, ygt); err != nil {
		return err
	}

	return o.write(a.Molecules, a.Continuum, []string{"level", "layer", "molecule", "wavenumber", "gangle", "tangle"},
		[]int{c.NLevel, c.NLayer, len(a.Molecules), len(a.Wavenumber), ng, nt}, vars)
}

func (o *Outputter) addDerived(vars map[string]outputVar, derived map[string][]float64, dims []string) error {
	for name, v := range derived {
		if _, ok := vars[name]; ok {
			return configErrorf("output", "variables."+name, "name conflicts with a built-in output variable")
		}
		vars[name] = outputVar{dims: dims, description: "Derived from expression", data: v}
	}
	return nil
}

func sortedKeys(m map[string][]float64) []string {
	o := make([]string, 0, len(m))
	for k := range m {
		o = append(o, k)
	}
	sort.Strings(o)
	return o
}

// write writes vars to the output file.
func (o *Outputter) write(molecules []string, continuum []ContinuumPair, dims []string, lengths []int, vars map[string]outputVar) error {
	w, err := os.Create(o.fileName)
	if err != nil {
		return fmt.Errorf("rtatm: creating output file: %v", err)
	}
	defer w.Close()

	h := cdf.NewHeader(dims, lengths)
	h.AddAttribute("", "comment", "model atmosphere")
	h.AddAttribute("", "molecules", strings.Join(molecules, ","))
	pairs := make([]string, len(continuum))
	for i, p := range continuum {
		pairs[i] = p.String()
	}
	if len(pairs) > 0 {
		h.AddAttribute("", "continuum", strings.Join(pairs, ","))
	}

	// Sort the names so they write in the same order every time.
	names := make([]string, 0, len(vars))
	for n := range vars {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, name := range names {
		v := vars[name]
		h.AddVariable(name, v.dims, []float64{0})
		h.AddAttribute(name, "description", v.description)
		units := v.units
		if units == "" {
			units = "1"
		}
		h.AddAttribute(name, "units", units)
	}
	h.Define()

	f, err := cdf.Create(w, h)
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := writeNCFVar(f, name, vars[name].data); err != nil {
			return fmt.Errorf("rtatm: writing variable %s to netcdf file: %v", name, err)
		}
	}
	return cdf.UpdateNumRecs(w)
}

func writeNCFVar(f *cdf.File, name string, data []float64) error {
	end := f.Header.Lengths(name)
	n := 1
	for _, v := range end {
		n *= v
	}
	if len(data) != n {
		return fmt.Errorf("dims are %d but array length is %d", n, len(data))
	}
	_, err := f.Writer(name, make([]int, len(end)), end).Write(data)
	return err
}
