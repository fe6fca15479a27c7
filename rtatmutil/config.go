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
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/rtatm"
	"github.com/spf13/cast"
)

// Facet is a (gangle, tangle) index pair. A nil *Facet selects the
// whole atmosphere.
type Facet struct {
	G, T int
}

// parseFacet parses "g,t". An empty string returns nil.
func parseFacet(s string) (*Facet, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("rtatm: facet must be given as \"gangle,tangle\", got %q", s)
	}
	g, err := cast.ToIntE(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, fmt.Errorf("rtatm: invalid facet gangle: %v", err)
	}
	t, err := cast.ToIntE(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, fmt.Errorf("rtatm: invalid facet tangle: %v", err)
	}
	return &Facet{G: g, T: t}, nil
}

// ConfigFromViper reads the configuration file named by the "config"
// setting in cfg and applies any settings from cfg that override it.
func ConfigFromViper(cfg *viper.Viper) (*rtatm.Config, error) {
	path := cfg.GetString("config")
	if path == "" {
		return nil, fmt.Errorf("rtatm: a configuration file must be specified with --config")
	}
	c, err := rtatm.ReadConfigFile(os.ExpandEnv(path))
	if err != nil {
		return nil, err
	}
	// cfg may have read the same file, so only values that differ
	// from the file are overrides.
	if v := cfg.GetFloat64("wavenumber.min"); v != 0 && v != c.Wavenumber.Min {
		c.Wavenumber.Min = v
	}
	if v := cfg.GetFloat64("wavenumber.max"); v != 0 && v != c.Wavenumber.Max {
		c.Wavenumber.Max = v
	}
	if v := cfg.GetInt("wavenumber.npts"); v != 0 && v != c.Wavenumber.NPts {
		c.Wavenumber.NPts = v
		// A uniform grid set here replaces a grid file.
		c.Wavenumber.Filepath = ""
	}
	if v := cfg.GetString("output.filepath"); v != "" {
		c.Output.Filepath = os.ExpandEnv(v)
	}
	if v := cfg.GetString("star.dir"); v != "" {
		c.Star.Dir = os.ExpandEnv(v)
	}
	vars, err := GetStringMapString("output.variables", cfg)
	if err != nil {
		return nil, err
	}
	for k, v := range vars {
		if c.Output.Variables == nil {
			c.Output.Variables = make(map[string]string)
		}
		c.Output.Variables[k] = v
	}
	return c, nil
}

// GetStringMapString returns a map[string]string from a viper
// configuration, accounting for the fact that it might be a JSON
// object if it was set from a command line argument.
func GetStringMapString(varName string, cfg *viper.Viper) (map[string]string, error) {
	switch v := cfg.Get(varName).(type) {
	case nil:
		return nil, nil
	case map[string]string:
		return v, nil
	case map[string]interface{}:
		return cast.ToStringMapStringE(v)
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		o := make(map[string]string)
		if err := json.NewDecoder(bytes.NewBufferString(v)).Decode(&o); err != nil {
			return nil, fmt.Errorf("rtatm: %s: %v", varName, err)
		}
		return o, nil
	default:
		return nil, fmt.Errorf("rtatm: invalid type for %s: %#v", varName, v)
	}
}

// checkOutputFile makes sure that the output file is specified and
// its directory exists.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`rtatm: you need to specify an output file (for example: output.filepath = "atmosphere.ncf")`)
	}
	if _, err := os.Stat(filepath.Dir(f)); err != nil {
		return f, fmt.Errorf("rtatm: the output file directory doesn't exist: %v", err)
	}
	return f, nil
}

// starFile returns the path the stellar spectrum is written to for
// output file f.
func starFile(f string) string {
	return strings.TrimSuffix(f, filepath.Ext(f)) + "_star.xlsx"
}
