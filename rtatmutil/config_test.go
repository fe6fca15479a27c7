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
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/rtatm"
)

func TestParseFacet(t *testing.T) {
	f, err := parseFacet(" 1, 2")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(f, &Facet{G: 1, T: 2}) {
		t.Errorf("have %+v", f)
	}
	if f, err = parseFacet(""); err != nil || f != nil {
		t.Errorf("empty: %+v, %v", f, err)
	}
	for _, bad := range []string{"1", "1,2,3", "a,1", "1,b"} {
		if _, err := parseFacet(bad); err == nil {
			t.Errorf("%q: expected an error", bad)
		}
	}
}

const testConfig = `
[disco]
num_gangle = 1
num_tangle = 1

[atmosphere.profile]
type = "user"
filepath = "profile.txt"

[planet]
gravity = 25.0
gravity_unit = "m/s**2"

[wavenumber]
filepath = "wno.txt"

[output]
filepath = "out.ncf"

[output.variables]
ratio = "colden / mmw"
`

func TestConfigFromViper(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(testConfig), 0644); err != nil {
		t.Fatal(err)
	}
	v := viper.New()
	v.Set("config", path)
	v.Set("wavenumber.min", 100.0)
	v.Set("wavenumber.max", 200.0)
	v.Set("wavenumber.npts", 5)
	v.Set("output.variables", `{"double": "2 * colden"}`)

	cfg, err := ConfigFromViper(v)
	if err != nil {
		t.Fatal(err)
	}
	want := rtatm.WavenumberConfig{Min: 100, Max: 200, NPts: 5}
	if cfg.Wavenumber != want {
		t.Errorf("wavenumber: have %+v, want %+v", cfg.Wavenumber, want)
	}
	if cfg.Output.Filepath != "out.ncf" {
		t.Errorf("output file: %s", cfg.Output.Filepath)
	}
	wantVars := map[string]string{"ratio": "colden / mmw", "double": "2 * colden"}
	if !reflect.DeepEqual(cfg.Output.Variables, wantVars) {
		t.Errorf("variables: have %v, want %v", cfg.Output.Variables, wantVars)
	}

	if _, err := ConfigFromViper(viper.New()); err == nil {
		t.Error("expected an error without a configuration file")
	}
}

func TestConfigFromViperReadInConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	conf := strings.Replace(testConfig, `filepath = "wno.txt"`,
		"filepath = \"wno.txt\"\nmin = 100.0\nmax = 200.0\nnpts = 5", 1)
	if err := os.WriteFile(path, []byte(conf), 0644); err != nil {
		t.Fatal(err)
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatal(err)
	}
	v.Set("config", path)

	cfg, err := ConfigFromViper(v)
	if err != nil {
		t.Fatal(err)
	}
	want := rtatm.WavenumberConfig{Filepath: "wno.txt", Min: 100, Max: 200, NPts: 5}
	if cfg.Wavenumber != want {
		t.Errorf("wavenumber: have %+v, want %+v", cfg.Wavenumber, want)
	}

	v.Set("wavenumber.npts", 7)
	if cfg, err = ConfigFromViper(v); err != nil {
		t.Fatal(err)
	}
	want = rtatm.WavenumberConfig{Min: 100, Max: 200, NPts: 7}
	if cfg.Wavenumber != want {
		t.Errorf("npts override: have %+v, want %+v", cfg.Wavenumber, want)
	}
}

func TestGetStringMapString(t *testing.T) {
	v := viper.New()
	v.Set("m", map[string]interface{}{"a": "b"})
	v.Set("s", `{"c": "d"}`)
	v.Set("bad", `{"c": `)
	for name, want := range map[string]map[string]string{
		"m":       {"a": "b"},
		"s":       {"c": "d"},
		"missing": nil,
	} {
		have, err := GetStringMapString(name, v)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(have, want) {
			t.Errorf("%s: have %v, want %v", name, have, want)
		}
	}
	if _, err := GetStringMapString("bad", v); err == nil {
		t.Error("expected an error for invalid JSON")
	}
}

func TestVersion(t *testing.T) {
	var b bytes.Buffer
	Root.SetOutput(&b)
	Root.SetArgs([]string{"version"})
	defer Root.SetOutput(nil)
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), rtatm.Version) {
		t.Errorf("have %q", b.String())
	}
}

func TestCheckOutputFile(t *testing.T) {
	if _, err := checkOutputFile(""); err == nil {
		t.Error("expected an error for an empty file name")
	}
	if _, err := checkOutputFile(filepath.Join(t.TempDir(), "missing", "out.ncf")); err == nil {
		t.Error("expected an error for a missing directory")
	}
	if have := starFile("/a/b/out.ncf"); have != "/a/b/out_star.xlsx" {
		t.Errorf("star file: %s", have)
	}
}
