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
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/rtatm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options that can be set from the
	// command line or environment as well as the configuration file.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the TOML configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "log-level",
			usage: `
              log-level sets the logging level: debug, info, warning, or error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "wavenumber.min",
			usage: `
              wavenumber.min is the lower bound of a uniform output wavenumber
              grid in cm⁻¹. Zero means use the configuration file value.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{setupCmd.Flags(), plotCmd.Flags()},
		},
		{
			name: "wavenumber.max",
			usage: `
              wavenumber.max is the upper bound of a uniform output wavenumber
              grid in cm⁻¹. Zero means use the configuration file value.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{setupCmd.Flags(), plotCmd.Flags()},
		},
		{
			name: "wavenumber.npts",
			usage: `
              wavenumber.npts is the number of points in a uniform output
              wavenumber grid. Zero means use the configuration file value.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{setupCmd.Flags(), plotCmd.Flags()},
		},
		{
			name: "output.filepath",
			usage: `
              output.filepath is the path to the netCDF output file. It can
              include environment variables.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{setupCmd.Flags()},
		},
		{
			name: "output.variables",
			usage: `
              output.variables gives additional layer variables to output as
              a JSON object mapping names to expressions, for example
              '{"h2o_column": "H2O * colden / mmw"}'.`,
			defaultVal: map[string]string{},
			flagsets:   []*pflag.FlagSet{setupCmd.Flags()},
		},
		{
			name: "star.dir",
			usage: `
              star.dir is the root directory of the stellar model catalog.
              If star.database is set in the configuration file, the stellar
              spectrum is written next to the output file.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{setupCmd.Flags()},
		},
		{
			name: "facet",
			usage: `
              facet selects a single column of a three-dimensional atmosphere
              as "gangle,tangle" indices, for example "0,1". The column is
              written or plotted as a one-dimensional atmosphere.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{setupCmd.Flags(), plotCmd.Flags()},
		},
		{
			name: "plotfile",
			usage: `
              plotfile is the path of the temperature-pressure plot to
              create. The format is chosen by the file extension.`,
			defaultVal: "profile.png",
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables, so that
	// for example RTATM_OUTPUT_FILEPATH sets output.filepath.
	Cfg.SetEnvPrefix("RTATM")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, v, option.usage)
			case int:
				set.IntP(option.name, option.shorthand, v, option.usage)
			case float64:
				set.Float64P(option.name, option.shorthand, v, option.usage)
			case map[string]string:
				b := bytes.NewBuffer(nil)
				json.NewEncoder(b).Encode(v)
				set.StringP(option.name, option.shorthand, strings.TrimSpace(b.String()), option.usage)
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(setupCmd)
	Root.AddCommand(plotCmd)
}

// setConfig finds and reads in the configuration file, if there is
// one, and sets the logging level.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("rtatm: problem reading configuration file: %v", err)
		}
	}
	lvl, err := logrus.ParseLevel(Cfg.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("rtatm: %v", err)
	}
	logrus.SetLevel(lvl)
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "rtatm",
	Short: "Set up model atmospheres for radiative transfer.",
	Long: `rtatm prepares one- and three-dimensional planetary atmospheres for a
radiative transfer solver: it loads temperature, pressure, and chemistry
profiles, derives mean molecular weight, density, and column density,
selects continuum opacity sources, and regrids cloud properties onto the
output wavenumber grid.

Configuration is read from a TOML file given with the --config flag. Some
variables can additionally be set by command-line arguments or by
environment variables in the format 'RTATM_var', where 'var' is the
variable name in upper case with '.' replaced by '_'. File paths in the
configuration may contain environment variables.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of rtatm.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("rtatm v%s\n", rtatm.Version)
	},
	DisableAutoGenTag: true,
}

// setupCmd sets up an atmosphere and writes it to a netCDF file.
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Set up an atmosphere and save it.",
	Long: `setup builds the atmosphere described by the configuration file and
writes it to output.filepath in netCDF format. Three-dimensional atmospheres
are written in full unless --facet selects a single column.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := ConfigFromViper(Cfg)
		if err != nil {
			return err
		}
		facet, err := parseFacet(Cfg.GetString("facet"))
		if err != nil {
			return err
		}
		return Setup(context.Background(), cfg, facet, logrus.StandardLogger())
	},
	DisableAutoGenTag: true,
}

// plotCmd plots the temperature-pressure profile of an atmosphere.
var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Plot the temperature-pressure profile.",
	Long: `plot sets up the atmosphere described by the configuration file and
plots its level temperature against pressure. Three-dimensional atmospheres
need --facet to select a column.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := ConfigFromViper(Cfg)
		if err != nil {
			return err
		}
		facet, err := parseFacet(Cfg.GetString("facet"))
		if err != nil {
			return err
		}
		a, _, err := Build(context.Background(), cfg, facet, logrus.StandardLogger())
		if err != nil {
			return err
		}
		if a == nil {
			return fmt.Errorf("rtatm: plotting a three-dimensional atmosphere requires --facet")
		}
		return PlotProfile(a, Cfg.GetString("plotfile"))
	},
	DisableAutoGenTag: true,
}
