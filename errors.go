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
	"errors"
	"fmt"
)

// ErrNotImplemented is returned for configuration paths that are
// recognized but not supported, such as parameterized
// temperature-pressure profiles.
var ErrNotImplemented = errors.New("not implemented")

// ErrFieldMissing is returned when an operation needs a field that an
// earlier pipeline stage has not yet filled in.
var ErrFieldMissing = errors.New("field not present")

// ConfigError reports invalid or insufficient configuration.
type ConfigError struct {
	Stage string // pipeline stage, e.g. "profile"
	Field string // offending configuration field or column
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("rtatm: %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("rtatm: %s: %s: %v", e.Stage, e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func configErrorf(stage, field, format string, args ...interface{}) error {
	return &ConfigError{Stage: stage, Field: field, Err: fmt.Errorf(format, args...)}
}

// ShapeError reports input data whose size does not match the size
// implied by the model grid.
type ShapeError struct {
	Stage string
	Field string
	Want  int
	Got   int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("rtatm: %s: %s: expected %d values but got %d", e.Stage, e.Field, e.Want, e.Got)
}
