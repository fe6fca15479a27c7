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

	"github.com/sirupsen/logrus"
)

// Warning is a non-fatal problem found while setting up an atmosphere.
type Warning struct {
	Stage string
	Msg   string
}

func (w Warning) String() string { return w.Stage + ": " + w.Msg }

// Diagnostics is an append-only record of warnings. Each warning is
// also sent to Log as it is recorded. A nil *Diagnostics discards
// warnings.
type Diagnostics struct {
	Log      logrus.FieldLogger
	warnings []Warning
}

// NewDiagnostics returns a Diagnostics that logs to log, or to the
// standard logrus logger if log is nil.
func NewDiagnostics(log logrus.FieldLogger) *Diagnostics {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Diagnostics{Log: log}
}

// Warnf records a warning for the given pipeline stage.
func (d *Diagnostics) Warnf(stage, format string, args ...interface{}) {
	if d == nil {
		return
	}
	w := Warning{Stage: stage, Msg: fmt.Sprintf(format, args...)}
	d.warnings = append(d.warnings, w)
	if d.Log != nil {
		d.Log.WithField("stage", stage).Warn(w.Msg)
	}
}

// Warnings returns a copy of the warnings recorded so far, in order.
func (d *Diagnostics) Warnings() []Warning {
	if d == nil {
		return nil
	}
	return append([]Warning(nil), d.warnings...)
}
