/*
Copyright (C) 2023-2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package eventfold

import (
	"log"
	"os"
)

// Logger is the diagnostic sink a Log uses to report a failed automatic
// rotation after Append or AppendIf — never for the events themselves,
// which only ever live in the log files. Views do not write to it: an
// integrity-triggered rebuild in View.Refresh emits no diagnostic line,
// and a successful Rotate is not logged. A caller embedding this package in a larger service
// satisfies Logger with its own structured logger; DefaultLogger is
// used when Builder.WithLogger is never called.
type Logger interface {
	Printf(format string, v ...any)
}

// DefaultLogger writes to stderr with a package-identifying prefix.
var DefaultLogger Logger = log.New(os.Stderr, "eventfold: ", log.LstdFlags)
