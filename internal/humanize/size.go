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

// Package humanize parses and renders human-readable byte sizes for the
// rotation threshold ("64MB", "512KiB") accepted by the Builder and the
// foldctl CLI's flags.
package humanize

import "github.com/docker/go-units"

// ParseSize parses a human-readable byte size such as "64MB" or
// "1.5GiB" into a byte count. Units are binary whether or not the "i" is
// written: "1MB" and "1MiB" both parse as 1048576. An empty string
// parses as 0 (rotation disabled).
func ParseSize(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	n, err := units.RAMInBytes(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, nil
	}
	return uint64(n), nil
}

// FormatSize renders n bytes in the same style units.RAMInBytes parses
// back ("64MiB"), for diagnostics and the CLI's status output.
func FormatSize(n uint64) string {
	return units.BytesSize(float64(n))
}
