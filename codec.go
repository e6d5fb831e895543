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
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/cespare/xxhash/v2"
)

// EncodeEvent renders an event as a single line of JSON (no embedded
// newline). The returned bytes do not include a trailing newline — the
// caller (Writer.Append) appends it.
func EncodeEvent(e Event) ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("eventfold: encode event: %w", err)
	}
	return b, nil
}

// DecodeEvent parses one log line (without its trailing newline) into an
// Event. A malformed line is reported via ErrInvalidData.
func DecodeEvent(line []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(line, &e); err != nil {
		return Event{}, invalidDataErr(err)
	}
	return e, nil
}

// LineHash computes the xxh64 (seed 0) hash of line, excluding any
// terminating newline, rendered as exactly 16 lowercase hex digits. It is
// deterministic across platforms and Go versions: identical bytes always
// produce identical hashes.
func LineHash(line []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(line))
}
