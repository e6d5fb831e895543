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
	"os"

	json "github.com/goccy/go-json"
)

// Snapshot is the persisted {state, offset, hash} triple for one view.
// offset=0, hash="" is the canonical "nothing in the active log consumed
// yet" sentinel, also valid right after a rotation.
type Snapshot[S any] struct {
	State  S      `json:"state"`
	Offset uint64 `json:"offset"`
	Hash   string `json:"hash"`
}

// saveSnapshot writes snap to path atomically: serialize to path+".tmp",
// flush, then rename over path. Callers rely on the rename being atomic
// on the target filesystem.
func saveSnapshot[S any](path string, snap Snapshot[S]) error {
	tmpPath := path + ".tmp"

	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return invalidDataErr(err)
	}

	f, err := os.Create(tmpPath)
	if err != nil {
		return err
	}
	if _, err := f.Write(b); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}

// loadSnapshot returns (snapshot, true, nil) on success. A missing file
// returns (zero, false, nil). Unreadable or corrupt content is
// reclassified as "absent" — (zero, false, nil) — so the caller's next
// refresh triggers a full rebuild instead of surfacing a parse error.
func loadSnapshot[S any](path string) (Snapshot[S], bool, error) {
	var snap Snapshot[S]

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return snap, false, nil
		}
		return snap, false, err
	}

	if err := json.Unmarshal(b, &snap); err != nil {
		return Snapshot[S]{}, false, nil
	}
	return snap, true, nil
}

// deleteSnapshot removes path and any stale path+".tmp" sibling.
// Absence of either is not an error.
func deleteSnapshot(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	tmpPath := path + ".tmp"
	if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
