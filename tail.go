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
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// waitForEvents watches the directory containing the active log for
// Write/Create activity on app.jsonl. The file's size is checked before
// the watch is armed, once more right after arming it (closing the
// TOCTOU window between the first check and the watch actually
// starting), and after every relevant wake. Events on unrelated files in
// the same directory (snapshot writes, the archive) are filtered out;
// a wake that does not show the log grown past offset — a rename, a
// chmod, a spurious kernel wake — does not end the wait: it keeps
// waiting against the original deadline, and only that deadline yields
// a timeout (NewData false).
func waitForEvents(r Reader, offset uint64, timeout time.Duration) (WaitResult, error) {
	if has, err := r.HasNewEvents(offset); err != nil {
		return WaitResult{}, err
	} else if has {
		size, err := r.ActiveLogSize()
		if err != nil {
			return WaitResult{}, err
		}
		return WaitResult{NewData: true, Size: size}, nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return WaitResult{}, err
	}
	defer watcher.Close()

	dir := filepath.Dir(r.logPath)
	if err := watcher.Add(dir); err != nil {
		return WaitResult{}, err
	}

	// Re-check once now that the watch is armed: an append that landed
	// between the first check and watcher.Add produced no event here.
	if has, err := r.HasNewEvents(offset); err != nil {
		return WaitResult{}, err
	} else if has {
		size, err := r.ActiveLogSize()
		if err != nil {
			return WaitResult{}, err
		}
		return WaitResult{NewData: true, Size: size}, nil
	}

	base := filepath.Base(r.logPath)
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return WaitResult{}, nil
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}

			has, err := r.HasNewEvents(offset)
			if err != nil {
				return WaitResult{}, err
			}
			if !has {
				continue
			}
			size, err := r.ActiveLogSize()
			if err != nil {
				return WaitResult{}, err
			}
			return WaitResult{NewData: true, Size: size}, nil

		case err, ok := <-watcher.Errors:
			if !ok {
				return WaitResult{}, nil
			}
			if err != nil {
				return WaitResult{}, err
			}

		case <-deadline.C:
			return WaitResult{NewData: false}, nil
		}
	}
}
