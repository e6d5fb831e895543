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
	"github.com/dc0d/onexit"
	"github.com/gofrs/flock"
)

// LockMode selects whether Writer.Open takes an advisory exclusive lock
// on the active log.
type LockMode int

const (
	// LockExclusive takes a non-blocking advisory exclusive lock; a
	// second writer on the same directory fails immediately with
	// ErrLockHeld. This is the default.
	LockExclusive LockMode = iota
	// LockNone skips locking entirely; the caller is responsible for
	// serializing writers.
	LockNone
)

// acquireLock attempts a non-blocking advisory exclusive lock on path.
// Returns (nil, ErrLockHeld-wrapped error) on contention. The lock is
// also released via onexit as a best-effort backstop for processes that
// exit without calling Writer.Close (panic, signal) — not a substitute
// for an explicit Close.
func acquireLock(path string) (*flock.Flock, error) {
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, lockedErr(path)
	}
	onexit.Register(func() { _ = fl.Unlock() })
	return fl, nil
}
