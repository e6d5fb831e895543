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

import "sync"

// IntegrityStatus is the result of comparing a view's persisted
// {offset, hash} against the active log's current state.
type IntegrityStatus int

const (
	// IntegrityValid means offset and hash both still agree with the
	// active log; folding can resume from offset.
	IntegrityValid IntegrityStatus = iota
	// IntegrityOffsetBeyondEof means offset exceeds the active log's
	// current size — the log was truncated out from under the view
	// (most commonly: a rotation happened and the view's own reset
	// snapshot was never written, e.g. a crash between Rotate's
	// truncate and its final snapshot-reset step).
	IntegrityOffsetBeyondEof
	// IntegrityHashMismatch means offset is within range but the line
	// ending there no longer hashes to what the view last recorded —
	// the active log was rewritten underneath the view.
	IntegrityHashMismatch
)

// ReduceFn folds one event into the running state S. Reducers must be
// pure and deterministic: the same (state, event) pair always produces
// the same next state, since a rebuild replays every event from scratch.
type ReduceFn[S any] func(state S, event *Event) S

// ViewOps is the type-erased interface the Writer and Log facade use to
// drive a heterogeneous collection of View[S] values without knowing
// each one's concrete state type. Callers that need the concrete state
// type back use Unwrap with a type assertion, mirroring how a sealed
// union would be downcast.
type ViewOps interface {
	Name() string
	refreshBoxed(reader *Reader) error
	resetOffset() error
	Unwrap() any
}

// View folds events into a derived state S, persisted as a snapshot
// alongside {offset, hash} so a refresh can resume from the last fold
// point instead of replaying the whole log. Safe for concurrent use;
// State and Refresh both take an internal lock.
type View[S any] struct {
	name         string
	snapshotPath string
	initial      S
	reduce       ReduceFn[S]

	mu              sync.Mutex
	state           S
	offset          uint64
	hash            string
	loaded          bool
	needsFullReplay bool
}

// NewView returns a view named name, persisted under viewsDir, with the
// given initial state and reducer. The on-disk snapshot (if any) is not
// read until the first Refresh.
func NewView[S any](viewsDir, name string, initial S, reduce ReduceFn[S]) *View[S] {
	return &View[S]{
		name:         name,
		snapshotPath: viewsDir + "/" + name + ".snapshot.json",
		initial:      initial,
		reduce:       reduce,
		state:        initial,
	}
}

func (v *View[S]) Name() string { return v.name }

// Unwrap returns the view itself as any, for type-asserting back to
// *View[S] from a ViewOps-typed registry entry.
func (v *View[S]) Unwrap() any { return v }

// State returns the view's current folded state. Call Refresh first to
// pick up events appended since the view was last loaded.
func (v *View[S]) State() S {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// ensureLoaded lazily reads the persisted snapshot exactly once.
func (v *View[S]) ensureLoaded() error {
	if v.loaded {
		return nil
	}
	snap, ok, err := loadSnapshot[S](v.snapshotPath)
	if err != nil {
		return err
	}
	if ok {
		v.state = snap.State
		v.offset = snap.Offset
		v.hash = snap.Hash
	} else {
		// No snapshot to resume from: this process has no record of what
		// has already been folded, so the next Refresh must replay the
		// full archive-plus-active history rather than assume nothing has
		// been folded yet and read the active log incrementally from 0.
		v.state = v.initial
		v.offset = 0
		v.hash = ""
		v.needsFullReplay = true
	}
	v.loaded = true
	return nil
}

// checkIntegrity compares the view's persisted offset/hash against the
// active log as seen through reader.
func (v *View[S]) checkIntegrity(reader *Reader) (IntegrityStatus, error) {
	size, err := reader.ActiveLogSize()
	if err != nil {
		return IntegrityValid, err
	}
	if v.offset > size {
		return IntegrityOffsetBeyondEof, nil
	}
	if v.offset == 0 {
		return IntegrityValid, nil
	}
	actualHash, ok, err := reader.ReadLineHashBefore(v.offset)
	if err != nil {
		return IntegrityValid, err
	}
	if ok && actualHash != v.hash {
		return IntegrityHashMismatch, nil
	}
	return IntegrityValid, nil
}

// rebuild replays the full history — archive frames then the active
// log — from the initial state, used whenever checkIntegrity finds
// anything but IntegrityValid.
func (v *View[S]) rebuild(reader *Reader) error {
	full, err := reader.ReadFull()
	if err != nil {
		return err
	}

	state := v.initial
	var lastHash string
	for _, ewh := range full {
		e := ewh.Event
		state = v.reduce(state, &e)
		lastHash = ewh.LineHash
	}

	size, err := reader.ActiveLogSize()
	if err != nil {
		return err
	}

	v.state = state
	v.offset = size
	if size == 0 {
		v.hash = ""
	} else {
		v.hash = lastHash
	}
	return nil
}

// Refresh folds every event appended since the view's last persisted
// offset into its state, then persists the new {state, offset, hash} —
// but only if something was actually folded, so that calling Refresh
// twice with no intervening appends never rewrites the snapshot file.
// If the active log no longer agrees with the view's recorded
// offset/hash (IntegrityOffsetBeyondEof or IntegrityHashMismatch), or
// no snapshot was found to resume from, the view is rebuilt from the
// full archive-plus-active history instead.
func (v *View[S]) Refresh(reader *Reader) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.ensureLoaded(); err != nil {
		return err
	}

	status, err := v.checkIntegrity(reader)
	if err != nil {
		return err
	}
	if status != IntegrityValid {
		v.needsFullReplay = true
	}

	var processed bool
	if v.needsFullReplay {
		if err := v.rebuild(reader); err != nil {
			return err
		}
		v.needsFullReplay = false
		processed = true
	} else {
		events, err := reader.ReadFrom(v.offset)
		if err != nil {
			return err
		}
		for _, ea := range events {
			e := ea.Event
			v.state = v.reduce(v.state, &e)
			v.offset = ea.NextOffset
			v.hash = ea.LineHash
		}
		processed = len(events) > 0
	}

	if !processed {
		return nil
	}
	return saveSnapshot(v.snapshotPath, Snapshot[S]{State: v.state, Offset: v.offset, Hash: v.hash})
}

func (v *View[S]) refreshBoxed(reader *Reader) error { return v.Refresh(reader) }

// Rebuild discards the persisted snapshot and immediately refolds the
// view's state from scratch by calling Refresh, replaying the full
// archive-plus-active history. Used to recover a view whose on-disk snapshot is
// trusted to be stale or suspect even though its integrity check would
// otherwise pass (e.g. after changing the reducer itself).
func (v *View[S]) Rebuild(reader *Reader) error {
	v.mu.Lock()
	if err := deleteSnapshot(v.snapshotPath); err != nil {
		v.mu.Unlock()
		return err
	}
	v.state = v.initial
	v.offset = 0
	v.hash = ""
	v.loaded = true
	v.needsFullReplay = true
	v.mu.Unlock()

	return v.Refresh(reader)
}

// resetOffset is called by Writer.Rotate after the active log has been
// truncated: the view's already-folded state is preserved, but its
// offset/hash reset to the post-rotation sentinel (0, "") since the
// events it reflects now live only in the archive.
func (v *View[S]) resetOffset() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.offset = 0
	v.hash = ""
	return saveSnapshot(v.snapshotPath, Snapshot[S]{State: v.state, Offset: v.offset, Hash: v.hash})
}
