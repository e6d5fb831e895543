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

import "github.com/google/btree"

// idOffset is one entry in an IDIndex's ordered set, keyed by event ID.
// The reducer only ever sees (state, event) — not the line offset the
// event was read from — so this only records presence, not the offset
// of first occurrence; the field is kept for forward compatibility with
// a reducer signature that gains offset awareness.
type idOffset struct {
	ID     string `json:"id"`
	Offset uint64 `json:"offset"`
}

func (a idOffset) Less(than btree.Item) bool {
	return a.ID < than.(idOffset).ID
}

// idIndexState is the plain, JSON-serializable form of an IDIndex's
// folded state — a btree cannot round-trip through a snapshot directly,
// so Refresh rebuilds the tree from this slice on load and flattens it
// back on save.
type idIndexState struct {
	Entries []idOffset `json:"entries"`
}

// IDIndex is a supplemental view recording which event IDs have already
// appeared, backed by an in-memory B-tree for ordered lookup. Events
// with no ID are not indexed. A second event carrying an ID already
// present in the index leaves the index unchanged — Seen reports the
// duplicate to the caller, which decides how to react (reject, log,
// skip).
type IDIndex struct {
	view *View[idIndexState]
	tree *btree.BTree
}

// NewIDIndex returns an IDIndex named name, persisted under viewsDir.
func NewIDIndex(viewsDir, name string) *IDIndex {
	idx := &IDIndex{tree: btree.New(32)}
	idx.view = NewView(viewsDir, name, idIndexState{}, idx.reduce)
	return idx
}

// reduce folds one event into the index's flattened state. The reducer
// is handed whatever state the last fold step produced — which, during
// a full rebuild, may not match idx.tree (a fresh IDIndex starts with an
// empty tree but a non-empty persisted state) — so it resyncs idx.tree
// from state whenever the two disagree before deciding on this event.
func (idx *IDIndex) reduce(state idIndexState, event *Event) idIndexState {
	idx.syncTreeFrom(state)

	if event.ID == nil || *event.ID == "" {
		return state
	}
	key := idOffset{ID: *event.ID}
	if idx.tree.Has(key) {
		return state
	}
	idx.tree.ReplaceOrInsert(idOffset{ID: *event.ID})
	return idIndexState{Entries: flattenTree(idx.tree)}
}

// syncTreeFrom rebuilds idx.tree from state.Entries if it doesn't
// already reflect that many entries — cheap to call on every reduce
// step since it only allocates when the size has actually drifted.
func (idx *IDIndex) syncTreeFrom(state idIndexState) {
	if idx.tree.Len() == len(state.Entries) {
		return
	}
	idx.tree = btree.New(32)
	for _, e := range state.Entries {
		idx.tree.ReplaceOrInsert(e)
	}
}

func flattenTree(t *btree.BTree) []idOffset {
	out := make([]idOffset, 0, t.Len())
	t.Ascend(func(it btree.Item) bool {
		out = append(out, it.(idOffset))
		return true
	})
	return out
}

// Name returns the index's registered view name.
func (idx *IDIndex) Name() string { return idx.view.Name() }

// Refresh folds new events into the index. If the underlying view had
// no new events to fold (nothing appended since the last Refresh), the
// reducer never runs — so the tree is resynced from the view's state
// unconditionally afterward, not just as a side effect of folding.
func (idx *IDIndex) Refresh(reader *Reader) error {
	if err := idx.view.Refresh(reader); err != nil {
		return err
	}
	idx.syncTreeFrom(idx.view.State())
	return nil
}

func (idx *IDIndex) refreshBoxed(reader *Reader) error { return idx.Refresh(reader) }
func (idx *IDIndex) resetOffset() error                { return idx.view.resetOffset() }
func (idx *IDIndex) Unwrap() any                       { return idx }

// Rebuild discards the persisted snapshot and refolds the index from
// the full archive-plus-active history, resyncing the tree afterward.
func (idx *IDIndex) Rebuild(reader *Reader) error {
	if err := idx.view.Rebuild(reader); err != nil {
		return err
	}
	idx.syncTreeFrom(idx.view.State())
	return nil
}

// Seen reports whether id has already been recorded by this index, as
// of the last Refresh.
func (idx *IDIndex) Seen(id string) bool {
	return idx.tree.Has(idOffset{ID: id})
}

// Len returns the number of distinct event IDs recorded.
func (idx *IDIndex) Len() int { return idx.tree.Len() }
