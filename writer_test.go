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
	"errors"
	"os"
	"testing"

	json "github.com/goccy/go-json"
)

func TestWriter_AppendSequential(t *testing.T) {
	dir := t.TempDir()
	w, err := OpenWriter(dir, LockNone, nil, nil, 0)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer w.Close()

	r1, _, err := w.Append(NewEvent("a", json.RawMessage(`1`)))
	if err != nil {
		t.Fatalf("append 1: %v", err)
	}
	if r1.StartOffset != 0 {
		t.Fatalf("first append must start at offset 0, got %d", r1.StartOffset)
	}

	r2, _, err := w.Append(NewEvent("b", json.RawMessage(`2`)))
	if err != nil {
		t.Fatalf("append 2: %v", err)
	}
	if r2.StartOffset != r1.EndOffset {
		t.Fatalf("second append must start where the first ended: %d != %d", r2.StartOffset, r1.EndOffset)
	}
}

func TestWriter_LockContention(t *testing.T) {
	dir := t.TempDir()
	w1, err := OpenWriter(dir, LockExclusive, nil, nil, 0)
	if err != nil {
		t.Fatalf("open first: %v", err)
	}
	defer w1.Close()

	_, err = OpenWriter(dir, LockExclusive, nil, nil, 0)
	if !errors.Is(err, ErrLockHeld) {
		t.Fatalf("expected ErrLockHeld, got %v", err)
	}
}

func TestWriter_AppendIf_OffsetConflict(t *testing.T) {
	dir := t.TempDir()
	w, err := OpenWriter(dir, LockNone, nil, nil, 0)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer w.Close()

	if _, _, err := w.Append(NewEvent("a", json.RawMessage(`1`))); err != nil {
		t.Fatalf("seed append: %v", err)
	}

	_, _, err = w.AppendIf(NewEvent("b", json.RawMessage(`2`)), 0, "")
	var conflict *Conflict
	if !errors.As(err, &conflict) {
		t.Fatalf("expected a *Conflict, got %v", err)
	}
	if conflict.ExpectedOffset != 0 {
		t.Fatalf("expected offset 0, got %d", conflict.ExpectedOffset)
	}
}

func TestWriter_AppendIf_HashConflict(t *testing.T) {
	dir := t.TempDir()
	w, err := OpenWriter(dir, LockNone, nil, nil, 0)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer w.Close()

	r1, _, err := w.Append(NewEvent("a", json.RawMessage(`1`)))
	if err != nil {
		t.Fatalf("seed append: %v", err)
	}

	_, _, err = w.AppendIf(NewEvent("b", json.RawMessage(`2`)), r1.EndOffset, "not-the-real-hash")
	var conflict *Conflict
	if !errors.As(err, &conflict) {
		t.Fatalf("expected a *Conflict, got %v", err)
	}
	if conflict.ActualHash != r1.LineHash {
		t.Fatalf("actual hash should be the real preceding line's hash: got %s want %s", conflict.ActualHash, r1.LineHash)
	}
}

func TestWriter_AppendIf_Success(t *testing.T) {
	dir := t.TempDir()
	w, err := OpenWriter(dir, LockNone, nil, nil, 0)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer w.Close()

	r1, _, err := w.Append(NewEvent("a", json.RawMessage(`1`)))
	if err != nil {
		t.Fatalf("seed append: %v", err)
	}

	r2, _, err := w.AppendIf(NewEvent("b", json.RawMessage(`2`)), r1.EndOffset, r1.LineHash)
	if err != nil {
		t.Fatalf("conditional append should succeed: %v", err)
	}
	if r2.StartOffset != r1.EndOffset {
		t.Fatalf("conditional append landed at the wrong offset: %d", r2.StartOffset)
	}
}

func TestWriter_Rotate_SealsAndTruncates(t *testing.T) {
	dir := t.TempDir()
	w, err := OpenWriter(dir, LockNone, nil, nil, 0)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer w.Close()

	for i := 0; i < 5; i++ {
		if _, _, err := w.Append(NewEvent("a", json.RawMessage(`1`))); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	reader := Reader{logPath: w.logPath, archive: w.archive, codec: w.codec}
	if err := w.Rotate(&reader, nil); err != nil {
		t.Fatalf("rotate: %v", err)
	}

	st, err := os.Stat(w.LogPath())
	if err != nil {
		t.Fatalf("stat active log: %v", err)
	}
	if st.Size() != 0 {
		t.Fatalf("active log should be truncated after rotate, got size %d", st.Size())
	}

	exists, err := w.archive.Exists()
	if err != nil {
		t.Fatalf("archive exists: %v", err)
	}
	if !exists {
		t.Fatal("archive should exist after a non-empty rotation")
	}

	full, err := reader.ReadFull()
	if err != nil {
		t.Fatalf("read full: %v", err)
	}
	if len(full) != 5 {
		t.Fatalf("expected 5 events preserved across rotation, got %d", len(full))
	}
}

func TestWriter_Rotate_EmptyLogIsNoop(t *testing.T) {
	dir := t.TempDir()
	w, err := OpenWriter(dir, LockNone, nil, nil, 0)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer w.Close()

	reader := Reader{logPath: w.logPath, archive: w.archive, codec: w.codec}
	if err := w.Rotate(&reader, nil); err != nil {
		t.Fatalf("rotate empty log: %v", err)
	}

	exists, err := w.archive.Exists()
	if err != nil {
		t.Fatalf("archive exists: %v", err)
	}
	if exists {
		t.Fatal("rotating an empty active log must not create an archive frame")
	}
}
