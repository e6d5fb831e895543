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
	"io"
	"os"

	"github.com/gofrs/flock"
)

// Writer owns the active log's write handle and drives the append and
// rotation invariants. Not safe for concurrent use from multiple
// goroutines without external synchronization — the spec assumes one
// writer per directory, and this type does not add a mutex to paper
// over a second writer within the same process.
type Writer struct {
	dir         string
	logPath     string
	archivePath string
	viewsDir    string

	file    *os.File
	lock    *flock.Flock
	codec   FrameCodec
	archive ArchiveBackend

	maxLogSize uint64 // 0 disables auto-rotation
}

// OpenWriter creates the directory tree (including views/) if missing
// and opens the active log in create-if-missing, append-only mode. With
// lockMode == LockExclusive, a non-blocking advisory exclusive lock is
// attempted on the active log file; contention fails with ErrLockHeld.
// The lock lives with the returned Writer and survives rotation. A nil
// archive selects the default FileArchiveBackend over archivePath.
func OpenWriter(dir string, lockMode LockMode, codec FrameCodec, archive ArchiveBackend, maxLogSize uint64) (*Writer, error) {
	viewsDir := dir + "/views"
	if err := os.MkdirAll(viewsDir, 0750); err != nil {
		return nil, err
	}

	logPath := dir + "/app.jsonl"
	archivePath := dir + "/archive.jsonl.zst"

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0640)
	if err != nil {
		return nil, err
	}

	var lock *flock.Flock
	if lockMode == LockExclusive {
		lock, err = acquireLock(logPath)
		if err != nil {
			f.Close()
			return nil, err
		}
	}

	if codec == nil {
		codec = ZstdCodec{}
	}
	if archive == nil {
		archive = NewFileArchiveBackend(archivePath)
	}

	return &Writer{
		dir:         dir,
		logPath:     logPath,
		archivePath: archivePath,
		viewsDir:    viewsDir,
		file:        f,
		lock:        lock,
		codec:       codec,
		archive:     archive,
		maxLogSize:  maxLogSize,
	}, nil
}

// Close releases the writer's file handle and advisory lock.
func (w *Writer) Close() error {
	if w.lock != nil {
		_ = w.lock.Unlock()
	}
	return w.file.Close()
}

// Append serializes event as a single line, writes "line\n" to the
// active log, flushes, and returns the resulting AppendResult. overThreshold
// reports whether the post-append size has reached the configured
// rotation threshold; the Log facade interprets that signal.
func (w *Writer) Append(event Event) (result AppendResult, overThreshold bool, err error) {
	startOffset, err := w.file.Seek(0, io.SeekEnd)
	if err != nil {
		return AppendResult{}, false, err
	}

	line, err := EncodeEvent(event)
	if err != nil {
		return AppendResult{}, false, err
	}
	hash := LineHash(line)

	if _, err := w.file.Write(append(line, '\n')); err != nil {
		return AppendResult{}, false, err
	}
	if err := w.file.Sync(); err != nil {
		return AppendResult{}, false, err
	}

	endOffset := uint64(startOffset) + uint64(len(line)) + 1
	result = AppendResult{
		StartOffset: uint64(startOffset),
		EndOffset:   endOffset,
		LineHash:    hash,
	}

	overThreshold = w.maxLogSize > 0 && endOffset >= w.maxLogSize
	return result, overThreshold, nil
}

// AppendIf performs a compare-and-swap append: if the active log's
// current size does not equal expectedOffset, or (when expectedOffset >
// 0) the hash of the line ending at expectedOffset-1 does not equal
// expectedHash, no write happens and a *Conflict is returned. Otherwise
// behaves exactly like Append.
func (w *Writer) AppendIf(event Event, expectedOffset uint64, expectedHash string) (result AppendResult, overThreshold bool, err error) {
	st, err := w.file.Stat()
	if err != nil {
		return AppendResult{}, false, err
	}
	actualOffset := uint64(st.Size())

	if actualOffset != expectedOffset {
		return AppendResult{}, false, &Conflict{
			ExpectedOffset: expectedOffset,
			ActualOffset:   actualOffset,
			ExpectedHash:   expectedHash,
		}
	}

	if expectedOffset > 0 {
		reader := Reader{logPath: w.logPath, archive: w.archive, codec: w.codec}
		actualHash, ok, err := reader.ReadLineHashBefore(expectedOffset)
		if err != nil {
			return AppendResult{}, false, err
		}
		if ok && actualHash != expectedHash {
			return AppendResult{}, false, &Conflict{
				ExpectedOffset: expectedOffset,
				ActualOffset:   actualOffset,
				ExpectedHash:   expectedHash,
				ActualHash:     actualHash,
			}
		}
	}

	return w.Append(event)
}

// Rotate seals the active log into a new archive frame, truncates it,
// and resets every registered view's offset to 0 (state preserved). The
// six-step state machine: (1) refresh every view so its snapshot is
// current, (2) read the active log's bytes, (3) no-op if empty, (4)
// append those bytes as a new archive frame and sync, (5) truncate the
// active log and sync, (6) persist each view's reset snapshot.
//
// A crash between steps 4 and 5 duplicates events across archive and
// active log; a crash between steps 5 and 6 leaves snapshots pointing
// past the now-empty active log's EOF, which the next View.refresh's
// integrity check detects and repairs via full rebuild.
func (w *Writer) Rotate(reader *Reader, views []ViewOps) error {
	for _, v := range views {
		if err := v.refreshBoxed(reader); err != nil {
			return err
		}
	}

	data, err := os.ReadFile(w.logPath)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}

	aw, err := w.archive.OpenAppend()
	if err != nil {
		return err
	}
	if err := w.codec.AppendFrame(aw, data); err != nil {
		aw.Close()
		return err
	}
	if err := aw.Close(); err != nil {
		return err
	}

	if err := w.file.Truncate(0); err != nil {
		return err
	}
	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if err := w.file.Sync(); err != nil {
		return err
	}

	for _, v := range views {
		if err := v.resetOffset(); err != nil {
			return err
		}
	}
	return nil
}

// LogPath returns the path to the active log file.
func (w *Writer) LogPath() string { return w.logPath }

// ArchivePath returns the path to the archive file.
func (w *Writer) ArchivePath() string { return w.archivePath }

// ViewsDir returns the path to the views directory.
func (w *Writer) ViewsDir() string { return w.viewsDir }
