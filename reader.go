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
	"bufio"
	"io"
	"os"
	"time"
)

// Reader is a stateless, cheap-to-clone handle over one log directory.
// Every operation opens a fresh read handle — safe to copy by value and
// share across goroutines; readers never mutate shared state.
type Reader struct {
	logPath string
	archive ArchiveBackend
	codec   FrameCodec
	dir     string
}

// NewReader returns a Reader over dir, using the given archive backend
// and frame codec (nil selects FileArchiveBackend and ZstdCodec).
func NewReader(dir string, archive ArchiveBackend, codec FrameCodec) Reader {
	logPath := dir + "/app.jsonl"
	if archive == nil {
		archive = NewFileArchiveBackend(dir + "/archive.jsonl.zst")
	}
	if codec == nil {
		codec = ZstdCodec{}
	}
	return Reader{logPath: logPath, archive: archive, codec: codec, dir: dir}
}

// EventAt is one event yielded by ReadFrom, along with the offset just
// past its line (including the newline) and its line hash.
type EventAt struct {
	Event      Event
	NextOffset uint64
	LineHash   string
}

// ReadFrom returns every complete line in the active log starting at
// offset, in order. Empty lines are skipped (NextOffset still advances
// past them). A final line without a trailing newline (a crash mid
// write) is a partial line — it is silently excluded from the result,
// never treated as an error. A malformed non-empty line is a single
// decode error that stops the scan at that point.
func (r Reader) ReadFrom(offset uint64) ([]EventAt, error) {
	f, err := os.Open(r.logPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	fileLen := uint64(st.Size())

	if offset > fileLen {
		return nil, nil
	}
	if _, err := f.Seek(int64(offset), io.SeekStart); err != nil {
		return nil, err
	}

	var out []EventAt
	br := bufio.NewReader(f)
	pos := offset

	for {
		line, err := br.ReadBytes('\n')
		if err == io.EOF {
			// No trailing newline on this tail — either there is
			// nothing left (len(line)==0) or it's a partial line from a
			// crash mid-write. Either way, stop without yielding it.
			return out, nil
		}
		if err != nil {
			return out, err
		}

		raw := line[:len(line)-1] // strip '\n'
		nextPos := pos + uint64(len(line))

		if len(raw) == 0 {
			pos = nextPos
			continue
		}

		hash := LineHash(raw)
		event, decErr := DecodeEvent(raw)
		if decErr != nil {
			return out, decErr
		}

		out = append(out, EventAt{Event: event, NextOffset: nextPos, LineHash: hash})
		pos = nextPos
	}
}

// EventWithHash is one event yielded by ReadFull, paired with its line
// hash. Offsets are not meaningful across the archive/active boundary,
// so ReadFull does not expose them.
type EventWithHash struct {
	Event    Event
	LineHash string
}

// ReadFull returns every event across the concatenation of all archived
// frames followed by the current active log, in append order.
func (r Reader) ReadFull() ([]EventWithHash, error) {
	var out []EventWithHash

	exists, err := r.archive.Exists()
	if err != nil {
		return nil, err
	}
	if exists {
		rc, err := r.archive.OpenRead()
		if err != nil {
			return nil, err
		}
		frameReader, err := r.codec.NewFrameReader(rc)
		if err != nil {
			rc.Close()
			return nil, err
		}
		err = scanLines(frameReader, func(raw []byte) error {
			if len(raw) == 0 {
				return nil
			}
			event, decErr := DecodeEvent(raw)
			if decErr != nil {
				return decErr
			}
			out = append(out, EventWithHash{Event: event, LineHash: LineHash(raw)})
			return nil
		})
		frameReader.Close()
		rc.Close()
		if err != nil {
			return out, err
		}
	}

	active, err := r.ReadFrom(0)
	if err != nil {
		return out, err
	}
	for _, ea := range active {
		out = append(out, EventWithHash{Event: ea.Event, LineHash: ea.LineHash})
	}
	return out, nil
}

// scanLines reads complete '\n'-terminated lines from r, invoking fn for
// each (without the trailing newline). A final unterminated line (the
// decompressed archive never has a "partial" concept the way the active
// log does, but guard it the same way for robustness) is ignored.
func scanLines(r io.Reader, fn func([]byte) error) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadBytes('\n')
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(line[:len(line)-1]); err != nil {
			return err
		}
	}
}

// ReadLineHashBefore returns the hash of the line whose trailing newline
// lies at offset-1, by scanning backward from offset-2 within an 8 KiB
// window to find the preceding newline (or the file start). Returns
// (_, false, nil) for offset==0 or offset beyond the file's length.
func (r Reader) ReadLineHashBefore(offset uint64) (string, bool, error) {
	if offset == 0 {
		return "", false, nil
	}

	f, err := os.Open(r.logPath)
	if err != nil {
		return "", false, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return "", false, err
	}
	fileLen := uint64(st.Size())
	if offset > fileLen {
		return "", false, nil
	}

	const window = 8192
	lineEnd := offset - 1 // index of the newline byte itself

	var start uint64
	if lineEnd > window {
		start = lineEnd - window
	}
	readLen := lineEnd - start
	if readLen == 0 {
		// lineEnd==start==0: the newline is the very first byte, so the
		// line it terminates is empty — hash of zero bytes.
		return LineHash(nil), true, nil
	}

	buf := make([]byte, readLen)
	if _, err := f.ReadAt(buf, int64(start)); err != nil && err != io.EOF {
		return "", false, err
	}

	// buf holds bytes [start, lineEnd). Find the last '\n' within it —
	// that marks the start of the line ending at lineEnd.
	lineStartRel := -1
	for i := len(buf) - 1; i >= 0; i-- {
		if buf[i] == '\n' {
			lineStartRel = i + 1
			break
		}
	}
	var lineBytes []byte
	if lineStartRel >= 0 {
		lineBytes = buf[lineStartRel:]
	} else if start == 0 {
		lineBytes = buf
	} else {
		// The preceding newline lies further back than our window;
		// widen the scan once with the full prefix instead of looping
		// arbitrarily, since a single line longer than the window is
		// the pathological case this is guarding against.
		full := make([]byte, lineEnd)
		if _, err := f.ReadAt(full, 0); err != nil && err != io.EOF {
			return "", false, err
		}
		idx := -1
		for i := len(full) - 1; i >= 0; i-- {
			if full[i] == '\n' {
				idx = i + 1
				break
			}
		}
		if idx < 0 {
			lineBytes = full
		} else {
			lineBytes = full[idx:]
		}
	}

	return LineHash(lineBytes), true, nil
}

// ActiveLogSize is a metadata-only query on the active log's size.
func (r Reader) ActiveLogSize() (uint64, error) {
	st, err := os.Stat(r.logPath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	return uint64(st.Size()), nil
}

// HasNewEvents reports whether the active log has grown past offset.
// After a rotation, a previously valid offset can become "beyond EOF" —
// callers tailing across rotations must also watch the archive or reset
// their offset; this is not hidden from them.
func (r Reader) HasNewEvents(offset uint64) (bool, error) {
	size, err := r.ActiveLogSize()
	if err != nil {
		return false, err
	}
	return size > offset, nil
}

// WaitResult is the outcome of WaitForEvents.
type WaitResult struct {
	// NewData is true if the active log grew beyond the requested
	// offset before the timeout elapsed.
	NewData bool
	// Size is the active log's size when NewData is true.
	Size uint64
}

// WaitForEvents blocks the calling goroutine until the active log grows
// beyond offset, or timeout elapses. The timeout is the only way to cut
// the wait short — there is no external cancellation signal.
func (r Reader) WaitForEvents(offset uint64, timeout time.Duration) (WaitResult, error) {
	return waitForEvents(r, offset, timeout)
}
