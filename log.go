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
	"sync"
	"time"

	"github.com/launix-de/eventfold/internal/humanize"
)

// Builder assembles a Log's configuration before opening it. The zero
// value is not usable directly; start from NewBuilder.
type Builder struct {
	dir        string
	lockMode   LockMode
	codec      FrameCodec
	archive    ArchiveBackend
	maxLogSize uint64
	logger     Logger
	views      []ViewOps
}

// NewBuilder returns a Builder rooted at dir, with defaults matching
// OpenWriter's: exclusive locking, zstd frames, a local file archive,
// rotation disabled, and DefaultLogger.
func NewBuilder(dir string) *Builder {
	return &Builder{
		dir:      dir,
		lockMode: LockExclusive,
		logger:   DefaultLogger,
	}
}

// WithLockMode overrides the default exclusive advisory lock.
func (b *Builder) WithLockMode(mode LockMode) *Builder {
	b.lockMode = mode
	return b
}

// WithCodec selects the archive frame codec (default ZstdCodec{}).
func (b *Builder) WithCodec(codec FrameCodec) *Builder {
	b.codec = codec
	return b
}

// WithArchiveBackend selects where sealed frames are stored (default a
// local file alongside the active log).
func (b *Builder) WithArchiveBackend(archive ArchiveBackend) *Builder {
	b.archive = archive
	return b
}

// WithMaxLogSize sets the active log size, in bytes, at or beyond which
// Append triggers an automatic Rotate. Zero disables auto-rotation;
// Rotate can still always be called explicitly.
func (b *Builder) WithMaxLogSize(bytes uint64) *Builder {
	b.maxLogSize = bytes
	return b
}

// WithMaxLogSizeString is WithMaxLogSize accepting a human-readable size
// such as "64MB" or "512KiB". A parse error is returned immediately
// rather than deferred to Open.
func (b *Builder) WithMaxLogSizeString(s string) (*Builder, error) {
	n, err := humanize.ParseSize(s)
	if err != nil {
		return b, err
	}
	b.maxLogSize = n
	return b, nil
}

// WithLogger overrides DefaultLogger.
func (b *Builder) WithLogger(logger Logger) *Builder {
	b.logger = logger
	return b
}

// RegisterView adds a view to be tracked across Append, RefreshAll and
// Rotate. Views must be registered before Open; registering the same
// name twice is a caller error: the later registration replaces the
// earlier one in View lookups (the earlier one is never reachable), and
// RefreshAll and Rotate drive the later one once per registration.
func (b *Builder) RegisterView(v ViewOps) *Builder {
	b.views = append(b.views, v)
	return b
}

// Log is the facade tying one directory's active log, archive, and
// registered views together. A Log serializes its own Append, AppendIf
// and Rotate calls with an internal mutex — the underlying Writer is
// not itself safe for concurrent use, and Log is where that contract is
// satisfied for callers with multiple goroutines sharing one directory
// within a process. It still assumes a single process per directory;
// cross-process exclusion is the advisory lock, not this mutex.
type Log struct {
	writer *Writer
	reader Reader
	views  map[string]ViewOps
	order  []string
	logger Logger

	mu sync.Mutex
}

// Open creates the directory if needed and opens a Log per the
// Builder's configuration, then runs an initial RefreshAll so every
// registered view's State is current as soon as Open returns. If
// MaxLogSize is set and the active log it finds on disk already meets
// or exceeds it — e.g. the process was restarted after a crash right
// before a rotation, or MaxLogSize was just lowered — it rotates once
// before returning rather than waiting for the next Append to notice.
func (b *Builder) Open() (*Log, error) {
	w, err := OpenWriter(b.dir, b.lockMode, b.codec, b.archive, b.maxLogSize)
	if err != nil {
		return nil, err
	}

	l := &Log{
		writer: w,
		reader: Reader{logPath: w.logPath, archive: w.archive, codec: w.codec},
		views:  make(map[string]ViewOps, len(b.views)),
		logger: b.logger,
	}
	for _, v := range b.views {
		l.views[v.Name()] = v
		l.order = append(l.order, v.Name())
	}

	if err := l.RefreshAll(); err != nil {
		w.Close()
		return nil, err
	}

	if b.maxLogSize > 0 {
		size, err := l.reader.ActiveLogSize()
		if err != nil {
			w.Close()
			return nil, err
		}
		if size >= b.maxLogSize {
			if err := l.Rotate(); err != nil {
				w.Close()
				return nil, err
			}
		}
	}

	return l, nil
}

// Close releases the active log's file handle and advisory lock.
func (l *Log) Close() error {
	return l.writer.Close()
}

// Append appends event, then auto-rotates if the configured MaxLogSize
// was reached.
func (l *Log) Append(event Event) (AppendResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	result, overThreshold, err := l.writer.Append(event)
	if err != nil {
		return AppendResult{}, err
	}
	if overThreshold {
		if err := l.rotateLocked(); err != nil {
			l.logger.Printf("auto-rotate after append failed: %v", err)
			return result, err
		}
	}
	return result, nil
}

// AppendIf performs a compare-and-swap append; see Writer.AppendIf.
// Auto-rotation applies identically to a successful conditional append.
func (l *Log) AppendIf(event Event, expectedOffset uint64, expectedHash string) (AppendResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	result, overThreshold, err := l.writer.AppendIf(event, expectedOffset, expectedHash)
	if err != nil {
		return AppendResult{}, err
	}
	if overThreshold {
		if err := l.rotateLocked(); err != nil {
			l.logger.Printf("auto-rotate after append failed: %v", err)
			return result, err
		}
	}
	return result, nil
}

// RefreshAll folds new events into every registered view.
func (l *Log) RefreshAll() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.refreshAllLocked()
}

func (l *Log) refreshAllLocked() error {
	for _, name := range l.order {
		if err := l.views[name].refreshBoxed(&l.reader); err != nil {
			return err
		}
	}
	return nil
}

// View looks up a registered view by name. Callers type-assert the
// returned ViewOps' Unwrap() back to *View[S] (or keep the concrete
// *View[S] they passed to RegisterView, which is usually more
// convenient than looking it up again here). The lookup is untyped: its
// only error is ErrNotFound.
func (l *Log) View(name string) (ViewOps, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.views[name]
	if !ok {
		return nil, notFoundErr(name)
	}
	return v, nil
}

// Rotate seals the active log into a new archive frame. See
// Writer.Rotate for the crash-safety discussion.
func (l *Log) Rotate() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rotateLocked()
}

func (l *Log) rotateLocked() error {
	views := make([]ViewOps, 0, len(l.order))
	for _, name := range l.order {
		views = append(views, l.views[name])
	}
	return l.writer.Rotate(&l.reader, views)
}

// WaitForEvents blocks until the active log grows beyond offset or
// timeout elapses. Safe to call without holding Append/Rotate's lock —
// it only reads.
func (l *Log) WaitForEvents(offset uint64, timeout time.Duration) (WaitResult, error) {
	return l.reader.WaitForEvents(offset, timeout)
}

// Reader returns a read-only handle sharing this Log's archive backend
// and codec configuration, for callers that want ReadFrom/ReadFull
// without going through the view machinery.
func (l *Log) Reader() Reader {
	return l.reader
}

// LogPath, ArchivePath and ViewsDir expose the underlying file layout
// for tooling (the CLI's dump/export commands) that needs raw paths.
func (l *Log) LogPath() string     { return l.writer.LogPath() }
func (l *Log) ArchivePath() string { return l.writer.ArchivePath() }
func (l *Log) ViewsDir() string    { return l.writer.ViewsDir() }
