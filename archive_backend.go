/*
Copyright (C) 2024-2026  Carl-Philip Hänsch

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

import "io"

// ArchiveBackend is where archive frame bytes physically live. It is
// orthogonal to the FrameCodec that packs a rotation's bytes into a
// frame: a backend only ever sees opaque bytes.
//
// Implementations: FileArchiveBackend (default, local
// archive.jsonl.zst), S3ArchiveBackend (S3-compatible object storage).
type ArchiveBackend interface {
	// Exists reports whether any archive content has been written yet.
	Exists() (bool, error)
	// OpenAppend returns a write handle positioned for appending a new
	// frame. Closing it must durably persist the written bytes.
	OpenAppend() (io.WriteCloser, error)
	// OpenRead returns a handle over the full archive content from the
	// start. Callers wrap it in the configured FrameCodec's reader.
	OpenRead() (io.ReadCloser, error)
	// Remove deletes all archive content (directory teardown only).
	Remove() error
}
