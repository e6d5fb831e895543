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

import (
	"io"
	"os"
)

// FileArchiveBackend stores the archive as a single local, append-only
// file at the given path. OpenWriter uses archive.jsonl.zst whichever
// frame codec is configured.
type FileArchiveBackend struct {
	path string
}

// NewFileArchiveBackend returns a backend rooted at path.
func NewFileArchiveBackend(path string) *FileArchiveBackend {
	return &FileArchiveBackend{path: path}
}

func (f *FileArchiveBackend) Exists() (bool, error) {
	st, err := os.Stat(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return st.Size() > 0, nil
}

func (f *FileArchiveBackend) OpenAppend() (io.WriteCloser, error) {
	fh, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
	if err != nil {
		return nil, err
	}
	return syncOnCloseFile{fh}, nil
}

// syncOnCloseFile durably persists written bytes before the underlying
// file descriptor is closed, matching the archive codec's "flush to
// durable storage before returning" contract.
type syncOnCloseFile struct{ f *os.File }

func (s syncOnCloseFile) Write(p []byte) (int, error) { return s.f.Write(p) }

func (s syncOnCloseFile) Close() error {
	if err := s.f.Sync(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}

func (f *FileArchiveBackend) OpenRead() (io.ReadCloser, error) {
	return os.Open(f.path)
}

func (f *FileArchiveBackend) Remove() error {
	err := os.Remove(f.path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}
