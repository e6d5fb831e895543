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
	"bytes"
	"io"
	"testing"
)

func testFrameCodecMultiFrame(t *testing.T, codec FrameCodec) {
	var buf bytes.Buffer
	frames := [][]byte{
		[]byte("first frame payload\n"),
		[]byte("second frame payload\nwith two lines\n"),
		[]byte("third\n"),
	}
	for _, f := range frames {
		if err := codec.AppendFrame(&buf, f); err != nil {
			t.Fatalf("append frame: %v", err)
		}
	}

	rc, err := codec.NewFrameReader(&buf)
	if err != nil {
		t.Fatalf("new frame reader: %v", err)
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read all: %v", err)
	}

	var want []byte
	for _, f := range frames {
		want = append(want, f...)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("multi-frame round trip mismatch:\n got:  %q\n want: %q", got, want)
	}
}

func TestZstdCodec_MultiFrameRoundTrip(t *testing.T) {
	testFrameCodecMultiFrame(t, ZstdCodec{})
}

func TestLz4Codec_MultiFrameRoundTrip(t *testing.T) {
	testFrameCodecMultiFrame(t, Lz4Codec{})
}

func TestFileArchiveBackend_AppendReadExistsRemove(t *testing.T) {
	dir := t.TempDir()
	backend := NewFileArchiveBackend(dir + "/archive.jsonl.zst")

	if exists, err := backend.Exists(); err != nil || exists {
		t.Fatalf("archive should not exist yet: exists=%v err=%v", exists, err)
	}

	codec := ZstdCodec{}
	w, err := backend.OpenAppend()
	if err != nil {
		t.Fatalf("open append: %v", err)
	}
	if err := codec.AppendFrame(w, []byte("hello\n")); err != nil {
		t.Fatalf("append frame: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if exists, err := backend.Exists(); err != nil || !exists {
		t.Fatalf("archive should exist now: exists=%v err=%v", exists, err)
	}

	r, err := backend.OpenRead()
	if err != nil {
		t.Fatalf("open read: %v", err)
	}
	defer r.Close()
	fr, err := codec.NewFrameReader(r)
	if err != nil {
		t.Fatalf("new frame reader: %v", err)
	}
	defer fr.Close()
	got, err := io.ReadAll(fr)
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if string(got) != "hello\n" {
		t.Fatalf("got %q, want %q", got, "hello\n")
	}

	if err := backend.Remove(); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if exists, err := backend.Exists(); err != nil || exists {
		t.Fatalf("archive should be gone: exists=%v err=%v", exists, err)
	}
	if err := backend.Remove(); err != nil {
		t.Fatalf("removing an already-absent archive must not error: %v", err)
	}
}
