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
	"bufio"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// FrameCodec packs one rotation's bytes into a self-contained compressed
// frame, and chains any number of previously-written frames back into
// one continuous decompressed byte stream. The archive is never mixed:
// all frames in one archive file use the same codec.
type FrameCodec interface {
	// AppendFrame compresses data as one frame and writes it to w.
	AppendFrame(w io.Writer, data []byte) error
	// NewFrameReader wraps r (a stream of concatenated frames) as a
	// single continuous decompressed reader.
	NewFrameReader(r io.Reader) (io.ReadCloser, error)
}

// ZstdCodec is the default archive frame codec.
type ZstdCodec struct {
	// Level is the zstd encoder level; zero selects the default.
	Level zstd.EncoderLevel
}

func (z ZstdCodec) AppendFrame(w io.Writer, data []byte) error {
	level := z.Level
	if level == 0 {
		level = zstd.SpeedDefault
	}
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(level))
	if err != nil {
		return err
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

func (z ZstdCodec) NewFrameReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return zstdReadCloser{dec}, nil
}

type zstdReadCloser struct{ d *zstd.Decoder }

func (z zstdReadCloser) Read(p []byte) (int, error) { return z.d.Read(p) }
func (z zstdReadCloser) Close() error                { z.d.Close(); return nil }

// Lz4Codec is an opt-in, faster/lower-ratio alternative to ZstdCodec,
// for callers who favor rotation latency over archive size.
type Lz4Codec struct{}

func (Lz4Codec) AppendFrame(w io.Writer, data []byte) error {
	lw := lz4.NewWriter(w)
	if _, err := lw.Write(data); err != nil {
		lw.Close()
		return err
	}
	return lw.Close()
}

// lz4's frame reader decodes exactly one frame; the archive is a
// concatenation of independently-written frames, so chaining them into
// one stream means re-instantiating the frame decoder on EOF while
// reusing the same underlying buffered reader, so any look-ahead bytes
// already pulled in for the next frame are not lost.
func (Lz4Codec) NewFrameReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(&multiFrameReader{
		br:     bufio.NewReader(r),
		newDec: func(src io.Reader) io.Reader { return lz4.NewReader(src) },
	}), nil
}

type multiFrameReader struct {
	br     *bufio.Reader
	newDec func(io.Reader) io.Reader
	cur    io.Reader
}

func (m *multiFrameReader) Read(p []byte) (int, error) {
	for {
		if m.cur == nil {
			if _, err := m.br.Peek(1); err != nil {
				return 0, io.EOF
			}
			m.cur = m.newDec(m.br)
		}
		n, err := m.cur.Read(p)
		if n > 0 {
			return n, nil
		}
		if err == io.EOF {
			m.cur = nil
			continue
		}
		if err != nil {
			return 0, err
		}
	}
}
