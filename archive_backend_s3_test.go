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
	"testing"
)

// TestS3ArchiveBackend_AppendReadRemove exercises the read-modify-write
// round trip against a real S3-compatible endpoint (AWS, MinIO, etc).
// It is skipped unless EVENTFOLD_S3_TEST_BUCKET is set, since there is
// no in-process fake for the AWS SDK's HTTP transport here — point
// EVENTFOLD_S3_TEST_ENDPOINT at a local MinIO instance to run it.
func TestS3ArchiveBackend_AppendReadRemove(t *testing.T) {
	bucket := os.Getenv("EVENTFOLD_S3_TEST_BUCKET")
	if bucket == "" {
		t.Skip("set EVENTFOLD_S3_TEST_BUCKET to run the S3 archive backend integration test")
	}

	backend := &S3ArchiveBackend{
		AccessKeyID:     os.Getenv("EVENTFOLD_S3_TEST_ACCESS_KEY"),
		SecretAccessKey: os.Getenv("EVENTFOLD_S3_TEST_SECRET_KEY"),
		Region:          os.Getenv("EVENTFOLD_S3_TEST_REGION"),
		Endpoint:        os.Getenv("EVENTFOLD_S3_TEST_ENDPOINT"),
		Bucket:          bucket,
		Key:             "eventfold-test/archive.jsonl.zst",
		ForcePathStyle:  true,
	}
	defer backend.Remove()

	if exists, err := backend.Exists(); err != nil {
		t.Fatalf("exists: %v", err)
	} else if exists {
		t.Fatal("test object should not pre-exist; pick a different Key or clean up the bucket")
	}

	codec := ZstdCodec{}
	w, err := backend.OpenAppend()
	if err != nil {
		t.Fatalf("open append: %v", err)
	}
	if err := codec.AppendFrame(w, []byte("frame one\n")); err != nil {
		t.Fatalf("append frame: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	w2, err := backend.OpenAppend()
	if err != nil {
		t.Fatalf("open append 2: %v", err)
	}
	if err := codec.AppendFrame(w2, []byte("frame two\n")); err != nil {
		t.Fatalf("append frame 2: %v", err)
	}
	if err := w2.Close(); err != nil {
		t.Fatalf("close 2: %v", err)
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
	if string(got) != "frame one\nframe two\n" {
		t.Fatalf("got %q", got)
	}
}
