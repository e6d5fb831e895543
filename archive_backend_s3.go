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
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3ArchiveBackend stores the archive as a single object in an
// S3-compatible bucket. S3 has no native append operation, so each
// OpenAppend/Close round-trip reads the current object back, appends the
// new frame in memory, and re-uploads the result — acceptable because
// archive writes only happen at rotation, not per-event.
type S3ArchiveBackend struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Endpoint        string
	Bucket          string
	Key             string
	ForcePathStyle  bool

	mu     sync.Mutex
	client *s3.Client
}

func (s *S3ArchiveBackend) ensureClient(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		return nil
	}

	var opts []func(*config.LoadOptions) error
	if s.Region != "" {
		opts = append(opts, config.WithRegion(s.Region))
	}
	if s.AccessKeyID != "" && s.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.AccessKeyID, s.SecretAccessKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return fmt.Errorf("eventfold: load aws config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if s.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) { o.BaseEndpoint = aws.String(s.Endpoint) })
	}
	if s.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) { o.UsePathStyle = true })
	}

	s.client = s3.NewFromConfig(cfg, s3Opts...)
	return nil
}

func (s *S3ArchiveBackend) Exists() (bool, error) {
	ctx := context.Background()
	if err := s.ensureClient(ctx); err != nil {
		return false, err
	}
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *S3ArchiveBackend) OpenAppend() (io.WriteCloser, error) {
	ctx := context.Background()
	if err := s.ensureClient(ctx); err != nil {
		return nil, err
	}
	var existing []byte
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket), Key: aws.String(s.Key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if !errors.As(err, &noKey) {
			return nil, err
		}
	} else {
		existing, err = io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}
	}
	return &s3AppendWriter{backend: s, buf: *bytes.NewBuffer(existing)}, nil
}

type s3AppendWriter struct {
	backend *S3ArchiveBackend
	buf     bytes.Buffer
	closed  bool
}

func (w *s3AppendWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, io.ErrClosedPipe
	}
	return w.buf.Write(p)
}

func (w *s3AppendWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	ctx := context.Background()
	_, err := w.backend.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(w.backend.Bucket),
		Key:    aws.String(w.backend.Key),
		Body:   bytes.NewReader(w.buf.Bytes()),
	})
	return err
}

func (s *S3ArchiveBackend) OpenRead() (io.ReadCloser, error) {
	ctx := context.Background()
	if err := s.ensureClient(ctx); err != nil {
		return nil, err
	}
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket), Key: aws.String(s.Key),
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (s *S3ArchiveBackend) Remove() error {
	ctx := context.Background()
	if err := s.ensureClient(ctx); err != nil {
		return err
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket), Key: aws.String(s.Key),
	})
	return err
}
