// Copyright 2016 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gcs implements the fs.FS interface using Google Cloud Storage.
package gcs

import (
	"context"
	"fmt"
	"mime"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/xhc-coll/xhcplot/storage/fs"
	"google.golang.org/api/option"
)

// impl is an fs.FS backed by Google Cloud Storage.
type impl struct {
	bucket *storage.BucketHandle
	prefix string
}

// NewFS constructs an FS that writes to objects named prefix/name in
// the provided GCS bucket. opts are passed to storage.NewClient.
func NewFS(ctx context.Context, bucketName, prefix string, opts ...option.ClientOption) (fs.FS, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &impl{client.Bucket(bucketName), strings.Trim(prefix, "/")}, nil
}

// NewFSFromURL is NewFS for a "gs://bucket/prefix" URL.
func NewFSFromURL(ctx context.Context, url string, opts ...option.ClientOption) (fs.FS, error) {
	bucket, prefix, err := ParseURL(url)
	if err != nil {
		return nil, err
	}
	return NewFS(ctx, bucket, prefix, opts...)
}

// ParseURL splits a "gs://bucket/prefix" URL into its bucket and
// object name prefix.
func ParseURL(url string) (bucket, prefix string, err error) {
	rest, ok := strings.CutPrefix(url, "gs://")
	if !ok {
		return "", "", fmt.Errorf("%q is not a gs:// URL", url)
	}
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("%q has no bucket", url)
	}
	return bucket, strings.Trim(prefix, "/"), nil
}

// ObjectName returns the name of the object a file called name is
// stored in.
func ObjectName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

// NewWriter returns a Writer for the object of the file name. The
// object's content type follows the name's extension.
func (fs *impl) NewWriter(ctx context.Context, name string, metadata map[string]string) (fs.Writer, error) {
	ctx, cancel := context.WithCancel(ctx)
	w := fs.bucket.Object(ObjectName(fs.prefix, name)).NewWriter(ctx)
	w.Metadata = metadata
	w.ContentType = mime.TypeByExtension(path.Ext(name))
	return &wrapper{Writer: w, cancel: cancel}, nil
}

// wrapper makes storage.Writer implement fs.Writer.
type wrapper struct {
	*storage.Writer
	cancel context.CancelFunc
}

func (w *wrapper) Close() error {
	defer w.cancel()
	return w.Writer.Close()
}

// CloseWithError abandons the upload. Canceling the writer's context
// before Close discards the object.
func (w *wrapper) CloseWithError(err error) error {
	w.cancel()
	w.Writer.Close()
	return nil
}
