// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package local implements the fs.FS interface using a local
// directory.
package local

import (
	"context"
	"os"
	"path/filepath"

	"github.com/xhc-coll/xhcplot/storage/fs"
)

// impl is an fs.FS backed by a directory.
type impl struct {
	dir string
}

// NewFS returns an fs.FS that writes files under dir, creating it if
// needed.
func NewFS(dir string) (fs.FS, error) {
	if err := os.MkdirAll(dir, 0777); err != nil {
		return nil, err
	}
	return &impl{dir}, nil
}

// NewWriter creates a file named name under the directory. The file
// appears under its name only when the Writer is closed without
// error. Metadata is not stored.
func (fs *impl) NewWriter(_ context.Context, name string, _ map[string]string) (fs.Writer, error) {
	path := filepath.Join(fs.dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
		return nil, err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return nil, err
	}
	return &wrapper{File: f, path: path}, nil
}

type wrapper struct {
	*os.File
	path string
}

// Close finishes the file and moves it into place.
func (w *wrapper) Close() error {
	if err := w.File.Close(); err != nil {
		os.Remove(w.File.Name())
		return err
	}
	if err := os.Chmod(w.File.Name(), 0666); err != nil {
		os.Remove(w.File.Name())
		return err
	}
	return os.Rename(w.File.Name(), w.path)
}

// CloseWithError discards the partially written file.
func (w *wrapper) CloseWithError(error) error {
	w.File.Close()
	return os.Remove(w.File.Name())
}
