// Copyright (c) 2025 Ronan Le Meillat
//
// Page Mirror - A tool for capturing a single web page for offline viewing
//
// Author: Ronan Le Meillat
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package main

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
)

// Store owns the output directory of a run
type Store struct {
	root string
	cfg  *Config
}

// NewStore creates a store rooted at the configured location
func NewStore(cfg *Config) *Store {
	return &Store{root: cfg.Location, cfg: cfg}
}

// Root returns the output root directory
func (s *Store) Root() string { return s.root }

// Prepare deletes any previous output and creates the root and the fixed
// subdirectories
func (s *Store) Prepare() error {
	if _, err := os.Stat(s.root); err == nil {
		if err := os.RemoveAll(s.root); err != nil {
			return errors.Wrapf(err, "failed to remove %s", s.root)
		}
	}
	if err := os.MkdirAll(s.root, 0755); err != nil {
		return errors.Wrapf(err, "failed to create %s", s.root)
	}
	for _, dir := range s.cfg.Subdirectories() {
		p := filepath.Join(s.root, dir)
		if err := os.Mkdir(p, 0755); err != nil {
			return errors.Wrapf(err, "failed to create %s", p)
		}
	}
	return nil
}

// Write stores data as name inside subdir (the root when subdir is empty),
// replacing an existing file, and returns the written path
func (s *Store) Write(subdir, name string, data []byte) (string, error) {
	p := filepath.Join(s.root, subdir, name)
	if err := os.WriteFile(p, data, 0644); err != nil {
		return "", errors.Wrapf(err, "failed to write %s", p)
	}
	return p, nil
}

// WriteDocument renders the document tree to the configured HTML file
func (s *Store) WriteDocument(doc *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return "", errors.Wrap(err, "failed to render HTML")
	}
	return s.Write("", s.cfg.HTMLFilename, buf.Bytes())
}
