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
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// mapFetcher serves canned bodies and records every requested URL
type mapFetcher struct {
	bodies    map[string]string
	requested []string
}

func (f *mapFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.requested = append(f.requested, url)
	body, ok := f.bodies[url]
	if !ok {
		return nil, &FetchError{URL: url, StatusCode: 404}
	}
	return []byte(body), nil
}

// lockedFetcher serializes access to a mapFetcher shared by concurrent runs
type lockedFetcher struct {
	mu    sync.Mutex
	inner *mapFetcher
}

func (f *lockedFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inner.Fetch(ctx, url)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Location = filepath.Join(t.TempDir(), "out")
	require.NoError(t, cfg.Validate())
	return cfg
}

// newTestContext prepares an output directory and a run context for pageURL
func newTestContext(t *testing.T, cfg *Config, fetcher Fetcher, pageURL string) *runContext {
	t.Helper()
	store := NewStore(cfg)
	require.NoError(t, store.Prepare())
	return &runContext{
		cfg:     cfg,
		fetcher: fetcher,
		store:   store,
		log:     logrus.NewEntry(quietLogger()),
		report:  &Report{},
		pageURL: pageURL,
	}
}

func readOutput(t *testing.T, cfg *Config, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(cfg.Location, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func outputExists(cfg *Config, rel string) bool {
	_, err := os.Stat(filepath.Join(cfg.Location, filepath.FromSlash(rel)))
	return err == nil
}
