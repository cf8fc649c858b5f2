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
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

// batchJob is one page of a batch run and the directory it is mirrored into
type batchJob struct {
	URL string
	Dir string
}

// readURLList reads one URL per line, ignoring blank lines, '#' comments and
// repeated URLs
func readURLList(r io.Reader) ([]string, error) {
	var urls []string
	seen := make(map[string]bool)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || seen[line] {
			continue
		}
		seen[line] = true
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}

// planBatch gives every page its own output directory under root, named
// after its host and path
func planBatch(root string, urls []string) []batchJob {
	jobs := make([]batchJob, 0, len(urls))
	used := make(map[string]int)
	for _, u := range urls {
		parts := splitURL(u)
		name := SanitizeFilename(strings.Trim(hostOf(parts.authority)+parts.path, "/"))
		if name == "" {
			name = "page"
		}
		used[name]++
		if n := used[name]; n > 1 {
			name = fmt.Sprintf("%s-%d", name, n)
		}
		jobs = append(jobs, batchJob{URL: u, Dir: filepath.Join(root, name)})
	}
	return jobs
}

// runBatch mirrors every job with up to concurrency runs in flight. Each run
// is itself sequential. It returns the number of pages mirrored and failed.
func runBatch(ctx context.Context, base *Config, jobs []batchJob, concurrency int, fetcher Fetcher, log *logrus.Logger) (int, int) {
	if concurrency < 1 {
		concurrency = 1
	}
	sem := semaphore.NewWeighted(int64(concurrency))

	var wg sync.WaitGroup
	var done, failed int32
	total := len(jobs)
	log.Infof("Mirroring %d pages with %d workers...", total, concurrency)

	for _, job := range jobs {
		wg.Add(1)
		go func(job batchJob) {
			defer wg.Done()

			if err := sem.Acquire(ctx, 1); err != nil {
				log.Errorf("Failed to acquire semaphore for %s: %v", job.URL, err)
				atomic.AddInt32(&failed, 1)
				return
			}
			defer sem.Release(1)

			cfg := *base
			cfg.Location = job.Dir
			m, err := New(&cfg, fetcher, log)
			if err == nil {
				_, err = m.Run(ctx, job.URL)
			}
			if err != nil {
				log.Errorf("Failed to mirror %s: %v", job.URL, err)
				atomic.AddInt32(&failed, 1)
				return
			}

			n := atomic.AddInt32(&done, 1)
			log.Infof("Progress: %d/%d pages mirrored", n, total)
		}(job)
	}

	wg.Wait()
	return int(done), int(failed)
}
