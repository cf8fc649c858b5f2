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
	"flag"
	"os"
	"os/signal"
	"strings"
	"time"
)

func main() {
	cfg := DefaultConfig()

	var (
		targetURL   string
		inputFile   string
		excluded    string
		timeout     int
		concurrency int
		secure      bool
		fixFavicon  bool
		verbose     bool
	)

	flag.StringVar(&targetURL, "url", "", "URL of the page to mirror")
	flag.StringVar(&cfg.Location, "outdir", cfg.Location, "Output directory (deleted and recreated)")
	flag.StringVar(&cfg.HTMLFilename, "html", cfg.HTMLFilename, "Name of the saved document")
	flag.StringVar(&cfg.UserAgent, "user-agent", cfg.UserAgent, "User agent sent with every request")
	flag.StringVar(&cfg.Username, "user", "", "Basic auth user name")
	flag.StringVar(&cfg.Password, "password", "", "Basic auth password")
	flag.StringVar(&excluded, "exclude", strings.Join(cfg.ExcludedDomains, ","), "Comma separated hosts that are never downloaded")
	flag.IntVar(&timeout, "timeout", int(cfg.Timeout/time.Second), "HTTP timeout in seconds")
	flag.BoolVar(&secure, "secure", false, "Verify TLS certificates")
	flag.BoolVar(&fixFavicon, "fix-comment-favicon", false, "Store the real bytes of favicons found in comments")
	flag.StringVar(&inputFile, "i", "", "File with one URL per line to mirror")
	flag.IntVar(&concurrency, "concurrency", 1, "Pages mirrored at once with -i")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	flag.Parse()

	log := newLogger(verbose)

	// If URL provided as positional argument, use it
	if args := flag.Args(); len(args) > 0 {
		targetURL = args[0]
	}

	cfg.ExcludedDomains = nil
	for _, host := range strings.Split(excluded, ",") {
		if host = strings.TrimSpace(host); host != "" {
			cfg.ExcludedDomains = append(cfg.ExcludedDomains, host)
		}
	}
	cfg.Timeout = time.Duration(timeout) * time.Second
	cfg.InsecureSkipVerify = !secure
	cfg.CommentFaviconQuirk = !fixFavicon

	if err := cfg.Validate(); err != nil {
		log.Errorf("Invalid configuration: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fetcher := NewHTTPFetcher(cfg)

	if inputFile != "" {
		f, err := os.Open(inputFile)
		if err != nil {
			log.Errorf("Failed to open %s: %v", inputFile, err)
			os.Exit(1)
		}
		urls, err := readURLList(f)
		f.Close()
		if err != nil {
			log.Errorf("Failed to read %s: %v", inputFile, err)
			os.Exit(1)
		}

		done, failed := runBatch(ctx, cfg, planBatch(cfg.Location, urls), concurrency, fetcher, log)
		log.Infof("Batch complete: %d pages mirrored, %d failed", done, failed)
		if failed > 0 {
			os.Exit(1)
		}
		return
	}

	if targetURL == "" {
		log.Error("Please provide a URL or use -i with an input file")
		os.Exit(1)
	}

	m, err := New(cfg, fetcher, log)
	if err != nil {
		log.Errorf("Failed to create mirror: %v", err)
		os.Exit(1)
	}
	if _, err := m.Run(ctx, targetURL); err != nil {
		log.Errorf("Error during mirroring: %v", err)
		os.Exit(1)
	}
}
