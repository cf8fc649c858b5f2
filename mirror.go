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
	"net/url"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"
)

// Mirror captures a single page and its resources into a local directory
type Mirror struct {
	cfg     *Config
	fetcher Fetcher
	log     *logrus.Logger
}

// New creates a Mirror. A nil fetcher selects an HTTPFetcher built from cfg.
func New(cfg *Config, fetcher Fetcher, log *logrus.Logger) (*Mirror, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if fetcher == nil {
		fetcher = NewHTTPFetcher(cfg)
	}
	if log == nil {
		log = newLogger(false)
	}
	return &Mirror{cfg: cfg, fetcher: fetcher, log: log}, nil
}

// Run mirrors pageURL. Resources that cannot be fetched keep their original
// reference; only a failure to fetch the page itself or to write the output
// aborts the run.
func (m *Mirror) Run(ctx context.Context, pageURL string) (*Report, error) {
	u, err := url.Parse(pageURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("page URL %q is not absolute", pageURL)
	}

	log := m.log.WithField("page", pageURL)
	log.Infof("Fetching %s", pageURL)
	body, err := m.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get page content")
	}

	content, encoding := decodeDocument(body)
	doc, err := htmlquery.Parse(strings.NewReader(content))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse HTML")
	}

	store := NewStore(m.cfg)
	if err := store.Prepare(); err != nil {
		return nil, err
	}
	log.Infof("Saving page to %s", store.Root())

	report := &Report{}
	rc := &runContext{
		cfg:     m.cfg,
		fetcher: m.fetcher,
		store:   store,
		log:     log,
		report:  report,
		pageURL: pageURL,
	}

	neutralizeBase(doc)
	if encoding != "utf-8" {
		log.Debugf("Converted page from %s to utf-8", encoding)
		normalizeCharset(doc)
	}

	// Later steps consume whatever the earlier ones leave behind
	steps := []struct {
		name string
		run  func(context.Context, *html.Node) error
	}{
		{"comments", rc.localizeComments},
		{"favicons", rc.localizeFavicons},
		{"images", rc.localizeImages},
		{"embedded objects", rc.localizeEmbeds},
		{"inline styles", rc.rewriteInlineStyles},
		{"stylesheets", rc.localizeStylesheets},
		{"scripts", rc.localizeScripts},
		{"style blocks", rc.convertStyleBlocks},
		{"script blocks", rc.convertScriptBlocks},
	}
	for _, step := range steps {
		log.Debugf("Processing %s", step.name)
		if err := step.run(ctx, doc); err != nil {
			return report, errors.Wrapf(err, "failed to process %s", step.name)
		}
	}

	written, err := store.WriteDocument(doc)
	if err != nil {
		return report, err
	}
	log.Infof("Saved %s (%d resources, %d failed)", written, len(report.Assets), len(report.Failures))
	return report, nil
}
