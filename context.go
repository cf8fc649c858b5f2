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
	"path"

	"github.com/sirupsen/logrus"
)

// sourceChain is the immutable list of URLs whose content is currently being
// rewritten, innermost first
type sourceChain struct {
	url    string
	parent *sourceChain
}

func (c *sourceChain) contains(url string) bool {
	for ; c != nil; c = c.parent {
		if c.url == url {
			return true
		}
	}
	return false
}

// runContext is threaded through every rewriter. Values are never mutated
// once built; descend derives the context for nested content.
type runContext struct {
	cfg     *Config
	fetcher Fetcher
	store   *Store
	log     *logrus.Entry
	report  *Report
	pageURL string
	chain   *sourceChain
}

func (rc *runContext) descend(src string) *runContext {
	next := *rc
	next.chain = &sourceChain{url: src, parent: rc.chain}
	return &next
}

// rewriteFunc turns fetched content into the bytes that are stored
type rewriteFunc func(ctx context.Context, rc *runContext, body []byte, src string) ([]byte, error)

// target describes how one reference is localized
type target struct {
	ref     ResourceReference
	base    string // URL the reference is resolved against
	kind    ResourceKind
	relDir  string // Prepended to the file name in the substituted path
	rewrite rewriteFunc
}

// localize fetches a reference, stores it and returns the resulting asset. A
// nil asset with a nil error means the reference stays untouched. Only
// filesystem failures are returned as errors.
func (rc *runContext) localize(ctx context.Context, t target) (*LocalizedAsset, error) {
	raw := t.ref.URL
	if !rc.cfg.IsEligible(raw) {
		rc.log.WithField("ref", raw).Debug("Skipping ineligible reference")
		return nil, nil
	}

	name := SanitizeFilename(path.Base(raw))
	if name == "." || name == ".." {
		rc.log.WithField("ref", raw).Debug("Skipping reference without a file name")
		return nil, nil
	}

	abs := ResolveURL(t.base, raw)
	if t.rewrite != nil && rc.chain.contains(abs) {
		rc.log.WithField("url", abs).Debug("Skipping reference that imports itself")
		return nil, nil
	}

	body, err := rc.fetcher.Fetch(ctx, abs)
	if err != nil {
		rc.log.WithField("role", t.ref.Role).Warnf("Failed to fetch %s: %v", abs, err)
		rc.report.Failures = append(rc.report.Failures, FetchFailure{Reference: t.ref, URL: abs, Err: err})
		return nil, nil
	}

	data := body
	if t.rewrite != nil {
		data, err = t.rewrite(ctx, rc.descend(abs), body, abs)
		if err != nil {
			return nil, err
		}
	}

	dir := rc.cfg.Dir(t.kind)
	written, err := rc.store.Write(dir, name, data)
	if err != nil {
		return nil, err
	}

	asset := LocalizedAsset{
		Reference: t.ref,
		URL:       abs,
		Kind:      t.kind,
		Dir:       dir,
		Filename:  name,
		Href:      t.relDir + name,
		Path:      written,
		Data:      data,
	}
	rc.report.Assets = append(rc.report.Assets, asset)
	rc.log.WithField("kind", t.kind).Infof("Saved %s to %s", abs, path.Join(dir, name))
	return &asset, nil
}

// assetCache remembers the outcome of each reference within one rewrite pass
// so repeated references are fetched once
type assetCache map[string]*LocalizedAsset

func (c assetCache) localize(ctx context.Context, rc *runContext, t target) (*LocalizedAsset, error) {
	key := t.ref.Role.String() + "\x00" + t.base + "\x00" + t.ref.URL
	if asset, ok := c[key]; ok {
		return asset, nil
	}
	asset, err := rc.localize(ctx, t)
	if err != nil {
		return nil, err
	}
	c[key] = asset
	return asset, nil
}

// subdirHref is the relative directory of kind as seen from prefix
func (rc *runContext) subdirHref(prefix string, kind ResourceKind) string {
	return prefix + rc.cfg.Dir(kind) + "/"
}
