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
	"strings"
)

// rewriteScript localizes markup and configuration references embedded in
// script text and strips legacy comment / CDATA guards.
//
// Scripts and stylesheets found this way are rewritten recursively. Favicons
// resolve against the page, and `src:` entries are written relative to the
// document because scripts apply them to the page at runtime.
func rewriteScript(ctx context.Context, rc *runContext, js, prefix, src string) (string, error) {
	var edits editList
	cache := assetCache{}

	groups := []struct {
		matches []match
		target  target
	}{
		{extractScriptSrcs(js), target{base: src, kind: KindScript, relDir: rc.subdirHref(prefix, KindScript), rewrite: rewriteFetchedScript}},
		{extractStylesheetHrefs(js), target{base: src, kind: KindStylesheet, relDir: rc.subdirHref(prefix, KindStylesheet), rewrite: rewriteFetchedStylesheet}},
		{extractFaviconHrefs(js), target{base: rc.pageURL, kind: KindImage, relDir: rc.subdirHref(prefix, KindImage)}},
		{extractImgSrcs(js), target{base: src, kind: KindImage, relDir: rc.subdirHref(prefix, KindImage)}},
		{extractConfigSrcKeys(js), target{base: src, kind: KindImage, relDir: rc.subdirHref("./", KindImage)}},
	}

	for _, g := range groups {
		for _, m := range g.matches {
			t := g.target
			t.ref = m.ref
			asset, err := cache.localize(ctx, rc, t)
			if err != nil {
				return "", err
			}
			if asset != nil {
				edits.add(m.start, m.end, asset.Href)
			}
		}
	}

	edits.strip(js, scriptWrapperMarkers...)
	return strings.TrimSpace(edits.apply(js)), nil
}

// rewriteFetchedScript rewrites a downloaded script that will be stored in
// the script directory
func rewriteFetchedScript(ctx context.Context, rc *runContext, body []byte, src string) ([]byte, error) {
	out, err := rewriteScript(ctx, rc, string(body), "../", src)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}
