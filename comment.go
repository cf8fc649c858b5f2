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

import "context"

// rewriteComment recovers resources referenced by markup inside a comment,
// typically conditional comments aimed at old browsers. References resolve
// against the page and fetched files are stored as-is without further
// rewriting.
//
// With Config.CommentFaviconQuirk set, a favicon found here is stored with the
// bytes of the most recently fetched stylesheet of the same comment (empty if
// none) instead of its own content.
func rewriteComment(ctx context.Context, rc *runContext, comment, prefix string) (string, error) {
	var edits editList
	cache := assetCache{}
	var lastStylesheet []byte

	quirk := func(context.Context, *runContext, []byte, string) ([]byte, error) {
		return append([]byte(nil), lastStylesheet...), nil
	}

	favicon := target{base: rc.pageURL, kind: KindImage, relDir: rc.subdirHref(prefix, KindImage)}
	if rc.cfg.CommentFaviconQuirk {
		favicon.rewrite = quirk
	}

	groups := []struct {
		matches []match
		target  target
		onSaved func(*LocalizedAsset)
	}{
		{extractScriptSrcs(comment), target{base: rc.pageURL, kind: KindScript, relDir: rc.subdirHref(prefix, KindScript)}, nil},
		{extractStylesheetHrefs(comment), target{base: rc.pageURL, kind: KindStylesheet, relDir: rc.subdirHref(prefix, KindStylesheet)},
			func(a *LocalizedAsset) { lastStylesheet = a.Data }},
		{extractFaviconHrefs(comment), favicon, nil},
		{extractImgSrcs(comment), target{base: rc.pageURL, kind: KindImage, relDir: rc.subdirHref(prefix, KindImage)}, nil},
	}

	for _, g := range groups {
		for _, m := range g.matches {
			t := g.target
			t.ref = m.ref
			asset, err := cache.localize(ctx, rc, t)
			if err != nil {
				return "", err
			}
			if asset == nil {
				continue
			}
			if g.onSaved != nil {
				g.onSaved(asset)
			}
			edits.add(m.start, m.end, asset.Href)
		}
	}

	return edits.apply(comment), nil
}
