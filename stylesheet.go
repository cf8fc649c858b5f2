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
	"fmt"
	"strings"
)

// rewriteStylesheet localizes every @import and url() reference in css.
//
// prefix is the relative path from the location the rewritten text ends up in
// back to the output root ("./" for the document itself, "../" for files in a
// subdirectory). src is the URL relative references are resolved against.
// Imported stylesheets are rewritten recursively, depth first.
func rewriteStylesheet(ctx context.Context, rc *runContext, css, prefix, src string) (string, error) {
	var edits editList
	cache := assetCache{}

	imports := append(extractCSSImportURLs(css), extractCSSImportStrings(css)...)
	for _, m := range imports {
		asset, err := cache.localize(ctx, rc, target{
			ref:     m.ref,
			base:    src,
			kind:    KindStylesheet,
			relDir:  importHref(rc, prefix),
			rewrite: rewriteFetchedStylesheet,
		})
		if err != nil {
			return "", err
		}
		if asset != nil {
			edits.add(m.start, m.end, fmt.Sprintf(m.format, asset.Href))
		}
	}

	for _, m := range extractCSSURLs(css) {
		kind := classifyExtension(m.ref.URL)
		asset, err := cache.localize(ctx, rc, target{
			ref:    m.ref,
			base:   src,
			kind:   kind,
			relDir: rc.subdirHref(prefix, kind),
		})
		if err != nil {
			return "", err
		}
		if asset != nil {
			edits.add(m.start, m.end, fmt.Sprintf(m.format, asset.Href))
		}
	}

	edits.strip(css, cssCommentMarkers...)
	return toUTF8(strings.TrimSpace(edits.apply(css)), "text/css"), nil
}

// rewriteFetchedStylesheet rewrites a downloaded stylesheet that will be
// stored in the stylesheet directory
func rewriteFetchedStylesheet(ctx context.Context, rc *runContext, body []byte, src string) ([]byte, error) {
	out, err := rewriteStylesheet(ctx, rc, string(body), "../", src)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// importHref is where imported stylesheets are found relative to the text
// being rewritten. Stylesheet files sit next to their imports; anything else
// reaches them through the stylesheet directory.
func importHref(rc *runContext, prefix string) string {
	if prefix == "../" {
		return "./"
	}
	return rc.subdirHref(prefix, KindStylesheet)
}
