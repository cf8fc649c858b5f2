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
	"regexp"
	"strings"
)

// RFC 3986 appendix B reference splitter. It never fails, which lets the
// resolver handle the loosely formed URLs found in scraped content.
var referencePattern = regexp.MustCompile(`^(([^:/?#]+):)?(//([^/?#]*))?([^?#]*)(\?([^#]*))?(#(.*))?`)

type urlParts struct {
	scheme       string
	hasAuthority bool
	authority    string // userinfo@host:port
	path         string
	query        string // including the leading '?'
	fragment     string // including the leading '#'
}

func splitURL(raw string) urlParts {
	m := referencePattern.FindStringSubmatch(raw)
	if m == nil {
		return urlParts{path: raw}
	}
	return urlParts{
		scheme:       m[2],
		hasAuthority: m[3] != "",
		authority:    m[4],
		path:         m[5],
		query:        m[6],
		fragment:     m[8],
	}
}

// ResolveURL builds an absolute URL for candidate relative to base.
//
// Already absolute candidates are returned unchanged, protocol-relative ones
// borrow the scheme of base. Everything else keeps the scheme and authority of
// base; the path is the candidate path when it starts with '/', is appended to
// base's path when that ends in '/', and otherwise replaces the final segment
// of base's path. Query and fragment always come from the candidate. Dot
// segments are not normalized.
func ResolveURL(base, candidate string) string {
	if candidate == "" {
		return ""
	}

	ref := splitURL(candidate)
	if ref.scheme != "" && ref.hasAuthority && ref.authority != "" {
		return candidate
	}

	b := splitURL(base)
	if ref.hasAuthority && ref.authority != "" {
		return b.scheme + ":" + strings.TrimPrefix(candidate, ref.scheme+":")
	}

	prefix := b.scheme + "://" + b.authority
	basePath := b.path
	if basePath == "" {
		basePath = "/"
	}
	refPath := ref.path
	if refPath == "" {
		refPath = "/"
	}
	tail := ref.query + ref.fragment

	switch {
	case strings.HasPrefix(refPath, "/"):
		return prefix + refPath + tail
	case strings.HasSuffix(basePath, "/"):
		return prefix + basePath + refPath + tail
	default:
		dir := basePath[:strings.LastIndex(basePath, "/")+1]
		return prefix + dir + refPath + tail
	}
}
